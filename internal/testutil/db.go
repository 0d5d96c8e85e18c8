// Package testutil builds throwaway databases and fixtures for tests.
package testutil

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/barber-booking/internal/db"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// ErrInjected is returned by statements failed through FailCreate.
var ErrInjected = errors.New("injected storage failure")

// NewDB returns a private in-memory SQLite database with the production
// schema applied.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc:        db.NowUTC,
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// one connection, one database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))
	return gdb
}

// FailCreate makes every INSERT into table fail with ErrInjected.
func FailCreate(t *testing.T, gdb *gorm.DB, table string) {
	t.Helper()

	name := fmt.Sprintf("testutil:fail_create_%s", table)
	err := gdb.Callback().Create().Before("gorm:create").Register(name, func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			_ = tx.AddError(ErrInjected)
		}
	})
	require.NoError(t, err)
}

func Count(t *testing.T, gdb *gorm.DB, model any, query string, args ...any) int64 {
	t.Helper()

	var n int64
	q := gdb.Unscoped().Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

// ===============================
// Fixtures
// ===============================

func SeedUser(t *testing.T, gdb *gorm.DB, role models.UserRole) *models.User {
	t.Helper()

	u := &models.User{
		Email:        fmt.Sprintf("%s@example.com", uuid.NewString()),
		PasswordHash: "x",
		Role:         role,
		Username:     string(role),
	}
	require.NoError(t, gdb.Create(u).Error)
	return u
}

func Coords(lat, lng float64) (*float64, *float64) {
	return &lat, &lng
}

// SeedShop creates a barbershop owned by owner.
func SeedShop(t *testing.T, gdb *gorm.DB, owner *models.User) *models.Barbershop {
	t.Helper()

	shop := &models.Barbershop{
		Name:     "Shop " + uuid.NewString()[:8],
		Address:  "Calle Mayor 1",
		City:     "Madrid",
		Timezone: "Europe/Madrid",
	}
	require.NoError(t, gdb.Create(shop).Error)

	SeedMember(t, gdb, owner, shop, models.StaffOwner)
	return shop
}

func SeedMember(
	t *testing.T,
	gdb *gorm.DB,
	user *models.User,
	shop *models.Barbershop,
	role models.StaffRole,
) *models.BarberProfile {
	t.Helper()

	p := &models.BarberProfile{
		UserID:       user.ID,
		BarbershopID: shop.ID,
		Role:         role,
	}
	require.NoError(t, gdb.Create(p).Error)
	return p
}

func SeedService(
	t *testing.T,
	gdb *gorm.DB,
	shop *models.Barbershop,
	name string,
	price string,
) *models.Service {
	t.Helper()

	s := &models.Service{
		BarbershopID:    shop.ID,
		Name:            name,
		Price:           decimal.RequireFromString(price),
		DurationMinutes: 30,
		IsActive:        true,
	}
	require.NoError(t, gdb.Create(s).Error)
	return s
}
