package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/barber-booking/internal/config"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

func NewDB(cfg *config.Config) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if cfg.IsProduction() {
		logLevel = gormlogger.Error
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(logLevel),
		NowFunc:        NowUTC,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates the schema. Tests run it against SQLite, so every
// statement here must be valid on both engines.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Barbershop{},
		&models.BarberProfile{},
		&models.Customer{},
		&models.Service{},
		&models.Appointment{},
		&models.AppointmentService{},
		&models.AccessRequest{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	// at most one open request per (user, shop)
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS ux_access_requests_pending
		ON access_requests (user_id, barbershop_id)
		WHERE status = 'PENDING'
	`).Error; err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	return nil
}

// NowUTC stamps created_at/updated_at so stored times compare consistently.
func NowUTC() time.Time {
	return time.Now().UTC()
}
