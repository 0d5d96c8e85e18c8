package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barber-booking/internal/domain/geo"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

const (
	ReasonNotBarber        = "not_barber"
	ReasonShopNotFound     = "shop_not_found"
	ReasonServiceNotFound  = "service_not_found"
	ReasonServiceNameTaken = "service_name_taken"
	ReasonInvalidPrice     = "invalid_price"
	ReasonInvalidDuration  = "invalid_duration"
)

// ValidatePrice requires a positive amount with at most two decimals.
func ValidatePrice(p decimal.Decimal) error {
	if !p.IsPositive() || !p.Equal(p.Round(2)) {
		return httperr.ErrBusiness(ReasonInvalidPrice)
	}
	return nil
}

func ValidateDuration(minutes int) error {
	if minutes < 1 {
		return httperr.ErrBusiness(ReasonInvalidDuration)
	}
	return nil
}

// NormalizeName is the form service names are compared in.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

type ServiceFilter struct {
	BarbershopID   *uuid.UUID
	IncludeDeleted bool

	Limit  int
	Offset int
}

// Repository lookups return gorm.ErrRecordNotFound for missing rows.
type Repository interface {
	WithinTx(ctx context.Context, fn func(Repository) error) error

	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)

	// -------- Barbershop --------
	CreateBarbershop(ctx context.Context, shop *models.Barbershop) error

	GetBarbershop(ctx context.Context, id uuid.UUID) (*models.Barbershop, error)

	UpdateBarbershop(ctx context.Context, shop *models.Barbershop) error

	// DeleteBarbershop removes the shop and every row that belongs to it.
	// Callers run it inside WithinTx.
	DeleteBarbershop(ctx context.Context, id uuid.UUID) error

	ListBarbershops(ctx context.Context, limit, offset int) ([]models.Barbershop, int64, error)

	// FindBarbershopsInBox returns geocoded shops inside box. It is a
	// prefilter; callers still apply the exact radius test.
	FindBarbershopsInBox(ctx context.Context, box geo.BoundingBox) ([]models.Barbershop, error)

	// -------- Staff --------
	CreateMembership(ctx context.Context, p *models.BarberProfile) error

	ListStaff(ctx context.Context, barbershopID uuid.UUID) ([]models.BarberProfile, error)

	// -------- Service --------
	CreateService(ctx context.Context, s *models.Service) error

	// GetService never returns soft-deleted rows.
	GetService(ctx context.Context, id uuid.UUID) (*models.Service, error)

	ServiceNameTaken(
		ctx context.Context,
		barbershopID uuid.UUID,
		name string,
		exceptID *uuid.UUID,
	) (bool, error)

	UpdateService(ctx context.Context, s *models.Service) error

	SoftDeleteService(ctx context.Context, id uuid.UUID) error

	ListServices(ctx context.Context, f ServiceFilter) ([]models.Service, int64, error)
}
