package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type ListFilter struct {
	BarbershopID    *uuid.UUID
	BarberProfileID *uuid.UUID
	ClientID        *uuid.UUID

	From *time.Time
	To   *time.Time

	Limit  int
	Offset int
}

// Repository lookups return gorm.ErrRecordNotFound for missing rows.
type Repository interface {
	// WithinTx runs fn against a repository bound to one transaction.
	WithinTx(ctx context.Context, fn func(Repository) error) error

	// -------- Identity / Catalog --------
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)

	GetBarbershop(ctx context.Context, id uuid.UUID) (*models.Barbershop, error)

	FindBarberProfile(
		ctx context.Context,
		userID uuid.UUID,
		barbershopID uuid.UUID,
	) (*models.BarberProfile, error)

	// FindShopServices returns the non-deleted services of the shop whose
	// id is in ids.
	FindShopServices(
		ctx context.Context,
		barbershopID uuid.UUID,
		ids []uuid.UUID,
	) ([]models.Service, error)

	// -------- Customer --------
	GetOrCreateCustomer(
		ctx context.Context,
		userID uuid.UUID,
		barbershopID uuid.UUID,
	) (*models.Customer, error)

	RecordCustomerVisit(
		ctx context.Context,
		customerID uuid.UUID,
		amount decimal.Decimal,
		visit time.Time,
	) error

	// -------- Appointment --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
		serviceIDs []uuid.UUID,
	) error

	ReplaceAppointmentServices(
		ctx context.Context,
		appointmentID uuid.UUID,
		serviceIDs []uuid.UUID,
	) error

	GetAppointment(ctx context.Context, id uuid.UUID) (*models.Appointment, error)

	UpdateAppointment(ctx context.Context, ap *models.Appointment) error

	DeleteAppointment(ctx context.Context, id uuid.UUID) error

	ListAppointments(
		ctx context.Context,
		f ListFilter,
	) ([]models.Appointment, int64, error)
}
