package accessrequest

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// Repository lookups return gorm.ErrRecordNotFound for missing rows.
type Repository interface {
	WithinTx(ctx context.Context, fn func(Repository) error) error

	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)

	GetBarbershop(ctx context.Context, id uuid.UUID) (*models.Barbershop, error)

	// FindMembership returns nil, nil when the user has no profile in the shop.
	FindMembership(
		ctx context.Context,
		userID uuid.UUID,
		barbershopID uuid.UUID,
	) (*models.BarberProfile, error)

	HasPending(
		ctx context.Context,
		userID uuid.UUID,
		barbershopID uuid.UUID,
	) (bool, error)

	Create(ctx context.Context, req *models.AccessRequest) error

	Get(ctx context.Context, id uuid.UUID) (*models.AccessRequest, error)

	// GetForUpdate reads the request holding a row lock until the
	// surrounding transaction ends.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*models.AccessRequest, error)

	// Decide moves a PENDING request to status. It reports false when the
	// row was no longer PENDING.
	Decide(
		ctx context.Context,
		id uuid.UUID,
		status Status,
		decidedBy uuid.UUID,
		at time.Time,
	) (bool, error)

	CreateMembership(ctx context.Context, p *models.BarberProfile) error

	ListByShop(
		ctx context.Context,
		barbershopID uuid.UUID,
		status *Status,
	) ([]models.AccessRequest, error)

	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.AccessRequest, error)
}
