package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

const (
	ReasonEmailTaken         = "email_taken"
	ReasonInvalidCredentials = "invalid_credentials"
	ReasonInvalidRole        = "invalid_role"
	ReasonUserNotFound       = "user_not_found"
	ReasonOwnsBarbershop     = "owns_barbershop"
)

// NormalizeEmail is the stored and compared form of an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SelfAssignable reports whether a role may be chosen at registration.
func SelfAssignable(role models.UserRole) bool {
	return role == models.RoleClient || role == models.RoleBarber
}

// Repository lookups return gorm.ErrRecordNotFound for missing rows.
type Repository interface {
	WithinTx(ctx context.Context, fn func(Repository) error) error

	CreateUser(ctx context.Context, u *models.User) error

	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)

	FindByEmail(ctx context.Context, email string) (*models.User, error)

	UpdateUser(ctx context.Context, u *models.User) error

	SetRefreshTokenHash(ctx context.Context, id uuid.UUID, hash string) error

	FindMembership(
		ctx context.Context,
		userID uuid.UUID,
		barbershopID uuid.UUID,
	) (*models.BarberProfile, error)

	ListMemberships(ctx context.Context, userID uuid.UUID) ([]models.BarberProfile, error)

	// DeleteUser removes the user with its profiles, customer rows,
	// access requests and every appointment it booked or serves.
	// Decisions and audit rows it authored keep a null reference.
	DeleteUser(ctx context.Context, id uuid.UUID) error
}
