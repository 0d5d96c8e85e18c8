package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/domain/authz"
	"github.com/BruksfildServices01/barber-booking/internal/domain/identity"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/token"
)

const (
	minPasswordLength = 6

	reasonInvalidPassword    = "invalid_password"
	reasonInvalidEmailDomain = "invalid_email_domain"
	reasonInvalidToken       = "invalid_token"
)

// DomainChecker reports whether an email's domain can receive mail.
type DomainChecker func(ctx context.Context, email string) bool

type Service struct {
	repo        identity.Repository
	tokens      *token.Issuer
	checkDomain DomainChecker
}

// NewService wires the account flows. checkDomain may be nil.
func NewService(
	repo identity.Repository,
	tokens *token.Issuer,
	checkDomain DomainChecker,
) *Service {
	return &Service{
		repo:        repo,
		tokens:      tokens,
		checkDomain: checkDomain,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	Role     models.UserRole
	Username string
	Phone    string
}

type Session struct {
	User   *models.User `json:"user"`
	Tokens token.Pair   `json:"tokens"`
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	role := in.Role
	if role == "" {
		role = models.RoleClient
	}
	if !identity.SelfAssignable(role) {
		return nil, httperr.ErrBusiness(identity.ReasonInvalidRole)
	}

	if len(in.Password) < minPasswordLength {
		return nil, httperr.ErrBusiness(reasonInvalidPassword)
	}

	email := identity.NormalizeEmail(in.Email)
	if s.checkDomain != nil && !s.checkDomain(ctx, email) {
		return nil, httperr.ErrBusiness(reasonInvalidEmailDomain)
	}

	if err := s.ensureEmailFree(ctx, email, uuid.Nil); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Username:     strings.TrimSpace(in.Username),
		Phone:        strings.TrimSpace(in.Phone),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if httperr.IsUniqueViolation(err) {
			return nil, httperr.ErrConflict(identity.ReasonEmailTaken)
		}
		return nil, err
	}

	return s.startSession(ctx, user)
}

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrUnauthorized(identity.ReasonInvalidCredentials)
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, httperr.ErrUnauthorized(identity.ReasonInvalidCredentials)
	}

	return s.startSession(ctx, user)
}

// Refresh exchanges a live refresh token for a new pair. The presented
// token is retired, so each refresh token works once.
func (s *Service) Refresh(ctx context.Context, raw string) (*Session, error) {
	claims, err := s.tokens.Parse(raw, token.TypeRefresh)
	if err != nil {
		return nil, httperr.ErrUnauthorized(reasonInvalidToken)
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, httperr.ErrUnauthorized(reasonInvalidToken)
	}

	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrUnauthorized(reasonInvalidToken)
		}
		return nil, err
	}

	if user.RefreshTokenHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.RefreshTokenHash), digest(raw)) != nil {
		return nil, httperr.ErrUnauthorized(reasonInvalidToken)
	}

	return s.startSession(ctx, user)
}

func (s *Service) Logout(ctx context.Context, actor authz.Principal) error {
	return s.repo.SetRefreshTokenHash(ctx, actor.ID, "")
}

// DeleteAccount removes the caller and everything that references it.
// Shop owners must delete or hand over their shops first.
func (s *Service) DeleteAccount(ctx context.Context, actor authz.Principal) error {
	return s.repo.WithinTx(ctx, func(tx identity.Repository) error {
		if _, err := tx.GetUser(ctx, actor.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return httperr.ErrNotFound(identity.ReasonUserNotFound)
			}
			return err
		}

		memberships, err := tx.ListMemberships(ctx, actor.ID)
		if err != nil {
			return err
		}
		for _, m := range memberships {
			if m.Role == models.StaffOwner {
				return httperr.ErrConflict(identity.ReasonOwnsBarbershop)
			}
		}

		return tx.DeleteUser(ctx, actor.ID)
	})
}

type Profile struct {
	User        *models.User           `json:"user"`
	Memberships []models.BarberProfile `json:"memberships"`
}

func (s *Service) Me(ctx context.Context, actor authz.Principal) (*Profile, error) {
	user, err := s.loadUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	memberships, err := s.repo.ListMemberships(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &Profile{User: user, Memberships: memberships}, nil
}

type UpdateProfileInput struct {
	Email    *string
	Password *string
	Username *string
	Phone    *string
}

func (s *Service) UpdateProfile(
	ctx context.Context,
	actor authz.Principal,
	in UpdateProfileInput,
) (*models.User, error) {

	user, err := s.loadUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	if in.Email != nil {
		email := identity.NormalizeEmail(*in.Email)
		if email != user.Email {
			if s.checkDomain != nil && !s.checkDomain(ctx, email) {
				return nil, httperr.ErrBusiness(reasonInvalidEmailDomain)
			}
			if err := s.ensureEmailFree(ctx, email, user.ID); err != nil {
				return nil, err
			}
			user.Email = email
			user.EmailVerified = false
		}
	}

	if in.Password != nil {
		if len(*in.Password) < minPasswordLength {
			return nil, httperr.ErrBusiness(reasonInvalidPassword)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	if in.Username != nil {
		user.Username = strings.TrimSpace(*in.Username)
	}
	if in.Phone != nil {
		user.Phone = strings.TrimSpace(*in.Phone)
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		if httperr.IsUniqueViolation(err) {
			return nil, httperr.ErrConflict(identity.ReasonEmailTaken)
		}
		return nil, err
	}

	return user, nil
}

func (s *Service) loadUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound(identity.ReasonUserNotFound)
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) ensureEmailFree(ctx context.Context, email string, self uuid.UUID) error {
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != self {
		return httperr.ErrConflict(identity.ReasonEmailTaken)
	}
	return nil
}

func (s *Service) startSession(ctx context.Context, user *models.User) (*Session, error) {
	pair, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword(digest(pair.RefreshToken), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetRefreshTokenHash(ctx, user.ID, string(hash)); err != nil {
		return nil, err
	}
	user.RefreshTokenHash = string(hash)

	return &Session{User: user, Tokens: pair}, nil
}

// digest keeps the bcrypt input under its 72 byte limit.
func digest(raw string) []byte {
	sum := sha256.Sum256([]byte(raw))
	return []byte(hex.EncodeToString(sum[:]))
}
