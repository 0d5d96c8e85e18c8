package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/domain/authz"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/catalog"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type CreateServiceInput struct {
	Name            string
	Description     string
	Price           decimal.Decimal
	DurationMinutes int
	Category        string
	IsActive        *bool
}

// Nil fields are left unchanged.
type UpdateServiceInput struct {
	Name            *string
	Description     *string
	Price           *decimal.Decimal
	DurationMinutes *int
	Category        *string
	IsActive        *bool
}

type ListServicesInput struct {
	IncludeDeleted bool
	Limit          int
	Offset         int
}

type Services struct {
	repo  domain.Repository
	authz *authz.Authorizer
	audit *audit.Dispatcher
}

func NewServices(
	repo domain.Repository,
	authorizer *authz.Authorizer,
	audit *audit.Dispatcher,
) *Services {
	return &Services{
		repo:  repo,
		authz: authorizer,
		audit: audit,
	}
}

func (uc *Services) Create(
	ctx context.Context,
	actor authz.Principal,
	shopID uuid.UUID,
	in CreateServiceInput,
) (*models.Service, error) {

	if _, err := uc.shop(ctx, shopID); err != nil {
		return nil, err
	}

	if err := uc.authz.Require(ctx, actor, shopID, authz.RequireOwner); err != nil {
		return nil, err
	}

	s := &models.Service{
		BarbershopID:    shopID,
		Name:            domain.NormalizeName(in.Name),
		Description:     in.Description,
		Price:           in.Price,
		DurationMinutes: in.DurationMinutes,
		Category:        in.Category,
		IsActive:        in.IsActive == nil || *in.IsActive,
	}

	if err := uc.validate(ctx, s, nil); err != nil {
		return nil, err
	}

	if err := uc.repo.CreateService(ctx, s); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: shopID,
		UserID:       &actor.ID,
		Action:       audit.ActionServiceCreated,
		Entity:       "service",
		EntityID:     &s.ID,
	})

	return s, nil
}

func (uc *Services) Update(
	ctx context.Context,
	actor authz.Principal,
	serviceID uuid.UUID,
	in UpdateServiceInput,
) (*models.Service, error) {

	s, err := uc.Get(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	if err := uc.authz.Require(ctx, actor, s.BarbershopID, authz.RequireOwner); err != nil {
		return nil, err
	}

	if in.Name != nil {
		s.Name = domain.NormalizeName(*in.Name)
	}
	if in.Description != nil {
		s.Description = *in.Description
	}
	if in.Price != nil {
		s.Price = *in.Price
	}
	if in.DurationMinutes != nil {
		s.DurationMinutes = *in.DurationMinutes
	}
	if in.Category != nil {
		s.Category = *in.Category
	}
	if in.IsActive != nil {
		s.IsActive = *in.IsActive
	}

	if err := uc.validate(ctx, s, &s.ID); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateService(ctx, s); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: s.BarbershopID,
		UserID:       &actor.ID,
		Action:       audit.ActionServiceUpdated,
		Entity:       "service",
		EntityID:     &s.ID,
	})

	return s, nil
}

// Delete soft-deletes the service; appointments keep pointing at it.
func (uc *Services) Delete(
	ctx context.Context,
	actor authz.Principal,
	serviceID uuid.UUID,
) error {

	s, err := uc.Get(ctx, serviceID)
	if err != nil {
		return err
	}

	if err := uc.authz.Require(ctx, actor, s.BarbershopID, authz.RequireOwner); err != nil {
		return err
	}

	if err := uc.repo.SoftDeleteService(ctx, s.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.ErrNotFound(domain.ReasonServiceNotFound)
		}
		return err
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: s.BarbershopID,
		UserID:       &actor.ID,
		Action:       audit.ActionServiceDeleted,
		Entity:       "service",
		EntityID:     &s.ID,
	})

	return nil
}

func (uc *Services) Get(ctx context.Context, serviceID uuid.UUID) (*models.Service, error) {
	s, err := uc.repo.GetService(ctx, serviceID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrNotFound(domain.ReasonServiceNotFound)
	}
	return s, err
}

// ListByShop is public and never shows deleted services.
func (uc *Services) ListByShop(
	ctx context.Context,
	shopID uuid.UUID,
	limit, offset int,
) ([]models.Service, int64, error) {

	if _, err := uc.shop(ctx, shopID); err != nil {
		return nil, 0, err
	}

	return uc.repo.ListServices(ctx, domain.ServiceFilter{
		BarbershopID: &shopID,
		Limit:        limit,
		Offset:       offset,
	})
}

// ListAll spans every shop and is reserved to admins.
func (uc *Services) ListAll(
	ctx context.Context,
	actor authz.Principal,
	in ListServicesInput,
) ([]models.Service, int64, error) {

	if err := authz.Evaluate(actor, uuid.Nil, nil, authz.RequirePlatformRead).Err(); err != nil {
		return nil, 0, err
	}

	return uc.repo.ListServices(ctx, domain.ServiceFilter{
		IncludeDeleted: in.IncludeDeleted,
		Limit:          in.Limit,
		Offset:         in.Offset,
	})
}

func (uc *Services) validate(ctx context.Context, s *models.Service, exceptID *uuid.UUID) error {
	if s.Name == "" {
		return httperr.ErrBusiness("invalid_name")
	}
	if err := domain.ValidatePrice(s.Price); err != nil {
		return err
	}
	if err := domain.ValidateDuration(s.DurationMinutes); err != nil {
		return err
	}

	taken, err := uc.repo.ServiceNameTaken(ctx, s.BarbershopID, s.Name, exceptID)
	if err != nil {
		return err
	}
	if taken {
		return httperr.ErrConflict(domain.ReasonServiceNameTaken)
	}
	return nil
}

func (uc *Services) shop(ctx context.Context, shopID uuid.UUID) (*models.Barbershop, error) {
	shop, err := uc.repo.GetBarbershop(ctx, shopID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrNotFound(domain.ReasonShopNotFound)
	}
	return shop, err
}
