package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/domain/authz"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/catalog"
	"github.com/BruksfildServices01/barber-booking/internal/domain/geo"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateBarbershopInput struct {
	Name           string
	Address        string
	City           string
	State          string
	ZipCode        string
	AdditionalInfo string
	Phone          string
	Timezone       string

	// Explicit coordinates skip geocoding.
	Lat *float64
	Lng *float64
}

// Nil fields are left unchanged.
type UpdateBarbershopInput struct {
	Name           *string
	Address        *string
	City           *string
	State          *string
	ZipCode        *string
	AdditionalInfo *string
	Phone          *string
	Timezone       *string

	Lat *float64
	Lng *float64
}

// ======================================================
// USE CASE
// ======================================================

type Barbershops struct {
	repo     domain.Repository
	authz    *authz.Authorizer
	geocoder geo.Geocoder
	audit    *audit.Dispatcher
}

func NewBarbershops(
	repo domain.Repository,
	authorizer *authz.Authorizer,
	geocoder geo.Geocoder,
	audit *audit.Dispatcher,
) *Barbershops {
	return &Barbershops{
		repo:     repo,
		authz:    authorizer,
		geocoder: geocoder,
		audit:    audit,
	}
}

// Create stores the shop and makes actor its OWNER in one transaction.
// Geocoding runs first, outside the transaction; when it fails the shop is
// stored without coordinates.
func (uc *Barbershops) Create(
	ctx context.Context,
	actor authz.Principal,
	in CreateBarbershopInput,
) (*models.Barbershop, error) {

	user, err := uc.repo.GetUser(ctx, actor.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if user == nil || (user.Role != models.RoleBarber && user.Role != models.RoleAdmin) {
		return nil, httperr.ErrForbidden(domain.ReasonNotBarber)
	}

	shop := &models.Barbershop{
		Name:           in.Name,
		Address:        in.Address,
		City:           in.City,
		State:          in.State,
		ZipCode:        in.ZipCode,
		AdditionalInfo: in.AdditionalInfo,
		Phone:          in.Phone,
		Timezone:       normalizeTimezone(in.Timezone),
	}

	if err := uc.locate(ctx, shop, in.Lat, in.Lng); err != nil {
		return nil, err
	}

	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		if err := tx.CreateBarbershop(ctx, shop); err != nil {
			return err
		}
		return tx.CreateMembership(ctx, &models.BarberProfile{
			UserID:       user.ID,
			BarbershopID: shop.ID,
			Role:         models.StaffOwner,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: shop.ID,
		UserID:       &user.ID,
		Action:       audit.ActionShopCreated,
		Entity:       "barbershop",
		EntityID:     &shop.ID,
	})

	return shop, nil
}

func (uc *Barbershops) Update(
	ctx context.Context,
	actor authz.Principal,
	shopID uuid.UUID,
	in UpdateBarbershopInput,
) (*models.Barbershop, error) {

	shop, err := uc.Get(ctx, shopID)
	if err != nil {
		return nil, err
	}

	if err := uc.authz.Require(ctx, actor, shop.ID, authz.RequireOwner); err != nil {
		return nil, err
	}

	before := shop.FullAddress()

	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&shop.Name, in.Name)
	set(&shop.Address, in.Address)
	set(&shop.City, in.City)
	set(&shop.State, in.State)
	set(&shop.ZipCode, in.ZipCode)
	set(&shop.AdditionalInfo, in.AdditionalInfo)
	set(&shop.Phone, in.Phone)
	if in.Timezone != nil {
		shop.Timezone = normalizeTimezone(*in.Timezone)
	}

	switch {
	case in.Lat != nil || in.Lng != nil:
		if err := uc.locate(ctx, shop, in.Lat, in.Lng); err != nil {
			return nil, err
		}
	case shop.FullAddress() != before:
		shop.Lat, shop.Lng = nil, nil
		if err := uc.locate(ctx, shop, nil, nil); err != nil {
			return nil, err
		}
	}

	if err := uc.repo.UpdateBarbershop(ctx, shop); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: shop.ID,
		UserID:       &actor.ID,
		Action:       audit.ActionShopUpdated,
		Entity:       "barbershop",
		EntityID:     &shop.ID,
	})

	return shop, nil
}

// Delete removes the shop with its staff, services, customers,
// appointments and access requests.
func (uc *Barbershops) Delete(
	ctx context.Context,
	actor authz.Principal,
	shopID uuid.UUID,
) error {

	shop, err := uc.Get(ctx, shopID)
	if err != nil {
		return err
	}

	if err := uc.authz.Require(ctx, actor, shop.ID, authz.RequireOwner); err != nil {
		return err
	}

	return uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		return tx.DeleteBarbershop(ctx, shop.ID)
	})
}

func (uc *Barbershops) Get(ctx context.Context, shopID uuid.UUID) (*models.Barbershop, error) {
	shop, err := uc.repo.GetBarbershop(ctx, shopID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrNotFound(domain.ReasonShopNotFound)
	}
	return shop, err
}

func (uc *Barbershops) List(ctx context.Context, limit, offset int) ([]models.Barbershop, int64, error) {
	return uc.repo.ListBarbershops(ctx, limit, offset)
}

// Staff lists the shop's profiles for its members.
func (uc *Barbershops) Staff(
	ctx context.Context,
	actor authz.Principal,
	shopID uuid.UUID,
) ([]models.BarberProfile, error) {

	shop, err := uc.Get(ctx, shopID)
	if err != nil {
		return nil, err
	}

	if err := uc.authz.Require(ctx, actor, shop.ID, authz.RequireMember); err != nil {
		return nil, err
	}
	return uc.repo.ListStaff(ctx, shop.ID)
}

// Nearby returns the geocoded shops within q's radius, nearest first.
func (uc *Barbershops) Nearby(ctx context.Context, q geo.Query) ([]geo.Result, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	candidates, err := uc.repo.FindBarbershopsInBox(ctx, q.Bounds())
	if err != nil {
		return nil, err
	}
	return geo.Rank(q, candidates), nil
}

// locate fills the shop coordinates from lat/lng when both are given,
// otherwise from the geocoder.
func (uc *Barbershops) locate(
	ctx context.Context,
	shop *models.Barbershop,
	lat, lng *float64,
) error {

	if lat != nil || lng != nil {
		if lat == nil || lng == nil {
			return httperr.ErrBusiness("invalid_coordinates")
		}
		if err := (geo.Query{Origin: geo.Point{Lat: *lat, Lng: *lng}, RadiusKm: 1}).Validate(); err != nil {
			return err
		}
		shop.Lat, shop.Lng = lat, lng
		return nil
	}

	if uc.geocoder == nil {
		return nil
	}

	p, err := uc.geocoder.Resolve(ctx, shop.FullAddress())
	if err != nil {
		log.Warn().
			Err(err).
			Str("address", shop.FullAddress()).
			Msg("geocoding failed, storing shop without coordinates")
		return nil
	}

	shop.Lat, shop.Lng = &p.Lat, &p.Lng
	return nil
}

func normalizeTimezone(tz string) string {
	if timezone.IsValid(tz) {
		return tz
	}
	return timezone.DefaultTimezone
}
