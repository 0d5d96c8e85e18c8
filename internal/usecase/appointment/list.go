package appointment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/domain/authz"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type Page struct {
	Limit  int
	Offset int
}

type ListResult struct {
	Items []models.Appointment
	Total int64
}

type ListAppointments struct {
	repo  domain.Repository
	authz *authz.Authorizer
}

func NewListAppointments(repo domain.Repository, authorizer *authz.Authorizer) *ListAppointments {
	return &ListAppointments{repo: repo, authz: authorizer}
}

// ======================================================
// By shop and day (any member)
// ======================================================

// ByShopDay lists one calendar day, date as YYYY-MM-DD in the shop timezone.
func (uc *ListAppointments) ByShopDay(
	ctx context.Context,
	actor authz.Principal,
	shopID uuid.UUID,
	date string,
	page Page,
) (*ListResult, error) {

	shop, err := uc.shop(ctx, shopID)
	if err != nil {
		return nil, err
	}

	if err := uc.authz.Require(ctx, actor, shop.ID, authz.RequireMember); err != nil {
		return nil, err
	}

	f, err := dayFilter(date, shop.Timezone, page)
	if err != nil {
		return nil, err
	}
	f.BarbershopID = &shop.ID

	return uc.run(ctx, f)
}

// ======================================================
// By barber and day (the barber, or the owner)
// ======================================================

func (uc *ListAppointments) ByBarberDay(
	ctx context.Context,
	actor authz.Principal,
	shopID uuid.UUID,
	barberUserID uuid.UUID,
	date string,
	page Page,
) (*ListResult, error) {

	shop, err := uc.shop(ctx, shopID)
	if err != nil {
		return nil, err
	}

	if actor.ID != barberUserID {
		if err := uc.authz.Require(ctx, actor, shop.ID, authz.RequireOwner); err != nil {
			return nil, err
		}
	}

	profile, err := uc.repo.FindBarberProfile(ctx, barberUserID, shop.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness(domain.ReasonBarberNotInShop)
	}
	if err != nil {
		return nil, err
	}

	f, err := dayFilter(date, shop.Timezone, page)
	if err != nil {
		return nil, err
	}
	f.BarbershopID = &shop.ID
	f.BarberProfileID = &profile.ID

	return uc.run(ctx, f)
}

// ======================================================
// Caller's own bookings
// ======================================================

func (uc *ListAppointments) ForClient(
	ctx context.Context,
	actor authz.Principal,
	page Page,
) (*ListResult, error) {

	return uc.run(ctx, domain.ListFilter{
		ClientID: &actor.ID,
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
}

func (uc *ListAppointments) shop(ctx context.Context, id uuid.UUID) (*models.Barbershop, error) {
	shop, err := uc.repo.GetBarbershop(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrNotFound(domain.ReasonShopNotFound)
	}
	return shop, err
}

func (uc *ListAppointments) run(ctx context.Context, f domain.ListFilter) (*ListResult, error) {
	items, total, err := uc.repo.ListAppointments(ctx, f)
	if err != nil {
		return nil, err
	}
	return &ListResult{Items: items, Total: total}, nil
}

func dayFilter(date, tz string, page Page) (domain.ListFilter, error) {
	start, end, err := timezone.DayRange(date, tz)
	if err != nil {
		return domain.ListFilter{}, httperr.ErrBusiness("invalid_date")
	}

	return domain.ListFilter{
		From:   &start,
		To:     &end,
		Limit:  page.Limit,
		Offset: page.Offset,
	}, nil
}
