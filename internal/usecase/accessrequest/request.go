package accessrequest

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/accessrequest"
	"github.com/BruksfildServices01/barber-booking/internal/domain/authz"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type RequestAccess struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewRequestAccess(repo domain.Repository, audit *audit.Dispatcher) *RequestAccess {
	return &RequestAccess{repo: repo, audit: audit}
}

// Execute opens a PENDING request for actor to join shopID as a barber.
func (uc *RequestAccess) Execute(
	ctx context.Context,
	actor authz.Principal,
	shopID uuid.UUID,
) (*models.AccessRequest, error) {

	user, err := uc.repo.GetUser(ctx, actor.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if user == nil || user.Role != models.RoleBarber {
		return nil, httperr.ErrForbidden(domain.ReasonNotBarber)
	}

	if _, err := uc.repo.GetBarbershop(ctx, shopID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound(domain.ReasonShopNotFound)
		}
		return nil, err
	}

	pending, err := uc.repo.HasPending(ctx, user.ID, shopID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, httperr.ErrBusiness(domain.ReasonDuplicateRequest)
	}

	member, err := uc.repo.FindMembership(ctx, user.ID, shopID)
	if err != nil {
		return nil, err
	}
	if member != nil {
		return nil, httperr.ErrBusiness(domain.ReasonAlreadyMember)
	}

	req := &models.AccessRequest{
		UserID:       user.ID,
		BarbershopID: shopID,
		Status:       string(domain.StatusPending),
	}
	if err := uc.repo.Create(ctx, req); err != nil {
		// a concurrent request won the pending slot
		if httperr.IsUniqueViolation(err) {
			return nil, httperr.ErrBusiness(domain.ReasonDuplicateRequest)
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: shopID,
		UserID:       &user.ID,
		Action:       audit.ActionAccessRequested,
		Entity:       "access_request",
		EntityID:     &req.ID,
	})

	return req, nil
}
