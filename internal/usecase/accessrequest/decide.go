package accessrequest

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/accessrequest"
	"github.com/BruksfildServices01/barber-booking/internal/domain/authz"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type DecideAccessRequest struct {
	repo  domain.Repository
	authz *authz.Authorizer
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewDecideAccessRequest(
	repo domain.Repository,
	authorizer *authz.Authorizer,
	audit *audit.Dispatcher,
) *DecideAccessRequest {
	return &DecideAccessRequest{
		repo:  repo,
		authz: authorizer,
		audit: audit,
		now:   time.Now,
	}
}

// Execute moves a PENDING request to APPROVED or REJECTED. Approval
// creates the BARBER profile in the same transaction as the status change.
func (uc *DecideAccessRequest) Execute(
	ctx context.Context,
	actor authz.Principal,
	requestID uuid.UUID,
	decision string,
) (*models.AccessRequest, error) {

	req, err := uc.repo.Get(ctx, requestID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrNotFound(domain.ReasonRequestNotFound)
	}
	if err != nil {
		return nil, err
	}

	d, err := uc.authz.Authorize(ctx, actor, req.BarbershopID, authz.RequireOwner)
	if err != nil {
		return nil, err
	}
	if !d.Allowed {
		// Outsiders and plain barbers are both refused as non-owners.
		return nil, httperr.ErrForbidden(authz.ReasonNotOwner)
	}

	next, err := domain.ParseDecision(decision)
	if err != nil {
		return nil, err
	}
	if err := domain.CanDecide(domain.Status(req.Status)); err != nil {
		return nil, err
	}

	now := uc.now()

	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		locked, err := tx.GetForUpdate(ctx, req.ID)
		if err != nil {
			return err
		}
		if err := domain.CanDecide(domain.Status(locked.Status)); err != nil {
			return err
		}

		ok, err := tx.Decide(ctx, req.ID, next, actor.ID, now)
		if err != nil {
			return err
		}
		if !ok {
			return httperr.ErrBusiness(domain.ReasonAlreadyDecided)
		}

		if next != domain.StatusApproved {
			return nil
		}

		member, err := tx.FindMembership(ctx, req.UserID, req.BarbershopID)
		if err != nil {
			return err
		}
		if member != nil {
			return nil
		}

		return tx.CreateMembership(ctx, &models.BarberProfile{
			UserID:       req.UserID,
			BarbershopID: req.BarbershopID,
			Role:         models.StaffBarber,
		})
	})
	if err != nil {
		return nil, err
	}

	decided, err := uc.repo.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: req.BarbershopID,
		UserID:       &actor.ID,
		Action:       audit.ActionAccessRequestDecided,
		Entity:       "access_request",
		EntityID:     &req.ID,
		Metadata:     map[string]string{"status": string(next)},
	})

	return decided, nil
}
