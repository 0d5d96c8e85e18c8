package appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/domain/authz"
)

type RemoveAppointment struct {
	repo  domain.Repository
	authz *authz.Authorizer
	audit *audit.Dispatcher
}

func NewRemoveAppointment(
	repo domain.Repository,
	authorizer *authz.Authorizer,
	audit *audit.Dispatcher,
) *RemoveAppointment {
	return &RemoveAppointment{
		repo:  repo,
		authz: authorizer,
		audit: audit,
	}
}

// Execute deletes the appointment and its line items. The booking client
// or the shop owner may do it; customer totals are left as they are.
func (uc *RemoveAppointment) Execute(
	ctx context.Context,
	actor authz.Principal,
	appointmentID uuid.UUID,
) error {

	ap, err := loadAppointment(ctx, uc.repo, appointmentID)
	if err != nil {
		return err
	}

	if ap.ClientID != actor.ID {
		if err := uc.authz.Require(ctx, actor, ap.BarbershopID, authz.RequireOwner); err != nil {
			return err
		}
	}

	if err := uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		return tx.DeleteAppointment(ctx, ap.ID)
	}); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: ap.BarbershopID,
		UserID:       &actor.ID,
		Action:       audit.ActionAppointmentRemoved,
		Entity:       "appointment",
		EntityID:     &ap.ID,
	})

	return nil
}
