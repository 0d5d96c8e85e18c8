package appointment

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/domain/authz"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type GetAppointment struct {
	repo  domain.Repository
	authz *authz.Authorizer
}

func NewGetAppointment(repo domain.Repository, authorizer *authz.Authorizer) *GetAppointment {
	return &GetAppointment{repo: repo, authz: authorizer}
}

// Execute returns the appointment to its client, to shop staff and to admins.
func (uc *GetAppointment) Execute(
	ctx context.Context,
	actor authz.Principal,
	appointmentID uuid.UUID,
) (*models.Appointment, error) {

	ap, err := loadAppointment(ctx, uc.repo, appointmentID)
	if err != nil {
		return nil, err
	}

	if ap.ClientID == actor.ID || actor.IsAdmin() {
		return ap, nil
	}

	if err := uc.authz.Require(ctx, actor, ap.BarbershopID, authz.RequireMember); err != nil {
		return nil, err
	}
	return ap, nil
}
