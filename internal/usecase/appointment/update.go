package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/domain/authz"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// Nil fields are left unchanged.
type UpdateAppointmentInput struct {
	AppointmentID   uuid.UUID
	Status          *string
	AppointmentDate *time.Time
	ServiceIDs      []uuid.UUID
}

type UpdateAppointment struct {
	repo  domain.Repository
	authz *authz.Authorizer
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewUpdateAppointment(
	repo domain.Repository,
	authorizer *authz.Authorizer,
	audit *audit.Dispatcher,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:  repo,
		authz: authorizer,
		audit: audit,
		now:   time.Now,
	}
}

// Execute applies status, date and service-set changes. A new service set
// replaces the old one; customer totals keep the amount charged at booking.
func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	actor authz.Principal,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	ap, err := loadAppointment(ctx, uc.repo, in.AppointmentID)
	if err != nil {
		return nil, err
	}

	if err := uc.authz.Require(ctx, actor, ap.BarbershopID, authz.RequireMember); err != nil {
		return nil, err
	}

	changes := map[string]any{}

	if in.Status != nil {
		next, err := domain.ParseStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		if err := domain.ApplyStatus(ap, next, uc.now()); err != nil {
			return nil, err
		}
		changes["status"] = ap.Status
	}

	if in.AppointmentDate != nil {
		if in.AppointmentDate.IsZero() {
			return nil, httperr.ErrBusiness("invalid_date")
		}
		ap.AppointmentDate = in.AppointmentDate.UTC()
		changes["appointment_date"] = ap.AppointmentDate
	}

	var serviceIDs []uuid.UUID
	if in.ServiceIDs != nil {
		serviceIDs, err = domain.UniqueServiceIDs(in.ServiceIDs)
		if err != nil {
			return nil, err
		}

		services, err := uc.repo.FindShopServices(ctx, ap.BarbershopID, serviceIDs)
		if err != nil {
			return nil, err
		}
		if err := domain.CheckResolved(ap.BarbershopID, serviceIDs, services); err != nil {
			return nil, err
		}
		changes["services"] = len(serviceIDs)
	}

	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			return err
		}
		if serviceIDs != nil {
			return tx.ReplaceAppointmentServices(ctx, ap.ID, serviceIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := uc.repo.GetAppointment(ctx, ap.ID)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: ap.BarbershopID,
		UserID:       &actor.ID,
		Action:       audit.ActionAppointmentUpdated,
		Entity:       "appointment",
		EntityID:     &ap.ID,
		Metadata:     changes,
	})

	return updated, nil
}

func loadAppointment(
	ctx context.Context,
	repo domain.Repository,
	id uuid.UUID,
) (*models.Appointment, error) {

	ap, err := repo.GetAppointment(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrNotFound(domain.ReasonAppointmentNotFound)
	}
	return ap, err
}
