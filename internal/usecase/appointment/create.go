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

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	BarbershopID uuid.UUID
	// BarberID is the barber's user id, not the profile id.
	BarberID        uuid.UUID
	ServiceIDs      []uuid.UUID
	AppointmentDate time.Time
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:  repo,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute validates the booking and then writes the appointment, its line
// items and the customer totals in one transaction. Every rejection
// happens before the first write.
func (uc *CreateAppointment) Execute(
	ctx context.Context,
	actor authz.Principal,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	if in.AppointmentDate.IsZero() {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	// --------------------------------------------------
	// 1. Client
	// --------------------------------------------------
	client, err := uc.repo.GetUser(ctx, actor.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if client == nil || client.Role != models.RoleClient {
		return nil, httperr.ErrForbidden(domain.ReasonInvalidActor)
	}

	// --------------------------------------------------
	// 2. Barbershop
	// --------------------------------------------------
	shop, err := uc.repo.GetBarbershop(ctx, in.BarbershopID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrNotFound(domain.ReasonShopNotFound)
	}
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3. Barber belongs to the shop
	// --------------------------------------------------
	profile, err := uc.repo.FindBarberProfile(ctx, in.BarberID, shop.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness(domain.ReasonBarberNotInShop)
	}
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 4. Services: all live, all from this shop
	// --------------------------------------------------
	serviceIDs, err := domain.UniqueServiceIDs(in.ServiceIDs)
	if err != nil {
		return nil, err
	}

	services, err := uc.repo.FindShopServices(ctx, shop.ID, serviceIDs)
	if err != nil {
		return nil, err
	}
	if err := domain.CheckResolved(shop.ID, serviceIDs, services); err != nil {
		return nil, err
	}

	total := domain.PriceTotal(services)
	date := in.AppointmentDate.UTC()

	// --------------------------------------------------
	// 5. Commit
	// --------------------------------------------------
	ap := &models.Appointment{
		ClientID:        client.ID,
		BarberProfileID: profile.ID,
		BarbershopID:    shop.ID,
		AppointmentDate: date,
		Status:          string(domain.InitialStatus()),
	}

	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		customer, err := tx.GetOrCreateCustomer(ctx, client.ID, shop.ID)
		if err != nil {
			return err
		}
		ap.CustomerID = customer.ID

		if err := tx.CreateAppointment(ctx, ap, serviceIDs); err != nil {
			return err
		}

		return tx.RecordCustomerVisit(ctx, customer.ID, total, date)
	})
	if err != nil {
		return nil, err
	}

	created, err := uc.repo.GetAppointment(ctx, ap.ID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 6. Audit
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		BarbershopID: shop.ID,
		UserID:       &client.ID,
		Action:       audit.ActionAppointmentCreated,
		Entity:       "appointment",
		EntityID:     &created.ID,
		Metadata: map[string]any{
			"total":    total.StringFixed(2),
			"services": len(serviceIDs),
		},
	})

	return created, nil
}
