package appointment

import (
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Cancel(ap *models.Appointment, now time.Time) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return nil
}

// ApplyStatus moves ap to next. Setting the current status again is a no-op.
func ApplyStatus(ap *models.Appointment, next Status, now time.Time) error {
	if Status(ap.Status) == next {
		return nil
	}

	switch next {
	case StatusCancelled:
		return Cancel(ap, now)
	case StatusCompleted:
		return Complete(ap, now)
	default:
		return httperr.ErrBusiness(ReasonInvalidState)
	}
}
