package appointment

import "github.com/BruksfildServices01/barber-booking/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusScheduled, StatusCancelled, StatusCompleted:
		return st, nil
	}
	return "", httperr.ErrBusiness(ReasonInvalidStatus)
}

// ===============================
// Validations
// ===============================

// Only scheduled appointments move; completed and cancelled are terminal.
func CanCancel(current Status) error {
	if current != StatusScheduled {
		return httperr.ErrBusiness(ReasonInvalidState)
	}
	return nil
}

func CanComplete(current Status) error {
	if current != StatusScheduled {
		return httperr.ErrBusiness(ReasonInvalidState)
	}
	return nil
}

func InitialStatus() Status {
	return StatusScheduled
}
