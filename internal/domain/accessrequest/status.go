package accessrequest

import (
	"strings"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

const (
	ReasonNotBarber        = "not_barber"
	ReasonShopNotFound     = "shop_not_found"
	ReasonDuplicateRequest = "duplicate_request"
	ReasonAlreadyMember    = "already_member"
	ReasonRequestNotFound  = "request_not_found"
	ReasonAlreadyDecided   = "already_decided"
	ReasonInvalidDecision  = "invalid_decision"
)

// ParseDecision accepts the two terminal states, case-insensitively.
func ParseDecision(s string) (Status, error) {
	switch st := Status(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusApproved, StatusRejected:
		return st, nil
	}
	return "", httperr.ErrBusiness(ReasonInvalidDecision)
}

// CanDecide fails once the request has left PENDING.
func CanDecide(current Status) error {
	if current != StatusPending {
		return httperr.ErrBusiness(ReasonAlreadyDecided)
	}
	return nil
}
