package appointment

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// UniqueServiceIDs drops repeats while keeping the first-seen order.
// An empty set is rejected.
func UniqueServiceIDs(ids []uuid.UUID) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	if len(out) == 0 {
		return nil, httperr.ErrBusiness(ReasonInvalidServices)
	}
	return out, nil
}

// CheckResolved fails unless every requested id resolved to a live
// service of shopID. Unknown, deleted and cross-shop ids all land here.
func CheckResolved(shopID uuid.UUID, requested []uuid.UUID, found []models.Service) error {
	if len(found) != len(requested) {
		return httperr.ErrBusiness(ReasonInvalidServices)
	}
	for _, s := range found {
		if s.BarbershopID != shopID || s.DeletedAt.Valid {
			return httperr.ErrBusiness(ReasonInvalidServices)
		}
	}
	return nil
}

func PriceTotal(services []models.Service) decimal.Decimal {
	total := decimal.Zero
	for _, s := range services {
		total = total.Add(s.Price)
	}
	return total
}
