package authz

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// Principal is the authenticated caller. It is passed explicitly to every
// use case.
type Principal struct {
	ID   uuid.UUID
	Role models.UserRole
}

func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

type Requirement int

const (
	// RequireMember accepts any staff of the shop.
	RequireMember Requirement = iota + 1
	RequireOwner
	// RequirePlatformRead is for cross-shop read operations; only ADMIN passes.
	RequirePlatformRead
)

const (
	ReasonNotMember     = "not_a_member"
	ReasonNotOwner      = "not_owner"
	ReasonAdminRequired = "admin_required"
)

type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

// Err is nil when allowed, otherwise a Forbidden business error.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return httperr.ErrForbidden(d.Reason)
}

// Evaluate decides req for p on shopID using only the given memberships.
// Admins are not implicitly owners or members of any shop.
func Evaluate(
	p Principal,
	shopID uuid.UUID,
	memberships []models.BarberProfile,
	req Requirement,
) Decision {

	if req == RequirePlatformRead {
		if p.IsAdmin() {
			return allow()
		}
		return deny(ReasonAdminRequired)
	}

	var role models.StaffRole
	for _, m := range memberships {
		if m.UserID == p.ID && m.BarbershopID == shopID {
			role = m.Role
			break
		}
	}

	if role == "" {
		return deny(ReasonNotMember)
	}

	switch req {
	case RequireOwner:
		if role == models.StaffOwner {
			return allow()
		}
		return deny(ReasonNotOwner)
	case RequireMember:
		if role == models.StaffOwner || role == models.StaffBarber {
			return allow()
		}
	}

	return deny(ReasonNotMember)
}

// MembershipLookup returns the profile of userID in shopID, or nil when the
// user holds none.
type MembershipLookup interface {
	FindMembership(
		ctx context.Context,
		userID uuid.UUID,
		shopID uuid.UUID,
	) (*models.BarberProfile, error)
}

type Authorizer struct {
	members MembershipLookup
}

func NewAuthorizer(members MembershipLookup) *Authorizer {
	return &Authorizer{members: members}
}

// Authorize resolves p's membership and evaluates req. The error is only
// set when the lookup itself fails.
func (a *Authorizer) Authorize(
	ctx context.Context,
	p Principal,
	shopID uuid.UUID,
	req Requirement,
) (Decision, error) {

	if req == RequirePlatformRead {
		return Evaluate(p, shopID, nil, req), nil
	}

	m, err := a.members.FindMembership(ctx, p.ID, shopID)
	if err != nil {
		return Decision{}, err
	}

	var memberships []models.BarberProfile
	if m != nil {
		memberships = append(memberships, *m)
	}
	return Evaluate(p, shopID, memberships, req), nil
}

// Require is Authorize folded into a single error.
func (a *Authorizer) Require(
	ctx context.Context,
	p Principal,
	shopID uuid.UUID,
	req Requirement,
) error {
	d, err := a.Authorize(ctx, p, shopID, req)
	if err != nil {
		return err
	}
	return d.Err()
}
