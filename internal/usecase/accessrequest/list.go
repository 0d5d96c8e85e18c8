package accessrequest

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/accessrequest"
	"github.com/BruksfildServices01/barber-booking/internal/domain/authz"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type ListAccessRequests struct {
	repo  domain.Repository
	authz *authz.Authorizer
}

func NewListAccessRequests(repo domain.Repository, authorizer *authz.Authorizer) *ListAccessRequests {
	return &ListAccessRequests{repo: repo, authz: authorizer}
}

// PendingForShop lists the open requests of a shop for its owner.
func (uc *ListAccessRequests) PendingForShop(
	ctx context.Context,
	actor authz.Principal,
	shopID uuid.UUID,
) ([]models.AccessRequest, error) {

	if _, err := uc.repo.GetBarbershop(ctx, shopID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound(domain.ReasonShopNotFound)
		}
		return nil, err
	}

	if err := uc.authz.Require(ctx, actor, shopID, authz.RequireOwner); err != nil {
		return nil, err
	}

	pending := domain.StatusPending
	return uc.repo.ListByShop(ctx, shopID, &pending)
}

func (uc *ListAccessRequests) Mine(
	ctx context.Context,
	actor authz.Principal,
) ([]models.AccessRequest, error) {
	return uc.repo.ListByUser(ctx, actor.ID)
}
