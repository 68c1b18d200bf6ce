package service

import (
	"context"

	"github.com/FusionTech-2430/all-connected-app-sub000/internal/domain/entity"
)

// UserLookup resolves a user id to its record in the external users
// service. Callers tolerate failure: a chat listing never aborts
// because one counterpart could not be resolved.
type UserLookup interface {
	GetUser(ctx context.Context, id string) (*entity.User, error)
}

// OrganizationLookup resolves a business id in the external
// organizations service.
type OrganizationLookup interface {
	GetOrganization(ctx context.Context, id string) (*entity.Organization, error)
}
