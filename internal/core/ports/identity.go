package ports

import (
	"context"

	"github.com/Sirpyerre/user-management/internal/core/domain"
)

// IdentityResolver turns a bearer token into the identity of its principal.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*domain.Identity, error)
}

// PrincipalCache is a short-lived read-through cache for principals keyed by
// name. A miss returns (nil, nil).
type PrincipalCache interface {
	Get(ctx context.Context, name string) (*domain.User, error)
	Set(ctx context.Context, user *domain.User) error
	Invalidate(ctx context.Context, name string) error
}
