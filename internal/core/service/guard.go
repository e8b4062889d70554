package service

import (
	"context"

	"github.com/Sirpyerre/user-management/internal/core/domain"
)

// RequireRole succeeds iff an identity is bound to ctx and holds role.
func RequireRole(ctx context.Context, role domain.RoleName) error {
	return RequireAnyRole(ctx, role)
}

// RequireAnyRole succeeds iff an identity is bound to ctx and holds at least
// one of roles.
func RequireAnyRole(ctx context.Context, roles ...domain.RoleName) error {
	id := domain.IdentityFromContext(ctx)
	if id == nil {
		return domain.ErrUnauthenticated
	}
	for _, r := range roles {
		if id.HasRole(r) {
			return nil
		}
	}
	return domain.ErrForbidden
}

// RequireSelfOrRole succeeds iff RequireRole(ctx, role) succeeds or the bound
// identity owns the resource.
func RequireSelfOrRole(ctx context.Context, role domain.RoleName, ownerID string) error {
	id := domain.IdentityFromContext(ctx)
	if id == nil {
		return domain.ErrUnauthenticated
	}
	if id.HasRole(role) {
		return nil
	}
	if ownerID != "" && id.UserID == ownerID {
		return nil
	}
	return domain.ErrForbidden
}
