package domain

import "context"

// Identity is the authenticated principal bound to a single request.
// It is derived from a validated token and never persisted.
type Identity struct {
	UserID string
	Name   string
	Email  string
	Roles  []RoleName
}

// HasRole reports whether the identity holds role.
func (i *Identity) HasRole(role RoleName) bool {
	if i == nil {
		return false
	}
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity bound to ctx, or nil for an
// anonymous request.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey{}).(*Identity)
	return id
}
