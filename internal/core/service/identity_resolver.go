package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/singleflight"

	"github.com/Sirpyerre/user-management/internal/core/domain"
	"github.com/Sirpyerre/user-management/internal/core/ports"
)

const principalLoadTimeout = 5 * time.Second

// IdentityResolver validates a bearer token and loads the principal behind
// it. Concurrent loads of the same subject share one repository call.
type IdentityResolver struct {
	codec ports.TokenCodec
	users ports.UserRepository
	cache ports.PrincipalCache
	group singleflight.Group
	log   zerolog.Logger
}

// NewIdentityResolver builds a resolver. cache may be nil.
func NewIdentityResolver(codec ports.TokenCodec, users ports.UserRepository, cache ports.PrincipalCache, log zerolog.Logger) *IdentityResolver {
	return &IdentityResolver{codec: codec, users: users, cache: cache, log: log}
}

// Resolve returns the identity for token. Token failures come back as one of
// the domain.ErrToken* kinds; a principal that no longer exists or is
// disabled yields domain.ErrUserNotFound.
func (r *IdentityResolver) Resolve(ctx context.Context, token string) (*domain.Identity, error) {
	ctx, span := tracer.Start(ctx, "auth.resolve_identity")
	defer span.End()

	claims, err := r.codec.Validate(token)
	if err != nil {
		span.SetStatus(codes.Error, "token rejected")
		return nil, err
	}

	user, err := r.loadPrincipal(ctx, claims.Subject, claims.UserID)
	if err != nil {
		span.SetStatus(codes.Error, "principal lookup failed")
		return nil, err
	}
	if !user.Enabled {
		return nil, fmt.Errorf("%w: account disabled", domain.ErrUserNotFound)
	}
	return user.Identity(), nil
}

// loadPrincipal returns the user currently registered under name, provided it
// is the account the token was issued to. A cached entry for another account
// is dropped and the repository consulted once.
func (r *IdentityResolver) loadPrincipal(ctx context.Context, name, userID string) (*domain.User, error) {
	if r.cache != nil {
		cached, err := r.cache.Get(ctx, name)
		switch {
		case err != nil:
			r.log.Warn().Err(err).Str("user", name).Msg("principal cache read failed")
		case cached != nil && cached.ID == userID:
			return cached, nil
		case cached != nil:
			if err := r.cache.Invalidate(ctx, name); err != nil {
				r.log.Warn().Err(err).Str("user", name).Msg("principal cache invalidation failed")
			}
		}
	}

	// The load is shared by every concurrent caller, so it must not inherit
	// the cancellation of whichever request started it.
	v, err, _ := r.group.Do(name, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), principalLoadTimeout)
		defer cancel()

		user, err := r.users.FindByName(loadCtx, name)
		if err != nil {
			return nil, err
		}
		if r.cache != nil {
			if err := r.cache.Set(loadCtx, user); err != nil {
				r.log.Warn().Err(err).Str("user", name).Msg("principal cache write failed")
			}
		}
		return user, nil
	})
	if err != nil {
		return nil, fmt.Errorf("load principal %q: %w", name, err)
	}

	user := v.(*domain.User)
	if user.ID != userID {
		return nil, fmt.Errorf("%w: %q now belongs to another account", domain.ErrUserNotFound, name)
	}
	return user, nil
}
