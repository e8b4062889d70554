package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Sirpyerre/user-management/internal/core/domain"
	"github.com/Sirpyerre/user-management/internal/core/ports"
)

// UserService implements profile reads and writes. Access rules are applied
// by the caller; Current relies on the identity bound to ctx.
type UserService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	cache  ports.PrincipalCache
	log    zerolog.Logger
}

// NewUserService builds the service. cache may be nil.
func NewUserService(users ports.UserRepository, hasher ports.PasswordHasher, cache ports.PrincipalCache, log zerolog.Logger) *UserService {
	return &UserService{users: users, hasher: hasher, cache: cache, log: log}
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// Current returns the user bound to the request.
func (s *UserService) Current(ctx context.Context) (*domain.User, error) {
	id := domain.IdentityFromContext(ctx)
	if id == nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.users.FindByID(ctx, id.UserID)
}

// Update replaces name and email and re-hashes the password when one is given.
func (s *UserService) Update(ctx context.Context, id string, input ports.UpdateUserInput) (*domain.User, error) {
	if input.Name == "" || input.Email == "" {
		return nil, domain.ErrInvalidInput
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previousName := user.Name

	user.Name = input.Name
	user.Email = input.Email
	if input.Password != "" {
		hash, err := s.hasher.Hash(input.Password)
		if err != nil {
			return nil, fmt.Errorf("update user: hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = time.Now().UTC()

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, previousName)
	if updated.Name != previousName {
		s.invalidate(ctx, updated.Name)
	}
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, user.Name)
	s.log.Info().Str("user", user.Name).Msg("user deleted")
	return nil
}

func (s *UserService) invalidate(ctx context.Context, name string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, name); err != nil {
		s.log.Warn().Err(err).Str("user", name).Msg("principal cache invalidation failed")
	}
}
