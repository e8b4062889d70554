package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Sirpyerre/user-management/internal/core/domain"
	"github.com/Sirpyerre/user-management/internal/core/ports"
)

// SeedUser is an account created at startup when absent.
type SeedUser struct {
	Name     string
	Email    string
	Password string
	Role     domain.RoleName
}

// DefaultSeedUsers are the development accounts every fresh install gets.
var DefaultSeedUsers = []SeedUser{
	{Name: "admin", Email: "admin@example.com", Password: "admin123", Role: domain.RoleAdmin},
	{Name: "user", Email: "user@example.com", Password: "user123", Role: domain.RoleUser},
}

// Bootstrapper seeds reference roles and default accounts.
type Bootstrapper struct {
	users  ports.UserRepository
	roles  ports.RoleRepository
	hasher ports.PasswordHasher
	log    zerolog.Logger
}

func NewBootstrapper(users ports.UserRepository, roles ports.RoleRepository, hasher ports.PasswordHasher, log zerolog.Logger) *Bootstrapper {
	return &Bootstrapper{users: users, roles: roles, hasher: hasher, log: log}
}

// EnsureRoles creates the reference roles when none exist and then checks
// that every role is present. A missing role is a configuration error.
func (b *Bootstrapper) EnsureRoles(ctx context.Context) error {
	n, err := b.roles.Count(ctx)
	if err != nil {
		return fmt.Errorf("count roles: %w", err)
	}
	if n == 0 {
		for _, name := range domain.AllRoles {
			if _, err := b.roles.Save(ctx, &domain.Role{Name: name}); err != nil {
				return fmt.Errorf("seed role %s: %w", name, err)
			}
		}
		b.log.Info().Int("count", len(domain.AllRoles)).Msg("roles initialized")
	}

	for _, name := range domain.AllRoles {
		if _, err := b.roles.FindByName(ctx, name); err != nil {
			return fmt.Errorf("verify role %s: %w", name, err)
		}
	}
	return nil
}

// SeedUsers creates each seed account whose name is not yet registered.
func (b *Bootstrapper) SeedUsers(ctx context.Context, seeds []SeedUser) error {
	for _, seed := range seeds {
		exists, err := b.users.ExistsByName(ctx, seed.Name)
		if err != nil {
			return fmt.Errorf("check seed user %s: %w", seed.Name, err)
		}
		if exists {
			continue
		}

		role, err := b.roles.FindByName(ctx, seed.Role)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", seed.Name, err)
		}
		hash, err := b.hasher.Hash(seed.Password)
		if err != nil {
			return fmt.Errorf("seed user %s: hash password: %w", seed.Name, err)
		}

		now := time.Now().UTC()
		if _, err := b.users.Save(ctx, &domain.User{
			Name:         seed.Name,
			Email:        seed.Email,
			PasswordHash: hash,
			Roles:        []domain.Role{*role},
			Enabled:      true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}); err != nil {
			return fmt.Errorf("seed user %s: %w", seed.Name, err)
		}
		b.log.Info().Str("user", seed.Name).Str("role", string(seed.Role)).Msg("seed user created")
	}
	return nil
}

// Run seeds roles and, when withUsers is set, the default accounts.
func (b *Bootstrapper) Run(ctx context.Context, withUsers bool) error {
	if err := b.EnsureRoles(ctx); err != nil {
		return err
	}
	if !withUsers {
		return nil
	}
	return b.SeedUsers(ctx, DefaultSeedUsers)
}
