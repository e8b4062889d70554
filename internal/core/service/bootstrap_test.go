package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Sirpyerre/user-management/internal/core/domain"
)

func TestBootstrapper_Run(t *testing.T) {
	users := newStubUserRepo()
	roles := newStubRoleRepo()
	boot := NewBootstrapper(users, roles, &fakeHasher{}, zerolog.Nop())

	if err := boot.Run(context.Background(), true); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(roles.roles) != len(domain.AllRoles) {
		t.Fatalf("expected %d roles, got %d", len(domain.AllRoles), len(roles.roles))
	}
	if users.count() != len(DefaultSeedUsers) {
		t.Fatalf("expected %d seed users, got %d", len(DefaultSeedUsers), users.count())
	}

	admin, err := users.FindByName(context.Background(), "admin")
	if err != nil {
		t.Fatalf("FindByName admin: %v", err)
	}
	if !admin.HasRole(domain.RoleAdmin) || admin.Email != "admin@example.com" {
		t.Fatalf("unexpected admin: %+v", admin)
	}

	// second run is a no-op
	if err := boot.Run(context.Background(), true); err != nil {
		t.Fatalf("second Run returned error: %v", err)
	}
	if users.count() != len(DefaultSeedUsers) {
		t.Fatalf("expected seeding to be idempotent, got %d users", users.count())
	}
}

func TestBootstrapper_RolesOnly(t *testing.T) {
	users := newStubUserRepo()
	boot := NewBootstrapper(users, newStubRoleRepo(), &fakeHasher{}, zerolog.Nop())

	if err := boot.Run(context.Background(), false); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if users.count() != 0 {
		t.Fatalf("expected no users, got %d", users.count())
	}
}

func TestBootstrapper_IncompleteRoles(t *testing.T) {
	boot := NewBootstrapper(newStubUserRepo(), newStubRoleRepo(domain.RoleUser), &fakeHasher{}, zerolog.Nop())

	err := boot.EnsureRoles(context.Background())
	if !errors.Is(err, domain.ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
}
