package ports

import (
	"context"

	"github.com/Sirpyerre/user-management/internal/core/domain"
)

// UserRepository persists principals. Lookups of absent users return
// domain.ErrUserNotFound.
type UserRepository interface {
	FindByName(ctx context.Context, name string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Save inserts a new user and returns it with its assigned ID. Unique
	// index violations map to domain.ErrNameTaken or domain.ErrEmailTaken.
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.User, error)
}

// RoleRepository holds the reference role rows.
type RoleRepository interface {
	FindByName(ctx context.Context, name domain.RoleName) (*domain.Role, error)
	Count(ctx context.Context) (int64, error)
	Save(ctx context.Context, role *domain.Role) (*domain.Role, error)
}
