package ports

import (
	"context"

	"github.com/Sirpyerre/user-management/internal/core/domain"
)

// UpdateUserInput carries a profile update. An empty Password keeps the
// current one.
type UpdateUserInput struct {
	Name     string
	Email    string
	Password string
}

// UserService exposes profile operations on registered users.
type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Current(ctx context.Context) (*domain.User, error)
	Update(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
