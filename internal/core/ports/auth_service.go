package ports

import (
	"context"
	"time"

	"github.com/Sirpyerre/user-management/internal/core/domain"
)

// SignupInput carries a registration request. Roles may be empty.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Roles    []string
}

// SigninResult is returned by a successful signin.
type SigninResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

type AuthService interface {
	Signin(ctx context.Context, name, password string) (*SigninResult, error)
	Signup(ctx context.Context, input SignupInput) (*domain.User, error)
}
