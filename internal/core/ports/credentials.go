package ports

import (
	"context"
	"time"

	"github.com/Sirpyerre/user-management/internal/core/domain"
)

// PasswordHasher is a one-way hash capability.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	// Verify compares plain against hash in constant time.
	Verify(plain, hash string) bool
}

// TokenCodec issues and validates signed tokens.
type TokenCodec interface {
	Issue(user *domain.User, ttl time.Duration) (string, *domain.TokenClaims, error)
	Validate(token string) (*domain.TokenClaims, error)
	SubjectOf(token string) (string, error)
	TTL() time.Duration
}

// CredentialVerifier checks a submitted name and password.
type CredentialVerifier interface {
	Verify(ctx context.Context, name, password string) (*domain.User, error)
}
