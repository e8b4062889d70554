package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Sirpyerre/user-management/internal/core/domain"
	"github.com/Sirpyerre/user-management/internal/core/ports"
)

// CredentialVerifier checks a name and password against stored credentials.
// Unknown names, wrong passwords and disabled accounts all fail with
// domain.ErrInvalidCredentials.
type CredentialVerifier struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	log    zerolog.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewCredentialVerifier(users ports.UserRepository, hasher ports.PasswordHasher, log zerolog.Logger) *CredentialVerifier {
	return &CredentialVerifier{users: users, hasher: hasher, log: log}
}

func (v *CredentialVerifier) Verify(ctx context.Context, name, password string) (*domain.User, error) {
	if name == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := v.users.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Burn a hash comparison so unknown names take as long as bad passwords.
			v.hasher.Verify(password, v.placeholderHash())
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("verify credentials: %w", err)
	}

	if !v.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.Enabled {
		v.log.Debug().Str("user", name).Msg("signin attempt on disabled account")
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (v *CredentialVerifier) placeholderHash() string {
	v.dummyOnce.Do(func() {
		h, err := v.hasher.Hash("placeholder-password")
		if err != nil {
			v.log.Warn().Err(err).Msg("failed to compute placeholder hash")
			return
		}
		v.dummyHash = h
	})
	return v.dummyHash
}
