package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Sirpyerre/user-management/internal/core/domain"
	"github.com/Sirpyerre/user-management/internal/core/ports"
)

var tracer = otel.Tracer("github.com/Sirpyerre/user-management/internal/core/service")

type nopAuditSink struct{}

func (nopAuditSink) Record(domain.AuthEvent) {}

// AuthService implements signin and signup.
type AuthService struct {
	users    ports.UserRepository
	roles    ports.RoleRepository
	verifier ports.CredentialVerifier
	codec    ports.TokenCodec
	hasher   ports.PasswordHasher
	audit    ports.AuditSink
	log      zerolog.Logger
}

// NewAuthService wires the pipeline. A nil audit sink discards events.
func NewAuthService(
	users ports.UserRepository,
	roles ports.RoleRepository,
	verifier ports.CredentialVerifier,
	codec ports.TokenCodec,
	hasher ports.PasswordHasher,
	audit ports.AuditSink,
	log zerolog.Logger,
) *AuthService {
	if audit == nil {
		audit = nopAuditSink{}
	}
	return &AuthService{
		users:    users,
		roles:    roles,
		verifier: verifier,
		codec:    codec,
		hasher:   hasher,
		audit:    audit,
		log:      log,
	}
}

// Signin verifies credentials and issues a token. Every verification failure
// surfaces as domain.ErrInvalidCredentials.
func (s *AuthService) Signin(ctx context.Context, name, password string) (*ports.SigninResult, error) {
	ctx, span := tracer.Start(ctx, "auth.signin")
	defer span.End()
	span.SetAttributes(attribute.String("auth.user", name))

	user, err := s.verifier.Verify(ctx, name, password)
	if err != nil {
		span.SetStatus(codes.Error, "signin failed")
		if errors.Is(err, domain.ErrInvalidCredentials) {
			s.record(domain.EventSigninFailure, name, "", "bad_credentials")
			s.log.Info().Str("user", name).Msg("signin rejected")
			return nil, domain.ErrInvalidCredentials
		}
		s.record(domain.EventSigninFailure, name, "", "lookup_error")
		return nil, err
	}

	token, claims, err := s.codec.Issue(user, s.codec.TTL())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "token issue failed")
		return nil, fmt.Errorf("signin: %w", err)
	}

	s.record(domain.EventSigninSuccess, user.Name, user.ID, "")
	s.log.Info().Str("user", user.Name).Strs("roles", claims.Roles).Msg("signin succeeded")

	return &ports.SigninResult{
		Token:     token,
		ExpiresAt: claims.ExpiresAt,
		User:      user,
	}, nil
}

// Signup registers a new account. The name is checked before the email and
// the first conflict is reported.
func (s *AuthService) Signup(ctx context.Context, input ports.SignupInput) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "auth.signup")
	defer span.End()
	span.SetAttributes(attribute.String("auth.user", input.Name))

	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, domain.ErrInvalidInput
	}

	taken, err := s.users.ExistsByName(ctx, input.Name)
	if err != nil {
		return nil, fmt.Errorf("signup: check name: %w", err)
	}
	if taken {
		s.record(domain.EventSignupConflict, input.Name, "", "name_taken")
		return nil, domain.ErrNameTaken
	}

	taken, err = s.users.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("signup: check email: %w", err)
	}
	if taken {
		s.record(domain.EventSignupConflict, input.Name, "", "email_taken")
		return nil, domain.ErrEmailTaken
	}

	roles, err := s.resolveRoles(ctx, input.Roles)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "role resolution failed")
		s.log.Error().Err(err).Msg("reference roles missing")
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("signup: hash password: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.users.Save(ctx, &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Roles:        roles,
		Enabled:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			s.record(domain.EventSignupConflict, input.Name, "", "duplicate_key")
			return nil, err
		}
		return nil, fmt.Errorf("signup: save user: %w", err)
	}

	s.record(domain.EventSignupSuccess, created.Name, created.ID, "")
	s.log.Info().Str("user", created.Name).Strs("roles", created.RoleNames()).Msg("user registered")
	return created, nil
}

// resolveRoles maps requested role strings onto reference roles. No request
// means USER; unknown strings also degrade to USER.
func (s *AuthService) resolveRoles(ctx context.Context, requested []string) ([]domain.Role, error) {
	names := []domain.RoleName{domain.RoleUser}
	if len(requested) > 0 {
		names = names[:0]
		for _, r := range requested {
			n := domain.ParseRoleName(r)
			if !slices.Contains(names, n) {
				names = append(names, n)
			}
		}
	}

	roles := make([]domain.Role, 0, len(names))
	for _, n := range names {
		role, err := s.roles.FindByName(ctx, n)
		if err != nil {
			return nil, fmt.Errorf("resolve role %s: %w", n, err)
		}
		roles = append(roles, *role)
	}
	return roles, nil
}

func (s *AuthService) record(t domain.AuthEventType, name, userID, reason string) {
	s.audit.Record(domain.AuthEvent{
		Type:      t,
		Name:      name,
		UserID:    userID,
		Reason:    reason,
		Timestamp: time.Now().UTC(),
	})
}
