package service

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Sirpyerre/user-management/internal/core/domain"
)

const (
	defaultTokenTTL = 24 * time.Hour
	// HS256 keys must carry at least 256 bits.
	minSigningKeyBytes = 32
)

type tokenClaims struct {
	UserID string   `json:"userId"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

func (c *tokenClaims) toDomain() *domain.TokenClaims {
	out := &domain.TokenClaims{
		ID:      c.ID,
		Subject: c.Subject,
		UserID:  c.UserID,
		Email:   c.Email,
		Roles:   append([]string(nil), c.Roles...),
		Issuer:  c.Issuer,
	}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time
	}
	return out
}

// TokenCodec signs and verifies HS256 tokens. The key is fixed at
// construction and only read afterwards, so a codec is safe for concurrent use.
type TokenCodec struct {
	key    []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// TokenCodecOption customises a TokenCodec.
type TokenCodecOption func(*TokenCodec)

// WithClock overrides the time source used for issuing and expiry checks.
func WithClock(now func() time.Time) TokenCodecOption {
	return func(c *TokenCodec) {
		c.now = now
	}
}

// NewTokenCodec builds a codec from a base64-encoded secret. A missing,
// undecodable or short secret yields domain.ErrInvalidSigningKey.
func NewTokenCodec(secret string, ttl time.Duration, issuer string, opts ...TokenCodecOption) (*TokenCodec, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, fmt.Errorf("%w: secret is empty", domain.ErrInvalidSigningKey)
	}
	key, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return nil, fmt.Errorf("%w: secret is not valid base64: %v", domain.ErrInvalidSigningKey, err)
	}
	if len(key) < minSigningKeyBytes {
		return nil, fmt.Errorf("%w: key is %d bytes, need at least %d", domain.ErrInvalidSigningKey, len(key), minSigningKeyBytes)
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}

	c := &TokenCodec{key: key, ttl: ttl, issuer: issuer, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TTL returns the default token lifetime.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token for user valid for ttl (the codec default when ttl <= 0).
func (c *TokenCodec) Issue(user *domain.User, ttl time.Duration) (string, *domain.TokenClaims, error) {
	if user == nil {
		return "", nil, errors.New("issue token: nil user")
	}
	if ttl <= 0 {
		ttl = c.ttl
	}

	now := c.now()
	claims := &tokenClaims{
		UserID: user.ID,
		Email:  user.Email,
		Roles:  user.RoleNames(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.Name,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims.toDomain(), nil
}

// Validate verifies the signature, decodes the claims and then checks expiry.
// Failures are one of the domain.ErrToken* kinds.
func (c *TokenCodec) Validate(token string) (*domain.TokenClaims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("%w: empty token", domain.ErrTokenMalformed)
	}

	claims := &tokenClaims{}
	// Time-based claims are checked below against the codec clock.
	if _, err := jwt.ParseWithClaims(token, claims, c.keyFunc, jwt.WithoutClaimsValidation()); err != nil {
		return nil, classifyTokenError(err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", domain.ErrTokenMalformed)
	}
	if claims.ExpiresAt == nil || !c.now().Before(claims.ExpiresAt.Time) {
		return nil, domain.ErrTokenExpired
	}
	return claims.toDomain(), nil
}

// SubjectOf returns the subject of a valid token.
func (c *TokenCodec) SubjectOf(token string) (string, error) {
	claims, err := c.Validate(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (c *TokenCodec) keyFunc(t *jwt.Token) (any, error) {
	if t.Method == nil || t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, fmt.Errorf("%w: alg %v", domain.ErrTokenUnsupported, t.Header["alg"])
	}
	return c.key, nil
}

func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, domain.ErrTokenUnsupported):
		return domain.ErrTokenUnsupported
	case errors.Is(err, jwt.ErrTokenMalformed):
		return domain.ErrTokenMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return domain.ErrTokenSignatureInvalid
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return domain.ErrTokenUnsupported
	default:
		return domain.ErrTokenMalformed
	}
}
