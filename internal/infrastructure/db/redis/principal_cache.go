package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Sirpyerre/user-management/internal/core/domain"
)

const defaultPrincipalTTL = 30 * time.Second

// PrincipalCache implements ports.PrincipalCache backed by Redis.
// Key format: principal:<name>
// Entries never carry the password hash.
type PrincipalCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPrincipalCache creates a PrincipalCache. A non-positive ttl selects
// defaultPrincipalTTL.
func NewPrincipalCache(client *redis.Client, ttl time.Duration) *PrincipalCache {
	if ttl <= 0 {
		ttl = defaultPrincipalTTL
	}
	return &PrincipalCache{client: client, ttl: ttl}
}

type cachedPrincipal struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Email   string        `json:"email"`
	Roles   []domain.Role `json:"roles"`
	Enabled bool          `json:"enabled"`
}

// Get returns the cached principal or (nil, nil) on a miss.
func (c *PrincipalCache) Get(ctx context.Context, name string) (*domain.User, error) {
	raw, err := c.client.Get(ctx, c.key(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("principal cache get: %w", err)
	}

	var p cachedPrincipal
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("principal cache decode: %w", err)
	}
	return &domain.User{
		ID:      p.ID,
		Name:    p.Name,
		Email:   p.Email,
		Roles:   p.Roles,
		Enabled: p.Enabled,
	}, nil
}

func (c *PrincipalCache) Set(ctx context.Context, user *domain.User) error {
	raw, err := json.Marshal(cachedPrincipal{
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
		Roles:   user.Roles,
		Enabled: user.Enabled,
	})
	if err != nil {
		return fmt.Errorf("principal cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(user.Name), raw, c.ttl).Err()
}

func (c *PrincipalCache) Invalidate(ctx context.Context, name string) error {
	return c.client.Del(ctx, c.key(name)).Err()
}

func (c *PrincipalCache) key(name string) string {
	return "principal:" + name
}
