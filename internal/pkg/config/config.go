package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWT   JWTConfig
	Mongo MongoConfig
	Redis RedisConfig

	// PrincipalCacheTTL bounds how long a resolved principal is served from Redis.
	PrincipalCacheTTL time.Duration `env:"PRINCIPAL_CACHE_TTL, default=30s"`
	BootstrapSeed     bool          `env:"BOOTSTRAP_SEED, default=true"`
	BcryptCost        int           `env:"BCRYPT_COST, default=10"`
	AuditWorkers      int           `env:"AUDIT_WORKERS, default=4"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS, default=http://localhost:5173,http://localhost:5174,http://127.0.0.1:5173,http://127.0.0.1:5174"`
}

type JWTConfig struct {
	// Secret is the base64-encoded HS256 key.
	Secret       string `env:"JWT_SECRET"`
	ExpirationMS int64  `env:"JWT_EXPIRATION_MS, default=86400000"`
	Issuer       string `env:"JWT_ISSUER, default=user-management"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=user_management"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// TokenTTL returns the configured token lifetime.
func (c JWTConfig) TokenTTL() time.Duration {
	return time.Duration(c.ExpirationMS) * time.Millisecond
}

// IsDevelopment reports whether the service runs in a local environment.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development") || strings.EqualFold(c.Env, "local")
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadFromLookuper(ctx, envconfig.OsLookuper())
}

// LoadFromLookuper reads configuration from l and validates it.
func LoadFromLookuper(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if strings.TrimSpace(c.JWT.Secret) == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.JWT.ExpirationMS <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRATION_MS must be positive"))
	}
	if c.PrincipalCacheTTL < 0 {
		errs = append(errs, errors.New("PRINCIPAL_CACHE_TTL must not be negative"))
	}
	return errors.Join(errs...)
}
