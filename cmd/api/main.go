// @title                       User Management API
// @version                     1.0
// @description                 JWT authentication and role-based authorization.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/Sirpyerre/user-management/internal/api"
	"github.com/Sirpyerre/user-management/internal/api/handler"
	"github.com/Sirpyerre/user-management/internal/core/ports"
	"github.com/Sirpyerre/user-management/internal/core/service"
	"github.com/Sirpyerre/user-management/internal/infrastructure/crypto"
	"github.com/Sirpyerre/user-management/internal/infrastructure/db/mongo"
	"github.com/Sirpyerre/user-management/internal/infrastructure/db/redis"
	"github.com/Sirpyerre/user-management/internal/infrastructure/queue"
	"github.com/Sirpyerre/user-management/internal/pkg/config"
	"github.com/Sirpyerre/user-management/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// The logger is not configured yet.
		l := zerolog.New(os.Stderr)
		l.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "user-management",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// The codec is built first: a bad signing key must stop startup before any
	// connection is opened.
	codec, err := service.NewTokenCodec(cfg.JWT.Secret, cfg.JWT.TokenTTL(), cfg.JWT.Issuer)
	if err != nil {
		return err
	}

	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	users := mongo.NewUserRepository(db)
	roles := mongo.NewRoleRepository(db)
	hasher := crypto.NewBcryptHasher(cfg.BcryptCost)

	var cache ports.PrincipalCache
	if cfg.PrincipalCacheTTL > 0 {
		cache = redis.NewPrincipalCache(rdb, cfg.PrincipalCacheTTL)
	}

	// Audit workers outlive the request context so Close can drain them.
	audit := queue.NewDispatcher(cfg.AuditWorkers, mongo.NewAuditRepository(db), logger.Component("audit"))
	audit.Start(context.WithoutCancel(ctx))
	defer audit.Close()

	verifier := service.NewCredentialVerifier(users, hasher, logger.Component("credentials"))
	authService := service.NewAuthService(users, roles, verifier, codec, hasher, audit, logger.Component("auth"))
	resolver := service.NewIdentityResolver(codec, users, cache, logger.Component("identity"))
	userService := service.NewUserService(users, hasher, cache, logger.Component("users"))

	if err := service.NewBootstrapper(users, roles, hasher, logger.Component("bootstrap")).Run(ctx, cfg.BootstrapSeed); err != nil {
		return err
	}

	e := api.NewRouter(api.Dependencies{
		AuthService: authService,
		UserService: userService,
		Resolver:    resolver,
		Readiness: map[string]handler.Pinger{
			"mongodb": mongo.Pinger{Client: mongoClient},
			"redis":   redis.Pinger{Client: rdb},
		},
		AllowedOrigins:    cfg.CORSAllowedOrigins,
		MetricsRegisterer: prometheus.DefaultRegisterer,
		Log:               log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
