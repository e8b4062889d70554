package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/Sirpyerre/user-management/docs"
	"github.com/Sirpyerre/user-management/internal/api/handler"
	"github.com/Sirpyerre/user-management/internal/api/middleware"
	"github.com/Sirpyerre/user-management/internal/core/domain"
	"github.com/Sirpyerre/user-management/internal/core/ports"
)

// Dependencies are the collaborators the HTTP layer needs.
type Dependencies struct {
	AuthService ports.AuthService
	UserService ports.UserService
	Resolver    ports.IdentityResolver
	// Readiness maps dependency names to their probes for /health/ready.
	Readiness      map[string]handler.Pinger
	AllowedOrigins []string
	// MetricsRegisterer receives the HTTP request metrics. Nil disables them.
	MetricsRegisterer prometheus.Registerer
	Log               zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(deps.Log))
	if deps.MetricsRegisterer != nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Namespace:  "user_management",
			Registerer: deps.MetricsRegisterer,
			Skipper: func(c echo.Context) bool {
				return c.Path() == "/metrics"
			},
		}))
	}
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     deps.AllowedOrigins,
		AllowMethods:     []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		ExposeHeaders:    []string{echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           3600,
	}))
	e.Use(middleware.Authenticate(deps.Resolver, middleware.DefaultPublicPrefixes, deps.Log))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	userHandler := handler.NewUserHandler(deps.UserService)
	contentHandler := handler.NewContentHandler()

	requireUser := middleware.RequireRole(domain.RoleUser, domain.RoleAdmin)
	requireAdmin := middleware.RequireRole(domain.RoleAdmin)
	selfOrAdmin := middleware.RequireSelfOrRole(domain.RoleAdmin, "id")

	// --- Auth routes ---
	for _, prefix := range []string{"/auth", "/api/auth"} {
		g := e.Group(prefix)
		g.POST("/signin", authHandler.Signin)
		g.POST("/signup", authHandler.Signup)
	}

	// --- Test content ---
	for _, prefix := range []string{"/test", "/api/test"} {
		g := e.Group(prefix)
		g.GET("/all", contentHandler.All)
		g.GET("/user", contentHandler.User, requireUser)
		g.GET("/admin", contentHandler.Admin, requireAdmin)
		g.GET("/debug", contentHandler.Debug)
	}

	// --- Users ---
	users := e.Group("/api/users")
	users.GET("/all", userHandler.List, requireAdmin)
	users.GET("/me", userHandler.Me)
	users.GET("/:id", userHandler.Get, selfOrAdmin)
	users.PUT("/:id", userHandler.Update, selfOrAdmin)
	users.DELETE("/:id", userHandler.Delete, requireAdmin)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Readiness)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Observability ---
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
