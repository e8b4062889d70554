package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Sirpyerre/user-management/internal/api/metrics"
	"github.com/Sirpyerre/user-management/internal/core/domain"
	"github.com/Sirpyerre/user-management/internal/core/ports"
)

const bearerPrefix = "Bearer "

// DefaultPublicPrefixes are the paths the authenticator never inspects. The
// test content group is not listed: its guarded routes need the identity, and
// its open routes work anonymously anyway.
var DefaultPublicPrefixes = []string{
	"/auth/",
	"/api/auth/",
	"/health",
	"/metrics",
	"/swagger/",
}

// Authenticate resolves the bearer token of every non-public request and
// binds the resulting identity to the request context. It never rejects a
// request: a missing or invalid token leaves the request anonymous and the
// route guards decide.
func Authenticate(resolver ports.IdentityResolver, publicPrefixes []string, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if isPublic(req.URL.Path, publicPrefixes) {
				return next(c)
			}

			token, ok := bearerToken(req.Header.Get(echo.HeaderAuthorization))
			if !ok {
				return next(c)
			}

			id, err := resolver.Resolve(req.Context(), token)
			if err != nil {
				result := tokenResult(err)
				metrics.TokenValidationsTotal.WithLabelValues(result).Inc()
				evt := log.Debug()
				if result == "error" {
					evt = log.Warn().Err(err)
				}
				evt.Str("result", result).Str("path", req.URL.Path).Msg("bearer token rejected")
				return next(c)
			}

			metrics.TokenValidationsTotal.WithLabelValues("valid").Inc()
			c.SetRequest(req.WithContext(domain.WithIdentity(req.Context(), id)))
			return next(c)
		}
	}
}

func isPublic(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// bearerToken extracts the token from an Authorization header value.
func bearerToken(header string) (string, bool) {
	token, ok := strings.CutPrefix(header, bearerPrefix)
	if !ok {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func tokenResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenSignatureInvalid):
		return "signature_invalid"
	case errors.Is(err, domain.ErrTokenUnsupported):
		return "unsupported"
	case errors.Is(err, domain.ErrTokenMalformed):
		return "malformed"
	case errors.Is(err, domain.ErrUserNotFound):
		return "unknown_principal"
	default:
		return "error"
	}
}
