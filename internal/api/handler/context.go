package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Sirpyerre/user-management/internal/core/domain"
)

// ctxIdentity returns the identity bound by the Authenticate middleware and
// fails fast with 401 when the request is anonymous. Route guards normally
// reject anonymous requests first; this covers routes that only need some
// identity.
func ctxIdentity(c echo.Context) (*domain.Identity, error) {
	id := domain.IdentityFromContext(c.Request().Context())
	if id == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Error: Unauthorized")
	}
	return id, nil
}

// messageResponse is the envelope for plain outcomes and errors.
type messageResponse struct {
	Message string `json:"message"`
}
