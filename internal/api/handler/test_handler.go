package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ContentHandler serves the fixed test content used to check access levels
// from a client.
type ContentHandler struct{}

func NewContentHandler() *ContentHandler {
	return &ContentHandler{}
}

// @Summary  Public content
// @Tags     test
// @Produce  plain
// @Success  200  {string}  string
// @Router   /api/test/all [get]
func (h *ContentHandler) All(c echo.Context) error {
	return c.String(http.StatusOK, "Public Content.")
}

// @Summary   User content
// @Tags      test
// @Produce   plain
// @Security  BearerAuth
// @Success   200  {string}  string
// @Failure   401  {object}  messageResponse
// @Failure   403  {object}  messageResponse
// @Router    /api/test/user [get]
func (h *ContentHandler) User(c echo.Context) error {
	return c.String(http.StatusOK, "User Content.")
}

// @Summary   Admin content
// @Tags      test
// @Produce   plain
// @Security  BearerAuth
// @Success   200  {string}  string
// @Failure   401  {object}  messageResponse
// @Failure   403  {object}  messageResponse
// @Router    /api/test/admin [get]
func (h *ContentHandler) Admin(c echo.Context) error {
	return c.String(http.StatusOK, "Admin Board.")
}

// @Summary  Connectivity check
// @Tags     test
// @Produce  plain
// @Success  200  {string}  string
// @Router   /api/test/debug [get]
func (h *ContentHandler) Debug(c echo.Context) error {
	return c.String(http.StatusOK, "Debug endpoint working! CORS and basic connectivity is OK.")
}
