package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Sirpyerre/user-management/internal/api/metrics"
	"github.com/Sirpyerre/user-management/internal/core/domain"
	"github.com/Sirpyerre/user-management/internal/core/ports"
)

const (
	msgBadCredentials = "Error: Bad credentials"
	msgNameTaken      = "Error: Username is already taken!"
	msgEmailTaken     = "Error: Email is already in use!"
	msgRegistered     = "User registered successfully!"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type signinRequest struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type signupRequest struct {
	Name     string   `json:"name" validate:"required,min=3,max=20"`
	Email    string   `json:"email" validate:"required,max=50,email"`
	Password string   `json:"password" validate:"required,min=6,max=40"`
	Roles    []string `json:"roles"`
}

type jwtResponse struct {
	Token    string   `json:"token"`
	Type     string   `json:"type"`
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

// Signin authenticates a user and returns a JWT token.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signinRequest  true  "Credentials"
// @Success      200   {object}  jwtResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Router       /auth/signin [post]
func (h *AuthHandler) Signin(c echo.Context) error {
	var req signinRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Error: invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Error: " + err.Error()})
	}

	res, err := h.authService.Signin(c.Request().Context(), req.Name, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.SigninTotal.WithLabelValues("bad_credentials").Inc()
			return c.JSON(http.StatusUnauthorized, messageResponse{Message: msgBadCredentials})
		}
		metrics.SigninTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.SigninTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, jwtResponse{
		Token:    res.Token,
		Type:     "Bearer",
		ID:       res.User.ID,
		Username: res.User.Name,
		Email:    res.User.Email,
		Roles:    res.User.RoleNames(),
	})
}

// Signup registers a new account.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Registration details"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  messageResponse
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Error: invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		metrics.SignupTotal.WithLabelValues("invalid").Inc()
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Error: " + err.Error()})
	}

	_, err := h.authService.Signup(c.Request().Context(), ports.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Roles:    req.Roles,
	})
	switch {
	case err == nil:
		metrics.SignupTotal.WithLabelValues("success").Inc()
		return c.JSON(http.StatusOK, messageResponse{Message: msgRegistered})
	case errors.Is(err, domain.ErrNameTaken):
		metrics.SignupTotal.WithLabelValues("name_taken").Inc()
		return c.JSON(http.StatusBadRequest, messageResponse{Message: msgNameTaken})
	case errors.Is(err, domain.ErrEmailTaken):
		metrics.SignupTotal.WithLabelValues("email_taken").Inc()
		return c.JSON(http.StatusBadRequest, messageResponse{Message: msgEmailTaken})
	default:
		metrics.SignupTotal.WithLabelValues("error").Inc()
		return err
	}
}
