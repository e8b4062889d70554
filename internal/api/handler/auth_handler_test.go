package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Sirpyerre/user-management/internal/core/domain"
	"github.com/Sirpyerre/user-management/internal/core/ports"
)

type stubAuthService struct {
	signinFn func(ctx context.Context, name, password string) (*ports.SigninResult, error)
	signupFn func(ctx context.Context, input ports.SignupInput) (*domain.User, error)
}

func (s *stubAuthService) Signin(ctx context.Context, name, password string) (*ports.SigninResult, error) {
	return s.signinFn(ctx, name, password)
}

func (s *stubAuthService) Signup(ctx context.Context, input ports.SignupInput) (*domain.User, error) {
	return s.signupFn(ctx, input)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func postJSON(e *echo.Echo, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp messageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp.Message
}

func TestAuthHandler_Signin_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		signinFn: func(ctx context.Context, name, password string) (*ports.SigninResult, error) {
			if name != "admin" || password != "admin123" {
				t.Fatalf("unexpected args: %s %s", name, password)
			}
			return &ports.SigninResult{
				Token:     "token123",
				ExpiresAt: time.Now().Add(time.Hour),
				User: &domain.User{
					ID:    "64b7f0c2a1b2c3d4e5f60718",
					Name:  "admin",
					Email: "admin@example.com",
					Roles: []domain.Role{{Name: domain.RoleAdmin}},
				},
			}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := postJSON(e, "/api/auth/signin", `{"name":"admin","password":"admin123"}`)
	if err := handler.Signin(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp jwtResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "token123" || resp.Type != "Bearer" {
		t.Fatalf("unexpected token payload: %+v", resp)
	}
	if resp.Username != "admin" || resp.Email != "admin@example.com" || resp.ID == "" {
		t.Fatalf("unexpected user payload: %+v", resp)
	}
	if len(resp.Roles) != 1 || resp.Roles[0] != "ADMIN" {
		t.Fatalf("unexpected roles: %v", resp.Roles)
	}
}

func TestAuthHandler_Signin_BadCredentials(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		signinFn: func(ctx context.Context, name, password string) (*ports.SigninResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := postJSON(e, "/auth/signin", `{"name":"admin","password":"bad"}`)
	_ = handler.Signin(c)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if msg := decodeMessage(t, rec); msg != msgBadCredentials {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestAuthHandler_Signin_InvalidPayload(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		signinFn: func(ctx context.Context, name, password string) (*ports.SigninResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	for _, body := range []string{"{", `{"name":"admin"}`, `{"password":"x"}`} {
		c, rec := postJSON(e, "/auth/signin", body)
		_ = handler.Signin(c)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestAuthHandler_Signin_InternalError(t *testing.T) {
	e := newTestEcho()
	boom := errors.New("mongo down")
	stub := &stubAuthService{
		signinFn: func(ctx context.Context, name, password string) (*ports.SigninResult, error) {
			return nil, boom
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := postJSON(e, "/auth/signin", `{"name":"admin","password":"admin123"}`)
	if err := handler.Signin(c); !errors.Is(err, boom) {
		t.Fatalf("expected error to reach the error handler, got %v", err)
	}
}

func TestAuthHandler_Signup_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		signupFn: func(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
			if in.Name != "alice" || in.Email != "alice@example.com" || len(in.Roles) != 1 || in.Roles[0] != "admin" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.User{ID: "1", Name: in.Name}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := postJSON(e, "/api/auth/signup", `{"name":"alice","email":"alice@example.com","password":"secret1","roles":["admin"]}`)
	if err := handler.Signup(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if msg := decodeMessage(t, rec); msg != msgRegistered {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestAuthHandler_Signup_Conflicts(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{domain.ErrNameTaken, msgNameTaken},
		{domain.ErrEmailTaken, msgEmailTaken},
	}
	for _, tc := range cases {
		e := newTestEcho()
		stub := &stubAuthService{
			signupFn: func(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
				return nil, tc.err
			},
		}
		handler := NewAuthHandler(stub)

		c, rec := postJSON(e, "/auth/signup", `{"name":"alice","email":"alice@example.com","password":"secret1"}`)
		_ = handler.Signup(c)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%v: expected 400, got %d", tc.err, rec.Code)
		}
		if msg := decodeMessage(t, rec); msg != tc.want {
			t.Fatalf("%v: unexpected message %q", tc.err, msg)
		}
	}
}

func TestAuthHandler_Signup_Validation(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		signupFn: func(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	bodies := []string{
		`{"name":"al","email":"alice@example.com","password":"secret1"}`,
		`{"name":"alice","email":"not-an-email","password":"secret1"}`,
		`{"name":"alice","email":"alice@example.com","password":"123"}`,
		`{"name":"averyveryverylongusername","email":"alice@example.com","password":"secret1"}`,
		`not-json`,
	}
	for _, body := range bodies {
		c, rec := postJSON(e, "/auth/signup", body)
		_ = handler.Signup(c)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, rec.Code)
		}
	}

	c, rec := postJSON(e, "/auth/signup", `{"name":"al","email":"alice@example.com","password":"secret1"}`)
	_ = handler.Signup(c)
	if msg := decodeMessage(t, rec); !strings.Contains(msg, "name must be at least 3 characters") {
		t.Fatalf("unexpected validation message %q", msg)
	}
}
