package domain

import (
	"errors"
	"fmt"
)

// Authentication failures. Callers outside the auth core only ever see
// ErrInvalidCredentials or an unauthenticated request.
var (
	ErrInvalidCredentials = errors.New("bad credentials")
	ErrInvalidToken       = errors.New("invalid token")

	ErrTokenMalformed        = fmt.Errorf("%w: malformed", ErrInvalidToken)
	ErrTokenSignatureInvalid = fmt.Errorf("%w: signature invalid", ErrInvalidToken)
	ErrTokenExpired          = fmt.Errorf("%w: expired", ErrInvalidToken)
	ErrTokenUnsupported      = fmt.Errorf("%w: unsupported", ErrInvalidToken)
)

// Registration conflicts.
var (
	ErrConflict   = errors.New("conflict")
	ErrNameTaken  = fmt.Errorf("%w: username is already taken", ErrConflict)
	ErrEmailTaken = fmt.Errorf("%w: email is already in use", ErrConflict)
)

// Configuration errors are fatal at startup.
var (
	ErrConfiguration     = errors.New("configuration error")
	ErrInvalidSigningKey = fmt.Errorf("%w: invalid signing key", ErrConfiguration)
	ErrRoleNotFound      = fmt.Errorf("%w: role not found", ErrConfiguration)
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUserNotFound    = errors.New("user not found")
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("access forbidden")
)
