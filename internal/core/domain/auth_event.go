package domain

import "time"

// AuthEventType classifies an audit record.
type AuthEventType string

const (
	EventSigninSuccess  AuthEventType = "signin_success"
	EventSigninFailure  AuthEventType = "signin_failure"
	EventSignupSuccess  AuthEventType = "signup_success"
	EventSignupConflict AuthEventType = "signup_conflict"
)

// AuthEvent records the outcome of a signin or signup attempt.
type AuthEvent struct {
	Type      AuthEventType
	Name      string
	UserID    string
	Reason    string
	Timestamp time.Time
}
