package domain

import "time"

// TokenClaims is the decoded payload of an issued token.
type TokenClaims struct {
	ID        string
	Subject   string
	UserID    string
	Email     string
	Roles     []string
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
