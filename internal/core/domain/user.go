package domain

import (
	"slices"
	"strings"
	"time"
)

// RoleName is one of the closed set of authorization labels.
type RoleName string

const (
	RoleUser  RoleName = "USER"
	RoleAdmin RoleName = "ADMIN"
)

// AllRoles lists the reference roles seeded at bootstrap.
var AllRoles = []RoleName{RoleUser, RoleAdmin}

// ParseRoleName maps a requested role string to a known role. Matching is
// case-insensitive; "admin" selects ADMIN and every other value selects USER.
func ParseRoleName(s string) RoleName {
	if strings.EqualFold(strings.TrimSpace(s), "admin") {
		return RoleAdmin
	}
	return RoleUser
}

// Role is reference data created once at bootstrap and never mutated.
type Role struct {
	ID   string   `json:"id"`
	Name RoleName `json:"name"`
}

// User models a registered principal.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Roles        []Role    `json:"roles"`
	Enabled      bool      `json:"enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(name RoleName) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// RoleNames returns the user's role names, deduplicated and sorted.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		n := string(r.Name)
		if !slices.Contains(names, n) {
			names = append(names, n)
		}
	}
	slices.Sort(names)
	return names
}

// Identity returns the request-scoped view of this user.
func (u *User) Identity() *Identity {
	roles := make([]RoleName, 0, len(u.Roles))
	for _, n := range u.RoleNames() {
		roles = append(roles, RoleName(n))
	}
	return &Identity{
		UserID: u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Roles:  roles,
	}
}
