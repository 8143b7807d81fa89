package models

import "strings"

// Role is an authorization role as carried in the comma-separated roles
// string of a login response.
type Role string

const (
	RoleUser  Role = "ROLE_USER"
	RoleAdmin Role = "ROLE_ADMIN"
)

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the body returned by POST /auth/login. It doubles as the
// stored current-user record of a session.
type LoginResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"tokenType"`
	UserID    int64  `json:"userId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Roles     string `json:"roles"`
}

// Credential renders the Authorization header value "<tokenType> <token>".
func (r LoginResponse) Credential() string {
	return r.TokenType + " " + r.Token
}

// RoleList splits Roles on commas and trims each entry. Empty entries are
// dropped.
func (r LoginResponse) RoleList() []Role {
	return ParseRoles(r.Roles)
}

// HasRole reports whether role appears in Roles.
func (r LoginResponse) HasRole(role Role) bool {
	for _, have := range r.RoleList() {
		if have == role {
			return true
		}
	}
	return false
}

// ParseRoles splits a comma-separated role string.
func ParseRoles(s string) []Role {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	roles := make([]Role, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			roles = append(roles, Role(p))
		}
	}
	return roles
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Roles    string `json:"roles,omitempty"`
}

// User is the user record returned by registration.
type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Roles     string `json:"roles"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// UserOption is one typeahead result of GET /users.
type UserOption struct {
	Value int64  `json:"value"`
	Label string `json:"label"`
}
