// Package auth issues and validates the bearer tokens guarding the admin API.
package auth

import "github.com/golang-jwt/jwt/v5"

// RoleAdmin grants access to maintenance and product endpoints.
const RoleAdmin = "admin"

// Claims are the JWT claims of a shopkeep token. The operator identity is
// the registered subject.
type Claims struct {
	jwt.RegisteredClaims

	// Role is the operator's role. Only "admin" is issued today.
	Role string `json:"role"`
}

// IsAdmin returns true if the token carries the admin role.
func (c *Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}
