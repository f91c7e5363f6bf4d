// internal/pkg/jwt/claims.go
package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the JWT claims carried by an access token.
type Claims struct {
	IdentityID     int64  `json:"identity_id"`
	Role           string `json:"role"`
	OrganizationID int64  `json:"organization_id,omitempty"`
	Device         string `json:"device,omitempty"`
	jwt.RegisteredClaims
}

// HasRole checks if the claims carry the given role.
func (c *Claims) HasRole(role string) bool {
	return c.Role == role
}

// IsSuperAdmin checks if the token belongs to a super admin.
func (c *Claims) IsSuperAdmin() bool {
	return c.Role == "super_admin"
}

// IsStaff checks if the token belongs to back-office personnel.
func (c *Claims) IsStaff() bool {
	switch c.Role {
	case "super_admin", "admin", "director", "manager":
		return true
	}
	return false
}
