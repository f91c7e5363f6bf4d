// internal/middleware/helpers.go
package middleware

import (
	"fieldops-service/internal/domain/identity"

	"github.com/gin-gonic/gin"
)

// MustGetIdentityID gets identity ID from context or panics
func MustGetIdentityID(c *gin.Context) int64 {
	identityID, exists := GetIdentityID(c)
	if !exists {
		panic("identity_id not found in context")
	}
	return identityID
}

// MustGetJTI gets JTI from context or panics
func MustGetJTI(c *gin.Context) string {
	jti, exists := GetJTI(c)
	if !exists {
		panic("jti not found in context")
	}
	return jti
}

// MustGetRole gets the role from context or panics
func MustGetRole(c *gin.Context) identity.Role {
	role, exists := GetRole(c)
	if !exists {
		panic("role not found in context")
	}
	return role
}

// IsAuthenticated checks if request is authenticated
func IsAuthenticated(c *gin.Context) bool {
	_, exists := c.Get("identity_id")
	return exists
}

// IsStaff checks if the user is back-office staff
func IsStaff(c *gin.Context) bool {
	role, ok := GetRole(c)
	return ok && role.IsStaff()
}

// IsSuperAdmin checks if user is a super admin
func IsSuperAdmin(c *gin.Context) bool {
	role, ok := GetRole(c)
	return ok && role == identity.RoleSuperAdmin
}
