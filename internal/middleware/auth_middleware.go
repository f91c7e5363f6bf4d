// internal/middleware/auth_middleware.go
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"fieldops-service/internal/domain/identity"
	"fieldops-service/internal/pkg/response"
	"fieldops-service/internal/service/auth"

	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	authService *auth.AuthService
}

func NewAuthMiddleware(authService *auth.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

// Auth is the base authentication middleware that validates JWT tokens
func (m *AuthMiddleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "missing authorization token", nil)
			return
		}

		claims, err := m.authService.ValidateToken(c.Request.Context(), token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "invalid or expired token", err)
			return
		}

		// Set user context
		c.Set("identity_id", claims.IdentityID)
		c.Set("jti", claims.ID)
		c.Set("role", claims.Role)
		c.Set("organization_id", claims.OrganizationID)
		c.Set("device", claims.Device)

		c.Next()
	}
}

// RequireRole requires the user to hold one of the given roles.
// MUST be used after Auth() middleware
func (m *AuthMiddleware) RequireRole(roles ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, ok := GetRole(c)
		if !ok {
			response.Error(c, http.StatusForbidden, "no role found - authentication required", nil)
			return
		}

		for _, required := range roles {
			if userRole == required {
				c.Next()
				return
			}
		}

		response.Error(c, http.StatusForbidden, "insufficient permissions",
			errors.New("user does not have required role"))
	}
}

// StaffOnly restricts a route to back-office staff.
// MUST be used after Auth() middleware
func (m *AuthMiddleware) StaffOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, ok := GetRole(c)
		if !ok || !userRole.IsStaff() {
			response.Error(c, http.StatusForbidden, "staff access required", nil)
			return
		}
		c.Next()
	}
}

// AdminOnly returns middlewares for admin-only routes (Auth + RequireRole)
func (m *AuthMiddleware) AdminOnly() []gin.HandlerFunc {
	return []gin.HandlerFunc{
		m.Auth(),
		m.RequireRole(identity.RoleAdmin, identity.RoleSuperAdmin),
	}
}

// SuperAdminOnly returns middlewares for super admin-only routes
func (m *AuthMiddleware) SuperAdminOnly() []gin.HandlerFunc {
	return []gin.HandlerFunc{
		m.Auth(),
		m.RequireRole(identity.RoleSuperAdmin),
	}
}

// extractToken extracts Bearer token from Authorization header
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}

	// Fallback to query param; the websocket upgrade cannot send headers
	token := c.Query("token")
	if token != "" {
		return token
	}

	return ""
}

// GetIdentityID gets identity ID from context
func GetIdentityID(c *gin.Context) (int64, bool) {
	identityID, exists := c.Get("identity_id")
	if !exists {
		return 0, false
	}

	id, ok := identityID.(int64)
	return id, ok
}

// GetJTI gets the token's JTI from context
func GetJTI(c *gin.Context) (string, bool) {
	jti, exists := c.Get("jti")
	if !exists {
		return "", false
	}

	jtiStr, ok := jti.(string)
	return jtiStr, ok
}

// GetRole gets the user's role from context
func GetRole(c *gin.Context) (identity.Role, bool) {
	role, exists := c.Get("role")
	if !exists {
		return "", false
	}

	roleStr, ok := role.(string)
	return identity.Role(roleStr), ok
}

// GetOrganizationID gets the user's organization from context; zero means the
// user is not tied to one.
func GetOrganizationID(c *gin.Context) int64 {
	orgID, exists := c.Get("organization_id")
	if !exists {
		return 0
	}

	id, _ := orgID.(int64)
	return id
}
