// internal/handlers/auth/auth_handler.go
package auth

import (
	"net/http"
	"strconv"

	"fieldops-service/internal/domain/identity"
	"fieldops-service/internal/middleware"
	"fieldops-service/internal/pkg/response"
	service "fieldops-service/internal/service/auth"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login authenticates a user and returns a token
func (h *AuthHandler) Login(c *gin.Context) {
	var req identity.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req, c.ClientIP())
	if err != nil {
		response.FromError(c, err, "login failed")
		return
	}

	response.Success(c, http.StatusOK, "logged in", result)
}

// Logout revokes the current session
func (h *AuthHandler) Logout(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)
	jti := middleware.MustGetJTI(c)

	if err := h.authService.Logout(c.Request.Context(), identityID, jti); err != nil {
		response.FromError(c, err, "logout failed")
		return
	}

	response.Success(c, http.StatusOK, "logged out", nil)
}

// LogoutAll revokes every session on every device
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)

	if err := h.authService.LogoutAll(c.Request.Context(), identityID); err != nil {
		response.FromError(c, err, "logout failed")
		return
	}

	response.Success(c, http.StatusOK, "all sessions revoked", nil)
}

// Me returns the authenticated user's profile
func (h *AuthHandler) Me(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)

	user, err := h.authService.GetMe(c.Request.Context(), identityID)
	if err != nil {
		response.FromError(c, err, "failed to load profile")
		return
	}

	response.Success(c, http.StatusOK, "profile retrieved", user)
}

// ChangePassword rotates the authenticated user's password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)

	var req identity.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), identityID, &req); err != nil {
		response.FromError(c, err, "failed to change password")
		return
	}

	response.Success(c, http.StatusOK, "password changed", nil)
}

// RegisterUser creates a new account (admin only)
func (h *AuthHandler) RegisterUser(c *gin.Context) {
	var req identity.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	user, err := h.authService.RegisterUser(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err, "failed to create user")
		return
	}

	response.Success(c, http.StatusCreated, "user created", user)
}

// ListUsers retrieves accounts with filters
func (h *AuthHandler) ListUsers(c *gin.Context) {
	var filters identity.UserListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid filters", err)
		return
	}

	result, err := h.authService.ListUsers(c.Request.Context(), &filters)
	if err != nil {
		response.FromError(c, err, "failed to list users")
		return
	}

	response.Success(c, http.StatusOK, "users retrieved", result)
}

// SetUserActive toggles an account
func (h *AuthHandler) SetUserActive(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid user ID", err)
		return
	}

	var req struct {
		Active bool `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	if err := h.authService.SetUserActive(c.Request.Context(), id, req.Active); err != nil {
		response.FromError(c, err, "failed to update user")
		return
	}

	response.Success(c, http.StatusOK, "user updated", nil)
}
