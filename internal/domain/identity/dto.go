// internal/domain/identity/dto.go
package identity

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Device   string `json:"device" binding:"max=100"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"` // seconds
	User      *User  `json:"user"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

type CreateUserRequest struct {
	FullName       string `json:"full_name" binding:"required,max=255"`
	Email          string `json:"email" binding:"required,email,max=255"`
	Password       string `json:"password" binding:"required,min=8"`
	Role           string `json:"role" binding:"required,oneof=super_admin admin director manager technician assistant client"`
	OrganizationID *int64 `json:"organization_id"`
}

type UserListFilters struct {
	Role           string `form:"role" binding:"omitempty,oneof=super_admin admin director manager technician assistant client"`
	OrganizationID *int64 `form:"organization_id"`
	IsActive       *bool  `form:"is_active"`
	Page           int    `form:"page" binding:"min=0"`
	PageSize       int    `form:"page_size" binding:"min=0,max=100"`
}

type UserListResponse struct {
	Users      []User `json:"users"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	TotalPages int    `json:"total_pages"`
}
