// internal/domain/identity/entity.go
package identity

import (
	"database/sql"
	"time"
)

type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleDirector   Role = "director"
	RoleManager    Role = "manager"
	RoleTechnician Role = "technician"
	RoleAssistant  Role = "assistant"
	RoleClient     Role = "client"
)

var AllRoles = []Role{
	RoleSuperAdmin, RoleAdmin, RoleDirector, RoleManager,
	RoleTechnician, RoleAssistant, RoleClient,
}

func (r Role) Valid() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// IsStaff reports whether the role belongs to back-office personnel.
func (r Role) IsStaff() bool {
	return r == RoleSuperAdmin || r == RoleAdmin || r == RoleDirector || r == RoleManager
}

type User struct {
	ID           int64  `json:"id" db:"id"`
	FullName     string `json:"full_name" db:"full_name"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
	Role         Role   `json:"role" db:"role"`

	// Weak reference: a user may exist without an organization (platform staff).
	OrganizationID sql.NullInt64 `json:"organization_id,omitempty" db:"organization_id"`

	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
