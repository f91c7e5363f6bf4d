// internal/domain/organization/dto.go
package organization

type CreateOrganizationRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	NIF      string `json:"nif" binding:"required,max=20"`
	Plan     string `json:"plan" binding:"required,oneof=free pro enterprise"`
	MaxUsers int    `json:"max_users" binding:"required,min=1"`
}

type UpdateOrganizationRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	NIF         *string `json:"nif" binding:"omitempty,max=20"`
	Plan        *string `json:"plan" binding:"omitempty,oneof=free pro enterprise"`
	MaxUsers    *int    `json:"max_users" binding:"omitempty,min=1"`
	ActiveUsers *int    `json:"active_users" binding:"omitempty,min=0"`
}

type SuspendOrganizationRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

type OrganizationListFilters struct {
	Status    string `form:"status" binding:"omitempty,oneof=active trial suspended canceled"`
	Plan      string `form:"plan" binding:"omitempty,oneof=free pro enterprise"`
	Search    string `form:"search"` // Search by name, NIF
	Page      int    `form:"page" binding:"min=0"`
	PageSize  int    `form:"page_size" binding:"min=0,max=100"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

type OrganizationListResponse struct {
	Organizations []Organization `json:"organizations"`
	Total         int64          `json:"total"`
	Page          int            `json:"page"`
	PageSize      int            `json:"page_size"`
	TotalPages    int            `json:"total_pages"`
}
