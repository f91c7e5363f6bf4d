// internal/domain/crm/dto.go
package crm

type CreateLeadRequest struct {
	ContactName    string   `json:"contact_name" binding:"required,max=255"`
	CompanyName    string   `json:"company_name" binding:"required,max=255"`
	Email          string   `json:"email" binding:"required,email,max=255"`
	Phone          string   `json:"phone" binding:"max=20"`
	NIF            string   `json:"nif" binding:"max=20"`
	Notes          string   `json:"notes"`
	PotentialValue *float64 `json:"potential_value" binding:"omitempty,min=0"`
	Probability    *int16   `json:"probability" binding:"omitempty,min=0,max=100"`
	ProposedPlan   string   `json:"proposed_plan" binding:"omitempty,oneof=free pro enterprise"`
	ProposedUsers  *int32   `json:"proposed_users" binding:"omitempty,min=1"`
}

type UpdateLeadRequest struct {
	ContactName    *string  `json:"contact_name" binding:"omitempty,max=255"`
	CompanyName    *string  `json:"company_name" binding:"omitempty,max=255"`
	Email          *string  `json:"email" binding:"omitempty,email,max=255"`
	Phone          *string  `json:"phone" binding:"omitempty,max=20"`
	NIF            *string  `json:"nif" binding:"omitempty,max=20"`
	Notes          *string  `json:"notes"`
	PotentialValue *float64 `json:"potential_value" binding:"omitempty,min=0"`
	Probability    *int16   `json:"probability" binding:"omitempty,min=0,max=100"`
	ProposedPlan   *string  `json:"proposed_plan" binding:"omitempty,oneof=free pro enterprise"`
	ProposedUsers  *int32   `json:"proposed_users" binding:"omitempty,min=1"`
}

type UpdateLeadStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=new contacted qualified lost"`
}

// LeadImportRecord is one row of a JSON bulk import. Only company name and
// email are mandatory; everything else defaults.
type LeadImportRecord struct {
	ContactName    string   `json:"contact_name"`
	CompanyName    string   `json:"company_name"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	NIF            string   `json:"nif"`
	Notes          string   `json:"notes"`
	PotentialValue *float64 `json:"potential_value"`
}

type LeadImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

type LeadListFilters struct {
	Status    string `form:"status" binding:"omitempty,oneof=new contacted qualified converted lost"`
	Search    string `form:"search"` // Search by contact, company, email
	Page      int    `form:"page" binding:"min=0"`
	PageSize  int    `form:"page_size" binding:"min=0,max=100"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

type LeadListResponse struct {
	Leads      []Lead `json:"leads"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	TotalPages int    `json:"total_pages"`
}
