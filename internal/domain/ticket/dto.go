// internal/domain/ticket/dto.go
package ticket

type CreateTicketRequest struct {
	OrganizationID int64  `json:"organization_id" binding:"required"`
	Subject        string `json:"subject" binding:"required,max=255"`
	Priority       string `json:"priority" binding:"required,oneof=low normal high critical"`
	Message        string `json:"message" binding:"required"`
}

type AddMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

type UpdateTicketStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=open in_progress resolved closed"`
}

type TicketListFilters struct {
	OrganizationID *int64 `form:"organization_id"`
	Status         string `form:"status" binding:"omitempty,oneof=open in_progress resolved closed"`
	Page           int    `form:"page" binding:"min=0"`
	PageSize       int    `form:"page_size" binding:"min=0,max=100"`
}

type TicketListResponse struct {
	Tickets    []SupportTicket `json:"tickets"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}
