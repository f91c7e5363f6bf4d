// internal/domain/order/dto.go
package order

import "time"

type CustomerInput struct {
	Name       string `json:"name" binding:"required,max=255"`
	NIF        string `json:"nif" binding:"max=20"`
	Address    string `json:"address" binding:"max=255"`
	PostalCode string `json:"postal_code" binding:"max=10"`
	City       string `json:"city" binding:"max=100"`
	Contact    string `json:"contact" binding:"max=100"`
}

type CreateOrderRequest struct {
	Priority       string        `json:"priority" binding:"required,oneof=low normal high critical"`
	TechnicianID   *int64        `json:"technician_id"`
	AssistantID    *int64        `json:"assistant_id"`
	ScheduledStart time.Time     `json:"scheduled_start" binding:"required"`
	ScheduledEnd   time.Time     `json:"scheduled_end" binding:"required"`
	Customer       CustomerInput `json:"customer" binding:"required"`
	Scope          string        `json:"scope"`
	Observations   string        `json:"observations"`
}

type UpdateOrderRequest struct {
	Priority       *string        `json:"priority" binding:"omitempty,oneof=low normal high critical"`
	TechnicianID   *int64         `json:"technician_id"`
	AssistantID    *int64         `json:"assistant_id"`
	ScheduledStart *time.Time     `json:"scheduled_start"`
	ScheduledEnd   *time.Time     `json:"scheduled_end"`
	Customer       *CustomerInput `json:"customer"`
	Scope          *string        `json:"scope"`
	Report         *string        `json:"report"`
	Observations   *string        `json:"observations"`
	Satisfaction   *float64       `json:"satisfaction" binding:"omitempty,min=0,max=10"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending in_progress done reschedule canceled"`
}

type AttachSignatureRequest struct {
	// Which party signed: the technician closing the job or the customer.
	Party     string `json:"party" binding:"required,oneof=technician customer"`
	Signature string `json:"signature" binding:"required"`
}

type AddImageRequest struct {
	Image string `json:"image" binding:"required"`
}

type OrderListFilters struct {
	Status       string `form:"status" binding:"omitempty,oneof=pending in_progress done reschedule canceled"`
	Priority     string `form:"priority" binding:"omitempty,oneof=low normal high critical"`
	TechnicianID *int64 `form:"technician_id"`
	Search       string `form:"search"` // Search by process number, customer name
	Page         int    `form:"page" binding:"min=0"`
	PageSize     int    `form:"page_size" binding:"min=0,max=100"`
	SortBy       string `form:"sort_by"`
	SortOrder    string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

type OrderListResponse struct {
	Orders     []ServiceOrder `json:"orders"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}
