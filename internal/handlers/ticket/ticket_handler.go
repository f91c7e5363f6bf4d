// internal/handlers/ticket/ticket_handler.go
package ticket

import (
	"net/http"
	"strconv"

	"fieldops-service/internal/domain/ticket"
	"fieldops-service/internal/middleware"
	"fieldops-service/internal/pkg/response"
	service "fieldops-service/internal/service/ticket"

	"github.com/gin-gonic/gin"
)

type TicketHandler struct {
	ticketService *service.TicketService
}

func NewTicketHandler(ticketService *service.TicketService) *TicketHandler {
	return &TicketHandler{
		ticketService: ticketService,
	}
}

// CreateTicket opens a support ticket
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	var req ticket.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	sender := strconv.FormatInt(middleware.MustGetIdentityID(c), 10)
	result, err := h.ticketService.CreateTicket(c.Request.Context(), &req, sender, middleware.IsStaff(c))
	if err != nil {
		response.FromError(c, err, "failed to create ticket")
		return
	}

	response.Success(c, http.StatusCreated, "ticket created", result)
}

// GetTicket retrieves a ticket with its message thread
func (h *TicketHandler) GetTicket(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid ticket ID", err)
		return
	}

	result, err := h.ticketService.GetTicket(
		c.Request.Context(), id,
		middleware.GetOrganizationID(c), middleware.MustGetRole(c),
	)
	if err != nil {
		response.FromError(c, err, "failed to load ticket")
		return
	}

	response.Success(c, http.StatusOK, "ticket retrieved", result)
}

// ListTickets retrieves tickets with filters
func (h *TicketHandler) ListTickets(c *gin.Context) {
	var filters ticket.TicketListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid filters", err)
		return
	}

	result, err := h.ticketService.ListTickets(
		c.Request.Context(), &filters,
		middleware.GetOrganizationID(c), middleware.MustGetRole(c),
	)
	if err != nil {
		response.FromError(c, err, "failed to list tickets")
		return
	}

	response.Success(c, http.StatusOK, "tickets retrieved", result)
}

// AddMessage appends to a ticket's thread
func (h *TicketHandler) AddMessage(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid ticket ID", err)
		return
	}

	var req ticket.AddMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	sender := strconv.FormatInt(middleware.MustGetIdentityID(c), 10)
	result, err := h.ticketService.AddMessage(
		c.Request.Context(), id, req.Content, sender, middleware.IsStaff(c),
		middleware.GetOrganizationID(c), middleware.MustGetRole(c),
	)
	if err != nil {
		response.FromError(c, err, "failed to add message")
		return
	}

	response.Success(c, http.StatusCreated, "message added", result)
}

// UpdateTicketStatus moves a ticket through its lifecycle
func (h *TicketHandler) UpdateTicketStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid ticket ID", err)
		return
	}

	var req ticket.UpdateTicketStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.ticketService.UpdateTicketStatus(c.Request.Context(), id, ticket.Status(req.Status))
	if err != nil {
		response.FromError(c, err, "failed to update ticket status")
		return
	}

	response.Success(c, http.StatusOK, "ticket status updated", result)
}
