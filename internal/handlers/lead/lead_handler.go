// internal/handlers/lead/lead_handler.go
package lead

import (
	"errors"
	"net/http"
	"strconv"

	"fieldops-service/internal/domain/crm"
	"fieldops-service/internal/pkg/response"
	service "fieldops-service/internal/service/crm"

	"github.com/gin-gonic/gin"
)

type LeadHandler struct {
	leadService *service.LeadService
}

func NewLeadHandler(leadService *service.LeadService) *LeadHandler {
	return &LeadHandler{
		leadService: leadService,
	}
}

// CreateLead registers a new prospect
func (h *LeadHandler) CreateLead(c *gin.Context) {
	var req crm.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.leadService.CreateLead(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err, "failed to create lead")
		return
	}

	response.Success(c, http.StatusCreated, "lead created", result)
}

// GetLead retrieves a lead by ID
func (h *LeadHandler) GetLead(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid lead ID", err)
		return
	}

	result, err := h.leadService.GetLead(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err, "failed to load lead")
		return
	}

	response.Success(c, http.StatusOK, "lead retrieved", result)
}

// ListLeads retrieves leads with filters
func (h *LeadHandler) ListLeads(c *gin.Context) {
	var filters crm.LeadListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid filters", err)
		return
	}

	result, err := h.leadService.ListLeads(c.Request.Context(), &filters)
	if err != nil {
		response.FromError(c, err, "failed to list leads")
		return
	}

	response.Success(c, http.StatusOK, "leads retrieved", result)
}

// UpdateLead patches a lead's editable fields
func (h *LeadHandler) UpdateLead(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid lead ID", err)
		return
	}

	var req crm.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.leadService.UpdateLead(c.Request.Context(), id, &req)
	if err != nil {
		response.FromError(c, err, "failed to update lead")
		return
	}

	response.Success(c, http.StatusOK, "lead updated", result)
}

// UpdateLeadStatus moves a lead through the pipeline
func (h *LeadHandler) UpdateLeadStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid lead ID", err)
		return
	}

	var req crm.UpdateLeadStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.leadService.UpdateLeadStatus(c.Request.Context(), id, crm.LeadStatus(req.Status))
	if err != nil {
		if errors.Is(err, crm.ErrAlreadyConverted) {
			response.Error(c, http.StatusConflict, "lead already converted", err)
			return
		}
		response.FromError(c, err, "failed to update lead status")
		return
	}

	response.Success(c, http.StatusOK, "lead status updated", result)
}

// ConvertLead closes a lead as won, creating its organization and manager
func (h *LeadHandler) ConvertLead(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid lead ID", err)
		return
	}

	result, err := h.leadService.ConvertLead(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, crm.ErrAlreadyConverted) {
			response.Error(c, http.StatusConflict, "lead already converted", err)
			return
		}
		response.FromError(c, err, "failed to convert lead")
		return
	}

	response.Success(c, http.StatusCreated, "lead converted", result)
}

// BulkImport loads leads from an exported prospect list
func (h *LeadHandler) BulkImport(c *gin.Context) {
	var records []crm.LeadImportRecord
	if err := c.ShouldBindJSON(&records); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.leadService.BulkImport(c.Request.Context(), records)
	if err != nil {
		response.FromError(c, err, "failed to import leads")
		return
	}

	response.Success(c, http.StatusOK, "leads imported", result)
}

// Pipeline aggregates the open sales pipeline
func (h *LeadHandler) Pipeline(c *gin.Context) {
	result, err := h.leadService.Pipeline(c.Request.Context())
	if err != nil {
		response.FromError(c, err, "failed to compute pipeline")
		return
	}

	response.Success(c, http.StatusOK, "pipeline computed", result)
}
