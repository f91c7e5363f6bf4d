// internal/handlers/organization/organization_handler.go
package organization

import (
	"net/http"
	"strconv"

	"fieldops-service/internal/domain/organization"
	"fieldops-service/internal/pkg/response"
	service "fieldops-service/internal/service/organization"

	"github.com/gin-gonic/gin"
)

type OrganizationHandler struct {
	orgService *service.OrganizationService
}

func NewOrganizationHandler(orgService *service.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{
		orgService: orgService,
	}
}

// CreateOrganization registers a new client organization
func (h *OrganizationHandler) CreateOrganization(c *gin.Context) {
	var req organization.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.orgService.CreateOrganization(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err, "failed to create organization")
		return
	}

	response.Success(c, http.StatusCreated, "organization created", result)
}

// GetOrganization retrieves an organization by ID
func (h *OrganizationHandler) GetOrganization(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid organization ID", err)
		return
	}

	result, err := h.orgService.GetOrganization(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err, "failed to load organization")
		return
	}

	response.Success(c, http.StatusOK, "organization retrieved", result)
}

// ListOrganizations retrieves organizations with filters
func (h *OrganizationHandler) ListOrganizations(c *gin.Context) {
	var filters organization.OrganizationListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid filters", err)
		return
	}

	result, err := h.orgService.ListOrganizations(c.Request.Context(), &filters)
	if err != nil {
		response.FromError(c, err, "failed to list organizations")
		return
	}

	response.Success(c, http.StatusOK, "organizations retrieved", result)
}

// UpdateOrganization patches plan, seats and identity fields
func (h *OrganizationHandler) UpdateOrganization(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid organization ID", err)
		return
	}

	var req organization.UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.orgService.UpdateOrganization(c.Request.Context(), id, &req)
	if err != nil {
		response.FromError(c, err, "failed to update organization")
		return
	}

	response.Success(c, http.StatusOK, "organization updated", result)
}

// SuspendOrganization blocks an organization
func (h *OrganizationHandler) SuspendOrganization(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid organization ID", err)
		return
	}

	var req organization.SuspendOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	if err := h.orgService.SuspendOrganization(c.Request.Context(), id, req.Reason); err != nil {
		response.FromError(c, err, "failed to suspend organization")
		return
	}

	response.Success(c, http.StatusOK, "organization suspended", nil)
}

// ReactivateOrganization lifts a suspension
func (h *OrganizationHandler) ReactivateOrganization(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid organization ID", err)
		return
	}

	if err := h.orgService.ReactivateOrganization(c.Request.Context(), id); err != nil {
		response.FromError(c, err, "failed to reactivate organization")
		return
	}

	response.Success(c, http.StatusOK, "organization reactivated", nil)
}

// Revenue aggregates projected monthly revenue over every organization
func (h *OrganizationHandler) Revenue(c *gin.Context) {
	result, err := h.orgService.Revenue(c.Request.Context())
	if err != nil {
		response.FromError(c, err, "failed to compute revenue")
		return
	}

	response.Success(c, http.StatusOK, "revenue computed", result)
}

// Quote prices a plan and seat count
func (h *OrganizationHandler) Quote(c *gin.Context) {
	users, err := strconv.Atoi(c.Query("users"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid user count", err)
		return
	}
	plan := organization.PlanType(c.Query("plan"))

	price, err := h.orgService.Quote(users, plan)
	if err != nil {
		response.FromError(c, err, "failed to quote plan")
		return
	}

	response.Success(c, http.StatusOK, "plan quoted", gin.H{
		"plan":          plan,
		"users":         users,
		"monthly_price": price,
	})
}
