// internal/handlers/order/order_handler.go
package order

import (
	"net/http"
	"strconv"

	"fieldops-service/internal/domain/order"
	"fieldops-service/internal/middleware"
	"fieldops-service/internal/pkg/response"
	service "fieldops-service/internal/service/order"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService *service.OrderService
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// CreateOrder opens a new service order
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req order.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.orderService.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err, "failed to create service order")
		return
	}

	response.Success(c, http.StatusCreated, "service order created", result)
}

// GetOrder retrieves a service order by ID
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid order ID", err)
		return
	}

	result, err := h.orderService.GetOrder(
		c.Request.Context(), id,
		middleware.MustGetIdentityID(c), middleware.MustGetRole(c),
	)
	if err != nil {
		response.FromError(c, err, "failed to load service order")
		return
	}

	response.Success(c, http.StatusOK, "service order retrieved", result)
}

// GetOrderByProcessNumber retrieves an order by its display code
func (h *OrderHandler) GetOrderByProcessNumber(c *gin.Context) {
	processNumber := c.Param("process_number")
	if processNumber == "" {
		response.Error(c, http.StatusBadRequest, "process number is required", nil)
		return
	}

	result, err := h.orderService.GetOrderByProcessNumber(
		c.Request.Context(), processNumber,
		middleware.MustGetIdentityID(c), middleware.MustGetRole(c),
	)
	if err != nil {
		response.FromError(c, err, "failed to load service order")
		return
	}

	response.Success(c, http.StatusOK, "service order retrieved", result)
}

// ListOrders retrieves orders with filters
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var filters order.OrderListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid filters", err)
		return
	}

	result, err := h.orderService.ListOrders(
		c.Request.Context(), &filters,
		middleware.MustGetIdentityID(c), middleware.MustGetRole(c),
	)
	if err != nil {
		response.FromError(c, err, "failed to list service orders")
		return
	}

	response.Success(c, http.StatusOK, "service orders retrieved", result)
}

// UpdateOrder patches a service order
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid order ID", err)
		return
	}

	var req order.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.orderService.UpdateOrder(c.Request.Context(), id, &req)
	if err != nil {
		response.FromError(c, err, "failed to update service order")
		return
	}

	response.Success(c, http.StatusOK, "service order updated", result)
}

// UpdateOrderStatus transitions a service order
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid order ID", err)
		return
	}

	var req order.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.orderService.UpdateOrderStatus(
		c.Request.Context(), id, order.Status(req.Status),
		middleware.MustGetIdentityID(c), middleware.MustGetRole(c),
	)
	if err != nil {
		response.FromError(c, err, "failed to update order status")
		return
	}

	response.Success(c, http.StatusOK, "order status updated", result)
}

// AttachSignature stores a signature on a finished order
func (h *OrderHandler) AttachSignature(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid order ID", err)
		return
	}

	var req order.AttachSignatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	if err := h.orderService.AttachSignature(
		c.Request.Context(), id, &req,
		middleware.MustGetIdentityID(c), middleware.MustGetRole(c),
	); err != nil {
		response.FromError(c, err, "failed to store signature")
		return
	}

	response.Success(c, http.StatusOK, "signature stored", nil)
}

// AddImage appends a photo to a service order
func (h *OrderHandler) AddImage(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid order ID", err)
		return
	}

	var req order.AddImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	if err := h.orderService.AddImage(
		c.Request.Context(), id, req.Image,
		middleware.MustGetIdentityID(c), middleware.MustGetRole(c),
	); err != nil {
		response.FromError(c, err, "failed to add image")
		return
	}

	response.Success(c, http.StatusOK, "image added", nil)
}

// Stats aggregates counts and histograms over all orders
func (h *OrderHandler) Stats(c *gin.Context) {
	result, err := h.orderService.Stats(c.Request.Context())
	if err != nil {
		response.FromError(c, err, "failed to compute order stats")
		return
	}

	response.Success(c, http.StatusOK, "order stats computed", result)
}

// TechnicianPerformance reports one technician's completions and averages
func (h *OrderHandler) TechnicianPerformance(c *gin.Context) {
	technicianID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid technician ID", err)
		return
	}

	result, err := h.orderService.TechnicianPerformance(c.Request.Context(), technicianID)
	if err != nil {
		response.FromError(c, err, "failed to compute technician performance")
		return
	}

	response.Success(c, http.StatusOK, "technician performance computed", result)
}
