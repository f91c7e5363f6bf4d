// internal/service/order/order_service.go
package order

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fieldops-service/internal/domain/identity"
	"fieldops-service/internal/domain/order"
	xerrors "fieldops-service/internal/pkg/errors"
	"fieldops-service/internal/repository/postgres"
	"fieldops-service/internal/stats"
	"fieldops-service/internal/websocket"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

type OrderService struct {
	orderRepo *postgres.OrderRepository
	userRepo  *postgres.UserRepository
	hub       *websocket.Hub
	logger    *zap.Logger
}

func NewOrderService(
	orderRepo *postgres.OrderRepository,
	userRepo *postgres.UserRepository,
	hub *websocket.Hub,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		hub:       hub,
		logger:    logger,
	}
}

// CreateOrder opens a new service order and notifies assigned staff
func (s *OrderService) CreateOrder(ctx context.Context, req *order.CreateOrderRequest) (*order.ServiceOrder, error) {
	if !req.ScheduledEnd.After(req.ScheduledStart) {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "scheduled end must be after scheduled start")
	}

	o := &order.ServiceOrder{
		ProcessNumber:  s.generateProcessNumber(req.ScheduledStart),
		Priority:       order.Priority(req.Priority),
		Status:         order.StatusPending,
		ScheduledStart: req.ScheduledStart,
		ScheduledEnd:   req.ScheduledEnd,
		Customer: order.Customer{
			Name:       req.Customer.Name,
			NIF:        req.Customer.NIF,
			Address:    req.Customer.Address,
			PostalCode: req.Customer.PostalCode,
			City:       req.Customer.City,
			Contact:    req.Customer.Contact,
		},
		Scope:        req.Scope,
		Observations: req.Observations,
	}

	if err := s.assignStaff(ctx, o, req.TechnicianID, req.AssistantID); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Create(ctx, o); err != nil {
		s.logger.Error("failed to create service order", zap.Error(err))
		return nil, err
	}

	s.logger.Info("service order created",
		zap.Int64("order_id", o.ID),
		zap.String("process_number", o.ProcessNumber),
		zap.String("priority", string(o.Priority)),
	)

	s.notifyAssigned(o, websocket.EventOrderAssigned)

	return o, nil
}

// GetOrder retrieves a service order, enforcing that technicians only see
// orders assigned to them.
func (s *OrderService) GetOrder(ctx context.Context, id int64, viewerID int64, viewerRole identity.Role) (*order.ServiceOrder, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.canView(o, viewerID, viewerRole) {
		return nil, xerrors.ErrForbidden
	}

	return o, nil
}

// GetOrderByProcessNumber retrieves an order by its display code
func (s *OrderService) GetOrderByProcessNumber(ctx context.Context, processNumber string, viewerID int64, viewerRole identity.Role) (*order.ServiceOrder, error) {
	o, err := s.orderRepo.FindByProcessNumber(ctx, processNumber)
	if err != nil {
		return nil, err
	}

	if !s.canView(o, viewerID, viewerRole) {
		return nil, xerrors.ErrForbidden
	}

	return o, nil
}

// ListOrders retrieves orders with filters and pagination. Technicians are
// pinned to their own assignments regardless of the filter they send.
func (s *OrderService) ListOrders(ctx context.Context, filters *order.OrderListFilters, viewerID int64, viewerRole identity.Role) (*order.OrderListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}
	if viewerRole == identity.RoleTechnician || viewerRole == identity.RoleAssistant {
		filters.TechnicianID = &viewerID
	}

	orders, total, err := s.orderRepo.List(ctx, filters)
	if err != nil {
		s.logger.Error("failed to list service orders", zap.Error(err))
		return nil, err
	}

	totalPages := int((total + int64(filters.PageSize) - 1) / int64(filters.PageSize))

	return &order.OrderListResponse{
		Orders:     orders,
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalPages: totalPages,
	}, nil
}

// UpdateOrder patches an order's editable fields
func (s *OrderService) UpdateOrder(ctx context.Context, id int64, req *order.UpdateOrderRequest) (*order.ServiceOrder, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status == order.StatusCanceled {
		return nil, xerrors.Wrap(xerrors.ErrPrecondition, "order is canceled")
	}

	if req.Priority != nil {
		o.Priority = order.Priority(*req.Priority)
	}
	if req.ScheduledStart != nil {
		o.ScheduledStart = *req.ScheduledStart
	}
	if req.ScheduledEnd != nil {
		o.ScheduledEnd = *req.ScheduledEnd
	}
	if !o.ScheduledEnd.After(o.ScheduledStart) {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "scheduled end must be after scheduled start")
	}
	if req.Customer != nil {
		o.Customer = order.Customer{
			Name:       req.Customer.Name,
			NIF:        req.Customer.NIF,
			Address:    req.Customer.Address,
			PostalCode: req.Customer.PostalCode,
			City:       req.Customer.City,
			Contact:    req.Customer.Contact,
		}
	}
	if req.Scope != nil {
		o.Scope = *req.Scope
	}
	if req.Report != nil {
		o.Report = *req.Report
	}
	if req.Observations != nil {
		o.Observations = *req.Observations
	}
	if req.Satisfaction != nil {
		if o.Status != order.StatusDone {
			return nil, xerrors.Wrap(xerrors.ErrPrecondition, "satisfaction can only be rated after completion")
		}
		o.Satisfaction = sql.NullFloat64{Float64: *req.Satisfaction, Valid: true}
	}

	reassigned := req.TechnicianID != nil || req.AssistantID != nil
	if reassigned {
		if err := s.assignStaff(ctx, o, req.TechnicianID, req.AssistantID); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Update(ctx, id, o); err != nil {
		s.logger.Error("failed to update service order", zap.Int64("order_id", id), zap.Error(err))
		return nil, err
	}

	if reassigned {
		s.notifyAssigned(o, websocket.EventOrderAssigned)
	}

	return o, nil
}

// UpdateOrderStatus transitions an order. Starting work stamps the actual
// start; finishing stamps the actual end. Restarts keep the original start.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id int64, status order.Status, actorID int64, actorRole identity.Role) (*order.ServiceOrder, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actorRole.IsStaff() && !o.AssignedTo(actorID) {
		return nil, xerrors.ErrForbidden
	}
	if o.Status == status {
		return o, nil
	}
	if o.Status == order.StatusCanceled {
		return nil, xerrors.Wrap(xerrors.ErrPrecondition, "order is canceled")
	}
	if o.Status == order.StatusDone && status != order.StatusReschedule {
		return nil, xerrors.Wrap(xerrors.ErrPrecondition, "order is already done")
	}

	now := time.Now()
	var actualStart, actualEnd *time.Time
	if status == order.StatusInProgress && !o.ActualStart.Valid {
		actualStart = &now
	}
	if status == order.StatusDone {
		actualEnd = &now
		if !o.ActualStart.Valid {
			actualStart = &now
		}
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, status, actualStart, actualEnd); err != nil {
		s.logger.Error("failed to update order status", zap.Int64("order_id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("order status updated",
		zap.Int64("order_id", id),
		zap.String("from", string(o.Status)),
		zap.String("to", string(status)),
		zap.Int64("actor_id", actorID),
	)

	updated, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.notifyAssigned(updated, websocket.EventOrderStatus)

	return updated, nil
}

// AttachSignature stores one party's signature on a finished order
func (s *OrderService) AttachSignature(ctx context.Context, id int64, req *order.AttachSignatureRequest, actorID int64, actorRole identity.Role) error {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !actorRole.IsStaff() && !o.AssignedTo(actorID) {
		return xerrors.ErrForbidden
	}
	if o.Status != order.StatusDone {
		return xerrors.Wrap(xerrors.ErrPrecondition, "signatures are collected when the work is done")
	}

	return s.orderRepo.SetSignature(ctx, id, req.Party, req.Signature)
}

// AddImage appends a photo to the order's attachment list
func (s *OrderService) AddImage(ctx context.Context, id int64, image string, actorID int64, actorRole identity.Role) error {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !actorRole.IsStaff() && !o.AssignedTo(actorID) {
		return xerrors.ErrForbidden
	}

	return s.orderRepo.AppendImage(ctx, id, image)
}

// Stats aggregates counts and histograms over the whole order collection
func (s *OrderService) Stats(ctx context.Context) (*OrderStatsReport, error) {
	orders, err := s.orderRepo.FindAll(ctx)
	if err != nil {
		s.logger.Error("failed to load orders for stats", zap.Error(err))
		return nil, err
	}

	return &OrderStatsReport{
		Stats:      stats.ComputeOrderStats(orders),
		ByStatus:   stats.ComputeStatusHistogram(orders),
		ByPriority: stats.ComputePriorityHistogram(orders),
	}, nil
}

// TechnicianPerformance reports one technician's completions, averages and
// last-7-day activity.
func (s *OrderService) TechnicianPerformance(ctx context.Context, technicianID int64) (*stats.TechnicianPerformance, error) {
	u, err := s.userRepo.FindByID(ctx, technicianID)
	if err != nil {
		return nil, err
	}
	if u.Role != identity.RoleTechnician && u.Role != identity.RoleAssistant {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "user is not a technician")
	}

	orders, err := s.orderRepo.FindByTechnician(ctx, technicianID)
	if err != nil {
		s.logger.Error("failed to load technician orders", zap.Int64("technician_id", technicianID), zap.Error(err))
		return nil, err
	}

	perf := stats.ComputeTechnicianPerformance(orders, technicianID, time.Now())
	return &perf, nil
}

// OrderStatsReport bundles the aggregate counters with both histograms.
type OrderStatsReport struct {
	Stats      stats.OrderStats       `json:"stats"`
	ByStatus   map[order.Status]int   `json:"by_status"`
	ByPriority map[order.Priority]int `json:"by_priority"`
}

// assignStaff resolves assignment ids to users, verifies their roles and
// denormalizes their names onto the order.
func (s *OrderService) assignStaff(ctx context.Context, o *order.ServiceOrder, technicianID, assistantID *int64) error {
	if technicianID != nil {
		tech, err := s.userRepo.FindByID(ctx, *technicianID)
		if err != nil {
			return fmt.Errorf("technician lookup failed: %w", err)
		}
		if tech.Role != identity.RoleTechnician {
			return xerrors.Wrap(xerrors.ErrInvalidInput, "assigned user is not a technician")
		}
		o.TechnicianID = sql.NullInt64{Int64: tech.ID, Valid: true}
		o.TechnicianName = sql.NullString{String: tech.FullName, Valid: true}
	}

	if assistantID != nil {
		assistant, err := s.userRepo.FindByID(ctx, *assistantID)
		if err != nil {
			return fmt.Errorf("assistant lookup failed: %w", err)
		}
		if assistant.Role != identity.RoleTechnician && assistant.Role != identity.RoleAssistant {
			return xerrors.Wrap(xerrors.ErrInvalidInput, "assigned user cannot assist field work")
		}
		o.AssistantID = sql.NullInt64{Int64: assistant.ID, Valid: true}
		o.AssistantName = sql.NullString{String: assistant.FullName, Valid: true}
	}

	return nil
}

func (s *OrderService) canView(o *order.ServiceOrder, viewerID int64, viewerRole identity.Role) bool {
	if viewerRole.IsStaff() {
		return true
	}
	return o.AssignedTo(viewerID)
}

func (s *OrderService) notifyAssigned(o *order.ServiceOrder, eventType string) {
	if s.hub == nil {
		return
	}

	ids := []int64{}
	if o.TechnicianID.Valid {
		ids = append(ids, o.TechnicianID.Int64)
	}
	if o.AssistantID.Valid {
		ids = append(ids, o.AssistantID.Int64)
	}
	if len(ids) == 0 {
		return
	}

	s.hub.NotifyUsers(ids, websocket.NewEvent(eventType, map[string]interface{}{
		"order_id":       o.ID,
		"process_number": o.ProcessNumber,
		"status":         o.Status,
		"priority":       o.Priority,
	}))
}

// generateProcessNumber mints the display code, e.g. OS-2026-01HZXW3K.
// The ULID tail keeps codes unique without a counter table.
func (s *OrderService) generateProcessNumber(scheduledStart time.Time) string {
	id := ulid.Make().String()
	return fmt.Sprintf("OS-%d-%s", scheduledStart.Year(), id[len(id)-8:])
}
