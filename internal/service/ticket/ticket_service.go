// internal/service/ticket/ticket_service.go
package ticket

import (
	"context"

	"fieldops-service/internal/domain/identity"
	"fieldops-service/internal/domain/ticket"
	xerrors "fieldops-service/internal/pkg/errors"
	"fieldops-service/internal/repository/postgres"

	"go.uber.org/zap"
)

type TicketService struct {
	ticketRepo *postgres.TicketRepository
	orgRepo    *postgres.OrganizationRepository
	logger     *zap.Logger
}

func NewTicketService(
	ticketRepo *postgres.TicketRepository,
	orgRepo *postgres.OrganizationRepository,
	logger *zap.Logger,
) *TicketService {
	return &TicketService{
		ticketRepo: ticketRepo,
		orgRepo:    orgRepo,
		logger:     logger,
	}
}

// CreateTicket opens a support ticket with its first message
func (s *TicketService) CreateTicket(ctx context.Context, req *ticket.CreateTicketRequest, sender string, fromAdmin bool) (*ticket.SupportTicket, error) {
	org, err := s.orgRepo.FindByID(ctx, req.OrganizationID)
	if err != nil {
		return nil, err
	}

	t := &ticket.SupportTicket{
		OrganizationID:   org.ID,
		OrganizationName: org.Name,
		Subject:          req.Subject,
		Status:           ticket.StatusOpen,
		Priority:         ticket.Priority(req.Priority),
	}

	if err := s.ticketRepo.Create(ctx, t); err != nil {
		s.logger.Error("failed to create ticket", zap.Error(err))
		return nil, err
	}

	m := &ticket.TicketMessage{
		TicketID:  t.ID,
		Sender:    sender,
		Content:   req.Message,
		FromAdmin: fromAdmin,
	}
	if err := s.ticketRepo.AddMessage(ctx, m); err != nil {
		s.logger.Error("failed to store first ticket message", zap.Int64("ticket_id", t.ID), zap.Error(err))
		return nil, err
	}
	t.Messages = []ticket.TicketMessage{*m}

	s.logger.Info("ticket created",
		zap.Int64("ticket_id", t.ID),
		zap.Int64("organization_id", t.OrganizationID),
		zap.String("priority", string(t.Priority)),
	)

	return t, nil
}

// GetTicket retrieves a ticket with its message thread. Non-staff callers
// only see their own organization's tickets.
func (s *TicketService) GetTicket(ctx context.Context, id int64, viewerOrgID int64, viewerRole identity.Role) (*ticket.SupportTicket, error) {
	t, err := s.ticketRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !viewerRole.IsStaff() && t.OrganizationID != viewerOrgID {
		return nil, xerrors.ErrForbidden
	}

	messages, err := s.ticketRepo.ListMessages(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Messages = messages

	return t, nil
}

// ListTickets retrieves tickets with filters and pagination
func (s *TicketService) ListTickets(ctx context.Context, filters *ticket.TicketListFilters, viewerOrgID int64, viewerRole identity.Role) (*ticket.TicketListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}
	if !viewerRole.IsStaff() {
		filters.OrganizationID = &viewerOrgID
	}

	tickets, total, err := s.ticketRepo.List(ctx, filters)
	if err != nil {
		s.logger.Error("failed to list tickets", zap.Error(err))
		return nil, err
	}

	totalPages := int((total + int64(filters.PageSize) - 1) / int64(filters.PageSize))

	return &ticket.TicketListResponse{
		Tickets:    tickets,
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalPages: totalPages,
	}, nil
}

// AddMessage appends to a ticket's thread and reopens resolved tickets when
// the client replies.
func (s *TicketService) AddMessage(ctx context.Context, id int64, content, sender string, fromAdmin bool, viewerOrgID int64, viewerRole identity.Role) (*ticket.TicketMessage, error) {
	t, err := s.ticketRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !viewerRole.IsStaff() && t.OrganizationID != viewerOrgID {
		return nil, xerrors.ErrForbidden
	}
	if t.Status == ticket.StatusClosed {
		return nil, xerrors.Wrap(xerrors.ErrPrecondition, "ticket is closed")
	}

	m := &ticket.TicketMessage{
		TicketID:  id,
		Sender:    sender,
		Content:   content,
		FromAdmin: fromAdmin,
	}
	if err := s.ticketRepo.AddMessage(ctx, m); err != nil {
		s.logger.Error("failed to add ticket message", zap.Int64("ticket_id", id), zap.Error(err))
		return nil, err
	}

	if t.Status == ticket.StatusResolved && !fromAdmin {
		if err := s.ticketRepo.UpdateStatus(ctx, id, ticket.StatusOpen); err != nil {
			s.logger.Warn("failed to reopen ticket", zap.Int64("ticket_id", id), zap.Error(err))
		}
	}

	return m, nil
}

// UpdateTicketStatus moves a ticket through its lifecycle
func (s *TicketService) UpdateTicketStatus(ctx context.Context, id int64, status ticket.Status) (*ticket.SupportTicket, error) {
	t, err := s.ticketRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Status == ticket.StatusClosed {
		return nil, xerrors.Wrap(xerrors.ErrPrecondition, "ticket is closed")
	}

	if err := s.ticketRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	s.logger.Info("ticket status updated",
		zap.Int64("ticket_id", id),
		zap.String("from", string(t.Status)),
		zap.String("to", string(status)),
	)

	return s.ticketRepo.FindByID(ctx, id)
}
