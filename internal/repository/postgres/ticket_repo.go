// internal/repository/postgres/ticket_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fieldops-service/internal/domain/ticket"
	xerrors "fieldops-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TicketRepository struct {
	db *pgxpool.Pool
}

func NewTicketRepository(db *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{db: db}
}

const ticketColumns = `
	id, organization_id, organization_name, subject, status, priority,
	created_at, updated_at
`

func scanTicket(row pgx.Row) (*ticket.SupportTicket, error) {
	var t ticket.SupportTicket
	err := row.Scan(
		&t.ID, &t.OrganizationID, &t.OrganizationName, &t.Subject,
		&t.Status, &t.Priority, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan ticket: %w", err)
	}
	return &t, nil
}

// Create inserts a ticket
func (r *TicketRepository) Create(ctx context.Context, t *ticket.SupportTicket) error {
	query := `
		INSERT INTO support_tickets (organization_id, organization_name, subject, status, priority)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		t.OrganizationID, t.OrganizationName, t.Subject, t.Status, t.Priority,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}

	return nil
}

// FindByID retrieves a ticket without its messages
func (r *TicketRepository) FindByID(ctx context.Context, id int64) (*ticket.SupportTicket, error) {
	query := `SELECT ` + ticketColumns + ` FROM support_tickets WHERE id = $1`
	return scanTicket(r.db.QueryRow(ctx, query, id))
}

// List retrieves tickets with filters and pagination
func (r *TicketRepository) List(ctx context.Context, filters *ticket.TicketListFilters) ([]ticket.SupportTicket, int64, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filters.OrganizationID != nil {
		conditions = append(conditions, fmt.Sprintf("organization_id = $%d", argIdx))
		args = append(args, *filters.OrganizationID)
		argIdx++
	}
	if filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, filters.Status)
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM support_tickets WHERE ` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count tickets: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM support_tickets WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		ticketColumns, where, argIdx, argIdx+1,
	)
	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()

	tickets := []ticket.SupportTicket{}
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, 0, err
		}
		tickets = append(tickets, *t)
	}

	return tickets, total, rows.Err()
}

// UpdateStatus changes a ticket's status
func (r *TicketRepository) UpdateStatus(ctx context.Context, id int64, status ticket.Status) error {
	query := `UPDATE support_tickets SET status = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.Exec(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update ticket status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// AddMessage appends a message to the ticket's thread
func (r *TicketRepository) AddMessage(ctx context.Context, m *ticket.TicketMessage) error {
	query := `
		INSERT INTO ticket_messages (ticket_id, sender, content, from_admin)
		VALUES ($1, $2, $3, $4)
		RETURNING id, sent_at
	`

	err := r.db.QueryRow(
		ctx, query,
		m.TicketID, m.Sender, m.Content, m.FromAdmin,
	).Scan(&m.ID, &m.SentAt)

	if err != nil {
		return fmt.Errorf("failed to add ticket message: %w", err)
	}

	return nil
}

// ListMessages returns a ticket's messages oldest first
func (r *TicketRepository) ListMessages(ctx context.Context, ticketID int64) ([]ticket.TicketMessage, error) {
	query := `
		SELECT id, ticket_id, sender, content, from_admin, sent_at
		FROM ticket_messages
		WHERE ticket_id = $1
		ORDER BY sent_at ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ticket messages: %w", err)
	}
	defer rows.Close()

	messages := []ticket.TicketMessage{}
	for rows.Next() {
		var m ticket.TicketMessage
		if err := rows.Scan(&m.ID, &m.TicketID, &m.Sender, &m.Content, &m.FromAdmin, &m.SentAt); err != nil {
			return nil, fmt.Errorf("failed to scan ticket message: %w", err)
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}
