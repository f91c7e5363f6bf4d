// internal/repository/postgres/lead_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fieldops-service/internal/domain/crm"
	xerrors "fieldops-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LeadRepository struct {
	db *pgxpool.Pool
}

func NewLeadRepository(db *pgxpool.Pool) *LeadRepository {
	return &LeadRepository{db: db}
}

const leadColumns = `
	id, contact_name, company_name, email, phone, nif, status, notes,
	potential_value, probability, proposed_plan, proposed_users,
	converted_org_id, last_contact_at, created_at, updated_at
`

func scanLead(row pgx.Row) (*crm.Lead, error) {
	var l crm.Lead
	err := row.Scan(
		&l.ID, &l.ContactName, &l.CompanyName, &l.Email, &l.Phone, &l.NIF,
		&l.Status, &l.Notes, &l.PotentialValue, &l.Probability,
		&l.ProposedPlan, &l.ProposedUsers, &l.ConvertedOrgID,
		&l.LastContactAt, &l.CreatedAt, &l.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan lead: %w", err)
	}
	return &l, nil
}

// Create inserts a new lead
func (r *LeadRepository) Create(ctx context.Context, l *crm.Lead) error {
	query := `
		INSERT INTO leads (
			contact_name, company_name, email, phone, nif, status, notes,
			potential_value, probability, proposed_plan, proposed_users
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		l.ContactName, l.CompanyName, l.Email, l.Phone, l.NIF, l.Status, l.Notes,
		l.PotentialValue, l.Probability, l.ProposedPlan, l.ProposedUsers,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create lead: %w", err)
	}

	return nil
}

// FindByID retrieves a lead by ID
func (r *LeadRepository) FindByID(ctx context.Context, id int64) (*crm.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`
	return scanLead(r.db.QueryRow(ctx, query, id))
}

// FindByIDForUpdate locks the lead row inside a transaction. Conversion uses
// it so two concurrent converts cannot both see an unconverted lead.
func (r *LeadRepository) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*crm.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1 FOR UPDATE`
	return scanLead(tx.QueryRow(ctx, query, id))
}

// List retrieves leads with filters and pagination
func (r *LeadRepository) List(ctx context.Context, filters *crm.LeadListFilters) ([]crm.Lead, int64, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, filters.Status)
		argIdx++
	}
	if filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(contact_name ILIKE $%d OR company_name ILIKE $%d OR email ILIKE $%d)",
			argIdx, argIdx, argIdx,
		))
		args = append(args, "%"+filters.Search+"%")
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM leads WHERE ` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leads: %w", err)
	}

	sortBy := "created_at"
	switch filters.SortBy {
	case "company_name", "potential_value", "last_contact_at":
		sortBy = filters.SortBy
	}
	sortOrder := "DESC"
	if strings.EqualFold(filters.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	query := fmt.Sprintf(
		`SELECT %s FROM leads WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		leadColumns, where, sortBy, sortOrder, argIdx, argIdx+1,
	)
	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leads: %w", err)
	}
	defer rows.Close()

	leads := []crm.Lead{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, 0, err
		}
		leads = append(leads, *l)
	}

	return leads, total, rows.Err()
}

// FindAll retrieves every lead; used by pipeline reporting.
func (r *LeadRepository) FindAll(ctx context.Context) ([]crm.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load leads: %w", err)
	}
	defer rows.Close()

	leads := []crm.Lead{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *l)
	}

	return leads, rows.Err()
}

// Update updates a lead's editable fields
func (r *LeadRepository) Update(ctx context.Context, id int64, l *crm.Lead) error {
	query := `
		UPDATE leads
		SET contact_name = $1, company_name = $2, email = $3, phone = $4,
		    nif = $5, notes = $6, potential_value = $7, probability = $8,
		    proposed_plan = $9, proposed_users = $10, last_contact_at = $11,
		    updated_at = $12
		WHERE id = $13
	`

	result, err := r.db.Exec(
		ctx, query,
		l.ContactName, l.CompanyName, l.Email, l.Phone,
		l.NIF, l.Notes, l.PotentialValue, l.Probability,
		l.ProposedPlan, l.ProposedUsers, l.LastContactAt, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update lead: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// UpdateStatus moves a lead through the pipeline
func (r *LeadRepository) UpdateStatus(ctx context.Context, id int64, status crm.LeadStatus) error {
	query := `
		UPDATE leads
		SET status = $1, last_contact_at = $2, updated_at = $2
		WHERE id = $3
	`

	result, err := r.db.Exec(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update lead status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// MarkConvertedWithTx closes the lead inside the conversion transaction:
// terminal status, 100% probability, link to the organization it became.
func (r *LeadRepository) MarkConvertedWithTx(ctx context.Context, tx pgx.Tx, id, orgID int64) error {
	query := `
		UPDATE leads
		SET status = $1, probability = 100, converted_org_id = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := tx.Exec(ctx, query, crm.LeadStatusConverted, orgID, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to mark lead converted: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}
