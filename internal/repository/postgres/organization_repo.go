// internal/repository/postgres/organization_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fieldops-service/internal/domain/organization"
	xerrors "fieldops-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrganizationRepository struct {
	db *pgxpool.Pool
}

func NewOrganizationRepository(db *pgxpool.Pool) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

const organizationColumns = `
	id, name, nif, plan, max_users, active_users, status,
	suspension_reason, joined_at, trial_ends_at, created_at, updated_at
`

func scanOrganization(row pgx.Row) (*organization.Organization, error) {
	var org organization.Organization
	err := row.Scan(
		&org.ID, &org.Name, &org.NIF, &org.Plan, &org.MaxUsers, &org.ActiveUsers,
		&org.Status, &org.SuspensionReason, &org.JoinedAt, &org.TrialEndsAt,
		&org.CreatedAt, &org.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan organization: %w", err)
	}
	return &org, nil
}

// Create inserts a new organization
func (r *OrganizationRepository) Create(ctx context.Context, org *organization.Organization) error {
	query := `
		INSERT INTO organizations (
			name, nif, plan, max_users, active_users, status,
			suspension_reason, joined_at, trial_ends_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		org.Name, org.NIF, org.Plan, org.MaxUsers, org.ActiveUsers, org.Status,
		org.SuspensionReason, org.JoinedAt, org.TrialEndsAt,
	).Scan(&org.ID, &org.CreatedAt, &org.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create organization: %w", err)
	}

	return nil
}

// CreateWithTx inserts a new organization inside an existing transaction
func (r *OrganizationRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, org *organization.Organization) error {
	query := `
		INSERT INTO organizations (
			name, nif, plan, max_users, active_users, status,
			suspension_reason, joined_at, trial_ends_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err := tx.QueryRow(
		ctx, query,
		org.Name, org.NIF, org.Plan, org.MaxUsers, org.ActiveUsers, org.Status,
		org.SuspensionReason, org.JoinedAt, org.TrialEndsAt,
	).Scan(&org.ID, &org.CreatedAt, &org.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create organization: %w", err)
	}

	return nil
}

// FindByID retrieves an organization by ID
func (r *OrganizationRepository) FindByID(ctx context.Context, id int64) (*organization.Organization, error) {
	query := `SELECT ` + organizationColumns + ` FROM organizations WHERE id = $1`
	return scanOrganization(r.db.QueryRow(ctx, query, id))
}

// List retrieves organizations with filters and pagination
func (r *OrganizationRepository) List(ctx context.Context, filters *organization.OrganizationListFilters) ([]organization.Organization, int64, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, filters.Status)
		argIdx++
	}
	if filters.Plan != "" {
		conditions = append(conditions, fmt.Sprintf("plan = $%d", argIdx))
		args = append(args, filters.Plan)
		argIdx++
	}
	if filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR nif ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+filters.Search+"%")
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM organizations WHERE ` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count organizations: %w", err)
	}

	sortBy := "created_at"
	switch filters.SortBy {
	case "name", "joined_at", "max_users":
		sortBy = filters.SortBy
	}
	sortOrder := "DESC"
	if strings.EqualFold(filters.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	query := fmt.Sprintf(
		`SELECT %s FROM organizations WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		organizationColumns, where, sortBy, sortOrder, argIdx, argIdx+1,
	)
	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list organizations: %w", err)
	}
	defer rows.Close()

	orgs := []organization.Organization{}
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, 0, err
		}
		orgs = append(orgs, *org)
	}

	return orgs, total, rows.Err()
}

// FindAll retrieves every organization; used by revenue reporting.
func (r *OrganizationRepository) FindAll(ctx context.Context) ([]organization.Organization, error) {
	query := `SELECT ` + organizationColumns + ` FROM organizations ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load organizations: %w", err)
	}
	defer rows.Close()

	orgs := []organization.Organization{}
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		orgs = append(orgs, *org)
	}

	return orgs, rows.Err()
}

// Update updates an organization's mutable fields
func (r *OrganizationRepository) Update(ctx context.Context, id int64, org *organization.Organization) error {
	query := `
		UPDATE organizations
		SET name = $1, nif = $2, plan = $3, max_users = $4, active_users = $5,
		    updated_at = $6
		WHERE id = $7
	`

	result, err := r.db.Exec(
		ctx, query,
		org.Name, org.NIF, org.Plan, org.MaxUsers, org.ActiveUsers, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update organization: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// UpdateStatus changes an organization's status, recording the suspension
// reason when there is one.
func (r *OrganizationRepository) UpdateStatus(ctx context.Context, id int64, status organization.Status, reason string) error {
	query := `
		UPDATE organizations
		SET status = $1,
		    suspension_reason = NULLIF($2, ''),
		    updated_at = $3
		WHERE id = $4
	`

	result, err := r.db.Exec(ctx, query, status, reason, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update organization status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}
