// internal/repository/postgres/order_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fieldops-service/internal/domain/order"
	xerrors "fieldops-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `
	id, process_number, priority, status,
	technician_id, technician_name, assistant_id, assistant_name,
	scheduled_start, scheduled_end, actual_start, actual_end, satisfaction,
	customer_name, customer_nif, customer_address, customer_postal_code,
	customer_city, customer_contact,
	scope, report, observations, images,
	technician_signature, customer_signature,
	created_at, updated_at
`

func scanOrder(row pgx.Row) (*order.ServiceOrder, error) {
	var o order.ServiceOrder
	err := row.Scan(
		&o.ID, &o.ProcessNumber, &o.Priority, &o.Status,
		&o.TechnicianID, &o.TechnicianName, &o.AssistantID, &o.AssistantName,
		&o.ScheduledStart, &o.ScheduledEnd, &o.ActualStart, &o.ActualEnd, &o.Satisfaction,
		&o.Customer.Name, &o.Customer.NIF, &o.Customer.Address, &o.Customer.PostalCode,
		&o.Customer.City, &o.Customer.Contact,
		&o.Scope, &o.Report, &o.Observations, &o.Images,
		&o.TechnicianSignature, &o.CustomerSignature,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan service order: %w", err)
	}
	return &o, nil
}

// Create inserts a new service order
func (r *OrderRepository) Create(ctx context.Context, o *order.ServiceOrder) error {
	query := `
		INSERT INTO service_orders (
			process_number, priority, status,
			technician_id, technician_name, assistant_id, assistant_name,
			scheduled_start, scheduled_end,
			customer_name, customer_nif, customer_address, customer_postal_code,
			customer_city, customer_contact,
			scope, report, observations, images
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		o.ProcessNumber, o.Priority, o.Status,
		o.TechnicianID, o.TechnicianName, o.AssistantID, o.AssistantName,
		o.ScheduledStart, o.ScheduledEnd,
		o.Customer.Name, o.Customer.NIF, o.Customer.Address, o.Customer.PostalCode,
		o.Customer.City, o.Customer.Contact,
		o.Scope, o.Report, o.Observations, o.Images,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create service order: %w", err)
	}

	return nil
}

// FindByID retrieves a service order by ID
func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*order.ServiceOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM service_orders WHERE id = $1`
	return scanOrder(r.db.QueryRow(ctx, query, id))
}

// FindByProcessNumber retrieves a service order by its display code
func (r *OrderRepository) FindByProcessNumber(ctx context.Context, processNumber string) (*order.ServiceOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM service_orders WHERE process_number = $1`
	return scanOrder(r.db.QueryRow(ctx, query, processNumber))
}

// List retrieves service orders with filters and pagination
func (r *OrderRepository) List(ctx context.Context, filters *order.OrderListFilters) ([]order.ServiceOrder, int64, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, filters.Status)
		argIdx++
	}
	if filters.Priority != "" {
		conditions = append(conditions, fmt.Sprintf("priority = $%d", argIdx))
		args = append(args, filters.Priority)
		argIdx++
	}
	if filters.TechnicianID != nil {
		conditions = append(conditions, fmt.Sprintf("(technician_id = $%d OR assistant_id = $%d)", argIdx, argIdx))
		args = append(args, *filters.TechnicianID)
		argIdx++
	}
	if filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(process_number ILIKE $%d OR customer_name ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+filters.Search+"%")
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM service_orders WHERE ` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count service orders: %w", err)
	}

	sortBy := "scheduled_start"
	switch filters.SortBy {
	case "created_at", "priority", "status", "process_number":
		sortBy = filters.SortBy
	}
	sortOrder := "DESC"
	if strings.EqualFold(filters.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	query := fmt.Sprintf(
		`SELECT %s FROM service_orders WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		orderColumns, where, sortBy, sortOrder, argIdx, argIdx+1,
	)
	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list service orders: %w", err)
	}
	defer rows.Close()

	orders := []order.ServiceOrder{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *o)
	}

	return orders, total, rows.Err()
}

// FindAll retrieves every service order; the statistics aggregators run over
// the full collection.
func (r *OrderRepository) FindAll(ctx context.Context) ([]order.ServiceOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM service_orders ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load service orders: %w", err)
	}
	defer rows.Close()

	orders := []order.ServiceOrder{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}

	return orders, rows.Err()
}

// FindByTechnician retrieves orders the user works as technician or assistant
func (r *OrderRepository) FindByTechnician(ctx context.Context, technicianID int64) ([]order.ServiceOrder, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM service_orders
		WHERE technician_id = $1 OR assistant_id = $1
		ORDER BY scheduled_start DESC
	`

	rows, err := r.db.Query(ctx, query, technicianID)
	if err != nil {
		return nil, fmt.Errorf("failed to load technician orders: %w", err)
	}
	defer rows.Close()

	orders := []order.ServiceOrder{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}

	return orders, rows.Err()
}

// Update rewrites an order's editable fields
func (r *OrderRepository) Update(ctx context.Context, id int64, o *order.ServiceOrder) error {
	query := `
		UPDATE service_orders
		SET priority = $1,
		    technician_id = $2, technician_name = $3,
		    assistant_id = $4, assistant_name = $5,
		    scheduled_start = $6, scheduled_end = $7,
		    satisfaction = $8,
		    customer_name = $9, customer_nif = $10, customer_address = $11,
		    customer_postal_code = $12, customer_city = $13, customer_contact = $14,
		    scope = $15, report = $16, observations = $17,
		    updated_at = $18
		WHERE id = $19
	`

	result, err := r.db.Exec(
		ctx, query,
		o.Priority,
		o.TechnicianID, o.TechnicianName,
		o.AssistantID, o.AssistantName,
		o.ScheduledStart, o.ScheduledEnd,
		o.Satisfaction,
		o.Customer.Name, o.Customer.NIF, o.Customer.Address,
		o.Customer.PostalCode, o.Customer.City, o.Customer.Contact,
		o.Scope, o.Report, o.Observations,
		time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update service order: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// UpdateStatus transitions an order and stamps actual start/end as work
// begins and finishes.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status order.Status, actualStart, actualEnd *time.Time) error {
	query := `
		UPDATE service_orders
		SET status = $1,
		    actual_start = COALESCE($2, actual_start),
		    actual_end = COALESCE($3, actual_end),
		    updated_at = $4
		WHERE id = $5
	`

	result, err := r.db.Exec(ctx, query, status, actualStart, actualEnd, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// SetSignature stores one party's signature blob
func (r *OrderRepository) SetSignature(ctx context.Context, id int64, party, signature string) error {
	column := "technician_signature"
	if party == "customer" {
		column = "customer_signature"
	}

	query := fmt.Sprintf(`UPDATE service_orders SET %s = $1, updated_at = $2 WHERE id = $3`, column)

	result, err := r.db.Exec(ctx, query, signature, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to store signature: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// AppendImage adds one image to the order's ordered attachment list
func (r *OrderRepository) AppendImage(ctx context.Context, id int64, image string) error {
	query := `
		UPDATE service_orders
		SET images = array_append(images, $1), updated_at = $2
		WHERE id = $3
	`

	result, err := r.db.Exec(ctx, query, image, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to append image: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}
