// internal/domain/order/entity.go
package order

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusReschedule Status = "reschedule"
	StatusCanceled   Status = "canceled"
)

// AllStatuses enumerates every order status. Histograms iterate this list so
// zero-count statuses are always reported.
var AllStatuses = []Status{
	StatusPending, StatusInProgress, StatusDone, StatusReschedule, StatusCanceled,
}

func (s Status) Valid() bool {
	for _, status := range AllStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityNormal   Priority = "normal"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

var AllPriorities = []Priority{
	PriorityLow, PriorityNormal, PriorityHigh, PriorityCritical,
}

func (p Priority) Valid() bool {
	for _, priority := range AllPriorities {
		if p == priority {
			return true
		}
	}
	return false
}

// Customer is embedded in its service order; it is not a standalone record.
type Customer struct {
	Name       string `json:"name" db:"customer_name"`
	NIF        string `json:"nif" db:"customer_nif"`
	Address    string `json:"address" db:"customer_address"`
	PostalCode string `json:"postal_code" db:"customer_postal_code"`
	City       string `json:"city" db:"customer_city"`
	Contact    string `json:"contact" db:"customer_contact"`
}

type ServiceOrder struct {
	ID            int64  `json:"id" db:"id"`
	ProcessNumber string `json:"process_number" db:"process_number"`

	Priority Priority `json:"priority" db:"priority"`
	Status   Status   `json:"status" db:"status"`

	// Assignment by user id; names are denormalized for display only.
	TechnicianID   sql.NullInt64  `json:"technician_id,omitempty" db:"technician_id"`
	TechnicianName sql.NullString `json:"technician_name,omitempty" db:"technician_name"`
	AssistantID    sql.NullInt64  `json:"assistant_id,omitempty" db:"assistant_id"`
	AssistantName  sql.NullString `json:"assistant_name,omitempty" db:"assistant_name"`

	// Scheduling vs. execution
	ScheduledStart time.Time    `json:"scheduled_start" db:"scheduled_start"`
	ScheduledEnd   time.Time    `json:"scheduled_end" db:"scheduled_end"`
	ActualStart    sql.NullTime `json:"actual_start,omitempty" db:"actual_start"`
	ActualEnd      sql.NullTime `json:"actual_end,omitempty" db:"actual_end"`

	// 0-10 rating given by the customer after completion
	Satisfaction sql.NullFloat64 `json:"satisfaction,omitempty" db:"satisfaction"`

	Customer Customer `json:"customer"`

	Scope        string `json:"scope" db:"scope"`
	Report       string `json:"report" db:"report"`
	Observations string `json:"observations" db:"observations"`

	Images              pq.StringArray `json:"images,omitempty" db:"images"`
	TechnicianSignature sql.NullString `json:"technician_signature,omitempty" db:"technician_signature"`
	CustomerSignature   sql.NullString `json:"customer_signature,omitempty" db:"customer_signature"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// AssignedTo reports whether the given user works this order, either as the
// primary technician or as the assistant.
func (o *ServiceOrder) AssignedTo(userID int64) bool {
	if o.TechnicianID.Valid && o.TechnicianID.Int64 == userID {
		return true
	}
	return o.AssistantID.Valid && o.AssistantID.Int64 == userID
}
