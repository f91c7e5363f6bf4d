// internal/domain/ticket/entity.go
package ticket

import "time"

type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

var AllStatuses = []Status{StatusOpen, StatusInProgress, StatusResolved, StatusClosed}

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

type SupportTicket struct {
	ID             int64 `json:"id" db:"id"`
	OrganizationID int64 `json:"organization_id" db:"organization_id"`
	// Denormalized so ticket lists render without joining organizations.
	OrganizationName string `json:"organization_name" db:"organization_name"`

	Subject  string   `json:"subject" db:"subject"`
	Status   Status   `json:"status" db:"status"`
	Priority Priority `json:"priority" db:"priority"`

	Messages []TicketMessage `json:"messages,omitempty"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type TicketMessage struct {
	ID        int64     `json:"id" db:"id"`
	TicketID  int64     `json:"ticket_id" db:"ticket_id"`
	Sender    string    `json:"sender" db:"sender"`
	Content   string    `json:"content" db:"content"`
	FromAdmin bool      `json:"from_admin" db:"from_admin"`
	SentAt    time.Time `json:"sent_at" db:"sent_at"`
}
