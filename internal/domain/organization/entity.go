// internal/domain/organization/entity.go
package organization

import (
	"database/sql"
	"time"
)

type PlanType string

const (
	PlanFree       PlanType = "free"
	PlanPro        PlanType = "pro"
	PlanEnterprise PlanType = "enterprise"
)

// AllPlans is the closed set of plan tiers, used for validation and reporting.
var AllPlans = []PlanType{PlanFree, PlanPro, PlanEnterprise}

func (p PlanType) Valid() bool {
	for _, plan := range AllPlans {
		if p == plan {
			return true
		}
	}
	return false
}

type Status string

const (
	StatusActive    Status = "active"
	StatusTrial     Status = "trial"
	StatusSuspended Status = "suspended"
	StatusCanceled  Status = "canceled"
)

type Organization struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	NIF  string `json:"nif" db:"nif"`

	// Plan and seats
	Plan        PlanType `json:"plan" db:"plan"`
	MaxUsers    int      `json:"max_users" db:"max_users"`
	ActiveUsers int      `json:"active_users" db:"active_users"`

	// Status
	Status           Status         `json:"status" db:"status"`
	SuspensionReason sql.NullString `json:"suspension_reason,omitempty" db:"suspension_reason"`

	// Lifecycle
	JoinedAt    time.Time    `json:"joined_at" db:"joined_at"`
	TrialEndsAt sql.NullTime `json:"trial_ends_at,omitempty" db:"trial_ends_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type RevenueReport struct {
	MonthlyRevenue    int64 `json:"monthly_revenue"`
	OrganizationCount int   `json:"organization_count"`
}
