// internal/domain/crm/entity.go
package crm

import (
	"database/sql"
	"errors"
	"time"
)

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusConverted LeadStatus = "converted"
	LeadStatusLost      LeadStatus = "lost"
)

var AllLeadStatuses = []LeadStatus{
	LeadStatusNew, LeadStatusContacted, LeadStatusQualified,
	LeadStatusConverted, LeadStatusLost,
}

func (s LeadStatus) Valid() bool {
	for _, status := range AllLeadStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Terminal reports whether the status ends the pipeline for a lead.
func (s LeadStatus) Terminal() bool {
	return s == LeadStatusConverted || s == LeadStatusLost
}

// ErrAlreadyConverted is returned when an operation requires a lead that has
// not yet been converted. Converted is terminal; a second conversion would
// create a duplicate organization.
var ErrAlreadyConverted = errors.New("lead already converted")

type Lead struct {
	ID          int64  `json:"id" db:"id"`
	ContactName string `json:"contact_name" db:"contact_name"`
	CompanyName string `json:"company_name" db:"company_name"`
	Email       string `json:"email" db:"email"`
	Phone       string `json:"phone" db:"phone"`

	NIF sql.NullString `json:"nif,omitempty" db:"nif"`

	Status LeadStatus `json:"status" db:"status"`
	Notes  string     `json:"notes" db:"notes"`

	// Pipeline estimation
	PotentialValue sql.NullFloat64 `json:"potential_value,omitempty" db:"potential_value"`
	Probability    sql.NullInt16   `json:"probability,omitempty" db:"probability"`

	// Proposal terms used when the lead converts
	ProposedPlan  sql.NullString `json:"proposed_plan,omitempty" db:"proposed_plan"`
	ProposedUsers sql.NullInt32  `json:"proposed_users,omitempty" db:"proposed_users"`

	// Set on conversion, linking the lead to the organization it produced.
	ConvertedOrgID sql.NullInt64 `json:"converted_org_id,omitempty" db:"converted_org_id"`

	LastContactAt sql.NullTime `json:"last_contact_at,omitempty" db:"last_contact_at"`
	CreatedAt     time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at" db:"updated_at"`
}

type PipelineReport struct {
	PipelineValue float64            `json:"pipeline_value"`
	OpenLeads     int                `json:"open_leads"`
	TotalLeads    int                `json:"total_leads"`
	CountByStatus map[LeadStatus]int `json:"count_by_status"`
}
