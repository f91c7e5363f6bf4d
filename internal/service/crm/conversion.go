// internal/service/crm/conversion.go
package crm

import (
	"database/sql"
	"fmt"
	"time"

	"fieldops-service/internal/billing"
	"fieldops-service/internal/domain/crm"
	"fieldops-service/internal/domain/identity"
	"fieldops-service/internal/domain/organization"
)

const (
	defaultPlan      = organization.PlanPro
	defaultUserCount = 5
	trialPeriod      = 15 * 24 * time.Hour
)

// Conversion is the outcome of converting a lead: the organization and its
// manager account to be created, the lead in its terminal state, and the
// quoted price shown to the operator for confirmation. The quote is not
// stored on the organization.
type Conversion struct {
	Organization       organization.Organization `json:"organization"`
	Manager            identity.User             `json:"manager"`
	Lead               crm.Lead                  `json:"lead"`
	QuotedMonthlyPrice int64                     `json:"quoted_monthly_price"`
}

// BuildConversion derives the records a lead becomes on conversion. It is
// pure: persistence ids and the manager's credentials are filled in by the
// caller. A lead that already converted is rejected so a retry cannot mint a
// second organization.
func BuildConversion(lead crm.Lead, now time.Time) (*Conversion, error) {
	if lead.Status == crm.LeadStatusConverted {
		return nil, crm.ErrAlreadyConverted
	}

	plan := defaultPlan
	if lead.ProposedPlan.Valid && lead.ProposedPlan.String != "" {
		plan = organization.PlanType(lead.ProposedPlan.String)
	}

	users := defaultUserCount
	if lead.ProposedUsers.Valid && lead.ProposedUsers.Int32 > 0 {
		users = int(lead.ProposedUsers.Int32)
	}

	price, err := billing.ComputeMonthlyPrice(users, plan)
	if err != nil {
		return nil, fmt.Errorf("failed to quote plan: %w", err)
	}

	org := organization.Organization{
		Name:        lead.CompanyName,
		NIF:         lead.NIF.String,
		Plan:        plan,
		MaxUsers:    users,
		ActiveUsers: 1, // the manager created alongside
		Status:      organization.StatusActive,
		JoinedAt:    now,
		TrialEndsAt: sql.NullTime{Time: now.Add(trialPeriod), Valid: true},
	}

	manager := identity.User{
		FullName: lead.ContactName,
		Email:    lead.Email,
		Role:     identity.RoleManager,
		IsActive: true,
	}

	converted := lead
	converted.Status = crm.LeadStatusConverted
	converted.Probability = sql.NullInt16{Int16: 100, Valid: true}

	return &Conversion{
		Organization:       org,
		Manager:            manager,
		Lead:               converted,
		QuotedMonthlyPrice: price,
	}, nil
}
