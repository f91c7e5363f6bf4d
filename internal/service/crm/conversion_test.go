// internal/service/crm/conversion_test.go
package crm

import (
	"database/sql"
	"testing"
	"time"

	"fieldops-service/internal/domain/crm"
	"fieldops-service/internal/domain/identity"
	"fieldops-service/internal/domain/organization"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func qualifiedLead() crm.Lead {
	return crm.Lead{
		ID:          7,
		ContactName: "Maria Santos",
		CompanyName: "Santos Climatizacao",
		Email:       "maria@santosclima.example",
		Phone:       "+351 912 000 000",
		NIF:         sql.NullString{String: "509123456", Valid: true},
		Status:      crm.LeadStatusQualified,
	}
}

func TestBuildConversionDefaults(t *testing.T) {
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	conv, err := BuildConversion(qualifiedLead(), now)
	require.NoError(t, err)

	assert.Equal(t, "Santos Climatizacao", conv.Organization.Name)
	assert.Equal(t, "509123456", conv.Organization.NIF)
	assert.Equal(t, organization.PlanPro, conv.Organization.Plan)
	assert.Equal(t, 5, conv.Organization.MaxUsers)
	assert.Equal(t, 1, conv.Organization.ActiveUsers)
	assert.Equal(t, organization.StatusActive, conv.Organization.Status)
	assert.Equal(t, now, conv.Organization.JoinedAt)

	require.True(t, conv.Organization.TrialEndsAt.Valid)
	assert.Equal(t, now.Add(15*24*time.Hour), conv.Organization.TrialEndsAt.Time)

	// Pro at 5 users, no volume discount: 5 * 20
	assert.Equal(t, int64(100), conv.QuotedMonthlyPrice)
}

func TestBuildConversionManagerAccount(t *testing.T) {
	conv, err := BuildConversion(qualifiedLead(), time.Now())
	require.NoError(t, err)

	assert.Equal(t, "Maria Santos", conv.Manager.FullName)
	assert.Equal(t, "maria@santosclima.example", conv.Manager.Email)
	assert.Equal(t, identity.RoleManager, conv.Manager.Role)
	assert.True(t, conv.Manager.IsActive)
	assert.Empty(t, conv.Manager.PasswordHash, "credentials are minted by the caller")
}

func TestBuildConversionHonorsProposalTerms(t *testing.T) {
	lead := qualifiedLead()
	lead.ProposedPlan = sql.NullString{String: string(organization.PlanEnterprise), Valid: true}
	lead.ProposedUsers = sql.NullInt32{Int32: 25, Valid: true}

	conv, err := BuildConversion(lead, time.Now())
	require.NoError(t, err)

	assert.Equal(t, organization.PlanEnterprise, conv.Organization.Plan)
	assert.Equal(t, 25, conv.Organization.MaxUsers)
	// Enterprise at 25 users with the 20% volume discount: 25 * 35 * 0.8
	assert.Equal(t, int64(700), conv.QuotedMonthlyPrice)
}

func TestBuildConversionClosesLead(t *testing.T) {
	conv, err := BuildConversion(qualifiedLead(), time.Now())
	require.NoError(t, err)

	assert.Equal(t, crm.LeadStatusConverted, conv.Lead.Status)
	require.True(t, conv.Lead.Probability.Valid)
	assert.Equal(t, int16(100), conv.Lead.Probability.Int16)
}

func TestBuildConversionRejectsConvertedLead(t *testing.T) {
	lead := qualifiedLead()
	lead.Status = crm.LeadStatusConverted

	_, err := BuildConversion(lead, time.Now())
	assert.ErrorIs(t, err, crm.ErrAlreadyConverted)
}

func TestBuildConversionRejectsUnknownProposedPlan(t *testing.T) {
	lead := qualifiedLead()
	lead.ProposedPlan = sql.NullString{String: "platinum", Valid: true}

	_, err := BuildConversion(lead, time.Now())
	assert.Error(t, err)
}
