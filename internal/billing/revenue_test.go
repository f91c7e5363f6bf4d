package billing_test

import (
	"database/sql"
	"testing"

	"fieldops-service/internal/billing"
	"fieldops-service/internal/domain/crm"
	"fieldops-service/internal/domain/organization"
	xerrors "fieldops-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeMonthlyRevenue(t *testing.T) {
	t.Run("empty portfolio", func(t *testing.T) {
		total, err := billing.ComputeMonthlyRevenue(nil)
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
	})

	t.Run("sums per-organization prices", func(t *testing.T) {
		orgs := []organization.Organization{
			{ID: 1, Plan: organization.PlanPro, MaxUsers: 5},
			{ID: 2, Plan: organization.PlanPro, MaxUsers: 10},
		}

		total, err := billing.ComputeMonthlyRevenue(orgs)
		require.NoError(t, err)
		assert.Equal(t, int64(280), total)
	})

	t.Run("bills capacity, not active seats", func(t *testing.T) {
		orgs := []organization.Organization{
			{ID: 1, Plan: organization.PlanPro, MaxUsers: 5, ActiveUsers: 1},
		}

		total, err := billing.ComputeMonthlyRevenue(orgs)
		require.NoError(t, err)
		assert.Equal(t, int64(100), total)
	})

	t.Run("free organizations contribute nothing", func(t *testing.T) {
		orgs := []organization.Organization{
			{ID: 1, Plan: organization.PlanFree, MaxUsers: 50},
			{ID: 2, Plan: organization.PlanEnterprise, MaxUsers: 25},
		}

		total, err := billing.ComputeMonthlyRevenue(orgs)
		require.NoError(t, err)
		assert.Equal(t, int64(700), total)
	})

	t.Run("rejects corrupted records", func(t *testing.T) {
		orgs := []organization.Organization{
			{ID: 7, Plan: organization.PlanType("platinum"), MaxUsers: 5},
		}

		_, err := billing.ComputeMonthlyRevenue(orgs)
		require.Error(t, err)
		assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
	})
}

func TestComputePipelineValue(t *testing.T) {
	t.Run("empty pipeline", func(t *testing.T) {
		assert.Equal(t, float64(0), billing.ComputePipelineValue(nil))
	})

	t.Run("leads without estimates count as zero", func(t *testing.T) {
		leads := []crm.Lead{
			{ID: 1, PotentialValue: sql.NullFloat64{Float64: 1500, Valid: true}},
			{ID: 2},
			{ID: 3, PotentialValue: sql.NullFloat64{Float64: 250.5, Valid: true}},
		}

		assert.Equal(t, 1750.5, billing.ComputePipelineValue(leads))
	})
}

func TestBuildPipelineReport(t *testing.T) {
	t.Run("empty pipeline reports every status at zero", func(t *testing.T) {
		report := billing.BuildPipelineReport(nil)

		assert.Equal(t, 0, report.TotalLeads)
		assert.Equal(t, 0, report.OpenLeads)
		assert.Len(t, report.CountByStatus, len(crm.AllLeadStatuses))
		for _, status := range crm.AllLeadStatuses {
			assert.Equal(t, 0, report.CountByStatus[status])
		}
	})

	t.Run("terminal leads are counted but not open", func(t *testing.T) {
		leads := []crm.Lead{
			{ID: 1, Status: crm.LeadStatusNew, PotentialValue: sql.NullFloat64{Float64: 1000, Valid: true}},
			{ID: 2, Status: crm.LeadStatusQualified, PotentialValue: sql.NullFloat64{Float64: 500, Valid: true}},
			{ID: 3, Status: crm.LeadStatusConverted},
			{ID: 4, Status: crm.LeadStatusLost},
		}

		report := billing.BuildPipelineReport(leads)

		assert.Equal(t, 4, report.TotalLeads)
		assert.Equal(t, 2, report.OpenLeads)
		assert.Equal(t, 1500.0, report.PipelineValue)
		assert.Equal(t, 1, report.CountByStatus[crm.LeadStatusNew])
		assert.Equal(t, 1, report.CountByStatus[crm.LeadStatusConverted])
		assert.Equal(t, 0, report.CountByStatus[crm.LeadStatusContacted])
	})
}
