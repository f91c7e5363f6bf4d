package billing_test

import (
	"fmt"
	"testing"

	"fieldops-service/internal/billing"
	"fieldops-service/internal/domain/organization"
	xerrors "fieldops-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeMonthlyPrice(t *testing.T) {
	tests := []struct {
		name  string
		users int
		plan  organization.PlanType
		want  int64
	}{
		{"pro without discount", 5, organization.PlanPro, 100},
		{"pro at 10-seat breakpoint", 10, organization.PlanPro, 180},
		{"pro at 25-seat breakpoint", 25, organization.PlanPro, 400},
		{"pro at 50-seat breakpoint", 50, organization.PlanPro, 700},
		{"enterprise at 25-seat breakpoint", 25, organization.PlanEnterprise, 700},
		{"enterprise without discount", 3, organization.PlanEnterprise, 105},
		{"zero seats", 0, organization.PlanPro, 0},
		{"free plan ignores seat count", 500, organization.PlanFree, 0},
		{"free plan zero seats", 0, organization.PlanFree, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := billing.ComputeMonthlyPrice(tt.users, tt.plan)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeMonthlyPriceInvalidInput(t *testing.T) {
	t.Run("negative seat count", func(t *testing.T) {
		_, err := billing.ComputeMonthlyPrice(-1, organization.PlanPro)
		require.Error(t, err)
		assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
	})

	t.Run("unknown plan", func(t *testing.T) {
		_, err := billing.ComputeMonthlyPrice(10, organization.PlanType("platinum"))
		require.Error(t, err)
		assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
	})
}

// The discount multiplier applies to the whole seat count, so the total is
// monotonic within each band but drops when a count first crosses a
// breakpoint (24 pro seats cost 432, 25 cost 400). That drop is the priced
// behavior, not a defect: the breakpoint fixtures above pin it.
func TestComputeMonthlyPricePerBandMonotonic(t *testing.T) {
	bands := []struct {
		name     string
		from, to int
	}{
		{"no discount", 0, 9},
		{"10-seat band", 10, 24},
		{"25-seat band", 25, 49},
		{"50-seat band", 50, 60},
	}

	for _, plan := range organization.AllPlans {
		for _, band := range bands {
			t.Run(fmt.Sprintf("%s %s", plan, band.name), func(t *testing.T) {
				prev, err := billing.ComputeMonthlyPrice(band.from, plan)
				require.NoError(t, err)
				for users := band.from + 1; users <= band.to; users++ {
					price, err := billing.ComputeMonthlyPrice(users, plan)
					require.NoError(t, err)
					assert.GreaterOrEqual(t, price, prev,
						fmt.Sprintf("price dropped going from %d to %d seats", users-1, users))
					prev = price
				}
			})
		}
	}
}

func TestComputeMonthlyPriceBreakpointEntry(t *testing.T) {
	t.Run("first breakpoint does not lower the total", func(t *testing.T) {
		nine, err := billing.ComputeMonthlyPrice(9, organization.PlanPro)
		require.NoError(t, err)
		ten, err := billing.ComputeMonthlyPrice(10, organization.PlanPro)
		require.NoError(t, err)
		assert.LessOrEqual(t, nine, ten)
	})

	t.Run("deeper breakpoints reprice the whole count", func(t *testing.T) {
		for _, entry := range []struct {
			before, at int
		}{
			{24, 25},
			{49, 50},
		} {
			before, err := billing.ComputeMonthlyPrice(entry.before, organization.PlanPro)
			require.NoError(t, err)
			at, err := billing.ComputeMonthlyPrice(entry.at, organization.PlanPro)
			require.NoError(t, err)
			assert.Less(t, at, before,
				fmt.Sprintf("%d seats should reprice below %d seats", entry.at, entry.before))
		}
	})
}
