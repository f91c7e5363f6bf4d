// internal/billing/pricing.go
package billing

import (
	"fmt"
	"math"

	"fieldops-service/internal/domain/organization"
	xerrors "fieldops-service/internal/pkg/errors"
)

// Per-user monthly base rate by plan, in whole currency units.
var baseRates = map[organization.PlanType]float64{
	organization.PlanFree:       0,
	organization.PlanPro:        20,
	organization.PlanEnterprise: 35,
}

// Volume discount breakpoints. The multiplier applies to the per-user rate,
// not to a marginal band, so the whole seat count gets the discounted rate.
// Evaluated highest threshold first.
var volumeDiscounts = []struct {
	MinUsers   int
	Multiplier float64
}{
	{50, 0.70},
	{25, 0.80},
	{10, 0.90},
}

// ComputeMonthlyPrice returns the monthly price for a seat count on a plan.
// It is the single source of truth for pricing: revenue reporting and lead
// conversion both quote through it. Zero seats price at zero; negative seat
// counts and unknown plans are rejected.
func ComputeMonthlyPrice(userCount int, plan organization.PlanType) (int64, error) {
	if userCount < 0 {
		return 0, fmt.Errorf("user count %d: %w", userCount, xerrors.ErrInvalidInput)
	}

	rate, ok := baseRates[plan]
	if !ok {
		return 0, fmt.Errorf("unknown plan %q: %w", plan, xerrors.ErrInvalidInput)
	}

	for _, d := range volumeDiscounts {
		if userCount >= d.MinUsers {
			rate *= d.Multiplier
			break
		}
	}

	return int64(math.Round(rate * float64(userCount))), nil
}
