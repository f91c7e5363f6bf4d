// internal/billing/revenue.go
package billing

import (
	"fmt"

	"fieldops-service/internal/domain/crm"
	"fieldops-service/internal/domain/organization"
)

// ComputeMonthlyRevenue sums the monthly price of every organization. Billing
// is estimated on seat capacity (MaxUsers), not on currently active users.
func ComputeMonthlyRevenue(orgs []organization.Organization) (int64, error) {
	var total int64
	for _, org := range orgs {
		price, err := ComputeMonthlyPrice(org.MaxUsers, org.Plan)
		if err != nil {
			return 0, fmt.Errorf("organization %d: %w", org.ID, err)
		}
		total += price
	}
	return total, nil
}

// ComputePipelineValue sums the declared potential value across leads. Leads
// without an estimate contribute nothing.
func ComputePipelineValue(leads []crm.Lead) float64 {
	var total float64
	for _, lead := range leads {
		if lead.PotentialValue.Valid {
			total += lead.PotentialValue.Float64
		}
	}
	return total
}

// BuildPipelineReport aggregates the sales pipeline: total value, open leads
// and a zero-inclusive count per status.
func BuildPipelineReport(leads []crm.Lead) crm.PipelineReport {
	report := crm.PipelineReport{
		TotalLeads:    len(leads),
		CountByStatus: make(map[crm.LeadStatus]int, len(crm.AllLeadStatuses)),
	}
	for _, status := range crm.AllLeadStatuses {
		report.CountByStatus[status] = 0
	}
	for _, lead := range leads {
		report.CountByStatus[lead.Status]++
		if !lead.Status.Terminal() {
			report.OpenLeads++
		}
	}
	report.PipelineValue = ComputePipelineValue(leads)
	return report
}
