// internal/stats/orders.go
package stats

import (
	"time"

	"fieldops-service/internal/domain/order"
)

// OrderStats is the headline dashboard breakdown of a set of service orders.
type OrderStats struct {
	Total   int `json:"total"`
	Done    int `json:"done"`
	Pending int `json:"pending"`
	Urgent  int `json:"urgent"`
}

// ComputeOrderStats partitions orders into the dashboard counters. Pending
// covers both not-yet-started and in-progress work; urgent counts by priority
// and is independent of status.
func ComputeOrderStats(orders []order.ServiceOrder) OrderStats {
	s := OrderStats{Total: len(orders)}
	for _, o := range orders {
		switch o.Status {
		case order.StatusDone:
			s.Done++
		case order.StatusPending, order.StatusInProgress:
			s.Pending++
		}
		if o.Priority == order.PriorityHigh || o.Priority == order.PriorityCritical {
			s.Urgent++
		}
	}
	return s
}

// ComputeStatusHistogram counts orders per status. Every status appears in
// the result, zero-valued when unobserved, so charts always render the full
// axis.
func ComputeStatusHistogram(orders []order.ServiceOrder) map[order.Status]int {
	hist := make(map[order.Status]int, len(order.AllStatuses))
	for _, status := range order.AllStatuses {
		hist[status] = 0
	}
	for _, o := range orders {
		hist[o.Status]++
	}
	return hist
}

// ComputePriorityHistogram counts orders per priority, zero-inclusive like
// ComputeStatusHistogram.
func ComputePriorityHistogram(orders []order.ServiceOrder) map[order.Priority]int {
	hist := make(map[order.Priority]int, len(order.AllPriorities))
	for _, priority := range order.AllPriorities {
		hist[priority] = 0
	}
	for _, o := range orders {
		hist[o.Priority]++
	}
	return hist
}

// DailyCount is one bucket of the weekly completed-jobs series.
type DailyCount struct {
	Date    time.Time `json:"date"`
	Weekday string    `json:"weekday"`
	Count   int       `json:"count"`
}

// TechnicianPerformance aggregates a technician's completed work. The average
// fields are nil when there is nothing to average; zero would read as
// instantaneous jobs or a zero rating, which is a different claim.
type TechnicianPerformance struct {
	TechnicianID     int64        `json:"technician_id"`
	CompletedCount   int          `json:"completed_count"`
	AvgDurationHours *float64     `json:"avg_duration_hours"`
	AvgSatisfaction  *float64     `json:"avg_satisfaction"`
	DailyCompleted   []DailyCount `json:"daily_completed"`
}

// ComputeTechnicianPerformance aggregates orders assigned to the given user,
// as primary technician or assistant. Day buckets cover the last seven local
// calendar days ending on now's day, oldest first; an order lands in the
// bucket of its actual-end local date.
func ComputeTechnicianPerformance(orders []order.ServiceOrder, technicianID int64, now time.Time) TechnicianPerformance {
	perf := TechnicianPerformance{TechnicianID: technicianID}

	var (
		totalHours    float64
		timedJobs     int
		totalScore    float64
		scoredJobs    int
		completedEnds []time.Time
	)

	for _, o := range orders {
		if !o.AssignedTo(technicianID) || o.Status != order.StatusDone {
			continue
		}
		perf.CompletedCount++

		if o.ActualStart.Valid && o.ActualEnd.Valid {
			totalHours += o.ActualEnd.Time.Sub(o.ActualStart.Time).Hours()
			timedJobs++
		}
		if o.Satisfaction.Valid {
			totalScore += o.Satisfaction.Float64
			scoredJobs++
		}
		if o.ActualEnd.Valid {
			completedEnds = append(completedEnds, o.ActualEnd.Time)
		}
	}

	if timedJobs > 0 {
		avg := totalHours / float64(timedJobs)
		perf.AvgDurationHours = &avg
	}
	if scoredJobs > 0 {
		avg := totalScore / float64(scoredJobs)
		perf.AvgSatisfaction = &avg
	}

	perf.DailyCompleted = make([]DailyCount, 0, 7)
	loc := now.Location()
	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		bucket := DailyCount{
			Date:    time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc),
			Weekday: day.Weekday().String()[:3],
		}
		for _, end := range completedEnds {
			if sameDay(end.In(loc), day) {
				bucket.Count++
			}
		}
		perf.DailyCompleted = append(perf.DailyCompleted, bucket)
	}

	return perf
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
