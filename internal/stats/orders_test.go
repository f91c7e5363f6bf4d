package stats_test

import (
	"database/sql"
	"testing"
	"time"

	"fieldops-service/internal/domain/order"
	"fieldops-service/internal/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkOrder(status order.Status, priority order.Priority) order.ServiceOrder {
	return order.ServiceOrder{Status: status, Priority: priority}
}

func TestComputeOrderStats(t *testing.T) {
	orders := []order.ServiceOrder{
		mkOrder(order.StatusDone, order.PriorityNormal),
		mkOrder(order.StatusDone, order.PriorityLow),
		mkOrder(order.StatusDone, order.PriorityHigh),
		mkOrder(order.StatusPending, order.PriorityNormal),
		mkOrder(order.StatusPending, order.PriorityCritical),
		mkOrder(order.StatusInProgress, order.PriorityNormal),
		mkOrder(order.StatusCanceled, order.PriorityLow),
	}

	s := stats.ComputeOrderStats(orders)

	assert.Equal(t, 7, s.Total)
	assert.Equal(t, 3, s.Done)
	// pending includes in-progress work
	assert.Equal(t, 3, s.Pending)
	// urgent counts by priority regardless of status
	assert.Equal(t, 2, s.Urgent)
}

func TestComputeOrderStatsEmpty(t *testing.T) {
	assert.Equal(t, stats.OrderStats{}, stats.ComputeOrderStats(nil))
}

func TestComputeStatusHistogram(t *testing.T) {
	t.Run("empty input still reports every status", func(t *testing.T) {
		hist := stats.ComputeStatusHistogram(nil)

		require.Len(t, hist, len(order.AllStatuses))
		for _, status := range order.AllStatuses {
			count, ok := hist[status]
			require.True(t, ok, "missing status %q", status)
			assert.Equal(t, 0, count)
		}
	})

	t.Run("counts observed statuses", func(t *testing.T) {
		orders := []order.ServiceOrder{
			mkOrder(order.StatusDone, order.PriorityNormal),
			mkOrder(order.StatusDone, order.PriorityNormal),
			mkOrder(order.StatusReschedule, order.PriorityNormal),
		}

		hist := stats.ComputeStatusHistogram(orders)

		assert.Equal(t, 2, hist[order.StatusDone])
		assert.Equal(t, 1, hist[order.StatusReschedule])
		assert.Equal(t, 0, hist[order.StatusPending])
		assert.Equal(t, 0, hist[order.StatusInProgress])
		assert.Equal(t, 0, hist[order.StatusCanceled])
	})
}

func TestComputePriorityHistogram(t *testing.T) {
	orders := []order.ServiceOrder{
		mkOrder(order.StatusPending, order.PriorityCritical),
		mkOrder(order.StatusDone, order.PriorityCritical),
		mkOrder(order.StatusDone, order.PriorityLow),
	}

	hist := stats.ComputePriorityHistogram(orders)

	require.Len(t, hist, len(order.AllPriorities))
	assert.Equal(t, 2, hist[order.PriorityCritical])
	assert.Equal(t, 1, hist[order.PriorityLow])
	assert.Equal(t, 0, hist[order.PriorityNormal])
	assert.Equal(t, 0, hist[order.PriorityHigh])
}

func assignedOrder(techID int64, status order.Status, start, end time.Time, score float64) order.ServiceOrder {
	o := order.ServiceOrder{
		Status:       status,
		Priority:     order.PriorityNormal,
		TechnicianID: sql.NullInt64{Int64: techID, Valid: true},
	}
	if !start.IsZero() {
		o.ActualStart = sql.NullTime{Time: start, Valid: true}
	}
	if !end.IsZero() {
		o.ActualEnd = sql.NullTime{Time: end, Valid: true}
	}
	if score > 0 {
		o.Satisfaction = sql.NullFloat64{Float64: score, Valid: true}
	}
	return o
}

func TestComputeTechnicianPerformance(t *testing.T) {
	now := time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC)
	day := func(offset int, hour int) time.Time {
		return time.Date(2026, 8, 30+offset, hour, 0, 0, 0, time.UTC)
	}

	orders := []order.ServiceOrder{
		// 2h job finished today, rated 9
		assignedOrder(42, order.StatusDone, day(0, 9), day(0, 11), 9),
		// 4h job finished two days ago, rated 7
		assignedOrder(42, order.StatusDone, day(-2, 8), day(-2, 12), 7),
		// finished but never clocked, no rating
		assignedOrder(42, order.StatusDone, time.Time{}, day(-2, 18), 0),
		// still in progress, must not count
		assignedOrder(42, order.StatusInProgress, day(0, 8), time.Time{}, 0),
		// another technician's job
		assignedOrder(7, order.StatusDone, day(0, 9), day(0, 10), 10),
		// finished outside the 7-day window
		assignedOrder(42, order.StatusDone, day(-10, 8), day(-10, 9), 5),
	}

	perf := stats.ComputeTechnicianPerformance(orders, 42, now)

	assert.Equal(t, 4, perf.CompletedCount)

	require.NotNil(t, perf.AvgDurationHours)
	assert.InDelta(t, (2.0+4.0+1.0)/3.0, *perf.AvgDurationHours, 1e-9)

	require.NotNil(t, perf.AvgSatisfaction)
	assert.InDelta(t, (9.0+7.0+5.0)/3.0, *perf.AvgSatisfaction, 1e-9)

	require.Len(t, perf.DailyCompleted, 7)
	// oldest-to-newest, ending on now's day
	assert.Equal(t, now.AddDate(0, 0, -6).Weekday().String()[:3], perf.DailyCompleted[0].Weekday)
	assert.Equal(t, now.Weekday().String()[:3], perf.DailyCompleted[6].Weekday)
	assert.Equal(t, 1, perf.DailyCompleted[6].Count) // today
	assert.Equal(t, 2, perf.DailyCompleted[4].Count) // two days ago, incl. unclocked finish
	assert.Equal(t, 0, perf.DailyCompleted[5].Count)
}

func TestComputeTechnicianPerformanceAssistantCounts(t *testing.T) {
	now := time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC)
	o := order.ServiceOrder{
		Status:      order.StatusDone,
		Priority:    order.PriorityNormal,
		AssistantID: sql.NullInt64{Int64: 42, Valid: true},
		ActualStart: sql.NullTime{Time: now.Add(-3 * time.Hour), Valid: true},
		ActualEnd:   sql.NullTime{Time: now.Add(-1 * time.Hour), Valid: true},
	}

	perf := stats.ComputeTechnicianPerformance([]order.ServiceOrder{o}, 42, now)

	assert.Equal(t, 1, perf.CompletedCount)
	require.NotNil(t, perf.AvgDurationHours)
	assert.InDelta(t, 2.0, *perf.AvgDurationHours, 1e-9)
}

// No completed work means no averages: nil, never zero, so the dashboard can
// tell "no jobs yet" apart from "instantaneous jobs".
func TestComputeTechnicianPerformanceNoData(t *testing.T) {
	now := time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC)

	perf := stats.ComputeTechnicianPerformance(nil, 42, now)

	assert.Equal(t, 0, perf.CompletedCount)
	assert.Nil(t, perf.AvgDurationHours)
	assert.Nil(t, perf.AvgSatisfaction)
	require.Len(t, perf.DailyCompleted, 7)
	for _, bucket := range perf.DailyCompleted {
		assert.Equal(t, 0, bucket.Count)
	}
}
