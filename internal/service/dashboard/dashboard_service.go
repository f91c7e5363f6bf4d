// internal/service/dashboard/dashboard_service.go
package dashboard

import (
	"context"
	"encoding/json"
	"time"

	"fieldops-service/internal/billing"
	"fieldops-service/internal/domain/crm"
	"fieldops-service/internal/domain/order"
	"fieldops-service/internal/domain/organization"
	"fieldops-service/internal/repository/postgres"
	"fieldops-service/internal/stats"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	snapshotKey = "dashboard:snapshot"
	snapshotTTL = 30 * time.Second
)

// Snapshot is the admin dashboard payload: order counters, both histograms,
// projected revenue and the open sales pipeline, computed in one pass.
type Snapshot struct {
	Orders     stats.OrderStats       `json:"orders"`
	ByStatus   map[order.Status]int   `json:"by_status"`
	ByPriority map[order.Priority]int `json:"by_priority"`

	Revenue  organization.RevenueReport `json:"revenue"`
	Pipeline crm.PipelineReport         `json:"pipeline"`

	GeneratedAt time.Time `json:"generated_at"`
}

type DashboardService struct {
	orderRepo *postgres.OrderRepository
	orgRepo   *postgres.OrganizationRepository
	leadRepo  *postgres.LeadRepository
	cache     *redis.Client
	logger    *zap.Logger
}

func NewDashboardService(
	orderRepo *postgres.OrderRepository,
	orgRepo *postgres.OrganizationRepository,
	leadRepo *postgres.LeadRepository,
	cache *redis.Client,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		orderRepo: orderRepo,
		orgRepo:   orgRepo,
		leadRepo:  leadRepo,
		cache:     cache,
		logger:    logger,
	}
}

// GetSnapshot serves the dashboard, from cache when fresh. The snapshot is
// cheap but the dashboard polls; 30 seconds of staleness is acceptable.
func (s *DashboardService) GetSnapshot(ctx context.Context) (*Snapshot, error) {
	if cached, err := s.cache.Get(ctx, snapshotKey).Result(); err == nil {
		var snap Snapshot
		if err := json.Unmarshal([]byte(cached), &snap); err == nil {
			return &snap, nil
		}
	} else if err != redis.Nil {
		s.logger.Warn("dashboard cache unavailable", zap.Error(err))
	}

	snap, err := s.build(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(snap); err == nil {
		if err := s.cache.Set(ctx, snapshotKey, data, snapshotTTL).Err(); err != nil {
			s.logger.Warn("failed to cache dashboard snapshot", zap.Error(err))
		}
	}

	return snap, nil
}

// Invalidate drops the cached snapshot so the next read recomputes
func (s *DashboardService) Invalidate(ctx context.Context) {
	if err := s.cache.Del(ctx, snapshotKey).Err(); err != nil && err != redis.Nil {
		s.logger.Warn("failed to invalidate dashboard snapshot", zap.Error(err))
	}
}

func (s *DashboardService) build(ctx context.Context) (*Snapshot, error) {
	orders, err := s.orderRepo.FindAll(ctx)
	if err != nil {
		s.logger.Error("failed to load orders for dashboard", zap.Error(err))
		return nil, err
	}

	orgs, err := s.orgRepo.FindAll(ctx)
	if err != nil {
		s.logger.Error("failed to load organizations for dashboard", zap.Error(err))
		return nil, err
	}

	leads, err := s.leadRepo.FindAll(ctx)
	if err != nil {
		s.logger.Error("failed to load leads for dashboard", zap.Error(err))
		return nil, err
	}

	revenue, err := billing.ComputeMonthlyRevenue(orgs)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Orders:     stats.ComputeOrderStats(orders),
		ByStatus:   stats.ComputeStatusHistogram(orders),
		ByPriority: stats.ComputePriorityHistogram(orders),
		Revenue: organization.RevenueReport{
			MonthlyRevenue:    revenue,
			OrganizationCount: len(orgs),
		},
		Pipeline:    billing.BuildPipelineReport(leads),
		GeneratedAt: time.Now(),
	}, nil
}
