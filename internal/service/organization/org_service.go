// internal/service/organization/org_service.go
package organization

import (
	"context"
	"time"

	"fieldops-service/internal/billing"
	"fieldops-service/internal/domain/organization"
	xerrors "fieldops-service/internal/pkg/errors"
	"fieldops-service/internal/repository/postgres"

	"go.uber.org/zap"
)

type OrganizationService struct {
	orgRepo *postgres.OrganizationRepository
	logger  *zap.Logger
}

func NewOrganizationService(orgRepo *postgres.OrganizationRepository, logger *zap.Logger) *OrganizationService {
	return &OrganizationService{
		orgRepo: orgRepo,
		logger:  logger,
	}
}

// CreateOrganization registers a new client organization
func (s *OrganizationService) CreateOrganization(ctx context.Context, req *organization.CreateOrganizationRequest) (*organization.Organization, error) {
	plan := organization.PlanType(req.Plan)
	if _, err := billing.ComputeMonthlyPrice(req.MaxUsers, plan); err != nil {
		return nil, err
	}

	org := &organization.Organization{
		Name:     req.Name,
		NIF:      req.NIF,
		Plan:     plan,
		MaxUsers: req.MaxUsers,
		Status:   organization.StatusActive,
		JoinedAt: time.Now(),
	}

	if err := s.orgRepo.Create(ctx, org); err != nil {
		s.logger.Error("failed to create organization", zap.Error(err))
		return nil, err
	}

	s.logger.Info("organization created",
		zap.Int64("organization_id", org.ID),
		zap.String("name", org.Name),
		zap.String("plan", string(org.Plan)),
	)

	return org, nil
}

// GetOrganization retrieves an organization by ID
func (s *OrganizationService) GetOrganization(ctx context.Context, id int64) (*organization.Organization, error) {
	return s.orgRepo.FindByID(ctx, id)
}

// ListOrganizations retrieves organizations with filters and pagination
func (s *OrganizationService) ListOrganizations(ctx context.Context, filters *organization.OrganizationListFilters) (*organization.OrganizationListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}

	orgs, total, err := s.orgRepo.List(ctx, filters)
	if err != nil {
		s.logger.Error("failed to list organizations", zap.Error(err))
		return nil, err
	}

	totalPages := int((total + int64(filters.PageSize) - 1) / int64(filters.PageSize))

	return &organization.OrganizationListResponse{
		Organizations: orgs,
		Total:         total,
		Page:          filters.Page,
		PageSize:      filters.PageSize,
		TotalPages:    totalPages,
	}, nil
}

// UpdateOrganization patches plan, seats and identity fields. Seats can never
// shrink below the number already in use.
func (s *OrganizationService) UpdateOrganization(ctx context.Context, id int64, req *organization.UpdateOrganizationRequest) (*organization.Organization, error) {
	org, err := s.orgRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		org.Name = *req.Name
	}
	if req.NIF != nil {
		org.NIF = *req.NIF
	}
	if req.Plan != nil {
		org.Plan = organization.PlanType(*req.Plan)
	}
	if req.MaxUsers != nil {
		org.MaxUsers = *req.MaxUsers
	}
	if req.ActiveUsers != nil {
		org.ActiveUsers = *req.ActiveUsers
	}

	if org.ActiveUsers > org.MaxUsers {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "active users exceed the plan's seats")
	}
	if _, err := billing.ComputeMonthlyPrice(org.MaxUsers, org.Plan); err != nil {
		return nil, err
	}

	if err := s.orgRepo.Update(ctx, id, org); err != nil {
		s.logger.Error("failed to update organization", zap.Int64("organization_id", id), zap.Error(err))
		return nil, err
	}

	return org, nil
}

// SuspendOrganization blocks an organization with a recorded reason
func (s *OrganizationService) SuspendOrganization(ctx context.Context, id int64, reason string) error {
	org, err := s.orgRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if org.Status == organization.StatusSuspended {
		return xerrors.Wrap(xerrors.ErrPrecondition, "organization is already suspended")
	}

	if err := s.orgRepo.UpdateStatus(ctx, id, organization.StatusSuspended, reason); err != nil {
		return err
	}

	s.logger.Warn("organization suspended",
		zap.Int64("organization_id", id),
		zap.String("reason", reason),
	)

	return nil
}

// ReactivateOrganization lifts a suspension
func (s *OrganizationService) ReactivateOrganization(ctx context.Context, id int64) error {
	org, err := s.orgRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if org.Status != organization.StatusSuspended {
		return xerrors.Wrap(xerrors.ErrPrecondition, "organization is not suspended")
	}

	if err := s.orgRepo.UpdateStatus(ctx, id, organization.StatusActive, ""); err != nil {
		return err
	}

	s.logger.Info("organization reactivated", zap.Int64("organization_id", id))

	return nil
}

// Revenue aggregates the projected monthly revenue over every organization.
// Billing is by reserved seats, whatever their current status.
func (s *OrganizationService) Revenue(ctx context.Context) (*organization.RevenueReport, error) {
	orgs, err := s.orgRepo.FindAll(ctx)
	if err != nil {
		s.logger.Error("failed to load organizations for revenue", zap.Error(err))
		return nil, err
	}

	total, err := billing.ComputeMonthlyRevenue(orgs)
	if err != nil {
		return nil, err
	}

	return &organization.RevenueReport{
		MonthlyRevenue:    total,
		OrganizationCount: len(orgs),
	}, nil
}

// Quote prices a plan and seat count without touching any record
func (s *OrganizationService) Quote(userCount int, plan organization.PlanType) (int64, error) {
	return billing.ComputeMonthlyPrice(userCount, plan)
}
