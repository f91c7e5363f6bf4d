// internal/service/crm/lead_service.go
package crm

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"fieldops-service/internal/billing"
	"fieldops-service/internal/domain/crm"
	xerrors "fieldops-service/internal/pkg/errors"
	"fieldops-service/internal/repository/postgres"
	"fieldops-service/internal/service/email"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type LeadService struct {
	db       *postgres.DB
	leadRepo *postgres.LeadRepository
	orgRepo  *postgres.OrganizationRepository
	userRepo *postgres.UserRepository
	mailer   *email.EmailSender
	logger   *zap.Logger
}

func NewLeadService(
	db *postgres.DB,
	leadRepo *postgres.LeadRepository,
	orgRepo *postgres.OrganizationRepository,
	userRepo *postgres.UserRepository,
	mailer *email.EmailSender,
	logger *zap.Logger,
) *LeadService {
	return &LeadService{
		db:       db,
		leadRepo: leadRepo,
		orgRepo:  orgRepo,
		userRepo: userRepo,
		mailer:   mailer,
		logger:   logger,
	}
}

// CreateLead registers a new prospect in the pipeline
func (s *LeadService) CreateLead(ctx context.Context, req *crm.CreateLeadRequest) (*crm.Lead, error) {
	l := &crm.Lead{
		ContactName: req.ContactName,
		CompanyName: req.CompanyName,
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:       req.Phone,
		NIF:         sql.NullString{String: req.NIF, Valid: req.NIF != ""},
		Status:      crm.LeadStatusNew,
		Notes:       req.Notes,
	}
	if req.PotentialValue != nil {
		l.PotentialValue = sql.NullFloat64{Float64: *req.PotentialValue, Valid: true}
	}
	if req.Probability != nil {
		l.Probability = sql.NullInt16{Int16: *req.Probability, Valid: true}
	}
	if req.ProposedPlan != "" {
		l.ProposedPlan = sql.NullString{String: req.ProposedPlan, Valid: true}
	}
	if req.ProposedUsers != nil {
		l.ProposedUsers = sql.NullInt32{Int32: *req.ProposedUsers, Valid: true}
	}

	if err := s.leadRepo.Create(ctx, l); err != nil {
		s.logger.Error("failed to create lead", zap.Error(err))
		return nil, err
	}

	s.logger.Info("lead created",
		zap.Int64("lead_id", l.ID),
		zap.String("company", l.CompanyName),
	)

	return l, nil
}

// GetLead retrieves a lead by ID
func (s *LeadService) GetLead(ctx context.Context, id int64) (*crm.Lead, error) {
	return s.leadRepo.FindByID(ctx, id)
}

// ListLeads retrieves leads with filters and pagination
func (s *LeadService) ListLeads(ctx context.Context, filters *crm.LeadListFilters) (*crm.LeadListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}

	leads, total, err := s.leadRepo.List(ctx, filters)
	if err != nil {
		s.logger.Error("failed to list leads", zap.Error(err))
		return nil, err
	}

	totalPages := int((total + int64(filters.PageSize) - 1) / int64(filters.PageSize))

	return &crm.LeadListResponse{
		Leads:      leads,
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalPages: totalPages,
	}, nil
}

// UpdateLead patches a lead's editable fields
func (s *LeadService) UpdateLead(ctx context.Context, id int64, req *crm.UpdateLeadRequest) (*crm.Lead, error) {
	l, err := s.leadRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.Status.Terminal() {
		return nil, xerrors.Wrap(xerrors.ErrPrecondition, "lead is closed")
	}

	if req.ContactName != nil {
		l.ContactName = *req.ContactName
	}
	if req.CompanyName != nil {
		l.CompanyName = *req.CompanyName
	}
	if req.Email != nil {
		l.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		l.Phone = *req.Phone
	}
	if req.NIF != nil {
		l.NIF = sql.NullString{String: *req.NIF, Valid: *req.NIF != ""}
	}
	if req.Notes != nil {
		l.Notes = *req.Notes
	}
	if req.PotentialValue != nil {
		l.PotentialValue = sql.NullFloat64{Float64: *req.PotentialValue, Valid: true}
	}
	if req.Probability != nil {
		l.Probability = sql.NullInt16{Int16: *req.Probability, Valid: true}
	}
	if req.ProposedPlan != nil {
		l.ProposedPlan = sql.NullString{String: *req.ProposedPlan, Valid: *req.ProposedPlan != ""}
	}
	if req.ProposedUsers != nil {
		l.ProposedUsers = sql.NullInt32{Int32: *req.ProposedUsers, Valid: true}
	}
	l.LastContactAt = sql.NullTime{Time: time.Now(), Valid: true}

	if err := s.leadRepo.Update(ctx, id, l); err != nil {
		s.logger.Error("failed to update lead", zap.Int64("lead_id", id), zap.Error(err))
		return nil, err
	}

	return l, nil
}

// UpdateLeadStatus moves a lead through the pipeline. Converted is terminal
// and only reachable through ConvertLead; lost is terminal once set.
func (s *LeadService) UpdateLeadStatus(ctx context.Context, id int64, status crm.LeadStatus) (*crm.Lead, error) {
	l, err := s.leadRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.Status == crm.LeadStatusConverted {
		return nil, crm.ErrAlreadyConverted
	}
	if l.Status == crm.LeadStatusLost {
		return nil, xerrors.Wrap(xerrors.ErrPrecondition, "lead is closed")
	}
	if status == crm.LeadStatusConverted {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "use the convert operation to close a lead as won")
	}

	if err := s.leadRepo.UpdateStatus(ctx, id, status); err != nil {
		s.logger.Error("failed to update lead status", zap.Int64("lead_id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("lead status updated",
		zap.Int64("lead_id", id),
		zap.String("from", string(l.Status)),
		zap.String("to", string(status)),
	)

	return s.leadRepo.FindByID(ctx, id)
}

// ConvertLead turns a qualified lead into a paying organization with a manager
// account, atomically. The lead row is locked for the duration so concurrent
// converts cannot both succeed; the second caller gets ErrAlreadyConverted.
func (s *LeadService) ConvertLead(ctx context.Context, id int64) (*Conversion, error) {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	lead, err := s.leadRepo.FindByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	conv, err := BuildConversion(*lead, time.Now())
	if err != nil {
		return nil, err
	}

	// The manager's email must be free before we mint the account. Checked on
	// the transaction; the unique index on users.email catches any race with
	// a concurrent registration and rolls the conversion back whole.
	exists, err := s.userRepo.ExistsByEmailWithTx(ctx, tx, conv.Manager.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, xerrors.Wrap(xerrors.ErrConflict, "a user with the lead's email already exists")
	}

	if err := s.orgRepo.CreateWithTx(ctx, tx, &conv.Organization); err != nil {
		s.logger.Error("failed to create organization from lead", zap.Int64("lead_id", id), zap.Error(err))
		return nil, err
	}

	tempPassword := ulid.Make().String()
	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash temporary password: %w", err)
	}
	conv.Manager.PasswordHash = string(hash)
	conv.Manager.OrganizationID = sql.NullInt64{Int64: conv.Organization.ID, Valid: true}

	if err := s.userRepo.CreateWithTx(ctx, tx, &conv.Manager); err != nil {
		s.logger.Error("failed to create manager from lead", zap.Int64("lead_id", id), zap.Error(err))
		return nil, err
	}

	if err := s.leadRepo.MarkConvertedWithTx(ctx, tx, id, conv.Organization.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit conversion: %w", err)
	}

	conv.Lead.ID = lead.ID
	conv.Lead.ConvertedOrgID = sql.NullInt64{Int64: conv.Organization.ID, Valid: true}

	if s.mailer != nil && s.mailer.Enabled() {
		go func(to, name, org, password string) {
			if err := s.mailer.SendWelcome(to, name, org, password); err != nil {
				s.logger.Warn("failed to send welcome email", zap.String("to", to), zap.Error(err))
			}
		}(conv.Manager.Email, conv.Manager.FullName, conv.Organization.Name, tempPassword)
	}

	s.logger.Info("lead converted",
		zap.Int64("lead_id", id),
		zap.Int64("organization_id", conv.Organization.ID),
		zap.Int64("manager_id", conv.Manager.ID),
		zap.Int64("quoted_monthly_price", conv.QuotedMonthlyPrice),
	)

	return conv, nil
}

// BulkImport loads leads from an exported prospect list. Rows missing a
// company name or email are skipped and reported, not fatal.
func (s *LeadService) BulkImport(ctx context.Context, records []crm.LeadImportRecord) (*crm.LeadImportResult, error) {
	result := &crm.LeadImportResult{}

	for i, rec := range records {
		if strings.TrimSpace(rec.CompanyName) == "" || strings.TrimSpace(rec.Email) == "" {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: company name and email are required", i+1))
			continue
		}

		l := &crm.Lead{
			ContactName: rec.ContactName,
			CompanyName: rec.CompanyName,
			Email:       strings.ToLower(strings.TrimSpace(rec.Email)),
			Phone:       rec.Phone,
			NIF:         sql.NullString{String: rec.NIF, Valid: rec.NIF != ""},
			Status:      crm.LeadStatusNew,
			Notes:       rec.Notes,
		}
		if rec.PotentialValue != nil {
			l.PotentialValue = sql.NullFloat64{Float64: *rec.PotentialValue, Valid: true}
		}

		if err := s.leadRepo.Create(ctx, l); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		result.Imported++
	}

	s.logger.Info("lead import finished",
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
	)

	return result, nil
}

// Pipeline aggregates the open pipeline: expected value weighted by
// probability, plus per-status counts.
func (s *LeadService) Pipeline(ctx context.Context) (*crm.PipelineReport, error) {
	leads, err := s.leadRepo.FindAll(ctx)
	if err != nil {
		s.logger.Error("failed to load leads for pipeline", zap.Error(err))
		return nil, err
	}

	report := billing.BuildPipelineReport(leads)
	return &report, nil
}
