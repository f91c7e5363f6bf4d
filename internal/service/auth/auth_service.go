// internal/service/auth/auth_service.go
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"fieldops-service/internal/domain/identity"
	xerrors "fieldops-service/internal/pkg/errors"
	"fieldops-service/internal/pkg/jwt"
	"fieldops-service/internal/pkg/session"
	"fieldops-service/internal/repository/postgres"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	loginRateLimit  = 5
	loginRateWindow = time.Minute
)

type AuthService struct {
	userRepo    *postgres.UserRepository
	jwtGen      *jwt.Generator
	jwtVerifier *jwt.Verifier
	sessions    *session.Manager
	rateLimiter *session.RateLimiter
	tokenTTL    time.Duration
	logger      *zap.Logger
}

func NewAuthService(
	userRepo *postgres.UserRepository,
	jwtGen *jwt.Generator,
	jwtVerifier *jwt.Verifier,
	sessions *session.Manager,
	rateLimiter *session.RateLimiter,
	tokenTTL time.Duration,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		jwtGen:      jwtGen,
		jwtVerifier: jwtVerifier,
		sessions:    sessions,
		rateLimiter: rateLimiter,
		tokenTTL:    tokenTTL,
		logger:      logger,
	}
}

// Login authenticates a user and opens a session. Attempts are rate limited
// per email+IP so credential stuffing burns out quickly.
func (s *AuthService) Login(ctx context.Context, req *identity.LoginRequest, ipAddress string) (*identity.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	limiterKey := fmt.Sprintf("login:%s:%s", email, ipAddress)
	allowed, err := s.rateLimiter.Allow(ctx, limiterKey, loginRateLimit, loginRateWindow)
	if err != nil {
		s.logger.Error("rate limiter unavailable", zap.Error(err))
		return nil, xerrors.ErrInternal
	}
	if !allowed {
		s.logger.Warn("login rate limited", zap.String("email", email), zap.String("ip", ipAddress))
		return nil, xerrors.ErrRateLimited
	}

	u, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.Wrap(xerrors.ErrUnauthorized, "invalid email or password")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("failed login attempt", zap.String("email", email), zap.String("ip", ipAddress))
		return nil, xerrors.Wrap(xerrors.ErrUnauthorized, "invalid email or password")
	}

	if !u.IsActive {
		return nil, xerrors.Wrap(xerrors.ErrForbidden, "account is deactivated")
	}

	var orgID int64
	if u.OrganizationID.Valid {
		orgID = u.OrganizationID.Int64
	}

	token, jti, err := s.jwtGen.Generate(u.ID, string(u.Role), orgID, req.Device)
	if err != nil {
		s.logger.Error("failed to sign token", zap.Error(err))
		return nil, xerrors.ErrInternal
	}

	now := time.Now()
	if err := s.sessions.CreateSession(ctx, &session.SessionData{
		JTI:        jti,
		IdentityID: u.ID,
		Email:      u.Email,
		Role:       string(u.Role),
		Device:     req.Device,
		IPAddress:  ipAddress,
		LoginAt:    now,
		ExpiresAt:  now.Add(s.tokenTTL),
	}); err != nil {
		s.logger.Error("failed to store session", zap.Error(err))
		return nil, xerrors.ErrInternal
	}

	s.rateLimiter.Reset(ctx, limiterKey)

	s.logger.Info("user logged in",
		zap.Int64("identity_id", u.ID),
		zap.String("role", string(u.Role)),
		zap.String("ip", ipAddress),
	)

	return &identity.LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.tokenTTL.Seconds()),
		User:      u,
	}, nil
}

// ValidateToken verifies the JWT signature and confirms the session has not
// been revoked.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := s.jwtVerifier.Verify(token)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.ErrUnauthorized, "invalid token")
	}

	if _, err := s.sessions.GetSession(ctx, claims.IdentityID, claims.ID); err != nil {
		return nil, err
	}

	return claims, nil
}

// Logout revokes the current session
func (s *AuthService) Logout(ctx context.Context, identityID int64, jti string) error {
	if err := s.sessions.DeleteSession(ctx, identityID, jti); err != nil {
		s.logger.Error("failed to delete session", zap.Int64("identity_id", identityID), zap.Error(err))
		return err
	}

	s.logger.Info("user logged out", zap.Int64("identity_id", identityID))
	return nil
}

// LogoutAll revokes every session the user holds, on every device
func (s *AuthService) LogoutAll(ctx context.Context, identityID int64) error {
	return s.sessions.DeleteAllSessions(ctx, identityID)
}

// GetMe returns the authenticated user's profile
func (s *AuthService) GetMe(ctx context.Context, identityID int64) (*identity.User, error) {
	return s.userRepo.FindByID(ctx, identityID)
}

// ChangePassword rotates the user's password and revokes other sessions
func (s *AuthService) ChangePassword(ctx context.Context, identityID int64, req *identity.ChangePasswordRequest) error {
	u, err := s.userRepo.FindByID(ctx, identityID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return xerrors.Wrap(xerrors.ErrUnauthorized, "current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, identityID, string(hash)); err != nil {
		return err
	}

	if err := s.sessions.DeleteAllSessions(ctx, identityID); err != nil {
		s.logger.Warn("failed to revoke sessions after password change",
			zap.Int64("identity_id", identityID), zap.Error(err))
	}

	s.logger.Info("password changed", zap.Int64("identity_id", identityID))
	return nil
}

// RegisterUser creates a staff or client account. Only admins reach this.
func (s *AuthService) RegisterUser(ctx context.Context, req *identity.CreateUserRequest) (*identity.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, xerrors.Wrap(xerrors.ErrConflict, "email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &identity.User{
		FullName:     req.FullName,
		Email:        email,
		PasswordHash: string(hash),
		Role:         identity.Role(req.Role),
		IsActive:     true,
	}
	if req.OrganizationID != nil {
		u.OrganizationID = sql.NullInt64{Int64: *req.OrganizationID, Valid: true}
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		s.logger.Error("failed to create user", zap.Error(err))
		return nil, err
	}

	s.logger.Info("user registered",
		zap.Int64("identity_id", u.ID),
		zap.String("role", string(u.Role)),
	)

	return u, nil
}

// ListUsers retrieves accounts with filters and pagination
func (s *AuthService) ListUsers(ctx context.Context, filters *identity.UserListFilters) (*identity.UserListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}

	users, total, err := s.userRepo.List(ctx, filters)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(filters.PageSize) - 1) / int64(filters.PageSize))

	return &identity.UserListResponse{
		Users:      users,
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalPages: totalPages,
	}, nil
}

// SetUserActive toggles an account and revokes its sessions when deactivating
func (s *AuthService) SetUserActive(ctx context.Context, identityID int64, active bool) error {
	if err := s.userRepo.SetActive(ctx, identityID, active); err != nil {
		return err
	}

	if !active {
		if err := s.sessions.DeleteAllSessions(ctx, identityID); err != nil {
			s.logger.Warn("failed to revoke sessions for deactivated user",
				zap.Int64("identity_id", identityID), zap.Error(err))
		}
	}

	return nil
}
