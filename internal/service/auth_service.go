package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/crisis-followup-service/internal/auth"
	"github.com/spec-kit/crisis-followup-service/internal/config"
	"github.com/spec-kit/crisis-followup-service/internal/domain"
	"github.com/spec-kit/crisis-followup-service/internal/repository"
	apperrors "github.com/spec-kit/crisis-followup-service/pkg/util"
)

// AuthService coordinates case-worker account and login flows.
type AuthService struct {
	workers    repository.CaseWorkerRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	CaseWorkerRepo repository.CaseWorkerRepository
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		workers:    deps.CaseWorkerRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// TokenManager exposes the manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// CreateWorker provisions a case-worker account (admin operation).
func (s *AuthService) CreateWorker(ctx context.Context, name, email, password string, role domain.CaseWorkerRole) (*domain.CaseWorker, error) {
	if _, err := s.workers.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	worker := &domain.CaseWorker{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}
	if err := s.workers.Create(ctx, worker); err != nil {
		return nil, apperrors.MapError(err)
	}
	return worker, nil
}

// Login authenticates a case worker and returns a role-bearing token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.CaseWorker, string, time.Time, error) {
	worker, err := s.workers.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if !worker.Active {
		return nil, "", time.Time{}, apperrors.NewForbidden("worker inactive")
	}
	if err := auth.ComparePassword(worker.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	token, exp, err := s.tokenMgr.GenerateToken(worker.ID, worker.Role)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return worker, token, exp, nil
}

// ChangePassword verifies the current password and stores a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, workerID, current, next string) error {
	worker, err := s.workers.GetByID(ctx, workerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("case worker", map[string]any{"worker_id": workerID})
		}
		return apperrors.MapError(err)
	}
	if err := auth.ComparePassword(worker.PasswordHash, current); err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}
	hash, err := auth.HashPassword(next, s.bcryptCost)
	if err != nil {
		return apperrors.MapError(err)
	}
	worker.PasswordHash = hash
	if err := s.workers.Update(ctx, worker); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}
