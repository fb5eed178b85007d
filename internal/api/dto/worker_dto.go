package dto

import (
	"time"

	"github.com/spec-kit/crisis-followup-service/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse returns the issued token and worker profile.
type LoginResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	Worker    WorkerResponse `json:"worker"`
}

// CreateWorkerRequest payload (admin only).
type CreateWorkerRequest struct {
	Name     string                `json:"name"`
	Email    string                `json:"email"`
	Password string                `json:"password"`
	Role     domain.CaseWorkerRole `json:"role"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// WorkerResponse represents a case worker profile.
type WorkerResponse struct {
	ID        string                `json:"id"`
	Name      string                `json:"name"`
	Email     string                `json:"email"`
	Role      domain.CaseWorkerRole `json:"role"`
	Active    bool                  `json:"active"`
	CreatedAt time.Time             `json:"created_at"`
}
