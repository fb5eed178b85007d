package domain

import "time"

// CaseWorkerRole enumerates operator roles.
type CaseWorkerRole string

const (
	CaseWorkerRoleWorker CaseWorkerRole = "CASE_WORKER"
	CaseWorkerRoleAdmin  CaseWorkerRole = "ADMIN"
)

// CaseWorker models a clinician or coordinator who works the follow-up queue.
type CaseWorker struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         CaseWorkerRole
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
