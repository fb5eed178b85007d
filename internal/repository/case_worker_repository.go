package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/crisis-followup-service/internal/domain"
)

// CaseWorkerRepository handles persistence for case workers.
type CaseWorkerRepository interface {
	Create(ctx context.Context, worker *domain.CaseWorker) error
	Update(ctx context.Context, worker *domain.CaseWorker) error
	GetByID(ctx context.Context, id string) (*domain.CaseWorker, error)
	GetByEmail(ctx context.Context, email string) (*domain.CaseWorker, error)
	List(ctx context.Context, limit, offset int) ([]domain.CaseWorker, error)
}

type caseWorkerRepository struct {
	pool *pgxpool.Pool
}

// NewCaseWorkerRepository instantiates the repository.
func NewCaseWorkerRepository(pool *pgxpool.Pool) CaseWorkerRepository {
	return &caseWorkerRepository{pool: pool}
}

func (r *caseWorkerRepository) Create(ctx context.Context, worker *domain.CaseWorker) error {
	const query = `
        INSERT INTO case_workers (name, email, password_hash, role, active_flag)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		worker.Name,
		worker.Email,
		worker.PasswordHash,
		worker.Role,
		worker.Active,
	).Scan(&worker.ID, &worker.CreatedAt, &worker.UpdatedAt)
}

func (r *caseWorkerRepository) Update(ctx context.Context, worker *domain.CaseWorker) error {
	const query = `
        UPDATE case_workers
        SET name=$1, email=$2, password_hash=$3, role=$4, active_flag=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		worker.Name,
		worker.Email,
		worker.PasswordHash,
		worker.Role,
		worker.Active,
		worker.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *caseWorkerRepository) GetByID(ctx context.Context, id string) (*domain.CaseWorker, error) {
	const query = `
        SELECT id, name, email, password_hash, role, active_flag, created_at, updated_at
        FROM case_workers WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *caseWorkerRepository) GetByEmail(ctx context.Context, email string) (*domain.CaseWorker, error) {
	const query = `
        SELECT id, name, email, password_hash, role, active_flag, created_at, updated_at
        FROM case_workers WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *caseWorkerRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.CaseWorker, error) {
	var worker domain.CaseWorker
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&worker.ID,
		&worker.Name,
		&worker.Email,
		&worker.PasswordHash,
		&worker.Role,
		&worker.Active,
		&worker.CreatedAt,
		&worker.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &worker, nil
}

func (r *caseWorkerRepository) List(ctx context.Context, limit, offset int) ([]domain.CaseWorker, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, name, email, password_hash, role, active_flag, created_at, updated_at
        FROM case_workers ORDER BY created_at ASC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.CaseWorker
	for rows.Next() {
		var worker domain.CaseWorker
		if err := rows.Scan(
			&worker.ID,
			&worker.Name,
			&worker.Email,
			&worker.PasswordHash,
			&worker.Role,
			&worker.Active,
			&worker.CreatedAt,
			&worker.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, worker)
	}
	return result, rows.Err()
}
