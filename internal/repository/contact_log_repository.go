package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/crisis-followup-service/internal/domain"
)

// ContactLogRepository persists the audit trail of contact attempts.
type ContactLogRepository interface {
	Create(ctx context.Context, log *domain.ContactLog) error
	ListByEvent(ctx context.Context, eventID string, limit, offset int) ([]domain.ContactLog, error)
}

type contactLogRepository struct {
	pool *pgxpool.Pool
}

// NewContactLogRepository instantiates the repository.
func NewContactLogRepository(pool *pgxpool.Pool) ContactLogRepository {
	return &contactLogRepository{pool: pool}
}

func (r *contactLogRepository) Create(ctx context.Context, log *domain.ContactLog) error {
	const query = `
        INSERT INTO contact_logs (event_id, worker_id, outcome, note)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		log.EventID,
		log.WorkerID,
		log.Outcome,
		log.Note,
	).Scan(&log.ID, &log.CreatedAt)
}

func (r *contactLogRepository) ListByEvent(ctx context.Context, eventID string, limit, offset int) ([]domain.ContactLog, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, event_id, worker_id, outcome, note, created_at
        FROM contact_logs WHERE event_id=$1
        ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, eventID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ContactLog
	for rows.Next() {
		var entry domain.ContactLog
		if err := rows.Scan(
			&entry.ID,
			&entry.EventID,
			&entry.WorkerID,
			&entry.Outcome,
			&entry.Note,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
