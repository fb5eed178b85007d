package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/crisis-followup-service/internal/domain"
)

// ErrVersionConflict reports a failed optimistic concurrency check: the row
// was updated by someone else between read and write.
var ErrVersionConflict = errors.New("crisis event version conflict")

// CrisisEventFilter captures intake listing parameters.
type CrisisEventFilter struct {
	UserID     *string
	Statuses   []domain.CrisisEventStatus
	RiskLevels []domain.RiskLevel
	Limit      int
	Offset     int
}

// CrisisEventRepository encapsulates crisis event persistence. It implements
// both the engine's read port (FetchAll) and its write port (GetByID/Update).
type CrisisEventRepository interface {
	Create(ctx context.Context, event *domain.CrisisEvent) error
	Update(ctx context.Context, event *domain.CrisisEvent) error
	GetByID(ctx context.Context, id string) (*domain.CrisisEvent, error)
	FetchAll(ctx context.Context) ([]domain.CrisisEvent, error)
	ListWithFilter(ctx context.Context, filter CrisisEventFilter) ([]domain.CrisisEvent, error)
}

type crisisEventRepository struct {
	pool *pgxpool.Pool
}

// NewCrisisEventRepository instantiates the repository.
func NewCrisisEventRepository(pool *pgxpool.Pool) CrisisEventRepository {
	return &crisisEventRepository{pool: pool}
}

const crisisEventColumns = `id, user_id, user_name, risk_level, status, keywords, notes,
               assigned_worker_id, created_at, resolved_at, last_contact_at, updated_at, version`

func (r *crisisEventRepository) Create(ctx context.Context, event *domain.CrisisEvent) error {
	const query = `
        INSERT INTO crisis_events (user_id, user_name, risk_level, status, keywords, notes, assigned_worker_id, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, updated_at, version`
	return r.pool.QueryRow(ctx, query,
		event.UserID,
		event.UserName,
		event.RiskLevel,
		event.Status,
		event.Keywords,
		event.Notes,
		event.AssignedWorkerID,
		event.CreatedAt,
	).Scan(&event.ID, &event.UpdatedAt, &event.Version)
}

// Update persists the event guarded by its version. A stale version returns
// ErrVersionConflict rather than overwriting the newer row.
func (r *crisisEventRepository) Update(ctx context.Context, event *domain.CrisisEvent) error {
	const query = `
        UPDATE crisis_events
        SET risk_level=$1, status=$2, keywords=$3, notes=$4, assigned_worker_id=$5,
            resolved_at=$6, last_contact_at=$7, updated_at=NOW(), version=version+1
        WHERE id=$8 AND version=$9`
	cmd, err := r.pool.Exec(ctx, query,
		event.RiskLevel,
		event.Status,
		event.Keywords,
		event.Notes,
		event.AssignedWorkerID,
		event.ResolvedAt,
		event.LastContactAt,
		event.ID,
		event.Version,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, event.ID); err != nil {
			return err
		}
		return ErrVersionConflict
	}
	event.Version++
	return nil
}

func (r *crisisEventRepository) GetByID(ctx context.Context, id string) (*domain.CrisisEvent, error) {
	query := fmt.Sprintf(`SELECT %s FROM crisis_events WHERE id=$1`, crisisEventColumns)
	var event domain.CrisisEvent
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&event.ID,
		&event.UserID,
		&event.UserName,
		&event.RiskLevel,
		&event.Status,
		&event.Keywords,
		&event.Notes,
		&event.AssignedWorkerID,
		&event.CreatedAt,
		&event.ResolvedAt,
		&event.LastContactAt,
		&event.UpdatedAt,
		&event.Version,
	); err != nil {
		return nil, err
	}
	return &event, nil
}

// FetchAll returns the full event set for queue evaluation. Rows missing
// created_at are included; the engine drops and counts them.
func (r *crisisEventRepository) FetchAll(ctx context.Context) ([]domain.CrisisEvent, error) {
	query := fmt.Sprintf(`SELECT %s FROM crisis_events`, crisisEventColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCrisisEvents(rows)
}

func (r *crisisEventRepository) ListWithFilter(ctx context.Context, filter CrisisEventFilter) ([]domain.CrisisEvent, error) {
	base := fmt.Sprintf(`SELECT %s FROM crisis_events`, crisisEventColumns)
	clauses := []string{"1=1"}
	args := []any{}

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		clauses = append(clauses, fmt.Sprintf("user_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.RiskLevels) > 0 {
		placeholders := make([]string, len(filter.RiskLevels))
		for i, risk := range filter.RiskLevels {
			args = append(args, risk)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("risk_level IN (%s)", strings.Join(placeholders, ",")))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCrisisEvents(rows)
}

func scanCrisisEvents(rows pgx.Rows) ([]domain.CrisisEvent, error) {
	var result []domain.CrisisEvent
	for rows.Next() {
		var event domain.CrisisEvent
		if err := rows.Scan(
			&event.ID,
			&event.UserID,
			&event.UserName,
			&event.RiskLevel,
			&event.Status,
			&event.Keywords,
			&event.Notes,
			&event.AssignedWorkerID,
			&event.CreatedAt,
			&event.ResolvedAt,
			&event.LastContactAt,
			&event.UpdatedAt,
			&event.Version,
		); err != nil {
			return nil, err
		}
		result = append(result, event)
	}
	return result, rows.Err()
}
