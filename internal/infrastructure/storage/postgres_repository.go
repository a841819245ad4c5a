package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"BauplanChecker/internal/domain"
	"BauplanChecker/internal/ports"
)

// PostgresRepository records completed compliance checks and submitted
// feedback into Postgres for history. The engine never reads local state
// back from it; a nil db turns every call into a no-op.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.CheckAuditRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// SaveCheckResult upserts the latest compliance result for the plan.
func (r *PostgresRepository) SaveCheckResult(ctx context.Context, planID string, result []byte) error {
	if r.db == nil {
		return nil
	}

	query, args, err := r.builder.
		Insert("check_results").
		Columns("plan_id", "result").
		Values(planID, result).
		Suffix("ON CONFLICT (plan_id) DO UPDATE SET result = EXCLUDED.result, checked_at = NOW()").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert check result: %w", err)
	}

	return nil
}

// SaveFeedback appends one feedback entry for the plan.
func (r *PostgresRepository) SaveFeedback(ctx context.Context, planID string, entry domain.FeedbackEntry) error {
	if r.db == nil {
		return nil
	}

	query, args, err := r.builder.
		Insert("plan_feedback").
		Columns("plan_id", "rating", "correct_plan", "comments").
		Values(planID, entry.Rating, entry.CorrectPlan, entry.Comments).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}

	return nil
}

// RecentChecks returns the most recently checked plan IDs, newest first.
func (r *PostgresRepository) RecentChecks(ctx context.Context, limit int) ([]string, error) {
	if r.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	query, args, err := r.builder.
		Select("plan_id").
		From("check_results").
		OrderBy("checked_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recent checks: %w", err)
	}

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return ids, nil
}
