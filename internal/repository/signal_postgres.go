package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/signalkit/signalkit/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type signalRepository struct {
	db *sql.DB
}

// NewSignalRepository creates a PostgreSQL-backed signal repository
func NewSignalRepository(db *sql.DB) domain.SignalRepository {
	return &signalRepository{db: db}
}

func (r *signalRepository) InsertSignal(ctx context.Context, signal *domain.DetectedSignal) error {
	if signal.CreatedAt.IsZero() {
		signal.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO signals (id, workspace_id, account_id, type, value, details, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		signal.ID,
		signal.WorkspaceID,
		signal.AccountID,
		signal.Type,
		signal.Value,
		signal.Details,
		signal.Source,
		signal.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert signal: %w", err)
	}
	return nil
}

// signalWindowQuery builds the base builder for signals of one type on one
// account, restricted to the lookback window when lookbackDays > 0.
func signalWindowQuery(workspaceID, accountID, signalType string, lookbackDays int) sq.SelectBuilder {
	builder := psql.Select("COUNT(*)").
		From("signals").
		Where(sq.Eq{"workspace_id": workspaceID}).
		Where(sq.Eq{"account_id": accountID}).
		Where(sq.Eq{"type": signalType})
	if lookbackDays > 0 {
		cutoff := time.Now().UTC().AddDate(0, 0, -lookbackDays)
		builder = builder.Where(sq.GtOrEq{"created_at": cutoff})
	}
	return builder
}

func (r *signalRepository) SignalExists(ctx context.Context, workspaceID, accountID, signalType string, lookbackDays int) (bool, error) {
	// A zero lookback disables dedup entirely
	if lookbackDays <= 0 {
		return false, nil
	}

	count, err := r.CountSignals(ctx, workspaceID, accountID, signalType, lookbackDays)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *signalRepository) CountSignals(ctx context.Context, workspaceID, accountID, signalType string, lookbackDays int) (int, error) {
	query, args, err := signalWindowQuery(workspaceID, accountID, signalType, lookbackDays).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count signals: %w", err)
	}
	return count, nil
}

func (r *signalRepository) GetLatestSignal(ctx context.Context, workspaceID, accountID, signalType string) (*domain.DetectedSignal, error) {
	query, args, err := psql.Select("id", "workspace_id", "account_id", "type", "value", "details", "source", "created_at").
		From("signals").
		Where(sq.Eq{"workspace_id": workspaceID}).
		Where(sq.Eq{"account_id": accountID}).
		Where(sq.Eq{"type": signalType}).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build latest signal query: %w", err)
	}

	var signal domain.DetectedSignal
	var value sql.NullFloat64

	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&signal.ID,
		&signal.WorkspaceID,
		&signal.AccountID,
		&signal.Type,
		&value,
		&signal.Details,
		&signal.Source,
		&signal.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, &domain.ErrNotFound{Entity: "signal", ID: signalType}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest signal: %w", err)
	}

	if value.Valid {
		signal.Value = &value.Float64
	}
	return &signal, nil
}

func (r *signalRepository) UpsertAggregate(ctx context.Context, aggregate *domain.SignalAggregate) error {
	if aggregate.LastCalculatedAt.IsZero() {
		aggregate.LastCalculatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO signal_aggregates (
			workspace_id, signal_type, total_count, count_7d, count_30d,
			avg_lift, avg_conversion_rate, confidence_score, sample_size,
			last_calculated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (workspace_id, signal_type) DO UPDATE SET
			total_count = EXCLUDED.total_count,
			count_7d = EXCLUDED.count_7d,
			count_30d = EXCLUDED.count_30d,
			avg_lift = EXCLUDED.avg_lift,
			avg_conversion_rate = EXCLUDED.avg_conversion_rate,
			confidence_score = EXCLUDED.confidence_score,
			sample_size = EXCLUDED.sample_size,
			last_calculated_at = EXCLUDED.last_calculated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		aggregate.WorkspaceID,
		aggregate.SignalType,
		aggregate.TotalCount,
		aggregate.Count7d,
		aggregate.Count30d,
		aggregate.AvgLift,
		aggregate.AvgConversionRate,
		aggregate.ConfidenceScore,
		aggregate.SampleSize,
		aggregate.LastCalculatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert aggregate: %w", err)
	}
	return nil
}

func (r *signalRepository) GetAggregate(ctx context.Context, workspaceID, signalType string) (*domain.SignalAggregate, error) {
	query := `
		SELECT workspace_id, signal_type, total_count, count_7d, count_30d,
		       avg_lift, avg_conversion_rate, confidence_score, sample_size,
		       last_calculated_at
		FROM signal_aggregates
		WHERE workspace_id = $1 AND signal_type = $2
	`

	var aggregate domain.SignalAggregate
	var avgLift, avgConversionRate, confidenceScore sql.NullFloat64

	err := r.db.QueryRowContext(ctx, query, workspaceID, signalType).Scan(
		&aggregate.WorkspaceID,
		&aggregate.SignalType,
		&aggregate.TotalCount,
		&aggregate.Count7d,
		&aggregate.Count30d,
		&avgLift,
		&avgConversionRate,
		&confidenceScore,
		&aggregate.SampleSize,
		&aggregate.LastCalculatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, &domain.ErrNotFound{Entity: "signal_aggregate", ID: signalType}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get aggregate: %w", err)
	}

	if avgLift.Valid {
		aggregate.AvgLift = &avgLift.Float64
	}
	if avgConversionRate.Valid {
		aggregate.AvgConversionRate = &avgConversionRate.Float64
	}
	if confidenceScore.Valid {
		aggregate.ConfidenceScore = &confidenceScore.Float64
	}
	return &aggregate, nil
}
