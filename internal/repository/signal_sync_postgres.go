package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/signalkit/signalkit/internal/domain"
)

type signalSyncRepository struct {
	db *sql.DB
}

// NewSignalSyncRepository creates a PostgreSQL-backed sync config repository
func NewSignalSyncRepository(db *sql.DB) domain.SignalSyncRepository {
	return &signalSyncRepository{db: db}
}

func (r *signalSyncRepository) ListConfigsWithAutoUpdateTargets(ctx context.Context, workspaceID string) ([]*domain.SignalSyncConfig, error) {
	query := `
		SELECT id, workspace_id, signal_id, name, event_names,
		       condition_operator, condition_value, time_window_days,
		       last_synced_at, created_at, updated_at
		FROM signal_sync_configs c
		WHERE workspace_id = $1
		  AND EXISTS (
			SELECT 1 FROM signal_sync_targets t
			WHERE t.config_id = c.id AND t.auto_update = TRUE
		  )
		ORDER BY created_at ASC
	`

	configs, err := r.queryConfigs(ctx, query, workspaceID)
	if err != nil {
		return nil, err
	}
	if err := r.attachTargets(ctx, workspaceID, configs, true); err != nil {
		return nil, err
	}
	return configs, nil
}

func (r *signalSyncRepository) ListConfigs(ctx context.Context, workspaceID string) ([]*domain.SignalSyncConfig, error) {
	query := `
		SELECT id, workspace_id, signal_id, name, event_names,
		       condition_operator, condition_value, time_window_days,
		       last_synced_at, created_at, updated_at
		FROM signal_sync_configs
		WHERE workspace_id = $1
		ORDER BY created_at ASC
	`

	configs, err := r.queryConfigs(ctx, query, workspaceID)
	if err != nil {
		return nil, err
	}
	if err := r.attachTargets(ctx, workspaceID, configs, false); err != nil {
		return nil, err
	}
	return configs, nil
}

func (r *signalSyncRepository) RecordTargetSuccess(ctx context.Context, workspaceID, targetID string, syncedAt time.Time) error {
	query := `
		UPDATE signal_sync_targets
		SET last_synced_at = $1, sync_error = NULL
		WHERE workspace_id = $2 AND id = $3
	`

	result, err := r.db.ExecContext(ctx, query, syncedAt, workspaceID, targetID)
	if err != nil {
		return fmt.Errorf("failed to record target success: %w", err)
	}
	return requireRowAffected(result, "sync_target", targetID)
}

func (r *signalSyncRepository) RecordTargetError(ctx context.Context, workspaceID, targetID, message string) error {
	query := `
		UPDATE signal_sync_targets
		SET sync_error = $1
		WHERE workspace_id = $2 AND id = $3
	`

	result, err := r.db.ExecContext(ctx, query, message, workspaceID, targetID)
	if err != nil {
		return fmt.Errorf("failed to record target error: %w", err)
	}
	return requireRowAffected(result, "sync_target", targetID)
}

func (r *signalSyncRepository) TouchConfigSyncedAt(ctx context.Context, workspaceID, configID string, syncedAt time.Time) error {
	query := `
		UPDATE signal_sync_configs
		SET last_synced_at = $1, updated_at = $1
		WHERE workspace_id = $2 AND id = $3
	`

	result, err := r.db.ExecContext(ctx, query, syncedAt, workspaceID, configID)
	if err != nil {
		return fmt.Errorf("failed to touch config synced_at: %w", err)
	}
	return requireRowAffected(result, "sync_config", configID)
}

func (r *signalSyncRepository) queryConfigs(ctx context.Context, query string, workspaceID string) ([]*domain.SignalSyncConfig, error) {
	rows, err := r.db.QueryContext(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sync configs: %w", err)
	}
	defer rows.Close()

	var configs []*domain.SignalSyncConfig
	for rows.Next() {
		var config domain.SignalSyncConfig
		var eventNamesJSON []byte
		var lastSyncedAt sql.NullTime

		if err := rows.Scan(
			&config.ID,
			&config.WorkspaceID,
			&config.SignalID,
			&config.Name,
			&eventNamesJSON,
			&config.ConditionOperator,
			&config.ConditionValue,
			&config.TimeWindowDays,
			&lastSyncedAt,
			&config.CreatedAt,
			&config.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sync config: %w", err)
		}

		if err := json.Unmarshal(eventNamesJSON, &config.EventNames); err != nil {
			return nil, fmt.Errorf("failed to unmarshal event names: %w", err)
		}
		if lastSyncedAt.Valid {
			config.LastSyncedAt = &lastSyncedAt.Time
		}
		configs = append(configs, &config)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sync configs: %w", err)
	}
	return configs, nil
}

// attachTargets loads the workspace's targets in one query and distributes
// them onto the given configs.
func (r *signalSyncRepository) attachTargets(ctx context.Context, workspaceID string, configs []*domain.SignalSyncConfig, autoUpdateOnly bool) error {
	if len(configs) == 0 {
		return nil
	}

	query := `
		SELECT id, config_id, workspace_id, target_type, external_id,
		       auto_update, last_synced_at, sync_error
		FROM signal_sync_targets
		WHERE workspace_id = $1
	`
	if autoUpdateOnly {
		query += ` AND auto_update = TRUE`
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to list sync targets: %w", err)
	}
	defer rows.Close()

	byConfig := make(map[string][]*domain.SignalSyncTarget)
	for rows.Next() {
		var target domain.SignalSyncTarget
		var lastSyncedAt sql.NullTime
		var syncError sql.NullString

		if err := rows.Scan(
			&target.ID,
			&target.ConfigID,
			&target.WorkspaceID,
			&target.TargetType,
			&target.ExternalID,
			&target.AutoUpdate,
			&lastSyncedAt,
			&syncError,
		); err != nil {
			return fmt.Errorf("failed to scan sync target: %w", err)
		}

		if lastSyncedAt.Valid {
			target.LastSyncedAt = &lastSyncedAt.Time
		}
		if syncError.Valid {
			target.SyncError = &syncError.String
		}
		byConfig[target.ConfigID] = append(byConfig[target.ConfigID], &target)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate sync targets: %w", err)
	}

	for _, config := range configs {
		config.Targets = byConfig[config.ID]
	}
	return nil
}

func requireRowAffected(result sql.Result, entity, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return &domain.ErrNotFound{Entity: entity, ID: id}
	}
	return nil
}
