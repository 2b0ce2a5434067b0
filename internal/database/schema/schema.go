// Package schema holds the DDL for the system database. Tables are created
// idempotently at startup; there is no migration framework, columns are only
// ever added.
package schema

// TableDefinitions contains the CREATE TABLE statements executed in order
// at startup.
var TableDefinitions = []string{
	`CREATE TABLE IF NOT EXISTS workspaces (
		id VARCHAR(32) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		settings JSONB NOT NULL DEFAULT '{}',
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS integrations (
		id VARCHAR(36) PRIMARY KEY,
		workspace_id VARCHAR(32) NOT NULL REFERENCES workspaces(id),
		kind VARCHAR(32) NOT NULL,
		name VARCHAR(255) NOT NULL,
		credentials JSONB NOT NULL DEFAULT '{}',
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (workspace_id, kind)
	)`,

	`CREATE TABLE IF NOT EXISTS accounts (
		id VARCHAR(255) NOT NULL,
		workspace_id VARCHAR(32) NOT NULL REFERENCES workspaces(id),
		name VARCHAR(255) NOT NULL DEFAULT '',
		plan VARCHAR(64) NOT NULL DEFAULT '',
		size VARCHAR(64) NOT NULL DEFAULT '',
		domain VARCHAR(255) NOT NULL DEFAULT '',
		properties JSONB NOT NULL DEFAULT '{}',
		trial_ends_at TIMESTAMP WITH TIME ZONE,
		last_active_at TIMESTAMP WITH TIME ZONE,
		prev_week_events INTEGER NOT NULL DEFAULT 0,
		curr_week_events INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (workspace_id, id)
	)`,

	`CREATE TABLE IF NOT EXISTS account_users (
		id VARCHAR(255) NOT NULL,
		workspace_id VARCHAR(32) NOT NULL,
		account_id VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL DEFAULT '',
		title VARCHAR(255) NOT NULL DEFAULT '',
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (workspace_id, id),
		FOREIGN KEY (workspace_id, account_id) REFERENCES accounts(workspace_id, id)
	)`,

	`CREATE TABLE IF NOT EXISTS signals (
		id VARCHAR(36) PRIMARY KEY,
		workspace_id VARCHAR(32) NOT NULL,
		account_id VARCHAR(255) NOT NULL,
		type VARCHAR(64) NOT NULL,
		value DOUBLE PRECISION,
		details JSONB NOT NULL DEFAULT '{}',
		source VARCHAR(32) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (workspace_id, account_id) REFERENCES accounts(workspace_id, id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_signals_dedup
		ON signals(workspace_id, account_id, type, created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS signal_aggregates (
		workspace_id VARCHAR(32) NOT NULL,
		signal_type VARCHAR(64) NOT NULL,
		total_count BIGINT NOT NULL DEFAULT 0,
		count_7d BIGINT NOT NULL DEFAULT 0,
		count_30d BIGINT NOT NULL DEFAULT 0,
		avg_lift DOUBLE PRECISION,
		avg_conversion_rate DOUBLE PRECISION,
		confidence_score DOUBLE PRECISION,
		sample_size INTEGER NOT NULL DEFAULT 0,
		last_calculated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (workspace_id, signal_type)
	)`,

	`CREATE TABLE IF NOT EXISTS signal_sync_configs (
		id VARCHAR(36) PRIMARY KEY,
		workspace_id VARCHAR(32) NOT NULL REFERENCES workspaces(id),
		signal_id VARCHAR(64) NOT NULL,
		name VARCHAR(255) NOT NULL,
		event_names JSONB NOT NULL DEFAULT '[]',
		condition_operator VARCHAR(8) NOT NULL,
		condition_value DOUBLE PRECISION NOT NULL DEFAULT 1,
		time_window_days INTEGER NOT NULL DEFAULT 30,
		last_synced_at TIMESTAMP WITH TIME ZONE,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS signal_sync_targets (
		id VARCHAR(36) PRIMARY KEY,
		config_id VARCHAR(36) NOT NULL REFERENCES signal_sync_configs(id) ON DELETE CASCADE,
		workspace_id VARCHAR(32) NOT NULL,
		target_type VARCHAR(32) NOT NULL,
		external_id VARCHAR(255) NOT NULL,
		auto_update BOOLEAN NOT NULL DEFAULT FALSE,
		last_synced_at TIMESTAMP WITH TIME ZONE,
		sync_error TEXT,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE INDEX IF NOT EXISTS idx_sync_targets_config
		ON signal_sync_targets(config_id)`,
}
