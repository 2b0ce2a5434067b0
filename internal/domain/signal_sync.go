package domain

import (
	"context"
	"time"

	"github.com/asaskevich/govalidator"
)

//go:generate mockgen -destination mocks/mock_signal_sync_repository.go -package mocks github.com/signalkit/signalkit/internal/domain SignalSyncRepository

// ConditionOperator is the comparison applied to the per-actor event count
type ConditionOperator string

const (
	ConditionOperatorGTE ConditionOperator = "gte"
	ConditionOperatorGT  ConditionOperator = "gt"
	ConditionOperatorEQ  ConditionOperator = "eq"
	ConditionOperatorLT  ConditionOperator = "lt"
	ConditionOperatorLTE ConditionOperator = "lte"
)

var conditionOperators = []string{"gte", "gt", "eq", "lt", "lte"}

// TargetType identifies the kind of external destination a config syncs to
type TargetType string

const (
	TargetTypeCohort  TargetType = "cohort"
	TargetTypeCRMList TargetType = "crm_list"
)

// Per-target sync outcome statuses surfaced in run summaries
const (
	SyncStatusSynced  = "synced"
	SyncStatusSkipped = "skipped"
	SyncStatusError   = "error"
)

// SignalSyncConfig holds the match condition for one signal and the set of
// external targets kept consistent with it. Created through workspace
// configuration; this subsystem only mutates timestamps and target errors.
type SignalSyncConfig struct {
	ID                string            `json:"id"`
	WorkspaceID       string            `json:"workspace_id"`
	SignalID          string            `json:"signal_id"`
	Name              string            `json:"name"`
	EventNames        []string          `json:"event_names"`
	ConditionOperator ConditionOperator `json:"condition_operator"`
	ConditionValue    float64           `json:"condition_value"`
	TimeWindowDays    int               `json:"time_window_days"`
	LastSyncedAt      *time.Time        `json:"last_synced_at,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`

	// Populated by ListConfigsWithAutoUpdateTargets
	Targets []*SignalSyncTarget `json:"targets,omitempty"`
}

// Validate checks the match condition fields
func (c *SignalSyncConfig) Validate() error {
	if len(c.EventNames) == 0 {
		return NewValidationError("sync config requires at least one event name")
	}
	if !govalidator.IsIn(string(c.ConditionOperator), conditionOperators...) {
		return NewValidationError("invalid condition operator: " + string(c.ConditionOperator))
	}
	if c.TimeWindowDays < 1 {
		return NewValidationError("time window must be at least 1 day")
	}
	return nil
}

// SignalSyncTarget is one external destination of a config. Only targets
// with AutoUpdate participate in the scheduled reconciliation; others are
// sync-once/manual.
type SignalSyncTarget struct {
	ID           string     `json:"id"`
	ConfigID     string     `json:"config_id"`
	WorkspaceID  string     `json:"workspace_id"`
	TargetType   TargetType `json:"target_type"`
	ExternalID   string     `json:"external_id"`
	AutoUpdate   bool       `json:"auto_update"`
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
	SyncError    *string    `json:"sync_error,omitempty"`
}

// SyncRunSummary aggregates per-config outcomes of one orchestrator run.
// Individual config or target failures never fail the run itself.
type SyncRunSummary struct {
	RunID       string    `json:"run_id"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	Workspaces  int       `json:"workspaces"`
	Configs     int       `json:"configs"`
	Synced      int       `json:"synced"`
	Skipped     int       `json:"skipped"`
	Errors      int       `json:"errors"`
}

// SignalSyncRepository defines persistence for sync configs and targets
type SignalSyncRepository interface {
	// ListConfigsWithAutoUpdateTargets returns configs joined to at least
	// one auto-update target, with those targets populated
	ListConfigsWithAutoUpdateTargets(ctx context.Context, workspaceID string) ([]*SignalSyncConfig, error)

	// ListConfigs returns every config with all of its targets, for the
	// operator status surface
	ListConfigs(ctx context.Context, workspaceID string) ([]*SignalSyncConfig, error)

	// RecordTargetSuccess refreshes last_synced_at and clears sync_error
	RecordTargetSuccess(ctx context.Context, workspaceID, targetID string, syncedAt time.Time) error

	// RecordTargetError writes sync_error, leaving last_synced_at unchanged
	RecordTargetError(ctx context.Context, workspaceID, targetID, message string) error

	// TouchConfigSyncedAt records that a reconciliation attempt occurred,
	// regardless of individual target outcomes
	TouchConfigSyncedAt(ctx context.Context, workspaceID, configID string, syncedAt time.Time) error
}
