package domain

import (
	"context"
	"time"
)

//go:generate mockgen -destination mocks/mock_signal_repository.go -package mocks github.com/signalkit/signalkit/internal/domain SignalRepository

// SignalSourceHeuristics marks signals emitted by the heuristic detectors
const SignalSourceHeuristics = "heuristics"

// Signal types emitted by the built-in detectors
const (
	SignalTypeUsageSpike     = "usage_spike"
	SignalTypeTrialEnding    = "trial_ending"
	SignalTypeDirectorSignup = "director_signup"
	SignalTypeInactivity     = "inactivity"
)

// DetectedSignal is a typed, timestamped event-derived fact about an account.
// Written once, immutable thereafter. At most one signal of a given type may
// be recorded for an account within the detector's lookback window; the
// check-then-insert sequence is advisory and relies on detection runs being
// serialized per workspace.
type DetectedSignal struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"account_id"`
	WorkspaceID string    `json:"workspace_id"`
	Type        string    `json:"type"`
	Value       *float64  `json:"value,omitempty"`
	Details     JSONMap   `json:"details"`
	Source      string    `json:"source"`
	CreatedAt   time.Time `json:"created_at"`
}

// SignalAggregate holds the statistical rollup for one (workspace, signal
// type) pair. Upserted with last-write-wins semantics, never deleted.
type SignalAggregate struct {
	WorkspaceID       string    `json:"workspace_id"`
	SignalType        string    `json:"signal_type"`
	TotalCount        int64     `json:"total_count"`
	Count7d           int64     `json:"count_7d"`
	Count30d          int64     `json:"count_30d"`
	AvgLift           *float64  `json:"avg_lift,omitempty"`
	AvgConversionRate *float64  `json:"avg_conversion_rate,omitempty"`
	ConfidenceScore   *float64  `json:"confidence_score,omitempty"`
	SampleSize        int       `json:"sample_size"`
	LastCalculatedAt  time.Time `json:"last_calculated_at"`
}

// SignalRepository defines persistence for raw signals and aggregates
type SignalRepository interface {
	// InsertSignal records a new detected signal
	InsertSignal(ctx context.Context, signal *DetectedSignal) error

	// SignalExists reports whether any signal of the given type exists for
	// the account with a timestamp >= now - lookbackDays. A lookback of 0
	// always reports false (no dedup).
	SignalExists(ctx context.Context, workspaceID, accountID, signalType string, lookbackDays int) (bool, error)

	// CountSignals counts signals of the given type within the lookback window
	CountSignals(ctx context.Context, workspaceID, accountID, signalType string, lookbackDays int) (int, error)

	// GetLatestSignal returns the most recent signal of the given type,
	// or ErrNotFound
	GetLatestSignal(ctx context.Context, workspaceID, accountID, signalType string) (*DetectedSignal, error)

	// UpsertAggregate writes the aggregate row keyed by (workspace_id,
	// signal_type), overwriting any previous values
	UpsertAggregate(ctx context.Context, aggregate *SignalAggregate) error

	// GetAggregate retrieves the aggregate row, or ErrNotFound
	GetAggregate(ctx context.Context, workspaceID, signalType string) (*SignalAggregate, error)
}
