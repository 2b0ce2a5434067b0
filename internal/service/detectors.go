package service

import (
	"context"
	"fmt"
	"time"

	"github.com/signalkit/signalkit/internal/domain"
)

const (
	// usageSpikeThreshold is the minimum week-over-week event growth rate
	usageSpikeThreshold = 0.5

	// trialEndingDays is how close to trial expiry an account must be
	trialEndingDays = 3

	// inactivityDays is how long an account must be silent
	inactivityDays = 14
)

// UsageSpikeDetector fires when an account's weekly event volume grew by at
// least 50% over the previous week.
type UsageSpikeDetector struct {
	lookbackDays int
}

func NewUsageSpikeDetector(lookbackDays int) *UsageSpikeDetector {
	return &UsageSpikeDetector{lookbackDays: lookbackDays}
}

func (d *UsageSpikeDetector) Type() string {
	return domain.SignalTypeUsageSpike
}

func (d *UsageSpikeDetector) Detect(ctx context.Context, dctx *DetectorContext) (*domain.DetectedSignal, error) {
	account := dctx.Account
	if account.CurrWeekEvents == 0 {
		return nil, nil
	}

	growth := CalculatePercentageChange(float64(account.PrevWeekEvents), float64(account.CurrWeekEvents))
	if growth < usageSpikeThreshold {
		return nil, nil
	}

	exists, err := dctx.SignalExists(ctx, d.Type(), d.lookbackDays)
	if err != nil {
		return nil, fmt.Errorf("failed to check signal history: %w", err)
	}
	if exists {
		return nil, nil
	}

	return NewDetectedSignal(account.ID, account.WorkspaceID, d.Type(), &growth, domain.JSONMap{
		"prev_week_events": account.PrevWeekEvents,
		"curr_week_events": account.CurrWeekEvents,
		"growth_rate":      growth,
	}), nil
}

// TrialEndingDetector fires when an account's trial expires within the next
// three days.
type TrialEndingDetector struct {
	lookbackDays int
}

func NewTrialEndingDetector(lookbackDays int) *TrialEndingDetector {
	return &TrialEndingDetector{lookbackDays: lookbackDays}
}

func (d *TrialEndingDetector) Type() string {
	return domain.SignalTypeTrialEnding
}

func (d *TrialEndingDetector) Detect(ctx context.Context, dctx *DetectorContext) (*domain.DetectedSignal, error) {
	account := dctx.Account
	if account.TrialEndsAt == nil {
		return nil, nil
	}

	remaining := time.Until(*account.TrialEndsAt)
	if remaining < 0 {
		return nil, nil
	}
	daysRemaining := remaining.Hours() / 24
	if daysRemaining > trialEndingDays {
		return nil, nil
	}

	exists, err := dctx.SignalExists(ctx, d.Type(), d.lookbackDays)
	if err != nil {
		return nil, fmt.Errorf("failed to check signal history: %w", err)
	}
	if exists {
		return nil, nil
	}

	return NewDetectedSignal(account.ID, account.WorkspaceID, d.Type(), &daysRemaining, domain.JSONMap{
		"trial_ends_at":  account.TrialEndsAt.Format(time.RFC3339),
		"days_remaining": daysRemaining,
	}), nil
}

// DirectorSignupDetector fires when the account's newest user carries a
// director-level title.
type DirectorSignupDetector struct {
	lookbackDays int
}

func NewDirectorSignupDetector(lookbackDays int) *DirectorSignupDetector {
	return &DirectorSignupDetector{lookbackDays: lookbackDays}
}

func (d *DirectorSignupDetector) Type() string {
	return domain.SignalTypeDirectorSignup
}

func (d *DirectorSignupDetector) Detect(ctx context.Context, dctx *DetectorContext) (*domain.DetectedSignal, error) {
	if len(dctx.Users) == 0 {
		return nil, nil
	}

	// Users are ordered by creation time, the newest is last
	newest := dctx.Users[len(dctx.Users)-1]
	if !IsDirectorLevel(newest.Title) {
		return nil, nil
	}

	exists, err := dctx.SignalExists(ctx, d.Type(), d.lookbackDays)
	if err != nil {
		return nil, fmt.Errorf("failed to check signal history: %w", err)
	}
	if exists {
		return nil, nil
	}

	return NewDetectedSignal(dctx.Account.ID, dctx.Account.WorkspaceID, d.Type(), nil, domain.JSONMap{
		"user_id": newest.ID,
		"email":   newest.Email,
		"title":   newest.Title,
	}), nil
}

// InactivityDetector fires when an account that was active before has gone
// silent for two weeks or more.
type InactivityDetector struct {
	lookbackDays int
}

func NewInactivityDetector(lookbackDays int) *InactivityDetector {
	return &InactivityDetector{lookbackDays: lookbackDays}
}

func (d *InactivityDetector) Type() string {
	return domain.SignalTypeInactivity
}

func (d *InactivityDetector) Detect(ctx context.Context, dctx *DetectorContext) (*domain.DetectedSignal, error) {
	account := dctx.Account
	if account.LastActiveAt == nil {
		return nil, nil
	}

	daysInactive := time.Since(*account.LastActiveAt).Hours() / 24
	if daysInactive < inactivityDays {
		return nil, nil
	}

	exists, err := dctx.SignalExists(ctx, d.Type(), d.lookbackDays)
	if err != nil {
		return nil, fmt.Errorf("failed to check signal history: %w", err)
	}
	if exists {
		return nil, nil
	}

	return NewDetectedSignal(account.ID, account.WorkspaceID, d.Type(), &daysInactive, domain.JSONMap{
		"last_active_at": account.LastActiveAt.Format(time.RFC3339),
		"days_inactive":  daysInactive,
	}), nil
}

// DefaultRegistry returns the built-in detector set, all sharing one dedup
// lookback window.
func DefaultRegistry(lookbackDays int) *Registry {
	return NewRegistry(
		NewUsageSpikeDetector(lookbackDays),
		NewTrialEndingDetector(lookbackDays),
		NewDirectorSignupDetector(lookbackDays),
		NewInactivityDetector(lookbackDays),
	)
}
