package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/signalkit/signalkit/internal/domain"
)

// seniorityMarkers are matched case-insensitively as substrings of a user's
// title. The list is fixed; tuning it changes which signups count as
// director-level.
var seniorityMarkers = []string{
	"director",
	"vp",
	"vice president",
	"head of",
	"chief",
	"c-level",
	"cto",
	"ceo",
	"cfo",
	"coo",
	"cmo",
	"svp",
	"senior vice president",
	"evp",
	"executive vp",
}

// DetectorContext gives a detector read access to one account, its users
// and the account's signal history.
type DetectorContext struct {
	Account    *domain.AccountData
	Users      []*domain.UserData
	signalRepo domain.SignalRepository
}

func NewDetectorContext(account *domain.AccountData, users []*domain.UserData, signalRepo domain.SignalRepository) *DetectorContext {
	return &DetectorContext{
		Account:    account,
		Users:      users,
		signalRepo: signalRepo,
	}
}

// SignalExists reports whether a signal of the given type was already
// recorded for this account within the lookback window. Detectors call this
// before emitting to keep at most one signal per type per window. A
// lookback of 0 disables the dedup check.
func (c *DetectorContext) SignalExists(ctx context.Context, signalType string, lookbackDays int) (bool, error) {
	return c.signalRepo.SignalExists(ctx, c.Account.WorkspaceID, c.Account.ID, signalType, lookbackDays)
}

// CountSignals counts this account's signals of the given type within the
// lookback window.
func (c *DetectorContext) CountSignals(ctx context.Context, signalType string, lookbackDays int) (int, error) {
	return c.signalRepo.CountSignals(ctx, c.Account.WorkspaceID, c.Account.ID, signalType, lookbackDays)
}

// GetLatestSignal returns this account's most recent signal of the given
// type, or domain.ErrNotFound.
func (c *DetectorContext) GetLatestSignal(ctx context.Context, signalType string) (*domain.DetectedSignal, error) {
	return c.signalRepo.GetLatestSignal(ctx, c.Account.WorkspaceID, c.Account.ID, signalType)
}

// Detector inspects one account and emits zero or one signal. Returning
// (nil, nil) means no signal.
type Detector interface {
	Type() string
	Detect(ctx context.Context, dctx *DetectorContext) (*domain.DetectedSignal, error)
}

// Registry holds detectors in registration order
type Registry struct {
	detectors []Detector
}

func NewRegistry(detectors ...Detector) *Registry {
	return &Registry{detectors: detectors}
}

func (r *Registry) Register(d Detector) {
	r.detectors = append(r.detectors, d)
}

func (r *Registry) Detectors() []Detector {
	return r.detectors
}

// CalculatePercentageChange returns (new-old)/old. A zero baseline returns
// 1.0 for any growth and 0.0 for none; this convention decides detector
// behavior for brand-new accounts and must not change.
func CalculatePercentageChange(oldValue, newValue float64) float64 {
	if oldValue == 0 {
		if newValue > 0 {
			return 1.0
		}
		return 0.0
	}
	return (newValue - oldValue) / oldValue
}

// IsDirectorLevel reports whether a job title carries a seniority marker.
// Empty titles never match.
func IsDirectorLevel(title string) bool {
	if title == "" {
		return false
	}
	lowered := strings.ToLower(title)
	for _, marker := range seniorityMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

// NewDetectedSignal stamps a heuristic signal with an id, source and
// timestamp.
func NewDetectedSignal(accountID, workspaceID, signalType string, value *float64, details domain.JSONMap) *domain.DetectedSignal {
	if details == nil {
		details = domain.JSONMap{}
	}
	return &domain.DetectedSignal{
		ID:          uuid.New().String(),
		AccountID:   accountID,
		WorkspaceID: workspaceID,
		Type:        signalType,
		Value:       value,
		Details:     details,
		Source:      domain.SignalSourceHeuristics,
		CreatedAt:   time.Now().UTC(),
	}
}
