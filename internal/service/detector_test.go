package service

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalkit/signalkit/internal/domain"
	"github.com/signalkit/signalkit/internal/domain/mocks"
)

func TestCalculatePercentageChange(t *testing.T) {
	assert.Equal(t, 1.0, CalculatePercentageChange(0, 50))
	assert.Equal(t, 0.0, CalculatePercentageChange(0, 0))
	assert.Equal(t, 0.5, CalculatePercentageChange(100, 150))
	assert.Equal(t, -0.5, CalculatePercentageChange(100, 50))
	assert.Equal(t, 0.0, CalculatePercentageChange(100, 100))
}

func TestIsDirectorLevel(t *testing.T) {
	matching := []string{
		"Director of Engineering",
		"VP Sales",
		"Vice President, Product",
		"Head of Growth",
		"Chief Revenue Officer",
		"CTO",
		"cto & co-founder",
		"SVP Marketing",
		"Executive VP",
	}
	for _, title := range matching {
		assert.True(t, IsDirectorLevel(title), "expected %q to match", title)
	}

	nonMatching := []string{
		"",
		"Senior Engineer",
		"Product Manager",
		"Account Executive",
	}
	for _, title := range nonMatching {
		assert.False(t, IsDirectorLevel(title), "expected %q not to match", title)
	}
}

func TestNewDetectedSignal(t *testing.T) {
	value := 0.5
	signal := NewDetectedSignal("acct-1", "ws-1", domain.SignalTypeUsageSpike, &value, domain.JSONMap{"growth_rate": 0.5})

	assert.NotEmpty(t, signal.ID)
	assert.Equal(t, domain.SignalSourceHeuristics, signal.Source)
	assert.Equal(t, "acct-1", signal.AccountID)
	assert.Equal(t, "ws-1", signal.WorkspaceID)
	assert.False(t, signal.CreatedAt.IsZero())

	// nil details become an empty map, not nil
	bare := NewDetectedSignal("acct-1", "ws-1", domain.SignalTypeInactivity, nil, nil)
	assert.NotNil(t, bare.Details)
}

func TestRegistry_Order(t *testing.T) {
	registry := DefaultRegistry(1)

	types := make([]string, 0, len(registry.Detectors()))
	for _, d := range registry.Detectors() {
		types = append(types, d.Type())
	}
	assert.Equal(t, []string{
		domain.SignalTypeUsageSpike,
		domain.SignalTypeTrialEnding,
		domain.SignalTypeDirectorSignup,
		domain.SignalTypeInactivity,
	}, types)
}

func TestDetectorContext_HistoryLookups(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	account := &domain.AccountData{ID: "acct-1", WorkspaceID: "ws-1"}
	signalRepo := mocks.NewMockSignalRepository(ctrl)
	signalRepo.EXPECT().
		SignalExists(gomock.Any(), "ws-1", "acct-1", "trial_ending", 1).
		Return(true, nil)
	signalRepo.EXPECT().
		CountSignals(gomock.Any(), "ws-1", "acct-1", "trial_ending", 7).
		Return(3, nil)
	signalRepo.EXPECT().
		GetLatestSignal(gomock.Any(), "ws-1", "acct-1", "trial_ending").
		Return(&domain.DetectedSignal{ID: "sig-1"}, nil)

	dctx := NewDetectorContext(account, nil, signalRepo)

	exists, err := dctx.SignalExists(context.Background(), "trial_ending", 1)
	require.NoError(t, err)
	assert.True(t, exists)

	count, err := dctx.CountSignals(context.Background(), "trial_ending", 7)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	latest, err := dctx.GetLatestSignal(context.Background(), "trial_ending")
	require.NoError(t, err)
	assert.Equal(t, "sig-1", latest.ID)
}
