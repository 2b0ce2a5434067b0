package service

import (
	"context"
	"fmt"
	"time"

	"github.com/signalkit/signalkit/internal/domain"
	"github.com/signalkit/signalkit/pkg/logger"
)

// DetectionRunSummary aggregates one workspace's detection outcomes
type DetectionRunSummary struct {
	WorkspaceID     string `json:"workspace_id"`
	AccountsScanned int    `json:"accounts_scanned"`
	SignalsDetected int    `json:"signals_detected"`
	Errors          int    `json:"errors"`
}

// DetectionRunner executes the registered detectors over every account of
// every workspace. Accounts within a workspace are processed serially so
// the advisory dedup check observes a consistent history.
type DetectionRunner struct {
	workspaceRepo domain.WorkspaceRepository
	accountRepo   domain.AccountRepository
	signalRepo    domain.SignalRepository
	registry      *Registry
	logger        logger.Logger
}

func NewDetectionRunner(
	workspaceRepo domain.WorkspaceRepository,
	accountRepo domain.AccountRepository,
	signalRepo domain.SignalRepository,
	registry *Registry,
	logger logger.Logger,
) *DetectionRunner {
	return &DetectionRunner{
		workspaceRepo: workspaceRepo,
		accountRepo:   accountRepo,
		signalRepo:    signalRepo,
		registry:      registry,
		logger:        logger,
	}
}

// Run executes a full detection pass. Detector and account level failures
// are counted and logged, never propagated; only framework-level failures
// (workspace enumeration) abort the run.
func (r *DetectionRunner) Run(ctx context.Context) ([]*DetectionRunSummary, error) {
	start := time.Now()

	workspaceIDs, err := r.workspaceRepo.ListWorkspaceIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}

	summaries := make([]*DetectionRunSummary, 0, len(workspaceIDs))
	for _, workspaceID := range workspaceIDs {
		if ctx.Err() != nil {
			break
		}
		summaries = append(summaries, r.runWorkspace(ctx, workspaceID))
	}

	r.logger.WithFields(map[string]interface{}{
		"workspaces":  len(summaries),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("Detection run completed")
	return summaries, nil
}

func (r *DetectionRunner) runWorkspace(ctx context.Context, workspaceID string) *DetectionRunSummary {
	summary := &DetectionRunSummary{WorkspaceID: workspaceID}
	wsLogger := r.logger.WithField("workspace_id", workspaceID)

	accounts, err := r.accountRepo.ListAccounts(ctx, workspaceID)
	if err != nil {
		wsLogger.WithField("error", err.Error()).Error("Failed to list accounts")
		summary.Errors++
		return summary
	}

	for _, account := range accounts {
		summary.AccountsScanned++

		users, err := r.accountRepo.ListUsers(ctx, workspaceID, account.ID)
		if err != nil {
			wsLogger.WithFields(map[string]interface{}{
				"account_id": account.ID,
				"error":      err.Error(),
			}).Error("Failed to list account users")
			summary.Errors++
			continue
		}

		dctx := NewDetectorContext(account, users, r.signalRepo)
		for _, detector := range r.registry.Detectors() {
			signal, err := detector.Detect(ctx, dctx)
			if err != nil {
				wsLogger.WithFields(map[string]interface{}{
					"account_id": account.ID,
					"detector":   detector.Type(),
					"error":      err.Error(),
				}).Error("Detector failed")
				summary.Errors++
				continue
			}
			if signal == nil {
				continue
			}

			if err := r.signalRepo.InsertSignal(ctx, signal); err != nil {
				wsLogger.WithFields(map[string]interface{}{
					"account_id":  account.ID,
					"signal_type": signal.Type,
					"error":       err.Error(),
				}).Error("Failed to insert signal")
				summary.Errors++
				continue
			}
			summary.SignalsDetected++
		}
	}

	return summary
}
