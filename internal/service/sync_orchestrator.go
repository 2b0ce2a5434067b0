package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/signalkit/signalkit/internal/domain"
	"github.com/signalkit/signalkit/pkg/logger"
)

const matchQueryTimeout = 60 * time.Second

// SyncOrchestrator is the scheduled reconciliation job: for every workspace,
// for every sync config with at least one auto-update target, it re-runs the
// match query and replaces each external target's membership with the
// current matching set. Failures are isolated per target; only a
// framework-level failure aborts the run.
type SyncOrchestrator struct {
	workspaceRepo        domain.WorkspaceRepository
	syncRepo             domain.SignalSyncRepository
	credentialService    domain.CredentialService
	queryGen             *QueryGenerator
	queryExecutor        domain.QueryExecutor
	cohortAdapter        domain.CohortAdapter
	crmAdapter           domain.CRMAdapter
	logger               logger.Logger
	runTimeout           time.Duration
	workspaceConcurrency int
}

func NewSyncOrchestrator(
	workspaceRepo domain.WorkspaceRepository,
	syncRepo domain.SignalSyncRepository,
	credentialService domain.CredentialService,
	queryGen *QueryGenerator,
	queryExecutor domain.QueryExecutor,
	cohortAdapter domain.CohortAdapter,
	crmAdapter domain.CRMAdapter,
	logger logger.Logger,
	runTimeout time.Duration,
	workspaceConcurrency int,
) *SyncOrchestrator {
	if runTimeout <= 0 {
		runTimeout = 5 * time.Minute
	}
	if workspaceConcurrency < 1 {
		workspaceConcurrency = 1
	}
	return &SyncOrchestrator{
		workspaceRepo:        workspaceRepo,
		syncRepo:             syncRepo,
		credentialService:    credentialService,
		queryGen:             queryGen,
		queryExecutor:        queryExecutor,
		cohortAdapter:        cohortAdapter,
		crmAdapter:           crmAdapter,
		logger:               logger,
		runTimeout:           runTimeout,
		workspaceConcurrency: workspaceConcurrency,
	}
}

// Run executes one reconciliation pass over all workspaces with bounded
// concurrency. The run ceiling truncates the pass; unattempted configs are
// picked up next run since full-replace reconciliation is idempotent.
func (o *SyncOrchestrator) Run(ctx context.Context) (*domain.SyncRunSummary, error) {
	summary := &domain.SyncRunSummary{
		RunID:     uuid.New().String(),
		StartedAt: time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(ctx, o.runTimeout)
	defer cancel()

	workspaceIDs, err := o.workspaceRepo.ListWorkspaceIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	summary.Workspaces = len(workspaceIDs)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workspaceConcurrency)
	for _, workspaceID := range workspaceIDs {
		workspaceID := workspaceID
		g.Go(func() error {
			configs, synced, skipped, errs := o.syncWorkspace(gctx, workspaceID)
			mu.Lock()
			summary.Configs += configs
			summary.Synced += synced
			summary.Skipped += skipped
			summary.Errors += errs
			mu.Unlock()
			return nil
		})
	}
	// Workers never return errors, partial failures live in the summary
	_ = g.Wait()

	summary.CompletedAt = time.Now().UTC()
	o.logger.WithFields(map[string]interface{}{
		"run_id":     summary.RunID,
		"workspaces": summary.Workspaces,
		"configs":    summary.Configs,
		"synced":     summary.Synced,
		"skipped":    summary.Skipped,
		"errors":     summary.Errors,
	}).Info("Sync run completed")
	return summary, nil
}

// syncWorkspace processes one workspace and returns per-config outcome
// counts (configs seen, synced, skipped, errors).
func (o *SyncOrchestrator) syncWorkspace(ctx context.Context, workspaceID string) (configs, synced, skipped, errs int) {
	wsLogger := o.logger.WithField("workspace_id", workspaceID)

	configList, err := o.syncRepo.ListConfigsWithAutoUpdateTargets(ctx, workspaceID)
	if err != nil {
		wsLogger.WithField("error", err.Error()).Error("Failed to list sync configs")
		return 0, 0, 0, 1
	}
	if len(configList) == 0 {
		return 0, 0, 0, 0
	}
	configs = len(configList)

	analyticsCreds, err := o.credentialService.GetCredentials(ctx, workspaceID, domain.IntegrationKindAnalytics)
	if err != nil {
		wsLogger.WithField("error", err.Error()).Error("Failed to resolve analytics credentials")
		return configs, 0, 0, configs
	}

	for _, config := range configList {
		if ctx.Err() != nil {
			// Run ceiling reached, remaining configs wait for the next run
			return configs, synced, skipped, errs
		}

		switch o.syncConfig(ctx, wsLogger, analyticsCreds, config) {
		case domain.SyncStatusSynced:
			synced++
		case domain.SyncStatusSkipped:
			skipped++
		default:
			errs++
		}
	}
	return configs, synced, skipped, errs
}

// syncConfig reconciles one config and returns its outcome status
func (o *SyncOrchestrator) syncConfig(ctx context.Context, wsLogger logger.Logger, analyticsCreds *domain.IntegrationCredentials, config *domain.SignalSyncConfig) string {
	cfgLogger := wsLogger.WithField("config_id", config.ID)

	// Missing or inactive analytics credentials skip the config, they are a
	// configuration state, not a failure
	if !analyticsCreds.IsUsable() {
		cfgLogger.Debug("Skipping sync config, analytics integration not usable")
		return domain.SyncStatusSkipped
	}

	identifiers, err := o.matchingIdentifiers(ctx, analyticsCreds, config)
	if err != nil {
		cfgLogger.WithField("error", err.Error()).Error("Match query failed")
		o.touchConfig(ctx, cfgLogger, config)
		return domain.SyncStatusError
	}

	targetErrors := 0
	for _, target := range config.Targets {
		if !target.AutoUpdate {
			continue
		}
		if err := o.reconcileTarget(ctx, analyticsCreds, config.WorkspaceID, target, identifiers); err != nil {
			targetErrors++
			cfgLogger.WithFields(map[string]interface{}{
				"target_id":   target.ID,
				"target_type": string(target.TargetType),
				"error":       err.Error(),
			}).Error("Target reconciliation failed")
			o.recordTargetError(ctx, cfgLogger, config.WorkspaceID, target.ID, err)
			continue
		}
		if err := o.syncRepo.RecordTargetSuccess(ctx, config.WorkspaceID, target.ID, time.Now().UTC()); err != nil {
			cfgLogger.WithFields(map[string]interface{}{
				"target_id": target.ID,
				"error":     err.Error(),
			}).Error("Failed to record target success")
		}
	}

	// The config timestamp records that an attempt occurred, regardless of
	// individual target outcomes
	o.touchConfig(ctx, cfgLogger, config)

	if targetErrors > 0 {
		return domain.SyncStatusError
	}
	return domain.SyncStatusSynced
}

// matchingIdentifiers re-runs the config's match query and collects the
// matching actor identifiers from the first result column.
func (o *SyncOrchestrator) matchingIdentifiers(ctx context.Context, creds *domain.IntegrationCredentials, config *domain.SignalSyncConfig) ([]string, error) {
	query, err := o.queryGen.MatchQuery(config.EventNames, config.ConditionOperator, config.ConditionValue, config.TimeWindowDays)
	if err != nil {
		return nil, err
	}

	result, err := o.queryExecutor.Execute(ctx, creds, query, matchQueryTimeout)
	if err != nil {
		return nil, err
	}

	identifiers := make([]string, 0, len(result.Rows))
	for _, row := range result.Rows {
		if len(row) == 0 {
			continue
		}
		if id, ok := row[0].(string); ok && id != "" {
			identifiers = append(identifiers, id)
		}
	}
	return identifiers, nil
}

// reconcileTarget performs the full-replace reconciliation for one target
func (o *SyncOrchestrator) reconcileTarget(ctx context.Context, analyticsCreds *domain.IntegrationCredentials, workspaceID string, target *domain.SignalSyncTarget, identifiers []string) error {
	switch target.TargetType {
	case domain.TargetTypeCohort:
		return o.cohortAdapter.ReplaceMembership(ctx, analyticsCreds, target.ExternalID, identifiers)

	case domain.TargetTypeCRMList:
		crmCreds, err := o.credentialService.GetCredentials(ctx, workspaceID, domain.IntegrationKindCRM)
		if err != nil {
			return fmt.Errorf("failed to resolve CRM credentials: %w", err)
		}
		if !crmCreds.IsUsable() {
			return fmt.Errorf("CRM integration not configured")
		}
		recordIDs, err := o.crmAdapter.UpsertRecords(ctx, crmCreds, identifiers)
		if err != nil {
			return fmt.Errorf("failed to upsert CRM records: %w", err)
		}
		return o.crmAdapter.ReplaceListMembership(ctx, crmCreds, target.ExternalID, recordIDs)

	default:
		return fmt.Errorf("unknown target type: %s", target.TargetType)
	}
}

// recordTargetError writes the failure to the target row. Auth failures are
// prefixed so operators can tell a revoked token from an outage.
func (o *SyncOrchestrator) recordTargetError(ctx context.Context, cfgLogger logger.Logger, workspaceID, targetID string, cause error) {
	message := cause.Error()
	if domain.IsAuthError(cause) {
		message = "authentication failed: " + message
	}
	if err := o.syncRepo.RecordTargetError(ctx, workspaceID, targetID, message); err != nil {
		cfgLogger.WithFields(map[string]interface{}{
			"target_id": targetID,
			"error":     err.Error(),
		}).Error("Failed to record target error")
	}
}

// touchConfig refreshes the config-level attempt timestamp, best-effort
func (o *SyncOrchestrator) touchConfig(ctx context.Context, cfgLogger logger.Logger, config *domain.SignalSyncConfig) {
	if err := o.syncRepo.TouchConfigSyncedAt(ctx, config.WorkspaceID, config.ID, time.Now().UTC()); err != nil {
		cfgLogger.WithField("error", err.Error()).Error("Failed to update config sync timestamp")
	}
}

// Status returns a workspace's sync configs with their targets for the
// operator status surface.
func (o *SyncOrchestrator) Status(ctx context.Context, workspaceID string) ([]*domain.SignalSyncConfig, error) {
	configs, err := o.syncRepo.ListConfigs(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sync status: %w", err)
	}
	return configs, nil
}
