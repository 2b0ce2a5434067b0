package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalkit/signalkit/internal/domain"
	"github.com/signalkit/signalkit/internal/domain/mocks"
)

type orchestratorTestDeps struct {
	workspaceRepo     *mocks.MockWorkspaceRepository
	syncRepo          *mocks.MockSignalSyncRepository
	credentialService *mocks.MockCredentialService
	queryExecutor     *mocks.MockQueryExecutor
	cohortAdapter     *mocks.MockCohortAdapter
	crmAdapter        *mocks.MockCRMAdapter
	orchestrator      *SyncOrchestrator
}

func newOrchestratorTestDeps(t *testing.T) *orchestratorTestDeps {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	deps := &orchestratorTestDeps{
		workspaceRepo:     mocks.NewMockWorkspaceRepository(ctrl),
		syncRepo:          mocks.NewMockSignalSyncRepository(ctrl),
		credentialService: mocks.NewMockCredentialService(ctrl),
		queryExecutor:     mocks.NewMockQueryExecutor(ctrl),
		cohortAdapter:     mocks.NewMockCohortAdapter(ctrl),
		crmAdapter:        mocks.NewMockCRMAdapter(ctrl),
	}
	deps.orchestrator = NewSyncOrchestrator(deps.workspaceRepo, deps.syncRepo,
		deps.credentialService, NewQueryGenerator(), deps.queryExecutor,
		deps.cohortAdapter, deps.crmAdapter, newServiceTestLogger(ctrl),
		time.Minute, 1)
	return deps
}

func testSyncConfig(targets ...*domain.SignalSyncTarget) *domain.SignalSyncConfig {
	return &domain.SignalSyncConfig{
		ID:                "cfg-1",
		WorkspaceID:       "ws-1",
		SignalID:          "usage_spike",
		Name:              "Power users",
		EventNames:        []string{"feature_used"},
		ConditionOperator: domain.ConditionOperatorGTE,
		ConditionValue:    10,
		TimeWindowDays:    30,
		Targets:           targets,
	}
}

func cohortTarget() *domain.SignalSyncTarget {
	return &domain.SignalSyncTarget{
		ID:          "tgt-cohort",
		ConfigID:    "cfg-1",
		WorkspaceID: "ws-1",
		TargetType:  domain.TargetTypeCohort,
		ExternalID:  "123",
		AutoUpdate:  true,
	}
}

func crmTarget() *domain.SignalSyncTarget {
	return &domain.SignalSyncTarget{
		ID:          "tgt-crm",
		ConfigID:    "cfg-1",
		WorkspaceID: "ws-1",
		TargetType:  domain.TargetTypeCRMList,
		ExternalID:  "77",
		AutoUpdate:  true,
	}
}

func matchResult(ids ...string) *domain.QueryResult {
	rows := make([][]interface{}, len(ids))
	for i, id := range ids {
		rows[i] = []interface{}{id}
	}
	return &domain.QueryResult{Columns: []string{"distinct_id"}, Rows: rows}
}

func TestSyncOrchestrator_Run_BothTargetsSynced(t *testing.T) {
	deps := newOrchestratorTestDeps(t)

	deps.workspaceRepo.EXPECT().ListWorkspaceIDs(gomock.Any()).Return([]string{"ws-1"}, nil)
	deps.syncRepo.EXPECT().ListConfigsWithAutoUpdateTargets(gomock.Any(), "ws-1").
		Return([]*domain.SignalSyncConfig{testSyncConfig(cohortTarget(), crmTarget())}, nil)
	deps.credentialService.EXPECT().
		GetCredentials(gomock.Any(), "ws-1", domain.IntegrationKindAnalytics).
		Return(posthogTestCreds(), nil)
	deps.queryExecutor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), matchQueryTimeout).
		Return(matchResult("alice@acme.com", "bob@acme.com"), nil)

	deps.cohortAdapter.EXPECT().
		ReplaceMembership(gomock.Any(), gomock.Any(), "123", []string{"alice@acme.com", "bob@acme.com"}).
		Return(nil)
	deps.credentialService.EXPECT().
		GetCredentials(gomock.Any(), "ws-1", domain.IntegrationKindCRM).
		Return(hubspotTestCreds(), nil)
	deps.crmAdapter.EXPECT().
		UpsertRecords(gomock.Any(), gomock.Any(), []string{"alice@acme.com", "bob@acme.com"}).
		Return([]string{"101", "102"}, nil)
	deps.crmAdapter.EXPECT().
		ReplaceListMembership(gomock.Any(), gomock.Any(), "77", []string{"101", "102"}).
		Return(nil)

	deps.syncRepo.EXPECT().RecordTargetSuccess(gomock.Any(), "ws-1", "tgt-cohort", gomock.Any()).Return(nil)
	deps.syncRepo.EXPECT().RecordTargetSuccess(gomock.Any(), "ws-1", "tgt-crm", gomock.Any()).Return(nil)
	deps.syncRepo.EXPECT().TouchConfigSyncedAt(gomock.Any(), "ws-1", "cfg-1", gomock.Any()).Return(nil)

	summary, err := deps.orchestrator.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Workspaces)
	assert.Equal(t, 1, summary.Configs)
	assert.Equal(t, 1, summary.Synced)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 0, summary.Errors)
	assert.NotEmpty(t, summary.RunID)
}

func TestSyncOrchestrator_Run_SkippedWithoutCredentials(t *testing.T) {
	deps := newOrchestratorTestDeps(t)

	deps.workspaceRepo.EXPECT().ListWorkspaceIDs(gomock.Any()).Return([]string{"ws-1"}, nil)
	deps.syncRepo.EXPECT().ListConfigsWithAutoUpdateTargets(gomock.Any(), "ws-1").
		Return([]*domain.SignalSyncConfig{testSyncConfig(cohortTarget())}, nil)
	deps.credentialService.EXPECT().
		GetCredentials(gomock.Any(), "ws-1", domain.IntegrationKindAnalytics).
		Return(nil, nil)

	summary, err := deps.orchestrator.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 0, summary.Synced)
	assert.Equal(t, 0, summary.Errors)
}

func TestSyncOrchestrator_Run_InactiveCredentialsSkip(t *testing.T) {
	deps := newOrchestratorTestDeps(t)

	creds := posthogTestCreds()
	creds.IsActive = false

	deps.workspaceRepo.EXPECT().ListWorkspaceIDs(gomock.Any()).Return([]string{"ws-1"}, nil)
	deps.syncRepo.EXPECT().ListConfigsWithAutoUpdateTargets(gomock.Any(), "ws-1").
		Return([]*domain.SignalSyncConfig{testSyncConfig(cohortTarget())}, nil)
	deps.credentialService.EXPECT().
		GetCredentials(gomock.Any(), "ws-1", domain.IntegrationKindAnalytics).
		Return(creds, nil)

	summary, err := deps.orchestrator.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Skipped)
}

func TestSyncOrchestrator_Run_PartialTargetFailureIsolated(t *testing.T) {
	deps := newOrchestratorTestDeps(t)

	deps.workspaceRepo.EXPECT().ListWorkspaceIDs(gomock.Any()).Return([]string{"ws-1"}, nil)
	deps.syncRepo.EXPECT().ListConfigsWithAutoUpdateTargets(gomock.Any(), "ws-1").
		Return([]*domain.SignalSyncConfig{testSyncConfig(cohortTarget(), crmTarget())}, nil)
	deps.credentialService.EXPECT().
		GetCredentials(gomock.Any(), "ws-1", domain.IntegrationKindAnalytics).
		Return(posthogTestCreds(), nil)
	deps.queryExecutor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(matchResult("alice@acme.com"), nil)

	// Cohort fails, CRM still reconciles
	deps.cohortAdapter.EXPECT().
		ReplaceMembership(gomock.Any(), gomock.Any(), "123", gomock.Any()).
		Return(errors.New("cohort API returned 500"))
	deps.syncRepo.EXPECT().
		RecordTargetError(gomock.Any(), "ws-1", "tgt-cohort", "cohort API returned 500").
		Return(nil)

	deps.credentialService.EXPECT().
		GetCredentials(gomock.Any(), "ws-1", domain.IntegrationKindCRM).
		Return(hubspotTestCreds(), nil)
	deps.crmAdapter.EXPECT().
		UpsertRecords(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]string{"101"}, nil)
	deps.crmAdapter.EXPECT().
		ReplaceListMembership(gomock.Any(), gomock.Any(), "77", []string{"101"}).
		Return(nil)
	deps.syncRepo.EXPECT().
		RecordTargetSuccess(gomock.Any(), "ws-1", "tgt-crm", gomock.Any()).
		Return(nil)

	// Config timestamp is still touched after mixed outcomes
	deps.syncRepo.EXPECT().TouchConfigSyncedAt(gomock.Any(), "ws-1", "cfg-1", gomock.Any()).Return(nil)

	summary, err := deps.orchestrator.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Errors)
	assert.Equal(t, 0, summary.Synced)
}

func TestSyncOrchestrator_Run_AuthErrorRecordedDistinctly(t *testing.T) {
	deps := newOrchestratorTestDeps(t)

	deps.workspaceRepo.EXPECT().ListWorkspaceIDs(gomock.Any()).Return([]string{"ws-1"}, nil)
	deps.syncRepo.EXPECT().ListConfigsWithAutoUpdateTargets(gomock.Any(), "ws-1").
		Return([]*domain.SignalSyncConfig{testSyncConfig(cohortTarget())}, nil)
	deps.credentialService.EXPECT().
		GetCredentials(gomock.Any(), "ws-1", domain.IntegrationKindAnalytics).
		Return(posthogTestCreds(), nil)
	deps.queryExecutor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(matchResult("u1"), nil)

	deps.cohortAdapter.EXPECT().
		ReplaceMembership(gomock.Any(), gomock.Any(), "123", gomock.Any()).
		Return(&domain.ErrAuthFailed{Service: "posthog", StatusCode: 401})
	deps.syncRepo.EXPECT().
		RecordTargetError(gomock.Any(), "ws-1", "tgt-cohort", gomock.Any()).
		DoAndReturn(func(ctx context.Context, workspaceID, targetID, message string) error {
			assert.Contains(t, message, "authentication failed:")
			return nil
		})
	deps.syncRepo.EXPECT().TouchConfigSyncedAt(gomock.Any(), "ws-1", "cfg-1", gomock.Any()).Return(nil)

	summary, err := deps.orchestrator.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Errors)
}

func TestSyncOrchestrator_Run_MatchQueryFailure(t *testing.T) {
	deps := newOrchestratorTestDeps(t)

	deps.workspaceRepo.EXPECT().ListWorkspaceIDs(gomock.Any()).Return([]string{"ws-1"}, nil)
	deps.syncRepo.EXPECT().ListConfigsWithAutoUpdateTargets(gomock.Any(), "ws-1").
		Return([]*domain.SignalSyncConfig{testSyncConfig(cohortTarget())}, nil)
	deps.credentialService.EXPECT().
		GetCredentials(gomock.Any(), "ws-1", domain.IntegrationKindAnalytics).
		Return(posthogTestCreds(), nil)
	deps.queryExecutor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, &domain.ErrQueryTimeout{Elapsed: matchQueryTimeout})

	// No adapter call, but the attempt timestamp is still written
	deps.syncRepo.EXPECT().TouchConfigSyncedAt(gomock.Any(), "ws-1", "cfg-1", gomock.Any()).Return(nil)

	summary, err := deps.orchestrator.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Errors)
}

func TestSyncOrchestrator_Run_ConfigFailureDoesNotAbortSiblings(t *testing.T) {
	deps := newOrchestratorTestDeps(t)

	failing := testSyncConfig(cohortTarget())
	healthy := testSyncConfig(cohortTarget())
	healthy.ID = "cfg-2"
	healthy.Targets[0].ID = "tgt-2"
	healthy.Targets[0].ConfigID = "cfg-2"

	deps.workspaceRepo.EXPECT().ListWorkspaceIDs(gomock.Any()).Return([]string{"ws-1"}, nil)
	deps.syncRepo.EXPECT().ListConfigsWithAutoUpdateTargets(gomock.Any(), "ws-1").
		Return([]*domain.SignalSyncConfig{failing, healthy}, nil)
	deps.credentialService.EXPECT().
		GetCredentials(gomock.Any(), "ws-1", domain.IntegrationKindAnalytics).
		Return(posthogTestCreds(), nil)

	first := deps.queryExecutor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("analytics unavailable"))
	deps.queryExecutor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(matchResult("u1"), nil).
		After(first)

	deps.cohortAdapter.EXPECT().
		ReplaceMembership(gomock.Any(), gomock.Any(), "123", []string{"u1"}).
		Return(nil)
	deps.syncRepo.EXPECT().RecordTargetSuccess(gomock.Any(), "ws-1", "tgt-2", gomock.Any()).Return(nil)
	deps.syncRepo.EXPECT().TouchConfigSyncedAt(gomock.Any(), "ws-1", "cfg-1", gomock.Any()).Return(nil)
	deps.syncRepo.EXPECT().TouchConfigSyncedAt(gomock.Any(), "ws-1", "cfg-2", gomock.Any()).Return(nil)

	summary, err := deps.orchestrator.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Configs)
	assert.Equal(t, 1, summary.Errors)
	assert.Equal(t, 1, summary.Synced)
}

func TestSyncOrchestrator_Run_CRMNotConfigured(t *testing.T) {
	deps := newOrchestratorTestDeps(t)

	deps.workspaceRepo.EXPECT().ListWorkspaceIDs(gomock.Any()).Return([]string{"ws-1"}, nil)
	deps.syncRepo.EXPECT().ListConfigsWithAutoUpdateTargets(gomock.Any(), "ws-1").
		Return([]*domain.SignalSyncConfig{testSyncConfig(crmTarget())}, nil)
	deps.credentialService.EXPECT().
		GetCredentials(gomock.Any(), "ws-1", domain.IntegrationKindAnalytics).
		Return(posthogTestCreds(), nil)
	deps.queryExecutor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(matchResult("alice@acme.com"), nil)
	deps.credentialService.EXPECT().
		GetCredentials(gomock.Any(), "ws-1", domain.IntegrationKindCRM).
		Return(nil, nil)

	deps.syncRepo.EXPECT().
		RecordTargetError(gomock.Any(), "ws-1", "tgt-crm", gomock.Any()).
		DoAndReturn(func(ctx context.Context, workspaceID, targetID, message string) error {
			assert.Contains(t, message, "not configured")
			return nil
		})
	deps.syncRepo.EXPECT().TouchConfigSyncedAt(gomock.Any(), "ws-1", "cfg-1", gomock.Any()).Return(nil)

	summary, err := deps.orchestrator.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Errors)
}

func TestSyncOrchestrator_Run_WorkspaceListFailureAbortsRun(t *testing.T) {
	deps := newOrchestratorTestDeps(t)
	deps.workspaceRepo.EXPECT().ListWorkspaceIDs(gomock.Any()).Return(nil, errors.New("db down"))

	_, err := deps.orchestrator.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list workspaces")
}

func TestSyncOrchestrator_Status(t *testing.T) {
	deps := newOrchestratorTestDeps(t)

	now := time.Now().UTC()
	message := "cohort API returned 500"
	deps.syncRepo.EXPECT().ListConfigs(gomock.Any(), "ws-1").
		Return([]*domain.SignalSyncConfig{
			{
				ID:           "cfg-1",
				LastSyncedAt: &now,
				Targets: []*domain.SignalSyncTarget{
					{ID: "tgt-1", SyncError: &message},
				},
			},
		}, nil)

	configs, err := deps.orchestrator.Status(context.Background(), "ws-1")
	require.NoError(t, err)
	require.Len(t, configs, 1)
	require.NotNil(t, configs[0].Targets[0].SyncError)
}
