package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/signalkit/signalkit/internal/domain"
	"github.com/signalkit/signalkit/pkg/logger"
)

const (
	matchCountTimeout = 30 * time.Second
	conversionTimeout = 60 * time.Second
)

// MatchCountResult holds event occurrence counts over the standard windows
type MatchCountResult struct {
	TotalCount int64 `json:"total_count"`
	Count7d    int64 `json:"count_7d"`
	Count30d   int64 `json:"count_30d"`
}

// ConversionMetrics holds conversion and lift statistics for one signal
// event against one conversion event.
type ConversionMetrics struct {
	SignalUsers    int64   `json:"signal_users"`
	ConvertedUsers int64   `json:"converted_users"`
	TotalUsers     int64   `json:"total_users"`
	BaselineUsers  int64   `json:"baseline_users"`
	ConversionRate float64 `json:"conversion_rate"`
	BaselineRate   float64 `json:"baseline_rate"`
	Lift           float64 `json:"lift"`
}

// MetricsCalculator computes match counts and conversion/lift statistics by
// running generated queries against the external analytics service and
// upserting the results into signal aggregates.
type MetricsCalculator struct {
	queryGen          *QueryGenerator
	queryExecutor     domain.QueryExecutor
	credentialService domain.CredentialService
	signalRepo        domain.SignalRepository
	syncRepo          domain.SignalSyncRepository
	logger            logger.Logger
}

func NewMetricsCalculator(
	queryGen *QueryGenerator,
	queryExecutor domain.QueryExecutor,
	credentialService domain.CredentialService,
	signalRepo domain.SignalRepository,
	syncRepo domain.SignalSyncRepository,
	logger logger.Logger,
) *MetricsCalculator {
	return &MetricsCalculator{
		queryGen:          queryGen,
		queryExecutor:     queryExecutor,
		credentialService: credentialService,
		signalRepo:        signalRepo,
		syncRepo:          syncRepo,
		logger:            logger,
	}
}

// CalculateMatchCount counts occurrences of an event over the standard
// windows. An empty result set yields zeros, not an error.
func (c *MetricsCalculator) CalculateMatchCount(ctx context.Context, creds *domain.IntegrationCredentials, eventName string) (*MatchCountResult, error) {
	query := c.queryGen.MatchCountQuery(eventName)
	result, err := c.queryExecutor.Execute(ctx, creds, query, matchCountTimeout)
	if err != nil {
		return nil, fmt.Errorf("match count query failed: %w", err)
	}
	if result.IsEmpty() {
		return &MatchCountResult{}, nil
	}

	row := result.Rows[0]
	return &MatchCountResult{
		TotalCount: cellInt64(row, 0),
		Count7d:    cellInt64(row, 1),
		Count30d:   cellInt64(row, 2),
	}, nil
}

// CalculateConversionAndLift runs the conversion and baseline queries
// concurrently and derives rates with the zero-denominator conventions:
// no signal users or no baseline users means a zero rate, a zero baseline
// rate means zero lift.
func (c *MetricsCalculator) CalculateConversionAndLift(ctx context.Context, creds *domain.IntegrationCredentials, signalEvent, conversionEvent string) (*ConversionMetrics, error) {
	var signalResult, baselineResult *domain.QueryResult

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		query := c.queryGen.ConversionQuery(signalEvent, conversionEvent)
		result, err := c.queryExecutor.Execute(gctx, creds, query, conversionTimeout)
		if err != nil {
			return fmt.Errorf("conversion query failed: %w", err)
		}
		signalResult = result
		return nil
	})
	g.Go(func() error {
		query := c.queryGen.BaselineQuery(conversionEvent)
		result, err := c.queryExecutor.Execute(gctx, creds, query, conversionTimeout)
		if err != nil {
			return fmt.Errorf("baseline query failed: %w", err)
		}
		baselineResult = result
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	metrics := &ConversionMetrics{}
	if !signalResult.IsEmpty() {
		metrics.SignalUsers = cellInt64(signalResult.Rows[0], 0)
		metrics.ConvertedUsers = cellInt64(signalResult.Rows[0], 1)
	}
	if !baselineResult.IsEmpty() {
		metrics.TotalUsers = cellInt64(baselineResult.Rows[0], 0)
		metrics.BaselineUsers = cellInt64(baselineResult.Rows[0], 1)
	}

	if metrics.SignalUsers > 0 {
		metrics.ConversionRate = float64(metrics.ConvertedUsers) / float64(metrics.SignalUsers)
	}
	if metrics.TotalUsers > 0 {
		metrics.BaselineRate = float64(metrics.BaselineUsers) / float64(metrics.TotalUsers)
	}
	if metrics.BaselineRate > 0 {
		metrics.Lift = metrics.ConversionRate / metrics.BaselineRate
	}
	return metrics, nil
}

// UpsertSignalMetrics writes the aggregate row for one signal type.
// Conversion-derived fields stay null without conversion data; the
// confidence score is min(sampleSize/100, 1).
func (c *MetricsCalculator) UpsertSignalMetrics(ctx context.Context, workspaceID, signalType string, match *MatchCountResult, conversion *ConversionMetrics) error {
	aggregate := &domain.SignalAggregate{
		WorkspaceID:      workspaceID,
		SignalType:       signalType,
		LastCalculatedAt: time.Now().UTC(),
	}
	if match != nil {
		aggregate.TotalCount = match.TotalCount
		aggregate.Count7d = match.Count7d
		aggregate.Count30d = match.Count30d
	}
	if conversion != nil {
		lift := conversion.Lift
		rate := conversion.ConversionRate
		aggregate.AvgLift = &lift
		aggregate.AvgConversionRate = &rate
		aggregate.SampleSize = int(conversion.SignalUsers)

		confidence := float64(aggregate.SampleSize) / 100
		if confidence > 1 {
			confidence = 1
		}
		aggregate.ConfidenceScore = &confidence
	}

	if err := c.signalRepo.UpsertAggregate(ctx, aggregate); err != nil {
		return fmt.Errorf("failed to upsert signal metrics: %w", err)
	}
	return nil
}

// RecalculateWorkspace refreshes match-count aggregates for every sync
// config in a workspace. Workspaces without usable analytics credentials
// are skipped. Returns the number of refreshed aggregates.
func (c *MetricsCalculator) RecalculateWorkspace(ctx context.Context, workspaceID string) (int, error) {
	creds, err := c.credentialService.GetCredentials(ctx, workspaceID, domain.IntegrationKindAnalytics)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve analytics credentials: %w", err)
	}
	if !creds.IsUsable() {
		c.logger.WithField("workspace_id", workspaceID).Debug("Skipping metrics recalculation, analytics not configured")
		return 0, nil
	}

	configs, err := c.syncRepo.ListConfigs(ctx, workspaceID)
	if err != nil {
		return 0, fmt.Errorf("failed to list sync configs: %w", err)
	}

	refreshed := 0
	for _, config := range configs {
		if len(config.EventNames) == 0 {
			continue
		}
		match, err := c.CalculateMatchCount(ctx, creds, config.EventNames[0])
		if err != nil {
			c.logger.WithFields(map[string]interface{}{
				"workspace_id": workspaceID,
				"config_id":    config.ID,
				"error":        err.Error(),
			}).Error("Failed to calculate match count")
			continue
		}
		if err := c.UpsertSignalMetrics(ctx, workspaceID, config.SignalID, match, nil); err != nil {
			c.logger.WithFields(map[string]interface{}{
				"workspace_id": workspaceID,
				"config_id":    config.ID,
				"error":        err.Error(),
			}).Error("Failed to upsert signal metrics")
			continue
		}
		refreshed++
	}
	return refreshed, nil
}

// cellInt64 reads a numeric cell, tolerating the JSON number types the
// analytics API returns.
func cellInt64(row []interface{}, idx int) int64 {
	if idx >= len(row) {
		return 0
	}
	switch v := row[idx].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	default:
		return 0
	}
}
