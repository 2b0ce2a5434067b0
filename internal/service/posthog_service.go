package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/signalkit/signalkit/internal/domain"
	"github.com/signalkit/signalkit/pkg/logger"
)

// PostHogService talks to a PostHog-compatible analytics API: HogQL query
// execution and static cohort membership. Implements domain.QueryExecutor
// and domain.CohortAdapter.
type PostHogService struct {
	httpClient domain.HTTPClient
	logger     logger.Logger
}

func NewPostHogService(httpClient domain.HTTPClient, logger logger.Logger) *PostHogService {
	return &PostHogService{
		httpClient: httpClient,
		logger:     logger,
	}
}

func posthogHost(creds *domain.IntegrationCredentials) string {
	host := strings.TrimSuffix(creds.Host, "/")
	if host == "" {
		host = "https://app.posthog.com"
	}
	return host
}

// Execute runs a HogQL query with a bounded timeout. Timeout, auth and
// generic API failures are surfaced as distinguishable error types.
func (s *PostHogService) Execute(ctx context.Context, creds *domain.IntegrationCredentials, query string, timeout time.Duration) (*domain.QueryResult, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	payload := map[string]interface{}{
		"query": map[string]interface{}{
			"kind":  "HogQLQuery",
			"query": query,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query payload: %w", err)
	}

	url := fmt.Sprintf("%s/api/projects/%s/query/", posthogHost(creds), creds.ProjectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create query request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+creds.APIKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return nil, &domain.ErrQueryTimeout{Elapsed: time.Since(start)}
		}
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read query response: %w", err)
	}

	if err := classifyStatus("posthog", resp.StatusCode, respBody); err != nil {
		return nil, err
	}

	return parseQueryResult(respBody), nil
}

func parseQueryResult(body []byte) *domain.QueryResult {
	result := &domain.QueryResult{}

	for _, col := range gjson.GetBytes(body, "columns").Array() {
		result.Columns = append(result.Columns, col.String())
	}
	for _, row := range gjson.GetBytes(body, "results").Array() {
		var cells []interface{}
		for _, cell := range row.Array() {
			cells = append(cells, cell.Value())
		}
		result.Rows = append(result.Rows, cells)
	}
	return result
}

// ReplaceMembership overwrites a static cohort's membership with the given
// identifiers. Full-replace, so retries are idempotent.
func (s *PostHogService) ReplaceMembership(ctx context.Context, creds *domain.IntegrationCredentials, cohortID string, identifiers []string) error {
	if identifiers == nil {
		// An empty set still clears the cohort, serialize as []
		identifiers = []string{}
	}
	payload := map[string]interface{}{
		"is_static":    true,
		"distinct_ids": identifiers,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal cohort payload: %w", err)
	}

	url := fmt.Sprintf("%s/api/projects/%s/cohorts/%s/", posthogHost(creds), creds.ProjectID, cohortID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create cohort request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+creds.APIKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to update cohort: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read cohort response: %w", err)
	}

	if err := classifyStatus("posthog", resp.StatusCode, respBody); err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"cohort_id": cohortID,
		"members":   len(identifiers),
	}).Debug("Replaced cohort membership")
	return nil
}

// classifyStatus maps an HTTP status to the shared error taxonomy. 2xx is
// success; 401/403 is an auth failure; anything else is a generic API
// failure carrying the response body.
func classifyStatus(service string, statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}
	if statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden {
		return &domain.ErrAuthFailed{Service: service, StatusCode: statusCode}
	}
	return &domain.ErrAPIFailure{Service: service, StatusCode: statusCode, Body: string(body)}
}
