package domain

import (
	"context"
	"net/http"
	"time"
)

//go:generate mockgen -destination mocks/mock_query_executor.go -package mocks github.com/signalkit/signalkit/internal/domain QueryExecutor
//go:generate mockgen -destination mocks/mock_cohort_adapter.go -package mocks github.com/signalkit/signalkit/internal/domain CohortAdapter
//go:generate mockgen -destination mocks/mock_crm_adapter.go -package mocks github.com/signalkit/signalkit/internal/domain CRMAdapter
//go:generate mockgen -destination mocks/mock_http_client.go -package mocks github.com/signalkit/signalkit/internal/domain HTTPClient

// HTTPClient allows mocking of http.Client in adapter tests
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// QueryResult is the tabular answer of the external analytics service
type QueryResult struct {
	Columns []string        `json:"columns"`
	Rows    [][]interface{} `json:"results"`
}

// IsEmpty reports whether the result carries no rows
func (r *QueryResult) IsEmpty() bool {
	return r == nil || len(r.Rows) == 0
}

// QueryExecutor runs an analytical query string against the external event
// store. Implementations must surface ErrQueryTimeout, ErrAuthFailed and
// ErrAPIFailure distinguishably so callers can decide retry vs. abandon.
type QueryExecutor interface {
	Execute(ctx context.Context, creds *IntegrationCredentials, query string, timeout time.Duration) (*QueryResult, error)
}

// CohortAdapter reconciles a cohort-style audience by full membership
// replace: the entire current matching-identifier set overwrites prior
// membership. Idempotent.
type CohortAdapter interface {
	ReplaceMembership(ctx context.Context, creds *IntegrationCredentials, cohortID string, identifiers []string) error
}

// CRMAdapter reconciles a CRM static list: raw identifiers are first mapped
// to CRM record IDs via an upsert-by-identity call, then list membership is
// replaced with the mapped IDs.
type CRMAdapter interface {
	UpsertRecords(ctx context.Context, creds *IntegrationCredentials, emails []string) ([]string, error)
	ReplaceListMembership(ctx context.Context, creds *IntegrationCredentials, listID string, recordIDs []string) error
}
