package http

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/signalkit/signalkit/internal/domain"
	"github.com/signalkit/signalkit/pkg/logger"
	"github.com/signalkit/signalkit/pkg/ratelimiter"
)

const queryExecuteTimeout = 30 * time.Second

// RateLimiter is the slice of pkg/ratelimiter the handlers need
type RateLimiter interface {
	Check(namespace, key string) ratelimiter.Decision
}

type executeQueryRequest struct {
	WorkspaceID string `json:"workspace_id"`
	Query       string `json:"query"`
}

func (r *executeQueryRequest) Validate() error {
	if strings.TrimSpace(r.WorkspaceID) == "" {
		return fmt.Errorf("workspace_id is required")
	}
	if strings.TrimSpace(r.Query) == "" {
		return fmt.Errorf("query is required")
	}
	return nil
}

// QueryHandler exposes direct analytical query execution for operator
// tooling. Requests are rate limited per workspace.
type QueryHandler struct {
	credentials   domain.CredentialService
	queryExecutor domain.QueryExecutor
	rateLimiter   RateLimiter
	apiSecret     string
	logger        logger.Logger
}

func NewQueryHandler(credentials domain.CredentialService, queryExecutor domain.QueryExecutor, rateLimiter RateLimiter, apiSecret string, logger logger.Logger) *QueryHandler {
	return &QueryHandler{
		credentials:   credentials,
		queryExecutor: queryExecutor,
		rateLimiter:   rateLimiter,
		apiSecret:     apiSecret,
		logger:        logger,
	}
}

// RegisterRoutes registers the query HTTP endpoints
func (h *QueryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/query.execute", h.ExecuteQuery)
}

// POST /api/query.execute - runs a query against the workspace's analytics integration
func (h *QueryHandler) ExecuteQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	secret := r.Header.Get("X-Api-Secret")
	if secret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(h.apiSecret)) != 1 {
		WriteJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req executeQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if decision := h.rateLimiter.Check("query.execute", req.WorkspaceID); !decision.Allowed {
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(math.Ceil(decision.ResetAfter.Seconds()))))
		WriteJSONError(w, "Rate limit exceeded", http.StatusTooManyRequests)
		return
	}

	creds, err := h.credentials.GetCredentials(r.Context(), req.WorkspaceID, domain.IntegrationKindAnalytics)
	if err != nil {
		h.logger.WithFields(map[string]interface{}{
			"workspace_id": req.WorkspaceID,
			"error":        err.Error(),
		}).Error("Failed to resolve analytics credentials")
		WriteJSONError(w, "Failed to resolve analytics credentials", http.StatusInternalServerError)
		return
	}
	if !creds.IsUsable() {
		WriteJSONError(w, "Analytics integration not configured", http.StatusBadRequest)
		return
	}

	result, err := h.queryExecutor.Execute(r.Context(), creds, req.Query, queryExecuteTimeout)
	if err != nil {
		switch {
		case domain.IsTimeoutError(err):
			WriteJSONError(w, "Query timed out", http.StatusGatewayTimeout)
		case domain.IsAuthError(err):
			WriteJSONError(w, "Analytics authentication failed", http.StatusBadGateway)
		default:
			h.logger.WithFields(map[string]interface{}{
				"workspace_id": req.WorkspaceID,
				"error":        err.Error(),
			}).Error("Query execution failed")
			WriteJSONError(w, "Query execution failed", http.StatusBadGateway)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"columns": result.Columns,
		"rows":    result.Rows,
	})
}
