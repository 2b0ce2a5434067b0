package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/tidwall/gjson"

	"github.com/signalkit/signalkit/internal/domain"
	"github.com/signalkit/signalkit/pkg/logger"
)

// hubspotBatchSize is the CRM batch API input limit per call
const hubspotBatchSize = 100

// HubSpotService maps raw identifiers to CRM contact records and manages
// static list membership. Implements domain.CRMAdapter.
type HubSpotService struct {
	httpClient domain.HTTPClient
	logger     logger.Logger
}

func NewHubSpotService(httpClient domain.HTTPClient, logger logger.Logger) *HubSpotService {
	return &HubSpotService{
		httpClient: httpClient,
		logger:     logger,
	}
}

func hubspotHost(creds *domain.IntegrationCredentials) string {
	host := strings.TrimSuffix(creds.Host, "/")
	if host == "" {
		host = "https://api.hubapi.com"
	}
	return host
}

// UpsertRecords upserts contacts by email and returns their CRM record IDs.
// Identifiers that are not email-shaped are dropped; analytics actor IDs
// (anonymous device ids, UUIDs) cannot map to CRM contacts.
func (s *HubSpotService) UpsertRecords(ctx context.Context, creds *domain.IntegrationCredentials, identifiers []string) ([]string, error) {
	var emails []string
	for _, id := range identifiers {
		if govalidator.IsEmail(id) {
			emails = append(emails, id)
		}
	}
	if dropped := len(identifiers) - len(emails); dropped > 0 {
		s.logger.WithField("dropped", dropped).Debug("Skipped non-email identifiers for CRM upsert")
	}
	if len(emails) == 0 {
		return nil, nil
	}

	var recordIDs []string
	for start := 0; start < len(emails); start += hubspotBatchSize {
		end := start + hubspotBatchSize
		if end > len(emails) {
			end = len(emails)
		}
		ids, err := s.upsertBatch(ctx, creds, emails[start:end])
		if err != nil {
			return nil, err
		}
		recordIDs = append(recordIDs, ids...)
	}
	return recordIDs, nil
}

func (s *HubSpotService) upsertBatch(ctx context.Context, creds *domain.IntegrationCredentials, emails []string) ([]string, error) {
	inputs := make([]map[string]interface{}, len(emails))
	for i, email := range emails {
		inputs[i] = map[string]interface{}{
			"idProperty": "email",
			"id":         email,
			"properties": map[string]string{"email": email},
		}
	}
	body, err := json.Marshal(map[string]interface{}{"inputs": inputs})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal upsert payload: %w", err)
	}

	url := hubspotHost(creds) + "/crm/v3/objects/contacts/batch/upsert"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create upsert request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+creds.APIKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert contacts: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read upsert response: %w", err)
	}
	if err := classifyStatus("hubspot", resp.StatusCode, respBody); err != nil {
		return nil, err
	}

	var recordIDs []string
	for _, result := range gjson.GetBytes(respBody, "results").Array() {
		if id := result.Get("id").String(); id != "" {
			recordIDs = append(recordIDs, id)
		}
	}
	return recordIDs, nil
}

// ReplaceListMembership overwrites a static list's membership with the
// given record IDs. Full-replace, so retries are idempotent.
func (s *HubSpotService) ReplaceListMembership(ctx context.Context, creds *domain.IntegrationCredentials, listID string, recordIDs []string) error {
	if recordIDs == nil {
		recordIDs = []string{}
	}
	body, err := json.Marshal(recordIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal membership payload: %w", err)
	}

	url := fmt.Sprintf("%s/crm/v3/lists/%s/memberships", hubspotHost(creds), listID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create membership request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+creds.APIKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to replace list membership: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read membership response: %w", err)
	}
	if err := classifyStatus("hubspot", resp.StatusCode, respBody); err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"list_id": listID,
		"members": len(recordIDs),
	}).Debug("Replaced CRM list membership")
	return nil
}
