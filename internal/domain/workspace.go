package domain

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/signalkit/signalkit/pkg/crypto"
)

//go:generate mockgen -destination mocks/mock_workspace_repository.go -package mocks github.com/signalkit/signalkit/internal/domain WorkspaceRepository
//go:generate mockgen -destination mocks/mock_credential_service.go -package mocks github.com/signalkit/signalkit/internal/domain CredentialService

// IntegrationKind names a third-party connector
type IntegrationKind string

const (
	// IntegrationKindAnalytics is the external event-analytics service
	// (PostHog-compatible query + cohort API)
	IntegrationKindAnalytics IntegrationKind = "posthog"

	// IntegrationKindCRM is the CRM list destination (HubSpot)
	IntegrationKindCRM IntegrationKind = "hubspot"
)

// IntegrationCredentials are the decrypted API credentials for one
// integration. APIKey is never persisted in clear; EncryptedAPIKey holds
// the at-rest form.
type IntegrationCredentials struct {
	APIKey          string `json:"-"`
	EncryptedAPIKey string `json:"encrypted_api_key,omitempty"`
	ProjectID       string `json:"project_id,omitempty"`
	Host            string `json:"host,omitempty"`
	IsActive        bool   `json:"is_active"`
	Status          string `json:"status,omitempty"`
}

// IsUsable reports whether the credentials are complete enough to call the
// external service. Callers treat unusable credentials as "skip this
// workspace for this integration", never as an error.
func (c *IntegrationCredentials) IsUsable() bool {
	return c != nil && c.IsActive && c.APIKey != ""
}

// Integration is a workspace-scoped connector record with encrypted
// credentials, stored as JSONB on the integrations table.
type Integration struct {
	ID          string                 `json:"id"`
	WorkspaceID string                 `json:"workspace_id"`
	Kind        IntegrationKind        `json:"kind"`
	Name        string                 `json:"name"`
	Credentials IntegrationCredentials `json:"credentials"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// BeforeSave encrypts the API key with the global passphrase
func (i *Integration) BeforeSave(secretKey string) error {
	if i.Credentials.APIKey == "" {
		return nil
	}
	encrypted, err := crypto.EncryptString(i.Credentials.APIKey, secretKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt integration credentials: %w", err)
	}
	i.Credentials.EncryptedAPIKey = encrypted
	i.Credentials.APIKey = ""
	return nil
}

// AfterLoad decrypts the API key after loading from the database
func (i *Integration) AfterLoad(secretKey string) error {
	if i.Credentials.EncryptedAPIKey == "" {
		return nil
	}
	decrypted, err := crypto.DecryptFromHexString(i.Credentials.EncryptedAPIKey, secretKey)
	if err != nil {
		return fmt.Errorf("failed to decrypt integration credentials: %w", err)
	}
	i.Credentials.APIKey = decrypted
	return nil
}

// Value implements the driver.Valuer interface for the credentials column
func (c IntegrationCredentials) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements the sql.Scanner interface for the credentials column
func (c *IntegrationCredentials) Scan(value interface{}) error {
	if value == nil {
		*c = IntegrationCredentials{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("expected []byte, got %T", value)
	}
	return json.Unmarshal(b, c)
}

// WorkspaceRepository enumerates workspaces and loads their integrations
type WorkspaceRepository interface {
	// ListWorkspaceIDs returns every workspace known to the system
	ListWorkspaceIDs(ctx context.Context) ([]string, error)

	// GetIntegration loads a workspace's integration of the given kind
	// with credentials still encrypted, or ErrNotFound
	GetIntegration(ctx context.Context, workspaceID string, kind IntegrationKind) (*Integration, error)
}

// CredentialService returns decrypted API credentials for a named
// integration. Returns (nil, nil) when the integration is not configured;
// it never converts "unconfigured" into an error.
type CredentialService interface {
	GetCredentials(ctx context.Context, workspaceID string, kind IntegrationKind) (*IntegrationCredentials, error)
}
