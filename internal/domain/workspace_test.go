package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegration_BeforeSaveAfterLoad(t *testing.T) {
	secretKey := "global-passphrase"

	integration := &Integration{
		ID:          "int-1",
		WorkspaceID: "ws-1",
		Kind:        IntegrationKindAnalytics,
		Name:        "PostHog",
		Credentials: IntegrationCredentials{
			APIKey:    "phx_secret_token",
			ProjectID: "12345",
			Host:      "https://us.posthog.com",
			IsActive:  true,
		},
	}

	require.NoError(t, integration.BeforeSave(secretKey))
	assert.Empty(t, integration.Credentials.APIKey, "clear key must not survive BeforeSave")
	assert.NotEmpty(t, integration.Credentials.EncryptedAPIKey)

	require.NoError(t, integration.AfterLoad(secretKey))
	assert.Equal(t, "phx_secret_token", integration.Credentials.APIKey)

	// Wrong passphrase must fail loudly
	integration.Credentials.APIKey = ""
	err := integration.AfterLoad("wrong-passphrase")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decrypt")
}

func TestIntegration_BeforeSave_NoKey(t *testing.T) {
	integration := &Integration{Kind: IntegrationKindCRM}
	require.NoError(t, integration.BeforeSave("secret"))
	assert.Empty(t, integration.Credentials.EncryptedAPIKey)
}

func TestIntegrationCredentials_IsUsable(t *testing.T) {
	tests := []struct {
		name  string
		creds *IntegrationCredentials
		want  bool
	}{
		{name: "nil", creds: nil, want: false},
		{name: "inactive", creds: &IntegrationCredentials{APIKey: "k", IsActive: false}, want: false},
		{name: "missing key", creds: &IntegrationCredentials{IsActive: true}, want: false},
		{name: "usable", creds: &IntegrationCredentials{APIKey: "k", IsActive: true}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.creds.IsUsable())
		})
	}
}

func TestIntegrationCredentials_ValueScan(t *testing.T) {
	creds := IntegrationCredentials{
		EncryptedAPIKey: "abcdef",
		ProjectID:       "999",
		Host:            "https://eu.posthog.com",
		IsActive:        true,
		Status:          "connected",
	}

	value, err := creds.Value()
	require.NoError(t, err)

	var loaded IntegrationCredentials
	require.NoError(t, loaded.Scan(value))
	assert.Equal(t, creds, loaded)

	// nil column
	var empty IntegrationCredentials
	require.NoError(t, empty.Scan(nil))
	assert.Equal(t, IntegrationCredentials{}, empty)

	// bad type
	var bad IntegrationCredentials
	assert.Error(t, bad.Scan(42))
}
