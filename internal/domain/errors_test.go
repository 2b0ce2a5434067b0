package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrNotFound(t *testing.T) {
	err := &ErrNotFound{Entity: "signal", ID: "sig-1"}
	assert.Contains(t, err.Error(), "signal")
	assert.Contains(t, err.Error(), "sig-1")
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("bad operator")
	assert.Contains(t, err.Error(), "validation error")
	assert.Contains(t, err.Error(), "bad operator")
}

func TestErrorTaxonomy(t *testing.T) {
	timeout := &ErrQueryTimeout{Elapsed: 30 * time.Second}
	auth := &ErrAuthFailed{Service: "posthog", StatusCode: 401}
	api := &ErrAPIFailure{Service: "hubspot", StatusCode: 500, Body: "internal"}

	assert.True(t, IsTimeoutError(timeout))
	assert.False(t, IsTimeoutError(api))
	assert.True(t, IsAuthError(auth))
	assert.False(t, IsAuthError(timeout))

	// Wrapped errors are still classified
	wrapped := fmt.Errorf("reconcile target: %w", auth)
	assert.True(t, IsAuthError(wrapped))

	assert.Contains(t, auth.Error(), "401")
	assert.Contains(t, api.Error(), "internal")
	assert.Contains(t, timeout.Error(), "30s")
}
