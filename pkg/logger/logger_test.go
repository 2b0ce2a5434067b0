package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	l := NewLogger()
	require.NotNil(t, l)

	// Chaining must return a usable logger
	child := l.WithField("component", "test")
	require.NotNil(t, child)
	child.Info("hello")

	multi := l.WithFields(map[string]interface{}{"a": 1, "b": "two"})
	require.NotNil(t, multi)
	multi.Debug("fields attached")
}

func TestNewLoggerWithLevel(t *testing.T) {
	tests := []struct {
		name  string
		level string
	}{
		{name: "debug level", level: "debug"},
		{name: "info level", level: "info"},
		{name: "warn level", level: "warn"},
		{name: "unknown level falls back to info", level: "whatever"},
		{name: "empty level falls back to info", level: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLoggerWithLevel(tt.level)
			require.NotNil(t, l)
			l.Info("still works")
		})
	}
}

func TestTestLogger(t *testing.T) {
	l := NewTestLogger(t)
	require.NotNil(t, l)

	l.Debug("debug")
	l.Info("info")
	l.Warn("warn")
	l.Error("error")

	assert.Equal(t, l, l.WithField("k", "v"))
	assert.Equal(t, l, l.WithFields(map[string]interface{}{"k": "v"}))
}
