// internal/infrastructure/logger/logger_test.go
package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved(level zapcore.Level) (*ZapLogger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return NewZapLogger(zap.New(core)), logs
}

func TestZapLogger(t *testing.T) {
	log, logs := newObserved(zapcore.DebugLevel)

	// Test debug level logging
	log.Debug("Debug message", map[string]interface{}{
		"key1": "value1",
	})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.DebugLevel, entry.Level)
	assert.Equal(t, "Debug message", entry.Message)
	assert.Equal(t, "value1", entry.ContextMap()["key1"])

	// Test WithField
	fieldLogger := log.WithField("context", "test")
	fieldLogger.Info("With field", nil)

	entry = logs.All()[1]
	assert.Equal(t, "test", entry.ContextMap()["context"])
	assert.Equal(t, "With field", entry.Message)

	// Test WithFields
	fieldsLogger := log.WithFields(map[string]interface{}{
		"app":     "test-app",
		"version": "1.0.0",
	})
	fieldsLogger.Warn("With fields", map[string]interface{}{"attempt": 2})

	entry = logs.All()[2]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "test-app", entry.ContextMap()["app"])
	assert.Equal(t, "1.0.0", entry.ContextMap()["version"])
	assert.EqualValues(t, 2, entry.ContextMap()["attempt"])

	// WithFields with nothing to add returns the same logger
	assert.Same(t, log, log.WithFields(nil))
}

func TestLevelsRespected(t *testing.T) {
	log, logs := newObserved(zapcore.WarnLevel)

	log.Debug("Should not appear", nil)
	log.Info("Should not appear either", nil)
	assert.Equal(t, 0, logs.Len())

	log.Warn("Warning message", nil)
	log.Error("Error message", nil)
	assert.Equal(t, 2, logs.Len())
	assert.Equal(t, 1, logs.FilterMessage("Warning message").Len())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", DebugLevel, false},
		{"INFO", InfoLevel, false},
		{"", InfoLevel, false},
		{"warning", WarnLevel, false},
		{"error", ErrorLevel, false},
		{"loud", InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew(t *testing.T) {
	log, err := New("prod", ErrorLevel)
	require.NoError(t, err)
	assert.False(t, log.Zap().Core().Enabled(zapcore.WarnLevel))
	assert.True(t, log.Zap().Core().Enabled(zapcore.ErrorLevel))

	_, err = New("staging", InfoLevel)
	assert.Error(t, err)
}

func TestSetDefaultLogger(t *testing.T) {
	originalLogger := GetDefaultLogger()
	defer SetDefaultLogger(originalLogger)

	log, logs := newObserved(zapcore.DebugLevel)
	SetDefaultLogger(log)

	Info("through default", nil)
	assert.Equal(t, 1, logs.Len())

	// nil is ignored
	SetDefaultLogger(nil)
	assert.NotNil(t, GetDefaultLogger())
}
