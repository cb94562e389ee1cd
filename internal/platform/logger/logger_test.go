package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/phrazzld/dialogen/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupReturnsConfiguredLogger(t *testing.T) {
	cases := []struct {
		level   string
		enabled slog.Level
		muted   slog.Level
	}{
		{level: "debug", enabled: slog.LevelDebug, muted: slog.LevelDebug - 4},
		{level: "info", enabled: slog.LevelInfo, muted: slog.LevelDebug},
		{level: "warn", enabled: slog.LevelWarn, muted: slog.LevelInfo},
		{level: "error", enabled: slog.LevelError, muted: slog.LevelWarn},
	}

	for _, tc := range cases {
		t.Run(tc.level, func(t *testing.T) {
			log := Setup(config.LogConfig{Level: tc.level})
			require.NotNil(t, log)
			assert.True(t, log.Enabled(context.Background(), tc.enabled))
			assert.False(t, log.Enabled(context.Background(), tc.muted))
		})
	}
}

func TestSetupFallsBackToInfoOnInvalidLevel(t *testing.T) {
	log := Setup(config.LogConfig{Level: "chatty"})
	require.NotNil(t, log)
	assert.True(t, log.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, log.Enabled(context.Background(), slog.LevelDebug))
}

func TestSetupSetsDefaultLogger(t *testing.T) {
	log := Setup(config.LogConfig{Level: "info"})
	assert.Equal(t, log, slog.Default(), "Setup should install the logger as the default")
}
