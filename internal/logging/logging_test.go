package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  zap.AtomicLevel
	}{
		{"debug", zap.NewAtomicLevelAt(zap.DebugLevel)},
		{"info", zap.NewAtomicLevelAt(zap.InfoLevel)},
		{"", zap.NewAtomicLevelAt(zap.InfoLevel)},
		{"WARN", zap.NewAtomicLevelAt(zap.WarnLevel)},
		{"error", zap.NewAtomicLevelAt(zap.ErrorLevel)},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger, err := New(tt.level)
			require.NoError(t, err)
			core := logger.Desugar().Core()
			assert.True(t, core.Enabled(tt.want.Level()))
			if tt.want.Level() > zap.DebugLevel {
				assert.False(t, core.Enabled(tt.want.Level()-1))
			}
		})
	}
}

func TestNew_UnknownLevel(t *testing.T) {
	_, err := New("verbose")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log level")
}
