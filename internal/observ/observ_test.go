package observ

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/config"
)

func TestNewLogger_Level(t *testing.T) {
	t.Parallel()

	logger, err := NewLogger("production", "warn", "dws-api")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	logger, err = NewLogger("development", "not-a-level", "")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestInitTracing(t *testing.T) {
	tests := []struct {
		name     string
		exporter string
		wantErr  bool
	}{
		{"none", ExporterNone, false},
		{"stdout", ExporterStdout, false},
		{"unknown", "zipkin", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.TracingConfig{Exporter: tt.exporter, SampleRatio: 1, ServiceName: "dws-test"}

			shutdown, err := InitTracing(context.Background(), cfg, "test", zap.NewNop())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, shutdown)
			assert.NoError(t, shutdown(context.Background()))
		})
	}
}
