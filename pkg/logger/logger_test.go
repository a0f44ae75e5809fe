package logger

import (
	"testing"

	"github.com/GlebRadaev/fortvest/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name          string
		config        *config.Config
		expectedError bool
		enabled       zapcore.Level
		disabled      zapcore.Level
	}{
		{
			name:     "info drops debug",
			config:   &config.Config{LogLvl: "info"},
			enabled:  zapcore.InfoLevel,
			disabled: zapcore.DebugLevel,
		},
		{
			name:     "error drops warn",
			config:   &config.Config{LogLvl: "error"},
			enabled:  zapcore.ErrorLevel,
			disabled: zapcore.WarnLevel,
		},
		{
			name:     "debug",
			config:   &config.Config{LogLvl: "debug"},
			enabled:  zapcore.DebugLevel,
			disabled: zapcore.DebugLevel - 1,
		},
		{
			name:     "warn as json",
			config:   &config.Config{LogLvl: "warn", LogFmt: "json"},
			enabled:  zapcore.WarnLevel,
			disabled: zapcore.InfoLevel,
		},
		{
			name:          "Invalid log level",
			config:        &config.Config{LogLvl: "invalid"},
			expectedError: true,
		},
		{
			name:          "Invalid log format",
			config:        &config.Config{LogLvl: "info", LogFmt: "xml"},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := InitLogger(tt.config)

			if tt.expectedError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, zap.L().Core().Enabled(tt.enabled))
			assert.False(t, zap.L().Core().Enabled(tt.disabled))
		})
	}
}

func TestEncoderConfig(t *testing.T) {
	console, err := encoderConfig("console")
	require.NoError(t, err)
	assert.Equal(t, "ts", console.TimeKey)

	json, err := encoderConfig("json")
	require.NoError(t, err)
	assert.Equal(t, "msg", json.MessageKey)
	assert.Equal(t, "level", json.LevelKey)
}
