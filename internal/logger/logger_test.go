package logger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mural/internal/config"
	"mural/internal/logger"
)

func TestNew(t *testing.T) {
	for _, format := range []string{"console", "json"} {
		l, err := logger.New(config.LoggerConfig{Level: "debug", Format: format})
		require.NoError(t, err, format)
		l.WithComponent("test").Debugw("hello", "format", format)
	}
}

func TestNew_BadLevel(t *testing.T) {
	_, err := logger.New(config.LoggerConfig{Level: "loud"})
	assert.ErrorContains(t, err, "invalid log level")
}
