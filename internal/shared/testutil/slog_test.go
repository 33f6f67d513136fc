package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureHandler(t *testing.T) {
	logger, handler := NewTestLogger(t)

	logger.Info("well loaded", slog.String("well", "WELL-A"))
	logger.Warn("skipping table", slog.String("file", "bad.csv"))

	records := handler.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "well loaded", records[0].Message)

	assert.True(t, handler.ContainsMessage(slog.LevelWarn, "skipping"))
	assert.False(t, handler.ContainsMessage(slog.LevelError, "skipping"))
	assert.True(t, handler.ContainsAttr("well", "WELL-A"))
	assert.False(t, handler.ContainsAttr("well", "WELL-B"))
}
