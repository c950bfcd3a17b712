package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv(t *testing.T) {
	t.Setenv("CDOC_LOG_LEVEL", "debug")
	t.Setenv("CDOC_LOG_FORMAT", "JSON")

	cfg := FromEnv("test")
	assert.Equal(t, slog.LevelDebug, cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "test", cfg.Source)
}

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: "json", Output: &buf, Source: "scan"})

	logger.Info("hello", "files", 3)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "hello", record["msg"])
	assert.Equal(t, "scan", record["source"])
	assert.EqualValues(t, 3, record["files"])
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelWarn, Format: "text", Output: &buf})

	logger.Info("quiet")
	assert.Empty(t, buf.String())

	logger.Warn("loud")
	assert.Contains(t, buf.String(), "loud")
}
