package arglog_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-argmin/argmin/arglog"
)

func TestNewJSONLoggerWritesStructuredLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "argmin.log")
	log := arglog.New(arglog.Config{Level: "info", Format: "json", Output: "file", FilePath: path})
	require.NotNil(t, log)
	log.Info("hello", "key", "value")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "value", line["key"])
}

func TestNewTextLoggerDefaultsLevelToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "argmin.log")
	log := arglog.New(arglog.Config{Format: "text", Output: "file", FilePath: path})
	log.Debug("should not appear")
	log.Info("should appear", "key", "value")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "should appear")
	assert.NotContains(t, string(data), "should not appear")
}

func TestWithRunTagsLoggerWithRunID(t *testing.T) {
	var buf bytes.Buffer
	arglog.Log = slog.New(slog.NewJSONHandler(&buf, nil))

	arglog.WithRun("run-123").Info("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "run-123", line["run_id"])
}
