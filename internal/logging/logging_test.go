package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abhisek/homeroom/internal/academic"
)

func TestNew_ConsoleOnly(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := newLogger(DefaultConfig(), &buf)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("mastery updated", zap.String("student_id", "stu-1"))
	require.NoError(t, closeFn())

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "mastery updated")
	assert.Contains(t, out, "stu-1")
}

func TestNew_FileIsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "homeroom.log")
	cfg := DefaultConfig()
	cfg.Level = "debug"
	cfg.File = path

	var buf bytes.Buffer
	logger, closeFn, err := newLogger(cfg, &buf)
	require.NoError(t, err)

	logger.Named("store").Debug("opened", zap.String("path", "x.db"))
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "DEBUG", entry["level"])
	assert.Equal(t, "store", entry["logger"])
	assert.Equal(t, "opened", entry["msg"])
	assert.Equal(t, "x.db", entry["path"])

	assert.Contains(t, buf.String(), "opened", "console still receives entries")
}

func TestNew_BadLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Level = "chatty"

	_, _, err := New(cfg)
	assert.Error(t, err)
	assert.True(t, academic.IsValidation(cfg.Validate()))
}

func TestConfigValidate(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "warn", "error"} {
		cfg := DefaultConfig()
		cfg.Level = lvl
		assert.NoError(t, cfg.Validate(), lvl)
	}
}
