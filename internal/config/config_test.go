package config

import (
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "DOCFIELDS_API_KEY", "LAYOUTS_FILE", "WORKER_COUNT", "MAX_QUEUE_SIZE",
		"MAX_UPLOAD_BYTES", "JOB_TTL", "PDF_SORT_BY_POSITION", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, 4, cfg.WorkerCount)
	assert.Equal(t, 100, cfg.MaxQueueSize)
	assert.Equal(t, int64(52428800), cfg.MaxUploadBytes)
	assert.Equal(t, time.Hour, cfg.JobTTL)
	assert.True(t, cfg.PDFSortByPosition)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("WORKER_COUNT", "-2")
	t.Setenv("MAX_QUEUE_SIZE", "7")
	t.Setenv("JOB_TTL", "90s")
	t.Setenv("PDF_SORT_BY_POSITION", "false")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 4, cfg.WorkerCount)
	assert.Equal(t, 7, cfg.MaxQueueSize)
	assert.Equal(t, 90*time.Second, cfg.JobTTL)
	assert.False(t, cfg.PDFSortByPosition)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestValidate(t *testing.T) {
	cfg := Config{LogLevel: "info"}
	assert.ErrorContains(t, cfg.Validate(), "DOCFIELDS_API_KEY")

	cfg.APIKey = "secret"
	assert.NoError(t, cfg.Validate())

	cfg.LayoutsFile = filepath.Join(t.TempDir(), "missing.yaml")
	assert.ErrorContains(t, cfg.Validate(), "LAYOUTS_FILE")

	cfg.LayoutsFile = ""
	cfg.LogLevel = "loud"
	assert.ErrorContains(t, cfg.Validate(), "LOG_LEVEL")
}
