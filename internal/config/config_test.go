package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		FileEnv, "ROSTER_MAX_BYTES", "ROSTER_FETCH_TIMEOUT", "ROSTER_USER_AGENT",
		"ROSTER_START_DIR", "ROSTER_LOG_LEVEL", "ROSTER_LOG_FORMAT", "ROSTER_LOG_FILE",
	} {
		t.Setenv(name, "")
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "roster.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(1_000_000), cfg.Source.MaxBytes)
	assert.Equal(t, 30*time.Second, cfg.Source.FetchTimeout)
	assert.Equal(t, "roster", cfg.Source.UserAgent)
	assert.Equal(t, "", cfg.UI.StartDir)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "", cfg.Logging.File)
}

func TestLoad_OverrideDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("ROSTER_MAX_BYTES", "2048")
	t.Setenv("ROSTER_FETCH_TIMEOUT", "1m30s")
	t.Setenv("ROSTER_LOG_LEVEL", "debug")
	t.Setenv("ROSTER_LOG_FILE", "/tmp/roster.log")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(2048), cfg.Source.MaxBytes)
	assert.Equal(t, 90*time.Second, cfg.Source.FetchTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/tmp/roster.log", cfg.Logging.File)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	p := writeFile(t, `
source:
  max_bytes: 500
  fetch_timeout: 5s
ui:
  start_dir: /data
logging:
  format: json
`)
	t.Setenv(FileEnv, p)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(500), cfg.Source.MaxBytes)
	assert.Equal(t, 5*time.Second, cfg.Source.FetchTimeout)
	assert.Equal(t, "/data", cfg.UI.StartDir)
	assert.Equal(t, "json", cfg.Logging.Format)
	// Untouched by the file.
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "roster", cfg.Source.UserAgent)
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	clearEnv(t)
	p := writeFile(t, "source:\n  max_bytes: 500\n")
	t.Setenv("ROSTER_MAX_BYTES", "700")

	cfg, err := LoadFile(p)
	require.NoError(t, err)
	assert.Equal(t, int64(700), cfg.Source.MaxBytes)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		file    string
		message string
	}{
		{"Bad integer", map[string]string{"ROSTER_MAX_BYTES": "lots"}, "", "ROSTER_MAX_BYTES"},
		{"Bad duration", map[string]string{"ROSTER_FETCH_TIMEOUT": "soon"}, "", "ROSTER_FETCH_TIMEOUT"},
		{"Zero size", map[string]string{"ROSTER_MAX_BYTES": "0"}, "", "ROSTER_MAX_BYTES must be positive"},
		{"Bad level", map[string]string{"ROSTER_LOG_LEVEL": "verbose"}, "", "ROSTER_LOG_LEVEL"},
		{"Bad format", map[string]string{"ROSTER_LOG_FORMAT": "xml"}, "", "ROSTER_LOG_FORMAT"},
		{"Bad yaml", nil, "source: [", "config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeFile(t, tt.file)
			}

			_, err := LoadFile(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	clearEnv(t)
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
