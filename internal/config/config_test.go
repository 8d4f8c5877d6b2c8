package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "./skills", cfg.SkillsDir)
	assert.Equal(t, filepath.Join(cfg.DataDir, "memory.json"), cfg.MemoryFile)
	assert.Equal(t, filepath.Join(cfg.DataDir, "journal.db"), cfg.JournalFile)
	assert.Equal(t, DefaultIgnore, cfg.Ignore)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTimeout)
	assert.Equal(t, 5*time.Minute, cfg.SessionSweepInterval)
	assert.Empty(t, cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SENSEI_SKILLS_DIR", "/opt/catalog")
	t.Setenv("SENSEI_SESSION_IDLE_TIMEOUT", "1h")
	t.Setenv("SENSEI_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/opt/catalog", cfg.SkillsDir)
	assert.Equal(t, time.Hour, cfg.SessionIdleTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte("skills_dir: ./catalog\ndata_dir: " + filepath.Join(dir, "state") + "\nhttp_addr: :8080\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sensei.yaml"), content, 0o644))
	t.Chdir(dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "./catalog", cfg.SkillsDir)
	assert.Equal(t, filepath.Join(dir, "state"), cfg.DataDir)
	assert.Equal(t, filepath.Join(dir, "state", "memory.json"), cfg.MemoryFile)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
}

func TestLoadRejectsMalformedConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sensei.yaml"), []byte(":\tnot yaml"), 0o644))
	t.Chdir(dir)

	_, err := Load()
	assert.Error(t, err)
}
