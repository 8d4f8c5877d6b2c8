// Package config loads server configuration.
//
// Precedence, lowest to highest: built-in defaults, an optional sensei.yaml
// in the working directory, SENSEI_* environment variables, and command-line
// flags (applied by the CLI after Load returns).
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config holds everything the server needs to start.
type Config struct {
	// SkillsDir is the root of the skill catalog.
	SkillsDir string

	// DataDir holds the server's own state (memory file, usage journal).
	DataDir string

	// MemoryFile is the project memory JSON file. Defaults to
	// <DataDir>/memory.json.
	MemoryFile string

	// JournalFile is the sqlite usage journal. Defaults to
	// <DataDir>/journal.db.
	JournalFile string

	// Ignore lists directory globs the catalog walks skip.
	Ignore []string

	// SessionIdleTimeout is how long a session may sit idle before the
	// sweeper reclaims it.
	SessionIdleTimeout time.Duration

	// SessionSweepInterval is how often the sweeper runs.
	SessionSweepInterval time.Duration

	// HTTPAddr switches serving from stdio to streamable HTTP when set.
	HTTPAddr string

	LogLevel  string
	LogFormat string
}

// DefaultIgnore is the stock set of directories no catalog should descend
// into.
var DefaultIgnore = []string{
	"node_modules", ".git", "vendor", "dist", "build",
	"__pycache__", ".venv", "target",
}

// Load resolves the configuration from defaults, the optional config file,
// and the environment.
func Load() (*Config, error) {
	v := viper.New()

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	v.SetDefault("skills_dir", "./skills")
	v.SetDefault("data_dir", filepath.Join(home, ".sensei"))
	v.SetDefault("memory_file", "")
	v.SetDefault("journal_file", "")
	v.SetDefault("ignore", DefaultIgnore)
	v.SetDefault("session.idle_timeout", "30m")
	v.SetDefault("session.sweep_interval", "5m")
	v.SetDefault("http_addr", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetConfigName("sensei")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, errors.Wrap(err, "reading sensei.yaml")
		}
	}

	v.SetEnvPrefix("SENSEI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		SkillsDir:            v.GetString("skills_dir"),
		DataDir:              v.GetString("data_dir"),
		MemoryFile:           v.GetString("memory_file"),
		JournalFile:          v.GetString("journal_file"),
		Ignore:               v.GetStringSlice("ignore"),
		SessionIdleTimeout:   v.GetDuration("session.idle_timeout"),
		SessionSweepInterval: v.GetDuration("session.sweep_interval"),
		HTTPAddr:             v.GetString("http_addr"),
		LogLevel:             v.GetString("log.level"),
		LogFormat:            v.GetString("log.format"),
	}

	if cfg.MemoryFile == "" {
		cfg.MemoryFile = filepath.Join(cfg.DataDir, "memory.json")
	}
	if cfg.JournalFile == "" {
		cfg.JournalFile = filepath.Join(cfg.DataDir, "journal.db")
	}

	return cfg, nil
}
