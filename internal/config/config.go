package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config represents the full envsync configuration
type Config struct {
	Files     FilesConfig     `mapstructure:"files"`
	Store     StoreConfig     `mapstructure:"store"`
	Backup    BackupConfig    `mapstructure:"backup"`
	Audit     AuditConfig     `mapstructure:"audit"`
	Scrubbing ScrubbingConfig `mapstructure:"scrubbing"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// FilesConfig controls which env files a run picks up
type FilesConfig struct {
	Globs []string `mapstructure:"globs"`
}

// StoreConfig selects and configures the secret store backend
type StoreConfig struct {
	Backend string `mapstructure:"backend"` // cli or gcp
	Command string `mapstructure:"command"` // CLI backend: binary to invoke
	Project string `mapstructure:"project"` // GCP backend: project ID
	Prune   bool   `mapstructure:"prune"`   // delete remote secrets absent locally
}

// BackupConfig controls pre-write snapshots of remote values
type BackupConfig struct {
	Dir  string `mapstructure:"dir"`
	Keep int    `mapstructure:"keep"`
}

// AuditConfig controls the Cloud Logging audit trail
type AuditConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Project string `mapstructure:"project"`
}

// ScrubbingConfig extends the built-in redaction rules
type ScrubbingConfig struct {
	ScrubGlobs     []string `mapstructure:"scrub_globs"`
	WhitelistGlobs []string `mapstructure:"whitelist_globs"`
}

// LoggingConfig controls diagnostic log output
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from file and environment
func Load() (*Config, error) {
	cfg := &Config{}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(cfg)

	return cfg, nil
}

// applyDefaults sets default values for unset fields
func applyDefaults(cfg *Config) {
	if len(cfg.Files.Globs) == 0 {
		cfg.Files.Globs = []string{".env", ".env.*"}
	}

	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "cli"
	}

	if cfg.Backup.Dir == "" {
		cfg.Backup.Dir = ".envsync/backups"
	}

	if cfg.Backup.Keep == 0 {
		cfg.Backup.Keep = 10
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}

	if cfg.Audit.Project == "" {
		cfg.Audit.Project = cfg.Store.Project
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	validBackends := map[string]bool{"cli": true, "gcp": true}
	if !validBackends[c.Store.Backend] {
		return fmt.Errorf("invalid store backend: %s (must be cli or gcp)", c.Store.Backend)
	}

	if c.Store.Backend == "cli" && c.Store.Command == "" {
		return fmt.Errorf("store command is required for the cli backend")
	}

	if c.Backup.Keep < 0 {
		return fmt.Errorf("backup keep count must not be negative")
	}

	if c.Audit.Enabled && c.Audit.Project == "" {
		return fmt.Errorf("audit project is required when auditing is enabled")
	}

	return nil
}
