package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/andywolf/envsync/internal/cloud/gcp"
	"github.com/andywolf/envsync/internal/config"
	"github.com/andywolf/envsync/internal/envfile"
	"github.com/andywolf/envsync/internal/logging"
	"github.com/andywolf/envsync/internal/store"
)

// loadConfig loads and validates the effective configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger builds the diagnostic logger for the run. Output goes to
// stderr, which is already behind the output guard.
func newLogger(cfg *config.Config) *slog.Logger {
	return logging.New(&logging.Config{
		Level:  cfg.Logging.Level,
		Format: logging.Format(cfg.Logging.Format),
		Output: os.Stderr,
	})
}

// openStore builds the configured secret store backend.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case "cli":
		return store.NewCLIStore(cfg.Store.Command), nil
	case "gcp":
		return store.NewGCPStore(ctx, cfg.Store.Project)
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Store.Backend)
	}
}

// newAudit builds the audit logger for the run. Auditing off means a nop
// logger, so callers never branch.
func newAudit(ctx context.Context, cfg *config.Config) (gcp.AuditLogger, error) {
	if !cfg.Audit.Enabled {
		return gcp.NopAuditLogger{}, nil
	}
	inner, err := gcp.NewCloudAuditLogger(ctx, cfg.Audit.Project, uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("creating audit logger: %w", err)
	}
	return gcp.NewSecureAuditLogger(inner), nil
}

// loadEntries discovers env files under the working directory and parses
// them. Later files win on duplicate keys, matching shell source order.
func loadEntries(cfg *config.Config) ([]envfile.Entry, []string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, nil, err
	}

	paths, err := envfile.Discover(cwd, cfg.Files.Globs)
	if err != nil {
		return nil, nil, fmt.Errorf("discovering env files: %w", err)
	}
	if len(paths) == 0 {
		return nil, nil, fmt.Errorf("no env files matched %v", cfg.Files.Globs)
	}

	merged := make(map[string]envfile.Entry)
	var order []string
	for _, rel := range paths {
		file, err := envfile.Parse(filepath.Join(cwd, rel))
		if err != nil {
			return nil, nil, fmt.Errorf("parsing %s: %w", rel, err)
		}
		for _, entry := range file.Entries {
			if _, ok := merged[entry.Key]; !ok {
				order = append(order, entry.Key)
			}
			merged[entry.Key] = entry
		}
	}

	entries := make([]envfile.Entry, 0, len(order))
	for _, key := range order {
		entries = append(entries, merged[key])
	}
	return entries, paths, nil
}
