package syncer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// backupFile is the on-disk snapshot of remote values about to be
// overwritten or deleted. Files live under the backup directory with
// mode 0600 since they hold live secret material.
type backupFile struct {
	RunID     string            `yaml:"run_id"`
	CreatedAt time.Time         `yaml:"created_at"`
	Values    map[string]string `yaml:"values"`
}

// writeBackup snapshots the prior remote values for every key the plan is
// about to change. Returns the path written, or "" when nothing needed
// backing up.
func writeBackup(dir, runID string, plan *Plan) (string, error) {
	values := make(map[string]string)
	for _, c := range plan.Changes {
		if c.Action == ActionUpdate || c.Action == ActionDelete {
			values[c.Key] = c.remoteValue
		}
	}
	if len(values) == 0 {
		return "", nil
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("creating backup directory: %w", err)
	}

	data, err := yaml.Marshal(backupFile{
		RunID:     runID,
		CreatedAt: time.Now().UTC(),
		Values:    values,
	})
	if err != nil {
		return "", fmt.Errorf("encoding backup: %w", err)
	}

	name := fmt.Sprintf("%s-%s.yaml", time.Now().UTC().Format("20060102T150405"), runID)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("writing backup: %w", err)
	}
	return path, nil
}

// pruneBackups removes the oldest backup files so at most keep remain.
// keep <= 0 disables pruning.
func pruneBackups(dir string, keep int) error {
	if keep <= 0 {
		return nil
	}
	matches, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return err
	}
	if len(matches) <= keep {
		return nil
	}
	// Timestamp-prefixed names sort oldest first.
	sort.Strings(matches)
	for _, path := range matches[:len(matches)-keep] {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("pruning backup %s: %w", filepath.Base(path), err)
		}
	}
	return nil
}
