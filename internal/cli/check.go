package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/andywolf/envsync/internal/redact"
	"github.com/andywolf/envsync/internal/syncer"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check local env files for hygiene problems",
	Long: `Check parses local env files and reports problems without touching the
remote store: env files not covered by .gitignore, and values that match
known credential formats under keys the classifier does not flag.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	entries, paths, err := loadEntries(cfg)
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	exposed, err := syncer.CheckIgnored(cwd, paths)
	if err != nil {
		return fmt.Errorf("reading .gitignore: %w", err)
	}

	problems := 0
	for _, path := range exposed {
		fmt.Printf("warning: %s is not covered by .gitignore\n", path)
		problems++
	}

	for _, entry := range entries {
		if redact.ContainsSecret(entry.Value) && !redact.IsSecretKey(entry.Key) {
			fmt.Printf("warning: %s holds a credential-shaped value but its name does not mark it secret\n", entry.Key)
			problems++
		}
	}

	if problems > 0 {
		return fmt.Errorf("%d problem(s) found across %d key(s)", problems, len(entries))
	}
	fmt.Printf("ok: %d key(s) across %d file(s)\n", len(entries), len(paths))
	return nil
}

// warnExposed logs env files the repository does not ignore. Sync and diff
// keep going; check treats the same condition as a failure.
func warnExposed(logger *slog.Logger, paths []string) {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}
	exposed, err := syncer.CheckIgnored(cwd, paths)
	if err != nil {
		return
	}
	for _, path := range exposed {
		logger.Warn("env file is not covered by .gitignore", "path", path)
	}
}
