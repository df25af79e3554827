package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andywolf/envsync/internal/syncer"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile local env files against the remote store",
	Long: `Sync discovers local .env files, diffs them against the remote secret
store, and applies the resulting plan. Remote values about to be replaced
or deleted are snapshotted to the backup directory first.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().Bool("dry-run", false, "plan only, write nothing")
	syncCmd.Flags().Bool("yes", false, "apply without asking for confirmation")
	syncCmd.Flags().Bool("prune", false, "delete remote secrets absent locally")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	assumeYes, _ := cmd.Flags().GetBool("yes")
	prune, _ := cmd.Flags().GetBool("prune")

	entries, paths, err := loadEntries(cfg)
	if err != nil {
		return err
	}
	warnExposed(logger, paths)

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	audit, err := newAudit(ctx, cfg)
	if err != nil {
		return err
	}
	defer audit.Close()

	opts := syncer.Options{
		DryRun:      dryRun,
		Prune:       prune || cfg.Store.Prune,
		BackupDir:   cfg.Backup.Dir,
		KeepBackups: cfg.Backup.Keep,
	}
	if !assumeYes && !dryRun {
		opts.Confirm = confirmPlan
	}

	result, err := syncer.New(st, logger, audit, opts).Run(ctx, entries)
	if err != nil {
		return err
	}

	fmt.Printf("sync complete: %d created, %d updated, %d deleted, %d unchanged\n",
		result.Created, result.Updated, result.Deleted, result.Unchanged)
	if result.BackupPath != "" {
		fmt.Println("backup written:", result.BackupPath)
	}
	return nil
}
