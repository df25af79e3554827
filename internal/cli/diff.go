package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andywolf/envsync/internal/syncer"
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Show the plan without writing anything",
	Long: `Diff compares local env files against the remote store and prints the
plan. Only key names and actions are shown; values never appear.`,
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().Bool("prune", false, "include deletions of remote secrets absent locally")
	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

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

	plan, err := syncer.New(st, logger, nil, syncer.Options{Prune: prune || cfg.Store.Prune}).Plan(ctx, entries)
	if err != nil {
		return err
	}

	fmt.Println(plan.Summary())
	return nil
}
