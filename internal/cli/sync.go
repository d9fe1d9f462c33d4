package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conorfennell/flashdeck/internal/sync"
)

func init() {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Import cards from every source",
		Long:  "Pull git sources, parse every deck file, store new cards and drop cards that disappeared.",
		Args:  cobra.NoArgs,
		RunE:  runSync,
	}
	cmd.Flags().Bool("quiet", false, "Hide git progress output")
	RootCmd.AddCommand(cmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	opts := sync.Options{ReposDir: cfg.Repos}
	if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
		opts.Progress = cmd.ErrOrStderr()
	}

	report, err := sync.Run(cmd.Context(), db, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d sources: %d cards parsed, %d new, %d removed, %d errors\n",
		report.Sources, report.Parsed, report.Inserted, report.Deleted, len(report.Errors))
	for _, e := range report.Errors {
		fmt.Fprintf(out, "- %s\n", e)
	}
	return nil
}
