package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show recently finished study runs",
		Args:  cobra.NoArgs,
		RunE:  runRuns,
	}
	cmd.Flags().IntP("limit", "l", 10, "Number of runs to show")
	RootCmd.AddCommand(cmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.RecentRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FINISHED\tDECK\tQUESTIONS\tATTEMPTS\tDURATION")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n",
			r.FinishedAt.Local().Format("2006-01-02 15:04"),
			r.Deck, r.Questions, r.Attempts,
			r.FinishedAt.Sub(r.StartedAt).Round(time.Second))
	}
	return tw.Flush()
}
