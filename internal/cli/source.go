package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/conorfennell/flashdeck/internal/gitsource"
	"github.com/conorfennell/flashdeck/internal/storage"
)

func init() {
	cmd := &cobra.Command{
		Use:   "source",
		Short: "Manage where cards are imported from",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <path|url.git>",
		Short: "Add a local directory or git repository of deck files",
		Args:  cobra.ExactArgs(1),
		RunE:  runSourceAdd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List sources",
		Args:  cobra.NoArgs,
		RunE:  runSourceList,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a source and its cards",
		Args:  cobra.ExactArgs(1),
		RunE:  runSourceRm,
	})

	RootCmd.AddCommand(cmd)
}

func runSourceAdd(cmd *cobra.Command, args []string) error {
	path := args[0]
	sourceType := storage.SourceLocal
	if gitsource.IsGitURL(path) {
		sourceType = storage.SourceGit
	} else {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", path, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return fmt.Errorf("source %s: %w", path, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("source %s is not a directory", path)
		}
		path = abs
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	id, err := db.InsertSource(cmd.Context(), path, sourceType)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "added %s source %d: %s\n", sourceType, id, path)
	return nil
}

func runSourceList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	sources, err := db.GetAllSources(cmd.Context())
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tPATH\tLAST SCANNED")
	for _, s := range sources {
		scanned := "never"
		if s.LastScanned.Valid {
			scanned = s.LastScanned.Time.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.ID, s.Type, s.Path, scanned)
	}
	return tw.Flush()
}

func runSourceRm(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid source ID %q", args[0])
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.DeleteSource(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed source %d\n", id)
	return nil
}
