// Package cli implements the flashdeck commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/conorfennell/flashdeck/internal/config"
	"github.com/conorfennell/flashdeck/internal/logging"
	"github.com/conorfennell/flashdeck/internal/storage"
)

const defaultConfigPath = "flashdeck.yaml"

var (
	configPath string
	cfg        *config.Config
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "flashdeck",
	Short: "Drill flashcards until you know them",
	Long: "Study flashcard decks in the terminal or over HTTP. Correct cards are discarded,\n" +
		"incorrect ones go to the back of the deck until every card has been answered.",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	def := config.Default()
	flags := RootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", defaultConfigPath, "YAML config file (skipped if the default is missing)")
	flags.StringP("db", "d", def.DB, "SQLite database path")
	flags.String("repos", def.Repos, "Directory for git source checkouts")
	flags.String("log-level", def.LogLevel, "Log level: debug, info, warn, error")
	flags.String("log-format", def.LogFormat, "Log format: text or json")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	path := configPath
	if !cmd.Flags().Changed("config") {
		if _, err := os.Stat(path); err != nil {
			path = ""
		}
	}

	c, err := config.Load(cmd.Flags(), path)
	if err != nil {
		return err
	}
	cfg = c
	logging.Setup(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
	return nil
}

// addDeckFlags registers the flags that choose which deck to study.
func addDeckFlags(cmd *cobra.Command) {
	cmd.Flags().String("deck", "", "Deck file (.md or prompt|answer|tags lines)")
	cmd.Flags().IntSlice("squares", nil, "Study the squares of these numbers instead of a card deck")
	cmd.Flags().StringP("tag", "t", "", "Only study cards carrying this tag")
}

func openDB() (*storage.DB, error) {
	db, err := storage.Open(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", cfg.DB, err)
	}
	return db, nil
}
