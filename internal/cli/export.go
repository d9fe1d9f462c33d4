package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conorfennell/flashdeck/internal/deck"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the card library as prompt|answer|tags lines",
		Args:  cobra.NoArgs,
		RunE:  runExport,
	}
	cmd.Flags().StringP("tag", "t", "", "Only export cards carrying this tag")
	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	cards, err := db.GetAllCards(cmd.Context())
	if err != nil {
		return err
	}

	d := deck.NewListDeck(deck.Tagged(cards, cfg.Tag))
	out := cmd.OutOrStdout()
	for _, card := range d.Cards() {
		fmt.Fprintln(out, d.Serialize(card))
	}
	return nil
}
