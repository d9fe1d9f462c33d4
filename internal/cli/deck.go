package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/conorfennell/flashdeck/internal/config"
	"github.com/conorfennell/flashdeck/internal/deck"
	"github.com/conorfennell/flashdeck/internal/domain"
	"github.com/conorfennell/flashdeck/internal/parser"
)

// CardLister supplies the stored card library.
type CardLister interface {
	GetAllCards(ctx context.Context) ([]domain.Card, error)
}

// loadDeck picks the deck to study: a deck file if one is configured, else
// the configured squares, else the stored card library. It returns a name
// for the deck along with it.
func loadDeck(ctx context.Context, c *config.Config, library CardLister) (string, deck.Deck, error) {
	switch {
	case c.Deck != "":
		cards, err := parser.ParseFile(c.Deck)
		if err != nil {
			return "", nil, fmt.Errorf("read deck %s: %w", c.Deck, err)
		}
		return deckName(filepath.Base(c.Deck), c.Tag), deck.NewListDeck(deck.Tagged(cards, c.Tag)), nil

	case len(c.Squares) > 0:
		return "squares", deck.NewSquaresDeck(c.Squares), nil

	default:
		cards, err := library.GetAllCards(ctx)
		if err != nil {
			return "", nil, fmt.Errorf("load card library: %w", err)
		}
		return deckName("library", c.Tag), deck.NewListDeck(deck.Tagged(cards, c.Tag)), nil
	}
}

func deckName(base, tag string) string {
	if tag == "" {
		return base
	}
	return base + "#" + tag
}
