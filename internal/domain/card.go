package domain

import (
	"slices"
	"time"
)

// Card is a single prompt/answer pair with optional tags.
// Cards are treated as immutable once built.
type Card struct {
	Prompt string
	Answer string
	Tags   []string
	Hash   string
}

// IsTagged reports whether tag is an exact-match member of the card's tags.
func (c Card) IsTagged(tag string) bool {
	return slices.Contains(c.Tags, tag)
}

// Run records one pass through a deck that ended in exhaustion.
// Questions is the size of the deck the run started from.
type Run struct {
	ID         string
	Deck       string
	Questions  int
	Attempts   int
	StartedAt  time.Time
	FinishedAt time.Time
}
