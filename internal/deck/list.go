package deck

import (
	"github.com/conorfennell/flashdeck/internal/domain"
	"github.com/conorfennell/flashdeck/internal/parser"
)

// ListDeck is a deck of stored prompt/answer/tags cards.
// The zero value is an exhausted deck.
type ListDeck struct {
	q queue[domain.Card]
}

// NewListDeck builds a deck over a copy of cards, in order.
// An empty slice yields an exhausted deck.
func NewListDeck(cards []domain.Card) ListDeck {
	return ListDeck{q: newQueue(cards)}
}

func (d ListDeck) State() State {
	return d.q.state
}

func (d ListDeck) Text() (string, bool) {
	card, ok := d.q.head()
	if !ok {
		return "", false
	}
	if d.q.state == Answer {
		return card.Answer, true
	}
	return card.Prompt, true
}

func (d ListDeck) Size() int {
	return d.q.size()
}

func (d ListDeck) Flip() Deck {
	return ListDeck{q: d.q.flip()}
}

func (d ListDeck) Next(correct bool) Deck {
	return ListDeck{q: d.q.next(correct)}
}

// Cards returns the remaining cards, current card first.
func (d ListDeck) Cards() []domain.Card {
	out := make([]domain.Card, len(d.q.cards))
	copy(out, d.q.cards)
	return out
}

// IsTagged reports whether card carries tag.
func (d ListDeck) IsTagged(card domain.Card, tag string) bool {
	return card.IsTagged(tag)
}

// Serialize renders card as a single prompt|answer|tags line.
func (d ListDeck) Serialize(card domain.Card) string {
	return parser.FormatLine(card)
}

// Tagged returns the cards carrying tag, preserving order.
// An empty tag matches every card.
func Tagged(cards []domain.Card, tag string) []domain.Card {
	if tag == "" {
		return cards
	}
	var out []domain.Card
	for _, c := range cards {
		if c.IsTagged(tag) {
			out = append(out, c)
		}
	}
	return out
}
