// Package deck implements flashcard decks as immutable, turn-based values.
//
// A deck shows the prompt of its current card, then (after Flip) the answer.
// Next records whether the answer was known: a correct card is discarded, an
// incorrect one goes to the back of the deck. Every transition returns a new
// value and leaves the receiver untouched, so a host can keep the deck it
// started from and restart by simply reusing it.
package deck

import "slices"

// Deck is the contract shared by every deck variant.
type Deck interface {
	// State returns what the deck is currently showing.
	State() State
	// Text returns the prompt in Question state and the answer in Answer
	// state. It reports false when there is nothing to show.
	Text() (string, bool)
	// Size returns the number of cards still in the deck.
	Size() int
	// Flip reveals the answer. Outside Question state it returns the deck unchanged.
	Flip() Deck
	// Next discards the current card when correct is true and moves it to
	// the back otherwise. Outside Answer state it returns the deck unchanged.
	Next(correct bool) Deck
}

// queue holds the remaining cards and the display state. The head of cards
// is the current card. Values are never modified after construction; a
// discarded head is dropped by reslicing and a recycled one forces a copy,
// so a backing array is never written once it is shared.
type queue[T any] struct {
	cards []T
	state State
}

func newQueue[T any](cards []T) queue[T] {
	if len(cards) == 0 {
		return queue[T]{}
	}
	return queue[T]{cards: slices.Clone(cards), state: Question}
}

// head returns the current card, if the deck is showing one.
func (q queue[T]) head() (T, bool) {
	var zero T
	if q.state == Exhausted || len(q.cards) == 0 {
		return zero, false
	}
	return q.cards[0], true
}

func (q queue[T]) size() int {
	return len(q.cards)
}

func (q queue[T]) flip() queue[T] {
	if q.state != Question {
		return q
	}
	return queue[T]{cards: q.cards, state: Answer}
}

func (q queue[T]) next(correct bool) queue[T] {
	if q.state != Answer || len(q.cards) == 0 {
		return q
	}

	rest := q.cards[1:]
	if !correct {
		recycled := make([]T, 0, len(q.cards))
		recycled = append(recycled, rest...)
		rest = append(recycled, q.cards[0])
	}

	if len(rest) == 0 {
		return queue[T]{}
	}
	return queue[T]{cards: rest, state: Question}
}
