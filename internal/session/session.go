// Package session holds the host side of a study session: the deck the
// session started from, the current deck value and an attempt counter.
package session

import (
	"fmt"
	"time"

	"github.com/conorfennell/flashdeck/internal/deck"
	"github.com/conorfennell/flashdeck/internal/domain"
)

// Session drives one deck. It is not safe for concurrent use; a host that
// shares a Session between goroutines must serialize access.
type Session struct {
	name      string
	original  deck.Deck
	current   deck.Deck
	front     string
	attempts  int
	startedAt time.Time
	now       func() time.Time
}

// Summary describes a finished (or abandoned) pass through the deck.
type Summary struct {
	Questions int `json:"questions"`
	Attempts  int `json:"attempts"`
}

func (s Summary) String() string {
	return fmt.Sprintf("You've reached the end of the deck.\nQuestions: %d, Attempts: %d", s.Questions, s.Attempts)
}

// View is a snapshot of what a host should render.
type View struct {
	Deck     string     `json:"deck"`
	State    deck.State `json:"state"`
	Text     string     `json:"text,omitempty"`
	Front    string     `json:"front,omitempty"`
	Size     int        `json:"size"`
	Attempts int        `json:"attempts"`
	Summary  *Summary   `json:"summary,omitempty"`
}

// New starts a session over d. name labels the session in run records.
// A nil deck is treated as an empty one.
func New(name string, d deck.Deck) *Session {
	if d == nil {
		d = deck.ListDeck{}
	}
	s := &Session{name: name, original: d, now: time.Now}
	s.Restart()
	return s
}

// Name returns the label the session was created with.
func (s *Session) Name() string {
	return s.name
}

// Deck returns the current deck value.
func (s *Session) Deck() deck.Deck {
	return s.current
}

// Attempts returns the number of answers recorded since the last restart.
func (s *Session) Attempts() int {
	return s.attempts
}

// Front returns the prompt of the card currently in play, which stays
// available while its answer is showing.
func (s *Session) Front() string {
	return s.front
}

// Flip reveals the answer of the current card.
func (s *Session) Flip() {
	if s.current.State() != deck.Question {
		return
	}
	s.front, _ = s.current.Text()
	s.current = s.current.Flip()
}

// Next records an answer and advances. It returns true when this answer
// exhausted the deck. Calls outside the Answer state are ignored and are
// not counted as attempts.
func (s *Session) Next(correct bool) bool {
	if s.current.State() != deck.Answer {
		return false
	}
	s.current = s.current.Next(correct)
	s.attempts++
	s.front, _ = s.current.Text()
	return s.current.State() == deck.Exhausted
}

// Restart goes back to the deck the session started from.
func (s *Session) Restart() {
	s.current = s.original
	s.attempts = 0
	s.front, _ = s.current.Text()
	s.startedAt = s.now()
}

// Summary reports the size of the starting deck and the attempts so far.
func (s *Session) Summary() Summary {
	return Summary{Questions: s.original.Size(), Attempts: s.attempts}
}

// Run returns the record of the current pass, suitable for storage once
// the deck is exhausted.
func (s *Session) Run() domain.Run {
	sum := s.Summary()
	return domain.Run{
		Deck:       s.name,
		Questions:  sum.Questions,
		Attempts:   sum.Attempts,
		StartedAt:  s.startedAt,
		FinishedAt: s.now(),
	}
}

// View returns a snapshot for rendering.
func (s *Session) View() View {
	text, _ := s.current.Text()
	v := View{
		Deck:     s.name,
		State:    s.current.State(),
		Text:     text,
		Size:     s.current.Size(),
		Attempts: s.attempts,
	}
	switch v.State {
	case deck.Answer:
		v.Front = s.front
	case deck.Exhausted:
		sum := s.Summary()
		v.Summary = &sum
	}
	return v
}
