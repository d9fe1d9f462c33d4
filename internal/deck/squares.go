package deck

import "fmt"

// SquaresDeck drills perfect squares. Cards are integers and their text is
// generated on demand.
type SquaresDeck struct {
	q queue[int]
}

// NewSquaresDeck builds a deck asking for the square of each n, in order.
func NewSquaresDeck(ns []int) SquaresDeck {
	return SquaresDeck{q: newQueue(ns)}
}

// SquaresUpTo builds a deck over 1..n. It is exhausted when n < 1.
func SquaresUpTo(n int) SquaresDeck {
	var ns []int
	for i := 1; i <= n; i++ {
		ns = append(ns, i)
	}
	return NewSquaresDeck(ns)
}

func (d SquaresDeck) State() State {
	return d.q.state
}

func (d SquaresDeck) Text() (string, bool) {
	n, ok := d.q.head()
	if !ok {
		return "", false
	}
	if d.q.state == Answer {
		return fmt.Sprintf("%d^2 = %d", n, n*n), true
	}
	return fmt.Sprintf("%d^2 = ?", n), true
}

func (d SquaresDeck) Size() int {
	return d.q.size()
}

func (d SquaresDeck) Flip() Deck {
	return SquaresDeck{q: d.q.flip()}
}

func (d SquaresDeck) Next(correct bool) Deck {
	return SquaresDeck{q: d.q.next(correct)}
}
