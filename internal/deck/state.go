package deck

import "fmt"

// State describes what a deck is currently showing.
type State int

const (
	Exhausted State = iota
	Question
	Answer
)

var stateNames = map[State]string{
	Exhausted: "EXHAUSTED",
	Question:  "QUESTION",
	Answer:    "ANSWER",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	name, ok := stateNames[s]
	if !ok {
		return nil, fmt.Errorf("unknown deck state %d", int(s))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(text []byte) error {
	for state, name := range stateNames {
		if name == string(text) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown deck state %q", text)
}
