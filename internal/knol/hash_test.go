package knol

import (
	"testing"

	"github.com/conorfennell/flashdeck/internal/domain"
)

func TestNormalize(t *testing.T) {
	card := domain.Card{
		Prompt: "  What is HTMX? \r\n",
		Answer: "A library for AJAX.",
		Tags:   []string{" Web ", "JS"},
	}
	expected := "what is htmx?\na library for ajax.\nweb,js"
	normalized := Normalize(card)

	if normalized != expected {
		t.Errorf("Expected normalized string to be '%s', but got '%s'", expected, normalized)
	}
}

func TestHash(t *testing.T) {
	t.Run("generates correct hash", func(t *testing.T) {
		card := domain.Card{
			Prompt: "Q",
			Answer: "A",
			Tags:   []string{"X", "Y"},
		}
		// Hash for "q\na\nx,y"
		expectedHash := "94afabb59afd42753ae4d734854739a7638e409b7aaf334d934012ddc51495a2"
		hash := Hash(card)

		if hash != expectedHash {
			t.Errorf("Expected hash '%s', but got '%s'", expectedHash, hash)
		}
	})

	t.Run("untagged card", func(t *testing.T) {
		// Hash for "q\na\n"
		expectedHash := "39548f3f86ac1947458c2b2dd5bd2b95e7b322324bde875972069c1a439683ec"
		if hash := Hash(domain.Card{Prompt: "q", Answer: "a"}); hash != expectedHash {
			t.Errorf("Expected hash '%s', but got '%s'", expectedHash, hash)
		}
	})

	t.Run("normalization produces same hash", func(t *testing.T) {
		card1 := domain.Card{Prompt: "  what is go? ", Answer: "A programming language."}
		card2 := domain.Card{Prompt: "What Is Go?", Answer: "A programming language."}
		if Hash(card1) != Hash(card2) {
			t.Error("Expected hashes to be the same after normalization, but they were different.")
		}
	})

	t.Run("tags change the hash", func(t *testing.T) {
		card1 := domain.Card{Prompt: "Card", Answer: "A"}
		card2 := domain.Card{Prompt: "Card", Answer: "A", Tags: []string{"x"}}
		if Hash(card1) == Hash(card2) {
			t.Error("Expected hashes for differently tagged cards to be different")
		}
	})

	t.Run("commas inside tags are not separators", func(t *testing.T) {
		joined := domain.Card{Prompt: "Card", Answer: "A", Tags: []string{"a,b"}}
		split := domain.Card{Prompt: "Card", Answer: "A", Tags: []string{"a", "b"}}
		if Hash(joined) == Hash(split) {
			t.Error("Expected a tag containing a comma to hash differently from two tags")
		}
	})

	t.Run("blank tags are ignored", func(t *testing.T) {
		card1 := domain.Card{Prompt: "Card", Answer: "A", Tags: []string{"x"}}
		card2 := domain.Card{Prompt: "Card", Answer: "A", Tags: []string{"", "x", "  "}}
		if Hash(card1) != Hash(card2) {
			t.Error("Expected blank tags not to change the hash")
		}
	})

	t.Run("different cards have different hashes", func(t *testing.T) {
		card1 := domain.Card{Prompt: "Card 1"}
		card2 := domain.Card{Prompt: "Card 2"}
		if Hash(card1) == Hash(card2) {
			t.Error("Expected hashes for different cards to be different")
		}
	})
}
