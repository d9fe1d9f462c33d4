package knol

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/conorfennell/flashdeck/internal/domain"
)

// tagEscaper keeps a comma inside a tag distinct from the separator.
var tagEscaper = strings.NewReplacer(`\`, `\\`, `,`, `\,`)

// Normalize concatenates the card's content after cleaning each part.
// Prompt, answer and the comma-joined tags are trimmed, lowercased and given
// unix line endings, then joined with newlines. Tags that are empty after
// cleaning are left out.
func Normalize(card domain.Card) string {
	normalizePart := func(part string) string {
		p := strings.ToLower(part)
		p = strings.ReplaceAll(p, "\r\n", "\n")
		return strings.TrimSpace(p)
	}

	tags := make([]string, 0, len(card.Tags))
	for _, t := range card.Tags {
		if t = normalizePart(t); t != "" {
			tags = append(tags, tagEscaper.Replace(t))
		}
	}

	return strings.Join([]string{
		normalizePart(card.Prompt),
		normalizePart(card.Answer),
		strings.Join(tags, ","),
	}, "\n")
}

// Hash returns the hex SHA-256 of the card's normalized content.
// Cards that differ only in case or surrounding whitespace share a hash.
func Hash(card domain.Card) string {
	sum := sha256.Sum256([]byte(Normalize(card)))
	return fmt.Sprintf("%x", sum)
}
