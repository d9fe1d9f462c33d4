package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/conorfennell/flashdeck/internal/domain"
)

// ErrMalformedLine is returned when a line is not in prompt|answer|tags form.
var ErrMalformedLine = errors.New("malformed card line")

const (
	fieldSep = '|'
	tagSep   = ','
	escape   = '\\'

	commentPrefix = "#"
)

var (
	fieldEscaper = strings.NewReplacer(`\`, `\\`, `|`, `\|`, "\n", `\n`)
	tagEscaper   = strings.NewReplacer(`\`, `\\`, `|`, `\|`, `,`, `\,`, "\n", `\n`)
)

// FormatLine renders a card as "prompt|answer|tag1,tag2".
// Backslashes, pipes and newlines inside fields, and commas inside tags, are
// escaped with a backslash so that ParseLine can recover the card. A leading
// '#' in the prompt is escaped too, otherwise ParseLines would read the line
// as a comment.
//
// Empty tags are dropped. A card with an empty prompt has no valid line
// form: ParseLine rejects the result.
func FormatLine(card domain.Card) string {
	tags := make([]string, 0, len(card.Tags))
	for _, t := range card.Tags {
		if t != "" {
			tags = append(tags, tagEscaper.Replace(t))
		}
	}
	prompt := fieldEscaper.Replace(card.Prompt)
	if strings.HasPrefix(prompt, commentPrefix) {
		prompt = string(escape) + prompt
	}
	return prompt + string(fieldSep) +
		fieldEscaper.Replace(card.Answer) + string(fieldSep) +
		strings.Join(tags, string(tagSep))
}

// ParseLine is the inverse of FormatLine. The tag field may be omitted.
func ParseLine(line string) (domain.Card, error) {
	fields, err := splitEscaped(line, fieldSep)
	if err != nil {
		return domain.Card{}, err
	}
	if len(fields) < 2 || len(fields) > 3 {
		return domain.Card{}, fmt.Errorf("%w: expected 2 or 3 fields, got %d", ErrMalformedLine, len(fields))
	}

	card := domain.Card{
		Prompt: unescape(fields[0]),
		Answer: unescape(fields[1]),
	}
	if card.Prompt == "" {
		return domain.Card{}, fmt.Errorf("%w: empty prompt", ErrMalformedLine)
	}
	if len(fields) == 3 && fields[2] != "" {
		tags, err := splitEscaped(fields[2], tagSep)
		if err != nil {
			return domain.Card{}, err
		}
		for _, t := range tags {
			card.Tags = append(card.Tags, unescape(t))
		}
	}
	return card, nil
}

// ParseLines reads one card per line. Blank lines and lines starting with
// '#' are skipped.
func ParseLines(r io.Reader) ([]domain.Card, error) {
	scanner := bufio.NewScanner(r)
	var cards []domain.Card
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, commentPrefix) {
			continue
		}
		card, err := ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		cards = append(cards, card)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cards, nil
}

// splitEscaped splits s on unescaped sep. Parts keep their escapes.
func splitEscaped(s string, sep byte) ([]string, error) {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case escape:
			if i+1 == len(s) {
				return nil, fmt.Errorf("%w: trailing escape", ErrMalformedLine)
			}
			i++
		case sep:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:]), nil
}

func unescape(s string) string {
	if !strings.ContainsRune(s, escape) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == escape && i+1 < len(s) {
			i++
			c = s[i]
			if c == 'n' {
				c = '\n'
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}
