package parser

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/conorfennell/flashdeck/internal/domain"
)

const (
	promptPrefix = "Q:"
	answerPrefix = "A:"
	tagsPrefix   = "T:"
	separator    = "---"
)

type state int

const (
	seeking state = iota
	readingPrompt
	readingAnswer
	readingTags
)

// ParseFile reads a deck file and extracts all cards. Markdown files (.md)
// use Q:/A:/T: blocks; every other file is read as one card per line.
func ParseFile(path string) ([]domain.Card, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if strings.EqualFold(filepath.Ext(path), ".md") {
		return Parse(file)
	}
	return ParseLines(file)
}

// IsDeckFile reports whether path has an extension ParseFile understands.
func IsDeckFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".deck", ".txt":
		return true
	}
	return false
}

// Parse reads markdown from an io.Reader and extracts all cards.
//
// A card starts at a "Q:" line. "A:" starts the answer and "T:" a
// comma-separated tag list. Lines without a prefix continue the current
// field, and a "---" line ends the card.
func Parse(r io.Reader) ([]domain.Card, error) {
	scanner := bufio.NewScanner(r)
	var cards []domain.Card
	var currentCard domain.Card
	var currentBlock []string
	currentState := seeking

	flushBlock := func() {
		if len(currentBlock) == 0 {
			return
		}
		content := strings.TrimRight(strings.Join(currentBlock, "\n"), "\n")
		switch currentState {
		case readingPrompt:
			currentCard.Prompt = content
		case readingAnswer:
			currentCard.Answer = content
		case readingTags:
			currentCard.Tags = splitTagList(content)
		}
		currentBlock = nil
	}

	finishCard := func() {
		flushBlock()
		if currentCard.Prompt != "" {
			cards = append(cards, currentCard)
		}
		currentCard = domain.Card{}
		currentState = seeking
	}

	for scanner.Scan() {
		line := scanner.Text()

		if line == separator {
			finishCard()
			continue
		}

		prefix, next := matchPrefix(line)
		if next == seeking {
			if currentState != seeking {
				currentBlock = append(currentBlock, line)
			}
			continue
		}

		if next == readingPrompt && currentState != seeking {
			// A new prompt always starts a new card
			finishCard()
		}
		flushBlock()
		currentState = next
		currentBlock = append(currentBlock, strings.TrimPrefix(line[len(prefix):], " "))
	}

	finishCard() // Finish the very last card in the file

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return cards, nil
}

func matchPrefix(line string) (string, state) {
	switch {
	case strings.HasPrefix(line, promptPrefix):
		return promptPrefix, readingPrompt
	case strings.HasPrefix(line, answerPrefix):
		return answerPrefix, readingAnswer
	case strings.HasPrefix(line, tagsPrefix):
		return tagsPrefix, readingTags
	}
	return "", seeking
}

func splitTagList(s string) []string {
	var tags []string
	for _, t := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '\n' }) {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
