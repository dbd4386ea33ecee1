// Package categorize suggests expense categories from the free-text note.
package categorize

import (
	"strings"
	"unicode/utf8"

	"cashbook/internal/core"
)

// MinNoteLength is the shortest note (in characters) that is matched at all.
const MinNoteLength = 2

// Suggestion is the outcome of matching one note.
// Selected is set only when exactly one category matched; otherwise the caller
// shows Matches as choices and leaves the field alone.
type Suggestion struct {
	Matches  []string
	Selected string
}

// Categorizer matches notes against a fixed vocabulary.
type Categorizer struct {
	vocabulary []string
}

// New creates a categorizer. An empty vocabulary means core.DefaultCategories.
func New(vocabulary []string) *Categorizer {
	if len(vocabulary) == 0 {
		vocabulary = core.DefaultCategories
	}
	return &Categorizer{vocabulary: append([]string(nil), vocabulary...)}
}

// Vocabulary returns a copy of the labels in their configured order.
func (c *Categorizer) Vocabulary() []string {
	return append([]string(nil), c.vocabulary...)
}

// Suggest returns the labels that appear, case-insensitively, inside note.
func (c *Categorizer) Suggest(note string) Suggestion {
	if utf8.RuneCountInString(note) < MinNoteLength {
		return Suggestion{Matches: []string{}}
	}
	lower := strings.ToLower(note)
	matches := make([]string, 0, 2)
	for _, label := range c.vocabulary {
		if label == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(label)) {
			matches = append(matches, label)
		}
	}
	s := Suggestion{Matches: matches}
	if len(matches) == 1 {
		s.Selected = matches[0]
	}
	return s
}
