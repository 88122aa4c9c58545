// Package moderation masks configured words in message text.
package moderation

import (
	"strings"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
	"github.com/samber/lo"
)

// Moderator finds censored words with an Aho-Corasick automaton and masks them.
// Matching is case-insensitive and only masks whole words.
type Moderator struct {
	matcher *goahocorasick.Machine
	mask    rune
}

// New builds a moderator for words. Blank words are ignored; with no words left the moderator is a passthrough.
func New(words []string, mask rune) (*Moderator, error) {
	patterns := lo.Uniq(lo.FilterMap(words, func(w string, _ int) (string, bool) {
		w = strings.ToLower(strings.TrimSpace(w))
		return w, w != ""
	}))
	if len(patterns) == 0 {
		return &Moderator{mask: mask}, nil
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(lo.Map(patterns, func(p string, _ int) []rune { return []rune(p) })); err != nil {
		return nil, err
	}
	return &Moderator{matcher: m, mask: mask}, nil
}

// Censor returns text with every censored word masked, plus the words that were found.
func (m *Moderator) Censor(text string) (string, []string) {
	if m.matcher == nil || text == "" {
		return text, nil
	}

	original := []rune(text)
	lowered := lo.Map(original, func(r rune, _ int) rune { return unicode.ToLower(r) })

	var found []string
	for _, term := range m.matcher.MultiPatternSearch(lowered, false) {
		start, end := term.Pos, term.Pos+len(term.Word)
		if start < 0 || end > len(original) || !wordBoundary(original, start, end) {
			continue
		}
		for i := start; i < end; i++ {
			original[i] = m.mask
		}
		found = append(found, string(term.Word))
	}
	return string(original), lo.Uniq(found)
}

func wordBoundary(text []rune, start, end int) bool {
	before := start == 0 || !isWordRune(text[start-1])
	after := end == len(text) || !isWordRune(text[end])
	return before && after
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
