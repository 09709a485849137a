// Package metrics derives size features from prompt text. Only counts leave
// this package; the text itself is never retained or emitted.
package metrics

import (
	"strings"
	"unicode/utf8"
)

// PromptFeatures summarizes a prompt's shape.
type PromptFeatures struct {
	Bytes        int
	Runes        int
	Words        int
	Lines        int
	MaxLineRunes int
}

// SummarizePrompt computes byte, rune, word, and line counts plus the rune
// length of the longest line. Words split on Unicode whitespace; an empty
// prompt has zero lines, otherwise a trailing newline opens a final empty
// line.
func SummarizePrompt(s string) PromptFeatures {
	f := PromptFeatures{
		Bytes: len(s),
		Runes: utf8.RuneCountInString(s),
		Words: len(strings.Fields(s)),
	}
	if s == "" {
		return f
	}
	for _, line := range strings.Split(s, "\n") {
		f.Lines++
		if n := utf8.RuneCountInString(line); n > f.MaxLineRunes {
			f.MaxLineRunes = n
		}
	}
	return f
}
