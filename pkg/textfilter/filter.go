// Package textfilter cleans the formatting artifacts text-generation
// backends leave in quiz content: markdown emphasis, LaTeX math wrappers,
// code fences, smart quotes, and leading answer-choice labels.
package textfilter

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	codeFence   = regexp.MustCompile("(?s)```[a-zA-Z]*\n?(.*?)```")
	inlineCode  = regexp.MustCompile("`([^`]*)`")
	boldItalic  = regexp.MustCompile(`\*{1,3}([^*]+)\*{1,3}`)
	underscore  = regexp.MustCompile(`_{1,3}([^_]+)_{1,3}`)
	heading     = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	latexParen  = regexp.MustCompile(`\\\((.*?)\\\)`)
	latexSquare = regexp.MustCompile(`\\\[(.*?)\\\]`)
	latexDollar = regexp.MustCompile(`\$([^$]+)\$`)
	choiceLabel = regexp.MustCompile(`^\s*(?:[A-Da-d][.)]|[1-4][.)])\s+`)
	whitespace  = regexp.MustCompile(`\s+`)
)

var quoteReplacer = strings.NewReplacer(
	"“", `"`,
	"”", `"`,
	"‘", "'",
	"’", "'",
	"–", "-",
	"—", "-",
	" ", " ",
)

// Sanitizer strips generation artifacts from quiz text. It is stateless and
// safe for concurrent use.
type Sanitizer struct {
	titleCaser cases.Caser
}

// NewSanitizer creates a sanitizer for English-language quiz content.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{
		titleCaser: cases.Title(language.English),
	}
}

// Clean removes markdown and LaTeX formatting, normalizes typographic
// punctuation, and collapses runs of whitespace.
func (s *Sanitizer) Clean(text string) string {
	out := codeFence.ReplaceAllString(text, "$1")
	out = inlineCode.ReplaceAllString(out, "$1")
	out = boldItalic.ReplaceAllString(out, "$1")
	out = underscore.ReplaceAllString(out, "$1")
	out = heading.ReplaceAllString(out, "")
	out = latexParen.ReplaceAllString(out, "$1")
	out = latexSquare.ReplaceAllString(out, "$1")
	out = latexDollar.ReplaceAllString(out, "$1")
	out = quoteReplacer.Replace(out)
	out = whitespace.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// CleanChoice cleans an answer choice and strips any leading "A)" or "1."
// style label the backend added despite instructions. Choices that come back
// shouting in all caps are folded to title case.
func (s *Sanitizer) CleanChoice(choice string) string {
	out := s.Clean(choice)
	out = choiceLabel.ReplaceAllString(out, "")
	out = strings.TrimSpace(out)

	if isShouting(out) {
		out = s.titleCaser.String(strings.ToLower(out))
	}
	return out
}

// isShouting reports whether text is all caps with at least two letters.
func isShouting(text string) bool {
	letters := 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			letters++
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return letters >= 2
}
