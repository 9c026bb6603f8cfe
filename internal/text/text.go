// Package text provides normalization helpers shared by the parsers.
package text

import (
	"regexp"
	"strings"

	"github.com/clipperhouse/uax29/v2/sentences"
)

var (
	// spacePattern collapses any whitespace run to a single space.
	spacePattern = regexp.MustCompile(`\s+`)
	// markupPattern matches inline markup tags embedded in text.
	markupPattern = regexp.MustCompile(`<.*?>`)
)

// Clean removes newlines and extra spacing from text. Idempotent.
func Clean(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")

	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}

// StripMarkup removes inline markup tags from a text fragment,
// leaving the surrounding text untouched.
func StripMarkup(s string) string {
	return markupPattern.ReplaceAllString(s, "")
}

// Sentences splits a normalized text block into an ordered list of
// sentences. Boundary detection follows UAX #29; whitespace-only
// tokens are dropped.
func Sentences(s string) []string {
	var out []string

	tokens := sentences.FromString(s)
	for tokens.Next() {
		if v := strings.TrimSpace(tokens.Value()); v != "" {
			out = append(out, v)
		}
	}

	return out
}
