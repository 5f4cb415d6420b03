// Package query turns free-text questions into structured intents and
// entities.
package query

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9\s]`)

// Normalize lowercases text and strips every character that is not a letter,
// digit or whitespace. Idempotent. Machine ID extraction runs on the raw
// string instead, so case and punctuation there are unaffected.
func Normalize(text string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(text), "")
}
