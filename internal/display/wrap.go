package display

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const DefaultWidth = 80

// Wrap word-wraps text to DefaultWidth, preserving ANSI escape sequences.
func Wrap(text string) string {
	return WrapWidth(text, DefaultWidth)
}

// WrapWidth word-wraps each line of text to width. Width 0 disables wrapping.
func WrapWidth(text string, width int) string {
	if width <= 0 {
		return text
	}
	return wordwrap.String(text, width)
}

var titleCaser = cases.Title(language.English)

// Capitalize returns a player name with its first letter uppercased and
// the rest lowercased.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return titleCaser.String(strings.ToLower(s))
}
