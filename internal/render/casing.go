package render

import (
	"regexp"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dshills/snipstorm/internal/trigger"
)

var wordRE = regexp.MustCompile(`\w+`)

// applyCase applies the match event's capitalization transform to the
// rendered text. This runs last, after all substitution.
func applyCase(text string, style trigger.CaseStyle) string {
	switch style {
	case trigger.CaseUppercase:
		return cases.Upper(language.Und).String(text)
	case trigger.CaseCapitalize:
		return capitalizeFirst(text)
	case trigger.CaseCapitalizeWords:
		return wordRE.ReplaceAllStringFunc(text, capitalizeFirst)
	default:
		return text
	}
}

// capitalizeFirst uppercases the first rune, leaving the rest alone.
func capitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return cases.Upper(language.Und).String(string(r)) + s[size:]
}
