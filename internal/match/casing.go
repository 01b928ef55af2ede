package match

import (
	"unicode"

	"github.com/dshills/snipstorm/internal/trigger"
)

// DetectCaseStyle derives the output capitalization from the typed
// form of a propagate-case trigger. The first two alphabetic
// characters decide: both uppercase means the whole output is
// uppercased; only the first uppercase means the output is
// capitalized, steered by the trigger's preferred style; anything
// else leaves the output unchanged.
func DetectCaseStyle(typed string, style trigger.UppercaseStyle) trigger.CaseStyle {
	var first, second rune
	haveFirst, haveSecond := false, false

	for _, r := range typed {
		if !unicode.IsLetter(r) {
			continue
		}
		if !haveFirst {
			first, haveFirst = r, true
			continue
		}
		second, haveSecond = r, true
		break
	}

	switch {
	case !haveFirst:
		return trigger.CaseNone
	case !haveSecond:
		if !unicode.IsUpper(first) {
			return trigger.CaseNone
		}
		switch style {
		case trigger.StyleCapitalize:
			return trigger.CaseCapitalize
		case trigger.StyleCapitalizeWords:
			return trigger.CaseCapitalizeWords
		default:
			return trigger.CaseUppercase
		}
	case unicode.IsUpper(first) && unicode.IsUpper(second):
		return trigger.CaseUppercase
	case unicode.IsUpper(first):
		if style == trigger.StyleCapitalizeWords {
			return trigger.CaseCapitalizeWords
		}
		return trigger.CaseCapitalize
	default:
		return trigger.CaseNone
	}
}
