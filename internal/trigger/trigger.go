package trigger

// WordBoundary controls which sides of a trigger must sit on a word
// boundary for the match to be accepted.
type WordBoundary int

const (
	// BoundaryNone places no boundary requirement on the trigger.
	BoundaryNone WordBoundary = iota

	// BoundaryLeft requires the character before the trigger to be a
	// non-word character (or the start of input).
	BoundaryLeft

	// BoundaryRight requires a non-word character to be typed after
	// the trigger before the match completes.
	BoundaryRight

	// BoundaryBoth combines BoundaryLeft and BoundaryRight.
	BoundaryBoth
)

// Left reports whether the left side must be a word boundary.
func (wb WordBoundary) Left() bool {
	return wb == BoundaryLeft || wb == BoundaryBoth
}

// Right reports whether the right side must be a word boundary.
func (wb WordBoundary) Right() bool {
	return wb == BoundaryRight || wb == BoundaryBoth
}

// String returns the boundary name.
func (wb WordBoundary) String() string {
	switch wb {
	case BoundaryLeft:
		return "left"
	case BoundaryRight:
		return "right"
	case BoundaryBoth:
		return "both"
	default:
		return "none"
	}
}

// UppercaseStyle is the preferred rendering style for a trigger whose
// typed form was capitalized (first letter uppercase, rest lowercase).
type UppercaseStyle int

const (
	// StyleUppercase renders the whole output uppercase.
	StyleUppercase UppercaseStyle = iota

	// StyleCapitalize capitalizes only the first letter of the output.
	StyleCapitalize

	// StyleCapitalizeWords capitalizes the first letter of every word.
	StyleCapitalizeWords
)

// String returns the style name.
func (s UppercaseStyle) String() string {
	switch s {
	case StyleCapitalize:
		return "capitalize"
	case StyleCapitalizeWords:
		return "capitalize_words"
	default:
		return "uppercase"
	}
}

// Trigger is one expansion rule: a set of literal trigger strings or a
// regular expression, plus the template that replaces the typed text.
type Trigger struct {
	// ID uniquely identifies the trigger within its catalog.
	ID int

	// Triggers are the literal strings that cause this expansion.
	// A trigger may declare several (e.g. ":date" and ":today").
	// Empty when Regex is set.
	Triggers []string

	// Regex is a regular expression matched against the tail of the
	// typed input. Named capture groups become match arguments.
	// Empty when Triggers is set.
	Regex string

	// Boundary is the word-boundary requirement for literal triggers.
	Boundary WordBoundary

	// CaseInsensitive makes literal triggers match regardless of the
	// capitalization the user typed.
	CaseInsensitive bool

	// PropagateCase mirrors the capitalization of the typed trigger
	// onto the rendered output. Triggers with this flag also match
	// their uppercase and capitalized typed forms.
	PropagateCase bool

	// Style steers how a capitalized typed form is rendered when
	// PropagateCase is set.
	Style UppercaseStyle

	// Priority breaks specificity ties between triggers whose matched
	// spans have equal length. Higher wins. Default 0.
	Priority int

	// Label is an optional human-readable description.
	Label string

	// Template is the replacement content.
	Template *Template
}

// IsRegex reports whether this trigger matches by regular expression.
func (t *Trigger) IsRegex() bool {
	return t.Regex != ""
}

// Description returns the label if present, otherwise the first
// trigger string or the regex.
func (t *Trigger) Description() string {
	if t.Label != "" {
		return t.Label
	}
	if len(t.Triggers) > 0 {
		return t.Triggers[0]
	}
	return t.Regex
}
