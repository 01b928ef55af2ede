package trigger

// CaseStyle is the capitalization transform detected from the typed
// text of a propagate-case trigger, applied to the rendered output.
type CaseStyle int

const (
	// CaseNone leaves the output unchanged.
	CaseNone CaseStyle = iota

	// CaseUppercase uppercases the whole output.
	CaseUppercase

	// CaseCapitalize uppercases the first letter of the output.
	CaseCapitalize

	// CaseCapitalizeWords uppercases the first letter of every word.
	CaseCapitalizeWords
)

// String returns the case style name.
func (c CaseStyle) String() string {
	switch c {
	case CaseUppercase:
		return "uppercase"
	case CaseCapitalize:
		return "capitalize"
	case CaseCapitalizeWords:
		return "capitalize_words"
	default:
		return "none"
	}
}

// MatchEvent records the completion of a trigger at a point in a
// keystroke stream. It is transient: created by the matcher, consumed
// by the render path, then discarded.
type MatchEvent struct {
	// TriggerID identifies the matched trigger in the catalog.
	TriggerID int

	// ContextID identifies the input context the match occurred in.
	ContextID string

	// Typed is the text the user actually typed for the matched span,
	// in its original capitalization. For regex triggers this is the
	// full matched span, whose length may differ per match.
	Typed string

	// Trailing counts typed characters after the matched span that
	// must also be deleted (the separator that completed a
	// right-boundary trigger).
	Trailing int

	// Case is the capitalization transform to apply during rendering.
	// CaseNone unless the trigger propagates case.
	Case CaseStyle

	// Args holds named capture groups from a regex trigger.
	Args map[string]string

	// Sequence is a monotonically increasing number per context,
	// assigned in feed order.
	Sequence uint64

	// Generation is the context generation the match belongs to.
	// A reset of the context starts a new generation; results rendered
	// for an older generation must be discarded, not injected.
	Generation uint64
}

// Deletions returns how many characters the frontend must erase
// before inserting the rendered output.
func (e *MatchEvent) Deletions() int {
	n := 0
	for range e.Typed {
		n++
	}
	return n + e.Trailing
}
