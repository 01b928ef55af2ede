package catalog

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/dshills/snipstorm/internal/trigger"
)

// DefaultRegexWindow is how many trailing characters regex triggers
// are matched against when no size is configured.
const DefaultRegexWindow = 30

// Candidate is one literal trigger form the matcher compares against
// the buffer suffix. Propagate-case triggers contribute additional
// candidates for their uppercase and capitalized typed forms.
type Candidate struct {
	// Text is the literal form. Lowercased when Fold is set,
	// otherwise compared exactly as declared.
	Text []rune

	// Fold enables case-insensitive comparison against the buffer.
	Fold bool

	// Trigger is the owning trigger.
	Trigger *trigger.Trigger

	// Order is the declaration position, for specificity tie-breaks.
	Order int
}

// RegexTrigger is a compiled regex trigger. The pattern is anchored
// to the end of the buffer so a match always ends at the character
// that was just typed.
type RegexTrigger struct {
	// Pattern is the compiled, end-anchored expression.
	Pattern *regexp.Regexp

	// Trigger is the owning trigger.
	Trigger *trigger.Trigger

	// Order is the declaration position.
	Order int
}

// Options tune catalog construction.
type Options struct {
	// RegexWindow is the number of trailing characters regex triggers
	// see. Zero means DefaultRegexWindow.
	RegexWindow int
}

// Catalog is an immutable, match-ready trigger set.
type Catalog struct {
	triggers []*trigger.Trigger
	byID     map[int]*trigger.Trigger
	byText   map[string]*trigger.Trigger
	globals  map[string]*trigger.Variable

	// plain holds candidates that complete on their own final
	// character; deferred holds right-boundary candidates that
	// complete when a non-word character follows them. Both are
	// keyed by the candidate's final character and sorted by
	// specificity.
	plain    map[rune][]Candidate
	deferred map[rune][]Candidate

	regexes []RegexTrigger

	bufferLen int
}

// Build validates the trigger definitions and constructs a catalog.
// Declaration order of the slice is the specificity tie-break of last
// resort, so loaders must preserve file order.
func Build(triggers []*trigger.Trigger, globals []trigger.Variable, opts Options) (*Catalog, error) {
	window := opts.RegexWindow
	if window <= 0 {
		window = DefaultRegexWindow
	}

	c := &Catalog{
		triggers: triggers,
		byID:     make(map[int]*trigger.Trigger, len(triggers)),
		byText:   make(map[string]*trigger.Trigger),
		globals:  make(map[string]*trigger.Variable, len(globals)),
		plain:    make(map[rune][]Candidate),
		deferred: make(map[rune][]Candidate),
	}

	for i := range globals {
		g := &globals[i]
		if _, dup := c.globals[g.Name]; dup {
			return nil, fmt.Errorf("global %q: %w", g.Name, ErrDuplicateGlobal)
		}
		c.globals[g.Name] = g
	}

	maxLen := 0
	for order, t := range triggers {
		if err := validate(t); err != nil {
			return nil, &BuildError{Trigger: t.Description(), Err: err}
		}
		c.byID[t.ID] = t

		if t.IsRegex() {
			re, err := regexp.Compile("(?:" + t.Regex + `)\z`)
			if err != nil {
				return nil, &BuildError{Trigger: t.Regex, Err: err}
			}
			c.regexes = append(c.regexes, RegexTrigger{Pattern: re, Trigger: t, Order: order})
			continue
		}

		for _, text := range t.Triggers {
			if _, seen := c.byText[text]; !seen {
				c.byText[text] = t
			}
			for _, form := range typedForms(text, t.PropagateCase, t.CaseInsensitive) {
				runes := []rune(form)
				if t.CaseInsensitive {
					runes = []rune(strings.ToLower(form))
				}
				if len(runes) > maxLen {
					maxLen = len(runes)
				}
				cand := Candidate{Text: runes, Fold: t.CaseInsensitive, Trigger: t, Order: order}
				last := runes[len(runes)-1]
				if t.Boundary.Right() {
					c.deferred[last] = append(c.deferred[last], cand)
				} else {
					c.plain[last] = append(c.plain[last], cand)
				}
			}
		}
	}

	for _, m := range []map[rune][]Candidate{c.plain, c.deferred} {
		for _, list := range m {
			sortCandidates(list)
		}
	}

	if len(c.regexes) > 0 && window > maxLen {
		c.bufferLen = window
	} else {
		c.bufferLen = maxLen
	}

	return c, nil
}

func validate(t *trigger.Trigger) error {
	switch {
	case len(t.Triggers) == 0 && t.Regex == "":
		return ErrNoCause
	case len(t.Triggers) > 0 && t.Regex != "":
		return ErrBothCauses
	case t.Template == nil:
		return ErrNoTemplate
	}
	for _, text := range t.Triggers {
		if text == "" {
			return ErrEmptyTrigger
		}
	}
	seen := make(map[string]struct{}, len(t.Template.Vars))
	for _, v := range t.Template.Vars {
		if _, dup := seen[v.Name]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateVar, v.Name)
		}
		seen[v.Name] = struct{}{}
	}
	return nil
}

// typedForms returns the literal forms a trigger can be typed in.
// Propagate-case triggers additionally match their fully uppercased
// and first-letter-capitalized forms. Case-insensitive triggers match
// every capitalization already, so one folded form suffices.
func typedForms(text string, propagateCase, caseInsensitive bool) []string {
	forms := []string{text}
	if !propagateCase || caseInsensitive {
		return forms
	}
	upper := strings.ToUpper(text)
	if upper != text {
		forms = append(forms, upper)
	}
	capitalized := capitalizeFirstAlpha(text)
	if capitalized != text && capitalized != upper {
		forms = append(forms, capitalized)
	}
	return forms
}

// capitalizeFirstAlpha uppercases the first alphabetic rune, leaving
// any leading punctuation (":btw" style prefixes) untouched.
func capitalizeFirstAlpha(text string) string {
	runes := []rune(text)
	for i, r := range runes {
		if unicode.IsLetter(r) {
			runes[i] = unicode.ToUpper(r)
			break
		}
	}
	return string(runes)
}

// sortCandidates orders a candidate list by specificity: longer form
// first, then higher priority, then earlier declaration.
func sortCandidates(list []Candidate) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if len(a.Text) != len(b.Text) {
			return len(a.Text) > len(b.Text)
		}
		if a.Trigger.Priority != b.Trigger.Priority {
			return a.Trigger.Priority > b.Trigger.Priority
		}
		return a.Order < b.Order
	})
}

// Triggers returns the triggers in declaration order.
func (c *Catalog) Triggers() []*trigger.Trigger { return c.triggers }

// Get returns the trigger with the given id.
func (c *Catalog) Get(id int) (*trigger.Trigger, bool) {
	t, ok := c.byID[id]
	return t, ok
}

// CandidatesEndingIn returns the literal candidates whose final
// character is r, most specific first.
func (c *Catalog) CandidatesEndingIn(r rune) []Candidate {
	return c.plain[r]
}

// DeferredEndingIn returns right-boundary candidates whose final
// character is r. They complete when a non-word character follows.
func (c *Catalog) DeferredEndingIn(r rune) []Candidate {
	return c.deferred[r]
}

// Regexes returns the compiled regex triggers in declaration order.
func (c *Catalog) Regexes() []RegexTrigger { return c.regexes }

// BufferLen is the rolling-buffer size the matcher needs: the longest
// literal form, or the regex window when regex triggers are present
// and need more.
func (c *Catalog) BufferLen() int { return c.bufferLen }

// GlobalVar returns the global variable with the given name.
func (c *Catalog) GlobalVar(name string) (*trigger.Variable, bool) {
	v, ok := c.globals[name]
	return v, ok
}

// SubTemplate returns the template of the trigger declared for the
// given literal trigger text, for nested match rendering.
func (c *Catalog) SubTemplate(text string) (*trigger.Template, bool) {
	t, ok := c.byText[text]
	if !ok {
		return nil, false
	}
	return t.Template, true
}
