package match

import (
	"testing"

	"github.com/dshills/snipstorm/internal/catalog"
	"github.com/dshills/snipstorm/internal/trigger"
)

func buildStore(t *testing.T, triggers []*trigger.Trigger) *catalog.Store {
	t.Helper()
	cat, err := catalog.Build(triggers, nil, catalog.Options{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return catalog.NewStore(cat)
}

func literal(id int, text string) *trigger.Trigger {
	return &trigger.Trigger{
		ID:       id,
		Triggers: []string{text},
		Template: &trigger.Template{Body: "expanded"},
	}
}

// feed pushes a string through the matcher and returns the last event.
func feed(m *Matcher, contextID, s string) (*trigger.MatchEvent, int) {
	var last *trigger.MatchEvent
	fired := 0
	for _, r := range s {
		if ev, ok := m.Feed(contextID, r); ok {
			last = ev
			fired++
		}
	}
	return last, fired
}

func TestFeedLiteralMatch(t *testing.T) {
	m := New(buildStore(t, []*trigger.Trigger{literal(0, ":sig")}))

	ev, fired := feed(m, "ctx", "hello :sig")
	if fired != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}
	if ev.TriggerID != 0 {
		t.Errorf("TriggerID = %d, want 0", ev.TriggerID)
	}
	if ev.Typed != ":sig" {
		t.Errorf("Typed = %q, want %q", ev.Typed, ":sig")
	}
	if ev.Deletions() != 4 {
		t.Errorf("Deletions() = %d, want 4", ev.Deletions())
	}
}

func TestFeedNoMatch(t *testing.T) {
	m := New(buildStore(t, []*trigger.Trigger{literal(0, ":sig")}))

	if _, fired := feed(m, "ctx", "nothing here"); fired != 0 {
		t.Errorf("fired = %d, want 0", fired)
	}
}

func TestFeedLongestSpanWins(t *testing.T) {
	short := literal(0, "b")
	long := literal(1, "ab")
	m := New(buildStore(t, []*trigger.Trigger{short, long}))

	ev, _ := feed(m, "ctx", "ab")
	if ev == nil {
		t.Fatal("no match")
	}
	if ev.TriggerID != 1 {
		t.Errorf("TriggerID = %d, want 1 (longer span)", ev.TriggerID)
	}
}

func TestFeedPriorityBreaksTies(t *testing.T) {
	low := literal(0, ":x")
	high := literal(1, ":x")
	high.Priority = 5
	m := New(buildStore(t, []*trigger.Trigger{low, high}))

	ev, _ := feed(m, "ctx", ":x")
	if ev == nil {
		t.Fatal("no match")
	}
	if ev.TriggerID != 1 {
		t.Errorf("TriggerID = %d, want 1 (higher priority)", ev.TriggerID)
	}
}

func TestFeedDeclarationOrderBreaksTies(t *testing.T) {
	first := literal(0, ":x")
	second := literal(1, ":x")
	m := New(buildStore(t, []*trigger.Trigger{first, second}))

	ev, _ := feed(m, "ctx", ":x")
	if ev == nil {
		t.Fatal("no match")
	}
	if ev.TriggerID != 0 {
		t.Errorf("TriggerID = %d, want 0 (declared first)", ev.TriggerID)
	}
}

func TestFeedMatchClearsBuffer(t *testing.T) {
	m := New(buildStore(t, []*trigger.Trigger{literal(0, "aa")}))

	_, fired := feed(m, "ctx", "aaaa")
	if fired != 2 {
		t.Errorf("fired = %d, want 2 (buffer restarts after each match)", fired)
	}
}

func TestFeedLeftBoundary(t *testing.T) {
	cat := literal(0, "cat")
	cat.Boundary = trigger.BoundaryLeft

	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "standalone", input: "cat", want: 1},
		{name: "after space", input: "a cat", want: 1},
		{name: "inside word", input: "concat", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(buildStore(t, []*trigger.Trigger{cat}))
			if _, fired := feed(m, "ctx", tt.input); fired != tt.want {
				t.Errorf("fired = %d, want %d", fired, tt.want)
			}
		})
	}
}

func TestFeedRightBoundaryDefersUntilSeparator(t *testing.T) {
	cat := literal(0, "cat")
	cat.Boundary = trigger.BoundaryRight
	m := New(buildStore(t, []*trigger.Trigger{cat}))

	if _, fired := feed(m, "ctx", "cat"); fired != 0 {
		t.Fatalf("fired before separator = %d, want 0", fired)
	}

	ev, ok := m.Feed("ctx", '.')
	if !ok {
		t.Fatal("no match on separator")
	}
	if ev.Trailing != 1 {
		t.Errorf("Trailing = %d, want 1", ev.Trailing)
	}
	if ev.Deletions() != 4 {
		t.Errorf("Deletions() = %d, want 4 (trigger plus separator)", ev.Deletions())
	}
}

func TestFeedRightBoundaryRejectsWordChar(t *testing.T) {
	cat := literal(0, "cat")
	cat.Boundary = trigger.BoundaryBoth
	m := New(buildStore(t, []*trigger.Trigger{cat}))

	if _, fired := feed(m, "ctx", "catalog"); fired != 0 {
		t.Errorf("fired = %d, want 0 (followed by word characters)", fired)
	}
}

func TestFeedCaseInsensitive(t *testing.T) {
	btw := literal(0, ":btw")
	btw.CaseInsensitive = true
	m := New(buildStore(t, []*trigger.Trigger{btw}))

	ev, _ := feed(m, "ctx", ":BtW")
	if ev == nil {
		t.Fatal("no match")
	}
	if ev.Typed != ":BtW" {
		t.Errorf("Typed = %q, want %q (original capitalization)", ev.Typed, ":BtW")
	}
}

func TestFeedPropagateCase(t *testing.T) {
	btw := literal(0, ":btw")
	btw.PropagateCase = true

	tests := []struct {
		input string
		want  trigger.CaseStyle
	}{
		{input: ":btw", want: trigger.CaseNone},
		{input: ":Btw", want: trigger.CaseCapitalize},
		{input: ":BTW", want: trigger.CaseUppercase},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			m := New(buildStore(t, []*trigger.Trigger{btw}))
			ev, _ := feed(m, "ctx", tt.input)
			if ev == nil {
				t.Fatal("no match")
			}
			if ev.Case != tt.want {
				t.Errorf("Case = %v, want %v", ev.Case, tt.want)
			}
			if ev.Typed != tt.input {
				t.Errorf("Typed = %q, want %q", ev.Typed, tt.input)
			}
		})
	}
}

func TestFeedPropagateCaseMixedDoesNotMatch(t *testing.T) {
	btw := literal(0, ":btw")
	btw.PropagateCase = true
	m := New(buildStore(t, []*trigger.Trigger{btw}))

	// Only the declared, uppercased, and capitalized forms match.
	if _, fired := feed(m, "ctx", ":bTw"); fired != 0 {
		t.Errorf("fired = %d, want 0", fired)
	}
}

func TestFeedRegexCaptures(t *testing.T) {
	greet := &trigger.Trigger{
		ID:       0,
		Regex:    `:greet\((?P<name>\w+)\)`,
		Template: &trigger.Template{Body: "Hi {{name}}!"},
	}
	m := New(buildStore(t, []*trigger.Trigger{greet}))

	ev, _ := feed(m, "ctx", "say :greet(bob)")
	if ev == nil {
		t.Fatal("no match")
	}
	if ev.Typed != ":greet(bob)" {
		t.Errorf("Typed = %q, want %q", ev.Typed, ":greet(bob)")
	}
	if got := ev.Args["name"]; got != "bob" {
		t.Errorf(`Args["name"] = %q, want %q`, got, "bob")
	}
	if ev.Deletions() != 11 {
		t.Errorf("Deletions() = %d, want 11", ev.Deletions())
	}
}

func TestFeedRegexSpanVaries(t *testing.T) {
	greet := &trigger.Trigger{
		ID:       0,
		Regex:    `:greet\((?P<name>\w+)\)`,
		Template: &trigger.Template{Body: "Hi {{name}}!"},
	}
	m := New(buildStore(t, []*trigger.Trigger{greet}))

	ev, _ := feed(m, "ctx", ":greet(alexandra)")
	if ev == nil {
		t.Fatal("no match")
	}
	if got := ev.Deletions(); got != 17 {
		t.Errorf("Deletions() = %d, want 17", got)
	}
}

func TestResetClearsPartialInput(t *testing.T) {
	m := New(buildStore(t, []*trigger.Trigger{literal(0, ":sig")}))

	feed(m, "ctx", ":si")
	m.Reset("ctx")

	if _, ok := m.Feed("ctx", 'g'); ok {
		t.Error("matched across a reset")
	}
}

func TestResetBumpsGeneration(t *testing.T) {
	m := New(buildStore(t, []*trigger.Trigger{literal(0, ":sig")}))

	before := m.Generation("ctx")
	m.Reset("ctx")
	if got := m.Generation("ctx"); got != before+1 {
		t.Errorf("Generation = %d, want %d", got, before+1)
	}
}

func TestContextsAreIndependent(t *testing.T) {
	m := New(buildStore(t, []*trigger.Trigger{literal(0, ":sig")}))

	feed(m, "a", ":si")
	feed(m, "b", ":si")
	m.Reset("a")

	if _, ok := m.Feed("a", 'g'); ok {
		t.Error("context a matched after its reset")
	}
	if _, ok := m.Feed("b", 'g'); !ok {
		t.Error("context b should be unaffected by resetting a")
	}
}

func TestFeedSequenceIncreases(t *testing.T) {
	m := New(buildStore(t, []*trigger.Trigger{literal(0, ":a"), literal(1, ":b")}))

	m.Feed("ctx", ':')
	ev1, ok := m.Feed("ctx", 'a')
	if !ok {
		t.Fatal("no match for :a")
	}
	m.Feed("ctx", ':')
	ev2, ok := m.Feed("ctx", 'b')
	if !ok {
		t.Fatal("no match for :b")
	}
	if ev2.Sequence <= ev1.Sequence {
		t.Errorf("Sequence = %d then %d, want increasing", ev1.Sequence, ev2.Sequence)
	}
}

func TestFeedBufferTrimsToCatalogLimit(t *testing.T) {
	m := New(buildStore(t, []*trigger.Trigger{literal(0, ":sig")}))

	// Plenty of noise first; the rolling buffer must still hold the
	// whole trigger when it arrives.
	ev, fired := feed(m, "ctx", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa:sig")
	if fired != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}
	if ev.Typed != ":sig" {
		t.Errorf("Typed = %q, want %q", ev.Typed, ":sig")
	}
}

func TestCatalogSwapAppliesToNextFeed(t *testing.T) {
	store := buildStore(t, []*trigger.Trigger{literal(0, ":old")})
	m := New(store)

	cat, err := catalog.Build([]*trigger.Trigger{literal(0, ":new")}, nil, catalog.Options{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	store.Replace(cat)

	if _, fired := feed(m, "ctx", ":old"); fired != 0 {
		t.Error(":old still matches after replace")
	}
	if _, fired := feed(m, "ctx", ":new"); fired != 1 {
		t.Error(":new does not match after replace")
	}
}
