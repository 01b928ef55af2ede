package match

import (
	"sync"
	"unicode"

	"github.com/dshills/snipstorm/internal/catalog"
	"github.com/dshills/snipstorm/internal/trigger"
)

// Matcher detects trigger completions in live keystroke streams. One
// matcher serves any number of input contexts, each with its own
// rolling buffer, sequence counter, and generation.
type Matcher struct {
	store *catalog.Store

	mu       sync.RWMutex
	contexts map[string]*contextState
}

// contextState is the per-context matching state. Exclusively owned
// by the goroutine feeding that context; the map above is the only
// shared structure.
type contextState struct {
	mu  sync.Mutex
	buf []rune
	seq uint64
	gen uint64
}

// New creates a matcher reading trigger snapshots from the store.
func New(store *catalog.Store) *Matcher {
	return &Matcher{
		store:    store,
		contexts: make(map[string]*contextState),
	}
}

// Feed appends one typed character to the context's buffer and
// reports whether a trigger just completed. The returned event, if
// any, must be handed to the render path; matching itself performs no
// extension evaluation and never blocks.
func (m *Matcher) Feed(contextID string, r rune) (*trigger.MatchEvent, bool) {
	snap := m.store.Current()
	ctx := m.context(contextID)

	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	ctx.seq++

	// Room for the longest form plus the separator that completes a
	// right-boundary trigger.
	limit := snap.BufferLen() + 1
	ctx.buf = append(ctx.buf, r)
	if len(ctx.buf) > limit {
		copy(ctx.buf, ctx.buf[len(ctx.buf)-limit:])
		ctx.buf = ctx.buf[:limit]
	}

	best, ok := m.detect(snap, ctx.buf, r)
	if !ok {
		return nil, false
	}

	ev := &trigger.MatchEvent{
		TriggerID:  best.trig.ID,
		ContextID:  contextID,
		Typed:      best.typed,
		Trailing:   best.trailing,
		Args:       best.args,
		Sequence:   ctx.seq,
		Generation: ctx.gen,
	}
	if best.trig.PropagateCase {
		ev.Case = DetectCaseStyle(best.typed, best.trig.Style)
	}

	// The frontend erases the typed trigger and injects the rendered
	// text, so the buffered characters no longer reflect what is on
	// screen. Start clean.
	ctx.buf = ctx.buf[:0]

	return ev, true
}

// Reset clears the context's buffer and starts a new generation.
// Frontends call this on focus change or non-character input; render
// results belonging to earlier generations must not be injected.
func (m *Matcher) Reset(contextID string) {
	ctx := m.context(contextID)
	ctx.mu.Lock()
	ctx.buf = ctx.buf[:0]
	ctx.gen++
	ctx.mu.Unlock()
}

// Generation returns the context's current generation.
func (m *Matcher) Generation(contextID string) uint64 {
	ctx := m.context(contextID)
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	return ctx.gen
}

func (m *Matcher) context(id string) *contextState {
	m.mu.RLock()
	ctx, ok := m.contexts[id]
	m.mu.RUnlock()
	if ok {
		return ctx
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if ctx, ok = m.contexts[id]; ok {
		return ctx
	}
	ctx = &contextState{}
	m.contexts[id] = ctx
	return ctx
}

// detected is one trigger completion competing for selection.
type detected struct {
	trig     *trigger.Trigger
	typed    string
	trailing int
	span     int
	order    int
	args     map[string]string
}

// better reports whether a beats b under the specificity order:
// longer matched span, then higher priority, then earlier declaration.
func better(a, b *detected) bool {
	if b == nil {
		return true
	}
	if a.span != b.span {
		return a.span > b.span
	}
	if a.trig.Priority != b.trig.Priority {
		return a.trig.Priority > b.trig.Priority
	}
	return a.order < b.order
}

// detect finds the most specific trigger that just completed, if any.
func (m *Matcher) detect(snap *catalog.Catalog, buf []rune, r rune) (*detected, bool) {
	var best *detected

	// Literal triggers completing on the character just typed.
	if d := firstLiteral(snap.CandidatesEndingIn(r), buf, len(buf), 0); d != nil && better(d, best) {
		best = d
	}
	if low := unicode.ToLower(r); low != r {
		if d := firstLiteral(snap.CandidatesEndingIn(low), buf, len(buf), 0); d != nil && better(d, best) {
			best = d
		}
	}

	// Right-boundary triggers complete when a non-word character
	// follows them; the separator itself is part of the deletion.
	if !isWordChar(r) && len(buf) >= 2 {
		prev := buf[len(buf)-2]
		if d := firstLiteral(snap.DeferredEndingIn(prev), buf, len(buf)-1, 1); d != nil && better(d, best) {
			best = d
		}
		if low := unicode.ToLower(prev); low != prev {
			if d := firstLiteral(snap.DeferredEndingIn(low), buf, len(buf)-1, 1); d != nil && better(d, best) {
				best = d
			}
		}
	}

	if d := m.regexMatch(snap, buf); d != nil && better(d, best) {
		best = d
	}

	return best, best != nil
}

// firstLiteral returns the first candidate in the specificity-sorted
// list that matches the buffer suffix ending at end and passes its
// word-boundary check. A boundary rejection does not stop the scan.
func firstLiteral(cands []catalog.Candidate, buf []rune, end, trailing int) *detected {
	for i := range cands {
		c := &cands[i]
		n := len(c.Text)
		if n > end {
			continue
		}
		if !suffixEqual(buf[:end], c.Text, c.Fold) {
			continue
		}
		if c.Trigger.Boundary.Left() && end-n > 0 && isWordChar(buf[end-n-1]) {
			continue
		}
		return &detected{
			trig:     c.Trigger,
			typed:    string(buf[end-n : end]),
			trailing: trailing,
			span:     n,
			order:    c.Order,
		}
	}
	return nil
}

// regexMatch evaluates all regex triggers against the buffer. The
// patterns are end-anchored at catalog build time, so any match ends
// at the character just typed; the matched span length is whatever
// the expression consumed, not a fixed trigger length.
func (m *Matcher) regexMatch(snap *catalog.Catalog, buf []rune) *detected {
	regexes := snap.Regexes()
	if len(regexes) == 0 {
		return nil
	}
	tail := string(buf)

	var best *detected
	for i := range regexes {
		rt := &regexes[i]
		sub := rt.Pattern.FindStringSubmatch(tail)
		if sub == nil || sub[0] == "" {
			continue
		}
		args := make(map[string]string)
		for gi, name := range rt.Pattern.SubexpNames() {
			if name != "" && gi < len(sub) {
				args[name] = sub[gi]
			}
		}
		d := &detected{
			trig:  rt.Trigger,
			typed: sub[0],
			span:  len([]rune(sub[0])),
			order: rt.Order,
			args:  args,
		}
		if best == nil || better(d, best) {
			best = d
		}
	}
	return best
}

// suffixEqual reports whether text equals the tail of buf, folding
// case when fold is set (text is pre-lowercased by the catalog).
func suffixEqual(buf, text []rune, fold bool) bool {
	off := len(buf) - len(text)
	for i, want := range text {
		got := buf[off+i]
		if fold {
			got = unicode.ToLower(got)
		}
		if got != want {
			return false
		}
	}
	return true
}

// isWordChar reports whether r belongs to a word for boundary checks.
func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
