package extension

import (
	"context"
	"errors"
	"testing"

	"github.com/dshills/snipstorm/internal/trigger"
)

func seededRegistry(seed int64) *Registry {
	return NewRegistry(Config{RandomSeed: seed, Clock: fixedClock})
}

func TestEvaluateEcho(t *testing.T) {
	r := seededRegistry(1)
	v := &trigger.Variable{Name: "v", Kind: trigger.KindEcho}

	out, err := r.Evaluate(context.Background(), v, trigger.Params{"echo": "hi"}, nil)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if out.Text != "hi" {
		t.Errorf("Text = %q, want %q", out.Text, "hi")
	}
}

func TestEvaluateEchoMissingParam(t *testing.T) {
	r := seededRegistry(1)
	v := &trigger.Variable{Name: "v", Kind: trigger.KindEcho}

	_, err := r.Evaluate(context.Background(), v, trigger.Params{}, nil)
	if !errors.Is(err, ErrMissingParam) {
		t.Errorf("Evaluate() error = %v, want %v", err, ErrMissingParam)
	}
}

func TestEvaluateRandomChoices(t *testing.T) {
	r := seededRegistry(42)
	v := &trigger.Variable{Name: "v", Kind: trigger.KindRandom}
	choices := []string{"red", "green", "blue"}
	params := trigger.Params{"choices": choices}

	out, err := r.Evaluate(context.Background(), v, params, nil)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	found := false
	for _, c := range choices {
		if out.Text == c {
			found = true
		}
	}
	if !found {
		t.Errorf("Text = %q, not one of %v", out.Text, choices)
	}
}

func TestEvaluateRandomIsReproducible(t *testing.T) {
	v := &trigger.Variable{Name: "v", Kind: trigger.KindRandom}
	params := trigger.Params{"choices": []string{"a", "b", "c", "d", "e"}}

	sequence := func() []string {
		r := seededRegistry(99)
		var picks []string
		for i := 0; i < 10; i++ {
			out, err := r.Evaluate(context.Background(), v, params, nil)
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			picks = append(picks, out.Text)
		}
		return picks
	}

	first := sequence()
	second := sequence()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("pick %d = %q then %q, want identical sequences", i, first[i], second[i])
		}
	}
}

func TestEvaluateRandomRange(t *testing.T) {
	r := seededRegistry(3)
	v := &trigger.Variable{Name: "v", Kind: trigger.KindRandom}

	out, err := r.Evaluate(context.Background(), v, trigger.Params{"min": 10, "max": 12}, nil)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if out.Text != "10" && out.Text != "11" && out.Text != "12" {
		t.Errorf("Text = %q, want a value in [10, 12]", out.Text)
	}
}

func TestEvaluateRandomEmptyChoices(t *testing.T) {
	r := seededRegistry(1)
	v := &trigger.Variable{Name: "v", Kind: trigger.KindRandom}

	_, err := r.Evaluate(context.Background(), v, trigger.Params{"choices": []string{}}, nil)
	if !errors.Is(err, ErrNoChoices) {
		t.Errorf("Evaluate() error = %v, want %v", err, ErrNoChoices)
	}
}

func TestEvaluateUnsupportedKind(t *testing.T) {
	r := seededRegistry(1)
	v := &trigger.Variable{Name: "v", Kind: trigger.KindMatch}

	_, err := r.Evaluate(context.Background(), v, nil, nil)
	if !errors.Is(err, ErrUnsupportedKind) {
		t.Errorf("Evaluate() error = %v, want %v", err, ErrUnsupportedKind)
	}
}

func TestOutputField(t *testing.T) {
	out := Output{Text: "main", Fields: map[string]string{"url": "https://x"}}

	if got, ok := out.Field(""); !ok || got != "main" {
		t.Errorf(`Field("") = %q, %v, want "main", true`, got, ok)
	}
	if got, ok := out.Field("url"); !ok || got != "https://x" {
		t.Errorf(`Field("url") = %q, %v, want "https://x", true`, got, ok)
	}
	if _, ok := out.Field("nope"); ok {
		t.Error(`Field("nope") should not be found`)
	}
}
