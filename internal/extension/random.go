package extension

import (
	"fmt"
	"strconv"

	"github.com/dshills/snipstorm/internal/trigger"
)

// randomExtension selects uniformly from the "choices" list, or from
// the integer range ["min", "max"] when no list is given. Selection
// goes through the registry's seeded source so runs are reproducible
// under test.
type randomExtension struct{}

func (randomExtension) evaluate(name string, params trigger.Params, pick func(int) int) (Output, error) {
	if choices, ok := params.Strings("choices"); ok {
		if len(choices) == 0 {
			return Output{}, wrap(trigger.KindRandom, name, ErrNoChoices)
		}
		return Output{Text: choices[pick(len(choices))]}, nil
	}

	lo, okLo := params.Int("min")
	hi, okHi := params.Int("max")
	if !okLo || !okHi || hi < lo {
		return Output{}, wrap(trigger.KindRandom, name, fmt.Errorf("%w: need %q or %q/%q", ErrNoChoices, "choices", "min", "max"))
	}
	n := lo + int64(pick(int(hi-lo+1)))
	return Output{Text: strconv.FormatInt(n, 10)}, nil
}
