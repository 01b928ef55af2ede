package extension

import (
	"fmt"

	"github.com/dshills/snipstorm/internal/trigger"
)

// echoExtension returns the "echo" parameter verbatim. It exists so
// literal values compose uniformly with dynamic ones: regex capture
// groups and fixed variable values both travel through it.
type echoExtension struct{}

func (echoExtension) evaluate(name string, params trigger.Params) (Output, error) {
	text, ok := params.String("echo")
	if !ok {
		return Output{}, wrap(trigger.KindEcho, name, fmt.Errorf("%w: %q", ErrMissingParam, "echo"))
	}
	return Output{Text: text}, nil
}
