package extension

import (
	"fmt"
	"strings"
	"time"

	"github.com/dshills/snipstorm/internal/trigger"
)

// DefaultDateFormat is used when a date variable has no "format"
// parameter.
const DefaultDateFormat = "%Y-%m-%d"

// dateExtension formats the current time. The format parameter uses
// strftime-style directives, converted once per evaluation to a Go
// layout; an unknown directive is a definition error surfaced on
// first use. The optional "offset" parameter shifts the time by a
// number of seconds.
type dateExtension struct{}

func (dateExtension) evaluate(name string, params trigger.Params, clock func() time.Time) (Output, error) {
	format, ok := params.String("format")
	if !ok {
		format = DefaultDateFormat
	}
	layout, err := strftimeLayout(format)
	if err != nil {
		return Output{}, wrap(trigger.KindDate, name, err)
	}

	now := clock()
	if offset, ok := params.Int("offset"); ok {
		now = now.Add(time.Duration(offset) * time.Second)
	}
	return Output{Text: now.Format(layout)}, nil
}

// strftimeDirectives maps the supported strftime directives to Go
// reference-time layout fragments.
var strftimeDirectives = map[byte]string{
	'Y': "2006",
	'y': "06",
	'm': "01",
	'd': "02",
	'e': "_2",
	'H': "15",
	'I': "03",
	'M': "04",
	'S': "05",
	'p': "PM",
	'A': "Monday",
	'a': "Mon",
	'B': "January",
	'b': "Jan",
	'Z': "MST",
	'z': "-0700",
	'D': "01/02/06",
	'F': "2006-01-02",
	'T': "15:04:05",
	'R': "15:04",
}

// strftimeLayout converts a strftime-style format to a Go layout.
func strftimeLayout(format string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(format) {
			return "", fmt.Errorf("%w: trailing %%", ErrInvalidFormat)
		}
		d := format[i]
		if d == '%' {
			b.WriteByte('%')
			continue
		}
		frag, ok := strftimeDirectives[d]
		if !ok {
			return "", fmt.Errorf("%w: unknown directive %%%c", ErrInvalidFormat, d)
		}
		b.WriteString(frag)
	}
	return b.String(), nil
}
