package functions

import (
	"time"

	"github.com/araddon/dateparse"
	"github.com/goodsign/monday"
	"golang.org/x/text/language"

	"github.com/sandrolain/bindtree/pkg/value"
)

// dateFunc reformats date text. Patterns use SimpleDateFormat notation and
// are converted to Go layouts when the registry is built or, for patterns
// passed as arguments, on each call.
type dateFunc struct {
	outLayout string
	inLayout  string
	locale    monday.Locale
	loc       *time.Location
	lenient   bool
}

func newDateFunc(output, input string, tag language.Tag, loc *time.Location, lenient bool) Function {
	return &dateFunc{
		outLayout: GoLayout(output),
		inLayout:  GoLayout(input),
		locale:    mondayLocale(tag.String()),
		loc:       loc,
		lenient:   lenient,
	}
}

func (d *dateFunc) Name() string { return "date" }

// Format parses data with the input pattern (args[1] or the default) and
// prints it with the output pattern (args[0] or the default). Unparsable
// input is returned unchanged.
func (d *dateFunc) Format(data value.Value, _ int, args ...value.Value) value.Value {
	data = value.OrNull(data)
	src, err := value.ToString(data)
	if err != nil {
		return data
	}

	outLayout := d.outLayout
	if len(args) > 0 && args[0] != nil && args[0].IsPrimitive() {
		outLayout = GoLayout(args[0].AsString())
	}
	inLayout := d.inLayout
	explicitInput := len(args) > 1 && args[1] != nil && args[1].IsPrimitive()
	if explicitInput {
		inLayout = GoLayout(args[1].AsString())
	}

	t, err := monday.ParseInLocation(inLayout, src, d.loc, d.locale)
	if err != nil {
		if !d.lenient || explicitInput {
			return data
		}
		t, err = dateparse.ParseIn(src, d.loc)
		if err != nil {
			return data
		}
	}

	return value.String(monday.Format(t.In(d.loc), outLayout, d.locale))
}
