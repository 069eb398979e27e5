package functions

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/sandrolain/bindtree/pkg/value"
)

// maxFractionDigits is the precision kept by number.
const maxFractionDigits = 2

// numberFunc formats numeric text with the grouping separators of tag,
// rounding toward negative infinity to at most two fraction digits.
func numberFunc(tag language.Tag) Function {
	return New("number", func(data value.Value, _ int, _ ...value.Value) value.Value {
		s, err := value.ToString(data)
		if err != nil {
			return data
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return data
		}

		p := message.NewPrinter(tag)
		out := p.Sprintf("%v", number.Decimal(floorDecimal(f, maxFractionDigits),
			number.MinFractionDigits(0),
			number.MaxFractionDigits(maxFractionDigits)))
		return value.String(out)
	})
}

// floorDecimal truncates f toward negative infinity at the given number of
// fraction digits. It works on the shortest decimal form of f so that 0.29
// stays 0.29 instead of becoming 0.28.
func floorDecimal(f float64, digits int) float64 {
	text := strconv.FormatFloat(math.Abs(f), 'f', -1, 64)
	whole, frac, _ := strings.Cut(text, ".")
	if len(frac) <= digits {
		return f
	}

	kept, dropped := frac[:digits], frac[digits:]
	units, err := strconv.ParseInt(whole+kept, 10, 64)
	if err != nil {
		scale := math.Pow10(digits)
		return math.Floor(f*scale) / scale
	}
	if f < 0 && strings.Trim(dropped, "0") != "" {
		units++
	}

	out := float64(units) / math.Pow10(digits)
	if f < 0 {
		out = -out
	}
	return out
}
