package value

import (
	"math"
	"strconv"
	"strings"
)

type primitiveKind uint8

const (
	kindString primitiveKind = iota
	kindNumber
	kindBool
)

// Primitive is a scalar backed by a string, a float64 or a bool.
type Primitive struct {
	base
	kind primitiveKind
	s    string
	n    float64
	b    bool
}

// String creates a string primitive.
func String(s string) Primitive {
	return Primitive{kind: kindString, s: s}
}

// Number creates a numeric primitive.
func Number(n float64) Primitive {
	return Primitive{kind: kindNumber, n: n}
}

// Int creates a numeric primitive from an int.
func Int(i int) Primitive {
	return Primitive{kind: kindNumber, n: float64(i)}
}

// Bool creates a boolean primitive.
func Bool(b bool) Primitive {
	return Primitive{kind: kindBool, b: b}
}

// True and False are the boolean primitives returned by logical functions.
var (
	True  = Bool(true)
	False = Bool(false)
)

func (p Primitive) IsPrimitive() bool { return true }

// IsString reports whether p is backed by a string.
func (p Primitive) IsString() bool { return p.kind == kindString }

// IsNumber reports whether p is backed by a number.
func (p Primitive) IsNumber() bool { return p.kind == kindNumber }

// IsBool reports whether p is backed by a boolean.
func (p Primitive) IsBool() bool { return p.kind == kindBool }

// AsString returns the text form: numbers in shortest decimal notation.
func (p Primitive) AsString() string {
	switch p.kind {
	case kindNumber:
		return formatNumber(p.n)
	case kindBool:
		return strconv.FormatBool(p.b)
	default:
		return p.s
	}
}

// AsDouble returns the numeric form. Text is trimmed; text that does not
// parse as a finite number yields 0.
func (p Primitive) AsDouble() float64 {
	switch p.kind {
	case kindNumber:
		return p.n
	case kindBool:
		if p.b {
			return 1
		}
		return 0
	default:
		f, _ := p.number()
		return f
	}
}

// AsInt truncates AsDouble toward zero.
func (p Primitive) AsInt() int {
	return int(p.AsDouble())
}

// AsBoolean returns the boolean form: text and numbers are true only when
// their text is "true" (any case).
func (p Primitive) AsBoolean() bool {
	if p.kind == kindBool {
		return p.b
	}
	return strings.EqualFold(p.AsString(), "true")
}

func (p Primitive) String() string {
	if p.kind == kindString {
		return strconv.Quote(p.s)
	}
	return p.AsString()
}

// Equal reports primitive equality: booleans by value, numbers and numeric
// text numerically, everything else by text.
func (p Primitive) Equal(q Primitive) bool {
	switch {
	case p.kind == kindBool && q.kind == kindBool:
		return p.b == q.b
	case p.kind == kindBool || q.kind == kindBool:
		return p.AsString() == q.AsString()
	case p.kind == kindNumber || q.kind == kindNumber:
		x, okx := p.number()
		y, oky := q.number()
		return okx && oky && x == y
	default:
		if x, ok := p.number(); ok {
			if y, ok := q.number(); ok {
				return x == y
			}
		}
		return p.s == q.s
	}
}

func (p Primitive) number() (float64, bool) {
	if p.kind == kindNumber {
		return p.n, true
	}
	return parseFinite(strings.TrimSpace(p.s))
}

func parseFinite(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func formatNumber(n float64) string {
	if math.Abs(n) >= 1e21 {
		return strconv.FormatFloat(n, 'g', -1, 64)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
