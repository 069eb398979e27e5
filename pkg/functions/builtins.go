package functions

import (
	"math"
	"strings"

	"github.com/sandrolain/bindtree/pkg/value"
)

// joinSeparator separates the items printed by join.
const joinSeparator = ","

// Special

func fnNoop(data value.Value, _ int, _ ...value.Value) value.Value {
	return data
}

// fnIndex turns a 0-based position into a 1-based display index.
func fnIndex(data value.Value, _ int, _ ...value.Value) value.Value {
	i, err := value.ToInt(data)
	if err != nil {
		return data
	}
	return value.Int(i + 1)
}

func fnJoin(data value.Value, _ int, _ ...value.Value) value.Value {
	if !data.IsArray() {
		return data
	}
	items := data.AsArray().Items()
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.AsString()
	}
	return value.String(strings.Join(parts, joinSeparator))
}

// Mathematical

func fnAdd(_ value.Value, _ int, args ...value.Value) value.Value {
	sum := 0.0
	for _, arg := range args {
		sum += value.OrNull(arg).AsDouble()
	}
	return value.Number(sum)
}

func fnMul(_ value.Value, _ int, args ...value.Value) value.Value {
	product := 1.0
	for _, arg := range args {
		product *= value.OrNull(arg).AsDouble()
	}
	return value.Number(product)
}

func fnSub(data value.Value, _ int, args ...value.Value) value.Value {
	return reduce(data, args, func(acc, x float64) float64 { return acc - x })
}

func fnDiv(data value.Value, _ int, args ...value.Value) value.Value {
	return reduce(data, args, func(acc, x float64) float64 { return acc / x })
}

func fnMod(data value.Value, _ int, args ...value.Value) value.Value {
	return reduce(data, args, func(acc, x float64) float64 { return math.Mod(acc, x) })
}

// reduce folds args left to right with the first argument as accumulator.
// With no arguments it returns data.
func reduce(data value.Value, args []value.Value, op func(acc, x float64) float64) value.Value {
	if len(args) == 0 {
		return data
	}
	acc := value.OrNull(args[0]).AsDouble()
	for _, arg := range args[1:] {
		acc = op(acc, value.OrNull(arg).AsDouble())
	}
	return value.Number(acc)
}

// Logical

func fnAnd(_ value.Value, _ int, args ...value.Value) value.Value {
	if len(args) == 0 {
		return value.False
	}
	for _, arg := range args {
		if !value.Truthy(arg) {
			return value.False
		}
	}
	return value.True
}

func fnOr(_ value.Value, _ int, args ...value.Value) value.Value {
	for _, arg := range args {
		if value.Truthy(arg) {
			return value.True
		}
	}
	return value.False
}

func fnNot(_ value.Value, _ int, args ...value.Value) value.Value {
	if len(args) == 0 {
		return value.True
	}
	return value.Bool(!value.Truthy(args[0]))
}

// Comparison

func fnEquals(_ value.Value, _ int, args ...value.Value) value.Value {
	x, y, ok := primitivePair(args)
	return value.Bool(ok && x.Equal(y))
}

func fnLessThan(_ value.Value, _ int, args ...value.Value) value.Value {
	x, y, ok := primitivePair(args)
	return value.Bool(ok && x.AsDouble() < y.AsDouble())
}

func fnGreaterThan(_ value.Value, _ int, args ...value.Value) value.Value {
	x, y, ok := primitivePair(args)
	return value.Bool(ok && x.AsDouble() > y.AsDouble())
}

func fnLessThanOrEquals(_ value.Value, _ int, args ...value.Value) value.Value {
	x, y, ok := primitivePair(args)
	return value.Bool(ok && (x.AsDouble() < y.AsDouble() || x.Equal(y)))
}

func fnGreaterThanOrEquals(_ value.Value, _ int, args ...value.Value) value.Value {
	x, y, ok := primitivePair(args)
	return value.Bool(ok && (x.AsDouble() > y.AsDouble() || x.Equal(y)))
}

// primitivePair returns the first two arguments when both are primitives.
func primitivePair(args []value.Value) (value.Primitive, value.Primitive, bool) {
	if len(args) < 2 {
		return value.Primitive{}, value.Primitive{}, false
	}
	x, okx := args[0].(value.Primitive)
	y, oky := args[1].(value.Primitive)
	return x, y, okx && oky
}

// Conditional

func fnIfThenElse(_ value.Value, _ int, args ...value.Value) value.Value {
	if len(args) < 3 {
		return value.NullValue
	}
	if value.Truthy(args[0]) {
		return value.OrNull(args[1])
	}
	return value.OrNull(args[2])
}
