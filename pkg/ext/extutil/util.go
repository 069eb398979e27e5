// Package extutil provides shared helpers for the ext sub-packages.
package extutil

import (
	"github.com/sandrolain/bindtree/pkg/functions"
	"github.com/sandrolain/bindtree/pkg/value"
)

// Text returns the text of a primitive. Composites and Null report false.
func Text(v value.Value) (string, bool) {
	if v == nil || !v.IsPrimitive() {
		return "", false
	}
	return v.AsString(), true
}

// Arg returns args[i], or Null when i is out of range.
func Arg(args []value.Value, i int) value.Value {
	if i < 0 || i >= len(args) {
		return value.NullValue
	}
	return value.OrNull(args[i])
}

// TextArg returns the text of args[i].
func TextArg(args []value.Value, i int) (string, bool) {
	return Text(Arg(args, i))
}

// IntArg returns args[i] as an integer.
func IntArg(args []value.Value, i int) (int, bool) {
	n, err := value.ToInt(Arg(args, i))
	return n, err == nil
}

// NumberArg returns args[i] as a float.
func NumberArg(args []value.Value, i int) (float64, bool) {
	f, err := value.ToDouble(Arg(args, i))
	return f, err == nil
}

// OnText adapts fn into a function of the text of its data. Non-primitive
// data is returned unchanged.
func OnText(name string, fn func(s string, args []value.Value) value.Value) functions.Function {
	return functions.New(name, func(data value.Value, _ int, args ...value.Value) value.Value {
		s, ok := Text(data)
		if !ok {
			return data
		}
		if out := fn(s, args); out != nil {
			return out
		}
		return data
	})
}

// OnNumber adapts fn into a function of the numeric value of its data.
// Data that is not numeric is returned unchanged.
func OnNumber(name string, fn func(f float64, args []value.Value) value.Value) functions.Function {
	return functions.New(name, func(data value.Value, _ int, args ...value.Value) value.Value {
		f, err := value.ToDouble(data)
		if err != nil {
			return data
		}
		if out := fn(f, args); out != nil {
			return out
		}
		return data
	})
}
