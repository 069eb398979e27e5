// Package extarray provides array functions for binding expressions.
//
//	@{items | first}
//	@{tags | take(3) | join}
package extarray

import (
	"github.com/sandrolain/bindtree/pkg/ext/extutil"
	"github.com/sandrolain/bindtree/pkg/functions"
	"github.com/sandrolain/bindtree/pkg/value"
)

// All returns all array functions.
func All() []functions.Function {
	return []functions.Function{
		First(),
		Last(),
		Count(),
		Take(),
		Skip(),
		Reverse(),
		Includes(),
		Flatten(),
	}
}

// First returns the function a | first. An empty array gives Null.
func First() functions.Function {
	return onArray("first", func(items []value.Value, _ []value.Value) value.Value {
		if len(items) == 0 {
			return value.NullValue
		}
		return items[0]
	})
}

// Last returns the function a | last.
func Last() functions.Function {
	return onArray("last", func(items []value.Value, _ []value.Value) value.Value {
		if len(items) == 0 {
			return value.NullValue
		}
		return items[len(items)-1]
	})
}

// Count returns the function a | count.
func Count() functions.Function {
	return onArray("count", func(items []value.Value, _ []value.Value) value.Value {
		return value.Int(len(items))
	})
}

// Take returns the function a | take(n): the first n items.
func Take() functions.Function {
	return onArray("take", func(items []value.Value, args []value.Value) value.Value {
		n, ok := extutil.IntArg(args, 0)
		if !ok || n < 0 {
			return nil
		}
		return value.NewArray(items[:min(n, len(items))]...)
	})
}

// Skip returns the function a | skip(n): all but the first n items.
func Skip() functions.Function {
	return onArray("skip", func(items []value.Value, args []value.Value) value.Value {
		n, ok := extutil.IntArg(args, 0)
		if !ok || n < 0 {
			return nil
		}
		return value.NewArray(items[min(n, len(items)):]...)
	})
}

// Reverse returns the function a | reverse.
func Reverse() functions.Function {
	return onArray("reverse", func(items []value.Value, _ []value.Value) value.Value {
		out := make([]value.Value, len(items))
		for i, item := range items {
			out[len(items)-1-i] = item
		}
		return value.NewArray(out...)
	})
}

// Includes returns the function a | includes(x).
func Includes() functions.Function {
	return onArray("includes", func(items []value.Value, args []value.Value) value.Value {
		target := extutil.Arg(args, 0)
		for _, item := range items {
			if value.Equal(item, target) {
				return value.True
			}
		}
		return value.False
	})
}

// Flatten returns the function a | flatten: nested arrays are expanded
// one level.
func Flatten() functions.Function {
	return onArray("flatten", func(items []value.Value, _ []value.Value) value.Value {
		var out []value.Value
		for _, item := range items {
			if item.IsArray() {
				out = append(out, item.AsArray().Items()...)
				continue
			}
			out = append(out, item)
		}
		return value.NewArray(out...)
	})
}

func onArray(name string, fn func(items, args []value.Value) value.Value) functions.Function {
	return functions.New(name, func(data value.Value, _ int, args ...value.Value) value.Value {
		if !data.IsArray() {
			return data
		}
		if out := fn(data.AsArray().Items(), args); out != nil {
			return out
		}
		return data
	})
}
