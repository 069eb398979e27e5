// Package functions provides the named transformation functions available
// inside binding expressions.
//
// A Function receives the data value it applies to, the repetition index of
// the data context it is evaluated in, and its evaluated arguments. Functions
// are pure and total: malformed input never panics or errors, it yields a
// fallback (usually data unchanged, false or Null).
//
// Functions are looked up by name in an immutable [Registry]. The default
// registry is built once per process by [Builtins]; [NewRegistry] builds a
// configured one, optionally with extra functions such as those in pkg/ext.
//
// # Example
//
//	shout := functions.New("shout", func(data value.Value, _ int, _ ...value.Value) value.Value {
//	    return value.String(strings.ToUpper(data.AsString()) + "!")
//	})
//	reg := functions.NewRegistry(functions.WithFunctions(shout))
package functions

import "github.com/sandrolain/bindtree/pkg/value"

// Function is a named, pure transformation.
type Function interface {
	Name() string
	Format(data value.Value, dataIndex int, args ...value.Value) value.Value
}

// FormatFunc is the signature of a function implementation.
type FormatFunc func(data value.Value, dataIndex int, args ...value.Value) value.Value

// New adapts fn into a Function called name.
func New(name string, fn FormatFunc) Function {
	return &funcDef{name: name, fn: fn}
}

type funcDef struct {
	name string
	fn   FormatFunc
}

func (f *funcDef) Name() string { return f.name }

func (f *funcDef) Format(data value.Value, dataIndex int, args ...value.Value) value.Value {
	return value.OrNull(f.fn(value.OrNull(data), dataIndex, args...))
}
