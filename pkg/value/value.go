// Package value defines the immutable data model shared by layouts and data.
//
// A Value is one of:
//   - Null: absence
//   - Primitive: a string, number or boolean scalar
//   - Array: an ordered sequence of values
//   - Map: a string-keyed mapping of values
//   - Binding: a compiled expression used as a layout attribute value
//   - Layout: a compiled template (type, attributes, children)
//
// Callers branch on the capability predicates (IsPrimitive, IsArray, ...)
// rather than on concrete types. The As* accessors are total: a conversion
// that does not apply returns the zero value of the target type. Use
// ToString, ToDouble and ToInt when a failed conversion must be detected.
//
// Values are never mutated after construction. Constructors copy the slices
// and maps they are given, and operations such as Map.Merge return new values.
package value

// Value is the common interface of every variant.
type Value interface {
	IsNull() bool
	IsPrimitive() bool
	IsArray() bool
	IsMap() bool
	IsBinding() bool
	IsLayout() bool

	AsString() string
	AsDouble() float64
	AsInt() int
	AsBoolean() bool
	AsArray() Array
	AsMap() Map

	// String returns a debug representation (strings quoted).
	String() string
}

// base supplies the defaults every variant overrides selectively.
type base struct{}

func (base) IsNull() bool      { return false }
func (base) IsPrimitive() bool { return false }
func (base) IsArray() bool     { return false }
func (base) IsMap() bool       { return false }
func (base) IsBinding() bool   { return false }
func (base) IsLayout() bool    { return false }
func (base) AsString() string  { return "" }
func (base) AsDouble() float64 { return 0 }
func (base) AsInt() int        { return 0 }
func (base) AsBoolean() bool   { return false }
func (base) AsArray() Array    { return Array{} }
func (base) AsMap() Map        { return Map{} }

// Null represents the absence of a value.
type Null struct{ base }

// NullValue is the Null singleton.
var NullValue Value = Null{}

func (Null) IsNull() bool   { return true }
func (Null) String() string { return "null" }

// OrNull returns v, or NullValue when v is nil.
func OrNull(v Value) Value {
	if v == nil {
		return NullValue
	}
	return v
}
