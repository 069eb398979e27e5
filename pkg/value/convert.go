package value

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandrolain/bindtree/pkg/types"
)

// ToString is the fallible variant of AsString: only primitives convert.
func ToString(v Value) (string, error) {
	if v != nil && v.IsPrimitive() {
		return v.AsString(), nil
	}
	return "", types.NewError(types.ErrCannotConvertString,
		fmt.Sprintf("cannot convert %s to string", kindName(v)), -1)
}

// ToDouble is the fallible variant of AsDouble: numbers, booleans and
// numeric text convert.
func ToDouble(v Value) (float64, error) {
	p, ok := v.(Primitive)
	if !ok {
		return 0, types.NewError(types.ErrCannotConvertNumber,
			fmt.Sprintf("cannot convert %s to number", kindName(v)), -1)
	}
	if p.kind != kindString {
		return p.AsDouble(), nil
	}
	f, ok := parseFinite(strings.TrimSpace(p.s))
	if !ok {
		return 0, types.NewError(types.ErrCannotConvertNumber,
			fmt.Sprintf("cannot convert %q to number", p.s), -1)
	}
	return f, nil
}

// ToInt converts the text form of a primitive to an int. Fractional numbers
// and text with surrounding whitespace fail.
func ToInt(v Value) (int, error) {
	s, err := ToString(v)
	if err != nil {
		return 0, err
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, types.NewError(types.ErrCannotConvertNumber,
			fmt.Sprintf("cannot convert %q to integer", s), -1).WithCause(err)
	}
	return i, nil
}

// Truthy is the boolean coercion used by logical functions: a boolean
// primitive is itself; any other primitive is true when its text is "true"
// (any case); everything else is false.
func Truthy(v Value) bool {
	if v == nil || !v.IsPrimitive() {
		return false
	}
	return v.AsBoolean()
}

// FromNative converts decoded Go data into a Value. Values pass through;
// unknown types become their fmt text.
func FromNative(x any) Value {
	switch t := x.(type) {
	case nil:
		return NullValue
	case Value:
		return t
	case string:
		return String(t)
	case bool:
		return Bool(t)
	case float64:
		return Number(t)
	case float32:
		return Number(float64(t))
	case int:
		return Int(t)
	case int8:
		return Int(int(t))
	case int16:
		return Int(int(t))
	case int32:
		return Int(int(t))
	case int64:
		return Number(float64(t))
	case uint:
		return Number(float64(t))
	case uint8:
		return Int(int(t))
	case uint16:
		return Int(int(t))
	case uint32:
		return Number(float64(t))
	case uint64:
		return Number(float64(t))
	case []any:
		items := make([]Value, len(t))
		for i, e := range t {
			items[i] = FromNative(e)
		}
		return Array{items: items}
	case []Value:
		return NewArray(t...)
	case map[string]any:
		entries := make(map[string]Value, len(t))
		for k, e := range t {
			entries[k] = FromNative(e)
		}
		return Map{entries: entries}
	case map[any]any:
		entries := make(map[string]Value, len(t))
		for k, e := range t {
			entries[fmt.Sprint(k)] = FromNative(e)
		}
		return Map{entries: entries}
	case map[string]Value:
		return NewMap(t)
	default:
		return String(fmt.Sprint(t))
	}
}

// ToNative converts a Value into plain Go data: nil, string, float64, bool,
// []any and map[string]any. Bindings become their source text and layouts
// their debug form.
func ToNative(v Value) any {
	switch t := v.(type) {
	case nil, Null:
		return nil
	case Primitive:
		switch t.kind {
		case kindNumber:
			return t.n
		case kindBool:
			return t.b
		default:
			return t.s
		}
	case Array:
		out := make([]any, len(t.items))
		for i, e := range t.items {
			out[i] = ToNative(e)
		}
		return out
	case Map:
		out := make(map[string]any, len(t.entries))
		for k, e := range t.entries {
			out[k] = ToNative(e)
		}
		return out
	default:
		return v.String()
	}
}

// Equal reports deep equality. Primitives must have the same backing kind.
func Equal(a, b Value) bool {
	a, b = OrNull(a), OrNull(b)
	switch x := a.(type) {
	case Null:
		return b.IsNull()
	case Primitive:
		y, ok := b.(Primitive)
		return ok && x.kind == y.kind && x.s == y.s && x.n == y.n && x.b == y.b
	case Array:
		y, ok := b.(Array)
		if !ok || len(x.items) != len(y.items) {
			return false
		}
		for i := range x.items {
			if !Equal(x.items[i], y.items[i]) {
				return false
			}
		}
		return true
	case Map:
		y, ok := b.(Map)
		if !ok || len(x.entries) != len(y.entries) {
			return false
		}
		for k, xv := range x.entries {
			yv, ok := y.entries[k]
			if !ok || !Equal(xv, yv) {
				return false
			}
		}
		return true
	case Binding:
		y, ok := b.(Binding)
		return ok && x.source == y.source
	case Layout:
		y, ok := b.(Layout)
		return ok && x.String() == y.String()
	default:
		return false
	}
}

func kindName(v Value) string {
	switch {
	case v == nil || v.IsNull():
		return "null"
	case v.IsPrimitive():
		return "primitive"
	case v.IsArray():
		return "array"
	case v.IsMap():
		return "map"
	case v.IsBinding():
		return "binding"
	case v.IsLayout():
		return "layout"
	default:
		return fmt.Sprintf("%T", v)
	}
}
