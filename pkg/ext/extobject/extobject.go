// Package extobject provides map functions for binding expressions.
// Keys are always visited in sorted order.
package extobject

import (
	"github.com/sandrolain/bindtree/pkg/ext/extutil"
	"github.com/sandrolain/bindtree/pkg/functions"
	"github.com/sandrolain/bindtree/pkg/value"
)

// All returns all map functions.
func All() []functions.Function {
	return []functions.Function{
		Keys(),
		Values(),
		Size(),
		Has(),
		Get(),
		Pick(),
		Omit(),
	}
}

// Keys returns the function m | keys.
func Keys() functions.Function {
	return onMap("keys", func(m value.Map, _ []value.Value) value.Value {
		keys := m.Keys()
		out := make([]value.Value, len(keys))
		for i, k := range keys {
			out[i] = value.String(k)
		}
		return value.NewArray(out...)
	})
}

// Values returns the function m | values.
func Values() functions.Function {
	return onMap("values", func(m value.Map, _ []value.Value) value.Value {
		keys := m.Keys()
		out := make([]value.Value, len(keys))
		for i, k := range keys {
			out[i] = m.Lookup(k)
		}
		return value.NewArray(out...)
	})
}

// Size returns the function m | size.
func Size() functions.Function {
	return onMap("size", func(m value.Map, _ []value.Value) value.Value {
		return value.Int(m.Len())
	})
}

// Has returns the function m | has(key).
func Has() functions.Function {
	return onMap("has", func(m value.Map, args []value.Value) value.Value {
		key, ok := extutil.TextArg(args, 0)
		if !ok {
			return value.False
		}
		_, found := m.Get(key)
		return value.Bool(found)
	})
}

// Get returns the function m | get(key): a dynamic key lookup.
func Get() functions.Function {
	return onMap("get", func(m value.Map, args []value.Value) value.Value {
		key, ok := extutil.TextArg(args, 0)
		if !ok {
			return value.NullValue
		}
		return m.Lookup(key)
	})
}

// Pick returns the function m | pick(k1, k2, ...): a map of the named keys.
func Pick() functions.Function {
	return onMap("pick", func(m value.Map, args []value.Value) value.Value {
		out := make(map[string]value.Value, len(args))
		for i := range args {
			key, ok := extutil.TextArg(args, i)
			if !ok {
				continue
			}
			if v, found := m.Get(key); found {
				out[key] = v
			}
		}
		return value.NewMap(out)
	})
}

// Omit returns the function m | omit(k1, k2, ...): a map without the named
// keys.
func Omit() functions.Function {
	return onMap("omit", func(m value.Map, args []value.Value) value.Value {
		out := m.Entries()
		for i := range args {
			if key, ok := extutil.TextArg(args, i); ok {
				delete(out, key)
			}
		}
		return value.NewMap(out)
	})
}

func onMap(name string, fn func(m value.Map, args []value.Value) value.Value) functions.Function {
	return functions.New(name, func(data value.Value, _ int, args ...value.Value) value.Value {
		if !data.IsMap() {
			return data
		}
		return fn(data.AsMap(), args)
	})
}
