// Package exttypes provides type predicates and fallbacks for binding
// expressions.
//
//	@{user.nickname | default(user.name)}
//	@{fn:NOT(tags | isEmpty)}
package exttypes

import (
	"github.com/sandrolain/bindtree/pkg/functions"
	"github.com/sandrolain/bindtree/pkg/value"
)

// All returns all type functions.
func All() []functions.Function {
	return []functions.Function{
		IsString(),
		IsNumber(),
		IsBoolean(),
		IsArray(),
		IsMap(),
		IsNull(),
		IsBlank(),
		Default(),
	}
}

// IsString returns the predicate v | isString.
func IsString() functions.Function {
	return predicate("isString", func(v value.Value) bool {
		p, ok := v.(value.Primitive)
		return ok && p.IsString()
	})
}

// IsNumber returns the predicate v | isNumber.
func IsNumber() functions.Function {
	return predicate("isNumber", func(v value.Value) bool {
		p, ok := v.(value.Primitive)
		return ok && p.IsNumber()
	})
}

// IsBoolean returns the predicate v | isBoolean.
func IsBoolean() functions.Function {
	return predicate("isBoolean", func(v value.Value) bool {
		p, ok := v.(value.Primitive)
		return ok && p.IsBool()
	})
}

// IsArray returns the predicate v | isArray.
func IsArray() functions.Function {
	return predicate("isArray", value.Value.IsArray)
}

// IsMap returns the predicate v | isMap.
func IsMap() functions.Function {
	return predicate("isMap", value.Value.IsMap)
}

// IsNull returns the predicate v | isNull.
func IsNull() functions.Function {
	return predicate("isNull", value.Value.IsNull)
}

// IsBlank returns the predicate v | isBlank: Null, empty text, or an empty
// array or map.
func IsBlank() functions.Function {
	return predicate("isBlank", blank)
}

// Default returns the function v | default(fallback): fallback when v is
// blank, v otherwise.
func Default() functions.Function {
	return functions.New("default", func(data value.Value, _ int, args ...value.Value) value.Value {
		if !blank(data) || len(args) == 0 {
			return data
		}
		return args[0]
	})
}

func predicate(name string, fn func(value.Value) bool) functions.Function {
	return functions.New(name, func(data value.Value, _ int, _ ...value.Value) value.Value {
		return value.Bool(fn(data))
	})
}

func blank(v value.Value) bool {
	switch {
	case v.IsNull():
		return true
	case v.IsArray():
		return v.AsArray().Len() == 0
	case v.IsMap():
		return v.AsMap().Len() == 0
	case v.IsPrimitive():
		p, ok := v.(value.Primitive)
		return ok && p.IsString() && p.AsString() == ""
	default:
		return false
	}
}
