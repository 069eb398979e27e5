// Package ext provides optional function packs for binding expressions that
// go beyond the builtin function table.
//
// The functions live in sub-packages grouped by category:
//   - extstring: startsWith, substring, replaceAll, toUpperCase, trim, …
//   - extnumeric: abs, ceil, floor, round, pow, max, min, median, …
//   - extarray: first, last, count, take, skip, reverse, includes, …
//   - extobject: keys, values, size, has, get, pick, omit
//   - exttypes: isString, isArray, isNull, isBlank, default, …
//   - extcrypto: hash, hmac
//   - extformat: template, toCSV, csv
//
// Extension functions apply to the piped data and take their parameters as
// arguments, so they read naturally in a pipeline:
//
//	@{user.name | trim | toUpperCase}
//
// # Integration: all packs at once
//
//	reg := functions.NewRegistry(functions.WithFunctions(ext.All()...))
//
// # Integration: by pack name
//
//	fns, err := ext.Packs("string", "numeric")
//	reg := functions.NewRegistry(functions.WithFunctions(fns...))
package ext

import (
	"fmt"
	"sort"

	"github.com/sandrolain/bindtree/pkg/ext/extarray"
	"github.com/sandrolain/bindtree/pkg/ext/extcrypto"
	"github.com/sandrolain/bindtree/pkg/ext/extformat"
	"github.com/sandrolain/bindtree/pkg/ext/extnumeric"
	"github.com/sandrolain/bindtree/pkg/ext/extobject"
	"github.com/sandrolain/bindtree/pkg/ext/extstring"
	"github.com/sandrolain/bindtree/pkg/ext/exttypes"
	"github.com/sandrolain/bindtree/pkg/functions"
)

var packs = map[string]func() []functions.Function{
	"string":  extstring.All,
	"numeric": extnumeric.All,
	"array":   extarray.All,
	"object":  extobject.All,
	"types":   exttypes.All,
	"crypto":  extcrypto.All,
	"format":  extformat.All,
}

// All returns the functions of every pack.
func All() []functions.Function {
	var all []functions.Function
	for _, name := range Names() {
		all = append(all, packs[name]()...)
	}
	return all
}

// Names returns the pack names in sorted order.
func Names() []string {
	names := make([]string, 0, len(packs))
	for name := range packs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Packs returns the functions of the named packs. The name "all" selects
// every pack.
func Packs(names ...string) ([]functions.Function, error) {
	var out []functions.Function
	for _, name := range names {
		if name == "all" {
			return All(), nil
		}
		pack, ok := packs[name]
		if !ok {
			return nil, fmt.Errorf("unknown extension pack %q", name)
		}
		out = append(out, pack()...)
	}
	return out, nil
}

// WithAll returns a registry option adding every pack.
func WithAll() functions.Option {
	return functions.WithFunctions(All()...)
}

// WithString returns a registry option adding the string functions.
func WithString() functions.Option {
	return functions.WithFunctions(extstring.All()...)
}

// WithNumeric returns a registry option adding the numeric functions.
func WithNumeric() functions.Option {
	return functions.WithFunctions(extnumeric.All()...)
}
