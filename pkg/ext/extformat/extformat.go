// Package extformat provides text templating and CSV functions for binding
// expressions.
//
//	@{'Hello, {{name}}!' | template(user)}
//	@{row | toCSV}
package extformat

import (
	"bytes"
	"encoding/csv"
	"regexp"
	"strings"

	"github.com/sandrolain/bindtree/pkg/ext/extutil"
	"github.com/sandrolain/bindtree/pkg/functions"
	"github.com/sandrolain/bindtree/pkg/value"
)

var placeholder = regexp.MustCompile(`\{\{\s*(\w+)\s*\}\}`)

// All returns all format functions.
func All() []functions.Function {
	return []functions.Function{
		Template(),
		ToCSV(),
		ParseCSV(),
	}
}

// Template returns the function s | template(m): every {{key}} in s is
// replaced by the text of m.key. Unknown keys are left in place.
func Template() functions.Function {
	return extutil.OnText("template", func(s string, args []value.Value) value.Value {
		bindings := extutil.Arg(args, 0)
		if !bindings.IsMap() {
			return nil
		}
		m := bindings.AsMap()
		out := placeholder.ReplaceAllStringFunc(s, func(match string) string {
			key := placeholder.FindStringSubmatch(match)[1]
			if v, ok := m.Get(key); ok {
				return v.AsString()
			}
			return match
		})
		return value.String(out)
	})
}

// ToCSV returns the function a | toCSV([separator]): one CSV record of the
// array items, quoted where needed.
func ToCSV() functions.Function {
	return functions.New("toCSV", func(data value.Value, _ int, args ...value.Value) value.Value {
		if !data.IsArray() {
			return data
		}
		items := data.AsArray().Items()
		record := make([]string, len(items))
		for i, item := range items {
			record[i] = item.AsString()
		}

		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if sep, ok := separator(args); ok {
			w.Comma = sep
		}
		if err := w.Write(record); err != nil {
			return data
		}
		w.Flush()
		if w.Error() != nil {
			return data
		}
		return value.String(strings.TrimRight(buf.String(), "\r\n"))
	})
}

// ParseCSV returns the function s | csv([separator]): the fields of the
// first CSV record of s.
func ParseCSV() functions.Function {
	return extutil.OnText("csv", func(s string, args []value.Value) value.Value {
		r := csv.NewReader(strings.NewReader(s))
		if sep, ok := separator(args); ok {
			r.Comma = sep
		}
		record, err := r.Read()
		if err != nil {
			return nil
		}
		out := make([]value.Value, len(record))
		for i, field := range record {
			out[i] = value.String(field)
		}
		return value.NewArray(out...)
	})
}

func separator(args []value.Value) (rune, bool) {
	s, ok := extutil.TextArg(args, 0)
	if !ok {
		return 0, false
	}
	r := []rune(s)
	if len(r) != 1 {
		return 0, false
	}
	return r[0], true
}
