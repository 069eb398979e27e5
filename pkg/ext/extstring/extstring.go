// Package extstring provides string functions for binding expressions.
// They apply to the piped data and take their parameters as arguments:
//
//	@{user.name | toUpperCase}
//	@{title | substring(0, 20)}
//
// Register them via functions.WithFunctions or the top-level ext.All helper.
package extstring

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sandrolain/bindtree/pkg/ext/extutil"
	"github.com/sandrolain/bindtree/pkg/functions"
	"github.com/sandrolain/bindtree/pkg/value"
)

// All returns all string functions.
func All() []functions.Function {
	return []functions.Function{
		CharAt(),
		Contains(),
		EndsWith(),
		IndexOf(),
		IsEmpty(),
		LastIndexOf(),
		Length(),
		Matches(),
		Replace(),
		ReplaceAll(),
		ReplaceFirst(),
		Split(),
		StartsWith(),
		Substring(),
		ToLowerCase(),
		ToUpperCase(),
		Trim(),
		Capitalize(),
		TitleCase(),
		Repeat(),
	}
}

// CharAt returns the function s | charAt(i): the character at rune index i.
func CharAt() functions.Function {
	return extutil.OnText("charAt", func(s string, args []value.Value) value.Value {
		i, ok := extutil.IntArg(args, 0)
		r := []rune(s)
		if !ok || i < 0 || i >= len(r) {
			return nil
		}
		return value.String(string(r[i]))
	})
}

// Contains returns the function s | contains(sub).
func Contains() functions.Function {
	return extutil.OnText("contains", func(s string, args []value.Value) value.Value {
		sub, ok := extutil.TextArg(args, 0)
		if !ok {
			return value.False
		}
		return value.Bool(strings.Contains(s, sub))
	})
}

// EndsWith returns the function s | endsWith(suffix).
func EndsWith() functions.Function {
	return extutil.OnText("endsWith", func(s string, args []value.Value) value.Value {
		suffix, ok := extutil.TextArg(args, 0)
		if !ok {
			return value.False
		}
		return value.Bool(strings.HasSuffix(s, suffix))
	})
}

// StartsWith returns the function s | startsWith(prefix).
func StartsWith() functions.Function {
	return extutil.OnText("startsWith", func(s string, args []value.Value) value.Value {
		prefix, ok := extutil.TextArg(args, 0)
		if !ok {
			return value.False
		}
		return value.Bool(strings.HasPrefix(s, prefix))
	})
}

// IndexOf returns the function s | indexOf(sub [, from]): the rune index of
// the first occurrence of sub at or after from, or -1.
func IndexOf() functions.Function {
	return extutil.OnText("indexOf", func(s string, args []value.Value) value.Value {
		sub, ok := extutil.TextArg(args, 0)
		if !ok {
			return nil
		}
		from := 0
		if len(args) > 1 {
			if from, ok = extutil.IntArg(args, 1); !ok {
				return nil
			}
		}
		r := []rune(s)
		if from < 0 {
			from = 0
		}
		if from > len(r) {
			return value.Int(-1)
		}
		i := strings.Index(string(r[from:]), sub)
		if i < 0 {
			return value.Int(-1)
		}
		return value.Int(from + utf8.RuneCountInString(string(r[from:])[:i]))
	})
}

// LastIndexOf returns the function s | lastIndexOf(sub).
func LastIndexOf() functions.Function {
	return extutil.OnText("lastIndexOf", func(s string, args []value.Value) value.Value {
		sub, ok := extutil.TextArg(args, 0)
		if !ok {
			return nil
		}
		i := strings.LastIndex(s, sub)
		if i < 0 {
			return value.Int(-1)
		}
		return value.Int(utf8.RuneCountInString(s[:i]))
	})
}

// IsEmpty returns the function s | isEmpty.
func IsEmpty() functions.Function {
	return extutil.OnText("isEmpty", func(s string, _ []value.Value) value.Value {
		return value.Bool(s == "")
	})
}

// Length returns the function s | length: the number of runes.
func Length() functions.Function {
	return extutil.OnText("length", func(s string, _ []value.Value) value.Value {
		return value.Int(utf8.RuneCountInString(s))
	})
}

// Matches returns the function s | matches(pattern). The whole text must
// match.
func Matches() functions.Function {
	return extutil.OnText("matches", func(s string, args []value.Value) value.Value {
		re, ok := compileArg(args, 0, true)
		if !ok {
			return value.False
		}
		return value.Bool(re.MatchString(s))
	})
}

// Replace returns the function s | replace(old, new) replacing every
// literal occurrence.
func Replace() functions.Function {
	return extutil.OnText("replace", func(s string, args []value.Value) value.Value {
		old, ok1 := extutil.TextArg(args, 0)
		repl, ok2 := extutil.TextArg(args, 1)
		if !ok1 || !ok2 {
			return nil
		}
		return value.String(strings.ReplaceAll(s, old, repl))
	})
}

// ReplaceAll returns the function s | replaceAll(pattern, repl). The
// replacement may reference groups as $1 or ${name}.
func ReplaceAll() functions.Function {
	return extutil.OnText("replaceAll", func(s string, args []value.Value) value.Value {
		re, ok1 := compileArg(args, 0, false)
		repl, ok2 := extutil.TextArg(args, 1)
		if !ok1 || !ok2 {
			return nil
		}
		return value.String(re.ReplaceAllString(s, repl))
	})
}

// ReplaceFirst returns the function s | replaceFirst(pattern, repl).
func ReplaceFirst() functions.Function {
	return extutil.OnText("replaceFirst", func(s string, args []value.Value) value.Value {
		re, ok1 := compileArg(args, 0, false)
		repl, ok2 := extutil.TextArg(args, 1)
		if !ok1 || !ok2 {
			return nil
		}
		loc := re.FindStringSubmatchIndex(s)
		if loc == nil {
			return value.String(s)
		}
		var out []byte
		out = append(out, s[:loc[0]]...)
		out = re.ExpandString(out, repl, s, loc)
		out = append(out, s[loc[1]:]...)
		return value.String(string(out))
	})
}

// Split returns the function s | split(pattern): an array of the
// substrings between matches. Trailing empty strings are dropped.
func Split() functions.Function {
	return extutil.OnText("split", func(s string, args []value.Value) value.Value {
		re, ok := compileArg(args, 0, false)
		if !ok {
			return nil
		}
		parts := re.Split(s, -1)
		for len(parts) > 1 && parts[len(parts)-1] == "" {
			parts = parts[:len(parts)-1]
		}
		items := make([]value.Value, len(parts))
		for i, p := range parts {
			items[i] = value.String(p)
		}
		return value.NewArray(items...)
	})
}

// Substring returns the function s | substring(begin [, end]) over rune
// indices. Out of range bounds return the data unchanged.
func Substring() functions.Function {
	return extutil.OnText("substring", func(s string, args []value.Value) value.Value {
		r := []rune(s)
		begin, ok := extutil.IntArg(args, 0)
		if !ok {
			return nil
		}
		end := len(r)
		if len(args) > 1 {
			if end, ok = extutil.IntArg(args, 1); !ok {
				return nil
			}
		}
		if begin < 0 || end > len(r) || begin > end {
			return nil
		}
		return value.String(string(r[begin:end]))
	})
}

// ToLowerCase returns the function s | toLowerCase.
func ToLowerCase() functions.Function {
	return extutil.OnText("toLowerCase", func(s string, _ []value.Value) value.Value {
		return value.String(strings.ToLower(s))
	})
}

// ToUpperCase returns the function s | toUpperCase.
func ToUpperCase() functions.Function {
	return extutil.OnText("toUpperCase", func(s string, _ []value.Value) value.Value {
		return value.String(strings.ToUpper(s))
	})
}

// Trim returns the function s | trim.
func Trim() functions.Function {
	return extutil.OnText("trim", func(s string, _ []value.Value) value.Value {
		return value.String(strings.TrimSpace(s))
	})
}

// Capitalize returns the function s | capitalize: first rune upper-cased.
func Capitalize() functions.Function {
	return extutil.OnText("capitalize", func(s string, _ []value.Value) value.Value {
		if s == "" {
			return value.String(s)
		}
		r := []rune(s)
		r[0] = unicode.ToUpper(r[0])
		return value.String(string(r))
	})
}

// TitleCase returns the function s | titleCase([locale]): every word
// capitalized and the rest lower-cased, by the casing rules of locale.
func TitleCase() functions.Function {
	return extutil.OnText("titleCase", func(s string, args []value.Value) value.Value {
		tag := language.Und
		if name, ok := extutil.TextArg(args, 0); ok {
			if t, err := language.Parse(name); err == nil {
				tag = t
			}
		}
		return value.String(cases.Title(tag).String(s))
	})
}

// Repeat returns the function s | repeat(n).
func Repeat() functions.Function {
	return extutil.OnText("repeat", func(s string, args []value.Value) value.Value {
		n, ok := extutil.IntArg(args, 0)
		if !ok || n < 0 {
			return nil
		}
		return value.String(strings.Repeat(s, n))
	})
}

// compileArg compiles the pattern in args[i]. When whole is set the pattern
// is anchored at both ends.
func compileArg(args []value.Value, i int, whole bool) (*regexp.Regexp, bool) {
	pattern, ok := extutil.TextArg(args, i)
	if !ok {
		return nil, false
	}
	if whole {
		pattern = `^(?:` + pattern + `)$`
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, false
	}
	return re, true
}
