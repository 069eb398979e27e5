// Package parser implements the parser of binding expressions.
//
// A layout attribute whose text has the form @{ <expr> } is a binding. The
// expression language has literals, data paths and function calls:
//
//	'text'  "text"  42  -1.5  true  false  null
//	user.name   items[0]   items[$index].title   `odd key`.x
//	add(price, tax)   fn:IF_THEN_ELSE(done, 'yes', 'no')
//	created | date('d MMM yyyy')   tags | join
//
// The parser is a hand-written recursive descent parser over the tokens
// produced by Lexer. Errors are *types.Error values carrying the position of
// the offending token.
//
// # Example
//
//	expr, err := parser.ParseBinding("@{user.name}")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ast := expr.AST()
package parser

import (
	"strings"

	"github.com/sandrolain/bindtree/pkg/types"
)

const (
	bindingPrefix = "@{"
	bindingSuffix = "}"
)

// Parse parses a binding expression (without the @{...} delimiters).
func Parse(query string, opts ...CompileOption) (*types.Expression, error) {
	p := NewParser(query, opts...)
	return p.Parse()
}

// ParseBinding parses attribute text of the form @{ <expr> }.
func ParseBinding(text string, opts ...CompileOption) (*types.Expression, error) {
	inner, ok := Unwrap(text)
	if !ok {
		return nil, types.NewError(types.ErrNotABinding, "binding must have the form @{...}", -1).
			WithToken(text)
	}
	return Parse(inner, opts...)
}

// IsBinding reports whether attribute text has the @{...} binding form.
func IsBinding(text string) bool {
	_, ok := Unwrap(text)
	return ok
}

// Unwrap strips the @{...} delimiters and surrounding whitespace.
func Unwrap(text string) (string, bool) {
	t := strings.TrimSpace(text)
	if len(t) < len(bindingPrefix)+len(bindingSuffix) ||
		!strings.HasPrefix(t, bindingPrefix) || !strings.HasSuffix(t, bindingSuffix) {
		return "", false
	}
	return t[len(bindingPrefix) : len(t)-len(bindingSuffix)], true
}

// CompileOption configures compilation behavior.
type CompileOption func(*CompileOptions)

// CompileOptions holds parser configuration.
type CompileOptions struct {
	// MaxDepth limits nesting of calls, groups and index expressions.
	MaxDepth int
}

// WithMaxDepth sets the maximum parsing depth.
func WithMaxDepth(depth int) CompileOption {
	return func(opts *CompileOptions) {
		opts.MaxDepth = depth
	}
}
