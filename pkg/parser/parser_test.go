package parser_test

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sandrolain/bindtree/pkg/parser"
	"github.com/sandrolain/bindtree/pkg/types"
)

// show renders an AST compactly: paths as written, calls as name(args),
// piped calls as (input | name(args)).
func show(n *types.ASTNode) string {
	if n == nil {
		return "<nil>"
	}
	switch n.Type {
	case types.NodeString:
		return "'" + n.StrValue + "'"
	case types.NodeNumber:
		return strconv.FormatFloat(n.NumValue, 'f', -1, 64)
	case types.NodeBoolean:
		return strconv.FormatBool(n.BoolValue)
	case types.NodeNull:
		return "null"
	case types.NodeVariable:
		return "$" + n.StrValue
	case types.NodeName:
		return n.StrValue
	case types.NodeIndex:
		return "[" + show(n.LHS) + "]"
	case types.NodePath:
		var sb strings.Builder
		for i, s := range n.Steps {
			if i > 0 && s.Type == types.NodeName {
				sb.WriteByte('.')
			}
			sb.WriteString(show(s))
		}
		return sb.String()
	case types.NodeFunction:
		args := make([]string, len(n.Arguments))
		for i, a := range n.Arguments {
			args[i] = show(a)
		}
		call := n.StrValue + "(" + strings.Join(args, ", ") + ")"
		if n.LHS != nil {
			return "(" + show(n.LHS) + " | " + call + ")"
		}
		return call
	default:
		return "?" + string(n.Type)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"user.name", "user.name"},
		{"items[0].title", "items[0].title"},
		{"items.0", "items[0]"},
		{"items[$index].title", "items[$index].title"},
		{"map['key']", "map['key']"},
		{"`odd key`.x", "odd key.x"},
		{"add(1, -2.5)", "add(1, -2.5)"},
		{"noop()", "noop()"},
		{"fn:IF_THEN_ELSE(done, 'yes', 'no')", "IF_THEN_ELSE(done, 'yes', 'no')"},
		{"a | b | c(1)", "((a | b()) | c(1))"},
		{"created | fn:date('d')", "(created | date('d'))"},
		{"'abc' | toUpperCase", "('abc' | toUpperCase())"},
		{"(x)", "x"},
		{"true", "true"},
		{"null", "null"},
		{`"tab\tand é"`, "'tab\tand é'"},
		{"  spaced . out  ", "spaced.out"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr, err := parser.Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}
			if got := show(expr.AST()); got != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.input, got, tt.want)
			}
			if expr.Source() != tt.input {
				t.Errorf("Source() = %q, want %q", expr.Source(), tt.input)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input    string
		code     types.ErrorCode
		position int
	}{
		{"", types.ErrSyntaxError, 0},
		{"'abc", types.ErrStringNotClosed, 1},
		{"a.", types.ErrExpectedToken, 2},
		{"add(1", types.ErrExpectedToken, 5},
		{"$foo", types.ErrSyntaxError, 0},
		{"a b", types.ErrSyntaxError, 2},
		{"a |", types.ErrExpectedToken, 3},
		{`'\q'`, types.ErrUnsupportedEscape, 1},
		{"fn:x", types.ErrExpectedToken, 4},
		{"-a", types.ErrSyntaxError, 1},
		{"add(1,", types.ErrUnexpectedEnd, 6},
		{"(a | b)[0]", types.ErrSyntaxError, 7},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := parser.Parse(tt.input)
			if err == nil {
				t.Fatalf("Parse(%q) should fail", tt.input)
			}
			var e *types.Error
			if !errors.As(err, &e) {
				t.Fatalf("expected *types.Error, got %T", err)
			}
			if e.Code != tt.code || e.Position != tt.position {
				t.Errorf("got %s at %d (%s), want %s at %d", e.Code, e.Position, e.Message, tt.code, tt.position)
			}
		})
	}
}

func TestParseMaxDepth(t *testing.T) {
	if _, err := parser.Parse("((((x))))", parser.WithMaxDepth(3)); types.CodeOf(err) != types.ErrSyntaxError {
		t.Fatalf("expected depth error, got %v", err)
	}
	if _, err := parser.Parse("((((x))))", parser.WithMaxDepth(10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBindingText(t *testing.T) {
	tests := []struct {
		text  string
		inner string
		ok    bool
	}{
		{"@{a}", "a", true},
		{"  @{ a.b }  ", " a.b ", true},
		{"@{}", "", true},
		{"a@{b}", "", false},
		{"@{a", "", false},
		{"plain", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			inner, ok := parser.Unwrap(tt.text)
			if ok != tt.ok || inner != tt.inner {
				t.Errorf("Unwrap(%q) = %q, %t; want %q, %t", tt.text, inner, ok, tt.inner, tt.ok)
			}
			if parser.IsBinding(tt.text) != tt.ok {
				t.Errorf("IsBinding(%q) = %t, want %t", tt.text, !tt.ok, tt.ok)
			}
		})
	}
}

func TestParseBinding(t *testing.T) {
	expr, err := parser.ParseBinding("@{ user | trim }")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := show(expr.AST()); got != "(user | trim())" {
		t.Errorf("got %s", got)
	}

	_, err = parser.ParseBinding("user")
	if types.CodeOf(err) != types.ErrNotABinding {
		t.Errorf("expected %s, got %v", types.ErrNotABinding, err)
	}
}

func TestCallsOrder(t *testing.T) {
	expr, err := parser.Parse("fn:add(x | trim, mul(1, 2))")
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, c := range expr.AST().Calls() {
		names = append(names, c.StrValue)
	}
	if diff := cmp.Diff([]string{"trim", "mul", "add"}, names); diff != "" {
		t.Errorf("Calls() mismatch (-want +got):\n%s", diff)
	}
}
