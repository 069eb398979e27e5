package bindtree_test

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/sandrolain/bindtree"
	"github.com/sandrolain/bindtree/pkg/evaluator"
	"github.com/sandrolain/bindtree/pkg/ext"
	"github.com/sandrolain/bindtree/pkg/functions"
	"github.com/sandrolain/bindtree/pkg/render/memory"
	"github.com/sandrolain/bindtree/pkg/types"
	"github.com/sandrolain/bindtree/pkg/value"
)

var quiet = evaluator.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

func TestEvaluate(t *testing.T) {
	data := value.MapOf("order", map[string]any{"paid": true, "total": 12})

	got, err := bindtree.Evaluate("@{fn:IF_THEN_ELSE(order.paid, 'Paid', 'Due')}", data, quiet)
	if err != nil {
		t.Fatal(err)
	}
	if got.AsString() != "Paid" {
		t.Errorf("got %v, want Paid", got)
	}

	got, err = bindtree.Evaluate("order.total | fn:add(1)", data, quiet)
	if err != nil || got.AsInt() != 1 {
		t.Errorf("add ignores piped data and sums its arguments: %v, %v", got, err)
	}

	if _, err := bindtree.Evaluate("@{toUpperCase(x)}", data, quiet); types.CodeOf(err) != types.ErrUndefinedFunction {
		t.Errorf("ext functions need a registry: %v", err)
	}

	withExt := evaluator.WithRegistry(functions.NewRegistry(ext.WithAll()))
	got, err = bindtree.Evaluate("@{'ada' | toUpperCase}", value.Map{}, quiet, withExt)
	if err != nil || got.AsString() != "ADA" {
		t.Errorf("got %v, %v", got, err)
	}
}

func TestCompile(t *testing.T) {
	b, err := bindtree.Compile("@{a.b}")
	if err != nil || b.Source() != "@{a.b}" {
		t.Errorf("Compile() = %v, %v", b, err)
	}

	defer func() {
		if recover() == nil {
			t.Error("MustCompile should panic")
		}
	}()
	bindtree.MustCompile("@{a.}")
}

func TestRender(t *testing.T) {
	layoutDoc := []byte(`
type: card
title: "@{title}"
children:
  - type: text
    text: "@{fn:IF_THEN_ELSE(fn:GREATER_THAN(count, 1), 'many', 'one')}"
`)
	out, err := bindtree.Render(layoutDoc, []byte(`{"title": "Inbox", "count": 3}`), quiet)
	if err != nil {
		t.Fatal(err)
	}

	var got []map[string]any
	if err := yaml.Unmarshal(out, &got); err != nil {
		t.Fatalf("Render output is not YAML: %v", err)
	}
	want := []map[string]any{{
		"type":     "card",
		"title":    "Inbox",
		"children": []any{map[string]any{"type": "text", "text": "many"}},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Render() mismatch (-want +got):\n%s", diff)
	}

	if _, err := bindtree.Render([]byte("type: x"), []byte("- 1"), quiet); err == nil || !strings.HasPrefix(err.Error(), "data:") {
		t.Errorf("bad data error = %v", err)
	}
	if _, err := bindtree.Render([]byte("title: x"), nil, quiet); err == nil || !strings.HasPrefix(err.Error(), "layout:") {
		t.Errorf("bad layout error = %v", err)
	}
}

func TestInflateAndUpdate(t *testing.T) {
	l := value.Layout{
		Type:       "text",
		Attributes: []value.Attribute{{ID: "label", Value: bindtree.MustCompile("@{name}")}},
	}
	r := memory.New()
	tree, err := bindtree.Inflate(r, l, value.MapOf("name", "a"), quiet)
	if err != nil {
		t.Fatal(err)
	}

	next := value.MapOf("name", "b")
	if err := tree.Update(&next); err != nil {
		t.Fatal(err)
	}
	if v, _ := r.Root().Children[0].Attr("label"); v.AsString() != "b" {
		t.Errorf("label = %v, want b", v)
	}
	if bindtree.Version() == "" {
		t.Error("Version() is empty")
	}
}
