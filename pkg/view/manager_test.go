package view_test

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sandrolain/bindtree/pkg/evaluator"
	"github.com/sandrolain/bindtree/pkg/render/memory"
	"github.com/sandrolain/bindtree/pkg/value"
	"github.com/sandrolain/bindtree/pkg/view"
)

var (
	quiet = slog.New(slog.NewTextHandler(io.Discard, nil))
	ev    = evaluator.New(evaluator.WithLogger(quiet))
)

func attr(id string, v any) value.Attribute {
	if s, ok := v.(string); ok && len(s) > 2 && s[:2] == "@{" {
		return value.Attribute{ID: id, Value: ev.MustCompile(s)}
	}
	return value.Attribute{ID: id, Value: value.FromNative(v)}
}

// trace lists the recorded attribute applications as "serial attr=value".
func trace(r *memory.Renderer) []string {
	var out []string
	for _, c := range r.Calls() {
		out = append(out, fmt.Sprintf("%d %s=%v", c.Node, c.Attribute, value.ToNative(c.Value)))
	}
	return out
}

func newManager(t *testing.T, l value.Layout, dc *evaluator.DataContext) (*memory.Renderer, *view.Manager) {
	t.Helper()
	r := memory.New(memory.WithLogger(quiet))
	h, err := r.CreateNode(nil, l.Type)
	if err != nil {
		t.Fatal(err)
	}
	return r, view.NewManager(r, h, l, dc, ev, view.WithLogger(quiet))
}

func TestManagerStaticAttributesAppliedOnce(t *testing.T) {
	l := value.Layout{
		Type: "text",
		Attributes: []value.Attribute{
			attr("color", "red"),
			attr("text", "@{user.name}"),
			attr("size", 12),
			attr("count", "@{n}"),
		},
	}
	dc := evaluator.NewDataContext(value.MapOf("user", map[string]any{"name": "Ada"}, "n", 1))
	r, m := newManager(t, l, dc)

	if diff := cmp.Diff([]string{"1 color=red", "1 size=12"}, trace(r)); diff != "" {
		t.Fatalf("creation calls mismatch (-want +got):\n%s", diff)
	}

	var ids []string
	for _, ba := range m.BoundAttributes() {
		ids = append(ids, ba.AttributeID)
	}
	if diff := cmp.Diff([]string{"text", "count"}, ids); diff != "" {
		t.Errorf("BoundAttributes() mismatch (-want +got):\n%s", diff)
	}

	r.ResetCalls()
	m.Update(nil)
	m.Update(nil)
	want := []string{"1 text=Ada", "1 count=1", "1 text=Ada", "1 count=1"}
	if diff := cmp.Diff(want, trace(r)); diff != "" {
		t.Errorf("update calls mismatch (-want +got):\n%s", diff)
	}
}

func TestManagerUpdateSameDataIsIdempotent(t *testing.T) {
	root := evaluator.NewDataContext(value.MapOf("theme", "dark", "n", 0))
	tests := []struct {
		name string
		dc   *evaluator.DataContext
	}{
		{"merged context", root.Fork(value.MapOf("n", 1))},
		{"clone context", root.Clone(value.MapOf("n", 1), 2)},
	}

	l := value.Layout{
		Type: "row",
		Attributes: []value.Attribute{
			attr("label", "@{user.name}"),
			attr("theme", "@{theme}"),
			attr("pos", "@{$index | index}"),
			attr("total", "@{fn:add(n, 1)}"),
		},
	}
	data := value.MapOf("user", map[string]any{"name": "Ada"}, "n", 4)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, m := newManager(t, l, tt.dc)

			r.ResetCalls()
			m.Update(&data)
			first := trace(r)

			r.ResetCalls()
			m.Update(&data)
			second := trace(r)

			if len(first) != len(l.Attributes) {
				t.Fatalf("first update applied %d attributes, want %d: %v", len(first), len(l.Attributes), first)
			}
			if diff := cmp.Diff(first, second); diff != "" {
				t.Errorf("second Update(&data) differs (-first +second):\n%s", diff)
			}
		})
	}
}

func TestManagerUpdateNilLeavesContext(t *testing.T) {
	dc := evaluator.NewDataContext(value.MapOf("n", 1))
	_, m := newManager(t, value.Layout{Type: "text", Attributes: []value.Attribute{attr("count", "@{n}")}}, dc)

	before := value.ToNative(dc.Data())
	m.Update(nil)
	if diff := cmp.Diff(before, value.ToNative(dc.Data())); diff != "" {
		t.Errorf("Update(nil) changed the context (-before +after):\n%s", diff)
	}
	if m.DataContext() != dc {
		t.Error("DataContext() must return the given context")
	}
}

func TestManagerUpdateMergesData(t *testing.T) {
	l := value.Layout{
		Type:       "text",
		Attributes: []value.Attribute{attr("text", "@{user.name}"), attr("count", "@{n}")},
	}
	dc := evaluator.NewDataContext(value.MapOf("user", map[string]any{"name": "Ada"}, "n", 1))
	r, m := newManager(t, l, dc)

	data := value.MapOf("n", 2)
	m.Update(&data)

	node := r.Root().Children[0]
	if v, _ := node.Attr("count"); v.AsInt() != 2 {
		t.Errorf("count = %v, want 2", v)
	}
	if v, _ := node.Attr("text"); v.AsString() != "Ada" {
		t.Errorf("text = %v, merge must keep untouched keys", v)
	}
}

func TestManagerUpdateReplacesCloneData(t *testing.T) {
	l := value.Layout{
		Type:       "item",
		Attributes: []value.Attribute{attr("label", "@{name}"), attr("extra", "@{extra}")},
	}
	clone := evaluator.NewDataContext(value.Map{}).Clone(value.MapOf("name", "a", "extra", "x"), 0)
	r, m := newManager(t, l, clone)
	m.Update(nil)

	data := value.MapOf("name", "b")
	m.Update(&data)

	node := r.Root().Children[0]
	if v, _ := node.Attr("label"); v.AsString() != "b" {
		t.Errorf("label = %v, want b", v)
	}
	if v, _ := node.Attr("extra"); !v.IsNull() {
		t.Errorf("extra = %v, clone data must be replaced", v)
	}
}

func TestManagerFindViewByID(t *testing.T) {
	l := value.Layout{Type: "text", Attributes: []value.Attribute{attr("id", "title")}}
	_, m := newManager(t, l, nil)

	h, ok := m.FindViewByID("title")
	if !ok || h != m.Node() {
		t.Errorf("FindViewByID(title) = %v, %t", h, ok)
	}
	if _, ok := m.FindViewByID("missing"); ok {
		t.Error("FindViewByID(missing) should miss")
	}
}

func TestManagerDefaults(t *testing.T) {
	r := memory.New(memory.WithLogger(quiet))
	h, _ := r.CreateNode(nil, "text")
	m := view.NewManager(r, h, value.Layout{Type: "text", Attributes: []value.Attribute{attr("v", "@{missing}")}}, nil, nil)
	m.Update(nil)

	if v, ok := r.Root().Children[0].Attr("v"); !ok || !v.IsNull() {
		t.Errorf("v = %v, %t; want Null", v, ok)
	}
	if m.DataContext() == nil || m.Layout().Type != "text" {
		t.Error("defaults not applied")
	}
}
