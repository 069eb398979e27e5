package view_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sandrolain/bindtree/pkg/render/memory"
	"github.com/sandrolain/bindtree/pkg/types"
	"github.com/sandrolain/bindtree/pkg/value"
	"github.com/sandrolain/bindtree/pkg/view"
)

func screenLayout() value.Layout {
	greeting := value.MapOf("greeting", ev.MustCompile("@{title}"), "fixed", "f")
	return value.Layout{
		Type:       "screen",
		Attributes: []value.Attribute{attr("id", "screen"), attr("title", "@{title}")},
		Children: []value.Layout{
			{
				Type: "box",
				Data: &greeting,
				Children: []value.Layout{
					{Type: "text", Attributes: []value.Attribute{attr("text", "@{greeting}"), attr("fixed", "@{fixed}")}},
				},
			},
			{
				Type:       "list",
				Attributes: []value.Attribute{attr("id", "list")},
				Repeat: &value.Repeat{
					Items: ev.MustCompile("@{items}"),
					Layout: value.Layout{
						Type: "item",
						Attributes: []value.Attribute{
							attr("label", "@{name}"),
							attr("pos", "@{$index | index}"),
							attr("title", "@{title}"),
						},
					},
				},
			},
		},
	}
}

func items(names ...string) []any {
	out := make([]any, len(names))
	for i, n := range names {
		out[i] = map[string]any{"name": n}
	}
	return out
}

// dump prints the rendered nodes below the container, one per line.
func dump(r *memory.Renderer) string {
	var sb strings.Builder
	var walk func(n *memory.Node, depth int)
	walk = func(n *memory.Node, depth int) {
		sb.WriteString(strings.Repeat("  ", depth) + n.Type)
		for _, a := range n.Attributes {
			fmt.Fprintf(&sb, " %s=%v", a.ID, value.ToNative(a.Value))
		}
		sb.WriteByte('\n')
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	for _, c := range r.Root().Children {
		walk(c, 0)
	}
	return sb.String()
}

func inflate(t *testing.T, data value.Map) (*memory.Renderer, *view.Tree) {
	t.Helper()
	r := memory.New(memory.WithLogger(quiet))
	tree, err := view.NewInflater(r, r, ev, view.WithLogger(quiet)).Inflate(nil, screenLayout(), data)
	if err != nil {
		t.Fatalf("Inflate() error: %v", err)
	}
	return r, tree
}

func TestInflate(t *testing.T) {
	r, tree := inflate(t, value.MapOf("title", "Hi", "items", items("a", "b")))

	want := `screen id=screen title=Hi
  box
    text text=Hi fixed=f
  list id=list
    item label=a pos=1 title=Hi
    item label=b pos=2 title=Hi
`
	if diff := cmp.Diff(want, dump(r)); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
	if tree.Len() != 6 {
		t.Errorf("Len() = %d, want 6", tree.Len())
	}
}

func TestTreeUpdateGrowsAndShrinksLists(t *testing.T) {
	r, tree := inflate(t, value.MapOf("title", "Hi", "items", items("a", "b")))
	list, _ := tree.FindViewByID("list")

	grow := value.MapOf("items", items("a", "c", "d"))
	if err := tree.Update(&grow); err != nil {
		t.Fatal(err)
	}
	var labels []string
	for _, c := range list.(*memory.Node).Children {
		v, _ := c.Attr("label")
		labels = append(labels, v.AsString())
	}
	if diff := cmp.Diff([]string{"a", "c", "d"}, labels); diff != "" {
		t.Errorf("labels after grow mismatch (-want +got):\n%s", diff)
	}

	shrink := value.MapOf("title", "Bye", "items", items("z"))
	if err := tree.Update(&shrink); err != nil {
		t.Fatal(err)
	}
	want := `screen id=screen title=Bye
  box
    text text=Bye fixed=f
  list id=list
    item label=z pos=1 title=Bye
`
	if diff := cmp.Diff(want, dump(r)); diff != "" {
		t.Errorf("tree after shrink mismatch (-want +got):\n%s", diff)
	}
	if got := len(tree.Root().Children()[1].Items()); got != 1 {
		t.Errorf("Items() = %d, want 1", got)
	}

	empty := value.MapOf("items", nil)
	if err := tree.Update(&empty); err != nil {
		t.Fatal(err)
	}
	if got := len(list.(*memory.Node).Children); got != 0 {
		t.Errorf("non-array items must empty the list, %d children left", got)
	}
}

func TestTreeUpdateNilReappliesBindings(t *testing.T) {
	r, tree := inflate(t, value.MapOf("title", "Hi", "items", items("a")))
	r.ResetCalls()

	if err := tree.Update(nil); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"1 title=Hi",
		"3 text=Hi", "3 fixed=f",
		"5 label=a", "5 pos=1", "5 title=Hi",
	}
	if diff := cmp.Diff(want, trace(r)); diff != "" {
		t.Errorf("Update(nil) calls mismatch (-want +got):\n%s", diff)
	}
}

func TestScalarItems(t *testing.T) {
	l := value.Layout{
		Type: "list",
		Repeat: &value.Repeat{
			Items:  ev.MustCompile("@{tags}"),
			Layout: value.Layout{Type: "tag", Attributes: []value.Attribute{attr("text", "@{item}")}},
		},
	}
	r := memory.New(memory.WithLogger(quiet))
	if _, err := view.NewInflater(r, r, ev).Inflate(nil, l, value.MapOf("tags", []any{"go", 7})); err != nil {
		t.Fatal(err)
	}
	want := "list\n  tag text=go\n  tag text=7\n"
	if diff := cmp.Diff(want, dump(r)); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestItemData(t *testing.T) {
	m := value.MapOf("a", 1)
	if got := view.ItemData(m); !value.Equal(got, m) {
		t.Errorf("ItemData(map) = %v", got)
	}
	if got := view.ItemData(value.String("x")).Lookup(view.ItemKey); got.AsString() != "x" {
		t.Errorf("ItemData(x)[item] = %v", got)
	}
	if got := view.ItemData(nil).Lookup(view.ItemKey); !got.IsNull() {
		t.Errorf("ItemData(nil)[item] = %v", got)
	}
}

func TestTreeWalk(t *testing.T) {
	_, tree := inflate(t, value.MapOf("title", "Hi", "items", items("a", "b")))

	var seen []string
	tree.Walk(func(n *view.Node, depth int) bool {
		seen = append(seen, fmt.Sprintf("%d:%s", depth, n.Manager().Layout().Type))
		return true
	})
	want := []string{"0:screen", "1:box", "2:text", "1:list", "2:item", "2:item"}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Errorf("Walk() mismatch (-want +got):\n%s", diff)
	}

	count := 0
	tree.Walk(func(*view.Node, int) bool {
		count++
		return count < 3
	})
	if count != 3 {
		t.Errorf("Walk must stop when fn returns false, visited %d", count)
	}
}

func TestTreeLookupAndDestroy(t *testing.T) {
	r, tree := inflate(t, value.MapOf("title", "Hi"))

	if h, ok := tree.FindViewByID("screen"); !ok || h != tree.Root().Manager().Node() {
		t.Errorf("FindViewByID(screen) = %v, %t", h, ok)
	}
	if _, ok := tree.FindViewByID("nope"); ok {
		t.Error("FindViewByID(nope) should miss")
	}
	if tree.DataContext().Resolve("title").AsString() != "Hi" {
		t.Error("root context must hold the inflated data")
	}

	tree.Destroy()
	if n := len(r.Root().Children); n != 0 {
		t.Errorf("Destroy left %d top-level nodes", n)
	}
}

type failingFactory struct {
	*memory.Renderer
	failOn string
}

func (f failingFactory) CreateNode(parent view.Handle, layoutType string) (view.Handle, error) {
	if layoutType == f.failOn {
		return nil, errors.New("unsupported")
	}
	return f.Renderer.CreateNode(parent, layoutType)
}

func TestInflateFactoryError(t *testing.T) {
	r := memory.New(memory.WithLogger(quiet))
	f := failingFactory{Renderer: r, failOn: "item"}

	_, err := view.NewInflater(r, f, ev).Inflate(nil, screenLayout(), value.MapOf("items", items("a")))
	if types.CodeOf(err) != types.ErrLayoutFactory {
		t.Fatalf("Inflate() error = %v, want %s", err, types.ErrLayoutFactory)
	}
	var e *types.Error
	if !errors.As(err, &e) || e.Token != "item" || e.Unwrap() == nil {
		t.Errorf("error should name the type and wrap the cause: %#v", e)
	}
}
