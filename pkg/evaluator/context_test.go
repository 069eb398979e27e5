package evaluator_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sandrolain/bindtree/pkg/evaluator"
	"github.com/sandrolain/bindtree/pkg/types"
	"github.com/sandrolain/bindtree/pkg/value"
)

func TestForkResolution(t *testing.T) {
	parent := evaluator.NewDataContext(value.MapOf("x", 1))
	child := parent.Fork(value.MapOf("y", 2))

	if got := child.Resolve("x"); got.AsInt() != 1 {
		t.Errorf("resolve(x) = %v, want 1", got)
	}
	if got := child.Resolve("y"); got.AsInt() != 2 {
		t.Errorf("resolve(y) = %v, want 2", got)
	}
	if got := child.Resolve("z"); !got.IsNull() {
		t.Errorf("resolve(z) = %v, want Null", got)
	}
	if got := parent.Resolve("y"); !got.IsNull() {
		t.Errorf("parent must not see child names, got %v", got)
	}
}

func TestForkShadowsAndFollowsParent(t *testing.T) {
	parent := evaluator.NewDataContext(value.MapOf("x", 1, "label", "outer"))
	child := parent.Fork(value.MapOf("label", "inner"))

	if got := child.Resolve("label").AsString(); got != "inner" {
		t.Errorf("child label = %q, want inner", got)
	}
	if err := parent.UpdateDataContext(value.MapOf("x", 5)); err != nil {
		t.Fatal(err)
	}
	if got := child.Resolve("x").AsInt(); got != 5 {
		t.Errorf("fork must observe parent updates, got %d", got)
	}

	want := map[string]any{"x": float64(5), "label": "inner"}
	if diff := cmp.Diff(want, value.ToNative(child.Flatten())); diff != "" {
		t.Errorf("Flatten() mismatch (-want +got):\n%s", diff)
	}
}

func TestIndexInheritance(t *testing.T) {
	root := evaluator.NewDataContext(value.Map{})
	if root.Index() != evaluator.NoIndex {
		t.Fatalf("root index = %d, want NoIndex", root.Index())
	}

	item := root.Clone(value.MapOf("n", 1), 3)
	fork := item.Fork(value.Map{})
	if fork.Index() != 3 {
		t.Errorf("fork index = %d, want inherited 3", fork.Index())
	}
	if got := item.ForkAt(value.Map{}, 7).Index(); got != 7 {
		t.Errorf("ForkAt index = %d, want 7", got)
	}
	if fork.Depth() != 2 || fork.Parent() != item {
		t.Errorf("fork depth/parent wrong: %s", fork)
	}
}

func TestCloneIndependence(t *testing.T) {
	template := evaluator.NewDataContext(value.MapOf("title", "list", "shared", "s"))
	sibling := template.Fork(value.MapOf("local", true))
	item := template.Clone(value.MapOf("name", "first"), 0)

	if err := item.SetData(value.MapOf("name", "second", "title", "mutated")); err != nil {
		t.Fatal(err)
	}

	if got := item.Resolve("name").AsString(); got != "second" {
		t.Errorf("clone name = %q, want second", got)
	}
	if got := item.Resolve("shared").AsString(); got != "s" {
		t.Errorf("clone must still fall back to its origin, got %q", got)
	}
	if got := sibling.Resolve("title").AsString(); got != "list" {
		t.Errorf("sibling fork sees %q, clone data leaked", got)
	}
	if _, ok := template.Data().Get("name"); ok {
		t.Error("template mapping must not change")
	}
}

func TestSetDataReplacesWholesale(t *testing.T) {
	item := evaluator.NewDataContext(value.Map{}).Clone(value.MapOf("a", 1, "b", 2), 0)
	if err := item.SetData(value.MapOf("a", 3)); err != nil {
		t.Fatal(err)
	}
	if !item.Resolve("b").IsNull() {
		t.Error("SetData must replace the local mapping")
	}
}

func TestUpdateDataContextMerges(t *testing.T) {
	dc := evaluator.NewDataContext(value.MapOf("a", 1, "b", 2))
	if err := dc.UpdateDataContext(value.MapOf("b", 3, "c", 4)); err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"a": float64(1), "b": float64(3), "c": float64(4)}
	if diff := cmp.Diff(want, value.ToNative(dc.Data())); diff != "" {
		t.Errorf("Data() mismatch (-want +got):\n%s", diff)
	}
}

func TestContextMisuse(t *testing.T) {
	root := evaluator.NewDataContext(value.Map{})
	clone := root.Clone(value.Map{}, 0)

	if err := root.SetData(value.Map{}); types.CodeOf(err) != types.ErrCloneRequired {
		t.Errorf("SetData on a non-clone: %v", err)
	}
	if err := clone.UpdateDataContext(value.Map{}); types.CodeOf(err) != types.ErrCloneForbidden {
		t.Errorf("UpdateDataContext on a clone: %v", err)
	}
	if !clone.IsClone() || root.IsClone() {
		t.Error("IsClone mismatch")
	}
}
