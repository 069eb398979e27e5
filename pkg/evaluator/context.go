package evaluator

import (
	"fmt"

	"github.com/sandrolain/bindtree/pkg/types"
	"github.com/sandrolain/bindtree/pkg/value"
)

// NoIndex is the data index of a context outside any repeated content.
const NoIndex = -1

// DataContext is the scope bindings are resolved against: a local mapping,
// an optional parent to fall back to, and the repetition index of the list
// item it belongs to.
//
// A fork shares its parent: names it does not define are read through the
// parent pointer, so a later update of the parent is visible to the fork.
// A clone is the context of one list item; its data is replaced wholesale
// by SetData and never written back to the parent.
//
// DataContext is not safe for concurrent mutation. Updates of one tree must
// be serialized by the caller.
type DataContext struct {
	data   value.Map
	parent *DataContext
	index  int
	clone  bool
	depth  int
}

// NewDataContext creates a root context.
func NewDataContext(data value.Map) *DataContext {
	return &DataContext{
		data:  data,
		index: NoIndex,
	}
}

// Fork creates a child context holding childData over this context. The
// child inherits the data index.
func (c *DataContext) Fork(childData value.Map) *DataContext {
	return c.ForkAt(childData, c.index)
}

// ForkAt is Fork with an explicit data index.
func (c *DataContext) ForkAt(childData value.Map, index int) *DataContext {
	return &DataContext{
		data:   childData,
		parent: c,
		index:  index,
		depth:  c.depth + 1,
	}
}

// Clone creates the context of a list item at index. Names the item does not
// define still resolve through c.
func (c *DataContext) Clone(data value.Map, index int) *DataContext {
	return &DataContext{
		data:   data,
		parent: c,
		index:  index,
		clone:  true,
		depth:  c.depth + 1,
	}
}

// Resolve looks name up in the local mapping, then along the parent chain.
// A total miss is Null.
func (c *DataContext) Resolve(name string) value.Value {
	for ctx := c; ctx != nil; ctx = ctx.parent {
		if v, ok := ctx.data.Get(name); ok {
			return v
		}
	}
	return value.NullValue
}

// SetData replaces the local mapping of a clone.
func (c *DataContext) SetData(newData value.Map) error {
	if !c.clone {
		return types.NewError(types.ErrCloneRequired,
			"SetData is only valid on a cloned data context; use UpdateDataContext", -1)
	}
	c.data = newData
	return nil
}

// UpdateDataContext merges newData into the local mapping, keeping keys
// newData does not mention. Every fork of c observes the change.
func (c *DataContext) UpdateDataContext(newData value.Map) error {
	if c.clone {
		return types.NewError(types.ErrCloneForbidden,
			"UpdateDataContext is not valid on a cloned data context; use SetData", -1)
	}
	c.data = c.data.Merge(newData)
	return nil
}

// Flatten returns every name visible from c, nearer scopes winning.
func (c *DataContext) Flatten() value.Map {
	if c.parent == nil {
		return c.data.Merge(value.Map{})
	}
	return c.parent.Flatten().Merge(c.data)
}

// Data returns the local mapping.
func (c *DataContext) Data() value.Map {
	return c.data
}

// Index returns the repetition index, or NoIndex.
func (c *DataContext) Index() int {
	return c.index
}

// IsClone reports whether c was created by Clone.
func (c *DataContext) IsClone() bool {
	return c.clone
}

// Parent returns the context c falls back to, or nil for a root.
func (c *DataContext) Parent() *DataContext {
	return c.parent
}

// Depth returns the number of ancestors.
func (c *DataContext) Depth() int {
	return c.depth
}

func (c *DataContext) String() string {
	return fmt.Sprintf("DataContext{depth=%d, index=%d, clone=%t, keys=%d}",
		c.depth, c.index, c.clone, c.data.Len())
}
