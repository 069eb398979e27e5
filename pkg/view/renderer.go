// Package view binds compiled layouts to render-tree nodes.
//
// A Manager owns one node: its layout, its data context and the list of
// bound attributes extracted from the layout. Static attributes are applied
// once when the manager is created; bound attributes are re-evaluated and
// re-applied on every Update, in declaration order.
//
// The render tree itself belongs to a Renderer (a UI toolkit, a document
// builder, the in-memory renderer in pkg/render/memory). An Inflater uses a
// Factory to create the nodes of a whole layout and returns a Tree of
// managers that can be updated as one.
package view

import "github.com/sandrolain/bindtree/pkg/value"

// Handle is an opaque reference to a node of the Renderer's tree.
type Handle any

// Renderer applies resolved values to nodes and looks nodes up.
//
// ApplyAttribute must not panic on values it cannot use; it should log and
// ignore them. FindByIdentifier reports false on a miss.
type Renderer interface {
	ApplyAttribute(node Handle, attributeID string, v value.Value)
	FindByIdentifier(node Handle, id int) (Handle, bool)
	ResolveUniqueID(id string) int
}

// Factory creates and removes nodes of the Renderer's tree.
type Factory interface {
	CreateNode(parent Handle, layoutType string) (Handle, error)
	RemoveNode(parent, child Handle)
}

// BoundAttribute is an attribute whose value is computed from data.
type BoundAttribute struct {
	AttributeID string
	Binding     value.Binding
}
