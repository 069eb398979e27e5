package view

import (
	"github.com/sandrolain/bindtree/pkg/evaluator"
	"github.com/sandrolain/bindtree/pkg/value"
)

// Node is one inflated layout node.
type Node struct {
	manager  *Manager
	outer    *evaluator.DataContext // context the node was inflated in
	children []*Node                // static children
	items    []*Node                // repeated children
}

// Manager returns the manager of the node.
func (n *Node) Manager() *Manager {
	return n.manager
}

// Children returns the static children followed by the repeated ones.
func (n *Node) Children() []*Node {
	out := make([]*Node, 0, len(n.children)+len(n.items))
	out = append(out, n.children...)
	return append(out, n.items...)
}

// Items returns the repeated children.
func (n *Node) Items() []*Node {
	out := make([]*Node, len(n.items))
	copy(out, n.items)
	return out
}

func (n *Node) count() int {
	total := 1
	for _, c := range n.Children() {
		total += c.count()
	}
	return total
}

// Tree is an inflated layout: a root node and its descendants.
// Updates must not run concurrently.
type Tree struct {
	inflater *Inflater
	base     *evaluator.DataContext
	parent   Handle
	root     *Node
}

// Root returns the root node.
func (t *Tree) Root() *Node {
	return t.root
}

// DataContext returns the root data context.
func (t *Tree) DataContext() *evaluator.DataContext {
	return t.base
}

// Update merges data into the root context, when non-nil, then refreshes
// the whole tree in pre-order: every bound attribute is re-applied and every
// repeated list is re-synchronised with its array.
func (t *Tree) Update(data *value.Map) error {
	return t.inflater.refresh(t.root, data)
}

// FindViewByID looks up a node by its declared id string from the root.
func (t *Tree) FindViewByID(id string) (Handle, bool) {
	return t.root.manager.FindViewByID(id)
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	return t.root.count()
}

// Walk calls fn for every node in pre-order until fn returns false.
func (t *Tree) Walk(fn func(n *Node, depth int) bool) {
	walk(t.root, 0, fn)
}

func walk(n *Node, depth int, fn func(*Node, int) bool) bool {
	if !fn(n, depth) {
		return false
	}
	for _, c := range n.Children() {
		if !walk(c, depth+1, fn) {
			return false
		}
	}
	return true
}

// Destroy removes the root node from its parent.
func (t *Tree) Destroy() {
	t.inflater.factory.RemoveNode(t.parent, t.root.manager.node)
}
