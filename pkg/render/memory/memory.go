// Package memory is a Renderer and Factory that keep the render tree in
// memory. It records every attribute application, which makes it the
// renderer of choice for tests, and it can print the tree as YAML.
//
// The "id" attribute is special: its text is resolved to a unique integer
// that FindByIdentifier searches for.
package memory

import (
	"fmt"
	"log/slog"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/sandrolain/bindtree/pkg/value"
	"github.com/sandrolain/bindtree/pkg/view"
)

// IDAttribute is the attribute that names a node.
const IDAttribute = "id"

// Attribute is one applied attribute of a node.
type Attribute struct {
	ID    string
	Value value.Value
}

// Node is a node of the in-memory tree.
type Node struct {
	Serial     int
	Type       string
	Attributes []Attribute // first application order
	Children   []*Node

	parent *Node
	uid    int
}

// Attr returns the current value of attribute id.
func (n *Node) Attr(id string) (value.Value, bool) {
	for _, a := range n.Attributes {
		if a.ID == id {
			return a.Value, true
		}
	}
	return nil, false
}

// Parent returns the parent node, or nil for the container.
func (n *Node) Parent() *Node {
	return n.parent
}

func (n *Node) set(id string, v value.Value) {
	for i := range n.Attributes {
		if n.Attributes[i].ID == id {
			n.Attributes[i].Value = v
			return
		}
	}
	n.Attributes = append(n.Attributes, Attribute{ID: id, Value: v})
}

// MarshalYAML renders the node as a mapping: type, then attributes in order,
// then children.
func (n *Node) MarshalYAML() (interface{}, error) {
	out := &yaml.Node{Kind: yaml.MappingNode}
	if err := appendPair(out, "type", n.Type); err != nil {
		return nil, err
	}
	for _, a := range n.Attributes {
		if err := appendPair(out, a.ID, value.ToNative(a.Value)); err != nil {
			return nil, err
		}
	}
	if len(n.Children) > 0 {
		if err := appendPair(out, "children", n.Children); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func appendPair(m *yaml.Node, key string, v any) error {
	var val yaml.Node
	if err := val.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	m.Content = append(m.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		&val)
	return nil
}

// Call records one ApplyAttribute invocation.
type Call struct {
	Node      int
	Attribute string
	Value     value.Value
}

// Renderer is an in-memory Renderer and Factory. Safe for concurrent use.
type Renderer struct {
	mu     sync.Mutex
	logger *slog.Logger
	root   *Node
	serial int
	ids    map[string]int
	calls  []Call
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		r.logger = logger
	}
}

// New creates an empty renderer. Nodes created with a nil parent are
// attached to Root.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		root: &Node{Type: "root"},
		ids:  make(map[string]int),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

var (
	_ view.Renderer = (*Renderer)(nil)
	_ view.Factory  = (*Renderer)(nil)
)

// Root returns the container of top-level nodes.
func (r *Renderer) Root() *Node {
	return r.root
}

// CreateNode appends a node of layoutType to parent.
func (r *Renderer) CreateNode(parent view.Handle, layoutType string) (view.Handle, error) {
	if layoutType == "" {
		return nil, fmt.Errorf("memory: empty node type")
	}
	p, err := r.node(parent)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.serial++
	n := &Node{Serial: r.serial, Type: layoutType, parent: p}
	p.Children = append(p.Children, n)
	return n, nil
}

// RemoveNode detaches child from parent.
func (r *Renderer) RemoveNode(parent, child view.Handle) {
	p, err := r.node(parent)
	if err != nil {
		r.logger.Warn("remove from unknown parent", "error", err)
		return
	}
	c, ok := child.(*Node)
	if !ok {
		r.logger.Warn("remove of unknown node", "node", fmt.Sprintf("%T", child))
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i, n := range p.Children {
		if n == c {
			p.Children = append(p.Children[:i], p.Children[i+1:]...)
			c.parent = nil
			return
		}
	}
}

// ApplyAttribute sets attribute id of node and records the call.
func (r *Renderer) ApplyAttribute(node view.Handle, id string, v value.Value) {
	n, ok := node.(*Node)
	if !ok || n == nil {
		r.logger.Warn("attribute applied to unknown node",
			"attribute", id,
			"node", fmt.Sprintf("%T", node))
		return
	}
	v = value.OrNull(v)

	var uid int
	if id == IDAttribute && v.IsPrimitive() {
		uid = r.ResolveUniqueID(v.AsString())
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if uid != 0 {
		n.uid = uid
	}
	n.set(id, v)
	r.calls = append(r.calls, Call{Node: n.Serial, Attribute: id, Value: v})
}

// FindByIdentifier searches the subtree of node, node included, for the
// node whose id resolved to id.
func (r *Renderer) FindByIdentifier(node view.Handle, id int) (view.Handle, bool) {
	n, ok := node.(*Node)
	if !ok || n == nil || id == 0 {
		return nil, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if found := find(n, id); found != nil {
		return found, true
	}
	return nil, false
}

func find(n *Node, id int) *Node {
	if n.uid == id {
		return n
	}
	for _, c := range n.Children {
		if found := find(c, id); found != nil {
			return found
		}
	}
	return nil
}

// ResolveUniqueID maps a declared id to a unique positive integer, assigning
// the next one on first use.
func (r *Renderer) ResolveUniqueID(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if uid, ok := r.ids[id]; ok {
		return uid
	}
	uid := len(r.ids) + 1
	r.ids[id] = uid
	return uid
}

// Calls returns the recorded attribute applications in order.
func (r *Renderer) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// ResetCalls forgets the recorded calls.
func (r *Renderer) ResetCalls() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

// YAML renders the top-level nodes as a YAML sequence.
func (r *Renderer) YAML() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return yaml.Marshal(r.root.Children)
}

func (r *Renderer) node(h view.Handle) (*Node, error) {
	if h == nil {
		return r.root, nil
	}
	n, ok := h.(*Node)
	if !ok || n == nil {
		return nil, fmt.Errorf("memory: unknown node handle %T", h)
	}
	return n, nil
}
