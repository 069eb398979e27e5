package view

import (
	"fmt"
	"log/slog"

	"github.com/sandrolain/bindtree/pkg/evaluator"
	"github.com/sandrolain/bindtree/pkg/types"
	"github.com/sandrolain/bindtree/pkg/value"
)

// ItemKey is the name a non-map list item is exposed under in its context.
const ItemKey = "item"

// Inflater creates the nodes of a layout and the managers that bind them.
type Inflater struct {
	renderer Renderer
	factory  Factory
	eval     *evaluator.Evaluator
	opts     []Option
	logger   *slog.Logger
}

// NewInflater creates an inflater. A nil evaluator uses the builtin
// function table.
func NewInflater(r Renderer, f Factory, ev *evaluator.Evaluator, opts ...Option) *Inflater {
	options := buildOptions(opts)
	if ev == nil {
		ev = evaluator.New(evaluator.WithLogger(options.Logger))
	}
	return &Inflater{
		renderer: r,
		factory:  f,
		eval:     ev,
		opts:     opts,
		logger:   options.Logger,
	}
}

// Inflate creates the node tree of layout under parent, bound to data.
func (in *Inflater) Inflate(parent Handle, layout value.Layout, data value.Map) (*Tree, error) {
	base := evaluator.NewDataContext(data)
	root, err := in.build(parent, layout, base)
	if err != nil {
		return nil, err
	}
	in.logger.Debug("inflated layout", "type", layout.Type, "nodes", root.count())
	return &Tree{inflater: in, base: base, parent: parent, root: root}, nil
}

// build creates the node of layout and its subtree. Scoped data forks dc
// with its bindings evaluated against dc.
func (in *Inflater) build(parent Handle, layout value.Layout, dc *evaluator.DataContext) (*Node, error) {
	scope := dc
	if layout.Data != nil {
		scope = dc.Fork(in.eval.ResolveMap(*layout.Data, dc))
	}

	h, err := in.factory.CreateNode(parent, layout.Type)
	if err != nil {
		return nil, types.NewError(types.ErrLayoutFactory,
			fmt.Sprintf("cannot create node of type %q", layout.Type), -1).
			WithToken(layout.Type).
			WithCause(err)
	}

	n := &Node{
		manager: NewManager(in.renderer, h, layout, scope, in.eval, in.opts...),
		outer:   dc,
	}
	n.manager.Update(nil)

	for _, child := range layout.Children {
		cn, err := in.build(h, child, scope)
		if err != nil {
			return nil, err
		}
		n.children = append(n.children, cn)
	}

	if layout.Repeat != nil {
		if err := in.syncRepeat(n); err != nil {
			return nil, err
		}
	}

	return n, nil
}

// syncRepeat makes the repeated children of n match the array its repeat
// binding evaluates to. Existing items are reused and updated in place,
// missing ones created, surplus ones removed from the end.
func (in *Inflater) syncRepeat(n *Node) error {
	rep := n.manager.layout.Repeat
	scope := n.manager.dc

	var list []value.Value
	if items := in.eval.Evaluate(rep.Items, scope); items.IsArray() {
		list = items.AsArray().Items()
	}

	for i, item := range list {
		data := ItemData(item)
		if i < len(n.items) {
			if err := in.refresh(n.items[i], &data); err != nil {
				return err
			}
			continue
		}

		clone := scope.Clone(data, i)
		child, err := in.build(n.manager.node, rep.Layout, clone)
		if err != nil {
			return err
		}
		n.items = append(n.items, child)
	}

	for len(n.items) > len(list) {
		last := n.items[len(n.items)-1]
		in.factory.RemoveNode(n.manager.node, last.manager.node)
		n.items = n.items[:len(n.items)-1]
	}

	return nil
}

// refresh brings the subtree of n up to date. Non-nil data is written to the
// context n was inflated in (the tree root or a list item clone).
func (in *Inflater) refresh(n *Node, data *value.Map) error {
	scoped := n.manager.layout.Data != nil
	updated := false

	switch {
	case data == nil:
	case !scoped:
		n.manager.Update(data)
		updated = true
	case n.outer.IsClone():
		if err := n.outer.SetData(*data); err != nil {
			return err
		}
	default:
		if err := n.outer.UpdateDataContext(*data); err != nil {
			return err
		}
	}

	if scoped {
		fresh := in.eval.ResolveMap(*n.manager.layout.Data, n.outer)
		if err := n.manager.dc.UpdateDataContext(fresh); err != nil {
			return err
		}
	}
	if !updated {
		n.manager.Update(nil)
	}

	for _, child := range n.children {
		if err := in.refresh(child, nil); err != nil {
			return err
		}
	}
	if n.manager.layout.Repeat != nil {
		return in.syncRepeat(n)
	}
	return nil
}

// ItemData is the data context mapping of a list item: maps are used as is,
// other values are exposed under ItemKey.
func ItemData(item value.Value) value.Map {
	if item != nil && item.IsMap() {
		return item.AsMap()
	}
	return value.NewMap(map[string]value.Value{ItemKey: value.OrNull(item)})
}
