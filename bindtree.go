// Package bindtree binds declarative layout templates to data.
//
// A layout is a tree of typed nodes whose attribute values are either static
// or bindings: expressions of the form @{...} evaluated against a data
// context. Bindings read data paths and pipe them through named functions:
//
//	@{user.name | toUpperCase}
//	@{fn:IF_THEN_ELSE(order.paid, 'Paid', 'Due')}
//	@{created | date('d MMM yyyy')}
//	@{$index | index}
//
// Inflating a layout creates one render node per layout node through a
// renderer and returns a tree of view managers. Updating the tree with new
// data re-evaluates every binding and re-applies the results.
//
// # Quick Start
//
//	l, err := layout.LoadFile("page.yaml", evaluator.New())
//	r := memory.New()
//	tree, err := bindtree.Inflate(r, l, value.MapOf("user", map[string]any{"name": "ada"}))
//	err = tree.Update(&newData)
//
// # More Information
//
//   - Values: github.com/sandrolain/bindtree/pkg/value
//   - Expressions: github.com/sandrolain/bindtree/pkg/parser
//   - Evaluation and data contexts: github.com/sandrolain/bindtree/pkg/evaluator
//   - Functions: github.com/sandrolain/bindtree/pkg/functions and pkg/ext
//   - Views: github.com/sandrolain/bindtree/pkg/view
//   - Layout files: github.com/sandrolain/bindtree/pkg/layout
package bindtree

import (
	"fmt"

	"github.com/sandrolain/bindtree/pkg/evaluator"
	"github.com/sandrolain/bindtree/pkg/layout"
	"github.com/sandrolain/bindtree/pkg/render/memory"
	"github.com/sandrolain/bindtree/pkg/value"
	"github.com/sandrolain/bindtree/pkg/view"
)

// Version returns the current version of bindtree.
func Version() string {
	return "v0.1.0-dev"
}

// Target is a renderer that can also create and remove nodes.
type Target interface {
	view.Renderer
	view.Factory
}

// Compile compiles binding text, with or without the @{...} delimiters.
func Compile(text string, opts ...evaluator.EvalOption) (value.Binding, error) {
	return evaluator.New(opts...).Compile(text)
}

// MustCompile is like Compile but panics if the text cannot be compiled.
// It simplifies safe initialization of global variables.
func MustCompile(text string, opts ...evaluator.EvalOption) value.Binding {
	b, err := Compile(text, opts...)
	if err != nil {
		panic(fmt.Sprintf("bindtree: Compile(%q): %v", text, err))
	}
	return b
}

// Evaluate compiles text and evaluates it against data in a single call.
//
// For repeated evaluations of the same binding, use Compile and an
// evaluator instead.
func Evaluate(text string, data value.Map, opts ...evaluator.EvalOption) (value.Value, error) {
	ev := evaluator.New(opts...)
	b, err := ev.Compile(text)
	if err != nil {
		return nil, err
	}
	return ev.Evaluate(b, evaluator.NewDataContext(data)), nil
}

// Inflate creates the nodes of l at the top level of target, bound to data.
func Inflate(target Target, l value.Layout, data value.Map, opts ...evaluator.EvalOption) (*view.Tree, error) {
	ev := evaluator.New(opts...)
	in := view.NewInflater(target, target, ev, view.WithLogger(ev.Logger()))
	return in.Inflate(nil, l, data)
}

// Render decodes a layout document and a data document, inflates them into
// an in-memory tree and returns that tree as YAML.
func Render(layoutDoc, dataDoc []byte, opts ...evaluator.EvalOption) ([]byte, error) {
	ev := evaluator.New(opts...)
	l, err := layout.Decode(layoutDoc, ev)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	data, err := layout.DecodeData(dataDoc)
	if err != nil {
		return nil, fmt.Errorf("data: %w", err)
	}

	r := memory.New(memory.WithLogger(ev.Logger()))
	in := view.NewInflater(r, r, ev, view.WithLogger(ev.Logger()))
	if _, err := in.Inflate(nil, l, data); err != nil {
		return nil, err
	}
	return r.YAML()
}
