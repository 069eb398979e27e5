package evaluator

import (
	"math"

	"github.com/sandrolain/bindtree/pkg/functions"
	"github.com/sandrolain/bindtree/pkg/types"
	"github.com/sandrolain/bindtree/pkg/value"
)

// evalNode evaluates an AST node against dc.
func (e *Evaluator) evalNode(node *types.ASTNode, dc *DataContext) value.Value {
	if node == nil {
		return value.NullValue
	}

	switch node.Type {
	case types.NodeString:
		return value.String(node.StrValue)
	case types.NodeNumber:
		return value.Number(node.NumValue)
	case types.NodeBoolean:
		return value.Bool(node.BoolValue)
	case types.NodeNull:
		return value.NullValue
	case types.NodeVariable:
		return e.evalVariable(node, dc)
	case types.NodePath:
		return e.evalPath(node, dc)
	case types.NodeFunction:
		return e.evalFunction(node, dc)
	default:
		return value.NullValue
	}
}

// evalVariable evaluates $index.
func (e *Evaluator) evalVariable(node *types.ASTNode, dc *DataContext) value.Value {
	if node.StrValue != "index" || dc.Index() == NoIndex {
		return value.NullValue
	}
	return value.Int(dc.Index())
}

// evalPath resolves the root name through dc and walks the member and index
// steps. A step that does not apply yields Null.
func (e *Evaluator) evalPath(node *types.ASTNode, dc *DataContext) value.Value {
	if len(node.Steps) == 0 {
		return value.NullValue
	}

	cur := dc.Resolve(node.Steps[0].StrValue)
	for _, step := range node.Steps[1:] {
		if cur.IsNull() {
			return cur
		}
		switch step.Type {
		case types.NodeName:
			cur = member(cur, step.StrValue)
		case types.NodeIndex:
			cur = element(cur, e.evalNode(step.LHS, dc))
		default:
			return value.NullValue
		}
	}

	// Data holding unevaluated bindings has no meaningful value.
	if cur.IsBinding() || cur.IsLayout() {
		return value.NullValue
	}
	return cur
}

func member(v value.Value, name string) value.Value {
	if !v.IsMap() {
		return value.NullValue
	}
	return v.AsMap().Lookup(name)
}

// element indexes an array by an integral key or a map by the key text.
func element(v value.Value, key value.Value) value.Value {
	switch {
	case v.IsArray():
		f, err := value.ToDouble(key)
		if err != nil || f != math.Trunc(f) || f < 0 {
			return value.NullValue
		}
		return v.AsArray().Get(int(f))
	case v.IsMap():
		k, err := value.ToString(key)
		if err != nil {
			return value.NullValue
		}
		return v.AsMap().Lookup(k)
	default:
		return value.NullValue
	}
}

// evalFunction evaluates the piped input (or takes the local mapping of dc
// for a plain call), then the arguments left to right, then calls the
// function with the data index of dc.
func (e *Evaluator) evalFunction(node *types.ASTNode, dc *DataContext) value.Value {
	fn, ok := e.registry.Get(node.StrValue)
	if !ok {
		e.logger.Warn("binding calls an unregistered function",
			"function", node.StrValue)
		return value.NullValue
	}

	var data value.Value
	if node.LHS != nil {
		data = e.evalNode(node.LHS, dc)
	} else {
		data = dc.Data()
	}

	args := make([]value.Value, len(node.Arguments))
	for i, arg := range node.Arguments {
		args[i] = e.evalNode(arg, dc)
	}

	return e.call(fn, data, dc.Index(), args)
}

// call invokes fn, turning a panic into Null.
func (e *Evaluator) call(fn functions.Function, data value.Value, index int, args []value.Value) (out value.Value) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("function panicked",
				"function", fn.Name(),
				"panic", r)
			out = value.NullValue
		}
	}()
	return value.OrNull(fn.Format(data, index, args...))
}
