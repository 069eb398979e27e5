// Package layout decodes layout templates and data documents.
//
// Layouts are YAML (or JSON, which is valid YAML) mappings. The reserved keys
// type, children, data and repeat describe the node; every other key is an
// attribute, kept in the order it appears in the document. String values of
// the form @{...} are compiled to bindings when they are the whole value of
// an attribute or of a scoped data entry; deeper text is kept as is.
//
//	type: list
//	title: "@{heading | toUpperCase}"
//	repeat:
//	  items: "@{products}"
//	  layout:
//	    type: row
//	    label: "@{name}"
//	    position: "@{$index | index}"
package layout

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/sandrolain/bindtree/pkg/parser"
	"github.com/sandrolain/bindtree/pkg/types"
	"github.com/sandrolain/bindtree/pkg/value"
)

// Reserved layout keys.
const (
	KeyType     = "type"
	KeyChildren = "children"
	KeyData     = "data"
	KeyRepeat   = "repeat"
	KeyItems    = "items"
	KeyLayout   = "layout"
)

// Compiler turns binding text into a Binding. *evaluator.Evaluator
// implements it.
type Compiler interface {
	Compile(text string) (value.Binding, error)
}

// Decode decodes a layout document.
func Decode(b []byte, c Compiler) (value.Layout, error) {
	root, err := document(b)
	if err != nil {
		return value.Layout{}, err
	}
	if root == nil {
		return value.Layout{}, shapeError("$", "empty layout document")
	}
	d := decoder{compiler: c}
	return d.layout(root, "$")
}

// DecodeData decodes a data document. Its top level must be a mapping;
// an empty document is an empty map. Binding text is kept as plain text.
func DecodeData(b []byte) (value.Map, error) {
	root, err := document(b)
	if err != nil {
		return value.Map{}, err
	}
	if root == nil {
		return value.NewMap(nil), nil
	}
	if root.Kind != yaml.MappingNode {
		return value.Map{}, shapeError("$", "data document must be a mapping")
	}
	var d decoder
	v, err := d.composite(root, "$")
	if err != nil {
		return value.Map{}, err
	}
	return v.AsMap(), nil
}

// LoadFile reads and decodes the layout file at path.
func LoadFile(path string, c Compiler) (value.Layout, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return value.Layout{}, fmt.Errorf("read layout: %w", err)
	}
	l, err := Decode(b, c)
	if err != nil {
		return value.Layout{}, fmt.Errorf("decode layout %s: %w", path, err)
	}
	return l, nil
}

// LoadDataFile reads and decodes the data file at path.
func LoadDataFile(path string) (value.Map, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return value.Map{}, fmt.Errorf("read data: %w", err)
	}
	m, err := DecodeData(b)
	if err != nil {
		return value.Map{}, fmt.Errorf("decode data %s: %w", path, err)
	}
	return m, nil
}

// document parses b and returns its root node, or nil for an empty document.
func document(b []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, types.NewError(types.ErrLayoutShape, "invalid document", -1).WithCause(err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}
	if doc.Kind == yaml.DocumentNode {
		return resolve(doc.Content[0]), nil
	}
	return resolve(&doc), nil
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

type decoder struct {
	compiler Compiler // nil: bindings are plain text
}

func (d *decoder) layout(n *yaml.Node, path string) (value.Layout, error) {
	n = resolve(n)
	if n.Kind != yaml.MappingNode {
		return value.Layout{}, shapeError(path, "layout must be a mapping")
	}

	var l value.Layout
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		val := resolve(n.Content[i+1])
		at := path + "." + key

		switch key {
		case KeyType:
			if val.Kind != yaml.ScalarNode || val.Value == "" {
				return value.Layout{}, lineError(types.ErrLayoutType, val, at, "type must be a non-empty string")
			}
			l.Type = val.Value

		case KeyChildren:
			if val.Kind != yaml.SequenceNode {
				return value.Layout{}, shapeError(at, "children must be a sequence")
			}
			for j, item := range val.Content {
				child, err := d.layout(item, at+"["+strconv.Itoa(j)+"]")
				if err != nil {
					return value.Layout{}, err
				}
				l.Children = append(l.Children, child)
			}

		case KeyData:
			if val.Kind != yaml.MappingNode {
				return value.Layout{}, shapeError(at, "data must be a mapping")
			}
			v, err := d.composite(val, at)
			if err != nil {
				return value.Layout{}, err
			}
			m := v.AsMap()
			l.Data = &m

		case KeyRepeat:
			r, err := d.repeat(val, at)
			if err != nil {
				return value.Layout{}, err
			}
			l.Repeat = r

		default:
			v, err := d.value(val, at)
			if err != nil {
				return value.Layout{}, err
			}
			l.Attributes = append(l.Attributes, value.Attribute{ID: key, Value: v})
		}
	}

	if l.Type == "" {
		return value.Layout{}, lineError(types.ErrLayoutType, n, path, "missing type")
	}
	return l, nil
}

func (d *decoder) repeat(n *yaml.Node, path string) (*value.Repeat, error) {
	if n.Kind != yaml.MappingNode {
		return nil, shapeError(path, "repeat must be a mapping with items and layout")
	}

	var (
		r         value.Repeat
		hasItems  bool
		hasLayout bool
	)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		val := resolve(n.Content[i+1])
		at := path + "." + key

		switch key {
		case KeyItems:
			v, err := d.value(val, at)
			if err != nil {
				return nil, err
			}
			b, ok := v.(value.Binding)
			if !ok {
				return nil, shapeError(at, "items must be a binding")
			}
			r.Items, hasItems = b, true
		case KeyLayout:
			l, err := d.layout(val, at)
			if err != nil {
				return nil, err
			}
			r.Layout, hasLayout = l, true
		default:
			return nil, shapeError(at, "unknown repeat key")
		}
	}

	if !hasItems || !hasLayout {
		return nil, shapeError(path, "repeat needs both items and layout")
	}
	return &r, nil
}

// value decodes a YAML node into a Value. Only a scalar at the top of an
// attribute or data entry compiles to a binding; text nested in sequences
// and mappings stays plain.
func (d *decoder) value(n *yaml.Node, path string) (value.Value, error) {
	n = resolve(n)
	switch n.Kind {
	case yaml.ScalarNode:
		return d.scalar(n, path)
	case yaml.SequenceNode, yaml.MappingNode:
		var plain decoder
		return plain.composite(n, path)
	default:
		return value.NullValue, nil
	}
}

// composite decodes the elements of a sequence or mapping with d.value.
func (d *decoder) composite(n *yaml.Node, path string) (value.Value, error) {
	if n.Kind == yaml.SequenceNode {
		items := make([]value.Value, len(n.Content))
		for i, item := range n.Content {
			v, err := d.value(item, path+"["+strconv.Itoa(i)+"]")
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return value.NewArray(items...), nil
	}

	entries := make(map[string]value.Value, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		v, err := d.value(n.Content[i+1], path+"."+key)
		if err != nil {
			return nil, err
		}
		entries[key] = v
	}
	return value.NewMap(entries), nil
}

func (d *decoder) scalar(n *yaml.Node, path string) (value.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return value.NullValue, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, shapeError(path, err.Error())
		}
		return value.Bool(b), nil
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, shapeError(path, err.Error())
		}
		return value.Number(f), nil
	}

	if d.compiler != nil && parser.IsBinding(n.Value) {
		b, err := d.compiler.Compile(n.Value)
		if err != nil {
			return nil, lineError(types.ErrLayoutAttribute, n, path,
				fmt.Sprintf("invalid binding %q", n.Value)).WithCause(err)
		}
		return b, nil
	}
	return value.String(n.Value), nil
}

func shapeError(path, msg string) error {
	return types.NewError(types.ErrLayoutShape, fmt.Sprintf("%s: %s", path, msg), -1)
}

func lineError(code types.ErrorCode, n *yaml.Node, path, msg string) *types.Error {
	return types.NewError(code, fmt.Sprintf("%s (line %d): %s", path, n.Line, msg), -1)
}
