package value

import (
	"fmt"
	"strings"

	"github.com/sandrolain/bindtree/pkg/types"
)

// Binding is an attribute value computed from data: the attribute text it was
// declared with and its compiled expression.
type Binding struct {
	base
	source string
	expr   *types.Expression
}

// NewBinding wraps a compiled expression. source is the attribute text,
// including the @{...} delimiters when it had them.
func NewBinding(source string, expr *types.Expression) Binding {
	return Binding{source: source, expr: expr}
}

func (b Binding) IsBinding() bool { return true }

// Source returns the attribute text the binding was declared with.
func (b Binding) Source() string { return b.source }

// Expression returns the compiled expression.
func (b Binding) Expression() *types.Expression { return b.expr }

func (b Binding) String() string { return b.source }

// Attribute is one (id, value) pair of a layout.
type Attribute struct {
	ID    string
	Value Value
}

// Repeat describes list content: Layout is inflated once per element of the
// array Items evaluates to.
type Repeat struct {
	Items  Binding
	Layout Layout
}

// Layout is a compiled template. Fields must not be modified once the layout
// has been handed to a view manager.
type Layout struct {
	base
	Type       string
	Attributes []Attribute // declaration order
	Children   []Layout
	Data       *Map // scoped data; values may be bindings
	Repeat     *Repeat
}

func (l Layout) IsLayout() bool { return true }

// Attribute returns the value of the first attribute named id.
func (l Layout) Attribute(id string) (Value, bool) {
	for _, a := range l.Attributes {
		if a.ID == id {
			return a.Value, true
		}
	}
	return nil, false
}

func (l Layout) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<%s", l.Type)
	for _, a := range l.Attributes {
		fmt.Fprintf(&sb, " %s=%s", a.ID, a.Value.String())
	}
	if len(l.Children) == 0 && l.Repeat == nil {
		sb.WriteString("/>")
		return sb.String()
	}
	sb.WriteByte('>')
	for _, c := range l.Children {
		sb.WriteString(c.String())
	}
	if l.Repeat != nil {
		fmt.Fprintf(&sb, "<repeat items=%s>%s</repeat>", l.Repeat.Items.Source(), l.Repeat.Layout.String())
	}
	fmt.Fprintf(&sb, "</%s>", l.Type)
	return sb.String()
}
