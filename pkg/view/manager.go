package view

import (
	"log/slog"

	"github.com/sandrolain/bindtree/pkg/evaluator"
	"github.com/sandrolain/bindtree/pkg/value"
)

// Options configures managers and inflaters.
type Options struct {
	// Logger for structured logging. Defaults to slog.Default().
	Logger *slog.Logger
}

// Option configures a Manager or an Inflater.
type Option func(*Options)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

func buildOptions(opts []Option) Options {
	var options Options
	for _, opt := range opts {
		opt(&options)
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	return options
}

// Manager binds one node to its layout and data context.
type Manager struct {
	renderer Renderer
	node     Handle
	layout   value.Layout
	dc       *evaluator.DataContext
	eval     *evaluator.Evaluator
	bound    []BoundAttribute
	logger   *slog.Logger
}

// NewManager scans the attributes of layout once. Bindings become bound
// attributes in declaration order; every other attribute is applied to node
// right away and never again.
func NewManager(r Renderer, node Handle, layout value.Layout, dc *evaluator.DataContext, ev *evaluator.Evaluator, opts ...Option) *Manager {
	options := buildOptions(opts)
	if dc == nil {
		dc = evaluator.NewDataContext(value.Map{})
	}
	if ev == nil {
		ev = evaluator.New(evaluator.WithLogger(options.Logger))
	}

	m := &Manager{
		renderer: r,
		node:     node,
		layout:   layout,
		dc:       dc,
		eval:     ev,
		logger:   options.Logger,
	}

	for _, attr := range layout.Attributes {
		if b, ok := attr.Value.(value.Binding); ok {
			m.bound = append(m.bound, BoundAttribute{AttributeID: attr.ID, Binding: b})
			continue
		}
		r.ApplyAttribute(node, attr.ID, value.OrNull(attr.Value))
	}

	return m
}

// Update refreshes the data context with data, when non-nil, then evaluates
// and applies every bound attribute in order. A clone context has its data
// replaced; any other context has data merged in.
func (m *Manager) Update(data *value.Map) {
	if data != nil {
		m.refresh(*data)
	}

	for _, ba := range m.bound {
		v := m.eval.Evaluate(ba.Binding, m.dc)
		m.renderer.ApplyAttribute(m.node, ba.AttributeID, v)
	}
}

func (m *Manager) refresh(data value.Map) {
	var err error
	if m.dc.IsClone() {
		err = m.dc.SetData(data)
	} else {
		err = m.dc.UpdateDataContext(data)
	}
	if err != nil {
		m.logger.Warn("data context refresh failed", "type", m.layout.Type, "error", err)
	}
}

// FindViewByID looks up a node by its declared id string.
func (m *Manager) FindViewByID(id string) (Handle, bool) {
	return m.renderer.FindByIdentifier(m.node, m.renderer.ResolveUniqueID(id))
}

// Layout returns the layout the manager was built from.
func (m *Manager) Layout() value.Layout {
	return m.layout
}

// DataContext returns the data context bindings are evaluated against.
func (m *Manager) DataContext() *evaluator.DataContext {
	return m.dc
}

// Node returns the managed node.
func (m *Manager) Node() Handle {
	return m.node
}

// BoundAttributes returns a copy of the bound attributes in order.
func (m *Manager) BoundAttributes() []BoundAttribute {
	out := make([]BoundAttribute, len(m.bound))
	copy(out, m.bound)
	return out
}
