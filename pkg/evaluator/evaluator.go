// Package evaluator compiles binding expressions and evaluates them against
// a DataContext.
//
// Compilation is where things can fail: malformed expression text and calls
// to functions the registry does not know are reported by Compile.
// Evaluation never fails. A path that leads nowhere is Null, and a function
// that panics is recovered, logged and treated as Null.
//
// # Example
//
//	ev := evaluator.New(evaluator.WithCaching(true))
//	b, err := ev.Compile("@{user.name | toUpperCase}")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	dc := evaluator.NewDataContext(value.MapOf("user", map[string]any{"name": "ada"}))
//	v := ev.Evaluate(b, dc)
//
// # Concurrency
//
// An Evaluator and the bindings it compiles are safe for concurrent use.
// DataContext values are not: updates of a given tree must be serialized.
package evaluator

import (
	"fmt"
	"log/slog"

	"github.com/sandrolain/bindtree/pkg/cache"
	"github.com/sandrolain/bindtree/pkg/functions"
	"github.com/sandrolain/bindtree/pkg/parser"
	"github.com/sandrolain/bindtree/pkg/types"
	"github.com/sandrolain/bindtree/pkg/value"
)

// Evaluator compiles and evaluates bindings.
type Evaluator struct {
	opts     EvalOptions
	logger   *slog.Logger
	registry *functions.Registry
	cache    *cache.Cache[value.Binding] // non-nil when caching is enabled
}

// EvalOptions configures evaluator behavior.
type EvalOptions struct {
	// Registry is the function table calls resolve against.
	// Defaults to functions.Builtins().
	Registry *functions.Registry
	// Caching enables caching of compiled bindings by source text.
	Caching bool
	// CacheSize sets the maximum number of cached bindings.
	// Only used when Caching is true and no explicit Cache is provided.
	CacheSize int
	// Cache is a custom binding cache. If non-nil, Caching is implicitly enabled.
	Cache *cache.Cache[value.Binding]
	// MaxDepth limits the nesting of calls, groups and index expressions.
	MaxDepth int
	// Debug enables debug logging of every evaluation.
	Debug bool
	// Logger for structured logging.
	Logger *slog.Logger
}

// EvalOption configures an Evaluator.
type EvalOption func(*EvalOptions)

// New creates an Evaluator.
func New(opts ...EvalOption) *Evaluator {
	options := EvalOptions{
		MaxDepth: 100,
	}
	for _, opt := range opts {
		opt(&options)
	}

	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	if options.Registry == nil {
		options.Registry = functions.Builtins()
	}

	var c *cache.Cache[value.Binding]
	if options.Cache != nil {
		c = options.Cache
	} else if options.Caching {
		c = cache.New[value.Binding](options.CacheSize)
	}

	return &Evaluator{
		opts:     options,
		logger:   options.Logger,
		registry: options.Registry,
		cache:    c,
	}
}

// Registry returns the function table of the evaluator.
func (e *Evaluator) Registry() *functions.Registry {
	return e.registry
}

// Cache returns the binding cache, or nil if caching is disabled.
func (e *Evaluator) Cache() *cache.Cache[value.Binding] {
	return e.cache
}

// Logger returns the logger of the evaluator.
func (e *Evaluator) Logger() *slog.Logger {
	return e.logger
}

// Compile compiles binding text. Both the attribute form "@{expr}" and a
// bare expression are accepted. Every called function must be registered.
func (e *Evaluator) Compile(text string) (value.Binding, error) {
	if e.cache != nil {
		return e.cache.GetOrLoad(text, func() (value.Binding, error) {
			return e.compile(text)
		})
	}
	return e.compile(text)
}

func (e *Evaluator) compile(text string) (value.Binding, error) {
	src := text
	if inner, ok := parser.Unwrap(text); ok {
		src = inner
	}

	expr, err := parser.Parse(src, parser.WithMaxDepth(e.opts.MaxDepth))
	if err != nil {
		return value.Binding{}, err
	}

	for _, call := range expr.AST().Calls() {
		if !e.registry.Has(call.StrValue) {
			return value.Binding{}, types.NewError(types.ErrUndefinedFunction,
				fmt.Sprintf("Unknown function: %s", call.StrValue), call.Position).
				WithToken(call.StrValue)
		}
	}

	if e.opts.Debug {
		e.logger.Debug("compiled binding", "source", text)
	}
	return value.NewBinding(text, expr), nil
}

// MustCompile is like Compile but panics on error.
func (e *Evaluator) MustCompile(text string) value.Binding {
	b, err := e.Compile(text)
	if err != nil {
		panic(fmt.Sprintf("evaluator: Compile(%q): %v", text, err))
	}
	return b
}

// Evaluate evaluates b against dc. It never fails: anything that cannot be
// resolved is Null. A nil dc evaluates against empty data.
func (e *Evaluator) Evaluate(b value.Binding, dc *DataContext) (result value.Value) {
	expr := b.Expression()
	if expr == nil || expr.AST() == nil {
		return value.NullValue
	}
	if dc == nil {
		dc = NewDataContext(value.Map{})
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("binding evaluation panicked",
				"binding", b.Source(),
				"panic", r)
			result = value.NullValue
		}
	}()

	result = value.OrNull(e.evalNode(expr.AST(), dc))

	if e.opts.Debug {
		e.logger.Debug("evaluated binding",
			"binding", b.Source(),
			"index", dc.Index(),
			"result", result.String())
	}
	return result
}

// Resolve returns v with bindings evaluated against dc: a Binding becomes
// its result, a Map has its binding entries evaluated, anything else is
// returned unchanged.
func (e *Evaluator) Resolve(v value.Value, dc *DataContext) value.Value {
	switch {
	case v == nil:
		return value.NullValue
	case v.IsBinding():
		b, ok := v.(value.Binding)
		if !ok {
			return value.NullValue
		}
		return e.Evaluate(b, dc)
	case v.IsMap():
		return e.ResolveMap(v.AsMap(), dc)
	default:
		return v
	}
}

// ResolveMap evaluates the binding entries of m against dc.
func (e *Evaluator) ResolveMap(m value.Map, dc *DataContext) value.Map {
	entries := m.Entries()
	for k, v := range entries {
		if v.IsBinding() {
			entries[k] = e.Resolve(v, dc)
		}
	}
	return value.NewMap(entries)
}

// WithRegistry sets the function table.
func WithRegistry(r *functions.Registry) EvalOption {
	return func(opts *EvalOptions) {
		opts.Registry = r
	}
}

// WithCaching enables or disables binding caching.
func WithCaching(enabled bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.Caching = enabled
	}
}

// WithCacheSize sets the maximum number of cached bindings.
// Only effective when combined with WithCaching(true).
func WithCacheSize(size int) EvalOption {
	return func(opts *EvalOptions) {
		opts.CacheSize = size
	}
}

// WithCache attaches an external binding cache.
// The evaluator will use this cache regardless of the Caching flag.
func WithCache(c *cache.Cache[value.Binding]) EvalOption {
	return func(opts *EvalOptions) {
		opts.Cache = c
	}
}

// WithMaxDepth sets the maximum expression nesting depth.
func WithMaxDepth(depth int) EvalOption {
	return func(opts *EvalOptions) {
		opts.MaxDepth = depth
	}
}

// WithDebug enables or disables debug logging.
func WithDebug(enabled bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.Debug = enabled
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) EvalOption {
	return func(opts *EvalOptions) {
		opts.Logger = logger
	}
}
