package functions

import (
	"sort"
	"sync"
	"time"

	"golang.org/x/text/language"
)

// Default patterns of the date function, in SimpleDateFormat notation.
const (
	DefaultDateInput  = "yyyy-MM-dd HH:mm:ss"
	DefaultDateOutput = "E, d MMM"
)

// Registry is an immutable table of functions keyed by name.
// It is safe for concurrent use.
type Registry struct {
	fns map[string]Function
}

// Options configures the builtin functions of a registry.
type Options struct {
	// Locale is a BCP 47 tag used by number and date. Defaults to "en".
	Locale string
	// DateInput and DateOutput are the default date patterns.
	DateInput  string
	DateOutput string
	// LenientDates lets date fall back to format detection when the input
	// does not match the default input pattern.
	LenientDates bool
	// Location is the time zone dates are parsed and printed in. Defaults to UTC.
	Location *time.Location
	// Functions are added after the builtins and replace builtins of the same name.
	Functions []Function
}

// Option configures a registry.
type Option func(*Options)

// WithLocale sets the locale tag used by number and date.
func WithLocale(tag string) Option {
	return func(o *Options) {
		o.Locale = tag
	}
}

// WithDatePatterns sets the default output and input patterns of date.
// Empty strings keep the defaults.
func WithDatePatterns(output, input string) Option {
	return func(o *Options) {
		if output != "" {
			o.DateOutput = output
		}
		if input != "" {
			o.DateInput = input
		}
	}
}

// WithLenientDates enables format detection for date inputs.
func WithLenientDates(enabled bool) Option {
	return func(o *Options) {
		o.LenientDates = enabled
	}
}

// WithLocation sets the time zone used by date.
func WithLocation(loc *time.Location) Option {
	return func(o *Options) {
		o.Location = loc
	}
}

// WithFunctions adds functions to the registry.
func WithFunctions(fns ...Function) Option {
	return func(o *Options) {
		o.Functions = append(o.Functions, fns...)
	}
}

var (
	builtins     *Registry
	builtinsOnce sync.Once
)

// Builtins returns the process-wide registry of builtin functions with
// default options. It is built on first use.
func Builtins() *Registry {
	builtinsOnce.Do(func() {
		builtins = NewRegistry()
	})
	return builtins
}

// NewRegistry builds a registry of the builtin functions configured by opts,
// plus any extra functions. The table is fixed once NewRegistry returns.
func NewRegistry(opts ...Option) *Registry {
	options := Options{
		Locale:     "en",
		DateInput:  DefaultDateInput,
		DateOutput: DefaultDateOutput,
		Location:   time.UTC,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Location == nil {
		options.Location = time.UTC
	}

	tag, err := language.Parse(options.Locale)
	if err != nil {
		tag = language.English
	}

	fns := map[string]Function{
		// Special
		"noop":   New("noop", fnNoop),
		"number": numberFunc(tag),
		"date":   newDateFunc(options.DateOutput, options.DateInput, tag, options.Location, options.LenientDates),
		"index":  New("index", fnIndex),
		"join":   New("join", fnJoin),

		// Mathematical
		"add": New("add", fnAdd),
		"sub": New("sub", fnSub),
		"mul": New("mul", fnMul),
		"div": New("div", fnDiv),
		"mod": New("mod", fnMod),

		// Logical
		"AND": New("AND", fnAnd),
		"OR":  New("OR", fnOr),
		"NOT": New("NOT", fnNot),

		// Comparison
		"EQUALS":                 New("EQUALS", fnEquals),
		"LESS_THAN":              New("LESS_THAN", fnLessThan),
		"GREATER_THAN":           New("GREATER_THAN", fnGreaterThan),
		"LESS_THAN_OR_EQUALS":    New("LESS_THAN_OR_EQUALS", fnLessThanOrEquals),
		"GREATER_THAN_OR_EQUALS": New("GREATER_THAN_OR_EQUALS", fnGreaterThanOrEquals),

		// Conditional
		"IF_THEN_ELSE": New("IF_THEN_ELSE", fnIfThenElse),
	}

	for _, fn := range options.Functions {
		if fn == nil {
			continue
		}
		fns[fn.Name()] = fn
	}

	return &Registry{fns: fns}
}

// Get returns the function registered under name.
func (r *Registry) Get(name string) (Function, bool) {
	fn, ok := r.fns[name]
	return fn, ok
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.fns[name]
	return ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.fns))
	for name := range r.fns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered functions.
func (r *Registry) Len() int {
	return len(r.fns)
}
