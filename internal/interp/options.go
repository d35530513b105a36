package interp

import (
	"fmt"

	"github.com/jexlang/jexl/internal/values"
	"gopkg.in/yaml.v3"
)

// Options configures an Engine/Interpreter (spec.md §6 "Options"). Built
// via functional options, matching funxy's `embed` package configuration
// style, and loadable from YAML for host applications that externalize
// engine configuration (gopkg.in/yaml.v3, same library the teacher uses
// for its own module/config files).
type Options struct {
	Strict        bool `yaml:"strict"`
	Silent        bool `yaml:"silent"`
	Safe          bool `yaml:"safe"`
	Cancellable   bool `yaml:"cancellable"`
	Lexical       bool `yaml:"lexical"`
	LexicalShade  bool `yaml:"lexical_shade"`
	Antish        bool `yaml:"antish"`
	MathScale     int32 `yaml:"math_scale"`
	MathPrecision int  `yaml:"math_precision"`
}

// DefaultOptions matches spec.md §6's documented defaults: lenient,
// non-silent, non-safe (a null dereference evaluates to null, since only
// strict mode raises on it), non-cancellable, non-lexical,
// antish resolution enabled, no BigDecimal context (float arithmetic).
func DefaultOptions() Options {
	return Options{
		Strict:       false,
		Silent:       false,
		Safe:         false,
		Cancellable:  false,
		Lexical:      false,
		LexicalShade: false,
		Antish:       true,
		MathScale:    -1,
	}
}

// Option mutates an Options value during construction.
type Option func(*Options)

func WithStrict(b bool) Option        { return func(o *Options) { o.Strict = b } }
func WithSilent(b bool) Option        { return func(o *Options) { o.Silent = b } }
func WithSafe(b bool) Option          { return func(o *Options) { o.Safe = b } }
func WithCancellable(b bool) Option   { return func(o *Options) { o.Cancellable = b } }
func WithLexical(b bool) Option       { return func(o *Options) { o.Lexical = b } }
func WithLexicalShade(b bool) Option  { return func(o *Options) { o.LexicalShade = b } }
func WithAntish(b bool) Option        { return func(o *Options) { o.Antish = b } }
func WithMathScale(scale int32) Option {
	return func(o *Options) { o.MathScale = scale }
}
func WithMathPrecision(p int) Option { return func(o *Options) { o.MathPrecision = p } }

// NewOptions applies opts atop DefaultOptions.
func NewOptions(opts ...Option) Options {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// LoadOptionsYAML parses a YAML document into Options, atop
// DefaultOptions so an omitted field keeps its default rather than
// zeroing out (e.g. an omitted `antish:` must stay `true`).
func LoadOptionsYAML(data []byte) (Options, error) {
	o := DefaultOptions()
	if err := yaml.Unmarshal(data, &o); err != nil {
		return Options{}, fmt.Errorf("interp: parsing options yaml: %w", err)
	}
	return o, nil
}

func (o Options) mathContext() values.MathContext {
	if o.MathPrecision <= 0 {
		return values.DefaultMathContext
	}
	return values.MathContext{Precision: o.MathPrecision, Rounding: values.RoundHalfUp}
}
