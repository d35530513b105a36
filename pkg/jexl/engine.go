// Package jexl is the public embedding surface (spec.md §6 "External
// Interfaces"): Engine builds Scripts and Expressions against a shared
// Introspector/Uberspect/Permissions/FunctionRegistry, the same role
// funxy's pkg/embed plays for its own VM — one long-lived configuration
// object host applications keep around, handing out short-lived
// Script/Expression handles per compiled source.
package jexl

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/jexlang/jexl/internal/ast"
	"github.com/jexlang/jexl/internal/interp"
	"github.com/jexlang/jexl/internal/introspect"
	"github.com/jexlang/jexl/internal/namespace"
	"github.com/jexlang/jexl/internal/parser"
	"github.com/jexlang/jexl/internal/uberspect"
	"github.com/jexlang/jexl/internal/values"
)

// Re-exported so callers need only import this one package for everyday use.
type (
	Options  = interp.Options
	Option   = interp.Option
	Context  = interp.Context
	Value    = values.Value
)

var (
	WithStrict       = interp.WithStrict
	WithSilent       = interp.WithSilent
	WithSafe         = interp.WithSafe
	WithCancellable  = interp.WithCancellable
	WithLexical      = interp.WithLexical
	WithLexicalShade = interp.WithLexicalShade
	WithAntish       = interp.WithAntish
	WithMathScale    = interp.WithMathScale
	WithMathPrecision = interp.WithMathPrecision

	DefaultOptions   = interp.DefaultOptions
	NewMapContext    = interp.NewMapContext
	NewReadonlyContext = interp.NewReadonlyContext
)

// Engine is the shared configuration a host builds once (spec.md §6
// "Engine"): compiled Options, a sandboxed Introspector/Uberspect, and the
// namespace-function/constructor registries every Script it creates shares.
type Engine struct {
	opts    Options
	ins     *introspect.Introspector
	uber    *uberspect.Uberspect
	funcs   interp.FunctionRegistry
	classes interp.ClassRegistry
	log     logr.Logger
}

// EngineOption configures a new Engine.
type EngineOption func(*engineConfig)

type engineConfig struct {
	opts    Options
	perms   *introspect.Permissions
	funcs   interp.FunctionRegistry
	classes interp.ClassRegistry
	log     *logr.Logger
}

// WithOptions sets the Engine's evaluation Options (strict/silent/safe/...).
func WithOptions(o Options) EngineOption { return func(c *engineConfig) { c.opts = o } }

// WithPermissions sandboxes host reflection through a Permissions filter
// (spec.md §6 "Sandbox / Permissions DSL"); nil (the default) allows all.
func WithPermissions(p *introspect.Permissions) EngineOption {
	return func(c *engineConfig) { c.perms = p }
}

// WithFunctionRegistry wires a FunctionRegistry for `ns:name(args)` calls;
// defaults to namespace.Standard() (uuid/yaml/math/grpc/sql).
func WithFunctionRegistry(r interp.FunctionRegistry) EngineOption {
	return func(c *engineConfig) { c.funcs = r }
}

// WithClassRegistry wires a ClassRegistry for `new ClassName(args)`.
func WithClassRegistry(r interp.ClassRegistry) EngineOption {
	return func(c *engineConfig) { c.classes = r }
}

// WithLogger sets the structured logr.Logger the Engine and every
// Interpreter it builds log through; defaults to a discard logger so
// embedding hosts never see output unless they opt in.
func WithLogger(l logr.Logger) EngineOption {
	return func(c *engineConfig) { c.log = &l }
}

// NewEngine builds an Engine. With no options it behaves exactly like
// spec.md §6's documented defaults: lenient, unsandboxed, no namespace/
// constructor host wiring beyond the standard uuid/yaml/math/grpc/sql
// namespaces.
func NewEngine(opts ...EngineOption) *Engine {
	cfg := engineConfig{opts: DefaultOptions()}
	for _, o := range opts {
		o(&cfg)
	}
	ins := introspect.New(cfg.perms)
	log := logr.Discard()
	if cfg.log != nil {
		log = *cfg.log
	}
	funcs := cfg.funcs
	if funcs == nil {
		funcs = namespace.Standard()
	}
	return &Engine{
		opts:    cfg.opts,
		ins:     ins,
		uber:    uberspect.New(ins),
		funcs:   funcs,
		classes: cfg.classes,
		log:     log,
	}
}

// NewContext builds the default read-write MapContext seeded from initial
// (spec.md §6 "Engine.new_context").
func (e *Engine) NewContext(initial map[string]values.Value) Context {
	return interp.NewMapContext(initial)
}

// SetLoader invalidates every cached reflective discovery (spec.md §4.2
// "class-loader invalidation") — call after registering new host types
// under a hot-reloaded plugin generation.
func (e *Engine) SetLoader() uint64 { return e.ins.SetLoader() }

// DefaultLogger builds a logr.Logger backed by log/slog, the ambient
// logging stack (SPEC_FULL.md §A.1) every component threads through
// context.Context via veqryn/slog-context rather than a logger parameter.
func DefaultLogger() logr.Logger {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	return logr.FromSlogHandler(h)
}

// CreateExpression parses a single expression (spec.md §6
// "Engine.create_expression").
func (e *Engine) CreateExpression(source string) (*Expression, error) {
	p := parser.New(source, nil, parserOptions(e.opts)...)
	node, err := p.ParseExpression()
	if err != nil {
		return nil, &ParseError{Errs: p.Errors(), Source: source}
	}
	return &Expression{
		id:     uuid.New(),
		engine: e,
		node:   node,
		scope:  p.Scope(),
		source: source,
	}, nil
}

// CreateScript parses a full script with the given formal parameter names
// (spec.md §6 "Engine.create_script").
func (e *Engine) CreateScript(source string, paramNames ...string) (*Script, error) {
	params := make([]paramSpec, len(paramNames))
	for i, n := range paramNames {
		params[i] = paramSpec{name: n}
	}
	return e.createScript(source, params)
}

type paramSpec struct {
	name    string
	varargs bool
}

func (e *Engine) createScript(source string, params []paramSpec) (*Script, error) {
	astParams := toASTParams(params)
	p := parser.New(source, astParams, parserOptions(e.opts)...)
	script, err := p.ParseScript(astParams)
	if err != nil {
		return nil, &ParseError{Errs: p.Errors(), Source: source}
	}
	return &Script{
		id:     uuid.New(),
		engine: e,
		ast:    script,
		log:    e.log.WithValues("script", script.Source),
	}, nil
}

// ParseError wraps a front-end parse failure under the public API (spec.md
// §7 "ParsingError").
type ParseError struct {
	Errs   []error
	Source string
}

func (e *ParseError) Error() string {
	if len(e.Errs) == 0 {
		return "jexl: parse error"
	}
	return fmt.Sprintf("jexl: parse error: %v", e.Errs[0])
}

func (e *ParseError) Unwrap() []error { return e.Errs }

func toASTParams(params []paramSpec) []ast.Param {
	out := make([]ast.Param, len(params))
	for i, p := range params {
		out[i] = ast.Param{Name: p.name, Varargs: p.varargs}
	}
	return out
}

func parserOptions(opts Options) []parser.Option {
	return []parser.Option{
		parser.WithLexical(opts.Lexical),
		parser.WithLexicalShade(opts.LexicalShade),
	}
}
