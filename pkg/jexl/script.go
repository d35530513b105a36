package jexl

import (
	"context"
	"log/slog"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	slogctx "github.com/veqryn/slog-context"

	"github.com/jexlang/jexl/internal/ast"
	"github.com/jexlang/jexl/internal/interp"
	"github.com/jexlang/jexl/internal/values"
)

// Script is a parsed, reusable script handle (spec.md §3 "Script", §6
// "Engine.create_script"). It carries its own uuid.UUID (SPEC_FULL.md §B)
// so host logs/traces can correlate repeated executions of the same
// compiled script.
type Script struct {
	id     uuid.UUID
	engine *Engine
	ast    *ast.JexlScript
	log    logr.Logger
}

// ID returns this Script's identity.
func (s *Script) ID() uuid.UUID { return s.id }

// Source returns the original script text.
func (s *Script) Source() string { return s.ast.Source }

// Execute runs the script against jctx (spec.md §6 "Script.execute"),
// threading goCtx for cooperative cancellation (interp.Options.Cancellable)
// and for the context-carried logger (SPEC_FULL.md §A.1).
func (s *Script) Execute(goCtx context.Context, jctx Context, args ...values.Value) (values.Value, error) {
	if goCtx == nil {
		goCtx = context.Background()
	}
	log := s.log.WithValues("scriptID", s.id.String())
	goCtx = slogctx.NewCtx(goCtx, slog.New(logr.ToSlogHandler(log)))
	it := interp.New(jctx, s.engine.uber, s.engine.opts, goCtx)
	it.Funcs = s.engine.funcs
	it.Classes = s.engine.classes
	v, err := it.ExecScript(s.ast, args)
	if err != nil {
		log.V(1).Info("script execution failed", "error", err)
	}
	return v, err
}

// Callable returns a values.Callable closing over jctx, so a host-bound
// Script can itself be passed around JEXL scripts as a first-class
// function value (spec.md §6 "Script.Callable").
func (s *Script) Callable(jctx Context) values.Callable {
	return &boundScript{script: s, ctx: jctx}
}

type boundScript struct {
	script *Script
	ctx    Context
}

func (b *boundScript) Kind() values.Kind { return values.KCallable }
func (b *boundScript) String() string    { return "script:" + b.script.id.String() }
func (b *boundScript) Call(args []values.Value) (values.Value, error) {
	return b.script.Execute(context.Background(), b.ctx, args...)
}
