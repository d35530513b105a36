package jexl

import (
	"context"

	"github.com/google/uuid"

	"github.com/jexlang/jexl/internal/ast"
	"github.com/jexlang/jexl/internal/interp"
	"github.com/jexlang/jexl/internal/scope"
	"github.com/jexlang/jexl/internal/values"
)

// Expression is a parsed single-expression handle (spec.md §3 "Expression",
// §6 "Engine.create_expression") — unlike Script it has no statement body,
// just one evaluated node, but still carries its own parse-time Scope for
// any lambda parameters/locals it contains.
type Expression struct {
	id     uuid.UUID
	engine *Engine
	node   ast.Node
	scope  *scope.Scope
	source string
}

// ID returns this Expression's identity.
func (e *Expression) ID() uuid.UUID { return e.id }

// Source returns the original expression text.
func (e *Expression) Source() string { return e.source }

// Evaluate runs the expression against jctx (spec.md §6
// "Expression.evaluate").
func (e *Expression) Evaluate(goCtx context.Context, jctx Context) (values.Value, error) {
	if goCtx == nil {
		goCtx = context.Background()
	}
	it := interp.New(jctx, e.engine.uber, e.engine.opts, goCtx)
	it.Funcs = e.engine.funcs
	it.Classes = e.engine.classes
	frame := scope.NewFrame(e.scope, nil)
	return it.EvalExpr(e.node, frame)
}
