package interp

import (
	"context"
	"fmt"

	"github.com/jexlang/jexl/internal/ast"
	"github.com/jexlang/jexl/internal/scope"
	"github.com/jexlang/jexl/internal/uberspect"
	"github.com/jexlang/jexl/internal/values"
)

// FunctionRegistry resolves `ns:name(args)` namespace calls and bare
// `name(args)` calls to host-registered functions (spec.md §4.5 "Namespace
// functions"); pkg/jexl wires internal/namespace's registry in here.
type FunctionRegistry interface {
	Call(namespace, name string, args []values.Value) (values.Value, bool, error)
}

// ClassRegistry resolves `new ClassName(args)` constructor calls to a host
// constructor function (spec.md §4.3 "get_constructor").
type ClassRegistry interface {
	New(className string, args []values.Value) (values.Value, bool, error)
}

// Interpreter is a single tree-walking evaluation (spec.md §4.5, C5). A
// fresh Interpreter is created per Script.execute call by pkg/jexl, so its
// mutable `this` field never crosses concurrent executions; Closures carry
// their own captured `this` and Frame rather than sharing an Interpreter.
type Interpreter struct {
	Ctx      Context
	Uber     *uberspect.Uberspect
	Opts     Options
	Funcs    FunctionRegistry
	Classes  ClassRegistry
	arith    values.Arith
	cancel   *cancelFlag
	this     values.Value
	version  uint64
}

// New builds an Interpreter ready to execute one script/expression tree.
func New(ctx Context, ub *uberspect.Uberspect, opts Options, goCtx context.Context) *Interpreter {
	it := &Interpreter{
		Ctx:  ctx,
		Uber: ub,
		Opts: opts,
		arith: values.Arith{
			Strict:      opts.Strict,
			MathContext: opts.mathContext(),
			MathScale:   opts.MathScale,
		},
		cancel: newCancelFlag(goCtx),
		this:   values.NULL,
	}
	if ub != nil {
		it.version = ub.Introspector().Version()
	}
	return it
}

// Cancel requests cooperative cancellation of this interpreter's run.
func (it *Interpreter) Cancel() { it.cancel.Cancel() }

// ExecScript runs script.Body against a fresh Frame built from args (spec.md
// §4.5 "Script.execute"), returning the value of the last statement (or an
// explicit `return`).
func (it *Interpreter) ExecScript(script *ast.JexlScript, args []values.Value) (values.Value, error) {
	it.checkVersion(script)
	frameArgs := make([]interface{}, len(args))
	for i, a := range args {
		frameArgs[i] = a
	}
	frame := scope.NewFrame(script.Scope, frameArgs)
	return it.execFrameBody(script.Body, frame, values.NULL)
}

// EvalExpr runs a single expression node against frame (spec.md §6
// "Expression.evaluate"), for callers that parsed a bare expression rather
// than a full script body.
func (it *Interpreter) EvalExpr(n ast.Node, frame *scope.Frame) (values.Value, error) {
	it.checkVersion(n)
	return it.eval(n, frame)
}

// checkVersion clears every node's executor cache when the Uberspect's
// loader version differs from the one this Interpreter last recorded (the
// version snapshotted when it was built, updated here on each change)
// (spec.md §4.5 "version check" / §4.2 "class-loader invalidation").
func (it *Interpreter) checkVersion(n ast.Node) {
	if it.Uber == nil {
		return
	}
	v := it.Uber.Introspector().Version()
	if v != it.version {
		ast.ClearCacheTree(n)
		it.version = v
	}
}

func (it *Interpreter) execFrameBody(body []ast.Node, frame *scope.Frame, this values.Value) (values.Value, error) {
	prevThis := it.this
	it.this = this
	defer func() { it.this = prevThis }()

	var result values.Value = values.NULL
	for _, stmt := range body {
		if stmt == nil {
			continue
		}
		v, ctrl, err := it.execStmt(stmt, frame)
		if err != nil {
			return nil, err
		}
		if ctrl != nil {
			if ctrl.kind == ctrlReturn {
				return ctrl.value, nil
			}
			// a bare break/continue escaping the outermost body has nowhere
			// further to go; treat it as ending evaluation with its value.
			return v, nil
		}
		result = v
	}
	return result, nil
}

func (it *Interpreter) checkCancelled(n ast.Node) error {
	if !it.Opts.Cancellable {
		return nil
	}
	if it.cancel.Cancelled() {
		return &CancelledError{baseError{n.Debug()}}
	}
	return nil
}

// execStmt evaluates one statement, returning its value, a non-nil control
// outcome on break/continue/return, or an error.
func (it *Interpreter) execStmt(n ast.Node, frame *scope.Frame) (values.Value, *control, error) {
	if err := it.checkCancelled(n); err != nil {
		return nil, nil, err
	}
	switch node := n.(type) {
	case *ast.Block:
		return it.execBlock(node, frame)
	case *ast.If:
		cond, err := it.eval(node.Cond, frame)
		if err != nil {
			return nil, nil, err
		}
		if values.ToBoolean(cond) {
			return it.execStmt(node.Then, frame)
		}
		if node.Else != nil {
			return it.execStmt(node.Else, frame)
		}
		return values.NULL, nil, nil
	case *ast.While:
		return it.execWhile(node, frame)
	case *ast.DoWhile:
		return it.execDoWhile(node, frame)
	case *ast.ForEach:
		return it.execForEach(node, frame)
	case *ast.Break:
		return values.NULL, &control{kind: ctrlBreak}, nil
	case *ast.Continue:
		return values.NULL, &control{kind: ctrlContinue}, nil
	case *ast.Return:
		var v values.Value = values.NULL
		if node.Value != nil {
			var err error
			v, err = it.eval(node.Value, frame)
			if err != nil {
				return nil, nil, err
			}
		}
		return v, &control{kind: ctrlReturn, value: v}, nil
	case *ast.VarDecl:
		var v values.Value = values.NULL
		if node.Init != nil {
			var err error
			v, err = it.eval(node.Init, frame)
			if err != nil {
				return nil, nil, err
			}
		}
		frame.Set(node.Symbol, v)
		return v, nil, nil
	case *ast.Throw:
		v, err := it.eval(node.Value, frame)
		if err != nil {
			return nil, nil, err
		}
		return nil, nil, &ThrownByHost{baseError{node.Debug()}, v}
	case *ast.TryCatchFinally:
		return it.execTry(node, frame)
	default:
		v, err := it.eval(n, frame)
		return v, nil, err
	}
}

func (it *Interpreter) execBlock(b *ast.Block, frame *scope.Frame) (values.Value, *control, error) {
	var result values.Value = values.NULL
	for _, stmt := range b.Statements {
		if stmt == nil {
			continue
		}
		v, ctrl, err := it.execStmt(stmt, frame)
		if err != nil {
			return nil, nil, err
		}
		if ctrl != nil {
			return v, ctrl, nil
		}
		result = v
	}
	return result, nil, nil
}

func (it *Interpreter) execWhile(n *ast.While, frame *scope.Frame) (values.Value, *control, error) {
	var result values.Value = values.NULL
	for {
		cond, err := it.eval(n.Cond, frame)
		if err != nil {
			return nil, nil, err
		}
		if !values.ToBoolean(cond) {
			break
		}
		v, ctrl, err := it.execStmt(n.Body, frame)
		if err != nil {
			return nil, nil, err
		}
		if ctrl != nil {
			if ctrl.kind == ctrlBreak {
				break
			}
			if ctrl.kind == ctrlReturn {
				return v, ctrl, nil
			}
			// continue: fall through to next iteration
		}
		result = v
	}
	return result, nil, nil
}

func (it *Interpreter) execDoWhile(n *ast.DoWhile, frame *scope.Frame) (values.Value, *control, error) {
	var result values.Value = values.NULL
	for {
		v, ctrl, err := it.execStmt(n.Body, frame)
		if err != nil {
			return nil, nil, err
		}
		if ctrl != nil {
			if ctrl.kind == ctrlBreak {
				break
			}
			if ctrl.kind == ctrlReturn {
				return v, ctrl, nil
			}
		}
		result = v
		cond, err := it.eval(n.Cond, frame)
		if err != nil {
			return nil, nil, err
		}
		if !values.ToBoolean(cond) {
			break
		}
	}
	return result, nil, nil
}

// execForEach iterates over a sequence, Map (over values), Set, or a host
// Object exposing an `Iterator`/`Next` pair (spec.md §4.5 "for-each over
// heterogeneous collections").
func (it *Interpreter) execForEach(n *ast.ForEach, frame *scope.Frame) (values.Value, *control, error) {
	collVal, err := it.eval(n.Coll, frame)
	if err != nil {
		return nil, nil, err
	}
	items, err := it.iterate(collVal)
	if err != nil {
		return nil, nil, err
	}
	var result values.Value = values.NULL
	for _, item := range items {
		frame.Set(n.Symbol, item)
		v, ctrl, err := it.execStmt(n.Body, frame)
		if err != nil {
			return nil, nil, err
		}
		if ctrl != nil {
			if ctrl.kind == ctrlBreak {
				break
			}
			if ctrl.kind == ctrlReturn {
				return v, ctrl, nil
			}
		}
		result = v
	}
	return result, nil, nil
}

func (it *Interpreter) iterate(v values.Value) ([]values.Value, error) {
	switch x := v.(type) {
	case values.Null:
		return nil, nil
	case values.Array:
		return x.Elems, nil
	case *values.Set:
		return x.Elements(), nil
	case *values.Map:
		out := make([]values.Value, 0, x.Len())
		for _, k := range x.Keys() {
			val, _ := x.Get(k)
			out = append(out, val)
		}
		return out, nil
	case values.Object:
		return it.hostIterate(x)
	}
	return nil, &NullOperandError{Detail: fmt.Sprintf("cannot iterate over %s", v.Kind())}
}

// hostIterate drives a host object's `Iterator()`/`HasNext()`/`Next()`
// trio through Uberspect method dispatch, or a Go `[]T`/`map[K]V` native
// value surfaced directly as an Object.
func (it *Interpreter) hostIterate(o values.Object) ([]values.Value, error) {
	if it.Uber == nil {
		return nil, nil
	}
	if lifted, err := uberspect.ToValue(o.Native); err == nil {
		if arr, ok := values.ToArray(lifted); ok {
			return arr, nil
		}
	}
	iterObj, err := it.Uber.MethodCall(o, "Iterator", nil)
	if err != nil || iterObj == nil {
		return nil, nil
	}
	var out []values.Value
	for {
		hasNext, err := it.Uber.MethodCall(iterObj, "HasNext", nil)
		if err != nil {
			return out, nil
		}
		if !values.ToBoolean(hasNext) {
			break
		}
		next, err := it.Uber.MethodCall(iterObj, "Next", nil)
		if err != nil {
			return out, err
		}
		out = append(out, next)
	}
	return out, nil
}

func (it *Interpreter) execTry(n *ast.TryCatchFinally, frame *scope.Frame) (v values.Value, ctrl *control, err error) {
	if n.Finally != nil {
		defer func() {
			fv, fctrl, ferr := it.execStmt(n.Finally, frame)
			if ferr != nil {
				err = ferr
				return
			}
			if fctrl != nil {
				// finally's own exit takes precedence over the try block's.
				v, ctrl, err = fv, fctrl, nil
			}
		}()
	}
	v, ctrl, err = it.execStmt(n.Body, frame)
	if err == nil {
		return v, ctrl, nil
	}
	thrown, ok := err.(*ThrownByHost)
	if !ok || n.Catch == nil {
		return nil, nil, err
	}
	frame.Set(n.Catch.Symbol, asValue(thrown.Value))
	cv, cctrl, cerr := it.execStmt(n.Catch.Body, frame)
	return cv, cctrl, cerr
}

func asValue(v interface{}) values.Value {
	if val, ok := v.(values.Value); ok {
		return val
	}
	return values.NULL
}
