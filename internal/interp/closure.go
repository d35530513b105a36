package interp

import (
	"github.com/jexlang/jexl/internal/ast"
	"github.com/jexlang/jexl/internal/scope"
	"github.com/jexlang/jexl/internal/values"
)

// Closure is the runtime value a Lambda expression evaluates to (spec.md
// §3 "Closure", §4.4 "Lambdas and closures"): the lambda's AST, the frame
// it closes over, and the `this` binding in effect at construction.
type Closure struct {
	it     *Interpreter
	lambda *ast.Lambda
	outer  *scope.Frame
	this   values.Value
}

func (c *Closure) Kind() values.Kind { return values.KCallable }
func (c *Closure) String() string    { return "closure" }

// Call invokes the closure with the given arguments (spec.md §4.4
// "Invoking a Closure builds a new Frame; parameter symbols are assigned
// from arguments; capture slots are read through to the captured frame on
// each access").
func (c *Closure) Call(args []values.Value) (values.Value, error) {
	frameArgs := packArgs(c.lambda.Params, args)
	var frame *scope.Frame
	if c.outer != nil {
		frame = c.outer.CreateChild(c.lambda.Scope, frameArgs)
	} else {
		frame = scope.NewFrame(c.lambda.Scope, frameArgs)
	}
	return c.it.execFrameBody(c.lambda.Body, frame, c.this)
}

// packArgs assigns positional args into the parameter slots, packing
// trailing actuals into an Array when the final parameter is varargs
// (spec.md §4.4 "Vararg parameters").
func packArgs(params []ast.Param, args []values.Value) []interface{} {
	out := make([]interface{}, len(params))
	for i, p := range params {
		switch {
		case p.Varargs:
			if i < len(args) {
				rest := append([]values.Value{}, args[i:]...)
				out[i] = values.Array{Elems: rest}
			} else {
				out[i] = values.Array{}
			}
		case i < len(args):
			out[i] = args[i]
		default:
			out[i] = values.NULL
		}
	}
	return out
}
