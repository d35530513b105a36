package namespace

import (
	"math"

	"github.com/jexlang/jexl/internal/values"
)

// mathFuncs is the `math:` namespace (SPEC_FULL.md §C): pure,
// host-independent helpers beyond the `**` operator's own math.Pow use in
// the interpreter. Grounded on the same stdlib math package the
// interpreter's evalPow already uses; no third-party math library appears
// anywhere in the retrieval pack.
func mathFuncs() map[string]Func {
	return map[string]Func{
		"abs":   mathUnary(math.Abs),
		"sqrt":  mathUnary(math.Sqrt),
		"floor": mathUnary(math.Floor),
		"ceil":  mathUnary(math.Ceil),
		"round": mathUnary(math.Round),
		"log":   mathUnary(math.Log),
		"log10": mathUnary(math.Log10),
		"exp":   mathUnary(math.Exp),
		"min":   mathBinary(math.Min),
		"max":   mathBinary(math.Max),
		"pow":   mathBinary(math.Pow),
	}
}

func mathUnary(fn func(float64) float64) Func {
	return func(args []values.Value) (values.Value, error) {
		f, err := values.ToDouble(arg(args, 0), false)
		if err != nil {
			return nil, err
		}
		return values.Float64(fn(f)), nil
	}
}

func mathBinary(fn func(float64, float64) float64) Func {
	return func(args []values.Value) (values.Value, error) {
		a, err := values.ToDouble(arg(args, 0), false)
		if err != nil {
			return nil, err
		}
		b, err := values.ToDouble(arg(args, 1), false)
		if err != nil {
			return nil, err
		}
		return values.Float64(fn(a, b)), nil
	}
}
