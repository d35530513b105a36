package values

import (
	"math/big"
	"strconv"
	"strings"
)

// level places a Value's declared type on the widening lattice
// Bool ≺ Int ≺ Long ≺ BigInt ≺ Float ≺ Double ≺ BigDec (spec.md §4.1).
// JEXL-Go collapses Int/Long into Int64 and Float/Double into Float64 (Go
// has no distinct 32-bit numeric tower worth preserving here), so the
// lattice used at run time is Bool ≺ Int64 ≺ BigInt ≺ Float64 ≺ BigDec.
type level int

const (
	lvlBool level = iota
	lvlInt64
	lvlBigInt
	lvlFloat64
	lvlBigDec
	lvlOther
)

func levelOf(v Value) level {
	switch v.(type) {
	case Bool:
		return lvlBool
	case Int64:
		return lvlInt64
	case BigInt:
		return lvlBigInt
	case Float64:
		return lvlFloat64
	case BigDec:
		return lvlBigDec
	}
	return lvlOther
}

func join(a, b level) level {
	if a > b {
		return a
	}
	return b
}

// strLevel classifies a numeric-looking string's natural widening level
// using the same grammar ToInteger/ToDouble already parse strings with.
func strLevel(s string) level {
	s = strings.TrimSpace(s)
	if _, err := strconv.ParseInt(s, 0, 64); err == nil {
		return lvlInt64
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return lvlFloat64
	}
	return lvlOther
}

// levelOf is the free levelOf function made mode-aware: a Str operand only
// counts as numeric in strict mode (spec.md §8 Scenario 1: `1 + "2"` is Int
// `3` in strict arithmetic, but Str `"12"` in lenient — lenient string
// concatenation must still see the string as lvlOther so it falls through
// to numeric()'s string-concat default).
func (a Arith) levelOf(v Value) level {
	if s, ok := v.(Str); ok {
		if !a.Strict {
			return lvlOther
		}
		return strLevel(string(s))
	}
	return levelOf(v)
}

// Arith holds the configuration driving coercion/null-policy during
// arithmetic (spec.md §4.1 "Null policy", MathContext).
type Arith struct {
	Strict      bool
	MathContext MathContext
	MathScale   int32
}

func isNull(v Value) bool {
	_, ok := v.(Null)
	return ok
}

func isNonParseableString(v Value) bool {
	s, ok := v.(Str)
	if !ok {
		return false
	}
	return !looksNumeric(string(s))
}

// Add implements `+`, selecting string concatenation over numeric addition
// when either operand is a non-parseable or explicitly-string operand
// (spec.md §4.1 "String concatenation").
func (a Arith) Add(x, y Value) (Value, error) {
	if isNonParseableString(x) || isNonParseableString(y) {
		return Str(ToGoString(x) + ToGoString(y)), nil
	}
	if isNull(x) || isNull(y) {
		if v, ok, err := a.nullIdentity(x, y, "+"); ok {
			return v, err
		}
	}
	return a.numeric(x, y, func(i, j int64) (Value, error) { return Int64(i + j), nil },
		func(i, j *big.Int) (Value, error) { return BigInt{new(big.Int).Add(i, j)}, nil },
		func(i, j float64) (Value, error) { return Float64(i + j), nil },
		func(i, j BigDec) (Value, error) { return i.Add(j), nil })
}

func (a Arith) Sub(x, y Value) (Value, error) {
	if isNull(x) || isNull(y) {
		if v, ok, err := a.nullIdentity(x, y, "-"); ok {
			return v, err
		}
	}
	return a.numeric(x, y, func(i, j int64) (Value, error) { return Int64(i - j), nil },
		func(i, j *big.Int) (Value, error) { return BigInt{new(big.Int).Sub(i, j)}, nil },
		func(i, j float64) (Value, error) { return Float64(i - j), nil },
		func(i, j BigDec) (Value, error) { return i.Sub(j), nil })
}

func (a Arith) Mul(x, y Value) (Value, error) {
	if isNull(x) || isNull(y) {
		if v, ok, err := a.nullIdentity(x, y, "*"); ok {
			return v, err
		}
	}
	return a.numeric(x, y, func(i, j int64) (Value, error) { return Int64(i * j), nil },
		func(i, j *big.Int) (Value, error) { return BigInt{new(big.Int).Mul(i, j)}, nil },
		func(i, j float64) (Value, error) { return Float64(i * j), nil },
		func(i, j BigDec) (Value, error) { return i.Mul(j), nil })
}

// Div implements `/`. When both operands are integral and divide evenly it
// stays integral; otherwise it widens to BigDec (non-default MathContext)
// or Float64 (spec.md §4.1).
func (a Arith) Div(x, y Value) (Value, error) {
	if a.Strict && (isNull(x) || isNull(y)) {
		return nil, newArithErr(ErrNullOperand, "null operand to /")
	}
	lvl := join(a.levelOf(x), a.levelOf(y))
	if lvl == lvlInt64 || lvl == lvlBool {
		xi, _ := ToInteger(x, Strict(a.Strict))
		yi, _ := ToInteger(y, Strict(a.Strict))
		if yi == 0 {
			return nil, newArithErr(ErrDivideByZero, "division by zero")
		}
		if xi%yi == 0 {
			return Int64(xi / yi), nil
		}
		if a.MathContext.Precision > 0 {
			xd := NewBigDecFromInt64(xi)
			yd := NewBigDecFromInt64(yi)
			r, ok := xd.Div(yd, a.MathContext)
			if !ok {
				return nil, newArithErr(ErrDivideByZero, "division by zero")
			}
			return r, nil
		}
		return Float64(float64(xi) / float64(yi)), nil
	}
	if lvl == lvlBigDec {
		xd, _ := ToBigDec(x, Strict(a.Strict))
		yd, _ := ToBigDec(y, Strict(a.Strict))
		r, ok := xd.Div(yd, a.MathContext)
		if !ok {
			return nil, newArithErr(ErrDivideByZero, "division by zero")
		}
		return r, nil
	}
	xf, _ := ToDouble(x, Strict(a.Strict))
	yf, _ := ToDouble(y, Strict(a.Strict))
	if yf == 0 {
		return nil, newArithErr(ErrDivideByZero, "division by zero")
	}
	return Float64(xf / yf), nil
}

func (a Arith) Mod(x, y Value) (Value, error) {
	if a.Strict && (isNull(x) || isNull(y)) {
		return nil, newArithErr(ErrNullOperand, "null operand to %%")
	}
	lvl := join(a.levelOf(x), a.levelOf(y))
	if lvl == lvlFloat64 || lvl == lvlBigDec {
		xf, _ := ToDouble(x, Strict(a.Strict))
		yf, _ := ToDouble(y, Strict(a.Strict))
		if yf == 0 {
			return nil, newArithErr(ErrDivideByZero, "division by zero")
		}
		r := xf - yf*float64(int64(xf/yf))
		return Float64(r), nil
	}
	xi, _ := ToInteger(x, Strict(a.Strict))
	yi, _ := ToInteger(y, Strict(a.Strict))
	if yi == 0 {
		return nil, newArithErr(ErrDivideByZero, "division by zero")
	}
	return Int64(xi % yi), nil
}

// nullIdentity implements §4.1's null policy for +,-,*. Callers invoke it
// only when at least one operand is null, and it always reports ok=true:
// strict mode returns a NullOperand error, while in lenient mode a null
// operand acts as the additive/multiplicative identity of the other
// operand's type (so `null - x` is `-x`), and two nulls give 0.
func (a Arith) nullIdentity(x, y Value, op string) (Value, bool, error) {
	if a.Strict {
		return nil, true, newArithErr(ErrNullOperand, "null operand to %s", op)
	}
	if isNull(x) && isNull(y) {
		return Int64(0), true, nil
	}
	if isNull(x) {
		if op == "-" {
			v, err := a.Negate(y)
			return v, true, err
		}
		return y, true, nil
	}
	return x, true, nil
}

func (a Arith) numeric(
	x, y Value,
	intOp func(int64, int64) (Value, error),
	bigOp func(*big.Int, *big.Int) (Value, error),
	floatOp func(float64, float64) (Value, error),
	decOp func(BigDec, BigDec) (Value, error),
) (Value, error) {
	lvl := join(a.levelOf(x), a.levelOf(y))
	strict := Strict(a.Strict)
	switch lvl {
	case lvlBool, lvlInt64:
		xi, err := ToInteger(x, strict)
		if err != nil {
			return nil, err
		}
		yi, err := ToInteger(y, strict)
		if err != nil {
			return nil, err
		}
		return intOp(xi, yi)
	case lvlBigInt:
		xi, err := ToBigInt(x, strict)
		if err != nil {
			return nil, err
		}
		yi, err := ToBigInt(y, strict)
		if err != nil {
			return nil, err
		}
		return bigOp(xi, yi)
	case lvlFloat64:
		xf, err := ToDouble(x, strict)
		if err != nil {
			return nil, err
		}
		yf, err := ToDouble(y, strict)
		if err != nil {
			return nil, err
		}
		return floatOp(xf, yf)
	case lvlBigDec:
		xd, err := ToBigDec(x, strict)
		if err != nil {
			return nil, err
		}
		yd, err := ToBigDec(y, strict)
		if err != nil {
			return nil, err
		}
		return decOp(xd, yd)
	default:
		// one or both operands are non-numeric (string, collection, object):
		// treat as string concatenation, matching spec.md's "string
		// concatenation selected when either operand is ... explicitly
		// string-typed".
		return Str(ToGoString(x) + ToGoString(y)), nil
	}
}

// Bitwise / shift operators always widen through int64 (spec.md only
// defines them over integral operands).
func (a Arith) BitAnd(x, y Value) (Value, error) { return a.bitwise(x, y, func(i, j int64) int64 { return i & j }) }
func (a Arith) BitOr(x, y Value) (Value, error)  { return a.bitwise(x, y, func(i, j int64) int64 { return i | j }) }
func (a Arith) BitXor(x, y Value) (Value, error) { return a.bitwise(x, y, func(i, j int64) int64 { return i ^ j }) }
func (a Arith) Shl(x, y Value) (Value, error)    { return a.bitwise(x, y, func(i, j int64) int64 { return i << uint(j) }) }
func (a Arith) Shr(x, y Value) (Value, error)    { return a.bitwise(x, y, func(i, j int64) int64 { return i >> uint(j) }) }

func (a Arith) bitwise(x, y Value, op func(int64, int64) int64) (Value, error) {
	if a.Strict && (isNull(x) || isNull(y)) {
		return nil, newArithErr(ErrNullOperand, "null operand to bitwise operator")
	}
	xi, err := ToInteger(x, Strict(a.Strict))
	if err != nil {
		return nil, err
	}
	yi, err := ToInteger(y, Strict(a.Strict))
	if err != nil {
		return nil, err
	}
	return Int64(op(xi, yi)), nil
}

func (a Arith) BitNot(x Value) (Value, error) {
	xi, err := ToInteger(x, Strict(a.Strict))
	if err != nil {
		return nil, err
	}
	return Int64(^xi), nil
}

func (a Arith) Negate(x Value) (Value, error) {
	switch v := x.(type) {
	case Int64:
		return Int64(-v), nil
	case Float64:
		return Float64(-v), nil
	case BigInt:
		return BigInt{new(big.Int).Neg(v.V)}, nil
	case BigDec:
		return BigDec{Unscaled: new(big.Int).Neg(v.Unscaled), Scale: v.Scale}, nil
	case Bool:
		if v {
			return Int64(-1), nil
		}
		return Int64(0), nil
	case Null:
		if a.Strict {
			return nil, newArithErr(ErrNullOperand, "null operand to unary -")
		}
		return Int64(0), nil
	}
	xi, err := ToDouble(x, Strict(a.Strict))
	if err != nil {
		return nil, err
	}
	return Float64(-xi), nil
}
