package values

import (
	"math/big"
	"strings"
)

// RoundingMode mirrors the handful of rounding strategies spec.md §3/§6
// names via MathContext (precision, rounding).
type RoundingMode int

const (
	RoundHalfUp RoundingMode = iota
	RoundHalfEven
	RoundDown
	RoundUp
	RoundCeiling
	RoundFloor
)

// MathContext governs BigDec rounding (spec.md §3, §6 Options.math_context).
type MathContext struct {
	Precision int // significant digits kept after a rounding operation; 0 = none configured (Div then keeps 64)
	Rounding  RoundingMode
}

// DefaultMathContext matches common-JEXL's "unlimited precision, HALF_UP"
// default (no MathContext configured).
var DefaultMathContext = MathContext{Precision: 0, Rounding: RoundHalfUp}

// BigDec is an arbitrary-precision decimal: unscaledValue * 10^-scale,
// the same unscaled+scale representation Java's BigDecimal uses — chosen
// because spec.md §6 exposes a "math_scale" option directly in those terms,
// and no example repo ships a decimal library (see DESIGN.md).
type BigDec struct {
	Unscaled *big.Int
	Scale    int32
}

func (BigDec) Kind() Kind { return KBigDec }

func (b BigDec) String() string {
	neg := b.Unscaled.Sign() < 0
	digits := new(big.Int).Abs(b.Unscaled).String()
	if b.Scale <= 0 {
		s := digits + strings.Repeat("0", int(-b.Scale))
		if neg {
			return "-" + s
		}
		return s
	}
	for len(digits) <= int(b.Scale) {
		digits = "0" + digits
	}
	cut := len(digits) - int(b.Scale)
	s := digits[:cut] + "." + digits[cut:]
	if neg {
		return "-" + s
	}
	return s
}

func NewBigDecFromInt64(v int64) BigDec {
	return BigDec{Unscaled: big.NewInt(v), Scale: 0}
}

func NewBigDecFromFloat(f float64) BigDec {
	bf := new(big.Float).SetPrec(200).SetFloat64(f)
	return bigDecFromBigFloat(bf, 34)
}

func bigDecFromBigFloat(bf *big.Float, scale int32) BigDec {
	scaleFactor := new(big.Float).SetPrec(200).SetInt(pow10(int(scale)))
	scaled := new(big.Float).SetPrec(200).Mul(bf, scaleFactor)
	i, _ := scaled.Int(nil)
	return BigDec{Unscaled: i, Scale: scale}
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// rescale returns a copy of b scaled to newScale (only grows scale; used to
// align operands before add/sub).
func (b BigDec) rescale(newScale int32) BigDec {
	if newScale == b.Scale {
		return b
	}
	diff := newScale - b.Scale
	u := new(big.Int).Set(b.Unscaled)
	if diff > 0 {
		u.Mul(u, pow10(int(diff)))
	} else {
		u.Quo(u, pow10(int(-diff)))
	}
	return BigDec{Unscaled: u, Scale: newScale}
}

func maxScale(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func (a BigDec) Add(b BigDec) BigDec {
	s := maxScale(a.Scale, b.Scale)
	ar, br := a.rescale(s), b.rescale(s)
	return BigDec{Unscaled: new(big.Int).Add(ar.Unscaled, br.Unscaled), Scale: s}
}

func (a BigDec) Sub(b BigDec) BigDec {
	s := maxScale(a.Scale, b.Scale)
	ar, br := a.rescale(s), b.rescale(s)
	return BigDec{Unscaled: new(big.Int).Sub(ar.Unscaled, br.Unscaled), Scale: s}
}

func (a BigDec) Mul(b BigDec) BigDec {
	return BigDec{Unscaled: new(big.Int).Mul(a.Unscaled, b.Unscaled), Scale: a.Scale + b.Scale}
}

// Div divides a by b, rounding according to mc (or to mc.Precision
// significant digits if set, else to a generous default scale) per
// spec.md §4.1 "Division ... returns a BigDec if the engine is configured
// with a non-default MathContext".
func (a BigDec) Div(b BigDec, mc MathContext) (BigDec, bool) {
	if b.Unscaled.Sign() == 0 {
		return BigDec{}, false
	}
	precision := mc.Precision
	if precision <= 0 {
		precision = 64
	}
	// scale the dividend up so the integer quotient carries `precision`
	// significant digits, then round.
	extra := precision + int(b.Scale) - int(a.Scale) + len(a.Unscaled.String()) + 2
	if extra < 0 {
		extra = precision
	}
	num := new(big.Int).Mul(a.Unscaled, pow10(extra))
	q, r := new(big.Int).QuoRem(num, b.Unscaled, new(big.Int))
	resultScale := a.Scale + int32(extra) - b.Scale
	result := BigDec{Unscaled: q, Scale: resultScale}
	if r.Sign() != 0 {
		result = result.round(precision, mc.Rounding)
	}
	return result, true
}

// round trims the unscaled value down to `sig` significant digits using the
// given rounding mode.
func (b BigDec) round(sig int, mode RoundingMode) BigDec {
	digits := new(big.Int).Abs(b.Unscaled).String()
	if len(digits) <= sig {
		return b
	}
	drop := len(digits) - sig
	divisor := pow10(drop)
	q, r := new(big.Int).QuoRem(b.Unscaled, divisor, new(big.Int))
	if shouldRoundUp(r, divisor, mode, q) {
		if b.Unscaled.Sign() < 0 {
			q.Sub(q, big.NewInt(1))
		} else {
			q.Add(q, big.NewInt(1))
		}
	}
	return BigDec{Unscaled: q, Scale: b.Scale - int32(drop)}
}

func shouldRoundUp(remainder, divisor *big.Int, mode RoundingMode, quotient *big.Int) bool {
	if remainder.Sign() == 0 {
		return false
	}
	absR := new(big.Int).Abs(remainder)
	twice := new(big.Int).Mul(absR, big.NewInt(2))
	cmp := twice.Cmp(divisor)
	switch mode {
	case RoundDown:
		return false
	case RoundUp:
		return true
	case RoundCeiling:
		return quotient.Sign() >= 0
	case RoundFloor:
		return quotient.Sign() < 0
	case RoundHalfEven:
		if cmp < 0 {
			return false
		}
		if cmp > 0 {
			return true
		}
		return new(big.Int).And(quotient, big.NewInt(1)).Sign() != 0
	default: // RoundHalfUp
		return cmp >= 0
	}
}

func (a BigDec) Cmp(b BigDec) int {
	s := maxScale(a.Scale, b.Scale)
	ar, br := a.rescale(s), b.rescale(s)
	return ar.Unscaled.Cmp(br.Unscaled)
}

func (b BigDec) Float64() float64 {
	bf := new(big.Float).SetInt(b.Unscaled)
	scaleFactor := new(big.Float).SetInt(pow10(int(absInt32(b.Scale))))
	if b.Scale > 0 {
		bf.Quo(bf, scaleFactor)
	} else if b.Scale < 0 {
		bf.Mul(bf, scaleFactor)
	}
	f, _ := bf.Float64()
	return f
}

func absInt32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
