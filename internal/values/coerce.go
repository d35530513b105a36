package values

import (
	"math/big"
	"strconv"
	"strings"
)

// Strict controls whether a failed coercion raises (true) or falls back to
// a type-appropriate zero value (false) — spec.md §4.1 "Null policy" /
// coercion rules.
type Strict bool

// ToBoolean implements the spec.md §3 truthiness table.
func ToBoolean(v Value) bool {
	switch x := v.(type) {
	case Null:
		return false
	case Bool:
		return bool(x)
	case Int64:
		return x != 0
	case Float64:
		return x != 0
	case BigInt:
		return x.V.Sign() != 0
	case BigDec:
		return x.Unscaled.Sign() != 0
	case Str:
		return strings.EqualFold(string(x), "true")
	case Array:
		return len(x.Elems) > 0
	case *Map:
		return x.Len() > 0
	case *Set:
		return x.Len() > 0
	case Object:
		return true
	case Callable:
		return true
	}
	return false
}

// looksNumeric reports whether s parses fully as an integer or real literal
// under the strict grammar spec.md §4.1 requires for string coercion.
func looksNumeric(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// ToInteger coerces v to an int64-range integer.
func ToInteger(v Value, strict Strict) (int64, error) {
	switch x := v.(type) {
	case Null:
		if strict {
			return 0, newArithErr(ErrNullOperand, "cannot coerce null to integer")
		}
		return 0, nil
	case Bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case Int64:
		return int64(x), nil
	case Float64:
		return int64(x), nil
	case BigInt:
		return x.V.Int64(), nil
	case BigDec:
		return int64(x.Float64()), nil
	case Str:
		s := strings.TrimSpace(string(x))
		if n, err := strconv.ParseInt(s, 0, 64); err == nil {
			return n, nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int64(f), nil
		}
		if strict {
			return 0, newArithErr(ErrCoercion, "cannot coerce %q to integer", s)
		}
		return 0, nil
	}
	if strict {
		return 0, newArithErr(ErrCoercion, "cannot coerce %s to integer", v.Kind())
	}
	return 0, nil
}

// ToDouble coerces v to float64.
func ToDouble(v Value, strict Strict) (float64, error) {
	switch x := v.(type) {
	case Null:
		if strict {
			return 0, newArithErr(ErrNullOperand, "cannot coerce null to double")
		}
		return 0, nil
	case Bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case Int64:
		return float64(x), nil
	case Float64:
		return float64(x), nil
	case BigInt:
		f := new(big.Float).SetInt(x.V)
		r, _ := f.Float64()
		return r, nil
	case BigDec:
		return x.Float64(), nil
	case Str:
		s := strings.TrimSpace(string(x))
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			if strict {
				return 0, newArithErr(ErrCoercion, "cannot coerce %q to double", s)
			}
			return 0, nil
		}
		return f, nil
	}
	if strict {
		return 0, newArithErr(ErrCoercion, "cannot coerce %s to double", v.Kind())
	}
	return 0, nil
}

// ToBigInt coerces v to an arbitrary-precision integer.
func ToBigInt(v Value, strict Strict) (*big.Int, error) {
	switch x := v.(type) {
	case BigInt:
		return x.V, nil
	case Int64:
		return big.NewInt(int64(x)), nil
	case Float64:
		bi, _ := big.NewFloat(float64(x)).Int(nil)
		return bi, nil
	case BigDec:
		bi, _ := new(big.Float).SetInt(x.Unscaled).Int(nil)
		return bi, nil
	case Bool:
		if x {
			return big.NewInt(1), nil
		}
		return big.NewInt(0), nil
	case Str:
		n := new(big.Int)
		if _, ok := n.SetString(strings.TrimSpace(string(x)), 0); ok {
			return n, nil
		}
		if strict {
			return nil, newArithErr(ErrCoercion, "cannot coerce %q to BigInt", string(x))
		}
		return big.NewInt(0), nil
	case Null:
		if strict {
			return nil, newArithErr(ErrNullOperand, "cannot coerce null to BigInt")
		}
		return big.NewInt(0), nil
	}
	if strict {
		return nil, newArithErr(ErrCoercion, "cannot coerce %s to BigInt", v.Kind())
	}
	return big.NewInt(0), nil
}

// ToBigDec coerces v to BigDec.
func ToBigDec(v Value, strict Strict) (BigDec, error) {
	switch x := v.(type) {
	case BigDec:
		return x, nil
	case Int64:
		return NewBigDecFromInt64(int64(x)), nil
	case BigInt:
		return BigDec{Unscaled: x.V, Scale: 0}, nil
	case Float64:
		return NewBigDecFromFloat(float64(x)), nil
	case Bool:
		if x {
			return NewBigDecFromInt64(1), nil
		}
		return NewBigDecFromInt64(0), nil
	case Str:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(x)), 64)
		if err != nil {
			if strict {
				return BigDec{}, newArithErr(ErrCoercion, "cannot coerce %q to BigDecimal", string(x))
			}
			return NewBigDecFromInt64(0), nil
		}
		return NewBigDecFromFloat(f), nil
	case Null:
		if strict {
			return BigDec{}, newArithErr(ErrNullOperand, "cannot coerce null to BigDecimal")
		}
		return NewBigDecFromInt64(0), nil
	}
	if strict {
		return BigDec{}, newArithErr(ErrCoercion, "cannot coerce %s to BigDecimal", v.Kind())
	}
	return NewBigDecFromInt64(0), nil
}

// ToGoString coerces v to a Go string the way spec.md's to_string does:
// lenient on every variant, never erroring.
func ToGoString(v Value) string {
	if v == nil {
		return ""
	}
	if _, ok := v.(Null); ok {
		return ""
	}
	return v.String()
}

// ToArray coerces a collection-like Value to a Go slice of Values.
func ToArray(v Value) ([]Value, bool) {
	switch x := v.(type) {
	case Array:
		return x.Elems, true
	case *Set:
		return x.Elements(), true
	case *Map:
		out := make([]Value, 0, x.Len())
		for _, k := range x.Keys() {
			val, _ := x.Get(k)
			out = append(out, val)
		}
		return out, true
	}
	return nil, false
}
