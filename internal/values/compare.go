package values

// Equal implements spec.md §3 equality: Null==Null true; Null vs anything
// else false; numbers compare by mathematical value across variants;
// strings as code-unit sequences; otherwise by host identity unless the
// host exposes an Equaler.
func Equal(x, y Value) bool {
	_, xNull := x.(Null)
	_, yNull := y.(Null)
	if xNull || yNull {
		return xNull && yNull
	}
	if isNumeric(x) && isNumeric(y) {
		return numericCompare(x, y) == 0
	}
	if xs, ok := x.(Str); ok {
		if ys, ok := y.(Str); ok {
			return xs == ys
		}
	}
	switch xv := x.(type) {
	case Bool:
		if yv, ok := y.(Bool); ok {
			return xv == yv
		}
	case Array:
		if yv, ok := y.(Array); ok {
			return arrayEqual(xv, yv)
		}
	case *Map:
		if yv, ok := y.(*Map); ok {
			return mapEqual(xv, yv)
		}
	case *Set:
		if yv, ok := y.(*Set); ok {
			return setEqual(xv, yv)
		}
	case Object:
		if yv, ok := y.(Object); ok {
			if eq, ok := xv.Native.(interface{ Equals(interface{}) bool }); ok {
				return eq.Equals(yv.Native)
			}
			return xv.Native == yv.Native
		}
	}
	return false
}

func arrayEqual(a, b Array) bool {
	if len(a.Elems) != len(b.Elems) {
		return false
	}
	for i := range a.Elems {
		if !Equal(a.Elems[i], b.Elems[i]) {
			return false
		}
	}
	return true
}

func mapEqual(a, b *Map) bool {
	if a.Len() != b.Len() {
		return false
	}
	for _, k := range a.Keys() {
		av, _ := a.Get(k)
		bv, ok := b.Get(k)
		if !ok || !Equal(av, bv) {
			return false
		}
	}
	return true
}

func setEqual(a, b *Set) bool {
	if a.Len() != b.Len() {
		return false
	}
	for _, e := range a.Elements() {
		if !b.Contains(e) {
			return false
		}
	}
	return true
}

func isNumeric(v Value) bool {
	switch v.(type) {
	case Int64, Float64, BigInt, BigDec, Bool:
		return true
	}
	return false
}

func numericCompare(x, y Value) int {
	lvl := join(levelOf(x), levelOf(y))
	switch lvl {
	case lvlBigDec:
		xd, _ := ToBigDec(x, false)
		yd, _ := ToBigDec(y, false)
		return xd.Cmp(yd)
	case lvlFloat64:
		xf, _ := ToDouble(x, false)
		yf, _ := ToDouble(y, false)
		switch {
		case xf < yf:
			return -1
		case xf > yf:
			return 1
		default:
			return 0
		}
	case lvlBigInt:
		xi, _ := ToBigInt(x, false)
		yi, _ := ToBigInt(y, false)
		return xi.Cmp(yi)
	default:
		xi, _ := ToInteger(x, false)
		yi, _ := ToInteger(y, false)
		switch {
		case xi < yi:
			return -1
		case xi > yi:
			return 1
		default:
			return 0
		}
	}
}

// Compare implements `<,>,<=,>=` for numeric and string operands; returns
// an error for operand combinations with no natural order.
func Compare(x, y Value) (int, error) {
	if isNumeric(x) && isNumeric(y) {
		return numericCompare(x, y), nil
	}
	if xs, ok := x.(Str); ok {
		if ys, ok := y.(Str); ok {
			switch {
			case xs < ys:
				return -1, nil
			case xs > ys:
				return 1, nil
			default:
				return 0, nil
			}
		}
	}
	return 0, newArithErr(ErrUnsupportedOperand, "cannot compare %s and %s", x.Kind(), y.Kind())
}

// Size implements spec.md §4.1 "size": length for strings/collections,
// dispatches to a host size() for Object (handled by the interpreter,
// which has uberspect access); here it only covers the value-model cases.
func Size(v Value) (int, bool) {
	switch x := v.(type) {
	case Str:
		return len([]rune(string(x))), true
	case Array:
		return len(x.Elems), true
	case *Map:
		return x.Len(), true
	case *Set:
		return x.Len(), true
	case Null:
		return 0, true
	}
	return 0, false
}

// Empty implements spec.md §4.1 "empty".
func Empty(v Value) (bool, bool) {
	switch x := v.(type) {
	case Null:
		return true, true
	case Str:
		return len(x) == 0, true
	case Array:
		return len(x.Elems) == 0, true
	case *Map:
		return x.Len() == 0, true
	case *Set:
		return x.Len() == 0, true
	case Int64:
		return x == 0, true
	case Float64:
		return x == 0, true
	case BigInt:
		return x.V.Sign() == 0, true
	case BigDec:
		return x.Unscaled.Sign() == 0, true
	case Bool:
		return !bool(x), true
	}
	return false, false
}
