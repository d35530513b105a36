package values_test

import (
	"math/big"
	"testing"

	"github.com/jexlang/jexl/internal/values"
)

func TestArithWideningLattice(t *testing.T) {
	a := values.Arith{}

	v, err := a.Add(values.Int64(2), values.Int64(3))
	if err != nil || v.String() != "5" {
		t.Fatalf("int64 + int64 = %v, %v", v, err)
	}
	if _, ok := v.(values.Int64); !ok {
		t.Errorf("int64 + int64 should stay Int64, got %T", v)
	}

	v, err = a.Add(values.Int64(2), values.Float64(0.5))
	if err != nil || v.String() != "2.5" {
		t.Fatalf("int64 + float64 = %v, %v", v, err)
	}
	if _, ok := v.(values.Float64); !ok {
		t.Errorf("int64 + float64 should widen to Float64, got %T", v)
	}

	v, err = a.Add(values.BigInt{V: big.NewInt(10)}, values.Int64(5))
	if err != nil || v.String() != "15" {
		t.Fatalf("bigint + int64 = %v, %v", v, err)
	}
	if _, ok := v.(values.BigInt); !ok {
		t.Errorf("bigint + int64 should widen to BigInt, got %T", v)
	}
}

func TestArithStringConcatenation(t *testing.T) {
	a := values.Arith{}
	v, err := a.Add(values.Str("foo"), values.Str("bar"))
	if err != nil || v.String() != "foobar" {
		t.Fatalf("string + string = %v, %v", v, err)
	}
	v, err = a.Add(values.Str("count: "), values.Int64(3))
	if err != nil || v.String() != "count: 3" {
		t.Fatalf("string + int64 = %v, %v", v, err)
	}
}

func TestArithNumericStringStrictVsLenient(t *testing.T) {
	lenient := values.Arith{}
	v, err := lenient.Add(values.Int64(1), values.Str("2"))
	if err != nil || v.String() != "12" {
		t.Fatalf("lenient 1 + \"2\" = %v, %v, want Str 12", v, err)
	}
	if _, ok := v.(values.Str); !ok {
		t.Errorf("lenient 1 + \"2\" should stay a Str, got %T", v)
	}

	strict := values.Arith{Strict: true}
	v, err = strict.Add(values.Int64(1), values.Str("2"))
	if err != nil {
		t.Fatalf("strict 1 + \"2\": %v", err)
	}
	if v.String() != "3" {
		t.Errorf("strict 1 + \"2\" = %s, want 3", v.String())
	}
	if _, ok := v.(values.Int64); !ok {
		t.Errorf("strict 1 + \"2\" should parse the string and widen to Int64, got %T", v)
	}

	v, err = strict.Add(values.Float64(1.5), values.Str("2"))
	if err != nil {
		t.Fatalf("strict 1.5 + \"2\": %v", err)
	}
	if v.String() != "3.5" {
		t.Errorf("strict 1.5 + \"2\" = %s, want 3.5", v.String())
	}

	v, err = strict.Sub(values.Int64(10), values.Str("4"))
	if err != nil {
		t.Fatalf("strict 10 - \"4\": %v", err)
	}
	if v.String() != "6" {
		t.Errorf("strict 10 - \"4\" = %s, want 6", v.String())
	}
}

func TestArithNullOperandLenientVsStrict(t *testing.T) {
	lenient := values.Arith{Strict: false}
	v, err := lenient.Add(values.NULL, values.Int64(5))
	if err != nil || v.String() != "5" {
		t.Fatalf("lenient null + 5 = %v, %v", v, err)
	}

	strict := values.Arith{Strict: true}
	if _, err := strict.Add(values.NULL, values.Int64(5)); err == nil {
		t.Error("strict null + 5 should error")
	}
}

func TestArithDivideByZero(t *testing.T) {
	a := values.Arith{}
	if _, err := a.Div(values.Int64(5), values.Int64(0)); err == nil {
		t.Error("division by zero should error")
	}
}

func TestArithDivNonIntegral(t *testing.T) {
	a := values.Arith{}
	v, err := a.Div(values.Int64(10), values.Int64(4))
	if err != nil {
		t.Fatalf("10 / 4: %v", err)
	}
	if v.String() != "2.5" {
		t.Errorf("10 / 4 = %s, want 2.5", v.String())
	}
	v, err = a.Div(values.Int64(10), values.Int64(5))
	if err != nil {
		t.Fatalf("10 / 5: %v", err)
	}
	if v.String() != "2" {
		t.Errorf("10 / 5 = %s, want 2 (stays integral)", v.String())
	}
}

func TestToIntegerToDoubleCoercions(t *testing.T) {
	i, err := values.ToInteger(values.Str("42"), false)
	if err != nil || i != 42 {
		t.Errorf("ToInteger(\"42\") = %d, %v", i, err)
	}
	f, err := values.ToDouble(values.Str("3.5"), false)
	if err != nil || f != 3.5 {
		t.Errorf("ToDouble(\"3.5\") = %v, %v", f, err)
	}
	if _, err := values.ToInteger(values.Str("not a number"), true); err == nil {
		t.Error("strict ToInteger of a non-numeric string should error")
	}
	if i, err := values.ToInteger(values.Str("not a number"), false); err != nil || i != 0 {
		t.Errorf("lenient ToInteger of a non-numeric string = %d, %v, want 0, nil", i, err)
	}
}

func TestToBooleanTruthiness(t *testing.T) {
	cases := []struct {
		v    values.Value
		want bool
	}{
		{values.NULL, false},
		{values.Bool(false), false},
		{values.Int64(0), false},
		{values.Int64(1), true},
		{values.Str(""), false},
		{values.Str("true"), true},
		{values.Str("false"), false},
		{values.Array{}, false},
		{values.Array{Elems: []values.Value{values.Int64(1)}}, true},
	}
	for _, c := range cases {
		if got := values.ToBoolean(c.v); got != c.want {
			t.Errorf("ToBoolean(%v) = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestBigDecStringFormatting(t *testing.T) {
	d := values.NewBigDecFromInt64(1234)
	if d.String() != "1234" {
		t.Errorf("NewBigDecFromInt64(1234).String() = %s, want 1234", d.String())
	}
	neg := values.BigDec{Unscaled: big.NewInt(-1250), Scale: 2}
	if neg.String() != "-12.50" {
		t.Errorf("BigDec{-1250, scale 2}.String() = %s, want -12.50", neg.String())
	}
}

func TestMapSetGetDelete(t *testing.T) {
	m := values.NewMap()
	m.Set(values.Str("a"), values.Int64(1))
	m.Set(values.Str("b"), values.Int64(2))
	if v, ok := m.Get(values.Str("a")); !ok || v.String() != "1" {
		t.Errorf("Get(a) = %v, %v", v, ok)
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}
	m.Delete(values.Str("a"))
	if _, ok := m.Get(values.Str("a")); ok {
		t.Error("Get(a) should miss after Delete")
	}
	if m.Len() != 1 {
		t.Errorf("Len() after delete = %d, want 1", m.Len())
	}
}
