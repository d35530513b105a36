package jexl_test

import (
	"context"
	"testing"

	"github.com/jexlang/jexl/internal/values"
	"github.com/jexlang/jexl/pkg/jexl"
)

func evalExpr(t *testing.T, src string, vars map[string]values.Value) values.Value {
	t.Helper()
	engine := jexl.NewEngine()
	expr, err := engine.CreateExpression(src)
	if err != nil {
		t.Fatalf("CreateExpression(%q): %v", src, err)
	}
	ctx := engine.NewContext(vars)
	v, err := expr.Evaluate(context.Background(), ctx)
	if err != nil {
		t.Fatalf("Evaluate(%q): %v", src, err)
	}
	return v
}

func TestArithmetic(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"1 + 2", "3"},
		{"2 * (3 + 4)", "14"},
		{"10 / 4", "2.5"},
		{"10 % 3", "1"},
		{"2 ** 10", "1024.0"},
		{"'foo' + 'bar'", "foobar"},
		{"1 < 2 && 2 < 3", "true"},
		{"null == null", "true"},
	}
	for _, c := range cases {
		if got := evalExpr(t, c.src, nil).String(); got != c.want {
			t.Errorf("%s = %s, want %s", c.src, got, c.want)
		}
	}
}

func TestTernaryAndElvis(t *testing.T) {
	if got := evalExpr(t, "1 < 2 ? 'yes' : 'no'", nil).String(); got != "yes" {
		t.Errorf("ternary: got %s", got)
	}
	if got := evalExpr(t, "null ?: 'fallback'", nil).String(); got != "fallback" {
		t.Errorf("elvis: got %s", got)
	}
	if got := evalExpr(t, "x ?? 'default'", map[string]values.Value{"x": values.NULL}).String(); got != "default" {
		t.Errorf("null-coalescing: got %s", got)
	}
}

func TestContextVariables(t *testing.T) {
	got := evalExpr(t, "a + b", map[string]values.Value{
		"a": values.Int64(3),
		"b": values.Int64(4),
	})
	if got.String() != "7" {
		t.Errorf("a + b = %s, want 7", got.String())
	}
}

func TestArrayAndMapLiterals(t *testing.T) {
	if got := evalExpr(t, "[1, 2, 3][1]", nil).String(); got != "2" {
		t.Errorf("array index: got %s", got)
	}
	if got := evalExpr(t, "{'a': 1, 'b': 2}.b", nil).String(); got != "2" {
		t.Errorf("map property: got %s", got)
	}
}

func TestSafeNavigation(t *testing.T) {
	got := evalExpr(t, "x?.y", map[string]values.Value{"x": values.NULL})
	if _, ok := got.(values.Null); !ok {
		t.Errorf("safe navigation on null target should yield null, got %s", got.String())
	}
}

func TestLambdaClosure(t *testing.T) {
	got := evalExpr(t, "((x) -> x * 2)(21)", nil)
	if got.String() != "42" {
		t.Errorf("lambda call: got %s, want 42", got.String())
	}
}

func TestGetVariablesFreeNames(t *testing.T) {
	engine := jexl.NewEngine()
	expr, err := engine.CreateExpression("a + b.c")
	if err != nil {
		t.Fatalf("CreateExpression: %v", err)
	}
	vars := expr.GetVariables()
	want := map[string]bool{"a": true, "b.c": true}
	if len(vars) != len(want) {
		t.Fatalf("GetVariables = %v, want keys %v", vars, want)
	}
	for _, v := range vars {
		if !want[v] {
			t.Errorf("unexpected free variable %q", v)
		}
	}
}

func TestScriptExecuteAndCallable(t *testing.T) {
	engine := jexl.NewEngine()
	script, err := engine.CreateScript("var total = 0; for (var n : items) { total = total + n; } total", "items")
	if err != nil {
		t.Fatalf("CreateScript: %v", err)
	}
	ctx := engine.NewContext(nil)
	items := values.Array{Elems: []values.Value{values.Int64(1), values.Int64(2), values.Int64(3)}}
	v, err := script.Execute(context.Background(), ctx, items)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if v.String() != "6" {
		t.Errorf("sum = %s, want 6", v.String())
	}

	callable := script.Callable(ctx)
	v2, err := callable.Call([]values.Value{items})
	if err != nil {
		t.Fatalf("Callable.Call: %v", err)
	}
	if v2.String() != "6" {
		t.Errorf("callable sum = %s, want 6", v2.String())
	}
}

func TestStrictUndefinedVariable(t *testing.T) {
	engine := jexl.NewEngine(jexl.WithOptions(func() jexl.Options {
		o := jexl.DefaultOptions()
		o.Strict = true
		return o
	}()))
	expr, err := engine.CreateExpression("undeclared")
	if err != nil {
		t.Fatalf("CreateExpression: %v", err)
	}
	ctx := engine.NewContext(nil)
	if _, err := expr.Evaluate(context.Background(), ctx); err == nil {
		t.Error("expected an error referencing an undeclared variable under strict mode")
	}
}
