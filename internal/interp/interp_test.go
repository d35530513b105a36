package interp_test

import (
	"context"
	"testing"

	"github.com/jexlang/jexl/internal/interp"
	"github.com/jexlang/jexl/internal/introspect"
	"github.com/jexlang/jexl/internal/parser"
	"github.com/jexlang/jexl/internal/uberspect"
	"github.com/jexlang/jexl/internal/values"
)

func runScript(t *testing.T, src string, opts interp.Options) (values.Value, error) {
	t.Helper()
	p := parser.New(src, nil)
	script, err := p.ParseScript(nil)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	ins := introspect.New(nil)
	it := interp.New(interp.NewMapContext(nil), uberspect.New(ins), opts, context.Background())
	return it.ExecScript(script, nil)
}

func TestTryCatchBindsThrownValue(t *testing.T) {
	v, err := runScript(t, `
		var result = '';
		try {
			throw 'boom';
		} catch (e) {
			result = 'caught:' + e;
		}
		result
	`, interp.DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.String() != "caught:boom" {
		t.Errorf("result = %s, want caught:boom", v.String())
	}
}

func TestTryFinallyAlwaysRuns(t *testing.T) {
	v, err := runScript(t, `
		var ran = false;
		try {
			1 + 1;
		} finally {
			ran = true;
		}
		ran
	`, interp.DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.String() != "true" {
		t.Errorf("ran = %s, want true", v.String())
	}
}

func TestTryCatchFinallyOrdering(t *testing.T) {
	v, err := runScript(t, `
		var log = '';
		try {
			throw 'x';
		} catch (e) {
			log = log + 'catch,';
		} finally {
			log = log + 'finally';
		}
		log
	`, interp.DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.String() != "catch,finally" {
		t.Errorf("log = %s, want catch,finally", v.String())
	}
}

func TestUncaughtThrowPropagatesAsError(t *testing.T) {
	_, err := runScript(t, `throw 'uncaught';`, interp.DefaultOptions())
	if err == nil {
		t.Fatal("expected an error from an uncaught throw")
	}
}

func TestWhileBreakAndContinue(t *testing.T) {
	v, err := runScript(t, `
		var i = 0;
		var sum = 0;
		while (i < 10) {
			i = i + 1;
			if (i == 5) {
				continue;
			}
			if (i == 8) {
				break;
			}
			sum = sum + i;
		}
		sum
	`, interp.DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 1+2+3+4 (skip 5) +6+7 = 23, loop breaks before adding 8
	if v.String() != "23" {
		t.Errorf("sum = %s, want 23", v.String())
	}
}

func TestForEachOverArray(t *testing.T) {
	v, err := runScript(t, `
		var total = 0;
		for (var n : [1, 2, 3, 4]) {
			total = total + n;
		}
		total
	`, interp.DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.String() != "10" {
		t.Errorf("total = %s, want 10", v.String())
	}
}

func TestCancellationStopsExecution(t *testing.T) {
	p := parser.New(`
		var i = 0;
		while (i < 1000000) {
			i = i + 1;
		}
		i
	`, nil)
	script, err := p.ParseScript(nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ins := introspect.New(nil)
	opts := interp.DefaultOptions()
	opts.Cancellable = true
	it := interp.New(interp.NewMapContext(nil), uberspect.New(ins), opts, context.Background())
	it.Cancel()
	_, err = it.ExecScript(script, nil)
	if err == nil {
		t.Fatal("expected a cancellation error")
	}
	if _, ok := err.(*interp.CancelledError); !ok {
		t.Errorf("error = %T, want *interp.CancelledError", err)
	}
}

func TestStrictNullOperandErrors(t *testing.T) {
	opts := interp.DefaultOptions()
	opts.Strict = true
	_, err := runScript(t, `null + 1`, opts)
	if err == nil {
		t.Error("expected an error adding null to a number under strict mode")
	}
}

func TestLenientNullOperandNoError(t *testing.T) {
	v, err := runScript(t, `x + 1`, interp.DefaultOptions())
	_ = v
	if err != nil {
		t.Errorf("lenient mode should not error on an undeclared variable used as null, got %v", err)
	}
}

type noSuchPropHost struct{}

// TestLenientUnknownPropertyReadIsNull guards against a nil-interface leak:
// a non-strict, non-silent, non-safe property read that fails to resolve
// must still come back as (values.NULL, nil), not a bare Go nil Value.
func TestLenientUnknownPropertyReadIsNull(t *testing.T) {
	p := parser.New(`foo.noSuchProp`, nil)
	script, err := p.ParseScript(nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ins := introspect.New(nil)
	ctx := interp.NewMapContext(map[string]values.Value{
		"foo": values.Object{Native: &noSuchPropHost{}},
	})
	it := interp.New(ctx, uberspect.New(ins), interp.DefaultOptions(), context.Background())
	v, err := it.ExecScript(script, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := v.(values.Null); !ok {
		t.Errorf("result = %#v (%T), want values.NULL", v, v)
	}
}
