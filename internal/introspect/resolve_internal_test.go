package introspect

import (
	"errors"
	"reflect"
	"testing"
)

type ambigHost struct{}

func (h *ambigHost) F(a interface{}, b string) string { return "real" }

// TestGetMethodAmbiguousOverload models spec.md §8 Scenario 4 (a host class
// exposing f(Object,String) and f(String,Object), called as f("a","b")):
// Go itself can never carry two methods named the same on one type, so this
// seeds a second synthetic overload straight into the unexported ClassMap
// cache alongside the one real method ambigHost.F populates, the way a host
// language with real overloading would present its candidate set.
func TestGetMethodAmbiguousOverload(t *testing.T) {
	ins := New(nil)
	rv := reflect.ValueOf(&ambigHost{})
	cm := ins.classMapFor(rv.Type())

	real := cm.methodsBy["F"][0]
	swapped := &Method{
		Name:     "F",
		Func:     real.Func,
		ParamsIn: []reflect.Type{real.ParamsIn[1], real.ParamsIn[0]},
		NumOut:   real.NumOut,
		Go:       real.Go,
	}
	cm.methodsBy["F"] = append(cm.methodsBy["F"], swapped)

	args := []reflect.Value{reflect.ValueOf("a"), reflect.ValueOf("b")}
	_, err := ins.GetMethod(rv, "F", args)
	if err == nil {
		t.Fatal("expected an ambiguous-overload error")
	}
	var amb *AmbiguousMethodError
	if !errors.As(err, &amb) {
		t.Fatalf("error = %T, want *AmbiguousMethodError", err)
	}
	if !amb.Severity {
		t.Error("f(Object,String)/f(String,Object) vs f(\"a\",\"b\") should be a severe ambiguity")
	}
	if len(amb.Members) != 2 {
		t.Errorf("Members = %d, want 2", len(amb.Members))
	}
}
