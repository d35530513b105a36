package introspect_test

import (
	"reflect"
	"testing"

	"github.com/jexlang/jexl/internal/introspect"
)

type Widget struct {
	Secret string
	Public string
}

func (w *Widget) Greet(name string) string { return "hi " + name }
func (w *Widget) Greet2(name string, loud bool) string {
	if loud {
		return "HI " + name
	}
	return "hi " + name
}

func TestGetMethodResolvesByArity(t *testing.T) {
	ins := introspect.New(nil)
	rv := reflect.ValueOf(&Widget{})

	m, err := ins.GetMethod(rv, "Greet", []reflect.Value{reflect.ValueOf("world")})
	if err != nil {
		t.Fatalf("GetMethod(Greet/1): %v", err)
	}
	if m == nil || m.Name != "Greet" {
		t.Fatalf("GetMethod(Greet/1) = %v, want Greet", m)
	}

	m2, err := ins.GetMethod(rv, "Greet2", []reflect.Value{reflect.ValueOf("world"), reflect.ValueOf(true)})
	if err != nil {
		t.Fatalf("GetMethod(Greet2/2): %v", err)
	}
	if m2 == nil || m2.Name != "Greet2" {
		t.Fatalf("GetMethod(Greet2/2) = %v, want Greet2", m2)
	}
}

func TestGetMethodMissReturnsNilNotError(t *testing.T) {
	ins := introspect.New(nil)
	rv := reflect.ValueOf(&Widget{})
	m, err := ins.GetMethod(rv, "NoSuchMethod", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m != nil {
		t.Errorf("GetMethod miss = %v, want nil", m)
	}
}

func TestGetFieldAndFieldNames(t *testing.T) {
	ins := introspect.New(nil)
	rv := reflect.ValueOf(&Widget{Public: "x"})
	f, ok := ins.GetField(rv, "Public")
	if !ok || f.Name != "Public" {
		t.Fatalf("GetField(Public) = %v, %v", f, ok)
	}
	if _, ok := ins.GetField(rv, "NoSuchField"); ok {
		t.Error("GetField of an undeclared field should miss")
	}
	names := ins.FieldNames(rv.Type())
	found := false
	for _, n := range names {
		if n == "Public" {
			found = true
		}
	}
	if !found {
		t.Errorf("FieldNames = %v, want it to include Public", names)
	}
}

func TestSetLoaderBumpsVersion(t *testing.T) {
	ins := introspect.New(nil)
	before := ins.Version()
	ins.SetLoader()
	if ins.Version() == before {
		t.Error("SetLoader should bump the version counter")
	}
}

func TestPermissionsAllowAll(t *testing.T) {
	p := introspect.AllowAll()
	typ := reflect.TypeOf(&Widget{})
	if !p.AllowMethod(typ, "Greet") {
		t.Error("AllowAll should permit every method")
	}
	if !p.AllowField(typ, "Secret") {
		t.Error("AllowAll should permit every field")
	}
}

func TestPermissionsClassAllowList(t *testing.T) {
	p, err := introspect.ParsePermissions(`
+Widget {
  Greet();
}
`)
	if err != nil {
		t.Fatalf("ParsePermissions: %v", err)
	}
	typ := reflect.TypeOf(&Widget{})
	if !p.AllowMethod(typ, "Greet") {
		t.Error("explicitly allow-listed method should be permitted")
	}
	if p.AllowMethod(typ, "Greet2") {
		t.Error("a method not on the allow-list should be denied")
	}
}

func TestPermissionsClassDenyList(t *testing.T) {
	p, err := introspect.ParsePermissions(`
-Widget {
  Secret;
}
`)
	if err != nil {
		t.Fatalf("ParsePermissions: %v", err)
	}
	typ := reflect.TypeOf(&Widget{})
	if p.AllowField(typ, "Secret") {
		t.Error("explicitly deny-listed field should be denied")
	}
}

func TestPermissionsNoneDeniesUnlistedTypes(t *testing.T) {
	p := introspect.AllowNone()
	typ := reflect.TypeOf(&Widget{})
	if p.AllowMethod(typ, "Greet") {
		t.Error("AllowNone should deny a type with no matching rule")
	}
}
