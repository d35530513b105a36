package uberspect_test

import (
	"testing"

	"github.com/jexlang/jexl/internal/introspect"
	"github.com/jexlang/jexl/internal/uberspect"
	"github.com/jexlang/jexl/internal/values"
)

type Person struct {
	Count int
}

func (p *Person) GetName() string        { return "avery" }
func (p *Person) Greet(who string) string { return "hi " + who }

type Bag struct {
	data map[string]values.Value
}

func (b *Bag) Get(key string) values.Value {
	if v, ok := b.data[key]; ok {
		return v
	}
	return values.NULL
}

type adaptedRow struct {
	vals map[string]values.Value
}

func (r *adaptedRow) JexlProperty(name string) (values.Value, bool) {
	v, ok := r.vals[name]
	return v, ok
}

func newUber() *uberspect.Uberspect {
	return uberspect.New(introspect.New(nil))
}

func TestPropertyGetMapAndArray(t *testing.T) {
	u := newUber()

	m := values.NewMap()
	m.Set(values.Str("x"), values.Int64(1))
	v, err := u.PropertyGet(m, values.Str("x"))
	if err != nil || v.String() != "1" {
		t.Fatalf("map property get = %v, %v", v, err)
	}

	arr := values.Array{Elems: []values.Value{values.Int64(10), values.Int64(20)}}
	v, err = u.PropertyGet(arr, values.Int64(1))
	if err != nil || v.String() != "20" {
		t.Fatalf("array property get = %v, %v", v, err)
	}

	if _, err := u.PropertyGet(arr, values.Int64(5)); err == nil {
		t.Error("out-of-bounds array index should error")
	}
}

func TestPropertyGetBeanGetter(t *testing.T) {
	u := newUber()
	obj := values.Object{Native: &Person{Count: 5}}
	v, err := u.PropertyGet(obj, values.Str("name"))
	if err != nil {
		t.Fatalf("bean getter: %v", err)
	}
	if v.String() != "avery" {
		t.Errorf("name = %s, want avery", v.String())
	}
}

func TestPropertyGetPublicField(t *testing.T) {
	u := newUber()
	obj := values.Object{Native: &Person{Count: 5}}
	v, err := u.PropertyGet(obj, values.Str("count"))
	if err != nil {
		t.Fatalf("field get: %v", err)
	}
	if v.String() != "5" {
		t.Errorf("count = %s, want 5", v.String())
	}
}

func TestPropertyGetDuckTyping(t *testing.T) {
	u := newUber()
	obj := values.Object{Native: &Bag{data: map[string]values.Value{"k": values.Str("v")}}}
	v, err := u.PropertyGet(obj, values.Str("k"))
	if err != nil {
		t.Fatalf("duck get: %v", err)
	}
	if v.String() != "v" {
		t.Errorf("k = %s, want v", v.String())
	}
}

func TestPropertyGetIndexedContainer(t *testing.T) {
	u := newUber()
	obj := values.Object{Native: []int{10, 20, 30}}
	v, err := u.PropertyGet(obj, values.Int64(1))
	if err != nil {
		t.Fatalf("indexed container get: %v", err)
	}
	if v.String() != "20" {
		t.Errorf("index 1 = %s, want 20", v.String())
	}
}

func TestPropertyGetPropertyByNameShortCircuits(t *testing.T) {
	u := newUber()
	obj := values.Object{Native: &adaptedRow{vals: map[string]values.Value{"col": values.Int64(42)}}}
	v, err := u.PropertyGet(obj, values.Str("col"))
	if err != nil {
		t.Fatalf("adapted property get: %v", err)
	}
	if v.String() != "42" {
		t.Errorf("col = %s, want 42", v.String())
	}
	if _, err := u.PropertyGet(obj, values.Str("missing")); err == nil {
		t.Error("a PropertyByName miss should not fall through to reflection")
	}
}

func TestPropertySetField(t *testing.T) {
	u := newUber()
	p := &Person{Count: 1}
	obj := values.Object{Native: p}
	if err := u.PropertySet(obj, values.Str("count"), values.Int64(9)); err != nil {
		t.Fatalf("property set: %v", err)
	}
	if p.Count != 9 {
		t.Errorf("Count = %d, want 9", p.Count)
	}
}

func TestPropertyNotFound(t *testing.T) {
	u := newUber()
	obj := values.Object{Native: &Person{}}
	if _, err := u.PropertyGet(obj, values.Str("nope")); err == nil {
		t.Error("unresolvable property should error")
	}
}

func TestMethodCall(t *testing.T) {
	u := newUber()
	obj := values.Object{Native: &Person{}}
	v, err := u.MethodCall(obj, "Greet", []values.Value{values.Str("world")})
	if err != nil {
		t.Fatalf("method call: %v", err)
	}
	if v.String() != "hi world" {
		t.Errorf("Greet = %s, want 'hi world'", v.String())
	}
}

func TestMethodCallNotFound(t *testing.T) {
	u := newUber()
	obj := values.Object{Native: &Person{}}
	if _, err := u.MethodCall(obj, "NoSuchMethod", nil); err == nil {
		t.Error("calling an undefined method should error")
	}
}
