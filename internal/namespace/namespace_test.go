package namespace

import (
	"testing"

	"github.com/jexlang/jexl/internal/values"
)

func callNS(t *testing.T, ns, name string, args ...values.Value) values.Value {
	t.Helper()
	r := Standard()
	v, found, err := r.Call(ns, name, args)
	if !found {
		t.Fatalf("%s:%s not found", ns, name)
	}
	if err != nil {
		t.Fatalf("%s:%s: %v", ns, name, err)
	}
	return v
}

func TestRegistryUnknownNamespaceAndFunc(t *testing.T) {
	r := Standard()
	if _, found, _ := r.Call("nope", "x", nil); found {
		t.Error("unknown namespace should report not found")
	}
	if _, found, _ := r.Call("math", "nope", nil); found {
		t.Error("unknown function should report not found")
	}
}

func TestUUIDFuncs(t *testing.T) {
	v4 := callNS(t, "uuid", "v4").String()
	if len(v4) != 36 {
		t.Errorf("uuid:v4 = %q, want a 36-char UUID string", v4)
	}
	if got := callNS(t, "uuid", "nil").String(); got != "00000000-0000-0000-0000-000000000000" {
		t.Errorf("uuid:nil = %q", got)
	}
	parsed := callNS(t, "uuid", "parse", values.Str(v4)).String()
	if parsed != v4 {
		t.Errorf("uuid:parse roundtrip = %q, want %q", parsed, v4)
	}

	r := Standard()
	if _, _, err := r.Call("uuid", "parse", []values.Value{values.Str("not-a-uuid")}); err == nil {
		t.Error("uuid:parse of garbage should error")
	}
}

func TestMathFuncs(t *testing.T) {
	cases := []struct {
		fn   string
		args []values.Value
		want string
	}{
		{"abs", []values.Value{values.Float64(-3.5)}, "3.5"},
		{"sqrt", []values.Value{values.Int64(9)}, "3.0"},
		{"floor", []values.Value{values.Float64(3.7)}, "3.0"},
		{"ceil", []values.Value{values.Float64(3.2)}, "4.0"},
		{"round", []values.Value{values.Float64(3.5)}, "4.0"},
		{"exp", []values.Value{values.Int64(0)}, "1.0"},
		{"min", []values.Value{values.Int64(2), values.Int64(5)}, "2.0"},
		{"max", []values.Value{values.Int64(2), values.Int64(5)}, "5.0"},
		{"pow", []values.Value{values.Int64(2), values.Int64(5)}, "32.0"},
	}
	for _, c := range cases {
		if got := callNS(t, "math", c.fn, c.args...).String(); got != c.want {
			t.Errorf("math:%s(%v) = %s, want %s", c.fn, c.args, got, c.want)
		}
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	src := "name: jexl\ncount: 3\ntags:\n  - a\n  - b\n"
	parsed := callNS(t, "yaml", "parse", values.Str(src))
	m, ok := parsed.(*values.Map)
	if !ok {
		t.Fatalf("yaml:parse did not return a Map, got %T", parsed)
	}
	name, ok := m.Get(values.Str("name"))
	if !ok || name.String() != "jexl" {
		t.Errorf("parsed name = %v, want jexl", name)
	}
	count, ok := m.Get(values.Str("count"))
	if !ok || count.String() != "3" {
		t.Errorf("parsed count = %v, want 3", count)
	}
	tags, ok := m.Get(values.Str("tags"))
	if !ok {
		t.Fatal("parsed tags missing")
	}
	arr, ok := tags.(values.Array)
	if !ok || len(arr.Elems) != 2 {
		t.Fatalf("parsed tags = %v, want a 2-element array", tags)
	}

	dumped := callNS(t, "yaml", "dump", m).String()
	reparsed := callNS(t, "yaml", "parse", values.Str(dumped))
	m2, ok := reparsed.(*values.Map)
	if !ok {
		t.Fatalf("dump/parse roundtrip did not return a Map, got %T", reparsed)
	}
	if n2, _ := m2.Get(values.Str("name")); n2.String() != "jexl" {
		t.Errorf("roundtripped name = %v, want jexl", n2)
	}
}

func TestYAMLParseInvalid(t *testing.T) {
	r := Standard()
	if _, _, err := r.Call("yaml", "parse", []values.Value{values.Str("a: [unterminated")}); err == nil {
		t.Error("yaml:parse of malformed input should error")
	}
}
