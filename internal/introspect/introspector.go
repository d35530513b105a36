// Package introspect implements C2: a class-keyed cache of reflective
// method/field discovery, most-specific overload resolution, and a
// permission filter, with class-loader-style invalidation (spec.md §4.2).
// Grounded on the reflect-based dispatch idiom shown across the pack's
// Go-interpreter examples (yaegi's interp.go, funxy's host_access.go:
// reflect.Value.MethodByName / FieldByName), generalized into the explicit
// applicability/specificity algorithm spec.md §4.2 spells out.
package introspect

import (
	"reflect"
	"sort"
	"sync"
	"sync/atomic"
)

// MethodKey is the (name, normalized actual-argument types) tuple used to
// key the per-class resolution cache (spec.md §3 "MethodKey").
type MethodKey struct {
	Name string
	Args string // joined, normalized type names; reflect.Type isn't comparable across packages the way we need for a map key text form
}

func makeKey(name string, argTypes []reflect.Type) MethodKey {
	s := ""
	for _, t := range argTypes {
		if t == nil {
			s += "<nil>,"
			continue
		}
		s += normalizeType(t).String() + ","
	}
	return MethodKey{Name: name, Args: s}
}

// normalizeType strips pointer indirection once, matching spec.md's
// "primitive→object normalization": Go has no primitive/boxed split, so
// normalization here collapses *T to T for matching purposes only (the
// actual reflect.Value used to invoke keeps its original indirection).
func normalizeType(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Ptr {
		return t.Elem()
	}
	return t
}

// cacheMiss is the negative-result sentinel (spec.md §4.2 "Cache").
type cacheMiss struct{}

var missSentinel = &cacheMiss{}

// Method is a cacheable resolved method executor.
type Method struct {
	Name      string
	Func      reflect.Value // unbound method value (receiver is first call arg via reflect.Method.Func, or bound via Value.Method)
	ParamsIn  []reflect.Type
	Variadic  bool
	NumOut    int
	Go        reflect.Method // original reflect.Method, for reference/diagnostics
}

// Field is a cacheable resolved struct field.
type Field struct {
	Name string
	Go   reflect.StructField
}

// ClassMap holds per-class discovery results (spec.md §3 "ClassMap").
type ClassMap struct {
	mu        sync.RWMutex
	methodsBy map[string][]*Method // by-name index, sorted by parameter count
	fields    map[string]*Field
	cache     map[MethodKey]interface{} // *Method | *cacheMiss
	loader    uint64                    // version snapshot when this ClassMap was built
}

func newClassMap(t reflect.Type, version uint64) *ClassMap {
	cm := &ClassMap{
		methodsBy: make(map[string][]*Method),
		fields:    make(map[string]*Field),
		cache:     make(map[MethodKey]interface{}),
		loader:    version,
	}
	cm.populate(t)
	return cm
}

func (cm *ClassMap) populate(t reflect.Type) {
	valueType := t
	if valueType.Kind() == reflect.Ptr {
		valueType = valueType.Elem()
	}
	// methods: both value and pointer method sets, de-duplicated by name
	// preferring the pointer receiver (covers both cases callers pass in).
	seen := map[string]bool{}
	collect := func(mt reflect.Type) {
		for i := 0; i < mt.NumMethod(); i++ {
			m := mt.Method(i)
			if !m.IsExported() {
				continue
			}
			if seen[m.Name] {
				continue
			}
			seen[m.Name] = true
			in := make([]reflect.Type, 0, m.Type.NumIn()-1)
			for j := 1; j < m.Type.NumIn(); j++ {
				in = append(in, m.Type.In(j))
			}
			method := &Method{
				Name:     m.Name,
				Func:     m.Func,
				ParamsIn: in,
				Variadic: m.Type.IsVariadic(),
				NumOut:   m.Type.NumOut(),
				Go:       m,
			}
			cm.methodsBy[m.Name] = append(cm.methodsBy[m.Name], method)
		}
	}
	if t.Kind() != reflect.Ptr {
		collect(reflect.PtrTo(t))
	} else {
		collect(t)
	}
	collect(valueType)

	if valueType.Kind() == reflect.Struct {
		for i := 0; i < valueType.NumField(); i++ {
			f := valueType.Field(i)
			if !f.IsExported() {
				continue
			}
			cm.fields[f.Name] = &Field{Name: f.Name, Go: f}
		}
	}
	for name := range cm.methodsBy {
		sort.SliceStable(cm.methodsBy[name], func(i, j int) bool {
			return len(cm.methodsBy[name][i].ParamsIn) < len(cm.methodsBy[name][j].ParamsIn)
		})
	}
}

// MethodNames returns every discovered method name, sorted (spec.md §4.2
// "method_names").
func (cm *ClassMap) MethodNames() []string {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	out := make([]string, 0, len(cm.methodsBy))
	for n := range cm.methodsBy {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// FieldNames returns every discovered field name, sorted.
func (cm *ClassMap) FieldNames() []string {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	out := make([]string, 0, len(cm.fields))
	for n := range cm.fields {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Introspector is the shared, thread-safe C2 service (spec.md §4.2, §5).
type Introspector struct {
	mu      sync.RWMutex
	classes map[reflect.Type]*ClassMap
	version uint64
	perms   *Permissions
}

// New creates an Introspector with the given Permissions (nil = allow all).
func New(perms *Permissions) *Introspector {
	if perms == nil {
		perms = AllowAll()
	}
	return &Introspector{classes: make(map[reflect.Type]*ClassMap), perms: perms}
}

// Version returns the current loader-version counter (spec.md §3 "Uberspect
// state"); Scripts snapshot this at creation and compare on execute.
func (ins *Introspector) Version() uint64 { return atomic.LoadUint64(&ins.version) }

// SetLoader bumps the version counter and evicts every cached ClassMap
// built under the previous version (spec.md §4.2 "Class-loader
// invalidation"). Go has no class-loader concept; "loader" here models
// whatever generation marker the host attaches to a batch of registered
// types (e.g. a plugin reload), passed by the caller bumping the counter.
func (ins *Introspector) SetLoader() uint64 {
	ins.mu.Lock()
	defer ins.mu.Unlock()
	atomic.AddUint64(&ins.version, 1)
	ins.classes = make(map[reflect.Type]*ClassMap)
	return ins.version
}

func (ins *Introspector) classMapFor(t reflect.Type) *ClassMap {
	ins.mu.RLock()
	cm, ok := ins.classes[t]
	ins.mu.RUnlock()
	if ok {
		return cm
	}
	ins.mu.Lock()
	defer ins.mu.Unlock()
	if cm, ok := ins.classes[t]; ok {
		return cm
	}
	cm = newClassMap(t, ins.Version())
	ins.classes[t] = cm
	return cm
}

// GetField resolves a public field by name (spec.md §4.2 "get_field").
func (ins *Introspector) GetField(v reflect.Value, name string) (*Field, bool) {
	t := v.Type()
	cm := ins.classMapFor(t)
	cm.mu.RLock()
	f, ok := cm.fields[name]
	cm.mu.RUnlock()
	if !ok || !ins.perms.AllowField(t, name) {
		return nil, false
	}
	return f, true
}

// MethodNames / FieldNames proxy to the class's ClassMap for a given type.
func (ins *Introspector) MethodNames(t reflect.Type) []string {
	return ins.classMapFor(t).MethodNames()
}

func (ins *Introspector) FieldNames(t reflect.Type) []string {
	return ins.classMapFor(t).FieldNames()
}
