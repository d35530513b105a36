package introspect

import (
	"fmt"
	"reflect"
)

// AmbiguousMethodError reports that two or more overloads were equally
// applicable and equally specific (spec.md §4.2 "AmbiguousMethod").
// Severity is false when some actual argument is nil and at most one of
// the tied overloads takes an empty-interface parameter at that position (a
// "soft" ambiguity the caller may choose to tolerate); otherwise it is true.
type AmbiguousMethodError struct {
	Name     string
	Severity bool
	Members  []*Method
}

func (e *AmbiguousMethodError) Error() string {
	return fmt.Sprintf("ambiguous method %q: %d equally applicable overloads", e.Name, len(e.Members))
}

// GetMethod resolves the most specific applicable overload of name against
// the given actual argument values, using the per-class cache keyed by
// MethodKey (spec.md §4.2 "get_method"). A cache hit short-circuits the
// full applicability/specificity search; a miss populates the cache
// (including CACHE_MISS negative results) before returning. An ambiguity
// error is not cached, so a repeated lookup reports it again.
func (ins *Introspector) GetMethod(v reflect.Value, name string, args []reflect.Value) (*Method, error) {
	t := v.Type()
	if !ins.perms.AllowMethod(t, name) {
		return nil, nil
	}
	cm := ins.classMapFor(t)

	argTypes := make([]reflect.Type, len(args))
	for i, a := range args {
		if a.IsValid() {
			argTypes[i] = a.Type()
		}
	}
	key := makeKey(name, argTypes)

	cm.mu.RLock()
	cached, ok := cm.cache[key]
	cm.mu.RUnlock()
	if ok {
		if cached == missSentinel {
			return nil, nil
		}
		return cached.(*Method), nil
	}

	candidates := cm.methodsBy[name]
	m, err := resolveOverload(name, candidates, argTypes)

	if err == nil {
		cm.mu.Lock()
		if m == nil {
			cm.cache[key] = missSentinel
		} else {
			cm.cache[key] = m
		}
		cm.mu.Unlock()
	}

	return m, err
}

// resolveOverload runs spec.md §4.2's three-stage algorithm: applicability
// filter, reduction to the maximal (most-specific) subset, and ambiguity
// detection on ties.
func resolveOverload(name string, candidates []*Method, argTypes []reflect.Type) (*Method, error) {
	applicable := make([]*Method, 0, len(candidates))
	strictOK := make([]*Method, 0, len(candidates))
	for _, c := range candidates {
		if !applicableLoose(c, argTypes) {
			continue
		}
		applicable = append(applicable, c)
		if applicableStrict(c, argTypes) {
			strictOK = append(strictOK, c)
		}
	}
	// Prefer the strict (no widening, no boxing-style conversion) subset
	// when non-empty, matching JEXL's phase-1/phase-2 resolution strategy.
	pool := strictOK
	if len(pool) == 0 {
		pool = applicable
	}
	if len(pool) == 0 {
		return nil, nil
	}
	if len(pool) == 1 {
		return pool[0], nil
	}
	maximal := reduceToMostSpecific(pool)
	if len(maximal) == 1 {
		return maximal[0], nil
	}
	severe := true
	for i, at := range argTypes {
		if at != nil {
			continue
		}
		objs := 0
		for _, m := range maximal {
			if i < len(m.ParamsIn) && m.ParamsIn[i].Kind() == reflect.Interface && m.ParamsIn[i].NumMethod() == 0 {
				objs++
			}
		}
		if objs <= 1 {
			severe = false
		}
	}
	return nil, &AmbiguousMethodError{Name: name, Severity: severe, Members: maximal}
}

// applicableLoose reports whether formal parameters can accept argTypes
// under "loose invocation" conversion: exact match, assignability,
// interface satisfaction, any numeric conversion (narrowing included), or
// any other conversion Go's reflect.Type.ConvertibleTo accepts.
func applicableLoose(m *Method, argTypes []reflect.Type) bool {
	return applicable(m, argTypes, false)
}

// applicableStrict additionally forbids narrowing/boxing-style
// conversions: only exact match, assignability, or numeric widening.
func applicableStrict(m *Method, argTypes []reflect.Type) bool {
	return applicable(m, argTypes, true)
}

func applicable(m *Method, argTypes []reflect.Type, strict bool) bool {
	n := len(m.ParamsIn)
	if m.Variadic {
		if len(argTypes) < n-1 {
			return false
		}
	} else if len(argTypes) != n {
		return false
	}
	for i, at := range argTypes {
		var formal reflect.Type
		switch {
		case m.Variadic && i >= n-1:
			formal = m.ParamsIn[n-1].Elem()
		default:
			formal = m.ParamsIn[i]
		}
		if at == nil {
			// nil is assignable to anything except a non-pointer numeric/bool formal
			if isPrimitiveKind(formal.Kind()) {
				return false
			}
			continue
		}
		if !convertible(at, formal, strict) {
			return false
		}
	}
	return true
}

func isPrimitiveKind(k reflect.Kind) bool {
	switch k {
	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// numericRank orders Go's numeric kinds along a widening chain, the
// nearest equivalent we have to JEXL's int<long<float<double ladder
// (spec.md §4.2 "invocation convertibility").
var numericRank = map[reflect.Kind]int{
	reflect.Int8: 1, reflect.Uint8: 1, reflect.Int16: 2, reflect.Uint16: 2,
	reflect.Int32: 3, reflect.Uint32: 3, reflect.Int: 4, reflect.Uint: 4,
	reflect.Int64: 5, reflect.Uint64: 5, reflect.Float32: 6, reflect.Float64: 7,
}

func convertible(actual, formal reflect.Type, strict bool) bool {
	if actual == formal {
		return true
	}
	if actual.AssignableTo(formal) {
		return true
	}
	if formal.Kind() == reflect.Interface && actual.Implements(formal) {
		return true
	}
	if formal.Kind() == reflect.Interface && formal.NumMethod() == 0 {
		return true // formal is `any`
	}
	ar, aok := numericRank[actual.Kind()]
	fr, fok := numericRank[formal.Kind()]
	if aok && fok {
		if strict {
			return ar <= fr
		}
		return true // loose invocation permits numeric narrowing too
	}
	if !strict && actual.ConvertibleTo(formal) {
		return true
	}
	return false
}

// reduceToMostSpecific implements spec.md §4.2's partial order: m1 is more
// specific than m2 if every one of m1's formal parameter types is
// assignable to the corresponding parameter of m2. The maximal elements
// (those no other candidate is more specific than) are returned; more than
// one maximal element signals ambiguity.
func reduceToMostSpecific(pool []*Method) []*Method {
	moreSpecific := func(a, b *Method) bool {
		if len(a.ParamsIn) != len(b.ParamsIn) {
			return len(a.ParamsIn) < len(b.ParamsIn)
		}
		for i := range a.ParamsIn {
			if !a.ParamsIn[i].AssignableTo(b.ParamsIn[i]) && a.ParamsIn[i] != b.ParamsIn[i] {
				if !convertible(a.ParamsIn[i], b.ParamsIn[i], true) {
					return false
				}
			}
		}
		return true
	}
	maximal := make([]*Method, 0, 1)
	for _, cand := range pool {
		dominated := false
		for _, other := range pool {
			if other == cand {
				continue
			}
			if moreSpecific(other, cand) && !moreSpecific(cand, other) {
				dominated = true
				break
			}
		}
		if !dominated {
			maximal = append(maximal, cand)
		}
	}
	if len(maximal) == 0 {
		return pool
	}
	return maximal
}
