// Package namespace implements the host-registered `ns:name(args)` function
// namespaces (spec.md §4.5 "Namespace functions", SPEC_FULL.md §B/§C):
// uuid, yaml, math, grpc and sql. Each namespace is a plain
// map[string]func([]values.Value) (values.Value, error) registered under a
// name; Registry.Call dispatches a namespace:name pair to it, the same
// "virtual package of builtins" shape funxy's internal/modules registers
// lib/uuid, lib/yaml, lib/grpc etc. under.
package namespace

import "github.com/jexlang/jexl/internal/values"

// Func is one namespace function body.
type Func func(args []values.Value) (values.Value, error)

// Registry is a FunctionRegistry (internal/interp.FunctionRegistry) backed
// by a table of named function namespaces.
type Registry struct {
	namespaces map[string]map[string]Func
}

// NewRegistry builds an empty Registry; callers Register namespaces into it.
func NewRegistry() *Registry {
	return &Registry{namespaces: make(map[string]map[string]Func)}
}

// Register adds one namespace's function table, overwriting any existing
// table for that namespace name.
func (r *Registry) Register(namespace string, fns map[string]Func) {
	r.namespaces[namespace] = fns
}

// Call implements internal/interp.FunctionRegistry. The bool result reports
// whether namespace:name was found at all, distinguishing "unknown
// function" from "function returned an error" for the caller's strict-mode
// handling.
func (r *Registry) Call(namespace, name string, args []values.Value) (values.Value, bool, error) {
	fns, ok := r.namespaces[namespace]
	if !ok {
		return nil, false, nil
	}
	fn, ok := fns[name]
	if !ok {
		return nil, false, nil
	}
	v, err := fn(args)
	return v, true, err
}

// Standard builds a Registry with every SPEC_FULL.md §B namespace
// registered under its default name. grpc and sql are wired in even though
// the underlying connection/driver is only reachable when the host process
// actually has network/database access — the functions themselves always
// exist, they simply error at call time without a reachable peer.
func Standard() *Registry {
	r := NewRegistry()
	r.Register("uuid", uuidFuncs())
	r.Register("yaml", yamlFuncs())
	r.Register("math", mathFuncs())
	r.Register("grpc", grpcFuncs())
	r.Register("sql", sqlFuncs())
	return r
}

func arg(args []values.Value, i int) values.Value {
	if i < len(args) {
		return args[i]
	}
	return values.NULL
}
