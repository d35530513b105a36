package interp

import (
	"fmt"

	"github.com/jexlang/jexl/internal/ast"
)

// The spec.md §7 error taxonomy. Every one carries the offending node's
// DebugInfo so a host can report source position; interp.go attaches this
// at the point of failure, not at construction, since errors often
// originate in a helper (values/uberspect) that has no Node to reference.

type baseError struct {
	Debug ast.DebugInfo
}

func (e baseError) location() string {
	if e.Debug.Source != "" {
		return fmt.Sprintf(" (%s:%d:%d)", e.Debug.Source, e.Debug.Line, e.Debug.Column)
	}
	if e.Debug.Line != 0 {
		return fmt.Sprintf(" (line %d, col %d)", e.Debug.Line, e.Debug.Column)
	}
	return ""
}

// NullOperandError wraps an arithmetic/property null-operand failure
// (spec.md §7 "NullOperand") under strict mode.
type NullOperandError struct {
	baseError
	Detail string
}

func (e *NullOperandError) Error() string { return "null operand" + e.location() + ": " + e.Detail }

// CoercionError wraps a failed type coercion (spec.md §7 "CoercionError").
type CoercionError struct {
	baseError
	Detail string
}

func (e *CoercionError) Error() string { return "coercion error" + e.location() + ": " + e.Detail }

// ArithmeticException wraps divide-by-zero and similar numeric failures.
type ArithmeticException struct {
	baseError
	Detail string
}

func (e *ArithmeticException) Error() string {
	return "arithmetic error" + e.location() + ": " + e.Detail
}

// PropertyError is raised when a property get/set cannot be resolved
// (spec.md §7 "PropertyError").
type PropertyError struct {
	baseError
	Name string
}

func (e *PropertyError) Error() string {
	return "unknown property " + e.Name + e.location()
}

// MethodError is raised when a method call cannot be resolved, including
// ambiguous-overload failures (spec.md §7 "MethodError"). Severity mirrors
// introspect.AmbiguousMethodError.Severity: false only when some actual
// argument is null and at most one of the tied overloads takes an
// empty-interface parameter at that position, true otherwise. It is
// meaningless when Ambiguous is false.
type MethodError struct {
	baseError
	Name      string
	Ambiguous bool
	Severity  bool
}

func (e *MethodError) Error() string {
	if e.Ambiguous {
		return "ambiguous method " + e.Name + e.location()
	}
	return "unknown method " + e.Name + e.location()
}

// VariableError is raised by a strict-mode reference to an undeclared
// variable (spec.md §7 "VariableError").
type VariableError struct {
	baseError
	Name string
}

func (e *VariableError) Error() string { return "undefined variable " + e.Name + e.location() }

// ContextError is raised when a write to a read-only or unsupported
// Context is attempted.
type ContextError struct {
	Name   string
	Reason string
}

func (e *ContextError) Error() string { return "context error for " + e.Name + ": " + e.Reason }

// ThrownByHost wraps a value thrown by a JEXL `throw` statement or
// propagated from a host call (spec.md §7 "ThrownByHost").
type ThrownByHost struct {
	baseError
	Value interface{}
}

func (e *ThrownByHost) Error() string { return fmt.Sprintf("thrown%s: %v", e.location(), e.Value) }

// CancelledError is raised when cooperative cancellation fires mid-script
// (spec.md §5 "Concurrency & Resource Model").
type CancelledError struct{ baseError }

func (e *CancelledError) Error() string { return "script evaluation cancelled" + e.location() }

// ParseErrorWrapped surfaces a front-end parse failure through the same
// error surface Engine callers expect.
type ParseErrorWrapped struct {
	Errs []error
}

func (e *ParseErrorWrapped) Error() string {
	if len(e.Errs) == 0 {
		return "parse error"
	}
	return e.Errs[0].Error()
}
