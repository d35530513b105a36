package interp

import "github.com/jexlang/jexl/internal/values"

// controlKind tags a non-local exit produced while executing a statement.
// spec.md §9's redesign note steers break/continue/return away from the
// original implementation's exception-based control transfer: Go
// exceptions (panic/recover) have a real per-call overhead and obscure
// call stacks in host integration, so instead every statement-execution
// method returns (value, *control, error) and callers check control
// explicitly, the same explicit-outcome style funxy's evaluator uses for
// its own break/continue/return handling.
type controlKind int

const (
	ctrlNone controlKind = iota
	ctrlBreak
	ctrlContinue
	ctrlReturn
)

type control struct {
	kind  controlKind
	value values.Value // carried by ctrlReturn
}

var noControl = (*control)(nil)
