package main

import (
	"strings"

	"github.com/jexlang/jexl/internal/values"
)

// parseVarAssignments turns repeated `--var name=value` flags into a
// Context seed map. Every value is taken as a JEXL string literal — a CLI
// convenience, not a parser invocation. With `--var 'n=1'`, `n + 0` is 1
// only under --strict, where arithmetic parses numeric strings; in the
// default lenient mode `+` with a string operand concatenates ("10").
func parseVarAssignments(assignments []string) map[string]values.Value {
	out := make(map[string]values.Value, len(assignments))
	for _, a := range assignments {
		name, val, ok := strings.Cut(a, "=")
		if !ok {
			continue
		}
		out[name] = values.Str(val)
	}
	return out
}
