package namespace

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/jexlang/jexl/internal/values"
)

// uuidFuncs wires google/uuid into the `uuid:` namespace (SPEC_FULL.md §B).
// Every Script/Expression already carries its own uuid.UUID id (pkg/jexl);
// this namespace exposes the same library to script authors directly.
func uuidFuncs() map[string]Func {
	return map[string]Func{
		"v4":    uuidV4,
		"parse": uuidParse,
		"nil":   uuidNil,
	}
}

func uuidV4(args []values.Value) (values.Value, error) {
	return values.Str(uuid.New().String()), nil
}

func uuidParse(args []values.Value) (values.Value, error) {
	s := values.ToGoString(arg(args, 0))
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("uuid:parse: %w", err)
	}
	return values.Str(id.String()), nil
}

func uuidNil(args []values.Value) (values.Value, error) {
	return values.Str(uuid.Nil.String()), nil
}
