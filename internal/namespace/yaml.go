package namespace

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jexlang/jexl/internal/values"
)

// yamlFuncs wires gopkg.in/yaml.v3 into the `yaml:` namespace, the same
// library funxy's builtins_yaml.go uses for its lib/yaml virtual package
// (SPEC_FULL.md §A.3/§B); here the decoded tree becomes a JEXL Map/Array
// instead of a host Record/List.
func yamlFuncs() map[string]Func {
	return map[string]Func{
		"parse": yamlParse,
		"dump":  yamlDump,
	}
}

func yamlParse(args []values.Value) (values.Value, error) {
	src := values.ToGoString(arg(args, 0))
	var data interface{}
	if err := yaml.Unmarshal([]byte(src), &data); err != nil {
		return nil, fmt.Errorf("yaml:parse: %w", err)
	}
	return goYamlToValue(data), nil
}

func yamlDump(args []values.Value) (values.Value, error) {
	goVal := valueToYamlGo(arg(args, 0))
	out, err := yaml.Marshal(goVal)
	if err != nil {
		return nil, fmt.Errorf("yaml:dump: %w", err)
	}
	return values.Str(string(out)), nil
}

// goYamlToValue converts a decoded yaml.v3 tree (nil/bool/int/float64/string/
// []interface{}/map[string]interface{}) to a Value. yaml.v3 decodes mapping
// keys as strings by default, unlike encoding/json it also yields plain
// `int` rather than always float64 for integral scalars.
func goYamlToValue(v interface{}) values.Value {
	switch x := v.(type) {
	case nil:
		return values.NULL
	case bool:
		return values.Bool(x)
	case int:
		return values.Int64(x)
	case int64:
		return values.Int64(x)
	case float64:
		return values.Float64(x)
	case string:
		return values.Str(x)
	case []interface{}:
		elems := make([]values.Value, len(x))
		for i, e := range x {
			elems[i] = goYamlToValue(e)
		}
		return values.Array{Elems: elems}
	case map[string]interface{}:
		m := values.NewMap()
		for k, val := range x {
			m.Set(values.Str(k), goYamlToValue(val))
		}
		return m
	case map[interface{}]interface{}:
		m := values.NewMap()
		for k, val := range x {
			m.Set(goYamlToValue(k), goYamlToValue(val))
		}
		return m
	}
	return values.Str(fmt.Sprintf("%v", v))
}

// valueToYamlGo is goYamlToValue's inverse, producing a tree yaml.Marshal
// understands.
func valueToYamlGo(v values.Value) interface{} {
	switch x := v.(type) {
	case values.Null:
		return nil
	case values.Bool:
		return bool(x)
	case values.Int64:
		return int64(x)
	case values.Float64:
		return float64(x)
	case values.Str:
		return string(x)
	case values.Array:
		out := make([]interface{}, len(x.Elems))
		for i, e := range x.Elems {
			out[i] = valueToYamlGo(e)
		}
		return out
	case *values.Map:
		out := make(map[string]interface{}, x.Len())
		for _, k := range x.Keys() {
			val, _ := x.Get(k)
			out[values.ToGoString(k)] = valueToYamlGo(val)
		}
		return out
	case *values.Set:
		out := make([]interface{}, 0, x.Len())
		for _, e := range x.Elements() {
			out = append(out, valueToYamlGo(e))
		}
		return out
	}
	return v.String()
}
