package uberspect

import (
	"fmt"
	"math/big"
	"reflect"

	"github.com/jexlang/jexl/internal/values"
)

// ToValue exposes goToValue for callers outside this package (e.g. the
// interpreter's for-each, which needs to try lifting a native Go slice/map
// held inside an Object before falling back to the host iterator protocol).
func ToValue(v interface{}) (values.Value, error) { return goToValue(v) }

// goToValue lifts an arbitrary Go result from a reflective call into the
// Value model (spec.md §4.3 "Marshalling"), boxing anything without a
// direct Value representation as an Object.
func goToValue(v interface{}) (values.Value, error) {
	switch x := v.(type) {
	case nil:
		return values.NULL, nil
	case values.Value:
		return x, nil
	case bool:
		return values.Bool(x), nil
	case string:
		return values.Str(x), nil
	case int:
		return values.Int64(x), nil
	case int8:
		return values.Int64(x), nil
	case int16:
		return values.Int64(x), nil
	case int32:
		return values.Int64(x), nil
	case int64:
		return values.Int64(x), nil
	case uint:
		return values.Int64(x), nil
	case uint8:
		return values.Int64(x), nil
	case uint16:
		return values.Int64(x), nil
	case uint32:
		return values.Int64(x), nil
	case uint64:
		return values.Int64(x), nil
	case float32:
		return values.Float64(x), nil
	case float64:
		return values.Float64(x), nil
	case *big.Int:
		return values.BigInt{V: x}, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]values.Value, rv.Len())
		for i := range out {
			ev, err := goToValue(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			out[i] = ev
		}
		return values.Array{Elems: out}, nil
	case reflect.Map:
		m := values.NewMap()
		for _, k := range rv.MapKeys() {
			kv, err := goToValue(k.Interface())
			if err != nil {
				return nil, err
			}
			vv, err := goToValue(rv.MapIndex(k).Interface())
			if err != nil {
				return nil, err
			}
			m.Set(kv, vv)
		}
		return m, nil
	}
	return values.Object{Native: v}, nil
}

// valueToGo lowers a Value into a Go value suitable for a reflective call,
// converting toward target when given (an argument-resolution hint), or
// using the Value's natural Go representation otherwise.
func valueToGo(v values.Value, target reflect.Type) (reflect.Value, error) {
	switch x := v.(type) {
	case values.Null:
		if target != nil {
			return reflect.Zero(target), nil
		}
		return reflect.Zero(anyType), nil
	case values.Bool:
		return reflectConvert(reflect.ValueOf(bool(x)), target)
	case values.Str:
		return reflectConvert(reflect.ValueOf(string(x)), target)
	case values.Int64:
		if target != nil && target.Kind() != reflect.Int64 && isNumericKind(target.Kind()) {
			return reflect.ValueOf(int64(x)).Convert(target), nil
		}
		return reflectConvert(reflect.ValueOf(int64(x)), target)
	case values.Float64:
		if target != nil && isNumericKind(target.Kind()) {
			return reflect.ValueOf(float64(x)).Convert(target), nil
		}
		return reflectConvert(reflect.ValueOf(float64(x)), target)
	case values.BigInt:
		return reflectConvert(reflect.ValueOf(x.V), target)
	case values.BigDec:
		return reflectConvert(reflect.ValueOf(x.Float64()), target)
	case values.Object:
		return reflectConvert(reflect.ValueOf(x.Native), target)
	case values.Array:
		out := make([]interface{}, len(x.Elems))
		for i, e := range x.Elems {
			out[i] = e
		}
		return reflectConvert(reflect.ValueOf(out), target)
	}
	return reflect.Value{}, fmt.Errorf("cannot convert %s to a host argument", v.Kind())
}

var anyType = reflect.TypeOf((*interface{})(nil)).Elem()

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func reflectConvert(rv reflect.Value, target reflect.Type) (reflect.Value, error) {
	if target == nil || rv.Type() == target {
		return rv, nil
	}
	if rv.Type().ConvertibleTo(target) {
		return rv.Convert(target), nil
	}
	if target.Kind() == reflect.Interface {
		return rv, nil
	}
	return reflect.Value{}, fmt.Errorf("cannot convert %s to %s", rv.Type(), target)
}
