package rowset

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/cast"
)

var (
	timeType     = reflect.TypeFor[time.Time]()
	durationType = reflect.TypeFor[time.Duration]()
)

// schemaTypes maps dataset schema names to Go types.
var schemaTypes = map[string]reflect.Type{
	"string":   reflect.TypeFor[string](),
	"int":      reflect.TypeFor[int](),
	"float":    reflect.TypeFor[float64](),
	"bool":     reflect.TypeFor[bool](),
	"time":     timeType,
	"duration": durationType,
}

// TypeForName returns the Go type for a dataset schema type name.
func TypeForName(name string) (reflect.Type, bool) {
	t, ok := schemaTypes[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

// SchemaTypeNames returns the accepted schema type names.
func SchemaTypeNames() []string {
	return []string{"string", "int", "float", "bool", "time", "duration"}
}

// Coerce converts value to type t. A nil value yields the zero value of t.
// Pointer targets are filled by coercing to the element type first.
func Coerce(value any, t reflect.Type) (any, error) {
	if value == nil {
		return reflect.Zero(t).Interface(), nil
	}
	vt := reflect.TypeOf(value)
	if vt.AssignableTo(t) {
		return value, nil
	}

	if t.Kind() == reflect.Pointer {
		elem, err := Coerce(value, t.Elem())
		if err != nil {
			return nil, err
		}
		p := reflect.New(t.Elem())
		p.Elem().Set(reflect.ValueOf(elem))
		return p.Interface(), nil
	}

	var (
		out any
		err error
	)
	switch {
	case t == timeType:
		out, err = cast.ToTimeE(value)
	case t == durationType:
		out, err = cast.ToDurationE(value)
	default:
		switch t.Kind() {
		case reflect.String:
			out, err = cast.ToStringE(value)
		case reflect.Bool:
			out, err = cast.ToBoolE(value)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			out, err = cast.ToInt64E(value)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			out, err = cast.ToUint64E(value)
		case reflect.Float32, reflect.Float64:
			out, err = cast.ToFloat64E(value)
		default:
			if vt.ConvertibleTo(t) {
				return reflect.ValueOf(value).Convert(t).Interface(), nil
			}
			return nil, fmt.Errorf("cannot convert %T to %s", value, t)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("cannot convert %v to %s: %w", value, t, err)
	}
	return reflect.ValueOf(out).Convert(t).Interface(), nil
}
