package rowset

import (
	"fmt"
	"maps"
	"reflect"
	"slices"

	"github.com/Iron-Ham/groupview/internal/errors"
)

// Field describes one named, typed field of a row.
type Field struct {
	Name string
	Type reflect.Type
}

// FieldAccessor reads and writes row fields by name.
type FieldAccessor interface {
	// Fields returns every field in display order.
	Fields() []Field
	// Field looks up a field by name.
	Field(name string) (Field, bool)
	// Get reads the value of field name from row.
	Get(row Row, name string) (any, error)
	// Set writes value into field name of row, converting it to the field type.
	Set(row Row, name string, value any) error
}

// StructAccessor exposes the exported fields of a struct type T. Rows must
// be *T.
type StructAccessor[T any] struct {
	fields []Field
	index  map[string][]int
}

// NewStructAccessor builds an accessor over the exported fields of T,
// including promoted fields of embedded structs.
func NewStructAccessor[T any]() *StructAccessor[T] {
	t := reflect.TypeFor[T]()
	a := &StructAccessor[T]{index: make(map[string][]int)}
	if t.Kind() != reflect.Struct {
		return a
	}
	for _, sf := range reflect.VisibleFields(t) {
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		if _, dup := a.index[sf.Name]; dup {
			continue
		}
		a.fields = append(a.fields, Field{Name: sf.Name, Type: sf.Type})
		a.index[sf.Name] = sf.Index
	}
	return a
}

// Fields returns the exported fields in declaration order.
func (a *StructAccessor[T]) Fields() []Field {
	return slices.Clone(a.fields)
}

// Field looks up a field by name.
func (a *StructAccessor[T]) Field(name string) (Field, bool) {
	for _, f := range a.fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (a *StructAccessor[T]) value(row Row, name string) (reflect.Value, error) {
	idx, ok := a.index[name]
	if !ok {
		return reflect.Value{}, errors.NewNotFoundError("field", name)
	}
	p, ok := row.(*T)
	if !ok || p == nil {
		return reflect.Value{}, errors.Wrapf(errors.ErrInvalidRow, "want *%s, got %T", reflect.TypeFor[T](), row)
	}
	v, err := reflect.ValueOf(p).Elem().FieldByIndexErr(idx)
	if err != nil {
		return reflect.Value{}, err
	}
	return v, nil
}

// Get reads field name from row.
func (a *StructAccessor[T]) Get(row Row, name string) (any, error) {
	v, err := a.value(row, name)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// Set writes value into field name of row.
func (a *StructAccessor[T]) Set(row Row, name string, value any) error {
	v, err := a.value(row, name)
	if err != nil {
		return err
	}
	converted, err := Coerce(value, v.Type())
	if err != nil {
		return errors.NewAccessorError(name, err)
	}
	if converted == nil {
		v.Set(reflect.Zero(v.Type()))
		return nil
	}
	v.Set(reflect.ValueOf(converted))
	return nil
}

// Record is a schema-driven row whose values live in a map.
type Record struct {
	values map[string]any
}

// NewRecord creates a record holding a copy of values.
func NewRecord(values map[string]any) *Record {
	return &Record{values: maps.Clone(values)}
}

// Value returns the raw stored value for name.
func (r *Record) Value(name string) any {
	return r.values[name]
}

// RecordAccessor exposes Record rows through a fixed schema.
type RecordAccessor struct {
	fields []Field
}

// NewRecordAccessor creates an accessor for records with the given schema.
func NewRecordAccessor(fields ...Field) *RecordAccessor {
	return &RecordAccessor{fields: slices.Clone(fields)}
}

// Fields returns the schema in order.
func (a *RecordAccessor) Fields() []Field {
	return slices.Clone(a.fields)
}

// Field looks up a schema field by name.
func (a *RecordAccessor) Field(name string) (Field, bool) {
	for _, f := range a.fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Get reads field name from row. Missing values are returned as nil.
func (a *RecordAccessor) Get(row Row, name string) (any, error) {
	rec, err := a.record(row, name)
	if err != nil {
		return nil, err
	}
	return rec.values[name], nil
}

// Set stores value in field name of row after coercing it to the schema type.
func (a *RecordAccessor) Set(row Row, name string, value any) error {
	rec, err := a.record(row, name)
	if err != nil {
		return err
	}
	f, _ := a.Field(name)
	if value == nil {
		rec.values[name] = nil
		return nil
	}
	converted, err := Coerce(value, f.Type)
	if err != nil {
		return errors.NewAccessorError(name, err)
	}
	if rec.values == nil {
		rec.values = make(map[string]any)
	}
	rec.values[name] = converted
	return nil
}

func (a *RecordAccessor) record(row Row, name string) (*Record, error) {
	if _, ok := a.Field(name); !ok {
		return nil, errors.NewNotFoundError("field", name)
	}
	rec, ok := row.(*Record)
	if !ok || rec == nil {
		return nil, errors.Wrap(errors.ErrInvalidRow, fmt.Sprintf("want *rowset.Record, got %T", row))
	}
	return rec, nil
}
