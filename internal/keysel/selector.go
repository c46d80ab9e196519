// Package keysel defines how a grouping key is derived from a row: by named
// field, by an arbitrary function, or by a textual transform over another
// selector.
package keysel

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/Iron-Ham/groupview/internal/compare"
	"github.com/Iron-Ham/groupview/internal/errors"
	"github.com/Iron-Ham/groupview/internal/rowset"
)

// NullText is how a null key is rendered in headers.
const NullText = "<Null>"

var stringType = reflect.TypeFor[string]()

// Kind is the variant of a Selector.
type Kind int

const (
	// KindProperty reads a named field through a field accessor.
	KindProperty Kind = iota
	// KindDelegate calls a function.
	KindDelegate
	// KindTransformed applies a textual transform to a base selector.
	KindTransformed
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindProperty:
		return "property"
	case KindDelegate:
		return "delegate"
	case KindTransformed:
		return "transformed"
	default:
		return "unknown"
	}
}

// Transform is the textual transform of a transformed selector.
type Transform int

const (
	// TransformText renders the base key as text.
	TransformText Transform = iota
	// TransformLeading keeps the first N characters of the base key's text.
	TransformLeading
)

// Func derives a key from a row.
type Func func(row rowset.Row) (any, error)

// Selector derives a grouping key from a row. Selectors are immutable.
type Selector struct {
	kind Kind
	name string

	// property
	field    rowset.Field
	accessor rowset.FieldAccessor

	// delegate
	fn        Func
	valueType reflect.Type
	deps      []string

	// transformed
	base      *Selector
	transform Transform
	letters   int
}

// Property selects the value of a named field. It fails when the accessor
// has no such field.
func Property(accessor rowset.FieldAccessor, field string) (*Selector, error) {
	f, ok := accessor.Field(field)
	if !ok {
		return nil, errors.NewNotFoundError("field", field)
	}
	return &Selector{
		kind:     KindProperty,
		name:     field,
		field:    f,
		accessor: accessor,
	}, nil
}

// DelegateOption configures a delegate selector.
type DelegateOption func(*Selector)

// WithValueType declares the type of the values fn returns.
func WithValueType(t reflect.Type) DelegateOption {
	return func(s *Selector) { s.valueType = t }
}

// DependsOn lists the fields whose change can alter the key.
func DependsOn(fields ...string) DelegateOption {
	return func(s *Selector) { s.deps = append(s.deps, fields...) }
}

// Delegate selects the key returned by fn. An empty name is reported as
// "delegate".
func Delegate(name string, fn Func, opts ...DelegateOption) *Selector {
	if name == "" {
		name = "delegate"
	}
	s := &Selector{kind: KindDelegate, name: name, fn: fn}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Transformed wraps base with a textual transform. Wrapping a transformed
// selector wraps its innermost base instead, so transforms never nest.
func Transformed(base *Selector, t Transform, letters int) *Selector {
	for base.kind == KindTransformed {
		base = base.base
	}
	if t == TransformLeading && letters < 1 {
		letters = 1
	}
	return &Selector{
		kind:      KindTransformed,
		name:      base.name,
		base:      base,
		transform: t,
		letters:   letters,
	}
}

// Text wraps base so that its keys are compared as text.
func Text(base *Selector) *Selector {
	return Transformed(base, TransformText, 0)
}

// LeadingLetters wraps base so that rows group by the first n characters of
// their key text.
func LeadingLetters(base *Selector, n int) *Selector {
	return Transformed(base, TransformLeading, n)
}

// Kind returns the selector variant.
func (s *Selector) Kind() Kind { return s.kind }

// Name returns the field name, delegate name or base name.
func (s *Selector) Name() string { return s.name }

// Base returns the wrapped selector of a transformed selector, or nil.
func (s *Selector) Base() *Selector { return s.base }

// Transform returns the transform and letter count of a transformed selector.
func (s *Selector) Transform() (Transform, int) { return s.transform, s.letters }

// Field returns the field name of a property selector, looking through
// transforms. It is empty for delegates.
func (s *Selector) Field() string {
	switch s.kind {
	case KindProperty:
		return s.field.Name
	case KindTransformed:
		return s.base.Field()
	}
	return ""
}

// ValueType returns the static type of the keys, or nil when unknown.
func (s *Selector) ValueType() reflect.Type {
	switch s.kind {
	case KindProperty:
		return s.field.Type
	case KindTransformed:
		return stringType
	}
	return s.valueType
}

// IsTextual reports whether keys are already strings.
func (s *Selector) IsTextual() bool {
	return s.ValueType() == stringType
}

// MatchesField reports whether a change to field can alter the key.
func (s *Selector) MatchesField(field string) bool {
	switch s.kind {
	case KindProperty:
		return s.field.Name == field
	case KindTransformed:
		return s.base.MatchesField(field)
	}
	if field == s.name {
		return true
	}
	for _, d := range s.deps {
		if d == field {
			return true
		}
	}
	return false
}

// Equal reports whether two selectors derive keys the same way. Delegates
// are equal only to themselves.
func (s *Selector) Equal(o *Selector) bool {
	if s == nil || o == nil {
		return s == o
	}
	if s.kind != o.kind {
		return false
	}
	switch s.kind {
	case KindProperty:
		return s.field.Name == o.field.Name && s.accessor == o.accessor
	case KindTransformed:
		return s.transform == o.transform && s.letters == o.letters && s.base.Equal(o.base)
	}
	return s == o
}

// String describes the selector.
func (s *Selector) String() string {
	switch s.kind {
	case KindTransformed:
		if s.transform == TransformLeading {
			return fmt.Sprintf("%s[:%d]", s.base, s.letters)
		}
		return fmt.Sprintf("text(%s)", s.base)
	case KindDelegate:
		return s.name + "()"
	}
	return s.name
}

// Key derives the key of row.
func (s *Selector) Key(row rowset.Row) (any, error) {
	switch s.kind {
	case KindProperty:
		return s.accessor.Get(row, s.field.Name)
	case KindDelegate:
		return s.fn(row)
	}

	v, err := s.base.Key(row)
	if err != nil {
		return nil, err
	}
	if compare.IsNull(v) {
		return nil, nil
	}
	text := FormatKey(v)
	if s.transform == TransformLeading {
		text = leading(text, s.letters)
	}
	return text, nil
}

// FormatKey renders a key for display. Null keys render as NullText.
func FormatKey(v any) string {
	if compare.IsNull(v) {
		return NullText
	}
	return compare.Text(v)
}

// leading returns the first n user-perceived characters of s.
func leading(s string, n int) string {
	var b strings.Builder
	g := uniseg.NewGraphemes(s)
	for i := 0; i < n && g.Next(); i++ {
		b.WriteString(g.Str())
	}
	return b.String()
}
