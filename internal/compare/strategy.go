package compare

import (
	"fmt"
	"hash/maphash"
	"math"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cast"
	"golang.org/x/text/collate"
)

// Strategy orders and equates the values of one resolved type pair.
// Implementations must tolerate values of an unexpected type by falling back
// to textual comparison.
type Strategy interface {
	// Name identifies the strategy in logs and tests.
	Name() string
	// Compare returns a negative number, zero or a positive number.
	Compare(a, b any) int
	// Equal reports whether a and b are equal under this strategy.
	Equal(a, b any) bool
}

// Hasher is implemented by strategies with a hash consistent with Equal.
type Hasher interface {
	Hash(v any) uint64
}

// Comparable is the untyped ordering capability. Values that implement it
// order themselves against any other value.
type Comparable interface {
	Compare(other any) int
}

// Text renders v as a string for textual comparison and display. Pointers
// are followed and nil values render as the empty string.
func Text(v any) string {
	v = deref(v)
	if v == nil {
		return ""
	}
	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return rv.String()
	}
	return fmt.Sprint(v)
}

// IsNull reports whether v is nil or a nil pointer, map, slice, interface,
// channel or function.
func IsNull(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan, reflect.Func:
		return rv.IsNil()
	}
	return false
}

// deref follows pointers to the pointed-to value. Nil pointers yield nil.
func deref(v any) any {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer {
		return v
	}
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	return rv.Interface()
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

// -----------------------------------------------------------------------------
// Text
// -----------------------------------------------------------------------------

type textStrategy struct {
	name     string
	seed     maphash.Seed
	mu       sync.Mutex
	collator *collate.Collator
}

func (s *textStrategy) Name() string { return s.name }

func (s *textStrategy) Compare(a, b any) int {
	sa, sb := Text(a), Text(b)
	if s.collator != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.collator.CompareString(sa, sb)
	}
	return strings.Compare(sa, sb)
}

func (s *textStrategy) Equal(a, b any) bool {
	return Text(a) == Text(b)
}

func (s *textStrategy) Hash(v any) uint64 {
	return maphash.String(s.seed, Text(v))
}

// -----------------------------------------------------------------------------
// Numeric
// -----------------------------------------------------------------------------

type numKind int

const (
	numSigned numKind = iota
	numUnsigned
	numFloat
)

type number struct {
	kind numKind
	i    int64
	u    uint64
	f    float64
}

func (n number) float() float64 {
	switch n.kind {
	case numSigned:
		return float64(n.i)
	case numUnsigned:
		return float64(n.u)
	}
	return n.f
}

// toNumber reads a numeric value. Built-in numeric types are read through
// cast; named types with a numeric kind are converted by kind first.
func toNumber(v any) (number, bool) {
	v = deref(v)
	switch v.(type) {
	case int, int8, int16, int32, int64:
		i, err := cast.ToInt64E(v)
		return number{kind: numSigned, i: i}, err == nil
	case uint, uint8, uint16, uint32, uint64:
		u, err := cast.ToUint64E(v)
		return number{kind: numUnsigned, u: u}, err == nil
	case float32, float64:
		f, err := cast.ToFloat64E(v)
		return number{kind: numFloat, f: f}, err == nil
	case nil:
		return number{}, false
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return number{kind: numSigned, i: rv.Int()}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return number{kind: numUnsigned, u: rv.Uint()}, true
	case reflect.Float32, reflect.Float64:
		return number{kind: numFloat, f: rv.Float()}, true
	}
	return number{}, false
}

func compareNumbers(a, b number) int {
	switch {
	case a.kind == numSigned && b.kind == numSigned:
		return compareOrdered(a.i, b.i)
	case a.kind == numUnsigned && b.kind == numUnsigned:
		return compareOrdered(a.u, b.u)
	case a.kind == numSigned && b.kind == numUnsigned:
		if a.i < 0 {
			return -1
		}
		return compareOrdered(uint64(a.i), b.u)
	case a.kind == numUnsigned && b.kind == numSigned:
		if b.i < 0 {
			return 1
		}
		return compareOrdered(a.u, uint64(b.i))
	}
	return compareFloat64s(a.float(), b.float())
}

func compareOrdered[T int64 | uint64 | string](a, b T) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// compareFloat64s orders NaN after every other value and equal to itself.
func compareFloat64s(a, b float64) int {
	aNaN := math.IsNaN(a)
	bNaN := math.IsNaN(b)

	if aNaN && bNaN {
		return 0
	}
	if aNaN {
		return 1
	}
	if bNaN {
		return -1
	}

	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

type numericStrategy struct {
	seed     maphash.Seed
	fallback Strategy
}

func (s *numericStrategy) Name() string { return "numeric" }

func (s *numericStrategy) Compare(a, b any) int {
	na, okA := toNumber(a)
	nb, okB := toNumber(b)
	if !okA || !okB {
		return s.fallback.Compare(a, b)
	}
	return compareNumbers(na, nb)
}

func (s *numericStrategy) Equal(a, b any) bool {
	na, okA := toNumber(a)
	nb, okB := toNumber(b)
	if !okA || !okB {
		return s.fallback.Equal(a, b)
	}
	return compareNumbers(na, nb) == 0
}

func (s *numericStrategy) Hash(v any) uint64 {
	n, ok := toNumber(v)
	if !ok {
		return s.fallback.(Hasher).Hash(v)
	}
	f := n.float()
	switch {
	case math.IsNaN(f):
		f = math.NaN()
	case f == 0:
		f = 0
	}
	return maphash.Comparable(s.seed, math.Float64bits(f))
}

// -----------------------------------------------------------------------------
// Temporal and boolean
// -----------------------------------------------------------------------------

type temporalStrategy struct {
	seed     maphash.Seed
	fallback Strategy
}

func (s *temporalStrategy) Name() string { return "temporal" }

func toTime(v any) (time.Time, bool) {
	t, ok := deref(v).(time.Time)
	return t, ok
}

func (s *temporalStrategy) Compare(a, b any) int {
	ta, okA := toTime(a)
	tb, okB := toTime(b)
	if !okA || !okB {
		return s.fallback.Compare(a, b)
	}
	return ta.Compare(tb)
}

func (s *temporalStrategy) Equal(a, b any) bool {
	ta, okA := toTime(a)
	tb, okB := toTime(b)
	if !okA || !okB {
		return s.fallback.Equal(a, b)
	}
	return ta.Equal(tb)
}

func (s *temporalStrategy) Hash(v any) uint64 {
	t, ok := toTime(v)
	if !ok {
		return s.fallback.(Hasher).Hash(v)
	}
	return maphash.Comparable(s.seed, t.UnixNano())
}

type boolStrategy struct {
	fallback Strategy
}

func (s *boolStrategy) Name() string { return "bool" }

func toBool(v any) (bool, bool) {
	rv := reflect.ValueOf(deref(v))
	if !rv.IsValid() || rv.Kind() != reflect.Bool {
		return false, false
	}
	return rv.Bool(), true
}

// compareBools orders false before true.
func compareBools(a, b bool) int {
	if a == b {
		return 0
	}
	if !a && b {
		return -1
	}
	return 1
}

func (s *boolStrategy) Compare(a, b any) int {
	ba, okA := toBool(a)
	bb, okB := toBool(b)
	if !okA || !okB {
		return s.fallback.Compare(a, b)
	}
	return compareBools(ba, bb)
}

func (s *boolStrategy) Equal(a, b any) bool {
	ba, okA := toBool(a)
	bb, okB := toBool(b)
	if !okA || !okB {
		return s.fallback.Equal(a, b)
	}
	return ba == bb
}

func (s *boolStrategy) Hash(v any) uint64 {
	if b, ok := toBool(v); ok {
		if b {
			return 1
		}
		return 0
	}
	return s.fallback.(Hasher).Hash(v)
}

// -----------------------------------------------------------------------------
// Method-based strategies
// -----------------------------------------------------------------------------

// valueAs converts v to a reflect.Value of type t, following pointers and
// converting between a named type and its underlying kind.
func valueAs(v any, t reflect.Type) (reflect.Value, bool) {
	rv := reflect.ValueOf(v)
	for rv.IsValid() {
		if rv.Type().AssignableTo(t) {
			return rv, true
		}
		if rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				return reflect.Value{}, false
			}
			rv = rv.Elem()
			continue
		}
		if rv.Kind() == t.Kind() && rv.Type().ConvertibleTo(t) {
			return rv.Convert(t), true
		}
		break
	}
	return reflect.Value{}, false
}

// typedCompareStrategy calls a strongly typed Compare(T) int method.
type typedCompareStrategy struct {
	method   reflect.Method
	recv     reflect.Type
	param    reflect.Type
	fallback Strategy
}

func (s *typedCompareStrategy) Name() string { return "typed" }

func (s *typedCompareStrategy) Compare(a, b any) int {
	ra, okA := valueAs(a, s.recv)
	rb, okB := valueAs(b, s.param)
	if !okA || !okB {
		return s.fallback.Compare(a, b)
	}
	return sign(int(s.method.Func.Call([]reflect.Value{ra, rb})[0].Int()))
}

func (s *typedCompareStrategy) Equal(a, b any) bool {
	return s.Compare(a, b) == 0
}

// equalityStrategy calls a strongly typed Equal(T) bool method. Values are
// never ordered: unequal values fall back to textual order.
type equalityStrategy struct {
	method   reflect.Method
	recv     reflect.Type
	param    reflect.Type
	fallback Strategy
}

func (s *equalityStrategy) Name() string { return "equality" }

func (s *equalityStrategy) Equal(a, b any) bool {
	ra, okA := valueAs(a, s.recv)
	rb, okB := valueAs(b, s.param)
	if !okA || !okB {
		return s.fallback.Equal(a, b)
	}
	return s.method.Func.Call([]reflect.Value{ra, rb})[0].Bool()
}

func (s *equalityStrategy) Compare(a, b any) int {
	if s.Equal(a, b) {
		return 0
	}
	return s.fallback.Compare(a, b)
}

// orderedStrategy uses the untyped Comparable capability.
type orderedStrategy struct {
	fallback Strategy
}

func (s *orderedStrategy) Name() string { return "ordered" }

func asComparable(v any) (Comparable, bool) {
	if c, ok := v.(Comparable); ok {
		return c, true
	}
	c, ok := deref(v).(Comparable)
	return c, ok
}

func (s *orderedStrategy) Compare(a, b any) int {
	ca, ok := asComparable(a)
	if !ok {
		return s.fallback.Compare(a, b)
	}
	return sign(ca.Compare(b))
}

func (s *orderedStrategy) Equal(a, b any) bool {
	return s.Compare(a, b) == 0
}

// -----------------------------------------------------------------------------
// Custom
// -----------------------------------------------------------------------------

type funcStrategy struct {
	name    string
	compare func(a, b any) int
	equal   func(a, b any) bool
}

// Func builds a Strategy from plain functions. When equal is nil, values are
// equal when compare returns zero.
func Func(name string, compare func(a, b any) int, equal func(a, b any) bool) Strategy {
	if equal == nil {
		equal = func(a, b any) bool { return compare(a, b) == 0 }
	}
	return &funcStrategy{name: name, compare: compare, equal: equal}
}

func (s *funcStrategy) Name() string         { return s.name }
func (s *funcStrategy) Compare(a, b any) int { return s.compare(a, b) }
func (s *funcStrategy) Equal(a, b any) bool  { return s.equal(a, b) }
