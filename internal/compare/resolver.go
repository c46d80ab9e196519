package compare

import (
	"hash/maphash"
	"reflect"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var (
	stringType     = reflect.TypeFor[string]()
	timeType       = reflect.TypeFor[time.Time]()
	comparableType = reflect.TypeFor[Comparable]()
)

// predeclared maps each basic kind to its predeclared type, the base of any
// named type with that underlying kind.
var predeclared = map[reflect.Kind]reflect.Type{
	reflect.Bool:    reflect.TypeFor[bool](),
	reflect.Int:     reflect.TypeFor[int](),
	reflect.Int8:    reflect.TypeFor[int8](),
	reflect.Int16:   reflect.TypeFor[int16](),
	reflect.Int32:   reflect.TypeFor[int32](),
	reflect.Int64:   reflect.TypeFor[int64](),
	reflect.Uint:    reflect.TypeFor[uint](),
	reflect.Uint8:   reflect.TypeFor[uint8](),
	reflect.Uint16:  reflect.TypeFor[uint16](),
	reflect.Uint32:  reflect.TypeFor[uint32](),
	reflect.Uint64:  reflect.TypeFor[uint64](),
	reflect.Uintptr: reflect.TypeFor[uintptr](),
	reflect.Float32: reflect.TypeFor[float32](),
	reflect.Float64: reflect.TypeFor[float64](),
	reflect.String:  stringType,
}

type typePair struct {
	from, to reflect.Type
}

// Resolver selects and caches comparison strategies per type pair. The
// resolution order for a type T compared against a target type U is:
//
//  1. a strategy registered for T
//  2. lexical order when T and U are both string
//  3. a typed method T.Compare(U) int
//  4. a typed method T.Equal(U) bool (equality only)
//  5. the untyped Comparable capability
//  6. the built-in strategy for a predeclared numeric, boolean or string type
//
// Steps 1 and 3 to 6 run first on T with one pointer level removed and then
// on each base type of T in turn. When nothing matches, values are compared
// by their textual form.
//
// A Resolver is safe for concurrent use.
type Resolver struct {
	mu     sync.RWMutex
	cache  map[typePair]Strategy
	custom map[reflect.Type]Strategy

	seed     maphash.Seed
	text     *textStrategy
	fallback *textStrategy
	numeric  *numericStrategy
	boolean  *boolStrategy
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCollation orders text with the collation rules of tag instead of
// byte-wise comparison.
func WithCollation(tag language.Tag) Option {
	return func(r *Resolver) {
		r.text.collator = collate.New(tag)
	}
}

// WithStrategy registers s for values of type t.
func WithStrategy(t reflect.Type, s Strategy) Option {
	return func(r *Resolver) {
		r.custom[t] = s
	}
}

// NewResolver creates a resolver with the built-in strategies.
func NewResolver(opts ...Option) *Resolver {
	seed := maphash.MakeSeed()
	fallback := &textStrategy{name: "fallback", seed: seed}
	r := &Resolver{
		cache:    make(map[typePair]Strategy),
		custom:   make(map[reflect.Type]Strategy),
		seed:     seed,
		text:     &textStrategy{name: "text", seed: seed},
		fallback: fallback,
		numeric:  &numericStrategy{seed: seed, fallback: fallback},
		boolean:  &boolStrategy{fallback: fallback},
	}
	r.custom[timeType] = &temporalStrategy{seed: seed, fallback: fallback}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var (
	defaultOnce     sync.Once
	defaultResolver *Resolver
)

// Default returns a shared resolver with byte-wise text ordering.
func Default() *Resolver {
	defaultOnce.Do(func() {
		defaultResolver = NewResolver()
	})
	return defaultResolver
}

// Register adds or replaces the strategy for values of type t.
func (r *Resolver) Register(t reflect.Type, s Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.custom[t] = s
	clear(r.cache)
}

// Text returns the text strategy.
func (r *Resolver) Text() Strategy {
	return r.text
}

// Fallback returns the textual fallback strategy.
func (r *Resolver) Fallback() Strategy {
	return r.fallback
}

// Resolve returns the strategy for comparing values of type from against
// values of type to. A nil to means the same as from.
func (r *Resolver) Resolve(from, to reflect.Type) Strategy {
	if from == nil {
		return r.fallback
	}
	if to == nil {
		to = from
	}
	key := typePair{from: from, to: to}

	r.mu.RLock()
	s, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return s
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.cache[key]; ok {
		return s
	}
	s = r.resolve(from, to)
	r.cache[key] = s
	return s
}

func (r *Resolver) resolve(from, to reflect.Type) Strategy {
	if s, ok := r.custom[from]; ok {
		return s
	}
	if from == stringType && to == stringType {
		return r.text
	}

	targets := lineage(to)
	for _, t := range lineage(from) {
		if s, ok := r.custom[t]; ok {
			return s
		}
		if t.Kind() == reflect.Interface {
			continue
		}
		if s := r.typedCompare(t, targets); s != nil {
			return s
		}
		if s := r.typedEqual(t, targets); s != nil {
			return s
		}
		if t.Implements(comparableType) || reflect.PointerTo(t).Implements(comparableType) {
			return &orderedStrategy{fallback: r.fallback}
		}
		if s := r.builtin(t); s != nil {
			return s
		}
	}
	return r.fallback
}

// lineage returns t with one pointer level removed, followed by its base
// types.
func lineage(t reflect.Type) []reflect.Type {
	var out []reflect.Type
	for t != nil {
		if t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		out = append(out, t)
		t = baseOf(t)
	}
	return out
}

// baseOf returns the predeclared type underlying a named basic type, or nil.
func baseOf(t reflect.Type) reflect.Type {
	if t.PkgPath() == "" {
		return nil
	}
	if p, ok := predeclared[t.Kind()]; ok && p != t {
		return p
	}
	return nil
}

func (r *Resolver) builtin(t reflect.Type) Strategy {
	if t.PkgPath() != "" {
		return nil
	}
	switch t.Kind() {
	case reflect.String:
		return r.text
	case reflect.Bool:
		return r.boolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return r.numeric
	}
	return nil
}

// method finds a method named name on t taking one non-interface argument
// that accepts one of targets and returning a single value of kind out.
func method(t reflect.Type, name string, targets []reflect.Type, out reflect.Kind) (reflect.Method, reflect.Type, bool) {
	m, ok := t.MethodByName(name)
	if !ok {
		return reflect.Method{}, nil, false
	}
	mt := m.Type
	if mt.NumIn() != 2 || mt.NumOut() != 1 || mt.Out(0).Kind() != out {
		return reflect.Method{}, nil, false
	}
	param := mt.In(1)
	if param.Kind() == reflect.Interface {
		return reflect.Method{}, nil, false
	}
	for _, target := range targets {
		if target.AssignableTo(param) {
			return m, param, true
		}
	}
	return reflect.Method{}, nil, false
}

func (r *Resolver) typedCompare(t reflect.Type, targets []reflect.Type) Strategy {
	m, param, ok := method(t, "Compare", targets, reflect.Int)
	if !ok {
		return nil
	}
	return &typedCompareStrategy{method: m, recv: t, param: param, fallback: r.fallback}
}

func (r *Resolver) typedEqual(t reflect.Type, targets []reflect.Type) Strategy {
	m, param, ok := method(t, "Equal", targets, reflect.Bool)
	if !ok {
		return nil
	}
	return &equalityStrategy{method: m, recv: t, param: param, fallback: r.fallback}
}
