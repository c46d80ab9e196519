// Package compare implements type-directed ordering and equality for
// grouping keys. A Resolver picks a Strategy per type pair once and caches
// it. A Comparer applies the strategy with null-first ordering and an
// optional descending flip.
package compare

import (
	"reflect"
	"slices"
)

// Comparer orders and equates values of one declared type.
//
// Null values (nil, or nil pointers) are equal to each other and order before
// every non-null value. Descending flips the sign of the final result,
// including the null ordering. Equal and Hash are unaffected by Descending.
type Comparer struct {
	Descending bool

	resolver *Resolver
	declared reflect.Type
	target   reflect.Type
	strategy Strategy
}

// New creates a comparer for values of the declared type. When declared is
// nil or an interface type the strategy is resolved per value from its
// dynamic type. A nil resolver uses Default.
func New(r *Resolver, declared reflect.Type) *Comparer {
	return NewWithTarget(r, declared, declared)
}

// NewWithTarget creates a comparer for values of type declared compared
// against values of type target.
func NewWithTarget(r *Resolver, declared, target reflect.Type) *Comparer {
	if r == nil {
		r = Default()
	}
	c := &Comparer{resolver: r, declared: declared, target: target}
	if declared != nil && declared.Kind() != reflect.Interface {
		c.strategy = r.Resolve(declared, target)
	}
	return c
}

// Strategy returns the strategy fixed at construction, or nil when it is
// resolved per value.
func (c *Comparer) Strategy() Strategy {
	return c.strategy
}

func (c *Comparer) strategyFor(v any) Strategy {
	if c.strategy != nil {
		return c.strategy
	}
	t := reflect.TypeOf(v)
	to := c.target
	if to == nil || to.Kind() == reflect.Interface {
		to = t
	}
	return c.resolver.Resolve(t, to)
}

func (c *Comparer) factor() int {
	if c.Descending {
		return -1
	}
	return 1
}

// Compare returns a negative number when a orders before b, zero when they
// are equal and a positive number otherwise.
func (c *Comparer) Compare(a, b any) int {
	aNull, bNull := IsNull(a), IsNull(b)
	switch {
	case aNull && bNull:
		return 0
	case aNull:
		return -c.factor()
	case bNull:
		return c.factor()
	}
	return c.factor() * sign(c.strategyFor(a).Compare(a, b))
}

// Equal reports whether a and b are equal. Two nulls are equal.
func (c *Comparer) Equal(a, b any) bool {
	aNull, bNull := IsNull(a), IsNull(b)
	if aNull || bNull {
		return aNull && bNull
	}
	return c.strategyFor(a).Equal(a, b)
}

// Hash returns a hash consistent with Equal. Strategies without a hash put
// every value in a single bucket.
func (c *Comparer) Hash(v any) uint64 {
	if IsNull(v) {
		return 0
	}
	if h, ok := c.strategyFor(v).(Hasher); ok {
		return h.Hash(v)
	}
	return 0
}

// Ordering is anything that orders two values.
type Ordering interface {
	Compare(a, b any) int
}

// OrderingFunc adapts a function to Ordering.
type OrderingFunc func(a, b any) int

// Compare calls f(a, b).
func (f OrderingFunc) Compare(a, b any) int { return f(a, b) }

// Chain evaluates orderings left to right. The first non-zero result wins.
type Chain []Ordering

// Compare returns the first non-zero result of the chain, or zero.
func (c Chain) Compare(a, b any) int {
	for _, o := range c {
		if r := o.Compare(a, b); r != 0 {
			return r
		}
	}
	return 0
}

// ThenBy returns a new chain with o appended.
func (c Chain) ThenBy(o Ordering) Chain {
	return append(slices.Clip(c), o)
}
