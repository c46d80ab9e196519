package compare

import (
	"math"
	"reflect"
	"slices"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/language"
)

type version struct{ major, minor int }

func (v version) Compare(o version) int {
	if v.major != o.major {
		return v.major - o.major
	}
	return v.minor - o.minor
}

type color struct{ name string }

func (c color) Equal(o color) bool { return strings.EqualFold(c.name, o.name) }

type score float64

type rank int

func (r rank) Compare(other any) int {
	o, _ := other.(rank)
	return int(r) - int(o)
}

type opaque struct{ id int }

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver()
	tests := []struct {
		name string
		from reflect.Type
		to   reflect.Type
		want string
	}{
		{"string pair", reflect.TypeFor[string](), nil, "text"},
		{"int", reflect.TypeFor[int](), nil, "numeric"},
		{"pointer to int", reflect.TypeFor[*int](), nil, "numeric"},
		{"named float walks to base", reflect.TypeFor[score](), nil, "numeric"},
		{"duration walks to base", reflect.TypeFor[time.Duration](), nil, "numeric"},
		{"bool", reflect.TypeFor[bool](), nil, "bool"},
		{"time", reflect.TypeFor[time.Time](), nil, "temporal"},
		{"typed compare", reflect.TypeFor[version](), nil, "typed"},
		{"pointer to typed compare", reflect.TypeFor[*version](), reflect.TypeFor[version](), "typed"},
		{"typed equality", reflect.TypeFor[color](), nil, "equality"},
		{"untyped comparable", reflect.TypeFor[rank](), nil, "ordered"},
		{"no capability", reflect.TypeFor[opaque](), nil, "fallback"},
		{"nil type", nil, nil, "fallback"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Resolve(tt.from, tt.to).Name(); got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolver_Caches(t *testing.T) {
	r := NewResolver()
	a := r.Resolve(reflect.TypeFor[version](), nil)
	b := r.Resolve(reflect.TypeFor[version](), nil)
	if a != b {
		t.Error("Resolve() should return the cached strategy")
	}
}

func TestResolver_Register(t *testing.T) {
	r := NewResolver()
	typ := reflect.TypeFor[opaque]()
	_ = r.Resolve(typ, nil)

	byID := Func("by-id", func(a, b any) int {
		return a.(opaque).id - b.(opaque).id
	}, nil)
	r.Register(typ, byID)

	s := r.Resolve(typ, nil)
	if s.Name() != "by-id" {
		t.Fatalf("Resolve() after Register = %q, want by-id", s.Name())
	}
	if s.Compare(opaque{1}, opaque{2}) >= 0 || !s.Equal(opaque{3}, opaque{3}) {
		t.Error("registered strategy not applied")
	}
}

func TestComparer_Ordering(t *testing.T) {
	one := 1
	tests := []struct {
		name string
		typ  reflect.Type
		a, b any
		want int
	}{
		{"ints", reflect.TypeFor[int](), 2, 10, -1},
		{"strings are lexical", reflect.TypeFor[string](), "10", "2", -1},
		{"int against float", nil, 2, 1.5, 1},
		{"negative int against uint", nil, -1, uint(0), -1},
		{"NaN sorts last", reflect.TypeFor[float64](), math.NaN(), 1e9, 1},
		{"NaN equals NaN", reflect.TypeFor[float64](), math.NaN(), math.NaN(), 0},
		{"pointer and value", reflect.TypeFor[*int](), &one, 0, 1},
		{"false before true", reflect.TypeFor[bool](), false, true, -1},
		{"times", reflect.TypeFor[time.Time](), time.Unix(10, 0), time.Unix(5, 0), 1},
		{"typed compare", reflect.TypeFor[version](), version{1, 2}, version{1, 10}, -1},
		{"untyped comparable", reflect.TypeFor[rank](), rank(3), rank(1), 1},
		{"fallback is textual", reflect.TypeFor[opaque](), opaque{9}, opaque{10}, 1},
		{"null first", reflect.TypeFor[*int](), (*int)(nil), &one, -1},
		{"nulls equal", nil, nil, (*int)(nil), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(nil, tt.typ)
			if got := sign(c.Compare(tt.a, tt.b)); got != tt.want {
				t.Errorf("Compare(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestToNumber(t *testing.T) {
	big := uint64(math.MaxUint64)
	tests := []struct {
		name string
		in   any
		want number
		ok   bool
	}{
		{"int8", int8(-3), number{kind: numSigned, i: -3}, true},
		{"uint16", uint16(7), number{kind: numUnsigned, u: 7}, true},
		{"max uint64", big, number{kind: numUnsigned, u: math.MaxUint64}, true},
		{"pointer to uint64", &big, number{kind: numUnsigned, u: math.MaxUint64}, true},
		{"float32", float32(0.5), number{kind: numFloat, f: 0.5}, true},
		{"named float", score(2.5), number{kind: numFloat, f: 2.5}, true},
		{"duration", 3 * time.Second, number{kind: numSigned, i: int64(3 * time.Second)}, true},
		{"numeric string", "12", number{}, false},
		{"nil pointer", (*int)(nil), number{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := toNumber(tt.in)
			if ok != tt.ok || (ok && got != tt.want) {
				t.Errorf("toNumber(%v) = %+v, %v; want %+v, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestComparer_DescendingFlipsNulls(t *testing.T) {
	c := New(nil, reflect.TypeFor[int]())
	c.Descending = true

	if c.Compare(nil, 1) <= 0 {
		t.Error("descending: null should order after non-null")
	}
	if c.Compare(1, 2) <= 0 {
		t.Error("descending: 1 should order after 2")
	}
	if !c.Equal(nil, nil) || c.Equal(nil, 0) {
		t.Error("Equal should ignore Descending and treat only nulls as equal to null")
	}
}

func TestComparer_EqualityOnly(t *testing.T) {
	c := New(nil, reflect.TypeFor[color]())
	if !c.Equal(color{"Red"}, color{"RED"}) {
		t.Error("Equal should use the typed Equal method")
	}
	if c.Compare(color{"red"}, color{"RED"}) != 0 {
		t.Error("equal values should compare as zero")
	}
	if c.Compare(color{"blue"}, color{"red"}) == 0 {
		t.Error("unequal values should not compare as zero")
	}
}

func TestComparer_HashConsistentWithEqual(t *testing.T) {
	tests := []struct {
		name string
		typ  reflect.Type
		a, b any
	}{
		{"int and float", nil, 3, 3.0},
		{"negative zero", reflect.TypeFor[float64](), 0.0, math.Copysign(0, -1)},
		{"strings", reflect.TypeFor[string](), "x", "x"},
		{"same instant", reflect.TypeFor[time.Time](), time.Unix(7, 0), time.Unix(7, 0).In(time.FixedZone("x", 3600))},
		{"bools", reflect.TypeFor[bool](), true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(nil, tt.typ)
			if !c.Equal(tt.a, tt.b) {
				t.Fatalf("Equal(%v, %v) = false", tt.a, tt.b)
			}
			if c.Hash(tt.a) != c.Hash(tt.b) {
				t.Errorf("Hash(%v) != Hash(%v)", tt.a, tt.b)
			}
		})
	}
	if New(nil, nil).Hash(nil) != 0 {
		t.Error("Hash(nil) should be 0")
	}
}

func TestResolver_Collation(t *testing.T) {
	words := []string{"banana", "Apple", "cherry"}

	plain := New(NewResolver(), reflect.TypeFor[string]())
	got := slices.Clone(words)
	slices.SortFunc(got, func(a, b string) int { return plain.Compare(a, b) })
	if want := []string{"Apple", "banana", "cherry"}; !slices.Equal(got, want) {
		t.Errorf("byte order = %v, want %v", got, want)
	}

	collated := New(NewResolver(WithCollation(language.English)), reflect.TypeFor[string]())
	if collated.Compare("apple", "Banana") >= 0 {
		t.Error("collated: apple should order before Banana")
	}
	if plain.Compare("apple", "Banana") <= 0 {
		t.Error("byte-wise: apple should order after Banana")
	}
}

func TestChain(t *testing.T) {
	byLen := OrderingFunc(func(a, b any) int { return len(a.(string)) - len(b.(string)) })
	chain := Chain{byLen}.ThenBy(New(nil, reflect.TypeFor[string]()))

	words := []string{"ccc", "b", "aa", "a"}
	slices.SortFunc(words, func(a, b string) int { return chain.Compare(a, b) })
	if want := []string{"a", "b", "aa", "ccc"}; !slices.Equal(words, want) {
		t.Errorf("sorted = %v, want %v", words, want)
	}
	if (Chain{}).Compare("x", "y") != 0 {
		t.Error("empty chain should compare equal")
	}
}

func TestText(t *testing.T) {
	n := 42
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"x", "x"},
		{&n, "42"},
		{(*int)(nil), ""},
		{true, "true"},
		{opaque{3}, "{3}"},
	}
	for _, tt := range tests {
		if got := Text(tt.in); got != tt.want {
			t.Errorf("Text(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
