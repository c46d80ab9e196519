package keysel

import (
	"reflect"
	"testing"

	"github.com/Iron-Ham/groupview/internal/errors"
	"github.com/Iron-Ham/groupview/internal/rowset"
)

type track struct {
	Title  string
	Artist string
	Plays  int
	Rating *int
}

func TestProperty(t *testing.T) {
	acc := rowset.NewStructAccessor[track]()

	s, err := Property(acc, "Plays")
	if err != nil {
		t.Fatalf("Property() error = %v", err)
	}
	if s.Kind() != KindProperty || s.Name() != "Plays" || s.Field() != "Plays" {
		t.Errorf("selector = %v/%q/%q", s.Kind(), s.Name(), s.Field())
	}
	if s.ValueType() != reflect.TypeFor[int]() || s.IsTextual() {
		t.Errorf("ValueType() = %v", s.ValueType())
	}
	if k, err := s.Key(&track{Plays: 12}); err != nil || k != 12 {
		t.Errorf("Key() = %v, %v", k, err)
	}
	if !s.MatchesField("Plays") || s.MatchesField("Title") {
		t.Error("MatchesField should match only Plays")
	}

	if _, err := Property(acc, "Album"); !errors.Is(err, errors.ErrFieldNotFound) {
		t.Errorf("Property(Album) error = %v, want ErrFieldNotFound", err)
	}
}

func TestDelegate(t *testing.T) {
	s := Delegate("", func(row rowset.Row) (any, error) {
		return len(row.(*track).Title), nil
	}, WithValueType(reflect.TypeFor[int]()), DependsOn("Title"))

	if s.Name() != "delegate" || s.Field() != "" {
		t.Errorf("Name() = %q, Field() = %q", s.Name(), s.Field())
	}
	if k, _ := s.Key(&track{Title: "Hey"}); k != 3 {
		t.Errorf("Key() = %v, want 3", k)
	}
	if !s.MatchesField("Title") || !s.MatchesField("delegate") || s.MatchesField("Plays") {
		t.Error("MatchesField should follow declared dependencies")
	}
	if s.ValueType() != reflect.TypeFor[int]() {
		t.Errorf("ValueType() = %v", s.ValueType())
	}

	bare := Delegate("len", func(rowset.Row) (any, error) { return 0, nil })
	if bare.ValueType() != nil {
		t.Error("delegate without declared type should report nil ValueType")
	}
}

func TestTransformed_NeverNests(t *testing.T) {
	acc := rowset.NewStructAccessor[track]()
	base, _ := Property(acc, "Artist")

	once := Text(base)
	twice := LeadingLetters(once, 2)
	if twice.Base() != base {
		t.Error("wrapping a transformed selector should wrap its innermost base")
	}
	if tr, n := twice.Transform(); tr != TransformLeading || n != 2 {
		t.Errorf("Transform() = %v, %d", tr, n)
	}
	if !twice.IsTextual() || twice.Field() != "Artist" || !twice.MatchesField("Artist") {
		t.Error("transformed selector should be textual and track its base field")
	}
	if _, n := LeadingLetters(base, 0).Transform(); n != 1 {
		t.Errorf("letters = %d, want clamp to 1", n)
	}
}

func TestTransformed_Key(t *testing.T) {
	acc := rowset.NewStructAccessor[track]()
	plays, _ := Property(acc, "Plays")
	rating, _ := Property(acc, "Rating")
	artist, _ := Property(acc, "Artist")
	five := 5

	tests := []struct {
		name string
		sel  *Selector
		row  *track
		want any
	}{
		{"int as text", Text(plays), &track{Plays: 120}, "120"},
		{"nil pointer stays null", Text(rating), &track{}, nil},
		{"pointer as text", Text(rating), &track{Rating: &five}, "5"},
		{"leading letters", LeadingLetters(artist, 1), &track{Artist: "Björk"}, "B"},
		{"leading graphemes", LeadingLetters(artist, 2), &track{Artist: "🇳🇴🇸🇪 band"}, "🇳🇴🇸🇪"},
		{"shorter than n", LeadingLetters(artist, 10), &track{Artist: "Abba"}, "Abba"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.sel.Key(tt.row)
			if err != nil {
				t.Fatalf("Key() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Key() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestTransformed_PropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	s := Text(Delegate("x", func(rowset.Row) (any, error) { return nil, boom }))
	if _, err := s.Key(&track{}); !errors.Is(err, boom) {
		t.Errorf("Key() error = %v, want boom", err)
	}
}

func TestSelector_Equal(t *testing.T) {
	acc := rowset.NewStructAccessor[track]()
	a1, _ := Property(acc, "Artist")
	a2, _ := Property(acc, "Artist")
	title, _ := Property(acc, "Title")
	fn := func(rowset.Row) (any, error) { return nil, nil }
	d := Delegate("d", fn)

	tests := []struct {
		name string
		a, b *Selector
		want bool
	}{
		{"same field", a1, a2, true},
		{"different field", a1, title, false},
		{"same transform", LeadingLetters(a1, 1), LeadingLetters(a2, 1), true},
		{"different letters", LeadingLetters(a1, 1), LeadingLetters(a1, 2), false},
		{"delegate identity", d, d, true},
		{"distinct delegates", d, Delegate("d", fn), false},
		{"nil", a1, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatKey(t *testing.T) {
	if FormatKey(nil) != NullText {
		t.Errorf("FormatKey(nil) = %q", FormatKey(nil))
	}
	if FormatKey(3.5) != "3.5" {
		t.Errorf("FormatKey(3.5) = %q", FormatKey(3.5))
	}
}

func TestSelector_String(t *testing.T) {
	acc := rowset.NewStructAccessor[track]()
	artist, _ := Property(acc, "Artist")
	if got := LeadingLetters(artist, 1).String(); got != "Artist[:1]" {
		t.Errorf("String() = %q", got)
	}
	if got := Text(artist).String(); got != "text(Artist)" {
		t.Errorf("String() = %q", got)
	}
}
