package rowset

import (
	"testing"

	"github.com/Iron-Ham/groupview/internal/errors"
)

type person struct {
	Name   string
	Age    int
	Rating *float64
	note   string
}

func newPeople(names ...string) []Row {
	rows := make([]Row, 0, len(names))
	for i, n := range names {
		rows = append(rows, &person{Name: n, Age: 20 + i})
	}
	return rows
}

func recordChanges(l *List) *[]Change {
	var got []Change
	l.Subscribe(func(c Change) { got = append(got, c) })
	return &got
}

func TestNewList_RejectsInvalidRows(t *testing.T) {
	tests := []struct {
		name string
		rows []Row
	}{
		{"nil row", []Row{nil}},
		{"non-comparable row", []Row{[]int{1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewList(nil, tt.rows...)
			if !errors.Is(err, errors.ErrInvalidRow) {
				t.Errorf("NewList() error = %v, want ErrInvalidRow", err)
			}
		})
	}
}

func TestList_Mutations(t *testing.T) {
	acc := NewStructAccessor[person]()
	l, err := NewList(acc, newPeople("a", "b", "c")...)
	if err != nil {
		t.Fatalf("NewList() error = %v", err)
	}
	got := recordChanges(l)

	d := &person{Name: "d"}
	if i, err := l.Append(d); err != nil || i != 3 {
		t.Fatalf("Append() = %d, %v; want 3, nil", i, err)
	}
	if err := l.Insert(0, &person{Name: "z"}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := l.Move(4, 1); err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if l.At(1) != d {
		t.Errorf("At(1) = %v, want moved row d", l.At(1))
	}
	if !l.Remove(d) {
		t.Error("Remove(d) = false, want true")
	}
	if err := l.SetField(0, "Age", "41"); err != nil {
		t.Fatalf("SetField() error = %v", err)
	}
	if age := l.At(0).(*person).Age; age != 41 {
		t.Errorf("Age = %d, want 41", age)
	}

	wantKinds := []ChangeKind{ItemAdded, ItemAdded, ItemMoved, ItemDeleted, ItemChanged}
	if len(*got) != len(wantKinds) {
		t.Fatalf("got %d changes, want %d", len(*got), len(wantKinds))
	}
	for i, k := range wantKinds {
		if (*got)[i].Kind != k {
			t.Errorf("change[%d].Kind = %v, want %v", i, (*got)[i].Kind, k)
		}
	}
	if mv := (*got)[2]; mv.OldIndex != 4 || mv.Index != 1 {
		t.Errorf("move change = %+v, want 4 -> 1", mv)
	}
	if del := (*got)[3]; del.Row != d || del.Index != 1 {
		t.Errorf("delete change = %+v, want row d at 1", del)
	}
	if ch := (*got)[4]; ch.Field != "Age" || ch.Index != 0 {
		t.Errorf("changed = %+v, want Age at 0", ch)
	}
}

func TestList_OutOfRange(t *testing.T) {
	l, _ := NewList(nil, newPeople("a")...)
	tests := []struct {
		name string
		fn   func() error
	}{
		{"insert", func() error { return l.Insert(5, &person{}) }},
		{"remove", func() error { return l.RemoveAt(1) }},
		{"move", func() error { return l.Move(0, 3) }},
		{"set field", func() error { return l.SetField(-1, "Name", "x") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); !errors.Is(err, errors.ErrIndexOutOfRange) {
				t.Errorf("error = %v, want ErrIndexOutOfRange", err)
			}
		})
	}
}

func TestList_ReplaceEmitsSingleReset(t *testing.T) {
	l, _ := NewList(nil, newPeople("a", "b")...)
	got := recordChanges(l)

	if err := l.Replace(newPeople("x", "y", "z")); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if len(*got) != 1 || (*got)[0].Kind != Reset {
		t.Fatalf("changes = %+v, want one Reset", *got)
	}
	if l.Len() != 3 {
		t.Errorf("Len() = %d, want 3", l.Len())
	}
}

func TestList_Unsubscribe(t *testing.T) {
	l, _ := NewList(nil)
	calls := 0
	unsub := l.Subscribe(func(Change) { calls++ })
	_, _ = l.Append(&person{})
	unsub()
	_, _ = l.Append(&person{})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestChangeKind_String(t *testing.T) {
	if ItemMoved.String() != "moved" || ChangeKind(42).String() != "unknown" {
		t.Error("unexpected ChangeKind names")
	}
}
