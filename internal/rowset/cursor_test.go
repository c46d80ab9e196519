package rowset

import "testing"

func TestCursor_FollowsRow(t *testing.T) {
	rows := newPeople("a", "b", "c")
	l, _ := NewList(nil, rows...)
	c := NewCursor(l)
	defer c.Close()

	changes := 0
	c.OnChanged(func() { changes++ })

	if err := c.MoveTo(1); err != nil {
		t.Fatalf("MoveTo() error = %v", err)
	}
	if c.Current() != rows[1] {
		t.Fatalf("Current() = %v, want b", c.Current())
	}

	_ = l.Insert(0, &person{Name: "z"})
	if c.Position() != 2 || c.Current() != rows[1] {
		t.Errorf("after insert: pos=%d current=%v, want 2/b", c.Position(), c.Current())
	}

	_ = l.RemoveAt(2)
	if c.Position() != 2 || c.Current() != rows[2] {
		t.Errorf("after deleting current: pos=%d current=%v, want clamp to 2/c", c.Position(), c.Current())
	}

	if changes != 3 {
		t.Errorf("OnChanged fired %d times, want 3", changes)
	}
}

func TestCursor_EmptyList(t *testing.T) {
	l, _ := NewList(nil)
	c := NewCursor(l)
	if c.Position() != -1 || c.Current() != nil {
		t.Errorf("empty cursor = %d/%v, want -1/nil", c.Position(), c.Current())
	}
	if c.Next() || c.Prev() {
		t.Error("Next/Prev on empty list should fail")
	}

	_, _ = l.Append(&person{Name: "a"})
	if c.Position() != 0 {
		t.Errorf("Position() after first append = %d, want 0", c.Position())
	}
	_ = l.RemoveAt(0)
	if c.Position() != -1 {
		t.Errorf("Position() after emptying = %d, want -1", c.Position())
	}
}

func TestCursor_NextPrev(t *testing.T) {
	l, _ := NewList(nil, newPeople("a", "b")...)
	c := NewCursor(l)
	if !c.Next() || c.Position() != 1 {
		t.Fatalf("Next() failed, pos = %d", c.Position())
	}
	if c.Next() {
		t.Error("Next() past the end should fail")
	}
	if !c.Prev() || c.Position() != 0 {
		t.Errorf("Prev() failed, pos = %d", c.Position())
	}
}
