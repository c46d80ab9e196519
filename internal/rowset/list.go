// Package rowset provides the upstream side of a grouped view: an observable,
// randomly indexable list of opaque rows, the field accessors that read and
// write row values by name, an external cursor over a list, and loaders that
// populate lists from dataset files.
//
// Rows are identified by reference. Every row stored in a List must be a
// non-nil value of a comparable type, in practice a pointer.
package rowset

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/Iron-Ham/groupview/internal/errors"
)

// Row is an opaque record. Its identity is its reference.
type Row = any

// ChangeKind identifies the kind of upstream mutation.
type ChangeKind int

const (
	// ItemAdded means a row was inserted at Change.Index.
	ItemAdded ChangeKind = iota
	// ItemChanged means the row at Change.Index was modified in place.
	ItemChanged
	// ItemDeleted means the row formerly at Change.Index was removed.
	ItemDeleted
	// ItemMoved means the row at Change.OldIndex now lives at Change.Index.
	ItemMoved
	// Reset means the list must be re-read from scratch.
	Reset
)

// String returns a short name for the change kind.
func (k ChangeKind) String() string {
	switch k {
	case ItemAdded:
		return "added"
	case ItemChanged:
		return "changed"
	case ItemDeleted:
		return "deleted"
	case ItemMoved:
		return "moved"
	case Reset:
		return "reset"
	default:
		return "unknown"
	}
}

// Change describes one upstream mutation.
type Change struct {
	Kind     ChangeKind
	Index    int    // Affected index; -1 for Reset
	OldIndex int    // Previous index for ItemMoved, -1 otherwise
	Field    string // Changed field for ItemChanged; empty when the whole row changed
	Row      Row    // The removed row for ItemDeleted
}

// Source is the upstream collection a grouped view observes.
type Source interface {
	// Len returns the number of rows.
	Len() int
	// At returns the row at index i.
	At(i int) Row
	// Subscribe registers fn for every subsequent change and returns a
	// function that removes the subscription.
	Subscribe(fn func(Change)) (unsubscribe func())
	// NotifyChanged reports that the row at index i was modified in place.
	NotifyChanged(i int, field string)
}

type listener struct {
	id int
	fn func(Change)
}

// List is an in-memory Source. Mutations notify subscribers synchronously,
// in subscription order, on the calling goroutine. List is not safe for
// concurrent use.
type List struct {
	rows      []Row
	accessor  FieldAccessor
	listeners []listener
	nextID    int
}

var _ Source = (*List)(nil)

// NewList creates a List holding rows whose fields are read through accessor.
func NewList(accessor FieldAccessor, rows ...Row) (*List, error) {
	for i, row := range rows {
		if err := checkRow(row); err != nil {
			return nil, errors.Wrapf(err, "row %d", i)
		}
	}
	return &List{
		rows:     slices.Clone(rows),
		accessor: accessor,
	}, nil
}

func checkRow(row Row) error {
	if row == nil {
		return errors.Wrap(errors.ErrInvalidRow, "nil row")
	}
	if t := reflect.TypeOf(row); !t.Comparable() {
		return errors.Wrapf(errors.ErrInvalidRow, "rows of type %s are not comparable", t)
	}
	return nil
}

// Accessor returns the field accessor for the list's rows.
func (l *List) Accessor() FieldAccessor {
	return l.accessor
}

// Len returns the number of rows.
func (l *List) Len() int {
	return len(l.rows)
}

// At returns the row at index i. It panics if i is out of range, like a slice.
func (l *List) At(i int) Row {
	return l.rows[i]
}

// Rows returns a copy of the rows in order.
func (l *List) Rows() []Row {
	return slices.Clone(l.rows)
}

// IndexOf returns the index of row, or -1.
func (l *List) IndexOf(row Row) int {
	for i, r := range l.rows {
		if r == row {
			return i
		}
	}
	return -1
}

// Subscribe registers fn for every subsequent change.
func (l *List) Subscribe(fn func(Change)) func() {
	l.nextID++
	id := l.nextID
	l.listeners = append(l.listeners, listener{id: id, fn: fn})
	return func() {
		for i, ln := range l.listeners {
			if ln.id == id {
				l.listeners = slices.Delete(l.listeners, i, i+1)
				return
			}
		}
	}
}

// Append adds row at the end and returns its index.
func (l *List) Append(row Row) (int, error) {
	if err := checkRow(row); err != nil {
		return -1, err
	}
	l.rows = append(l.rows, row)
	i := len(l.rows) - 1
	l.notify(Change{Kind: ItemAdded, Index: i, OldIndex: -1})
	return i, nil
}

// Insert adds row at index i, shifting later rows.
func (l *List) Insert(i int, row Row) error {
	if err := checkRow(row); err != nil {
		return err
	}
	if i < 0 || i > len(l.rows) {
		return errors.Wrapf(errors.ErrIndexOutOfRange, "insert at %d", i)
	}
	l.rows = slices.Insert(l.rows, i, row)
	l.notify(Change{Kind: ItemAdded, Index: i, OldIndex: -1})
	return nil
}

// RemoveAt deletes the row at index i.
func (l *List) RemoveAt(i int) error {
	if i < 0 || i >= len(l.rows) {
		return errors.Wrapf(errors.ErrIndexOutOfRange, "remove at %d", i)
	}
	row := l.rows[i]
	l.rows = slices.Delete(l.rows, i, i+1)
	l.notify(Change{Kind: ItemDeleted, Index: i, OldIndex: -1, Row: row})
	return nil
}

// Remove deletes row if present and reports whether it was found.
func (l *List) Remove(row Row) bool {
	i := l.IndexOf(row)
	if i < 0 {
		return false
	}
	return l.RemoveAt(i) == nil
}

// Move relocates the row at from to index to.
func (l *List) Move(from, to int) error {
	if from < 0 || from >= len(l.rows) || to < 0 || to >= len(l.rows) {
		return errors.Wrapf(errors.ErrIndexOutOfRange, "move %d to %d", from, to)
	}
	if from == to {
		return nil
	}
	row := l.rows[from]
	l.rows = slices.Delete(l.rows, from, from+1)
	l.rows = slices.Insert(l.rows, to, row)
	l.notify(Change{Kind: ItemMoved, Index: to, OldIndex: from})
	return nil
}

// Replace swaps the whole content of the list and emits a single Reset.
func (l *List) Replace(rows []Row) error {
	for i, row := range rows {
		if err := checkRow(row); err != nil {
			return errors.Wrapf(err, "row %d", i)
		}
	}
	l.rows = slices.Clone(rows)
	l.notify(Change{Kind: Reset, Index: -1, OldIndex: -1})
	return nil
}

// SetField writes value into field of the row at index i through the list's
// accessor and emits ItemChanged for that field.
func (l *List) SetField(i int, field string, value any) error {
	if i < 0 || i >= len(l.rows) {
		return errors.Wrapf(errors.ErrIndexOutOfRange, "set field at %d", i)
	}
	if l.accessor == nil {
		return fmt.Errorf("list has no field accessor")
	}
	if err := l.accessor.Set(l.rows[i], field, value); err != nil {
		return err
	}
	l.NotifyChanged(i, field)
	return nil
}

// NotifyChanged emits ItemChanged for a row that was mutated outside the list.
func (l *List) NotifyChanged(i int, field string) {
	if i < 0 || i >= len(l.rows) {
		return
	}
	l.notify(Change{Kind: ItemChanged, Index: i, OldIndex: -1, Field: field})
}

func (l *List) notify(c Change) {
	listeners := slices.Clone(l.listeners)
	for _, ln := range listeners {
		ln.fn(c)
	}
}
