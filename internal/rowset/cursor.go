package rowset

import (
	"slices"

	"github.com/Iron-Ham/groupview/internal/errors"
)

// Cursor is a current-record pointer over a List that is maintained
// independently of any view. It follows its row across inserts, deletes and
// moves and clamps when its row disappears.
type Cursor struct {
	list        *List
	pos         int
	row         Row
	unsubscribe func()
	listeners   []listener
	nextID      int
}

// NewCursor creates a cursor positioned on the first row of list, or at -1
// when the list is empty.
func NewCursor(list *List) *Cursor {
	c := &Cursor{list: list, pos: -1}
	if list.Len() > 0 {
		c.pos = 0
		c.row = list.At(0)
	}
	c.unsubscribe = list.Subscribe(c.onChange)
	return c
}

// Len returns the length of the underlying list.
func (c *Cursor) Len() int {
	return c.list.Len()
}

// Position returns the current source index, or -1.
func (c *Cursor) Position() int {
	return c.pos
}

// Current returns the current row, or nil.
func (c *Cursor) Current() Row {
	return c.row
}

// MoveTo positions the cursor at source index i.
func (c *Cursor) MoveTo(i int) error {
	if i < 0 || i >= c.list.Len() {
		return errors.Wrapf(errors.ErrIndexOutOfRange, "cursor move to %d", i)
	}
	c.set(i)
	return nil
}

// Next advances the cursor by one row if possible.
func (c *Cursor) Next() bool {
	if c.pos+1 >= c.list.Len() {
		return false
	}
	c.set(c.pos + 1)
	return true
}

// Prev moves the cursor back by one row if possible.
func (c *Cursor) Prev() bool {
	if c.pos <= 0 {
		return false
	}
	c.set(c.pos - 1)
	return true
}

// OnChanged registers fn to run whenever the position or current row changes.
func (c *Cursor) OnChanged(fn func()) func() {
	c.nextID++
	id := c.nextID
	c.listeners = append(c.listeners, listener{id: id, fn: func(Change) { fn() }})
	return func() {
		for i, ln := range c.listeners {
			if ln.id == id {
				c.listeners = slices.Delete(c.listeners, i, i+1)
				return
			}
		}
	}
}

// Close detaches the cursor from its list.
func (c *Cursor) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

func (c *Cursor) set(i int) {
	var row Row
	if i >= 0 && i < c.list.Len() {
		row = c.list.At(i)
	} else {
		i = -1
	}
	if i == c.pos && row == c.row {
		return
	}
	c.pos = i
	c.row = row
	for _, ln := range slices.Clone(c.listeners) {
		ln.fn(Change{Kind: ItemChanged, Index: i, OldIndex: -1})
	}
}

func (c *Cursor) onChange(Change) {
	n := c.list.Len()
	if n == 0 {
		c.set(-1)
		return
	}
	if c.row != nil {
		if i := c.list.IndexOf(c.row); i >= 0 {
			c.set(i)
			return
		}
	}
	c.set(min(max(c.pos, 0), n-1))
}
