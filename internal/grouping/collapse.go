package grouping

import (
	"slices"

	"github.com/Iron-Ham/groupview/internal/errors"
	"github.com/Iron-Ham/groupview/internal/event"
	"github.com/Iron-Ham/groupview/internal/rowset"
)

func (v *View) setCollapsed(n *Node, collapsed bool) {
	if !n.live() || n.collapsed == collapsed {
		return
	}
	if collapsed && n.placeholder {
		return
	}
	t := v.tbl
	at := n.start + 1
	size := len(n.rows)

	n.collapsed = collapsed
	if collapsed {
		for _, r := range n.rows {
			delete(t.index, r)
		}
		t.seq = slices.Delete(t.seq, at, at+size)
	} else {
		block := make([]Entry, size)
		for i, r := range n.rows {
			block[i] = Entry{node: n, row: r}
		}
		t.seq = slices.Insert(t.seq, at, block...)
	}
	t.reindex(n.ordinal)

	v.logger.Debug("node collapse changed", "node", n.id, "collapsed", collapsed, "rows", size)
	switch {
	case size > 1:
		v.publish(event.NewResetEvent())
	case size == 1 && collapsed:
		v.publish(event.NewListChangedEvent(event.ListItemDeleted, at, ""))
	case size == 1:
		v.publish(event.NewListChangedEvent(event.ListItemAdded, at, ""))
	}

	switch {
	case collapsed && v.position >= at && v.position < at+size:
		v.setPosition(n.start)
	case collapsed:
		v.shiftPosition(at, -size)
	default:
		v.shiftPosition(at, size)
	}
}

func (v *View) nodeAdd(n *Node, row rowset.Row) int {
	if !n.live() || row == nil {
		return -1
	}
	t := v.tbl
	n.rows = append(n.rows, row)
	t.owner[row] = n

	at := -1
	if !n.collapsed {
		at = n.start + len(n.rows)
		t.seq = slices.Insert(t.seq, at, Entry{node: n, row: row})
	}
	t.reindex(n.ordinal)

	if at >= 0 {
		v.publish(event.NewListChangedEvent(event.ListItemAdded, at, ""))
		v.shiftPosition(at, 1)
	}
	v.publish(event.NewListChangedEvent(event.ListItemChanged, n.start, ""))
	return at
}

func (v *View) nodeRemove(n *Node, row rowset.Row) bool {
	if !n.live() {
		return false
	}
	i := slices.Index(n.rows, row)
	if i < 0 {
		return false
	}
	t := v.tbl
	n.rows = slices.Delete(n.rows, i, i+1)
	delete(t.owner, row)

	at := -1
	if !n.collapsed {
		at = n.start + 1 + i
		t.seq = slices.Delete(t.seq, at, at+1)
		delete(t.index, row)
	}

	if len(n.rows) == 0 && !n.placeholder {
		header := n.start
		t.seq = slices.Delete(t.seq, header, header+1)
		t.nodes = slices.Delete(t.nodes, n.ordinal, n.ordinal+1)
		t.reindex(n.ordinal)
		n.tbl = nil

		if at >= 0 {
			v.publish(event.NewListChangedEvent(event.ListItemDeleted, at, ""))
		}
		v.publish(event.NewListChangedEvent(event.ListItemDeleted, header, ""))
		v.shiftPosition(header, -(1 + btoi(at >= 0)))
		return true
	}

	t.reindex(n.ordinal)
	if at >= 0 {
		v.publish(event.NewListChangedEvent(event.ListItemDeleted, at, ""))
		v.shiftPosition(at, -1)
	}
	v.publish(event.NewListChangedEvent(event.ListItemChanged, n.start, ""))
	return true
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}

// SetAllowNewRows turns the placeholder node on or off. Turning it off when
// the placeholder holds rows regroups them into their real nodes.
func (v *View) SetAllowNewRows(allow bool) error {
	if err := v.require("SetAllowNewRows"); err != nil {
		return err
	}
	if v.allowNew == allow {
		return nil
	}
	v.allowNew = allow
	t := v.tbl
	if t == nil {
		return nil
	}

	if allow {
		ph := &Node{placeholder: true, id: v.newID(), view: v, tbl: t}
		t.newRows = ph
		t.nodes = append(t.nodes, ph)
		ph.ordinal = len(t.nodes) - 1
		ph.start = len(t.seq)
		t.seq = append(t.seq, Entry{node: ph, header: true})
		v.publish(event.NewListChangedEvent(event.ListItemAdded, ph.start, ""))
		v.shiftPosition(ph.start, 1)
		return nil
	}

	ph := t.newRows
	if ph == nil {
		return nil
	}
	if len(ph.rows) > 0 {
		return v.rebuild()
	}
	t.seq = t.seq[:ph.start]
	t.nodes = t.nodes[:len(t.nodes)-1]
	t.newRows = nil
	ph.tbl = nil
	v.publish(event.NewListChangedEvent(event.ListItemDeleted, ph.start, ""))
	v.shiftPosition(ph.start, -1)
	return nil
}

// BeginEdit reports whether the entry at display index i may be edited.
// Group headers never may.
func (v *View) BeginEdit(i int) error {
	if err := v.require("BeginEdit"); err != nil {
		return err
	}
	e, ok := v.EntryAt(i)
	if !ok {
		return errors.Wrapf(errors.ErrIndexOutOfRange, "display index %d", i)
	}
	if e.header {
		return errors.Wrapf(errors.ErrHeaderEdit, "display index %d", i)
	}
	return nil
}

// SetField writes value into field of the row at display index i and
// notifies the source, which in turn regroups the view when field is part
// of the key.
func (v *View) SetField(i int, field string, value any) error {
	if err := v.BeginEdit(i); err != nil {
		return err
	}
	if v.accessor == nil {
		return errors.NewNotFoundError("field", field)
	}
	row := v.RowAt(i)
	src := v.sourceIndex(row)
	if src < 0 {
		return errors.Wrapf(errors.ErrInvalidRow, "display index %d is not in the source", i)
	}
	if err := v.accessor.Set(row, field, value); err != nil {
		var acc *errors.AccessorError
		if errors.As(err, &acc) {
			return acc.WithRowIndex(src)
		}
		return err
	}
	v.src.NotifyChanged(src, field)
	return nil
}
