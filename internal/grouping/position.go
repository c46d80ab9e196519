package grouping

import (
	"github.com/Iron-Ham/groupview/internal/errors"
	"github.com/Iron-Ham/groupview/internal/event"
	"github.com/Iron-Ham/groupview/internal/rowset"
)

// Position returns the current display index, or -1 when the view is empty.
func (v *View) Position() int { return v.position }

// Current returns the entry at the current position.
func (v *View) Current() (Entry, bool) {
	return v.EntryAt(v.position)
}

// CurrentRow returns the row at the current position, or nil when the
// current entry is a header.
func (v *View) CurrentRow() rowset.Row {
	return v.RowAt(v.position)
}

// SetPosition moves the current position, clamped to the display sequence.
func (v *View) SetPosition(i int) error {
	if err := v.require("SetPosition"); err != nil {
		return err
	}
	v.setPosition(i)
	return nil
}

// CurrentNode returns the node whose block contains the current position.
func (v *View) CurrentNode() *Node {
	return v.NodeAt(v.position)
}

// SetCurrentNode moves to the first row of n, or to its header when n is
// collapsed or empty.
func (v *View) SetCurrentNode(n *Node) error {
	if err := v.require("SetCurrentNode"); err != nil {
		return err
	}
	if n == nil || !n.live() {
		return errors.NewNotFoundError("node", "stale")
	}
	i := n.start
	if !n.collapsed && len(n.rows) > 0 {
		i++
	}
	v.setPosition(i)
	return nil
}

func (v *View) clamp(i int) int {
	count := v.Count()
	if count == 0 {
		return -1
	}
	return min(max(i, 0), count-1)
}

func (v *View) setPosition(i int) {
	i = v.clamp(i)
	if i == v.position {
		return
	}
	v.position = i
	v.publish(event.NewPositionChangedEvent(i))
}

// shiftPosition keeps the current entry stable when count entries are
// inserted (count > 0) or removed (count < 0) at display index at.
func (v *View) shiftPosition(at, count int) {
	pos := v.position
	switch {
	case pos < 0:
		pos = 0
	case count > 0 && pos >= at:
		pos += count
	case count < 0 && pos >= at-count:
		pos += count
	case count < 0 && pos >= at:
		pos = at
	}
	v.setPosition(pos)
}

// cursorSnapshot records what the current position refers to before a
// regroup.
type cursorSnapshot struct {
	position     int
	row          rowset.Row
	header       bool
	nodeID       uint64
	firstVisible int
	hasHint      bool
}

func (v *View) snapshot() cursorSnapshot {
	s := cursorSnapshot{position: v.position}
	if e, ok := v.EntryAt(v.position); ok {
		if e.header {
			s.header = true
			s.nodeID = e.node.id
		} else {
			s.row = e.row
		}
	}
	if v.hint != nil {
		s.firstVisible, s.hasHint = v.hint.FirstVisible()
	}
	return s
}

// restore re-resolves the snapshot against the current grouping. A header
// maps to its node's new header, a row to its new index or to the header of
// the collapsed node hiding it. Anything else keeps the raw index.
func (v *View) restore(s cursorSnapshot) {
	target := s.position
	switch {
	case s.position < 0:
		target = 0
	case s.header && v.tbl != nil:
		if n := v.tbl.byID(s.nodeID); n != nil {
			target = n.start
		}
	case s.row != nil:
		target = v.resolveRow(s.row, s.position)
	}
	v.setPosition(target)

	if s.hasHint && s.firstVisible >= 0 && s.firstVisible < v.Count() {
		if err := v.hint.SetFirstVisible(s.firstVisible); err != nil {
			v.logger.Debug("scroll hint not restored", "error", err.Error())
		}
	}
}

// resolveRow returns the display index of row, the header of the collapsed
// node hiding it, or fallback.
func (v *View) resolveRow(row rowset.Row, fallback int) int {
	if i := v.IndexOf(row); i >= 0 {
		return i
	}
	if n := v.NodeOf(row); n != nil {
		return n.start
	}
	return fallback
}

// Cursor is an externally maintained current-record pointer over the same
// source as the view.
type Cursor interface {
	Len() int
	Position() int
	Current() rowset.Row
	OnChanged(fn func()) (unsubscribe func())
}

// PositionSync keeps a view's position on the row an external cursor points
// at.
type PositionSync struct {
	view        *View
	cursor      Cursor
	unsubscribe func()
	syncing     bool
}

// AttachCursor starts following c, replacing any previous cursor, and syncs
// immediately.
func (v *View) AttachCursor(c Cursor) *PositionSync {
	v.DetachCursor()
	ps := &PositionSync{view: v, cursor: c}
	ps.unsubscribe = c.OnChanged(func() { ps.Check() })
	v.sync = ps
	ps.Check()
	return ps
}

// DetachCursor stops following the external cursor.
func (v *View) DetachCursor() {
	if v.sync == nil {
		return
	}
	if v.sync.unsubscribe != nil {
		v.sync.unsubscribe()
	}
	v.sync = nil
}

func (v *View) syncCursor() {
	if v.sync != nil {
		v.sync.Check()
	}
}

// NeedsSync reports whether the cursor and the view disagree: either on the
// raw index or, when the indexes match, on the row they point at. A header
// agrees with any cursor row inside its node.
func (s *PositionSync) NeedsSync() bool {
	v := s.view
	if s.cursor == nil || s.syncing || v.rebuilding || v.src == nil {
		return false
	}
	if s.cursor.Len() == 0 {
		return false
	}
	if e, ok := v.Current(); ok && e.header {
		if row := s.cursor.Current(); row != nil && v.NodeOf(row) == e.node {
			return false
		}
	}
	cp := s.cursor.Position()
	if cp != v.position {
		return true
	}
	if cp < 0 {
		return false
	}
	return v.CurrentRow() != s.cursor.Current()
}

// Sync moves the view to the cursor's current row. A row hidden in a
// collapsed node resolves to that node's header.
func (s *PositionSync) Sync() {
	v := s.view
	if v.src == nil {
		return
	}
	s.syncing = true
	defer func() { s.syncing = false }()

	row := s.cursor.Current()
	if row == nil {
		return
	}
	v.setPosition(v.resolveRow(row, v.position))
}

// Check syncs when needed and reports whether it did.
func (s *PositionSync) Check() bool {
	if !s.NeedsSync() {
		return false
	}
	s.Sync()
	return true
}

// Detach stops following the cursor.
func (s *PositionSync) Detach() {
	if s.view.sync == s {
		s.view.DetachCursor()
	}
}
