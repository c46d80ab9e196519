package grouping

import (
	"slices"
	"time"

	"github.com/Iron-Ham/groupview/internal/compare"
	"github.com/Iron-Ham/groupview/internal/errors"
	"github.com/Iron-Ham/groupview/internal/event"
	"github.com/Iron-Ham/groupview/internal/keysel"
)

// SetGroupKey groups the source by sel. A nil selector removes grouping.
// Setting a selector equal to the current one does nothing. On failure the
// previous grouping is kept.
func (v *View) SetGroupKey(sel *keysel.Selector) error {
	if err := v.require("SetGroupKey"); err != nil {
		return err
	}
	if sel == nil {
		return v.RemoveGrouping()
	}
	if v.selector != nil && v.selector.Equal(sel) {
		return nil
	}

	effective := sel
	if !v.typedKeys && !sel.IsTextual() {
		effective = keysel.Text(sel)
	}

	prevSel, prevEff, prevCmp, prevTbl := v.selector, v.effective, v.cmp, v.tbl
	v.selector = sel
	v.effective = effective
	v.cmp = compare.New(v.resolver, effective.ValueType())

	snap := v.snapshot()
	tbl, err := v.buildTable(nil)
	if err != nil {
		v.selector, v.effective, v.cmp, v.tbl = prevSel, prevEff, prevCmp, prevTbl
		v.logger.Error("set group key failed", "key", sel.String(), "error", err.Error())
		return err
	}
	v.tbl = tbl
	v.restore(snap)

	v.logger.Info("grouping changed", "key", sel.String(), "nodes", len(tbl.nodes))
	v.publish(event.NewResetEvent())
	v.publish(event.NewGroupingChangedEvent(sel.String(), true))
	v.syncCursor()
	return nil
}

// SetGroupField groups the source by the named field. An empty name removes
// grouping. An unknown field fails with a NotFoundError and leaves the
// grouping unchanged.
func (v *View) SetGroupField(name string) error {
	if err := v.require("SetGroupField"); err != nil {
		return err
	}
	if name == "" {
		return v.RemoveGrouping()
	}
	if v.accessor == nil {
		return errors.NewNotFoundError("field", name)
	}
	if v.selector != nil && v.selector.Kind() == keysel.KindProperty && v.selector.Field() == name {
		return nil
	}
	sel, err := keysel.Property(v.accessor, name)
	if err != nil {
		return err
	}
	return v.SetGroupKey(sel)
}

// RemoveGrouping shows the source rows flat, in source order.
func (v *View) RemoveGrouping() error {
	if err := v.require("RemoveGrouping"); err != nil {
		return err
	}
	if v.selector == nil {
		return nil
	}
	snap := v.snapshot()
	v.selector, v.effective, v.cmp, v.tbl = nil, nil, nil, nil
	v.restore(snap)

	v.logger.Info("grouping removed")
	v.publish(event.NewResetEvent())
	v.publish(event.NewGroupingChangedEvent("", false))
	v.syncCursor()
	return nil
}

// Rebuild regroups the source from scratch, keeping node identity and
// collapsed state for keys that still exist.
func (v *View) Rebuild() error {
	if err := v.require("Rebuild"); err != nil {
		return err
	}
	if v.tbl == nil {
		v.publish(event.NewResetEvent())
		return nil
	}
	return v.rebuild()
}

// SetSortDirection changes the node order in place. SortNone restores the
// order of first appearance.
func (v *View) SetSortDirection(d SortDirection) error {
	if err := v.require("SetSortDirection"); err != nil {
		return err
	}
	if d == v.direction {
		return nil
	}
	v.direction = d
	if v.tbl == nil {
		return nil
	}

	snap := v.snapshot()
	t := v.tbl
	if t.newRows != nil {
		t.nodes = t.nodes[:len(t.nodes)-1]
	}
	v.sortNodes(t.nodes)
	if t.newRows != nil {
		t.nodes = append(t.nodes, t.newRows)
	}
	t.flatten()
	v.restore(snap)

	v.logger.Debug("sort direction changed", "direction", d.String())
	v.publish(event.NewResetEvent())
	return nil
}

// ExpandAll shows the rows of every node.
func (v *View) ExpandAll() error {
	return v.setAllCollapsed("ExpandAll", false)
}

// CollapseAll hides the rows of every node except the placeholder.
func (v *View) CollapseAll() error {
	return v.setAllCollapsed("CollapseAll", true)
}

func (v *View) setAllCollapsed(op string, collapsed bool) error {
	if err := v.require(op); err != nil {
		return err
	}
	if v.tbl == nil {
		return nil
	}
	snap := v.snapshot()
	for _, n := range v.tbl.nodes {
		if n.placeholder {
			continue
		}
		n.collapsed = collapsed
	}
	v.tbl.flatten()
	v.restore(snap)

	v.logger.Debug("collapse state changed", "collapsed", collapsed)
	v.publish(event.NewResetEvent())
	return nil
}

// rebuild regroups into a fresh table and swaps it in. Reentrant calls made
// while a rebuild is in progress, including from reset handlers, do nothing.
func (v *View) rebuild() error {
	if v.rebuilding || v.tbl == nil {
		return nil
	}
	err := v.rebuildGuarded()
	if err == nil {
		v.syncCursor()
	}
	return err
}

func (v *View) rebuildGuarded() error {
	v.rebuilding = true
	defer func() { v.rebuilding = false }()

	start := time.Now()
	snap := v.snapshot()
	tbl, err := v.buildTable(v.tbl)
	if err != nil {
		return err
	}
	v.tbl = tbl
	v.restore(snap)

	v.logger.Debug("rebuilt",
		"nodes", len(tbl.nodes),
		"entries", len(tbl.seq),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	v.publish(event.NewResetEvent())
	return nil
}

// buildTable groups every source row by the effective selector. Node
// identity and collapsed state carry over from prev for equal keys.
func (v *View) buildTable(prev *table) (*table, error) {
	sel := v.effective
	next := newTable()

	var previous map[uint64][]*Node
	if prev != nil {
		previous = make(map[uint64][]*Node, len(prev.nodes))
		for _, n := range prev.nodes {
			if !n.placeholder {
				previous[n.hash] = append(previous[n.hash], n)
			}
		}
	}

	buckets := make(map[uint64][]*Node)
	for i := 0; i < v.src.Len(); i++ {
		row := v.src.At(i)
		key, err := sel.Key(row)
		if err != nil {
			var acc *errors.AccessorError
			if errors.As(err, &acc) {
				return nil, acc.WithRowIndex(i)
			}
			return nil, errors.NewAccessorError(sel.Name(), err).WithRowIndex(i)
		}
		if compare.IsNull(key) {
			key = nil
		}

		h := v.cmp.Hash(key)
		n := v.find(buckets[h], key)
		if n == nil {
			n = &Node{
				key:       key,
				hash:      h,
				firstSeen: len(next.nodes),
				view:      v,
				tbl:       next,
			}
			if old := v.find(previous[h], key); old != nil {
				n.id = old.id
				n.collapsed = old.collapsed
			} else {
				n.id = v.newID()
				n.collapsed = v.startCollapsed
			}
			buckets[h] = append(buckets[h], n)
			next.nodes = append(next.nodes, n)
		}
		n.rows = append(n.rows, row)
		next.owner[row] = n
	}

	if v.direction != SortNone {
		v.sortNodes(next.nodes)
	}

	if v.allowNew {
		ph := &Node{placeholder: true, view: v, tbl: next}
		if prev != nil && prev.newRows != nil {
			ph.id = prev.newRows.id
		} else {
			ph.id = v.newID()
		}
		next.newRows = ph
		next.nodes = append(next.nodes, ph)
	}

	next.flatten()
	return next, nil
}

func (v *View) find(bucket []*Node, key any) *Node {
	for _, n := range bucket {
		if v.cmp.Equal(n.key, key) {
			return n
		}
	}
	return nil
}

// sortNodes orders nodes by key in the current direction. Nodes with equal
// keys, and every node under SortNone, keep their order of first appearance.
func (v *View) sortNodes(nodes []*Node) {
	if v.direction == SortNone {
		slices.SortFunc(nodes, func(a, b *Node) int { return a.firstSeen - b.firstSeen })
		return
	}
	v.cmp.Descending = v.direction == SortDescending
	order := compare.Chain{
		compare.OrderingFunc(func(a, b any) int {
			return v.cmp.Compare(a.(*Node).key, b.(*Node).key)
		}),
	}.ThenBy(compare.OrderingFunc(func(a, b any) int {
		return a.(*Node).firstSeen - b.(*Node).firstSeen
	}))
	slices.SortFunc(nodes, func(a, b *Node) int {
		return order.Compare(a, b)
	})
}
