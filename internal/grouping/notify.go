package grouping

import (
	"github.com/Iron-Ham/groupview/internal/event"
	"github.com/Iron-Ham/groupview/internal/rowset"
)

// onSourceChange applies an upstream change. An ungrouped view forwards the
// change as is. A grouped view patches in place where the change cannot move
// a row between nodes and regroups otherwise.
func (v *View) onSourceChange(c rowset.Change) {
	if v.rebuilding {
		return
	}
	if v.tbl == nil {
		v.forward(c)
		v.syncCursor()
		return
	}

	switch c.Kind {
	case rowset.ItemChanged:
		row := v.src.At(c.Index)
		if v.inPlaceholder(row) || (c.Field != "" && !v.effective.MatchesField(c.Field)) {
			if i := v.IndexOf(row); i >= 0 {
				v.publish(event.NewListChangedEvent(event.ListItemChanged, i, c.Field))
			}
			return
		}
		v.rebuildFromNotification(c)

	case rowset.ItemAdded:
		if ph := v.tbl.newRows; ph != nil {
			ph.Add(v.src.At(c.Index))
			v.syncCursor()
			return
		}
		v.rebuildFromNotification(c)

	default:
		v.rebuildFromNotification(c)
	}
}

func (v *View) inPlaceholder(row rowset.Row) bool {
	ph := v.tbl.newRows
	return ph != nil && v.tbl.owner[row] == ph
}

func (v *View) rebuildFromNotification(c rowset.Change) {
	if err := v.rebuild(); err != nil {
		v.logger.Warn("rebuild after upstream change failed",
			"change", c.Kind.String(),
			"index", c.Index,
			"error", err.Error(),
		)
		v.publish(event.NewRebuildFailedEvent(err))
	}
}

// forward republishes an upstream change for an ungrouped view.
func (v *View) forward(c rowset.Change) {
	switch c.Kind {
	case rowset.ItemAdded:
		v.publish(event.NewListChangedEvent(event.ListItemAdded, c.Index, ""))
		v.shiftPosition(c.Index, 1)
	case rowset.ItemDeleted:
		v.publish(event.NewListChangedEvent(event.ListItemDeleted, c.Index, ""))
		v.shiftPosition(c.Index, -1)
	case rowset.ItemChanged:
		v.publish(event.NewListChangedEvent(event.ListItemChanged, c.Index, c.Field))
	default:
		v.publish(event.NewResetEvent())
		v.setPosition(v.position)
	}
}
