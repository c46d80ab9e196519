package grouping

import (
	"github.com/Iron-Ham/groupview/internal/keysel"
)

// Display is what a presentation shows for a node header.
type Display struct {
	Node        *Node
	Header      string // Name of the grouping key, or the placeholder header
	Value       any    // The node key
	Text        string // The node key formatted for display
	Count       int
	Collapsed   bool
	Selected    bool
	Placeholder bool

	// Cancel suppresses the header when set by a DisplayFunc.
	Cancel bool
}

// DisplayFunc may rewrite the display data of a header before it is shown.
type DisplayFunc func(d *Display)

// Display returns the header display data for n. The second result is false
// when a DisplayFunc cancelled it.
func (v *View) Display(n *Node, selected bool) (Display, bool) {
	d := Display{
		Node:        n,
		Value:       n.key,
		Text:        keysel.FormatKey(n.key),
		Count:       len(n.rows),
		Collapsed:   n.collapsed,
		Selected:    selected,
		Placeholder: n.placeholder,
	}
	switch {
	case n.placeholder:
		d.Header = v.newRowsHeader
		d.Text = ""
	case v.selector != nil:
		d.Header = v.selector.Name()
	}
	if v.display != nil {
		v.display(&d)
	}
	return d, !d.Cancel
}
