package grouping

import (
	"slices"
	"sort"

	"github.com/Iron-Ham/groupview/internal/rowset"
)

// Entry is one slot of the display sequence: either a node header or a
// member row of the node.
type Entry struct {
	node   *Node
	row    rowset.Row
	header bool
}

// IsHeader reports whether the entry is a node header.
func (e Entry) IsHeader() bool { return e.header }

// Node returns the node that owns the entry. It is nil for rows of an
// ungrouped view.
func (e Entry) Node() *Node { return e.node }

// Row returns the row of a member entry, or nil for a header.
func (e Entry) Row() rowset.Row { return e.row }

// Node is one group: a distinct key and the rows that share it, in source
// order. Node values are rebuilt on every regroup; ID is stable across
// rebuilds for as long as a row with an equal key exists.
type Node struct {
	id          uint64
	key         any
	hash        uint64
	rows        []rowset.Row
	collapsed   bool
	start       int
	ordinal     int
	firstSeen   int
	placeholder bool

	view *View
	tbl  *table
}

// ID returns the stable identity of the node.
func (n *Node) ID() uint64 { return n.id }

// Key returns the group key shared by every member row.
func (n *Node) Key() any { return n.key }

// Len returns the number of member rows.
func (n *Node) Len() int { return len(n.rows) }

// Rows returns the member rows in source order.
func (n *Node) Rows() []rowset.Row { return slices.Clone(n.rows) }

// Row returns the i-th member row.
func (n *Node) Row(i int) rowset.Row { return n.rows[i] }

// FirstRow returns the first member row, or nil when the node is empty.
func (n *Node) FirstRow() rowset.Row {
	if len(n.rows) == 0 {
		return nil
	}
	return n.rows[0]
}

// Contains reports whether row is a member of the node.
func (n *Node) Contains(row rowset.Row) bool {
	return slices.Contains(n.rows, row)
}

// Collapsed reports whether the member rows are hidden.
func (n *Node) Collapsed() bool { return n.collapsed }

// StartIndex returns the display index of the node header.
func (n *Node) StartIndex() int { return n.start }

// Ordinal returns the position of the node among all nodes.
func (n *Node) Ordinal() int { return n.ordinal }

// LastIndex returns the display index of the last entry the node occupies.
func (n *Node) LastIndex() int {
	if n.collapsed {
		return n.start
	}
	return n.start + len(n.rows)
}

// IsPlaceholder reports whether this is the catch-all node for rows appended
// since the last rebuild.
func (n *Node) IsPlaceholder() bool { return n.placeholder }

// live reports whether the node belongs to the view's current grouping.
func (n *Node) live() bool {
	return n.view != nil && n.tbl != nil && n.view.tbl == n.tbl
}

// SetCollapsed hides or shows the member rows. It does nothing on a node
// from an earlier grouping and the placeholder cannot be collapsed.
func (n *Node) SetCollapsed(collapsed bool) {
	if n.view != nil {
		n.view.setCollapsed(n, collapsed)
	}
}

// Toggle flips the collapsed state.
func (n *Node) Toggle() {
	n.SetCollapsed(!n.collapsed)
}

// Add appends row to the node and returns its display index, or -1 when the
// row is hidden or the node is stale.
func (n *Node) Add(row rowset.Row) int {
	if n.view == nil {
		return -1
	}
	return n.view.nodeAdd(n, row)
}

// Remove removes row from the node. A node left empty is removed from the
// grouping unless it is the placeholder.
func (n *Node) Remove(row rowset.Row) bool {
	if n.view == nil {
		return false
	}
	return n.view.nodeRemove(n, row)
}

// table is one complete grouping: the ordered nodes, the flattened display
// sequence and the lookup indexes. A View swaps tables wholesale on rebuild.
type table struct {
	nodes   []*Node
	seq     []Entry
	index   map[rowset.Row]int   // visible row -> display index
	owner   map[rowset.Row]*Node // row -> owning node
	newRows *Node
}

func newTable() *table {
	return &table{
		index: make(map[rowset.Row]int),
		owner: make(map[rowset.Row]*Node),
	}
}

// flatten rebuilds the display sequence and indexes from the node list.
func (t *table) flatten() {
	size := len(t.nodes)
	for _, n := range t.nodes {
		if !n.collapsed {
			size += len(n.rows)
		}
	}
	t.seq = make([]Entry, 0, size)
	clear(t.index)
	for i, n := range t.nodes {
		n.ordinal = i
		n.start = len(t.seq)
		t.seq = append(t.seq, Entry{node: n, header: true})
		if n.collapsed {
			continue
		}
		for _, r := range n.rows {
			t.index[r] = len(t.seq)
			t.seq = append(t.seq, Entry{node: n, row: r})
		}
	}
}

// reindex recomputes start and ordinal for nodes[from:] and refreshes the
// row index for every entry from the first of those nodes onward.
func (t *table) reindex(from int) {
	next := 0
	if from > 0 {
		next = t.nodes[from-1].LastIndex() + 1
	}
	first := next
	for i := from; i < len(t.nodes); i++ {
		n := t.nodes[i]
		n.ordinal = i
		n.start = next
		next = n.LastIndex() + 1
	}
	for j := first; j < len(t.seq); j++ {
		if e := t.seq[j]; !e.header {
			t.index[e.row] = j
		}
	}
}

// nodeAt returns the node whose block contains display index i.
func (t *table) nodeAt(i int) *Node {
	if i < 0 || i >= len(t.seq) {
		return nil
	}
	k := sort.Search(len(t.nodes), func(k int) bool { return t.nodes[k].start > i })
	if k == 0 {
		return nil
	}
	return t.nodes[k-1]
}

func (t *table) byID(id uint64) *Node {
	for _, n := range t.nodes {
		if n.id == id {
			return n
		}
	}
	return nil
}
