// Package grouping materializes a flat, observable row collection into a
// grouped display sequence: a header entry per distinct key, optionally
// followed by the rows sharing that key. The view keeps the sequence in sync
// with upstream changes, preserves the current position across regroups and
// lets individual groups be collapsed or expanded.
//
// A View is not safe for concurrent use. All calls, including upstream
// change notifications, must come from one goroutine.
package grouping

import (
	"fmt"
	"strings"

	"github.com/Iron-Ham/groupview/internal/compare"
	"github.com/Iron-Ham/groupview/internal/errors"
	"github.com/Iron-Ham/groupview/internal/event"
	"github.com/Iron-Ham/groupview/internal/keysel"
	"github.com/Iron-Ham/groupview/internal/logging"
	"github.com/Iron-Ham/groupview/internal/rowset"
)

// DefaultNewRowsHeader is the header text of the placeholder node.
const DefaultNewRowsHeader = "New Rows"

// SortDirection orders nodes by key.
type SortDirection int

const (
	// SortAscending orders nodes by ascending key with null keys first.
	SortAscending SortDirection = iota
	// SortDescending orders nodes by descending key with null keys last.
	SortDescending
	// SortNone keeps nodes in order of first appearance in the source.
	SortNone
)

// String returns the configuration name of the direction.
func (d SortDirection) String() string {
	switch d {
	case SortAscending:
		return "asc"
	case SortDescending:
		return "desc"
	case SortNone:
		return "none"
	default:
		return "unknown"
	}
}

// ParseSortDirection parses "asc", "desc" or "none".
func ParseSortDirection(s string) (SortDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return SortAscending, nil
	case "desc", "descending":
		return SortDescending, nil
	case "none":
		return SortNone, nil
	}
	return SortAscending, errors.NewValidationError("must be asc, desc or none").WithValue(s)
}

// ScrollHint is implemented by presentations that can report and restore
// their first visible display index. The view restores it after a rebuild
// on a best-effort basis.
type ScrollHint interface {
	FirstVisible() (int, bool)
	SetFirstVisible(i int) error
}

// Option configures a View.
type Option func(*View)

// WithName names the view in logs.
func WithName(name string) Option {
	return func(v *View) { v.name = name }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(v *View) { v.logger = l }
}

// WithBus sets the bus that receives change and position events.
func WithBus(b *event.Bus) Option {
	return func(v *View) { v.bus = b }
}

// WithResolver sets the comparison strategy resolver.
func WithResolver(r *compare.Resolver) Option {
	return func(v *View) { v.resolver = r }
}

// WithSortDirection sets the initial node order.
func WithSortDirection(d SortDirection) Option {
	return func(v *View) { v.direction = d }
}

// WithAllowNewRows enables the placeholder node for appended rows.
func WithAllowNewRows(allow bool) Option {
	return func(v *View) { v.allowNew = allow }
}

// WithTypedKeys keeps non-textual keys typed instead of comparing them as
// text.
func WithTypedKeys(typed bool) Option {
	return func(v *View) { v.typedKeys = typed }
}

// WithStartCollapsed makes newly created nodes start collapsed.
func WithStartCollapsed(collapsed bool) Option {
	return func(v *View) { v.startCollapsed = collapsed }
}

// WithNewRowsHeader sets the header text of the placeholder node.
func WithNewRowsHeader(header string) Option {
	return func(v *View) { v.newRowsHeader = header }
}

// WithDisplayFunc installs a hook that can rewrite or cancel header display
// data.
func WithDisplayFunc(fn DisplayFunc) Option {
	return func(v *View) { v.display = fn }
}

// WithScrollHint sets the presentation scroll hint.
func WithScrollHint(h ScrollHint) Option {
	return func(v *View) { v.hint = h }
}

// View is a grouped projection of a rowset.Source.
type View struct {
	name   string
	logger *logging.Logger
	bus    *event.Bus

	src         rowset.Source
	accessor    rowset.FieldAccessor
	unsubscribe func()

	resolver       *compare.Resolver
	selector       *keysel.Selector
	effective      *keysel.Selector
	cmp            *compare.Comparer
	direction      SortDirection
	allowNew       bool
	typedKeys      bool
	startCollapsed bool
	newRowsHeader  string
	display        DisplayFunc
	hint           ScrollHint

	tbl        *table
	position   int
	rebuilding bool
	nextID     uint64
	sync       *PositionSync
}

// New creates a detached view.
func New(opts ...Option) *View {
	v := &View{
		name:          "view",
		position:      -1,
		newRowsHeader: DefaultNewRowsHeader,
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.logger == nil {
		v.logger = logging.NopLogger()
	}
	v.logger = v.logger.WithView(v.name)
	if v.bus == nil {
		v.bus = event.NewBus(v.logger)
	}
	if v.resolver == nil {
		v.resolver = compare.Default()
	}
	return v
}

// Bus returns the bus the view publishes to.
func (v *View) Bus() *event.Bus { return v.bus }

// Attach binds the view to src. Field names resolve through accessor. Any
// previous source is detached and grouping is removed.
func (v *View) Attach(src rowset.Source, accessor rowset.FieldAccessor) error {
	if src == nil {
		return errors.NewValidationError("source is required").WithField("source")
	}
	v.Detach()
	v.src = src
	v.accessor = accessor
	v.unsubscribe = src.Subscribe(v.onSourceChange)
	v.position = -1
	if src.Len() > 0 {
		v.position = 0
	}
	v.logger.Info("source attached", "rows", src.Len())
	v.publish(event.NewResetEvent())
	v.syncCursor()
	return nil
}

// Detach unbinds the view from its source and drops any grouping.
func (v *View) Detach() {
	if v.src == nil {
		return
	}
	if v.unsubscribe != nil {
		v.unsubscribe()
		v.unsubscribe = nil
	}
	v.src = nil
	v.accessor = nil
	v.selector = nil
	v.effective = nil
	v.cmp = nil
	v.tbl = nil
	v.position = -1
	v.logger.Info("source detached")
	v.publish(event.NewResetEvent())
}

// Attached reports whether a source is bound.
func (v *View) Attached() bool { return v.src != nil }

func (v *View) require(op string) error {
	if v.src == nil {
		return errors.NewPreconditionError(op, errors.ErrNotAttached)
	}
	return nil
}

// Grouped reports whether a grouping key is set.
func (v *View) Grouped() bool { return v.tbl != nil }

// Selector returns the grouping key as set by the caller, or nil.
func (v *View) Selector() *keysel.Selector { return v.selector }

// SortDirection returns the node order.
func (v *View) SortDirection() SortDirection { return v.direction }

// AllowNewRows reports whether appended rows go to the placeholder node.
func (v *View) AllowNewRows() bool { return v.allowNew }

// Count returns the length of the display sequence.
func (v *View) Count() int {
	if v.src == nil {
		return 0
	}
	if v.tbl == nil {
		return v.src.Len()
	}
	return len(v.tbl.seq)
}

// EntryAt returns the display entry at index i.
func (v *View) EntryAt(i int) (Entry, bool) {
	if i < 0 || i >= v.Count() {
		return Entry{}, false
	}
	if v.tbl == nil {
		return Entry{row: v.src.At(i)}, true
	}
	return v.tbl.seq[i], true
}

// RowAt returns the row at display index i, or nil for a header or an
// index out of range.
func (v *View) RowAt(i int) rowset.Row {
	e, ok := v.EntryAt(i)
	if !ok {
		return nil
	}
	return e.row
}

// IsGroupRow reports whether display index i is a node header.
func (v *View) IsGroupRow(i int) bool {
	e, ok := v.EntryAt(i)
	return ok && e.header
}

// NodeAt returns the node whose block contains display index i: the node
// itself for a header, the owning node for a member row. It returns nil when
// ungrouped or out of range.
func (v *View) NodeAt(i int) *Node {
	if v.tbl == nil {
		return nil
	}
	return v.tbl.nodeAt(i)
}

// IndexOf returns the display index of row, or -1 when the row is absent or
// hidden inside a collapsed node.
func (v *View) IndexOf(row rowset.Row) int {
	if v.src == nil || row == nil {
		return -1
	}
	if v.tbl == nil {
		for i := 0; i < v.src.Len(); i++ {
			if v.src.At(i) == row {
				return i
			}
		}
		return -1
	}
	if i, ok := v.tbl.index[row]; ok {
		return i
	}
	return -1
}

// NodeOf returns the node that owns row, or nil.
func (v *View) NodeOf(row rowset.Row) *Node {
	if v.tbl == nil {
		return nil
	}
	return v.tbl.owner[row]
}

// Nodes returns the nodes in display order, including the placeholder.
func (v *View) Nodes() []*Node {
	if v.tbl == nil {
		return nil
	}
	out := make([]*Node, len(v.tbl.nodes))
	copy(out, v.tbl.nodes)
	return out
}

// Placeholder returns the node collecting appended rows, or nil.
func (v *View) Placeholder() *Node {
	if v.tbl == nil {
		return nil
	}
	return v.tbl.newRows
}

// BaseCount returns the number of rows in the source.
func (v *View) BaseCount() int {
	if v.src == nil {
		return 0
	}
	return v.src.Len()
}

// BaseRow returns the source row at index i.
func (v *View) BaseRow(i int) (rowset.Row, error) {
	if err := v.require("BaseRow"); err != nil {
		return nil, err
	}
	if i < 0 || i >= v.src.Len() {
		return nil, errors.Wrapf(errors.ErrIndexOutOfRange, "source index %d", i)
	}
	return v.src.At(i), nil
}

func (v *View) sourceIndex(row rowset.Row) int {
	for i := 0; i < v.src.Len(); i++ {
		if v.src.At(i) == row {
			return i
		}
	}
	return -1
}

func (v *View) publish(e event.Event) {
	v.bus.Publish(e)
}

func (v *View) newID() uint64 {
	v.nextID++
	return v.nextID
}

// String describes the view for logs.
func (v *View) String() string {
	key := "none"
	if v.selector != nil {
		key = v.selector.String()
	}
	return fmt.Sprintf("%s[key=%s, entries=%d]", v.name, key, v.Count())
}
