package event

import "time"

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.action" (e.g., "list.reset", "view.position_changed")
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// Event type identifiers.
const (
	TypeListReset       = "list.reset"
	TypeListItemAdded   = "list.item_added"
	TypeListItemChanged = "list.item_changed"
	TypeListItemDeleted = "list.item_deleted"
	TypePositionChanged = "view.position_changed"
	TypeGroupingChanged = "view.grouping_changed"
	TypeRebuildFailed   = "view.rebuild_failed"
)

// -----------------------------------------------------------------------------
// List Events
// -----------------------------------------------------------------------------

// ListChange identifies how the display sequence changed.
type ListChange int

const (
	// ListReset means the whole display sequence must be re-read.
	ListReset ListChange = iota
	// ListItemAdded means one entry was inserted at Index.
	ListItemAdded
	// ListItemChanged means the entry at Index changed in place.
	ListItemChanged
	// ListItemDeleted means the entry formerly at Index was removed.
	ListItemDeleted
)

// String returns the event type identifier for the change.
func (c ListChange) String() string {
	switch c {
	case ListItemAdded:
		return TypeListItemAdded
	case ListItemChanged:
		return TypeListItemChanged
	case ListItemDeleted:
		return TypeListItemDeleted
	default:
		return TypeListReset
	}
}

// ListChangedEvent is emitted whenever the display sequence changes.
type ListChangedEvent struct {
	baseEvent
	Change ListChange
	Index  int    // Display index for scoped changes, -1 for resets
	Field  string // Changed field for ListItemChanged, if known
}

// NewListChangedEvent creates a ListChangedEvent.
func NewListChangedEvent(change ListChange, index int, field string) ListChangedEvent {
	return ListChangedEvent{
		baseEvent: newBaseEvent(change.String()),
		Change:    change,
		Index:     index,
		Field:     field,
	}
}

// NewResetEvent creates a ListChangedEvent for a full reset.
func NewResetEvent() ListChangedEvent {
	return NewListChangedEvent(ListReset, -1, "")
}

// -----------------------------------------------------------------------------
// View State Events
// -----------------------------------------------------------------------------

// PositionChangedEvent is emitted when the view's current index changes.
type PositionChangedEvent struct {
	baseEvent
	Position int
}

// NewPositionChangedEvent creates a PositionChangedEvent.
func NewPositionChangedEvent(position int) PositionChangedEvent {
	return PositionChangedEvent{
		baseEvent: newBaseEvent(TypePositionChanged),
		Position:  position,
	}
}

// GroupingChangedEvent is emitted when grouping is set, replaced or removed.
type GroupingChangedEvent struct {
	baseEvent
	Key     string // Display name of the key selector, empty when ungrouped
	Grouped bool
}

// NewGroupingChangedEvent creates a GroupingChangedEvent.
func NewGroupingChangedEvent(key string, grouped bool) GroupingChangedEvent {
	return GroupingChangedEvent{
		baseEvent: newBaseEvent(TypeGroupingChanged),
		Key:       key,
		Grouped:   grouped,
	}
}

// RebuildFailedEvent is emitted when a rebuild triggered by an upstream
// notification fails. Rebuilds requested through a method return the error instead.
type RebuildFailedEvent struct {
	baseEvent
	Err error
}

// NewRebuildFailedEvent creates a RebuildFailedEvent.
func NewRebuildFailedEvent(err error) RebuildFailedEvent {
	return RebuildFailedEvent{
		baseEvent: newBaseEvent(TypeRebuildFailed),
		Err:       err,
	}
}
