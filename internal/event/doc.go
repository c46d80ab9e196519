// Package event provides the synchronous pub-sub bus groupview uses to
// notify presentation consumers about changes to a grouped view.
//
// # Main Types
//
//   - [Event]: Interface that all events must implement, providing EventType() and Timestamp()
//   - [Bus]: Synchronous pub-sub event dispatcher
//   - [Handler]: Function type for event handlers (func(Event))
//
// # Event Categories
//
// List events describe how the display sequence changed:
//   - [ListChangedEvent]: reset, or a scoped add/change/delete at one display index
//
// View state events:
//   - [PositionChangedEvent]: the view's current index moved
//   - [GroupingChangedEvent]: the group key was set or removed
//   - [RebuildFailedEvent]: a notification-triggered rebuild could not complete
//
// # Delivery
//
// Handlers run synchronously on the publishing goroutine, in registration
// order, specific subscribers before wildcard subscribers. A panicking handler
// is recovered and logged so the remaining handlers still run.
package event
