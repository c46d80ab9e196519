// Package testutil provides testing utilities for groupview tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/Iron-Ham/groupview/internal/event"
	"github.com/Iron-Ham/groupview/internal/rowset"
)

// Item is the row type used across grouping tests.
type Item struct {
	Name     string
	Category string
	Score    int
	When     time.Time
	Rank     *int
}

// Items creates one item per category, named row1, row2 and so on, with
// Score equal to the item's 1-based position.
func Items(categories ...string) []*Item {
	items := make([]*Item, len(categories))
	for i, c := range categories {
		items[i] = &Item{
			Name:     fmt.Sprintf("row%d", i+1),
			Category: c,
			Score:    i + 1,
		}
	}
	return items
}

// NewItemList wraps items in a rowset.List with a struct accessor.
func NewItemList(t *testing.T, items ...*Item) (*rowset.List, *rowset.StructAccessor[Item]) {
	t.Helper()

	acc := rowset.NewStructAccessor[Item]()
	rows := make([]rowset.Row, len(items))
	for i, it := range items {
		rows[i] = it
	}
	list, err := rowset.NewList(acc, rows...)
	if err != nil {
		t.Fatalf("failed to create item list: %v", err)
	}
	return list, acc
}

// IntPtr returns a pointer to n.
func IntPtr(n int) *int {
	return &n
}

// WriteDataset writes content to name inside a fresh temp directory and
// returns the file path.
func WriteDataset(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write dataset %s: %v", name, err)
	}
	return path
}

// Recorder collects every event published on a bus.
type Recorder struct {
	bus    *event.Bus
	id     string
	Events []event.Event
}

// NewRecorder subscribes a recorder to every event on bus. The subscription
// is removed when the test completes.
func NewRecorder(t *testing.T, bus *event.Bus) *Recorder {
	t.Helper()

	r := &Recorder{bus: bus}
	r.id = bus.SubscribeAll(func(e event.Event) {
		r.Events = append(r.Events, e)
	})
	t.Cleanup(func() { bus.Unsubscribe(r.id) })
	return r
}

// Types returns the event types in publish order.
func (r *Recorder) Types() []string {
	types := make([]string, len(r.Events))
	for i, e := range r.Events {
		types[i] = e.EventType()
	}
	return types
}

// Count returns how many events of eventType were recorded.
func (r *Recorder) Count(eventType string) int {
	n := 0
	for _, e := range r.Events {
		if e.EventType() == eventType {
			n++
		}
	}
	return n
}

// ListChanges returns the recorded list change events.
func (r *Recorder) ListChanges() []event.ListChangedEvent {
	var out []event.ListChangedEvent
	for _, e := range r.Events {
		if lc, ok := e.(event.ListChangedEvent); ok {
			out = append(out, lc)
		}
	}
	return out
}

// Has reports whether an event of eventType was recorded.
func (r *Recorder) Has(eventType string) bool {
	return slices.ContainsFunc(r.Events, func(e event.Event) bool {
		return e.EventType() == eventType
	})
}

// Reset discards the recorded events.
func (r *Recorder) Reset() {
	r.Events = nil
}
