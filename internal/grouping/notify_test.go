package grouping

import (
	"reflect"
	"testing"

	"github.com/Iron-Ham/groupview/internal/errors"
	"github.com/Iron-Ham/groupview/internal/event"
	"github.com/Iron-Ham/groupview/internal/keysel"
	"github.com/Iron-Ham/groupview/internal/rowset"
	"github.com/Iron-Ham/groupview/internal/testutil"
)

func TestNonKeyChangeIsScoped(t *testing.T) {
	v, list, _ := setup(t, []string{"b", "a", "a", "c"})
	groupBy(t, v, "Category")
	ids := v.Nodes()[0].ID()
	rec := testutil.NewRecorder(t, v.Bus())

	if err := list.SetField(0, "Score", 99); err != nil {
		t.Fatal(err)
	}
	changes := rec.ListChanges()
	if len(changes) != 1 {
		t.Fatalf("changes = %+v, want one", changes)
	}
	if c := changes[0]; c.Change != event.ListItemChanged || c.Index != 4 || c.Field != "Score" {
		t.Errorf("change = %+v, want Score changed at 4", c)
	}
	if v.Nodes()[0].ID() != ids {
		t.Error("non-key change should not rebuild")
	}
}

func TestHiddenRowChangePublishesNothing(t *testing.T) {
	v, list, _ := setup(t, []string{"b", "a"})
	groupBy(t, v, "Category")
	if err := v.CollapseAll(); err != nil {
		t.Fatal(err)
	}
	rec := testutil.NewRecorder(t, v.Bus())

	if err := list.SetField(0, "Name", "renamed"); err != nil {
		t.Fatal(err)
	}
	if len(rec.Events) != 0 {
		t.Errorf("events = %v, want none", rec.Types())
	}
}

func TestWholeRowChangeRegroups(t *testing.T) {
	v, list, items := setup(t, []string{"b", "a"})
	groupBy(t, v, "Category")

	items[0].Category = "a"
	list.NotifyChanged(0, "")
	assertSequence(t, v, "[a]", "row1", "row2")
}

func TestUpstreamStructuralChangesRegroup(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*rowset.List) error
		want   []string
	}{
		{
			name:   "delete",
			mutate: func(l *rowset.List) error { return l.RemoveAt(0) },
			want:   []string{"[a]", "row2", "row3", "[c]", "row4"},
		},
		{
			name:   "insert",
			mutate: func(l *rowset.List) error { return l.Insert(0, &testutil.Item{Name: "new", Category: "c"}) },
			want:   []string{"[a]", "row2", "row3", "[b]", "row1", "[c]", "new", "row4"},
		},
		{
			name:   "move",
			mutate: func(l *rowset.List) error { return l.Move(3, 0) },
			want:   []string{"[a]", "row2", "row3", "[b]", "row1", "[c]", "row4"},
		},
		{
			name: "reset",
			mutate: func(l *rowset.List) error {
				return l.Replace([]rowset.Row{&testutil.Item{Name: "solo", Category: "z"}})
			},
			want: []string{"[z]", "solo"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, list, _ := setup(t, []string{"b", "a", "a", "c"})
			groupBy(t, v, "Category")
			rec := testutil.NewRecorder(t, v.Bus())

			if err := tt.mutate(list); err != nil {
				t.Fatal(err)
			}
			assertSequence(t, v, tt.want...)
			if rec.Count(event.TypeListReset) != 1 {
				t.Errorf("resets = %d, want 1", rec.Count(event.TypeListReset))
			}
		})
	}
}

func TestUngroupedForwardsChanges(t *testing.T) {
	v, list, _ := setup(t, []string{"b", "a"})
	rec := testutil.NewRecorder(t, v.Bus())

	if _, err := list.Append(&testutil.Item{Name: "row3"}); err != nil {
		t.Fatal(err)
	}
	if err := list.RemoveAt(0); err != nil {
		t.Fatal(err)
	}
	changes := rec.ListChanges()
	if len(changes) != 2 ||
		changes[0].Change != event.ListItemAdded || changes[0].Index != 2 ||
		changes[1].Change != event.ListItemDeleted || changes[1].Index != 0 {
		t.Errorf("changes = %+v", changes)
	}
	assertSequence(t, v, "row2", "row3")
}

func TestRebuildFailureFromNotification(t *testing.T) {
	v, list, _ := setup(t, []string{"b", "a"})
	boom := errors.New("boom")
	sel := keysel.Delegate("cat", func(r rowset.Row) (any, error) {
		it := r.(*testutil.Item)
		if it.Name == "bad" {
			return nil, boom
		}
		return it.Category, nil
	}, keysel.WithValueType(reflect.TypeFor[string]()), keysel.DependsOn("Category"))
	if err := v.SetGroupKey(sel); err != nil {
		t.Fatal(err)
	}
	rec := testutil.NewRecorder(t, v.Bus())

	if _, err := list.Append(&testutil.Item{Name: "bad"}); err != nil {
		t.Fatal(err)
	}
	if !rec.Has(event.TypeRebuildFailed) {
		t.Fatalf("events = %v, want rebuild failure", rec.Types())
	}
	failed := rec.Events[len(rec.Events)-1].(event.RebuildFailedEvent)
	if !errors.Is(failed.Err, boom) {
		t.Errorf("failure error = %v", failed.Err)
	}
	assertSequence(t, v, "[a]", "row2", "[b]", "row1")

	if err := v.Rebuild(); !errors.Is(err, errors.ErrAccessorFailed) {
		t.Errorf("Rebuild() error = %v, want accessor failure", err)
	}
}

func TestRebuildIsNotReentrant(t *testing.T) {
	v, _, _ := setup(t, []string{"b", "a"})
	groupBy(t, v, "Category")

	resets := 0
	v.Bus().Subscribe(event.TypeListReset, func(event.Event) {
		resets++
		if err := v.Rebuild(); err != nil {
			t.Errorf("nested Rebuild() error = %v", err)
		}
	})
	if err := v.Rebuild(); err != nil {
		t.Fatal(err)
	}
	if resets != 1 {
		t.Errorf("resets = %d, want 1", resets)
	}
}
