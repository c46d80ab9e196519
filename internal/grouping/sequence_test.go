package grouping

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/Iron-Ham/groupview/internal/rowset"
	"github.com/Iron-Ham/groupview/internal/testutil"
)

// checkPartition verifies that the nodes hold every source row exactly once
// and that each row outside the placeholder sits under its own key.
func checkPartition(t *testing.T, v *View, list *rowset.List) {
	t.Helper()

	seen := make(map[rowset.Row]int, list.Len())
	for _, n := range v.Nodes() {
		for _, r := range n.Rows() {
			seen[r]++
			if n.IsPlaceholder() {
				continue
			}
			if got := r.(*testutil.Item).Category; n.Key() != got {
				t.Errorf("%s (Category %q) is under node %v", r.(*testutil.Item).Name, got, n.Key())
			}
		}
	}
	for i := 0; i < list.Len(); i++ {
		r := list.At(i)
		if seen[r] != 1 {
			t.Errorf("%s reachable %d times, want 1", r.(*testutil.Item).Name, seen[r])
		}
		delete(seen, r)
	}
	for r := range seen {
		t.Errorf("%s is in a node but not in the source", r.(*testutil.Item).Name)
	}
}

func checkPosition(t *testing.T, v *View) {
	t.Helper()
	count := v.Count()
	switch {
	case count == 0 && v.Position() != -1:
		t.Errorf("empty view Position() = %d, want -1", v.Position())
	case count > 0 && (v.Position() < 0 || v.Position() >= count):
		t.Errorf("Position() = %d outside [0, %d)", v.Position(), count)
	}
}

func TestMutationSequencesKeepPartition(t *testing.T) {
	categories := []string{"a", "b", "c", "d"}
	directions := []SortDirection{SortAscending, SortDescending, SortNone}

	for seed := uint64(1); seed <= 25; seed++ {
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			rng := rand.New(rand.NewPCG(seed, seed*7919))
			v, list, _ := setup(t, []string{"b", "a", "c", "a", "d", "b"}, WithAllowNewRows(seed%2 == 0))
			groupBy(t, v, "Category")
			next := 100

			pick := func() string { return categories[rng.IntN(len(categories))] }
			newItem := func() *testutil.Item {
				next++
				return &testutil.Item{Name: fmt.Sprintf("row%d", next), Category: pick()}
			}

			for step := 0; step < 80; step++ {
				var op string
				var err error
				switch k := rng.IntN(8); {
				case k == 0:
					op = "append"
					_, err = list.Append(newItem())
				case k == 1:
					op = "insert"
					err = list.Insert(rng.IntN(list.Len()+1), newItem())
				case k == 2 && list.Len() > 0:
					op = "remove"
					err = list.RemoveAt(rng.IntN(list.Len()))
				case k == 3 && list.Len() > 0:
					op = "set key"
					err = list.SetField(rng.IntN(list.Len()), "Category", pick())
				case k == 4 && list.Len() > 1:
					op = "move"
					err = list.Move(rng.IntN(list.Len()), rng.IntN(list.Len()))
				case k == 5 && len(v.Nodes()) > 0:
					op = "toggle"
					v.Nodes()[rng.IntN(len(v.Nodes()))].Toggle()
				case k == 6:
					op = "allow new rows"
					err = v.SetAllowNewRows(!v.AllowNewRows())
				default:
					op = "sort"
					err = v.SetSortDirection(directions[rng.IntN(len(directions))])
				}
				if err != nil {
					t.Fatalf("step %d %s: %v", step, op, err)
				}
				if rng.IntN(4) == 0 && v.Count() > 0 {
					if err := v.SetPosition(rng.IntN(v.Count())); err != nil {
						t.Fatalf("step %d SetPosition: %v", step, err)
					}
				}

				checkPartition(t, v, list)
				checkPosition(t, v)
				checkInvariants(t, v)
				if t.Failed() {
					t.Fatalf("invariants broken after step %d (%s)", step, op)
				}
			}
		})
	}
}
