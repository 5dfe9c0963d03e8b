package store

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"linkdeck-cli/internal/model"
)

func seedCollection(ids ...string) *Collection {
	c := NewCollection()
	items := make([]model.Item, 0, len(ids))
	for _, id := range ids {
		items = append(items, model.Item{ID: id, Title: id})
	}
	c.Load(items)
	return c
}

func orderOf(c *Collection) []string {
	out := []string{}
	for _, it := range c.Items() {
		out = append(out, it.ID)
	}
	return out
}

func TestMoveTo(t *testing.T) {
	cases := []struct {
		name     string
		start    []string
		activeID string
		overID   string
		want     []string
		moved    bool
	}{
		{"active before over", []string{"1", "2", "3"}, "1", "3", []string{"2", "3", "1"}, true},
		{"active after over", []string{"1", "2", "3"}, "3", "1", []string{"3", "1", "2"}, true},
		{"adjacent swap", []string{"1", "2", "3"}, "2", "1", []string{"2", "1", "3"}, true},
		{"same id noop", []string{"1", "2", "3"}, "2", "2", []string{"1", "2", "3"}, false},
		{"unknown active noop", []string{"1", "2", "3"}, "9", "1", []string{"1", "2", "3"}, false},
		{"unknown over noop", []string{"1", "2", "3"}, "1", "9", []string{"1", "2", "3"}, false},
		{"middle move keeps rest stable", []string{"a", "b", "c", "d", "e"}, "d", "b", []string{"a", "d", "b", "c", "e"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := seedCollection(tc.start...)
			if got := c.MoveTo(tc.activeID, tc.overID); got != tc.moved {
				t.Fatalf("MoveTo(%q, %q): moved=%v, want %v", tc.activeID, tc.overID, got, tc.moved)
			}
			if diff := cmp.Diff(tc.want, orderOf(c)); diff != "" {
				t.Fatalf("order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMoveToIsPermutation(t *testing.T) {
	c := seedCollection("1", "2", "3", "4", "5")
	c.MoveTo("5", "2")
	c.MoveTo("1", "4")
	c.MoveTo("3", "5")

	if c.Len() != 5 {
		t.Fatalf("expected 5 items, got %d", c.Len())
	}
	seen := map[string]bool{}
	for _, it := range c.Items() {
		if seen[it.ID] {
			t.Fatalf("duplicate id after reorders: %s", it.ID)
		}
		seen[it.ID] = true
	}
	for _, id := range []string{"1", "2", "3", "4", "5"} {
		if !seen[id] {
			t.Fatalf("id lost after reorders: %s", id)
		}
	}
}

func TestUpdateShallowMerge(t *testing.T) {
	c := NewCollection()
	c.Load([]model.Item{{
		ID:       "1",
		Title:    "GITHUB",
		URL:      "https://github.com",
		Category: "Dev",
		Visits:   45,
	}})

	title := "CODEBERG"
	if !c.Update("1", ItemPatch{Title: &title}) {
		t.Fatalf("Update: expected true for known id")
	}
	it, _ := c.Find("1")
	if it.Title != "CODEBERG" {
		t.Fatalf("Title = %q, want CODEBERG", it.Title)
	}
	// Untouched fields survive the merge.
	if it.URL != "https://github.com" || it.Category != "Dev" || it.Visits != 45 {
		t.Fatalf("shallow merge clobbered unrelated fields: %+v", it)
	}
	if it.UpdatedAt.IsZero() {
		t.Fatalf("UpdatedAt not bumped")
	}
}

func TestUpdateUnknownIDIsNoop(t *testing.T) {
	c := seedCollection("1")
	title := "X"
	if c.Update("gone", ItemPatch{Title: &title}) {
		t.Fatalf("Update of unknown id should report false")
	}
}

func TestRemoveAndInsert(t *testing.T) {
	c := seedCollection("1", "2", "3")
	if !c.Remove("2") {
		t.Fatalf("Remove known id should report true")
	}
	if c.Remove("2") {
		t.Fatalf("second Remove should be a noop")
	}
	c.Insert(model.Item{ID: "4"})
	if diff := cmp.Diff([]string{"1", "3", "4"}, orderOf(c)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadNotifiesSubscribers(t *testing.T) {
	c := NewCollection()
	calls := 0
	c.Subscribe(func() { calls++ })

	c.Load([]model.Item{{ID: "1", Category: "Dev"}})
	c.Insert(model.Item{ID: "2", Category: "Design"})
	c.Remove("1")
	c.MoveTo("2", "1") // noop: "1" removed, must not notify

	if calls != 3 {
		t.Fatalf("expected 3 change notifications, got %d", calls)
	}
}
