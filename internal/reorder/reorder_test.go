package reorder

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"linkdeck-cli/internal/model"
	"linkdeck-cli/internal/store"
)

type fixture struct {
	collection *store.Collection
	categories *store.CategoryIndex
	folders    *store.FolderList[model.Folder]
	goals      *store.FolderList[model.GoalFolder]
	engine     *Engine
}

func newFixture() fixture {
	f := fixture{
		collection: store.NewCollection(),
		categories: store.NewCategoryIndex(),
		folders:    store.NewFolders(),
		goals:      store.NewGoalFolders(),
	}
	f.collection.Load([]model.Item{
		{ID: "1", Category: "Dev"},
		{ID: "2", Category: "Design"},
		{ID: "3", Category: "Dev"},
	})
	f.categories.Derive(f.collection.Categories())
	f.folders.Load([]model.Folder{{ID: "f1"}, {ID: "f2"}})
	f.goals.Load([]model.GoalFolder{
		{Folder: model.Folder{ID: "g1"}},
		{Folder: model.Folder{ID: "g2"}},
	})
	f.engine = NewEngine(f.collection, f.categories, f.folders, f.goals)
	return f
}

func itemOrder(c *store.Collection) []string {
	out := []string{}
	for _, it := range c.Items() {
		out = append(out, it.ID)
	}
	return out
}

func TestGridRoutesToCollection(t *testing.T) {
	f := newFixture()
	if !f.engine.Apply(model.ViewGrid, "", "3", "1") {
		t.Fatalf("expected grid drag to move items")
	}
	if diff := cmp.Diff([]string{"3", "1", "2"}, itemOrder(f.collection)); diff != "" {
		t.Fatalf("collection order (-want +got):\n%s", diff)
	}
	// Other sequences untouched.
	if diff := cmp.Diff([]string{"Dev", "Design"}, f.categories.Keys()); diff != "" {
		t.Fatalf("categories moved (-want +got):\n%s", diff)
	}
}

func TestGridIgnoresSubMode(t *testing.T) {
	f := newFixture()
	// Browsers keep a sub-mode selected even in views that never use it.
	if !f.engine.Apply(model.ViewGrid, model.SubFolders, "3", "1") {
		t.Fatalf("expected grid drag to move items regardless of sub-mode")
	}
	if diff := cmp.Diff([]string{"3", "1", "2"}, itemOrder(f.collection)); diff != "" {
		t.Fatalf("collection order (-want +got):\n%s", diff)
	}
}

func TestFolderBrowserRoutesToCategories(t *testing.T) {
	f := newFixture()
	if !f.engine.Apply(model.ViewCompact, model.SubFolders, "Design", "Dev") {
		t.Fatalf("expected folder-card drag to move categories")
	}
	if diff := cmp.Diff([]string{"Design", "Dev"}, f.categories.Keys()); diff != "" {
		t.Fatalf("categories order (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"1", "2", "3"}, itemOrder(f.collection)); diff != "" {
		t.Fatalf("collection moved (-want +got):\n%s", diff)
	}
}

func TestListInsideFolderRoutesToCollection(t *testing.T) {
	f := newFixture()
	if !f.engine.Apply(model.ViewList, model.SubBookmarks, "2", "1") {
		t.Fatalf("expected list drag to move items")
	}
	if diff := cmp.Diff([]string{"2", "1", "3"}, itemOrder(f.collection)); diff != "" {
		t.Fatalf("collection order (-want +got):\n%s", diff)
	}
}

func TestFolderAndGoalScreens(t *testing.T) {
	f := newFixture()
	if !f.engine.Apply(model.ViewFolder2, "", "f2", "f1") {
		t.Fatalf("folder2 drag should move folders")
	}
	if f.folders.IndexOf("f2") != 0 {
		t.Fatalf("folders not reordered")
	}
	if !f.engine.Apply(model.ViewGoal2, "", "g2", "g1") {
		t.Fatalf("goal2 drag should move goal folders")
	}
	if f.goals.IndexOf("g2") != 0 {
		t.Fatalf("goal folders not reordered")
	}
}

func TestMissNeverFallsThrough(t *testing.T) {
	f := newFixture()

	// Item ids dragged while the folder browser is active must not reorder
	// the collection even though the ids exist there.
	if f.engine.Apply(model.ViewCompact, model.SubFolders, "3", "1") {
		t.Fatalf("item ids must miss in the category sequence")
	}
	if diff := cmp.Diff([]string{"1", "2", "3"}, itemOrder(f.collection)); diff != "" {
		t.Fatalf("collection moved on a routed miss (-want +got):\n%s", diff)
	}

	// Folder ids in grid view likewise stay put.
	if f.engine.Apply(model.ViewGrid, "", "f2", "f1") {
		t.Fatalf("folder ids must miss in the collection")
	}
	if f.folders.IndexOf("f1") != 0 {
		t.Fatalf("folders moved on a routed miss")
	}
}

func TestApplyNoopCases(t *testing.T) {
	f := newFixture()
	cases := []struct {
		name     string
		activeID string
		overID   string
	}{
		{"same id", "2", "2"},
		{"unknown active", "9", "1"},
		{"unknown over", "1", "9"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if f.engine.Apply(model.ViewGrid, "", tc.activeID, tc.overID) {
				t.Fatalf("expected noop")
			}
			if diff := cmp.Diff([]string{"1", "2", "3"}, itemOrder(f.collection)); diff != "" {
				t.Fatalf("order changed (-want +got):\n%s", diff)
			}
		})
	}
}
