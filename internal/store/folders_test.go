package store

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"linkdeck-cli/internal/model"
)

func TestFolderListMoveTo(t *testing.T) {
	l := NewFolders()
	l.Load([]model.Folder{
		{ID: "f1", Name: "Learning"},
		{ID: "f2", Name: "Projects"},
		{ID: "f3", Name: "Research"},
	})

	if !l.MoveTo("f3", "f1") {
		t.Fatalf("MoveTo should succeed")
	}
	got := []string{}
	for _, f := range l.Items() {
		got = append(got, f.ID)
	}
	if diff := cmp.Diff([]string{"f3", "f1", "f2"}, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	// Item ids live in a different id space; they must never move folders.
	if l.MoveTo("1", "f1") {
		t.Fatalf("foreign id should be a noop")
	}
}

func TestFolderListAddRemoveFind(t *testing.T) {
	l := NewGoalFolders()
	l.Add(model.GoalFolder{Folder: model.Folder{ID: "g1", Name: "Learn Go"}, GoalProgress: 40})

	f, ok := l.Find("g1")
	if !ok || f.Name != "Learn Go" {
		t.Fatalf("Find(g1) = %+v, %v", f, ok)
	}
	if _, ok := l.Find("g9"); ok {
		t.Fatalf("Find of unknown id should miss")
	}
	if !l.Remove("g1") || l.Len() != 0 {
		t.Fatalf("Remove(g1) failed")
	}
}
