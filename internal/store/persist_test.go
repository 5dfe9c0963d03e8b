package store

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"linkdeck-cli/internal/model"
)

func TestFolderStoreRoundTrip(t *testing.T) {
	s := NewFolderStore(t.TempDir())

	empty, err := s.LoadFolders()
	if err != nil {
		t.Fatalf("LoadFolders: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("fresh store returned %+v", empty)
	}

	want := []model.Folder{
		{ID: "folder-1", Name: "Work", Color: "#ff0000"},
		{ID: "folder-2", Name: "Reading"},
	}
	if err := s.SaveFolders(want); err != nil {
		t.Fatalf("SaveFolders: %v", err)
	}

	got, err := s.LoadFolders()
	if err != nil {
		t.Fatalf("LoadFolders: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("folders mismatch (-want +got):\n%s", diff)
	}
}

func TestFolderStoreGoalsIndependent(t *testing.T) {
	s := NewFolderStore(t.TempDir())

	goals := []model.GoalFolder{{
		Folder:       model.Folder{ID: "goal-1", Name: "Learn Go"},
		GoalStatus:   model.GoalInProgress,
		GoalProgress: 40,
	}}
	if err := s.SaveGoals(goals); err != nil {
		t.Fatalf("SaveGoals: %v", err)
	}

	folders, err := s.LoadFolders()
	if err != nil {
		t.Fatalf("LoadFolders: %v", err)
	}
	if len(folders) != 0 {
		t.Errorf("goals leaked into folders: %+v", folders)
	}

	got, err := s.LoadGoals()
	if err != nil {
		t.Fatalf("LoadGoals: %v", err)
	}
	if len(got) != 1 || got[0].GoalProgress != 40 {
		t.Errorf("goals = %+v", got)
	}
}
