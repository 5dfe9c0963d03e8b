package store

import (
	"encoding/json"

	"github.com/peterbourgon/diskv/v3"

	"linkdeck-cli/internal/model"
)

const (
	foldersKey = "folders"
	goalsKey   = "goals"
)

// FolderStore persists folder and goal lists in the data dir. Items live in
// the persistence collaborator; folders are purely local organization.
type FolderStore struct {
	d *diskv.Diskv
}

func NewFolderStore(dir string) *FolderStore {
	return &FolderStore{
		d: diskv.New(diskv.Options{
			BasePath:     dir,
			CacheSizeMax: 1 << 20,
		}),
	}
}

func (s *FolderStore) LoadFolders() ([]model.Folder, error) {
	var out []model.Folder
	if err := s.load(foldersKey, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *FolderStore) SaveFolders(folders []model.Folder) error {
	return s.save(foldersKey, folders)
}

func (s *FolderStore) LoadGoals() ([]model.GoalFolder, error) {
	var out []model.GoalFolder
	if err := s.load(goalsKey, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *FolderStore) SaveGoals(goals []model.GoalFolder) error {
	return s.save(goalsKey, goals)
}

func (s *FolderStore) load(key string, out any) error {
	if !s.d.Has(key) {
		return nil
	}
	data, err := s.d.Read(key)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (s *FolderStore) save(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.d.Write(key, data)
}
