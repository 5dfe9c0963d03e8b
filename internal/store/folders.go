package store

import (
	"strings"

	"linkdeck-cli/internal/model"
)

// FolderList is an independently curated ordered collection with its own id
// space (Folder 2.0 and Goal 2.0 screens). It shares the collection's
// reorder contract but nothing else.
type FolderList[T any] struct {
	items []T
	idOf  func(T) string
}

func NewFolderList[T any](idOf func(T) string) *FolderList[T] {
	return &FolderList[T]{idOf: idOf}
}

func NewFolders() *FolderList[model.Folder] {
	return NewFolderList(func(f model.Folder) string { return f.ID })
}

func NewGoalFolders() *FolderList[model.GoalFolder] {
	return NewFolderList(func(f model.GoalFolder) string { return f.ID })
}

func (l *FolderList[T]) Load(items []T) {
	l.items = append(l.items[:0:0], items...)
}

func (l *FolderList[T]) Items() []T {
	return append([]T(nil), l.items...)
}

func (l *FolderList[T]) Len() int {
	return len(l.items)
}

func (l *FolderList[T]) Add(item T) {
	l.items = append(l.items, item)
}

func (l *FolderList[T]) IndexOf(id string) int {
	id = strings.TrimSpace(id)
	for i := range l.items {
		if l.idOf(l.items[i]) == id {
			return i
		}
	}
	return -1
}

func (l *FolderList[T]) Find(id string) (T, bool) {
	var zero T
	if i := l.IndexOf(id); i >= 0 {
		return l.items[i], true
	}
	return zero, false
}

func (l *FolderList[T]) Remove(id string) bool {
	i := l.IndexOf(id)
	if i < 0 {
		return false
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	return true
}

// MoveTo applies the stable-permutation reorder contract to this list.
func (l *FolderList[T]) MoveTo(activeID, overID string) bool {
	from := l.IndexOf(activeID)
	to := l.IndexOf(overID)
	if from < 0 || to < 0 || from == to {
		return false
	}
	it := l.items[from]
	l.items = append(l.items[:from], l.items[from+1:]...)
	l.items = append(l.items[:to], append([]T{it}, l.items[to:]...)...)
	return true
}
