package store

import "strings"

// CategoryIndex maintains an independently-ordered list of distinct category
// keys derived from the collection. Deriving is append-only: categories seen
// for the first time go to the end, and a key already known is never removed
// or reordered, even once it has zero members. This keeps a user's manual
// folder-card order stable across item adds, edits, and deletes.
type CategoryIndex struct {
	keys []string
}

func NewCategoryIndex() *CategoryIndex {
	return &CategoryIndex{}
}

// Derive diffs the given categories (collection order, duplicates allowed)
// against the current key order and appends any newly observed keys.
func (x *CategoryIndex) Derive(categories []string) {
	known := make(map[string]bool, len(x.keys))
	for _, k := range x.keys {
		known[k] = true
	}
	for _, c := range categories {
		c = strings.TrimSpace(c)
		if c == "" || known[c] {
			continue
		}
		known[c] = true
		x.keys = append(x.keys, c)
	}
}

// Keys returns the current ordered category keys.
func (x *CategoryIndex) Keys() []string {
	return append([]string(nil), x.keys...)
}

func (x *CategoryIndex) Len() int {
	return len(x.keys)
}

func (x *CategoryIndex) IndexOf(key string) int {
	key = strings.TrimSpace(key)
	for i, k := range x.keys {
		if k == key {
			return i
		}
	}
	return -1
}

// MoveTo applies the same stable-permutation contract as the collection,
// against category keys. Used when the user drags folder cards.
func (x *CategoryIndex) MoveTo(activeID, overID string) bool {
	from := x.IndexOf(activeID)
	to := x.IndexOf(overID)
	if from < 0 || to < 0 || from == to {
		return false
	}
	k := x.keys[from]
	x.keys = append(x.keys[:from], x.keys[from+1:]...)
	x.keys = append(x.keys[:to], append([]string{k}, x.keys[to:]...)...)
	return true
}
