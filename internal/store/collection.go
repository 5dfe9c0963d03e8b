package store

import (
	"strings"
	"time"

	"linkdeck-cli/internal/model"
)

// Collection owns the canonical ordered list of items. It is the only writer
// of item state; grouping, analytics, and health state are derived elsewhere
// and keyed by item id.
//
// All mutations run on the UI event loop (single writer), so there is no
// internal locking.
type Collection struct {
	items []model.Item

	// onChange hooks fire after every mutation. The grouping index uses this
	// to re-derive category keys.
	onChange []func()
}

func NewCollection() *Collection {
	return &Collection{}
}

// Subscribe registers a hook invoked after every collection mutation.
func (c *Collection) Subscribe(fn func()) {
	if fn != nil {
		c.onChange = append(c.onChange, fn)
	}
}

func (c *Collection) notify() {
	for _, fn := range c.onChange {
		fn()
	}
}

// Load replaces the whole collection (from the persistence collaborator).
func (c *Collection) Load(items []model.Item) {
	c.items = append(c.items[:0:0], items...)
	c.notify()
}

// Items returns a copy of the ordered collection.
func (c *Collection) Items() []model.Item {
	return append([]model.Item(nil), c.items...)
}

func (c *Collection) Len() int {
	return len(c.items)
}

func (c *Collection) IndexOf(id string) int {
	id = strings.TrimSpace(id)
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Collection) Find(id string) (model.Item, bool) {
	if i := c.IndexOf(id); i >= 0 {
		return c.items[i], true
	}
	return model.Item{}, false
}

// Categories returns the category of each item in collection order,
// duplicates included. The grouping index dedupes.
func (c *Collection) Categories() []string {
	out := make([]string, 0, len(c.items))
	for i := range c.items {
		out = append(out, c.items[i].Category)
	}
	return out
}

func (c *Collection) Insert(it model.Item) {
	c.items = append(c.items, it)
	c.notify()
}

// Update applies a shallow merge onto the item with the given id. Unknown ids
// are a silent no-op, mirroring a save response arriving after a delete.
func (c *Collection) Update(id string, p ItemPatch) bool {
	i := c.IndexOf(id)
	if i < 0 {
		return false
	}
	p.applyTo(&c.items[i])
	c.items[i].UpdatedAt = time.Now()
	c.notify()
	return true
}

func (c *Collection) Remove(id string) bool {
	i := c.IndexOf(id)
	if i < 0 {
		return false
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	c.notify()
	return true
}

// MoveTo removes the active element and reinserts it at the over element's
// index: a stable permutation in which every other element keeps its relative
// order. Equal or unknown ids are a silent no-op.
func (c *Collection) MoveTo(activeID, overID string) bool {
	from := c.IndexOf(activeID)
	to := c.IndexOf(overID)
	if from < 0 || to < 0 || from == to {
		return false
	}
	it := c.items[from]
	c.items = append(c.items[:from], c.items[from+1:]...)
	c.items = append(c.items[:to], append([]model.Item{it}, c.items[to:]...)...)
	c.notify()
	return true
}

// ItemPatch is a shallow merge: only non-nil fields are applied.
type ItemPatch struct {
	Title            *string
	URL              *string
	Description      *string
	Category         *string
	Tags             *[]string
	Priority         *model.Priority
	IsFavorite       *bool
	Health           *model.Health
	Visits           *int
	TimeSpentMinutes *int
	WeeklyVisits     *int
	CustomBackground *string
}

func (p ItemPatch) applyTo(it *model.Item) {
	if p.Title != nil {
		it.Title = *p.Title
	}
	if p.URL != nil {
		it.URL = *p.URL
	}
	if p.Description != nil {
		it.Description = *p.Description
	}
	if p.Category != nil {
		it.Category = *p.Category
	}
	if p.Tags != nil {
		it.Tags = append([]string(nil), (*p.Tags)...)
	}
	if p.Priority != nil {
		it.Priority = *p.Priority
	}
	if p.IsFavorite != nil {
		it.IsFavorite = *p.IsFavorite
	}
	if p.Health != nil {
		it.Health = *p.Health
	}
	if p.Visits != nil {
		it.Visits = *p.Visits
	}
	if p.TimeSpentMinutes != nil {
		it.TimeSpentMinutes = *p.TimeSpentMinutes
	}
	if p.WeeklyVisits != nil {
		it.WeeklyVisits = *p.WeeklyVisits
	}
	if p.CustomBackground != nil {
		it.CustomBackground = *p.CustomBackground
	}
}

// FieldPatch builds an ItemPatch for one named editable field. Values must
// already be normalized (see mutate.NormalizeTitle / NormalizeTags).
func FieldPatch(field string, value string, tags []string) ItemPatch {
	switch field {
	case "title":
		return ItemPatch{Title: &value}
	case "url":
		return ItemPatch{URL: &value}
	case "description":
		return ItemPatch{Description: &value}
	case "category":
		return ItemPatch{Category: &value}
	case "tags":
		return ItemPatch{Tags: &tags}
	default:
		return ItemPatch{}
	}
}
