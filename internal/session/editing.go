package session

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"linkdeck-cli/internal/api"
	"linkdeck-cli/internal/model"
	"linkdeck-cli/internal/mutate"
	"linkdeck-cli/internal/notify"
	"linkdeck-cli/internal/store"
)

// EditableFields are the item fields a single-field edit may target.
var EditableFields = []string{"title", "url", "description", "category", "tags"}

// Edit is one in-flight single-field edit.
type Edit struct {
	ItemID  string
	Field   string
	Pending string
}

// Editor runs single-field edits: snapshot, normalize, confirm against the
// persistence collaborator, and only then touch the local collection. A
// rejected confirm leaves the collection exactly as it was.
type Editor struct {
	items  *store.Collection
	client api.Client
	notes  *notify.Center
	userID string
	log    *zap.Logger

	active *Edit
}

func NewEditor(items *store.Collection, client api.Client, notes *notify.Center, userID string, log *zap.Logger) *Editor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Editor{items: items, client: client, notes: notes, userID: userID, log: log}
}

// Active returns the in-flight edit, if any.
func (e *Editor) Active() (Edit, bool) {
	if e.active == nil {
		return Edit{}, false
	}
	return *e.active, true
}

// Begin opens an edit seeded with the item's current value. Starting a new
// edit abandons any previous one.
func (e *Editor) Begin(itemID, field string) error {
	if !editableField(field) {
		return mutate.ValidationError{Field: field, Reason: "not editable"}
	}
	it, ok := e.items.Find(itemID)
	if !ok {
		return fmt.Errorf("unknown item %q", itemID)
	}
	e.active = &Edit{ItemID: itemID, Field: field, Pending: fieldValue(it, field)}
	return nil
}

// SetPending replaces the draft value.
func (e *Editor) SetPending(value string) {
	if e.active != nil {
		e.active.Pending = value
	}
}

// Cancel abandons the edit without touching anything.
func (e *Editor) Cancel() {
	e.active = nil
}

// Commit normalizes the draft, submits the whole item, and applies the field
// locally only once the collaborator confirms. Either way the edit ends.
func (e *Editor) Commit(ctx context.Context) error {
	edit := e.active
	e.active = nil
	if edit == nil {
		return nil
	}

	it, ok := e.items.Find(edit.ItemID)
	if !ok {
		return fmt.Errorf("unknown item %q", edit.ItemID)
	}

	value, tags := normalizeField(edit.Field, edit.Pending)
	updated := it
	switch edit.Field {
	case "title":
		updated.Title = value
	case "url":
		if err := mutate.ValidateURL(value); err != nil {
			if e.notes != nil {
				e.notes.Error("Invalid URL")
			}
			return err
		}
		updated.URL = value
	case "description":
		updated.Description = value
	case "category":
		updated.Category = value
	case "tags":
		updated.Tags = tags
	}

	if _, err := e.client.Upsert(ctx, updated, e.userID); err != nil {
		e.log.Warn("edit rejected", zap.String("item", edit.ItemID), zap.String("field", edit.Field), zap.Error(err))
		if e.notes != nil {
			e.notes.Error("Failed to update bookmark")
		}
		return err
	}

	e.items.Update(edit.ItemID, store.FieldPatch(edit.Field, value, tags))
	if e.notes != nil {
		e.notes.Success("Bookmark updated")
	}
	return nil
}

func editableField(field string) bool {
	for _, f := range EditableFields {
		if f == field {
			return true
		}
	}
	return false
}

// fieldValue renders the current value the way the edit buffer shows it.
func fieldValue(it model.Item, field string) string {
	switch field {
	case "title":
		return it.Title
	case "url":
		return it.URL
	case "description":
		return it.Description
	case "category":
		return it.Category
	case "tags":
		return mutate.JoinTags(it.Tags)
	default:
		return ""
	}
}

func normalizeField(field, raw string) (string, []string) {
	switch field {
	case "title":
		return mutate.NormalizeTitle(raw), nil
	case "tags":
		return "", mutate.NormalizeTags(raw)
	default:
		return raw, nil
	}
}
