// Package health runs batched link probes against the persistence
// collaborator and folds the results back into the collection.
package health

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"linkdeck-cli/internal/api"
	"linkdeck-cli/internal/model"
	"linkdeck-cli/internal/notify"
	"linkdeck-cli/internal/store"
)

// Monitor tracks which items are mid-probe and merges settled results. The
// collaborator owns the check counter, so merged results re-read the stored
// row instead of incrementing locally.
type Monitor struct {
	client api.Client
	items  *store.Collection
	notes  *notify.Center
	userID string
	log    *zap.Logger

	mu       sync.Mutex
	checking map[string]bool
}

func NewMonitor(client api.Client, items *store.Collection, notes *notify.Center, userID string, log *zap.Logger) *Monitor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Monitor{
		client:   client,
		items:    items,
		notes:    notes,
		userID:   userID,
		log:      log,
		checking: map[string]bool{},
	}
}

// Checking reports whether a probe for the item is in flight.
func (m *Monitor) Checking(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.checking[id]
}

// Check probes every given id in one batch. On failure the stored health is
// left untouched. Whatever happens the checking flags come down. Overlapping
// calls for the same id are allowed; the last settled batch wins.
func (m *Monitor) Check(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	m.setChecking(ids, true)
	defer m.setChecking(ids, false)

	results, err := m.client.HealthCheck(ctx, ids, m.userID)
	if err != nil {
		m.log.Warn("health check failed", zap.Int("requested", len(ids)), zap.Error(err))
		if m.notes != nil {
			m.notes.Error("Health check failed")
		}
		return err
	}

	// The collaborator already bumped each counter; pull the canonical rows
	// so the local copy does not double-count.
	counts := m.canonicalCounts(ctx)

	for _, r := range results {
		checked := r.LastChecked
		h := model.Health{Status: r.Status, LastChecked: &checked}
		if it, ok := m.items.Find(r.ItemID); ok {
			h.CheckCount = it.Health.CheckCount + 1
		}
		if n, ok := counts[r.ItemID]; ok {
			h.CheckCount = n
		}
		m.items.Update(r.ItemID, store.ItemPatch{Health: &h})
	}

	m.log.Info("health check merged", zap.Int("results", len(results)))
	return nil
}

// CheckAll probes every item currently in the collection.
func (m *Monitor) CheckAll(ctx context.Context) error {
	items := m.items.Items()
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return m.Check(ctx, ids)
}

func (m *Monitor) canonicalCounts(ctx context.Context) map[string]int {
	stored, err := m.client.List(ctx, m.userID)
	if err != nil {
		m.log.Debug("canonical re-fetch failed, keeping local counts", zap.Error(err))
		return nil
	}
	counts := make(map[string]int, len(stored))
	for _, it := range stored {
		counts[it.ID] = it.Health.CheckCount
	}
	return counts
}

func (m *Monitor) setChecking(ids []string, on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		if on {
			m.checking[id] = true
		} else {
			delete(m.checking, id)
		}
	}
}
