// Package api defines the persistence collaborator contract and its two
// implementations: an HTTP client for the remote store and a SQLite-backed
// local backend for offline use and tests.
package api

import (
	"context"
	"time"

	"linkdeck-cli/internal/model"
)

// HealthResult is one batched-probe outcome for an item.
type HealthResult struct {
	ItemID      string             `json:"bookmarkId"`
	Status      model.HealthStatus `json:"status"`
	LastChecked time.Time          `json:"lastChecked"`
}

// Client is the persistence collaborator. Implementations own conflict
// resolution; callers never retry automatically.
type Client interface {
	// List returns the user's full ordered collection.
	List(ctx context.Context, userID string) ([]model.Item, error)

	// Upsert creates (empty id) or updates (non-empty id) one item and
	// returns the stored row.
	Upsert(ctx context.Context, item model.Item, userID string) (model.Item, error)

	// Remove deletes one item.
	Remove(ctx context.Context, id, userID string) error

	// HealthCheck probes every id in one batch. The collaborator increments
	// per-item check counters itself; callers must not double-count.
	HealthCheck(ctx context.Context, ids []string, userID string) ([]HealthResult, error)

	// TrackVisit increments an item's visit counters.
	TrackVisit(ctx context.Context, id string) error

	// UpdateTime reports a viewing-dwell delta in whole minutes.
	UpdateTime(ctx context.Context, id string, minutes int, endedAt time.Time) error

	// Snapshot returns the live per-item analytics map.
	Snapshot(ctx context.Context, userID string) (map[string]model.AnalyticsSnapshot, error)
}
