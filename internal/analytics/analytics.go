// Package analytics enriches the item collection with usage metrics. Metrics
// come from a live feed when one has loaded; otherwise the counters persisted
// on each item serve as the fallback. Usage percentages are never stored,
// they are recomputed against the current total on every read.
package analytics

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"linkdeck-cli/internal/api"
	"linkdeck-cli/internal/model"
)

// Feed supplies live per-item metrics.
type Feed interface {
	// TrackVisit records one visit for the item.
	TrackVisit(id string)
	// Metrics returns the live entry for the item, if the feed has one.
	Metrics(id string) (model.AnalyticsSnapshot, bool)
	// Loading reports whether the feed has not finished its first fetch.
	Loading() bool
}

// LiveFeed polls the persistence collaborator's analytics endpoint and keeps
// an in-memory copy. Visit tracking is optimistic: the local entry increments
// immediately and the report goes out in the background.
type LiveFeed struct {
	client  api.Client
	userID  string
	log     *zap.Logger
	timeout time.Duration

	mu      sync.RWMutex
	entries map[string]model.AnalyticsSnapshot
	loaded  bool

	reports sync.WaitGroup
}

func NewLiveFeed(client api.Client, userID string, log *zap.Logger) *LiveFeed {
	if log == nil {
		log = zap.NewNop()
	}
	return &LiveFeed{
		client:  client,
		userID:  userID,
		log:     log,
		timeout: 10 * time.Second,
		entries: map[string]model.AnalyticsSnapshot{},
	}
}

// Refresh replaces the feed contents with the collaborator's current
// snapshot. The first successful refresh clears the loading state.
func (f *LiveFeed) Refresh(ctx context.Context) error {
	snap, err := f.client.Snapshot(ctx, f.userID)
	if err != nil {
		f.log.Warn("analytics refresh failed", zap.Error(err))
		return err
	}
	f.mu.Lock()
	f.entries = snap
	f.loaded = true
	f.mu.Unlock()
	return nil
}

func (f *LiveFeed) TrackVisit(id string) {
	f.mu.Lock()
	e := f.entries[id]
	e.Visits++
	e.WeeklyVisits++
	f.entries[id] = e
	f.mu.Unlock()

	f.reports.Add(1)
	go func() {
		defer f.reports.Done()
		ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
		defer cancel()
		if err := f.client.TrackVisit(ctx, id); err != nil {
			f.log.Warn("visit report failed", zap.String("item", id), zap.Error(err))
		}
	}()
}

// Wait blocks until in-flight visit reports have settled. Short-lived
// processes call it before exiting so reports are not cut off.
func (f *LiveFeed) Wait() {
	f.reports.Wait()
}

func (f *LiveFeed) Metrics(id string) (model.AnalyticsSnapshot, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	e, ok := f.entries[id]
	return e, ok
}

func (f *LiveFeed) Loading() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return !f.loaded
}

// Enricher merges feed metrics over persisted item counters.
type Enricher struct {
	feed Feed
}

func NewEnricher(feed Feed) *Enricher {
	return &Enricher{feed: feed}
}

// counters picks the metric source for one item: the live feed entry when
// the feed has finished loading and knows the item, otherwise the counters
// persisted on the item itself.
func (e *Enricher) counters(it model.Item) model.AnalyticsSnapshot {
	if e.feed != nil && !e.feed.Loading() {
		if m, ok := e.feed.Metrics(it.ID); ok {
			return m
		}
	}
	return model.AnalyticsSnapshot{
		Visits:           it.Visits,
		TimeSpentMinutes: it.TimeSpentMinutes,
		WeeklyVisits:     it.WeeklyVisits,
	}
}

// Enrich returns one snapshot per item, in item order, with the usage
// percentage recomputed against the total visits across all given items.
func (e *Enricher) Enrich(items []model.Item) []model.AnalyticsSnapshot {
	out := make([]model.AnalyticsSnapshot, len(items))
	total := 0
	for i, it := range items {
		out[i] = e.counters(it)
		total += out[i].Visits
	}
	for i := range out {
		out[i].UsagePercentage = usageShare(out[i].Visits, total)
	}
	return out
}

// Lookup returns the current snapshot for one item out of the given set.
// The set is still required because the percentage depends on the total.
func (e *Enricher) Lookup(items []model.Item, id string) (model.AnalyticsSnapshot, bool) {
	snaps := e.Enrich(items)
	for i, it := range items {
		if it.ID == id {
			return snaps[i], true
		}
	}
	return model.AnalyticsSnapshot{}, false
}

func usageShare(visits, total int) int {
	if total == 0 {
		return 0
	}
	return int(float64(visits)/float64(total)*100 + 0.5)
}
