package session

import (
	"context"
	"sync"
	"time"

	"linkdeck-cli/internal/api"
	"linkdeck-cli/internal/model"
)

type fakeClient struct {
	mu        sync.Mutex
	upserts   []model.Item
	upsertErr error
	times     []timeReport
	timeErr   error
}

type timeReport struct {
	itemID  string
	minutes int
	endedAt time.Time
}

func (c *fakeClient) List(context.Context, string) ([]model.Item, error) { return nil, nil }
func (c *fakeClient) Remove(context.Context, string, string) error       { return nil }
func (c *fakeClient) TrackVisit(context.Context, string) error           { return nil }
func (c *fakeClient) HealthCheck(context.Context, []string, string) ([]api.HealthResult, error) {
	return nil, nil
}
func (c *fakeClient) Snapshot(context.Context, string) (map[string]model.AnalyticsSnapshot, error) {
	return nil, nil
}

func (c *fakeClient) Upsert(_ context.Context, it model.Item, _ string) (model.Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.upsertErr != nil {
		return model.Item{}, c.upsertErr
	}
	c.upserts = append(c.upserts, it)
	return it, nil
}

func (c *fakeClient) UpdateTime(_ context.Context, id string, minutes int, endedAt time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timeErr != nil {
		return c.timeErr
	}
	c.times = append(c.times, timeReport{itemID: id, minutes: minutes, endedAt: endedAt})
	return nil
}

func (c *fakeClient) reported() []timeReport {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]timeReport, len(c.times))
	copy(out, c.times)
	return out
}
