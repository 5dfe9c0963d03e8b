package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"linkdeck-cli/internal/model"
)

func newTestBackend(t *testing.T) *LocalBackend {
	t.Helper()
	return NewLocalBackend(filepath.Join(t.TempDir(), "linkdeck.db"), nil)
}

func TestLocalBackendUpsertMintsID(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	item, err := b.Upsert(ctx, model.Item{Title: "DOCS", URL: "https://docs.example.com"}, "u1")
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if !strings.HasPrefix(item.ID, "item-") {
		t.Errorf("minted id = %q, want item- prefix", item.ID)
	}
	if item.CreatedAt.IsZero() || item.UpdatedAt.IsZero() {
		t.Errorf("timestamps not set: %+v", item)
	}

	items, err := b.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 || items[0].ID != item.ID {
		t.Fatalf("items = %+v", items)
	}
}

func TestLocalBackendListPreservesInsertOrder(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	var ids []string
	for _, title := range []string{"ONE", "TWO", "THREE"} {
		it, err := b.Upsert(ctx, model.Item{Title: title, URL: "https://x.test"}, "u1")
		if err != nil {
			t.Fatalf("Upsert %s: %v", title, err)
		}
		ids = append(ids, it.ID)
	}

	items, err := b.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for i, it := range items {
		if it.ID != ids[i] {
			t.Errorf("pos %d = %s, want %s", i, it.ID, ids[i])
		}
	}
}

func TestLocalBackendUpsertUnknownID(t *testing.T) {
	b := newTestBackend(t)
	_, err := b.Upsert(context.Background(), model.Item{ID: "item-none", Title: "X", URL: "https://x.test"}, "u1")
	if err == nil {
		t.Fatal("want error for update of unknown id")
	}
}

func TestLocalBackendUserScoping(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	if _, err := b.Upsert(ctx, model.Item{Title: "A", URL: "https://a.test"}, "u1"); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	items, err := b.List(ctx, "u2")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("u2 sees %d items, want 0", len(items))
	}
}

func TestLocalBackendRemove(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	it, err := b.Upsert(ctx, model.Item{Title: "A", URL: "https://a.test"}, "u1")
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := b.Remove(ctx, it.ID, "u1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	items, err := b.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("items = %+v, want empty", items)
	}
}

func TestLocalBackendSnapshotUsage(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	a, _ := b.Upsert(ctx, model.Item{Title: "A", URL: "https://a.test"}, "u1")
	c, _ := b.Upsert(ctx, model.Item{Title: "B", URL: "https://b.test"}, "u1")

	for i := 0; i < 3; i++ {
		if err := b.TrackVisit(ctx, a.ID); err != nil {
			t.Fatalf("TrackVisit: %v", err)
		}
	}
	if err := b.TrackVisit(ctx, c.ID); err != nil {
		t.Fatalf("TrackVisit: %v", err)
	}
	if err := b.UpdateTime(ctx, a.ID, 2, time.Now()); err != nil {
		t.Fatalf("UpdateTime: %v", err)
	}

	snap, err := b.Snapshot(ctx, "u1")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if got := snap[a.ID]; got.Visits != 3 || got.TimeSpentMinutes != 2 || got.UsagePercentage != 75 {
		t.Errorf("snap[a] = %+v", got)
	}
	if got := snap[c.ID]; got.Visits != 1 || got.UsagePercentage != 25 {
		t.Errorf("snap[b] = %+v", got)
	}
}

func TestLocalBackendSnapshotNoVisits(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	it, _ := b.Upsert(ctx, model.Item{Title: "A", URL: "https://a.test"}, "u1")
	snap, err := b.Snapshot(ctx, "u1")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if got := snap[it.ID]; got.UsagePercentage != 0 {
		t.Errorf("usage = %d, want 0 when nothing was visited", got.UsagePercentage)
	}
}

func TestLocalBackendHealthCheck(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ok.Close()
	missing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer missing.Close()
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer down.Close()

	b := newTestBackend(t)
	ctx := context.Background()

	good, _ := b.Upsert(ctx, model.Item{Title: "GOOD", URL: ok.URL}, "u1")
	gone, _ := b.Upsert(ctx, model.Item{Title: "GONE", URL: missing.URL}, "u1")
	dead, _ := b.Upsert(ctx, model.Item{Title: "DEAD", URL: down.URL}, "u1")

	results, err := b.HealthCheck(ctx, []string{good.ID, gone.ID, dead.ID}, "u1")
	if err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
	byID := make(map[string]HealthResult, len(results))
	for _, r := range results {
		byID[r.ItemID] = r
	}
	if got := byID[good.ID].Status; got != model.HealthExcellent {
		t.Errorf("good status = %s, want excellent", got)
	}
	if got := byID[gone.ID].Status; got != model.HealthPoor {
		t.Errorf("gone status = %s, want poor", got)
	}
	if got := byID[dead.ID].Status; got != model.HealthBroken {
		t.Errorf("dead status = %s, want broken", got)
	}

	// The backend owns the counter increment.
	items, err := b.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, it := range items {
		if it.Health.CheckCount != 1 {
			t.Errorf("%s check count = %d, want 1", it.Title, it.Health.CheckCount)
		}
		if it.Health.LastChecked == nil {
			t.Errorf("%s last checked unset", it.Title)
		}
	}
}

func TestLocalBackendHealthCheckUnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // keep the URL, refuse connections

	b := newTestBackend(t)
	ctx := context.Background()

	it, _ := b.Upsert(ctx, model.Item{Title: "X", URL: srv.URL}, "u1")
	results, err := b.HealthCheck(ctx, []string{it.ID}, "u1")
	if err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
	if results[0].Status != model.HealthBroken {
		t.Errorf("status = %s, want broken", results[0].Status)
	}
}
