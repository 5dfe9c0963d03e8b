package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"linkdeck-cli/internal/model"
)

func TestHTTPClientList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/bookmarks" {
			t.Errorf("path = %q, want /api/bookmarks", r.URL.Path)
		}
		if got := r.URL.Query().Get("user_id"); got != "dev-user-123" {
			t.Errorf("user_id = %q", got)
		}
		// Legacy column spellings must fold into the canonical item.
		w.Write([]byte(`{"success":true,"bookmarks":[
			{"id":1,"title":"DOCS","url":"https://docs.example.com","visit_count":7,"site_health":"working"},
			{"id":"item-2","title":"BLOG","url":"https://blog.example.com","visits":3}
		]}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, nil)
	items, err := c.List(context.Background(), "dev-user-123")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	if items[0].ID != "1" || items[0].Visits != 7 || items[0].Health.Status != model.HealthWorking {
		t.Errorf("item[0] = %+v", items[0])
	}
	if items[1].ID != "item-2" || items[1].Visits != 3 {
		t.Errorf("item[1] = %+v", items[1])
	}
}

func TestHTTPClientUpsertSendsUserAndID(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.Write([]byte(`{"success":true,"bookmark":{"id":"item-9","title":"HELLO","url":"https://x.test"}}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, nil)
	item, err := c.Upsert(context.Background(), model.Item{ID: "item-9", Title: "HELLO", URL: "https://x.test"}, "u1")
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if got["user_id"] != "u1" {
		t.Errorf("user_id = %v", got["user_id"])
	}
	if got["id"] != "item-9" {
		t.Errorf("id = %v", got["id"])
	}
	if item.Title != "HELLO" {
		t.Errorf("item = %+v", item)
	}
}

func TestHTTPClientUpsertFailureEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"error":"db unavailable"}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, nil)
	_, err := c.Upsert(context.Background(), model.Item{ID: "item-1"}, "u1")
	var perr PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %T %v, want PersistenceError", err, err)
	}
	if perr.Message != "db unavailable" {
		t.Errorf("message = %q", perr.Message)
	}
}

func TestHTTPClientTransportErrorIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := NewHTTPClient(srv.URL, nil)
	_, err := c.List(context.Background(), "u1")
	var nerr NetworkError
	if !errors.As(err, &nerr) {
		t.Fatalf("err = %T %v, want NetworkError", err, err)
	}
}

func TestHTTPClientHealthCheckBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/bookmarks/health" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req struct {
			IDs    []string `json:"bookmarkIds"`
			UserID string   `json:"userId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if diff := cmp.Diff([]string{"a", "b"}, req.IDs); diff != "" {
			t.Errorf("ids mismatch (-want +got):\n%s", diff)
		}
		if req.UserID != "u1" {
			t.Errorf("userId = %q", req.UserID)
		}
		w.Write([]byte(`{"success":true,"results":[
			{"bookmarkId":"a","status":"excellent","lastChecked":"2026-08-30T10:00:00Z"},
			{"bookmarkId":"b","status":"broken","lastChecked":"2026-08-30T10:00:00Z"}
		]}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, nil)
	results, err := c.HealthCheck(context.Background(), []string{"a", "b"}, "u1")
	if err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
	if len(results) != 2 || results[0].Status != model.HealthExcellent || results[1].Status != model.HealthBroken {
		t.Errorf("results = %+v", results)
	}
}

func TestHTTPClientAnalyticsActions(t *testing.T) {
	var bodies []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		bodies = append(bodies, body)
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, nil)
	if err := c.TrackVisit(context.Background(), "item-1"); err != nil {
		t.Fatalf("TrackVisit: %v", err)
	}
	ended := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	if err := c.UpdateTime(context.Background(), "item-1", 2, ended); err != nil {
		t.Fatalf("UpdateTime: %v", err)
	}

	if len(bodies) != 2 {
		t.Fatalf("requests = %d, want 2", len(bodies))
	}
	if bodies[0]["action"] != "visit" || bodies[0]["bookmarkId"] != "item-1" {
		t.Errorf("visit body = %v", bodies[0])
	}
	if bodies[1]["action"] != "timeUpdate" || bodies[1]["timeSpent"] != float64(2) {
		t.Errorf("timeUpdate body = %v", bodies[1])
	}
	if bodies[1]["sessionEndTime"] != "2026-08-30T12:00:00Z" {
		t.Errorf("sessionEndTime = %v", bodies[1]["sessionEndTime"])
	}
}

func TestHTTPClientSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/analytics" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"success":true,"bookmarks":{
			"item-1":{"visits":10,"timeSpent":4,"weeklyVisits":2,"usagePercentage":25}
		}}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, nil)
	snap, err := c.Snapshot(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	want := model.AnalyticsSnapshot{Visits: 10, TimeSpentMinutes: 4, WeeklyVisits: 2, UsagePercentage: 25}
	if diff := cmp.Diff(want, snap["item-1"]); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}
