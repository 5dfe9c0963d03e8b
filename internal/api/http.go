package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"linkdeck-cli/internal/model"
)

// HTTPClient talks to the remote bookmark store. Every response uses the
// {success, error} envelope; success:false maps to PersistenceError and
// transport-level failures to NetworkError.
type HTTPClient struct {
	base   string
	client *http.Client
	log    *zap.Logger
}

func NewHTTPClient(base string, log *zap.Logger) *HTTPClient {
	if log == nil {
		log = zap.NewNop()
	}
	return &HTTPClient{
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{Timeout: 30 * time.Second},
		log:    log,
	}
}

type listResponse struct {
	Success bool             `json:"success"`
	Error   string           `json:"error,omitempty"`
	Items   []model.WireItem `json:"bookmarks"`
}

type upsertRequest struct {
	model.WireItem
	UserID string `json:"user_id"`
}

type upsertResponse struct {
	Success bool           `json:"success"`
	Error   string         `json:"error,omitempty"`
	Item    model.WireItem `json:"bookmark"`
}

type statusResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type healthRequest struct {
	ItemIDs []string `json:"bookmarkIds"`
	UserID  string   `json:"userId"`
}

type healthResponse struct {
	Success bool           `json:"success"`
	Error   string         `json:"error,omitempty"`
	Results []HealthResult `json:"results"`
}

type analyticsRequest struct {
	ItemID    string `json:"bookmarkId"`
	Action    string `json:"action"`
	TimeSpent int    `json:"timeSpent,omitempty"`
	EndedAt   string `json:"sessionEndTime,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

type snapshotResponse struct {
	Success bool                               `json:"success"`
	Error   string                             `json:"error,omitempty"`
	Items   map[string]model.AnalyticsSnapshot `json:"bookmarks"`
}

func (c *HTTPClient) List(ctx context.Context, userID string) ([]model.Item, error) {
	const op = "list"
	q := url.Values{"user_id": {userID}}
	var resp listResponse
	if err := c.get(ctx, op, "/api/bookmarks?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, PersistenceError{Op: op, Message: resp.Error}
	}
	items := make([]model.Item, 0, len(resp.Items))
	for _, w := range resp.Items {
		items = append(items, w.Canonical())
	}
	c.log.Debug("listed items", zap.Int("count", len(items)))
	return items, nil
}

func (c *HTTPClient) Upsert(ctx context.Context, item model.Item, userID string) (model.Item, error) {
	const op = "upsert"
	req := upsertRequest{WireItem: item.Wire(), UserID: userID}
	var resp upsertResponse
	if err := c.post(ctx, op, "/api/bookmarks", req, &resp); err != nil {
		return model.Item{}, err
	}
	if !resp.Success {
		return model.Item{}, PersistenceError{Op: op, Message: resp.Error}
	}
	return resp.Item.Canonical(), nil
}

func (c *HTTPClient) Remove(ctx context.Context, id, userID string) error {
	const op = "remove"
	q := url.Values{"id": {id}, "user_id": {userID}}
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.base+"/api/bookmarks?"+q.Encode(), nil)
	if err != nil {
		return NetworkError{Op: op, Err: err}
	}
	var resp statusResponse
	if err := c.do(op, req, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return PersistenceError{Op: op, Message: resp.Error}
	}
	return nil
}

func (c *HTTPClient) HealthCheck(ctx context.Context, ids []string, userID string) ([]HealthResult, error) {
	const op = "health-check"
	var resp healthResponse
	if err := c.post(ctx, op, "/api/bookmarks/health", healthRequest{ItemIDs: ids, UserID: userID}, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, PersistenceError{Op: op, Message: resp.Error}
	}
	return resp.Results, nil
}

func (c *HTTPClient) TrackVisit(ctx context.Context, id string) error {
	const op = "track-visit"
	req := analyticsRequest{
		ItemID:    id,
		Action:    "visit",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	var resp statusResponse
	if err := c.post(ctx, op, "/api/bookmarks/analytics", req, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return PersistenceError{Op: op, Message: resp.Error}
	}
	return nil
}

func (c *HTTPClient) UpdateTime(ctx context.Context, id string, minutes int, endedAt time.Time) error {
	const op = "time-update"
	req := analyticsRequest{
		ItemID:    id,
		Action:    "timeUpdate",
		TimeSpent: minutes,
		EndedAt:   endedAt.UTC().Format(time.RFC3339),
	}
	var resp statusResponse
	if err := c.post(ctx, op, "/api/bookmarks/analytics", req, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return PersistenceError{Op: op, Message: resp.Error}
	}
	return nil
}

func (c *HTTPClient) Snapshot(ctx context.Context, userID string) (map[string]model.AnalyticsSnapshot, error) {
	const op = "snapshot"
	q := url.Values{"user_id": {userID}}
	var resp snapshotResponse
	if err := c.get(ctx, op, "/api/analytics?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, PersistenceError{Op: op, Message: resp.Error}
	}
	return resp.Items, nil
}

func (c *HTTPClient) get(ctx context.Context, op, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return NetworkError{Op: op, Err: err}
	}
	return c.do(op, req, out)
}

func (c *HTTPClient) post(ctx context.Context, op, path string, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return NetworkError{Op: op, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(b))
	if err != nil {
		return NetworkError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(op, req, out)
}

func (c *HTTPClient) do(op string, req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warn("request failed", zap.String("op", op), zap.Error(err))
		return NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return NetworkError{Op: op, Err: err}
	}
	// Error envelopes also arrive with non-2xx statuses; prefer the envelope
	// message when one decodes.
	if err := json.Unmarshal(b, out); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return NetworkError{Op: op, Err: fmt.Errorf("http %d", resp.StatusCode)}
		}
		return NetworkError{Op: op, Err: err}
	}
	return nil
}
