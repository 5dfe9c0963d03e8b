package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"

	"linkdeck-cli/internal/model"
)

const (
	probeTimeout    = 10 * time.Second
	probeLimit      = 8
	probeUserAgent  = "Mozilla/5.0 (compatible; linkdeck/1.0)"
	fastProbe       = 500 * time.Millisecond
	acceptableProbe = 1500 * time.Millisecond
)

// LocalBackend serves the persistence contract from a workspace SQLite file.
// Unlike the HTTP client it IS the collaborator, so it probes URLs itself and
// owns the health check counter.
type LocalBackend struct {
	path  string
	probe *http.Client
	log   *zap.Logger
	now   func() time.Time
}

func NewLocalBackend(path string, log *zap.Logger) *LocalBackend {
	if log == nil {
		log = zap.NewNop()
	}
	return &LocalBackend{
		path:  path,
		probe: &http.Client{Timeout: probeTimeout},
		log:   log,
		now:   time.Now,
	}
}

func (b *LocalBackend) open(ctx context.Context) (*sql.DB, error) {
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", b.path)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode=WAL`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := migrateLocal(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateLocal(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS items (
			id      TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			pos     INTEGER NOT NULL,
			data    TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS analytics (
			item_id       TEXT PRIMARY KEY,
			visits        INTEGER NOT NULL DEFAULT 0,
			time_spent    INTEGER NOT NULL DEFAULT 0,
			weekly_visits INTEGER NOT NULL DEFAULT 0,
			last_visited  TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_user ON items(user_id, pos)`,
	}
	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (b *LocalBackend) List(ctx context.Context, userID string) ([]model.Item, error) {
	const op = "local-list"
	db, err := b.open(ctx)
	if err != nil {
		return nil, PersistenceError{Op: op, Message: err.Error()}
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT data FROM items WHERE user_id = ? ORDER BY pos`, userID)
	if err != nil {
		return nil, PersistenceError{Op: op, Message: err.Error()}
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, PersistenceError{Op: op, Message: err.Error()}
		}
		var w model.WireItem
		if err := json.Unmarshal([]byte(data), &w); err != nil {
			return nil, PersistenceError{Op: op, Message: err.Error()}
		}
		items = append(items, w.Canonical())
	}
	return items, rows.Err()
}

func (b *LocalBackend) Upsert(ctx context.Context, item model.Item, userID string) (model.Item, error) {
	const op = "local-upsert"
	db, err := b.open(ctx)
	if err != nil {
		return model.Item{}, PersistenceError{Op: op, Message: err.Error()}
	}
	defer db.Close()

	create := item.ID == ""
	if create {
		item.ID = "item-" + uuid.NewString()[:8]
		item.CreatedAt = b.now()
	}
	item.UpdatedAt = b.now()

	data, err := json.Marshal(item.Wire())
	if err != nil {
		return model.Item{}, PersistenceError{Op: op, Message: err.Error()}
	}

	if create {
		var next int
		if err := db.QueryRowContext(ctx, `SELECT COALESCE(MAX(pos), -1) + 1 FROM items WHERE user_id = ?`, userID).Scan(&next); err != nil {
			return model.Item{}, PersistenceError{Op: op, Message: err.Error()}
		}
		_, err = db.ExecContext(ctx, `INSERT INTO items(id, user_id, pos, data) VALUES(?, ?, ?, ?)`,
			item.ID, userID, next, string(data))
		if err != nil {
			return model.Item{}, PersistenceError{Op: op, Message: err.Error()}
		}
		return item, nil
	}

	res, err := db.ExecContext(ctx, `UPDATE items SET data = ? WHERE id = ? AND user_id = ?`,
		string(data), item.ID, userID)
	if err != nil {
		return model.Item{}, PersistenceError{Op: op, Message: err.Error()}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Item{}, PersistenceError{Op: op, Message: "item not found: " + item.ID}
	}
	return item, nil
}

func (b *LocalBackend) Remove(ctx context.Context, id, userID string) error {
	const op = "local-remove"
	db, err := b.open(ctx)
	if err != nil {
		return PersistenceError{Op: op, Message: err.Error()}
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ? AND user_id = ?`, id, userID); err != nil {
		return PersistenceError{Op: op, Message: err.Error()}
	}
	_, _ = db.ExecContext(ctx, `DELETE FROM analytics WHERE item_id = ?`, id)
	return nil
}

// HealthCheck probes every requested item URL concurrently (bounded) and
// persists the merged result, incrementing each item's check counter.
func (b *LocalBackend) HealthCheck(ctx context.Context, ids []string, userID string) ([]HealthResult, error) {
	const op = "local-health"
	items, err := b.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	results := make([]HealthResult, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(probeLimit)
	for i, id := range ids {
		i, id := i, id
		it, ok := byID[id]
		if !ok {
			results[i] = HealthResult{ItemID: id, Status: model.HealthBroken, LastChecked: b.now()}
			continue
		}
		g.Go(func() error {
			status := b.probeURL(gctx, it.URL)
			results[i] = HealthResult{ItemID: id, Status: status, LastChecked: b.now()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, NetworkError{Op: op, Err: err}
	}

	db, err := b.open(ctx)
	if err != nil {
		return nil, PersistenceError{Op: op, Message: err.Error()}
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, PersistenceError{Op: op, Message: err.Error()}
	}
	defer func() { _ = tx.Rollback() }()

	for _, r := range results {
		it, ok := byID[r.ItemID]
		if !ok {
			continue
		}
		checked := r.LastChecked
		it.Health = model.Health{
			Status:      r.Status,
			LastChecked: &checked,
			CheckCount:  it.Health.CheckCount + 1,
		}
		data, err := json.Marshal(it.Wire())
		if err != nil {
			return nil, PersistenceError{Op: op, Message: err.Error()}
		}
		if _, err := tx.ExecContext(ctx, `UPDATE items SET data = ? WHERE id = ? AND user_id = ?`,
			string(data), it.ID, userID); err != nil {
			return nil, PersistenceError{Op: op, Message: err.Error()}
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, PersistenceError{Op: op, Message: err.Error()}
	}

	b.log.Info("health check complete", zap.Int("checked", len(results)))
	return results, nil
}

// probeURL classifies one URL. 2xx responses grade on latency; redirects are
// acceptable; 4xx and timeouts degrade to poor; 5xx and transport failures
// are broken.
func (b *LocalBackend) probeURL(ctx context.Context, rawURL string) model.HealthStatus {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return model.HealthBroken
	}
	req.Header.Set("User-Agent", probeUserAgent)

	start := b.now()
	resp, err := b.probe.Do(req)
	elapsed := b.now().Sub(start)
	if err != nil {
		var nerr net.Error
		if errors.As(err, &nerr) && nerr.Timeout() {
			return model.HealthPoor
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return model.HealthPoor
		}
		return model.HealthBroken
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if elapsed < fastProbe {
			return model.HealthExcellent
		}
		if elapsed < acceptableProbe {
			return model.HealthWorking
		}
		return model.HealthFair
	case resp.StatusCode >= 300 && resp.StatusCode < 400:
		return model.HealthWorking
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return model.HealthPoor
	default:
		return model.HealthBroken
	}
}

func (b *LocalBackend) TrackVisit(ctx context.Context, id string) error {
	const op = "local-visit"
	db, err := b.open(ctx)
	if err != nil {
		return PersistenceError{Op: op, Message: err.Error()}
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, `
		INSERT INTO analytics(item_id, visits, weekly_visits, last_visited)
		VALUES(?, 1, 1, ?)
		ON CONFLICT(item_id) DO UPDATE SET
			visits = visits + 1,
			weekly_visits = weekly_visits + 1,
			last_visited = excluded.last_visited`,
		id, b.now().UTC().Format(time.RFC3339))
	if err != nil {
		return PersistenceError{Op: op, Message: err.Error()}
	}
	return nil
}

func (b *LocalBackend) UpdateTime(ctx context.Context, id string, minutes int, endedAt time.Time) error {
	const op = "local-time"
	db, err := b.open(ctx)
	if err != nil {
		return PersistenceError{Op: op, Message: err.Error()}
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, `
		INSERT INTO analytics(item_id, time_spent, last_visited)
		VALUES(?, ?, ?)
		ON CONFLICT(item_id) DO UPDATE SET
			time_spent = time_spent + excluded.time_spent,
			last_visited = excluded.last_visited`,
		id, minutes, endedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return PersistenceError{Op: op, Message: err.Error()}
	}
	return nil
}

func (b *LocalBackend) Snapshot(ctx context.Context, userID string) (map[string]model.AnalyticsSnapshot, error) {
	const op = "local-snapshot"
	items, err := b.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	db, err := b.open(ctx)
	if err != nil {
		return nil, PersistenceError{Op: op, Message: err.Error()}
	}
	defer db.Close()

	out := make(map[string]model.AnalyticsSnapshot, len(items))
	ids := make([]string, 0, len(items))
	for _, it := range items {
		// Persisted counters seed the snapshot; live rows override below.
		out[it.ID] = model.AnalyticsSnapshot{
			Visits:           it.Visits,
			TimeSpentMinutes: it.TimeSpentMinutes,
			WeeklyVisits:     it.WeeklyVisits,
		}
		ids = append(ids, it.ID)
	}

	rows, err := db.QueryContext(ctx, `SELECT item_id, visits, time_spent, weekly_visits FROM analytics`)
	if err != nil {
		return nil, PersistenceError{Op: op, Message: err.Error()}
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var visits, spent, weekly int
		if err := rows.Scan(&id, &visits, &spent, &weekly); err != nil {
			return nil, PersistenceError{Op: op, Message: err.Error()}
		}
		if snap, ok := out[id]; ok {
			snap.Visits += visits
			snap.TimeSpentMinutes += spent
			snap.WeeklyVisits += weekly
			out[id] = snap
		}
	}
	if err := rows.Err(); err != nil {
		return nil, PersistenceError{Op: op, Message: err.Error()}
	}

	total := 0
	for _, id := range ids {
		total += out[id].Visits
	}
	for _, id := range ids {
		snap := out[id]
		snap.UsagePercentage = usagePercentage(snap.Visits, total)
		out[id] = snap
	}
	return out, nil
}

// usagePercentage is round(visits/total*100), 0 when the total is 0.
func usagePercentage(visits, total int) int {
	if total == 0 {
		return 0
	}
	return int(float64(visits)/float64(total)*100 + 0.5)
}
