// Package session tracks how long an item stays open and mediates one-field
// edits while it is. Viewing records survive the process: they are written to
// disk on open so a crash still has something to reconcile against.
package session

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/peterbourgon/diskv/v3"
	"go.uber.org/zap"

	"linkdeck-cli/internal/api"
)

// Record is the durable trace of an open viewing session.
type Record struct {
	ItemID    string    `json:"itemId"`
	StartedAt time.Time `json:"startedAt"`
}

// Viewing owns at most one open session at a time. Dwell time is reported in
// whole minutes, never less than one.
type Viewing struct {
	dir     string
	records *diskv.Diskv
	client  api.Client
	log     *zap.Logger
	now     func() time.Time

	mu      sync.Mutex
	current *Record
}

func NewViewing(dir string, client api.Client, log *zap.Logger) *Viewing {
	if log == nil {
		log = zap.NewNop()
	}
	return &Viewing{
		dir: dir,
		records: diskv.New(diskv.Options{
			BasePath:     dir,
			CacheSizeMax: 1 << 20,
		}),
		client: client,
		log:    log,
		now:    time.Now,
	}
}

// Current returns the open session, if any.
func (v *Viewing) Current() (Record, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.current == nil {
		return Record{}, false
	}
	return *v.current, true
}

// Resume adopts a durable record written earlier, possibly by another
// process, so this one can close it.
func (v *Viewing) Resume(itemID string) (Record, bool) {
	data, err := v.records.Read(itemID)
	if err != nil {
		return Record{}, false
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		v.log.Warn("corrupt session record", zap.String("item", itemID), zap.Error(err))
		return Record{}, false
	}
	v.mu.Lock()
	v.current = &rec
	v.mu.Unlock()
	return rec, true
}

// Open starts a session for the item. An already-open session for another
// item is closed first so dwell time never double-books.
func (v *Viewing) Open(ctx context.Context, itemID string) error {
	v.mu.Lock()
	prev := v.current
	v.mu.Unlock()
	if prev != nil && prev.ItemID != itemID {
		if err := v.Close(ctx); err != nil {
			v.log.Warn("implicit close failed", zap.String("item", prev.ItemID), zap.Error(err))
		}
	}

	rec := Record{ItemID: itemID, StartedAt: v.now()}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := v.records.Write(itemID, data); err != nil {
		return err
	}
	v.mu.Lock()
	v.current = &rec
	v.mu.Unlock()
	return nil
}

// Close ends the open session: report the dwell minutes, then drop the
// durable record. A failed report keeps both the record and the open
// session so the close can be retried.
func (v *Viewing) Close(ctx context.Context) error {
	v.mu.Lock()
	rec := v.current
	v.mu.Unlock()
	if rec == nil {
		return nil
	}

	ended := v.now()
	minutes := dwellMinutes(ended.Sub(rec.StartedAt))
	if err := v.client.UpdateTime(ctx, rec.ItemID, minutes, ended); err != nil {
		v.log.Warn("dwell report failed", zap.String("item", rec.ItemID), zap.Error(err))
		return err
	}
	if err := v.records.Erase(rec.ItemID); err != nil {
		v.log.Warn("record erase failed", zap.String("item", rec.ItemID), zap.Error(err))
	}

	v.mu.Lock()
	if v.current != nil && v.current.ItemID == rec.ItemID {
		v.current = nil
	}
	v.mu.Unlock()
	v.log.Debug("session closed", zap.String("item", rec.ItemID), zap.Int("minutes", minutes))
	return nil
}

// Reconcile discards records left behind by a previous run. Stale records
// report nothing: there is no honest way to know when that process died.
// Returns how many records were discarded.
func (v *Viewing) Reconcile() int {
	v.mu.Lock()
	current := ""
	if v.current != nil {
		current = v.current.ItemID
	}
	v.mu.Unlock()

	discarded := 0
	for key := range v.records.Keys(nil) {
		if key == current {
			continue
		}
		if err := v.records.Erase(key); err != nil {
			v.log.Warn("stale record erase failed", zap.String("item", key), zap.Error(err))
			continue
		}
		discarded++
	}
	if discarded > 0 {
		v.log.Info("discarded stale session records", zap.Int("count", discarded))
	}
	return discarded
}

// Watch observes the record directory so a session ended by another process
// is noticed here. onEnd fires with the item id of each removed record.
// Blocks until the context ends.
func (v *Viewing) Watch(ctx context.Context, onEnd func(itemID string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(v.dir); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Remove == 0 {
				continue
			}
			id := recordKey(ev.Name)
			v.mu.Lock()
			if v.current != nil && v.current.ItemID == id {
				v.current = nil
			}
			v.mu.Unlock()
			if onEnd != nil {
				onEnd(id)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			v.log.Warn("session watch error", zap.Error(err))
		}
	}
}

func recordKey(path string) string {
	return filepath.Base(path)
}

// dwellMinutes rounds the elapsed time to whole minutes with a floor of one,
// so even a glance at an item counts.
func dwellMinutes(elapsed time.Duration) int {
	minutes := int(elapsed.Round(time.Minute) / time.Minute)
	if minutes < 1 {
		return 1
	}
	return minutes
}
