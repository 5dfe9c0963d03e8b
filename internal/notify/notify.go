// Package notify keeps short-lived user-facing notices. Notices expire on
// their own; readers see only the ones still inside their window.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultTTL = 3 * time.Second

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

type Notice struct {
	ID      string
	Kind    Kind
	Message string
	At      time.Time
}

type Center struct {
	mu      sync.Mutex
	notices []Notice
	ttl     time.Duration
	now     func() time.Time
}

func NewCenter() *Center {
	return &Center{ttl: defaultTTL, now: time.Now}
}

func (c *Center) Success(msg string) { c.push(KindSuccess, msg) }
func (c *Center) Error(msg string)   { c.push(KindError, msg) }
func (c *Center) Info(msg string)    { c.push(KindInfo, msg) }

func (c *Center) push(kind Kind, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prune()
	c.notices = append(c.notices, Notice{
		ID:      uuid.NewString(),
		Kind:    kind,
		Message: msg,
		At:      c.now(),
	})
}

// Active returns the notices still inside their display window, oldest first.
func (c *Center) Active() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prune()
	out := make([]Notice, len(c.notices))
	copy(out, c.notices)
	return out
}

// Dismiss drops one notice before its window ends.
func (c *Center) Dismiss(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, n := range c.notices {
		if n.ID == id {
			c.notices = append(c.notices[:i], c.notices[i+1:]...)
			return
		}
	}
}

func (c *Center) prune() {
	cutoff := c.now().Add(-c.ttl)
	live := c.notices[:0]
	for _, n := range c.notices {
		if n.At.After(cutoff) {
			live = append(live, n)
		}
	}
	c.notices = live
}
