package analytics

import "go.uber.org/zap"

// Opener launches a URL in whatever the platform considers a browser.
type Opener func(url string) error

// Visitor couples visit tracking with navigation. Both halves are
// fire-and-forget: a failed open or a failed report never blocks the caller
// and never rolls the other half back.
type Visitor struct {
	feed Feed
	open Opener
	log  *zap.Logger
}

func NewVisitor(feed Feed, open Opener, log *zap.Logger) *Visitor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Visitor{feed: feed, open: open, log: log}
}

func (v *Visitor) VisitSite(id, url string) {
	v.feed.TrackVisit(id)
	if v.open == nil || url == "" {
		return
	}
	go func() {
		if err := v.open(url); err != nil {
			v.log.Warn("open failed", zap.String("url", url), zap.Error(err))
		}
	}()
}
