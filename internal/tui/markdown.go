package tui

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

var (
	mdRendererMu sync.Mutex
	// Cache renderers by wrap width. Creating a renderer with WithAutoStyle
	// can trigger terminal queries that block on some terminals, so we pick
	// the style ourselves and cache by width.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	style := "light"
	if termenv.HasDarkBackground() {
		style = "dark"
	}
	key := style + ":" + strconv.Itoa(width)

	mdRendererMu.Lock()
	r := mdRenderers[key]
	mdRendererMu.Unlock()

	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		mdRendererMu.Lock()
		if existing := mdRenderers[key]; existing != nil {
			rr = existing
		} else {
			mdRenderers[key] = rr
		}
		mdRendererMu.Unlock()
		r = rr
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
