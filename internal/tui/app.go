// Package tui is the interactive dashboard: every view mode of the web
// original driven by the keyboard, with moves routed through the reorder
// engine and dwell time tracked while a detail pane is open.
package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"
	"go.uber.org/zap"

	"linkdeck-cli/internal/analytics"
	"linkdeck-cli/internal/api"
	"linkdeck-cli/internal/health"
	"linkdeck-cli/internal/model"
	"linkdeck-cli/internal/notify"
	"linkdeck-cli/internal/reorder"
	"linkdeck-cli/internal/session"
	"linkdeck-cli/internal/store"
)

// Run starts the dashboard and blocks until the user quits.
func Run(client api.Client, userID, dataDir string, log *zap.Logger) error {
	m := newApp(client, userID, dataDir, log)
	p := tea.NewProgram(m, tea.WithAltScreen())

	// Another process closing the open session shows up as a record
	// removal; redraw so the detail pane reflects it.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		err := m.viewing.Watch(ctx, func(string) { p.Send(sessionMsg{}) })
		if err != nil && ctx.Err() == nil {
			m.log.Warn("session watch failed", zap.Error(err))
		}
	}()

	_, err := p.Run()
	return err
}

var viewCycle = []model.ViewMode{
	model.ViewGrid,
	model.ViewCompact,
	model.ViewList,
	model.ViewTimeline,
	model.ViewHierarchy,
	model.ViewFolder2,
	model.ViewGoal2,
	model.ViewKanban,
}

type app struct {
	client api.Client
	userID string
	log    *zap.Logger

	items    *store.Collection
	cats     *store.CategoryIndex
	folders  *store.FolderList[model.Folder]
	goals    *store.FolderList[model.GoalFolder]
	fstore   *store.FolderStore
	engine   *reorder.Engine
	feed     *analytics.LiveFeed
	enricher *analytics.Enricher
	visitor  *analytics.Visitor
	monitor  *health.Monitor
	notes    *notify.Center
	viewing  *session.Viewing
	editor   *session.Editor

	mode   model.ViewMode
	sub    model.SubMode
	cursor int

	detailID string
	input    textinput.Model
	spin     spinner.Model
	loading  bool

	width  int
	height int
}

func newApp(client api.Client, userID, dataDir string, log *zap.Logger) *app {
	if log == nil {
		log = zap.NewNop()
	}
	items := store.NewCollection()
	cats := store.NewCategoryIndex()
	items.Subscribe(func() { cats.Derive(items.Categories()) })
	folders := store.NewFolders()
	goals := store.NewGoalFolders()
	notes := notify.NewCenter()
	feed := analytics.NewLiveFeed(client, userID, log)

	in := textinput.New()
	in.CharLimit = 512

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &app{
		client:   client,
		userID:   userID,
		log:      log,
		items:    items,
		cats:     cats,
		folders:  folders,
		goals:    goals,
		fstore:   store.NewFolderStore(dataDir),
		engine:   reorder.NewEngine(items, cats, folders, goals),
		feed:     feed,
		enricher: analytics.NewEnricher(feed),
		visitor:  analytics.NewVisitor(feed, openURL, log),
		monitor:  health.NewMonitor(client, items, notes, userID, log),
		notes:    notes,
		viewing:  session.NewViewing(filepath.Join(dataDir, "sessions"), client, log),
		editor:   session.NewEditor(items, client, notes, userID, log),
		mode:     model.ViewGrid,
		sub:      model.SubFolders,
		input:    in,
		spin:     sp,
		loading:  true,
	}
}

type itemsLoadedMsg struct {
	items   []model.Item
	folders []model.Folder
	goals   []model.GoalFolder
	err     error
}

type feedRefreshedMsg struct{ err error }

type healthDoneMsg struct{ err error }

type favoriteSavedMsg struct {
	id   string
	prev bool
	err  error
}

type editDoneMsg struct{ err error }

type sessionMsg struct{ err error }

type tickMsg time.Time

func (a *app) Init() tea.Cmd {
	a.viewing.Reconcile()
	return tea.Batch(a.loadCmd(), a.refreshFeedCmd(), a.spin.Tick, tick())
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (a *app) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		items, err := a.client.List(ctx, a.userID)
		if err != nil {
			return itemsLoadedMsg{err: err}
		}
		folders, err := a.fstore.LoadFolders()
		if err != nil {
			return itemsLoadedMsg{err: err}
		}
		goals, err := a.fstore.LoadGoals()
		if err != nil {
			return itemsLoadedMsg{err: err}
		}
		return itemsLoadedMsg{items: items, folders: folders, goals: goals}
	}
}

func (a *app) refreshFeedCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return feedRefreshedMsg{err: a.feed.Refresh(ctx)}
	}
}

func (a *app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		return a, nil

	case itemsLoadedMsg:
		a.loading = false
		if msg.err != nil {
			a.notes.Error("Failed to load bookmarks")
			return a, nil
		}
		a.items.Load(msg.items)
		a.folders.Load(msg.folders)
		a.goals.Load(msg.goals)
		a.clampCursor()
		return a, nil

	case feedRefreshedMsg:
		// Persisted counters keep serving when the feed fails.
		return a, nil

	case healthDoneMsg:
		return a, nil

	case favoriteSavedMsg:
		if msg.err != nil {
			prev := msg.prev
			a.items.Update(msg.id, store.ItemPatch{IsFavorite: &prev})
			a.notes.Error("Failed to update favorite")
		}
		return a, nil

	case editDoneMsg:
		a.input.Blur()
		return a, nil

	case sessionMsg:
		if msg.err != nil {
			a.notes.Error("Failed to save viewing session")
		}
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case tickMsg:
		return a, tick()

	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return a, nil
}

func (a *app) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if _, editing := a.editor.Active(); editing {
		return a.handleEditKey(msg)
	}
	if a.detailID != "" {
		return a.handleDetailKey(msg)
	}
	return a.handleBrowseKey(msg)
}

func (a *app) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "j", "down":
		a.cursor++
		a.clampCursor()
	case "k", "up":
		a.cursor--
		a.clampCursor()
	case "J", "shift+down":
		return a, a.moveSelected(1)
	case "K", "shift+up":
		return a, a.moveSelected(-1)
	case "v":
		a.mode = nextView(a.mode)
		a.cursor = 0
	case "s":
		if a.sub == model.SubFolders {
			a.sub = model.SubBookmarks
		} else {
			a.sub = model.SubFolders
		}
		a.cursor = 0
	case "enter":
		if id, ok := a.selectedItemID(); ok {
			a.detailID = id
			return a, a.openSessionCmd(id)
		}
	case "f":
		return a, a.toggleFavorite()
	case "o":
		if id, ok := a.selectedItemID(); ok {
			if it, found := a.items.Find(id); found {
				a.visitor.VisitSite(it.ID, it.URL)
				visits := it.Visits + 1
				a.items.Update(it.ID, store.ItemPatch{Visits: &visits})
			}
		}
	case "h":
		if id, ok := a.selectedItemID(); ok {
			return a, a.checkHealthCmd([]string{id})
		}
	case "H":
		return a, a.checkHealthCmd(nil)
	case "r":
		a.loading = true
		return a, tea.Batch(a.loadCmd(), a.refreshFeedCmd())
	}
	return a, nil
}

func (a *app) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		a.detailID = ""
		return a, a.closeSessionCmd()
	case "t":
		return a, a.beginEdit("title")
	case "u":
		return a, a.beginEdit("url")
	case "d":
		return a, a.beginEdit("description")
	case "c":
		return a, a.beginEdit("category")
	case "g":
		return a, a.beginEdit("tags")
	case "f":
		return a, a.toggleFavorite()
	case "h":
		return a, a.checkHealthCmd([]string{a.detailID})
	}
	return a, nil
}

func (a *app) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.editor.Cancel()
		a.input.Blur()
		return a, nil
	case "enter":
		a.editor.SetPending(a.input.Value())
		return a, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			return editDoneMsg{err: a.editor.Commit(ctx)}
		}
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *app) beginEdit(field string) tea.Cmd {
	if err := a.editor.Begin(a.detailID, field); err != nil {
		a.notes.Error(err.Error())
		return nil
	}
	edit, _ := a.editor.Active()
	a.input.SetValue(edit.Pending)
	a.input.CursorEnd()
	return a.input.Focus()
}

// moveSelected emits one (activeID, overID) pair: the selected row and its
// neighbor in the direction of travel, within whatever sequence the current
// view routes to.
func (a *app) moveSelected(dir int) tea.Cmd {
	rows := a.rows()
	target := a.cursor + dir
	if a.cursor < 0 || a.cursor >= len(rows) || target < 0 || target >= len(rows) {
		return nil
	}
	active, over := rows[a.cursor].id, rows[target].id
	if !a.engine.Apply(a.mode, a.sub, active, over) {
		return nil
	}
	a.cursor = target
	switch a.mode {
	case model.ViewFolder2:
		return a.saveFoldersCmd()
	case model.ViewGoal2:
		return a.saveGoalsCmd()
	}
	return nil
}

func (a *app) saveFoldersCmd() tea.Cmd {
	folders := a.folders.Items()
	return func() tea.Msg {
		if err := a.fstore.SaveFolders(folders); err != nil {
			a.log.Warn("folder save failed", zap.Error(err))
		}
		return sessionMsg{}
	}
}

func (a *app) saveGoalsCmd() tea.Cmd {
	goals := a.goals.Items()
	return func() tea.Msg {
		if err := a.fstore.SaveGoals(goals); err != nil {
			a.log.Warn("goal save failed", zap.Error(err))
		}
		return sessionMsg{}
	}
}

func (a *app) toggleFavorite() tea.Cmd {
	id := a.detailID
	if id == "" {
		var ok bool
		if id, ok = a.selectedItemID(); !ok {
			return nil
		}
	}
	it, ok := a.items.Find(id)
	if !ok {
		return nil
	}
	prev := it.IsFavorite
	next := !prev
	// Optimistic: flip locally, roll back if the store rejects it.
	a.items.Update(id, store.ItemPatch{IsFavorite: &next})
	it.IsFavorite = next
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_, err := a.client.Upsert(ctx, it, a.userID)
		return favoriteSavedMsg{id: id, prev: prev, err: err}
	}
}

func (a *app) checkHealthCmd(ids []string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		if ids == nil {
			return healthDoneMsg{err: a.monitor.CheckAll(ctx)}
		}
		return healthDoneMsg{err: a.monitor.Check(ctx, ids)}
	}
}

func (a *app) openSessionCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return sessionMsg{err: a.viewing.Open(ctx, id)}
	}
}

func (a *app) closeSessionCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return sessionMsg{err: a.viewing.Close(ctx)}
	}
}

type rowEntry struct {
	id    string
	label string
}

// rows flattens the sequence the current (view, sub) routes to, so cursor
// movement and reorder always agree on what is on screen.
func (a *app) rows() []rowEntry {
	switch {
	case a.mode == model.ViewFolder2:
		out := make([]rowEntry, 0, a.folders.Len())
		for _, f := range a.folders.Items() {
			out = append(out, rowEntry{id: f.ID, label: f.Name})
		}
		return out
	case a.mode == model.ViewGoal2:
		out := make([]rowEntry, 0, a.goals.Len())
		for _, g := range a.goals.Items() {
			out = append(out, rowEntry{id: g.ID, label: fmt.Sprintf("%s (%d%%)", g.Name, g.GoalProgress)})
		}
		return out
	case (a.mode == model.ViewCompact || a.mode == model.ViewList) && a.sub == model.SubFolders:
		keys := a.cats.Keys()
		out := make([]rowEntry, 0, len(keys))
		for _, k := range keys {
			out = append(out, rowEntry{id: k, label: k})
		}
		return out
	default:
		items := a.items.Items()
		out := make([]rowEntry, 0, len(items))
		for _, it := range items {
			out = append(out, rowEntry{id: it.ID, label: a.itemLabel(it)})
		}
		return out
	}
}

func (a *app) itemLabel(it model.Item) string {
	fav := " "
	if it.IsFavorite {
		fav = "★"
	}
	label := fmt.Sprintf("%s %s %s", healthGlyph(it.Health), fav, it.Title)
	if it.Category != "" {
		label += styleMuted.Render("  " + it.Category)
	}
	if a.monitor.Checking(it.ID) {
		label += "  " + a.spin.View()
	}
	return label
}

// selectedItemID resolves the cursor to an item id; category/folder rows do
// not open detail views.
func (a *app) selectedItemID() (string, bool) {
	rows := a.rows()
	if a.cursor < 0 || a.cursor >= len(rows) {
		return "", false
	}
	id := rows[a.cursor].id
	if _, ok := a.items.Find(id); !ok {
		return "", false
	}
	return id, true
}

func (a *app) clampCursor() {
	n := len(a.rows())
	if n == 0 {
		a.cursor = 0
		return
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
	if a.cursor >= n {
		a.cursor = n - 1
	}
}

func nextView(v model.ViewMode) model.ViewMode {
	for i, m := range viewCycle {
		if m == v {
			return viewCycle[(i+1)%len(viewCycle)]
		}
	}
	return model.ViewGrid
}

func (a *app) View() string {
	if a.width == 0 {
		a.width = 80
	}
	var b strings.Builder

	header := styleHeader.Render("linkdeck") + styleMuted.Render(fmt.Sprintf("  [%s]", a.mode))
	if a.mode == model.ViewCompact || a.mode == model.ViewList {
		header += styleMuted.Render(fmt.Sprintf(" (%s)", a.sub))
	}
	if a.loading {
		header += "  " + a.spin.View() + styleMuted.Render(" loading")
	}
	b.WriteString(header + "\n\n")

	if edit, ok := a.editor.Active(); ok {
		b.WriteString(fmt.Sprintf("Edit %s:\n%s\n\n", edit.Field, a.input.View()))
		b.WriteString(styleMuted.Render("enter save · esc cancel"))
		return b.String()
	}

	if a.detailID != "" {
		b.WriteString(a.detailView())
	} else {
		b.WriteString(a.listView())
	}

	for _, n := range a.notes.Active() {
		st, ok := styleNotice[string(n.Kind)]
		if !ok {
			st = styleMuted
		}
		b.WriteString("\n" + st.Render(n.Message))
	}
	b.WriteString("\n" + styleMuted.Render(a.helpLine()))
	return b.String()
}

func (a *app) listView() string {
	rows := a.rows()
	if len(rows) == 0 {
		return styleMuted.Render("No bookmarks yet. Press r to reload.") + "\n"
	}
	var b strings.Builder
	for i, r := range rows {
		line := "  " + r.label
		if xansi.StringWidth(line) > a.width {
			line = xansi.Cut(line, 0, a.width)
		}
		if i == a.cursor {
			line = styleRowSel.Render("> " + strings.TrimPrefix(line, "  "))
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (a *app) detailView() string {
	it, ok := a.items.Find(a.detailID)
	if !ok {
		return styleMuted.Render("Bookmark gone.") + "\n"
	}
	var b strings.Builder
	b.WriteString(styleHeader.Render(it.Title) + "\n")
	b.WriteString(styleMuted.Render(it.URL) + "\n\n")

	if it.Category != "" {
		b.WriteString("Category: " + it.Category + "\n")
	}
	if len(it.Tags) > 0 {
		b.WriteString("Tags:     " + strings.Join(it.Tags, ", ") + "\n")
	}
	b.WriteString("Health:   " + healthGlyph(it.Health) + " " + string(displayStatus(it.Health)) + "\n")
	if snap, ok := a.enricher.Lookup(a.items.Items(), it.ID); ok {
		b.WriteString(fmt.Sprintf("Usage:    %d visits · %d min · %d%%\n", snap.Visits, snap.TimeSpentMinutes, snap.UsagePercentage))
	}
	if it.Description != "" {
		width := a.width - 4
		if width > 80 {
			width = 80
		}
		b.WriteString("\n" + renderMarkdown(it.Description, width) + "\n")
	}
	return b.String()
}

func displayStatus(h model.Health) model.HealthStatus {
	if h.Status == "" {
		return model.HealthUnknown
	}
	return h.Status
}

func (a *app) helpLine() string {
	if a.detailID != "" {
		return "t/u/d/c/g edit · f favorite · h check · esc back"
	}
	return "j/k move · J/K reorder · v view · s sub · enter open · f fav · o visit · h/H check · r reload · q quit"
}
