// Package reorder routes completed drag events to exactly one ordered
// sequence per view mode.
//
// The engine deliberately replaces the one-handler cascade the dashboard
// started with (try items, then goal folders, then folders, then category
// cards until some lookup hits). Id spaces of items, categories, and folders
// overlap, so lookup-miss fallthrough can misfire a reorder against the
// wrong sequence; here each (ViewMode, SubMode) names its single target and
// a miss is a no-op, never a fallback.
package reorder

import "linkdeck-cli/internal/model"

// Sequence is any ordered collection supporting the stable-permutation move
// contract: remove active, reinsert at over's index, every other element
// keeps relative order; unknown or equal ids are a no-op.
type Sequence interface {
	MoveTo(activeID, overID string) bool
}

type route struct {
	mode model.ViewMode
	sub  model.SubMode
}

// Engine applies drag events against the one sequence selected by the
// routing table.
type Engine struct {
	routes map[route]Sequence
}

// NewEngine builds the routing table over the four sequences of the
// dashboard. Compact and list views route to the category grouping while
// browsing folder cards and to the collection once inside a folder; every
// other item view routes to the collection; the Folder 2.0 and Goal 2.0
// screens route to their own collections.
func NewEngine(collection, categories, folders, goals Sequence) *Engine {
	e := &Engine{routes: map[route]Sequence{}}

	for _, m := range []model.ViewMode{model.ViewGrid, model.ViewTimeline, model.ViewHierarchy, model.ViewKanban} {
		e.routes[route{mode: m}] = collection
	}
	for _, m := range []model.ViewMode{model.ViewCompact, model.ViewList} {
		e.routes[route{mode: m, sub: model.SubFolders}] = categories
		e.routes[route{mode: m, sub: model.SubBookmarks}] = collection
	}
	e.routes[route{mode: model.ViewFolder2}] = folders
	e.routes[route{mode: model.ViewGoal2}] = goals

	return e
}

// Apply permutes the sequence routed for (mode, sub). It reports whether the
// sequence changed. Ids absent from the routed sequence are a no-op; the
// engine never searches other sequences.
func (e *Engine) Apply(mode model.ViewMode, sub model.SubMode, activeID, overID string) bool {
	seq, ok := e.routes[route{mode: mode, sub: sub}]
	if !ok && sub != "" {
		// Views outside compact/list ignore the sub-mode entirely.
		seq, ok = e.routes[route{mode: mode}]
	}
	if !ok {
		// Compact/list without a sub-mode defaults to the folder browser.
		seq, ok = e.routes[route{mode: mode, sub: model.SubFolders}]
	}
	if !ok || seq == nil {
		return false
	}
	return seq.MoveTo(activeID, overID)
}
