package model

import "time"

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// HealthStatus is the probe classification for an item's URL.
type HealthStatus string

const (
	HealthExcellent HealthStatus = "excellent"
	HealthGood      HealthStatus = "good"
	HealthWorking   HealthStatus = "working"
	HealthFair      HealthStatus = "fair"
	HealthPoor      HealthStatus = "poor"
	HealthBroken    HealthStatus = "broken"
	HealthUnknown   HealthStatus = "unknown"
)

type Health struct {
	Status      HealthStatus `json:"status"`
	LastChecked *time.Time   `json:"lastChecked,omitempty"`
	CheckCount  int          `json:"checkCount"`
}

// Item is the unit entity being organized (a saved link).
//
// Items only enter the process through wire decoding (see wire.go), which
// folds legacy field aliases into this canonical schema once. Readers never
// see alias chains.
type Item struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Priority    Priority `json:"priority,omitempty"`
	IsFavorite  bool     `json:"isFavorite"`

	Health Health `json:"health"`

	RelatedIDs []string `json:"relatedIds,omitempty"`

	// Persisted usage counters. Fallbacks only: the analytics enricher
	// prefers the live feed and recomputes percentages on read.
	Visits           int `json:"visits"`
	TimeSpentMinutes int `json:"timeSpentMinutes"`
	WeeklyVisits     int `json:"weeklyVisits"`

	CustomBackground string `json:"customBackground,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Folder is an independently curated collection card (Folder 2.0 screen).
// Folders relate to items only by category-name text, not by foreign key.
type Folder struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Color       string    `json:"color,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type GoalStatus string

const (
	GoalPending    GoalStatus = "pending"
	GoalInProgress GoalStatus = "in_progress"
	GoalCompleted  GoalStatus = "completed"
)

// GoalFolder is a folder with goal tracking attached (Goal 2.0 screen).
type GoalFolder struct {
	Folder

	Deadline     string     `json:"deadlineDate,omitempty"` // YYYY-MM-DD
	GoalType     string     `json:"goalType,omitempty"`
	GoalStatus   GoalStatus `json:"goalStatus,omitempty"`
	GoalPriority Priority   `json:"goalPriority,omitempty"`
	GoalProgress int        `json:"goalProgress"`
	GoalNotes    string     `json:"goalNotes,omitempty"`
}

// AnalyticsSnapshot is the per-item usage view computed on read, never stored.
type AnalyticsSnapshot struct {
	Visits           int `json:"visits"`
	TimeSpentMinutes int `json:"timeSpent"`
	WeeklyVisits     int `json:"weeklyVisits"`
	UsagePercentage  int `json:"usagePercentage"`
}

// ViewMode names a presentation mode. The reorder engine routes a completed
// drag strictly by (ViewMode, SubMode); id lookup never falls through to
// another sequence.
type ViewMode string

const (
	ViewGrid      ViewMode = "grid"
	ViewCompact   ViewMode = "compact"
	ViewList      ViewMode = "list"
	ViewTimeline  ViewMode = "timeline"
	ViewHierarchy ViewMode = "hierarchy"
	ViewFolder2   ViewMode = "folder2"
	ViewGoal2     ViewMode = "goal2"
	ViewKanban    ViewMode = "kanban"
)

// SubMode distinguishes the folder-card browser from the item list inside
// compact and list views.
type SubMode string

const (
	SubFolders   SubMode = "folders"
	SubBookmarks SubMode = "bookmarks"
)
