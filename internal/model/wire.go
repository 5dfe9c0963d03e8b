package model

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// WireID accepts both the collaborator's historical integer ids and locally
// minted string ids, and always re-emits a string.
type WireID string

func (id *WireID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		*id = ""
		return nil
	}
	if s[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*id = WireID(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = WireID(n.String())
	return nil
}

func (id WireID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

// WireItem is the persistence collaborator's item shape. Older rows carry
// snake_case aliases for several fields (site_health vs siteHealth, etc.);
// Canonical folds them once here so the rest of the code reads a single
// schema.
type WireItem struct {
	ID          WireID   `json:"id"`
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Priority    string   `json:"priority,omitempty"`

	IsFavorite       bool `json:"isFavorite,omitempty"`
	LegacyIsFavorite bool `json:"is_favorite,omitempty"`

	SiteHealth       string `json:"siteHealth,omitempty"`
	LegacySiteHealth string `json:"site_health,omitempty"`

	LastHealthCheck       string `json:"lastHealthCheck,omitempty"`
	LegacyLastHealthCheck string `json:"last_health_check,omitempty"`

	HealthCheckCount       int `json:"healthCheckCount,omitempty"`
	LegacyHealthCheckCount int `json:"health_check_count,omitempty"`

	Visits            int `json:"visits,omitempty"`
	LegacyVisitCount  int `json:"visit_count,omitempty"`
	TimeSpentMinutes  int `json:"timeSpentMinutes,omitempty"`
	LegacyTimeSpent   int `json:"time_spent,omitempty"`
	WeeklyVisits      int `json:"weeklyVisits,omitempty"`
	LegacyWeeklyCount int `json:"weekly_visits,omitempty"`

	RelatedIDs       []WireID `json:"relatedIds,omitempty"`
	LegacyRelatedIDs []WireID `json:"related_bookmark_ids,omitempty"`

	CustomBackground       string `json:"customBackground,omitempty"`
	LegacyCustomBackground string `json:"custom_background,omitempty"`

	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Canonical converts a wire row into the canonical Item, resolving every
// legacy alias pair in one place.
func (w WireItem) Canonical() Item {
	it := Item{
		ID:          normalizeID(w.ID),
		Title:       strings.TrimSpace(w.Title),
		URL:         strings.TrimSpace(w.URL),
		Description: w.Description,
		Category:    strings.TrimSpace(w.Category),
		Tags:        w.Tags,
		Priority:    ParsePriority(w.Priority),
		IsFavorite:  w.IsFavorite || w.LegacyIsFavorite,
	}

	it.Health.Status = ParseHealthStatus(firstNonEmpty(w.SiteHealth, w.LegacySiteHealth))
	if ts := firstNonEmpty(w.LastHealthCheck, w.LegacyLastHealthCheck); ts != "" {
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			it.Health.LastChecked = &t
		}
	}
	it.Health.CheckCount = firstNonZero(w.HealthCheckCount, w.LegacyHealthCheckCount)

	it.Visits = firstNonZero(w.Visits, w.LegacyVisitCount)
	it.TimeSpentMinutes = firstNonZero(w.TimeSpentMinutes, w.LegacyTimeSpent)
	it.WeeklyVisits = firstNonZero(w.WeeklyVisits, w.LegacyWeeklyCount)

	related := w.RelatedIDs
	if len(related) == 0 {
		related = w.LegacyRelatedIDs
	}
	for _, id := range related {
		if s := normalizeID(id); s != "" {
			it.RelatedIDs = append(it.RelatedIDs, s)
		}
	}

	it.CustomBackground = firstNonEmpty(w.CustomBackground, w.LegacyCustomBackground)

	if t, err := time.Parse(time.RFC3339, w.CreatedAt); err == nil {
		it.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, w.UpdatedAt); err == nil {
		it.UpdatedAt = t
	}
	return it
}

// Wire converts a canonical Item back into the collaborator's shape. Only the
// canonical spelling of each alias pair is written.
func (it Item) Wire() WireItem {
	w := WireItem{
		ID:               WireID(it.ID),
		Title:            it.Title,
		URL:              it.URL,
		Description:      it.Description,
		Category:         it.Category,
		Tags:             it.Tags,
		Priority:         string(it.Priority),
		IsFavorite:       it.IsFavorite,
		SiteHealth:       string(it.Health.Status),
		HealthCheckCount: it.Health.CheckCount,
		Visits:           it.Visits,
		TimeSpentMinutes: it.TimeSpentMinutes,
		WeeklyVisits:     it.WeeklyVisits,
		CustomBackground: it.CustomBackground,
	}
	if it.Health.LastChecked != nil {
		w.LastHealthCheck = it.Health.LastChecked.UTC().Format(time.RFC3339)
	}
	for _, id := range it.RelatedIDs {
		w.RelatedIDs = append(w.RelatedIDs, WireID(id))
	}
	if !it.CreatedAt.IsZero() {
		w.CreatedAt = it.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !it.UpdatedAt.IsZero() {
		w.UpdatedAt = it.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return w
}

func ParsePriority(s string) Priority {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return PriorityHigh
	case "low":
		return PriorityLow
	case "medium", "":
		return PriorityMedium
	default:
		return PriorityMedium
	}
}

func ParseHealthStatus(s string) HealthStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "excellent":
		return HealthExcellent
	case "good":
		return HealthGood
	case "working":
		return HealthWorking
	case "fair":
		return HealthFair
	case "poor":
		return HealthPoor
	case "broken":
		return HealthBroken
	default:
		return HealthUnknown
	}
}

// normalizeID renders numeric and string ids uniformly. The collaborator
// historically issued integer ids; locally minted ones are already strings.
func normalizeID(id WireID) string {
	s := strings.TrimSpace(string(id))
	if s == "" {
		return ""
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return strconv.FormatInt(i, 10)
	}
	return s
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}

func firstNonZero(a, b int) int {
	if a != 0 {
		return a
	}
	return b
}
