package format

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"linkdeck-cli/internal/model"
	"linkdeck-cli/internal/mutate"
)

var (
	bold = color.New(color.Bold).SprintFunc()

	healthColors = map[model.HealthStatus]*color.Color{
		model.HealthExcellent: color.New(color.FgGreen),
		model.HealthGood:      color.New(color.FgGreen),
		model.HealthWorking:   color.New(color.FgCyan),
		model.HealthFair:      color.New(color.FgYellow),
		model.HealthPoor:      color.New(color.FgYellow),
		model.HealthBroken:    color.New(color.FgRed),
	}
)

// WriteTable renders the known shapes as terminal tables. Unknown shapes fall
// back to JSON so scripted callers never lose data.
func WriteTable(w io.Writer, v any) error {
	switch t := v.(type) {
	case []model.Item:
		return writeItemTable(w, t)
	case model.Item:
		return writeItemTable(w, []model.Item{t})
	case []model.Folder:
		return writeFolderTable(w, t)
	case []model.GoalFolder:
		return writeGoalTable(w, t)
	default:
		return WriteJSON(w, v, true)
	}
}

func writeItemTable(w io.Writer, items []model.Item) error {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 50
	tbl.AddRow(bold("ID"), bold("Title"), bold("Category"), bold("Tags"), bold("Health"), bold("Visits"))
	for _, it := range items {
		tbl.AddRow(it.ID, it.Title, it.Category, mutate.JoinTags(it.Tags), healthCell(it.Health), it.Visits)
	}
	_, err := fmt.Fprintln(w, tbl)
	return err
}

func writeFolderTable(w io.Writer, folders []model.Folder) error {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold("ID"), bold("Name"), bold("Color"))
	for _, f := range folders {
		tbl.AddRow(f.ID, f.Name, f.Color)
	}
	_, err := fmt.Fprintln(w, tbl)
	return err
}

func writeGoalTable(w io.Writer, goals []model.GoalFolder) error {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold("ID"), bold("Name"), bold("Status"), bold("Progress"), bold("Deadline"))
	for _, g := range goals {
		tbl.AddRow(g.ID, g.Name, string(g.GoalStatus), fmt.Sprintf("%d%%", g.GoalProgress), g.Deadline)
	}
	_, err := fmt.Fprintln(w, tbl)
	return err
}

// HealthTable renders batched probe outcomes keyed by item title.
func HealthTable(w io.Writer, items []model.Item) error {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold("Title"), bold("Status"), bold("Checked"), bold("Checks"))
	for _, it := range items {
		checked := "never"
		if it.Health.LastChecked != nil {
			checked = relativeTime(*it.Health.LastChecked)
		}
		tbl.AddRow(it.Title, healthCell(it.Health), checked, it.Health.CheckCount)
	}
	_, err := fmt.Fprintln(w, tbl)
	return err
}

// AnalyticsTable renders usage snapshots alongside their items.
func AnalyticsTable(w io.Writer, items []model.Item, snaps []model.AnalyticsSnapshot) error {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold("Title"), bold("Visits"), bold("Weekly"), bold("Minutes"), bold("Usage"))
	for i, it := range items {
		if i >= len(snaps) {
			break
		}
		s := snaps[i]
		tbl.AddRow(it.Title, s.Visits, s.WeeklyVisits, s.TimeSpentMinutes, fmt.Sprintf("%d%%", s.UsagePercentage))
	}
	_, err := fmt.Fprintln(w, tbl)
	return err
}

func healthCell(h model.Health) string {
	status := h.Status
	if status == "" {
		status = model.HealthUnknown
	}
	if c, ok := healthColors[status]; ok {
		return c.Sprint(string(status))
	}
	return string(status)
}

func relativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// Categories renders the grouped category list, one line per key.
func Categories(w io.Writer, keys []string, counts map[string]int) error {
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s (%d)\n", bold(k), counts[k])
	}
	_, err := io.WriteString(w, b.String())
	return err
}
