package cli

import (
	"github.com/spf13/cobra"

	"linkdeck-cli/internal/analytics"
	"linkdeck-cli/internal/format"
	"linkdeck-cli/internal/model"
)

func newAnalyticsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Usage analytics",
	}
	cmd.AddCommand(newAnalyticsShowCmd(app))
	cmd.AddCommand(newAnalyticsStatsCmd(app))
	return cmd
}

func newAnalyticsShowCmd(app *App) *cobra.Command {
	var offline bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Per-bookmark usage with recomputed shares",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			col, _, err := loadCollection(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			client, log, err := app.backend()
			if err != nil {
				return writeErr(cmd, err)
			}

			feed := analytics.NewLiveFeed(client, app.UserID, log)
			if !offline {
				// Persisted counters still serve when the feed cannot load.
				_ = feed.Refresh(cmd.Context())
			}
			enricher := analytics.NewEnricher(feed)
			items := col.Items()
			snaps := enricher.Enrich(items)

			if app.Format == "table" {
				return format.AnalyticsTable(cmd.OutOrStdout(), items, snaps)
			}
			type row struct {
				ID    string                  `json:"id"`
				Title string                  `json:"title"`
				Usage model.AnalyticsSnapshot `json:"usage"`
			}
			rows := make([]row, len(items))
			for i, it := range items {
				rows[i] = row{ID: it.ID, Title: it.Title, Usage: snaps[i]}
			}
			return writeOut(cmd, app, map[string]any{"data": rows})
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "Skip the live feed, use persisted counters")
	return cmd
}

func newAnalyticsStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Collection-wide totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			col, cats, err := loadCollection(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			client, log, err := app.backend()
			if err != nil {
				return writeErr(cmd, err)
			}
			feed := analytics.NewLiveFeed(client, app.UserID, log)
			_ = feed.Refresh(cmd.Context())
			snaps := analytics.NewEnricher(feed).Enrich(col.Items())

			var visits, minutes, weekly, favorites, broken int
			var topTitle string
			var topVisits int
			for i, it := range col.Items() {
				visits += snaps[i].Visits
				minutes += snaps[i].TimeSpentMinutes
				weekly += snaps[i].WeeklyVisits
				if snaps[i].Visits > topVisits {
					topVisits, topTitle = snaps[i].Visits, it.Title
				}
				if it.IsFavorite {
					favorites++
				}
				if it.Health.Status == model.HealthBroken {
					broken++
				}
			}
			data := map[string]any{
				"bookmarks":        col.Len(),
				"categories":       cats.Len(),
				"favorites":        favorites,
				"broken":           broken,
				"totalVisits":      visits,
				"weeklyVisits":     weekly,
				"timeSpentMinutes": minutes,
			}
			if topTitle != "" {
				data["topBookmark"] = topTitle
			}
			return writeOut(cmd, app, map[string]any{"data": data})
		},
	}
}
