package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"linkdeck-cli/internal/format"
	"linkdeck-cli/internal/health"
	"linkdeck-cli/internal/notify"
)

func newHealthCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check link health",
	}
	cmd.AddCommand(newHealthCheckCmd(app))
	cmd.AddCommand(newHealthShowCmd(app))
	return cmd
}

func newHealthCheckCmd(app *App) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "check [item-id...]",
		Short: "Run a batched health check",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && len(args) == 0 {
				return writeErr(cmd, errors.New("provide item ids or --all"))
			}
			col, _, err := loadCollection(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			client, log, err := app.backend()
			if err != nil {
				return writeErr(cmd, err)
			}
			mon := health.NewMonitor(client, col, notify.NewCenter(), app.UserID, log)

			if all {
				err = mon.CheckAll(cmd.Context())
			} else {
				err = mon.Check(cmd.Context(), args)
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			if app.Format == "table" {
				return format.HealthTable(cmd.OutOrStdout(), col.Items())
			}
			return writeOut(cmd, app, map[string]any{"data": col.Items()})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Check every bookmark")
	return cmd
}

func newHealthShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show last known health without probing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			col, _, err := loadCollection(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if app.Format == "table" {
				return format.HealthTable(cmd.OutOrStdout(), col.Items())
			}
			type row struct {
				ID     string `json:"id"`
				Title  string `json:"title"`
				Status string `json:"status"`
				Checks int    `json:"healthCheckCount"`
			}
			rows := make([]row, 0, col.Len())
			for _, it := range col.Items() {
				status := string(it.Health.Status)
				if status == "" {
					status = "unknown"
				}
				rows = append(rows, row{ID: it.ID, Title: it.Title, Status: status, Checks: it.Health.CheckCount})
			}
			return writeOut(cmd, app, map[string]any{"data": rows})
		},
	}
}
