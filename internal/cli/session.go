package cli

import (
	"github.com/spf13/cobra"

	"linkdeck-cli/internal/session"
)

func newSessionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Viewing sessions (dwell-time tracking)",
	}
	cmd.AddCommand(newSessionStartCmd(app))
	cmd.AddCommand(newSessionStopCmd(app))
	cmd.AddCommand(newSessionReconcileCmd(app))
	return cmd
}

func sessionViewing(app *App) (*session.Viewing, error) {
	client, log, err := app.backend()
	if err != nil {
		return nil, err
	}
	return session.NewViewing(app.sessionDir(), client, log), nil
}

func newSessionStartCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "start <item-id>",
		Short: "Open a viewing session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			col, _, err := loadCollection(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			it, err := findItem(col, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			v, err := sessionViewing(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := v.Open(cmd.Context(), it.ID); err != nil {
				return writeErr(cmd, err)
			}
			rec, _ := v.Current()
			return writeOut(cmd, app, map[string]any{"data": rec})
		},
	}
}

func newSessionStopCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stop <item-id>",
		Short: "Close a viewing session and report dwell time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := sessionViewing(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			rec, ok := v.Resume(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("session", args[0]))
			}
			if err := v.Close(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"itemId":    rec.ItemID,
				"startedAt": rec.StartedAt,
			}})
		},
	}
}

func newSessionReconcileCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Discard session records left by a dead process",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := sessionViewing(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			discarded := v.Reconcile()
			return writeOut(cmd, app, map[string]any{"data": map[string]int{"discarded": discarded}})
		},
	}
}
