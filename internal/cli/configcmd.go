package cli

import (
	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"endpoint": app.Endpoint,
				"userId":   app.UserID,
				"dataDir":  app.DataDir,
				"format":   app.Format,
				"debug":    app.Debug,
				"local":    app.Endpoint == "",
			}})
		},
	})
	return cmd
}
