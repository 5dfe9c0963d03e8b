package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"linkdeck-cli/internal/api"
	"linkdeck-cli/internal/config"
	"linkdeck-cli/internal/format"
	"linkdeck-cli/internal/logging"
	"linkdeck-cli/internal/model"
	"linkdeck-cli/internal/store"
	"linkdeck-cli/internal/tui"
)

type App struct {
	Endpoint   string
	UserID     string
	DataDir    string
	Format     string
	PrettyJSON bool
	Debug      bool

	log    *zap.Logger
	client api.Client
}

func NewRootCmd() *cobra.Command {
	app := &App{}
	cfg, _ := config.Load()

	cmd := &cobra.Command{
		Use:          "linkdeck",
		Short:        "Linkdeck bookmark manager CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  linkdeck

  # Scriptable commands
  linkdeck items list
  linkdeck items add --title "Go docs" --url https://go.dev/doc

  # Check every saved link
  linkdeck health check --all

  # Direct item lookup (shortcut for: linkdeck items show <item-id>)
  linkdeck item-3f2a
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Endpoint, "endpoint", envOr("LINKDECK_ENDPOINT", cfg.Endpoint), "Remote store base URL (empty: local store)")
	cmd.PersistentFlags().StringVar(&app.UserID, "user", envOr("LINKDECK_USER", cfg.UserID), "User id (scopes every item)")
	cmd.PersistentFlags().StringVar(&app.DataDir, "data-dir", envOr("LINKDECK_DATA_DIR", cfg.DataDir), "Path to local data dir")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("LINKDECK_FORMAT", "json"), "Output format (json|table)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().BoolVar(&app.Debug, "debug", cfg.Debug, "Debug logging")

	cmd.AddCommand(newItemsCmd(app))
	cmd.AddCommand(newFoldersCmd(app))
	cmd.AddCommand(newGoalsCmd(app))
	cmd.AddCommand(newHealthCmd(app))
	cmd.AddCommand(newAnalyticsCmd(app))
	cmd.AddCommand(newSessionCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

func runTUI(app *App) error {
	client, log, err := app.backend()
	if err != nil {
		return err
	}
	return tui.Run(client, app.UserID, app.DataDir, log)
}

// backend resolves the persistence collaborator once per invocation: the
// HTTP client when an endpoint is set, the local SQLite store otherwise.
func (app *App) backend() (api.Client, *zap.Logger, error) {
	if app.client != nil {
		return app.client, app.logger(), nil
	}
	log := app.logger()
	if app.Endpoint != "" {
		app.client = api.NewHTTPClient(app.Endpoint, log)
	} else {
		cfg := config.Config{DataDir: app.DataDir}
		if err := os.MkdirAll(app.DataDir, 0o755); err != nil {
			return nil, nil, err
		}
		app.client = api.NewLocalBackend(cfg.DatabasePath(), log)
	}
	return app.client, log, nil
}

func (app *App) logger() *zap.Logger {
	if app.log == nil {
		app.log = logging.New(app.DataDir, app.Debug)
	}
	return app.log
}

func (app *App) sessionDir() string {
	return config.Config{DataDir: app.DataDir}.SessionDir()
}

// loadCollection pulls the user's ordered items into a fresh collection with
// its category index already subscribed.
func loadCollection(cmd *cobra.Command, app *App) (*store.Collection, *store.CategoryIndex, error) {
	client, _, err := app.backend()
	if err != nil {
		return nil, nil, err
	}
	items, err := client.List(cmd.Context(), app.UserID)
	if err != nil {
		return nil, nil, err
	}
	col := store.NewCollection()
	cats := store.NewCategoryIndex()
	col.Subscribe(func() { cats.Derive(col.Categories()) })
	col.Load(items)
	return col, cats, nil
}

func findItem(col *store.Collection, id string) (model.Item, error) {
	if it, ok := col.Find(id); ok {
		return it, nil
	}
	return model.Item{}, errNotFound("item", id)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
