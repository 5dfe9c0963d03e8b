package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"linkdeck-cli/internal/analytics"
	"linkdeck-cli/internal/model"
	"linkdeck-cli/internal/mutate"
	"linkdeck-cli/internal/reorder"
	"linkdeck-cli/internal/session"
	"linkdeck-cli/internal/store"
)

func newItemsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "items",
		Short:   "Manage bookmarks",
		Aliases: []string{"item", "bookmarks"},
	}
	cmd.AddCommand(newItemsListCmd(app))
	cmd.AddCommand(newItemsShowCmd(app))
	cmd.AddCommand(newItemsAddCmd(app))
	cmd.AddCommand(newItemsRemoveCmd(app))
	cmd.AddCommand(newItemsSetCmd(app))
	cmd.AddCommand(newItemsMoveCmd(app))
	cmd.AddCommand(newItemsFavoriteCmd(app))
	cmd.AddCommand(newItemsVisitCmd(app))
	cmd.AddCommand(newItemsCategoriesCmd(app))
	return cmd
}

func newItemsListCmd(app *App) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bookmarks in canonical order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			col, _, err := loadCollection(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			items := col.Items()
			if category != "" {
				filtered := items[:0]
				for _, it := range items {
					if it.Category == category {
						filtered = append(filtered, it)
					}
				}
				items = filtered
			}
			if app.Format == "table" {
				return writeOut(cmd, app, items)
			}
			return writeOut(cmd, app, map[string]any{"data": items})
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Only bookmarks in this category")
	return cmd
}

func newItemsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <item-id>",
		Short: "Show one bookmark",
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
			return writeOut(cmd, app, map[string]any{"data": it})
		},
	}
}

func newItemsAddCmd(app *App) *cobra.Command {
	var title, rawURL, description, category, tags, priority string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a bookmark",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := app.backend()
			if err != nil {
				return writeErr(cmd, err)
			}
			it, err := mutate.NewItem(title, rawURL, description, category, tags, model.ParsePriority(priority))
			if err != nil {
				return writeErr(cmd, err)
			}
			saved, err := client.Upsert(cmd.Context(), it, app.UserID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": saved})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Bookmark title (required)")
	cmd.Flags().StringVar(&rawURL, "url", "", "Bookmark URL (required)")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringVar(&category, "category", "", "Category name")
	cmd.Flags().StringVar(&tags, "tags", "", "Comma-separated tags")
	cmd.Flags().StringVar(&priority, "priority", "medium", "Priority (high|medium|low)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func newItemsRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <item-id>",
		Short:   "Remove a bookmark",
		Aliases: []string{"rm", "delete"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := app.backend()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := client.Remove(cmd.Context(), args[0], app.UserID); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]string{"removed": args[0]}})
		},
	}
}

// newItemsSetCmd runs a single-field edit end to end: snapshot, normalize,
// confirm with the store, apply.
func newItemsSetCmd(app *App) *cobra.Command {
	var value string
	cmd := &cobra.Command{
		Use:   "set <item-id> <field>",
		Short: "Edit one field (title|url|description|category|tags)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			col, _, err := loadCollection(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			client, log, err := app.backend()
			if err != nil {
				return writeErr(cmd, err)
			}
			editor := session.NewEditor(col, client, nil, app.UserID, log)
			if err := editor.Begin(args[0], args[1]); err != nil {
				return writeErr(cmd, err)
			}
			editor.SetPending(value)
			if err := editor.Commit(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			it, _ := col.Find(args[0])
			return writeOut(cmd, app, map[string]any{"data": it})
		},
	}
	cmd.Flags().StringVar(&value, "value", "", "New field value")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}

// newItemsMoveCmd reorders within the sequence a view routes to. The result
// is the new order of that sequence; order is view state, not a stored field.
func newItemsMoveCmd(app *App) *cobra.Command {
	var over, view, sub string
	cmd := &cobra.Command{
		Use:   "move <item-id>",
		Short: "Move a bookmark to another bookmark's position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			col, cats, err := loadCollection(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if over == "" {
				return writeErr(cmd, errors.New("provide --over <item-id>"))
			}
			engine := reorder.NewEngine(col, cats, store.NewFolders(), store.NewGoalFolders())
			moved := engine.Apply(model.ViewMode(view), model.SubMode(sub), args[0], over)
			ids := make([]string, 0, col.Len())
			for _, it := range col.Items() {
				ids = append(ids, it.ID)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"moved": moved, "order": ids}})
		},
	}
	cmd.Flags().StringVar(&over, "over", "", "Item whose position to take")
	cmd.Flags().StringVar(&view, "view", string(model.ViewGrid), "View mode the move happens in")
	cmd.Flags().StringVar(&sub, "sub", "", "Sub mode (folders|bookmarks)")
	return cmd
}

func newItemsFavoriteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "favorite <item-id>",
		Short: "Toggle favorite",
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
			client, _, err := app.backend()
			if err != nil {
				return writeErr(cmd, err)
			}
			it.IsFavorite = !it.IsFavorite
			saved, err := client.Upsert(cmd.Context(), it, app.UserID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": saved})
		},
	}
}

func newItemsVisitCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "visit <item-id>",
		Short: "Record a visit",
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
			client, log, err := app.backend()
			if err != nil {
				return writeErr(cmd, err)
			}
			feed := analytics.NewLiveFeed(client, app.UserID, log)
			analytics.NewVisitor(feed, nil, log).VisitSite(it.ID, it.URL)
			// The report runs in the background; this process is about to exit.
			feed.Wait()
			return writeOut(cmd, app, map[string]any{"data": map[string]string{"visited": it.ID, "url": it.URL}})
		},
	}
}

func newItemsCategoriesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List derived categories in first-seen order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			col, cats, err := loadCollection(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			counts := map[string]int{}
			for _, it := range col.Items() {
				if it.Category != "" {
					counts[it.Category]++
				}
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"categories": cats.Keys(),
				"counts":     counts,
			}})
		},
	}
}
