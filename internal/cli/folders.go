package cli

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"linkdeck-cli/internal/model"
	"linkdeck-cli/internal/mutate"
	"linkdeck-cli/internal/reorder"
	"linkdeck-cli/internal/store"
)

func newFoldersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "folders",
		Short:   "Manage folders",
		Aliases: []string{"folder"},
	}
	cmd.AddCommand(newFoldersListCmd(app))
	cmd.AddCommand(newFoldersAddCmd(app))
	cmd.AddCommand(newFoldersRemoveCmd(app))
	cmd.AddCommand(newFoldersMoveCmd(app))
	return cmd
}

func folderStore(app *App) *store.FolderStore {
	return store.NewFolderStore(app.DataDir)
}

func newFoldersListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List folders in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			folders, err := folderStore(app).LoadFolders()
			if err != nil {
				return writeErr(cmd, err)
			}
			if app.Format == "table" {
				return writeOut(cmd, app, folders)
			}
			return writeOut(cmd, app, map[string]any{"data": folders})
		},
	}
}

func newFoldersAddCmd(app *App) *cobra.Command {
	var name, colorHex, description string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := mutate.ValidateFolderName(name); err != nil {
				return writeErr(cmd, err)
			}
			s := folderStore(app)
			folders, err := s.LoadFolders()
			if err != nil {
				return writeErr(cmd, err)
			}
			f := model.Folder{
				ID:          "folder-" + uuid.NewString()[:8],
				Name:        name,
				Color:       colorHex,
				Description: description,
				CreatedAt:   time.Now().UTC(),
			}
			folders = append(folders, f)
			if err := s.SaveFolders(folders); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": f})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Folder name (required)")
	cmd.Flags().StringVar(&colorHex, "color", "", "Display color")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newFoldersRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <folder-id>",
		Short:   "Remove a folder",
		Aliases: []string{"rm"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := folderStore(app)
			folders, err := s.LoadFolders()
			if err != nil {
				return writeErr(cmd, err)
			}
			list := store.NewFolders()
			list.Load(folders)
			if !list.Remove(args[0]) {
				return writeErr(cmd, errNotFound("folder", args[0]))
			}
			if err := s.SaveFolders(list.Items()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]string{"removed": args[0]}})
		},
	}
}

func newFoldersMoveCmd(app *App) *cobra.Command {
	var over string
	cmd := &cobra.Command{
		Use:   "move <folder-id>",
		Short: "Move a folder to another folder's position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if over == "" {
				return writeErr(cmd, errors.New("provide --over <folder-id>"))
			}
			s := folderStore(app)
			folders, err := s.LoadFolders()
			if err != nil {
				return writeErr(cmd, err)
			}
			list := store.NewFolders()
			list.Load(folders)
			engine := reorder.NewEngine(store.NewCollection(), store.NewCategoryIndex(), list, store.NewGoalFolders())
			if !engine.Apply(model.ViewFolder2, "", args[0], over) {
				return writeErr(cmd, errNotFound("folder", args[0]))
			}
			if err := s.SaveFolders(list.Items()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": list.Items()})
		},
	}
	cmd.Flags().StringVar(&over, "over", "", "Folder whose position to take")
	return cmd
}
