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

func newGoalsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "goals",
		Short:   "Manage goal folders",
		Aliases: []string{"goal"},
	}
	cmd.AddCommand(newGoalsListCmd(app))
	cmd.AddCommand(newGoalsAddCmd(app))
	cmd.AddCommand(newGoalsRemoveCmd(app))
	cmd.AddCommand(newGoalsMoveCmd(app))
	cmd.AddCommand(newGoalsProgressCmd(app))
	return cmd
}

func newGoalsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List goal folders in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			goals, err := folderStore(app).LoadGoals()
			if err != nil {
				return writeErr(cmd, err)
			}
			if app.Format == "table" {
				return writeOut(cmd, app, goals)
			}
			return writeOut(cmd, app, map[string]any{"data": goals})
		},
	}
}

func newGoalsAddCmd(app *App) *cobra.Command {
	var name, deadline, goalType, priority, notes string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a goal folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := mutate.ValidateFolderName(name); err != nil {
				return writeErr(cmd, err)
			}
			if deadline != "" {
				if _, err := time.Parse("2006-01-02", deadline); err != nil {
					return writeErr(cmd, errors.New("deadline must be YYYY-MM-DD"))
				}
			}
			s := folderStore(app)
			goals, err := s.LoadGoals()
			if err != nil {
				return writeErr(cmd, err)
			}
			g := model.GoalFolder{
				Folder: model.Folder{
					ID:        "goal-" + uuid.NewString()[:8],
					Name:      name,
					CreatedAt: time.Now().UTC(),
				},
				Deadline:     deadline,
				GoalType:     goalType,
				GoalStatus:   model.GoalPending,
				GoalPriority: model.ParsePriority(priority),
				GoalNotes:    notes,
			}
			goals = append(goals, g)
			if err := s.SaveGoals(goals); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": g})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Goal name (required)")
	cmd.Flags().StringVar(&deadline, "deadline", "", "Deadline (YYYY-MM-DD)")
	cmd.Flags().StringVar(&goalType, "type", "", "Goal type")
	cmd.Flags().StringVar(&priority, "priority", "medium", "Priority (high|medium|low)")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes (Markdown)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newGoalsRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <goal-id>",
		Short:   "Remove a goal folder",
		Aliases: []string{"rm"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := folderStore(app)
			goals, err := s.LoadGoals()
			if err != nil {
				return writeErr(cmd, err)
			}
			list := store.NewGoalFolders()
			list.Load(goals)
			if !list.Remove(args[0]) {
				return writeErr(cmd, errNotFound("goal", args[0]))
			}
			if err := s.SaveGoals(list.Items()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]string{"removed": args[0]}})
		},
	}
}

func newGoalsMoveCmd(app *App) *cobra.Command {
	var over string
	cmd := &cobra.Command{
		Use:   "move <goal-id>",
		Short: "Move a goal to another goal's position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if over == "" {
				return writeErr(cmd, errors.New("provide --over <goal-id>"))
			}
			s := folderStore(app)
			goals, err := s.LoadGoals()
			if err != nil {
				return writeErr(cmd, err)
			}
			list := store.NewGoalFolders()
			list.Load(goals)
			engine := reorder.NewEngine(store.NewCollection(), store.NewCategoryIndex(), store.NewFolders(), list)
			if !engine.Apply(model.ViewGoal2, "", args[0], over) {
				return writeErr(cmd, errNotFound("goal", args[0]))
			}
			if err := s.SaveGoals(list.Items()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": list.Items()})
		},
	}
	cmd.Flags().StringVar(&over, "over", "", "Goal whose position to take")
	return cmd
}

// newGoalsProgressCmd updates the completion fields together: 100% marks the
// goal completed, anything lower marks it in progress.
func newGoalsProgressCmd(app *App) *cobra.Command {
	var progress int
	cmd := &cobra.Command{
		Use:   "progress <goal-id>",
		Short: "Set goal progress (0-100)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if progress < 0 || progress > 100 {
				return writeErr(cmd, errors.New("progress must be 0-100"))
			}
			s := folderStore(app)
			goals, err := s.LoadGoals()
			if err != nil {
				return writeErr(cmd, err)
			}
			for i := range goals {
				if goals[i].ID != args[0] {
					continue
				}
				goals[i].GoalProgress = progress
				switch {
				case progress >= 100:
					goals[i].GoalStatus = model.GoalCompleted
				case progress > 0:
					goals[i].GoalStatus = model.GoalInProgress
				default:
					goals[i].GoalStatus = model.GoalPending
				}
				if err := s.SaveGoals(goals); err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{"data": goals[i]})
			}
			return writeErr(cmd, errNotFound("goal", args[0]))
		},
	}
	cmd.Flags().IntVar(&progress, "value", 0, "Progress percentage")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}
