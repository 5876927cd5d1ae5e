package cli

import (
	"errors"
	"fmt"

	"github.com/jackson-sweet/opsapp-sub001/internal/cli/formatter"
	"github.com/jackson-sweet/opsapp-sub001/internal/domain"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskListCmd(app),
	)

	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var projectRef, typeRef, notes, status string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task to a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return app.withLock(ctx, func() error {
				projectID, err := resolveProjectID(ctx, app, projectRef)
				if err != nil {
					return err
				}
				typeID, err := resolveTaskTypeID(ctx, app, typeRef)
				if err != nil {
					return err
				}
				t := &domain.Task{
					ProjectID:  projectID,
					TaskTypeID: typeID,
					Status:     domain.TaskStatus(status),
					Notes:      notes,
				}
				if err := app.Tasks.Create(ctx, t); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created task #%d [%s]\n", t.TaskIndex, t.DisplayID())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&projectRef, "project", "", "Project ID or prefix")
	cmd.Flags().StringVar(&typeRef, "type", "", "Task type ID or prefix")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes")
	cmd.Flags().Var(newEnumValue(&status, domain.ValidTaskStatuses), "status", "Status (booked, in_progress, completed, cancelled)")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	var projectRef, typeRef string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks of a project or task type",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			w := cmd.OutOrStdout()
			if projectRef == "" && typeRef == "" {
				return errors.New("pass --project, --type or both")
			}

			var typeID string
			if typeRef != "" {
				id, err := resolveTaskTypeID(ctx, app, typeRef)
				if err != nil {
					return err
				}
				typeID = id
			}

			var tasks []*domain.Task
			if projectRef != "" {
				projectID, err := resolveProjectID(ctx, app, projectRef)
				if err != nil {
					return err
				}
				all, err := app.Tasks.ListByProject(ctx, projectID)
				if err != nil {
					return err
				}
				for _, t := range all {
					if typeID == "" || t.TaskTypeID == typeID {
						tasks = append(tasks, t)
					}
				}
			} else {
				var err error
				if tasks, err = app.Tasks.ListByTaskType(ctx, typeID); err != nil {
					return err
				}
			}

			if len(tasks) == 0 {
				fmt.Fprintln(w, "No tasks found.")
				return nil
			}
			types, err := app.TaskTypes.List(ctx)
			if err != nil {
				return err
			}
			names := make(map[string]string, len(types))
			for _, t := range types {
				names[t.ID] = t.Display
			}
			fmt.Fprintln(w, formatter.FormatTaskList(tasks, names))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectRef, "project", "", "Project ID or prefix")
	cmd.Flags().StringVar(&typeRef, "type", "", "Task type ID or prefix")

	return cmd
}
