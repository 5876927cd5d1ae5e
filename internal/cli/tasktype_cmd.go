package cli

import (
	"fmt"

	"github.com/jackson-sweet/opsapp-sub001/internal/cli/formatter"
	"github.com/jackson-sweet/opsapp-sub001/internal/domain"
	"github.com/spf13/cobra"
)

func newTaskTypeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasktype",
		Aliases: []string{"task-type"},
		Short:   "Manage task types",
	}

	cmd.AddCommand(
		newTaskTypeAddCmd(app),
		newTaskTypeListCmd(app),
		newParentDeleteCmd(app, domain.KindTaskType),
	)

	return cmd
}

func newTaskTypeAddCmd(app *App) *cobra.Command {
	var t domain.TaskType
	var force bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task type",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			w := cmd.OutOrStdout()
			return app.withLock(ctx, func() error {
				if !force {
					matches, err := app.TaskTypes.FindSimilar(ctx, t.Display)
					if err != nil {
						return err
					}
					if err := confirmNotDuplicate(app, w, "task type", t.Display, matches); err != nil {
						return err
					}
				}
				if err := app.TaskTypes.Create(ctx, &t); err != nil {
					return err
				}
				fmt.Fprintf(w, "Created task type %s [%s]\n", t.Display, t.DisplayID())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&t.Display, "display", "", "Display name")
	cmd.Flags().StringVar(&t.Color, "color", "", "Color as #RRGGBB")
	cmd.Flags().StringVar(&t.Icon, "icon", "", "Icon name")
	cmd.Flags().IntVar(&t.DisplayOrder, "order", 0, "Position in lists")
	cmd.Flags().BoolVar(&t.IsDefault, "default", false, "Mark as a default task type")
	cmd.Flags().BoolVar(&force, "force", false, "Create even if a similar name exists")
	_ = cmd.MarkFlagRequired("display")
	_ = cmd.MarkFlagRequired("color")

	return cmd
}

func newTaskTypeListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List task types",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			w := cmd.OutOrStdout()
			types, err := app.TaskTypes.List(ctx)
			if err != nil {
				return err
			}
			if len(types) == 0 {
				fmt.Fprintln(w, "No task types found.")
				return nil
			}
			counts := make(map[string]int, len(types))
			for _, t := range types {
				tasks, err := app.Tasks.ListByTaskType(ctx, t.ID)
				if err != nil {
					return err
				}
				counts[t.ID] = len(tasks)
			}
			fmt.Fprintln(w, formatter.FormatTaskTypeList(types, counts))
			return nil
		},
	}
}
