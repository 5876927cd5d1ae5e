package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/jackson-sweet/opsapp-sub001/internal/cli/formatter"
	"github.com/jackson-sweet/opsapp-sub001/internal/domain"
	"github.com/jackson-sweet/opsapp-sub001/internal/dupcheck"
	"github.com/jackson-sweet/opsapp-sub001/internal/service"
	"github.com/spf13/cobra"
)

func newClientCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Manage clients",
	}

	cmd.AddCommand(
		newClientAddCmd(app),
		newClientListCmd(app),
		newClientShowCmd(app),
		newParentDeleteCmd(app, domain.KindClient),
	)

	return cmd
}

func newClientAddCmd(app *App) *cobra.Command {
	var c domain.Client
	var force bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a client",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			w := cmd.OutOrStdout()
			return app.withLock(ctx, func() error {
				if !force {
					matches, err := app.Clients.FindSimilar(ctx, c.Name)
					if err != nil {
						return err
					}
					if err := confirmNotDuplicate(app, w, "client", c.Name, matches); err != nil {
						return err
					}
				}
				if err := app.Clients.Create(ctx, &c); err != nil {
					return err
				}
				fmt.Fprintf(w, "Created client %s [%s]\n", c.Name, c.DisplayID())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&c.Name, "name", "", "Client name")
	cmd.Flags().StringVar(&c.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&c.PhoneNumber, "phone", "", "Phone number")
	cmd.Flags().StringVar(&c.Address, "address", "", "Street address")
	cmd.Flags().StringVar(&c.Notes, "notes", "", "Free-form notes")
	cmd.Flags().BoolVar(&force, "force", false, "Create even if a similar name exists")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

// confirmNotDuplicate warns about similar existing names. On an interactive
// terminal the user may continue; otherwise the create is refused.
func confirmNotDuplicate(app *App, w io.Writer, entity, name string, matches []dupcheck.Match) error {
	if len(matches) == 0 {
		return nil
	}
	fmt.Fprint(w, formatter.FormatDuplicateWarning(entity, name, matches))
	refused := fmt.Errorf("possible duplicate %s %q (pass --force to create anyway)", entity, name)
	if !app.interactive() {
		return refused
	}
	ok, err := app.prompter().Confirm("Create anyway?", "")
	if err != nil {
		return err
	}
	if !ok {
		return refused
	}
	return nil
}

func newClientListCmd(app *App) *cobra.Command {
	var query string
	var grouped bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List clients",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			w := cmd.OutOrStdout()
			clients, err := app.Clients.List(ctx, service.ClientFilter{Query: query})
			if err != nil {
				return err
			}
			if len(clients) == 0 {
				fmt.Fprintln(w, "No clients found.")
				return nil
			}
			counts, err := projectCounts(ctx, app)
			if err != nil {
				return err
			}
			if grouped {
				fmt.Fprintln(w, formatter.FormatClientGroups(app.Clients.GroupByInitial(clients), counts))
				return nil
			}
			fmt.Fprintln(w, formatter.FormatClientList(clients, counts))
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Filter by name, email or phone")
	cmd.Flags().BoolVar(&grouped, "grouped", false, "Group clients by initial")

	return cmd
}

func newClientShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a client and its projects",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveClientID(ctx, app, args[0])
			if err != nil {
				return err
			}
			c, err := app.Clients.GetByID(ctx, id)
			if err != nil {
				return err
			}
			projects, err := app.Projects.List(ctx, service.ProjectFilter{ClientID: id})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatClientDetail(c, projects))
			return nil
		},
	}
}

func projectCounts(ctx context.Context, app *App) (map[string]int, error) {
	projects, err := app.Projects.List(ctx, service.ProjectFilter{})
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, p := range projects {
		counts[p.ClientID]++
	}
	return counts, nil
}
