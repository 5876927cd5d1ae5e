package cli

import (
	"fmt"
	"time"

	"github.com/jackson-sweet/opsapp-sub001/internal/cli/formatter"
	"github.com/jackson-sweet/opsapp-sub001/internal/domain"
	"github.com/jackson-sweet/opsapp-sub001/internal/service"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
	)

	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var clientRef, title, status, address, start, end string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a project for a client",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p := &domain.Project{
				Title:   title,
				Status:  domain.ProjectStatus(status),
				Address: address,
			}
			var err error
			if p.StartDate, err = parseOptionalDate("start", start); err != nil {
				return err
			}
			if p.EndDate, err = parseOptionalDate("end", end); err != nil {
				return err
			}
			if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
				return fmt.Errorf("end date %s is before start date %s", end, start)
			}

			return app.withLock(ctx, func() error {
				if p.ClientID, err = resolveClientID(ctx, app, clientRef); err != nil {
					return err
				}
				if err := app.Projects.Create(ctx, p); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created project %s [%s]\n", p.Title, p.DisplayID())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&clientRef, "client", "", "Client ID or prefix")
	cmd.Flags().StringVar(&title, "title", "", "Project title")
	cmd.Flags().Var(newEnumValue(&status, domain.ValidProjectStatuses), "status", "Status (rfq, estimated, accepted, in_progress, completed, closed, archived)")
	cmd.Flags().StringVar(&address, "address", "", "Site address")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("client")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	var clientRef, query string
	var statuses []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			w := cmd.OutOrStdout()
			f := service.ProjectFilter{Query: query}
			if clientRef != "" {
				id, err := resolveClientID(ctx, app, clientRef)
				if err != nil {
					return err
				}
				f.ClientID = id
			}
			for _, s := range statuses {
				if !domain.ValidProjectStatuses[s] {
					return fmt.Errorf("unknown project status %q", s)
				}
				f.Statuses = append(f.Statuses, domain.ProjectStatus(s))
			}

			projects, err := app.Projects.List(ctx, f)
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Fprintln(w, "No projects found.")
				return nil
			}
			clients, err := app.Clients.List(ctx, service.ClientFilter{})
			if err != nil {
				return err
			}
			names := make(map[string]string, len(clients))
			for _, c := range clients {
				names[c.ID] = c.Name
			}
			fmt.Fprintln(w, formatter.FormatProjectList(projects, names))
			return nil
		},
	}

	cmd.Flags().StringVar(&clientRef, "client", "", "Only projects of this client")
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "Only projects with these statuses")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Filter by title or address")

	return cmd
}

func parseOptionalDate(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s date %q: %w", name, value, err)
	}
	return &t, nil
}
