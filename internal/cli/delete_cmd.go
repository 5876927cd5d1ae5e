package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jackson-sweet/opsapp-sub001/internal/cli/formatter"
	"github.com/jackson-sweet/opsapp-sub001/internal/domain"
	"github.com/jackson-sweet/opsapp-sub001/internal/reassign"
	"github.com/spf13/cobra"
)

type deleteOptions struct {
	to             string
	deleteChildren bool
	yes            bool
	retries        int
}

// newParentDeleteCmd builds "client delete" and "tasktype delete".
func newParentDeleteCmd(app *App, kind domain.ParentKind) *cobra.Command {
	var opts deleteOptions

	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: fmt.Sprintf("Delete a %s after reassigning or deleting its %s", listName(kind), childNoun(kind)),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.retries < 0 {
				return errors.New("--retries must be >= 0")
			}
			ctx := cmd.Context()
			return app.withLock(ctx, func() error {
				return runParentDelete(ctx, cmd.OutOrStdout(), app, kind, args[0], opts)
			})
		},
	}

	cmd.Flags().StringVar(&opts.to, "to", "", fmt.Sprintf("Move every %s to this %s", childNoun(kind), listName(kind)))
	cmd.Flags().BoolVar(&opts.deleteChildren, "delete-children", false, fmt.Sprintf("Delete every %s with its dependents", childNoun(kind)))
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().IntVar(&opts.retries, "retries", 0, "Retry a failed commit this many times")
	cmd.MarkFlagsMutuallyExclusive("to", "delete-children")

	return cmd
}

func runParentDelete(ctx context.Context, w io.Writer, app *App, kind domain.ParentKind, input string, opts deleteOptions) error {
	parentID, err := resolveParentID(ctx, app, kind, input)
	if err != nil {
		return err
	}
	s, err := app.Reassign.BeginSession(ctx, kind, parentID)
	if err != nil {
		return err
	}
	targets, err := app.Reassign.Targets(ctx, s)
	if err != nil {
		return err
	}
	names := make(map[string]string, len(targets))
	for _, t := range targets {
		names[t.ID] = t.Name
	}

	if err := resolveChildren(ctx, app, s, targets, opts); err != nil {
		_ = app.Reassign.CancelSession(s)
		return err
	}
	fmt.Fprintln(w, formatter.FormatDeletePlan(s, names))

	if !opts.yes {
		if !app.interactive() {
			_ = app.Reassign.CancelSession(s)
			return errors.New("refusing to delete without confirmation (pass --yes)")
		}
		ok, err := app.prompter().Confirm(fmt.Sprintf("Delete %s %q?", listName(kind), s.Parent.Name), "This cannot be undone.")
		if err != nil || !ok {
			_ = app.Reassign.CancelSession(s)
			fmt.Fprintln(w, "Cancelled.")
			return err
		}
	}

	return commitWithRetry(ctx, w, app, s, opts.retries)
}

func resolveChildren(ctx context.Context, app *App, s *reassign.Session, targets []reassign.Parent, opts deleteOptions) error {
	children := s.Children()
	if len(children) == 0 {
		return nil
	}

	switch {
	case opts.to != "":
		targetID, err := resolveParentID(ctx, app, s.Kind, opts.to)
		if err != nil {
			return err
		}
		if err := app.Reassign.ApplyBulk(ctx, s, targetID); err != nil {
			return err
		}
	case opts.deleteChildren:
		for _, c := range children {
			if err := app.Reassign.ResolveChild(ctx, s, c.ID, reassign.MarkForDeletion()); err != nil {
				return err
			}
		}
	case app.interactive():
		decisions, err := app.prompter().Decide(s.Parent, children, targets)
		if err != nil {
			return err
		}
		for id, d := range decisions {
			if err := app.Reassign.ResolveChild(ctx, s, id, d); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%s %q has %d %s: pass --to <%s> or --delete-children",
			listName(s.Kind), s.Parent.Name, len(children), childNoun(s.Kind), listName(s.Kind))
	}

	if !s.CanCommit() {
		return fmt.Errorf("%w: %d %s left unresolved", reassign.ErrNotReady, len(s.Unresolved()), childNoun(s.Kind))
	}
	return nil
}

// commitWithRetry commits s, retrying failed attempts on the same session
// so completed steps are not repeated.
func commitWithRetry(ctx context.Context, w io.Writer, app *App, s *reassign.Session, retries int) error {
	label := fmt.Sprintf("Deleting %s %s", listName(s.Kind), s.Parent.Name)
	for attempt := 0; ; attempt++ {
		res, err := runCommit(app, w, label, func() (*reassign.CommitResult, error) {
			return app.Reassign.Commit(ctx, s)
		})
		if err == nil {
			fmt.Fprintln(w, formatter.FormatCommitResult(res, s.Parent.Name))
			return nil
		}

		fmt.Fprintln(w, formatter.FormatCommitError(err))
		if !retryableCommit(err) {
			return err
		}
		if attempt < retries {
			app.logger().WithField("attempt", attempt+1).Warn("retrying commit")
			continue
		}
		if app.interactive() {
			again, perr := app.prompter().Confirm("Retry?", "Steps that already succeeded are not repeated.")
			if perr == nil && again {
				continue
			}
		}
		return err
	}
}

func retryableCommit(err error) bool {
	return !errors.Is(err, reassign.ErrNotReady) &&
		!errors.Is(err, reassign.ErrInvalidTarget) &&
		!errors.Is(err, reassign.ErrSessionClosed)
}

func childNoun(kind domain.ParentKind) string {
	if kind == domain.KindTaskType {
		return "tasks"
	}
	return "projects"
}
