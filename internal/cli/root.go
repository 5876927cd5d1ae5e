package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/jackson-sweet/opsapp-sub001/internal/config"
	"github.com/jackson-sweet/opsapp-sub001/internal/eventbus"
	"github.com/jackson-sweet/opsapp-sub001/internal/logging"
	"github.com/jackson-sweet/opsapp-sub001/internal/reassign"
	"github.com/jackson-sweet/opsapp-sub001/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// App holds the services and collaborators used by CLI commands.
type App struct {
	Clients   service.ClientService
	Projects  service.ProjectService
	TaskTypes service.TaskTypeService
	Tasks     service.TaskService
	Reassign  *reassign.Workflow
	Bus       *eventbus.Bus
	Config    *config.Config
	Log       *logrus.Logger

	// IsInteractive reports whether prompts and the progress spinner may be
	// shown. Nil means non-interactive.
	IsInteractive func() bool

	// NoProgress disables the commit spinner on interactive terminals.
	NoProgress bool

	// Lock takes the store lock for mutating commands. Nil means no locking.
	Lock func(ctx context.Context) (release func() error, err error)

	// Prompter collects decisions on an interactive terminal. Defaults to
	// huh forms.
	Prompter Prompter

	out     io.Writer
	busOnce sync.Once
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) prompter() Prompter {
	if a.Prompter != nil {
		return a.Prompter
	}
	return huhPrompter{}
}

func (a *App) logger() *logrus.Logger {
	if a.Log != nil {
		return a.Log
	}
	return logging.Nop()
}

func (a *App) config() *config.Config {
	if a.Config != nil {
		return a.Config
	}
	return &config.Config{}
}

// withLock runs fn while holding the store lock.
func (a *App) withLock(ctx context.Context, fn func() error) (err error) {
	if a.Lock == nil {
		return fn()
	}
	release, err := a.Lock(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if rerr := release(); rerr != nil && err == nil {
			err = rerr
		}
	}()
	return fn()
}

// NewRootCmd creates the top-level "ops" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "ops",
		Short:         "Field-service data: clients, projects, task types and tasks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newClientCmd(app),
		newProjectCmd(app),
		newTaskTypeCmd(app),
		newTaskCmd(app),
		newDevCmd(app),
	)

	root.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		app.out = cmd.OutOrStdout()
	}
	if app.Bus != nil {
		app.busOnce.Do(func() {
			app.Bus.Subscribe(eventbus.ClientDeleted, app.printRefresh)
			app.Bus.Subscribe(eventbus.TaskTypeDeleted, app.printRefresh)
		})
	}

	return root
}

// printRefresh tells the user which list changed after a parent was deleted.
func (a *App) printRefresh(_ context.Context, e eventbus.Event) {
	ev, ok := e.Payload.(reassign.DeletedEvent)
	if !ok || a.out == nil {
		return
	}
	fmt.Fprintf(a.out, "↻ %s list refreshed (%s removed)\n", listName(ev.Kind), ev.ParentName)
}
