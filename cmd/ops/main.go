package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackson-sweet/opsapp-sub001/internal/cli"
	"github.com/jackson-sweet/opsapp-sub001/internal/config"
	"github.com/jackson-sweet/opsapp-sub001/internal/db"
	"github.com/jackson-sweet/opsapp-sub001/internal/eventbus"
	"github.com/jackson-sweet/opsapp-sub001/internal/logging"
	"github.com/jackson-sweet/opsapp-sub001/internal/reassign"
	"github.com/jackson-sweet/opsapp-sub001/internal/remote"
	"github.com/jackson-sweet/opsapp-sub001/internal/repository"
	"github.com/jackson-sweet/opsapp-sub001/internal/service"
	"github.com/mattn/go-isatty"
)

const lockWait = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		return err
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	clientRepo := repository.NewSQLiteClientRepo(database)
	projectRepo := repository.NewSQLiteProjectRepo(database)
	taskTypeRepo := repository.NewSQLiteTaskTypeRepo(database)
	taskRepo := repository.NewSQLiteTaskRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)
	observer := service.NewLogUseCaseObserver(log)

	var callObserver remote.Observer = remote.NoopObserver{}
	if cfg.API.LogCalls {
		callObserver = remote.NewLogObserver(log)
	}
	remoteClient := remote.NewClient(remote.Config{
		BaseURL:    cfg.API.URL,
		Token:      cfg.API.Token,
		TimeoutMs:  cfg.API.TimeoutMS,
		MaxRetries: cfg.API.MaxRetries,
	}, callObserver)

	bus := eventbus.New(log)

	app := &cli.App{
		Clients:   service.NewClientService(clientRepo, nil, observer),
		Projects:  service.NewProjectService(projectRepo, uow, observer),
		TaskTypes: service.NewTaskTypeService(taskTypeRepo, nil, observer),
		Tasks:     service.NewTaskService(taskRepo, uow, observer),
		Reassign: reassign.New(reassign.Deps{
			UoW:      uow,
			Remote:   remoteClient,
			Notifier: bus,
			Log:      log,
		}),
		Bus:    bus,
		Config: cfg,
		Log:    log,
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}
	app.Lock = func(ctx context.Context) (func() error, error) {
		ctx, cancel := context.WithTimeout(ctx, lockWait)
		defer cancel()
		l, err := db.AcquireLock(ctx, cfg.DBPath)
		if err != nil {
			return nil, err
		}
		return l.Release, nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
