package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alexanderramin/programhub/internal/cli"
	"github.com/alexanderramin/programhub/internal/config"
	"github.com/alexanderramin/programhub/internal/db"
	"github.com/alexanderramin/programhub/internal/metrics"
	"github.com/alexanderramin/programhub/internal/period"
	"github.com/alexanderramin/programhub/internal/service"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	// Config has to be resolved before the command tree exists, so the
	// global flags are parsed once here and again by cobra.
	flags := pflag.NewFlagSet("programhub", pflag.ContinueOnError)
	flags.ParseErrorsWhitelist.UnknownFlags = true
	flags.Usage = func() {}
	cfgFile := flags.String("config", "", "")
	config.RegisterFlags(flags)
	_ = flags.Parse(args)

	cfg, err := config.Load(*cfgFile, flags)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := cfg.Logger(os.Stderr)
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	database, err := db.OpenDB(cfg.DB)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()
	logger.Debug("database opened", "path", cfg.DB)

	// Wire repositories and unit of work for transactional operations
	repos := service.NewRepos(database)
	uow := db.NewSQLiteUnitOfWork(database)
	clock := period.SystemClock{Location: loc}

	m := metrics.New(nil)
	observers := []service.UseCaseObserver{m}
	if cfg.Log.UseCases {
		observers = append(observers, service.NewSlogUseCaseObserver(logger))
	}
	observer := service.NewMultiUseCaseObserver(observers...)

	// Wire services
	subtaskSvc := service.NewSubtaskService(repos, uow, clock, observer)
	snapshotSvc := service.NewSnapshotService(repos, clock, observer)
	importSvc := service.NewImportService(uow, clock, observer)

	app := &cli.App{
		Programs:  service.NewProgramService(repos, clock, observer),
		Hierarchy: service.NewHierarchyService(repos, clock, observer),
		Subtasks:  subtaskSvc,
		Snapshots: snapshotSvc,
		Status:    service.NewStatusService(repos, clock, observer),
		Burndown:  service.NewBurndownService(repos, clock, observer),
		Import:    importSvc,

		SaveSnapshot:     snapshotSvc,
		UpdateCompletion: subtaskSvc,
		ImportProgram:    importSvc,

		Metrics:        m.NewMux(),
		MetricsAddr:    cfg.Metrics.Addr,
		MetricsRefresh: cfg.Metrics.Refresh,
		Logger:         logger,
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(context.Background())
}
