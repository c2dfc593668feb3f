package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/margindefense/internal/classifier"
	"github.com/alexanderramin/margindefense/internal/cli"
	"github.com/alexanderramin/margindefense/internal/cli/formatter"
	"github.com/alexanderramin/margindefense/internal/config"
	"github.com/alexanderramin/margindefense/internal/db"
	"github.com/alexanderramin/margindefense/internal/logger"
	"github.com/alexanderramin/margindefense/internal/repository"
	"github.com/alexanderramin/margindefense/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Global flags decide which config and database to open, so they are
	// read before the command tree is built.
	flags, err := cli.ParseGlobalFlags(os.Args[1:])
	if err != nil {
		return err
	}

	cfg, err := config.Load(flags.ConfigFile)
	if err != nil {
		return err
	}
	if flags.DBPath != "" {
		cfg.DBPath = flags.DBPath
	}

	formatter.SetColor(cfg.Output.Color && !flags.NoColor && isTerminal(os.Stdout))

	var observers []service.UseCaseObserver
	logging := cfg.Log.Enabled || flags.Verbose
	if logging {
		l, err := logger.Setup(os.Stderr, logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
		if err != nil {
			return fmt.Errorf("setting up logger: %w", err)
		}
		observers = append(observers, service.NewLogUseCaseObserver(l))
	}

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	orgRepo := repository.NewSQLiteOrganizationRepo(database)
	clientRepo := repository.NewSQLiteClientRepo(database)
	projectRepo := repository.NewSQLiteProjectRepo(database)
	logRepo := repository.NewSQLiteWorkLogRepo(database)
	requestRepo := repository.NewSQLiteScopeRequestRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)
	cls := classifier.New(classifier.DefaultLexicon())

	// Wire services
	orgSvc := service.NewOrganizationService(orgRepo, uow, observers...)

	app := &cli.App{
		Orgs:      orgSvc,
		Clients:   service.NewClientService(orgSvc, clientRepo, observers...),
		Projects:  service.NewProjectService(orgSvc, clientRepo, projectRepo, observers...),
		WorkLogs:  service.NewWorkLogService(orgSvc, logRepo, cls, uow, observers...),
		Scope:     service.NewScopeService(orgSvc, requestRepo, uow, observers...),
		Analytics: service.NewAnalyticsService(orgSvc, uow, cfg.Thresholds, observers...),
		Import:    service.NewImportService(orgSvc, clientRepo, cls, uow, observers...),

		Classifier: cls,
		WindowDays: cfg.WindowDays,
		ShameLimit: cfg.ShameLimit,
		Thresholds: cfg.Thresholds,
		Logging:    logging,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.ExecuteContext(ctx)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
