package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"fwinventory/internal/admin"
	"fwinventory/internal/config"
	"fwinventory/internal/logging"
	"fwinventory/internal/repository/sqlite"
)

// app carries state shared by all subcommands once the root command has
// resolved configuration
type app struct {
	configPath string
	dbPath     string
	logLevel   string
	logFormat  string
	logFile    string

	cfg      *config.Config
	logger   *slog.Logger
	closeLog func() error
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "fwinventory",
		Short: "Firewall and network asset inventory",
		Long: `fwinventory keeps a validated inventory of firewalls, their hardware and
interfaces, service ports, networks and hosts in a SQLite database.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.closeLog != nil {
				return a.closeLog()
			}
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file (default: search $FWINVENTORY_CONFIG, ./fwinventory.yaml, XDG, /etc)")
	flags.StringVar(&a.dbPath, "db", "", "SQLite database path (overrides config)")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&a.logFormat, "log-format", "", "Log format (text, json)")
	flags.StringVar(&a.logFile, "log-file", "", "Log file path (default: stderr)")

	rootCmd.AddCommand(
		a.newMigrateCmd(),
		a.newImportCmd(),
		a.newCheckCmd(),
		a.newExportCmd(),
		a.newListCmd(),
		a.newTypesCmd(),
		a.newConfigCmd(),
	)
	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// setup loads .env and the config file, applies flag overrides and
// installs the logger
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	var (
		cfg  *config.Config
		path string
		err  error
	)
	if a.configPath != "" {
		cfg, path, err = config.LoadFromPath(a.configPath)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return err
	}

	if a.dbPath != "" {
		cfg.Database.Path = a.dbPath
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Logging.Format = a.logFormat
	}
	if a.logFile != "" {
		cfg.Logging.File = a.logFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closeLog, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	}, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	a.cfg, a.logger, a.closeLog = cfg, logger, closeLog
	if path != "" {
		logger.Debug("loaded config", "path", path)
	}
	return nil
}

func (a *app) openRepo() (*sqlite.Repository, error) {
	repo, err := sqlite.New(a.cfg.Database.Path,
		sqlite.WithLogger(a.logger),
		sqlite.WithPageSize(a.cfg.Database.PageSize),
		sqlite.WithBusyTimeout(a.cfg.Database.BusyTimeout.Duration()),
	)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", a.cfg.Database.Path, err)
	}
	return repo, nil
}

func (a *app) registry() (*admin.Registry, error) {
	return admin.Default().Restrict(a.cfg.Admin.Expose)
}
