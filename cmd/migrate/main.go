package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/infrastructure/config"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/infrastructure/logger"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/infrastructure/migration"
	"github.com/bcaiza/invoicePtoducts-sub000/migrations"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {
	var (
		migrationsPath string
		logLevel       string
	)
	flag.StringVar(&migrationsPath, "path", "", "Migrations directory (default: migrations embedded in the binary)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(2)
	}

	logCfg := logger.DefaultConfig(os.Getenv("POS_APP_ENV"))
	logCfg.Level = logLevel
	logCfg.TimeFormat = "2006-01-02 15:04:05"
	log, err := logger.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(args, migrationsPath, log); err != nil {
		log.Error("Migration command failed", zap.String("command", args[0]), zap.Error(err))
		os.Exit(1)
	}
}

func run(args []string, migrationsPath string, log *zap.Logger) error {
	command := args[0]

	// commands that only touch files
	switch command {
	case "create":
		if len(args) < 2 {
			return errors.New("usage: migrate create <name> [description]")
		}
		if migrationsPath == "" {
			migrationsPath = "migrations"
		}
		desc := ""
		if len(args) > 2 {
			desc = args[2]
		}
		mf, err := migration.CreateMigration(migrationsPath, args[1], desc)
		if err != nil {
			return err
		}
		log.Info("Migration created",
			zap.String("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return nil
	case "list":
		fsys := migrations.FS
		list, err := migration.ListMigrations(fsys)
		if migrationsPath != "" {
			list, err = migration.ListMigrations(os.DirFS(migrationsPath))
		}
		if err != nil {
			return err
		}
		for _, m := range list {
			fmt.Printf("  %06d  %s\n", m.Version, m.Name)
		}
		log.Info("Available migrations", zap.Int("count", len(list)))
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	var m *migration.Migrator
	if migrationsPath != "" {
		m, err = migration.New(db, migrationsPath, log)
	} else {
		m, err = migration.NewFromFS(db, migrations.FS, log)
	}
	if err != nil {
		return err
	}
	defer m.Close()

	switch command {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "step":
		n, err := intArg(args, "step <n>")
		if err != nil {
			return err
		}
		return m.Steps(n)
	case "goto":
		v, err := intArg(args, "goto <version>")
		if err != nil {
			return err
		}
		if v < 0 {
			return errors.New("version must be >= 0")
		}
		return m.GoTo(uint(v))
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		return nil
	case "force":
		v, err := intArg(args, "force <version>")
		if err != nil {
			return err
		}
		return m.Force(v)
	case "drop":
		if len(args) < 2 || (args[1] != "-confirm" && args[1] != "--confirm") {
			return errors.New("drop removes every table; run 'migrate drop -confirm' to proceed")
		}
		return m.Drop()
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func intArg(args []string, usage string) (int, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("usage: migrate %s", usage)
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", args[1])
	}
	return n, nil
}

func printUsage() {
	fmt.Println(`Bakery POS database migration tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (negative rolls back)
  goto <version>        Migrate to a specific version
  version               Show the applied version
  force <version>       Mark a version as applied (recovers a dirty state)
  drop -confirm         Drop all database objects
  create <name> [desc]  Create a new migration file pair
  list                  List available migrations

Flags:
  -path string          Read migrations from this directory instead of the embedded set
  -log-level string     debug, info, warn, error (default: info)

Database settings come from config.toml or POS_DATABASE_* environment variables.`)
}
