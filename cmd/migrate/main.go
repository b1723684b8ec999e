package main

import (
	"database/sql"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/tms/backend/internal/infrastructure/config"
	"github.com/tms/backend/internal/infrastructure/logger"
	"github.com/tms/backend/internal/infrastructure/migration"
	"github.com/tms/backend/migrations"
	"go.uber.org/zap"
)

func main() {
	var (
		migrationsPath string
		logLevel       string
	)
	flag.StringVar(&migrationsPath, "path", "", "Read migrations from this directory instead of the embedded schema")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(2)
	}

	log, _ := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	defer func() { _ = log.Sync() }()

	if err := run(args, migrationsPath, log); err != nil {
		log.Error("Migration command failed", zap.String("command", args[0]), zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(args []string, migrationsPath string, log *zap.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	var source fs.FS = migrations.FS
	if migrationsPath != "" {
		source = os.DirFS(migrationsPath)
	}

	command := args[0]
	switch command {
	case "create":
		if len(args) < 2 {
			return fmt.Errorf("usage: migrate create <name> [description]")
		}
		dir := migrationsPath
		if dir == "" {
			dir = cfg.Database.MigrationsPath
		}
		description := ""
		if len(args) > 2 {
			description = args[2]
		}
		mf, err := migration.CreateMigration(dir, args[1], description)
		if err != nil {
			return err
		}
		log.Info("Migration created",
			zap.Uint("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return nil

	case "list":
		entries, err := migration.ListMigrations(source)
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Printf("  %06d  %s\n", e.Version, e.Name)
		}
		log.Info("Available migrations", zap.Int("count", len(entries)))
		return nil
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	m, err := migration.New(db, source, log)
	if err != nil {
		return err
	}
	defer func() { _ = m.Close() }()

	switch command {
	case "up":
		return m.Up()

	case "down":
		return m.Down()

	case "steps", "step":
		if len(args) < 2 {
			return fmt.Errorf("usage: migrate steps <n>")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid step count %q", args[1])
		}
		return m.Steps(n)

	case "goto":
		if len(args) < 2 {
			return fmt.Errorf("usage: migrate goto <version>")
		}
		version, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid version %q", args[1])
		}
		return m.GoTo(uint(version))

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		if version == 0 {
			log.Info("No migrations applied")
			return nil
		}
		log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		return nil

	case "force":
		if len(args) < 2 {
			return fmt.Errorf("usage: migrate force <version>")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[1])
		}
		return m.Force(version)

	case "drop":
		if !slices.Contains(args[1:], "-confirm") && !slices.Contains(args[1:], "--confirm") {
			return fmt.Errorf("drop removes every table; rerun as 'migrate drop -confirm'")
		}
		return m.Drop()
	}

	printUsage()
	return fmt.Errorf("unknown command %q", command)
}

func printUsage() {
	fmt.Println(`TMS database migration tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  steps <n>             Apply n migrations (positive=up, negative=down)
  goto <version>        Migrate to a specific version
  version               Show current migration version
  force <version>       Mark a version as applied without running it
  drop -confirm         Drop all database objects
  create <name> [desc]  Create the next numbered migration pair
  list                  List available migrations

Flags:
  -path string          Migrations directory (default: the schema built into the binary)
  -log-level string     Log level: debug, info, warn, error (default: info)

Connection settings come from config.toml, .env and TMS_DATABASE_* variables.

Examples:
  migrate up
  migrate steps -1
  migrate -path ./migrations create add_driver_email "Store driver email"`)
}
