// Command tmsctl administers a TMS installation directly against its
// database: onboarding and suspending tenants, approving users and loading
// demo data.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tms/backend/internal/bootstrap"
	"github.com/tms/backend/internal/infrastructure/auth"
	"github.com/tms/backend/internal/infrastructure/cache"
	"github.com/tms/backend/internal/infrastructure/config"
	"github.com/tms/backend/internal/infrastructure/event"
	"github.com/tms/backend/internal/infrastructure/logger"
	"github.com/tms/backend/internal/infrastructure/persistence"
	"github.com/tms/backend/internal/infrastructure/printing"
	"github.com/tms/backend/internal/infrastructure/storage"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:           "tmsctl",
	Short:         "TMS administration tool",
	Long:          `Administer tenants, users and demo data of a TMS installation.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringP("output", "o", "table", "Output format: table or json")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app is the wired service graph a command works with
type app struct {
	services *bootstrap.Services
	log      *zap.Logger
	closers  []func()
}

// openApp loads configuration and wires the services the same way the
// server does, minus HTTP, Redis and telemetry
func openApp(cmd *cobra.Command) (*app, error) {
	ctx := cmd.Context()
	level, _ := cmd.Flags().GetString("log-level")

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	log, _ := logger.New(&logger.Config{Level: level, Format: "console", Output: "stderr"})

	db, err := persistence.NewDatabase(&cfg.Database, log, level)
	if err != nil {
		return nil, err
	}
	a := &app{log: log}
	a.closers = append(a.closers, func() { _ = db.Close() })

	store, err := storage.New(ctx, cfg.Storage, log)
	if err != nil {
		a.close()
		return nil, err
	}

	bus := event.NewInMemoryEventBus(log)
	a.services = bootstrap.NewServices(bootstrap.Infrastructure{
		DB:          db.DB,
		Bus:         bus,
		JWT:         auth.NewJWTService(cfg.JWT),
		Blacklist:   auth.NewTokenBlacklist(nil),
		TenantCache: cache.NewTenantCache(nil, log),
		Storage:     store,
		HTML:        printing.NewTemplateEngine(),
		Logger:      log,
	}, bootstrap.SettingsFromConfig(cfg))
	if err := bus.Start(ctx); err != nil {
		a.close()
		return nil, err
	}
	// closers run in reverse, so the bus drains before the database closes
	a.closers = append(a.closers, func() { _ = bus.Stop(context.Background()) })
	return a, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	_ = a.log.Sync()
}

// withApp runs fn with a wired app and releases it afterwards
func withApp(fn func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()
		return fn(cmd, args, a)
	}
}
