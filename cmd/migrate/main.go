// Command migrate applies the embedded SQL schema to the configured postgres database.
package main

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/openbiz/backend/internal/infrastructure/config"
	"github.com/openbiz/backend/internal/infrastructure/logger"
	"github.com/openbiz/backend/internal/infrastructure/migration"
	"github.com/openbiz/backend/migrations"
)

var (
	logLevel      string
	migrationsDir string
	log           *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "migrate",
	Short:         "Manage the database schema",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logger.New(&logger.Config{Level: logLevel, Format: "console", Output: "stdout"})
		if err != nil {
			return err
		}
		log = l
		return nil
	},
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: withMigrator(func(m *migration.Migrator, _ []string) error {
		return m.Up()
	}),
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back all migrations",
	RunE: withMigrator(func(m *migration.Migrator, _ []string) error {
		return m.Down()
	}),
}

var stepsCmd = &cobra.Command{
	Use:   "steps N",
	Short: "Apply N migrations, rolling back when N is negative",
	Args:  cobra.ExactArgs(1),
	RunE: withMigrator(func(m *migration.Migrator, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid step count %q", args[0])
		}
		return m.Steps(n)
	}),
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	RunE: withMigrator(func(m *migration.Migrator, _ []string) error {
		v, dirty, err := m.Version()
		if err != nil {
			return err
		}
		log.Info("Current migration version", zap.Uint("version", v), zap.Bool("dirty", dirty))
		return nil
	}),
}

var forceCmd = &cobra.Command{
	Use:   "force VERSION",
	Short: "Mark VERSION as applied without running it",
	Args:  cobra.ExactArgs(1),
	RunE: withMigrator(func(m *migration.Migrator, args []string) error {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		return m.Force(v)
	}),
}

var createCmd = &cobra.Command{
	Use:   "create NAME [DESCRIPTION]",
	Short: "Create a new up/down migration pair",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		description := ""
		if len(args) > 1 {
			description = args[1]
		}
		mf, err := migration.CreateMigration(migrationsDir, args[0], description)
		if err != nil {
			return err
		}
		log.Info("Migration created", zap.String("up_file", mf.UpPath), zap.String("down_file", mf.DownPath))
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List embedded migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := migration.ListMigrations(migrations.FS)
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Fprintf(cmd.OutOrStdout(), "%06d  %s\n", e.Version, e.Name)
		}
		return nil
	},
}

// withMigrator opens the database and runs fn with a ready migrator
func withMigrator(fn func(*migration.Migrator, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if cfg.Database.Driver == "sqlite" {
			return fmt.Errorf("sql migrations target postgres; sqlite schemas are created on startup")
		}

		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		m, err := migration.New(db, migrations.FS, log)
		if err != nil {
			return err
		}
		defer m.Close()
		return fn(m, args)
	}
}

func main() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	createCmd.Flags().StringVar(&migrationsDir, "dir", "migrations", "Directory receiving new migration files")
	rootCmd.AddCommand(upCmd, downCmd, stepsCmd, versionCmd, forceCmd, createCmd, listCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	if log != nil {
		_ = log.Sync()
	}
}
