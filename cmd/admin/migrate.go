package main

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	migrateV4 "github.com/golang-migrate/migrate/v4"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"

	"github.com/yourusername/automatismes-api/internal/config"
	"github.com/yourusername/automatismes-api/pkg/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd, func(m *migrateV4.Migrate) error {
			if err := m.Up(); err != nil && !errors.Is(err, migrateV4.ErrNoChange) {
				return err
			}
			return printVersion(m)
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Roll back migrations (one step by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps := 1
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				return fmt.Errorf("steps must be a positive integer, got %q", args[0])
			}
			steps = n
		}
		return withMigrator(cmd, func(m *migrateV4.Migrate) error {
			if err := m.Steps(-steps); err != nil && !errors.Is(err, migrateV4.ErrNoChange) {
				return err
			}
			return printVersion(m)
		})
	},
}

var migrateForceCmd = &cobra.Command{
	Use:   "force <version>",
	Short: "Set the schema version and clear the dirty flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[0], err)
		}
		return withMigrator(cmd, func(m *migrateV4.Migrate) error {
			fmt.Printf("Forcing migration version to %d...\n", version)
			if err := m.Force(version); err != nil {
				return fmt.Errorf("force version: %w", err)
			}
			return printVersion(m)
		})
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd, printVersion)
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateForceCmd, migrateVersionCmd)
}

// withMigrator открывает соединение напрямую (lib/pq или go-sqlite3), без gorm
func withMigrator(cmd *cobra.Command, fn func(m *migrateV4.Migrate) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := openRaw(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	m, err := database.NewMigrator(db, cfg.Database.Driver, cfg.Database.MigrationsPath())
	if err != nil {
		return err
	}
	return fn(m)
}

func openRaw(cfg config.DatabaseConfig) (*sql.DB, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return sql.Open("postgres", cfg.PostgresConnectionString())
	case config.DriverSQLite:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite directory: %w", err)
			}
		}
		return sql.Open("sqlite3", cfg.SQLitePath+"?_foreign_keys=on")
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func printVersion(m *migrateV4.Migrate) error {
	version, dirty, err := m.Version()
	if errors.Is(err, migrateV4.ErrNilVersion) {
		fmt.Println("No migrations applied")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("Schema version: %d (dirty=%t)\n", version, dirty)
	return nil
}
