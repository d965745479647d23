package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"fintrack/internal/config"
	"fintrack/internal/database"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/lib/pq"
	"gorm.io/gorm/logger"
)

const usage = `usage: migrate [flags] <command>

commands:
  up              apply all pending migrations
  down            roll back the most recent migration
  status          print the current migration version
  seed            load db/seeds/*.sql regardless of SEED_DATABASE
  cleanup-tokens  delete expired refresh tokens

flags:
`

func main() {
	migrationsDir := flag.String("migrations", "db/migrations", "directory holding the SQL migrations")
	seedsDir := flag.String("seeds", "db/seeds", "directory holding the seed files")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.LoadDatabase()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	if err := run(flag.Arg(0), &cfg, *migrationsDir, *seedsDir); err != nil {
		slog.Error("migrate command failed", "command", flag.Arg(0), "error", err)
		os.Exit(1)
	}
}

func run(command string, cfg *config.DatabaseConfig, migrationsDir, seedsDir string) error {
	if command == "cleanup-tokens" {
		return cleanupTokens(cfg)
	}

	db, err := sql.Open("postgres", cfg.URL())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	runner := database.NewMigrationRunner(db).WithPaths(migrationsDir, seedsDir)
	if err := runner.WaitForDatabase(); err != nil {
		return err
	}

	switch command {
	case "up":
		return runner.RunMigrations()
	case "down":
		if err := runner.RollbackLast(); err != nil {
			return err
		}
		slog.Info("rolled back one migration")
		return nil
	case "status":
		version, dirty, err := runner.GetMigrationStatus()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("no migrations applied")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("version: %d, dirty: %t\n", version, dirty)
		return nil
	case "seed":
		return runner.LoadSeeds(true)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func cleanupTokens(cfg *config.DatabaseConfig) error {
	db, err := database.New(cfg, logger.Warn)
	if err != nil {
		return err
	}
	defer db.Close()

	deleted, err := db.CleanupExpiredTokens()
	if err != nil {
		return err
	}

	slog.Info("expired refresh tokens removed", "count", deleted)
	return nil
}
