package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

const (
	migrationsPath = "db/migrations"
	seedsPath      = "db/seeds"
)

var (
	maxRetries    = 30
	retryInterval = 2 * time.Second

	ErrMigrationsNotFound = errors.New("migrations directory not found")
)

// MigrationRunner applies the SQL migrations under db/migrations and the
// optional demo data under db/seeds
type MigrationRunner struct {
	db             *sql.DB
	migrationsPath string
	seedsPath      string
}

// NewMigrationRunner creates a new migration runner
func NewMigrationRunner(db *sql.DB) *MigrationRunner {
	return &MigrationRunner{
		db:             db,
		migrationsPath: migrationsPath,
		seedsPath:      seedsPath,
	}
}

// WithPaths overrides the migration and seed directories
func (mr *MigrationRunner) WithPaths(migrations, seeds string) *MigrationRunner {
	mr.migrationsPath = migrations
	mr.seedsPath = seeds
	return mr
}

// WaitForDatabase pings until the database answers or retries run out
func (mr *MigrationRunner) WaitForDatabase() error {
	for i := 0; i < maxRetries; i++ {
		err := mr.db.Ping()
		if err == nil {
			slog.Info("database is ready")
			return nil
		}

		slog.Info("database not ready", "attempt", i+1, "max_attempts", maxRetries, "error", err)
		time.Sleep(retryInterval)
	}

	return fmt.Errorf("database not ready after %d attempts", maxRetries)
}

func (mr *MigrationRunner) newMigrate() (*migrate.Migrate, error) {
	if _, err := os.Stat(mr.migrationsPath); os.IsNotExist(err) {
		return nil, ErrMigrationsNotFound
	}

	absPath, err := filepath.Abs(mr.migrationsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for migrations: %w", err)
	}

	driver, err := postgres.WithInstance(mr.db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", absPath), "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}

	return m, nil
}

// RunMigrations executes all pending migrations. A missing migrations
// directory is skipped.
func (mr *MigrationRunner) RunMigrations() error {
	m, err := mr.newMigrate()
	if errors.Is(err, ErrMigrationsNotFound) {
		slog.Warn("migrations directory not found, skipping", "path", mr.migrationsPath)
		return nil
	}
	if err != nil {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if dirty {
		slog.Warn("database is in dirty state, forcing version", "version", version)
		if err := m.Force(int(version)); err != nil {
			return fmt.Errorf("failed to force version: %w", err)
		}
	}

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		slog.Info("no new migrations to apply", "version", version)
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	newVersion, _, err := m.Version()
	if err != nil {
		return fmt.Errorf("failed to get new migration version: %w", err)
	}
	slog.Info("applied migrations", "from_version", version, "to_version", newVersion)

	return nil
}

// RollbackLast reverts the most recently applied migration
func (mr *MigrationRunner) RollbackLast() error {
	m, err := mr.newMigrate()
	if err != nil {
		return err
	}

	if err := m.Steps(-1); err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}

	return nil
}

// LoadSeeds executes every *.sql file under the seeds directory in name
// order. Unless force is set it only runs with SEED_DATABASE=true. A failing
// seed file is logged and skipped.
func (mr *MigrationRunner) LoadSeeds(force bool) error {
	if !force && os.Getenv("SEED_DATABASE") != "true" {
		slog.Info("seed data loading disabled (SEED_DATABASE != true)")
		return nil
	}

	if _, err := os.Stat(mr.seedsPath); os.IsNotExist(err) {
		slog.Warn("seeds directory not found, skipping", "path", mr.seedsPath)
		return nil
	}

	files, err := filepath.Glob(filepath.Join(mr.seedsPath, "*.sql"))
	if err != nil {
		return fmt.Errorf("failed to find seed files: %w", err)
	}

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read seed file %s: %w", file, err)
		}

		if _, err := mr.db.Exec(string(content)); err != nil {
			slog.Warn("failed to execute seed file", "file", filepath.Base(file), "error", err)
			continue
		}

		slog.Info("executed seed file", "file", filepath.Base(file))
	}

	return nil
}

// GetMigrationStatus returns the current migration version and dirty flag
func (mr *MigrationRunner) GetMigrationStatus() (version uint, dirty bool, err error) {
	m, err := mr.newMigrate()
	if err != nil {
		return 0, false, err
	}

	return m.Version()
}

// RunMigrationsIfEnabled runs migrations and seeds when AUTO_MIGRATE=true
func RunMigrationsIfEnabled(db *sql.DB) error {
	if os.Getenv("AUTO_MIGRATE") != "true" {
		slog.Info("auto-migration disabled (AUTO_MIGRATE != true)")
		return nil
	}

	runner := NewMigrationRunner(db)

	if err := runner.WaitForDatabase(); err != nil {
		return fmt.Errorf("database readiness check failed: %w", err)
	}

	if err := runner.RunMigrations(); err != nil {
		return fmt.Errorf("migration execution failed: %w", err)
	}

	if err := runner.LoadSeeds(false); err != nil {
		slog.Warn("seed data loading failed", "error", err)
	}

	return nil
}
