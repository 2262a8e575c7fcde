package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/flexprice/paymirror/internal/config"
	"github.com/flexprice/paymirror/internal/logger"
	"github.com/flexprice/paymirror/migrations"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		logger.Fatalw("Failed to read embedded migrations", "error", err)
	}

	logger.Infow("Connecting to database",
		"host", cfg.Postgres.Host,
		"database", cfg.Postgres.DBName,
	)

	m, err := migrate.NewWithSourceInstance("iofs", source, cfg.Postgres.GetMigrationURL())
	if err != nil {
		logger.Fatalw("Failed to initialize migrations", "error", err)
	}
	defer func() {
		if sourceErr, dbErr := m.Close(); sourceErr != nil || dbErr != nil {
			logger.Errorw("Failed to close migration resources", "source_error", sourceErr, "database_error", dbErr)
		}
	}()

	switch command {
	case "up":
		err = m.Up()
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("No change: database is up to date")
			return
		}
		if err != nil {
			logger.Fatalw("Failed to apply migrations", "error", err)
		}
		logger.Info("Migrations applied")

	case "down":
		if err := m.Steps(-1); err != nil {
			logger.Fatalw("Failed to roll back last migration", "error", err)
		}
		logger.Info("Last migration rolled back")

	case "goto":
		if len(os.Args) < 3 {
			logger.Fatal("goto requires a version number")
		}
		version, err := strconv.ParseUint(os.Args[2], 10, 64)
		if err != nil {
			logger.Fatalw("Invalid version number", "version", os.Args[2], "error", err)
		}
		err = m.Migrate(uint(version))
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Infow("No change: database already at version", "version", version)
			return
		}
		if err != nil {
			logger.Fatalw("Failed to migrate to version", "version", version, "error", err)
		}
		logger.Infow("Migrated to version", "version", version)

	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			logger.Info("No migrations applied yet")
			return
		}
		if err != nil {
			logger.Fatalw("Failed to read migration version", "error", err)
		}
		logger.Infow("Current migration version", "version", version, "dirty", dirty)

	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: go run cmd/migrate/main.go [command]")
	fmt.Println("Commands:")
	fmt.Println("  up         apply all pending migrations")
	fmt.Println("  down       roll back the last migration")
	fmt.Println("  goto N     migrate up or down to version N")
	fmt.Println("  version    print the current migration version")
}
