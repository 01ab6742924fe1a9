package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"

	"studentrecords/internal/config"
	"studentrecords/internal/database"
	"studentrecords/internal/logger"
)

func main() {
	os.Exit(execute(os.Args[1:]))
}

// execute runs one command and returns the process exit code. Exiting only
// in main lets the deferred Close release the migrator and its database handle.
func execute(args []string) int {
	if len(args) < 1 {
		printUsage()
		return 1
	}
	command := args[0]
	if command == "help" || command == "-h" || command == "--help" {
		printUsage()
		return 0
	}

	cfg := config.Load()
	logger.Init(cfg.LogLevel)

	db, err := database.Open(context.Background(), cfg.DB)
	if err != nil {
		logger.LogError("Failed to connect to database", err)
		return 1
	}

	m, err := database.NewMigrator(db.DB)
	if err != nil {
		logger.LogError("Failed to create migrator", err)
		db.Close()
		return 1
	}
	defer m.Close()

	switch command {
	case "up":
		return run("Applying migrations", m.Up)
	case "down":
		return run("Rolling back the last migration", func() error { return m.Steps(-1) })
	case "steps":
		return handleSteps(m, args[1:])
	case "version", "status":
		return handleVersion(m)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		return 1
	}
}

func run(what string, fn func() error) int {
	logger.LogInfo(what)
	err := fn()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.LogInfo("No migrations to apply")
		return 0
	}
	if err != nil {
		logger.LogError("Migration failed", err)
		return 1
	}
	logger.LogInfo("Done")
	return 0
}

func handleSteps(m *migrate.Migrate, args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Error: 'steps' command requires a number argument")
		return 1
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		logger.LogError("Invalid number", err)
		return 1
	}
	return run(fmt.Sprintf("Applying %d steps", n), func() error { return m.Steps(n) })
}

func handleVersion(m *migrate.Migrate) int {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Println("No migrations applied yet")
		return 0
	}
	if err != nil {
		logger.LogError("Failed to get current version", err)
		return 1
	}
	fmt.Printf("Current migration version: %d (dirty: %t)\n", version, dirty)
	return 0
}

func printUsage() {
	fmt.Fprint(os.Stdout, `Usage: migrate <command>

Commands:
  up                  Apply all pending migrations
  down                Roll back the last migration
  steps <number>      Apply or roll back a number of migrations
                      (positive for up, negative for down)
  version, status     Show current migration version
  help                Show this help message

Database settings come from DB_HOST, DB_PORT, DB_USER, DB_PASSWORD,
DB_NAME and DB_SSLMODE (or a .env file).
`)
}
