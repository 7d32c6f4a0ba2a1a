// Command migrate drives schema changes from the terminal: apply pending SQL
// migrations, run AutoMigrate, inspect schema status, or roll a version back.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"

	"stackit/internal/config"
	"stackit/internal/database"

	"gorm.io/gorm"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf(`usage: migrate <command> [args]

commands:
  up              apply all pending SQL migrations
  auto            run GORM AutoMigrate against the registered models
  status          show schema mode, applied and pending migrations
  down <version>  roll back a single migration by version`)
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Schema steps are driven explicitly below, never on connect.
	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: false})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	ctx := context.Background()
	switch cmd := strings.ToLower(strings.TrimSpace(flag.Arg(0))); cmd {
	case "up":
		return migrateUp(ctx, db)
	case "auto":
		return migrateAuto(ctx, db, cfg)
	case "status":
		return printStatus(ctx, db, cfg)
	case "down":
		return migrateDown(ctx, db, flag.Arg(1))
	default:
		return usage()
	}
}

func migrateUp(ctx context.Context, db *gorm.DB) error {
	if err := database.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("sql migrations failed: %w", err)
	}
	log.Println("sql migrations applied")
	return nil
}

func migrateAuto(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	cfg.DBSchemaMode = database.SchemaModeAuto
	if err := database.ApplySchema(ctx, db, cfg); err != nil {
		return fmt.Errorf("auto schema apply failed: %w", err)
	}
	log.Println("automigrations applied")
	return nil
}

func printStatus(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	status, err := database.GetSchemaStatus(ctx, db, cfg)
	if err != nil {
		return fmt.Errorf("schema status failed: %w", err)
	}

	log.Printf("mode=%s env=%s run_sql=%t run_auto=%t applied=%d pending=%d",
		status.Mode, status.Environment, status.WillRunSQL, status.WillRunAutoMigrate,
		len(status.AppliedVersions), len(status.PendingMigrations))
	for _, m := range status.PendingMigrations {
		log.Printf("pending: %06d_%s", m.Version, m.Name)
	}
	return nil
}

func migrateDown(ctx context.Context, db *gorm.DB, arg string) error {
	if arg == "" {
		return fmt.Errorf("usage: migrate down <version>")
	}
	version, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("invalid version %q: %w", arg, err)
	}
	if err := database.RollbackMigration(ctx, db, version); err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}
	log.Printf("rolled back migration %d", version)
	return nil
}
