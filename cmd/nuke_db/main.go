// Command nuke_db drops and recreates the public schema, leaving an empty
// database. Development helper; it refuses to run against production and
// requires --yes.
package main

import (
	"flag"
	"fmt"
	"log"

	"stackit/internal/config"
	"stackit/internal/database"
)

func main() {
	yes := flag.Bool("yes", false, "confirm dropping every table in the database")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.Env == "production" || cfg.Env == "prod" {
		log.Fatal("refusing to drop the schema with APP_ENV=production")
	}
	if !*yes {
		log.Fatal("this drops every table; re-run with --yes to confirm")
	}

	// No point applying the schema we are about to drop.
	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: false})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Dropping schema public on %s/%s...\n", cfg.DBHost, cfg.DBName)
	if err := db.Exec("DROP SCHEMA public CASCADE; CREATE SCHEMA public;").Error; err != nil {
		log.Fatalf("drop schema: %v", err)
	}
	if err := db.Exec("GRANT ALL ON SCHEMA public TO public;").Error; err != nil {
		log.Fatalf("restore schema grants: %v", err)
	}
	fmt.Println("Schema recreated empty. Run cmd/migrate up to rebuild it.")
}
