// Command main runs the database seeder for StackIt.
package main

import (
	"flag"
	"log"

	"stackit/internal/bootstrap"
	"stackit/internal/config"
	"stackit/internal/seed"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 50, "Number of users to create")
	numQuestions := flag.Int("questions", 200, "Number of questions to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, %d questions, clean=%v\n", *numUsers, *numQuestions, *shouldClean)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database; built-in tags are seeded by Seed itself.
	db, _, err := bootstrap.InitRuntime(cfg, bootstrap.Options{SeedBuiltIns: false})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	if err := seed.Seed(db, seed.Options{
		NumUsers:     *numUsers,
		NumQuestions: *numQuestions,
		ShouldClean:  *shouldClean,
	}); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Println("📧 All test users have the password: password123")
}
