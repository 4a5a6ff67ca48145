// Package main provides a CLI tool to seed the demo engagement survey.
// Usage: go run cmd/seed-demo/main.go
// The demo survey gives every analytics view data to render locally.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/formpulse-tools/insights_backend/internal/database"
)

func main() {
	// Define command line flags
	clear := flag.Bool("clear", false, "Remove previously seeded demo data instead of seeding")
	reseed := flag.Bool("reseed", false, "Clear and seed again in one run")
	envFile := flag.String("env", "", "Path to .env file (defaults to .env in current dir or backend dir)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Seeds the demo engagement survey with scored responses into the\n")
		fmt.Fprintf(os.Stderr, "Insights database. Seeding is idempotent; an existing demo survey\n")
		fmt.Fprintf(os.Stderr, "is left untouched unless -reseed is given.\n\n")
		fmt.Fprintf(os.Stderr, "Configuration is loaded from .env file and/or environment variables.\n\n")
		fmt.Fprintf(os.Stderr, "Required config (via .env or environment):\n")
		fmt.Fprintf(os.Stderr, "  FORMPULSE_DATABASE_URI   MongoDB connection URI\n")
		fmt.Fprintf(os.Stderr, "  FORMPULSE_DATABASE_NAME  Database name (default: formpulse)\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -reseed\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -clear\n", os.Args[0])
	}

	flag.Parse()

	// Load .env file
	loadEnvFile(*envFile)

	// Load database configuration from environment
	dbURI := os.Getenv("FORMPULSE_DATABASE_URI")
	if dbURI == "" {
		log.Fatal("Error: FORMPULSE_DATABASE_URI environment variable is required")
	}
	dbName := os.Getenv("FORMPULSE_DATABASE_NAME")
	if dbName == "" {
		dbName = "formpulse"
	}

	// Connect to MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	clientOpts := options.Client().ApplyURI(dbURI)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if disconnectErr := client.Disconnect(ctx); disconnectErr != nil {
			log.Printf("Error disconnecting from MongoDB: %v", disconnectErr)
		}
	}()

	// Ping database
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}

	seeder := database.NewSeeder(client.Database(dbName))

	if *clear || *reseed {
		if err := seeder.ClearSeededData(ctx); err != nil {
			log.Fatalf("Failed to clear demo data: %v", err)
		}
		fmt.Println("✓ Cleared demo data")
		if !*reseed {
			return
		}
	}

	if err := seeder.SeedAll(ctx); err != nil {
		log.Fatalf("Failed to seed demo data: %v", err)
	}

	fmt.Println("✓ Demo survey seeded")
	fmt.Println()
	fmt.Println("Try it out:")
	fmt.Println("  GET /api/v1/surveys/{surveyId}/analytics/participation")
	fmt.Println("The survey ID is printed in the server logs on seed, or query MongoDB directly.")
}

// loadEnvFile loads environment variables from a .env file
func loadEnvFile(path string) {
	if path == "" {
		// Try to find .env in current dir or backend dir
		cwd, _ := os.Getwd()
		if _, err := os.Stat(filepath.Join(cwd, ".env")); err == nil {
			path = ".env"
		} else if _, err := os.Stat(filepath.Join(cwd, "backend", ".env")); err == nil {
			path = filepath.Join(cwd, "backend", ".env")
		}
	}

	if path != "" {
		if err := godotenv.Load(path); err != nil {
			log.Printf("Error loading .env file: %v", err)
		}
	}
}
