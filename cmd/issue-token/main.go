// Package main provides a CLI tool to issue a bearer token for API access.
// Usage: go run cmd/issue-token/main.go -subject "analyst@example.com"
// This is useful for development when the main FormPulse backend is not running.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/joho/godotenv"

	"github.com/formpulse-tools/insights_backend/internal/auth"
	"github.com/formpulse-tools/insights_backend/internal/models"
)

func main() {
	// Define command line flags
	subject := flag.String("subject", "", "Token subject, usually the user email (required)")
	role := flag.String("role", string(models.UserRoleViewer), "Token role: ADMIN or VIEWER")
	expiry := flag.Duration("expiry", time.Hour, "Token lifetime")
	envFile := flag.String("env", "", "Path to .env file (defaults to .env in current dir or backend dir)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Issues a signed bearer token for the Insights API (development use).\n")
		fmt.Fprintf(os.Stderr, "In production tokens come from the main FormPulse backend; this tool\n")
		fmt.Fprintf(os.Stderr, "signs with a local private key instead.\n\n")
		fmt.Fprintf(os.Stderr, "Configuration is loaded from .env file and/or environment variables.\n\n")
		fmt.Fprintf(os.Stderr, "Required config (via .env or environment):\n")
		fmt.Fprintf(os.Stderr, "  FORMPULSE_JWT_PRIVATE_KEY_PATH  RSA private key for signing\n")
		fmt.Fprintf(os.Stderr, "  FORMPULSE_JWT_PUBLIC_KEY_PATH   RSA public key for validation\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -subject \"analyst@company.com\"\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -subject \"admin@company.com\" -role ADMIN -expiry 24h\n", os.Args[0])
	}

	flag.Parse()

	// Load .env file
	loadEnvFile(*envFile)

	// Validate required flags
	if *subject == "" {
		log.Fatal("Error: -subject is required")
	}

	// Validate email format when the subject looks like one
	if !isValidEmail(*subject) {
		log.Fatalf("Error: invalid subject format: %s", *subject)
	}

	// Validate role
	if !models.UserRole(*role).IsValid() {
		log.Fatalf("Error: invalid role '%s' (expected %s or %s)", *role, models.UserRoleAdmin, models.UserRoleViewer)
	}

	// Load key paths from environment
	privateKeyPath := os.Getenv("FORMPULSE_JWT_PRIVATE_KEY_PATH")
	if privateKeyPath == "" {
		log.Fatal("Error: FORMPULSE_JWT_PRIVATE_KEY_PATH environment variable is required")
	}
	publicKeyPath := os.Getenv("FORMPULSE_JWT_PUBLIC_KEY_PATH")
	if publicKeyPath == "" {
		log.Fatal("Error: FORMPULSE_JWT_PUBLIC_KEY_PATH environment variable is required")
	}

	// Initialize JWT service with signing enabled
	jwtService, err := auth.NewJWTService(auth.JWTConfig{
		PrivateKeyPath:    privateKeyPath,
		PublicKeyPath:     publicKeyPath,
		AccessTokenExpiry: *expiry,
		Issuer:            "formpulse-main",
	})
	if err != nil {
		log.Fatalf("Failed to initialize JWT service: %v", err)
	}
	if !jwtService.CanSign() {
		log.Fatal("Error: no signing key loaded")
	}

	// Issue the token
	token, expiresAt, err := jwtService.GenerateAccessToken(*subject, *role)
	if err != nil {
		log.Fatalf("Failed to generate token: %v", err)
	}

	// Output results
	fmt.Println()
	fmt.Println("=== Bearer Token Issued ===")
	fmt.Printf("  Subject: %s\n", *subject)
	fmt.Printf("  Role:    %s\n", *role)
	fmt.Printf("  Expires: %s\n", expiresAt.Format(time.RFC3339))
	fmt.Println()
	fmt.Println("Token:")
	fmt.Println(token)
	fmt.Println()
	fmt.Println("Use it as: Authorization: Bearer <token>")
}

// isValidEmail performs basic email validation
func isValidEmail(email string) bool {
	pattern := `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	matched, _ := regexp.MatchString(pattern, email)
	return matched
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
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}
}
