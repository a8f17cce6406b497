package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/seolytics/seo-api/internal/domain/apikey"
	"github.com/seolytics/seo-api/internal/domain/client"
	"github.com/seolytics/seo-api/internal/storage/postgres"
	"github.com/seolytics/seo-api/internal/util"
	"go.uber.org/zap"
)

// Bootstraps a first admin client plus an admin-scoped API key so the
// management endpoints can be called before any other key exists.
func main() {
	name := flag.String("name", "Bootstrap Admin", "Client name")
	email := flag.String("email", "admin@example.com", "Client email")
	flag.Parse()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	logger, _ := zap.NewDevelopment()
	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}
	defer pool.Close()

	ctx := context.Background()

	clientRepo := postgres.NewClientRepository(pool, logger)
	keyRepo := postgres.NewAPIKeyRepository(pool, logger)

	adminClient := &client.Client{
		Name:               *name,
		Email:              *email,
		IsActive:           true,
		MaxAPIKeys:         5,
		RateLimitPerMinute: 60,
		RateLimitPerDay:    10000,
	}
	clientID, err := clientRepo.Create(ctx, adminClient)
	if err != nil {
		log.Fatalf("Failed to create bootstrap client: %v", err)
	}
	fmt.Printf("Created client %q with ID: %s\n", *name, clientID)

	fullKey, keyHash, lastChars, err := util.GenerateAPIKey(apikey.EnvironmentProduction)
	if err != nil {
		log.Fatalf("Failed to generate API key: %v", err)
	}

	keyID, err := keyRepo.Create(ctx, &apikey.APIKey{
		ClientID:     clientID,
		KeyPrefix:    util.KeyPrefix(fullKey),
		KeyHash:      keyHash,
		KeyLastChars: lastChars,
		Name:         "Bootstrap admin key",
		Description:  "Full-access key created by cmd/createapikey",
		Status:       apikey.StatusActive,
		Scopes:       []apikey.Scope{apikey.ScopeAdminFull},
	})
	if err != nil {
		log.Fatalf("Failed to save API key to database: %v", err)
	}

	fmt.Printf("API key saved with ID: %s\n\n", keyID)
	fmt.Printf("Generated API key (SAVE THIS securely, it will not be shown again!):\n%s\n", fullKey)
}
