package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"github.com/glaubern8n01/rotaspeed-unificado/internal/adapters/cache"
	"github.com/glaubern8n01/rotaspeed-unificado/internal/adapters/events"
	"github.com/glaubern8n01/rotaspeed-unificado/internal/adapters/extractor"
	"github.com/glaubern8n01/rotaspeed-unificado/internal/adapters/identity"
	"github.com/glaubern8n01/rotaspeed-unificado/internal/adapters/optimizer"
	"github.com/glaubern8n01/rotaspeed-unificado/internal/adapters/repositories"
	"github.com/glaubern8n01/rotaspeed-unificado/internal/api"
	"github.com/glaubern8n01/rotaspeed-unificado/internal/config"
	"github.com/glaubern8n01/rotaspeed-unificado/internal/ports"
	"github.com/glaubern8n01/rotaspeed-unificado/internal/session"
)

// main is the application composition root.
// It wires concrete adapters (SQLite, external optimizer/extractor/auth
// services, optional Redis and RabbitMQ) behind ports and starts the HTTP
// server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := config.Get("DB_PATH", "data/app.db")
	port := config.Get("PORT", "8080")

	authURL := os.Getenv("AUTH_URL")
	if strings.TrimSpace(authURL) == "" {
		log.Fatal("AUTH_URL is required")
	}
	proxyURL := os.Getenv("AI_PROXY_URL")
	if strings.TrimSpace(proxyURL) == "" {
		log.Fatal("AI_PROXY_URL is required")
	}
	proxyKey := os.Getenv("AI_PROXY_KEY")

	db, err := openDB(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if err := repositories.InitSchema(db); err != nil {
		log.Fatal(err)
	}
	if seedPath := os.Getenv("SEED_PATH"); seedPath != "" {
		if err := repositories.SeedFromJSON(db, seedPath); err != nil {
			log.Fatal(err)
		}
	}

	packageStore := repositories.NewSqlitePackageStore(db)
	profileStore := repositories.NewSqliteProfileStore(db)

	routeOptimizer, err := optimizer.NewHTTPRouteOptimizer(proxyURL, proxyKey)
	if err != nil {
		log.Fatal(err)
	}
	addressExtractor, err := extractor.NewHTTPAddressExtractor(proxyURL, proxyKey)
	if err != nil {
		log.Fatal(err)
	}
	idp, err := identity.NewHTTPIdentityProvider(authURL, os.Getenv("AUTH_ANON_KEY"))
	if err != nil {
		log.Fatal(err)
	}

	// Optional collaborators: the app degrades to uncached profile reads
	// and dropped events when Redis or RabbitMQ are not configured.
	redisClient := cache.NewRedisClient(
		context.Background(),
		os.Getenv("REDIS_ADDR"),
		os.Getenv("REDIS_PASSWORD"),
		config.GetInt("REDIS_DB", 0),
	)
	if redisClient == nil {
		log.Println("Redis not configured or unreachable, profile cache disabled")
	}
	profileCache := cache.NewRedisProfileCache(redisClient, config.GetDuration("PROFILE_CACHE_TTL", time.Minute))

	var publisher ports.EventPublisher
	if amqpURL := os.Getenv("AMQP_URL"); amqpURL != "" {
		publisher, err = events.NewAMQPPublisher(amqpURL)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		log.Println("AMQP_URL not set, route lifecycle events disabled")
	}

	// The machine writes quota counters through the cache so the
	// reconciler's snapshot reads never see pre-consumption values.
	machineProfiles := cache.NewWriteThroughProfileStore(profileStore, profileCache)

	machine := session.NewMachine(packageStore, machineProfiles, routeOptimizer, publisher)
	reconciler := session.NewReconciler(
		machine,
		profileStore,
		profileCache,
		config.GetDuration("RECONCILE_INTERVAL", 5*time.Minute),
	)

	router := api.NewRouter(machine, idp, addressExtractor, reconciler)

	// Timeouts are tuned for optimizer calls against a cold external API.
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func openDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return db, nil
}
