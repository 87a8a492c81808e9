// Command dbtool provisions the hosted Postgres database: it creates the
// entregas and usuarios_rotaspeed tables and optionally seeds demo packages
// from a JSON file. The API server itself runs on SQLite; this tool targets
// the shared cloud instance the mobile clients sync against.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/glaubern8n01/rotaspeed-unificado/internal/adapters/repositories"
	"github.com/glaubern8n01/rotaspeed-unificado/internal/config"
	"github.com/glaubern8n01/rotaspeed-unificado/internal/platform/db"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(context.Background(), databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	log.Println("Initializing database schema...")
	if err := initSchema(conn); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	seedPath := config.Get("SEED_PATH", "data/seeds/packages.json")
	if _, err := os.Stat(seedPath); err != nil {
		log.Printf("No seed file at %s, skipping seed.", seedPath)
		return
	}

	log.Println("Seeding database...")
	if err := seedFromJSON(conn, seedPath); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("Seeding complete.")
}

func initSchema(conn *sql.DB) error {
	statements := []string{
		`
		CREATE TABLE IF NOT EXISTS entregas (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pendente',
			full_address TEXT NOT NULL,
			street TEXT,
			number TEXT,
			bairro TEXT,
			complemento TEXT,
			cep TEXT,
			city TEXT,
			state TEXT,
			recipient_name TEXT,
			telefone TEXT,
			original_input TEXT,
			input_type TEXT,
			optimized_order INTEGER,
			route_id TEXT,
			delivery_notes TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS usuarios_rotaspeed (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL,
			nome TEXT,
			plano_nome TEXT NOT NULL DEFAULT 'Grátis',
			entregas_dia_max INTEGER NOT NULL DEFAULT 10,
			entregas_hoje INTEGER NOT NULL DEFAULT 0,
			entregas_gratis_utilizadas INTEGER NOT NULL DEFAULT 0,
			plano_ativo BOOLEAN NOT NULL DEFAULT TRUE,
			saldo_creditos INTEGER NOT NULL DEFAULT 0,
			driver_name TEXT,
			driver_phone TEXT,
			navigation_preference TEXT,
			notification_sender_preference TEXT,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		`,
		`
		CREATE INDEX IF NOT EXISTS idx_entregas_user_status
		ON entregas(user_id, status);
		`,
		`
		CREATE INDEX IF NOT EXISTS idx_entregas_route
		ON entregas(route_id, optimized_order);
		`,
	}

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}
	return nil
}

func seedFromJSON(conn *sql.DB, jsonPath string) error {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed packages: read %q: %w", jsonPath, err)
	}

	var data []repositories.PackageSeed
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("seed packages: parse json: %w", err)
	}

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("seed packages: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
	INSERT INTO entregas (id, user_id, status, full_address, city, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (id) DO NOTHING;
	`)
	if err != nil {
		return fmt.Errorf("seed packages: prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i, p := range data {
		if strings.TrimSpace(p.OwnerID) == "" {
			return fmt.Errorf("seed packages: item at index %d: owner_id cannot be empty", i+1)
		}
		addr := strings.TrimSpace(p.FullAddress)
		if addr == "" {
			return fmt.Errorf("seed packages: item at index %d: full_address cannot be empty", i+1)
		}
		status := p.Status
		if status == "" {
			status = "pendente"
		}

		if _, err := stmt.Exec(uuid.NewString(), p.OwnerID, status, addr, p.City, now); err != nil {
			return fmt.Errorf("seed packages: insert owner=%s: %w", p.OwnerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed packages: commit tx: %w", err)
	}
	return nil
}
