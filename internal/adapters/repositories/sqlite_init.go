package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Initialize the database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createEntregasQuery := `
	CREATE TABLE IF NOT EXISTS entregas (
		id TEXT PRIMARY KEY,
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
		created_at TEXT NOT NULL
	);
	`

	createUsersQuery := `
	CREATE TABLE IF NOT EXISTS usuarios_rotaspeed (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		nome TEXT,
		plano_nome TEXT NOT NULL DEFAULT 'Grátis',
		entregas_dia_max INTEGER NOT NULL DEFAULT 10,
		entregas_hoje INTEGER NOT NULL DEFAULT 0,
		entregas_gratis_utilizadas INTEGER NOT NULL DEFAULT 0,
		plano_ativo INTEGER NOT NULL DEFAULT 1,
		saldo_creditos INTEGER NOT NULL DEFAULT 0,
		driver_name TEXT,
		driver_phone TEXT,
		navigation_preference TEXT,
		notification_sender_preference TEXT,
		updated_at TEXT NOT NULL
	);
	`

	createOwnerIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_entregas_user_status
	ON entregas(user_id, status);
	`

	createRouteIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_entregas_route
	ON entregas(route_id, optimized_order);
	`

	statements := []string{
		createEntregasQuery,
		createUsersQuery,
		createOwnerIndexQuery,
		createRouteIndexQuery,
	}

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

type PackageSeed struct {
	OwnerID     string `json:"owner_id"`
	FullAddress string `json:"full_address"`
	City        string `json:"city"`
	Status      string `json:"status"`
}

// Populate the database with package data from a JSON file for local runs.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed packages: read %q: %w", jsonPath, err)
	}

	var data []PackageSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed packages: parse json: %w", err)
	}

	rows := make([]PackageSeed, 0, len(data))
	for i, item := range data {
		if strings.TrimSpace(item.OwnerID) == "" {
			return fmt.Errorf("seed packages: item at index %d: owner_id cannot be empty", i+1)
		}

		addr := strings.TrimSpace(item.FullAddress)
		if addr == "" {
			return fmt.Errorf("seed packages: item at index %d: full_address cannot be empty", i+1)
		}

		status := item.Status
		if status == "" {
			status = "pendente"
		}
		rows = append(rows, PackageSeed{
			OwnerID:     item.OwnerID,
			FullAddress: addr,
			City:        item.City,
			Status:      status,
		})
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed packages: begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT OR IGNORE INTO entregas (
		id,
		user_id,
		status,
		full_address,
		city,
		created_at
	)
	VALUES (?, ?, ?, ?, ?, ?);
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed packages: prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, p := range rows {
		if _, err := stmt.Exec(uuid.NewString(), p.OwnerID, p.Status, p.FullAddress, p.City, now); err != nil {
			return fmt.Errorf("seed packages: insert owner=%s: %w", p.OwnerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed packages: commit tx: %w", err)
	}

	return nil
}
