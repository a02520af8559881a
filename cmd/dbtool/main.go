package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"dispatch-tour-service/internal/adapters/repositories"
	"dispatch-tour-service/internal/config"
	"dispatch-tour-service/internal/platform/db"
)

// dbtool prepares a Postgres deployment database: schema plus seed orders.
// The server itself runs on SQLite for local use; hosted installs point
// DATABASE_URL here first.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	log.Println("Initializing database schema...")
	if err := initSchemaPG(conn); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	seedPath := config.Get("SEED_PATH", "data/seeds/orders.json")
	log.Println("Seeding database...")
	if err := seedOrdersPG(conn, seedPath); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("Seeding complete.")
}

// Postgres flavor of the SQLite schema in internal/adapters/repositories.
// Same shape, numbered placeholders and upsert syntax differ.
func initSchemaPG(conn *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
			order_id TEXT PRIMARY KEY,
			customer TEXT NOT NULL,
			address TEXT NOT NULL,
			tonnage TEXT NOT NULL,
			delivery_mode TEXT NOT NULL,
			status TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS tours (
			tour_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			tour_date TEXT NOT NULL,
			motor_unit_capacity TEXT NOT NULL,
			trailer_capacity TEXT,
			status TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS stops (
			tour_id TEXT NOT NULL REFERENCES tours(tour_id),
			order_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			tonnage TEXT NOT NULL,
			address TEXT NOT NULL,
			delivery_mode TEXT NOT NULL,
			PRIMARY KEY (tour_id, order_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_stops_order_id ON stops(order_id);`,
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

	return tx.Commit()
}

func seedOrdersPG(conn *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed orders: read %q: %w", jsonPath, err)
	}

	var data []repositories.OrderSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed orders: parse json: %w", err)
	}

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("seed orders: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO orders (order_id, customer, address, tonnage, delivery_mode, status)
	VALUES ($1, $2, $3, $4, $5, 'unplanned')
	ON CONFLICT (order_id) DO UPDATE SET
		customer = EXCLUDED.customer,
		address = EXCLUDED.address,
		tonnage = EXCLUDED.tonnage,
		delivery_mode = EXCLUDED.delivery_mode;
	`
	for _, o := range data {
		if strings.TrimSpace(o.OrderID) == "" {
			return fmt.Errorf("seed orders: order_id cannot be empty")
		}
		if tonnage, err := decimal.NewFromString(o.Tonnage); err != nil || !tonnage.IsPositive() {
			return fmt.Errorf("seed orders: order_id=%s: invalid tonnage %q", o.OrderID, o.Tonnage)
		}
		if _, err := tx.Exec(query, o.OrderID, o.Customer, o.Address, o.Tonnage, o.DeliveryMode); err != nil {
			return fmt.Errorf("seed orders: insert order_id=%s: %w", o.OrderID, err)
		}
	}

	return tx.Commit()
}
