package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
)

// Initialize the SQLite database schema.
//
// Tonnage and capacity columns are TEXT on purpose: decimal quantities must
// round-trip exactly through persistence, and REAL would silently lose
// precision on values like 0.1.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createOrdersQuery := `
	CREATE TABLE IF NOT EXISTS orders (
		order_id TEXT PRIMARY KEY,
		customer TEXT NOT NULL,
		address TEXT NOT NULL,
		tonnage TEXT NOT NULL,
		delivery_mode TEXT NOT NULL,
		status TEXT NOT NULL
	);
	`

	createToursQuery := `
	CREATE TABLE IF NOT EXISTS tours (
		tour_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		tour_date TEXT NOT NULL,
		motor_unit_capacity TEXT NOT NULL,
		trailer_capacity TEXT,
		status TEXT NOT NULL
	);
	`

	createStopsQuery := `
	CREATE TABLE IF NOT EXISTS stops (
		tour_id TEXT NOT NULL REFERENCES tours(tour_id),
		order_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		tonnage TEXT NOT NULL,
		address TEXT NOT NULL,
		delivery_mode TEXT NOT NULL,
		PRIMARY KEY (tour_id, order_id)
	);
	`

	// The status synchronizer scans by order across all tours.
	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_stops_order_id
	ON stops(order_id);
	`

	statements := []string{
		createOrdersQuery,
		createToursQuery,
		createStopsQuery,
		createIndexQuery,
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

type OrderSeed struct {
	OrderID      string `json:"order_id"`
	Customer     string `json:"customer"`
	Address      string `json:"address"`
	Tonnage      string `json:"tonnage"`
	DeliveryMode string `json:"delivery_mode"`
}

// Populate the orders table from a JSON seed file. Seeded orders start
// unplanned; bookings make them planned.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed orders: read %q: %w", jsonPath, err)
	}

	var data []OrderSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed orders: parse json: %w", err)
	}

	rows := make([]OrderSeed, 0, len(data))
	for i, item := range data {
		if strings.TrimSpace(item.OrderID) == "" {
			return fmt.Errorf("seed orders: item at index %d: order_id cannot be empty", i+1)
		}
		if strings.TrimSpace(item.Address) == "" {
			return fmt.Errorf("seed orders: order_id=%s: address cannot be empty", item.OrderID)
		}

		tonnage, err := decimal.NewFromString(item.Tonnage)
		if err != nil || !tonnage.IsPositive() {
			return fmt.Errorf("seed orders: order_id=%s: invalid tonnage %q", item.OrderID, item.Tonnage)
		}
		rows = append(rows, item)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed orders: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT OR REPLACE INTO orders (
		order_id,
		customer,
		address,
		tonnage,
		delivery_mode,
		status
	)
	VALUES (?, ?, ?, ?, ?, 'unplanned');
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed orders: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, o := range rows {
		if _, err := stmt.Exec(o.OrderID, o.Customer, o.Address, o.Tonnage, o.DeliveryMode); err != nil {
			return fmt.Errorf("seed orders: insert order_id=%s: %w", o.OrderID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed orders: commit tx: %w", err)
	}

	return nil
}
