package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"dispatch-tour-service/internal/adapters/proposer"
	"dispatch-tour-service/internal/adapters/repositories"
	"dispatch-tour-service/internal/api"
	"dispatch-tour-service/internal/config"
	"dispatch-tour-service/internal/ports"
	"dispatch-tour-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (SQLite, oracle HTTP client) behind ports and
// starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := config.Get("DB_PATH", "data/dispatch.db")
	seedPath := config.Get("SEED_PATH", "data/seeds/orders.json")
	port := config.Get("PORT", "8080")

	db, err := openDB(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Initialize schema and seed demo orders on startup for local runs.
	if err := initAndSeed(db, seedPath); err != nil {
		log.Fatal(err)
	}

	tours := repositories.NewSqliteTourStore(db)
	orders := repositories.NewSqliteOrderStore(db)

	// Without an oracle endpoint the static proposer fills vehicles
	// greedily, which is enough for local planning runs.
	var oracle ports.TourProposer
	if oracleURL := os.Getenv("ORACLE_URL"); strings.TrimSpace(oracleURL) != "" {
		oracle, err = proposer.NewHTTPTourProposer(oracleURL, os.Getenv("ORACLE_API_KEY"))
		if err != nil {
			log.Fatal(err)
		}
	} else {
		log.Println("ORACLE_URL not set, using built-in static proposer")
		oracle = proposer.NewStaticTourProposer(nil)
	}

	engine := services.NewBookingEngine(tours, orders)
	proposals := services.NewProposalService(engine, tours, orders, oracle)
	router := api.NewRouter(tours, orders, engine, proposals)

	// Write timeout covers oracle round-trips on proposal application.
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

func initAndSeed(db *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(db); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if _, err := os.Stat(seedPath); os.IsNotExist(err) {
		log.Printf("seed file %q not found, skipping seed", seedPath)
		return nil
	}

	if err := repositories.SeedFromJSON(db, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
