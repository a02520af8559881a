package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"dispatch-tour-service/internal/domain"
	"dispatch-tour-service/internal/ports"
)

// SQLite-backed implementation of the TourStore port. A tour document is a
// tours row plus its stops rows; ReplaceTour rewrites both inside one
// transaction so per-document atomicity holds.
type SqliteTourStore struct{ DB *sql.DB }

func NewSqliteTourStore(db *sql.DB) *SqliteTourStore {
	return &SqliteTourStore{DB: db}
}

const dateLayout = "2006-01-02"

func (s *SqliteTourStore) GetTour(ctx context.Context, tourID string) (*domain.Tour, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite tour store: DB is nil")
	}

	query := `
	SELECT
		tour_id,
		name,
		tour_date,
		motor_unit_capacity,
		trailer_capacity,
		status
	FROM tours
	WHERE tour_id = ?;
	`
	row := s.DB.QueryRowContext(ctx, query, tourID)

	tour, err := scanTour(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get tour %s: %w", tourID, err)
	}

	if err := s.loadStops(ctx, tour); err != nil {
		return nil, fmt.Errorf("get tour %s: %w", tourID, err)
	}

	return tour, nil
}

func (s *SqliteTourStore) ListTours(ctx context.Context, filter ports.TourFilter) ([]*domain.Tour, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite tour store: DB is nil")
	}

	query := `
	SELECT
		tour_id,
		name,
		tour_date,
		motor_unit_capacity,
		trailer_capacity,
		status
	FROM tours
	`
	var (
		clauses []string
		args    []any
	)
	if filter.Date != nil {
		clauses = append(clauses, "tour_date = ?")
		args = append(args, filter.Date.Format(dateLayout))
	}
	if len(filter.TourIDs) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(filter.TourIDs)), ", ")
		clauses = append(clauses, "tour_id IN ("+placeholders+")")
		for _, id := range filter.TourIDs {
			args = append(args, id)
		}
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY tour_date, name;"

	return s.queryTours(ctx, query, args...)
}

func (s *SqliteTourStore) ListToursWithOrder(ctx context.Context, orderID string) ([]*domain.Tour, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite tour store: DB is nil")
	}

	query := `
	SELECT
		t.tour_id,
		t.name,
		t.tour_date,
		t.motor_unit_capacity,
		t.trailer_capacity,
		t.status
	FROM tours t
	JOIN stops st ON st.tour_id = t.tour_id
	WHERE st.order_id = ?
	ORDER BY t.tour_id;
	`
	return s.queryTours(ctx, query, orderID)
}

func (s *SqliteTourStore) CreateTour(ctx context.Context, tour *domain.Tour) error {
	if s.DB == nil {
		return errors.New("sqlite tour store: DB is nil")
	}

	query := `
	INSERT INTO tours (
		tour_id,
		name,
		tour_date,
		motor_unit_capacity,
		trailer_capacity,
		status
	)
	VALUES (?, ?, ?, ?, ?, ?);
	`
	_, err := s.DB.ExecContext(ctx, query,
		tour.TourID,
		tour.Name,
		tour.Date.Format(dateLayout),
		tour.Vehicle.MotorUnitCapacity.String(),
		trailerCapacityValue(tour.Vehicle),
		string(tour.Status),
	)
	if err != nil {
		return fmt.Errorf("create tour %s: %w", tour.TourID, err)
	}

	if len(tour.Stops) > 0 {
		return s.ReplaceTour(ctx, tour)
	}
	return nil
}

func (s *SqliteTourStore) ReplaceTour(ctx context.Context, tour *domain.Tour) error {
	if s.DB == nil {
		return errors.New("sqlite tour store: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace tour %s: begin tx: %w", tour.TourID, err)
	}
	defer func() { _ = tx.Rollback() }()

	updateQuery := `
	UPDATE tours SET
		name = ?,
		tour_date = ?,
		motor_unit_capacity = ?,
		trailer_capacity = ?,
		status = ?
	WHERE tour_id = ?;
	`
	res, err := tx.ExecContext(ctx, updateQuery,
		tour.Name,
		tour.Date.Format(dateLayout),
		tour.Vehicle.MotorUnitCapacity.String(),
		trailerCapacityValue(tour.Vehicle),
		string(tour.Status),
		tour.TourID,
	)
	if err != nil {
		return fmt.Errorf("replace tour %s: update: %w", tour.TourID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ports.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM stops WHERE tour_id = ?;`, tour.TourID); err != nil {
		return fmt.Errorf("replace tour %s: clear stops: %w", tour.TourID, err)
	}

	insertQuery := `
	INSERT INTO stops (
		tour_id,
		order_id,
		position,
		tonnage,
		address,
		delivery_mode
	)
	VALUES (?, ?, ?, ?, ?, ?);
	`
	stmt, err := tx.PrepareContext(ctx, insertQuery)
	if err != nil {
		return fmt.Errorf("replace tour %s: prepare stop insert: %w", tour.TourID, err)
	}
	defer stmt.Close()

	for _, st := range tour.Stops {
		_, err := stmt.ExecContext(ctx,
			tour.TourID,
			st.OrderID,
			st.Position,
			st.Tonnage.String(),
			st.Address,
			string(st.DeliveryMode),
		)
		if err != nil {
			return fmt.Errorf("replace tour %s: insert stop order_id=%s: %w", tour.TourID, st.OrderID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace tour %s: commit tx: %w", tour.TourID, err)
	}

	return nil
}

func (s *SqliteTourStore) DeleteTour(ctx context.Context, tourID string) error {
	if s.DB == nil {
		return errors.New("sqlite tour store: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete tour %s: begin tx: %w", tourID, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM stops WHERE tour_id = ?;`, tourID); err != nil {
		return fmt.Errorf("delete tour %s: clear stops: %w", tourID, err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM tours WHERE tour_id = ?;`, tourID)
	if err != nil {
		return fmt.Errorf("delete tour %s: %w", tourID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ports.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete tour %s: commit tx: %w", tourID, err)
	}

	return nil
}

func (s *SqliteTourStore) queryTours(ctx context.Context, query string, args ...any) ([]*domain.Tour, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tours: query: %w", err)
	}
	defer rows.Close()

	tours := make([]*domain.Tour, 0, 16)
	for rows.Next() {
		tour, err := scanTour(rows)
		if err != nil {
			return nil, fmt.Errorf("list tours: scan row: %w", err)
		}
		tours = append(tours, tour)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tours: row iteration: %w", err)
	}

	for _, tour := range tours {
		if err := s.loadStops(ctx, tour); err != nil {
			return nil, fmt.Errorf("list tours: tour %s: %w", tour.TourID, err)
		}
	}

	return tours, nil
}

func (s *SqliteTourStore) loadStops(ctx context.Context, tour *domain.Tour) error {
	query := `
	SELECT
		order_id,
		position,
		tonnage,
		address,
		delivery_mode
	FROM stops
	WHERE tour_id = ?
	ORDER BY position;
	`
	rows, err := s.DB.QueryContext(ctx, query, tour.TourID)
	if err != nil {
		return fmt.Errorf("load stops: query: %w", err)
	}
	defer rows.Close()

	stops := make([]domain.Stop, 0, 8)
	for rows.Next() {
		var (
			st      domain.Stop
			tonnage string
			mode    string
		)
		if err := rows.Scan(&st.OrderID, &st.Position, &tonnage, &st.Address, &mode); err != nil {
			return fmt.Errorf("load stops: scan row: %w", err)
		}
		st.Tonnage, err = decimal.NewFromString(tonnage)
		if err != nil {
			return fmt.Errorf("load stops: order_id=%s: parse tonnage %q: %w", st.OrderID, tonnage, err)
		}
		st.DeliveryMode = domain.DeliveryMode(mode)
		stops = append(stops, st)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load stops: row iteration: %w", err)
	}

	tour.Stops = stops
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTour(row rowScanner) (*domain.Tour, error) {
	var (
		tour     domain.Tour
		date     string
		unitCap  string
		trailCap sql.NullString
		status   string
	)
	if err := row.Scan(&tour.TourID, &tour.Name, &date, &unitCap, &trailCap, &status); err != nil {
		return nil, err
	}

	parsed, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("parse tour_date %q: %w", date, err)
	}
	tour.Date = parsed

	tour.Vehicle.MotorUnitCapacity, err = decimal.NewFromString(unitCap)
	if err != nil {
		return nil, fmt.Errorf("parse motor_unit_capacity %q: %w", unitCap, err)
	}
	if trailCap.Valid {
		tour.Vehicle.TrailerCapacity, err = decimal.NewFromString(trailCap.String)
		if err != nil {
			return nil, fmt.Errorf("parse trailer_capacity %q: %w", trailCap.String, err)
		}
		tour.Vehicle.HasTrailer = true
	}
	tour.Status = domain.TourStatus(status)

	return &tour, nil
}

func trailerCapacityValue(v domain.VehicleConfig) any {
	if !v.HasTrailer {
		return nil
	}
	return v.TrailerCapacity.String()
}
