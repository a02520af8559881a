package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"dispatch-tour-service/internal/domain"
	"dispatch-tour-service/internal/ports"
)

// SQLite-backed implementation of the OrderStore port.
type SqliteOrderStore struct{ DB *sql.DB }

func NewSqliteOrderStore(db *sql.DB) *SqliteOrderStore {
	return &SqliteOrderStore{DB: db}
}

func (s *SqliteOrderStore) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite order store: DB is nil")
	}

	query := `
	SELECT
		order_id,
		customer,
		address,
		tonnage,
		delivery_mode,
		status
	FROM orders
	WHERE order_id = ?;
	`
	order, err := scanOrder(s.DB.QueryRowContext(ctx, query, orderID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", orderID, err)
	}

	return order, nil
}

func (s *SqliteOrderStore) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite order store: DB is nil")
	}

	query := `
	SELECT
		order_id,
		customer,
		address,
		tonnage,
		delivery_mode,
		status
	FROM orders
	ORDER BY order_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list orders: query: %w", err)
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0, 64)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("list orders: scan row: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: row iteration: %w", err)
	}

	return orders, nil
}

func (s *SqliteOrderStore) ReplaceOrder(ctx context.Context, order *domain.Order) error {
	if s.DB == nil {
		return errors.New("sqlite order store: DB is nil")
	}

	query := `
	UPDATE orders SET
		customer = ?,
		address = ?,
		tonnage = ?,
		delivery_mode = ?,
		status = ?
	WHERE order_id = ?;
	`
	res, err := s.DB.ExecContext(ctx, query,
		order.Customer,
		order.Address,
		order.Tonnage.String(),
		string(order.DeliveryMode),
		string(order.Status),
		order.OrderID,
	)
	if err != nil {
		return fmt.Errorf("replace order %s: %w", order.OrderID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ports.ErrNotFound
	}

	return nil
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		order   domain.Order
		tonnage string
		mode    string
		status  string
	)
	if err := row.Scan(&order.OrderID, &order.Customer, &order.Address, &tonnage, &mode, &status); err != nil {
		return nil, err
	}

	var err error
	order.Tonnage, err = decimal.NewFromString(tonnage)
	if err != nil {
		return nil, fmt.Errorf("parse tonnage %q: %w", tonnage, err)
	}
	order.DeliveryMode = domain.DeliveryMode(mode)
	order.Status = domain.PlanningStatus(status)

	return &order, nil
}
