package ports

import (
	"context"

	"dispatch-tour-service/internal/domain"
)

// Port: a boundary for reading Order entities and writing back their
// planning status. Orders are owned by the wider application; this core
// replaces a document only to carry a recomputed status.
type OrderStore interface {
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	ReplaceOrder(ctx context.Context, order *domain.Order) error
}
