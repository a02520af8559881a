package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"dispatch-tour-service/internal/domain"
	"dispatch-tour-service/internal/platform/obs"
	"dispatch-tour-service/internal/ports"
)

// StatusSynchronizer derives an order's planning status from the
// authoritative source of truth: the set of stops referencing it across all
// tours. It only ever writes unplanned or planned; the execution statuses
// (loading, in transit, delivered) belong to a separate lifecycle and are
// left alone.
type StatusSynchronizer struct {
	tours  ports.TourStore
	orders ports.OrderStore
}

func NewStatusSynchronizer(tours ports.TourStore, orders ports.OrderStore) *StatusSynchronizer {
	return &StatusSynchronizer{tours: tours, orders: orders}
}

// SyncOrderStatus recomputes and persists the order's planning status.
// Idempotent: re-running it after a partial failure re-derives the same
// status and rewrites at most the same value, so a retry or a periodic
// reconciliation pass repairs a lagging order without side effects.
func (s *StatusSynchronizer) SyncOrderStatus(ctx context.Context, orderID string) (_ domain.PlanningStatus, err error) {
	defer obs.Time(ctx, "status.Sync")(&err)

	order, err := s.orders.GetOrder(ctx, orderID)
	if errors.Is(err, ports.ErrNotFound) {
		return "", fmt.Errorf("order %s: %w", orderID, ErrOrderNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("sync order %s: fetch: %w", orderID, err)
	}

	total, err := s.TotalBookedTonnage(ctx, orderID)
	if err != nil {
		return "", err
	}

	// Over-demand is a soft invariant: tolerated and reported, never
	// "fixed" by mutating bookings behind the dispatcher's back.
	if total.GreaterThan(order.Tonnage) {
		log.Printf("order=%s booked=%s demand=%s msg=booked tonnage exceeds demand", orderID, total, order.Tonnage)
	}

	derived := domain.StatusUnplanned
	if total.IsPositive() {
		derived = domain.StatusPlanned
	}

	if order.Status != domain.StatusUnplanned && order.Status != domain.StatusPlanned {
		// Execution has taken over this order; planning no longer owns the
		// status field.
		return order.Status, nil
	}

	if order.Status == derived {
		return derived, nil
	}

	order.Status = derived
	if err := s.orders.ReplaceOrder(ctx, order); err != nil {
		return "", fmt.Errorf("sync order %s: write status %s: %w", orderID, derived, err)
	}

	return derived, nil
}

// TotalBookedTonnage sums the order's stop tonnage across every tour that
// references it.
func (s *StatusSynchronizer) TotalBookedTonnage(ctx context.Context, orderID string) (decimal.Decimal, error) {
	tours, err := s.tours.ListToursWithOrder(ctx, orderID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sync order %s: list tours: %w", orderID, err)
	}

	total := decimal.Zero
	for _, t := range tours {
		total = total.Add(t.BookedTonnage(orderID))
	}
	return total, nil
}
