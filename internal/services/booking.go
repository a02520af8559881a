package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"dispatch-tour-service/internal/domain"
	"dispatch-tour-service/internal/platform/obs"
	"dispatch-tour-service/internal/ports"
)

// BookingOutcome is what every mutating operation hands back to the caller.
// Warnings are advisory: the write has already succeeded when they are
// reported, and the dispatcher decides what to do about them.
type BookingOutcome struct {
	TourID               string
	OrderID              string
	Load                 domain.LoadSummary
	SourceLoad           *domain.LoadSummary
	OverloadWarning      bool
	CompatibilityWarning string
	OrderStatus          domain.PlanningStatus
}

// BookingEngine is the only component that mutates tour stop lists and the
// only trigger for order status synchronization.
//
// Multi-document operations (Rebook, TeardownTour) are not transactional:
// each tour and order write is an independent document replacement, and a
// concurrent writer between read and write goes undetected. Accepted for
// the single-dispatcher-per-day operating model; callers repair a lagging
// order status by retrying, every operation is safe to re-run.
type BookingEngine struct {
	tours  ports.TourStore
	orders ports.OrderStore
	sync   *StatusSynchronizer
}

func NewBookingEngine(tours ports.TourStore, orders ports.OrderStore) *BookingEngine {
	return &BookingEngine{
		tours:  tours,
		orders: orders,
		sync:   NewStatusSynchronizer(tours, orders),
	}
}

// Book appends a new stop for the order at the tour's next position,
// snapshotting the order's address and delivery mode onto the stop. A second
// Book for the same (tour, order) pair is rejected as a duplicate; resizing
// goes through Resize.
func (e *BookingEngine) Book(ctx context.Context, tourID, orderID string, tonnage decimal.Decimal) (_ *BookingOutcome, err error) {
	defer obs.Time(ctx, "booking.Book")(&err)

	if !tonnage.IsPositive() {
		return nil, ErrInvalidTonnage
	}

	tour, err := e.fetchTour(ctx, tourID)
	if err != nil {
		return nil, err
	}
	order, err := e.fetchOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if _, ok := tour.FindStop(orderID); ok {
		return nil, fmt.Errorf("book order %s on tour %s: %w", orderID, tourID, ErrDuplicateBooking)
	}

	compat := domain.CheckCompatibility(tour.Vehicle, order.DeliveryMode)

	tour.AppendStop(domain.Stop{
		OrderID:      orderID,
		Tonnage:      tonnage,
		Address:      order.Address,
		DeliveryMode: order.DeliveryMode,
	})

	return e.commit(ctx, tour, orderID, compat)
}

// Resize replaces the tonnage of the existing stop for (tour, order). The
// stop's position and every other stop are untouched.
func (e *BookingEngine) Resize(ctx context.Context, tourID, orderID string, newTonnage decimal.Decimal) (_ *BookingOutcome, err error) {
	defer obs.Time(ctx, "booking.Resize")(&err)

	if !newTonnage.IsPositive() {
		return nil, ErrInvalidTonnage
	}

	tour, err := e.fetchTour(ctx, tourID)
	if err != nil {
		return nil, err
	}

	i, ok := tour.FindStop(orderID)
	if !ok {
		return nil, fmt.Errorf("resize order %s on tour %s: %w", orderID, tourID, ErrStopNotFound)
	}

	compat := domain.CheckCompatibility(tour.Vehicle, tour.Stops[i].DeliveryMode)
	tour.Stops[i].Tonnage = newTonnage

	return e.commit(ctx, tour, orderID, compat)
}

// Unbook removes the stop for (tour, order) and renumbers the remaining
// stops densely from 1. Unbooking an absent stop is a no-op, not an error,
// so a retried Unbook is always safe.
func (e *BookingEngine) Unbook(ctx context.Context, tourID, orderID string) (_ *BookingOutcome, err error) {
	defer obs.Time(ctx, "booking.Unbook")(&err)

	tour, err := e.fetchTour(ctx, tourID)
	if err != nil {
		return nil, err
	}

	if !tour.RemoveStop(orderID) {
		load := domain.ComputeLoad(tour)
		status, err := e.sync.SyncOrderStatus(ctx, orderID)
		if err != nil {
			return nil, fmt.Errorf("unbook order %s: sync status: %w", orderID, err)
		}
		return &BookingOutcome{
			TourID:      tourID,
			OrderID:     orderID,
			Load:        load,
			OrderStatus: status,
		}, nil
	}

	return e.commit(ctx, tour, orderID, domain.Compatibility{Allowed: true})
}

// Rebook moves tonnage for an order from a source tour onto a destination
// tour. When the destination already holds a stop for the order the moved
// tonnage is added to it rather than replacing it; that additive merge is
// the defined policy for moving into a partially booked tour. An empty
// sourceTourID degenerates to a fresh booking on the destination only.
func (e *BookingEngine) Rebook(ctx context.Context, sourceTourID, destTourID, orderID string, tonnage decimal.Decimal) (_ *BookingOutcome, err error) {
	defer obs.Time(ctx, "booking.Rebook")(&err)

	if !tonnage.IsPositive() {
		return nil, ErrInvalidTonnage
	}
	if sourceTourID == destTourID && sourceTourID != "" {
		return nil, fmt.Errorf("rebook order %s: source and destination tour are both %s", orderID, sourceTourID)
	}

	dest, err := e.fetchTour(ctx, destTourID)
	if err != nil {
		return nil, err
	}
	order, err := e.fetchOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var source *domain.Tour
	if sourceTourID != "" {
		source, err = e.fetchTour(ctx, sourceTourID)
		if err != nil {
			return nil, err
		}
	}

	compat := domain.CheckCompatibility(dest.Vehicle, order.DeliveryMode)

	if i, ok := dest.FindStop(orderID); ok {
		dest.Stops[i].Tonnage = dest.Stops[i].Tonnage.Add(tonnage)
	} else {
		dest.AppendStop(domain.Stop{
			OrderID:      orderID,
			Tonnage:      tonnage,
			Address:      order.Address,
			DeliveryMode: order.DeliveryMode,
		})
	}

	// Source is written first: if the destination write then fails, the
	// tonnage is released rather than duplicated, and a retry re-adds it.
	var sourceLoad *domain.LoadSummary
	if source != nil {
		source.RemoveStop(orderID)
		if err := e.tours.ReplaceTour(ctx, source); err != nil {
			return nil, fmt.Errorf("rebook order %s: write source tour %s: %w", orderID, sourceTourID, err)
		}
		l := domain.ComputeLoad(source)
		sourceLoad = &l
	}

	outcome, err := e.commit(ctx, dest, orderID, compat)
	if err != nil {
		return nil, err
	}
	outcome.SourceLoad = sourceLoad
	return outcome, nil
}

// TeardownTour releases every booking on the tour, resyncing each affected
// order, and leaves the tour empty. Deleting the tour document afterwards is
// the caller's move; this ordering guarantees no order is ever stranded in
// planned status by a vanished tour.
func (e *BookingEngine) TeardownTour(ctx context.Context, tourID string) (_ []string, err error) {
	defer obs.Time(ctx, "booking.TeardownTour")(&err)

	tour, err := e.fetchTour(ctx, tourID)
	if err != nil {
		return nil, err
	}

	released := make([]string, 0, len(tour.Stops))
	for _, s := range tour.Stops {
		released = append(released, s.OrderID)
	}

	tour.Stops = nil
	if err := e.tours.ReplaceTour(ctx, tour); err != nil {
		return nil, fmt.Errorf("teardown tour %s: write tour: %w", tourID, err)
	}

	for _, orderID := range released {
		if _, err := e.sync.SyncOrderStatus(ctx, orderID); err != nil {
			return nil, fmt.Errorf("teardown tour %s: sync order %s: %w", tourID, orderID, err)
		}
	}

	return released, nil
}

// commit runs the capacity check on the projected tour state, writes the
// tour, and resyncs the touched order's status. Overload never blocks the
// write, it is reported on the outcome.
func (e *BookingEngine) commit(ctx context.Context, tour *domain.Tour, orderID string, compat domain.Compatibility) (*BookingOutcome, error) {
	load := domain.ComputeLoad(tour)

	if err := e.tours.ReplaceTour(ctx, tour); err != nil {
		return nil, fmt.Errorf("write tour %s: %w", tour.TourID, err)
	}

	status, err := e.sync.SyncOrderStatus(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("sync order %s after writing tour %s: %w", orderID, tour.TourID, err)
	}

	warning := compat.Warning
	if !compat.Allowed {
		warning = compat.Reason
	}

	return &BookingOutcome{
		TourID:               tour.TourID,
		OrderID:              orderID,
		Load:                 load,
		OverloadWarning:      load.Overloaded,
		CompatibilityWarning: warning,
		OrderStatus:          status,
	}, nil
}

func (e *BookingEngine) fetchTour(ctx context.Context, tourID string) (*domain.Tour, error) {
	tour, err := e.tours.GetTour(ctx, tourID)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, fmt.Errorf("tour %s: %w", tourID, ErrTourNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch tour %s: %w", tourID, err)
	}
	return tour, nil
}

func (e *BookingEngine) fetchOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := e.orders.GetOrder(ctx, orderID)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, fmt.Errorf("order %s: %w", orderID, ErrOrderNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch order %s: %w", orderID, err)
	}
	return order, nil
}
