package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"dispatch-tour-service/internal/domain"
	"dispatch-tour-service/internal/platform/obs"
	"dispatch-tour-service/internal/ports"
)

// ProposalService turns the route-optimization oracle's output into real
// tours and bookings. The oracle is advice only: every order it groups goes
// through the same Book path a dispatcher uses, so all validation, capacity
// reporting, and status synchronization apply unchanged.
type ProposalService struct {
	engine   *BookingEngine
	tours    ports.TourStore
	orders   ports.OrderStore
	proposer ports.TourProposer
}

func NewProposalService(engine *BookingEngine, tours ports.TourStore, orders ports.OrderStore, proposer ports.TourProposer) *ProposalService {
	return &ProposalService{engine: engine, tours: tours, orders: orders, proposer: proposer}
}

// AppliedTour reports one accepted proposal tour and the outcome of each
// booking made onto it.
type AppliedTour struct {
	TourID   string
	Name     string
	Outcomes []*BookingOutcome
	Skipped  []SkippedOrder
}

// SkippedOrder names an order the proposal wanted booked but the intake
// refused, with the reason.
type SkippedOrder struct {
	OrderID string
	Reason  string
}

// ApplyProposal asks the oracle to group the currently unplanned orders onto
// the given vehicles, creates a draft tour per proposed group, and books each
// order for its full demand. Orders the compatibility check excludes
// (pickup-at-source) are skipped with the check's reason rather than failing
// the whole proposal.
func (s *ProposalService) ApplyProposal(ctx context.Context, date time.Time, vehicles []domain.VehicleConfig) (_ []AppliedTour, err error) {
	defer obs.Time(ctx, "proposal.Apply")(&err)

	all, err := s.orders.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("apply proposal: list orders: %w", err)
	}

	byID := make(map[string]*domain.Order, len(all))
	candidates := make([]*domain.Order, 0, len(all))
	for _, o := range all {
		byID[o.OrderID] = o
		if o.Status == domain.StatusUnplanned && o.Dispatchable() {
			candidates = append(candidates, o)
		}
	}
	if len(candidates) == 0 {
		return []AppliedTour{}, nil
	}

	proposal, err := s.proposer.ProposeTours(ctx, candidates, vehicles)
	if err != nil {
		return nil, fmt.Errorf("apply proposal: oracle: %w", err)
	}

	applied := make([]AppliedTour, 0, len(proposal.Tours))
	for i, pt := range proposal.Tours {
		name := pt.Name
		if name == "" {
			name = fmt.Sprintf("Tour %d (%s)", i+1, date.Format("2006-01-02"))
		}

		tour := &domain.Tour{
			TourID:  uuid.NewString(),
			Name:    name,
			Date:    date,
			Vehicle: pt.Vehicle,
			Status:  domain.TourDraft,
		}
		if err := s.tours.CreateTour(ctx, tour); err != nil {
			return applied, fmt.Errorf("apply proposal: create tour %q: %w", name, err)
		}

		at := AppliedTour{TourID: tour.TourID, Name: name}
		for _, orderID := range pt.OrderIDs {
			order, ok := byID[orderID]
			if !ok {
				at.Skipped = append(at.Skipped, SkippedOrder{OrderID: orderID, Reason: "unknown order"})
				continue
			}
			if compat := domain.CheckCompatibility(pt.Vehicle, order.DeliveryMode); !compat.Allowed {
				at.Skipped = append(at.Skipped, SkippedOrder{OrderID: orderID, Reason: compat.Reason})
				continue
			}

			outcome, err := s.engine.Book(ctx, tour.TourID, orderID, order.Tonnage)
			if err != nil {
				// One refused booking should not throw away the rest of an
				// otherwise good grouping.
				log.Printf("tour=%s order=%s msg=proposal booking skipped err=%v", tour.TourID, orderID, err)
				at.Skipped = append(at.Skipped, SkippedOrder{OrderID: orderID, Reason: err.Error()})
				continue
			}
			at.Outcomes = append(at.Outcomes, outcome)
		}
		applied = append(applied, at)
	}

	return applied, nil
}
