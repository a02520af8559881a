package proposer

import (
	"context"

	"dispatch-tour-service/internal/domain"
	"dispatch-tour-service/internal/ports"
)

// StaticTourProposer returns a canned proposal, for tests and for running
// the service without an oracle endpoint. When no proposal is configured it
// falls back to one tour per vehicle, filled greedily in order-list order
// against the vehicle's combined capacity.
type StaticTourProposer struct {
	Proposal *ports.Proposal
}

func NewStaticTourProposer(proposal *ports.Proposal) *StaticTourProposer {
	return &StaticTourProposer{Proposal: proposal}
}

func (p *StaticTourProposer) ProposeTours(
	ctx context.Context,
	orders []*domain.Order,
	vehicles []domain.VehicleConfig,
) (*ports.Proposal, error) {
	if p.Proposal != nil {
		return p.Proposal, nil
	}

	proposal := &ports.Proposal{}
	next := 0
	for _, v := range vehicles {
		if next >= len(orders) {
			break
		}

		pt := ports.ProposedTour{Vehicle: v}
		remaining := v.CombinedCapacity()
		for next < len(orders) && orders[next].Tonnage.LessThanOrEqual(remaining) {
			pt.OrderIDs = append(pt.OrderIDs, orders[next].OrderID)
			remaining = remaining.Sub(orders[next].Tonnage)
			next++
		}
		if len(pt.OrderIDs) > 0 {
			proposal.Tours = append(proposal.Tours, pt)
		}
	}

	return proposal, nil
}
