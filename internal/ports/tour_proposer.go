package ports

import (
	"context"

	"dispatch-tour-service/internal/domain"
)

// ProposedTour is one tour draft in an oracle proposal: a suggested vehicle
// configuration and the orders it should carry.
type ProposedTour struct {
	Name     string
	Vehicle  domain.VehicleConfig
	OrderIDs []string
}

// Proposal is the route-optimization oracle's suggested grouping of orders
// into tours. It is advice only: the oracle never writes tours or orders
// itself, the booking engine turns accepted proposals into real bookings.
type Proposal struct {
	Tours []ProposedTour
}

// Port: a boundary for the external route-optimization oracle.
type TourProposer interface {
	// ProposeTours suggests a grouping of the given orders onto the given
	// vehicles. The oracle's internal reasoning is a black box.
	ProposeTours(ctx context.Context, orders []*domain.Order, vehicles []domain.VehicleConfig) (*Proposal, error)
}
