package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch-tour-service/internal/adapters/proposer"
	"dispatch-tour-service/internal/domain"
	"dispatch-tour-service/internal/ports"
)

func TestApplyProposalBooksThroughEngine(t *testing.T) {
	env := newTestEnv(t)
	env.addOrder(t, "O1", "10", domain.ModeMotorUnitTrailer)
	env.addOrder(t, "O2", "5.5", domain.ModeMotorUnitOnly)

	vehicle := domain.VehicleConfig{
		MotorUnitCapacity: dec("14"),
		TrailerCapacity:   dec("10"),
		HasTrailer:        true,
	}
	oracle := proposer.NewStaticTourProposer(&ports.Proposal{
		Tours: []ports.ProposedTour{
			{Name: "North run", Vehicle: vehicle, OrderIDs: []string{"O1", "O2"}},
		},
	})

	svc := NewProposalService(env.engine, env.tours, env.orders, oracle)
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	applied, err := svc.ApplyProposal(context.Background(), date, []domain.VehicleConfig{vehicle})
	require.NoError(t, err)
	require.Len(t, applied, 1)
	require.Len(t, applied[0].Outcomes, 2)

	tour := env.tour(t, applied[0].TourID)
	assert.Equal(t, "North run", tour.Name)
	assert.Equal(t, domain.TourDraft, tour.Status)
	require.Len(t, tour.Stops, 2)
	assert.True(t, tour.BookedTonnage("O1").Equal(dec("10")), "orders book their full demand")

	// The motor-unit-only order carried its compatibility warning through.
	assert.Contains(t, applied[0].Outcomes[1].CompatibilityWarning, "trailer capacity")
	assert.Equal(t, domain.StatusPlanned, env.order(t, "O1").Status)
	assert.Equal(t, domain.StatusPlanned, env.order(t, "O2").Status)
}

func TestApplyProposalSkipsExcludedOrders(t *testing.T) {
	env := newTestEnv(t)
	env.addOrder(t, "O1", "10", domain.ModeMotorUnitTrailer)
	env.addOrder(t, "PICKUP", "2", domain.ModePickupAtSource)

	vehicle := domain.VehicleConfig{MotorUnitCapacity: dec("14")}
	oracle := proposer.NewStaticTourProposer(&ports.Proposal{
		Tours: []ports.ProposedTour{
			{Vehicle: vehicle, OrderIDs: []string{"O1", "PICKUP", "unknown"}},
		},
	})

	svc := NewProposalService(env.engine, env.tours, env.orders, oracle)
	applied, err := svc.ApplyProposal(context.Background(), time.Now(), []domain.VehicleConfig{vehicle})
	require.NoError(t, err)
	require.Len(t, applied, 1)

	require.Len(t, applied[0].Outcomes, 1)
	assert.Equal(t, "O1", applied[0].Outcomes[0].OrderID)
	require.Len(t, applied[0].Skipped, 2)

	// Pickup orders never land on a tour and keep their status.
	assert.Equal(t, domain.StatusUnplanned, env.order(t, "PICKUP").Status)
}

func TestApplyProposalNoCandidates(t *testing.T) {
	env := newTestEnv(t)

	// Already planned orders are not re-proposed.
	env.orders.Put(&domain.Order{
		OrderID:      "O1",
		Address:      "Musterweg 1",
		Tonnage:      dec("10"),
		DeliveryMode: domain.ModeMotorUnitTrailer,
		Status:       domain.StatusPlanned,
	})

	oracle := proposer.NewStaticTourProposer(nil)
	svc := NewProposalService(env.engine, env.tours, env.orders, oracle)

	applied, err := svc.ApplyProposal(context.Background(), time.Now(), []domain.VehicleConfig{
		{MotorUnitCapacity: dec("14")},
	})
	require.NoError(t, err)
	assert.Empty(t, applied)
}

func TestStaticProposerGreedyFallback(t *testing.T) {
	oracle := proposer.NewStaticTourProposer(nil)
	vehicle := domain.VehicleConfig{MotorUnitCapacity: dec("14")}

	orders := []*domain.Order{
		{OrderID: "O1", Tonnage: dec("10"), DeliveryMode: domain.ModeMotorUnitTrailer},
		{OrderID: "O2", Tonnage: dec("4"), DeliveryMode: domain.ModeBagLoad},
		{OrderID: "O3", Tonnage: dec("9"), DeliveryMode: domain.ModeCranePallet},
	}

	proposal, err := oracle.ProposeTours(context.Background(), orders, []domain.VehicleConfig{vehicle, vehicle})
	require.NoError(t, err)
	require.Len(t, proposal.Tours, 2)
	assert.Equal(t, []string{"O1", "O2"}, proposal.Tours[0].OrderIDs)
	assert.Equal(t, []string{"O3"}, proposal.Tours[1].OrderIDs)
}
