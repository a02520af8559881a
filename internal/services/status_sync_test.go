package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch-tour-service/internal/domain"
)

func TestSyncDerivesStatusFromBookings(t *testing.T) {
	env := newTestEnv(t)
	env.addTour(t, "A", "14", "")
	env.addOrder(t, "O1", "10", domain.ModeMotorUnitTrailer)
	sync := NewStatusSynchronizer(env.tours, env.orders)

	status, err := sync.SyncOrderStatus(context.Background(), "O1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUnplanned, status)

	_, err = env.engine.Book(context.Background(), "A", "O1", dec("10"))
	require.NoError(t, err)

	status, err = sync.SyncOrderStatus(context.Background(), "O1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPlanned, status)
}

func TestSyncIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	env.addTour(t, "A", "14", "")
	env.addOrder(t, "O1", "10", domain.ModeMotorUnitTrailer)
	sync := NewStatusSynchronizer(env.tours, env.orders)

	_, err := env.engine.Book(context.Background(), "A", "O1", dec("10"))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		status, err := sync.SyncOrderStatus(context.Background(), "O1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPlanned, status)
	}
}

func TestSyncRepairsContradictingStatus(t *testing.T) {
	env := newTestEnv(t)
	env.addTour(t, "A", "14", "")
	sync := NewStatusSynchronizer(env.tours, env.orders)

	// An order marked planned with no stop anywhere: the next sync run
	// simply overwrites with the derived value.
	env.orders.Put(&domain.Order{
		OrderID:      "O1",
		Address:      "Musterweg 1",
		Tonnage:      dec("10"),
		DeliveryMode: domain.ModeMotorUnitTrailer,
		Status:       domain.StatusPlanned,
	})

	status, err := sync.SyncOrderStatus(context.Background(), "O1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUnplanned, status)
	assert.Equal(t, domain.StatusUnplanned, env.order(t, "O1").Status)
}

func TestSyncLeavesExecutionStatusesAlone(t *testing.T) {
	env := newTestEnv(t)
	env.addTour(t, "A", "14", "")
	sync := NewStatusSynchronizer(env.tours, env.orders)

	env.orders.Put(&domain.Order{
		OrderID:      "O1",
		Address:      "Musterweg 1",
		Tonnage:      dec("10"),
		DeliveryMode: domain.ModeMotorUnitTrailer,
		Status:       domain.StatusInTransit,
	})

	status, err := sync.SyncOrderStatus(context.Background(), "O1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInTransit, status)
}

func TestTotalBookedTonnageSpansTours(t *testing.T) {
	env := newTestEnv(t)
	env.addTour(t, "A", "14", "")
	env.addTour(t, "B", "14", "")
	env.addOrder(t, "O1", "12", domain.ModeMotorUnitTrailer)
	sync := NewStatusSynchronizer(env.tours, env.orders)

	ctx := context.Background()
	_, err := env.engine.Book(ctx, "A", "O1", dec("7.5"))
	require.NoError(t, err)
	_, err = env.engine.Book(ctx, "B", "O1", dec("4.5"))
	require.NoError(t, err)

	total, err := sync.TotalBookedTonnage(ctx, "O1")
	require.NoError(t, err)
	assert.True(t, total.Equal(dec("12")))
}

func TestSyncUnknownOrder(t *testing.T) {
	env := newTestEnv(t)
	sync := NewStatusSynchronizer(env.tours, env.orders)

	_, err := sync.SyncOrderStatus(context.Background(), "missing")
	require.ErrorIs(t, err, ErrOrderNotFound)
}
