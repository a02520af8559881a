package repositories

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"dispatch-tour-service/internal/domain"
	"dispatch-tour-service/internal/ports"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// One connection: an in-memory database exists per connection.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, InitSchema(db))
	return db
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedOrder(t *testing.T, db *sql.DB, orderID, tonnage string) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO orders (order_id, customer, address, tonnage, delivery_mode, status)
		 VALUES (?, 'Kunde', 'Musterweg 1', ?, 'motor_unit_with_trailer', 'unplanned');`,
		orderID, tonnage,
	)
	require.NoError(t, err)
}

func TestTourRoundTripPreservesDecimals(t *testing.T) {
	db := newTestDB(t)
	store := NewSqliteTourStore(db)
	ctx := context.Background()

	tour := &domain.Tour{
		TourID: "T1",
		Name:   "Morning run",
		Date:   time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		Vehicle: domain.VehicleConfig{
			MotorUnitCapacity: dec("14"),
			TrailerCapacity:   dec("10"),
			HasTrailer:        true,
		},
		Status: domain.TourDraft,
	}
	require.NoError(t, store.CreateTour(ctx, tour))

	tour.AppendStop(domain.Stop{
		OrderID:      "O1",
		Tonnage:      dec("0.1"),
		Address:      "Musterweg 1",
		DeliveryMode: domain.ModeBagLoad,
	})
	tour.AppendStop(domain.Stop{
		OrderID:      "O2",
		Tonnage:      dec("7.35"),
		Address:      "Am Kiesweg 3",
		DeliveryMode: domain.ModeMotorUnitTrailer,
	})
	require.NoError(t, store.ReplaceTour(ctx, tour))

	got, err := store.GetTour(ctx, "T1")
	require.NoError(t, err)

	assert.Equal(t, "Morning run", got.Name)
	assert.True(t, got.Vehicle.HasTrailer)
	assert.True(t, got.Vehicle.CombinedCapacity().Equal(dec("24")))
	require.Len(t, got.Stops, 2)

	// Decimal strings round-trip exactly, no float drift.
	assert.Equal(t, "0.1", got.Stops[0].Tonnage.String())
	assert.Equal(t, "7.35", got.Stops[1].Tonnage.String())
	assert.Equal(t, 1, got.Stops[0].Position)
	assert.Equal(t, 2, got.Stops[1].Position)
}

func TestListToursWithOrder(t *testing.T) {
	db := newTestDB(t)
	store := NewSqliteTourStore(db)
	ctx := context.Background()

	for _, id := range []string{"T1", "T2", "T3"} {
		require.NoError(t, store.CreateTour(ctx, &domain.Tour{
			TourID:  id,
			Name:    id,
			Date:    time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			Vehicle: domain.VehicleConfig{MotorUnitCapacity: dec("14")},
			Status:  domain.TourDraft,
		}))
	}

	book := func(tourID string, tonnage string) {
		tour, err := store.GetTour(ctx, tourID)
		require.NoError(t, err)
		tour.AppendStop(domain.Stop{OrderID: "O1", Tonnage: dec(tonnage), Address: "x", DeliveryMode: domain.ModeBagLoad})
		require.NoError(t, store.ReplaceTour(ctx, tour))
	}
	book("T1", "3")
	book("T3", "4.5")

	tours, err := store.ListToursWithOrder(ctx, "O1")
	require.NoError(t, err)
	require.Len(t, tours, 2)

	total := decimal.Zero
	for _, tour := range tours {
		total = total.Add(tour.BookedTonnage("O1"))
	}
	assert.True(t, total.Equal(dec("7.5")))
}

func TestListToursDateFilter(t *testing.T) {
	db := newTestDB(t)
	store := NewSqliteTourStore(db)
	ctx := context.Background()

	day1 := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.CreateTour(ctx, &domain.Tour{
		TourID: "T1", Name: "d1", Date: day1,
		Vehicle: domain.VehicleConfig{MotorUnitCapacity: dec("14")}, Status: domain.TourDraft,
	}))
	require.NoError(t, store.CreateTour(ctx, &domain.Tour{
		TourID: "T2", Name: "d2", Date: day2,
		Vehicle: domain.VehicleConfig{MotorUnitCapacity: dec("14")}, Status: domain.TourDraft,
	}))

	tours, err := store.ListTours(ctx, ports.TourFilter{Date: &day1})
	require.NoError(t, err)
	require.Len(t, tours, 1)
	assert.Equal(t, "T1", tours[0].TourID)
}

func TestDeleteTourRemovesStops(t *testing.T) {
	db := newTestDB(t)
	store := NewSqliteTourStore(db)
	ctx := context.Background()

	tour := &domain.Tour{
		TourID: "T1", Name: "run", Date: time.Now(),
		Vehicle: domain.VehicleConfig{MotorUnitCapacity: dec("14")}, Status: domain.TourDraft,
	}
	require.NoError(t, store.CreateTour(ctx, tour))
	tour.AppendStop(domain.Stop{OrderID: "O1", Tonnage: dec("1"), Address: "x", DeliveryMode: domain.ModeBagLoad})
	require.NoError(t, store.ReplaceTour(ctx, tour))

	require.NoError(t, store.DeleteTour(ctx, "T1"))

	_, err := store.GetTour(ctx, "T1")
	require.ErrorIs(t, err, ports.ErrNotFound)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM stops WHERE tour_id = 'T1';`).Scan(&n))
	assert.Zero(t, n)
}

func TestReplaceMissingTour(t *testing.T) {
	db := newTestDB(t)
	store := NewSqliteTourStore(db)

	err := store.ReplaceTour(context.Background(), &domain.Tour{
		TourID: "missing", Name: "x", Date: time.Now(),
		Vehicle: domain.VehicleConfig{MotorUnitCapacity: dec("14")}, Status: domain.TourDraft,
	})
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestOrderStoreRoundTrip(t *testing.T) {
	db := newTestDB(t)
	store := NewSqliteOrderStore(db)
	ctx := context.Background()

	seedOrder(t, db, "O1", "10.5")

	order, err := store.GetOrder(ctx, "O1")
	require.NoError(t, err)
	assert.Equal(t, "10.5", order.Tonnage.String())
	assert.Equal(t, domain.StatusUnplanned, order.Status)

	order.Status = domain.StatusPlanned
	require.NoError(t, store.ReplaceOrder(ctx, order))

	got, err := store.GetOrder(ctx, "O1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPlanned, got.Status)

	_, err = store.GetOrder(ctx, "missing")
	require.ErrorIs(t, err, ports.ErrNotFound)
}
