package domain

import (
	"testing"
)

func TestAppendStopAssignsPositions(t *testing.T) {
	tour := &Tour{TourID: "t1"}

	tour.AppendStop(Stop{OrderID: "o1", Tonnage: dec("5")})
	tour.AppendStop(Stop{OrderID: "o2", Tonnage: dec("3")})
	tour.AppendStop(Stop{OrderID: "o3", Tonnage: dec("2")})

	for i, s := range tour.Stops {
		if s.Position != i+1 {
			t.Fatalf("stop %d position = %d, want %d", i, s.Position, i+1)
		}
	}
}

func TestRemoveStopRenumbers(t *testing.T) {
	tour := &Tour{TourID: "t1"}
	tour.AppendStop(Stop{OrderID: "o1", Tonnage: dec("5")})
	tour.AppendStop(Stop{OrderID: "o2", Tonnage: dec("3")})
	tour.AppendStop(Stop{OrderID: "o3", Tonnage: dec("2")})

	if !tour.RemoveStop("o2") {
		t.Fatal("expected RemoveStop to report removal")
	}

	if len(tour.Stops) != 2 {
		t.Fatalf("len(stops) = %d, want 2", len(tour.Stops))
	}
	// Relative order preserved, positions dense from 1.
	if tour.Stops[0].OrderID != "o1" || tour.Stops[0].Position != 1 {
		t.Fatalf("first stop = %+v", tour.Stops[0])
	}
	if tour.Stops[1].OrderID != "o3" || tour.Stops[1].Position != 2 {
		t.Fatalf("second stop = %+v", tour.Stops[1])
	}
}

func TestRemoveStopAbsentIsNoop(t *testing.T) {
	tour := &Tour{TourID: "t1"}
	tour.AppendStop(Stop{OrderID: "o1", Tonnage: dec("5")})

	if tour.RemoveStop("missing") {
		t.Fatal("removing an absent stop must report false")
	}
	if len(tour.Stops) != 1 || tour.Stops[0].Position != 1 {
		t.Fatalf("stops changed: %+v", tour.Stops)
	}
}

func TestBookedTonnage(t *testing.T) {
	tour := &Tour{TourID: "t1"}
	tour.AppendStop(Stop{OrderID: "o1", Tonnage: dec("4.5")})

	if got := tour.BookedTonnage("o1"); !got.Equal(dec("4.5")) {
		t.Fatalf("booked = %s, want 4.5", got)
	}
	if got := tour.BookedTonnage("o2"); !got.IsZero() {
		t.Fatalf("booked for absent order = %s, want 0", got)
	}
}

func TestCombinedCapacity(t *testing.T) {
	noTrailer := VehicleConfig{MotorUnitCapacity: dec("14")}
	if got := noTrailer.CombinedCapacity(); !got.Equal(dec("14")) {
		t.Fatalf("combined = %s, want 14", got)
	}

	withTrailer := VehicleConfig{MotorUnitCapacity: dec("14"), TrailerCapacity: dec("10"), HasTrailer: true}
	if got := withTrailer.CombinedCapacity(); !got.Equal(dec("24")) {
		t.Fatalf("combined = %s, want 24", got)
	}
}
