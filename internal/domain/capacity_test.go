package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeLoadEmptyTour(t *testing.T) {
	tour := &Tour{
		TourID:  "t1",
		Vehicle: VehicleConfig{MotorUnitCapacity: dec("14")},
	}

	load := ComputeLoad(tour)

	if !load.TotalLoaded.IsZero() {
		t.Fatalf("total = %s, want 0", load.TotalLoaded)
	}
	if load.UtilizationPercent != 0 {
		t.Fatalf("utilization = %f, want 0", load.UtilizationPercent)
	}
	if load.Overloaded {
		t.Fatal("empty tour must not be overloaded")
	}
}

func TestComputeLoadUtilization(t *testing.T) {
	tour := &Tour{
		TourID:  "t1",
		Vehicle: VehicleConfig{MotorUnitCapacity: dec("14")},
		Stops: []Stop{
			{OrderID: "o1", Position: 1, Tonnage: dec("10")},
		},
	}

	load := ComputeLoad(tour)

	if !load.TotalLoaded.Equal(dec("10")) {
		t.Fatalf("total = %s, want 10", load.TotalLoaded)
	}
	if load.UtilizationPercent < 71.3 || load.UtilizationPercent > 71.5 {
		t.Fatalf("utilization = %f, want ~71.4", load.UtilizationPercent)
	}
	if load.Overloaded {
		t.Fatal("10t on a 14t tour must not be overloaded")
	}
}

func TestComputeLoadBoundary(t *testing.T) {
	tour := &Tour{
		TourID:  "t1",
		Vehicle: VehicleConfig{MotorUnitCapacity: dec("14"), TrailerCapacity: dec("10"), HasTrailer: true},
		Stops: []Stop{
			{OrderID: "o1", Position: 1, Tonnage: dec("14")},
			{OrderID: "o2", Position: 2, Tonnage: dec("10")},
		},
	}

	load := ComputeLoad(tour)

	// Exactly at combined capacity is valid.
	if load.Overloaded {
		t.Fatal("24t on a 24t tour must not be overloaded")
	}

	tour.Stops[1].Tonnage = dec("10.1")
	load = ComputeLoad(tour)
	if !load.Overloaded {
		t.Fatal("24.1t on a 24t tour must be overloaded")
	}
	if !load.TotalLoaded.Equal(dec("24.1")) {
		t.Fatalf("total = %s, want 24.1", load.TotalLoaded)
	}
}

func TestComputeLoadIsPure(t *testing.T) {
	tour := &Tour{
		TourID:  "t1",
		Vehicle: VehicleConfig{MotorUnitCapacity: dec("14")},
		Stops: []Stop{
			{OrderID: "o1", Position: 1, Tonnage: dec("7.5")},
			{OrderID: "o2", Position: 2, Tonnage: dec("3.2")},
		},
	}

	first := ComputeLoad(tour)
	second := ComputeLoad(tour)

	if !first.TotalLoaded.Equal(second.TotalLoaded) ||
		first.UtilizationPercent != second.UtilizationPercent ||
		first.Overloaded != second.Overloaded {
		t.Fatalf("repeated calls disagree: %+v vs %+v", first, second)
	}
	if len(tour.Stops) != 2 || !tour.Stops[0].Tonnage.Equal(dec("7.5")) {
		t.Fatal("ComputeLoad mutated its input")
	}
}
