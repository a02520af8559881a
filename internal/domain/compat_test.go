package domain

import (
	"strings"
	"testing"
)

func TestCheckCompatibility(t *testing.T) {
	trailer := VehicleConfig{MotorUnitCapacity: dec("14"), TrailerCapacity: dec("10"), HasTrailer: true}
	solo := VehicleConfig{MotorUnitCapacity: dec("14")}

	tests := []struct {
		name        string
		vehicle     VehicleConfig
		mode        DeliveryMode
		wantAllowed bool
		wantWarning bool
	}{
		{"trailer order on trailer tour", trailer, ModeMotorUnitTrailer, true, false},
		{"motor-unit-only on trailer tour", trailer, ModeMotorUnitOnly, true, true},
		{"motor-unit-only on solo tour", solo, ModeMotorUnitOnly, true, false},
		{"crane pallet anywhere", trailer, ModeCranePallet, true, false},
		{"bag load anywhere", solo, ModeBagLoad, true, false},
		{"pickup at source excluded", solo, ModePickupAtSource, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckCompatibility(tt.vehicle, tt.mode)
			if got.Allowed != tt.wantAllowed {
				t.Fatalf("allowed = %v, want %v", got.Allowed, tt.wantAllowed)
			}
			if (got.Warning != "") != tt.wantWarning {
				t.Fatalf("warning = %q, wantWarning=%v", got.Warning, tt.wantWarning)
			}
			if !tt.wantAllowed && got.Reason == "" {
				t.Fatal("non-allowed result must carry a reason")
			}
		})
	}
}

func TestMotorUnitOnlyWarningNamesCeiling(t *testing.T) {
	v := VehicleConfig{MotorUnitCapacity: dec("14"), TrailerCapacity: dec("10"), HasTrailer: true}
	got := CheckCompatibility(v, ModeMotorUnitOnly)
	if !strings.Contains(got.Warning, "14") {
		t.Fatalf("warning should name the motor unit ceiling, got %q", got.Warning)
	}
}
