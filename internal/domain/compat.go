package domain

import "fmt"

// Compatibility is the advisory result of pairing an order's delivery mode
// with a tour's vehicle configuration. A non-allowed result carries a reason
// for upstream grouping; a warning flags a placement that works but costs
// effective capacity. Callers surface these, they never silently block on
// them: dispatch is human-in-the-loop and overrides stay possible.
type Compatibility struct {
	Allowed bool
	Warning string
	Reason  string
}

// CheckCompatibility decides whether an order with the given delivery mode
// may be placed on a tour with the given vehicle, and which ceiling governs
// the placement.
func CheckCompatibility(v VehicleConfig, mode DeliveryMode) Compatibility {
	switch mode {
	case ModePickupAtSource:
		// Collected by the customer at the plant; has no delivery address
		// that tour planning could serve.
		return Compatibility{
			Allowed: false,
			Reason:  "pickup-at-source orders are collected by the customer and do not belong on a tour",
		}
	case ModeMotorUnitOnly:
		if v.HasTrailer {
			// The trailer cannot reach a motor-unit-only site, so for this
			// stop only the motor unit's ceiling is usable.
			return Compatibility{
				Allowed: true,
				Warning: fmt.Sprintf(
					"trailer capacity not usable for this stop: effective ceiling is the motor unit's %s t",
					v.MotorUnitCapacity.String(),
				),
			}
		}
		return Compatibility{Allowed: true}
	default:
		return Compatibility{Allowed: true}
	}
}
