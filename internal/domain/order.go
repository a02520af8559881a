package domain

import "github.com/shopspring/decimal"

// DeliveryMode restricts which vehicle configurations may serve an order,
// e.g. a site whose access road only admits the motor unit.
type DeliveryMode string

const (
	ModeMotorUnitOnly    DeliveryMode = "motor_unit_only"
	ModeMotorUnitTrailer DeliveryMode = "motor_unit_with_trailer"
	ModePickupAtSource   DeliveryMode = "pickup_at_source"
	ModeCranePallet      DeliveryMode = "crane_pallet"
	ModeBagLoad          DeliveryMode = "bag_load"
)

// PlanningStatus tracks an order through dispatch. The booking engine only
// ever writes Unplanned and Planned; the later statuses belong to the
// execution lifecycle and are set elsewhere.
type PlanningStatus string

const (
	StatusUnplanned PlanningStatus = "unplanned"
	StatusPlanned   PlanningStatus = "planned"
	StatusLoading   PlanningStatus = "loading"
	StatusInTransit PlanningStatus = "in_transit"
	StatusDelivered PlanningStatus = "delivered"
)

// Order is a customer's delivery request. The wider application owns most of
// its fields; this core reads the demand and delivery mode and writes only
// the planning status.
type Order struct {
	OrderID      string
	Customer     string
	Address      string
	Tonnage      decimal.Decimal
	DeliveryMode DeliveryMode
	Status       PlanningStatus
}

// Dispatchable reports whether the order belongs on a tour at all.
// Pickup-at-source orders are collected by the customer and never routed.
func (o *Order) Dispatchable() bool {
	return o.DeliveryMode != ModePickupAtSource
}
