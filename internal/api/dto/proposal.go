package dto

type ProposalVehicleRequest struct {
	MotorUnitCapacity string `json:"motor_unit_capacity"`
	TrailerCapacity   string `json:"trailer_capacity,omitempty"`
}

type ApplyProposalRequest struct {
	Date     string                   `json:"date"`
	Vehicles []ProposalVehicleRequest `json:"vehicles"`
}

type SkippedOrderResponse struct {
	OrderID string `json:"order_id"`
	Reason  string `json:"reason"`
}

type AppliedTourResponse struct {
	TourID   string                 `json:"tour_id"`
	Name     string                 `json:"name"`
	Bookings []BookingResponse      `json:"bookings"`
	Skipped  []SkippedOrderResponse `json:"skipped,omitempty"`
}

type ApplyProposalResponse struct {
	Tours []AppliedTourResponse `json:"tours"`
}
