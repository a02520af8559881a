package dto

// Tonnage and capacity fields travel as decimal strings so quantities like
// "0.1" survive the wire exactly.

type CreateTourRequest struct {
	Name              string `json:"name"`
	Date              string `json:"date"`
	MotorUnitCapacity string `json:"motor_unit_capacity"`
	TrailerCapacity   string `json:"trailer_capacity,omitempty"`
}

type StopResponse struct {
	OrderID      string `json:"order_id"`
	Position     int    `json:"position"`
	Tonnage      string `json:"tonnage"`
	Address      string `json:"address"`
	DeliveryMode string `json:"delivery_mode"`
}

type LoadResponse struct {
	TotalLoaded        string  `json:"total_loaded"`
	UtilizationPercent float64 `json:"utilization_percent"`
	Overloaded         bool    `json:"overloaded"`
}

type TourResponse struct {
	TourID            string         `json:"tour_id"`
	Name              string         `json:"name"`
	Date              string         `json:"date"`
	MotorUnitCapacity string         `json:"motor_unit_capacity"`
	TrailerCapacity   string         `json:"trailer_capacity,omitempty"`
	Status            string         `json:"status"`
	Stops             []StopResponse `json:"stops"`
	Load              LoadResponse   `json:"load"`
}

type ListToursResponse struct {
	Tours []TourResponse `json:"tours"`
}

type TeardownResponse struct {
	TourID         string   `json:"tour_id"`
	ReleasedOrders []string `json:"released_orders"`
}
