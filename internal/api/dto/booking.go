package dto

type BookingRequest struct {
	TourID  string `json:"tour_id"`
	OrderID string `json:"order_id"`
	Tonnage string `json:"tonnage"`
}

type UnbookRequest struct {
	TourID  string `json:"tour_id"`
	OrderID string `json:"order_id"`
}

type RebookRequest struct {
	SourceTourID      string `json:"source_tour_id,omitempty"`
	DestinationTourID string `json:"destination_tour_id"`
	OrderID           string `json:"order_id"`
	Tonnage           string `json:"tonnage"`
}

// BookingResponse mirrors the engine outcome: the write succeeded, and the
// warning fields are advisory data for the dispatcher.
type BookingResponse struct {
	Success              bool          `json:"success"`
	TourID               string        `json:"tour_id"`
	OrderID              string        `json:"order_id"`
	OrderStatus          string        `json:"order_status"`
	Load                 LoadResponse  `json:"load"`
	SourceLoad           *LoadResponse `json:"source_load,omitempty"`
	OverloadWarning      bool          `json:"overload_warning"`
	CompatibilityWarning string        `json:"compatibility_warning,omitempty"`
}
