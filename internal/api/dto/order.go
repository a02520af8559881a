package dto

type OrderResponse struct {
	OrderID      string `json:"order_id"`
	Customer     string `json:"customer"`
	Address      string `json:"address"`
	Tonnage      string `json:"tonnage"`
	DeliveryMode string `json:"delivery_mode"`
	Status       string `json:"status"`
}

type ListOrdersResponse struct {
	Orders []OrderResponse `json:"orders"`
}
