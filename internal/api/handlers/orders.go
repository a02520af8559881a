package handlers

import (
	"log"
	"net/http"

	"dispatch-tour-service/internal/api/dto"
	"dispatch-tour-service/internal/ports"
)

// OrderHandler exposes read-only order retrieval; order editing belongs to
// the wider back-office application.
type OrderHandler struct {
	Orders ports.OrderStore
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	orders, err := h.Orders.ListOrders(r.Context())
	if err != nil {
		log.Printf("list orders failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListOrdersResponse{
		Orders: make([]dto.OrderResponse, 0, len(orders)),
	}
	for _, o := range orders {
		res.Orders = append(res.Orders, dto.OrderResponse{
			OrderID:      o.OrderID,
			Customer:     o.Customer,
			Address:      o.Address,
			Tonnage:      o.Tonnage.String(),
			DeliveryMode: string(o.DeliveryMode),
			Status:       string(o.Status),
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
