package api

import (
	"net/http"

	"dispatch-tour-service/internal/api/handlers"
	"dispatch-tour-service/internal/ports"
	"dispatch-tour-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	tours ports.TourStore,
	orders ports.OrderStore,
	engine *services.BookingEngine,
	proposals *services.ProposalService,
) http.Handler {
	mux := http.NewServeMux()

	orderHandler := &handlers.OrderHandler{Orders: orders}
	tourHandler := &handlers.TourHandler{Tours: tours, Engine: engine}
	bookingHandler := &handlers.BookingHandler{Engine: engine}
	proposalHandler := &handlers.ProposalHandler{Service: proposals}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/orders", orderHandler.List)
	mux.HandleFunc("/tours", tourHandler.Collection)
	mux.HandleFunc("/tours/", tourHandler.ByID)
	mux.HandleFunc("/bookings", bookingHandler.Dispatch)
	mux.HandleFunc("/bookings/move", bookingHandler.Move)
	mux.HandleFunc("/proposals/apply", proposalHandler.Apply)

	return requestIDMiddleware(loggingMiddleware(mux))
}
