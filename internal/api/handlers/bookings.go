package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"dispatch-tour-service/internal/api/dto"
	"dispatch-tour-service/internal/services"
)

// BookingHandler exposes the booking engine's five operations. A successful
// write always returns 200, warnings included; only validation failures and
// store errors are error statuses.
type BookingHandler struct {
	Engine *services.BookingEngine
}

// Book handles POST /bookings.
func (h *BookingHandler) Book(w http.ResponseWriter, r *http.Request) {
	var req dto.BookingRequest
	if !decodeStrict(w, r, &req) {
		return
	}
	tonnage, ok := requireBookingFields(w, r, req.TourID, req.OrderID, req.Tonnage)
	if !ok {
		return
	}

	outcome, err := h.Engine.Book(r.Context(), req.TourID, req.OrderID, tonnage)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, bookingResponse(outcome))
}

// Resize handles PUT /bookings.
func (h *BookingHandler) Resize(w http.ResponseWriter, r *http.Request) {
	var req dto.BookingRequest
	if !decodeStrict(w, r, &req) {
		return
	}
	tonnage, ok := requireBookingFields(w, r, req.TourID, req.OrderID, req.Tonnage)
	if !ok {
		return
	}

	outcome, err := h.Engine.Resize(r.Context(), req.TourID, req.OrderID, tonnage)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, bookingResponse(outcome))
}

// Unbook handles DELETE /bookings.
func (h *BookingHandler) Unbook(w http.ResponseWriter, r *http.Request) {
	var req dto.UnbookRequest
	if !decodeStrict(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.TourID) == "" || strings.TrimSpace(req.OrderID) == "" {
		writeError(w, r, http.StatusBadRequest, "tour_id and order_id are required")
		return
	}

	outcome, err := h.Engine.Unbook(r.Context(), req.TourID, req.OrderID)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, bookingResponse(outcome))
}

// Move handles POST /bookings/move (rebook). An empty source_tour_id books
// fresh onto the destination.
func (h *BookingHandler) Move(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.RebookRequest
	if !decodeStrict(w, r, &req) {
		return
	}
	tonnage, ok := requireBookingFields(w, r, req.DestinationTourID, req.OrderID, req.Tonnage)
	if !ok {
		return
	}

	outcome, err := h.Engine.Rebook(r.Context(), req.SourceTourID, req.DestinationTourID, req.OrderID, tonnage)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, bookingResponse(outcome))
}

// Dispatch routes /bookings by method; the stdlib mux maps one path to one
// handler.
func (h *BookingHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.Book(w, r)
	case http.MethodPut:
		h.Resize(w, r)
	case http.MethodDelete:
		h.Unbook(w, r)
	default:
		w.Header().Set("Allow", "POST, PUT, DELETE")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func decodeStrict(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

func requireBookingFields(w http.ResponseWriter, r *http.Request, tourID, orderID, tonnage string) (decimal.Decimal, bool) {
	if strings.TrimSpace(tourID) == "" || strings.TrimSpace(orderID) == "" {
		writeError(w, r, http.StatusBadRequest, "tour_id and order_id are required")
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(strings.TrimSpace(tonnage))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "tonnage must be a decimal number")
		return decimal.Zero, false
	}
	return d, true
}

func writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidTonnage):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrDuplicateBooking):
		writeError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrStopNotFound),
		errors.Is(err, services.ErrTourNotFound),
		errors.Is(err, services.ErrOrderNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	default:
		log.Printf("booking operation failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "could not save, please retry")
	}
}

func bookingResponse(o *services.BookingOutcome) dto.BookingResponse {
	res := dto.BookingResponse{
		Success:              true,
		TourID:               o.TourID,
		OrderID:              o.OrderID,
		OrderStatus:          string(o.OrderStatus),
		Load:                 loadResponse(o.Load),
		OverloadWarning:      o.OverloadWarning,
		CompatibilityWarning: o.CompatibilityWarning,
	}
	if o.SourceLoad != nil {
		l := loadResponse(*o.SourceLoad)
		res.SourceLoad = &l
	}
	return res
}
