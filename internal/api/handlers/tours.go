package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"dispatch-tour-service/internal/api/dto"
	"dispatch-tour-service/internal/domain"
	"dispatch-tour-service/internal/ports"
	"dispatch-tour-service/internal/services"
)

const dateLayout = "2006-01-02"

// TourHandler serves tour reads, draft creation, and teardown.
type TourHandler struct {
	Tours  ports.TourStore
	Engine *services.BookingEngine
}

// Collection handles GET /tours (optional ?date=YYYY-MM-DD) and POST /tours.
func (h *TourHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// ByID handles GET /tours/{id} and DELETE /tours/{id}.
func (h *TourHandler) ByID(w http.ResponseWriter, r *http.Request) {
	tourID := strings.TrimPrefix(r.URL.Path, "/tours/")
	if tourID == "" || strings.Contains(tourID, "/") {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, tourID)
	case http.MethodDelete:
		h.teardown(w, r, tourID)
	default:
		w.Header().Set("Allow", "GET, DELETE")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *TourHandler) list(w http.ResponseWriter, r *http.Request) {
	var filter ports.TourFilter
	if d := r.URL.Query().Get("date"); d != "" {
		parsed, err := time.Parse(dateLayout, d)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		filter.Date = &parsed
	}

	tours, err := h.Tours.ListTours(r.Context(), filter)
	if err != nil {
		log.Printf("list tours failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListToursResponse{Tours: make([]dto.TourResponse, 0, len(tours))}
	for _, t := range tours {
		res.Tours = append(res.Tours, tourResponse(t))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *TourHandler) create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTourRequest
	if !decodeStrict(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		writeError(w, r, http.StatusBadRequest, "name is required")
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	unitCap, err := decimal.NewFromString(strings.TrimSpace(req.MotorUnitCapacity))
	if err != nil || !unitCap.IsPositive() {
		writeError(w, r, http.StatusBadRequest, "motor_unit_capacity must be a positive decimal")
		return
	}

	vehicle := domain.VehicleConfig{MotorUnitCapacity: unitCap}
	if strings.TrimSpace(req.TrailerCapacity) != "" {
		trailerCap, err := decimal.NewFromString(strings.TrimSpace(req.TrailerCapacity))
		if err != nil || !trailerCap.IsPositive() {
			writeError(w, r, http.StatusBadRequest, "trailer_capacity must be a positive decimal")
			return
		}
		vehicle.TrailerCapacity = trailerCap
		vehicle.HasTrailer = true
	}

	tour := &domain.Tour{
		TourID:  uuid.NewString(),
		Name:    req.Name,
		Date:    date,
		Vehicle: vehicle,
		Status:  domain.TourDraft,
	}
	if err := h.Tours.CreateTour(r.Context(), tour); err != nil {
		log.Printf("create tour failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "could not save, please retry")
		return
	}

	writeJSON(w, r, http.StatusCreated, tourResponse(tour))
}

func (h *TourHandler) get(w http.ResponseWriter, r *http.Request, tourID string) {
	tour, err := h.Tours.GetTour(r.Context(), tourID)
	if errors.Is(err, ports.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "tour not found")
		return
	}
	if err != nil {
		log.Printf("get tour failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, tourResponse(tour))
}

// teardown releases every booking on the tour first, then deletes the empty
// tour. Orders are never left planned against a vanished tour.
func (h *TourHandler) teardown(w http.ResponseWriter, r *http.Request, tourID string) {
	released, err := h.Engine.TeardownTour(r.Context(), tourID)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}

	if err := h.Tours.DeleteTour(r.Context(), tourID); err != nil && !errors.Is(err, ports.ErrNotFound) {
		log.Printf("delete tour failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "could not save, please retry")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.TeardownResponse{
		TourID:         tourID,
		ReleasedOrders: released,
	})
}

func tourResponse(t *domain.Tour) dto.TourResponse {
	res := dto.TourResponse{
		TourID:            t.TourID,
		Name:              t.Name,
		Date:              t.Date.Format(dateLayout),
		MotorUnitCapacity: t.Vehicle.MotorUnitCapacity.String(),
		Status:            string(t.Status),
		Stops:             make([]dto.StopResponse, 0, len(t.Stops)),
		Load:              loadResponse(domain.ComputeLoad(t)),
	}
	if t.Vehicle.HasTrailer {
		res.TrailerCapacity = t.Vehicle.TrailerCapacity.String()
	}
	for _, s := range t.Stops {
		res.Stops = append(res.Stops, dto.StopResponse{
			OrderID:      s.OrderID,
			Position:     s.Position,
			Tonnage:      s.Tonnage.String(),
			Address:      s.Address,
			DeliveryMode: string(s.DeliveryMode),
		})
	}
	return res
}

func loadResponse(l domain.LoadSummary) dto.LoadResponse {
	return dto.LoadResponse{
		TotalLoaded:        l.TotalLoaded.String(),
		UtilizationPercent: l.UtilizationPercent,
		Overloaded:         l.Overloaded,
	}
}
