package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"dispatch-tour-service/internal/api/dto"
	"dispatch-tour-service/internal/domain"
	"dispatch-tour-service/internal/services"
)

// ProposalHandler runs the route-optimization oracle and applies its
// proposal through the booking engine.
type ProposalHandler struct {
	Service *services.ProposalService
}

// Apply handles POST /proposals/apply.
func (h *ProposalHandler) Apply(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.ApplyProposalRequest
	if !decodeStrict(w, r, &req) {
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	if len(req.Vehicles) == 0 {
		writeError(w, r, http.StatusBadRequest, "at least one vehicle is required")
		return
	}

	vehicles := make([]domain.VehicleConfig, 0, len(req.Vehicles))
	for _, v := range req.Vehicles {
		unitCap, err := decimal.NewFromString(strings.TrimSpace(v.MotorUnitCapacity))
		if err != nil || !unitCap.IsPositive() {
			writeError(w, r, http.StatusBadRequest, "vehicle motor_unit_capacity must be a positive decimal")
			return
		}
		vc := domain.VehicleConfig{MotorUnitCapacity: unitCap}
		if strings.TrimSpace(v.TrailerCapacity) != "" {
			trailerCap, err := decimal.NewFromString(strings.TrimSpace(v.TrailerCapacity))
			if err != nil || !trailerCap.IsPositive() {
				writeError(w, r, http.StatusBadRequest, "vehicle trailer_capacity must be a positive decimal")
				return
			}
			vc.TrailerCapacity = trailerCap
			vc.HasTrailer = true
		}
		vehicles = append(vehicles, vc)
	}

	applied, err := h.Service.ApplyProposal(r.Context(), date, vehicles)
	if err != nil {
		log.Printf("apply proposal failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "could not save, please retry")
		return
	}

	res := dto.ApplyProposalResponse{Tours: make([]dto.AppliedTourResponse, 0, len(applied))}
	for _, at := range applied {
		tr := dto.AppliedTourResponse{
			TourID:   at.TourID,
			Name:     at.Name,
			Bookings: make([]dto.BookingResponse, 0, len(at.Outcomes)),
		}
		for _, o := range at.Outcomes {
			tr.Bookings = append(tr.Bookings, bookingResponse(o))
		}
		for _, sk := range at.Skipped {
			tr.Skipped = append(tr.Skipped, dto.SkippedOrderResponse{OrderID: sk.OrderID, Reason: sk.Reason})
		}
		res.Tours = append(res.Tours, tr)
	}

	writeJSON(w, r, http.StatusOK, res)
}
