package handler

import (
	"encoding/json"
	"net/http"

	"parkdeck/internal/parking/service"
	httputil "parkdeck/pkg/http"
	"parkdeck/pkg/logger"
	"parkdeck/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ReservationHandler struct {
	service service.ReservationService
	log     *logger.Logger
}

func NewReservationHandler(service service.ReservationService, log *logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		log:     log,
	}
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.ReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	p, ok := principal(w, r)
	if !ok {
		return
	}

	reservation, err := h.service.Create(r.Context(), p, &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, reservation)
}

func (h *ReservationHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	reservation, err := h.service.GetByID(r.Context(), p, ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, reservation)
}

func (h *ReservationHandler) GetByConfirmation(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	reservation, err := h.service.GetByConfirmation(r.Context(), p, ps.ByName("token"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, reservation)
}

func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.service.Cancel(r.Context(), p, ps.ByName("id")); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

// Search lists a spot's reservations. With active=true only pending
// reservations are returned, unpaginated.
func (h *ReservationHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	spotID := query.Get("spot_id")
	if spotID == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "The 'spot_id' query parameter is required",
		})
		return
	}

	if query.Get("active") == "true" {
		p, ok := principal(w, r)
		if !ok {
			return
		}

		reservations, err := h.service.ListActiveBySpot(r.Context(), p, spotID)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}

		httputil.WriteSuccess(w, reservations)
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	p, ok := principal(w, r)
	if !ok {
		return
	}

	reservations, total, err := h.service.ListBySpot(r.Context(), p, spotID, limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, reservations, total, limit, offset)
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/reservations", h.Create)
	router.GET("/api/v1/reservations", h.Search)
	router.GET("/api/v1/reservations/id/:id", h.GetByID)
	router.DELETE("/api/v1/reservations/id/:id", h.Cancel)
	router.GET("/api/v1/reservations/confirmation/:token", h.GetByConfirmation)
}
