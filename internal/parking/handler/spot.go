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

type SpotHandler struct {
	service service.SpotService
	log     *logger.Logger
}

func NewSpotHandler(service service.SpotService, log *logger.Logger) *SpotHandler {
	return &SpotHandler{
		service: service,
		log:     log,
	}
}

func (h *SpotHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var spot model.Spot
	if err := json.NewDecoder(r.Body).Decode(&spot); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	p, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.service.Create(r.Context(), p, &spot); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, spot)
}

func (h *SpotHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	spot, err := h.service.GetByID(r.Context(), p, ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, spot)
}

// Search lists spots by lot, optionally filtered by status.
func (h *SpotHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	lotID := query.Get("lot_id")
	if lotID == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "The 'lot_id' query parameter is required",
		})
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

	status := model.SpotStatus(query.Get("status"))
	spots, total, err := h.service.ListByLot(r.Context(), p, lotID, status, limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, spots, total, limit, offset)
}

func (h *SpotHandler) SetMaintenance(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.service.SetMaintenance(r.Context(), p, ps.ByName("id")); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *SpotHandler) ClearMaintenance(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.service.ClearMaintenance(r.Context(), p, ps.ByName("id")); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *SpotHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/spots", h.Create)
	router.GET("/api/v1/spots", h.Search)
	router.GET("/api/v1/spots/id/:id", h.GetByID)
	router.PUT("/api/v1/spots/id/:id/maintenance", h.SetMaintenance)
	router.DELETE("/api/v1/spots/id/:id/maintenance", h.ClearMaintenance)
}
