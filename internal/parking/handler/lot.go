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

type LotHandler struct {
	service service.LotService
	log     *logger.Logger
}

func NewLotHandler(service service.LotService, log *logger.Logger) *LotHandler {
	return &LotHandler{
		service: service,
		log:     log,
	}
}

func (h *LotHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var lot model.Lot
	if err := json.NewDecoder(r.Body).Decode(&lot); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	p, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.service.Create(r.Context(), p, &lot); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, lot)
}

func (h *LotHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	lot, err := h.service.GetByID(r.Context(), p, ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, lot)
}

func (h *LotHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	p, ok := principal(w, r)
	if !ok {
		return
	}

	lots, total, err := h.service.GetAll(r.Context(), p, limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, lots, total, limit, offset)
}

func (h *LotHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/lots", h.Create)
	router.GET("/api/v1/lots", h.GetAll)
	router.GET("/api/v1/lots/id/:id", h.GetByID)
}
