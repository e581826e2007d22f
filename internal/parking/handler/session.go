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

type SessionHandler struct {
	service service.SessionService
	log     *logger.Logger
}

func NewSessionHandler(service service.SessionService, log *logger.Logger) *SessionHandler {
	return &SessionHandler{
		service: service,
		log:     log,
	}
}

func (h *SessionHandler) CheckIn(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.CheckInRequest
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

	session, err := h.service.CheckIn(r.Context(), p, &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, session)
}

func (h *SessionHandler) CheckOut(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req model.CheckOutRequest
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

	session, err := h.service.CheckOut(r.Context(), p, ps.ByName("id"), &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, session)
}

func (h *SessionHandler) Cost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	cost, err := h.service.CurrentCost(r.Context(), p, ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, cost)
}

func (h *SessionHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/sessions/check-in", h.CheckIn)
	router.POST("/api/v1/sessions/id/:id/check-out", h.CheckOut)
	router.GET("/api/v1/sessions/id/:id/cost", h.Cost)
}
