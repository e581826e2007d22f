package handler

import (
	"net/http"

	"parkdeck/pkg/auth"
	apperrors "parkdeck/pkg/errors"
	httputil "parkdeck/pkg/http"

	"github.com/julienschmidt/httprouter"
)

// principal pulls the authenticated caller off the request context. The auth
// middleware guarantees it on /api routes; a missing principal means the
// handler was mounted outside the middleware chain.
func principal(w http.ResponseWriter, r *http.Request) (auth.Principal, bool) {
	p, ok := auth.FromContext(r.Context())
	if !ok {
		httputil.WriteError(w, apperrors.Unauthorized("Missing authentication"))
		return auth.Principal{}, false
	}
	return p, true
}

// API aggregates the parking handlers behind a single route registrar.
type API struct {
	lots         *LotHandler
	spots        *SpotHandler
	sessions     *SessionHandler
	reservations *ReservationHandler
}

func NewAPI(lots *LotHandler, spots *SpotHandler, sessions *SessionHandler, reservations *ReservationHandler) *API {
	return &API{
		lots:         lots,
		spots:        spots,
		sessions:     sessions,
		reservations: reservations,
	}
}

func (a *API) RegisterRoutes(router *httprouter.Router) {
	a.lots.RegisterRoutes(router)
	a.spots.RegisterRoutes(router)
	a.sessions.RegisterRoutes(router)
	a.reservations.RegisterRoutes(router)
}
