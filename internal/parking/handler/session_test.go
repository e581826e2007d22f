package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"parkdeck/pkg/auth"
	apperrors "parkdeck/pkg/errors"
	"parkdeck/pkg/logger"
	"parkdeck/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockSessionService struct {
	checkInFunc     func(ctx context.Context, principal auth.Principal, req *model.CheckInRequest) (*model.Session, error)
	checkOutFunc    func(ctx context.Context, principal auth.Principal, sessionID string, req *model.CheckOutRequest) (*model.Session, error)
	currentCostFunc func(ctx context.Context, principal auth.Principal, sessionID string) (*model.SessionCost, error)
}

func (m *mockSessionService) CheckIn(ctx context.Context, principal auth.Principal, req *model.CheckInRequest) (*model.Session, error) {
	return m.checkInFunc(ctx, principal, req)
}

func (m *mockSessionService) CheckOut(ctx context.Context, principal auth.Principal, sessionID string, req *model.CheckOutRequest) (*model.Session, error) {
	return m.checkOutFunc(ctx, principal, sessionID, req)
}

func (m *mockSessionService) CurrentCost(ctx context.Context, principal auth.Principal, sessionID string) (*model.SessionCost, error) {
	return m.currentCostFunc(ctx, principal, sessionID)
}

func newSessionRouter(svc *mockSessionService) *httprouter.Router {
	router := httprouter.New()
	NewSessionHandler(svc, logger.New(logger.Config{Output: io.Discard, Service: "handler-test"})).RegisterRoutes(router)
	return router
}

func authedRequest(method, target, body string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := auth.WithPrincipal(r.Context(), auth.Principal{UserID: "user-1", Role: auth.RoleUser})
	return r.WithContext(ctx)
}

func TestCheckInHandler_Created(t *testing.T) {
	svc := &mockSessionService{
		checkInFunc: func(ctx context.Context, principal auth.Principal, req *model.CheckInRequest) (*model.Session, error) {
			if principal.UserID != "user-1" {
				t.Errorf("expected principal user-1, got %q", principal.UserID)
			}
			return &model.Session{
				ID:           "507f1f77bcf86cd799439099",
				SpotID:       req.SpotID,
				VehiclePlate: req.VehiclePlate,
				Open:         true,
			}, nil
		},
	}
	router := newSessionRouter(svc)

	body := `{"spot_id":"507f1f77bcf86cd799439011","vehicle_plate":"ABC123","vehicle_type":"car"}`
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodPost, "/api/v1/sessions/check-in", body))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data model.Session `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Data.Open {
		t.Error("expected open session in response")
	}
}

func TestCheckInHandler_InvalidBody(t *testing.T) {
	router := newSessionRouter(&mockSessionService{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodPost, "/api/v1/sessions/check-in", "{not json"))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCheckInHandler_MissingPrincipal(t *testing.T) {
	router := newSessionRouter(&mockSessionService{})

	body := `{"spot_id":"507f1f77bcf86cd799439011","vehicle_plate":"ABC123","vehicle_type":"car"}`
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/sessions/check-in", strings.NewReader(body)))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestCheckOutHandler_ServiceErrorMapped(t *testing.T) {
	svc := &mockSessionService{
		checkOutFunc: func(ctx context.Context, principal auth.Principal, sessionID string, req *model.CheckOutRequest) (*model.Session, error) {
			return nil, apperrors.Conflict("Session is already closed")
		},
	}
	router := newSessionRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(
		http.MethodPost,
		"/api/v1/sessions/id/507f1f77bcf86cd799439099/check-out",
		`{"payment_method":"card"}`,
	))

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCostHandler_Success(t *testing.T) {
	svc := &mockSessionService{
		currentCostFunc: func(ctx context.Context, principal auth.Principal, sessionID string) (*model.SessionCost, error) {
			return &model.SessionCost{
				SessionID: sessionID,
				Duration:  "1h 30m",
				Amount:    20,
				Open:      true,
			}, nil
		},
	}
	router := newSessionRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodGet, "/api/v1/sessions/id/507f1f77bcf86cd799439099/cost", ""))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Data model.SessionCost `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.Amount != 20 || resp.Data.Duration != "1h 30m" {
		t.Errorf("unexpected cost payload: %+v", resp.Data)
	}
}
