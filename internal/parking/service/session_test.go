package service

import (
	"context"
	"fmt"
	parkingerrors "parkdeck/internal/parking/errors"
	"parkdeck/internal/parking/events"
	"parkdeck/internal/parking/validator"
	"parkdeck/pkg/auth"
	"parkdeck/pkg/config"
	apperrors "parkdeck/pkg/errors"
	"parkdeck/pkg/logger"
	"parkdeck/pkg/model"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	testSpotID    = "507f1f77bcf86cd799439011"
	testLotID     = "507f1f77bcf86cd799439022"
	testSessionID = "507f1f77bcf86cd799439099"
)

func testConfig() *config.Config {
	return &config.Config{
		Log:              logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"}),
		OpenEndedHorizon: 100 * 365 * 24 * time.Hour,
		SpotLockTTL:      10 * time.Second,
	}
}

func testPrincipal() auth.Principal {
	return auth.Principal{UserID: "user-1", Role: auth.RoleUser}
}

func availableSpot() *model.Spot {
	return &model.Spot{
		ID:       testSpotID,
		LotID:    testLotID,
		Status:   model.SpotAvailable,
		SpotType: model.SpotTypeCar,
	}
}

func newTestSessionService(
	sessions *mockSessionRepository,
	spots *mockSpotRepository,
	lots *mockLotRepository,
	payments *mockPaymentRepository,
	locks *mockSpotLockRepository,
) SessionService {
	cfg := testConfig()
	return NewSessionService(
		sessions, spots, lots, payments, locks,
		validator.NewSessionValidator(cfg.Log),
		events.NewPublisher(nil, "test", cfg.Log),
		cfg,
	)
}

func TestCheckIn_Success(t *testing.T) {
	spots := &mockSpotRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Spot, error) {
			return availableSpot(), nil
		},
	}
	sessions := &mockSessionRepository{}
	locks := &mockSpotLockRepository{}

	svc := newTestSessionService(sessions, spots, &mockLotRepository{}, &mockPaymentRepository{}, locks)

	session, err := svc.CheckIn(context.Background(), testPrincipal(), &model.CheckInRequest{
		SpotID:       testSpotID,
		VehiclePlate: "abc-123",
		VehicleType:  model.SpotTypeCar,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if session.VehiclePlate != "ABC-123" {
		t.Errorf("expected plate normalized to ABC-123, got %q", session.VehiclePlate)
	}
	if session.HourlyRate != 10 || session.DailyRate != 100 {
		t.Errorf("expected lot rates snapshotted, got hourly=%.2f daily=%.2f", session.HourlyRate, session.DailyRate)
	}
	if session.PaymentStatus != model.PaymentPending {
		t.Errorf("expected pending payment status, got %q", session.PaymentStatus)
	}

	if len(spots.transitions) != 1 {
		t.Fatalf("expected 1 status transition, got %d", len(spots.transitions))
	}
	if spots.transitions[0] != [2]model.SpotStatus{model.SpotAvailable, model.SpotOccupied} {
		t.Errorf("expected available->occupied, got %v", spots.transitions[0])
	}

	if len(locks.released) != 1 {
		t.Errorf("expected spot lock released, got %v", locks.released)
	}
}

func TestCheckIn_PlateNormalizedBeforeValidation(t *testing.T) {
	spots := &mockSpotRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Spot, error) {
			return availableSpot(), nil
		},
	}

	svc := newTestSessionService(&mockSessionRepository{}, spots, &mockLotRepository{}, &mockPaymentRepository{}, &mockSpotLockRepository{})

	session, err := svc.CheckIn(context.Background(), testPrincipal(), &model.CheckInRequest{
		SpotID:       testSpotID,
		VehiclePlate: "  abc-123  ",
		VehicleType:  model.SpotTypeCar,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.VehiclePlate != "ABC-123" {
		t.Errorf("expected %q, got %q", "ABC-123", session.VehiclePlate)
	}
}

func TestCheckIn_PlateTooShortAfterNormalization(t *testing.T) {
	svc := newTestSessionService(&mockSessionRepository{}, &mockSpotRepository{}, &mockLotRepository{}, &mockPaymentRepository{}, &mockSpotLockRepository{})

	_, err := svc.CheckIn(context.Background(), testPrincipal(), &model.CheckInRequest{
		SpotID:       testSpotID,
		VehiclePlate: "  a  ",
		VehicleType:  model.SpotTypeCar,
	})
	if err == nil {
		t.Fatal("expected validation error for single-character plate")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected validation error code, got %q", appErr.Code)
	}
}

func TestCheckIn_OccupiedSpotConflicts(t *testing.T) {
	spots := &mockSpotRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Spot, error) {
			spot := availableSpot()
			spot.Status = model.SpotOccupied
			return spot, nil
		},
	}

	svc := newTestSessionService(&mockSessionRepository{}, spots, &mockLotRepository{}, &mockPaymentRepository{}, &mockSpotLockRepository{})

	_, err := svc.CheckIn(context.Background(), testPrincipal(), &model.CheckInRequest{
		SpotID:       testSpotID,
		VehiclePlate: "ABC-123",
		VehicleType:  model.SpotTypeCar,
	})
	if err == nil {
		t.Fatal("expected conflict for occupied spot")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeConflict {
		t.Errorf("expected conflict code, got %q", apperrors.AsAppError(err).Code)
	}
}

func TestCheckIn_ReservedSpotConflicts(t *testing.T) {
	spots := &mockSpotRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Spot, error) {
			spot := availableSpot()
			spot.Status = model.SpotReserved
			return spot, nil
		},
	}

	svc := newTestSessionService(&mockSessionRepository{}, spots, &mockLotRepository{}, &mockPaymentRepository{}, &mockSpotLockRepository{})

	_, err := svc.CheckIn(context.Background(), testPrincipal(), &model.CheckInRequest{
		SpotID:       testSpotID,
		VehiclePlate: "ABC-123",
		VehicleType:  model.SpotTypeCar,
	})
	if apperrors.AsAppError(err).Code != apperrors.CodeConflict {
		t.Fatalf("expected conflict for reserved spot, got %v", err)
	}
	if len(spots.transitions) != 0 {
		t.Errorf("expected no transition, got %v", spots.transitions)
	}
}

func TestCheckIn_StaleStatusWithOpenSessionConflicts(t *testing.T) {
	spots := &mockSpotRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Spot, error) {
			return availableSpot(), nil
		},
	}
	// Spot reads available but an open session slipped in
	sessions := &mockSessionRepository{
		findOpenBySpotFunc: func(ctx context.Context, spotID string) (*model.Session, error) {
			return &model.Session{ID: testSessionID, SpotID: spotID, Open: true}, nil
		},
	}

	svc := newTestSessionService(sessions, spots, &mockLotRepository{}, &mockPaymentRepository{}, &mockSpotLockRepository{})

	_, err := svc.CheckIn(context.Background(), testPrincipal(), &model.CheckInRequest{
		SpotID:       testSpotID,
		VehiclePlate: "ABC-123",
		VehicleType:  model.SpotTypeCar,
	})
	if apperrors.AsAppError(err).Code != apperrors.CodeConflict {
		t.Fatalf("expected conflict for open session on spot, got %v", err)
	}
	if len(spots.transitions) != 0 {
		t.Errorf("spot must not transition when an open session exists, got %v", spots.transitions)
	}
}

func TestCheckIn_LostRaceOnTransition(t *testing.T) {
	spots := &mockSpotRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Spot, error) {
			return availableSpot(), nil
		},
		transitionStatusFunc: func(ctx context.Context, id string, from, to model.SpotStatus) error {
			return parkingerrors.ErrStatusConflict
		},
	}

	svc := newTestSessionService(&mockSessionRepository{}, spots, &mockLotRepository{}, &mockPaymentRepository{}, &mockSpotLockRepository{})

	_, err := svc.CheckIn(context.Background(), testPrincipal(), &model.CheckInRequest{
		SpotID:       testSpotID,
		VehiclePlate: "ABC-123",
		VehicleType:  model.SpotTypeCar,
	})
	if err == nil {
		t.Fatal("expected conflict when transition matched zero documents")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeConflict {
		t.Errorf("expected conflict code, got %q", apperrors.AsAppError(err).Code)
	}
}

func TestCheckIn_CompensatesOnSessionCreateFailure(t *testing.T) {
	spots := &mockSpotRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Spot, error) {
			return availableSpot(), nil
		},
	}
	sessions := &mockSessionRepository{
		createFunc: func(ctx context.Context, session *model.Session) error {
			return fmt.Errorf("insert failed")
		},
	}

	svc := newTestSessionService(sessions, spots, &mockLotRepository{}, &mockPaymentRepository{}, &mockSpotLockRepository{})

	_, err := svc.CheckIn(context.Background(), testPrincipal(), &model.CheckInRequest{
		SpotID:       testSpotID,
		VehiclePlate: "ABC-123",
		VehicleType:  model.SpotTypeCar,
	})
	if err == nil {
		t.Fatal("expected error when session insert fails")
	}

	// Forward transition plus the compensating reverse transition
	if len(spots.transitions) != 2 {
		t.Fatalf("expected 2 transitions, got %d: %v", len(spots.transitions), spots.transitions)
	}
	if spots.transitions[1] != [2]model.SpotStatus{model.SpotOccupied, model.SpotAvailable} {
		t.Errorf("expected compensating occupied->available, got %v", spots.transitions[1])
	}
}

func TestCheckOut_Success(t *testing.T) {
	checkIn := time.Now().UTC().Add(-90 * time.Minute)
	sessions := &mockSessionRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Session, error) {
			return &model.Session{
				ID:          testSessionID,
				SpotID:      testSpotID,
				Open:        true,
				CheckInTime: checkIn,
				HourlyRate:  10,
				DailyRate:   100,
			}, nil
		},
	}
	spots := &mockSpotRepository{}
	payments := &mockPaymentRepository{}

	svc := newTestSessionService(sessions, spots, &mockLotRepository{}, payments, &mockSpotLockRepository{})

	session, err := svc.CheckOut(context.Background(), testPrincipal(), testSessionID, &model.CheckOutRequest{PaymentMethod: "card"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if session.TotalAmount == nil || *session.TotalAmount != 20 {
		t.Errorf("expected 90 minutes billed as 2 hours = 20, got %v", session.TotalAmount)
	}
	if session.Open {
		t.Error("expected session closed")
	}

	if len(payments.created) != 1 {
		t.Fatalf("expected 1 payment, got %d", len(payments.created))
	}
	if payments.created[0].Amount != 20 || payments.created[0].Method != "card" {
		t.Errorf("unexpected payment: %+v", payments.created[0])
	}

	if len(spots.transitions) != 1 || spots.transitions[0] != [2]model.SpotStatus{model.SpotOccupied, model.SpotAvailable} {
		t.Errorf("expected occupied->available transition, got %v", spots.transitions)
	}
}

func TestCheckOut_AlreadyClosed(t *testing.T) {
	closed := time.Now().UTC()
	sessions := &mockSessionRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Session, error) {
			return &model.Session{
				ID:           testSessionID,
				SpotID:       testSpotID,
				Open:         false,
				CheckInTime:  closed.Add(-time.Hour),
				CheckOutTime: &closed,
			}, nil
		},
	}

	svc := newTestSessionService(sessions, &mockSpotRepository{}, &mockLotRepository{}, &mockPaymentRepository{}, &mockSpotLockRepository{})

	_, err := svc.CheckOut(context.Background(), testPrincipal(), testSessionID, &model.CheckOutRequest{PaymentMethod: "cash"})
	if err == nil {
		t.Fatal("expected conflict for already closed session")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeConflict {
		t.Errorf("expected conflict code, got %q", apperrors.AsAppError(err).Code)
	}
}

func TestCheckOut_ConcurrentCloseConflicts(t *testing.T) {
	sessions := &mockSessionRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Session, error) {
			return &model.Session{
				ID:          testSessionID,
				SpotID:      testSpotID,
				Open:        true,
				CheckInTime: time.Now().UTC().Add(-time.Hour),
				HourlyRate:  10,
				DailyRate:   100,
			}, nil
		},
		closeFunc: func(ctx context.Context, id string, checkOutTime time.Time, totalAmount float64) error {
			return parkingerrors.ErrSessionClosed
		},
	}
	payments := &mockPaymentRepository{}

	svc := newTestSessionService(sessions, &mockSpotRepository{}, &mockLotRepository{}, payments, &mockSpotLockRepository{})

	_, err := svc.CheckOut(context.Background(), testPrincipal(), testSessionID, &model.CheckOutRequest{PaymentMethod: "cash"})
	if err == nil {
		t.Fatal("expected conflict when close matched zero documents")
	}
	if len(payments.created) != 0 {
		t.Errorf("no payment should be recorded on failed close, got %d", len(payments.created))
	}
}

func TestCheckOut_SpotInMaintenanceStillCloses(t *testing.T) {
	sessions := &mockSessionRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Session, error) {
			return &model.Session{
				ID:          testSessionID,
				SpotID:      testSpotID,
				Open:        true,
				CheckInTime: time.Now().UTC().Add(-30 * time.Minute),
				HourlyRate:  10,
				DailyRate:   100,
			}, nil
		},
	}
	spots := &mockSpotRepository{
		transitionStatusFunc: func(ctx context.Context, id string, from, to model.SpotStatus) error {
			return parkingerrors.ErrStatusConflict
		},
	}

	svc := newTestSessionService(sessions, spots, &mockLotRepository{}, &mockPaymentRepository{}, &mockSpotLockRepository{})

	session, err := svc.CheckOut(context.Background(), testPrincipal(), testSessionID, &model.CheckOutRequest{PaymentMethod: "mobile"})
	if err != nil {
		t.Fatalf("check-out should tolerate spot not in occupied status, got: %v", err)
	}
	if session.Open {
		t.Error("expected session closed")
	}
}

func TestCheckOut_UnknownSession(t *testing.T) {
	sessions := &mockSessionRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Session, error) {
			return nil, parkingerrors.ErrNotFound
		},
	}

	svc := newTestSessionService(sessions, &mockSpotRepository{}, &mockLotRepository{}, &mockPaymentRepository{}, &mockSpotLockRepository{})

	_, err := svc.CheckOut(context.Background(), testPrincipal(), testSessionID, &model.CheckOutRequest{PaymentMethod: "cash"})
	if err == nil {
		t.Fatal("expected not found error")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeNotFound {
		t.Errorf("expected not found code, got %q", apperrors.AsAppError(err).Code)
	}
}

func TestCurrentCost_OpenSession(t *testing.T) {
	sessions := &mockSessionRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Session, error) {
			return &model.Session{
				ID:          testSessionID,
				SpotID:      testSpotID,
				Open:        true,
				CheckInTime: time.Now().UTC().Add(-5 * time.Minute),
				HourlyRate:  10,
				DailyRate:   100,
			}, nil
		},
	}

	svc := newTestSessionService(sessions, &mockSpotRepository{}, &mockLotRepository{}, &mockPaymentRepository{}, &mockSpotLockRepository{})

	cost, err := svc.CurrentCost(context.Background(), testPrincipal(), testSessionID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cost.Open {
		t.Error("expected open cost preview")
	}
	if cost.Amount != 10 {
		t.Errorf("5 minutes should bill the 1 hour minimum = 10, got %.2f", cost.Amount)
	}
	if cost.Duration != "5m" {
		t.Errorf("expected duration 5m, got %q", cost.Duration)
	}
}

func TestCurrentCost_ClosedSessionReportsFinalAmount(t *testing.T) {
	checkIn := time.Now().UTC().Add(-3 * time.Hour)
	checkOut := checkIn.Add(125 * time.Minute)
	amount := 30.0
	sessions := &mockSessionRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Session, error) {
			return &model.Session{
				ID:           testSessionID,
				SpotID:       testSpotID,
				Open:         false,
				CheckInTime:  checkIn,
				CheckOutTime: &checkOut,
				TotalAmount:  &amount,
			}, nil
		},
	}

	svc := newTestSessionService(sessions, &mockSpotRepository{}, &mockLotRepository{}, &mockPaymentRepository{}, &mockSpotLockRepository{})

	cost, err := svc.CurrentCost(context.Background(), testPrincipal(), testSessionID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cost.Open {
		t.Error("expected closed cost")
	}
	if cost.Amount != 30 {
		t.Errorf("expected stored amount 30, got %.2f", cost.Amount)
	}
	if cost.Duration != "2h 5m" {
		t.Errorf("expected duration 2h 5m, got %q", cost.Duration)
	}
}

func TestCheckIn_LockHeldByAnotherRequest(t *testing.T) {
	spots := &mockSpotRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Spot, error) {
			return availableSpot(), nil
		},
	}
	locks := &mockSpotLockRepository{
		createFunc: func(ctx context.Context, lock *model.SpotLock) (*model.SpotLock, error) {
			// Mirror the duplicate key error Mongo raises on a held lock
			return nil, duplicateKeyError()
		},
	}

	svc := newTestSessionService(&mockSessionRepository{}, spots, &mockLotRepository{}, &mockPaymentRepository{}, locks)

	_, err := svc.CheckIn(context.Background(), testPrincipal(), &model.CheckInRequest{
		SpotID:       testSpotID,
		VehiclePlate: "ABC-123",
		VehicleType:  model.SpotTypeCar,
	})
	if err == nil {
		t.Fatal("expected conflict when lock is held")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeConflict {
		t.Errorf("expected conflict code, got %q", apperrors.AsAppError(err).Code)
	}
}

// duplicateKeyError mirrors the write exception Mongo raises when the lock
// document already exists.
func duplicateKeyError() error {
	return mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{Code: 11000}},
	}
}
