package service

import (
	"context"
	"errors"
	"fmt"
	"parkdeck/internal/parking/billing"
	parkingerrors "parkdeck/internal/parking/errors"
	"parkdeck/internal/parking/events"
	"parkdeck/internal/parking/repository"
	"parkdeck/internal/parking/state"
	"parkdeck/internal/parking/validator"
	"parkdeck/pkg/auth"
	"parkdeck/pkg/config"
	apperrors "parkdeck/pkg/errors"
	"parkdeck/pkg/model"
	"parkdeck/pkg/sanitizer"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

type SessionService interface {
	CheckIn(ctx context.Context, principal auth.Principal, req *model.CheckInRequest) (*model.Session, error)
	CheckOut(ctx context.Context, principal auth.Principal, sessionID string, req *model.CheckOutRequest) (*model.Session, error)
	CurrentCost(ctx context.Context, principal auth.Principal, sessionID string) (*model.SessionCost, error)
}

type sessionService struct {
	sessions  repository.SessionRepository
	spots     repository.SpotRepository
	lots      repository.LotRepository
	payments  repository.PaymentRepository
	locks     repository.SpotLockRepository
	validator *validator.SessionValidator
	publisher *events.Publisher
	cfg       *config.Config
}

func NewSessionService(
	sessions repository.SessionRepository,
	spots repository.SpotRepository,
	lots repository.LotRepository,
	payments repository.PaymentRepository,
	locks repository.SpotLockRepository,
	validator *validator.SessionValidator,
	publisher *events.Publisher,
	cfg *config.Config,
) SessionService {
	return &sessionService{
		sessions:  sessions,
		spots:     spots,
		lots:      lots,
		payments:  payments,
		locks:     locks,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

// CheckIn opens a session on an available spot. The spot moves to occupied
// first; if session creation then fails, the transition is compensated by
// moving the spot back to available.
func (s *sessionService) CheckIn(ctx context.Context, principal auth.Principal, req *model.CheckInRequest) (*model.Session, error) {
	req.VehiclePlate = sanitizer.NormalizePlate(req.VehiclePlate)
	if req.UserID == "" {
		req.UserID = principal.UserID
	}
	if req.UserID != principal.UserID && !principal.Role.AtLeast(auth.RoleAdmin) {
		return nil, apperrors.Forbidden("Checking in on behalf of another user requires admin role")
	}

	if err := s.validator.ValidateCheckIn(req); err != nil {
		s.cfg.Log.Warn("Check-in validation failed", "error", err)
		return nil, apperrors.Validation("Check-in validation failed", map[string]any{"error": err.Error()})
	}

	spot, err := s.getSpot(ctx, req.SpotID)
	if err != nil {
		return nil, err
	}

	if !state.CanApply(spot.Status, state.EventCheckIn) {
		return nil, apperrors.Conflict(fmt.Sprintf(
			"Cannot check in to spot in status %q", spot.Status,
		))
	}

	// Guard against a stale spot status; the unique partial index on open
	// sessions is the backstop if this read races.
	if _, err := s.sessions.FindOpenBySpot(ctx, spot.ID); err == nil {
		return nil, apperrors.Conflict("Spot already has an open session")
	} else if !errors.Is(err, parkingerrors.ErrNotFound) {
		return nil, apperrors.Internal("Failed to check for open session", err)
	}

	lot, err := s.lots.FindByID(ctx, spot.LotID)
	if err != nil {
		if errors.Is(err, parkingerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Lot", spot.LotID)
		}
		return nil, apperrors.Internal("Failed to load lot rates", err)
	}

	lockID, err := s.acquireSpotLock(ctx, spot.ID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.releaseSpotLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release spot lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	if err := s.spots.TransitionStatus(ctx, spot.ID, model.SpotAvailable, model.SpotOccupied); err != nil {
		if errors.Is(err, parkingerrors.ErrStatusConflict) {
			return nil, apperrors.Conflict("Spot status changed while checking in. Please try again.")
		}
		return nil, apperrors.Internal("Failed to occupy spot", err)
	}

	session := &model.Session{
		SpotID:        spot.ID,
		UserID:        req.UserID,
		VehiclePlate:  req.VehiclePlate,
		VehicleType:   req.VehicleType,
		CheckInTime:   time.Now().UTC().Truncate(time.Millisecond),
		HourlyRate:    lot.HourlyRate,
		DailyRate:     lot.DailyRate,
		MonthlyRate:   lot.MonthlyRate,
		PaymentStatus: model.PaymentPending,
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		s.compensateCheckIn(ctx, spot.ID)
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperrors.Conflict("Spot already has an open session")
		}
		return nil, apperrors.Internal("Failed to create session", err)
	}

	s.publisher.Publish(ctx, events.EventSessionOpened, spot.ID, session)

	s.cfg.Log.Info("Session opened",
		"session_id", session.ID,
		"spot_id", spot.ID,
		"vehicle_plate", session.VehiclePlate,
	)
	return session, nil
}

// compensateCheckIn undoes the occupy transition after a failed session
// insert. Failure here leaves the spot occupied with no session; the error
// log is the operator's signal to reconcile.
func (s *sessionService) compensateCheckIn(ctx context.Context, spotID string) {
	if err := s.spots.TransitionStatus(ctx, spotID, model.SpotOccupied, model.SpotAvailable); err != nil {
		s.cfg.Log.Error("Failed to compensate check-in transition",
			"spot_id", spotID,
			"error", err,
		)
		return
	}
	s.cfg.Log.Warn("Check-in compensated, spot restored", "spot_id", spotID)
}

// CheckOut closes a session, frees the spot, and records the payment in one
// transaction.
func (s *sessionService) CheckOut(ctx context.Context, principal auth.Principal, sessionID string, req *model.CheckOutRequest) (*model.Session, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("Session ID cannot be empty")
	}

	if err := s.validator.ValidateCheckOut(req); err != nil {
		s.cfg.Log.Warn("Check-out validation failed", "session_id", sessionID, "error", err)
		return nil, apperrors.Validation("Check-out validation failed", map[string]any{"error": err.Error()})
	}

	session, err := s.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.Open {
		return nil, apperrors.Conflict("Session already closed")
	}

	checkOutTime := time.Now().UTC().Truncate(time.Millisecond)
	elapsed, err := billing.Elapsed(session.CheckInTime, checkOutTime)
	if err != nil {
		return nil, apperrors.Internal("Session has check-in time in the future", err)
	}
	amount := billing.Amount(elapsed, session.HourlyRate, session.DailyRate)

	err = s.sessions.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.sessions.Close(sessCtx, sessionID, checkOutTime, amount); err != nil {
			if errors.Is(err, parkingerrors.ErrSessionClosed) {
				return apperrors.Conflict("Session already closed")
			}
			if errors.Is(err, parkingerrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Session", sessionID)
			}
			return apperrors.Internal("Failed to close session", err)
		}

		// The spot may have been flagged for maintenance while occupied; in
		// that case it stays in maintenance and the check-out proceeds.
		if err := s.spots.TransitionStatus(sessCtx, session.SpotID, model.SpotOccupied, model.SpotAvailable); err != nil {
			if !errors.Is(err, parkingerrors.ErrStatusConflict) {
				return apperrors.Internal("Failed to free spot", err)
			}
			s.cfg.Log.Warn("Spot not occupied at check-out, leaving status unchanged",
				"spot_id", session.SpotID,
			)
		}

		payment := &model.Payment{
			SessionID: sessionID,
			Amount:    amount,
			Method:    req.PaymentMethod,
			Status:    string(model.PaymentCompleted),
		}
		if err := s.payments.Create(sessCtx, payment); err != nil {
			return apperrors.Internal("Failed to record payment", err)
		}

		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to check out", "session_id", sessionID, "error", err)
		return nil, err
	}

	session.CheckOutTime = &checkOutTime
	session.Open = false
	session.TotalAmount = &amount
	session.PaymentStatus = model.PaymentCompleted

	s.publisher.Publish(ctx, events.EventSessionClosed, session.SpotID, session)

	s.cfg.Log.Info("Session closed",
		"session_id", sessionID,
		"spot_id", session.SpotID,
		"amount", amount,
		"duration", billing.FormatDuration(elapsed),
	)
	return session, nil
}

// CurrentCost previews what the session would cost if checked out now. For
// closed sessions it reports the final billed amount.
func (s *sessionService) CurrentCost(ctx context.Context, principal auth.Principal, sessionID string) (*model.SessionCost, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("Session ID cannot be empty")
	}

	session, err := s.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !session.Open {
		elapsed := session.CheckOutTime.Sub(session.CheckInTime)
		amount := 0.0
		if session.TotalAmount != nil {
			amount = *session.TotalAmount
		}
		return &model.SessionCost{
			SessionID: session.ID,
			Duration:  billing.FormatDuration(elapsed),
			Amount:    amount,
			Open:      false,
		}, nil
	}

	elapsed, err := billing.Elapsed(session.CheckInTime, time.Now().UTC())
	if err != nil {
		return nil, apperrors.Internal("Session has check-in time in the future", err)
	}

	return &model.SessionCost{
		SessionID: session.ID,
		Duration:  billing.FormatDuration(elapsed),
		Amount:    billing.Amount(elapsed, session.HourlyRate, session.DailyRate),
		Open:      true,
	}, nil
}

// --- Helpers ---

func (s *sessionService) getSpot(ctx context.Context, spotID string) (*model.Spot, error) {
	spot, err := s.spots.FindByID(ctx, spotID)
	if err != nil {
		if errors.Is(err, parkingerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Spot", spotID)
		}
		if errors.Is(err, parkingerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid spot ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve spot", err)
	}
	return spot, nil
}

func (s *sessionService) getSession(ctx context.Context, sessionID string) (*model.Session, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, parkingerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Session", sessionID)
		}
		if errors.Is(err, parkingerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid session ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve session", err)
	}
	return session, nil
}

// acquireSpotLock creates an advisory lock to serialize mutations of a spot.
// Returns conflict error if another request holds the lock.
func (s *sessionService) acquireSpotLock(ctx context.Context, spotID string) (string, error) {
	lockID := fmt.Sprintf("spot_lock_%s", spotID)

	lock := &model.SpotLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.SpotLockTTL),
	}

	_, err := s.locks.Create(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This spot is currently being updated by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire spot lock", err)
	}

	return lockID, nil
}

func (s *sessionService) releaseSpotLock(ctx context.Context, lockID string) error {
	return s.locks.Delete(ctx, lockID)
}
