package service

import (
	"context"
	"errors"
	"fmt"
	"parkdeck/internal/parking/conflict"
	parkingerrors "parkdeck/internal/parking/errors"
	"parkdeck/internal/parking/events"
	"parkdeck/internal/parking/repository"
	"parkdeck/internal/parking/validator"
	"parkdeck/pkg/auth"
	"parkdeck/pkg/config"
	apperrors "parkdeck/pkg/errors"
	"parkdeck/pkg/model"
	"parkdeck/pkg/sanitizer"
	"parkdeck/pkg/sealer"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

type ReservationService interface {
	Create(ctx context.Context, principal auth.Principal, req *model.ReservationRequest) (*model.Reservation, error)
	GetByID(ctx context.Context, principal auth.Principal, id string) (*model.Reservation, error)
	GetByConfirmation(ctx context.Context, principal auth.Principal, token string) (*model.Reservation, error)
	Cancel(ctx context.Context, principal auth.Principal, id string) error
	ListBySpot(ctx context.Context, principal auth.Principal, spotID string, limit int, offset int64) ([]*model.Reservation, int64, error)
	ListActiveBySpot(ctx context.Context, principal auth.Principal, spotID string) ([]*model.Reservation, error)
}

type reservationService struct {
	reservations repository.ReservationRepository
	spots        repository.SpotRepository
	locks        repository.SpotLockRepository
	validator    *validator.ReservationValidator
	publisher    *events.Publisher
	cfg          *config.Config
}

func NewReservationService(
	reservations repository.ReservationRepository,
	spots repository.SpotRepository,
	locks repository.SpotLockRepository,
	validator *validator.ReservationValidator,
	publisher *events.Publisher,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		reservations: reservations,
		spots:        spots,
		locks:        locks,
		validator:    validator,
		publisher:    publisher,
		cfg:          cfg,
	}
}

// Create places a time-window hold on a spot. Open-ended requests (no end
// time) are stored with end_time = start_time + the configured horizon and
// block the spot until cancelled.
func (s *reservationService) Create(ctx context.Context, principal auth.Principal, req *model.ReservationRequest) (*model.Reservation, error) {
	s.sanitize(req)
	if req.UserID == "" {
		req.UserID = principal.UserID
	}
	if req.UserID != principal.UserID && !principal.Role.AtLeast(auth.RoleAdmin) {
		return nil, apperrors.Forbidden("Reserving on behalf of another user requires admin role")
	}

	if err := s.validator.ValidateRequest(req); err != nil {
		s.cfg.Log.Warn("Reservation validation failed", "error", err)
		return nil, apperrors.Validation("Reservation validation failed", map[string]any{"error": err.Error()})
	}

	spot, err := s.getSpot(ctx, req.SpotID)
	if err != nil {
		return nil, err
	}
	// A reserved spot can hold further non-overlapping windows; occupied and
	// maintenance spots cannot be reserved.
	if spot.Status != model.SpotAvailable && spot.Status != model.SpotReserved {
		return nil, apperrors.Conflict(fmt.Sprintf("Cannot reserve spot in status %q", spot.Status))
	}

	end := conflict.Open()
	if req.EndTime != nil {
		end = conflict.At(*req.EndTime)
	}
	candidate := conflict.Window{Start: req.StartTime, End: end}

	lockID, err := s.acquireSpotLock(ctx, spot.ID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.releaseSpotLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release spot lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	reservation := &model.Reservation{
		SpotID:        spot.ID,
		UserID:        req.UserID,
		StartTime:     req.StartTime.UTC().Truncate(time.Millisecond),
		EndTime:       end.Resolve(req.StartTime, s.cfg.OpenEndedHorizon).UTC().Truncate(time.Millisecond),
		Status:        model.ReservationPending,
		VehiclePlate:  req.VehiclePlate,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
	}

	err = s.reservations.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNoOverlap(sessCtx, spot.ID, candidate); err != nil {
			return err
		}

		if err := s.reservations.Create(sessCtx, reservation); err != nil {
			return apperrors.Internal("Failed to create reservation", err)
		}

		if spot.Status == model.SpotAvailable {
			if err := s.spots.TransitionStatus(sessCtx, spot.ID, model.SpotAvailable, model.SpotReserved); err != nil {
				if errors.Is(err, parkingerrors.ErrStatusConflict) {
					return apperrors.Conflict("Spot status changed while reserving. Please try again.")
				}
				return apperrors.Internal("Failed to reserve spot", err)
			}
		}

		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create reservation", "spot_id", spot.ID, "error", err)
		return nil, err
	}

	token, err := sealer.CreateConfirmationToken(spot.ID, reservation.ID)
	if err != nil {
		s.cfg.Log.Warn("Failed to create confirmation token", "reservation_id", reservation.ID, "error", err)
	} else {
		reservation.ConfirmationToken = token
	}

	s.publisher.Publish(ctx, events.EventReservationCreated, spot.ID, reservation)

	s.cfg.Log.Info("Reservation created",
		"reservation_id", reservation.ID,
		"spot_id", spot.ID,
		"start_time", reservation.StartTime,
		"end_time", reservation.EndTime,
	)
	return reservation, nil
}

func (s *reservationService) GetByID(ctx context.Context, principal auth.Principal, id string) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	reservation, err := s.reservations.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, parkingerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservation", id)
		}
		if errors.Is(err, parkingerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid reservation ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve reservation", err)
	}

	return reservation, nil
}

// GetByConfirmation resolves an opaque confirmation token back to its
// reservation.
func (s *reservationService) GetByConfirmation(ctx context.Context, principal auth.Principal, token string) (*model.Reservation, error) {
	if token == "" {
		return nil, apperrors.InvalidInput("Confirmation token cannot be empty")
	}

	spotID, reservationID, err := sealer.ParseConfirmationToken(token)
	if err != nil {
		return nil, apperrors.InvalidInput("Invalid confirmation token")
	}

	reservation, err := s.GetByID(ctx, principal, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation.SpotID != spotID {
		return nil, apperrors.InvalidInput("Invalid confirmation token")
	}

	return reservation, nil
}

// Cancel releases a pending reservation. When the last active reservation on
// a reserved spot goes away, the spot returns to available.
func (s *reservationService) Cancel(ctx context.Context, principal auth.Principal, id string) error {
	reservation, err := s.GetByID(ctx, principal, id)
	if err != nil {
		return err
	}

	lockID, err := s.acquireSpotLock(ctx, reservation.SpotID)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releaseSpotLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release spot lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.reservations.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.reservations.UpdateStatus(sessCtx, id, model.ReservationPending, model.ReservationCancelled); err != nil {
			if errors.Is(err, parkingerrors.ErrStatusConflict) {
				return apperrors.Conflict("Reservation is not pending")
			}
			if errors.Is(err, parkingerrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Reservation", id)
			}
			return apperrors.Internal("Failed to cancel reservation", err)
		}

		remaining, err := s.reservations.FindActiveBySpot(sessCtx, reservation.SpotID)
		if err != nil {
			return apperrors.Internal("Failed to check remaining reservations", err)
		}

		// A window that already ended no longer holds the spot.
		now := time.Now().UTC()
		live := 0
		for _, r := range remaining {
			if !r.EndTime.Before(now) {
				live++
			}
		}

		if live == 0 {
			if err := s.spots.TransitionStatus(sessCtx, reservation.SpotID, model.SpotReserved, model.SpotAvailable); err != nil {
				// The spot may be occupied or in maintenance; it keeps that
				// status and the cancellation still goes through.
				if !errors.Is(err, parkingerrors.ErrStatusConflict) {
					return apperrors.Internal("Failed to release spot", err)
				}
				s.cfg.Log.Warn("Spot not in reserved status at cancellation, leaving status unchanged",
					"spot_id", reservation.SpotID,
				)
			}
		}

		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to cancel reservation", "reservation_id", id, "error", err)
		return err
	}

	reservation.Status = model.ReservationCancelled
	s.publisher.Publish(ctx, events.EventReservationCancelled, reservation.SpotID, reservation)

	s.cfg.Log.Info("Reservation cancelled", "reservation_id", id, "spot_id", reservation.SpotID)
	return nil
}

func (s *reservationService) ListBySpot(ctx context.Context, principal auth.Principal, spotID string, limit int, offset int64) ([]*model.Reservation, int64, error) {
	if spotID == "" {
		return nil, 0, apperrors.InvalidInput("Spot ID cannot be empty")
	}

	var count int64
	var reservations []*model.Reservation
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.reservations.CountBySpot(ctx, spotID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count reservations", "spot_id", spotID, "error", errCount)
			errCount = apperrors.Internal("Failed to count reservations", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		reservations, errFind = s.reservations.FindBySpot(ctx, spotID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list reservations", "spot_id", spotID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve reservations", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return reservations, count, nil
}

// ListActiveBySpot returns the spot's pending, not-yet-ended reservations
// sorted by start time, the set the availability view cares about.
func (s *reservationService) ListActiveBySpot(ctx context.Context, principal auth.Principal, spotID string) ([]*model.Reservation, error) {
	if spotID == "" {
		return nil, apperrors.InvalidInput("Spot ID cannot be empty")
	}

	reservations, err := s.reservations.FindActiveBySpot(ctx, spotID)
	if err != nil {
		s.cfg.Log.Error("Failed to list active reservations", "spot_id", spotID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve reservations", err)
	}

	return reservations, nil
}

// --- Helpers ---

func (s *reservationService) sanitize(req *model.ReservationRequest) {
	req.VehiclePlate = sanitizer.NormalizePlate(req.VehiclePlate)
	req.CustomerName = sanitizer.NormalizeName(req.CustomerName)
	req.CustomerEmail = sanitizer.TrimAndNormalize(req.CustomerEmail)
	req.CustomerPhone = sanitizer.SanitizePhone(req.CustomerPhone)
}

// verifyNoOverlap walks the spot's pending reservations and rejects the
// candidate if its window touches any of them. Boundaries are inclusive.
func (s *reservationService) verifyNoOverlap(ctx context.Context, spotID string, candidate conflict.Window) error {
	active, err := s.reservations.FindActiveBySpot(ctx, spotID)
	if err != nil {
		return apperrors.Internal("Failed to check existing reservations", err)
	}

	windows := make([]conflict.Window, len(active))
	for i, r := range active {
		windows[i] = conflict.Window{Start: r.StartTime, End: conflict.At(r.EndTime)}
	}

	if i := conflict.FirstOverlap(candidate, windows, s.cfg.OpenEndedHorizon); i >= 0 {
		return apperrors.Conflict(fmt.Sprintf(
			"Reservation window overlaps with existing reservation (%s - %s)",
			active[i].StartTime.Format(time.RFC3339),
			active[i].EndTime.Format(time.RFC3339),
		))
	}
	return nil
}

func (s *reservationService) getSpot(ctx context.Context, spotID string) (*model.Spot, error) {
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

func (s *reservationService) acquireSpotLock(ctx context.Context, spotID string) (string, error) {
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

func (s *reservationService) releaseSpotLock(ctx context.Context, lockID string) error {
	return s.locks.Delete(ctx, lockID)
}
