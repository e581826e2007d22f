package service

import (
	"context"
	"errors"
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
	"sync"
)

type SpotService interface {
	Create(ctx context.Context, principal auth.Principal, spot *model.Spot) error
	GetByID(ctx context.Context, principal auth.Principal, id string) (*model.Spot, error)
	ListByLot(ctx context.Context, principal auth.Principal, lotID string, status model.SpotStatus, limit int, offset int64) ([]*model.Spot, int64, error)
	SetMaintenance(ctx context.Context, principal auth.Principal, id string) error
	ClearMaintenance(ctx context.Context, principal auth.Principal, id string) error
}

type spotService struct {
	spots     repository.SpotRepository
	validator *validator.SpotValidator
	publisher *events.Publisher
	cfg       *config.Config
}

func NewSpotService(
	spots repository.SpotRepository,
	validator *validator.SpotValidator,
	publisher *events.Publisher,
	cfg *config.Config,
) SpotService {
	return &spotService{
		spots:     spots,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *spotService) Create(ctx context.Context, principal auth.Principal, spot *model.Spot) error {
	if !principal.Role.AtLeast(auth.RoleAdmin) {
		return apperrors.Forbidden("Creating spots requires admin role")
	}

	spot.SpotNumber = sanitizer.TrimAndNormalize(spot.SpotNumber)
	if spot.Status == "" {
		spot.Status = model.SpotAvailable
	}

	if err := s.validator.Validate(spot); err != nil {
		s.cfg.Log.Warn("Spot validation failed", "error", err)
		return apperrors.Validation("Spot validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.spots.Create(ctx, spot); err != nil {
		s.cfg.Log.Error("Failed to create spot", "error", err)
		return apperrors.Internal("Failed to create spot", err)
	}

	s.cfg.Log.Info("Spot created", "spot_id", spot.ID, "lot_id", spot.LotID, "spot_number", spot.SpotNumber)
	return nil
}

func (s *spotService) GetByID(ctx context.Context, principal auth.Principal, id string) (*model.Spot, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Spot ID cannot be empty")
	}

	spot, err := s.spots.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, parkingerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Spot", id)
		}
		if errors.Is(err, parkingerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid spot ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve spot", err)
	}

	return spot, nil
}

func (s *spotService) ListByLot(ctx context.Context, principal auth.Principal, lotID string, status model.SpotStatus, limit int, offset int64) ([]*model.Spot, int64, error) {
	if lotID == "" {
		return nil, 0, apperrors.InvalidInput("Lot ID cannot be empty")
	}

	var count int64
	var spots []*model.Spot
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.spots.CountByLot(ctx, lotID, status)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count spots", "lot_id", lotID, "error", errCount)
			errCount = apperrors.Internal("Failed to count spots", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		spots, errFind = s.spots.FindByLot(ctx, lotID, status, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list spots", "lot_id", lotID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve spots", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return spots, count, nil
}

// SetMaintenance flags a spot for maintenance. Legal from any status; the
// transition is still conditional on the status read here, so a concurrent
// change surfaces as a conflict instead of a lost update.
func (s *spotService) SetMaintenance(ctx context.Context, principal auth.Principal, id string) error {
	if !principal.Role.AtLeast(auth.RoleAdmin) {
		return apperrors.Forbidden("Maintenance operations require admin role")
	}

	spot, err := s.GetByID(ctx, principal, id)
	if err != nil {
		return err
	}
	if spot.Status == model.SpotMaintenance {
		return nil
	}

	if err := s.spots.TransitionStatus(ctx, id, spot.Status, model.SpotMaintenance); err != nil {
		if errors.Is(err, parkingerrors.ErrStatusConflict) {
			return apperrors.Conflict("Spot status changed while flagging maintenance. Please try again.")
		}
		return apperrors.Internal("Failed to flag spot for maintenance", err)
	}

	s.publisher.Publish(ctx, events.EventSpotStatusChanged, id, map[string]any{
		"spot_id": id,
		"from":    spot.Status,
		"to":      model.SpotMaintenance,
	})

	s.cfg.Log.Info("Spot flagged for maintenance", "spot_id", id, "prior_status", spot.Status)
	return nil
}

func (s *spotService) ClearMaintenance(ctx context.Context, principal auth.Principal, id string) error {
	if !principal.Role.AtLeast(auth.RoleAdmin) {
		return apperrors.Forbidden("Maintenance operations require admin role")
	}

	next, err := state.Next(model.SpotMaintenance, state.EventClearMaintenance)
	if err != nil {
		return apperrors.Internal("Invalid maintenance transition", err)
	}

	if err := s.spots.TransitionStatus(ctx, id, model.SpotMaintenance, next); err != nil {
		if errors.Is(err, parkingerrors.ErrStatusConflict) {
			return apperrors.Conflict("Spot is not under maintenance")
		}
		if errors.Is(err, parkingerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid spot ID format")
		}
		return apperrors.Internal("Failed to clear maintenance", err)
	}

	s.publisher.Publish(ctx, events.EventSpotStatusChanged, id, map[string]any{
		"spot_id": id,
		"from":    model.SpotMaintenance,
		"to":      next,
	})

	s.cfg.Log.Info("Spot maintenance cleared", "spot_id", id)
	return nil
}
