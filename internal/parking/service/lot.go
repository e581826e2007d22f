package service

import (
	"context"
	"errors"
	parkingerrors "parkdeck/internal/parking/errors"
	"parkdeck/internal/parking/repository"
	"parkdeck/internal/parking/validator"
	"parkdeck/pkg/auth"
	"parkdeck/pkg/config"
	apperrors "parkdeck/pkg/errors"
	"parkdeck/pkg/model"
	"parkdeck/pkg/sanitizer"
	"sync"
)

type LotService interface {
	Create(ctx context.Context, principal auth.Principal, lot *model.Lot) error
	GetByID(ctx context.Context, principal auth.Principal, id string) (*model.Lot, error)
	GetAll(ctx context.Context, principal auth.Principal, limit int, offset int64) ([]*model.Lot, int64, error)
}

type lotService struct {
	lots      repository.LotRepository
	validator *validator.LotValidator
	cfg       *config.Config
}

func NewLotService(lots repository.LotRepository, validator *validator.LotValidator, cfg *config.Config) LotService {
	return &lotService{
		lots:      lots,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *lotService) Create(ctx context.Context, principal auth.Principal, lot *model.Lot) error {
	if !principal.Role.AtLeast(auth.RoleAdmin) {
		return apperrors.Forbidden("Creating lots requires admin role")
	}

	lot.Name = sanitizer.NormalizeName(lot.Name)
	lot.Address = sanitizer.NormalizeName(lot.Address)

	if err := s.validator.Validate(lot); err != nil {
		s.cfg.Log.Warn("Lot validation failed", "error", err)
		return apperrors.Validation("Lot validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.lots.Create(ctx, lot); err != nil {
		s.cfg.Log.Error("Failed to create lot", "error", err)
		return apperrors.Internal("Failed to create lot", err)
	}

	s.cfg.Log.Info("Lot created", "lot_id", lot.ID, "name", lot.Name)
	return nil
}

func (s *lotService) GetByID(ctx context.Context, principal auth.Principal, id string) (*model.Lot, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Lot ID cannot be empty")
	}

	lot, err := s.lots.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, parkingerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Lot", id)
		}
		if errors.Is(err, parkingerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid lot ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve lot", err)
	}

	return lot, nil
}

func (s *lotService) GetAll(ctx context.Context, principal auth.Principal, limit int, offset int64) ([]*model.Lot, int64, error) {
	var count int64
	var lots []*model.Lot
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.lots.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count lots", "error", errCount)
			errCount = apperrors.Internal("Failed to count lots", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		lots, errFind = s.lots.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list lots", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve lots", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return lots, count, nil
}
