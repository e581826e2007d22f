package validator

import (
	"errors"
	"parkdeck/pkg/logger"
	"parkdeck/pkg/model"

	"github.com/go-playground/validator/v10"
)

type SpotValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewSpotValidator(log *logger.Logger) *SpotValidator {
	log.Info("Spot validator initialized successfully")

	return &SpotValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *SpotValidator) Validate(spot *model.Spot) error {
	if err := v.validate.Struct(spot); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

type LotValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewLotValidator(log *logger.Logger) *LotValidator {
	log.Info("Lot validator initialized successfully")

	return &LotValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *LotValidator) Validate(lot *model.Lot) error {
	if err := v.validate.Struct(lot); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}
