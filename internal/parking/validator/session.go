package validator

import (
	"errors"
	"parkdeck/pkg/logger"
	"parkdeck/pkg/model"

	"github.com/go-playground/validator/v10"
)

type SessionValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewSessionValidator(log *logger.Logger) *SessionValidator {
	log.Info("Session validator initialized successfully")

	return &SessionValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *SessionValidator) ValidateCheckIn(req *model.CheckInRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *SessionValidator) ValidateCheckOut(req *model.CheckOutRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}
