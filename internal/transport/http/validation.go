package http

import (
	"errors"
	"fmt"

	"github.com/devmetrics/gitpulse/internal/constants"
	"github.com/go-playground/validator/v10"
)

// validationError maps a validator failure to the request-body APIError,
// surfacing the first offending field.
func validationError(err error) constants.APIError {
	apiErr := constants.ErrInvalidRequestBody

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return apiErr
	}

	e := validationErrs[0]
	switch e.Tag() {
	case "sharetype", "exporttype":
		return constants.ErrInvalidShareType
	case "required":
		return apiErr.WithMessage(fmt.Sprintf("%s is required", e.Field()))
	case "notblank":
		return apiErr.WithMessage(fmt.Sprintf("%s must not be blank", e.Field()))
	case "min", "max":
		return apiErr.WithMessage(fmt.Sprintf("%s is out of range", e.Field()))
	}
	return apiErr.WithMessage(fmt.Sprintf("%s is invalid", e.Field()))
}
