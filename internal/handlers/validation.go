package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/eventlane/auth-service/internal/services"
	"github.com/go-playground/validator/v10"
)

// validate checks request DTO struct tags once at the boundary
var validate = validator.New()

// validateRequest validates a request DTO and returns a user-facing message
// for the first failing field
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		fieldError := validationErrors[0]
		switch fieldError.Tag() {
		case "required":
			return fmt.Errorf("%s is required", fieldError.Field())
		case "email":
			return fmt.Errorf("invalid email format")
		case "min":
			return fmt.Errorf("%s must be at least %s characters", fieldError.Field(), fieldError.Param())
		default:
			return fmt.Errorf("%s is invalid", fieldError.Field())
		}
	}

	return fmt.Errorf("invalid request body")
}

// statusFromError maps domain errors to HTTP status codes. Unrecognized
// errors are reported as a generic server error so internals never leak.
func statusFromError(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrLastAdminDemotion),
		errors.Is(err, services.ErrLastAdminDeletion),
		errors.Is(err, services.ErrSelfDeletion):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
