package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	delinquencydomain "github.com/smallbiznis/rentfolio/internal/delinquency/domain"
	importerdomain "github.com/smallbiznis/rentfolio/internal/importer/domain"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrInternal       = errors.New("internal_error")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case errors.Is(err, importerdomain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, errorPayload{
			Type:    "file_too_large",
			Message: "uploaded file is too large",
		}
	case errors.Is(err, importerdomain.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType, errorPayload{
			Type:    "unsupported_format",
			Message: "only csv and xlsx files are supported",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, importerdomain.ErrInvalidOrganization),
		errors.Is(err, importerdomain.ErrInvalidID),
		errors.Is(err, importerdomain.ErrInvalidDataType),
		errors.Is(err, importerdomain.ErrInvalidSource),
		errors.Is(err, importerdomain.ErrEmptyFile),
		errors.Is(err, importerdomain.ErrInvalidMapping),
		errors.Is(err, delinquencydomain.ErrInvalidOrganization),
		errors.Is(err, delinquencydomain.ErrInvalidID),
		errors.Is(err, delinquencydomain.ErrInvalidName),
		errors.Is(err, delinquencydomain.ErrInvalidGracePeriod),
		errors.Is(err, delinquencydomain.ErrInvalidIntervals):
		return true
	}
	return false
}

func isNotFoundError(err error) bool {
	return errors.Is(err, importerdomain.ErrNotFound) ||
		errors.Is(err, delinquencydomain.ErrNotFound)
}

func isConflictError(err error) bool {
	return errors.Is(err, importerdomain.ErrJobNotEditable) ||
		errors.Is(err, importerdomain.ErrJobNotExecutable) ||
		errors.Is(err, importerdomain.ErrJobNotRollbackable)
}
