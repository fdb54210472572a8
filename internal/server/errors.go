package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	geodomain "github.com/smallbiznis/geodata/internal/geo/domain"
	importerdomain "github.com/smallbiznis/geodata/internal/importer/domain"
	searchdomain "github.com/smallbiznis/geodata/internal/search/domain"
	"github.com/smallbiznis/geodata/internal/tabular"
	"github.com/smallbiznis/geodata/pkg/db"
	"gorm.io/gorm"
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
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrConflict       = errors.New("conflict")
	ErrInvalidRequest = errors.New("invalid_request")
	ErrRateLimited    = errors.New("rate_limited")
	ErrImportRunning  = errors.New("import_in_progress")
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
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if code, ok := validationErrorCode(err); ok {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Code:    code,
					Message: "invalid value",
				},
			},
		}
	}

	switch {
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "too many requests",
		}
	case errors.Is(err, ErrImportRunning):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "an import of this sheet is already running",
		}
	case db.IsDuplicateKeyErr(err):
		message := "conflict"
		if key := db.DuplicateKey(err); key != "" {
			message = key + " already exists"
		}
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: message,
		}
	case errors.Is(err, ErrConflict):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
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

func validationErrorCode(err error) (string, bool) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request", true
	case errors.Is(err, searchdomain.ErrUnsupportedLanguage):
		return "unsupported_language", true
	case errors.Is(err, tabular.ErrUnsupportedFormat):
		return "unsupported_format", true
	case errors.Is(err, importerdomain.ErrUnsupportedEntity):
		return "unsupported_entity", true
	default:
		return "", false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, geodomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

// classifyErrorForLog returns the error type and code logged with a request.
func classifyErrorForLog(err error) (string, string) {
	if vErr := asValidationErrors(err); vErr != nil {
		if len(vErr.Errors) > 0 {
			return "validation_error", vErr.Errors[0].Code
		}
		return "validation_error", ""
	}
	if code, ok := validationErrorCode(err); ok {
		return "validation_error", code
	}
	var importErr *importerdomain.ValidationError
	if errors.As(err, &importErr) {
		return "import_rejected", string(importErr.Entity)
	}
	if isNotFoundError(err) {
		return "not_found", "not_found"
	}
	if errors.Is(err, ErrRateLimited) {
		return "rate_limited", "rate_limited"
	}
	if errors.Is(err, ErrImportRunning) {
		return "conflict", "import_in_progress"
	}
	if db.IsDuplicateKeyErr(err) {
		return "conflict", "duplicate_key"
	}
	return "internal_error", "internal_error"
}
