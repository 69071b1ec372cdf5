package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/ramrodpineapple01/autoexel/internal/middleware"
)

// Error code constants for standardized error responses
const (
	ErrNotFound        = "NOT_FOUND"
	ErrBadRequest      = "BAD_REQUEST"
	ErrInternalServer  = "INTERNAL_SERVER_ERROR"
	ErrValidation      = "VALIDATION_ERROR"
	ErrDecode          = "DECODE_ERROR"
	ErrImportRowErrors = "IMPORT_ROW_ERRORS"
	ErrStorage         = "STORAGE_ERROR"
	ErrTooLarge        = "REQUEST_TOO_LARGE"
)

// ErrorResponse is the top-level error response structure.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

// respond logs a client-side failure at Warn and writes the envelope.
func respond(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	requestID := middleware.GetRequestID(c)

	if log := middleware.GetLogger(c); log != nil {
		fields := map[string]interface{}{
			"code":       code,
			"message":    message,
			"request_id": requestID,
			"path":       c.Request.URL.Path,
		}
		if details != nil {
			fields["details"] = details
		}
		log.Warn("Request rejected", fields)
	}

	c.JSON(status, ErrorResponse{
		Error: ErrorDetail{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: requestID,
		},
	})
}

// NotFound returns a 404 Not Found error response.
func NotFound(c *gin.Context, message string) {
	respond(c, http.StatusNotFound, ErrNotFound, message, nil)
}

// BadRequest returns a 400 Bad Request error response with optional details.
func BadRequest(c *gin.Context, message string, details map[string]interface{}) {
	respond(c, http.StatusBadRequest, ErrBadRequest, message, details)
}

// HeaderMismatch returns a 400 response for a CSV whose header lacks
// required columns, listing what was missing and what was found.
func HeaderMismatch(c *gin.Context, message string, missing, found []string) {
	if missing == nil {
		missing = []string{}
	}
	if found == nil {
		found = []string{}
	}
	respond(c, http.StatusBadRequest, ErrValidation, message, map[string]interface{}{
		"missing": missing,
		"found":   found,
	})
}

// DecodeFailed returns a 400 response for an upload that is not text in
// any supported encoding.
func DecodeFailed(c *gin.Context, message string) {
	respond(c, http.StatusBadRequest, ErrDecode, message, nil)
}

// ImportFailed returns a 422 response for an import with row errors.
// Rows without errors were still applied; imported says how many.
func ImportFailed(c *gin.Context, imported int, rowErrors []string, errorCount int) {
	if rowErrors == nil {
		rowErrors = []string{}
	}
	respond(c, http.StatusUnprocessableEntity, ErrImportRowErrors, "Import completed with errors", map[string]interface{}{
		"imported":    imported,
		"errors":      rowErrors,
		"error_count": errorCount,
	})
}

// TooLarge returns a 413 response for an upload over the body limit.
func TooLarge(c *gin.Context, limit int64) {
	respond(c, http.StatusRequestEntityTooLarge, ErrTooLarge, "Request body exceeds the upload limit", map[string]interface{}{
		"limit_bytes": limit,
	})
}

// StorageFailure returns a 500 response when the backing store could not
// be read or written. The cause is logged, not sent to the client.
func StorageFailure(c *gin.Context, err error) {
	log := middleware.GetLogger(c)
	requestID := middleware.GetRequestID(c)

	if log != nil {
		log.Error("Storage failure", err, map[string]interface{}{
			"request_id": requestID,
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
		})
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error: ErrorDetail{
			Code:      ErrStorage,
			Message:   "The data file could not be read or written",
			RequestID: requestID,
		},
	})
}

// InternalServerError returns a 500 Internal Server Error response.
// The error is logged with full context; only message reaches the client.
func InternalServerError(c *gin.Context, message string, err error) {
	log := middleware.GetLogger(c)
	requestID := middleware.GetRequestID(c)

	if log != nil {
		log.Error("Internal server error", err, map[string]interface{}{
			"message":    message,
			"request_id": requestID,
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
		})
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error: ErrorDetail{
			Code:      ErrInternalServer,
			Message:   message,
			RequestID: requestID,
		},
	})
}

// ValidationError returns a 400 response with one message per failed field.
func ValidationError(c *gin.Context, validationErrors validator.ValidationErrors) {
	details := make(map[string]interface{}, len(validationErrors))
	for _, err := range validationErrors {
		details[err.Field()] = formatValidationError(err)
	}

	respond(c, http.StatusBadRequest, ErrValidation, "Validation failed for one or more fields", details)
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "max":
		return "Value is too long (maximum: " + err.Param() + ")"
	case "min":
		return "Value is too short (minimum: " + err.Param() + ")"
	case "oneof":
		return "Must be one of: " + err.Param()
	case "dive":
		return "Invalid list entry"
	default:
		return "Validation failed for tag: " + err.Tag()
	}
}
