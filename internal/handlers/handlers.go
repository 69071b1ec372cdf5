// Package handlers exposes the community services over HTTP with gin.
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/ramrodpineapple01/autoexel/internal/csvimport"
	apierrors "github.com/ramrodpineapple01/autoexel/internal/errors"
	"github.com/ramrodpineapple01/autoexel/internal/middleware"
	"github.com/ramrodpineapple01/autoexel/internal/repository"
	"github.com/ramrodpineapple01/autoexel/internal/services"
)

// SuccessResponse is the body returned by mutations.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func success(message string) SuccessResponse {
	return SuccessResponse{Success: true, Message: message}
}

// ImportResponse reports a bulk import that applied every row.
type ImportResponse struct {
	SuccessResponse
	Imported int    `json:"imported"`
	Encoding string `json:"encoding"`
}

// looseString accepts a JSON string or number, keeping the number's text.
// Older clients send years and lot numbers as numbers.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = looseString(str)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("expected a string or number, got %s", data)
	}
	*s = looseString(num.String())
	return nil
}

// bindJSON binds the request body into obj with gin and applies its binding
// rules. It writes the error response itself and reports whether the
// handler may continue.
func bindJSON(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	// Body cut off by the upload limit
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		apierrors.TooLarge(c, maxErr.Limit)
		return false
	}

	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		apierrors.ValidationError(c, validationErrs)
		return false
	}

	// Malformed JSON, wrong types and unknown fields
	apierrors.BadRequest(c, "Invalid request body", map[string]interface{}{
		"error": err.Error(),
	})
	return false
}

// readUpload returns the bytes of the multipart "file" field, writing an
// error response when there is none.
func readUpload(c *gin.Context) ([]byte, bool) {
	header, err := c.FormFile("file")
	if err != nil {
		// Multipart parsing hit the upload limit
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			apierrors.TooLarge(c, maxErr.Limit)
			return nil, false
		}
		apierrors.BadRequest(c, "No file provided", nil)
		return nil, false
	}
	if header.Filename == "" {
		apierrors.BadRequest(c, "No file selected", nil)
		return nil, false
	}

	f, err := header.Open()
	if err != nil {
		apierrors.InternalServerError(c, "Failed to read uploaded file", err)
		return nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to read uploaded file", err)
		return nil, false
	}

	if log := middleware.GetLogger(c); log != nil {
		log.Debug("Upload received", map[string]interface{}{
			"filename": header.Filename,
			"bytes":    len(data),
		})
	}
	return data, true
}

// writeImport answers a finished import: 200 when every row applied and
// 422 with the row errors otherwise.
func writeImport(c *gin.Context, result *services.ImportResult, noun string) {
	if result.Failed() {
		apierrors.ImportFailed(c, result.Imported, result.Messages(), result.ErrorCount)
		return
	}

	c.JSON(http.StatusOK, ImportResponse{
		SuccessResponse: success(fmt.Sprintf("Successfully imported %d %s", result.Imported, noun)),
		Imported:        result.Imported,
		Encoding:        result.Encoding,
	})
}

// writeTemplate sends a CSV template as a file download.
func writeTemplate(c *gin.Context, tpl csvimport.Template) {
	var buf bytes.Buffer
	if _, err := tpl.WriteTo(&buf); err != nil {
		apierrors.InternalServerError(c, "Failed to build template", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", tpl.Filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// writeServiceError maps a service or store error onto the error envelope.
func writeServiceError(c *gin.Context, err error, message string) {
	var headerErr *csvimport.HeaderError
	var storageErr *repository.StorageError

	switch {
	case errors.As(err, &headerErr):
		apierrors.HeaderMismatch(c, headerErr.Error(), headerErr.Missing, headerErr.Found)
	case errors.Is(err, csvimport.ErrMalformedHeader):
		apierrors.BadRequest(c, err.Error(), nil)
	case errors.Is(err, csvimport.ErrDecode):
		apierrors.DecodeFailed(c, "File is not valid UTF-8, Latin-1 or Windows-1252 text")
	case errors.Is(err, services.ErrEntryNotFound):
		apierrors.NotFound(c, "Entry not found")
	case errors.Is(err, services.ErrRegionNotFound):
		apierrors.NotFound(c, "Region not found")
	case errors.Is(err, services.ErrInvalidInput):
		apierrors.BadRequest(c, err.Error(), nil)
	case errors.As(err, &storageErr):
		apierrors.StorageFailure(c, err)
	default:
		apierrors.InternalServerError(c, message, err)
	}
}
