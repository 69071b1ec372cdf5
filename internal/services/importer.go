package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ramrodpineapple01/autoexel/internal/csvimport"
	"github.com/ramrodpineapple01/autoexel/internal/logger"
	"github.com/ramrodpineapple01/autoexel/internal/repository"
)

// MaxReportedRowErrors caps the row errors kept in an ImportResult.
const MaxReportedRowErrors = 5

// ImportResult summarizes a bulk import. Any row error marks the import
// failed even when other rows were applied.
type ImportResult struct {
	Imported   int
	RowErrors  []csvimport.RowError
	ErrorCount int
	Encoding   string
}

// Failed reports whether any row could not be imported.
func (r *ImportResult) Failed() bool {
	return r.ErrorCount > 0
}

// Messages renders the reported row errors.
func (r *ImportResult) Messages() []string {
	out := make([]string, len(r.RowErrors))
	for i, e := range r.RowErrors {
		out[i] = fmt.Sprintf("Row %d: %v", e.Row, e.Err)
	}
	return out
}

func (r *ImportResult) addError(e csvimport.RowError) {
	r.ErrorCount++
	if len(r.RowErrors) < MaxReportedRowErrors {
		r.RowErrors = append(r.RowErrors, e)
	}
}

// importSpec describes one importable table.
type importSpec struct {
	table   string
	columns csvimport.Columns
	// apply writes one record into the batch.
	apply func(tx *repository.Tx, rec csvimport.Record) error
}

// errNothingImported ends a batch without writing when no row applied.
var errNothingImported = errors.New("no rows imported")

// runImport decodes data, validates its header and applies every record
// inside one store batch, so the whole import persists once.
// Decode and header failures are returned before anything is applied.
func runImport(ctx context.Context, store repository.Store, log *logger.Logger, data []byte, spec importSpec) (*ImportResult, error) {
	text, encoding, err := csvimport.Decode(data)
	if err != nil {
		log.Warn("Import file could not be decoded", map[string]interface{}{
			"bytes": len(data),
		})
		return nil, err
	}

	reader, err := csvimport.NewReader(strings.NewReader(text), spec.columns)
	if err != nil {
		log.Warn("Import header rejected", map[string]interface{}{
			"encoding": encoding,
			"error":    err.Error(),
		})
		return nil, err
	}

	result := &ImportResult{Encoding: encoding}
	debug := log.DebugEnabled()
	reject := func(e csvimport.RowError) {
		result.addError(e)
		if debug {
			log.Debug("Import row rejected", map[string]interface{}{
				"row":   e.Row,
				"error": e.Err.Error(),
			})
		}
	}

	err = store.Batch(ctx, func(tx *repository.Tx) error {
		for {
			rec, row, err := reader.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				var rowErr csvimport.RowError
				if !errors.As(err, &rowErr) {
					rowErr = csvimport.RowError{Row: row, Err: err}
				}
				reject(rowErr)
				continue
			}

			if err := spec.apply(tx, rec); err != nil {
				reject(csvimport.RowError{Row: row, Err: err})
				continue
			}
			result.Imported++
		}

		if result.Imported == 0 {
			return errNothingImported
		}
		return nil
	})
	if err != nil && !errors.Is(err, errNothingImported) {
		log.Error("Failed to persist import", err, nil)
		return nil, fmt.Errorf("failed to import %s: %w", spec.table, err)
	}

	fields := map[string]interface{}{
		"encoding":    encoding,
		"imported":    result.Imported,
		"error_count": result.ErrorCount,
	}
	if result.Failed() {
		log.Warn("Import finished with row errors", fields)
	} else {
		log.Info("Import finished", fields)
	}

	return result, nil
}

// validateRecord runs the binding rules of v and flattens failures into
// one row-level message.
func validateRecord(v interface{}) error {
	err := rowValidator.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s exceeds %s characters", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
}
