// Package services implements the community operations on top of the
// tabular store: directory CRUD, board and committee rosters, lot owners
// and the lot map, plus CSV bulk import.
package services

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Service-level errors
var (
	ErrEntryNotFound  = errors.New("directory entry not found")
	ErrRegionNotFound = errors.New("lot map region not found")
	ErrInvalidInput   = errors.New("invalid input")
)

// rowValidator checks typed records against the same `binding` tags the
// HTTP layer uses, so imported rows obey the limits of JSON requests.
var rowValidator = newRowValidator()

func newRowValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	// Report fields by their header names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
