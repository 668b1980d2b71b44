// Package validator converts ozzo-validation failures into layered errors.
package validator

import (
	"github.com/cgslivre/flight/errcode"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validatable is anything that can check itself.
type Validatable interface {
	Validate() error
}

// ValidateRequest runs v's validation and converts ozzo field errors into
// a LayeredError carrying per-field messages. Non-ozzo errors pass
// through untouched.
func ValidateRequest(v Validatable) error {
	err := v.Validate()
	if err == nil {
		return nil
	}

	if validationErrs, ok := err.(validation.Errors); ok {
		return ConvertValidationError(validationErrs)
	}

	return err
}

// ConvertValidationError flattens ozzo field errors into the common
// validation-failed error's data map.
func ConvertValidationError(validationErrs validation.Errors) error {
	fields := make(map[string]string)
	for field, fieldErr := range validationErrs {
		if fieldErr != nil {
			fields[field] = fieldErr.Error()
		}
	}

	return errcode.New(
		1, 1010,
		"common",
		"error.common.validation_failed",
		"validation failed",
		400,
	).WithData("fields", fields)
}
