// Package validation contains the logic for validating
// request data.
//
// It binds the request with Echo, runs the payload's own Validate
// (go-playground/validator struct tags) and turns every failure into the
// flattened 400 response, keeping the field detail for the logs.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/deppfellow/cosmic-travel/internal/errs"
	"github.com/deppfellow/cosmic-travel/internal/model"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validatable is implemented by request payload types that know how to validate themselves.
//
// Typical pattern:
// - Define a request struct with validator tags (`validate:"required,gt=0"`)
// - Implement Validate() error that runs validator.Struct(req)
type Validatable interface {
	Validate() error
}

// PathBound is implemented by payloads that take only path parameters from
// the request; their handler reads the body itself.
type PathBound interface {
	BindsPathOnly() bool
}

// BindAndValidate binds request data into payload and validates it.
//
// Flow:
// 1) c.Bind(payload) populates the struct from path params and the body.
// 2) payload.Validate() applies validation rules.
// 3) Returns *errs.HTTPError (400) if either step fails.
//
// Malformed JSON and wrong JSON types are reported exactly like a missing
// field: the client cannot tell them apart.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if p, ok := payload.(PathBound); ok && p.BindsPathOnly() {
		if err := new(echo.DefaultBinder).BindPathParams(c, payload); err != nil {
			return errs.NewValidationError(errs.FieldError{
				Field: "path",
				Error: bindErrorMessage(err),
			})
		}
		return payload.Validate()
	}

	if err := c.Bind(payload); err != nil {
		return errs.NewValidationError(errs.FieldError{
			Field: "body",
			Error: bindErrorMessage(err),
		})
	}

	if err := payload.Validate(); err != nil {
		return errs.NewValidationError(ExtractFieldErrors(err)...)
	}

	return nil
}

// BindBodyAndValidate decodes only the request body into payload and
// validates it. Failures are reported like BindAndValidate's.
func BindBodyAndValidate(c echo.Context, payload Validatable) error {
	if err := new(echo.DefaultBinder).BindBody(c, payload); err != nil {
		return errs.NewValidationError(errs.FieldError{
			Field: "body",
			Error: bindErrorMessage(err),
		})
	}

	if err := payload.Validate(); err != nil {
		return errs.NewValidationError(ExtractFieldErrors(err)...)
	}

	return nil
}

// ExtractFieldErrors converts validator and model errors into field errors.
func ExtractFieldErrors(err error) []errs.FieldError {
	var fieldErrors []errs.FieldError

	var modelErr *model.ValidationError
	if errors.As(err, &modelErr) {
		return []errs.FieldError{{Field: modelErr.Field, Error: modelErr.Reason}}
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []errs.FieldError{{Field: "payload", Error: err.Error()}}
	}

	for _, err := range validationErrors {
		field := strings.ToLower(err.Field())
		var msg string

		switch err.Tag() {
		case "required":
			msg = "is required"

		case "gt":
			msg = fmt.Sprintf("must be greater than %s", err.Param())

		case "min":
			if err.Type().Kind() == reflect.String {
				msg = fmt.Sprintf("must be at least %s characters", err.Param())
			} else {
				msg = fmt.Sprintf("must be at least %s", err.Param())
			}

		default:
			if err.Param() != "" {
				msg = fmt.Sprintf("%s: %s:%s", field, err.Tag(), err.Param())
			} else {
				msg = fmt.Sprintf("%s: %s", field, err.Tag())
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: field,
			Error: msg,
		})
	}

	return fieldErrors
}

// bindErrorMessage keeps the useful part of Echo's bind error for logs.
func bindErrorMessage(err error) string {
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		if msg, ok := echoErr.Message.(string); ok {
			return msg
		}
	}
	return err.Error()
}
