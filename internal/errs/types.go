package errs

import (
	"net/http"
)

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
// The message is also the single entry of Errors, so the body renders as
// {"errors": [message]}.
//   - code: optional custom code string (if nil, defaults to "BAD_REQUEST")
//   - fields: optional field errors, logged only
func NewBadRequestError(message string, code *string, fields []FieldError) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusBadRequest))
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:    formattedCode,
		Message: message,
		Status:  http.StatusBadRequest,
		Errors:  []string{message},
		Fields:  fields,
	}
}

// NewNotFoundError creates a 404 Not Found HTTPError.
//
// Supports optional custom code override similar to NewBadRequestError.
func NewNotFoundError(message string, code *string) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusNotFound))
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:    formattedCode,
		Message: message,
		Status:  http.StatusNotFound,
	}
}

// NewInternalServerError creates a 500 Internal Server Error HTTPError.
//
// The message is the generic status text, never the internal error.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError)),
		Message: http.StatusText(http.StatusInternalServerError),
		Status:  http.StatusInternalServerError,
	}
}

// NewValidationError creates the flattened 400 validation failure.
//
// Whatever failed, the client sees {"errors": ["validation errors"]};
// fields carries the detail for the logs.
func NewValidationError(fields ...FieldError) *HTTPError {
	code := "VALIDATION_FAILED"
	return NewBadRequestError(ValidationErrorsMessage, &code, fields)
}

// NewScientistNotFoundError is returned for any unknown scientist id.
func NewScientistNotFoundError() *HTTPError {
	code := "SCIENTIST_NOT_FOUND"
	return NewNotFoundError("Scientist not found", &code)
}

// NewRouteNotFoundError is returned when no route matches the request.
func NewRouteNotFoundError() *HTTPError {
	return NewNotFoundError("Route not found", nil)
}
