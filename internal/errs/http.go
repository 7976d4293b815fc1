// Package errs define custom error types and utilities.
//
// Its purpose is to create specific error structures
// (HTTPError for API responses, FieldError for the failing field)
// so the client receives consistent error bodies.
//
//   - Return consistent error shapes to API clients (JSON).
//   - Keep field-level detail for logs while the client only sees the
//     flattened message.
//   - Provide errors that play nicely with Go's standard errors package.
package errs

import "strings"

// ValidationErrorsMessage is the single message every validation failure
// is flattened to before reaching the client.
const ValidationErrorsMessage = "validation errors"

// FieldError names the field a validation error relates to.
// Example:
//
//	{ "field": "name", "error": "must not be empty" }
//
// Field errors are never written to the response body; they are logged.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// HTTPError is the main custom error type for API responses.
//
// It implements the `error` interface via Error().
// Fields:
//   - Code: machine-friendly error code (e.g. "BAD_REQUEST"), logged only.
//   - Message: human-friendly message.
//   - Status: HTTP status code.
//   - Errors: client-visible list of messages (400 responses).
//   - Fields: per-field detail, logged only.
type HTTPError struct {
	Code    string
	Message string
	Status  int
	Errors  []string
	Fields  []FieldError
}

// Response is the wire shape of an error body.
//
// Exactly one of the two keys is rendered:
//
//	{"error": "Scientist not found"}
//	{"errors": ["validation errors"]}
type Response struct {
	Error  string   `json:"error,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

// Error makes *HTTPError satisfy the built-in `error` interface.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is also an *HTTPError.
//
// It does NOT compare Code/Status; it only checks the type.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// WithMessage returns a *copy* of this HTTPError with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:    e.Code,
		Message: message,
		Status:  e.Status,
		Errors:  e.Errors,
		Fields:  e.Fields,
	}
}

// Body returns the JSON body written for this error.
func (e *HTTPError) Body() Response {
	if len(e.Errors) > 0 {
		return Response{Errors: e.Errors}
	}
	return Response{Error: e.Message}
}

// MakeUpperCaseWithUnderscores converts a string into an UPPER_CASE_WITH_UNDERSCORES format.
//
// Example:
//
//	"Bad Request" -> "BAD_REQUEST"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
