package errs

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestValidationErrorBody(t *testing.T) {
	err := NewValidationError(FieldError{Field: "name", Error: "must not be empty"})

	if err.Status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", err.Status)
	}

	body, jerr := json.Marshal(err.Body())
	if jerr != nil {
		t.Fatal(jerr)
	}
	if string(body) != `{"errors":["validation errors"]}` {
		t.Fatalf("body = %s", body)
	}

	// Field detail is kept for logging but never rendered.
	if len(err.Fields) != 1 || err.Fields[0].Field != "name" {
		t.Fatalf("fields = %+v", err.Fields)
	}
}

func TestScientistNotFoundBody(t *testing.T) {
	err := NewScientistNotFoundError()

	body, jerr := json.Marshal(err.Body())
	if jerr != nil {
		t.Fatal(jerr)
	}
	if string(body) != `{"error":"Scientist not found"}` {
		t.Fatalf("body = %s", body)
	}
	if err.Status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", err.Status)
	}
}

func TestHTTPErrorIsAndAs(t *testing.T) {
	wrapped := fmt.Errorf("service: %w", NewInternalServerError())

	if !errors.Is(wrapped, &HTTPError{}) {
		t.Fatal("errors.Is should match any *HTTPError")
	}

	var httpErr *HTTPError
	if !errors.As(wrapped, &httpErr) {
		t.Fatal("errors.As should find *HTTPError")
	}
	if httpErr.Code != "INTERNAL_SERVER_ERROR" {
		t.Fatalf("code = %q", httpErr.Code)
	}
}

func TestWithMessageCopies(t *testing.T) {
	base := NewNotFoundError("Resource not found", nil)
	copied := base.WithMessage("Planet not found")

	if base.Message != "Resource not found" {
		t.Fatal("WithMessage mutated the original")
	}
	if copied.Status != http.StatusNotFound || copied.Message != "Planet not found" {
		t.Fatalf("copy = %+v", copied)
	}
}

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	if got := MakeUpperCaseWithUnderscores("Bad Request"); got != "BAD_REQUEST" {
		t.Fatalf("got %q", got)
	}
}
