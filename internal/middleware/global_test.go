package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/cosmic-travel/internal/config"
	"github.com/deppfellow/cosmic-travel/internal/errs"
	"github.com/deppfellow/cosmic-travel/internal/server"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

func newTestEcho() *echo.Echo {
	logger := zerolog.Nop()
	s := &server.Server{Config: config.DefaultConfig(), Logger: &logger}

	e := echo.New()
	e.HTTPErrorHandler = NewGlobalMiddlewares(s).GlobalErrorHandler
	e.Use(RequestID(), NewContextEnhancer(s).EnhanceContext())
	return e
}

func TestGlobalErrorHandlerBodies(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"not found", errs.NewScientistNotFoundError(), http.StatusNotFound, `{"error":"Scientist not found"}`},
		{"validation", errs.NewValidationError(errs.FieldError{Field: "name", Error: "must not be empty"}), http.StatusBadRequest, `{"errors":["validation errors"]}`},
		{"wrapped", errors.Wrap(errs.NewScientistNotFoundError(), "lookup"), http.StatusNotFound, `{"error":"Scientist not found"}`},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, `{"error":"Internal Server Error"}`},
		{"driver", &pgconn.PgError{Code: "23503", TableName: "missions"}, http.StatusBadRequest, `{"errors":["validation errors"]}`},
		{"echo", echo.NewHTTPError(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed, `{"error":"Method Not Allowed"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEcho()
			e.GET("/", func(c echo.Context) error { return tc.err })

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			if got := strings.TrimSpace(rec.Body.String()); got != tc.body {
				t.Fatalf("body = %s, want %s", got, tc.body)
			}
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	e := newTestEcho()

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"error":"Route not found"}` {
		t.Fatalf("body = %s", got)
	}
}

func TestPanicIsRecovered(t *testing.T) {
	logger := zerolog.Nop()
	s := &server.Server{Config: config.DefaultConfig(), Logger: &logger}
	global := NewGlobalMiddlewares(s)

	e := echo.New()
	e.HTTPErrorHandler = global.GlobalErrorHandler
	e.Use(global.Recover())
	e.GET("/", func(c echo.Context) error { panic("kaboom") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestContextLogger(t *testing.T) {
	e := newTestEcho()

	var fromEcho, fromCtx *zerolog.Logger
	var requestID string
	e.GET("/", func(c echo.Context) error {
		fromEcho = GetLogger(c)
		fromCtx = LoggerFromContext(c.Request().Context())
		requestID = GetRequestID(c)
		return c.NoContent(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if fromEcho == nil || fromEcho != fromCtx {
		t.Fatal("request logger not shared between echo and request context")
	}
	if requestID == "" || rec.Header().Get(RequestIDHeader) != requestID {
		t.Fatalf("request id %q, header %q", requestID, rec.Header().Get(RequestIDHeader))
	}
}

func TestRequestIDSanitized(t *testing.T) {
	cases := map[string]bool{
		"abc-123":                   true,
		"":                          false,
		"has space":                 false,
		strings.Repeat("a", 129):    false,
		"line\nbreak":               false,
		"0f3c2a9e-8f1b-4a0c-9d2e-1": true,
	}

	for incoming, kept := range cases {
		e := newTestEcho()
		e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header[http.CanonicalHeaderKey(RequestIDHeader)] = []string{incoming}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		got := rec.Header().Get(RequestIDHeader)
		if got == "" {
			t.Fatalf("%q: no request id on response", incoming)
		}
		if (got == incoming) != kept {
			t.Fatalf("%q: response id %q, kept = %v", incoming, got, kept)
		}
	}
}
