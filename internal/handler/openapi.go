package handler

import (
	"fmt"
	"net/http"

	"github.com/deppfellow/cosmic-travel/internal/server"
	"github.com/deppfellow/cosmic-travel/static"
	"github.com/labstack/echo/v4"
)

// OpenAPIHandler serves the docs page. The page loads its UI from a CDN
// and reads /static/openapi.json.
type OpenAPIHandler struct {
	Handler
}

func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
	}
}

// ServeOpenAPIUI serves the embedded openapi.html with caching disabled.
func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	templateBytes, err := static.Files.ReadFile("openapi.html")

	c.Response().Header().Set("Cache-Control", "no-cache")

	if err != nil {
		return fmt.Errorf("failed to read OpenAPI UI template: %w", err)
	}

	if err := c.HTML(http.StatusOK, string(templateBytes)); err != nil {
		return fmt.Errorf("failed to write HTML response: %w", err)
	}

	return nil
}

// Home answers GET / with an empty 200, which some platforms probe.
func (h *OpenAPIHandler) Home(c echo.Context) error {
	return c.String(http.StatusOK, "")
}
