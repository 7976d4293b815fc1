package handler

import (
	"github.com/deppfellow/cosmic-travel/internal/model"
	"github.com/deppfellow/cosmic-travel/internal/server"
	"github.com/deppfellow/cosmic-travel/internal/service"
	"github.com/labstack/echo/v4"
)

type PlanetHandler struct {
	Handler
	planets *service.PlanetService
}

func NewPlanetHandler(s *server.Server, planets *service.PlanetService) *PlanetHandler {
	return &PlanetHandler{
		Handler: NewHandler(s),
		planets: planets,
	}
}

func (h *PlanetHandler) List(c echo.Context, _ *model.ListPayload) ([]map[string]any, error) {
	planets, err := h.planets.List(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return planetList(planets), nil
}
