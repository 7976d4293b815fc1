package handler

import (
	"github.com/deppfellow/cosmic-travel/internal/server"
	"github.com/deppfellow/cosmic-travel/internal/service"
)

// Handlers groups all HTTP handlers so the router receives one value.
type Handlers struct {
	Health     *HealthHandler
	OpenAPI    *OpenAPIHandler
	Scientists *ScientistHandler
	Planets    *PlanetHandler
	Missions   *MissionHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:     NewHealthHandler(s),
		OpenAPI:    NewOpenAPIHandler(s),
		Scientists: NewScientistHandler(s, services.Scientists),
		Planets:    NewPlanetHandler(s, services.Planets),
		Missions:   NewMissionHandler(s, services.Missions),
	}
}
