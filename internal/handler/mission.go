package handler

import (
	"github.com/deppfellow/cosmic-travel/internal/model"
	"github.com/deppfellow/cosmic-travel/internal/server"
	"github.com/deppfellow/cosmic-travel/internal/service"
	"github.com/labstack/echo/v4"
)

type MissionHandler struct {
	Handler
	missions *service.MissionService
}

func NewMissionHandler(s *server.Server, missions *service.MissionService) *MissionHandler {
	return &MissionHandler{
		Handler:  NewHandler(s),
		missions: missions,
	}
}

// Create requires name, scientist_id and planet_id; the payload validator
// has already checked they are present.
func (h *MissionHandler) Create(c echo.Context, req *model.CreateMissionPayload) (map[string]any, error) {
	mission, err := h.missions.Create(c.Request().Context(), *req.Name, *req.ScientistID, *req.PlanetID)
	if err != nil {
		return nil, err
	}
	return missionCreated(mission), nil
}
