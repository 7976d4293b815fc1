package router

import (
	"net/http"

	"github.com/deppfellow/cosmic-travel/internal/handler"
	"github.com/deppfellow/cosmic-travel/internal/model"
	"github.com/labstack/echo/v4"
)

func registerAPIRoutes(r *echo.Echo, h *handler.Handlers) {
	scientists := h.Scientists

	r.GET("/scientists", handler.Handle(scientists.Handler, scientists.List, http.StatusOK,
		func() *model.ListPayload { return &model.ListPayload{} }))

	r.POST("/scientists", handler.Handle(scientists.Handler, scientists.Create, http.StatusCreated,
		func() *model.CreateScientistPayload { return &model.CreateScientistPayload{} }))

	r.GET("/scientists/:id", handler.Handle(scientists.Handler, scientists.Get, http.StatusOK,
		func() *model.ScientistIDPayload { return &model.ScientistIDPayload{} }))

	r.PATCH("/scientists/:id", handler.Handle(scientists.Handler, scientists.Update, http.StatusAccepted,
		func() *model.UpdateScientistPayload { return &model.UpdateScientistPayload{} }))

	r.DELETE("/scientists/:id", handler.HandleNoContent(scientists.Handler, scientists.Delete, http.StatusNoContent,
		func() *model.ScientistIDPayload { return &model.ScientistIDPayload{} }))

	planets := h.Planets

	r.GET("/planets", handler.Handle(planets.Handler, planets.List, http.StatusOK,
		func() *model.ListPayload { return &model.ListPayload{} }))

	missions := h.Missions

	r.POST("/missions", handler.Handle(missions.Handler, missions.Create, http.StatusCreated,
		func() *model.CreateMissionPayload { return &model.CreateMissionPayload{} }))
}
