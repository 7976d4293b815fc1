package handler

import (
	"github.com/deppfellow/cosmic-travel/internal/errs"
	"github.com/deppfellow/cosmic-travel/internal/model"
	"github.com/deppfellow/cosmic-travel/internal/server"
	"github.com/deppfellow/cosmic-travel/internal/service"
	"github.com/deppfellow/cosmic-travel/internal/validation"
	"github.com/labstack/echo/v4"
)

type ScientistHandler struct {
	Handler
	scientists *service.ScientistService
}

func NewScientistHandler(s *server.Server, scientists *service.ScientistService) *ScientistHandler {
	return &ScientistHandler{
		Handler:    NewHandler(s),
		scientists: scientists,
	}
}

func (h *ScientistHandler) List(c echo.Context, _ *model.ListPayload) ([]map[string]any, error) {
	scientists, err := h.scientists.List(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return scientistList(scientists), nil
}

func (h *ScientistHandler) Get(c echo.Context, req *model.ScientistIDPayload) (map[string]any, error) {
	id, ok := req.ID()
	if !ok {
		return nil, errs.NewScientistNotFoundError()
	}

	scientist, err := h.scientists.Get(c.Request().Context(), id)
	if err != nil {
		return nil, err
	}
	return scientistDetail(scientist), nil
}

func (h *ScientistHandler) Create(c echo.Context, req *model.CreateScientistPayload) (map[string]any, error) {
	scientist, err := h.scientists.Create(c.Request().Context(), *req.Name, *req.FieldOfStudy)
	if err != nil {
		return nil, err
	}
	return scientistWritten(scientist), nil
}

// Update answers 404 for an unknown id before the body is decoded, so a
// malformed body on a missing scientist is still "Scientist not found".
func (h *ScientistHandler) Update(c echo.Context, req *model.UpdateScientistPayload) (map[string]any, error) {
	id, ok := req.ID()
	if !ok {
		return nil, errs.NewScientistNotFoundError()
	}

	ctx := c.Request().Context()
	if _, err := h.scientists.Get(ctx, id); err != nil {
		return nil, err
	}

	body := &model.ScientistChangesPayload{}
	if err := validation.BindBodyAndValidate(c, body); err != nil {
		return nil, err
	}

	scientist, err := h.scientists.Update(ctx, id, service.ScientistChanges{
		Name:         body.Name,
		FieldOfStudy: body.FieldOfStudy,
	})
	if err != nil {
		return nil, err
	}
	return scientistWritten(scientist), nil
}

func (h *ScientistHandler) Delete(c echo.Context, req *model.ScientistIDPayload) error {
	id, ok := req.ID()
	if !ok {
		return errs.NewScientistNotFoundError()
	}
	return h.scientists.Delete(c.Request().Context(), id)
}
