// Package service contains the business logic.
//
// It sits between the handler and repository layers.
// It receives validated data from the handler, performs
// business operations, and calls repository methods to interact
// with the data. Storage outcomes are translated into *errs.HTTPError
// here so handlers only pass them on.
package service

import (
	"net/http"

	"github.com/deppfellow/cosmic-travel/internal/errs"
	"github.com/deppfellow/cosmic-travel/internal/model"
	"github.com/deppfellow/cosmic-travel/internal/repository"
	"github.com/pkg/errors"
)

type Services struct {
	Scientists *ScientistService
	Planets    *PlanetService
	Missions   *MissionService
}

func NewService(repos *repository.Repositories) (*Services, error) {
	if repos == nil {
		return nil, errors.New("repositories are required")
	}

	return &Services{
		Scientists: NewScientistService(repos.Scientists),
		Planets:    NewPlanetService(repos.Planets),
		Missions:   NewMissionService(repos.Missions),
	}, nil
}

// validationFailure converts a rejected assignment into the 400 response.
// ok is false when err is not a validation error.
func validationFailure(err error) (*errs.HTTPError, bool) {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		return errs.NewValidationError(errs.FieldError{Field: verr.Field, Error: verr.Reason}), true
	}
	return nil, false
}

// flattenCreate reports any failure of a create operation as the
// validation failure. The original error is kept in the field detail so it
// still reaches the logs.
func flattenCreate(err error) error {
	if httpErr, ok := validationFailure(err); ok {
		return httpErr
	}

	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) && httpErr.Status == http.StatusBadRequest {
		return httpErr
	}

	field := "store"
	if errors.Is(err, repository.ErrReferenceNotFound) {
		field = "reference"
	}
	return errs.NewValidationError(errs.FieldError{Field: field, Error: err.Error()})
}
