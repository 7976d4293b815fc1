package service

import (
	"context"

	"github.com/deppfellow/cosmic-travel/internal/errs"
	"github.com/deppfellow/cosmic-travel/internal/model"
	"github.com/deppfellow/cosmic-travel/internal/repository"
	"github.com/pkg/errors"
)

// ------------------------------------------------------------
// Scientists

type ScientistService struct {
	repo repository.ScientistRepository
}

func NewScientistService(repo repository.ScientistRepository) *ScientistService {
	return &ScientistService{repo: repo}
}

func (s *ScientistService) List(ctx context.Context) ([]model.Scientist, error) {
	return s.repo.ListScientists(ctx)
}

func (s *ScientistService) Get(ctx context.Context, id int64) (*model.Scientist, error) {
	scientist, err := s.repo.GetScientist(ctx, id)
	if err != nil {
		return nil, scientistLookupError(err)
	}
	return scientist, nil
}

func (s *ScientistService) Create(ctx context.Context, name, fieldOfStudy string) (*model.Scientist, error) {
	scientist, err := model.NewScientist(name, fieldOfStudy)
	if err != nil {
		return nil, flattenCreate(err)
	}

	created, err := s.repo.CreateScientist(ctx, scientist)
	if err != nil {
		return nil, flattenCreate(err)
	}
	return created, nil
}

// ScientistChanges lists the fields a partial update assigns. Fields with
// Set false are left unchanged; a set null is rejected like an empty value.
type ScientistChanges struct {
	Name         model.Optional[string]
	FieldOfStudy model.Optional[string]
}

// Update loads the scientist, applies changes through the validating
// setters and stores the result. An unknown id is reported before any
// value is looked at.
func (s *ScientistService) Update(ctx context.Context, id int64, changes ScientistChanges) (*model.Scientist, error) {
	scientist, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := assign("name", changes.Name, scientist.SetName); err != nil {
		return nil, err
	}
	if err := assign("field_of_study", changes.FieldOfStudy, scientist.SetFieldOfStudy); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateScientist(ctx, scientist)
	if err != nil {
		return nil, scientistLookupError(err)
	}
	return updated, nil
}

func (s *ScientistService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteScientist(ctx, id); err != nil {
		return scientistLookupError(err)
	}
	return nil
}

// Planets returns the planet of each of the scientist's missions.
func (s *ScientistService) Planets(ctx context.Context, id int64) ([]model.Planet, error) {
	planets, err := s.repo.PlanetsForScientist(ctx, id)
	if err != nil {
		return nil, scientistLookupError(err)
	}
	return planets, nil
}

// assign runs set for a present value. A present null never reaches the
// setter.
func assign(field string, value model.Optional[string], set func(string) error) error {
	if !value.Set {
		return nil
	}
	if value.Null {
		return assignmentError(&model.ValidationError{Field: field, Reason: "must not be null"})
	}
	if err := set(value.Value); err != nil {
		return assignmentError(err)
	}
	return nil
}

func assignmentError(err error) error {
	if httpErr, ok := validationFailure(err); ok {
		return httpErr
	}
	return err
}

func scientistLookupError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return errs.NewScientistNotFoundError()
	}
	return err
}

// ------------------------------------------------------------
// Planets

type PlanetService struct {
	repo repository.PlanetRepository
}

func NewPlanetService(repo repository.PlanetRepository) *PlanetService {
	return &PlanetService{repo: repo}
}

func (s *PlanetService) List(ctx context.Context) ([]model.Planet, error) {
	return s.repo.ListPlanets(ctx)
}

// Create stores a planet. Planets carry no field rules.
func (s *PlanetService) Create(ctx context.Context, name string, distanceFromEarth int64, nearestStar string) (*model.Planet, error) {
	return s.repo.CreatePlanet(ctx, &model.Planet{
		Name:              name,
		DistanceFromEarth: distanceFromEarth,
		NearestStar:       nearestStar,
	})
}

// Delete removes the planet together with its missions.
func (s *PlanetService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeletePlanet(ctx, id); err != nil {
		return planetLookupError(err)
	}
	return nil
}

// Scientists returns the scientist of each mission to the planet.
func (s *PlanetService) Scientists(ctx context.Context, id int64) ([]model.Scientist, error) {
	scientists, err := s.repo.ScientistsForPlanet(ctx, id)
	if err != nil {
		return nil, planetLookupError(err)
	}
	return scientists, nil
}

func planetLookupError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		code := "PLANET_NOT_FOUND"
		return errs.NewNotFoundError("Planet not found", &code)
	}
	return err
}

// ------------------------------------------------------------
// Missions

type MissionService struct {
	repo repository.MissionRepository
}

func NewMissionService(repo repository.MissionRepository) *MissionService {
	return &MissionService{repo: repo}
}

// Create validates and stores a mission, returning it with its scientist
// and planet. Every failure, unknown parents and storage errors included,
// is reported as the validation failure.
func (s *MissionService) Create(ctx context.Context, name string, scientistID, planetID int64) (*model.Mission, error) {
	mission, err := model.NewMission(name, scientistID, planetID)
	if err != nil {
		return nil, flattenCreate(err)
	}

	created, err := s.repo.CreateMission(ctx, mission)
	if err != nil {
		return nil, flattenCreate(err)
	}
	return created, nil
}

// Get returns a stored mission with its scientist and planet.
func (s *MissionService) Get(ctx context.Context, id int64) (*model.Mission, error) {
	mission, err := s.repo.GetMission(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			code := "MISSION_NOT_FOUND"
			return nil, errs.NewNotFoundError("Mission not found", &code)
		}
		return nil, err
	}
	return mission, nil
}
