package repository

import (
	"context"

	"github.com/deppfellow/cosmic-travel/internal/model"
	"github.com/deppfellow/cosmic-travel/internal/server"
	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned when the addressed record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrReferenceNotFound is returned when a mission names a scientist or
	// planet that does not exist.
	ErrReferenceNotFound = errors.New("referenced record not found")
)

type ScientistRepository interface {
	// ListScientists returns every scientist in id order, without missions.
	ListScientists(ctx context.Context) ([]model.Scientist, error)

	// GetScientist loads one scientist with its missions, each carrying
	// its planet.
	GetScientist(ctx context.Context, id int64) (*model.Scientist, error)

	CreateScientist(ctx context.Context, s *model.Scientist) (*model.Scientist, error)

	// UpdateScientist writes name and field_of_study and returns the
	// scientist reloaded with its missions.
	UpdateScientist(ctx context.Context, s *model.Scientist) (*model.Scientist, error)

	// DeleteScientist removes the scientist and all of its missions in one
	// commit.
	DeleteScientist(ctx context.Context, id int64) error

	// PlanetsForScientist returns the planet of each mission of the
	// scientist, in mission order.
	PlanetsForScientist(ctx context.Context, id int64) ([]model.Planet, error)
}

type PlanetRepository interface {
	ListPlanets(ctx context.Context) ([]model.Planet, error)
	GetPlanet(ctx context.Context, id int64) (*model.Planet, error)
	CreatePlanet(ctx context.Context, p *model.Planet) (*model.Planet, error)

	// DeletePlanet removes the planet and all of its missions in one
	// commit.
	DeletePlanet(ctx context.Context, id int64) error

	// ScientistsForPlanet returns the scientist of each mission to the
	// planet, in mission order.
	ScientistsForPlanet(ctx context.Context, id int64) ([]model.Scientist, error)
}

type MissionRepository interface {
	// CreateMission stores the mission and returns it with both parents
	// loaded. Unknown parents yield ErrReferenceNotFound.
	CreateMission(ctx context.Context, m *model.Mission) (*model.Mission, error)

	GetMission(ctx context.Context, id int64) (*model.Mission, error)
}

// Store is implemented by each storage backend.
type Store interface {
	ScientistRepository
	PlanetRepository
	MissionRepository
}

// Repositories is a container for all repository instances.
type Repositories struct {
	Scientists ScientistRepository
	Planets    PlanetRepository
	Missions   MissionRepository
}

// NewRepositories constructs the repository container on whichever store
// the server opened.
func NewRepositories(s *server.Server) (*Repositories, error) {
	switch {
	case s.DB != nil:
		return FromStore(NewPostgresStore(s.DB.Pool)), nil
	case s.Files != nil:
		return FromStore(NewBoltStore(s.Files.DB)), nil
	default:
		return nil, errors.New("server has no open store")
	}
}

func FromStore(store Store) *Repositories {
	return &Repositories{
		Scientists: store,
		Planets:    store,
		Missions:   store,
	}
}
