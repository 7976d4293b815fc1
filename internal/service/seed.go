package service

import (
	"context"
	"fmt"

	"github.com/deppfellow/cosmic-travel/internal/model"
)

// SeedMission names its scientist and planet instead of referencing ids,
// which are only known once the parents are stored.
type SeedMission struct {
	Name      string `json:"name"`
	Scientist string `json:"scientist"`
	Planet    string `json:"planet"`
}

type SeedData struct {
	Planets    []model.Planet    `json:"planets"`
	Scientists []model.Scientist `json:"scientists"`
	Missions   []SeedMission     `json:"missions"`
}

// DefaultSeedData is the catalog loaded by `cosmic-travel seed`.
func DefaultSeedData() SeedData {
	return SeedData{
		Planets: []model.Planet{
			{Name: "TauCeti E", DistanceFromEarth: 1234567, NearestStar: "TauCeti"},
			{Name: "Maxxor", DistanceFromEarth: 99999999, NearestStar: "Canus Minor"},
			{Name: "Kepler-22b", DistanceFromEarth: 620000000, NearestStar: "Kepler-22"},
			{Name: "Proxima b", DistanceFromEarth: 40000000, NearestStar: "Proxima Centauri"},
		},
		Scientists: []model.Scientist{
			{Name: "Mel T. Valent", FieldOfStudy: "Xenobiology"},
			{Name: "P. Legrange", FieldOfStudy: "Orbital Mechanics"},
			{Name: "Ada Lovelace", FieldOfStudy: "Mathematics"},
		},
		Missions: []SeedMission{
			{Name: "Project Terraform", Scientist: "Mel T. Valent", Planet: "TauCeti E"},
			{Name: "Maxxor Survey", Scientist: "P. Legrange", Planet: "Maxxor"},
			{Name: "Deep Orbit", Scientist: "P. Legrange", Planet: "Kepler-22b"},
			{Name: "First Contact", Scientist: "Ada Lovelace", Planet: "Proxima b"},
		},
	}
}

// SeedReport describes what a seed run stored.
type SeedReport struct {
	Removed struct {
		Scientists int
		Planets    int
	}

	Missions []model.Mission

	// Visits maps each planet name to the scientists with a mission there.
	Visits map[string][]string

	// Destinations maps each scientist name to the planets they travel to.
	Destinations map[string][]string
}

// Seeder loads a catalog through the services, so seeded records pass the
// same validation as API writes.
type Seeder struct {
	services *Services
}

func NewSeeder(services *Services) *Seeder {
	return &Seeder{services: services}
}

// Seed stores data. With reset, every scientist and planet is deleted first,
// missions go with them.
func (s *Seeder) Seed(ctx context.Context, data SeedData, reset bool) (*SeedReport, error) {
	report := &SeedReport{
		Visits:       map[string][]string{},
		Destinations: map[string][]string{},
	}

	if reset {
		if err := s.reset(ctx, report); err != nil {
			return nil, err
		}
	}

	planets := make(map[string]int64, len(data.Planets))
	for _, p := range data.Planets {
		created, err := s.services.Planets.Create(ctx, p.Name, p.DistanceFromEarth, p.NearestStar)
		if err != nil {
			return nil, fmt.Errorf("seed planet %q: %w", p.Name, err)
		}
		planets[created.Name] = created.ID
	}

	scientists := make(map[string]int64, len(data.Scientists))
	for _, sc := range data.Scientists {
		created, err := s.services.Scientists.Create(ctx, sc.Name, sc.FieldOfStudy)
		if err != nil {
			return nil, fmt.Errorf("seed scientist %q: %w", sc.Name, err)
		}
		scientists[created.Name] = created.ID
	}

	for _, m := range data.Missions {
		scientistID, ok := scientists[m.Scientist]
		if !ok {
			return nil, fmt.Errorf("seed mission %q: unknown scientist %q", m.Name, m.Scientist)
		}
		planetID, ok := planets[m.Planet]
		if !ok {
			return nil, fmt.Errorf("seed mission %q: unknown planet %q", m.Name, m.Planet)
		}

		created, err := s.services.Missions.Create(ctx, m.Name, scientistID, planetID)
		if err != nil {
			return nil, fmt.Errorf("seed mission %q: %w", m.Name, err)
		}

		stored, err := s.services.Missions.Get(ctx, created.ID)
		if err != nil {
			return nil, fmt.Errorf("reload mission %q: %w", m.Name, err)
		}
		report.Missions = append(report.Missions, *stored)
	}

	for name, id := range planets {
		visitors, err := s.services.Planets.Scientists(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, v := range visitors {
			report.Visits[name] = append(report.Visits[name], v.Name)
		}
	}

	for name, id := range scientists {
		destinations, err := s.services.Scientists.Planets(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, d := range destinations {
			report.Destinations[name] = append(report.Destinations[name], d.Name)
		}
	}

	return report, nil
}

func (s *Seeder) reset(ctx context.Context, report *SeedReport) error {
	scientists, err := s.services.Scientists.List(ctx)
	if err != nil {
		return err
	}
	for _, sc := range scientists {
		if err := s.services.Scientists.Delete(ctx, sc.ID); err != nil {
			return fmt.Errorf("remove scientist %d: %w", sc.ID, err)
		}
	}
	report.Removed.Scientists = len(scientists)

	planets, err := s.services.Planets.List(ctx)
	if err != nil {
		return err
	}
	for _, p := range planets {
		if err := s.services.Planets.Delete(ctx, p.ID); err != nil {
			return fmt.Errorf("remove planet %d: %w", p.ID, err)
		}
	}
	report.Removed.Planets = len(planets)

	return nil
}
