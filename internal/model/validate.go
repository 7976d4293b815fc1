package model

import (
	"fmt"
	"strings"
)

// ValidationError is the typed result of a rejected assignment.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// RequireText fails when value is empty or whitespace-only.
func RequireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Reason: "must not be empty"}
	}
	return nil
}

// RequirePositiveID fails when id is not strictly positive.
func RequirePositiveID(field string, id int64) error {
	if id <= 0 {
		return &ValidationError{Field: field, Reason: "must not be empty or zero"}
	}
	return nil
}

// NewScientist validates both required fields and returns an unsaved
// scientist with an empty mission list.
func NewScientist(name, fieldOfStudy string) (*Scientist, error) {
	s := &Scientist{Missions: []Mission{}}
	if err := s.SetName(name); err != nil {
		return nil, err
	}
	if err := s.SetFieldOfStudy(fieldOfStudy); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scientist) SetName(name string) error {
	if err := RequireText("name", name); err != nil {
		return err
	}
	s.Name = name
	return nil
}

func (s *Scientist) SetFieldOfStudy(fieldOfStudy string) error {
	if err := RequireText("field_of_study", fieldOfStudy); err != nil {
		return err
	}
	s.FieldOfStudy = fieldOfStudy
	return nil
}

// Planets returns the planet of every loaded mission, in mission order.
// A planet visited by several missions appears once per mission.
func (s *Scientist) Planets() []Planet {
	planets := make([]Planet, 0, len(s.Missions))
	for _, m := range s.Missions {
		if m.Planet != nil {
			planets = append(planets, *m.Planet)
		}
	}
	return planets
}

// NewMission validates every field and returns an unsaved mission.
func NewMission(name string, scientistID, planetID int64) (*Mission, error) {
	m := &Mission{}
	if err := m.SetName(name); err != nil {
		return nil, err
	}
	if err := m.SetScientistID(scientistID); err != nil {
		return nil, err
	}
	if err := m.SetPlanetID(planetID); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Mission) SetName(name string) error {
	if err := RequireText("name", name); err != nil {
		return err
	}
	m.Name = name
	return nil
}

func (m *Mission) SetScientistID(id int64) error {
	if err := RequirePositiveID("scientist_id", id); err != nil {
		return err
	}
	m.ScientistID = id
	return nil
}

func (m *Mission) SetPlanetID(id int64) error {
	if err := RequirePositiveID("planet_id", id); err != nil {
		return err
	}
	m.PlanetID = id
	return nil
}
