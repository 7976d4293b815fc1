// Package model defines the three entities of the API and the rules that
// guard their fields.
//
// Fields that carry a rule are only changed through setters, which
// validate the value first and leave the entity untouched on failure.
package model

// Scientist owns zero or more missions. Deleting a scientist deletes its
// missions.
type Scientist struct {
	ID           int64
	Name         string
	FieldOfStudy string

	// Missions is only populated by lookups that load the relation.
	Missions []Mission
}

// Planet owns zero or more missions. Deleting a planet deletes its
// missions.
type Planet struct {
	ID                int64
	Name              string
	DistanceFromEarth int64
	NearestStar       string
}

// Mission joins one scientist to one planet.
type Mission struct {
	ID          int64
	Name        string
	ScientistID int64
	PlanetID    int64

	// Scientist and Planet are only populated when the mission was loaded
	// together with its parents.
	Scientist *Scientist
	Planet    *Planet
}
