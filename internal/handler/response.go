package handler

import "github.com/deppfellow/cosmic-travel/internal/model"

// Response bodies are maps so encoding/json writes keys in sorted order.
// Each endpoint picks a fixed set of keys; relations are only expanded as
// deep as listed here.

func scientistShallow(s model.Scientist) map[string]any {
	return map[string]any{
		"id":             s.ID,
		"name":           s.Name,
		"field_of_study": s.FieldOfStudy,
	}
}

func planetShallow(p *model.Planet) map[string]any {
	if p == nil {
		return nil
	}
	return map[string]any{
		"id":                  p.ID,
		"name":                p.Name,
		"distance_from_earth": p.DistanceFromEarth,
		"nearest_star":        p.NearestStar,
	}
}

func scientistList(scientists []model.Scientist) []map[string]any {
	out := make([]map[string]any, 0, len(scientists))
	for _, s := range scientists {
		out = append(out, scientistShallow(s))
	}
	return out
}

func planetList(planets []model.Planet) []map[string]any {
	out := make([]map[string]any, 0, len(planets))
	for i := range planets {
		out = append(out, planetShallow(&planets[i]))
	}
	return out
}

// scientistDetail is the GET /scientists/{id} body: each mission shows only
// its name and planet.
func scientistDetail(s *model.Scientist) map[string]any {
	missions := make([]map[string]any, 0, len(s.Missions))
	for _, m := range s.Missions {
		missions = append(missions, map[string]any{
			"name":   m.Name,
			"planet": planetShallow(m.Planet),
		})
	}

	body := scientistShallow(*s)
	body["missions"] = missions
	return body
}

// scientistWritten is the POST and PATCH /scientists body: missions carry
// their ids and planet but not the scientist again.
func scientistWritten(s *model.Scientist) map[string]any {
	missions := make([]map[string]any, 0, len(s.Missions))
	for _, m := range s.Missions {
		missions = append(missions, map[string]any{
			"id":           m.ID,
			"name":         m.Name,
			"planet":       planetShallow(m.Planet),
			"planet_id":    m.PlanetID,
			"scientist_id": m.ScientistID,
		})
	}

	body := scientistShallow(*s)
	body["missions"] = missions
	return body
}

func missionCreated(m *model.Mission) map[string]any {
	var scientist map[string]any
	if m.Scientist != nil {
		scientist = scientistShallow(*m.Scientist)
	}

	return map[string]any{
		"id":           m.ID,
		"name":         m.Name,
		"planet":       planetShallow(m.Planet),
		"planet_id":    m.PlanetID,
		"scientist":    scientist,
		"scientist_id": m.ScientistID,
	}
}
