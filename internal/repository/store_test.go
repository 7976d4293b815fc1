package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/deppfellow/cosmic-travel/internal/database"
	"github.com/deppfellow/cosmic-travel/internal/model"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// newBoltStore opens a store on a fresh file that is closed with the test.
func newBoltStore(t *testing.T) *BoltStore {
	t.Helper()

	logger := zerolog.Nop()
	fs, err := database.OpenFileStore(filepath.Join(t.TempDir(), "app.db"), &logger)
	if err != nil {
		t.Fatalf("open file store: %v", err)
	}
	t.Cleanup(func() { _ = fs.Close() })

	return NewBoltStore(fs.DB)
}

func TestBoltStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store { return newBoltStore(t) })
}

// runStoreSuite checks the repository contract against any backend.
// newStore must return an empty store.
func runStoreSuite(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	seed := func(t *testing.T, s Store) (*model.Scientist, *model.Planet, *model.Planet) {
		t.Helper()
		ada, err := s.CreateScientist(ctx, &model.Scientist{Name: "Ada", FieldOfStudy: "Math"})
		if err != nil {
			t.Fatalf("create scientist: %v", err)
		}
		mars, err := s.CreatePlanet(ctx, &model.Planet{Name: "Mars", DistanceFromEarth: 225, NearestStar: "Sun"})
		if err != nil {
			t.Fatalf("create planet: %v", err)
		}
		venus, err := s.CreatePlanet(ctx, &model.Planet{Name: "Venus", DistanceFromEarth: 108, NearestStar: "Sun"})
		if err != nil {
			t.Fatalf("create planet: %v", err)
		}
		return ada, mars, venus
	}

	t.Run("create and list scientists", func(t *testing.T) {
		s := newStore(t)

		created, err := s.CreateScientist(ctx, &model.Scientist{Name: "Ada", FieldOfStudy: "Math"})
		if err != nil {
			t.Fatal(err)
		}
		if created.ID <= 0 {
			t.Fatalf("id = %d", created.ID)
		}
		if created.Missions == nil || len(created.Missions) != 0 {
			t.Fatalf("missions = %#v", created.Missions)
		}

		if _, err := s.CreateScientist(ctx, &model.Scientist{Name: "Carl", FieldOfStudy: "Astronomy"}); err != nil {
			t.Fatal(err)
		}

		list, err := s.ListScientists(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(list) != 2 || list[0].Name != "Ada" || list[1].Name != "Carl" {
			t.Fatalf("list = %+v", list)
		}
		if list[0].ID >= list[1].ID {
			t.Fatal("list not in id order")
		}
	})

	t.Run("get scientist loads missions with planets", func(t *testing.T) {
		s := newStore(t)
		ada, mars, venus := seed(t, s)

		for _, m := range []*model.Mission{
			{Name: "Red", ScientistID: ada.ID, PlanetID: mars.ID},
			{Name: "Hot", ScientistID: ada.ID, PlanetID: venus.ID},
			{Name: "Red again", ScientistID: ada.ID, PlanetID: mars.ID},
		} {
			if _, err := s.CreateMission(ctx, m); err != nil {
				t.Fatal(err)
			}
		}

		got, err := s.GetScientist(ctx, ada.ID)
		if err != nil {
			t.Fatal(err)
		}
		if len(got.Missions) != 3 {
			t.Fatalf("missions = %d", len(got.Missions))
		}
		if got.Missions[1].Planet == nil || got.Missions[1].Planet.Name != "Venus" {
			t.Fatalf("mission planet = %+v", got.Missions[1].Planet)
		}

		planets, err := s.PlanetsForScientist(ctx, ada.ID)
		if err != nil {
			t.Fatal(err)
		}
		if len(planets) != 3 || planets[0].Name != "Mars" || planets[2].Name != "Mars" {
			t.Fatalf("planets = %+v", planets)
		}

		scientists, err := s.ScientistsForPlanet(ctx, mars.ID)
		if err != nil {
			t.Fatal(err)
		}
		if len(scientists) != 2 || scientists[0].ID != ada.ID {
			t.Fatalf("scientists = %+v", scientists)
		}
	})

	t.Run("missing records", func(t *testing.T) {
		s := newStore(t)

		if _, err := s.GetScientist(ctx, 99); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetScientist: %v", err)
		}
		if err := s.DeleteScientist(ctx, 99); !errors.Is(err, ErrNotFound) {
			t.Errorf("DeleteScientist: %v", err)
		}
		if _, err := s.UpdateScientist(ctx, &model.Scientist{ID: 99, Name: "x", FieldOfStudy: "y"}); !errors.Is(err, ErrNotFound) {
			t.Errorf("UpdateScientist: %v", err)
		}
		if _, err := s.PlanetsForScientist(ctx, 99); !errors.Is(err, ErrNotFound) {
			t.Errorf("PlanetsForScientist: %v", err)
		}
		if _, err := s.ScientistsForPlanet(ctx, 99); !errors.Is(err, ErrNotFound) {
			t.Errorf("ScientistsForPlanet: %v", err)
		}
		if _, err := s.GetPlanet(ctx, 99); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetPlanet: %v", err)
		}
		if _, err := s.GetMission(ctx, 99); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetMission: %v", err)
		}
	})

	t.Run("ids beyond int32", func(t *testing.T) {
		s := newStore(t)
		const big int64 = 3_000_000_000

		if _, err := s.GetScientist(ctx, big); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetScientist: %v", err)
		}
		if err := s.DeleteScientist(ctx, big); !errors.Is(err, ErrNotFound) {
			t.Errorf("DeleteScientist: %v", err)
		}
		ada, _, _ := seed(t, s)
		if _, err := s.CreateMission(ctx, &model.Mission{Name: "Far", ScientistID: ada.ID, PlanetID: big}); !errors.Is(err, ErrReferenceNotFound) {
			t.Errorf("CreateMission: %v", err)
		}
	})

	t.Run("mission with unknown parent", func(t *testing.T) {
		s := newStore(t)
		ada, mars, _ := seed(t, s)

		_, err := s.CreateMission(ctx, &model.Mission{Name: "Lost", ScientistID: ada.ID, PlanetID: mars.ID + 100})
		if !errors.Is(err, ErrReferenceNotFound) {
			t.Fatalf("unknown planet: %v", err)
		}
		_, err = s.CreateMission(ctx, &model.Mission{Name: "Lost", ScientistID: ada.ID + 100, PlanetID: mars.ID})
		if !errors.Is(err, ErrReferenceNotFound) {
			t.Fatalf("unknown scientist: %v", err)
		}

		got, err := s.GetScientist(ctx, ada.ID)
		if err != nil {
			t.Fatal(err)
		}
		if len(got.Missions) != 0 {
			t.Fatalf("rejected mission was stored: %+v", got.Missions)
		}
	})

	t.Run("create mission loads parents", func(t *testing.T) {
		s := newStore(t)
		ada, mars, _ := seed(t, s)

		m, err := s.CreateMission(ctx, &model.Mission{Name: "Red", ScientistID: ada.ID, PlanetID: mars.ID})
		if err != nil {
			t.Fatal(err)
		}
		if m.ID <= 0 || m.Scientist == nil || m.Planet == nil {
			t.Fatalf("mission = %+v", m)
		}
		if m.Scientist.Name != "Ada" || m.Planet.NearestStar != "Sun" {
			t.Fatalf("parents = %+v %+v", m.Scientist, m.Planet)
		}

		again, err := s.GetMission(ctx, m.ID)
		if err != nil {
			t.Fatal(err)
		}
		if again.Name != "Red" || again.Planet.ID != mars.ID {
			t.Fatalf("reloaded = %+v", again)
		}
	})

	t.Run("update scientist", func(t *testing.T) {
		s := newStore(t)
		ada, mars, _ := seed(t, s)
		if _, err := s.CreateMission(ctx, &model.Mission{Name: "Red", ScientistID: ada.ID, PlanetID: mars.ID}); err != nil {
			t.Fatal(err)
		}

		ada.FieldOfStudy = "Physics"
		updated, err := s.UpdateScientist(ctx, ada)
		if err != nil {
			t.Fatal(err)
		}
		if updated.Name != "Ada" || updated.FieldOfStudy != "Physics" {
			t.Fatalf("updated = %+v", updated)
		}
		if len(updated.Missions) != 1 || updated.Missions[0].Planet == nil {
			t.Fatalf("missions = %+v", updated.Missions)
		}
	})

	t.Run("delete scientist cascades", func(t *testing.T) {
		s := newStore(t)
		ada, mars, venus := seed(t, s)

		var ids []int64
		for _, pid := range []int64{mars.ID, venus.ID} {
			m, err := s.CreateMission(ctx, &model.Mission{Name: "M", ScientistID: ada.ID, PlanetID: pid})
			if err != nil {
				t.Fatal(err)
			}
			ids = append(ids, m.ID)
		}

		if err := s.DeleteScientist(ctx, ada.ID); err != nil {
			t.Fatal(err)
		}
		if _, err := s.GetScientist(ctx, ada.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("scientist still present: %v", err)
		}
		for _, id := range ids {
			if _, err := s.GetMission(ctx, id); !errors.Is(err, ErrNotFound) {
				t.Errorf("mission %d survived: %v", id, err)
			}
		}

		planets, err := s.ListPlanets(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(planets) != 2 {
			t.Fatalf("planets deleted with scientist: %+v", planets)
		}
	})

	t.Run("delete planet cascades", func(t *testing.T) {
		s := newStore(t)
		ada, mars, venus := seed(t, s)

		red, err := s.CreateMission(ctx, &model.Mission{Name: "Red", ScientistID: ada.ID, PlanetID: mars.ID})
		if err != nil {
			t.Fatal(err)
		}
		hot, err := s.CreateMission(ctx, &model.Mission{Name: "Hot", ScientistID: ada.ID, PlanetID: venus.ID})
		if err != nil {
			t.Fatal(err)
		}

		if err := s.DeletePlanet(ctx, mars.ID); err != nil {
			t.Fatal(err)
		}
		if _, err := s.GetMission(ctx, red.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("mission to deleted planet survived: %v", err)
		}
		if _, err := s.GetMission(ctx, hot.ID); err != nil {
			t.Errorf("unrelated mission deleted: %v", err)
		}
		if err := s.DeletePlanet(ctx, mars.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("second delete: %v", err)
		}
	})

	t.Run("empty lists", func(t *testing.T) {
		s := newStore(t)

		scientists, err := s.ListScientists(ctx)
		if err != nil || scientists == nil || len(scientists) != 0 {
			t.Fatalf("scientists = %#v, %v", scientists, err)
		}
		planets, err := s.ListPlanets(ctx)
		if err != nil || planets == nil || len(planets) != 0 {
			t.Fatalf("planets = %#v, %v", planets, err)
		}
	})
}
