package repository

import (
	"context"
	"encoding/json"

	"github.com/deppfellow/cosmic-travel/internal/database"
	"github.com/deppfellow/cosmic-travel/internal/model"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

// BoltStore keeps each table in its own bucket. Every write is a single
// Update transaction, so reference checks and cascades commit together.
type BoltStore struct {
	db *bolt.DB
}

func NewBoltStore(db *bolt.DB) *BoltStore {
	return &BoltStore{db: db}
}

type scientistRecord struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	FieldOfStudy string `json:"field_of_study"`
}

type planetRecord struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	DistanceFromEarth int64  `json:"distance_from_earth"`
	NearestStar       string `json:"nearest_star"`
}

type missionRecord struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	ScientistID int64  `json:"scientist_id"`
	PlanetID    int64  `json:"planet_id"`
}

func (r scientistRecord) model() model.Scientist {
	return model.Scientist{ID: r.ID, Name: r.Name, FieldOfStudy: r.FieldOfStudy}
}

func (r planetRecord) model() model.Planet {
	return model.Planet{ID: r.ID, Name: r.Name, DistanceFromEarth: r.DistanceFromEarth, NearestStar: r.NearestStar}
}

func (r missionRecord) model() model.Mission {
	return model.Mission{ID: r.ID, Name: r.Name, ScientistID: r.ScientistID, PlanetID: r.PlanetID}
}

// ------------------------------------------------------------
// bucket helpers

// load decodes the record stored under id. found is false when there is
// none.
func load[T any](b *bolt.Bucket, id int64) (rec T, found bool, err error) {
	v := b.Get(database.IDKey(id))
	if v == nil {
		return rec, false, nil
	}
	if err := json.Unmarshal(v, &rec); err != nil {
		return rec, false, errors.Wrapf(err, "decode record %d", id)
	}
	return rec, true, nil
}

func store(b *bolt.Bucket, id int64, rec any) error {
	v, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "encode record")
	}
	return b.Put(database.IDKey(id), v)
}

// each visits the bucket's records in id order.
func each[T any](b *bolt.Bucket, fn func(T) error) error {
	return b.ForEach(func(k, v []byte) error {
		var rec T
		if err := json.Unmarshal(v, &rec); err != nil {
			return errors.Wrapf(err, "decode record %d", database.KeyID(k))
		}
		return fn(rec)
	})
}

func nextID(b *bolt.Bucket) (int64, error) {
	seq, err := b.NextSequence()
	if err != nil {
		return 0, errors.Wrap(err, "next sequence")
	}
	return int64(seq), nil
}

// deleteMissions removes every mission for which match is true. Keys are
// collected first since bolt cursors must not mutate during ForEach.
func deleteMissions(tx *bolt.Tx, match func(missionRecord) bool) error {
	missions := tx.Bucket(database.MissionsBucket)

	var doomed [][]byte
	err := each(missions, func(m missionRecord) error {
		if match(m) {
			doomed = append(doomed, database.IDKey(m.ID))
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, k := range doomed {
		if err := missions.Delete(k); err != nil {
			return errors.Wrap(err, "delete mission")
		}
	}
	return nil
}

func (r *BoltStore) view(ctx context.Context, fn func(*bolt.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.View(fn)
}

func (r *BoltStore) update(ctx context.Context, fn func(*bolt.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.Update(fn)
}

// ------------------------------------------------------------
// Scientists

func (r *BoltStore) ListScientists(ctx context.Context) ([]model.Scientist, error) {
	scientists := []model.Scientist{}

	err := r.view(ctx, func(tx *bolt.Tx) error {
		return each(tx.Bucket(database.ScientistsBucket), func(rec scientistRecord) error {
			scientists = append(scientists, rec.model())
			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "list scientists")
	}
	return scientists, nil
}

func (r *BoltStore) GetScientist(ctx context.Context, id int64) (*model.Scientist, error) {
	var scientist *model.Scientist

	err := r.view(ctx, func(tx *bolt.Tx) error {
		var err error
		scientist, err = loadScientistTx(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return scientist, nil
}

// loadScientistTx reads a scientist with its missions and their planets.
func loadScientistTx(tx *bolt.Tx, id int64) (*model.Scientist, error) {
	rec, found, err := load[scientistRecord](tx.Bucket(database.ScientistsBucket), id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Wrapf(ErrNotFound, "get scientist %d", id)
	}

	s := rec.model()
	s.Missions = []model.Mission{}

	planets := tx.Bucket(database.PlanetsBucket)
	err = each(tx.Bucket(database.MissionsBucket), func(m missionRecord) error {
		if m.ScientistID != id {
			return nil
		}
		mission := m.model()
		if p, ok, err := load[planetRecord](planets, m.PlanetID); err != nil {
			return err
		} else if ok {
			planet := p.model()
			mission.Planet = &planet
		}
		s.Missions = append(s.Missions, mission)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "missions of scientist %d", id)
	}

	return &s, nil
}

func (r *BoltStore) CreateScientist(ctx context.Context, s *model.Scientist) (*model.Scientist, error) {
	rec := scientistRecord{Name: s.Name, FieldOfStudy: s.FieldOfStudy}

	err := r.update(ctx, func(tx *bolt.Tx) error {
		b := tx.Bucket(database.ScientistsBucket)
		id, err := nextID(b)
		if err != nil {
			return err
		}
		rec.ID = id
		return store(b, id, rec)
	})
	if err != nil {
		return nil, errors.Wrap(err, "create scientist")
	}

	created := rec.model()
	created.Missions = []model.Mission{}
	return &created, nil
}

func (r *BoltStore) UpdateScientist(ctx context.Context, s *model.Scientist) (*model.Scientist, error) {
	var updated *model.Scientist

	err := r.update(ctx, func(tx *bolt.Tx) error {
		b := tx.Bucket(database.ScientistsBucket)
		rec, found, err := load[scientistRecord](b, s.ID)
		if err != nil {
			return err
		}
		if !found {
			return errors.Wrapf(ErrNotFound, "update scientist %d", s.ID)
		}

		rec.Name = s.Name
		rec.FieldOfStudy = s.FieldOfStudy
		if err := store(b, rec.ID, rec); err != nil {
			return errors.Wrapf(err, "update scientist %d", s.ID)
		}

		updated, err = loadScientistTx(tx, s.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *BoltStore) DeleteScientist(ctx context.Context, id int64) error {
	return r.update(ctx, func(tx *bolt.Tx) error {
		b := tx.Bucket(database.ScientistsBucket)
		if b.Get(database.IDKey(id)) == nil {
			return errors.Wrapf(ErrNotFound, "delete scientist %d", id)
		}

		err := deleteMissions(tx, func(m missionRecord) bool { return m.ScientistID == id })
		if err != nil {
			return errors.Wrapf(err, "delete missions of scientist %d", id)
		}

		return errors.Wrapf(b.Delete(database.IDKey(id)), "delete scientist %d", id)
	})
}

func (r *BoltStore) PlanetsForScientist(ctx context.Context, id int64) ([]model.Planet, error) {
	s, err := r.GetScientist(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Planets(), nil
}

// ------------------------------------------------------------
// Planets

func (r *BoltStore) ListPlanets(ctx context.Context) ([]model.Planet, error) {
	planets := []model.Planet{}

	err := r.view(ctx, func(tx *bolt.Tx) error {
		return each(tx.Bucket(database.PlanetsBucket), func(rec planetRecord) error {
			planets = append(planets, rec.model())
			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "list planets")
	}
	return planets, nil
}

func (r *BoltStore) GetPlanet(ctx context.Context, id int64) (*model.Planet, error) {
	var planet *model.Planet

	err := r.view(ctx, func(tx *bolt.Tx) error {
		rec, found, err := load[planetRecord](tx.Bucket(database.PlanetsBucket), id)
		if err != nil {
			return err
		}
		if !found {
			return errors.Wrapf(ErrNotFound, "get planet %d", id)
		}
		p := rec.model()
		planet = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return planet, nil
}

func (r *BoltStore) CreatePlanet(ctx context.Context, p *model.Planet) (*model.Planet, error) {
	rec := planetRecord{Name: p.Name, DistanceFromEarth: p.DistanceFromEarth, NearestStar: p.NearestStar}

	err := r.update(ctx, func(tx *bolt.Tx) error {
		b := tx.Bucket(database.PlanetsBucket)
		id, err := nextID(b)
		if err != nil {
			return err
		}
		rec.ID = id
		return store(b, id, rec)
	})
	if err != nil {
		return nil, errors.Wrap(err, "create planet")
	}

	created := rec.model()
	return &created, nil
}

func (r *BoltStore) DeletePlanet(ctx context.Context, id int64) error {
	return r.update(ctx, func(tx *bolt.Tx) error {
		b := tx.Bucket(database.PlanetsBucket)
		if b.Get(database.IDKey(id)) == nil {
			return errors.Wrapf(ErrNotFound, "delete planet %d", id)
		}

		err := deleteMissions(tx, func(m missionRecord) bool { return m.PlanetID == id })
		if err != nil {
			return errors.Wrapf(err, "delete missions of planet %d", id)
		}

		return errors.Wrapf(b.Delete(database.IDKey(id)), "delete planet %d", id)
	})
}

func (r *BoltStore) ScientistsForPlanet(ctx context.Context, id int64) ([]model.Scientist, error) {
	scientists := []model.Scientist{}

	err := r.view(ctx, func(tx *bolt.Tx) error {
		if tx.Bucket(database.PlanetsBucket).Get(database.IDKey(id)) == nil {
			return errors.Wrapf(ErrNotFound, "get planet %d", id)
		}

		sb := tx.Bucket(database.ScientistsBucket)
		return each(tx.Bucket(database.MissionsBucket), func(m missionRecord) error {
			if m.PlanetID != id {
				return nil
			}
			rec, found, err := load[scientistRecord](sb, m.ScientistID)
			if err != nil {
				return err
			}
			if found {
				scientists = append(scientists, rec.model())
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return scientists, nil
}

// ------------------------------------------------------------
// Missions

func (r *BoltStore) CreateMission(ctx context.Context, m *model.Mission) (*model.Mission, error) {
	var created *model.Mission

	err := r.update(ctx, func(tx *bolt.Tx) error {
		scientist, found, err := load[scientistRecord](tx.Bucket(database.ScientistsBucket), m.ScientistID)
		if err != nil {
			return err
		}
		if !found {
			return errors.Wrap(ErrReferenceNotFound, "scientist_id")
		}

		planet, found, err := load[planetRecord](tx.Bucket(database.PlanetsBucket), m.PlanetID)
		if err != nil {
			return err
		}
		if !found {
			return errors.Wrap(ErrReferenceNotFound, "planet_id")
		}

		b := tx.Bucket(database.MissionsBucket)
		id, err := nextID(b)
		if err != nil {
			return err
		}
		rec := missionRecord{ID: id, Name: m.Name, ScientistID: m.ScientistID, PlanetID: m.PlanetID}
		if err := store(b, id, rec); err != nil {
			return errors.Wrap(err, "create mission")
		}

		mission := rec.model()
		s, p := scientist.model(), planet.model()
		mission.Scientist, mission.Planet = &s, &p
		created = &mission
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *BoltStore) GetMission(ctx context.Context, id int64) (*model.Mission, error) {
	var mission *model.Mission

	err := r.view(ctx, func(tx *bolt.Tx) error {
		rec, found, err := load[missionRecord](tx.Bucket(database.MissionsBucket), id)
		if err != nil {
			return err
		}
		if !found {
			return errors.Wrapf(ErrNotFound, "get mission %d", id)
		}

		m := rec.model()
		if s, ok, err := load[scientistRecord](tx.Bucket(database.ScientistsBucket), rec.ScientistID); err != nil {
			return err
		} else if ok {
			scientist := s.model()
			m.Scientist = &scientist
		}
		if p, ok, err := load[planetRecord](tx.Bucket(database.PlanetsBucket), rec.PlanetID); err != nil {
			return err
		} else if ok {
			planet := p.model()
			m.Planet = &planet
		}
		mission = &m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mission, nil
}
