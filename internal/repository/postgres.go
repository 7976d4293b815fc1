package repository

import (
	"context"
	"strings"

	"github.com/deppfellow/cosmic-travel/internal/model"
	"github.com/deppfellow/cosmic-travel/internal/sqlerr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

var readOnly = pgx.TxOptions{AccessMode: pgx.ReadOnly}

const (
	selectScientist = `SELECT id, name, field_of_study FROM scientists`
	selectPlanet    = `SELECT id, name, distance_from_earth, nearest_star FROM planets`

	selectMissionsWithPlanet = `
		SELECT m.id, m.name, m.scientist_id, m.planet_id,
		       p.id, p.name, p.distance_from_earth, p.nearest_star
		FROM missions m
		JOIN planets p ON p.id = m.planet_id
		WHERE m.scientist_id = $1
		ORDER BY m.id`

	selectPlanetsForScientist = `
		SELECT p.id, p.name, p.distance_from_earth, p.nearest_star
		FROM missions m
		JOIN planets p ON p.id = m.planet_id
		WHERE m.scientist_id = $1
		ORDER BY m.id`

	selectScientistsForPlanet = `
		SELECT s.id, s.name, s.field_of_study
		FROM missions m
		JOIN scientists s ON s.id = m.scientist_id
		WHERE m.planet_id = $1
		ORDER BY m.id`
)

func scanScientist(row pgx.CollectableRow) (model.Scientist, error) {
	var s model.Scientist
	err := row.Scan(&s.ID, &s.Name, &s.FieldOfStudy)
	return s, err
}

func scanPlanet(row pgx.CollectableRow) (model.Planet, error) {
	var p model.Planet
	err := row.Scan(&p.ID, &p.Name, &p.DistanceFromEarth, &p.NearestStar)
	return p, err
}

func scanMissionWithPlanet(row pgx.CollectableRow) (model.Mission, error) {
	var m model.Mission
	p := &model.Planet{}
	err := row.Scan(&m.ID, &m.Name, &m.ScientistID, &m.PlanetID,
		&p.ID, &p.Name, &p.DistanceFromEarth, &p.NearestStar)
	m.Planet = p
	return m, err
}

// notFound turns pgx.ErrNoRows into ErrNotFound.
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return errors.Wrapf(ErrNotFound, format, args...)
	}
	return errors.Wrapf(err, format, args...)
}

// ------------------------------------------------------------
// Scientists

func (r *PostgresStore) ListScientists(ctx context.Context) ([]model.Scientist, error) {
	rows, err := r.pool.Query(ctx, selectScientist+` ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "list scientists")
	}

	scientists, err := pgx.CollectRows(rows, scanScientist)
	if err != nil {
		return nil, errors.Wrap(err, "list scientists")
	}
	return scientists, nil
}

func (r *PostgresStore) GetScientist(ctx context.Context, id int64) (*model.Scientist, error) {
	var scientist *model.Scientist

	err := pgx.BeginTxFunc(ctx, r.pool, readOnly, func(tx pgx.Tx) error {
		var err error
		scientist, err = loadScientist(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return scientist, nil
}

// loadScientist reads a scientist and its missions with q, which should be
// a transaction so both reads see the same snapshot.
func loadScientist(ctx context.Context, q querier, id int64) (*model.Scientist, error) {
	rows, err := q.Query(ctx, selectScientist+` WHERE id = $1`, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get scientist %d", id)
	}
	s, err := pgx.CollectExactlyOneRow(rows, scanScientist)
	if err != nil {
		return nil, notFound(err, "get scientist %d", id)
	}

	rows, err = q.Query(ctx, selectMissionsWithPlanet, id)
	if err != nil {
		return nil, errors.Wrapf(err, "missions of scientist %d", id)
	}
	s.Missions, err = pgx.CollectRows(rows, scanMissionWithPlanet)
	if err != nil {
		return nil, errors.Wrapf(err, "missions of scientist %d", id)
	}

	return &s, nil
}

func (r *PostgresStore) CreateScientist(ctx context.Context, s *model.Scientist) (*model.Scientist, error) {
	created := &model.Scientist{Name: s.Name, FieldOfStudy: s.FieldOfStudy, Missions: []model.Mission{}}

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx,
			`INSERT INTO scientists (name, field_of_study) VALUES ($1, $2) RETURNING id`,
			s.Name, s.FieldOfStudy,
		).Scan(&created.ID)
	})
	if err != nil {
		return nil, errors.Wrap(err, "create scientist")
	}
	return created, nil
}

func (r *PostgresStore) UpdateScientist(ctx context.Context, s *model.Scientist) (*model.Scientist, error) {
	var updated *model.Scientist

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE scientists SET name = $2, field_of_study = $3 WHERE id = $1`,
			s.ID, s.Name, s.FieldOfStudy,
		)
		if err != nil {
			return errors.Wrapf(err, "update scientist %d", s.ID)
		}
		if tag.RowsAffected() == 0 {
			return errors.Wrapf(ErrNotFound, "update scientist %d", s.ID)
		}

		updated, err = loadScientist(ctx, tx, s.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *PostgresStore) DeleteScientist(ctx context.Context, id int64) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM missions WHERE scientist_id = $1`, id); err != nil {
			return errors.Wrapf(err, "delete missions of scientist %d", id)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM scientists WHERE id = $1`, id)
		if err != nil {
			return errors.Wrapf(err, "delete scientist %d", id)
		}
		if tag.RowsAffected() == 0 {
			return errors.Wrapf(ErrNotFound, "delete scientist %d", id)
		}
		return nil
	})
}

func (r *PostgresStore) PlanetsForScientist(ctx context.Context, id int64) ([]model.Planet, error) {
	var planets []model.Planet

	err := pgx.BeginTxFunc(ctx, r.pool, readOnly, func(tx pgx.Tx) error {
		if err := requireRow(ctx, tx, "scientists", id); err != nil {
			return err
		}

		rows, err := tx.Query(ctx, selectPlanetsForScientist, id)
		if err != nil {
			return errors.Wrapf(err, "planets of scientist %d", id)
		}
		planets, err = pgx.CollectRows(rows, scanPlanet)
		return errors.Wrapf(err, "planets of scientist %d", id)
	})
	if err != nil {
		return nil, err
	}
	return planets, nil
}

// requireRow fails with ErrNotFound when table has no row with id. table
// is always a constant from this file.
func requireRow(ctx context.Context, q querier, table string, id int64) error {
	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM `+table+` WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return errors.Wrapf(err, "lookup %s %d", table, id)
	}
	if !exists {
		return errors.Wrapf(ErrNotFound, "lookup %s %d", table, id)
	}
	return nil
}

// ------------------------------------------------------------
// Planets

func (r *PostgresStore) ListPlanets(ctx context.Context) ([]model.Planet, error) {
	rows, err := r.pool.Query(ctx, selectPlanet+` ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "list planets")
	}

	planets, err := pgx.CollectRows(rows, scanPlanet)
	if err != nil {
		return nil, errors.Wrap(err, "list planets")
	}
	return planets, nil
}

func (r *PostgresStore) GetPlanet(ctx context.Context, id int64) (*model.Planet, error) {
	rows, err := r.pool.Query(ctx, selectPlanet+` WHERE id = $1`, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get planet %d", id)
	}
	p, err := pgx.CollectExactlyOneRow(rows, scanPlanet)
	if err != nil {
		return nil, notFound(err, "get planet %d", id)
	}
	return &p, nil
}

func (r *PostgresStore) CreatePlanet(ctx context.Context, p *model.Planet) (*model.Planet, error) {
	created := *p

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx,
			`INSERT INTO planets (name, distance_from_earth, nearest_star) VALUES ($1, $2, $3) RETURNING id`,
			p.Name, p.DistanceFromEarth, p.NearestStar,
		).Scan(&created.ID)
	})
	if err != nil {
		return nil, errors.Wrap(err, "create planet")
	}
	return &created, nil
}

func (r *PostgresStore) DeletePlanet(ctx context.Context, id int64) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM missions WHERE planet_id = $1`, id); err != nil {
			return errors.Wrapf(err, "delete missions of planet %d", id)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM planets WHERE id = $1`, id)
		if err != nil {
			return errors.Wrapf(err, "delete planet %d", id)
		}
		if tag.RowsAffected() == 0 {
			return errors.Wrapf(ErrNotFound, "delete planet %d", id)
		}
		return nil
	})
}

func (r *PostgresStore) ScientistsForPlanet(ctx context.Context, id int64) ([]model.Scientist, error) {
	var scientists []model.Scientist

	err := pgx.BeginTxFunc(ctx, r.pool, readOnly, func(tx pgx.Tx) error {
		if err := requireRow(ctx, tx, "planets", id); err != nil {
			return err
		}

		rows, err := tx.Query(ctx, selectScientistsForPlanet, id)
		if err != nil {
			return errors.Wrapf(err, "scientists of planet %d", id)
		}
		scientists, err = pgx.CollectRows(rows, scanScientist)
		return errors.Wrapf(err, "scientists of planet %d", id)
	})
	if err != nil {
		return nil, err
	}
	return scientists, nil
}

// ------------------------------------------------------------
// Missions

func (r *PostgresStore) CreateMission(ctx context.Context, m *model.Mission) (*model.Mission, error) {
	var created *model.Mission

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var id int64
		err := tx.QueryRow(ctx,
			`INSERT INTO missions (name, scientist_id, planet_id) VALUES ($1, $2, $3) RETURNING id`,
			m.Name, m.ScientistID, m.PlanetID,
		).Scan(&id)
		if err != nil {
			if sqlerr.ErrCode(err) == sqlerr.ForeignKeyViolation {
				return errors.Wrap(ErrReferenceNotFound, referenceField(err))
			}
			return errors.Wrap(err, "create mission")
		}

		created, err = loadMission(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *PostgresStore) GetMission(ctx context.Context, id int64) (*model.Mission, error) {
	var mission *model.Mission

	err := pgx.BeginTxFunc(ctx, r.pool, readOnly, func(tx pgx.Tx) error {
		var err error
		mission, err = loadMission(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mission, nil
}

func loadMission(ctx context.Context, q querier, id int64) (*model.Mission, error) {
	m := &model.Mission{Scientist: &model.Scientist{}, Planet: &model.Planet{}}

	err := q.QueryRow(ctx, `
		SELECT m.id, m.name, m.scientist_id, m.planet_id,
		       s.id, s.name, s.field_of_study,
		       p.id, p.name, p.distance_from_earth, p.nearest_star
		FROM missions m
		JOIN scientists s ON s.id = m.scientist_id
		JOIN planets p ON p.id = m.planet_id
		WHERE m.id = $1`, id,
	).Scan(
		&m.ID, &m.Name, &m.ScientistID, &m.PlanetID,
		&m.Scientist.ID, &m.Scientist.Name, &m.Scientist.FieldOfStudy,
		&m.Planet.ID, &m.Planet.Name, &m.Planet.DistanceFromEarth, &m.Planet.NearestStar,
	)
	if err != nil {
		return nil, notFound(err, "get mission %d", id)
	}
	return m, nil
}

// referenceField names the column of a violated missions foreign key.
func referenceField(err error) string {
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		switch {
		case strings.Contains(pgerr.ConstraintName, "scientist_id"):
			return "scientist_id"
		case strings.Contains(pgerr.ConstraintName, "planet_id"):
			return "planet_id"
		}
	}
	return "reference"
}
