package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/san-kum/partikle/internal/sim"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	n          INTEGER,
	dim        INTEGER,
	dt         REAL,
	duration   REAL,
	gravity    REAL,
	coulomb    REAL,
	softening  REAL,
	collisions INTEGER
);
CREATE TABLE IF NOT EXISTS particles (
	run_id TEXT,
	idx    INTEGER,
	mass   REAL,
	charge REAL,
	radius REAL
);
CREATE TABLE IF NOT EXISTS states (
	run_id   TEXT,
	step     INTEGER,
	time     REAL,
	particle INTEGER,
	x        REAL,
	y        REAL,
	z        REAL,
	vx       REAL,
	vy       REAL,
	vz       REAL
);
CREATE INDEX IF NOT EXISTS idx_states_run_step ON states (run_id, step, particle);
`

// SQLiteStore writes trajectories into a single SQLite database, one row
// per particle per step. Suited for querying slices of large runs without
// loading the full history.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?_journal_mode=OFF&_synchronous=OFF")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun inserts the session under meta.ID inside one transaction.
func (s *SQLiteStore) SaveRun(meta SessionMeta, tr sim.Trajectory) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	collisions := 0
	if meta.Collisions {
		collisions = 1
	}
	_, err = tx.Exec(
		`INSERT INTO runs VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		meta.ID, meta.N, meta.Dim, meta.Dt, meta.Duration,
		meta.Gravity, meta.Coulomb, meta.Softening, collisions,
	)
	if err != nil {
		return err
	}

	if len(tr) == 0 {
		return tx.Commit()
	}

	ens := tr[0].Ensemble
	insertParticle, err := tx.Prepare(`INSERT INTO particles VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer insertParticle.Close()
	for i := 0; i < ens.N; i++ {
		if _, err := insertParticle.Exec(meta.ID, i, ens.Masses[i], ens.Charges[i], ens.Radii[i]); err != nil {
			return err
		}
	}

	insertState, err := tx.Prepare(`INSERT INTO states VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer insertState.Close()

	for _, snap := range tr {
		e := snap.Ensemble
		for i := 0; i < e.N; i++ {
			pos := e.Position(i)
			vel := e.Velocity(i)
			z, vz := 0.0, 0.0
			if e.Dim == 3 {
				z, vz = pos[2], vel[2]
			}
			_, err := insertState.Exec(meta.ID, snap.Step, snap.Time, i,
				pos[0], pos[1], z, vel[0], vel[1], vz)
			if err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// FramePositions returns the flat positions of one recorded step.
func (s *SQLiteStore) FramePositions(runID string, step int) ([]float64, error) {
	var dim int
	err := s.db.QueryRow(`SELECT dim FROM runs WHERE id = ?`, runID).Scan(&dim)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		`SELECT x, y, z FROM states WHERE run_id = ? AND step = ? ORDER BY particle ASC`,
		runID, step,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pos []float64
	for rows.Next() {
		var x, y, z float64
		if err := rows.Scan(&x, &y, &z); err != nil {
			return nil, err
		}
		pos = append(pos, x, y)
		if dim == 3 {
			pos = append(pos, z)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if pos == nil {
		return nil, fmt.Errorf("storage: no states for run %s step %d", runID, step)
	}
	return pos, nil
}

// Runs lists the stored run ids.
func (s *SQLiteStore) Runs() ([]string, error) {
	rows, err := s.db.Query(`SELECT id FROM runs ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
