// Package storage persists simulation sessions so an equivalent driver,
// ensemble and trajectory can be rebuilt later.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/partikle/internal/forces"
	"github.com/san-kum/partikle/internal/particle"
	"github.com/san-kum/partikle/internal/sim"
)

// Store keeps one directory per saved session: metadata.json with the run
// parameters, particles.csv with the per-particle constants, and states.csv
// with the recorded trajectory.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type SessionMeta struct {
	ID         string             `json:"id"`
	CreatedAt  time.Time          `json:"created_at"`
	N          int                `json:"n"`
	Dim        int                `json:"dim"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Gravity    float64            `json:"gravity"`
	Coulomb    float64            `json:"coulomb"`
	Softening  float64            `json:"softening"`
	Collisions bool               `json:"collisions"`
	Steps      int                `json:"steps"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`
}

// Save writes the driver's session under id. An id ending in "_" is
// auto-numbered with the first free suffix. Returns the final id.
func (s *Store) Save(id string, dt, duration float64, d *sim.Driver) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}

	if strings.HasSuffix(id, "_") {
		for n := 0; ; n++ {
			candidate := fmt.Sprintf("%s%03d", id, n)
			if _, err := os.Stat(filepath.Join(s.baseDir, candidate)); os.IsNotExist(err) {
				id = candidate
				break
			}
		}
	}

	dir := filepath.Join(s.baseDir, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	ens := d.Ensemble()
	field := d.Field()
	meta := SessionMeta{
		ID:         id,
		CreatedAt:  time.Now(),
		N:          ens.N,
		Dim:        ens.Dim,
		Dt:         dt,
		Duration:   duration,
		Gravity:    field.G,
		Coulomb:    field.Coulomb,
		Softening:  field.Softening,
		Collisions: d.Collisions(),
		Steps:      d.Steps(),
		Metrics:    d.Metrics(),
	}

	if err := writeJSON(filepath.Join(dir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeParticles(filepath.Join(dir, "particles.csv"), ens); err != nil {
		return "", err
	}
	if err := writeStates(filepath.Join(dir, "states.csv"), ens.Dim, d.Trajectory()); err != nil {
		return "", err
	}

	return id, nil
}

func writeJSON(path string, meta SessionMeta) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func writeParticles(path string, ens *particle.Ensemble) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"mass", "charge", "radius"}); err != nil {
		return err
	}
	for i := 0; i < ens.N; i++ {
		row := []string{
			formatFloat(ens.Masses[i]),
			formatFloat(ens.Charges[i]),
			formatFloat(ens.Radii[i]),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func writeStates(path string, dim int, tr sim.Trajectory) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if len(tr) == 0 {
		return nil
	}

	n := tr[0].Ensemble.N
	header := []string{"time"}
	for i := 0; i < n; i++ {
		for k := 0; k < dim; k++ {
			header = append(header, fmt.Sprintf("x%d_%d", i, k))
		}
	}
	for i := 0; i < n; i++ {
		for k := 0; k < dim; k++ {
			header = append(header, fmt.Sprintf("v%d_%d", i, k))
		}
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, snap := range tr {
		row := make([]string, 0, 1+2*n*dim)
		row = append(row, formatFloat(snap.Time))
		for _, v := range snap.Ensemble.Positions {
			row = append(row, formatFloat(v))
		}
		for _, v := range snap.Ensemble.Velocities {
			row = append(row, formatFloat(v))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 17, 64)
}

// List returns metadata for every saved session.
func (s *Store) List() ([]SessionMeta, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SessionMeta{}, nil
		}
		return nil, err
	}

	sessions := make([]SessionMeta, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.LoadMeta(entry.Name())
		if err != nil {
			continue
		}
		sessions = append(sessions, *meta)
	}
	return sessions, nil
}

// LoadMeta reads only a session's metadata.
func (s *Store) LoadMeta(id string) (*SessionMeta, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta SessionMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// Load rebuilds a full driver from a saved session: the live ensemble is
// the last recorded snapshot and the trajectory is the complete history, so
// a further Solve continues where the saved run stopped.
func (s *Store) Load(id string) (*sim.Driver, *SessionMeta, error) {
	meta, err := s.LoadMeta(id)
	if err != nil {
		return nil, nil, err
	}

	masses, charges, radii, err := readParticles(
		filepath.Join(s.baseDir, id, "particles.csv"), meta.N)
	if err != nil {
		return nil, nil, err
	}

	tr, err := readStates(filepath.Join(s.baseDir, id, "states.csv"),
		meta.N, meta.Dim, masses, charges, radii)
	if err != nil {
		return nil, nil, err
	}
	if len(tr) == 0 {
		return nil, nil, fmt.Errorf("storage: session %s has no recorded states", id)
	}

	field := forces.New(
		forces.WithG(meta.Gravity),
		forces.WithCoulomb(meta.Coulomb),
		forces.WithSoftening(meta.Softening),
	)

	d := sim.New(tr[0].Ensemble.Clone(), field, sim.WithCollisions(meta.Collisions))
	if err := d.Restore(tr); err != nil {
		return nil, nil, err
	}
	return d, meta, nil
}

func readParticles(path string, n int) (masses, charges, radii []float64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, nil, err
	}
	if len(records) != n+1 {
		return nil, nil, nil, fmt.Errorf("storage: particles.csv has %d rows, want %d", len(records)-1, n)
	}

	masses = make([]float64, n)
	charges = make([]float64, n)
	radii = make([]float64, n)
	for i := 0; i < n; i++ {
		row := records[i+1]
		if len(row) != 3 {
			return nil, nil, nil, fmt.Errorf("storage: malformed particle row %d", i)
		}
		if masses[i], err = strconv.ParseFloat(row[0], 64); err != nil {
			return nil, nil, nil, err
		}
		if charges[i], err = strconv.ParseFloat(row[1], 64); err != nil {
			return nil, nil, nil, err
		}
		if radii[i], err = strconv.ParseFloat(row[2], 64); err != nil {
			return nil, nil, nil, err
		}
	}
	return masses, charges, radii, nil
}

func readStates(path string, n, dim int, masses, charges, radii []float64) (sim.Trajectory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return sim.Trajectory{}, nil
	}

	wantCols := 1 + 2*n*dim
	tr := make(sim.Trajectory, 0, len(records)-1)

	for step, row := range records[1:] {
		if len(row) != wantCols {
			return nil, fmt.Errorf("storage: state row %d has %d columns, want %d", step, len(row), wantCols)
		}

		t, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			return nil, err
		}

		positions := make([][]float64, n)
		velocities := make([][]float64, n)
		for i := 0; i < n; i++ {
			positions[i] = make([]float64, dim)
			velocities[i] = make([]float64, dim)
			for k := 0; k < dim; k++ {
				if positions[i][k], err = strconv.ParseFloat(row[1+i*dim+k], 64); err != nil {
					return nil, err
				}
				if velocities[i][k], err = strconv.ParseFloat(row[1+n*dim+i*dim+k], 64); err != nil {
					return nil, err
				}
			}
		}

		ens, err := particle.New(positions, velocities, masses, charges, radii)
		if err != nil {
			return nil, err
		}
		tr = append(tr, sim.Snapshot{Step: step, Time: t, Ensemble: ens})
	}

	return tr, nil
}
