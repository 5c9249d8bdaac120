package sim

import (
	"fmt"

	"github.com/san-kum/partikle/internal/particle"
)

// Snapshot is one recorded ensemble state. The ensemble is a deep copy taken
// at record time; mutating the live simulation never alters it.
type Snapshot struct {
	Step     int
	Time     float64
	Ensemble *particle.Ensemble
}

// Trajectory is the ordered, append-only history of a run. Consumers must
// treat it as read-only.
type Trajectory []Snapshot

// Times returns the snapshot timestamps in order.
func (tr Trajectory) Times() []float64 {
	ts := make([]float64, len(tr))
	for i, s := range tr {
		ts[i] = s.Time
	}
	return ts
}

// Metric accumulates a scalar over the run, observed once per recorded
// snapshot.
type Metric interface {
	Name() string
	Observe(e *particle.Ensemble, t float64)
	Value() float64
	Reset()
}

// Observer is notified after every completed step.
type Observer interface {
	OnStep(e *particle.Ensemble, step int, t float64)
}

// ConfigurationError reports invalid run parameters. It is returned from
// Solve before any step executes, so a failed call never leaves a partially
// advanced trajectory.
type ConfigurationError struct {
	Param   string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("sim: invalid %s: %s", e.Param, e.Message)
}
