// Package sim owns the simulation step loop: it drives the integrator over
// a particle ensemble and accumulates the trajectory history.
package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/partikle/internal/forces"
	"github.com/san-kum/partikle/internal/integrate"
	"github.com/san-kum/partikle/internal/particle"
)

// Driver runs a simulation over an exclusively owned ensemble. While Solve
// is executing the ensemble must not be touched from outside; every
// completed step leaves it fully consistent, and the recorded trajectory
// only ever grows.
type Driver struct {
	ens        *particle.Ensemble
	field      *forces.Field
	integrator *integrate.Verlet

	trajectory Trajectory
	time       float64
	steps      int

	metrics   []Metric
	observers []Observer
}

type Option func(*Driver)

// WithCollisions toggles elastic collision resolution (default on).
func WithCollisions(enabled bool) Option {
	return func(d *Driver) {
		d.integrator = integrate.NewVerlet(d.field, enabled)
	}
}

func WithMetric(m Metric) Option {
	return func(d *Driver) { d.metrics = append(d.metrics, m) }
}

func WithObserver(o Observer) Option {
	return func(d *Driver) { d.observers = append(d.observers, o) }
}

// New builds a Driver that takes ownership of ens. The field's backend
// choice is made here, at construction, not per call.
func New(ens *particle.Ensemble, field *forces.Field, opts ...Option) *Driver {
	d := &Driver{
		ens:        ens,
		field:      field,
		integrator: integrate.NewVerlet(field, true),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Field returns the force field in use.
func (d *Driver) Field() *forces.Field { return d.field }

// Collisions reports whether collision resolution is enabled.
func (d *Driver) Collisions() bool { return d.integrator.Collisions() }

// Ensemble returns the live ensemble. Callers must not mutate it while
// Solve is running.
func (d *Driver) Ensemble() *particle.Ensemble { return d.ens }

// Time returns the current simulated time.
func (d *Driver) Time() float64 { return d.time }

// Steps returns the number of completed integration steps.
func (d *Driver) Steps() int { return d.steps }

// Solve advances the simulation by duration using a fixed timestep dt and
// appends one deep-copied snapshot per recorded state. On the first call
// the initial state is recorded as snapshot zero, so a run of duration T
// produces ceil(T/dt) snapshots whose first entry equals the construction
// state exactly. Calling Solve again continues from the last recorded state
// and appends ceil(duration/dt) further snapshots.
//
// Cancellation is honored between steps: a canceled context aborts the run
// with ctx's error while preserving the trajectory through the last
// completed step.
func (d *Driver) Solve(ctx context.Context, duration, dt float64) error {
	if err := validateRun(duration, dt); err != nil {
		return err
	}

	steps := int(math.Ceil(duration / dt))

	for _, m := range d.metrics {
		m.Reset()
	}

	if len(d.trajectory) == 0 {
		d.record()
		steps--
	}

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("sim: solve interrupted at t=%.6g: %w", d.time, ctx.Err())
		default:
		}

		d.integrator.Step(d.ens, dt)
		d.steps++
		d.time += dt
		d.record()

		for _, o := range d.observers {
			o.OnStep(d.ens, d.steps, d.time)
		}
	}

	return nil
}

func validateRun(duration, dt float64) error {
	if duration <= 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return &ConfigurationError{Param: "duration",
			Message: fmt.Sprintf("must be positive, got %g", duration)}
	}
	if dt <= 0 || math.IsNaN(dt) {
		return &ConfigurationError{Param: "dt",
			Message: fmt.Sprintf("must be positive, got %g", dt)}
	}
	if dt > duration {
		return &ConfigurationError{Param: "dt",
			Message: fmt.Sprintf("%g exceeds duration %g", dt, duration)}
	}
	return nil
}

func (d *Driver) record() {
	d.trajectory = append(d.trajectory, Snapshot{
		Step:     d.steps,
		Time:     d.time,
		Ensemble: d.ens.Clone(),
	})

	for _, m := range d.metrics {
		m.Observe(d.ens, d.time)
	}
}

// Trajectory returns the recorded history. Empty before the first Solve.
func (d *Driver) Trajectory() Trajectory {
	return d.trajectory
}

// Metrics returns the final value of every registered metric.
func (d *Driver) Metrics() map[string]float64 {
	out := make(map[string]float64, len(d.metrics))
	for _, m := range d.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

// Restore rewinds the driver onto a previously recorded trajectory: the
// live ensemble becomes a copy of the last snapshot and subsequent Solve
// calls continue from there. Used when loading saved sessions.
func (d *Driver) Restore(tr Trajectory) error {
	if len(tr) == 0 {
		return &ConfigurationError{Param: "trajectory", Message: "empty"}
	}
	last := tr[len(tr)-1]
	d.trajectory = tr
	d.ens = last.Ensemble.Clone()
	d.time = last.Time
	d.steps = last.Step
	d.integrator.Reset()
	return nil
}
