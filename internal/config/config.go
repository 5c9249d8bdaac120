package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/partikle/internal/forces"
	"github.com/san-kum/partikle/internal/particle"
)

const (
	DefaultDt       = 0.01
	DefaultDuration = 10.0
	DefaultDim      = 2
	DefaultN        = 16
)

type Config struct {
	Dt         float64 `yaml:"dt"`
	Duration   float64 `yaml:"duration"`
	Seed       int64   `yaml:"seed"`
	Gravity    float64 `yaml:"gravity"`
	Coulomb    float64 `yaml:"coulomb"`
	Softening  float64 `yaml:"softening"`
	Collisions bool    `yaml:"collisions"`
	Backend    string  `yaml:"backend"`

	Init InitConfig `yaml:"init"`
}

// InitConfig describes how the initial ensemble is built. Mode selects
// between a charged lattice and a random cloud.
type InitConfig struct {
	Mode string `yaml:"mode"`

	// Lattice parameters.
	Shape   []int   `yaml:"shape"`
	Mass    float64 `yaml:"mass"`
	Charge  float64 `yaml:"charge"`
	Spacing float64 `yaml:"spacing"`
	Radius  float64 `yaml:"radius"`

	// Random cloud parameters.
	N          int     `yaml:"n"`
	Dim        int     `yaml:"dim"`
	PositionSD float64 `yaml:"position_sd"`
	VelocitySD float64 `yaml:"velocity_sd"`
	MassMean   float64 `yaml:"mass_mean"`
	MassSD     float64 `yaml:"mass_sd"`
	ChargeSD   float64 `yaml:"charge_sd"`
	RadiusMean float64 `yaml:"radius_mean"`
	RadiusSD   float64 `yaml:"radius_sd"`
}

func DefaultConfig() *Config {
	return &Config{
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Gravity:    forces.GravitationalConstant,
		Coulomb:    forces.CoulombConstant,
		Softening:  forces.DefaultSoftening,
		Collisions: true,
		Backend:    "auto",
		Init: InitConfig{
			Mode:       "random",
			N:          DefaultN,
			Dim:        DefaultDim,
			PositionSD: 100,
			VelocitySD: 100,
			MassMean:   1e7,
			MassSD:     1e5,
			ChargeSD:   1e-5,
			RadiusMean: 1,
			RadiusSD:   0.1,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// BuildEnsemble constructs the initial particle ensemble the config
// describes.
func (c *Config) BuildEnsemble() (*particle.Ensemble, error) {
	switch c.Init.Mode {
	case "lattice":
		return particle.Lattice(c.Init.Shape, c.Init.Mass, c.Init.Charge,
			c.Init.Spacing, c.Init.Radius)
	case "random", "":
		spec := particle.RandomSpec{
			Position: [2]float64{0, c.Init.PositionSD},
			Velocity: [2]float64{0, c.Init.VelocitySD},
			Mass:     [2]float64{c.Init.MassMean, c.Init.MassSD},
			Charge:   [2]float64{0, c.Init.ChargeSD},
			Radius:   [2]float64{c.Init.RadiusMean, c.Init.RadiusSD},
		}
		return particle.Random(c.Init.N, c.Init.Dim, c.Seed, spec)
	default:
		return nil, fmt.Errorf("config: unknown init mode %q", c.Init.Mode)
	}
}

// BuildField constructs the force field the config describes.
func (c *Config) BuildField() *forces.Field {
	return forces.New(
		forces.WithG(c.Gravity),
		forces.WithCoulomb(c.Coulomb),
		forces.WithSoftening(c.Softening),
	)
}
