package config

import "sort"

// Presets are ready-made configurations for common scenarios.
var presets = map[string]func() *Config{
	"orbit": func() *Config {
		cfg := DefaultConfig()
		cfg.Gravity = 1
		cfg.Coulomb = 0
		cfg.Collisions = false
		cfg.Dt = 0.01
		cfg.Duration = 10
		cfg.Init = InitConfig{
			Mode:       "random",
			N:          2,
			Dim:        2,
			PositionSD: 1,
			VelocitySD: 0.5,
			MassMean:   1,
			MassSD:     0,
			RadiusMean: 0.1,
		}
		return cfg
	},
	"lattice": func() *Config {
		cfg := DefaultConfig()
		cfg.Dt = 1e-3
		cfg.Duration = 1
		cfg.Init = InitConfig{
			Mode:    "lattice",
			Shape:   []int{8, 8},
			Mass:    1e-2,
			Charge:  1e-6,
			Spacing: 0.5,
			Radius:  0.25,
		}
		return cfg
	},
	"cloud": func() *Config {
		cfg := DefaultConfig()
		cfg.Duration = 30
		cfg.Init.N = 100
		cfg.Init.Dim = 3
		return cfg
	},
}

// GetPreset returns a copy of the named preset, or nil if it does not
// exist.
func GetPreset(name string) *Config {
	build, ok := presets[name]
	if !ok {
		return nil
	}
	return build()
}

// ListPresets returns the available preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
