package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if cfg.Gravity <= 0 {
		t.Error("gravity constant should be positive")
	}
	if !cfg.Collisions {
		t.Error("collisions should default to enabled")
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := DefaultConfig()
	cfg.Dt = 0.005
	cfg.Init.Mode = "lattice"
	cfg.Init.Shape = []int{4, 4}
	cfg.Init.Mass = 2.5

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.Dt != 0.005 {
		t.Errorf("dt = %g, want 0.005", loaded.Dt)
	}
	if loaded.Init.Mode != "lattice" || len(loaded.Init.Shape) != 2 {
		t.Errorf("init block lost in roundtrip: %+v", loaded.Init)
	}
	if loaded.Init.Mass != 2.5 {
		t.Errorf("mass = %g, want 2.5", loaded.Init.Mass)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestBuildEnsemble(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Init.N = 10

	e, err := cfg.BuildEnsemble()
	if err != nil {
		t.Fatalf("build random: %v", err)
	}
	if e.N != 10 || e.Dim != 2 {
		t.Errorf("got N=%d dim=%d", e.N, e.Dim)
	}

	cfg.Init.Mode = "lattice"
	cfg.Init.Shape = []int{3, 3}
	cfg.Init.Mass = 1
	cfg.Init.Radius = 0.1
	cfg.Init.Spacing = 1

	e, err = cfg.BuildEnsemble()
	if err != nil {
		t.Fatalf("build lattice: %v", err)
	}
	if e.N != 9 {
		t.Errorf("lattice N = %d, want 9", e.N)
	}

	cfg.Init.Mode = "bogus"
	if _, err := cfg.BuildEnsemble(); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestBuildField(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gravity = 2
	cfg.Coulomb = 3
	cfg.Softening = 0.5

	f := cfg.BuildField()
	if f.G != 2 || f.Coulomb != 3 || f.Softening != 0.5 {
		t.Errorf("field constants not applied: %+v", f)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("orbit")
	if cfg == nil {
		t.Fatal("expected orbit preset")
	}
	if cfg.Gravity != 1 || cfg.Collisions {
		t.Errorf("orbit preset wrong: G=%g collisions=%v", cfg.Gravity, cfg.Collisions)
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for unknown preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) == 0 {
		t.Fatal("expected presets")
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Error("preset names must be sorted")
		}
	}
}
