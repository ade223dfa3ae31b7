package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default settings invalid: %v", err)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.json")
	body := `{"planet": {"radius": 90}, "enemy": {"natural_spread_chance": 1.0}}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Planet.Radius != 90 {
		t.Fatalf("radius=%f want 90", s.Planet.Radius)
	}
	if s.Enemy.NaturalSpreadChance != 1.0 {
		t.Fatalf("spread chance=%f want 1", s.Enemy.NaturalSpreadChance)
	}
	if s.Planet.Friction != 0.985 {
		t.Fatalf("friction default lost: %f", s.Planet.Friction)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"planet": {"radius": -1, "friction": 2}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "planet.radius") || !strings.Contains(err.Error(), "planet.friction") {
		t.Fatalf("error should name both fields: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
