// Package config holds the tuning values for every simulation system. A
// Settings value is built once and passed by pointer into each system's
// update call; systems never read ambient global state.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// PlanetSettings shapes the sphere and the player's rolling feel.
type PlanetSettings struct {
	Radius       float64 `json:"radius"`
	Subdivisions int     `json:"subdivisions"` // icosphere level; level n has 20*4^n triangles
	Friction     float64 `json:"friction"`     // per-60Hz-frame velocity retention
	OrbHPGain    float64 `json:"orb_hp_gain"`
	MaxOrbs      int     `json:"max_orbs"`
	OrbSpawnRate float64 `json:"orb_spawn_chance"` // per-tick spawn probability
}

// PlayerSettings tunes the ball.
type PlayerSettings struct {
	Acceleration float64 `json:"acceleration"`
	MaxSpeed     float64 `json:"max_speed"`
	MaxHPRadius  float64 `json:"max_hp_radius"` // radius at 100 hp
	MinRadius    float64 `json:"min_radius"`
	MaxHP        float64 `json:"max_hp"`
	GodMode      bool    `json:"god_mode"`
}

// DashSettings tunes the energy-gated dash.
type DashSettings struct {
	Force     float64 `json:"dash_force"`
	Duration  float64 `json:"dash_duration"`
	MaxEnergy float64 `json:"max_energy"`
	RegenRate float64 `json:"regen_rate"`
	Cost      float64 `json:"dash_cost"`
	Cooldown  float64 `json:"cooldown_secs"`
}

// EnemySettings tunes factories, machines and pollution.
type EnemySettings struct {
	FactoryCount         int     `json:"factory_count"`
	PollutionRadius      float64 `json:"pollution_radius"`
	SpreadTickRate       float64 `json:"spread_tick_rate"` // seconds between contagion ticks
	SeedChance           float64 `json:"seed_chance"`
	NaturalSpreadChance  float64 `json:"natural_spread_chance"`
	RepolluteHealthy     bool    `json:"repollute_healthy"`
	MachineSpawnInterval float64 `json:"machine_spawn_interval"`
	MachineSpeed         float64 `json:"machine_speed"`
	MachineDetection     float64 `json:"machine_detection_range"`
	MachineAcceleration  float64 `json:"machine_acceleration"`
	MachineHeight        float64 `json:"machine_height"`
	FactoryHeight        float64 `json:"factory_height"`
	FactorySpawnInterval float64 `json:"factory_spawn_interval"`
	DifficultyScale      float64 `json:"difficulty_scale"` // starting difficulty
	DifficultyGrowthRate float64 `json:"difficulty_growth_rate"`
	ContactDamage        float64 `json:"contact_damage"`
	InvincibilitySecs    float64 `json:"invincibility_secs"`
	FactoryContactDamage bool    `json:"factory_contact_damage"`
}

// BrushSettings tunes the restoration brush.
type BrushSettings struct {
	Scale float64 `json:"scale"` // brush radius as a multiple of the player radius
}

// JoystickSettings shapes raw input before it reaches movement.
type JoystickSettings struct {
	Sensitivity float64 `json:"sensitivity"`
	Deadzone    float64 `json:"deadzone"`
}

// Settings is the complete tuning set.
type Settings struct {
	Planet   PlanetSettings   `json:"planet"`
	Player   PlayerSettings   `json:"player"`
	Dash     DashSettings     `json:"dash"`
	Enemy    EnemySettings    `json:"enemy"`
	Brush    BrushSettings    `json:"brush"`
	Joystick JoystickSettings `json:"joystick"`
}

// Default returns the shipped tuning.
func Default() *Settings {
	return &Settings{
		Planet: PlanetSettings{
			Radius:       150,
			Subdivisions: 4,
			Friction:     0.985,
			OrbHPGain:    25,
			MaxOrbs:      10,
			OrbSpawnRate: 0.002,
		},
		Player: PlayerSettings{
			Acceleration: 150,
			MaxSpeed:     80,
			MaxHPRadius:  16,
			MinRadius:    2,
			MaxHP:        100,
		},
		Dash: DashSettings{
			Force:     200,
			Duration:  0.5,
			MaxEnergy: 100,
			RegenRate: 33,
			Cost:      100,
			Cooldown:  1,
		},
		Enemy: EnemySettings{
			FactoryCount:         3,
			PollutionRadius:      12,
			SpreadTickRate:       10,
			SeedChance:           0.2,
			NaturalSpreadChance:  0.02,
			RepolluteHealthy:     true,
			MachineSpawnInterval: 10,
			MachineSpeed:         40,
			MachineDetection:     200,
			MachineAcceleration:  100,
			MachineHeight:        3,
			FactoryHeight:        12,
			FactorySpawnInterval: 30,
			DifficultyScale:      1,
			DifficultyGrowthRate: 0.01,
			ContactDamage:        25,
			InvincibilitySecs:    5,
			FactoryContactDamage: true,
		},
		Brush: BrushSettings{
			Scale: 1,
		},
		Joystick: JoystickSettings{
			Sensitivity: 2,
			Deadzone:    0.05,
		},
	}
}

// Load reads a JSON file and overlays it on the defaults. Fields missing
// from the file keep their default values.
func Load(path string) (*Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return s, nil
}

// Validate rejects settings the systems cannot run with.
func (s *Settings) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be > 0, got %g", name, v))
		}
	}
	unit := func(name string, v float64) {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("%s must be within [0,1], got %g", name, v))
		}
	}

	positive("planet.radius", s.Planet.Radius)
	unit("planet.friction", s.Planet.Friction)
	unit("planet.orb_spawn_chance", s.Planet.OrbSpawnRate)
	if s.Planet.Subdivisions < 0 || s.Planet.Subdivisions > 7 {
		errs = append(errs, fmt.Errorf("planet.subdivisions must be within [0,7], got %d", s.Planet.Subdivisions))
	}
	positive("player.max_hp_radius", s.Player.MaxHPRadius)
	positive("player.min_radius", s.Player.MinRadius)
	positive("player.max_hp", s.Player.MaxHP)
	positive("dash.dash_duration", s.Dash.Duration)
	positive("enemy.pollution_radius", s.Enemy.PollutionRadius)
	positive("enemy.spread_tick_rate", s.Enemy.SpreadTickRate)
	positive("enemy.machine_spawn_interval", s.Enemy.MachineSpawnInterval)
	positive("enemy.factory_spawn_interval", s.Enemy.FactorySpawnInterval)
	positive("enemy.difficulty_scale", s.Enemy.DifficultyScale)
	unit("enemy.seed_chance", s.Enemy.SeedChance)
	unit("enemy.natural_spread_chance", s.Enemy.NaturalSpreadChance)
	positive("brush.scale", s.Brush.Scale)
	unit("joystick.deadzone", s.Joystick.Deadzone)

	return errors.Join(errs...)
}
