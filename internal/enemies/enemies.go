// Package enemies runs the polluting side of the game: factories that stain
// the planet and spawn machines, the director that deploys new factories as
// difficulty climbs, machine pursuit, health orbs and contact resolution.
package enemies

import (
	"log/slog"
	"math"

	"github.com/talgya/green-sphere/internal/config"
	"github.com/talgya/green-sphere/internal/entropy"
	"github.com/talgya/green-sphere/internal/planet"
	"github.com/talgya/green-sphere/internal/vmath"
)

const (
	machineSpawnOffset = 15.0 // tangent distance from the factory anchor
	machineMinChase    = 5.0  // machines stop steering inside this distance
	machineFriction    = 0.95
	orbHeight          = 3.0
	referenceFPS       = 60.0
	directorBaseRate   = 10.0 // machine interval numerator for deployed factories
)

// Factory is a stationary polluter.
type Factory struct {
	Anchor        vmath.Vec3 `json:"anchor"` // surface foot point, world space
	Height        float64    `json:"height"`
	SpawnInterval float64    `json:"spawn_interval"` // seconds between machines
	elapsed       float64
}

// Position is the factory's body center, half its height above the anchor.
func (f *Factory) Position() vmath.Vec3 {
	n, ok := f.Anchor.TryNormalize()
	if !ok {
		return f.Anchor
	}
	return n.Scale(f.Anchor.Length() + f.Height/2)
}

// Machine hunts the player along the surface.
type Machine struct {
	Position vmath.Vec3 `json:"position"`
	Velocity vmath.Vec3 `json:"velocity"`
}

// Orb heals the player on contact.
type Orb struct {
	Position vmath.Vec3 `json:"position"`
}

// Director deploys extra factories on a timer that runs faster as the
// difficulty grows.
type Director struct {
	Difficulty float64 `json:"difficulty"`
	elapsed    float64
}

// Reset restores the starting difficulty.
func (d *Director) Reset(cfg *config.EnemySettings) {
	d.Difficulty = cfg.DifficultyScale
	d.elapsed = 0
}

// Update grows difficulty and advances the deployment timer. It reports
// whether a factory is due.
func (d *Director) Update(dt float64, cfg *config.EnemySettings) bool {
	d.Difficulty += cfg.DifficultyGrowthRate * dt
	d.elapsed += dt * d.Difficulty
	if d.elapsed < cfg.FactorySpawnInterval {
		return false
	}
	d.elapsed -= cfg.FactorySpawnInterval
	return true
}

// State holds every live enemy entity.
type State struct {
	Factories Arena[Factory]
	Machines  Arena[Machine]
	Orbs      Arena[Orb]
	Director  Director
}

// New returns an empty state with the director at starting difficulty.
func New(cfg *config.EnemySettings) *State {
	s := &State{}
	s.Director.Reset(cfg)
	return s
}

// Reset despawns everything and resets the director.
func (s *State) Reset(cfg *config.EnemySettings) {
	s.Factories.Clear()
	s.Machines.Clear()
	s.Orbs.Clear()
	s.Director.Reset(cfg)
}

// RandomNormal returns an area-uniform point on the unit sphere.
func RandomNormal(rng entropy.Source) vmath.Vec3 {
	theta := entropy.Range(rng, 0, 2*math.Pi)
	phi := math.Acos(entropy.Range(rng, -1, 1))
	sp, cp := math.Sincos(phi)
	st, ct := math.Sincos(theta)
	return vmath.Vec3{X: sp * ct, Y: cp, Z: sp * st}
}

// SpawnFactory places a factory above normal and stains the ground under it.
func (s *State) SpawnFactory(normal vmath.Vec3, interval float64, d *planet.Data, cfg *config.Settings) Handle {
	anchor := normal.Scale(cfg.Planet.Radius)
	h := s.Factories.Insert(Factory{
		Anchor:        anchor,
		Height:        cfg.Enemy.FactoryHeight,
		SpawnInterval: interval,
	})
	stained := 0
	if d != nil {
		stained = d.PolluteArea(anchor, cfg.Enemy.PollutionRadius/cfg.Planet.Radius)
	}
	slog.Debug("factory spawned", "index", h.Index, "interval", interval, "stained", stained)
	return h
}

// SpawnInitial places the starting factories.
func (s *State) SpawnInitial(d *planet.Data, cfg *config.Settings, rng entropy.Source) {
	for i := 0; i < cfg.Enemy.FactoryCount; i++ {
		s.SpawnFactory(RandomNormal(rng), cfg.Enemy.MachineSpawnInterval, d, cfg)
	}
	slog.Info("factories deployed", "count", cfg.Enemy.FactoryCount)
}

// UpdateDirector advances the director and deploys a factory when due.
// ok reports a deployment.
func (s *State) UpdateDirector(dt float64, d *planet.Data, cfg *config.Settings, rng entropy.Source) (Handle, bool) {
	if !s.Director.Update(dt, &cfg.Enemy) {
		return Handle{}, false
	}
	interval := directorBaseRate / s.Director.Difficulty
	h := s.SpawnFactory(RandomNormal(rng), interval, d, cfg)
	return h, true
}

// UpdateSpawners advances every factory's timer and spawns machines. It
// returns the number of machines spawned.
func (s *State) UpdateSpawners(dt float64, cfg *config.Settings, rng entropy.Source) int {
	spawned := 0
	s.Factories.Each(func(_ Handle, f *Factory) {
		if f.SpawnInterval <= 0 {
			return
		}
		f.elapsed += dt
		if f.elapsed < f.SpawnInterval {
			return
		}
		f.elapsed -= f.SpawnInterval
		if pos, ok := machineSpawnPoint(f.Anchor, cfg, rng); ok {
			s.Machines.Insert(Machine{Position: pos})
			spawned++
		}
	})
	return spawned
}

func machineSpawnPoint(anchor vmath.Vec3, cfg *config.Settings, rng entropy.Source) (vmath.Vec3, bool) {
	n, ok := anchor.TryNormalize()
	if !ok {
		return vmath.Zero, false
	}
	r := vmath.Vec3{
		X: entropy.Range(rng, -1, 1),
		Y: entropy.Range(rng, -1, 1),
		Z: entropy.Range(rng, -1, 1),
	}
	tangent, ok := r.RejectFrom(n).TryNormalize()
	if !ok {
		return vmath.Zero, false
	}
	p, ok := anchor.Add(tangent.Scale(machineSpawnOffset)).TryNormalize()
	if !ok {
		return vmath.Zero, false
	}
	return p.Scale(cfg.Planet.Radius + cfg.Enemy.MachineHeight), true
}

// UpdateMachines steers every machine toward the player along the surface.
func (s *State) UpdateMachines(dt float64, player vmath.Vec3, cfg *config.Settings) {
	shell := cfg.Planet.Radius + cfg.Enemy.MachineHeight
	decay := math.Pow(machineFriction, dt*referenceFPS)
	s.Machines.Each(func(_ Handle, m *Machine) {
		dist := m.Position.Distance(player)
		if dist > machineMinChase && dist < cfg.Enemy.MachineDetection {
			if n, ok := m.Position.TryNormalize(); ok {
				if dir, ok := player.Sub(m.Position).RejectFrom(n).TryNormalize(); ok {
					m.Velocity = m.Velocity.Add(dir.Scale(cfg.Enemy.MachineAcceleration * dt))
				}
			}
		}
		m.Velocity = m.Velocity.Scale(decay)
		if speed := m.Velocity.Length(); speed > cfg.Enemy.MachineSpeed {
			m.Velocity = m.Velocity.Scale(cfg.Enemy.MachineSpeed / speed)
		}
		if p, ok := m.Position.Add(m.Velocity.Scale(dt)).TryNormalize(); ok {
			m.Position = p.Scale(shell)
		}
	})
}

// UpdateOrbs rolls for a new health orb. It reports whether one spawned.
func (s *State) UpdateOrbs(cfg *config.Settings, rng entropy.Source) bool {
	if s.Orbs.Len() >= cfg.Planet.MaxOrbs {
		return false
	}
	if !entropy.Chance(rng, cfg.Planet.OrbSpawnRate) {
		return false
	}
	s.Orbs.Insert(Orb{Position: RandomNormal(rng).Scale(cfg.Planet.Radius + orbHeight)})
	return true
}

// Anchors returns the surface anchors of every live factory.
func (s *State) Anchors() []vmath.Vec3 {
	out := make([]vmath.Vec3, 0, s.Factories.Len())
	s.Factories.Each(func(_ Handle, f *Factory) {
		out = append(out, f.Anchor)
	})
	return out
}
