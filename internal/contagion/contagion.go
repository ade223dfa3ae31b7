// Package contagion spreads pollution across the planet's adjacency graph.
// Spread is gated by a float accumulator and each tick runs against a frozen
// view of the tile states; every change is committed together at the end.
package contagion

import (
	"log/slog"

	"github.com/talgya/green-sphere/internal/config"
	"github.com/talgya/green-sphere/internal/entropy"
	"github.com/talgya/green-sphere/internal/planet"
	"github.com/talgya/green-sphere/internal/vmath"
)

// Radii relative to the configured pollution radius.
const (
	rootRadiusFactor     = 0.5 // vertices a factory can seed from scratch
	activateRadiusFactor = 1.2 // polluted vertices that join the active front
)

// Report summarizes one contagion tick.
type Report struct {
	Seeded   int // factories that re-seeded their roots
	Active   int // polluted vertices reachable from a factory
	Infected int // tiles that turned Polluted on commit
}

// Engine owns the spread accumulator. The zero value is ready to use.
type Engine struct {
	elapsed float64
	Ticks   uint64
}

// Reset clears the accumulator.
func (e *Engine) Reset() {
	e.elapsed = 0
}

// Update advances the accumulator by dt and runs a tick when it reaches the
// configured spread rate. ok is false when no tick ran.
func (e *Engine) Update(dt float64, d *planet.Data, factories []vmath.Vec3, cfg *config.EnemySettings, rng entropy.Source) (Report, bool) {
	e.elapsed += dt
	if e.elapsed < cfg.SpreadTickRate {
		return Report{}, false
	}
	e.elapsed = 0
	e.Ticks++
	r := Tick(d, factories, cfg, rng)
	slog.Debug("contagion tick",
		"tick", e.Ticks,
		"seeded", r.Seeded,
		"active", r.Active,
		"infected", r.Infected,
	)
	return r, true
}

// Tick runs the seed, activate, spread and commit phases once. factories are
// world-space anchor positions with the planet at the origin.
func Tick(d *planet.Data, factories []vmath.Vec3, cfg *config.EnemySettings, rng entropy.Source) Report {
	var r Report
	if d == nil || !d.HasGraph() || len(factories) == 0 {
		return r
	}

	// Snapshot so marks made this tick don't feed back into later phases.
	snap := make([]planet.TileState, len(d.States))
	copy(snap, d.States)

	pending := make(map[int]struct{})
	mark := func(v int) {
		pending[v] = struct{}{}
		for _, n := range d.Adjacency[v] {
			pending[n] = struct{}{}
		}
	}
	eligible := func(v int) bool {
		switch snap[v] {
		case planet.Polluted:
			return false
		case planet.Healthy:
			return d.RepolluteHealthy
		}
		return true
	}

	// ── Seed ──
	rootR := rootRadiusFactor * cfg.PollutionRadius
	rootR2 := rootR * rootR
	for _, f := range factories {
		var roots []int
		polluted := false
		for i := range d.Positions {
			if d.WorldPosition(i).DistanceSq(f) >= rootR2 {
				continue
			}
			roots = append(roots, i)
			if snap[i] == planet.Polluted {
				polluted = true
			}
		}
		if polluted || len(roots) == 0 {
			continue
		}
		if !entropy.Chance(rng, cfg.SeedChance) {
			continue
		}
		for _, v := range roots {
			mark(v)
		}
		r.Seeded++
	}

	// ── Activate ──
	actR := activateRadiusFactor * cfg.PollutionRadius
	actR2 := actR * actR
	visited := make([]bool, len(snap))
	var queue []int
	for i, s := range snap {
		if s != planet.Polluted {
			continue
		}
		wp := d.WorldPosition(i)
		for _, f := range factories {
			if wp.DistanceSq(f) < actR2 {
				visited[i] = true
				queue = append(queue, i)
				break
			}
		}
	}
	active := make([]int, 0, len(queue))
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		active = append(active, v)
		for _, n := range d.Adjacency[v] {
			if !visited[n] && snap[n] == planet.Polluted {
				visited[n] = true
				queue = append(queue, n)
			}
		}
	}
	r.Active = len(active)

	// ── Spread ──
	var candidates []int
	for _, v := range active {
		candidates = candidates[:0]
		for _, n := range d.Adjacency[v] {
			if eligible(n) {
				candidates = append(candidates, n)
			}
		}
		if len(candidates) == 0 {
			continue
		}
		target := candidates[rng.Intn(len(candidates))]
		if entropy.Chance(rng, cfg.NaturalSpreadChance) {
			mark(target)
		}
	}

	// ── Commit ──
	for v := range pending {
		if !eligible(v) {
			continue
		}
		if d.Set(v, planet.Polluted) {
			r.Infected++
		}
	}
	return r
}
