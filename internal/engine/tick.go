// Package engine provides the fixed-step game loop and the simulation that
// runs every system once per frame.
package engine

import (
	"log/slog"
	"math"
	"sync/atomic"
	"time"
)

// TickSchedule defines when periodic hooks run relative to the frame counter.
const (
	FrameRate      = 60             // frames per simulated second
	TicksPerSecond = FrameRate      // 1 sim-second
	TicksPerMinute = 60 * FrameRate // 1 sim-minute
)

// Engine drives the simulation forward in fixed steps.
type Engine struct {
	Tick     uint64        // Current frame counter (monotonic, never resets)
	Step     float64       // Simulated seconds per frame
	Interval time.Duration // Real time per frame at speed 1

	speed   atomic.Uint64 // float64 bits; 1.0 = real-time, 0 = paused
	running atomic.Bool

	// Callbacks for each tick layer, populated during setup.
	OnTick   func(tick uint64, dt float64) // Every frame
	OnSecond func(tick uint64)             // Every 60 frames
	OnMinute func(tick uint64)             // Every 3600 frames
}

// NewEngine creates an engine stepping at FrameRate in real time.
func NewEngine() *Engine {
	e := &Engine{
		Step:     1.0 / FrameRate,
		Interval: time.Second / FrameRate,
	}
	e.SetSpeed(1)
	return e
}

// Speed returns the current speed multiplier.
func (e *Engine) Speed() float64 {
	return math.Float64frombits(e.speed.Load())
}

// SetSpeed changes the speed multiplier. Safe to call from any goroutine.
func (e *Engine) SetSpeed(s float64) {
	if s < 0 || math.IsNaN(s) {
		s = 0
	}
	e.speed.Store(math.Float64bits(s))
}

// Running reports whether Run is looping.
func (e *Engine) Running() bool {
	return e.running.Load()
}

// Run starts the frame loop. Blocks until Stop() is called.
func (e *Engine) Run() {
	e.running.Store(true)
	slog.Info("simulation engine started", "tick", e.Tick, "speed", e.Speed())

	for e.running.Load() {
		speed := e.Speed()
		if speed <= 0 {
			// Paused; sleep briefly and check again.
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()

		e.Advance()

		// Sleep for the remainder of the frame interval, adjusted for speed.
		elapsed := time.Since(start)
		target := time.Duration(float64(e.Interval) / speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("simulation engine stopped", "tick", e.Tick)
}

// Stop halts the frame loop. Safe to call from any goroutine.
func (e *Engine) Stop() {
	e.running.Store(false)
}

// Advance runs one frame synchronously.
func (e *Engine) Advance() {
	e.Tick++

	if e.OnTick != nil {
		e.OnTick(e.Tick, e.Step)
	}

	if e.Tick%TicksPerSecond == 0 && e.OnSecond != nil {
		e.OnSecond(e.Tick)
	}

	if e.Tick%TicksPerMinute == 0 && e.OnMinute != nil {
		e.OnMinute(e.Tick)
	}
}

// SimSeconds converts a frame count into simulated seconds.
func SimSeconds(tick uint64) float64 {
	return float64(tick) / FrameRate
}
