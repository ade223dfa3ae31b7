package input

import (
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/green-sphere/internal/config"
	"github.com/talgya/green-sphere/internal/vmath"
)

// Wanderer is a noise-driven autopilot for headless runs. It sweeps the
// stick along smooth simplex curves and dashes when a third channel peaks.
type Wanderer struct {
	steerX opensimplex.Noise
	steerY opensimplex.Noise
	dash   opensimplex.Noise

	Frequency     float64 // noise samples per second of sim time
	DashThreshold float64 // dash when the dash channel exceeds this
	t             float64
}

// NewWanderer returns an autopilot seeded from seed.
func NewWanderer(seed int64) *Wanderer {
	return &Wanderer{
		steerX:        opensimplex.New(seed),
		steerY:        opensimplex.New(seed + 1),
		dash:          opensimplex.NewNormalized(seed + 2),
		Frequency:     0.25,
		DashThreshold: 0.8,
	}
}

// Next advances the autopilot by dt and returns the shaped input frame.
func (w *Wanderer) Next(dt float64, cfg *config.JoystickSettings) Frame {
	w.t += dt
	raw := vmath.Vec2{
		X: octaveNoise(w.steerX, w.t, 3, w.Frequency, 0.5),
		Y: octaveNoise(w.steerY, w.t, 3, w.Frequency, 0.5),
	}
	return Frame{
		Dir:  Shape(raw, cfg),
		Dash: w.dash.Eval2(w.t*w.Frequency*4, 0) > w.DashThreshold,
	}
}

// octaveNoise layers several frequencies of 1D noise along time.
func octaveNoise(noise opensimplex.Noise, t float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(t*frequency, 0) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
