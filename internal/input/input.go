// Package input turns raw stick readings into the per-tick movement command.
package input

import (
	"github.com/talgya/green-sphere/internal/config"
	"github.com/talgya/green-sphere/internal/vmath"
)

// Frame is one tick of player input. Dir.X steers right and Dir.Y forward,
// relative to the ball's heading, each in [-1, 1].
type Frame struct {
	Dir  vmath.Vec2 `json:"dir"`
	Dash bool       `json:"dash"`
}

// Shape scales raw stick input by the sensitivity, clamps each component to
// [-1, 1] and zeroes anything inside the deadzone. raw uses +Y for forward.
func Shape(raw vmath.Vec2, cfg *config.JoystickSettings) vmath.Vec2 {
	v := raw.Scale(cfg.Sensitivity).Clamp(-1, 1)
	if v.Length() < cfg.Deadzone {
		return vmath.Vec2{}
	}
	return v
}

// Held replays the same frame every tick. Dash is reported once, then cleared.
type Held struct {
	Frame Frame
}

// Next returns the held frame.
func (h *Held) Next(_ float64, _ *config.JoystickSettings) Frame {
	f := h.Frame
	h.Frame.Dash = false
	return f
}
