package movement

import "github.com/talgya/green-sphere/internal/config"

// DashState tracks the energy-gated dash. Energy regenerates continuously;
// a dash spends DashCost, lasts DashDuration and starts a cooldown.
type DashState struct {
	Energy    float64 `json:"energy"`
	Cooldown  float64 `json:"cooldown"`
	Remaining float64 `json:"remaining"`
	Active    bool    `json:"active"`

	// impulsePending is set when a dash begins and consumed by the next
	// movement step, so each dash applies its impulse exactly once.
	impulsePending bool
}

// NewDashState returns a full-energy, idle dash.
func NewDashState(cfg *config.DashSettings) DashState {
	return DashState{Energy: cfg.MaxEnergy}
}

// Reset restores the idle, full-energy state.
func (d *DashState) Reset(cfg *config.DashSettings) {
	*d = NewDashState(cfg)
}

// Update advances timers by dt and starts a dash when requested and allowed.
// It reports whether a dash started this tick.
func (d *DashState) Update(dt float64, requested bool, cfg *config.DashSettings) bool {
	d.Energy += cfg.RegenRate * dt
	if d.Energy > cfg.MaxEnergy {
		d.Energy = cfg.MaxEnergy
	}
	if d.Cooldown > 0 {
		d.Cooldown -= dt
		if d.Cooldown < 0 {
			d.Cooldown = 0
		}
	}
	if d.Active {
		d.Remaining -= dt
		if d.Remaining <= 0 {
			d.Remaining = 0
			d.Active = false
		}
	}

	if !requested || d.Active || d.Cooldown > 0 || d.Energy < cfg.Cost {
		return false
	}
	d.Energy -= cfg.Cost
	d.Active = true
	d.Remaining = cfg.Duration
	d.Cooldown = cfg.Cooldown
	d.impulsePending = true
	return true
}

// TakeImpulse reports and clears the pending one-shot impulse.
func (d *DashState) TakeImpulse() bool {
	p := d.impulsePending
	d.impulsePending = false
	return p
}
