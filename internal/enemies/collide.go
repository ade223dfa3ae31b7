package enemies

import (
	"github.com/talgya/green-sphere/internal/config"
	"github.com/talgya/green-sphere/internal/movement"
)

// Points awarded for destroying enemies while dashing.
const (
	PointsMachine = 300
	PointsFactory = 500
)

const (
	machineReach = 3.0 // added to the player radius
	factoryReach = 6.0
	orbReach     = 3.0
)

// Contact summarizes one collision pass.
type Contact struct {
	Awards             []int // points to push to the score queue
	MachinesDestroyed  int
	FactoriesDestroyed int
	Hits               int // times the player took damage
	OrbsCollected      int
}

// Collide resolves player contact against machines, factories and orbs.
func (s *State) Collide(b *movement.Ball, dashing bool, cfg *config.Settings) Contact {
	var c Contact
	if b == nil {
		return c
	}
	hurt := func() bool {
		if cfg.Player.GodMode || b.Invincibility > 0 {
			return false
		}
		b.Damage(cfg.Enemy.ContactDamage, cfg.Enemy.InvincibilitySecs)
		c.Hits++
		return true
	}

	s.Machines.Each(func(h Handle, m *Machine) {
		if b.Position.Distance(m.Position) >= b.Radius+machineReach {
			return
		}
		if dashing {
			s.Machines.Remove(h)
			c.MachinesDestroyed++
			c.Awards = append(c.Awards, PointsMachine)
			return
		}
		if hurt() {
			s.Machines.Remove(h)
		}
	})

	s.Factories.Each(func(h Handle, f *Factory) {
		if b.Position.Distance(f.Position()) >= b.Radius+factoryReach {
			return
		}
		if dashing {
			s.Factories.Remove(h)
			c.FactoriesDestroyed++
			c.Awards = append(c.Awards, PointsFactory)
			return
		}
		if cfg.Enemy.FactoryContactDamage {
			hurt()
		}
	})

	s.Orbs.Each(func(h Handle, o *Orb) {
		if b.Position.Distance(o.Position) >= b.Radius+orbReach {
			return
		}
		b.Heal(cfg.Planet.OrbHPGain, cfg.Player.MaxHP)
		s.Orbs.Remove(h)
		c.OrbsCollected++
	})
	return c
}
