package enemies

import (
	"math"
	"testing"

	"github.com/talgya/green-sphere/internal/config"
	"github.com/talgya/green-sphere/internal/entropy"
	"github.com/talgya/green-sphere/internal/mesh"
	"github.com/talgya/green-sphere/internal/movement"
	"github.com/talgya/green-sphere/internal/planet"
	"github.com/talgya/green-sphere/internal/vmath"
)

func TestArenaGenerations(t *testing.T) {
	var a Arena[int]
	h1 := a.Insert(1)
	h2 := a.Insert(2)
	if a.Len() != 2 {
		t.Fatalf("len=%d", a.Len())
	}
	if !a.Remove(h1) {
		t.Fatal("remove failed")
	}
	if a.Remove(h1) {
		t.Fatal("double remove succeeded")
	}
	if _, ok := a.Get(h1); ok {
		t.Fatal("stale handle resolved")
	}
	h3 := a.Insert(3)
	if h3.Index != h1.Index || h3.Gen == h1.Gen {
		t.Fatalf("slot not reused with new generation: %+v vs %+v", h3, h1)
	}
	if v, ok := a.Get(h3); !ok || *v != 3 {
		t.Fatalf("get h3 = %v %v", v, ok)
	}
	if v, ok := a.Get(h2); !ok || *v != 2 {
		t.Fatalf("get h2 = %v %v", v, ok)
	}
	if _, ok := a.Get(Handle{Index: 99}); ok {
		t.Fatal("out of range handle resolved")
	}
}

func TestArenaRemoveDuringEach(t *testing.T) {
	var a Arena[int]
	for i := 0; i < 5; i++ {
		a.Insert(i)
	}
	seen := 0
	a.Each(func(h Handle, v *int) {
		seen++
		if *v%2 == 0 {
			a.Remove(h)
		}
	})
	if seen != 5 || a.Len() != 2 {
		t.Fatalf("seen=%d len=%d", seen, a.Len())
	}
	a.Clear()
	if a.Len() != 0 {
		t.Fatalf("len after clear=%d", a.Len())
	}
}

func TestRandomNormalOnUnitSphere(t *testing.T) {
	rng := entropy.NewSeeded(2)
	for i := 0; i < 100; i++ {
		n := RandomNormal(rng)
		if math.Abs(n.Length()-1) > 1e-9 {
			t.Fatalf("|n|=%f", n.Length())
		}
	}
}

func TestSpawnInitialStainsPlanet(t *testing.T) {
	cfg := config.Default()
	m := mesh.Icosphere(4)
	d := planet.New(m.Positions, cfg.Planet.Radius, nil)
	s := New(&cfg.Enemy)
	s.SpawnInitial(d, cfg, entropy.NewSeeded(9))

	if s.Factories.Len() != 3 {
		t.Fatalf("factories=%d want 3", s.Factories.Len())
	}
	for _, a := range s.Anchors() {
		if math.Abs(a.Length()-cfg.Planet.Radius) > 1e-9 {
			t.Fatalf("anchor off surface: |a|=%f", a.Length())
		}
	}
	if d.Count().Polluted == 0 {
		t.Fatal("expected pollution stains")
	}
}

func TestDirectorDeploysEveryThirtyScaledSeconds(t *testing.T) {
	cfg := config.Default()
	cfg.Enemy.DifficultyGrowthRate = 0
	cfg.Enemy.DifficultyScale = 2
	s := New(&cfg.Enemy)
	rng := entropy.NewSeeded(4)

	deployed := 0
	for i := 0; i < 160; i++ { // 16s at difficulty 2 = 32 scaled seconds
		if _, ok := s.UpdateDirector(0.1, nil, cfg, rng); ok {
			deployed++
		}
	}
	if deployed != 1 {
		t.Fatalf("deployed=%d want 1", deployed)
	}
	var interval float64
	s.Factories.Each(func(_ Handle, f *Factory) { interval = f.SpawnInterval })
	if interval != 5 {
		t.Fatalf("deployed interval=%f want 10/difficulty=5", interval)
	}
}

func TestDirectorDifficultyGrows(t *testing.T) {
	cfg := config.Default().Enemy
	var d Director
	d.Reset(&cfg)
	d.Update(10, &cfg)
	if math.Abs(d.Difficulty-1.1) > 1e-12 {
		t.Fatalf("difficulty=%f want 1.1", d.Difficulty)
	}
}

func TestSpawnerHonorsPerFactoryInterval(t *testing.T) {
	cfg := config.Default()
	s := New(&cfg.Enemy)
	s.SpawnFactory(vmath.UnitY, 10, nil, cfg)
	s.SpawnFactory(vmath.UnitX, 5, nil, cfg)
	rng := entropy.NewSeeded(1)

	total := 0
	for i := 0; i < 105; i++ {
		total += s.UpdateSpawners(0.1, cfg, rng)
	}
	// 10.5s: one from the slow factory, two from the fast one.
	if total != 3 || s.Machines.Len() != 3 {
		t.Fatalf("spawned=%d machines=%d want 3", total, s.Machines.Len())
	}
	shell := cfg.Planet.Radius + cfg.Enemy.MachineHeight
	s.Machines.Each(func(_ Handle, m *Machine) {
		if math.Abs(m.Position.Length()-shell) > 1e-9 {
			t.Fatalf("machine off shell: %f", m.Position.Length())
		}
	})
}

func TestMachineChasesPlayer(t *testing.T) {
	cfg := config.Default()
	s := New(&cfg.Enemy)
	shell := cfg.Planet.Radius + cfg.Enemy.MachineHeight
	start := vmath.Vec3{X: 0.3, Y: 1}.Normalize().Scale(shell)
	h := s.Machines.Insert(Machine{Position: start})
	player := vmath.Vec3{Y: cfg.Planet.Radius + 16}

	before := start.Distance(player)
	for i := 0; i < 60; i++ {
		s.UpdateMachines(1.0/60, player, cfg)
	}
	m, _ := s.Machines.Get(h)
	if after := m.Position.Distance(player); after >= before {
		t.Fatalf("machine did not close in: %f -> %f", before, after)
	}
	if m.Velocity.Length() > cfg.Enemy.MachineSpeed+1e-9 {
		t.Fatalf("speed %f over cap", m.Velocity.Length())
	}
	if math.Abs(m.Position.Length()-shell) > 1e-9 {
		t.Fatalf("machine off shell")
	}
}

func TestMachineIgnoresDistantPlayer(t *testing.T) {
	cfg := config.Default()
	s := New(&cfg.Enemy)
	shell := cfg.Planet.Radius + cfg.Enemy.MachineHeight
	h := s.Machines.Insert(Machine{Position: vmath.Vec3{Y: -shell}})
	s.UpdateMachines(1.0/60, vmath.Vec3{Y: 166}, cfg)
	m, _ := s.Machines.Get(h)
	if m.Velocity.Length() != 0 {
		t.Fatalf("machine out of range moved: %+v", m.Velocity)
	}
}

func ballAt(cfg *config.Settings, p vmath.Vec3) *movement.Ball {
	b := movement.NewBall(cfg.Planet.Radius, &cfg.Player)
	b.Position = p
	return b
}

func TestCollideMachineDamageAndInvincibility(t *testing.T) {
	cfg := config.Default()
	s := New(&cfg.Enemy)
	b := ballAt(cfg, vmath.Vec3{Y: 166})
	s.Machines.Insert(Machine{Position: vmath.Vec3{Y: 160}})
	s.Machines.Insert(Machine{Position: vmath.Vec3{Y: 161}})

	c := s.Collide(b, false, cfg)
	if c.Hits != 1 || b.HP != 75 || b.Invincibility != 5 {
		t.Fatalf("contact=%+v hp=%f inv=%f", c, b.HP, b.Invincibility)
	}
	if s.Machines.Len() != 1 {
		t.Fatalf("machines=%d: only the hitting machine is removed", s.Machines.Len())
	}
	if len(c.Awards) != 0 {
		t.Fatalf("awards without dash: %v", c.Awards)
	}
}

func TestCollideDashDestroys(t *testing.T) {
	cfg := config.Default()
	s := New(&cfg.Enemy)
	b := ballAt(cfg, vmath.Vec3{Y: 166})
	s.Machines.Insert(Machine{Position: vmath.Vec3{Y: 160}})
	s.SpawnFactory(vmath.UnitY, 10, nil, cfg) // body center at 156

	c := s.Collide(b, true, cfg)
	if c.MachinesDestroyed != 1 || c.FactoriesDestroyed != 1 {
		t.Fatalf("contact=%+v", c)
	}
	if len(c.Awards) != 2 || c.Awards[0] != PointsMachine || c.Awards[1] != PointsFactory {
		t.Fatalf("awards=%v", c.Awards)
	}
	if b.HP != 100 {
		t.Fatalf("dash contact hurt the player: hp=%f", b.HP)
	}
	if s.Factories.Len() != 0 || s.Machines.Len() != 0 {
		t.Fatal("entities survived dash")
	}
}

func TestCollideFactoryContactDamage(t *testing.T) {
	cfg := config.Default()
	s := New(&cfg.Enemy)
	b := ballAt(cfg, vmath.Vec3{Y: 166})
	s.SpawnFactory(vmath.UnitY, 10, nil, cfg)

	c := s.Collide(b, false, cfg)
	if c.Hits != 1 || s.Factories.Len() != 1 {
		t.Fatalf("contact=%+v factories=%d", c, s.Factories.Len())
	}

	cfg.Enemy.FactoryContactDamage = false
	b.Invincibility = 0
	if c := s.Collide(b, false, cfg); c.Hits != 0 {
		t.Fatalf("factory damaged with contact damage off: %+v", c)
	}
}

func TestCollideGodMode(t *testing.T) {
	cfg := config.Default()
	cfg.Player.GodMode = true
	s := New(&cfg.Enemy)
	b := ballAt(cfg, vmath.Vec3{Y: 166})
	s.Machines.Insert(Machine{Position: vmath.Vec3{Y: 160}})
	if c := s.Collide(b, false, cfg); c.Hits != 0 || b.HP != 100 {
		t.Fatalf("god mode hit: %+v", c)
	}
	if s.Machines.Len() != 1 {
		t.Fatal("machine removed without effect")
	}
}

func TestOrbsSpawnAndHeal(t *testing.T) {
	cfg := config.Default()
	cfg.Planet.OrbSpawnRate = 1
	s := New(&cfg.Enemy)
	rng := entropy.NewSeeded(8)
	for i := 0; i < 20; i++ {
		s.UpdateOrbs(cfg, rng)
	}
	if s.Orbs.Len() != cfg.Planet.MaxOrbs {
		t.Fatalf("orbs=%d want %d", s.Orbs.Len(), cfg.Planet.MaxOrbs)
	}

	s.Orbs.Clear()
	s.Orbs.Insert(Orb{Position: vmath.Vec3{Y: 160}})
	b := ballAt(cfg, vmath.Vec3{Y: 166})
	b.HP = 90
	c := s.Collide(b, false, cfg)
	if c.OrbsCollected != 1 || b.HP != 100 || s.Orbs.Len() != 0 {
		t.Fatalf("contact=%+v hp=%f", c, b.HP)
	}
}

func TestResetClearsEverything(t *testing.T) {
	cfg := config.Default()
	s := New(&cfg.Enemy)
	s.SpawnFactory(vmath.UnitY, 10, nil, cfg)
	s.Machines.Insert(Machine{})
	s.Orbs.Insert(Orb{})
	s.Director.Update(100, &cfg.Enemy)
	s.Reset(&cfg.Enemy)
	if s.Factories.Len()+s.Machines.Len()+s.Orbs.Len() != 0 {
		t.Fatal("entities survived reset")
	}
	if s.Director.Difficulty != cfg.Enemy.DifficultyScale {
		t.Fatalf("difficulty=%f", s.Director.Difficulty)
	}
}
