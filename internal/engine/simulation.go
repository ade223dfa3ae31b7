// Simulation ties together all game systems and runs them each frame.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/talgya/green-sphere/internal/config"
	"github.com/talgya/green-sphere/internal/contagion"
	"github.com/talgya/green-sphere/internal/enemies"
	"github.com/talgya/green-sphere/internal/entropy"
	"github.com/talgya/green-sphere/internal/input"
	"github.com/talgya/green-sphere/internal/leaderboard"
	"github.com/talgya/green-sphere/internal/movement"
	"github.com/talgya/green-sphere/internal/persistence"
	"github.com/talgya/green-sphere/internal/planet"
	"github.com/talgya/green-sphere/internal/score"
	"github.com/talgya/green-sphere/internal/vmath"
)

// Pilot produces one input frame per tick.
type Pilot interface {
	Next(dt float64, cfg *config.JoystickSettings) input.Frame
}

// Recorder persists what outlives a session. *persistence.DB satisfies it.
type Recorder interface {
	SaveSession(s persistence.Session) (persistence.Session, error)
	SaveEvents(events []persistence.Event) error
	SaveLeaderboard(entries []leaderboard.Entry) error
}

// Event is a notable occurrence in the game.
type Event struct {
	Tick        uint64 `json:"tick"`
	Description string `json:"description"`
	Category    string `json:"category"` // "enemy", "session", "leaderboard"
}

// SessionStats tracks per-session tallies.
type SessionStats struct {
	TilesRestored      int `json:"tiles_restored"`
	MachinesDestroyed  int `json:"machines_destroyed"`
	FactoriesDestroyed int `json:"factories_destroyed"`
	FactoriesDeployed  int `json:"factories_deployed"`
	MachinesSpawned    int `json:"machines_spawned"`
	OrbsCollected      int `json:"orbs_collected"`
	Hits               int `json:"hits"`
	TilesPolluted      int `json:"tiles_polluted"`
}

const (
	commandQueueSize = 64
	maxEvents        = 1000
	snapshotEvents   = 20
)

// Simulation holds the complete game state and wires systems together. All
// fields are owned by the frame goroutine; other goroutines use Post and
// Snapshot.
type Simulation struct {
	Settings        *config.Settings
	Planet          *planet.Data
	PlanetTransform vmath.Transform
	Ball            *movement.Ball
	Dash            movement.DashState
	Enemies         *enemies.State
	Contagion       contagion.Engine
	Scores          score.Queue
	Score           score.Board
	Clock           score.SessionTime
	Stats           SessionStats

	Board    *leaderboard.Board
	Profile  leaderboard.Profile
	Fetched  *leaderboard.Channel
	Remote   *leaderboard.Client // nil disables the remote leaderboard
	Recorder Recorder            // nil disables persistence
	Pilot    Pilot

	// AutoSubmit, when set, submits the score on game over under
	// Profile.Username, or under this name if the profile is empty.
	AutoSubmit string
	// AutoRestart restarts a session this many seconds after game over; 0 waits
	// for a command.
	AutoRestart float64

	State       GameState
	SessionID   string
	Events      []Event
	LastTick    uint64
	resetTarget GameState
	submitted   bool
	overFor     float64
	unsaved     []Event

	rng      entropy.Source
	commands chan Command

	snapMu sync.RWMutex
	snap   Snapshot
}

// NewSimulation builds a simulation over the given mesh positions. painter
// receives every tile transition and may be nil.
func NewSimulation(cfg *config.Settings, positions []vmath.Vec3, painter planet.Painter, rng entropy.Source) *Simulation {
	d := planet.New(positions, cfg.Planet.Radius, painter)
	d.RepolluteHealthy = cfg.Enemy.RepolluteHealthy
	d.BuildGraph()

	sim := &Simulation{
		Settings:        cfg,
		Planet:          d,
		PlanetTransform: vmath.IdentityTransform(),
		Ball:            movement.NewBall(cfg.Planet.Radius, &cfg.Player),
		Dash:            movement.NewDashState(&cfg.Dash),
		Enemies:         enemies.New(&cfg.Enemy),
		Board:           leaderboard.NewBoard(),
		Fetched:         leaderboard.NewChannel(),
		Pilot:           &input.Held{},
		State:           MainMenu,
		rng:             rng,
		commands:        make(chan Command, commandQueueSize),
	}
	sim.publish()
	return sim
}

// CurrentTick returns the most recently processed tick number.
func (s *Simulation) CurrentTick() uint64 {
	return s.LastTick
}

// Post queues a command for the next frame without blocking.
func (s *Simulation) Post(cmd Command) error {
	select {
	case s.commands <- cmd:
		return nil
	default:
		return ErrBusy
	}
}

// EnterMainMenu runs the main-menu entry actions: a leaderboard refresh.
func (s *Simulation) EnterMainMenu() {
	s.State = MainMenu
	if s.Remote.Enabled() {
		s.Remote.FetchAsync(context.Background(), s.Fetched)
	}
}

// TickFrame runs every frame: commands, then the active state's systems.
func (s *Simulation) TickFrame(tick uint64, dt float64) {
	s.LastTick = tick
	s.drainCommands()

	switch s.State {
	case MainMenu:
		s.pollLeaderboard()
	case Resetting:
		s.resetWorld()
	case Playing:
		s.play(dt)
	case GameOver:
		s.overFor += dt
		if s.AutoRestart > 0 && s.overFor >= s.AutoRestart {
			s.beginReset(Playing)
		}
	}

	s.publish()
}

// TickMinute logs a periodic report and flushes events.
func (s *Simulation) TickMinute(tick uint64) {
	counts := s.Planet.Count()
	slog.Info("minute report",
		"tick", tick,
		"state", s.State,
		"score", humanize.Comma(int64(s.Score.Current)),
		"session", s.Clock.Format(),
		"hp", fmt.Sprintf("%.0f", s.Ball.HP),
		"healthy", fmt.Sprintf("%.1f%%", counts.HealthyFraction()*100),
		"polluted", humanize.Comma(int64(counts.Polluted)),
		"factories", s.Enemies.Factories.Len(),
		"machines", s.Enemies.Machines.Len(),
		"difficulty", fmt.Sprintf("%.2f", s.Enemies.Director.Difficulty),
	)
	s.flushEvents()
}

func (s *Simulation) drainCommands() {
	for {
		select {
		case cmd := <-s.commands:
			s.apply(cmd)
		default:
			return
		}
	}
}

func (s *Simulation) apply(cmd Command) {
	switch cmd.Kind {
	case CmdStart:
		if s.State != MainMenu {
			slog.Warn("start ignored", "state", s.State)
			return
		}
		s.enterPlaying()
	case CmdReset:
		s.beginReset(cmd.Target)
	case CmdUsername:
		s.Profile.SetUsername(cmd.Name)
	case CmdSubmit:
		if s.State != GameOver || s.submitted {
			slog.Warn("submit ignored", "state", s.State, "submitted", s.submitted)
			return
		}
		if cmd.Name != "" {
			s.Profile.SetUsername(cmd.Name)
		}
		s.submit()
	}
}

func (s *Simulation) beginReset(target GameState) {
	if target != Playing {
		target = MainMenu
	}
	s.resetTarget = target
	s.State = Resetting
}

// resetWorld clears every session-scoped system, then enters the target state.
func (s *Simulation) resetWorld() {
	cfg := s.Settings
	s.Planet.Reset()
	s.Enemies.Reset(&cfg.Enemy)
	s.Ball.Reset(cfg.Planet.Radius, &cfg.Player)
	s.Dash.Reset(&cfg.Dash)
	s.Contagion.Reset()
	s.Scores.Drain()
	s.Score.Reset()
	s.Clock.Reset()
	s.Stats = SessionStats{}
	s.SessionID = ""
	s.submitted = false
	s.overFor = 0
	slog.Info("world reset", "target", s.resetTarget)

	if s.resetTarget == Playing {
		s.enterPlaying()
		return
	}
	s.EnterMainMenu()
}

func (s *Simulation) enterPlaying() {
	s.State = Playing
	s.SessionID = persistence.NewSessionID()
	s.Enemies.SpawnInitial(s.Planet, s.Settings, s.rng)
	s.addEvent("session started", "session")
	slog.Info("session started", "id", s.SessionID)
}

// play runs one frame of gameplay in the fixed phase order.
func (s *Simulation) play(dt float64) {
	cfg := s.Settings
	frame := s.Pilot.Next(dt, &cfg.Joystick)

	// ── Dash ──
	s.Dash.Update(dt, frame.Dash, &cfg.Dash)

	// ── Movement ──
	movement.Step(s.Ball, frame.Dir, &s.Dash, cfg, dt)

	// ── Restoration ──
	for _, r := range s.Planet.Restore(s.Ball.Position, s.Ball.Radius, s.PlanetTransform, cfg.Brush.Scale) {
		s.Scores.Push(score.Message(r.Points))
		s.Stats.TilesRestored++
	}

	// ── Contagion ──
	if r, ran := s.Contagion.Update(dt, s.Planet, s.Enemies.Anchors(), &cfg.Enemy, s.rng); ran {
		s.Stats.TilesPolluted += r.Infected
	}

	// ── Enemies ──
	if _, deployed := s.Enemies.UpdateDirector(dt, s.Planet, cfg, s.rng); deployed {
		s.Stats.FactoriesDeployed++
		s.addEvent(fmt.Sprintf("factory deployed (difficulty %.2f)", s.Enemies.Director.Difficulty), "enemy")
		slog.Info("factory deployed", "factories", s.Enemies.Factories.Len(), "difficulty", s.Enemies.Director.Difficulty)
	}
	s.Stats.MachinesSpawned += s.Enemies.UpdateSpawners(dt, cfg, s.rng)
	s.Enemies.UpdateMachines(dt, s.Ball.Position, cfg)
	s.Enemies.UpdateOrbs(cfg, s.rng)

	// ── Collisions ──
	c := s.Enemies.Collide(s.Ball, s.Dash.Active, cfg)
	for _, pts := range c.Awards {
		s.Scores.Push(score.Message(pts))
	}
	s.Stats.MachinesDestroyed += c.MachinesDestroyed
	s.Stats.FactoriesDestroyed += c.FactoriesDestroyed
	s.Stats.OrbsCollected += c.OrbsCollected
	s.Stats.Hits += c.Hits
	if c.FactoriesDestroyed > 0 {
		s.addEvent(fmt.Sprintf("factories destroyed: %d", c.FactoriesDestroyed), "enemy")
	}

	// ── Health ──
	s.Ball.TickInvincibility(dt)
	s.Ball.SyncHealth(&cfg.Player)
	dead := s.Ball.Dead()

	// ── Score & clock ──
	s.Score.Apply(&s.Scores)
	if dead {
		s.enterGameOver()
		return
	}
	s.Clock.Tick(dt)
}

func (s *Simulation) enterGameOver() {
	s.State = GameOver
	s.overFor = 0
	s.addEvent(fmt.Sprintf("game over: %s points in %s", humanize.Comma(int64(s.Score.Current)), s.Clock.Format()), "session")
	slog.Info("game over",
		"id", s.SessionID,
		"score", humanize.Comma(int64(s.Score.Current)),
		"time", s.Clock.Format(),
		"restored", s.Stats.TilesRestored,
	)

	if s.Recorder != nil {
		_, err := s.Recorder.SaveSession(persistence.Session{
			ID:                 s.SessionID,
			Name:               s.Profile.Username,
			Score:              s.Score.Current,
			Elapsed:            s.Clock.Elapsed,
			TilesRestored:      s.Stats.TilesRestored,
			FactoriesDestroyed: s.Stats.FactoriesDestroyed,
			MachinesDestroyed:  s.Stats.MachinesDestroyed,
		})
		if err != nil {
			slog.Error("failed to record session", "error", err)
		}
	}
	s.flushEvents()

	if s.AutoSubmit != "" {
		if !s.Profile.CanSubmit() {
			s.Profile.SetUsername(s.AutoSubmit)
		}
		s.submit()
	}
}

// submit sends the finished session to the leaderboard once.
func (s *Simulation) submit() {
	if s.State != GameOver || s.submitted {
		return
	}
	if !s.Profile.CanSubmit() {
		slog.Warn("submit needs a username")
		return
	}
	e := leaderboard.Entry{Name: s.Profile.Username, Score: s.Score.Current, Time: s.Clock.Elapsed}
	s.Remote.Submit(e)
	s.Board.Add(e)
	s.Profile.Clear()
	s.submitted = true
	s.addEvent(fmt.Sprintf("%s submitted %s points", e.Name, humanize.Comma(int64(e.Score))), "leaderboard")
}

func (s *Simulation) pollLeaderboard() {
	entries, ok := s.Fetched.Poll()
	if !ok {
		return
	}
	s.Board.Replace(entries)
	if s.Recorder != nil {
		if err := s.Recorder.SaveLeaderboard(entries); err != nil {
			slog.Error("failed to cache leaderboard", "error", err)
		}
	}
}

func (s *Simulation) addEvent(desc, category string) {
	e := Event{Tick: s.LastTick, Description: desc, Category: category}
	s.Events = append(s.Events, e)
	s.unsaved = append(s.unsaved, e)
	// Trim old events to prevent unbounded growth.
	if len(s.Events) > maxEvents {
		s.Events = s.Events[len(s.Events)-maxEvents:]
	}
}

func (s *Simulation) flushEvents() {
	if s.Recorder == nil || len(s.unsaved) == 0 {
		s.unsaved = s.unsaved[:0]
		return
	}
	rows := make([]persistence.Event, len(s.unsaved))
	for i, e := range s.unsaved {
		rows[i] = persistence.Event{Tick: e.Tick, Description: e.Description, Category: e.Category}
	}
	if err := s.Recorder.SaveEvents(rows); err != nil {
		slog.Error("failed to save events", "error", err)
		return
	}
	s.unsaved = s.unsaved[:0]
}
