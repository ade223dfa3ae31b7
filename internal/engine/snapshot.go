package engine

import (
	"github.com/talgya/green-sphere/internal/leaderboard"
	"github.com/talgya/green-sphere/internal/planet"
	"github.com/talgya/green-sphere/internal/vmath"
)

// Snapshot is a read-only copy of the game published at the end of every
// frame for the API and other observers.
type Snapshot struct {
	Tick        uint64              `json:"tick"`
	State       GameState           `json:"state"`
	SessionID   string              `json:"session_id,omitempty"`
	Score       int                 `json:"score"`
	SessionTime string              `json:"session_time"`
	Elapsed     float64             `json:"elapsed"`
	HP          float64             `json:"hp"`
	Radius      float64             `json:"radius"`
	Position    vmath.Vec3          `json:"position"`
	Speed       float64             `json:"speed"`
	Energy      float64             `json:"energy"`
	Dashing     bool                `json:"dashing"`
	Invincible  bool                `json:"invincible"`
	Factories   int                 `json:"factories"`
	Machines    int                 `json:"machines"`
	Orbs        int                 `json:"orbs"`
	Difficulty  float64             `json:"difficulty"`
	Tiles       planet.Counts       `json:"tiles"`
	Stats       SessionStats        `json:"stats"`
	Username    string              `json:"username"`
	Leaderboard []leaderboard.Entry `json:"leaderboard"`
	Events      []Event             `json:"recent_events"`
}

// Snapshot returns the most recently published state. Safe to call from any
// goroutine.
func (s *Simulation) Snapshot() Snapshot {
	s.snapMu.RLock()
	defer s.snapMu.RUnlock()
	return s.snap
}

func (s *Simulation) publish() {
	recent := s.Events
	if len(recent) > snapshotEvents {
		recent = recent[len(recent)-snapshotEvents:]
	}
	snap := Snapshot{
		Tick:        s.LastTick,
		State:       s.State,
		SessionID:   s.SessionID,
		Score:       s.Score.Current,
		SessionTime: s.Clock.Format(),
		Elapsed:     s.Clock.Elapsed,
		HP:          s.Ball.HP,
		Radius:      s.Ball.Radius,
		Position:    s.Ball.Position,
		Speed:       s.Ball.Speed(),
		Energy:      s.Dash.Energy,
		Dashing:     s.Dash.Active,
		Invincible:  s.Ball.Invincibility > 0,
		Factories:   s.Enemies.Factories.Len(),
		Machines:    s.Enemies.Machines.Len(),
		Orbs:        s.Enemies.Orbs.Len(),
		Difficulty:  s.Enemies.Director.Difficulty,
		Tiles:       s.Planet.Count(),
		Stats:       s.Stats,
		Username:    s.Profile.Username,
		Leaderboard: s.Board.Top(0),
		Events:      append([]Event(nil), recent...),
	}

	s.snapMu.Lock()
	s.snap = snap
	s.snapMu.Unlock()
}
