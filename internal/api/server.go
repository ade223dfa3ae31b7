// Package api provides the HTTP API for watching and steering a running game.
// GET endpoints are public and read the published snapshot.
// Admin POST endpoints require a bearer token.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/talgya/green-sphere/internal/engine"
	"github.com/talgya/green-sphere/internal/leaderboard"
	"github.com/talgya/green-sphere/internal/persistence"
)

// Server serves the game state over HTTP.
type Server struct {
	Sim      *engine.Simulation
	Eng      *engine.Engine
	DB       *persistence.DB // nil disables the session history endpoints
	Port     int
	AdminKey string // Bearer token for admin endpoints. Empty = admin disabled.

	// Submit limiter; built by Handler when nil.
	SubmitLimiter *RateLimiter

	started     time.Time
	streamConns int32 // open websocket streams (atomic)
}

// Handler builds the routed, CORS-wrapped handler.
func (s *Server) Handler() http.Handler {
	if s.SubmitLimiter == nil {
		s.SubmitLimiter = NewRateLimiter(5, time.Minute)
	}
	if s.started.IsZero() {
		s.started = time.Now()
	}

	mux := http.NewServeMux()

	// Public endpoints.
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/planet", s.handlePlanet)
	mux.HandleFunc("/api/v1/events", s.handleEvents)
	mux.HandleFunc("/api/v1/sessions", s.handleSessions)
	mux.HandleFunc("/api/v1/leaderboard", s.handleLeaderboard)
	mux.HandleFunc("/api/v1/stream", s.handleStream)

	// Admin endpoints (POST, require bearer token).
	mux.HandleFunc("/api/v1/speed", s.adminOnly(s.handleSpeed))
	mux.HandleFunc("/api/v1/reset", s.adminOnly(s.handleReset))
	mux.HandleFunc("/api/v1/start", s.adminOnly(s.handleStart))
	mux.HandleFunc("/api/v1/username", s.adminOnly(s.handleUsername))

	return corsMiddleware(mux)
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	handler := s.Handler()
	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		if err := http.ListenAndServe(addr, handler); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set GREENSPHERE_CORS_ORIGINS to a comma-separated list of extra origins.
// Localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:4173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("GREENSPHERE_CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly wraps a handler to require bearer token auth on POST requests.
// GET requests pass through (for endpoints that support both GET and POST).
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if s.AdminKey == "" {
				http.Error(w, "admin endpoints disabled (no GREENSPHERE_ADMIN_KEY set)", http.StatusForbidden)
				return
			}
			if !s.checkBearerToken(r) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.Sim.Snapshot()
	status := map[string]any{
		"name":          "Green Sphere",
		"tick":          snap.Tick,
		"state":         snap.State,
		"session_id":    snap.SessionID,
		"score":         snap.Score,
		"score_display": humanize.Comma(int64(snap.Score)),
		"session_time":  snap.SessionTime,
		"hp":            snap.HP,
		"radius":        snap.Radius,
		"speed":         snap.Speed,
		"energy":        snap.Energy,
		"dashing":       snap.Dashing,
		"invincible":    snap.Invincible,
		"factories":     snap.Factories,
		"machines":      snap.Machines,
		"orbs":          snap.Orbs,
		"difficulty":    snap.Difficulty,
		"healthy":       snap.Tiles.HealthyFraction(),
		"stats":         snap.Stats,
		"username":      snap.Username,
		"started":       humanize.Time(s.started),
	}
	if s.Eng != nil {
		status["sim_speed"] = s.Eng.Speed()
		status["running"] = s.Eng.Running()
	}
	if s.DB != nil {
		if n, err := s.DB.SessionCount(); err == nil {
			status["sessions_played"] = n
		}
	}
	writeJSON(w, status)
}

func (s *Server) handlePlanet(w http.ResponseWriter, r *http.Request) {
	snap := s.Sim.Snapshot()
	writeJSON(w, map[string]any{
		"radius":           s.Sim.Settings.Planet.Radius,
		"tiles":            snap.Tiles,
		"total":            snap.Tiles.Total(),
		"healthy_fraction": snap.Tiles.HealthyFraction(),
		"healthy_percent":  fmt.Sprintf("%.1f%%", snap.Tiles.HealthyFraction()*100),
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, 50, 500)
	if s.DB != nil {
		events, err := s.DB.RecentEvents(limit)
		if err != nil {
			slog.Error("events query failed", "error", err)
			http.Error(w, "events unavailable", http.StatusInternalServerError)
			return
		}
		writeJSON(w, events)
		return
	}

	events := s.Sim.Snapshot().Events
	if len(events) > limit {
		events = events[len(events)-limit:]
	}
	writeJSON(w, events)
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "database not available", http.StatusServiceUnavailable)
		return
	}
	sessions, err := s.DB.TopSessions(queryLimit(r, 10, 100))
	if err != nil {
		slog.Error("sessions query failed", "error", err)
		http.Error(w, "sessions unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, sessions)
}

// handleLeaderboard serves the board on GET and queues a score submission on
// POST. Submissions are rate limited per client.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		entries := s.Sim.Snapshot().Leaderboard
		n := queryLimit(r, len(entries), len(entries))
		if n < len(entries) {
			entries = entries[:n]
		}
		writeJSON(w, entries)
	case http.MethodPost:
		RateLimitMiddleware(s.SubmitLimiter, s.submitScore)(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) submitScore(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || utf8.RuneCountInString(req.Name) > leaderboard.MaxUsernameLen {
		http.Error(w, fmt.Sprintf("name must be 1-%d characters", leaderboard.MaxUsernameLen), http.StatusBadRequest)
		return
	}
	if st := s.Sim.Snapshot().State; st != engine.GameOver {
		http.Error(w, "no finished session to submit (state "+st.String()+")", http.StatusConflict)
		return
	}
	s.post(w, engine.Command{Kind: engine.CmdSubmit, Name: req.Name}, "score submission queued")
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	if s.Eng == nil {
		http.Error(w, "engine not available", http.StatusServiceUnavailable)
		return
	}
	if r.Method == http.MethodPost {
		var req struct {
			Speed float64 `json:"speed"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.Speed < 0 || req.Speed > 100 {
			http.Error(w, "speed must be 0-100", http.StatusBadRequest)
			return
		}
		s.Eng.SetSpeed(req.Speed)
		slog.Info("speed changed", "speed", req.Speed)
	}

	writeJSON(w, map[string]float64{"speed": s.Eng.Speed()})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Target string `json:"target"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	target := engine.MainMenu
	if req.Target != "" {
		t, err := engine.ParseGameState(req.Target)
		if err != nil || (t != engine.MainMenu && t != engine.Playing) {
			http.Error(w, "target must be main_menu or playing", http.StatusBadRequest)
			return
		}
		target = t
	}
	s.post(w, engine.Command{Kind: engine.CmdReset, Target: target}, "reset to "+target.String()+" queued")
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if st := s.Sim.Snapshot().State; st != engine.MainMenu {
		http.Error(w, "can only start from main_menu (state "+st.String()+")", http.StatusConflict)
		return
	}
	s.post(w, engine.Command{Kind: engine.CmdStart}, "start queued")
}

func (s *Server) handleUsername(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, map[string]string{"username": s.Sim.Snapshot().Username})
		return
	}
	var req struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if utf8.RuneCountInString(req.Username) > leaderboard.MaxUsernameLen {
		http.Error(w, "username too long", http.StatusBadRequest)
		return
	}
	s.post(w, engine.Command{Kind: engine.CmdUsername, Name: req.Username}, "username queued")
}

// post queues cmd and answers 202, or 503 when the queue is full.
func (s *Server) post(w http.ResponseWriter, cmd engine.Command, msg string) {
	if err := s.Sim.Post(cmd); err != nil {
		if errors.Is(err, engine.ErrBusy) {
			http.Error(w, "simulation busy, retry", http.StatusServiceUnavailable)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	slog.Info("command queued", "message", msg)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"message": msg})
}

// queryLimit reads ?limit=, falling back to def outside 1..ceiling.
func queryLimit(r *http.Request, def, ceiling int) int {
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= ceiling {
			return n
		}
	}
	return def
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
