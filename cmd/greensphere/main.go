// Command greensphere runs the Green Sphere game headless: an autopilot rolls
// the moss ball while factories pollute the planet, and an HTTP API lets you
// watch and steer.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/talgya/green-sphere/internal/api"
	"github.com/talgya/green-sphere/internal/config"
	"github.com/talgya/green-sphere/internal/engine"
	"github.com/talgya/green-sphere/internal/entropy"
	"github.com/talgya/green-sphere/internal/input"
	"github.com/talgya/green-sphere/internal/leaderboard"
	"github.com/talgya/green-sphere/internal/mesh"
	"github.com/talgya/green-sphere/internal/persistence"
)

func main() {
	level := slog.LevelInfo
	if os.Getenv("GREENSPHERE_DEBUG") != "" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	slog.Info("Green Sphere: restore the planet")

	seed := int64(envIntOrDefault("GREENSPHERE_SEED", 0))
	if seed == 0 {
		seed = entropy.CryptoSeed()
	}
	dbPath := envOrDefault("GREENSPHERE_DB", "data/greensphere.db")
	apiPort := envIntOrDefault("GREENSPHERE_PORT", 8080)

	// ── Config ────────────────────────────────────────────────────────
	cfg := config.Default()
	if path := os.Getenv("GREENSPHERE_CONFIG"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			slog.Error("failed to load config", "path", path, "error", err)
			os.Exit(1)
		}
		cfg = loaded
		slog.Info("config loaded", "path", path)
	}
	if os.Getenv("GREENSPHERE_GOD_MODE") != "" {
		cfg.Player.GodMode = true
	}

	// ── Database ──────────────────────────────────────────────────────
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		slog.Error("failed to create data directory", "path", filepath.Dir(dbPath), "error", err)
		os.Exit(1)
	}
	db, err := persistence.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	played, _ := db.SessionCount()
	slog.Info("database opened", "path", dbPath, "sessions", played)

	// ── Planet ────────────────────────────────────────────────────────
	m := mesh.Icosphere(cfg.Planet.Subdivisions)
	slog.Info("planet generated",
		"subdivisions", cfg.Planet.Subdivisions,
		"vertices", humanize.Comma(int64(m.VertexCount())),
		"triangles", humanize.Comma(int64(m.TriangleCount())),
		"radius", cfg.Planet.Radius,
	)

	// ── Simulation ────────────────────────────────────────────────────
	sim := engine.NewSimulation(cfg, m.Positions, m, entropy.NewSeeded(seed))
	sim.Recorder = db
	sim.Pilot = input.NewWanderer(seed)
	sim.AutoSubmit = envOrDefault("GREENSPHERE_USERNAME", "Autopilot")
	sim.AutoRestart = envFloatOrDefault("GREENSPHERE_RESTART_AFTER", 5)

	if cached, err := db.LoadLeaderboard(); err != nil {
		slog.Warn("failed to load cached leaderboard", "error", err)
	} else if len(cached) > 0 {
		sim.Board.Replace(cached)
		slog.Info("cached leaderboard loaded", "entries", len(cached))
	}

	if url := os.Getenv("GREENSPHERE_FIREBASE_URL"); url != "" {
		sim.Remote = leaderboard.NewClient(url)
		slog.Info("remote leaderboard enabled", "url", url)
	} else {
		slog.Warn("GREENSPHERE_FIREBASE_URL not set, leaderboard stays local")
	}
	sim.EnterMainMenu()

	if err := db.SaveMeta("seed", strconv.FormatInt(seed, 10)); err != nil {
		slog.Error("failed to save seed", "error", err)
	}

	eng := engine.NewEngine()
	eng.SetSpeed(envFloatOrDefault("GREENSPHERE_SPEED", 1))
	eng.OnTick = sim.TickFrame
	eng.OnMinute = sim.TickMinute

	// ── HTTP API ──────────────────────────────────────────────────────
	adminKey := os.Getenv("GREENSPHERE_ADMIN_KEY")
	if adminKey == "" {
		slog.Warn("GREENSPHERE_ADMIN_KEY not set, admin POST endpoints will be disabled")
	}

	apiServer := &api.Server{
		Sim:      sim,
		Eng:      eng,
		DB:       db,
		Port:     apiPort,
		AdminKey: adminKey,
	}
	apiServer.Start()

	// ── Start ─────────────────────────────────────────────────────────
	if err := sim.Post(engine.Command{Kind: engine.CmdStart}); err != nil {
		slog.Error("failed to queue start", "error", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		eng.Stop()
	}()

	fmt.Printf("\nGreen Sphere is turning: %s tiles, seed %d.\n",
		humanize.Comma(int64(m.VertexCount())), seed)
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", apiPort)
	fmt.Println("Starting simulation... (Ctrl+C to stop)")

	eng.Run()

	if err := db.SaveMeta("last_tick", strconv.FormatUint(eng.Tick, 10)); err != nil {
		slog.Error("failed to save last tick", "error", err)
	}
	fmt.Println("Simulation stopped.")
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envIntOrDefault(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func envFloatOrDefault(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
