// Command observer watches a running greensphere instance through its status
// API and logs a humanized report on every interval.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
)

// status mirrors the fields of GET /api/v1/status the report uses.
type status struct {
	Tick        uint64  `json:"tick"`
	State       string  `json:"state"`
	SessionID   string  `json:"session_id"`
	Score       int     `json:"score"`
	SessionTime string  `json:"session_time"`
	HP          float64 `json:"hp"`
	Factories   int     `json:"factories"`
	Machines    int     `json:"machines"`
	Difficulty  float64 `json:"difficulty"`
	Healthy     float64 `json:"healthy"`
	SimSpeed    float64 `json:"sim_speed"`
	Sessions    int     `json:"sessions_played"`
}

type entry struct {
	Name  string  `json:"name"`
	Score int     `json:"score"`
	Time  float64 `json:"time"`
}

// observer fetches game state from the API.
type observer struct {
	baseURL string
	client  *http.Client

	lastScore int
	lastAt    time.Time
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	apiURL := envOrDefault("GREENSPHERE_API_URL", "http://localhost:8080")
	intervalSec := envIntOrDefault("OBSERVER_INTERVAL", 30)
	interval := time.Duration(intervalSec) * time.Second

	slog.Info("Green Sphere observer starting", "api_url", apiURL, "interval", interval)

	o := &observer{
		baseURL: apiURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}

	slog.Info("waiting for greensphere API...")
	waitForAPI(o.client, apiURL)

	o.report()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			o.report()
		case sig := <-sigCh:
			slog.Info("received signal, shutting down", "signal", sig)
			fmt.Println("Observer stopped.")
			return
		}
	}
}

// report fetches status and leaderboard and logs one summary.
func (o *observer) report() {
	var st status
	if err := o.fetchJSON("/api/v1/status", &st); err != nil {
		slog.Error("observation failed", "error", err)
		return
	}
	var board []entry
	if err := o.fetchJSON("/api/v1/leaderboard?limit=3", &board); err != nil {
		slog.Warn("leaderboard unavailable", "error", err)
	}

	now := time.Now()
	rate := "n/a"
	if !o.lastAt.IsZero() && st.Score >= o.lastScore {
		perMin := float64(st.Score-o.lastScore) / now.Sub(o.lastAt).Minutes()
		rate = humanize.CommafWithDigits(perMin, 0) + "/min"
	}
	o.lastScore, o.lastAt = st.Score, now

	slog.Info("observation",
		"state", st.State,
		"tick", humanize.Comma(int64(st.Tick)),
		"score", humanize.Comma(int64(st.Score)),
		"score_rate", rate,
		"session", st.SessionTime,
		"hp", fmt.Sprintf("%.0f", st.HP),
		"healthy", fmt.Sprintf("%.1f%%", st.Healthy*100),
		"factories", st.Factories,
		"machines", st.Machines,
		"difficulty", fmt.Sprintf("%.2f", st.Difficulty),
		"sessions", st.Sessions,
	)
	for i, e := range board {
		slog.Info("leader",
			"rank", humanize.Ordinal(i+1),
			"name", e.Name,
			"score", humanize.Comma(int64(e.Score)),
		)
	}
}

// fetchJSON GETs a path and decodes the JSON response into target.
func (o *observer) fetchJSON(path string, target any) error {
	resp, err := o.client.Get(o.baseURL + path)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("GET %s returned %d: %s", path, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
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

// waitForAPI polls the status endpoint with exponential backoff until it
// responds. Exits after 5 minutes if the API never becomes ready.
func waitForAPI(client *http.Client, apiURL string) {
	backoff := 2 * time.Second
	maxBackoff := 30 * time.Second
	deadline := time.Now().Add(5 * time.Minute)

	for {
		resp, err := client.Get(apiURL + "/api/v1/status")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				slog.Info("greensphere API is ready")
				return
			}
		}
		if time.Now().After(deadline) {
			slog.Error("greensphere API did not become ready within 5 minutes")
			os.Exit(1)
		}
		slog.Info("greensphere not ready, retrying...", "backoff", backoff)
		time.Sleep(backoff)
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}
