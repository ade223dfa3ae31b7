package leaderboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// FetchLimit is how many top rows a fetch asks for.
const FetchLimit = 10

// Channel delivers fetched tables to the simulation goroutine. It holds at
// most one table; a newer offer replaces an unread one.
type Channel struct {
	ch chan []Entry
}

// NewChannel returns an empty channel.
func NewChannel() *Channel {
	return &Channel{ch: make(chan []Entry, 1)}
}

// Offer stores entries, discarding any unread table.
func (c *Channel) Offer(entries []Entry) {
	for {
		select {
		case c.ch <- entries:
			return
		default:
		}
		select {
		case <-c.ch:
		default:
		}
	}
}

// Poll returns a pending table without blocking.
func (c *Channel) Poll() ([]Entry, bool) {
	select {
	case e := <-c.ch:
		return e, true
	default:
		return nil, false
	}
}

// Client talks to the remote leaderboard.
type Client struct {
	BaseURL    string // database root, e.g. https://example.firebaseio.com/
	HTTPClient *http.Client
}

// NewClient creates a Client targeting the given database root.
func NewClient(baseURL string) *Client {
	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Enabled reports whether a remote is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.BaseURL != ""
}

// Fetch GETs the top rows. A null body (empty database) returns nil, nil.
func (c *Client) Fetch(ctx context.Context) ([]Entry, error) {
	q := url.Values{}
	q.Set("orderBy", `"score"`)
	q.Set("limitToLast", strconv.Itoa(FetchLimit))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"leaderboard.json?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET leaderboard: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("GET leaderboard returned %d: %s", resp.StatusCode, string(body))
	}

	// Rows are keyed by push ID; malformed rows are skipped.
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode leaderboard: %w", err)
	}
	if raw == nil {
		return nil, nil
	}
	entries := make([]Entry, 0, len(raw))
	for id, msg := range raw {
		var row struct {
			Name  *string  `json:"name"`
			Score *int     `json:"score"`
			Time  *float64 `json:"time"`
		}
		if err := json.Unmarshal(msg, &row); err != nil || row.Name == nil || row.Score == nil || row.Time == nil {
			slog.Debug("skipping leaderboard row", "id", id)
			continue
		}
		entries = append(entries, Entry{Name: *row.Name, Score: *row.Score, Time: *row.Time})
	}
	SortEntries(entries)
	return entries, nil
}

// FetchAsync runs Fetch in its own goroutine and offers the result to out.
// Failures are logged and deliver nothing.
func (c *Client) FetchAsync(ctx context.Context, out *Channel) {
	if !c.Enabled() {
		return
	}
	go func() {
		entries, err := c.Fetch(ctx)
		if err != nil {
			slog.Warn("leaderboard fetch failed", "error", err)
			return
		}
		if entries == nil {
			slog.Info("leaderboard is empty")
			return
		}
		slog.Info("leaderboard fetched", "entries", len(entries))
		out.Offer(entries)
	}()
}

// Post sends one entry.
func (c *Client) Post(ctx context.Context, e Entry) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"leaderboard.json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("POST leaderboard: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("submit failed (%d): %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// Submit posts e in the background and logs the outcome. There is no retry.
func (c *Client) Submit(e Entry) {
	if !c.Enabled() {
		return
	}
	go func() {
		if err := c.Post(context.Background(), e); err != nil {
			slog.Warn("leaderboard submit failed", "name", e.Name, "error", err)
			return
		}
		slog.Info("score accepted", "name", e.Name, "score", e.Score)
	}()
}
