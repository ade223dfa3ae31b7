package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/talgya/green-sphere/internal/engine"
)

const (
	maxStreamConns  = 8
	streamInterval  = 250 * time.Millisecond
	streamWriteWait = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// encodeSnapshot renders snap as a JSON text frame, or a msgpack binary frame
// keyed by the same field names.
func encodeSnapshot(snap engine.Snapshot, binary bool) (int, []byte, error) {
	if !binary {
		data, err := json.Marshal(snap)
		return websocket.TextMessage, data, err
	}
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(snap); err != nil {
		return 0, nil, err
	}
	return websocket.BinaryMessage, buf.Bytes(), nil
}

// handleStream upgrades to a websocket and pushes the latest snapshot whenever
// the tick changes. ?format=msgpack switches to binary frames.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	current := atomic.AddInt32(&s.streamConns, 1)
	defer atomic.AddInt32(&s.streamConns, -1)
	if current > maxStreamConns {
		http.Error(w, "too many stream connections", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("stream upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	binary := r.URL.Query().Get("format") == "msgpack"
	slog.Info("stream client connected", "remote", clientIP(r), "msgpack", binary)

	// Drain control frames so close requests are noticed.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()

	sent := false
	var lastTick uint64
	for {
		snap := s.Sim.Snapshot()
		if !sent || snap.Tick != lastTick {
			kind, data, err := encodeSnapshot(snap, binary)
			if err != nil {
				slog.Error("stream encode failed", "error", err)
				return
			}
			conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(kind, data); err != nil {
				slog.Info("stream client gone", "error", err)
				return
			}
			sent, lastTick = true, snap.Tick
		}

		select {
		case <-ticker.C:
		case <-closed:
			slog.Info("stream client disconnected")
			return
		case <-r.Context().Done():
			return
		}
	}
}
