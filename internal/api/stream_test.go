package api

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

func dialStream(t *testing.T, query string) *websocket.Conn {
	t.Helper()
	_, h := newTestServer(t)
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/stream" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestStreamJSON(t *testing.T) {
	conn := dialStream(t, "")
	kind, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	if kind != websocket.TextMessage {
		t.Fatalf("frame kind %d", kind)
	}
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got["state"] != "main_menu" {
		t.Fatalf("state=%v", got["state"])
	}
}

func TestStreamMsgpack(t *testing.T) {
	conn := dialStream(t, "?format=msgpack")
	kind, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	if kind != websocket.BinaryMessage {
		t.Fatalf("frame kind %d", kind)
	}
	dec := msgpack.NewDecoder(strings.NewReader(string(data)))
	dec.SetCustomStructTag("json")
	var got map[string]any
	if err := dec.Decode(&got); err != nil {
		t.Fatal(err)
	}
	board, ok := got["leaderboard"].([]any)
	if !ok || len(board) != 3 {
		t.Fatalf("leaderboard=%v", got["leaderboard"])
	}
	if _, ok := got["tick"]; !ok {
		t.Fatal("tick missing")
	}
}
