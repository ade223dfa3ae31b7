package leaderboard

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestBoardDefaultsAndAdd(t *testing.T) {
	b := NewBoard()
	if len(b.Entries) != 3 || b.Entries[0].Name != "MossMaster" {
		t.Fatalf("defaults=%+v", b.Entries)
	}
	b.Add(Entry{Name: "Sprout", Score: 40000, Time: 90})
	if b.Entries[1].Name != "Sprout" {
		t.Fatalf("not sorted: %+v", b.Entries)
	}
	if top := b.Top(2); len(top) != 2 || top[0].Score != 50000 {
		t.Fatalf("top=%+v", top)
	}
}

func TestProfileLimits(t *testing.T) {
	var p Profile
	p.SetUsername("abc\x07défghijklmnop")
	if p.Username != "abcdéfghijkl" {
		t.Fatalf("username=%q", p.Username)
	}
	if p.Type('z') {
		t.Fatal("accepted a 13th rune")
	}
	p.Backspace()
	if p.Username != "abcdéfghijk" {
		t.Fatalf("after backspace %q", p.Username)
	}
	p.SetUsername("   ")
	if p.CanSubmit() {
		t.Fatal("blank name can submit")
	}
	p.SetUsername("Moss")
	p.Clear()
	if p.CanSubmit() {
		t.Fatal("cleared profile can submit")
	}
}

func TestChannelLatestWins(t *testing.T) {
	c := NewChannel()
	if _, ok := c.Poll(); ok {
		t.Fatal("empty channel delivered")
	}
	c.Offer([]Entry{{Name: "old"}})
	c.Offer([]Entry{{Name: "new"}})
	got, ok := c.Poll()
	if !ok || got[0].Name != "new" {
		t.Fatalf("poll=%v %v", got, ok)
	}
	if _, ok := c.Poll(); ok {
		t.Fatal("second poll delivered")
	}
}

func TestFetchParsesAndSorts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/leaderboard.json" {
			t.Errorf("path=%s", r.URL.Path)
		}
		if got := r.URL.Query().Get("orderBy"); got != `"score"` {
			t.Errorf("orderBy=%s", got)
		}
		if got := r.URL.Query().Get("limitToLast"); got != "10" {
			t.Errorf("limitToLast=%s", got)
		}
		io.WriteString(w, `{
			"-a": {"name": "Fern", "score": 100, "time": 12.5},
			"-b": {"name": "Oak", "score": 900, "time": 60},
			"-c": {"name": "Broken"}
		}`)
	}))
	defer srv.Close()

	entries, err := NewClient(srv.URL).Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(entries) != 2 || entries[0].Name != "Oak" || entries[1].Time != 12.5 {
		t.Fatalf("entries=%+v", entries)
	}
}

func TestFetchNullBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "null")
	}))
	defer srv.Close()

	entries, err := NewClient(srv.URL).Fetch(context.Background())
	if err != nil || entries != nil {
		t.Fatalf("entries=%v err=%v", entries, err)
	}
}

func TestFetchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusUnauthorized)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL).Fetch(context.Background()); err == nil {
		t.Fatal("expected error for 401")
	}
}

func TestFetchAsyncDelivers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"-a": {"name": "Fern", "score": 100, "time": 1}}`)
	}))
	defer srv.Close()

	ch := NewChannel()
	NewClient(srv.URL).FetchAsync(context.Background(), ch)
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if got, ok := ch.Poll(); ok {
			if len(got) != 1 || got[0].Name != "Fern" {
				t.Fatalf("got %+v", got)
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("fetch never delivered")
}

func TestPostSendsEntry(t *testing.T) {
	got := make(chan Entry, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/leaderboard.json" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		var e Entry
		if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
			t.Errorf("decode: %v", err)
		}
		got <- e
		io.WriteString(w, `{"name": "-new"}`)
	}))
	defer srv.Close()

	want := Entry{Name: "Moss", Score: 4200, Time: 75}
	if err := NewClient(srv.URL).Post(context.Background(), want); err != nil {
		t.Fatalf("post: %v", err)
	}
	if e := <-got; e != want {
		t.Fatalf("server got %+v want %+v", e, want)
	}
}

func TestDisabledClientIsNoop(t *testing.T) {
	c := NewClient("")
	if c.Enabled() {
		t.Fatal("empty URL should disable the client")
	}
	ch := NewChannel()
	c.FetchAsync(context.Background(), ch)
	c.Submit(Entry{Name: "x"})
	if _, ok := ch.Poll(); ok {
		t.Fatal("disabled client delivered")
	}
}
