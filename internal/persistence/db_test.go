package persistence

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/talgya/green-sphere/internal/leaderboard"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "greensphere.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSessionsRoundTripAndRank(t *testing.T) {
	db := openTemp(t)
	for i, score := range []int{300, 1200, 800} {
		s, err := db.SaveSession(Session{Name: "run", Score: score, Elapsed: float64(i * 10), EndedAt: int64(i + 1)})
		if err != nil {
			t.Fatalf("save: %v", err)
		}
		if s.ID == "" {
			t.Fatal("session ID not assigned")
		}
	}
	top, err := db.TopSessions(2)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 2 || top[0].Score != 1200 || top[1].Score != 800 {
		t.Fatalf("top=%+v", top)
	}
	if n, err := db.SessionCount(); err != nil || n != 3 {
		t.Fatalf("count=%d err=%v", n, err)
	}
}

func TestEvents(t *testing.T) {
	db := openTemp(t)
	err := db.SaveEvents([]Event{
		{Tick: 10, Description: "factory deployed", Category: "enemy"},
		{Tick: 20, Description: "game over", Category: "session"},
	})
	if err != nil {
		t.Fatalf("save events: %v", err)
	}
	got, err := db.RecentEvents(1)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 1 || got[0].Tick != 20 {
		t.Fatalf("recent=%+v", got)
	}
}

func TestLeaderboardCacheReplaces(t *testing.T) {
	db := openTemp(t)
	if err := db.SaveLeaderboard(leaderboard.NewBoard().Entries); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := db.SaveLeaderboard([]leaderboard.Entry{{Name: "Fern", Score: 5, Time: 1.5}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := db.LoadLeaderboard()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0] != (leaderboard.Entry{Name: "Fern", Score: 5, Time: 1.5}) {
		t.Fatalf("cache=%+v", got)
	}
}

func TestMeta(t *testing.T) {
	db := openTemp(t)
	if _, err := db.GetMeta("username"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("missing key err=%v", err)
	}
	if err := db.SaveMeta("username", "Moss"); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveMeta("username", "Fern"); err != nil {
		t.Fatal(err)
	}
	if v, err := db.GetMeta("username"); err != nil || v != "Fern" {
		t.Fatalf("meta=%q err=%v", v, err)
	}
}
