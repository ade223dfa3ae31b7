// Package leaderboard keeps the ranked score table and talks to the remote
// Firebase-style realtime database that backs it.
package leaderboard

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Entry is one leaderboard row.
type Entry struct {
	Name  string  `json:"name"`
	Score int     `json:"score"`
	Time  float64 `json:"time"` // session length in seconds
}

// Board is the local ranked table, highest score first.
type Board struct {
	Entries []Entry `json:"entries"`
}

// NewBoard returns the table shown before the first remote fetch lands.
func NewBoard() *Board {
	return &Board{Entries: []Entry{
		{Name: "MossMaster", Score: 50000},
		{Name: "GreenKing", Score: 35000},
		{Name: "PlanetSaver", Score: 12000},
	}}
}

// Add inserts e and keeps the table sorted.
func (b *Board) Add(e Entry) {
	b.Entries = append(b.Entries, e)
	SortEntries(b.Entries)
}

// Replace swaps in a freshly fetched table.
func (b *Board) Replace(entries []Entry) {
	b.Entries = append([]Entry(nil), entries...)
	SortEntries(b.Entries)
}

// Top returns up to n leading entries.
func (b *Board) Top(n int) []Entry {
	if n <= 0 || n > len(b.Entries) {
		n = len(b.Entries)
	}
	return append([]Entry(nil), b.Entries[:n]...)
}

// SortEntries orders entries by score, highest first. Ties keep their order.
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
}

// MaxUsernameLen is the longest accepted username, in runes.
const MaxUsernameLen = 12

// Profile holds the name a session is submitted under.
type Profile struct {
	Username string `json:"username"`
}

// Type appends r if it is printable and the name has room.
func (p *Profile) Type(r rune) bool {
	if unicode.IsControl(r) || r == utf8.RuneError {
		return false
	}
	if utf8.RuneCountInString(p.Username) >= MaxUsernameLen {
		return false
	}
	p.Username += string(r)
	return true
}

// Backspace removes the last rune.
func (p *Profile) Backspace() {
	if p.Username == "" {
		return
	}
	_, size := utf8.DecodeLastRuneInString(p.Username)
	p.Username = p.Username[:len(p.Username)-size]
}

// SetUsername types s rune by rune, dropping what Type would refuse.
func (p *Profile) SetUsername(s string) {
	p.Username = ""
	for _, r := range s {
		p.Type(r)
	}
}

// CanSubmit reports whether the profile has a usable name.
func (p *Profile) CanSubmit() bool {
	return strings.TrimSpace(p.Username) != ""
}

// Clear forgets the name after a submission.
func (p *Profile) Clear() {
	p.Username = ""
}
