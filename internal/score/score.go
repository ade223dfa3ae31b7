// Package score collects point awards and tracks the session clock.
package score

import "fmt"

// Message is a single point award.
type Message int

// Queue buffers awards produced during a tick until the board drains them.
type Queue struct {
	pending []Message
}

// Push appends an award.
func (q *Queue) Push(m Message) {
	q.pending = append(q.pending, m)
}

// Len returns the number of pending awards.
func (q *Queue) Len() int {
	return len(q.pending)
}

// Drain returns and clears the pending awards.
func (q *Queue) Drain() []Message {
	out := q.pending
	q.pending = nil
	return out
}

// Board is the running score for the current session.
type Board struct {
	Current int `json:"current"`
}

// Apply drains q into the board and returns the points added.
func (b *Board) Apply(q *Queue) int {
	added := 0
	for _, m := range q.Drain() {
		added += int(m)
	}
	b.Current += added
	return added
}

// Reset zeroes the score.
func (b *Board) Reset() {
	b.Current = 0
}

// SessionTime is the elapsed play time of the current session.
type SessionTime struct {
	Elapsed float64 `json:"elapsed"` // seconds
}

// Tick advances the clock.
func (s *SessionTime) Tick(dt float64) {
	s.Elapsed += dt
}

// Reset zeroes the clock.
func (s *SessionTime) Reset() {
	s.Elapsed = 0
}

// Format renders the clock as MM:SS.
func (s SessionTime) Format() string {
	return FormatClock(s.Elapsed)
}

// FormatClock renders seconds as MM:SS. Minutes are not wrapped at an hour.
func FormatClock(secs float64) string {
	if secs < 0 {
		secs = 0
	}
	total := int(secs)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
