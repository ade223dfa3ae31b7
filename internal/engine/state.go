package engine

import (
	"errors"
	"fmt"
	"strings"
)

// GameState is the top-level mode of the simulation.
type GameState uint8

const (
	MainMenu GameState = iota
	Playing
	GameOver
	Resetting
)

var stateNames = [...]string{"main_menu", "playing", "game_over", "resetting"}

func (g GameState) String() string {
	if int(g) < len(stateNames) {
		return stateNames[g]
	}
	return fmt.Sprintf("state(%d)", g)
}

// MarshalText implements encoding.TextMarshaler.
func (g GameState) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// ParseGameState accepts the names produced by String, plus "menu".
func ParseGameState(s string) (GameState, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "main_menu", "menu":
		return MainMenu, nil
	case "playing":
		return Playing, nil
	case "game_over":
		return GameOver, nil
	case "resetting":
		return Resetting, nil
	}
	return 0, fmt.Errorf("unknown game state %q", s)
}

// CommandKind enumerates requests posted from outside the sim goroutine.
type CommandKind uint8

const (
	CmdStart    CommandKind = iota // MainMenu → Playing
	CmdReset                       // any → Resetting → Target
	CmdSubmit                      // GameOver: submit score under Name
	CmdUsername                    // set the profile name
)

// Command is a request applied at the start of the next frame.
type Command struct {
	Kind   CommandKind
	Target GameState // CmdReset
	Name   string    // CmdSubmit, CmdUsername
}

// ErrBusy is returned when the command queue is full.
var ErrBusy = errors.New("command queue full")
