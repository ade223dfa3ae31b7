// Package planet holds the authoritative terrain model: one tile state per
// mesh vertex, the vertex adjacency graph, and the brush and stain operations
// that change tile states.
package planet

// TileState is the condition of a single vertex-indexed tile.
type TileState uint8

const (
	Wasteland TileState = iota // Neutral ground, the starting state
	Healthy                    // Restored by the player; scores on first restoration
	Polluted                   // Hostile; spreads from factories
)

// String returns a human-readable tile state name.
func (s TileState) String() string {
	switch s {
	case Wasteland:
		return "Wasteland"
	case Healthy:
		return "Healthy"
	case Polluted:
		return "Polluted"
	default:
		return "Unknown"
	}
}

// Points awarded when the brush restores a tile.
const (
	PointsRestoreWasteland = 100
	PointsRestorePolluted  = 200
)

// RestorePoints returns the score for restoring a tile from state s.
// Healthy tiles award nothing.
func RestorePoints(s TileState) int {
	switch s {
	case Wasteland:
		return PointsRestoreWasteland
	case Polluted:
		return PointsRestorePolluted
	default:
		return 0
	}
}

// Painter mirrors tile transitions into the render-visible buffer (vertex
// colours or UVs). It is called exactly once per transition.
type Painter interface {
	Paint(vertex int, state TileState)
}

// PainterFunc adapts a function to Painter.
type PainterFunc func(vertex int, state TileState)

func (f PainterFunc) Paint(vertex int, state TileState) { f(vertex, state) }

type noopPainter struct{}

func (noopPainter) Paint(int, TileState) {}
