package mesh

import "github.com/talgya/green-sphere/internal/planet"

// The tile texture is a 2x2 atlas; each tile state samples one triangle
// inside its quadrant.
type region int

const (
	regionWasteland region = iota
	regionHealthy
	regionPolluted
)

var atlas = [...][3][2]float32{
	regionWasteland: {{0.0, 0.0}, {0.5, 0.0}, {0.25, 0.5}},
	regionHealthy:   {{0.5, 0.0}, {1.0, 0.0}, {0.75, 0.5}},
	regionPolluted:  {{0.0, 0.5}, {0.5, 0.5}, {0.25, 1.0}},
}

func regionFor(s planet.TileState) region {
	switch s {
	case planet.Healthy:
		return regionHealthy
	case planet.Polluted:
		return regionPolluted
	default:
		return regionWasteland
	}
}

// Paint implements planet.Painter. Tiles are flat-shaded, so the whole
// triangle owning the vertex takes the new state's atlas cell. Writes outside
// the buffer are ignored (the mesh may not be uploaded yet).
func (m *Mesh) Paint(vertex int, state planet.TileState) {
	start := (vertex / 3) * 3
	if vertex < 0 || start+2 >= len(m.UVs) {
		return
	}
	m.writeTriangle(start, atlas[regionFor(state)])
}

func (m *Mesh) writeTriangle(start int, uv [3][2]float32) {
	m.UVs[start] = uv[0]
	m.UVs[start+1] = uv[1]
	m.UVs[start+2] = uv[2]
}

// StateAt decodes the tile state the UV buffer currently shows for vertex.
func (m *Mesh) StateAt(vertex int) planet.TileState {
	start := (vertex / 3) * 3
	if vertex < 0 || start+2 >= len(m.UVs) {
		return planet.Wasteland
	}
	switch m.UVs[start] {
	case atlas[regionHealthy][0]:
		return planet.Healthy
	case atlas[regionPolluted][0]:
		return planet.Polluted
	default:
		return planet.Wasteland
	}
}
