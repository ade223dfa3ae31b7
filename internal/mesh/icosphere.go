// Package mesh builds the reference planet mesh: a flat-shaded icosphere whose
// vertices are duplicated per triangle, plus the per-vertex UV buffer the
// renderer samples to colour tiles.
package mesh

import (
	"math"

	"github.com/talgya/green-sphere/internal/vmath"
)

// Mesh is a flat-shaded triangle list. Positions has 3 entries per triangle
// and lies on the unit sphere; UVs is parallel to Positions.
type Mesh struct {
	Positions []vmath.Vec3
	UVs       [][2]float32
}

// VertexCount returns the number of (duplicated) vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Positions) / 3
}

// indexed is the shared-vertex form used during subdivision.
type indexed struct {
	vertices []vmath.Vec3
	indices  []int32
}

// Icosphere returns a unit icosphere subdivided the given number of times,
// split into independent triangles for flat shading. Level 0 has 12 unique
// positions, level 1 has 42, level n has 10*4^n+2.
func Icosphere(subdivisions int) *Mesh {
	t := (1.0 + math.Sqrt(5.0)) / 2.0

	ico := indexed{
		vertices: []vmath.Vec3{
			{X: -1, Y: t}, {X: 1, Y: t}, {X: -1, Y: -t}, {X: 1, Y: -t},
			{Y: -1, Z: t}, {Y: 1, Z: t}, {Y: -1, Z: -t}, {Y: 1, Z: -t},
			{X: t, Z: -1}, {X: t, Z: 1}, {X: -t, Z: -1}, {X: -t, Z: 1},
		},
		indices: []int32{
			0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
			1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
			3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
			4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
		},
	}

	for i := range ico.vertices {
		ico.vertices[i] = ico.vertices[i].Normalize()
	}
	for i := 0; i < subdivisions; i++ {
		ico = subdivide(ico)
	}

	m := &Mesh{
		Positions: make([]vmath.Vec3, len(ico.indices)),
		UVs:       make([][2]float32, len(ico.indices)),
	}
	for i, idx := range ico.indices {
		m.Positions[i] = ico.vertices[idx]
	}
	for tri := 0; tri < m.TriangleCount(); tri++ {
		m.writeTriangle(tri*3, atlas[regionWasteland])
	}
	return m
}

// subdivide splits every triangle into four, pushing new midpoints onto the
// unit sphere so that repeated subdivision converges on a sphere.
func subdivide(in indexed) indexed {
	midpoints := make(map[[2]int32]int32)
	out := indexed{
		vertices: append([]vmath.Vec3(nil), in.vertices...),
		indices:  make([]int32, 0, len(in.indices)*4),
	}

	midpoint := func(a, b int32) int32 {
		key := [2]int32{a, b}
		if a > b {
			key = [2]int32{b, a}
		}
		if mid, ok := midpoints[key]; ok {
			return mid
		}
		v := in.vertices[a].Add(in.vertices[b]).Scale(0.5).Normalize()
		out.vertices = append(out.vertices, v)
		mid := int32(len(out.vertices) - 1)
		midpoints[key] = mid
		return mid
	}

	for i := 0; i+2 < len(in.indices); i += 3 {
		v1, v2, v3 := in.indices[i], in.indices[i+1], in.indices[i+2]
		m1 := midpoint(v1, v2)
		m2 := midpoint(v2, v3)
		m3 := midpoint(v3, v1)
		out.indices = append(out.indices, v1, m1, m3, v2, m2, m1, v3, m3, m2, m1, m2, m3)
	}
	return out
}
