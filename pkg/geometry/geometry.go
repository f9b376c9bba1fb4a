package geometry

import "math"

// Vertex is a point in a story's wall sketch, in grid units.
type Vertex struct {
	ID string  `yaml:"id" json:"id"`
	X  float64 `yaml:"x" json:"x"`
	Y  float64 `yaml:"y" json:"y"`
}

// Edge is a wall segment between two vertices. FaceIDs lists the
// enclosed faces adjacent to the edge: two for an interior wall, one
// for an exterior wall, zero for a dangling segment.
type Edge struct {
	ID      string   `yaml:"id" json:"id"`
	V1      string   `yaml:"v1" json:"v1"`
	V2      string   `yaml:"v2" json:"v2"`
	FaceIDs []string `yaml:"face_ids" json:"face_ids"`
}

// Face is an enclosed region bounded by walls, given as an ordered
// vertex loop.
type Face struct {
	ID        string   `yaml:"id" json:"id"`
	VertexIDs []string `yaml:"vertex_ids" json:"vertex_ids"`
}

// Graph is the planar subdivision of one building story: the walls the
// user has drawn, resolved into vertices, edges, and enclosed faces.
type Graph struct {
	Vertices []Vertex `yaml:"vertices" json:"vertices"`
	Edges    []Edge   `yaml:"edges" json:"edges"`
	Faces    []Face   `yaml:"faces" json:"faces"`
}

// GetVertex returns the vertex with the given id.
func (g *Graph) GetVertex(id string) (Vertex, bool) {
	for _, v := range g.Vertices {
		if v.ID == id {
			return v, true
		}
	}
	return Vertex{}, false
}

// GetEdge returns the edge with the given id.
func (g *Graph) GetEdge(id string) (Edge, bool) {
	for _, e := range g.Edges {
		if e.ID == id {
			return e, true
		}
	}
	return Edge{}, false
}

// GetFace returns the face with the given id.
func (g *Graph) GetFace(id string) (Face, bool) {
	for _, f := range g.Faces {
		if f.ID == id {
			return f, true
		}
	}
	return Face{}, false
}

// HasFace reports whether a face with the given id still exists.
func (g *Graph) HasFace(id string) bool {
	_, ok := g.GetFace(id)
	return ok
}

// EdgeLength returns the length of an edge in grid units, or 0 if the
// edge or either endpoint is missing.
func (g *Graph) EdgeLength(id string) float64 {
	e, ok := g.GetEdge(id)
	if !ok {
		return 0
	}
	v1, ok1 := g.GetVertex(e.V1)
	v2, ok2 := g.GetVertex(e.V2)
	if !ok1 || !ok2 {
		return 0
	}
	return math.Hypot(v2.X-v1.X, v2.Y-v1.Y)
}

// FaceArea returns the unsigned area of a face in grid units squared,
// computed with the shoelace formula over its vertex loop. Faces with
// fewer than three resolvable vertices have zero area.
func (g *Graph) FaceArea(id string) float64 {
	f, ok := g.GetFace(id)
	if !ok {
		return 0
	}
	pts := make([]Vertex, 0, len(f.VertexIDs))
	for _, vid := range f.VertexIDs {
		v, ok := g.GetVertex(vid)
		if !ok {
			return 0
		}
		pts = append(pts, v)
	}
	n := len(pts)
	if n < 3 {
		return 0
	}
	area := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += pts[i].X * pts[j].Y
		area -= pts[j].X * pts[i].Y
	}
	return math.Abs(area / 2)
}
