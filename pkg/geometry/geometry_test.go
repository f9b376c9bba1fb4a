package geometry

import (
	"math"
	"testing"
)

func squareGraph() *Graph {
	return &Graph{
		Vertices: []Vertex{
			{ID: "v1", X: 0, Y: 0},
			{ID: "v2", X: 4, Y: 0},
			{ID: "v3", X: 4, Y: 4},
			{ID: "v4", X: 0, Y: 4},
		},
		Edges: []Edge{
			{ID: "e1", V1: "v1", V2: "v2", FaceIDs: []string{"f1"}},
			{ID: "e2", V1: "v2", V2: "v3", FaceIDs: []string{"f1"}},
			{ID: "e3", V1: "v3", V2: "v4", FaceIDs: []string{"f1"}},
			{ID: "e4", V1: "v4", V2: "v1", FaceIDs: []string{"f1"}},
		},
		Faces: []Face{
			{ID: "f1", VertexIDs: []string{"v1", "v2", "v3", "v4"}},
		},
	}
}

func TestFaceArea_Square(t *testing.T) {
	g := squareGraph()
	if got := g.FaceArea("f1"); got != 16 {
		t.Errorf("FaceArea = %v, want 16", got)
	}
}

func TestFaceArea_Triangle(t *testing.T) {
	g := &Graph{
		Vertices: []Vertex{
			{ID: "a", X: 0, Y: 0},
			{ID: "b", X: 3, Y: 0},
			{ID: "c", X: 0, Y: 4},
		},
		Faces: []Face{{ID: "t", VertexIDs: []string{"a", "b", "c"}}},
	}
	if got := g.FaceArea("t"); got != 6 {
		t.Errorf("FaceArea = %v, want 6", got)
	}
}

func TestFaceArea_WindingIndependent(t *testing.T) {
	g := squareGraph()
	g.Faces[0].VertexIDs = []string{"v4", "v3", "v2", "v1"}
	if got := g.FaceArea("f1"); got != 16 {
		t.Errorf("clockwise FaceArea = %v, want 16", got)
	}
}

func TestFaceArea_Degenerate(t *testing.T) {
	g := squareGraph()
	g.Faces = append(g.Faces, Face{ID: "f2", VertexIDs: []string{"v1", "v2"}})
	if got := g.FaceArea("f2"); got != 0 {
		t.Errorf("two-vertex FaceArea = %v, want 0", got)
	}
	if got := g.FaceArea("missing"); got != 0 {
		t.Errorf("missing face FaceArea = %v, want 0", got)
	}
}

func TestFaceArea_DanglingVertexRef(t *testing.T) {
	g := squareGraph()
	g.Faces[0].VertexIDs = append(g.Faces[0].VertexIDs, "gone")
	if got := g.FaceArea("f1"); got != 0 {
		t.Errorf("FaceArea with dangling vertex ref = %v, want 0", got)
	}
}

func TestEdgeLength(t *testing.T) {
	g := squareGraph()
	if got := g.EdgeLength("e1"); got != 4 {
		t.Errorf("EdgeLength = %v, want 4", got)
	}
	g.Vertices[1] = Vertex{ID: "v2", X: 3, Y: 4}
	if got := g.EdgeLength("e1"); math.Abs(got-5) > 1e-12 {
		t.Errorf("EdgeLength = %v, want 5", got)
	}
	if got := g.EdgeLength("missing"); got != 0 {
		t.Errorf("missing edge EdgeLength = %v, want 0", got)
	}
}

func TestGetEdge(t *testing.T) {
	g := squareGraph()
	e, ok := g.GetEdge("e2")
	if !ok || e.V1 != "v2" || e.V2 != "v3" {
		t.Errorf("GetEdge(e2) = %+v, %v", e, ok)
	}
	if _, ok := g.GetEdge("nope"); ok {
		t.Error("expected GetEdge miss for unknown id")
	}
}
