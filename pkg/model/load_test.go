package model

import (
	"os"
	"path/filepath"
	"testing"
)

const minimalProject = `
name: Test House
ambient:
  temperature: 293.15
  pressure: 101325
stories:
  - name: Ground
    level: 0
    floor_height: 3.0
    geometry:
      vertices:
        - {id: v1, x: 0, y: 0}
        - {id: v2, x: 5, y: 0}
        - {id: v3, x: 5, y: 2}
        - {id: v4, x: 0, y: 2}
      edges:
        - {id: e1, v1: v1, v2: v2, face_ids: [f1]}
        - {id: e2, v1: v2, v2: v3, face_ids: [f1]}
        - {id: e3, v1: v3, v2: v4, face_ids: [f1]}
        - {id: e4, v1: v4, v2: v1, face_ids: [f1]}
      faces:
        - {id: f1, vertex_ids: [v1, v2, v3, v4]}
    zones:
      - {face_id: f1, zone_id: 1, name: Living, temperature: 295}
    placements:
      - {edge_id: e1, type: door, configured: true}
`

func writeProject(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, ProjectFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoadProject(t *testing.T) {
	dir := writeProject(t, minimalProject)
	p, err := LoadProject(dir)
	if err != nil {
		t.Fatalf("LoadProject: %v", err)
	}
	if p.Name != "Test House" {
		t.Errorf("Name = %q", p.Name)
	}
	if len(p.Stories) != 1 || len(p.Stories[0].Zones) != 1 {
		t.Fatalf("stories = %+v", p.Stories)
	}
	if p.Stories[0].FloorHeight != 3.0 {
		t.Errorf("FloorHeight = %v", p.Stories[0].FloorHeight)
	}
	if !p.HasEnclosedFace() {
		t.Error("expected an enclosed face")
	}
}

func TestLoad_ScaleFactorDefaultsToOne(t *testing.T) {
	dir := writeProject(t, minimalProject)
	p, err := LoadProject(dir)
	if err != nil {
		t.Fatal(err)
	}
	if p.ScaleFactor != 1.0 {
		t.Errorf("ScaleFactor = %v, want 1.0", p.ScaleFactor)
	}
}

func TestLoad_FillsMissingIDs(t *testing.T) {
	dir := writeProject(t, minimalProject)
	p, err := LoadProject(dir)
	if err != nil {
		t.Fatal(err)
	}
	if p.Stories[0].ID == "" {
		t.Error("story id was not assigned")
	}
	if p.Stories[0].Placements[0].ID == "" {
		t.Error("placement id was not assigned")
	}
}

func TestLoad_LegacyTopologyParsed(t *testing.T) {
	content := `
name: Legacy
ambient:
  temperature: 293.15
  pressure: 101325
legacy_topology: '{"ambient":{"temperature":293.15,"pressure":101325,"windSpeed":0,"windDirection":0},"nodes":[{"id":0,"name":"Ambient","type":"ambient","temperature":293.15,"elevation":0,"volume":0,"pressure":0}],"links":[]}'
`
	dir := writeProject(t, content)
	p, err := LoadProject(dir)
	if err != nil {
		t.Fatal(err)
	}
	if p.Legacy == nil {
		t.Fatal("legacy topology was not parsed")
	}
	if len(p.Legacy.Nodes) != 1 || p.Legacy.Nodes[0].ID != 0 {
		t.Errorf("legacy nodes = %+v", p.Legacy.Nodes)
	}
}

func TestLoad_MalformedYAMLIsParseError(t *testing.T) {
	dir := writeProject(t, "name: [unclosed")
	_, err := LoadProject(dir)
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsParseError(err) {
		t.Errorf("expected a parse error, got %v", err)
	}
}

func TestLoad_MissingFileIsNotParseError(t *testing.T) {
	_, err := LoadProject(t.TempDir())
	if err == nil {
		t.Fatal("expected error")
	}
	if IsParseError(err) {
		t.Errorf("I/O failure reported as parse error: %v", err)
	}
}

func TestLoad_MalformedLegacyTopology(t *testing.T) {
	content := `
name: Legacy
legacy_topology: '{"nodes": [not json'
`
	dir := writeProject(t, content)
	_, err := LoadProject(dir)
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsParseError(err) {
		t.Errorf("expected a parse error, got %v", err)
	}
}
