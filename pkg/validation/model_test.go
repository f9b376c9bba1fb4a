package validation

import (
	"strings"
	"testing"

	"github.com/darkenness/airnet/pkg/element"
	"github.com/darkenness/airnet/pkg/geometry"
	"github.com/darkenness/airnet/pkg/model"
)

func validProject() *model.Project {
	return &model.Project{
		Name:        "Test",
		ScaleFactor: 1,
		Ambient:     model.Ambient{Temperature: 293.15, Pressure: 101325},
		Stories: []model.Story{{
			ID:          "s1",
			Name:        "Ground",
			Level:       0,
			FloorHeight: 3,
			Geometry: geometry.Graph{
				Vertices: []geometry.Vertex{
					{ID: "v1", X: 0, Y: 0},
					{ID: "v2", X: 5, Y: 0},
					{ID: "v3", X: 5, Y: 2},
					{ID: "v4", X: 0, Y: 2},
				},
				Edges: []geometry.Edge{
					{ID: "e1", V1: "v1", V2: "v2", FaceIDs: []string{"f1"}},
					{ID: "e2", V1: "v2", V2: "v3", FaceIDs: []string{"f1"}},
					{ID: "e3", V1: "v3", V2: "v4", FaceIDs: []string{"f1"}},
					{ID: "e4", V1: "v4", V2: "v1", FaceIDs: []string{"f1"}},
				},
				Faces: []geometry.Face{
					{ID: "f1", VertexIDs: []string{"v1", "v2", "v3", "v4"}},
				},
			},
			Zones: []model.ZoneAssignment{
				{FaceID: "f1", ZoneID: 1, Name: "Room", Temperature: 295},
			},
			Placements: []model.Placement{
				{ID: "p1", EdgeID: "e1", Type: element.ComponentDoor, Configured: true},
			},
		}},
	}
}

func hasMessage(results []Result, fragment string) bool {
	for _, r := range results {
		if strings.Contains(r.Message, fragment) {
			return true
		}
	}
	return false
}

func TestValidateModel_Valid(t *testing.T) {
	r := ValidateModel(validProject())
	if !r.Valid {
		t.Errorf("expected valid, got %d errors", len(r.Errors))
		for _, e := range r.Errors {
			t.Logf("  error: %s", e.Message)
		}
	}
	if len(r.Warnings) != 0 {
		for _, w := range r.Warnings {
			t.Errorf("unexpected warning: %s", w.Message)
		}
	}
}

func TestValidateModel_Empty(t *testing.T) {
	r := ValidateModel(&model.Project{Name: "empty"})
	if r.Valid {
		t.Fatal("expected invalid for empty model")
	}
	if !hasMessage(r.Errors, "model is empty") {
		t.Errorf("errors = %+v", r.Errors)
	}
}

func TestValidateModel_Nil(t *testing.T) {
	if r := ValidateModel(nil); r.Valid {
		t.Error("expected invalid for nil project")
	}
}

func TestValidateModel_LegacyOnlyIsNotEmpty(t *testing.T) {
	p := &model.Project{Legacy: legacyDoc()}
	r := ValidateModel(p)
	if hasMessage(r.Errors, "model is empty") {
		t.Error("legacy-only model reported as empty")
	}
}

func TestValidateModel_BadFloorHeight(t *testing.T) {
	p := validProject()
	p.Stories[0].FloorHeight = 0
	r := ValidateModel(p)
	if r.Valid {
		t.Fatal("expected invalid")
	}
	if !hasMessage(r.Errors, "floor height") {
		t.Errorf("errors = %+v", r.Errors)
	}
}

func TestValidateModel_DuplicateZoneID(t *testing.T) {
	p := validProject()
	s := &p.Stories[0]
	s.Geometry.Faces = append(s.Geometry.Faces,
		geometry.Face{ID: "f2", VertexIDs: []string{"v1", "v2", "v3"}})
	s.Geometry.Edges[1].FaceIDs = []string{"f1", "f2"}
	s.Zones = append(s.Zones,
		model.ZoneAssignment{FaceID: "f2", ZoneID: 1, Temperature: 295},
		model.ZoneAssignment{FaceID: "f2", ZoneID: 1, Temperature: 295},
	)
	r := ValidateModel(p)
	if r.Valid {
		t.Fatal("expected invalid")
	}
	count := 0
	for _, e := range r.Errors {
		if strings.Contains(e.Message, "duplicate zone id") {
			count++
		}
	}
	if count != 1 {
		t.Errorf("duplicate zone id reported %d times, want once per id", count)
	}
}

func TestValidateModel_TemperatureRange(t *testing.T) {
	p := validProject()
	p.Stories[0].Zones[0].Temperature = 150
	r := ValidateModel(p)
	if !r.Valid {
		t.Error("temperature range should warn, not block")
	}
	if !hasMessage(r.Warnings, "temperature") {
		t.Errorf("warnings = %+v", r.Warnings)
	}
}

func TestValidateModel_BadVolumeOverride(t *testing.T) {
	p := validProject()
	v := -5.0
	p.Stories[0].Zones[0].Volume = &v
	r := ValidateModel(p)
	if r.Valid {
		t.Fatal("expected invalid")
	}
	if !hasMessage(r.Errors, "volume override") {
		t.Errorf("errors = %+v", r.Errors)
	}
}

func TestValidateModel_IsolatedZone(t *testing.T) {
	p := validProject()
	p.Stories[0].Placements = nil
	r := ValidateModel(p)
	if !r.Valid {
		t.Error("isolation should warn, not block")
	}
	if !hasMessage(r.Warnings, "isolated") {
		t.Errorf("warnings = %+v", r.Warnings)
	}
}

func TestValidateModel_ShaftTagCountsAsConnectivity(t *testing.T) {
	p := validProject()
	p.Stories[0].Placements = nil
	p.Stories[0].Zones[0].ShaftGroup = "stair"
	r := ValidateModel(p)
	if hasMessage(r.Warnings, "isolated") {
		t.Error("shaft-tagged zone reported as isolated")
	}
}

func TestValidateModel_UnconfiguredPlacement(t *testing.T) {
	p := validProject()
	p.Stories[0].Placements[0].Configured = false
	r := ValidateModel(p)
	if !hasMessage(r.Warnings, "unconfigured") {
		t.Errorf("warnings = %+v", r.Warnings)
	}
}

func TestValidateModel_UnknownComponentType(t *testing.T) {
	p := validProject()
	p.Stories[0].Placements[0].Type = "hatch"
	r := ValidateModel(p)
	if !r.Valid {
		t.Error("unknown type should warn, not block")
	}
	if !hasMessage(r.Warnings, "unrecognized component type") {
		t.Errorf("warnings = %+v", r.Warnings)
	}
}

func TestValidateModel_MissingEdge(t *testing.T) {
	p := validProject()
	p.Stories[0].Placements[0].EdgeID = "e-gone"
	r := ValidateModel(p)
	if !hasMessage(r.Warnings, "missing edge") {
		t.Errorf("warnings = %+v", r.Warnings)
	}
}

func TestValidateModel_DanglingEdgePlacement(t *testing.T) {
	p := validProject()
	s := &p.Stories[0]
	s.Geometry.Edges = append(s.Geometry.Edges,
		geometry.Edge{ID: "e-dangling", V1: "v1", V2: "v3"})
	s.Placements = append(s.Placements,
		model.Placement{ID: "p2", EdgeID: "e-dangling", Type: element.ComponentWindow, Configured: true})
	r := ValidateModel(p)
	if !hasMessage(r.Warnings, "no adjacent zones") {
		t.Errorf("warnings = %+v", r.Warnings)
	}
}

func TestValidateModel_MultiStoryWithoutShafts(t *testing.T) {
	p := validProject()
	upper := p.Stories[0]
	upper.ID = "s2"
	upper.Level = 1
	upper.Zones = []model.ZoneAssignment{
		{FaceID: "f1", ZoneID: 2, Temperature: 295},
	}
	p.Stories = append(p.Stories, upper)
	r := ValidateModel(p)
	if !hasMessage(r.Warnings, "shaft connectivity") {
		t.Errorf("warnings = %+v", r.Warnings)
	}

	p.Stories[0].Zones[0].ShaftGroup = "stair"
	p.Stories[1].Zones[0].ShaftGroup = "stair"
	r = ValidateModel(p)
	if hasMessage(r.Warnings, "shaft connectivity") {
		t.Error("warning persists after tagging a shaft group")
	}
}

func TestValidateModel_SourcesWithoutSpecies(t *testing.T) {
	p := validProject()
	p.Sources = []model.Source{{ZoneID: 1, SpeciesID: 1, GenerationRate: 1e-5}}
	r := ValidateModel(p)
	if r.Valid {
		t.Fatal("expected invalid")
	}
	if !hasMessage(r.Errors, "no species") {
		t.Errorf("errors = %+v", r.Errors)
	}
}

func TestValidateModel_UnknownSpeciesAndSchedule(t *testing.T) {
	p := validProject()
	p.Species = []model.Species{{ID: 1, Name: "CO2", MolarMass: 44}}
	p.Sources = []model.Source{{ZoneID: 1, SpeciesID: 7, ScheduleID: 9}}
	r := ValidateModel(p)
	if !hasMessage(r.Warnings, "unknown species") {
		t.Errorf("warnings = %+v", r.Warnings)
	}
	if !hasMessage(r.Warnings, "unknown schedule") {
		t.Errorf("warnings = %+v", r.Warnings)
	}
}

func TestValidateModel_AHSUnknownSchedule(t *testing.T) {
	p := validProject()
	p.AHS = []model.AirHandlingSystem{{ID: 1, Name: "AHU-1", SupplyZoneID: 1, ReturnZoneID: 1, ScheduleID: 4}}
	r := ValidateModel(p)
	if !hasMessage(r.Warnings, "unknown schedule") {
		t.Errorf("warnings = %+v", r.Warnings)
	}
}
