package validation

import (
	"testing"

	"github.com/darkenness/airnet/pkg/element"
	"github.com/darkenness/airnet/pkg/topology"
)

func legacyDoc() *topology.Document {
	return &topology.Document{
		Ambient: topology.Ambient{Temperature: 293.15, Pressure: 101325},
		Nodes: []topology.Node{
			{ID: 0, Name: "Ambient", Type: topology.NodeAmbient, Temperature: 293.15},
			{ID: 1, Name: "Zone_1", Type: topology.NodeNormal, Temperature: 295, Volume: 30},
		},
		Links: []topology.Link{
			{ID: 10000, From: 1, To: 0, Elevation: 1.5,
				Element: element.TwoWayFlow{Cd: 0.65, Area: 1.8, Height: 2.0}},
		},
	}
}

func TestValidateDocument_Valid(t *testing.T) {
	r := ValidateDocument(legacyDoc())
	if !r.Valid {
		t.Errorf("expected valid, got %d errors", len(r.Errors))
		for _, e := range r.Errors {
			t.Logf("  error: %s", e.Message)
		}
	}
}

func TestValidateDocument_Nil(t *testing.T) {
	if r := ValidateDocument(nil); r.Valid {
		t.Error("expected invalid for nil document")
	}
}

func TestValidateDocument_NoNodes(t *testing.T) {
	d := legacyDoc()
	d.Nodes = nil
	r := ValidateDocument(d)
	if r.Valid {
		t.Fatal("expected invalid")
	}
	if !hasMessage(r.Errors, "no nodes") {
		t.Errorf("errors = %+v", r.Errors)
	}
}

func TestValidateDocument_NilLinkList(t *testing.T) {
	d := legacyDoc()
	d.Links = nil
	r := ValidateDocument(d)
	if r.Valid {
		t.Fatal("expected invalid")
	}
	if !hasMessage(r.Errors, "no link list") {
		t.Errorf("errors = %+v", r.Errors)
	}
}

func TestValidateDocument_EmptyLinkListIsFine(t *testing.T) {
	d := legacyDoc()
	d.Links = []topology.Link{}
	if r := ValidateDocument(d); !r.Valid {
		t.Errorf("empty link list rejected: %+v", r.Errors)
	}
}

func TestValidateDocument_DuplicateNodeID(t *testing.T) {
	d := legacyDoc()
	d.Nodes = append(d.Nodes, topology.Node{ID: 1, Type: topology.NodeNormal})
	r := ValidateDocument(d)
	if r.Valid {
		t.Fatal("expected invalid")
	}
	if !hasMessage(r.Errors, "duplicate node id") {
		t.Errorf("errors = %+v", r.Errors)
	}
}

func TestValidateDocument_UnknownNodeType(t *testing.T) {
	d := legacyDoc()
	d.Nodes[1].Type = "phantom"
	r := ValidateDocument(d)
	if r.Valid {
		t.Fatal("expected invalid")
	}
	if !hasMessage(r.Errors, "unknown type") {
		t.Errorf("errors = %+v", r.Errors)
	}
}

func TestValidateDocument_DanglingLinkRef(t *testing.T) {
	d := legacyDoc()
	d.Links[0].To = 42
	r := ValidateDocument(d)
	if r.Valid {
		t.Fatal("expected invalid")
	}
	if !hasMessage(r.Errors, "non-existent node") {
		t.Errorf("errors = %+v", r.Errors)
	}
}

func TestValidateDocument_MissingElement(t *testing.T) {
	d := legacyDoc()
	d.Links[0].Element = nil
	r := ValidateDocument(d)
	if r.Valid {
		t.Fatal("expected invalid")
	}
	if !hasMessage(r.Errors, "no flow element") {
		t.Errorf("errors = %+v", r.Errors)
	}
}

func TestValidateDocument_DanglingSourceRef(t *testing.T) {
	d := legacyDoc()
	d.Sources = []topology.Source{{ZoneID: 9, SpeciesID: 1}}
	r := ValidateDocument(d)
	if r.Valid {
		t.Fatal("expected invalid")
	}
	if !hasMessage(r.Errors, "non-existent node") {
		t.Errorf("errors = %+v", r.Errors)
	}
}

func TestReport_Merge(t *testing.T) {
	a := NewReport()
	a.AddWarning(Result{Level: LevelModel, Message: "w1"})
	b := NewReport()
	b.AddError(Result{Level: LevelStructural, Message: "e1"})

	a.Merge(b)
	if a.Valid {
		t.Error("merged report with errors must be invalid")
	}
	if len(a.Errors) != 1 || len(a.Warnings) != 1 {
		t.Errorf("merged = %d errors, %d warnings", len(a.Errors), len(a.Warnings))
	}
}
