package validation

import (
	"fmt"

	"github.com/darkenness/airnet/pkg/topology"
)

// ValidateDocument runs the post-compilation structural pass over a
// topology document. It re-derives integrity independently of the
// editor state, because a document may be consumed directly (for
// example loaded from a saved file) without the model pass ever
// having run.
func ValidateDocument(d *topology.Document) *Report {
	r := NewReport()

	if d == nil || len(d.Nodes) == 0 {
		r.AddError(Result{
			Level:    LevelStructural,
			Message:  "document has no nodes",
			Path:     "nodes",
			Expected: "non-empty node list",
		})
		return r
	}
	if d.Links == nil {
		r.AddError(Result{
			Level:    LevelStructural,
			Message:  "document has no link list",
			Path:     "links",
			Expected: "a link list (may be empty)",
		})
		return r
	}

	validateNodeIDs(d, r)
	validateLinkRefs(d, r)
	validateSourceRefs(d, r)

	return r
}

func validateNodeIDs(d *topology.Document, r *Report) {
	seen := make(map[int]int, len(d.Nodes))
	for i, n := range d.Nodes {
		if n.Type != topology.NodeAmbient && n.Type != topology.NodeNormal {
			r.AddError(Result{
				Level:       LevelStructural,
				Message:     fmt.Sprintf("node %d has unknown type %q", n.ID, n.Type),
				Path:        fmt.Sprintf("nodes[%d].type", i),
				ActualValue: string(n.Type),
				Expected:    `"ambient" or "normal"`,
			})
		}
		if prev, dup := seen[n.ID]; dup {
			r.AddError(Result{
				Level:       LevelStructural,
				Message:     fmt.Sprintf("duplicate node id %d at indices %d and %d", n.ID, prev, i),
				Path:        fmt.Sprintf("nodes[%d].id", i),
				ActualValue: n.ID,
			})
			continue
		}
		seen[n.ID] = i
	}
}

func validateLinkRefs(d *topology.Document, r *Report) {
	nodeIDs := make(map[int]bool, len(d.Nodes))
	for _, n := range d.Nodes {
		nodeIDs[n.ID] = true
	}

	for i, l := range d.Links {
		if !nodeIDs[l.From] {
			r.AddError(Result{
				Level:       LevelStructural,
				Message:     fmt.Sprintf("link %d references non-existent node %d", l.ID, l.From),
				Path:        fmt.Sprintf("links[%d].from", i),
				ActualValue: l.From,
				Expected:    "existing node id",
			})
		}
		if !nodeIDs[l.To] {
			r.AddError(Result{
				Level:       LevelStructural,
				Message:     fmt.Sprintf("link %d references non-existent node %d", l.ID, l.To),
				Path:        fmt.Sprintf("links[%d].to", i),
				ActualValue: l.To,
				Expected:    "existing node id",
			})
		}
		if l.Element == nil {
			r.AddError(Result{
				Level:    LevelStructural,
				Message:  fmt.Sprintf("link %d has no flow element", l.ID),
				Path:     fmt.Sprintf("links[%d].element", i),
				Expected: "a typed flow element",
			})
		}
	}
}

func validateSourceRefs(d *topology.Document, r *Report) {
	nodeIDs := make(map[int]bool, len(d.Nodes))
	for _, n := range d.Nodes {
		nodeIDs[n.ID] = true
	}
	for i, src := range d.Sources {
		if !nodeIDs[src.ZoneID] {
			r.AddError(Result{
				Level:       LevelStructural,
				Message:     fmt.Sprintf("source references non-existent node %d", src.ZoneID),
				Path:        fmt.Sprintf("sources[%d].zoneId", i),
				ActualValue: src.ZoneID,
				Expected:    "existing node id",
			})
		}
	}
}
