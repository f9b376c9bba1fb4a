package validation

import (
	"fmt"

	"github.com/darkenness/airnet/pkg/element"
	"github.com/darkenness/airnet/pkg/model"
)

const (
	minZoneTemperature = 200.0 // K
	maxZoneTemperature = 400.0 // K
	nearZeroArea       = 1e-6  // grid units squared
)

// ValidateModel runs the pre-compilation pass over raw editor state.
// Blocking errors here mean the compiled document would be structurally
// broken; warnings flag conditions the compiler will silently absorb.
func ValidateModel(p *model.Project) *Report {
	r := NewReport()

	if p == nil || (!p.HasEnclosedFace() && p.Legacy == nil) {
		r.AddError(Result{
			Level:    LevelModel,
			Message:  "model is empty: no enclosed zones and no legacy topology",
			Path:     "stories",
			Expected: "at least one enclosed face or a legacy topology",
		})
		return r
	}

	validateStories(p, r)
	validateZones(p, r)
	validatePlacements(p, r)
	validateShaftConnectivity(p, r)
	validateContaminants(p, r)
	validateAirHandling(p, r)

	return r
}

func validateStories(p *model.Project, r *Report) {
	for i, s := range p.Stories {
		if s.FloorHeight <= 0 {
			r.AddError(Result{
				Level:       LevelModel,
				Message:     fmt.Sprintf("story %q: floor height must be positive", s.Name),
				Path:        fmt.Sprintf("stories[%d].floor_height", i),
				ActualValue: s.FloorHeight,
				Expected:    "> 0",
			})
		}
	}
}

func validateZones(p *model.Project, r *Report) {
	seen := make(map[int]string)
	reported := make(map[int]bool)

	for si, s := range p.Stories {
		for zi, z := range s.Zones {
			path := fmt.Sprintf("stories[%d].zones[%d]", si, zi)

			if prev, dup := seen[z.ZoneID]; dup {
				if !reported[z.ZoneID] {
					r.AddError(Result{
						Level:       LevelModel,
						Message:     fmt.Sprintf("duplicate zone id %d (already used by %s)", z.ZoneID, prev),
						Path:        path + ".zone_id",
						ActualValue: z.ZoneID,
						Expected:    "unique zone id across the whole model",
					})
					reported[z.ZoneID] = true
				}
			} else {
				seen[z.ZoneID] = path
			}

			if s.Geometry.HasFace(z.FaceID) {
				if s.Geometry.FaceArea(z.FaceID) < nearZeroArea {
					r.AddWarning(Result{
						Level:       LevelModel,
						Message:     fmt.Sprintf("zone %d has near-zero face area", z.ZoneID),
						Path:        path + ".face_id",
						ActualValue: z.FaceID,
					})
				}
			}

			if z.Temperature < minZoneTemperature || z.Temperature > maxZoneTemperature {
				r.AddWarning(Result{
					Level:       LevelModel,
					Message:     fmt.Sprintf("zone %d temperature %.1fK is outside the plausible range", z.ZoneID, z.Temperature),
					Path:        path + ".temperature",
					ActualValue: z.Temperature,
					Expected:    fmt.Sprintf("%.0f-%.0fK", minZoneTemperature, maxZoneTemperature),
				})
			}

			if z.Volume != nil && *z.Volume <= 0 {
				r.AddError(Result{
					Level:       LevelModel,
					Message:     fmt.Sprintf("zone %d volume override must be positive", z.ZoneID),
					Path:        path + ".volume",
					ActualValue: *z.Volume,
					Expected:    "> 0",
				})
			}

			if z.ShaftGroup == "" && !zoneHasPlacement(&p.Stories[si], z.FaceID) {
				r.AddWarning(Result{
					Level:   LevelModel,
					Message: fmt.Sprintf("zone %d has no openings and no shaft tag; it will be isolated", z.ZoneID),
					Path:    path,
					Suggestions: []string{
						"Place a door, window, or crack on one of the zone's walls",
						"Tag the zone into a shaft group",
					},
				})
			}
		}
	}
}

// zoneHasPlacement reports whether any placement sits on an edge
// adjacent to the zone's face.
func zoneHasPlacement(s *model.Story, faceID string) bool {
	for _, pl := range s.Placements {
		edge, ok := s.Geometry.GetEdge(pl.EdgeID)
		if !ok {
			continue
		}
		for _, fid := range edge.FaceIDs {
			if fid == faceID {
				return true
			}
		}
	}
	return false
}

func validatePlacements(p *model.Project, r *Report) {
	for si, s := range p.Stories {
		for pi, pl := range s.Placements {
			path := fmt.Sprintf("stories[%d].placements[%d]", si, pi)

			if !pl.Configured {
				r.AddWarning(Result{
					Level:   LevelModel,
					Message: fmt.Sprintf("%s placement on edge %s is unconfigured; type defaults will be used", pl.Type, pl.EdgeID),
					Path:    path,
				})
			}

			if !element.KnownComponent(pl.Type) {
				r.AddWarning(Result{
					Level:       LevelModel,
					Message:     fmt.Sprintf("unrecognized component type %q; a power-law orifice fallback will be used", pl.Type),
					Path:        path + ".type",
					ActualValue: string(pl.Type),
				})
			}

			edge, ok := s.Geometry.GetEdge(pl.EdgeID)
			if !ok {
				r.AddWarning(Result{
					Level:       LevelModel,
					Message:     fmt.Sprintf("placement references missing edge %s and will be dropped", pl.EdgeID),
					Path:        path + ".edge_id",
					ActualValue: pl.EdgeID,
				})
				continue
			}
			if len(edge.FaceIDs) == 0 {
				r.AddWarning(Result{
					Level:   LevelModel,
					Message: fmt.Sprintf("placement on edge %s has no adjacent zones and will be dropped", pl.EdgeID),
					Path:    path + ".edge_id",
				})
			}
		}
	}
}

func validateShaftConnectivity(p *model.Project, r *Report) {
	if len(p.Stories) < 2 {
		return
	}
	groups := make(map[string]int)
	for _, s := range p.Stories {
		for _, z := range s.Zones {
			if z.ShaftGroup != "" {
				groups[z.ShaftGroup]++
			}
		}
	}
	for _, n := range groups {
		if n >= 2 {
			return
		}
	}
	r.AddWarning(Result{
		Level:   LevelModel,
		Message: "multi-story model has no shaft connectivity between stories",
		Path:    "stories",
		Suggestions: []string{
			"Tag vertically aligned zones with a shared shaft group",
		},
	})
}

func validateContaminants(p *model.Project, r *Report) {
	if len(p.Sources) > 0 && len(p.Species) == 0 {
		r.AddError(Result{
			Level:    LevelModel,
			Message:  "contaminant sources are defined but no species exist",
			Path:     "sources",
			Expected: "at least one species definition",
		})
	}

	speciesIDs := make(map[int]bool, len(p.Species))
	for _, sp := range p.Species {
		speciesIDs[sp.ID] = true
	}
	scheduleIDs := make(map[int]bool, len(p.Schedules))
	for _, sch := range p.Schedules {
		scheduleIDs[sch.ID] = true
	}

	for i, src := range p.Sources {
		if len(p.Species) > 0 && !speciesIDs[src.SpeciesID] {
			r.AddWarning(Result{
				Level:       LevelModel,
				Message:     fmt.Sprintf("source references unknown species id %d", src.SpeciesID),
				Path:        fmt.Sprintf("sources[%d].species_id", i),
				ActualValue: src.SpeciesID,
			})
		}
		if src.ScheduleID > 0 && !scheduleIDs[src.ScheduleID] {
			r.AddWarning(Result{
				Level:       LevelModel,
				Message:     fmt.Sprintf("source references unknown schedule id %d", src.ScheduleID),
				Path:        fmt.Sprintf("sources[%d].schedule_id", i),
				ActualValue: src.ScheduleID,
			})
		}
	}
}

func validateAirHandling(p *model.Project, r *Report) {
	scheduleIDs := make(map[int]bool, len(p.Schedules))
	for _, sch := range p.Schedules {
		scheduleIDs[sch.ID] = true
	}
	for i, a := range p.AHS {
		if a.ScheduleID > 0 && !scheduleIDs[a.ScheduleID] {
			r.AddWarning(Result{
				Level:       LevelModel,
				Message:     fmt.Sprintf("air-handling system %q references unknown schedule id %d", a.Name, a.ScheduleID),
				Path:        fmt.Sprintf("ahs[%d].schedule_id", i),
				ActualValue: a.ScheduleID,
			})
		}
	}
}
