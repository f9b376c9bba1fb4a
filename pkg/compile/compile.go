package compile

import (
	"fmt"
	"sort"

	"github.com/darkenness/airnet/pkg/element"
	"github.com/darkenness/airnet/pkg/model"
	"github.com/darkenness/airnet/pkg/topology"
)

// firstLinkID is the id of the first synthesized link. Link ids count
// up from here within one compilation and are never reused.
const firstLinkID = 10000

// Vertical shaft links are emitted with fixed two-way flow defaults.
const (
	shaftCd     = 0.65
	shaftArea   = 2.0
	shaftHeight = 3.0
)

// zoneSite records where a compiled zone node came from, for link
// endpoint resolution and shaft chaining.
type zoneSite struct {
	zoneID      int
	level       int
	baseElev    float64 // scaled story base elevation
	floorHeight float64 // scaled floor-to-ceiling height
}

type compiler struct {
	p          *model.Project
	scale      float64
	nextLinkID int
	doc        *topology.Document

	// zone lookup per story: story index -> face id -> zone id
	zoneByFace []map[string]int
	sites      []zoneSite
}

// Compile turns an immutable project snapshot into one topology
// document. It never fails: unresolvable geometry references are
// skipped, and the validator is responsible for surfacing the gaps.
//
// When no story contains an enclosed face and a legacy flat topology is
// present, that record is passed through unchanged.
func Compile(p *model.Project) *topology.Document {
	if !p.HasEnclosedFace() && p.Legacy != nil {
		return p.Legacy
	}

	scale := p.ScaleFactor
	if scale <= 0 {
		scale = 1.0
	}

	c := &compiler{
		p:          p,
		scale:      scale,
		nextLinkID: firstLinkID,
		doc: &topology.Document{
			Description: p.Name,
			Ambient: topology.Ambient{
				Temperature:   p.Ambient.Temperature,
				Pressure:      p.Ambient.Pressure,
				WindSpeed:     p.Ambient.WindSpeed,
				WindDirection: p.Ambient.WindDirection,
			},
			Nodes: []topology.Node{},
			Links: []topology.Link{},
		},
	}

	c.emitAmbientNode()
	c.emitZoneNodes()
	c.emitPlacementLinks()
	c.emitShaftLinks()
	c.mergeSubsystems()

	return c.doc
}

func (c *compiler) newLinkID() int {
	id := c.nextLinkID
	c.nextLinkID++
	return id
}

func (c *compiler) emitAmbientNode() {
	c.doc.Nodes = append(c.doc.Nodes, topology.Node{
		ID:          topology.AmbientNodeID,
		Name:        "Ambient",
		Type:        topology.NodeAmbient,
		Temperature: c.p.Ambient.Temperature,
		Pressure:    c.p.Ambient.Pressure,
	})
}

// storyBaseElevation returns the scaled elevation of a story's floor
// plane: the explicit override when present, else level index times
// floor height.
func (c *compiler) storyBaseElevation(s *model.Story) float64 {
	if s.Elevation != nil {
		return *s.Elevation * c.scale
	}
	return float64(s.Level) * s.FloorHeight * c.scale
}

func (c *compiler) emitZoneNodes() {
	c.zoneByFace = make([]map[string]int, len(c.p.Stories))

	for si := range c.p.Stories {
		s := &c.p.Stories[si]
		c.zoneByFace[si] = make(map[string]int, len(s.Zones))
		base := c.storyBaseElevation(s)

		for _, z := range s.Zones {
			if !s.Geometry.HasFace(z.FaceID) {
				continue
			}

			area := s.Geometry.FaceArea(z.FaceID) * c.scale * c.scale
			volume := area * s.FloorHeight * c.scale
			if z.Volume != nil && *z.Volume > 0 {
				volume = *z.Volume * c.scale * c.scale * c.scale
			}

			name := z.Name
			if name == "" {
				name = fmt.Sprintf("Zone_%d", z.ZoneID)
			}

			c.doc.Nodes = append(c.doc.Nodes, topology.Node{
				ID:                    z.ZoneID,
				Name:                  name,
				Type:                  topology.NodeNormal,
				Temperature:           z.Temperature,
				Elevation:             base,
				Volume:                volume,
				Pressure:              0,
				InitialConcentrations: z.InitialConcentrations,
			})

			c.zoneByFace[si][z.FaceID] = z.ZoneID
			c.sites = append(c.sites, zoneSite{
				zoneID:      z.ZoneID,
				level:       s.Level,
				baseElev:    base,
				floorHeight: s.FloorHeight * c.scale,
			})
		}
	}
}

func (c *compiler) emitPlacementLinks() {
	for si := range c.p.Stories {
		s := &c.p.Stories[si]
		base := c.storyBaseElevation(s)
		linkElev := base + s.FloorHeight*c.scale/2

		for _, pl := range s.Placements {
			edge, ok := s.Geometry.GetEdge(pl.EdgeID)
			if !ok {
				continue
			}

			from, to, ok := c.resolveEndpoints(si, edge.FaceIDs)
			if !ok || from == to {
				continue
			}

			elem := element.Resolve(pl.Type, pl.Overrides)
			elem = c.scaleElement(elem, s, pl.EdgeID)

			c.doc.Links = append(c.doc.Links, topology.Link{
				ID:        c.newLinkID(),
				From:      from,
				To:        to,
				Elevation: linkElev,
				Element:   elem,
			})
		}
	}
}

// resolveEndpoints maps an edge's adjacent faces to node ids. Two
// adjacent faces give a zone-to-zone link (an unassigned face defaults
// to ambient); one face links its zone to ambient; zero faces mean no
// link at all.
func (c *compiler) resolveEndpoints(storyIdx int, faceIDs []string) (from, to int, ok bool) {
	zones := c.zoneByFace[storyIdx]
	switch len(faceIDs) {
	case 2:
		return zones[faceIDs[0]], zones[faceIDs[1]], true
	case 1:
		return zones[faceIDs[0]], topology.AmbientNodeID, true
	default:
		return 0, 0, false
	}
}

// scaleElement applies the unit scaling laws: areas by scale squared,
// heights by scale, and duct lengths replaced by the actual scaled edge
// length regardless of any configured value.
func (c *compiler) scaleElement(e element.Element, s *model.Story, edgeID string) element.Element {
	switch v := e.(type) {
	case element.TwoWayFlow:
		v.Area *= c.scale * c.scale
		v.Height *= c.scale
		return v
	case element.Duct:
		v.Length = s.Geometry.EdgeLength(edgeID) * c.scale
		return v
	default:
		return e
	}
}

// emitShaftLinks chains zones sharing a shaft-group tag into vertical
// two-way links between consecutive story levels.
func (c *compiler) emitShaftLinks() {
	groups := make(map[string][]zoneSite)
	var order []string

	for si := range c.p.Stories {
		s := &c.p.Stories[si]
		for _, z := range s.Zones {
			if z.ShaftGroup == "" {
				continue
			}
			if _, assigned := c.zoneByFace[si][z.FaceID]; !assigned {
				continue
			}
			if _, seen := groups[z.ShaftGroup]; !seen {
				order = append(order, z.ShaftGroup)
			}
			groups[z.ShaftGroup] = append(groups[z.ShaftGroup], zoneSite{
				zoneID:      z.ZoneID,
				level:       s.Level,
				baseElev:    c.storyBaseElevation(s),
				floorHeight: s.FloorHeight * c.scale,
			})
		}
	}

	for _, tag := range order {
		members := groups[tag]
		if len(members) < 2 {
			continue
		}
		sort.SliceStable(members, func(i, j int) bool {
			return members[i].level < members[j].level
		})

		for i := 0; i < len(members)-1; i++ {
			lo, hi := members[i], members[i+1]
			// Midpoint of the two ceiling planes.
			elev := (lo.baseElev + lo.floorHeight + hi.baseElev + hi.floorHeight) / 2

			c.doc.Links = append(c.doc.Links, topology.Link{
				ID:        c.newLinkID(),
				From:      lo.zoneID,
				To:        hi.zoneID,
				Elevation: elev,
				Element: element.TwoWayFlow{
					Cd:     shaftCd,
					Area:   shaftArea,
					Height: shaftHeight,
				},
			})
		}
	}
}

// mergeSubsystems copies the auxiliary subsystem records into the
// document. Absent subsystems are omitted entirely, never emitted as
// empty sections.
func (c *compiler) mergeSubsystems() {
	p := c.p

	for _, sp := range p.Species {
		c.doc.Species = append(c.doc.Species, topology.Species{
			ID:                   sp.ID,
			Name:                 sp.Name,
			MolarMass:            sp.MolarMass,
			DecayRate:            sp.DecayRate,
			OutdoorConcentration: sp.OutdoorConcentration,
			IsTrace:              sp.IsTrace,
		})
	}

	for _, src := range p.Sources {
		c.doc.Sources = append(c.doc.Sources, topology.Source{
			ZoneID:            src.ZoneID,
			SpeciesID:         src.SpeciesID,
			Type:              src.Type,
			GenerationRate:    src.GenerationRate,
			RemovalRate:       src.RemovalRate,
			ScheduleID:        src.ScheduleID,
			DecayTimeConstant: src.DecayTimeConstant,
			StartTime:         src.StartTime,
			Multiplier:        src.Multiplier,
			PressureCoeff:     src.PressureCoeff,
			CutoffConc:        src.CutoffConc,
		})
	}

	for _, sch := range p.Schedules {
		pts := make([]topology.SchedulePoint, len(sch.Points))
		for i, pt := range sch.Points {
			pts[i] = topology.SchedulePoint{Time: pt.Time, Value: pt.Value}
		}
		c.doc.Schedules = append(c.doc.Schedules, topology.Schedule{
			ID:     sch.ID,
			Name:   sch.Name,
			Points: pts,
		})
	}

	for _, occ := range p.Occupants {
		o := topology.Occupant{
			ID:            occ.ID,
			Name:          occ.Name,
			BreathingRate: occ.BreathingRate,
		}
		for _, stop := range occ.Stops {
			o.ZoneSchedule = append(o.ZoneSchedule, struct {
				Time   float64 `json:"time"`
				ZoneID int     `json:"zoneId"`
			}{Time: stop.Time, ZoneID: stop.ZoneID})
		}
		c.doc.Occupants = append(c.doc.Occupants, o)
	}

	if !p.Controls.Empty() {
		c.doc.Controls = compileControls(p.Controls)
	}

	for _, a := range p.AHS {
		c.doc.AHSSystems = append(c.doc.AHSSystems, topology.AHS{
			ID:             a.ID,
			Name:           a.Name,
			SupplyZoneID:   a.SupplyZoneID,
			ReturnZoneID:   a.ReturnZoneID,
			SupplyFlow:     a.SupplyFlow,
			ReturnFlow:     a.ReturnFlow,
			OutdoorAirFlow: a.OutdoorAirFlow,
			ExhaustFlow:    a.ExhaustFlow,
			ScheduleID:     a.ScheduleID,
		})
	}

	if len(p.Weather) > 0 {
		w := &topology.Weather{}
		for _, pt := range p.Weather {
			w.Points = append(w.Points, topology.WeatherPoint{
				Time:          pt.Time,
				Temperature:   pt.Temperature,
				Pressure:      pt.Pressure,
				WindSpeed:     pt.WindSpeed,
				WindDirection: pt.WindDirection,
			})
		}
		c.doc.Weather = w
	}

	if p.Transient != nil && p.Transient.Enabled {
		c.doc.Transient = &topology.Transient{
			StartTime:      p.Transient.StartTime,
			EndTime:        p.Transient.EndTime,
			TimeStep:       p.Transient.TimeStep,
			OutputInterval: p.Transient.OutputInterval,
			AirflowMethod:  p.Transient.AirflowMethod,
		}
	}
}

func compileControls(cs model.ControlSystem) *topology.Controls {
	out := &topology.Controls{}
	for _, s := range cs.Sensors {
		out.Sensors = append(out.Sensors, topology.Sensor{
			ID:           s.ID,
			Name:         s.Name,
			Type:         s.Type,
			TargetID:     s.TargetID,
			SpeciesIndex: s.SpeciesIndex,
		})
	}
	for _, ctl := range cs.Controllers {
		kp := ctl.Kp
		if kp == 0 {
			kp = 1.0
		}
		out.Controllers = append(out.Controllers, topology.Controller{
			ID:         ctl.ID,
			Name:       ctl.Name,
			SensorID:   ctl.SensorID,
			ActuatorID: ctl.ActuatorID,
			Setpoint:   ctl.Setpoint,
			Kp:         kp,
			Ki:         ctl.Ki,
			Deadband:   ctl.Deadband,
		})
	}
	for _, a := range cs.Actuators {
		out.Actuators = append(out.Actuators, topology.Actuator{
			ID:        a.ID,
			Name:      a.Name,
			Type:      a.Type,
			LinkIndex: a.LinkIndex,
		})
	}
	return out
}
