package model

import (
	"github.com/darkenness/airnet/pkg/element"
	"github.com/darkenness/airnet/pkg/geometry"
	"github.com/darkenness/airnet/pkg/topology"
)

// Project is the complete editor-side building model: everything the
// compiler and validator need, taken as one immutable snapshot.
type Project struct {
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	ScaleFactor float64 `yaml:"scale_factor" json:"scale_factor"`
	Ambient     Ambient `yaml:"ambient" json:"ambient"`
	Stories     []Story `yaml:"stories" json:"stories"`

	Species   []Species           `yaml:"species,omitempty" json:"species,omitempty"`
	Sources   []Source            `yaml:"sources,omitempty" json:"sources,omitempty"`
	Schedules []Schedule          `yaml:"schedules,omitempty" json:"schedules,omitempty"`
	Occupants []Occupant          `yaml:"occupants,omitempty" json:"occupants,omitempty"`
	Controls  ControlSystem       `yaml:"controls,omitempty" json:"controls,omitempty"`
	AHS       []AirHandlingSystem `yaml:"ahs,omitempty" json:"ahs,omitempty"`
	Weather   []WeatherPoint      `yaml:"weather,omitempty" json:"weather,omitempty"`
	Transient *TransientConfig    `yaml:"transient,omitempty" json:"transient,omitempty"`

	// LegacyTopology carries a pre-geometry flat node/link document as
	// raw JSON. It is compiled through unchanged when no story contains
	// an enclosed face.
	LegacyTopology string `yaml:"legacy_topology,omitempty" json:"legacy_topology,omitempty"`

	// Legacy is the parsed form of LegacyTopology, populated at load
	// time.
	Legacy *topology.Document `yaml:"-" json:"-"`
}

// Ambient is the global outdoor condition block.
type Ambient struct {
	Temperature   float64 `yaml:"temperature" json:"temperature"`
	Pressure      float64 `yaml:"pressure" json:"pressure"`
	WindSpeed     float64 `yaml:"wind_speed" json:"wind_speed"`
	WindDirection float64 `yaml:"wind_direction" json:"wind_direction"`
}

// Story is one building level: its wall sketch, zone assignments, and
// component placements.
type Story struct {
	ID          string         `yaml:"id" json:"id"`
	Name        string         `yaml:"name" json:"name"`
	Level       int            `yaml:"level" json:"level"`
	FloorHeight float64        `yaml:"floor_height" json:"floor_height"`
	Elevation   *float64       `yaml:"elevation,omitempty" json:"elevation,omitempty"`
	Geometry    geometry.Graph `yaml:"geometry" json:"geometry"`
	Zones       []ZoneAssignment `yaml:"zones" json:"zones"`
	Placements  []Placement      `yaml:"placements" json:"placements"`
}

// ZoneAssignment binds an enclosed face to a simulation zone.
type ZoneAssignment struct {
	FaceID                string          `yaml:"face_id" json:"face_id"`
	ZoneID                int             `yaml:"zone_id" json:"zone_id"`
	Name                  string          `yaml:"name" json:"name"`
	Temperature           float64         `yaml:"temperature" json:"temperature"`
	Volume                *float64        `yaml:"volume,omitempty" json:"volume,omitempty"`
	InitialConcentrations map[int]float64 `yaml:"initial_concentrations,omitempty" json:"initial_concentrations,omitempty"`
	ShaftGroup            string          `yaml:"shaft_group,omitempty" json:"shaft_group,omitempty"`
}

// Placement binds one component to one wall edge.
type Placement struct {
	ID         string                `yaml:"id" json:"id"`
	EdgeID     string                `yaml:"edge_id" json:"edge_id"`
	Type       element.ComponentType `yaml:"type" json:"type"`
	Name       string                `yaml:"name,omitempty" json:"name,omitempty"`
	Configured bool                  `yaml:"configured" json:"configured"`
	Overrides  element.Overrides     `yaml:"overrides,omitempty" json:"overrides,omitempty"`
}

// Species is a contaminant definition.
type Species struct {
	ID                   int     `yaml:"id" json:"id"`
	Name                 string  `yaml:"name" json:"name"`
	MolarMass            float64 `yaml:"molar_mass" json:"molar_mass"`
	DecayRate            float64 `yaml:"decay_rate,omitempty" json:"decay_rate,omitempty"`
	OutdoorConcentration float64 `yaml:"outdoor_concentration,omitempty" json:"outdoor_concentration,omitempty"`
	IsTrace              bool    `yaml:"is_trace" json:"is_trace"`
}

// Source generates or removes contaminant mass in a zone. Type is one
// of "constant", "exponential_decay", "pressure_driven", "cutoff"; an
// empty value means constant.
type Source struct {
	ZoneID            int     `yaml:"zone_id" json:"zone_id"`
	SpeciesID         int     `yaml:"species_id" json:"species_id"`
	Type              string  `yaml:"type,omitempty" json:"type,omitempty"`
	GenerationRate    float64 `yaml:"generation_rate,omitempty" json:"generation_rate,omitempty"`
	RemovalRate       float64 `yaml:"removal_rate,omitempty" json:"removal_rate,omitempty"`
	ScheduleID        int     `yaml:"schedule_id,omitempty" json:"schedule_id,omitempty"`
	DecayTimeConstant float64 `yaml:"decay_time_constant,omitempty" json:"decay_time_constant,omitempty"`
	StartTime         float64 `yaml:"start_time,omitempty" json:"start_time,omitempty"`
	Multiplier        float64 `yaml:"multiplier,omitempty" json:"multiplier,omitempty"`
	PressureCoeff     float64 `yaml:"pressure_coeff,omitempty" json:"pressure_coeff,omitempty"`
	CutoffConc        float64 `yaml:"cutoff_concentration,omitempty" json:"cutoff_concentration,omitempty"`
}

// SchedulePoint is one breakpoint of a schedule.
type SchedulePoint struct {
	Time  float64 `yaml:"time" json:"time"`
	Value float64 `yaml:"value" json:"value"`
}

// Schedule scales sources and systems over time.
type Schedule struct {
	ID     int             `yaml:"id" json:"id"`
	Name   string          `yaml:"name" json:"name"`
	Points []SchedulePoint `yaml:"points" json:"points"`
}

// OccupantStop is one leg of an occupant's movement schedule.
type OccupantStop struct {
	Time   float64 `yaml:"time" json:"time"`
	ZoneID int     `yaml:"zone_id" json:"zone_id"`
}

// Occupant is a person tracked for exposure.
type Occupant struct {
	ID            int            `yaml:"id" json:"id"`
	Name          string         `yaml:"name" json:"name"`
	BreathingRate float64        `yaml:"breathing_rate" json:"breathing_rate"`
	Stops         []OccupantStop `yaml:"stops,omitempty" json:"stops,omitempty"`
}

// Sensor reads a value from a node or link. X and Y are the node's
// position on the control-wiring canvas.
type Sensor struct {
	ID           int     `yaml:"id" json:"id"`
	Name         string  `yaml:"name" json:"name"`
	Type         string  `yaml:"type" json:"type"`
	TargetID     int     `yaml:"target_id" json:"target_id"`
	SpeciesIndex int     `yaml:"species_index,omitempty" json:"species_index,omitempty"`
	X            float64 `yaml:"x" json:"x"`
	Y            float64 `yaml:"y" json:"y"`
}

// Controller wires exactly one upstream sensor to at most one
// downstream actuator. ActuatorID <= 0 means unwired.
type Controller struct {
	ID         int     `yaml:"id" json:"id"`
	Name       string  `yaml:"name" json:"name"`
	SensorID   int     `yaml:"sensor_id" json:"sensor_id"`
	ActuatorID int     `yaml:"actuator_id,omitempty" json:"actuator_id,omitempty"`
	Setpoint   float64 `yaml:"setpoint" json:"setpoint"`
	Kp         float64 `yaml:"kp" json:"kp"`
	Ki         float64 `yaml:"ki,omitempty" json:"ki,omitempty"`
	Deadband   float64 `yaml:"deadband,omitempty" json:"deadband,omitempty"`
	X          float64 `yaml:"x" json:"x"`
	Y          float64 `yaml:"y" json:"y"`
}

// Actuator applies a controller output to a link.
type Actuator struct {
	ID        int     `yaml:"id" json:"id"`
	Name      string  `yaml:"name" json:"name"`
	Type      string  `yaml:"type" json:"type"`
	LinkIndex int     `yaml:"link_index" json:"link_index"`
	X         float64 `yaml:"x" json:"x"`
	Y         float64 `yaml:"y" json:"y"`
}

// ControlSystem is the canonical control-network record.
type ControlSystem struct {
	Sensors     []Sensor     `yaml:"sensors,omitempty" json:"sensors,omitempty"`
	Controllers []Controller `yaml:"controllers,omitempty" json:"controllers,omitempty"`
	Actuators   []Actuator   `yaml:"actuators,omitempty" json:"actuators,omitempty"`
}

// Empty reports whether the control system has no entities at all.
func (c ControlSystem) Empty() bool {
	return len(c.Sensors) == 0 && len(c.Controllers) == 0 && len(c.Actuators) == 0
}

// AirHandlingSystem is a mechanical supply/return flow bound to zones.
type AirHandlingSystem struct {
	ID             int     `yaml:"id" json:"id"`
	Name           string  `yaml:"name" json:"name"`
	SupplyZoneID   int     `yaml:"supply_zone_id" json:"supply_zone_id"`
	ReturnZoneID   int     `yaml:"return_zone_id" json:"return_zone_id"`
	SupplyFlow     float64 `yaml:"supply_flow" json:"supply_flow"`
	ReturnFlow     float64 `yaml:"return_flow" json:"return_flow"`
	OutdoorAirFlow float64 `yaml:"outdoor_air_flow,omitempty" json:"outdoor_air_flow,omitempty"`
	ExhaustFlow    float64 `yaml:"exhaust_flow,omitempty" json:"exhaust_flow,omitempty"`
	ScheduleID     int     `yaml:"schedule_id,omitempty" json:"schedule_id,omitempty"`
}

// WeatherPoint is one timestamped outdoor condition sample.
type WeatherPoint struct {
	Time          float64 `yaml:"time" json:"time"`
	Temperature   float64 `yaml:"temperature" json:"temperature"`
	Pressure      float64 `yaml:"pressure" json:"pressure"`
	WindSpeed     float64 `yaml:"wind_speed" json:"wind_speed"`
	WindDirection float64 `yaml:"wind_direction" json:"wind_direction"`
}

// TransientConfig enables and configures a time-stepped solve.
type TransientConfig struct {
	Enabled        bool    `yaml:"enabled" json:"enabled"`
	StartTime      float64 `yaml:"start_time" json:"start_time"`
	EndTime        float64 `yaml:"end_time" json:"end_time"`
	TimeStep       float64 `yaml:"time_step" json:"time_step"`
	OutputInterval float64 `yaml:"output_interval" json:"output_interval"`
	AirflowMethod  string  `yaml:"airflow_method,omitempty" json:"airflow_method,omitempty"`
}

// HasEnclosedFace reports whether any story contains a face that forms
// an enclosed region. The compiler falls back to the legacy topology
// only when this is false.
func (p *Project) HasEnclosedFace() bool {
	for _, s := range p.Stories {
		for _, f := range s.Geometry.Faces {
			if len(f.VertexIDs) >= 3 {
				return true
			}
		}
	}
	return false
}
