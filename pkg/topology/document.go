package topology

import (
	"encoding/json"
	"fmt"

	"github.com/darkenness/airnet/pkg/element"
)

// NodeType distinguishes the fixed outdoor node from solved zone nodes.
type NodeType string

const (
	NodeAmbient NodeType = "ambient"
	NodeNormal  NodeType = "normal"
)

// AmbientNodeID is the reserved id of the single outdoor-air node.
const AmbientNodeID = 0

// Ambient holds the outdoor conditions for the whole model.
type Ambient struct {
	Temperature   float64 `json:"temperature"`
	Pressure      float64 `json:"pressure"`
	WindSpeed     float64 `json:"windSpeed"`
	WindDirection float64 `json:"windDirection"`
}

// Node is one pressure node of the simulation network.
type Node struct {
	ID                    int             `json:"id"`
	Name                  string          `json:"name"`
	Type                  NodeType        `json:"type"`
	Temperature           float64         `json:"temperature"`
	Elevation             float64         `json:"elevation"`
	Volume                float64         `json:"volume"`
	Pressure              float64         `json:"pressure"`
	InitialConcentrations map[int]float64 `json:"initialConcentrations,omitempty"`
}

// Link connects two nodes through one flow element.
type Link struct {
	ID        int
	From      int
	To        int
	Elevation float64
	Element   element.Element
}

type linkWire struct {
	ID        int             `json:"id"`
	From      int             `json:"from"`
	To        int             `json:"to"`
	Elevation float64         `json:"elevation"`
	Element   json.RawMessage `json:"element"`
}

// MarshalJSON writes the link with its element as a tagged object.
func (l Link) MarshalJSON() ([]byte, error) {
	var raw json.RawMessage
	if l.Element != nil {
		b, err := element.Marshal(l.Element)
		if err != nil {
			return nil, fmt.Errorf("link %d: %w", l.ID, err)
		}
		raw = b
	}
	return json.Marshal(linkWire{
		ID:        l.ID,
		From:      l.From,
		To:        l.To,
		Elevation: l.Elevation,
		Element:   raw,
	})
}

// UnmarshalJSON reads a link, resolving the tagged element back into
// its concrete variant. A missing element is kept as nil so the
// structural validator can report it instead of the parser failing.
func (l *Link) UnmarshalJSON(data []byte) error {
	var w linkWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	l.ID = w.ID
	l.From = w.From
	l.To = w.To
	l.Elevation = w.Elevation
	l.Element = nil
	if len(w.Element) > 0 && string(w.Element) != "null" {
		e, err := element.Unmarshal(w.Element)
		if err != nil {
			return fmt.Errorf("link %d: %w", w.ID, err)
		}
		l.Element = e
	}
	return nil
}

// Species is one contaminant tracked by the transient solve.
type Species struct {
	ID                   int     `json:"id"`
	Name                 string  `json:"name"`
	MolarMass            float64 `json:"molarMass"`
	DecayRate            float64 `json:"decayRate,omitempty"`
	OutdoorConcentration float64 `json:"outdoorConcentration,omitempty"`
	IsTrace              bool    `json:"isTrace"`
}

// Source generates or removes contaminant mass in a zone.
type Source struct {
	ZoneID            int     `json:"zoneId"`
	SpeciesID         int     `json:"speciesId"`
	Type              string  `json:"sourceType,omitempty"`
	GenerationRate    float64 `json:"generationRate,omitempty"`
	RemovalRate       float64 `json:"removalRate,omitempty"`
	ScheduleID        int     `json:"scheduleId,omitempty"`
	DecayTimeConstant float64 `json:"decayTimeConstant,omitempty"`
	StartTime         float64 `json:"startTime,omitempty"`
	Multiplier        float64 `json:"multiplier,omitempty"`
	PressureCoeff     float64 `json:"pressureCoeff,omitempty"`
	CutoffConc        float64 `json:"cutoffConcentration,omitempty"`
}

// SchedulePoint is one (time, value) breakpoint of a schedule.
type SchedulePoint struct {
	Time  float64 `json:"time"`
	Value float64 `json:"value"`
}

// Schedule scales sources and systems over time.
type Schedule struct {
	ID     int             `json:"id"`
	Name   string          `json:"name"`
	Points []SchedulePoint `json:"points"`
}

// Occupant is a person moving between zones for exposure tracking.
type Occupant struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	BreathingRate float64 `json:"breathingRate"`
	ZoneSchedule  []struct {
		Time   float64 `json:"time"`
		ZoneID int     `json:"zoneId"`
	} `json:"zoneSchedule,omitempty"`
}

// Sensor reads a value from a node or link for the control network.
type Sensor struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"sensorType"`
	TargetID     int    `json:"targetId"`
	SpeciesIndex int    `json:"speciesIndex,omitempty"`
}

// Controller is an incremental PI controller wiring one sensor to at
// most one actuator.
type Controller struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	SensorID   int     `json:"sensorId"`
	ActuatorID int     `json:"actuatorId,omitempty"`
	Setpoint   float64 `json:"setpoint"`
	Kp         float64 `json:"Kp"`
	Ki         float64 `json:"Ki"`
	Deadband   float64 `json:"deadband,omitempty"`
}

// Actuator applies a controller output to a link element.
type Actuator struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"actuatorType"`
	LinkIndex int    `json:"linkIndex"`
}

// Controls is the control-network section of a document.
type Controls struct {
	Sensors     []Sensor     `json:"sensors,omitempty"`
	Controllers []Controller `json:"controllers,omitempty"`
	Actuators   []Actuator   `json:"actuators,omitempty"`
}

// Transient configures a time-stepped solve.
type Transient struct {
	StartTime      float64 `json:"startTime"`
	EndTime        float64 `json:"endTime"`
	TimeStep       float64 `json:"timeStep"`
	OutputInterval float64 `json:"outputInterval"`
	AirflowMethod  string  `json:"airflowMethod,omitempty"`
}

// WeatherPoint is one timestamped outdoor condition sample.
type WeatherPoint struct {
	Time          float64 `json:"time"`
	Temperature   float64 `json:"temperature"`
	Pressure      float64 `json:"pressure"`
	WindSpeed     float64 `json:"windSpeed"`
	WindDirection float64 `json:"windDirection"`
}

// Weather is a time series of outdoor conditions for transient runs.
type Weather struct {
	Points []WeatherPoint `json:"points"`
}

// AHS is an air-handling system binding mechanical flows to zones.
type AHS struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	SupplyZoneID   int     `json:"supplyZoneId"`
	ReturnZoneID   int     `json:"returnZoneId"`
	SupplyFlow     float64 `json:"supplyFlow"`
	ReturnFlow     float64 `json:"returnFlow"`
	OutdoorAirFlow float64 `json:"outdoorAirFlow"`
	ExhaustFlow    float64 `json:"exhaustFlow"`
	ScheduleID     int     `json:"scheduleId,omitempty"`
}

// Document is the complete topology handed to the solver boundary.
// Optional sections are omitted entirely when empty rather than being
// emitted as empty arrays.
type Document struct {
	Description string     `json:"description,omitempty"`
	Ambient     Ambient    `json:"ambient"`
	Nodes       []Node     `json:"nodes"`
	Links       []Link     `json:"links"`
	Species     []Species  `json:"species,omitempty"`
	Sources     []Source   `json:"sources,omitempty"`
	Schedules   []Schedule `json:"schedules,omitempty"`
	Occupants   []Occupant `json:"occupants,omitempty"`
	Controls    *Controls  `json:"controls,omitempty"`
	Transient   *Transient `json:"transient,omitempty"`
	Weather     *Weather   `json:"weather,omitempty"`
	AHSSystems  []AHS      `json:"ahsSystems,omitempty"`
}

// Encode serializes the document for the solver boundary.
func (d *Document) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding topology document: %w", err)
	}
	return data, nil
}

// Parse reads a serialized topology document, as produced by Encode or
// loaded from a saved file.
func Parse(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing topology document: %w", err)
	}
	return &d, nil
}
