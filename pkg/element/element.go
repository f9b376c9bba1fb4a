package element

// Kind identifies a flow-element variant. The names match the element
// types the engine accepts in topology documents.
type Kind string

const (
	KindTwoWayFlow         Kind = "TwoWayFlow"
	KindPowerLawOrifice    Kind = "PowerLawOrifice"
	KindFan                Kind = "Fan"
	KindDuct               Kind = "Duct"
	KindDamper             Kind = "Damper"
	KindFilter             Kind = "Filter"
	KindSelfRegulatingVent Kind = "SelfRegulatingVent"
	KindCheckValve         Kind = "CheckValve"
)

// Element is one fully-resolved flow-element parameter set. Exactly one
// concrete struct exists per Kind; a link carries exactly one Element.
type Element interface {
	Kind() Kind
}

// TwoWayFlow models a large opening (door, doorway) where air can move
// in both directions across a vertical temperature gradient.
type TwoWayFlow struct {
	Cd     float64 `json:"Cd"`
	Area   float64 `json:"area"`
	Height float64 `json:"height"`
}

func (TwoWayFlow) Kind() Kind { return KindTwoWayFlow }

// PowerLawOrifice models a small opening or crack with the power-law
// relation Q = C * dP^n.
type PowerLawOrifice struct {
	C float64 `json:"C"`
	N float64 `json:"n"`
}

func (PowerLawOrifice) Kind() Kind { return KindPowerLawOrifice }

// Fan is a linear fan curve from MaxFlow at zero pressure rise to zero
// flow at ShutoffPressure.
type Fan struct {
	MaxFlow         float64 `json:"maxFlow"`
	ShutoffPressure float64 `json:"shutoffPressure"`
}

func (Fan) Kind() Kind { return KindFan }

// Duct is a circular duct segment with Darcy friction and lumped
// fitting losses.
type Duct struct {
	Length    float64 `json:"length"`
	Diameter  float64 `json:"diameter"`
	Roughness float64 `json:"roughness"`
	SumK      float64 `json:"sumK"`
}

func (Duct) Kind() Kind { return KindDuct }

// Damper is a power-law element with a position fraction scaling its
// effective coefficient from 0 (closed) to 1 (fully open).
type Damper struct {
	Cmax     float64 `json:"Cmax"`
	N        float64 `json:"n"`
	Fraction float64 `json:"fraction"`
}

func (Damper) Kind() Kind { return KindDamper }

// Filter is a power-law element that removes a fraction of contaminant
// mass from the air passing through it.
type Filter struct {
	C          float64 `json:"C"`
	N          float64 `json:"n"`
	Efficiency float64 `json:"efficiency"`
}

func (Filter) Kind() Kind { return KindFilter }

// SelfRegulatingVent holds a target volumetric flow across a band of
// pressure differences.
type SelfRegulatingVent struct {
	TargetFlow  float64 `json:"targetFlow"`
	MinPressure float64 `json:"minPressure"`
	MaxPressure float64 `json:"maxPressure"`
}

func (SelfRegulatingVent) Kind() Kind { return KindSelfRegulatingVent }

// CheckValve passes flow in one direction once the pressure difference
// exceeds its opening pressure.
type CheckValve struct {
	C               float64 `json:"C"`
	N               float64 `json:"n"`
	OpeningPressure float64 `json:"openingPressure"`
}

func (CheckValve) Kind() Kind { return KindCheckValve }
