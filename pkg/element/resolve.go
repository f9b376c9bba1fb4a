package element

// ComponentType identifies what kind of component a placement binds to
// a wall edge.
type ComponentType string

const (
	ComponentDoor       ComponentType = "door"
	ComponentWindow     ComponentType = "window"
	ComponentOpening    ComponentType = "opening"
	ComponentFan        ComponentType = "fan"
	ComponentDuct       ComponentType = "duct"
	ComponentDamper     ComponentType = "damper"
	ComponentFilter     ComponentType = "filter"
	ComponentCrack      ComponentType = "crack"
	ComponentVent       ComponentType = "vent"
	ComponentCheckValve ComponentType = "check_valve"
)

// KnownComponent reports whether t is one of the recognized component
// types. Unrecognized types still resolve (to the power-law fallback);
// this exists so the validator can flag them.
func KnownComponent(t ComponentType) bool {
	switch t {
	case ComponentDoor, ComponentWindow, ComponentOpening, ComponentFan,
		ComponentDuct, ComponentDamper, ComponentFilter, ComponentCrack,
		ComponentVent, ComponentCheckValve:
		return true
	}
	return false
}

// Overrides holds the per-type parameter overrides a user may set on a
// placement. A nil field means "use the type default".
type Overrides struct {
	DischargeCoeff  *float64 `yaml:"discharge_coeff,omitempty" json:"dischargeCoeff,omitempty"`
	Area            *float64 `yaml:"area,omitempty" json:"area,omitempty"`
	Height          *float64 `yaml:"height,omitempty" json:"height,omitempty"`
	FlowCoeff       *float64 `yaml:"flow_coeff,omitempty" json:"flowCoeff,omitempty"`
	FlowExponent    *float64 `yaml:"flow_exponent,omitempty" json:"flowExponent,omitempty"`
	MaxFlow         *float64 `yaml:"max_flow,omitempty" json:"maxFlow,omitempty"`
	ShutoffPressure *float64 `yaml:"shutoff_pressure,omitempty" json:"shutoffPressure,omitempty"`
	Length          *float64 `yaml:"length,omitempty" json:"length,omitempty"`
	Diameter        *float64 `yaml:"diameter,omitempty" json:"diameter,omitempty"`
	Roughness       *float64 `yaml:"roughness,omitempty" json:"roughness,omitempty"`
	SumK            *float64 `yaml:"sum_k,omitempty" json:"sumK,omitempty"`
	Fraction        *float64 `yaml:"fraction,omitempty" json:"fraction,omitempty"`
	Efficiency      *float64 `yaml:"efficiency,omitempty" json:"efficiency,omitempty"`
	TargetFlow      *float64 `yaml:"target_flow,omitempty" json:"targetFlow,omitempty"`
	MinPressure     *float64 `yaml:"min_pressure,omitempty" json:"minPressure,omitempty"`
	MaxPressure     *float64 `yaml:"max_pressure,omitempty" json:"maxPressure,omitempty"`
	OpeningPressure *float64 `yaml:"opening_pressure,omitempty" json:"openingPressure,omitempty"`
}

// Default parameter constants per component type.
const (
	DefaultDischargeCoeff = 0.65
	DefaultDoorArea       = 1.8
	DefaultOpeningArea    = 0.5
	DefaultOpeningHeight  = 2.0

	DefaultWindowFlowCoeff = 1e-3
	DefaultCrackFlowCoeff  = 1e-4
	DefaultFlowExponent    = 0.65

	DefaultFanMaxFlow         = 1.0
	DefaultFanShutoffPressure = 300.0

	DefaultDuctLength    = 1.0
	DefaultDuctDiameter  = 0.3
	DefaultDuctRoughness = 1e-4

	DefaultDamperCmax     = 1e-2
	DefaultDamperFraction = 1.0

	DefaultFilterFlowCoeff  = 1e-2
	DefaultFilterEfficiency = 0.9

	DefaultVentTargetFlow  = 0.01
	DefaultVentMinPressure = 1.0
	DefaultVentMaxPressure = 50.0

	DefaultCheckValveFlowCoeff       = 1e-3
	DefaultCheckValveOpeningPressure = 5.0
)

// Resolve maps a placement's component type and user overrides to a
// complete flow-element definition. Every field resolves as explicit
// override first, type default second. An unrecognized component type
// resolves to the power-law fallback rather than failing.
func Resolve(t ComponentType, ov Overrides) Element {
	switch t {
	case ComponentDoor:
		return TwoWayFlow{
			Cd:     pick(ov.DischargeCoeff, DefaultDischargeCoeff),
			Area:   pick(ov.Area, DefaultDoorArea),
			Height: pick(ov.Height, DefaultOpeningHeight),
		}
	case ComponentOpening:
		return TwoWayFlow{
			Cd:     pick(ov.DischargeCoeff, DefaultDischargeCoeff),
			Area:   pick(ov.Area, DefaultOpeningArea),
			Height: pick(ov.Height, DefaultOpeningHeight),
		}
	case ComponentWindow:
		return PowerLawOrifice{
			C: pick(ov.FlowCoeff, DefaultWindowFlowCoeff),
			N: pick(ov.FlowExponent, DefaultFlowExponent),
		}
	case ComponentCrack:
		return PowerLawOrifice{
			C: pick(ov.FlowCoeff, DefaultCrackFlowCoeff),
			N: pick(ov.FlowExponent, DefaultFlowExponent),
		}
	case ComponentFan:
		return Fan{
			MaxFlow:         pick(ov.MaxFlow, DefaultFanMaxFlow),
			ShutoffPressure: pick(ov.ShutoffPressure, DefaultFanShutoffPressure),
		}
	case ComponentDuct:
		return Duct{
			Length:    pick(ov.Length, DefaultDuctLength),
			Diameter:  pick(ov.Diameter, DefaultDuctDiameter),
			Roughness: pick(ov.Roughness, DefaultDuctRoughness),
			SumK:      pick(ov.SumK, 0),
		}
	case ComponentDamper:
		return Damper{
			Cmax:     pick(ov.FlowCoeff, DefaultDamperCmax),
			N:        pick(ov.FlowExponent, DefaultFlowExponent),
			Fraction: pick(ov.Fraction, DefaultDamperFraction),
		}
	case ComponentFilter:
		return Filter{
			C:          pick(ov.FlowCoeff, DefaultFilterFlowCoeff),
			N:          pick(ov.FlowExponent, DefaultFlowExponent),
			Efficiency: pick(ov.Efficiency, DefaultFilterEfficiency),
		}
	case ComponentVent:
		return SelfRegulatingVent{
			TargetFlow:  pick(ov.TargetFlow, DefaultVentTargetFlow),
			MinPressure: pick(ov.MinPressure, DefaultVentMinPressure),
			MaxPressure: pick(ov.MaxPressure, DefaultVentMaxPressure),
		}
	case ComponentCheckValve:
		return CheckValve{
			C:               pick(ov.FlowCoeff, DefaultCheckValveFlowCoeff),
			N:               pick(ov.FlowExponent, DefaultFlowExponent),
			OpeningPressure: pick(ov.OpeningPressure, DefaultCheckValveOpeningPressure),
		}
	default:
		// Safe fallback for unknown component types.
		return PowerLawOrifice{
			C: pick(ov.FlowCoeff, DefaultWindowFlowCoeff),
			N: pick(ov.FlowExponent, DefaultFlowExponent),
		}
	}
}

func pick(override *float64, def float64) float64 {
	if override != nil {
		return *override
	}
	return def
}
