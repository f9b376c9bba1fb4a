package engine

import (
	"encoding/json"
	"fmt"
)

// SolverInfo reports convergence of a steady-state solve.
type SolverInfo struct {
	Converged   bool    `json:"converged"`
	Iterations  int     `json:"iterations"`
	MaxResidual float64 `json:"maxResidual"`
}

// NodeResult is one node's steady-state solution.
type NodeResult struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Pressure    float64 `json:"pressure"`
	Density     float64 `json:"density"`
	Temperature float64 `json:"temperature"`
	Elevation   float64 `json:"elevation"`
}

// LinkResult is one link's steady-state solution.
type LinkResult struct {
	ID         int     `json:"id"`
	From       int     `json:"from"`
	To         int     `json:"to"`
	MassFlow   float64 `json:"massFlow"`
	VolumeFlow float64 `json:"volumeFlow_m3s"`
}

// SteadyResult is a single steady-state solution.
type SteadyResult struct {
	Solver SolverInfo   `json:"solver"`
	Nodes  []NodeResult `json:"nodes"`
	Links  []LinkResult `json:"links"`
}

// SpeciesInfo identifies a species in a transient result.
type SpeciesInfo struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	MolarMass float64 `json:"molarMass"`
}

// TransientNode identifies a node in a transient result.
type TransientNode struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// AirflowStep is the airflow solution at one output step.
type AirflowStep struct {
	Converged  bool      `json:"converged"`
	Iterations int       `json:"iterations"`
	Pressures  []float64 `json:"pressures"`
	MassFlows  []float64 `json:"massFlows"`
}

// TimeStep is one output step of a transient run. Concentrations are
// indexed [node][species] over the result's node list.
type TimeStep struct {
	Time           float64     `json:"time"`
	Airflow        AirflowStep `json:"airflow"`
	Concentrations [][]float64 `json:"concentrations,omitempty"`
}

// TransientResult is a time-stepped solution.
type TransientResult struct {
	Completed  bool            `json:"completed"`
	TotalSteps int             `json:"totalSteps"`
	Species    []SpeciesInfo   `json:"species"`
	Nodes      []TransientNode `json:"nodes"`
	TimeSeries []TimeStep      `json:"timeSeries"`
}

// Result is a parsed solver output: exactly one of Steady or Transient
// is set.
type Result struct {
	Steady    *SteadyResult
	Transient *TransientResult
}

// ParseResult reads a serialized result document. The shape is
// disambiguated solely by the presence of the timeSeries field.
func ParseResult(data []byte) (*Result, error) {
	var probe struct {
		TimeSeries json.RawMessage `json:"timeSeries"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parsing solver result: %w", err)
	}

	if probe.TimeSeries != nil {
		var tr TransientResult
		if err := json.Unmarshal(data, &tr); err != nil {
			return nil, fmt.Errorf("parsing transient result: %w", err)
		}
		return &Result{Transient: &tr}, nil
	}

	var sr SteadyResult
	if err := json.Unmarshal(data, &sr); err != nil {
		return nil, fmt.Errorf("parsing steady result: %w", err)
	}
	return &Result{Steady: &sr}, nil
}
