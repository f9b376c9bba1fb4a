// Package export renders solver results as CSV for spreadsheets. The
// CSV view is derived from the result document, never authoritative.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/darkenness/airnet/pkg/engine"
)

// WriteSteadyCSV writes a steady-state result as two sections: node
// results then link results.
func WriteSteadyCSV(w io.Writer, res *engine.SteadyResult) error {
	if res == nil {
		return fmt.Errorf("no steady result to export")
	}

	if _, err := fmt.Fprintln(w, "# Node Results"); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ID", "Name", "Pressure(Pa)", "Density(kg/m³)", "Temperature(K)", "Elevation(m)"}); err != nil {
		return err
	}
	for _, n := range res.Nodes {
		rec := []string{
			strconv.Itoa(n.ID),
			n.Name,
			num(n.Pressure),
			num(n.Density),
			num(n.Temperature),
			num(n.Elevation),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "# Link Results"); err != nil {
		return err
	}
	cw = csv.NewWriter(w)
	if err := cw.Write([]string{"ID", "From", "To", "MassFlow(kg/s)", "VolumeFlow(m³/s)"}); err != nil {
		return err
	}
	for _, l := range res.Links {
		rec := []string{
			strconv.Itoa(l.ID),
			strconv.Itoa(l.From),
			strconv.Itoa(l.To),
			num(l.MassFlow),
			num(l.VolumeFlow),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTransientCSV writes a transient result as one wide table: a
// time column, one pressure column per non-ambient node, then one
// concentration column per (node, species) pair in scientific
// notation.
func WriteTransientCSV(w io.Writer, res *engine.TransientResult) error {
	if res == nil {
		return fmt.Errorf("no transient result to export")
	}

	cw := csv.NewWriter(w)

	header := []string{"Time(s)"}
	var zoneIdx []int
	for i, n := range res.Nodes {
		if n.Type == "ambient" {
			continue
		}
		zoneIdx = append(zoneIdx, i)
		header = append(header, fmt.Sprintf("P_%s(Pa)", n.Name))
	}
	for _, i := range zoneIdx {
		for _, sp := range res.Species {
			header = append(header, fmt.Sprintf("C_%s_%s(kg/m³)", res.Nodes[i].Name, sp.Name))
		}
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, step := range res.TimeSeries {
		rec := []string{num(step.Time)}
		for _, i := range zoneIdx {
			p := 0.0
			if i < len(step.Airflow.Pressures) {
				p = step.Airflow.Pressures[i]
			}
			rec = append(rec, num(p))
		}
		for _, i := range zoneIdx {
			for si := range res.Species {
				c := 0.0
				if i < len(step.Concentrations) && si < len(step.Concentrations[i]) {
					c = step.Concentrations[i][si]
				}
				rec = append(rec, fmt.Sprintf("%e", c))
			}
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
