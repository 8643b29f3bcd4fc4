// Package report renders completed simulation runs in the terminal:
// time-series plots of the sensed value and actuator output, CSV export,
// and the optional per-plant views (internal state history, energy,
// animation) for plants that expose them. The simulation loop never
// depends on any of this; reporting consumes a finished [sim.Result].
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/guptarohit/asciigraph"

	"github.com/eschneider1992/sim-control-projects/internal/plant"
	"github.com/eschneider1992/sim-control-projects/internal/sim"
)

const (
	plotHeight = 10
	plotWidth  = 80
)

// Render writes the run summary and the sensed-value and output plots.
func Render(w io.Writer, res *sim.Result) {
	fmt.Fprintln(w, titleStyle.Render(res.Title))
	fmt.Fprintln(w)

	n := len(res.Timestamps)
	fmt.Fprintf(w, "%s %s    %s %s    %s %s\n\n",
		labelStyle.Render("samples:"), valueStyle.Render(strconv.Itoa(n)),
		labelStyle.Render("setpoint:"), valueStyle.Render(fmt.Sprintf("%.2f", res.Setpoint)),
		labelStyle.Render("final sensed:"), valueStyle.Render(fmt.Sprintf("%.3f", last(res.SensorStates))),
	)

	if n == 0 {
		return
	}

	fmt.Fprintln(w, asciigraph.Plot(res.SensorStates,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(fmt.Sprintf("sensed value (setpoint %.2f)", res.Setpoint)),
	))
	fmt.Fprintln(w)

	fmt.Fprintln(w, asciigraph.Plot(res.Outputs,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption("output"),
	))
	fmt.Fprintln(w)
}

// RenderPlantHooks writes the optional per-plant views. Plants that expose
// neither a state history nor an energy series are silently skipped.
func RenderPlantHooks(w io.Writer, p plant.Plant) {
	if hr, ok := p.(plant.HistoryRecorder); ok {
		h := hr.StateHistory()
		for i, label := range h.Labels {
			if len(h.Series[i]) == 0 {
				continue
			}
			fmt.Fprintln(w, asciigraph.Plot(h.Series[i],
				asciigraph.Height(plotHeight),
				asciigraph.Width(plotWidth),
				asciigraph.Caption(label),
			))
			fmt.Fprintln(w)
		}
	}

	if er, ok := p.(plant.EnergyReporter); ok {
		energy := er.EnergyHistory()
		if len(energy) > 0 {
			fmt.Fprintln(w, asciigraph.Plot(energy,
				asciigraph.Height(plotHeight),
				asciigraph.Width(plotWidth),
				asciigraph.Caption("energy"),
			))
			fmt.Fprintln(w)
		}
	}
}

// RenderEnsemble summarizes a batch of seeded runs: the per-run final
// sensed values and their spread, plus a plot of the first run's trace.
func RenderEnsemble(w io.Writer, results []*sim.Result) {
	if len(results) == 0 {
		return
	}

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s (%d runs)", results[0].Title, len(results))))
	fmt.Fprintln(w)

	finals := make([]float64, len(results))
	lo, hi, sum := math.Inf(1), math.Inf(-1), 0.0
	for i, res := range results {
		finals[i] = last(res.SensorStates)
		lo = math.Min(lo, finals[i])
		hi = math.Max(hi, finals[i])
		sum += finals[i]
		fmt.Fprintf(w, "%s %s\n",
			labelStyle.Render(fmt.Sprintf("run %2d final sensed:", i)),
			valueStyle.Render(fmt.Sprintf("%.3f", finals[i])),
		)
	}
	fmt.Fprintf(w, "\n%s %s    %s %s    %s %s\n\n",
		labelStyle.Render("mean:"), valueStyle.Render(fmt.Sprintf("%.3f", sum/float64(len(finals)))),
		labelStyle.Render("min:"), valueStyle.Render(fmt.Sprintf("%.3f", lo)),
		labelStyle.Render("max:"), valueStyle.Render(fmt.Sprintf("%.3f", hi)),
	)

	if len(results[0].SensorStates) > 0 {
		fmt.Fprintln(w, asciigraph.Plot(results[0].SensorStates,
			asciigraph.Height(plotHeight),
			asciigraph.Width(plotWidth),
			asciigraph.Caption(fmt.Sprintf("run 0 sensed value (setpoint %.2f)", results[0].Setpoint)),
		))
		fmt.Fprintln(w)
	}
}

// WriteCSV exports the four parallel series as rows of
// time,sensor,output,plant.
func WriteCSV(w io.Writer, res *sim.Result) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"time", "sensor", "output", "plant"}); err != nil {
		return err
	}
	for i := range res.Timestamps {
		row := []string{
			strconv.FormatFloat(res.Timestamps[i], 'f', 6, 64),
			strconv.FormatFloat(res.SensorStates[i], 'f', 6, 64),
			strconv.FormatFloat(res.Outputs[i], 'f', 6, 64),
			strconv.FormatFloat(res.PlantStates[i], 'f', 6, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func last(s []float64) float64 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1]
}
