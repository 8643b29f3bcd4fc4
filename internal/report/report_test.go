package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/eschneider1992/sim-control-projects/internal/plant"
	"github.com/eschneider1992/sim-control-projects/internal/sim"
)

func sampleResult() *sim.Result {
	return &sim.Result{
		Title:        "Kettle PID simulation, 15.0s delay, 5.0s sampletime",
		Setpoint:     45.0,
		Timestamps:   []float64{5, 10, 15},
		SensorStates: []float64{40.0, 40.1, 40.3},
		Outputs:      []float64{0, 100, 100},
		PlantStates:  []float64{40.1, 40.3, 40.6},
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, sampleResult())

	out := buf.String()
	for _, want := range []string{"Kettle PID simulation", "samples:", "3", "setpoint:", "45.00", "output"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestRenderEmptyResult(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, &sim.Result{Title: "empty run"})

	if !strings.Contains(buf.String(), "empty run") {
		t.Error("empty result should still print its title")
	}
}

func TestRenderEnsemble(t *testing.T) {
	second := sampleResult()
	second.SensorStates = []float64{40.0, 40.2, 40.7}

	var buf bytes.Buffer
	RenderEnsemble(&buf, []*sim.Result{sampleResult(), second})

	out := buf.String()
	for _, want := range []string{"(2 runs)", "run  0 final sensed:", "40.300", "40.700", "mean:", "40.500", "min:", "max:"} {
		if !strings.Contains(out, want) {
			t.Errorf("ensemble report missing %q", want)
		}
	}
}

func TestRenderEnsembleEmpty(t *testing.T) {
	var buf bytes.Buffer
	RenderEnsemble(&buf, nil)
	if buf.Len() != 0 {
		t.Errorf("expected no output for empty ensemble, got %q", buf.String())
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleResult()); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header + 3 rows", len(lines))
	}
	if lines[0] != "time,sensor,output,plant" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "5.000000,40.000000,0.000000,") {
		t.Errorf("unexpected first row %q", lines[1])
	}
}

func TestRenderPlantHooksSkipsBarePlant(t *testing.T) {
	reg := plant.NewRegistry()
	kettle, err := reg.Create("Kettle", nil, nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	var buf bytes.Buffer
	RenderPlantHooks(&buf, kettle)

	if buf.Len() != 0 {
		t.Errorf("kettle has no optional hooks, expected no output, got %q", buf.String())
	}
}

func TestRenderPlantHooksPendulum(t *testing.T) {
	reg := plant.NewRegistry()
	p, err := reg.Create("InvertedPendulum", map[string]float64{"theta0": 0.2}, nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	for i := 0; i < 20; i++ {
		p.Update(0, 0.01)
	}

	var buf bytes.Buffer
	RenderPlantHooks(&buf, p)

	out := buf.String()
	for _, want := range []string{"theta", "x_dot", "energy"} {
		if !strings.Contains(out, want) {
			t.Errorf("plant hook output missing %q", want)
		}
	}
}

func TestAnimateSkipsBarePlant(t *testing.T) {
	reg := plant.NewRegistry()
	kettle, err := reg.Create("Kettle", nil, nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// No Animator capability, so this must return without starting a
	// program.
	if err := Animate(kettle, "title", 5.0); err != nil {
		t.Errorf("Animate on a bare plant: %v", err)
	}
}
