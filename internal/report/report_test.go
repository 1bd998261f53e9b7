package report

import (
	"errors"
	"strings"
	"testing"

	"github.com/san-kum/growthsim/internal/growth"
	"github.com/san-kum/growthsim/internal/sweep"
)

func TestRenderIncludesSteadyStateAndMetrics(t *testing.T) {
	out := Render(Summary{
		ID:          "baseline_1",
		Name:        "baseline",
		Params:      growth.DefaultParams(),
		Path:        growth.Path{50, 260.13},
		SteadyState: 183673.469,
		Metrics:     map[string]float64{"monotonic": 1, "final_gap": 0.5},
	})

	for _, want := range []string{"baseline (baseline_1)", "steady state", "183673", "final capital", "260.13", "final_gap", "monotonic"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "final_gap") > strings.Index(out, "monotonic") {
		t.Error("metrics should be sorted by name")
	}
}

func TestRenderSteadyStateError(t *testing.T) {
	out := Render(Summary{
		Name:           "custom",
		Params:         growth.DefaultParams(),
		SteadyStateErr: errors.New("growth: steady state undefined: capital share must be below 1"),
	})
	if !strings.Contains(out, "capital share must be below 1") {
		t.Errorf("Render() should show the steady-state error:\n%s", out)
	}
}

func TestTable(t *testing.T) {
	outcomes := []sweep.Outcome{
		{
			Params:      growth.DefaultParams(),
			Path:        growth.Path{50, 100},
			SteadyState: 183673.469,
			Metrics:     map[string]float64{"final_gap": 0.9, "half_life": -1},
		},
		{
			Params: growth.DefaultParams(),
			Err:    errors.New("growth: parameter out of valid bounds"),
		},
		{
			Params:         growth.DefaultParams(),
			Path:           growth.Path{50, 60},
			SteadyStateErr: errors.New("undefined"),
		},
	}

	out := Table(growth.FieldSavings, outcomes)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2+len(outcomes) {
		t.Fatalf("expected %d lines, got %d:\n%s", 2+len(outcomes), len(lines), out)
	}
	if !strings.Contains(lines[0], "savings") {
		t.Errorf("header should name the swept field: %q", lines[0])
	}
	if !strings.Contains(lines[2], "0.9000") {
		t.Errorf("first row missing final_gap: %q", lines[2])
	}
	if !strings.Contains(lines[3], "out of valid bounds") {
		t.Errorf("second row should show the error: %q", lines[3])
	}
	if !strings.Contains(lines[4], "undefined") {
		t.Errorf("third row should mark the steady state undefined: %q", lines[4])
	}
}
