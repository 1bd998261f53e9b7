package scenario

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/growthsim/internal/config"
	"github.com/san-kum/growthsim/internal/growth"
	"github.com/san-kum/growthsim/internal/sweep"
)

// Scenario defines a scripted set of simulations
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step starts from a preset (baseline when empty) and overrides individual
// parameters by field name.
type Step struct {
	Name   string             `yaml:"name"`
	Preset string             `yaml:"preset"`
	Params map[string]float64 `yaml:"params"`
}

// Result pairs a step with its simulation outcome.
type Result struct {
	Step    Step
	Outcome sweep.Outcome
}

// Load reads a scenario from a YAML file
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", sc.Name)
	}

	return &sc, nil
}

// Params resolves the parameter set of step i.
func (sc *Scenario) Params(i int) (growth.Params, error) {
	step := sc.Steps[i]

	preset := step.Preset
	if preset == "" {
		preset = "baseline"
	}
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return growth.Params{}, fmt.Errorf("step %d: unknown preset: %s", i+1, preset)
	}

	p := cfg.Model
	for _, name := range growth.FieldNames() {
		v, ok := step.Params[name]
		if !ok {
			continue
		}
		var err error
		if p, err = p.With(name, v); err != nil {
			return growth.Params{}, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	for name := range step.Params {
		if _, ok := p.Fields()[name]; !ok {
			return growth.Params{}, fmt.Errorf("step %d: unknown parameter: %s", i+1, name)
		}
	}
	return p, nil
}

// Run resolves every step and simulates them with sweep.Run. A step that
// cannot be resolved fails the whole scenario; a step whose simulation fails
// is reported in its Outcome.
func Run(ctx context.Context, sc *Scenario, workers int) ([]Result, error) {
	sets := make([]growth.Params, len(sc.Steps))
	for i := range sc.Steps {
		p, err := sc.Params(i)
		if err != nil {
			return nil, err
		}
		sets[i] = p
	}

	outcomes, err := sweep.Run(ctx, sets, workers)
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(outcomes))
	for i, o := range outcomes {
		step := sc.Steps[i]
		if step.Name == "" {
			step.Name = fmt.Sprintf("%s_%d", sc.Name, i+1)
		}
		results[i] = Result{Step: step, Outcome: o}
	}
	return results, nil
}
