package config

import (
	"math"
	"sort"

	"github.com/san-kum/growthsim/internal/growth"
)

var Presets = map[string]*Config{
	"baseline": {
		Name:  "baseline",
		Model: growth.DefaultParams(),
	},
	"high_savings": {
		Name:  "high_savings",
		Model: modify(func(p *growth.Params) { p.Savings = 0.45 }),
	},
	"low_savings": {
		Name:  "low_savings",
		Model: modify(func(p *growth.Params) { p.Savings = 0.1 }),
	},
	"fast_depreciation": {
		Name:  "fast_depreciation",
		Model: modify(func(p *growth.Params) { p.Depreciation = 0.15 }),
	},
	"at_steady_state": {
		Name: "at_steady_state",
		Model: modify(func(p *growth.Params) {
			p.InitialCapital = math.Pow(p.Savings*p.Labor/p.EffectiveDepreciation(), 1/(1-p.CapitalShare))
		}),
	},
	"empty_economy": {
		Name:  "empty_economy",
		Model: modify(func(p *growth.Params) { p.InitialCapital = 0 }),
	},
	"long_run": {
		Name:  "long_run",
		Model: modify(func(p *growth.Params) { p.Periods = 500 }),
	},
}

func modify(fn func(*growth.Params)) growth.Params {
	p := growth.DefaultParams()
	fn(&p)
	return p
}

// GetPreset returns a copy of the named preset with default output and sweep
// settings, or nil if it does not exist.
func GetPreset(name string) *Config {
	preset, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Name = preset.Name
	cfg.Model = preset.Model
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
