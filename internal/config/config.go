package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/growthsim/internal/growth"
)

const (
	DefaultDataDir  = ".growthsim"
	DefaultLogLevel = "info"
	DefaultWorkers  = 4
)

type Config struct {
	Name   string        `yaml:"name"`
	Model  growth.Params `yaml:"model"`
	Output OutputConfig  `yaml:"output"`
	Sweep  SweepConfig   `yaml:"sweep"`
}

type OutputConfig struct {
	Save      bool `yaml:"save"`
	Breakdown bool `yaml:"breakdown"`
}

type SweepConfig struct {
	Field   string  `yaml:"field"`
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
	Steps   int     `yaml:"steps"`
	Workers int     `yaml:"workers"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:  "custom",
		Model: growth.DefaultParams(),
		Output: OutputConfig{
			Save: true,
		},
		Sweep: SweepConfig{
			Field:   growth.FieldSavings,
			Min:     0.1,
			Max:     0.5,
			Steps:   5,
			Workers: DefaultWorkers,
		},
	}
}

// Load reads a YAML file over DefaultConfig, so omitted keys keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := c.Model.Validate(); err != nil {
		return err
	}
	if c.Sweep.Steps < 0 {
		return fmt.Errorf("sweep steps must be non-negative, got %d", c.Sweep.Steps)
	}
	return nil
}

// Simulator builds a simulator from the model section.
func (c *Config) Simulator() (*growth.Simulator, error) {
	return growth.New(c.Model)
}
