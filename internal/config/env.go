package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds settings read from the environment. CLI flags override them.
type Env struct {
	DataDir  string `env:"GROWTHSIM_DATA_DIR" envDefault:".growthsim"`
	LogLevel string `env:"GROWTHSIM_LOG_LEVEL" envDefault:"info"`
	Workers  int    `env:"GROWTHSIM_WORKERS" envDefault:"4"`
}

func LoadEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}
