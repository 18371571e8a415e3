package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultStepSize  = 60.0
	DefaultMaxSteps  = 256
	DefaultTimeScale = 86400.0
	DefaultSoftening = 1.0e5
	DefaultMaxRealDt = 0.25
)

type Config struct {
	Scenario  string     `yaml:"scenario"`
	Bodies    []BodySpec `yaml:"bodies,omitempty"`
	Workers   int        `yaml:"workers"`
	StepSize  float64    `yaml:"step_size"`
	MaxSteps  int        `yaml:"max_steps_per_frame"`
	Softening float64    `yaml:"softening"`
	TimeScale float64    `yaml:"time_scale"`
	MaxRealDt float64    `yaml:"max_real_dt"`
}

// BodySpec describes one body. A body with a Parent is placed Separation
// meters from it along +X and put on a circular orbit about it; bodies
// without a Parent start at the origin, at rest.
type BodySpec struct {
	Name       string  `yaml:"name"`
	Mass       float64 `yaml:"mass"`
	Radius     float64 `yaml:"radius,omitempty"`
	Density    float64 `yaml:"density,omitempty"`
	Color      string  `yaml:"color,omitempty"`
	Parent     string  `yaml:"parent,omitempty"`
	Separation float64 `yaml:"separation,omitempty"`
	Retrograde bool    `yaml:"retrograde,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario:  "solar",
		Workers:   0, // auto
		StepSize:  DefaultStepSize,
		MaxSteps:  DefaultMaxSteps,
		Softening: DefaultSoftening,
		TimeScale: DefaultTimeScale,
		MaxRealDt: DefaultMaxRealDt,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
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
