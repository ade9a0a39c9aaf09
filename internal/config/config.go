package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt      = 0.1
	DefaultSteps   = 100
	DefaultProfile = "urban_lake"
	DefaultTracer  = "dissolved_oxygen"
)

// Config is a runnable simulation configuration: which environment profile
// to load and how to step it.
type Config struct {
	Profile string  `yaml:"profile"`
	Lesson  string  `yaml:"lesson"`
	Dt      float64 `yaml:"dt"`
	Steps   int     `yaml:"steps"`
	Tracer  string  `yaml:"tracer"`

	// Optional overrides applied on top of the profile.
	MeanDepth     float64 `yaml:"mean_depth,omitempty"`
	EddyViscosity float64 `yaml:"eddy_viscosity,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Profile: DefaultProfile,
		Dt:      DefaultDt,
		Steps:   DefaultSteps,
		Tracer:  DefaultTracer,
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

// ApplyOverrides returns a copy of p with the config's physics overrides
// applied. Zero-valued overrides leave the profile untouched.
func (c *Config) ApplyOverrides(p *Profile) *Profile {
	if p == nil {
		return nil
	}
	out := *p
	if c.MeanDepth > 0 {
		out.MeanDepth = c.MeanDepth
	}
	if c.EddyViscosity > 0 {
		out.EddyViscosity = c.EddyViscosity
	}
	return &out
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
