// Package config loads and validates the YAML configuration for a
// fluidmind run: the port to serve on, the physics constants the
// kernel uses (ore pressure threshold included), and the salinity and
// turbulence scalars. The commands in cmd/fluidmind pass only the port
// and Constants() on to the simulation; Salinity and Turbulence are
// validated and logged but not applied, so the loop's fluid starts at
// zero salinity and zero turbulence. Load layers a YAML file over
// DefaultConfig so a file needs only the overrides it cares about;
// named presets are complete configurations.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/fluidmind/internal/physics"
)

const (
	DefaultPort          = 3000
	DefaultSalinity      = 0.0
	DefaultTurbulence    = 0.0
	DefaultOrePressureThreshold = 10.0
)

// Config is the top-level run configuration. Constants mirrors
// physics.Constants field-for-field so operators can override any
// tunable in YAML without the package exposing physics internals to
// the CLI flag layer.
type Config struct {
	Port              int               `yaml:"port"`
	Salinity          float64           `yaml:"salinity"`
	Turbulence        float64           `yaml:"turbulence"`
	PressureThreshold float64           `yaml:"pressure_threshold"`
	Tuning            ConstantsConfig   `yaml:"constants"`
}

// ConstantsConfig is the YAML-facing mirror of physics.Constants.
type ConstantsConfig struct {
	KThermal float64 `yaml:"k_thermal"`
	KS       float64 `yaml:"k_s"`
	CD       float64 `yaml:"c_d"`
	EpsilonV float64 `yaml:"epsilon_v"`
	EBreak   float64 `yaml:"e_break"`
	KInt     float64 `yaml:"k_int"`
	KA       float64 `yaml:"k_a"`
	Sigma    float64 `yaml:"sigma"`
	Eps      float64 `yaml:"eps"`
	RCut     float64 `yaml:"r_cut"`
}

// DefaultConfig returns the run configuration matching spec.md §4/§9's
// concrete physics defaults.
func DefaultConfig() *Config {
	c := physics.DefaultConstants()
	return &Config{
		Port:              DefaultPort,
		Salinity:          DefaultSalinity,
		Turbulence:        DefaultTurbulence,
		PressureThreshold: DefaultOrePressureThreshold,
		Tuning:            constantsToConfig(c),
	}
}

// Constants converts the YAML-facing Tuning block back into the
// physics.Constants the kernel consumes, filling in the timers and
// thresholds that are fixed by spec rather than operator-tunable.
func (c *Config) Constants() physics.Constants {
	pc := physics.DefaultConstants()
	pc.KThermal = c.Tuning.KThermal
	pc.KS = c.Tuning.KS
	pc.CD = c.Tuning.CD
	pc.EpsilonV = c.Tuning.EpsilonV
	pc.EBreak = c.Tuning.EBreak
	pc.KInt = c.Tuning.KInt
	pc.KA = c.Tuning.KA
	pc.Sigma = c.Tuning.Sigma
	pc.Eps = c.Tuning.Eps
	pc.RCut = c.Tuning.RCut
	pc.DefaultPressureThreshold = c.PressureThreshold
	return pc
}

func constantsToConfig(c physics.Constants) ConstantsConfig {
	return ConstantsConfig{
		KThermal: c.KThermal,
		KS:       c.KS,
		CD:       c.CD,
		EpsilonV: c.EpsilonV,
		EBreak:   c.EBreak,
		KInt:     c.KInt,
		KA:       c.KA,
		Sigma:    c.Sigma,
		Eps:      c.Eps,
		RCut:     c.RCut,
	}
}

// Load reads a YAML config from path, starting from DefaultConfig and
// overlaying whatever fields the file sets.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects a configuration with an out-of-range port or
// negative physical scalar before it ever reaches the simulation loop.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", c.Port)
	}
	if c.Salinity < 0 {
		return fmt.Errorf("config: salinity must be non-negative, got %f", c.Salinity)
	}
	if c.Turbulence < 0 {
		return fmt.Errorf("config: turbulence must be non-negative, got %f", c.Turbulence)
	}
	if c.PressureThreshold <= 0 {
		return fmt.Errorf("config: pressure_threshold must be positive, got %f", c.PressureThreshold)
	}
	return nil
}
