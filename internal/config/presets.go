package config

import "github.com/san-kum/fluidmind/internal/physics"

// Presets are named starting configurations an operator can select
// with `fluidmind serve --preset <name>` instead of hand-writing YAML.
var Presets = map[string]*Config{
	"calm": {
		Port:              DefaultPort,
		Salinity:          0.0,
		Turbulence:        0.0,
		PressureThreshold: DefaultOrePressureThreshold,
		Tuning:            constantsToConfig(calmConstants()),
	},
	"turbulent": {
		Port:              DefaultPort,
		Salinity:          1.5,
		Turbulence:        0.8,
		PressureThreshold: DefaultOrePressureThreshold,
		Tuning:            constantsToConfig(turbulentConstants()),
	},
	"high-salinity": {
		Port:              DefaultPort,
		Salinity:          4.0,
		Turbulence:        0.2,
		PressureThreshold: 6.0,
		Tuning:            constantsToConfig(highSalinityConstants()),
	},
}

func calmConstants() physics.Constants {
	return physics.DefaultConstants()
}

func turbulentConstants() physics.Constants {
	c := physics.DefaultConstants()
	c.KThermal *= 1.5
	c.CD *= 0.6
	return c
}

func highSalinityConstants() physics.Constants {
	c := physics.DefaultConstants()
	c.KS *= 2.0
	return c
}

// GetPreset returns the named preset, or nil if it does not exist.
func GetPreset(name string) *Config {
	return Presets[name]
}

// ListPresets returns every known preset name.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
