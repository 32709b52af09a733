package config

import (
	"sort"

	"github.com/san-kum/enginesim/internal/forcing"
)

const DefaultPreset = "reference"

var Presets = map[string]func() *Config{
	// exponential decay F0 = 10, α = 0.3 on the default loop
	"reference": DefaultConfig,

	// the damped sinusoid A·e^(-αt)·sin(ωt)
	"damped": func() *Config {
		c := DefaultConfig()
		c.Forcing = ForcingConfig{
			Profile:   forcing.NameDampedOscillation,
			Amplitude: forcing.DefaultOscAmplitude,
			Alpha:     forcing.DefaultOscAlpha,
			Omega:     forcing.DefaultOscOmega,
		}
		return c
	},

	// no disturbance; a run from rest stays at rest
	"unforced": func() *Config {
		c := DefaultConfig()
		c.Forcing.Profile = forcing.NameZero
		c.Forcing.Amplitude = 0
		return c
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
