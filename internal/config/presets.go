package config

import "sort"

// Presets tune how the layout moves; data and output settings come from
// the base config.
var Presets = map[string]func(*Config){
	"classic": func(c *Config) {},
	"snappy": func(c *Config) {
		c.Forces.Strength = 0.06
		c.Cooling.VelocityDecay = 0.4
		c.Cooling.AlphaDecay = 0.05
		c.Render.EntranceMS = 600
	},
	"calm": func(c *Config) {
		c.Forces.Strength = 0.02
		c.Cooling.VelocityDecay = 0.8
		c.Cooling.AlphaDecay = 0.01
		c.Render.EntranceMS = 3000
		c.Render.Palette = "ocean"
	},
}

// GetPreset returns the defaults with the named preset applied, or nil.
func GetPreset(name string) *Config {
	return ApplyPreset(DefaultConfig(), name)
}

// ApplyPreset applies a preset to cfg in place. It returns nil when the
// preset does not exist.
func ApplyPreset(cfg *Config, name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	apply(cfg)
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
