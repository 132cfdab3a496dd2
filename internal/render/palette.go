package render

import (
	"github.com/lucasb-eyer/go-colorful"
)

// Palette maps categories to colors by position: Domain[i] gets Range[i].
// Categories outside the domain, or past the end of the range, get Unknown.
type Palette struct {
	Name    string   `yaml:"name" toml:"name" json:"name"`
	Domain  []string `yaml:"domain" toml:"domain" json:"domain"`
	Range   []string `yaml:"range" toml:"range" json:"range"`
	Unknown string   `yaml:"unknown" toml:"unknown" json:"unknown"`
}

const DefaultUnknownColor = "#9e9e9e"

func (p Palette) Color(category string) string {
	for i, d := range p.Domain {
		if d == category && i < len(p.Range) {
			return p.Range[i]
		}
	}
	if p.Unknown != "" {
		return p.Unknown
	}
	return DefaultUnknownColor
}

var (
	PaletteClassic = Palette{
		Name:    "classic",
		Domain:  []string{"analytics", "infrastructure", "design", "research", "community"},
		Range:   []string{"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd"},
		Unknown: DefaultUnknownColor,
	}

	PaletteOcean = Palette{
		Name:    "ocean",
		Domain:  []string{"analytics", "infrastructure", "design", "research", "community"},
		Range:   []string{"#0077be", "#00a8cc", "#ffd700", "#00ff88", "#4488aa"},
		Unknown: "#e0f0ff",
	}

	PaletteSunset = Palette{
		Name:    "sunset",
		Domain:  []string{"analytics", "infrastructure", "design", "research", "community"},
		Range:   []string{"#ff6b6b", "#feca57", "#ff9ff3", "#5fd068", "#ffc048"},
		Unknown: "#8b6b8c",
	}

	Palettes = []Palette{PaletteClassic, PaletteOcean, PaletteSunset}
)

// GetPalette returns a built-in palette by name, falling back to classic.
func GetPalette(name string) Palette {
	for _, p := range Palettes {
		if p.Name == name {
			return p
		}
	}
	return PaletteClassic
}

func PaletteNames() []string {
	names := make([]string, len(Palettes))
	for i, p := range Palettes {
		names[i] = p.Name
	}
	return names
}

const darkerFactor = 0.7

// Darker returns hex with every channel scaled by 0.7. Unparseable input is
// returned unchanged.
func Darker(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	return colorful.Color{R: c.R * darkerFactor, G: c.G * darkerFactor, B: c.B * darkerFactor}.Clamped().Hex()
}
