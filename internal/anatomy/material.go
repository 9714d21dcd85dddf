package anatomy

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	"alcyxob/painrelief/internal/domain"
)

// Material is the appearance the rendering collaborator applies to a part.
type Material struct {
	Name              string  `json:"name"`
	Color             string  `json:"color"`    // #rrggbb
	Emissive          string  `json:"emissive"` // #rrggbb
	EmissiveIntensity float64 `json:"emissiveIntensity"`
	Opacity           float64 `json:"opacity"`
}

// Part states as seen by the pointer interaction layer.
const (
	MaterialDefault  = "default"
	MaterialHover    = "hover"
	MaterialSelected = "selected"
	MaterialHidden   = "hidden"
)

var groupColors = map[MaterialGroup]string{
	GroupHead:  "#ffd1dc",
	GroupTorso: "#add8e6",
	GroupArms:  "#90ee90",
	GroupLegs:  "#ffffe0",
	GroupProp:  "#d9d9d9",
}

func defaultMaterial(g MaterialGroup) Material {
	c, ok := groupColors[g]
	if !ok {
		c = groupColors[GroupTorso]
	}
	return Material{Name: MaterialDefault, Color: c, Emissive: "#000000", Opacity: 1}
}

var hoverMaterial = Material{Name: MaterialHover, Color: "#ffffff", Emissive: "#666666", EmissiveIntensity: 1, Opacity: 1}

var hiddenMaterial = Material{Name: MaterialHidden, Color: "#000000", Emissive: "#000000", Opacity: 0}

func selectedMaterial(intensity int) Material {
	c := PainColor(intensity)
	return Material{Name: MaterialSelected, Color: c, Emissive: c, EmissiveIntensity: 0.2, Opacity: 1}
}

// ApplyHighlight recolours every part: selected wins over hovered, and
// hidden parts keep their invisible material whatever the state.
func (s *Scene) ApplyHighlight(selected *domain.BodyRegion, hovered Handle, intensity int) {
	for i := range s.parts {
		p := &s.parts[i]
		switch {
		case !p.Visible:
			p.Material = hiddenMaterial
		case selected != nil && p.Region != "" && p.Region == *selected:
			p.Material = selectedMaterial(intensity)
		case p.Handle == hovered && p.Region != "":
			p.Material = hoverMaterial
		default:
			p.Material = defaultMaterial(p.Group)
		}
	}
}

type severityBand struct {
	low, high int
	from, to  string
}

var painBands = []severityBand{
	{low: 1, high: 3, from: "#00b894", to: "#aed246"},
	{low: 4, high: 7, from: "#aed246", to: "#ff9500"},
	{low: 8, high: 10, from: "#ff9500", to: "#ff5252"},
}

// PainColor maps an intensity in [1,10] to a colour: green for mild,
// amber for moderate, red for severe, interpolated within each band.
// Out of range values are clamped.
func PainColor(intensity int) string {
	level := intensity
	if level < 1 {
		level = 1
	}
	if level > 10 {
		level = 10
	}
	for _, b := range painBands {
		if level <= b.high {
			ratio := float64(level-b.low) / float64(b.high-b.low)
			return interpolateHex(b.from, b.to, ratio)
		}
	}
	return painBands[len(painBands)-1].to
}

func interpolateHex(from, to string, ratio float64) string {
	a := MustParseHex(from)
	b := MustParseHex(to)
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*ratio))
	}
	return FormatHex(color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255})
}

// ParseHex parses "#rrggbb".
func ParseHex(s string) (color.RGBA, error) {
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, fmt.Errorf("invalid hex colour %q", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// MustParseHex is ParseHex for compile-time constants.
func MustParseHex(s string) color.RGBA {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// FormatHex renders c as "#rrggbb".
func FormatHex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
