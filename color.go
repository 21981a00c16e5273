package sigplay

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// RGBA represents a color with red, green, blue, and alpha components.
// Each component is in the range [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// Black is the default stroke fill.
var Black = RGBA{R: 0, G: 0, B: 0, A: 1}

// White is the usual raster background.
var White = RGBA{R: 1, G: 1, B: 1, A: 1}

// Color converts RGBA to the standard color.Color interface.
func (c RGBA) Color() color.Color {
	return color.NRGBA{
		R: uint8(clamp255(c.R * 255)),
		G: uint8(clamp255(c.G * 255)),
		B: uint8(clamp255(c.B * 255)),
		A: uint8(clamp255(c.A * 255)),
	}
}

// FromColor converts a standard color.Color to RGBA.
func FromColor(c color.Color) RGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBA{
		R: float64(n.R) / 255,
		G: float64(n.G) / 255,
		B: float64(n.B) / 255,
		A: float64(n.A) / 255,
	}
}

// Hex returns the color as "#rrggbb", ignoring alpha.
func (c RGBA) Hex() string {
	return colorful.Color{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B)}.Hex()
}

// ParseColor parses a CSS color: "#rgb", "#rrggbb", "#rrggbbaa",
// "rgb(r, g, b)", "rgba(r, g, b, a)" or a CSS named color.
func ParseColor(s string) (RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "":
		return RGBA{}, fmt.Errorf("sigplay: empty color")
	case s == "transparent":
		return RGBA{}, nil
	case strings.HasPrefix(s, "#"):
		return parseHexColor(s)
	case strings.HasPrefix(s, "rgb"):
		return parseRGBFunc(s)
	}
	if c, ok := colornames.Map[s]; ok {
		return FromColor(c), nil
	}
	return RGBA{}, fmt.Errorf("sigplay: unknown color %q", s)
}

func parseHexColor(s string) (RGBA, error) {
	alpha := 1.0
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return RGBA{}, fmt.Errorf("sigplay: bad color %q: %w", s, err)
		}
		alpha = float64(a) / 255
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return RGBA{}, fmt.Errorf("sigplay: bad color %q: %w", s, err)
	}
	return RGBA{R: c.R, G: c.G, B: c.B, A: alpha}, nil
}

func parseRGBFunc(s string) (RGBA, error) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return RGBA{}, fmt.Errorf("sigplay: bad color %q", s)
	}
	name := s[:open]
	args := strings.FieldsFunc(s[open+1:len(s)-1], func(r rune) bool {
		return r == ',' || r == ' ' || r == '/'
	})
	switch {
	case name == "rgb" && (len(args) == 3 || len(args) == 4):
	case name == "rgba" && len(args) == 4:
	default:
		return RGBA{}, fmt.Errorf("sigplay: bad color %q", s)
	}
	var v [4]float64
	v[3] = 1
	for i, arg := range args {
		pct := strings.HasSuffix(arg, "%")
		n, err := strconv.ParseFloat(strings.TrimSuffix(arg, "%"), 64)
		if err != nil {
			return RGBA{}, fmt.Errorf("sigplay: bad color %q: %w", s, err)
		}
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return RGBA{}, fmt.Errorf("sigplay: bad color %q", s)
		}
		switch {
		case pct:
			n /= 100
		case i < 3:
			n /= 255
		}
		v[i] = clamp01(n)
	}
	return RGBA{R: v[0], G: v[1], B: v[2], A: v[3]}, nil
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}

func clamp255(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return math.Round(x)
}
