package render

import (
	"fmt"
	"image/color"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// RainbowSentinel is the colour field value that selects the rainbow gradient.
const RainbowSentinel = "rainbow"

type ColorKind int

const (
	ColorDefault ColorKind = iota
	ColorLiteral
	ColorRainbow
)

// ColorSpec is a parsed colour field: the field default, a literal colour or the rainbow effect.
type ColorSpec struct {
	Kind    ColorKind
	Literal color.Color
}

// ParseColorSpec never fails: an unreadable literal resolves to the field default.
func ParseColorSpec(field string) ColorSpec {
	field = strings.TrimSpace(field)
	if field == "" {
		return ColorSpec{Kind: ColorDefault}
	}
	if strings.EqualFold(field, RainbowSentinel) {
		return ColorSpec{Kind: ColorRainbow}
	}
	c, err := ParseColor(field)
	if err != nil {
		return ColorSpec{Kind: ColorDefault}
	}
	return ColorSpec{Kind: ColorLiteral, Literal: c}
}

// Paint is a resolved fill: either a solid colour or a gradient.
type Paint struct {
	solid    color.Color
	gradient gg.Gradient
}

func SolidPaint(c color.Color) Paint {
	return Paint{solid: c}
}

func (p Paint) IsGradient() bool {
	return p.gradient != nil
}

// Pattern returns the gg fill/stroke pattern for the paint.
func (p Paint) Pattern() gg.Pattern {
	if p.gradient != nil {
		return p.gradient
	}
	return gg.NewSolidPattern(p.solid)
}

// Color returns the solid colour; gradients report their first stop.
func (p Paint) Color() color.Color {
	return p.solid
}

// Resolve turns the spec into a paint for a surface of the given height.
func (s ColorSpec) Resolve(def color.Color, height float64) Paint {
	switch s.Kind {
	case ColorLiteral:
		return SolidPaint(s.Literal)
	case ColorRainbow:
		return rainbow(height)
	default:
		return SolidPaint(def)
	}
}

// ResolveColor resolves a raw colour field against a template.
func ResolveColor(field string, def color.Color, tpl Template) Paint {
	return ParseColorSpec(field).Resolve(def, float64(tpl.Height))
}

// RainbowStops are the seven stops at i/6: red, yellow, green, cyan, blue, magenta, red.
func RainbowStops() []color.NRGBA {
	stops := make([]color.NRGBA, 7)
	for i := range stops {
		r, g, b := colorful.Hsv(math.Mod(float64(i)*60, 360), 1, 1).Clamped().RGB255()
		stops[i] = color.NRGBA{R: r, G: g, B: b, A: 0xff}
	}
	return stops
}

func rainbow(height float64) Paint {
	grad := gg.NewLinearGradient(0, 0, 0, height)
	stops := RainbowStops()
	for i, c := range stops {
		grad.AddColorStop(float64(i)/6, c)
	}
	return Paint{solid: stops[0], gradient: grad}
}

var rgbFunc = regexp.MustCompile(`^rgba?\(\s*([^)]*)\)$`)

// ParseColor reads #rgb, #rgba, #rrggbb, #rrggbbaa, rgb(), rgba() and CSS colour names.
func ParseColor(s string) (color.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "transparent":
		return color.NRGBA{}, nil
	case strings.HasPrefix(s, "#"):
		return parseHex(s)
	case rgbFunc.MatchString(s):
		return parseRGBFunc(rgbFunc.FindStringSubmatch(s)[1])
	}
	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("unknown colour %q", s)
}

func parseHex(s string) (color.Color, error) {
	alpha := uint8(0xff)
	switch len(s) {
	case 5, 9:
		digits := 1
		if len(s) == 9 {
			digits = 2
		}
		a, err := strconv.ParseUint(s[len(s)-digits:], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("bad alpha in %q: %w", s, err)
		}
		if digits == 1 {
			a *= 17
		}
		alpha = uint8(a)
		s = s[:len(s)-digits]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return nil, err
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

func parseRGBFunc(args string) (color.Color, error) {
	parts := strings.FieldsFunc(args, func(r rune) bool { return r == ',' || r == ' ' || r == '/' })
	if len(parts) != 3 && len(parts) != 4 {
		return nil, fmt.Errorf("rgb() needs 3 or 4 components, got %d", len(parts))
	}
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, err := parseComponent(parts[i], 255)
		if err != nil {
			return nil, err
		}
		ch[i] = uint8(math.Round(v))
	}
	alpha := 1.0
	if len(parts) == 4 {
		v, err := parseComponent(parts[3], 1)
		if err != nil {
			return nil, err
		}
		alpha = v
	}
	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: uint8(math.Round(alpha * 255))}, nil
}

// parseComponent reads a number or percentage and clamps it to [0,max].
func parseComponent(s string, max float64) (float64, error) {
	scale := 1.0
	if strings.HasSuffix(s, "%") {
		s = strings.TrimSuffix(s, "%")
		scale = max / 100
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("bad colour component %q: %w", s, err)
	}
	return math.Min(math.Max(v*scale, 0), max), nil
}
