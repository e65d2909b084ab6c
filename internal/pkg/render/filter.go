package render

import (
	"image"
	"image/color"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
)

// FilterOp is one CSS filter function with its numeric argument.
type FilterOp struct {
	Name   string
	Amount float64
}

// Filter is an ordered chain of filter functions applied to the photo layer only.
type Filter []FilterOp

var filterFunc = regexp.MustCompile(`([a-z-]+)\(\s*([^)]*?)\s*\)`)

var filterDefaults = map[string]float64{
	"brightness": 1,
	"contrast":   1,
	"grayscale":  1,
	"saturate":   1,
	"sepia":      1,
	"invert":     1,
	"opacity":    1,
	"hue-rotate": 0,
	"blur":       0,
}

// ParseFilter reads a CSS filter expression. Unknown functions are dropped.
func ParseFilter(expr string) Filter {
	expr = strings.ToLower(strings.TrimSpace(expr))
	if expr == "" || expr == "none" {
		return nil
	}
	var f Filter
	for _, m := range filterFunc.FindAllStringSubmatch(expr, -1) {
		def, ok := filterDefaults[m[1]]
		if !ok {
			continue
		}
		amount := def
		if m[2] != "" {
			v, ok := parseFilterArg(m[2])
			if !ok {
				continue
			}
			amount = v
		}
		f = append(f, FilterOp{Name: m[1], Amount: amount})
	}
	return f
}

func parseFilterArg(s string) (float64, bool) {
	scale, div := 1.0, 1.0
	switch {
	case strings.HasSuffix(s, "%"):
		s, div = strings.TrimSuffix(s, "%"), 100
	case strings.HasSuffix(s, "px"):
		s = strings.TrimSuffix(s, "px")
	case strings.HasSuffix(s, "deg"):
		s = strings.TrimSuffix(s, "deg")
	case strings.HasSuffix(s, "turn"):
		s, scale = strings.TrimSuffix(s, "turn"), 360
	case strings.HasSuffix(s, "rad"):
		s, scale = strings.TrimSuffix(s, "rad"), 180/math.Pi
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v * scale / div, true
}

// Apply returns a filtered copy of img. The source is never modified.
func (f Filter) Apply(img image.Image) *image.NRGBA {
	out := imaging.Clone(img)
	for _, op := range f {
		switch op.Name {
		case "blur":
			if op.Amount > 0 {
				out = imaging.Blur(out, op.Amount)
			}
		case "opacity":
			a := clamp01(op.Amount)
			out = imaging.AdjustFunc(out, func(c color.NRGBA) color.NRGBA {
				c.A = uint8(math.Round(float64(c.A) * a))
				return c
			})
		case "brightness":
			out = adjustChannels(out, func(v float64) float64 { return v * math.Max(op.Amount, 0) })
		case "contrast":
			out = adjustChannels(out, func(v float64) float64 { return (v-0.5)*math.Max(op.Amount, 0) + 0.5 })
		case "invert":
			a := clamp01(op.Amount)
			out = adjustChannels(out, func(v float64) float64 { return v*(1-a) + (1-v)*a })
		case "grayscale":
			out = applyMatrix(out, grayscaleMatrix(clamp01(op.Amount)))
		case "sepia":
			out = applyMatrix(out, sepiaMatrix(clamp01(op.Amount)))
		case "saturate":
			out = applyMatrix(out, saturateMatrix(math.Max(op.Amount, 0)))
		case "hue-rotate":
			out = applyMatrix(out, hueRotateMatrix(op.Amount))
		}
	}
	return out
}

type colorMatrix [3][3]float64

func adjustChannels(img *image.NRGBA, fn func(v float64) float64) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		c.R = toByte(fn(float64(c.R) / 255))
		c.G = toByte(fn(float64(c.G) / 255))
		c.B = toByte(fn(float64(c.B) / 255))
		return c
	})
}

func applyMatrix(img *image.NRGBA, m colorMatrix) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		r, g, b := float64(c.R)/255, float64(c.G)/255, float64(c.B)/255
		c.R = toByte(m[0][0]*r + m[0][1]*g + m[0][2]*b)
		c.G = toByte(m[1][0]*r + m[1][1]*g + m[1][2]*b)
		c.B = toByte(m[2][0]*r + m[2][1]*g + m[2][2]*b)
		return c
	})
}

func grayscaleMatrix(a float64) colorMatrix {
	k := 1 - a
	return colorMatrix{
		{0.2126 + 0.7874*k, 0.7152 - 0.7152*k, 0.0722 - 0.0722*k},
		{0.2126 - 0.2126*k, 0.7152 + 0.2848*k, 0.0722 - 0.0722*k},
		{0.2126 - 0.2126*k, 0.7152 - 0.7152*k, 0.0722 + 0.9278*k},
	}
}

func sepiaMatrix(a float64) colorMatrix {
	k := 1 - a
	return colorMatrix{
		{0.393 + 0.607*k, 0.769 - 0.769*k, 0.189 - 0.189*k},
		{0.349 - 0.349*k, 0.686 + 0.314*k, 0.168 - 0.168*k},
		{0.272 - 0.272*k, 0.534 - 0.534*k, 0.131 + 0.869*k},
	}
}

func saturateMatrix(s float64) colorMatrix {
	return colorMatrix{
		{0.213 + 0.787*s, 0.715 - 0.715*s, 0.072 - 0.072*s},
		{0.213 - 0.213*s, 0.715 + 0.285*s, 0.072 - 0.072*s},
		{0.213 - 0.213*s, 0.715 - 0.715*s, 0.072 + 0.928*s},
	}
}

func hueRotateMatrix(deg float64) colorMatrix {
	rad := deg * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	return colorMatrix{
		{0.213 + cos*0.787 - sin*0.213, 0.715 - cos*0.715 - sin*0.715, 0.072 - cos*0.072 + sin*0.928},
		{0.213 - cos*0.213 + sin*0.143, 0.715 + cos*0.285 + sin*0.140, 0.072 - cos*0.072 - sin*0.283},
		{0.213 - cos*0.213 - sin*0.787, 0.715 - cos*0.715 + sin*0.715, 0.072 + cos*0.928 + sin*0.072},
	}
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}

func toByte(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}
