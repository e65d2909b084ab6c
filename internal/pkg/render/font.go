package render

import (
	"strconv"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

const maxFontSize = 400

// FontSpec is a parsed CSS-like font shorthand such as "italic bold 48px serif".
type FontSpec struct {
	Size   float64
	Bold   bool
	Italic bool
	Mono   bool
}

// ParseFontSpec reads a font shorthand. Missing parts are taken from fallback.
func ParseFontSpec(s string, fallback FontSpec) FontSpec {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) == 0 {
		return fallback
	}
	spec := FontSpec{Size: fallback.Size}
	for _, f := range fields {
		switch {
		case f == "bold" || f == "bolder":
			spec.Bold = true
		case f == "italic" || f == "oblique":
			spec.Italic = true
		case f == "normal" || f == "lighter":
		case strings.HasSuffix(f, "px") || strings.HasSuffix(f, "pt"):
			v, err := strconv.ParseFloat(f[:len(f)-2], 64)
			if err == nil && v > 0 {
				if strings.HasSuffix(f, "pt") {
					v = v * 4 / 3
				}
				spec.Size = v
			}
		case isWeight(f):
			spec.Bold = f >= "600"
		default:
			f = strings.Trim(f, `"',`)
			if strings.Contains(f, "mono") || strings.Contains(f, "courier") {
				spec.Mono = true
			}
		}
	}
	if spec.Size > maxFontSize {
		spec.Size = maxFontSize
	}
	return spec
}

func isWeight(f string) bool {
	if len(f) != 3 || !strings.HasSuffix(f, "00") {
		return false
	}
	return f[0] >= '1' && f[0] <= '9'
}

type fontKey struct {
	bold, italic, mono bool
}

type faceKey struct {
	fontKey
	size float64
}

var fontData = map[fontKey][]byte{
	{false, false, false}: goregular.TTF,
	{true, false, false}:  gobold.TTF,
	{false, true, false}:  goitalic.TTF,
	{true, true, false}:   gobolditalic.TTF,
	{false, false, true}:  gomono.TTF,
	{true, false, true}:   gomonobold.TTF,
	{false, true, true}:   gomonoitalic.TTF,
	{true, true, true}:    gomonobolditalic.TTF,
}

// FontBook caches parsed fonts and sized faces. Faces are not safe for concurrent use,
// so a FontBook belongs to one Renderer.
type FontBook struct {
	fonts map[fontKey]*opentype.Font
	faces map[faceKey]font.Face
}

func NewFontBook() *FontBook {
	return &FontBook{
		fonts: make(map[fontKey]*opentype.Font),
		faces: make(map[faceKey]font.Face),
	}
}

// Face returns a face for the spec, falling back to the basic bitmap font if the
// embedded font cannot be loaded.
func (b *FontBook) Face(spec FontSpec) font.Face {
	key := faceKey{fontKey{spec.Bold, spec.Italic, spec.Mono}, spec.Size}
	if face, ok := b.faces[key]; ok {
		return face
	}
	f, ok := b.fonts[key.fontKey]
	if !ok {
		parsed, err := opentype.Parse(fontData[key.fontKey])
		if err != nil {
			return basicfont.Face7x13
		}
		f = parsed
		b.fonts[key.fontKey] = f
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    spec.Size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	b.faces[key] = face
	return face
}
