package render

import (
	"image"
	"image/color"
	"strings"
)

// SizeRule picks Size when the caption is longer than MinLen runes.
// A rule with MinLen < 0 always matches and terminates the table.
type SizeRule struct {
	MinLen int
	Size   float64
}

// Stop is one colour stop of a vertical gradient, Offset in [0,1] of the surface height.
type Stop struct {
	Offset float64
	Color  color.NRGBA
}

// Template holds every layout constant of one card template revision.
type Template struct {
	Name   string
	Width  int
	Height int

	CornerBase    float64
	CornerPerChar float64
	CornerHeight  float64
	BadgeRadius   float64

	BorderRadius float64
	BorderWidth  float64

	ValueFontSize float64
	ValueY        float64
	CaptionY      float64
	// CaptionSizes applies to single-rune values, CaptionSizesMulti to longer ones.
	CaptionSizes      []SizeRule
	CaptionSizesMulti []SizeRule

	TopVignette    []Stop
	BottomVignette []Stop

	BodyTop        float64 // fraction of Height
	BodyLineHeight float64
	BodyPad        float64
	BodyFont       string
	BodyBackdrop   color.NRGBA

	DescFontSize   float64
	DescLineHeight float64
	DescTop        float64
	DescMargin     float64
}

func shade(alpha float64) color.NRGBA {
	return color.NRGBA{A: uint8(alpha*255 + 0.5)}
}

var captionTable = []SizeRule{
	{MinLen: 10, Size: 16},
	{MinLen: 7, Size: 20},
	{MinLen: 5, Size: 24},
	{MinLen: -1, Size: 28},
}

// Classic is the 800x1200 template.
var Classic = Template{
	Name:   "classic",
	Width:  800,
	Height: 1200,

	CornerBase:    80,
	CornerPerChar: 50,
	CornerHeight:  160,
	BadgeRadius:   30,

	BorderRadius: 40,
	BorderWidth:  40,

	ValueFontSize:     100,
	ValueY:            70,
	CaptionY:          132,
	CaptionSizes:      captionTable,
	CaptionSizesMulti: captionTable,

	TopVignette:    []Stop{{0, shade(0.8)}, {0.55, shade(0)}},
	BottomVignette: []Stop{{0.45, shade(0)}, {1, shade(0.8)}},

	BodyTop:        0.7,
	BodyLineHeight: 50,
	BodyPad:        20,
	BodyFont:       "bold 40px serif",
	BodyBackdrop:   color.NRGBA{R: 0x14, G: 0x14, B: 0x14, A: 0xff},

	DescFontSize:   22,
	DescLineHeight: 26,
	DescTop:        40,
	DescMargin:     20,
}

// Poker is the 732x1039 template with the value-length aware caption table.
var Poker = Template{
	Name:   "poker",
	Width:  732,
	Height: 1039,

	CornerBase:    90,
	CornerPerChar: 60,
	CornerHeight:  150,
	BadgeRadius:   28,

	BorderRadius: 36,
	BorderWidth:  36,

	ValueFontSize: 96,
	ValueY:        64,
	CaptionY:      124,
	CaptionSizes: []SizeRule{
		{MinLen: 10, Size: 18},
		{MinLen: 7, Size: 22},
		{MinLen: 5, Size: 26},
		{MinLen: -1, Size: 30},
	},
	CaptionSizesMulti: []SizeRule{
		{MinLen: 10, Size: 14},
		{MinLen: 7, Size: 18},
		{MinLen: 5, Size: 22},
		{MinLen: -1, Size: 26},
	},

	TopVignette:    []Stop{{0, shade(0.75)}, {0.55, shade(0)}},
	BottomVignette: []Stop{{0.45, shade(0)}, {1, shade(0.9)}},

	BodyTop:        0.7,
	BodyLineHeight: 46,
	BodyPad:        20,
	BodyFont:       "bold 36px serif",
	BodyBackdrop:   color.NRGBA{R: 0x14, G: 0x14, B: 0x14, A: 0xff},

	DescFontSize:   20,
	DescLineHeight: 24,
	DescTop:        36,
	DescMargin:     18,
}

// DefaultTemplate is used when no template is configured.
var DefaultTemplate = Classic

var templates = map[string]Template{
	Classic.Name: Classic,
	Poker.Name:   Poker,
}

// TemplateByName looks a template up case-insensitively.
func TemplateByName(name string) (Template, bool) {
	t, ok := templates[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

// Bounds returns the surface rectangle of the template.
func (t Template) Bounds() image.Rectangle {
	return image.Rect(0, 0, t.Width, t.Height)
}
