package render

import (
	"image/color"
	"strings"
	"unicode/utf8"

	"github.com/ds124wfegd/cardforge/internal/entity"
)

var (
	defaultTextColor       = color.White
	defaultBorderColor     = color.White
	defaultBorderTextColor = color.Black
	defaultSmallTextColor  = color.Black
)

// CornerWidth is the badge width for a value: base offset plus a fixed step per rune.
func (t Template) CornerWidth(value string) float64 {
	return t.CornerBase + float64(utf8.RuneCountInString(value))*t.CornerPerChar
}

// CornerFontSize walks the caption size table top-down and returns the first match.
func (t Template) CornerFontSize(value, caption string) float64 {
	table := t.CaptionSizesMulti
	if utf8.RuneCountInString(value) == 1 || table == nil {
		table = t.CaptionSizes
	}
	n := utf8.RuneCountInString(caption)
	for _, rule := range table {
		if rule.MinLen < 0 || n > rule.MinLen {
			return rule.Size
		}
	}
	return t.CaptionSizes[len(t.CaptionSizes)-1].Size
}

// BodyTextBlockHeight is the height of the backing rectangle for n body lines.
func (t Template) BodyTextBlockHeight(lines int) float64 {
	return float64(lines)*t.BodyLineHeight + t.BodyPad
}

// PhotoRect is where the photo is drawn, in surface pixels.
type PhotoRect struct {
	X, Y, W, H float64
}

// Style is everything the engine needs, resolved once from a card before drawing.
type Style struct {
	Template Template

	Value   string
	Caption string

	CornerWidth float64
	CaptionSize float64

	Border       Paint
	ValueColor   color.Color
	CaptionColor color.Color
	TextColor    color.Color

	BodyLines []string
	BodyFont  FontSpec
	DescLines []string

	Gradient bool
	Photo    PhotoRect
	Filter   Filter
}

// Resolve derives the drawing style of a card for the template.
func Resolve(card *entity.Card, t Template) Style {
	height := float64(t.Height)
	s := Style{
		Template:     t,
		Value:        card.Value,
		Caption:      card.ValueDescription,
		CornerWidth:  t.CornerWidth(card.Value),
		CaptionSize:  t.CornerFontSize(card.Value, card.ValueDescription),
		Border:       ParseColorSpec(card.BorderColor).Resolve(defaultBorderColor, height),
		ValueColor:   ParseColorSpec(card.BorderTextColor).Resolve(defaultBorderTextColor, height).Color(),
		CaptionColor: ParseColorSpec(card.BorderSmallTextColor).Resolve(defaultSmallTextColor, height).Color(),
		TextColor:    ParseColorSpec(card.TextColor).Resolve(defaultTextColor, height).Color(),
		BodyLines:    splitLines(card.Text),
		BodyFont:     ParseFontSpec(card.TextFont, ParseFontSpec(t.BodyFont, FontSpec{Size: 40, Bold: true})),
		DescLines:    splitLines(card.Description),
		Gradient:     !card.NoGradient,
		Photo: PhotoRect{
			X: floatOr(card.ImageX, 0),
			Y: floatOr(card.ImageY, 0),
			W: floatOr(card.ImageWidth, float64(t.Width)),
			H: floatOr(card.ImageHeight, height),
		},
		Filter: ParseFilter(card.ImageFilter),
	}
	for i, line := range s.DescLines {
		s.DescLines[i] = strings.ToUpper(line)
	}
	return s
}

// splitLines returns nil for blank text so the layer is skipped.
func splitLines(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

func floatOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
