package render

import (
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/ds124wfegd/cardforge/internal/entity"
)

// Renderer draws cards onto surfaces of one template. Render calls are serialised:
// a surface and the font faces are exclusive to one render at a time.
type Renderer struct {
	mu    sync.Mutex
	tpl   Template
	fonts *FontBook
}

func NewRenderer(tpl Template) *Renderer {
	return &Renderer{tpl: tpl, fonts: NewFontBook()}
}

func (r *Renderer) Template() Template {
	return r.tpl
}

// NewSurface allocates a surface of the template size.
func (r *Renderer) NewSurface() *image.RGBA {
	return image.NewRGBA(r.tpl.Bounds())
}

// RenderImage renders the card onto a fresh surface.
func (r *Renderer) RenderImage(card *entity.Card, photo image.Image) *image.RGBA {
	dst := r.NewSurface()
	r.Render(dst, card, photo)
	return dst
}

// Render draws the full template onto dst in place. photo may be nil, in which case the
// photo layer is skipped and every other layer is unchanged. dst is left fully opaque.
func (r *Renderer) Render(dst *image.RGBA, card *entity.Card, photo image.Image) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Resolve(card, r.tpl)
	dc := gg.NewContextForRGBA(dst)

	r.drawBase(dc)
	if photo != nil {
		r.drawPhoto(dc, s, photo)
	}
	if s.Gradient {
		r.drawVignette(dc)
	}
	if len(s.BodyLines) > 0 {
		r.drawBody(dc, s)
	}
	if len(s.DescLines) > 0 {
		r.drawDescription(dc, s)
	}
	r.drawBorder(dc, s)
	r.drawBadges(dc, s)
	r.drawValue(dc, s)
	if s.Caption != "" {
		r.drawCaption(dc, s)
	}
}

func (r *Renderer) size() (float64, float64) {
	return float64(r.tpl.Width), float64(r.tpl.Height)
}

func (r *Renderer) drawBase(dc *gg.Context) {
	dc.SetColor(color.White)
	dc.Clear()
}

// drawPhoto scales the photo into its placement rectangle. Only the part that lands on
// the surface is resampled, so the work is bounded by the surface size whatever the
// placement is.
func (r *Renderer) drawPhoto(dc *gg.Context, s Style, photo image.Image) {
	p := s.Photo
	for _, v := range []float64{p.X, p.Y, p.W, p.H} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return
		}
	}
	x0, y0 := math.Round(p.X), math.Round(p.Y)
	x1, y1 := x0+math.Round(p.W), y0+math.Round(p.H)
	src := photo.Bounds()
	if x1 <= x0 || y1 <= y0 || src.Empty() {
		return
	}

	w, h := r.size()
	vx0, vy0 := math.Max(x0, 0), math.Max(y0, 0)
	vx1, vy1 := math.Min(x1, w), math.Min(y1, h)
	if vx1 <= vx0 || vy1 <= vy0 {
		return
	}

	part := photo
	if vx0 != x0 || vy0 != y0 || vx1 != x1 || vy1 != y1 {
		sx := float64(src.Dx()) / (x1 - x0)
		sy := float64(src.Dy()) / (y1 - y0)
		crop := image.Rect(
			src.Min.X+int(math.Floor((vx0-x0)*sx)),
			src.Min.Y+int(math.Floor((vy0-y0)*sy)),
			src.Min.X+int(math.Ceil((vx1-x0)*sx)),
			src.Min.Y+int(math.Ceil((vy1-y0)*sy)),
		).Intersect(src)
		if crop.Dx() == 0 || crop.Dy() == 0 {
			crop = image.Rect(crop.Min.X, crop.Min.Y, crop.Min.X+1, crop.Min.Y+1).Intersect(src)
		}
		if crop.Empty() {
			return
		}
		part = imaging.Crop(photo, crop)
	}

	var img image.Image = imaging.Resize(part, int(vx1-vx0), int(vy1-vy0), imaging.Linear)
	if len(s.Filter) > 0 {
		img = s.Filter.Apply(img)
	}
	dc.DrawImage(img, int(vx0), int(vy0))
}

func (r *Renderer) drawVignette(dc *gg.Context) {
	w, h := r.size()
	for _, stops := range [][]Stop{r.tpl.BottomVignette, r.tpl.TopVignette} {
		grad := gg.NewLinearGradient(0, 0, 0, h)
		for _, st := range stops {
			grad.AddColorStop(st.Offset, st.Color)
		}
		dc.SetFillStyle(grad)
		dc.DrawRectangle(0, 0, w, h)
		dc.Fill()
	}
}

func (r *Renderer) drawBody(dc *gg.Context, s Style) {
	w, h := r.size()
	top := math.Round(h * r.tpl.BodyTop)
	dc.SetColor(r.tpl.BodyBackdrop)
	dc.DrawRectangle(0, top, w, r.tpl.BodyTextBlockHeight(len(s.BodyLines)))
	dc.Fill()

	dc.SetFontFace(r.fonts.Face(s.BodyFont))
	dc.SetColor(s.TextColor)
	y := top + r.tpl.BodyPad/2 + r.tpl.BodyLineHeight/2
	for _, line := range s.BodyLines {
		dc.DrawStringAnchored(line, w/2, y, 0.5, 0.35)
		y += r.tpl.BodyLineHeight
	}
}

func (r *Renderer) drawDescription(dc *gg.Context, s Style) {
	w, h := r.size()
	dc.SetFontFace(r.fonts.Face(FontSpec{Size: r.tpl.DescFontSize}))
	dc.SetColor(s.TextColor)
	x := s.CornerWidth + r.tpl.DescMargin
	mirrorDraw(dc, w, h, func() {
		y := r.tpl.DescTop
		for _, line := range s.DescLines {
			dc.DrawStringAnchored(line, x, y, 0, 0.35)
			y += r.tpl.DescLineHeight
		}
	})
}

// drawBorder strokes the card edge: the surface rectangle with all four corners rounded.
func (r *Renderer) drawBorder(dc *gg.Context, s Style) {
	w, h := r.size()
	dc.SetStrokeStyle(s.Border.Pattern())
	dc.SetLineWidth(r.tpl.BorderWidth)
	dc.DrawRoundedRectangle(0, 0, w, h, r.tpl.BorderRadius)
	dc.Stroke()
}

// drawBadges fills the two rank plates. The bottom-right plate is the top-left path
// point-reflected through the surface centre.
func (r *Renderer) drawBadges(dc *gg.Context, s Style) {
	w, h := r.size()
	dc.SetFillStyle(s.Border.Pattern())
	for _, reflected := range []bool{false, true} {
		r.badgePath(reflectedPath{dc: dc, w: w, h: h, reflected: reflected}, s.CornerWidth)
		dc.Fill()
	}
}

func (r *Renderer) badgePath(p reflectedPath, cw float64) {
	outer, inner := r.tpl.BorderRadius, r.tpl.BadgeRadius
	ch := r.tpl.CornerHeight
	p.dc.NewSubPath()
	p.moveTo(0, outer)
	p.arc(outer, outer, outer, math.Pi, 1.5*math.Pi)
	p.lineTo(cw, 0)
	p.lineTo(cw, ch-inner)
	p.arc(cw-inner, ch-inner, inner, 0, 0.5*math.Pi)
	p.lineTo(0, ch)
	p.dc.ClosePath()
}

func (r *Renderer) drawValue(dc *gg.Context, s Style) {
	if s.Value == "" {
		return
	}
	w, h := r.size()
	dc.SetFontFace(r.fonts.Face(FontSpec{Size: r.tpl.ValueFontSize, Bold: true}))
	dc.SetColor(s.ValueColor)
	mirrorDraw(dc, w, h, func() {
		dc.DrawStringAnchored(s.Value, s.CornerWidth/2, r.tpl.ValueY, 0.5, 0.35)
	})
}

func (r *Renderer) drawCaption(dc *gg.Context, s Style) {
	w, h := r.size()
	dc.SetFontFace(r.fonts.Face(FontSpec{Size: s.CaptionSize, Bold: true}))
	dc.SetColor(s.CaptionColor)
	mirrorDraw(dc, w, h, func() {
		dc.DrawStringAnchored(s.Caption, s.CornerWidth/2, r.tpl.CaptionY, 0.5, 0.35)
	})
}
