package render

import (
	"math"

	"github.com/fogleman/gg"
)

// mirrorDraw runs draw once in the current coordinate system and once rotated 180°
// about the surface centre, so the copy reads upright when the card is turned over.
func mirrorDraw(dc *gg.Context, w, h float64, draw func()) {
	draw()
	dc.Push()
	dc.Translate(w, h)
	dc.Rotate(math.Pi)
	draw()
	dc.Pop()
}

// reflectedPath emits path commands either as given or point-reflected through the
// surface centre. Used where the shape itself is mirrored rather than redrawn rotated.
type reflectedPath struct {
	dc        *gg.Context
	w, h      float64
	reflected bool
}

func (p reflectedPath) point(x, y float64) (float64, float64) {
	if p.reflected {
		return p.w - x, p.h - y
	}
	return x, y
}

func (p reflectedPath) moveTo(x, y float64) {
	p.dc.MoveTo(p.point(x, y))
}

func (p reflectedPath) lineTo(x, y float64) {
	p.dc.LineTo(p.point(x, y))
}

// arc draws a circular arc of radius r centred at (cx, cy) from angle a1 to a2.
func (p reflectedPath) arc(cx, cy, r, a1, a2 float64) {
	x, y := p.point(cx, cy)
	if p.reflected {
		a1 += math.Pi
		a2 += math.Pi
	}
	p.dc.DrawArc(x, y, r, a1, a2)
}
