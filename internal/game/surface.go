package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const discSize = 64

var disc *ebiten.Image

// discImage is a white filled circle scaled and tinted to draw ellipses.
func discImage() *ebiten.Image {
	if disc == nil {
		disc = ebiten.NewImage(discSize, discSize)
		vector.DrawFilledCircle(disc, discSize/2, discSize/2, discSize/2, color.White, true)
	}
	return disc
}

// screenSurface draws particles onto an ebiten image.
type screenSurface struct {
	dst *ebiten.Image
}

func (s screenSurface) FillEllipse(cx, cy, w, h float64, c color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	if w == h {
		vector.DrawFilledCircle(s.dst, float32(cx), float32(cy), float32(w/2), c, true)
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w/discSize, h/discSize)
	op.GeoM.Translate(cx-w/2, cy-h/2)
	op.ColorScale.ScaleWithColor(c)
	s.dst.DrawImage(discImage(), op)
}

func (s screenSurface) StrokeLine(x0, y0, x1, y1, width float64, c color.Color) {
	vector.StrokeLine(s.dst, float32(x0), float32(y0), float32(x1), float32(y1), float32(width), c, true)
}
