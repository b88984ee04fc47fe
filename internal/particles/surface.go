package particles

import "image/color"

// Surface is the drawing target particles render onto. Coordinates are in
// field pixels.
type Surface interface {
	// FillEllipse draws a filled ellipse centred on (cx, cy) with the given
	// width and height (diameters).
	FillEllipse(cx, cy, w, h float64, c color.Color)
	StrokeLine(x0, y0, x1, y1, width float64, c color.Color)
}
