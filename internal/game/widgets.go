package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const charWidth = 6 // debug font glyph width

// Button is a clickable rectangle with a label.
type Button struct {
	Label   string
	X, Y    float64
	W, H    float64
	OnClick func()

	hovered bool
	pressed bool
}

// Contains reports whether (x, y) is inside the button, edges included.
func (b *Button) Contains(x, y int) bool {
	fx, fy := float64(x), float64(y)
	return fx >= b.X && fx <= b.X+b.W && fy >= b.Y && fy <= b.Y+b.H
}

// Update tracks hover state and fires OnClick when pressed over the button.
// It reports whether the button was clicked.
func (b *Button) Update(in Input) bool {
	b.hovered = b.Contains(in.MouseX, in.MouseY)
	b.pressed = b.hovered && in.Down
	if b.hovered && in.Pressed {
		if b.OnClick != nil {
			b.OnClick()
		}
		return true
	}
	return false
}

func (b *Button) Draw(screen *ebiten.Image) {
	var bg color.Color
	switch {
	case b.pressed:
		bg = color.NRGBA{R: 60, G: 80, B: 120, A: 255}
	case b.hovered:
		bg = color.NRGBA{R: 80, G: 100, B: 140, A: 255}
	default:
		bg = color.NRGBA{R: 100, G: 150, B: 255, A: 255}
	}
	vector.DrawFilledRect(screen, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), bg, false)
	vector.StrokeRect(screen, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), 2, color.NRGBA{R: 150, G: 170, B: 200, A: 255}, false)

	textX := int(b.X + (b.W-float64(len(b.Label)*charWidth))/2)
	textY := int(b.Y + (b.H-16)/2)
	ebitenutil.DebugPrintAt(screen, b.Label, textX, textY)
}

// Slider is a horizontal value control over [0,1].
type Slider struct {
	Label string
	X, Y  float64
	W, H  float64
	Value float64

	dragging bool
}

func (s *Slider) Contains(x, y int) bool {
	fx, fy := float64(x), float64(y)
	return fx >= s.X && fx <= s.X+s.W && fy >= s.Y && fy <= s.Y+s.H
}

// Dragging reports whether the user is holding the slider.
func (s *Slider) Dragging() bool { return s.dragging }

// Update moves the slider with the pointer and reports whether the value
// changed this frame.
func (s *Slider) Update(in Input) bool {
	if in.Pressed && s.Contains(in.MouseX, in.MouseY) {
		s.dragging = true
	}
	if s.dragging && (in.Released || (!in.Down && !in.Pressed)) {
		s.dragging = false
		return false
	}
	if !s.dragging {
		return false
	}
	v := clamp01((float64(in.MouseX) - s.X) / s.W)
	if v == s.Value {
		return false
	}
	s.Value = v
	return true
}

func (s *Slider) Draw(screen *ebiten.Image, fill color.Color) {
	vector.DrawFilledRect(screen, float32(s.X), float32(s.Y), float32(s.W), float32(s.H), color.NRGBA{R: 25, G: 30, B: 40, A: 200}, false)
	if s.Value > 0 {
		vector.DrawFilledRect(screen, float32(s.X), float32(s.Y), float32(s.Value*s.W), float32(s.H), fill, false)
	}
	vector.StrokeRect(screen, float32(s.X), float32(s.Y), float32(s.W), float32(s.H), 2, color.NRGBA{R: 70, G: 80, B: 100, A: 255}, false)

	knobX := float32(s.X + s.Value*s.W)
	knobY := float32(s.Y + s.H/2)
	vector.DrawFilledCircle(screen, knobX, knobY, float32(s.H/2+2), color.White, false)
	vector.StrokeCircle(screen, knobX, knobY, float32(s.H/2+2), 2, color.NRGBA{R: 100, G: 110, B: 130, A: 255}, false)

	if s.Label != "" {
		ebitenutil.DebugPrintAt(screen, s.Label, int(s.X+s.W/2)-len(s.Label)*charWidth/2, int(s.Y)-18)
	}
}
