package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// watchedKeys are the keys scenes react to.
var watchedKeys = []ebiten.Key{
	ebiten.KeyEscape, ebiten.KeyQ, ebiten.KeySpace,
	ebiten.Key1, ebiten.Key2,
	ebiten.KeyArrowLeft, ebiten.KeyArrowRight,
	ebiten.KeyH,
}

// Input is one frame of pointer and keyboard state.
type Input struct {
	MouseX, MouseY int

	Pressed      bool // left button went down this frame
	Released     bool // left button went up this frame
	Down         bool // left button is held
	RightPressed bool

	keys map[ebiten.Key]bool
}

// JustPressed reports whether k went down this frame.
func (in Input) JustPressed(k ebiten.Key) bool { return in.keys[k] }

// WithKeys returns a copy of in with the given keys marked as just pressed.
func (in Input) WithKeys(keys ...ebiten.Key) Input {
	m := make(map[ebiten.Key]bool, len(in.keys)+len(keys))
	for k, v := range in.keys {
		m[k] = v
	}
	for _, k := range keys {
		m[k] = true
	}
	in.keys = m
	return in
}

func readInput() Input {
	x, y := ebiten.CursorPosition()
	in := Input{
		MouseX:       x,
		MouseY:       y,
		Pressed:      inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		Released:     inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
		Down:         ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		RightPressed: inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight),
		keys:         map[ebiten.Key]bool{},
	}
	for _, k := range watchedKeys {
		if inpututil.IsKeyJustPressed(k) {
			in.keys[k] = true
		}
	}
	return in
}
