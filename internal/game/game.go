// Package game hosts the jukebox and deck scenes in an ebiten window.
package game

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/faiface/beep"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/holiday-deck/internal/audio"
	"github.com/iburimskiy/holiday-deck/internal/config"
	"github.com/iburimskiy/holiday-deck/internal/particles"
)

// Scene is one screen of the application.
type Scene interface {
	Update(in Input) error
	Draw(screen *ebiten.Image)
	Close() error
}

// Mode selects the scene the game starts with.
type Mode string

const (
	ModeJukebox Mode = "jukebox"
	ModeDeck    Mode = "deck"
)

// Game adapts a Scene to ebiten.Game.
type Game struct {
	width, height int
	scene         Scene
	speaker       *audio.Speaker
}

// New opens the speaker and builds the scene for mode.
func New(cfg *config.Config, mode Mode) (*Game, error) {
	rate := beep.SampleRate(cfg.Audio.SampleRate)
	sink, err := audio.NewSpeaker(rate, time.Duration(cfg.Audio.BufferMs)*time.Millisecond)
	if err != nil {
		return nil, err
	}

	clock := particles.NewClock()
	picker := NewPicker()

	var scene Scene
	switch mode {
	case ModeJukebox:
		scene = NewJukebox(cfg, sink, clock, picker)
	case ModeDeck:
		scene = NewDeck(cfg, sink, clock, picker)
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
	slog.Info("scene ready", "mode", string(mode), "width", cfg.Window.Width, "height", cfg.Window.Height)

	return &Game{width: cfg.Window.Width, height: cfg.Window.Height, scene: scene, speaker: sink}, nil
}

func (g *Game) Update() error {
	in := readInput()
	if in.JustPressed(ebiten.KeyEscape) || in.JustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	return g.scene.Update(in)
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

// Close releases the scene's audio and silences the speaker.
func (g *Game) Close() error {
	err := g.scene.Close()
	g.speaker.Clear()
	return err
}
