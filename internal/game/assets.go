package game

import (
	"fmt"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/iburimskiy/holiday-deck/internal/audio"
	"github.com/iburimskiy/holiday-deck/internal/config"
)

var imagePatterns = []string{"*.png", "*.jpg", "*.jpeg"}

func loadImage(path string) (*ebiten.Image, error) {
	img, _, err := ebitenutil.NewImageFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading image %s: %w", path, err)
	}
	return img, nil
}

// loadBackgrounds loads every configured background. Missing files leave a
// nil slot and are logged; user slots are expected to be empty at first.
func loadBackgrounds(assets []config.Asset) []*ebiten.Image {
	out := make([]*ebiten.Image, len(assets))
	for i, a := range assets {
		img, err := loadImage(a.Path)
		if err != nil {
			logMissing("background", a, err)
			continue
		}
		out[i] = img
	}
	return out
}

// loadSounds decodes every configured sound as a one-shot track.
func loadSounds(assets []config.Asset, sink audio.Sink, opts audio.TrackOptions) []*audio.Track {
	out := make([]*audio.Track, len(assets))
	for i, a := range assets {
		tr, err := audio.LoadTrack(a.Name, a.Path, sink, opts)
		if err != nil {
			logMissing("sound", a, err)
			continue
		}
		out[i] = tr
	}
	return out
}

func logMissing(kind string, a config.Asset, err error) {
	if a.User {
		slog.Debug("user slot empty", "kind", kind, "name", a.Name, "path", a.Path)
		return
	}
	slog.Warn("asset unavailable", "kind", kind, "name", a.Name, "path", a.Path, "error", err)
}
