package game

import (
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/holiday-deck/internal/audio"
	"github.com/iburimskiy/holiday-deck/internal/config"
	"github.com/iburimskiy/holiday-deck/internal/mixer"
	"github.com/iburimskiy/holiday-deck/internal/particles"
)

const (
	seekCooldown    = 50 * time.Millisecond
	seekThreshold   = 0.01
	bandCount       = 32
	bandWindow      = 2048
	colorShiftSpeed = 0.01
)

// deckTrack is one side of the deck with its controls.
type deckTrack struct {
	label string
	tint  color.NRGBA
	key   ebiten.Key

	track *audio.Track

	load    *Button
	toggle  *Button
	volume  *Slider
	timeBar *Slider

	pulse    *mixer.Pulse
	bands    []float64
	lastSeek time.Duration
	seeked   bool
}

// Deck is the two-track mixing deck with a crossfader and beat pulses.
type Deck struct {
	cfg           *config.Config
	width, height float64

	sink   audio.Sink
	clock  particles.Clock
	picker *Picker

	tracks     [2]*deckTrack
	crossfader *Slider
	bgButton   *Button
	background *ebiten.Image

	colorPhase float64
	lastErr    error
}

// NewDeck loads both configured tracks and builds the scene.
func NewDeck(cfg *config.Config, sink audio.Sink, clock particles.Clock, picker *Picker) *Deck {
	var tracks [2]*audio.Track
	for i, tc := range cfg.Deck.Tracks {
		tr, err := audio.LoadTrack(tc.Label, tc.Path, sink, deckTrackOptions(cfg, tc.Volume))
		if err != nil {
			slog.Warn("deck track unavailable", "track", tc.Label, "path", tc.Path, "error", err)
			continue
		}
		tracks[i] = tr
	}
	return newDeck(cfg, sink, tracks, clock, picker)
}

func deckTrackOptions(cfg *config.Config, volume float64) audio.TrackOptions {
	return audio.TrackOptions{Loop: true, Volume: volume, TapSize: cfg.Audio.TapRingSize}
}

func newDeck(cfg *config.Config, sink audio.Sink, tracks [2]*audio.Track,
	clock particles.Clock, picker *Picker) *Deck {
	w, h := float64(cfg.Window.Width), float64(cfg.Window.Height)
	d := &Deck{
		cfg:    cfg,
		width:  w,
		height: h,
		sink:   sink,
		clock:  clock,
		picker: picker,
	}

	columns := [2]float64{w * 0.15, w * 0.85}
	tints := [2]color.NRGBA{{R: 255, A: 150}, {B: 255, A: 150}}
	keys := [2]ebiten.Key{ebiten.Key1, ebiten.Key2}
	for i := range d.tracks {
		x := columns[i]
		tc := cfg.Deck.Tracks[i]
		t := &deckTrack{
			label: tc.Label,
			tint:  tints[i],
			key:   keys[i],
			track: tracks[i],
			volume: &Slider{Label: "volume", X: x - 75, Y: h * 0.45, W: 150, H: 12,
				Value: tc.Volume},
			timeBar: &Slider{Label: "duration", X: x - 75, Y: h * 0.55, W: 150, H: 12},
			pulse: mixer.NewPulse(cfg.Window.TPS, cfg.Deck.PulseBase, cfg.Deck.PulseGain,
				cfg.Deck.PulseFrequency, cfg.Deck.PulseDamping),
		}
		t.load = &Button{Label: "Load " + tc.Label, X: x - 60, Y: h * 0.15, W: 120, H: 30,
			OnClick: func() { d.pickTrack(i) }}
		t.toggle = &Button{Label: "play/pause", X: x - 50, Y: h * 0.3, W: 100, H: 30,
			OnClick: func() { d.toggle(i) }}
		d.tracks[i] = t
	}

	d.crossfader = &Slider{Label: "crossfader", X: w/2 - 100, Y: h * 0.75, W: 200, H: 14,
		Value: cfg.Deck.Crossfader}
	d.bgButton = &Button{Label: "Background", X: w/2 - 60, Y: h * 0.15, W: 120, H: 30,
		OnClick: d.pickBackground}

	d.applyMix()
	return d
}

func (d *Deck) toggle(i int) {
	t := d.tracks[i]
	if t.track == nil {
		d.lastErr = fmt.Errorf("%s has no sound loaded", t.label)
		return
	}
	t.track.Toggle()
}

func (d *Deck) pickTrack(i int) {
	if d.picker == nil {
		return
	}
	d.picker.Open(fmt.Sprintf("track:%d", i), "Choose "+d.tracks[i].label, "Audio", audio.Extensions)
}

func (d *Deck) pickBackground() {
	if d.picker == nil {
		return
	}
	d.picker.Open("background", "Choose a background", "Images", imagePatterns)
}

// applyPick loads a dialog result into a deck slot. A replaced track is
// stopped and closed; the new one starts paused at the slot's volume.
func (d *Deck) applyPick(r pickResult) {
	if r.err != nil {
		d.lastErr = r.err
		slog.Error("file dialog failed", "target", r.target, "error", r.err)
		return
	}
	if r.target == "background" {
		img, err := loadImage(r.path)
		if err != nil {
			d.lastErr = err
			return
		}
		d.background = img
		d.lastErr = nil
		return
	}

	var i int
	if _, err := fmt.Sscanf(r.target, "track:%d", &i); err != nil || i < 0 || i > 1 {
		return
	}
	t := d.tracks[i]
	tr, err := audio.LoadTrack(t.label, r.path, d.sink, deckTrackOptions(d.cfg, t.volume.Value))
	if err != nil {
		d.lastErr = err
		slog.Error("loading track failed", "track", t.label, "path", r.path, "error", err)
		return
	}
	if t.track != nil {
		t.track.Stop()
		_ = t.track.Close()
	}
	t.track = tr
	t.timeBar.Value = 0
	t.bands = nil
	d.lastErr = nil
	d.applyMix()
	slog.Info("track loaded", "track", t.label, "path", r.path, "duration", tr.Duration())
}

// applyMix pushes the volume sliders through the crossfader into the tracks.
func (d *Deck) applyMix() {
	g1, g2 := mixer.Crossfade(d.tracks[0].volume.Value, d.tracks[1].volume.Value, d.crossfader.Value)
	for i, g := range [2]float64{g1, g2} {
		if tr := d.tracks[i].track; tr != nil {
			tr.SetVolume(g)
		}
	}
}

func (d *Deck) updateTimeBar(t *deckTrack, in Input) {
	changed := t.timeBar.Update(in)
	if t.track == nil {
		return
	}
	if changed {
		now := d.clock.Elapsed()
		cooled := !t.seeked || now-t.lastSeek >= seekCooldown
		if cooled && math.Abs(t.timeBar.Value-t.track.Progress()) > seekThreshold {
			if err := t.track.SeekFraction(t.timeBar.Value); err != nil {
				d.lastErr = err
			}
			t.lastSeek = now
			t.seeked = true
		}
	}
	if !t.timeBar.Dragging() {
		t.timeBar.Value = t.track.Progress()
	}
}

func (d *Deck) Update(in Input) error {
	if d.picker != nil {
		if r, ok := d.picker.Poll(); ok {
			d.applyPick(r)
		}
	}

	d.bgButton.Update(in)
	for _, t := range d.tracks {
		t.load.Update(in)
		t.toggle.Update(in)
		t.volume.Update(in)
		d.updateTimeBar(t, in)
	}
	for i, t := range d.tracks {
		if in.JustPressed(t.key) {
			d.toggle(i)
		}
	}

	d.crossfader.Update(in)
	step := d.cfg.Deck.CrossfaderStep
	if in.JustPressed(ebiten.KeyArrowLeft) {
		d.crossfader.Value = clamp01(d.crossfader.Value - step)
	}
	if in.JustPressed(ebiten.KeyArrowRight) {
		d.crossfader.Value = clamp01(d.crossfader.Value + step)
	}
	d.applyMix()

	for _, t := range d.tracks {
		level := 0.0
		if t.track != nil {
			level = t.track.Level(d.cfg.Audio.LevelWindow)
			if t.track.Playing() {
				t.bands = t.track.Bands(t.bands, bandWindow, bandCount, d.cfg.Audio.Smoothing)
			}
		}
		t.pulse.Update(level)
	}
	d.colorPhase += colorShiftSpeed
	return nil
}

func (d *Deck) Draw(screen *ebiten.Image) {
	if d.background != nil {
		op := &ebiten.DrawImageOptions{}
		b := d.background.Bounds()
		op.GeoM.Scale(d.width/float64(b.Dx()), d.height/float64(b.Dy()))
		screen.DrawImage(d.background, op)
	} else {
		screen.Fill(color.NRGBA{R: 24, G: 26, B: 36, A: 255})
	}

	d.bgButton.Draw(screen)
	for i, t := range d.tracks {
		t.load.Draw(screen)
		t.toggle.Draw(screen)
		t.volume.Draw(screen, t.tint)
		t.timeBar.Draw(screen, t.tint)
		d.drawTimeDisplay(screen, t)
		d.drawPulse(screen, i, t)
		d.drawBands(screen, i, t)
	}
	d.crossfader.Draw(screen, color.NRGBA{R: 180, G: 180, B: 200, A: 220})

	status := "1/2: play/pause  arrows: crossfader  Esc/Q: quit"
	if d.lastErr != nil {
		status += " | Error: " + d.lastErr.Error()
	}
	ebitenutil.DebugPrintAt(screen, status, 12, 12)
}

func (d *Deck) drawTimeDisplay(screen *ebiten.Image, t *deckTrack) {
	text := "--:-- / --:--"
	if t.track != nil {
		text = formatDuration(t.track.Position()) + " / " + formatDuration(t.track.Duration())
	}
	x := int(t.timeBar.X+t.timeBar.W/2) - len(text)*charWidth/2
	ebitenutil.DebugPrintAt(screen, text, x, int(t.timeBar.Y+t.timeBar.H)+8)
}

func (d *Deck) drawPulse(screen *ebiten.Image, i int, t *deckTrack) {
	x := d.width/2 - 60
	if i == 1 {
		x = d.width/2 + 60
	}
	y := d.height * 0.3
	size := t.pulse.Size()
	vector.StrokeCircle(screen, float32(x), float32(y), float32(size/2), 3, t.tint, true)

	label := fmt.Sprintf("beat visual %d", i+1)
	ebitenutil.DebugPrintAt(screen, label, int(x)-len(label)*charWidth/2, int(y+size/2)+8)
}

// drawBands draws the track's recent level history as a bar strip along the
// bottom of its half of the screen.
func (d *Deck) drawBands(screen *ebiten.Image, i int, t *deckTrack) {
	barW := d.width/2 - 40
	barH := d.height * 0.1
	barX := 20 + float64(i)*d.width/2
	barY := d.height - barH - 20

	vector.DrawFilledRect(screen, float32(barX), float32(barY), float32(barW), float32(barH), color.NRGBA{R: 20, G: 25, B: 35, A: 200}, false)
	vector.StrokeRect(screen, float32(barX), float32(barY), float32(barW), float32(barH), 2, color.NRGBA{R: 60, G: 70, B: 90, A: 255}, false)
	if len(t.bands) == 0 {
		return
	}

	segW := barW / float64(len(t.bands))
	for k, v := range t.bands {
		segH := math.Max(2, v*(barH-10))
		hue := (d.colorPhase + float64(k)/float64(len(t.bands))*0.5 + float64(i)*0.5) * 360
		c := hsvColor(hue, 0.8, 0.9, uint8(100+155*clamp01(v)))
		x := barX + float64(k)*segW
		y := barY + barH - segH
		vector.DrawFilledRect(screen, float32(x), float32(y), float32(segW-1), float32(segH), c, false)
	}
}

// Close stops both tracks and releases them.
func (d *Deck) Close() error {
	for _, t := range d.tracks {
		if t.track != nil {
			_ = t.track.Close()
		}
	}
	return nil
}
