package game

import (
	"fmt"
	"image/color"
	"log/slog"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/iburimskiy/holiday-deck/internal/audio"
	"github.com/iburimskiy/holiday-deck/internal/config"
	"github.com/iburimskiy/holiday-deck/internal/particles"
)

const (
	jbButtonW   = 100
	jbButtonH   = 35
	jbMargin    = 20
	jbRowStep   = 45
	jbGroupGap  = 15
	jbSolidGray = 20
)

// Jukebox is the holiday jukebox: sound and background buttons on the left,
// particle animations on the right.
type Jukebox struct {
	width, height float64
	greeting      string

	clock     particles.Clock
	picker    *Picker
	sink      audio.Sink
	trackOpts audio.TrackOptions

	soundAssets []config.Asset
	sounds      []*audio.Track
	current     *audio.Track

	bgAssets    []config.Asset
	backgrounds []*ebiten.Image
	background  int // -1 = solid colour

	animations []*particles.Animation
	animation  int // -1 = none

	buttons        []*Button
	buttonsVisible bool
	lastErr        error
}

// NewJukebox loads the configured assets and builds the scene.
func NewJukebox(cfg *config.Config, sink audio.Sink, clock particles.Clock, picker *Picker) *Jukebox {
	opts := audio.TrackOptions{Volume: 1, TapSize: cfg.Audio.TapRingSize}
	sounds := loadSounds(cfg.Jukebox.Sounds, sink, opts)
	backgrounds := loadBackgrounds(cfg.Jukebox.Backgrounds)
	j := newJukebox(cfg, sink, sounds, backgrounds, clock, particles.NewSource(cfg.Particles.Seed), picker)
	if cfg.Jukebox.Autoplay && j.current != nil {
		j.current.Play()
	}
	return j
}

func newJukebox(cfg *config.Config, sink audio.Sink, sounds []*audio.Track, backgrounds []*ebiten.Image,
	clock particles.Clock, rng particles.Source, picker *Picker) *Jukebox {
	w, h := float64(cfg.Window.Width), float64(cfg.Window.Height)
	j := &Jukebox{
		width:          w,
		height:         h,
		greeting:       cfg.Jukebox.Greeting,
		clock:          clock,
		picker:         picker,
		sink:           sink,
		trackOpts:      audio.TrackOptions{Volume: 1, TapSize: cfg.Audio.TapRingSize},
		soundAssets:    cfg.Jukebox.Sounds,
		sounds:         sounds,
		bgAssets:       cfg.Jukebox.Backgrounds,
		backgrounds:    backgrounds,
		background:     cfg.Jukebox.InitialBackground,
		animation:      -1,
		buttonsVisible: true,
	}
	if len(backgrounds) == 0 {
		j.background = -1
	}
	if n := len(sounds); n > 0 && cfg.Jukebox.InitialSound < n {
		j.current = sounds[cfg.Jukebox.InitialSound]
	}

	now := clock.Elapsed()
	for i, kind := range []particles.Kind{particles.Snow, particles.Fire, particles.Stars} {
		a := particles.NewAnimation(kind, cfg.ParticleCount(kind.String()), w, h, rng)
		a.Reset(now)
		j.animations = append(j.animations, a)
		if kind.String() == cfg.Jukebox.InitialAnimation {
			j.animation = i
		}
	}

	j.layoutButtons()
	return j
}

func (j *Jukebox) layoutButtons() {
	left := float64(jbMargin)
	right := j.width - jbButtonW - jbMargin
	y := float64(jbMargin)

	add := func(label string, x, y float64, fn func()) {
		j.buttons = append(j.buttons, &Button{Label: label, X: x, Y: y, W: jbButtonW, H: jbButtonH, OnClick: fn})
	}

	for i, a := range j.soundAssets {
		add(a.Name, left, y, func() { j.playSound(i) })
		y += jbRowStep
	}
	y += jbGroupGap
	for i, a := range j.bgAssets {
		add(a.Name, left, y, func() { j.selectBackground(i) })
		y += jbRowStep
	}
	add("Disable BG", left, y, func() { j.background = -1 })

	y = jbMargin
	for i, a := range j.animations {
		label := strings.ToUpper(a.Name[:1]) + a.Name[1:]
		add(label, right, y, func() { j.animation = i })
		y += jbRowStep
	}
	add("Disable Anim", right, y, func() { j.animation = -1 })

	add("Hide Buttons", right, j.height-jbButtonH-jbMargin, func() { j.buttonsVisible = false })
}

func (j *Jukebox) stopCurrent() {
	if j.current != nil {
		j.current.Stop()
	}
}

func (j *Jukebox) playSound(i int) {
	tr := j.sounds[i]
	if tr == nil {
		if j.soundAssets[i].User {
			j.pickFor("sound", i)
			return
		}
		j.lastErr = fmt.Errorf("sound %q is not loaded", j.soundAssets[i].Name)
		return
	}
	j.stopCurrent()
	j.current = tr
	tr.Play()
}

func (j *Jukebox) selectBackground(i int) {
	if j.backgrounds[i] == nil && j.bgAssets[i].User {
		j.pickFor("background", i)
		return
	}
	j.background = i
}

func (j *Jukebox) pickFor(kind string, i int) {
	if j.picker == nil {
		return
	}
	target := kind + ":" + strconv.Itoa(i)
	if kind == "sound" {
		j.picker.Open(target, "Choose a sound", "Audio", audio.Extensions)
	} else {
		j.picker.Open(target, "Choose a background", "Images", imagePatterns)
	}
}

// applyPick loads a file chosen in the dialog into its user slot.
func (j *Jukebox) applyPick(r pickResult) {
	if r.err != nil {
		j.lastErr = r.err
		slog.Error("file dialog failed", "target", r.target, "error", r.err)
		return
	}
	kind, idx, _ := strings.Cut(r.target, ":")
	i, err := strconv.Atoi(idx)
	if err != nil {
		return
	}
	slog.Info("file chosen", "target", r.target, "path", r.path)

	switch kind {
	case "sound":
		tr, err := audio.LoadTrack(j.soundAssets[i].Name, r.path, j.sink, j.trackOpts)
		if err != nil {
			j.lastErr = err
			slog.Error("loading chosen sound failed", "path", r.path, "error", err)
			return
		}
		if old := j.sounds[i]; old != nil {
			if old == j.current {
				j.current = nil
			}
			_ = old.Close()
		}
		j.sounds[i] = tr
		j.playSound(i)
	case "background":
		img, err := loadImage(r.path)
		if err != nil {
			j.lastErr = err
			slog.Error("loading chosen background failed", "path", r.path, "error", err)
			return
		}
		j.backgrounds[i] = img
		j.background = i
	}
	j.lastErr = nil
}

// replaceUnderCursor opens the file dialog for a user slot button under the
// pointer.
func (j *Jukebox) replaceUnderCursor(in Input) {
	for i, a := range j.soundAssets {
		if a.User && j.buttons[i].Contains(in.MouseX, in.MouseY) {
			j.pickFor("sound", i)
		}
	}
	off := len(j.soundAssets)
	for i, a := range j.bgAssets {
		if a.User && j.buttons[off+i].Contains(in.MouseX, in.MouseY) {
			j.pickFor("background", i)
		}
	}
}

func (j *Jukebox) currentAnimation() *particles.Animation {
	if j.animation < 0 || j.animation >= len(j.animations) {
		return nil
	}
	return j.animations[j.animation]
}

func (j *Jukebox) Update(in Input) error {
	if j.picker != nil {
		if r, ok := j.picker.Poll(); ok {
			j.applyPick(r)
		}
	}

	if !j.buttonsVisible {
		if in.Pressed {
			j.buttonsVisible = true
		}
	} else {
		for _, b := range j.buttons {
			b.Update(in)
		}
		if in.RightPressed {
			j.replaceUnderCursor(in)
		}
	}
	if in.JustPressed(ebiten.KeyH) {
		j.buttonsVisible = !j.buttonsVisible
	}

	if a := j.currentAnimation(); a != nil {
		a.Step(j.clock.Elapsed())
	}
	return nil
}

func (j *Jukebox) Draw(screen *ebiten.Image) {
	if j.background >= 0 && j.backgrounds[j.background] != nil {
		bg := j.backgrounds[j.background]
		op := &ebiten.DrawImageOptions{}
		b := bg.Bounds()
		op.GeoM.Scale(j.width/float64(b.Dx()), j.height/float64(b.Dy()))
		screen.DrawImage(bg, op)
	} else {
		screen.Fill(color.Gray{Y: jbSolidGray})
	}

	if a := j.currentAnimation(); a != nil {
		a.Draw(screenSurface{dst: screen})
	}

	textX := int(j.width/2) - len(j.greeting)*charWidth/2
	ebitenutil.DebugPrintAt(screen, j.greeting, textX, int(j.height/2)-8)

	if j.buttonsVisible {
		for _, b := range j.buttons {
			b.Draw(screen)
		}
	}
	if j.lastErr != nil {
		ebitenutil.DebugPrintAt(screen, "Error: "+j.lastErr.Error(), 12, int(j.height)-20)
	}
}

// Close stops playback and releases every loaded sound.
func (j *Jukebox) Close() error {
	for _, tr := range j.sounds {
		if tr != nil {
			_ = tr.Close()
		}
	}
	return nil
}
