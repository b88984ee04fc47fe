package audio

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
)

const resampleQuality = 4

// TrackOptions configures a Track.
type TrackOptions struct {
	Loop    bool
	Volume  float64 // linear gain, 0..1
	TapSize int     // samples kept for level measurement
}

// Track is a decoded sound wired through volume, level tap and pause
// control into a Sink.
//
// source -> [loop] -> [resample] -> volume -> tap -> ctrl -> sink
type Track struct {
	Name string

	sink   Sink
	source beep.StreamSeekCloser
	format beep.Format

	volume *effects.Volume
	tap    *Tap
	ctrl   *beep.Ctrl

	gain     float64
	paused   bool
	attached atomic.Bool
}

// LoadTrack decodes path and wraps it in a paused Track.
func LoadTrack(name, path string, sink Sink, opts TrackOptions) (*Track, error) {
	src, format, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("loading track %q: %w", name, err)
	}
	return NewTrack(name, src, format, sink, opts), nil
}

// NewTrack wraps an already decoded source. The track starts paused.
func NewTrack(name string, src beep.StreamSeekCloser, format beep.Format, sink Sink, opts TrackOptions) *Track {
	var s beep.Streamer = src
	if opts.Loop {
		s = beep.Loop(-1, src)
	}
	if format.SampleRate != sink.SampleRate() {
		s = beep.Resample(resampleQuality, format.SampleRate, sink.SampleRate(), s)
	}
	if opts.TapSize <= 0 {
		opts.TapSize = 8192
	}

	vol := &effects.Volume{Streamer: s, Base: 2}
	tap := NewTap(vol, opts.TapSize)
	t := &Track{
		Name:   name,
		sink:   sink,
		source: src,
		format: format,
		volume: vol,
		tap:    tap,
		ctrl:   &beep.Ctrl{Streamer: tap, Paused: true},
		paused: true,
	}
	t.applyGain(opts.Volume)
	return t
}

// Playing reports whether the track is attached to the sink and unpaused.
func (t *Track) Playing() bool {
	return t.attached.Load() && !t.paused
}

// Play resumes the track, restarting it from the beginning if it had run
// to the end.
func (t *Track) Play() {
	if t.attached.Load() {
		t.sink.Lock()
		t.ctrl.Paused = false
		t.sink.Unlock()
		t.paused = false
		return
	}

	if t.source.Position() >= t.source.Len() {
		_ = t.source.Seek(0)
	}
	t.ctrl.Paused = false
	t.paused = false
	t.attached.Store(true)
	t.sink.Play(beep.Seq(t.ctrl, beep.Callback(func() {
		t.attached.Store(false)
	})))
}

func (t *Track) Pause() {
	t.sink.Lock()
	t.ctrl.Paused = true
	t.sink.Unlock()
	t.paused = true
}

// Toggle flips between playing and paused.
func (t *Track) Toggle() {
	if t.Playing() {
		t.Pause()
	} else {
		t.Play()
	}
}

// Stop pauses and rewinds.
func (t *Track) Stop() {
	t.Pause()
	t.sink.Lock()
	_ = t.source.Seek(0)
	t.sink.Unlock()
	t.tap.Reset()
}

// SetVolume sets the linear gain, clamped to [0,1].
func (t *Track) SetVolume(gain float64) {
	t.sink.Lock()
	t.applyGain(gain)
	t.sink.Unlock()
}

func (t *Track) applyGain(gain float64) {
	gain = math.Max(0, math.Min(1, gain))
	t.gain = gain
	if gain == 0 {
		t.volume.Silent = true
		return
	}
	t.volume.Silent = false
	t.volume.Volume = math.Log2(gain)
}

// Volume returns the current linear gain.
func (t *Track) Volume() float64 { return t.gain }

// Position is the playback position within the source.
func (t *Track) Position() time.Duration {
	t.sink.Lock()
	pos := t.source.Position()
	t.sink.Unlock()
	return t.format.SampleRate.D(pos)
}

func (t *Track) Duration() time.Duration {
	return t.format.SampleRate.D(t.source.Len())
}

// Progress is Position as a fraction of Duration.
func (t *Track) Progress() float64 {
	d := t.Duration()
	if d <= 0 {
		return 0
	}
	return float64(t.Position()) / float64(d)
}

// SeekFraction jumps to frac (0..1) of the track.
func (t *Track) SeekFraction(frac float64) error {
	n := t.source.Len()
	if n == 0 {
		return nil
	}
	frac = math.Max(0, math.Min(1, frac))
	pos := min(int(frac*float64(n)), n-1)

	t.sink.Lock()
	err := t.source.Seek(pos)
	t.sink.Unlock()
	if err != nil {
		return fmt.Errorf("seeking %q: %w", t.Name, err)
	}
	return nil
}

// Level is the RMS amplitude of the last n samples sent to the sink, or 0
// when the track is not playing.
func (t *Track) Level(n int) float64 {
	if !t.Playing() {
		return 0
	}
	return t.tap.Level(n)
}

// Bands is Tap.Bands over the track's recent output.
func (t *Track) Bands(prev []float64, n, nBands int, smoothing float64) []float64 {
	return t.tap.Bands(prev, n, nBands, smoothing)
}

// Close detaches the track from the sink and releases the source.
func (t *Track) Close() error {
	t.sink.Lock()
	t.ctrl.Streamer = nil
	t.sink.Unlock()
	t.paused = true
	return t.source.Close()
}
