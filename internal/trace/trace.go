// Package trace steps an animation headlessly on a manual clock and
// records one summary row per frame.
package trace

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/iburimskiy/holiday-deck/internal/particles"
)

// Options configure a trace run.
type Options struct {
	Kind          particles.Kind
	Count         int
	Width, Height float64
	Seed          int64
	Frames        int
	FrameTime     time.Duration
}

// DefaultFrameTime is one frame at 60 TPS.
const DefaultFrameTime = time.Second / 60

var errNoFrames = errors.New("frames must be positive")

// Frame summarizes the animation after one step.
type Frame struct {
	Frame      int     `csv:"frame"`
	TimeMs     int64   `csv:"time_ms"`
	Particles  int     `csv:"particles"`
	MeanX      float64 `csv:"mean_x"`
	MeanY      float64 `csv:"mean_y"`
	MinY       float64 `csv:"min_y"`
	MaxY       float64 `csv:"max_y"`
	MeanSize   float64 `csv:"mean_size"`
	MeanLife   float64 `csv:"mean_life"`
	MeanBright float64 `csv:"mean_brightness"`
	Ellipses   int     `csv:"ellipses"`
	Lines      int     `csv:"lines"`
	Shooting   bool    `csv:"shooting"`
	StarX      float64 `csv:"star_x"`
	StarY      float64 `csv:"star_y"`
	TrailLen   int     `csv:"trail_len"`
}

// countingSurface counts draw calls instead of drawing.
type countingSurface struct {
	ellipses, lines int
}

func (c *countingSurface) FillEllipse(cx, cy, w, h float64, col color.Color) { c.ellipses++ }

func (c *countingSurface) StrokeLine(x0, y0, x1, y1, width float64, col color.Color) { c.lines++ }

// Run builds the animation described by opts and calls fn after every step.
func Run(opts Options, fn func(Frame) error) error {
	if opts.Frames <= 0 {
		return errNoFrames
	}
	if opts.FrameTime <= 0 {
		opts.FrameTime = DefaultFrameTime
	}

	clock := &particles.ManualClock{}
	anim := particles.NewAnimation(opts.Kind, opts.Count, opts.Width, opts.Height, particles.NewSource(opts.Seed))
	anim.Reset(clock.Elapsed())

	for i := 1; i <= opts.Frames; i++ {
		clock.Add(opts.FrameTime)
		now := clock.Elapsed()
		anim.Step(now)
		if err := fn(Summarize(anim, i, now)); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return nil
}

// Summarize reduces the animation's current state to a Frame.
func Summarize(anim *particles.Animation, frame int, now time.Duration) Frame {
	ps := anim.Field().Particles()
	f := Frame{Frame: frame, TimeMs: now.Milliseconds(), Particles: len(ps)}

	if len(ps) > 0 {
		xs := make([]float64, len(ps))
		ys := make([]float64, len(ps))
		sizes := make([]float64, len(ps))
		lives := make([]float64, len(ps))
		bright := make([]float64, len(ps))
		for i, p := range ps {
			xs[i], ys[i], sizes[i], lives[i] = p.X, p.Y, p.Size, p.Life
			bright[i] = particles.StarBrightness(p.Brightness, p.Twinkle)
		}
		f.MeanX = stat.Mean(xs, nil)
		f.MeanY = stat.Mean(ys, nil)
		f.MinY = floats.Min(ys)
		f.MaxY = floats.Max(ys)
		f.MeanSize = stat.Mean(sizes, nil)
		switch anim.Field().Kind() {
		case particles.Fire:
			f.MeanLife = stat.Mean(lives, nil)
		case particles.Stars:
			f.MeanBright = stat.Mean(bright, nil)
		}
	}

	var surf countingSurface
	anim.Draw(&surf)
	f.Ellipses, f.Lines = surf.ellipses, surf.lines

	if sp := anim.Spawner(); sp != nil {
		if s := sp.Star(); s != nil {
			f.Shooting = true
			f.StarX, f.StarY = s.X, s.Y
			f.TrailLen = len(s.Trail)
		}
	}
	return f
}

// Writer streams frames as CSV, writing the header before the first row.
type Writer struct {
	w             io.Writer
	headerWritten bool
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write appends one frame.
func (cw *Writer) Write(f Frame) error {
	records := []Frame{f}
	if !cw.headerWritten {
		if err := gocsv.Marshal(records, cw.w); err != nil {
			return fmt.Errorf("writing trace: %w", err)
		}
		cw.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, cw.w); err != nil {
		return fmt.Errorf("writing trace: %w", err)
	}
	return nil
}
