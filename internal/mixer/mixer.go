// Package mixer holds the two-deck crossfader math and the beat pulse that
// follows each deck's level.
package mixer

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// Crossfade returns the effective gains of two decks with the given volumes
// at crossfader position c (0 = deck one only, 1 = deck two only). The
// curve is equal power so the combined loudness stays constant across the
// fader.
func Crossfade(vol1, vol2, c float64) (float64, float64) {
	c = clamp(c, 0, 1)
	angle := c * math.Pi / 2
	return vol1 * math.Cos(angle), vol2 * math.Sin(angle)
}

// PulseSize maps an RMS level onto a circle diameter, never below base.
func PulseSize(level, base, gain float64) float64 {
	return math.Max(base, base+level*gain)
}

// Pulse is a pulse diameter eased towards its target with a spring.
type Pulse struct {
	Base float64
	Gain float64

	spring harmonica.Spring
	pos    float64
	vel    float64
}

// NewPulse returns a pulse resting at base, stepped fps times per second.
func NewPulse(fps int, base, gain, frequency, damping float64) *Pulse {
	return &Pulse{
		Base:   base,
		Gain:   gain,
		spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping),
		pos:    base,
	}
}

// Update moves the pulse one frame towards the size for level.
func (p *Pulse) Update(level float64) float64 {
	target := PulseSize(level, p.Base, p.Gain)
	p.pos, p.vel = p.spring.Update(p.pos, p.vel, target)
	return p.pos
}

// Size returns the current diameter, never below Base.
func (p *Pulse) Size() float64 { return math.Max(p.Base, p.pos) }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
