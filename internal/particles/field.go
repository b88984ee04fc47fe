// Package particles simulates the per-frame snow, fire and star effects and
// the shooting star that occasionally crosses the star field.
package particles

import (
	"fmt"
	"image/color"
	"math"
	"strings"
)

// Kind selects the particle behaviour of a Field.
type Kind int

const (
	Snow Kind = iota
	Fire
	Stars
)

func (k Kind) String() string {
	switch k {
	case Snow:
		return "snow"
	case Fire:
		return "fire"
	case Stars:
		return "stars"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind maps a name such as "snow" to its Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "snow":
		return Snow, nil
	case "fire":
		return Fire, nil
	case "stars", "star":
		return Stars, nil
	}
	return 0, fmt.Errorf("unknown particle kind %q", s)
}

const (
	snowSwayFactor  = 0.5
	snowRespawnTop  = -50.0
	fireLifeDecay   = 0.02
	fireSizeDecay   = 0.98
	fireMinSize     = 1.0
	fireFlickerSpan = 2.0
	fireSpawnSpread = 100.0
	fireBaseOffset  = 50.0
	twinkleStep     = 0.08
	twinkleAmp      = 70.0
	starMinBright   = 100.0
	starMaxBright   = 255.0
)

// Particle holds the state of one particle. Which fields are meaningful
// depends on the Kind of the owning Field.
type Particle struct {
	X, Y float64
	Size float64

	// Speed is the fall speed for snow and the rise speed for fire.
	Speed float64
	Sway  float64 // snow

	Flicker  float64 // fire
	Life     float64 // fire, in [0,1]
	BaseSize float64 // fire, size captured at (re)spawn

	Brightness float64 // stars, baseline
	Twinkle    float64 // stars, phase
}

// Field is a fixed-size set of particles of one kind.
type Field struct {
	kind   Kind
	width  float64
	height float64
	rng    Source

	particles []Particle
}

// NewField returns an empty field. Init must be called before Advance or Render.
func NewField(kind Kind, rng Source) *Field {
	return &Field{kind: kind, rng: rng}
}

func (f *Field) Kind() Kind { return f.kind }

// Bounds returns the field width and height.
func (f *Field) Bounds() (float64, float64) { return f.width, f.height }

// Particles exposes the live particle slice. Callers must not retain it
// across Init.
func (f *Field) Particles() []Particle { return f.particles }

func (f *Field) Len() int { return len(f.particles) }

// Init replaces the particle set with count freshly randomized particles
// scoped to a width x height field.
func (f *Field) Init(count int, width, height float64) {
	if count < 0 {
		count = 0
	}
	f.width = width
	f.height = height
	f.particles = make([]Particle, count)
	for i := range f.particles {
		f.spawn(&f.particles[i])
	}
}

func (f *Field) spawn(p *Particle) {
	r := f.rng
	switch f.kind {
	case Snow:
		*p = Particle{
			X:     r.Range(0, f.width),
			Y:     r.Range(-f.height, 0),
			Size:  r.Range(2, 5),
			Speed: r.Range(1, 3),
			Sway:  r.Range(-1, 1),
		}
	case Fire:
		size := r.Range(10, 25)
		*p = Particle{
			X:        r.Range(0, f.width),
			Y:        r.Range(0, f.height),
			Size:     size,
			BaseSize: size,
			Speed:    r.Range(0.5, 2),
			Flicker:  r.Range(0.5, 2),
			Life:     r.Range(0, 1),
		}
	case Stars:
		*p = Particle{
			X:          r.Range(0, f.width),
			Y:          r.Range(0, f.height),
			Size:       r.Range(1, 3),
			Brightness: r.Range(150, 255),
			Twinkle:    r.Range(0, 2*math.Pi),
		}
	}
}

// Advance steps every particle once.
func (f *Field) Advance() {
	for i := range f.particles {
		p := &f.particles[i]
		switch f.kind {
		case Snow:
			f.stepSnow(p)
		case Fire:
			f.stepFire(p)
		case Stars:
			p.Twinkle += twinkleStep
		}
	}
}

func (f *Field) stepSnow(p *Particle) {
	p.Y += p.Speed
	p.X += p.Sway * snowSwayFactor
	if p.Y > f.height {
		p.Y = f.rng.Range(snowRespawnTop, 0)
		p.X = f.rng.Range(0, f.width)
	}
	if p.X < 0 || p.X > f.width {
		p.Sway = -p.Sway
	}
}

func (f *Field) stepFire(p *Particle) {
	p.Y -= p.Speed
	p.X += f.rng.Range(-fireFlickerSpan, fireFlickerSpan) * p.Flicker
	p.Life -= fireLifeDecay
	p.Size *= fireSizeDecay
	if FireExpired(*p) {
		f.resetFire(p)
	}
}

// FireExpired reports whether a fire particle is due for a reset.
func FireExpired(p Particle) bool {
	return p.Life <= 0 || p.Size < fireMinSize
}

func (f *Field) resetFire(p *Particle) {
	r := f.rng
	p.Y = f.height - fireBaseOffset
	p.X = f.width/2 + r.Range(-fireSpawnSpread, fireSpawnSpread)
	p.Size = r.Range(10, 25)
	p.BaseSize = p.Size
	p.Life = r.Range(0.8, 1)
	p.Speed = r.Range(0.5, 2)
}

// StarBrightness is the displayed brightness of a star with the given
// baseline at twinkle phase, always within [100, 255].
func StarBrightness(base, phase float64) float64 {
	return clamp(base+math.Sin(phase)*twinkleAmp, starMinBright, starMaxBright)
}

// Render draws the current state of the field. It does not mutate particles.
func (f *Field) Render(s Surface) {
	switch f.kind {
	case Snow:
		for _, p := range f.particles {
			s.FillEllipse(p.X, p.Y, p.Size, p.Size, color.White)
		}
	case Fire:
		for _, p := range f.particles {
			outer, inner := FireColors(p.Life)
			s.FillEllipse(p.X, p.Y, p.Size, p.Size, outer)
			s.FillEllipse(p.X, p.Y, p.Size*0.7, p.Size*0.7, inner)
		}
	case Stars:
		for _, p := range f.particles {
			b := uint8(StarBrightness(p.Brightness, p.Twinkle))
			s.FillEllipse(p.X, p.Y, p.Size, p.Size, color.NRGBA{R: b, G: b, B: b, A: 255})
		}
	}
}

// FireColors returns the outer and inner disc colours for a flame with the
// given life. Life maps linearly onto alpha and onto a red to orange tint.
func FireColors(life float64) (outer, inner color.NRGBA) {
	l := clamp(life, 0, 1)
	alpha := l * 255
	inner = color.NRGBA{R: uint8(255 * l), G: uint8(150 * l), B: 0, A: uint8(alpha)}
	outer = color.NRGBA{R: uint8(255 * l * 0.8), G: uint8(100 * l), B: 0, A: uint8(alpha * 0.7)}
	return outer, inner
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
