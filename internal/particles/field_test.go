package particles

import (
	"image/color"
	"math"
	"testing"
)

// fixedSource always returns the same fraction of the requested range.
type fixedSource struct {
	frac float64
}

func (s fixedSource) Range(lo, hi float64) float64 { return lo + s.frac*(hi-lo) }

type ellipse struct {
	cx, cy, w, h float64
	c            color.Color
}

type line struct {
	x0, y0, x1, y1, width float64
	c                     color.Color
}

type recordingSurface struct {
	ellipses []ellipse
	lines    []line
}

func (r *recordingSurface) FillEllipse(cx, cy, w, h float64, c color.Color) {
	r.ellipses = append(r.ellipses, ellipse{cx, cy, w, h, c})
}

func (r *recordingSurface) StrokeLine(x0, y0, x1, y1, width float64, c color.Color) {
	r.lines = append(r.lines, line{x0, y0, x1, y1, width, c})
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"snow", Snow},
		{"Fire", Fire},
		{" stars ", Stars},
		{"star", Stars},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if err != nil {
			t.Fatalf("ParseKind(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := ParseKind("rain"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestInitRanges(t *testing.T) {
	const w, h = 800.0, 600.0
	rng := NewSource(42)

	snow := NewField(Snow, rng)
	snow.Init(200, w, h)
	for i, p := range snow.Particles() {
		if p.X < 0 || p.X >= w || p.Y < -h || p.Y >= 0 {
			t.Fatalf("snow %d position out of range: (%f, %f)", i, p.X, p.Y)
		}
		if p.Size < 2 || p.Size >= 5 || p.Speed < 1 || p.Speed >= 3 || p.Sway < -1 || p.Sway >= 1 {
			t.Fatalf("snow %d attributes out of range: %+v", i, p)
		}
	}

	fire := NewField(Fire, rng)
	fire.Init(200, w, h)
	for i, p := range fire.Particles() {
		if p.Size < 10 || p.Size >= 25 || p.BaseSize != p.Size {
			t.Fatalf("fire %d size out of range: %+v", i, p)
		}
		if p.Speed < 0.5 || p.Speed >= 2 || p.Flicker < 0.5 || p.Flicker >= 2 || p.Life < 0 || p.Life >= 1 {
			t.Fatalf("fire %d attributes out of range: %+v", i, p)
		}
	}

	stars := NewField(Stars, rng)
	stars.Init(200, w, h)
	for i, p := range stars.Particles() {
		if p.Size < 1 || p.Size >= 3 || p.Brightness < 150 || p.Brightness >= 255 {
			t.Fatalf("star %d attributes out of range: %+v", i, p)
		}
		if p.Twinkle < 0 || p.Twinkle >= 2*math.Pi {
			t.Fatalf("star %d twinkle out of range: %f", i, p.Twinkle)
		}
	}
}

func TestCountFixedAcrossAdvance(t *testing.T) {
	for _, kind := range []Kind{Snow, Fire, Stars} {
		f := NewField(kind, NewSource(3))
		f.Init(37, 400, 300)
		for i := 0; i < 500; i++ {
			f.Advance()
		}
		if f.Len() != 37 {
			t.Errorf("%v: expected 37 particles, got %d", kind, f.Len())
		}
	}
}

func TestSnowRecyclesSameStep(t *testing.T) {
	f := NewField(Snow, fixedSource{frac: 0.5})
	f.Init(1, 100, 100)
	p := &f.Particles()[0]
	p.X, p.Y, p.Speed, p.Sway = 50, 99, 5, 0

	f.Advance()

	if p.Y < -50 || p.Y >= 0 {
		t.Errorf("expected recycled y in [-50, 0), got %f", p.Y)
	}
	if p.X < 0 || p.X >= 100 {
		t.Errorf("expected recycled x in [0, 100), got %f", p.X)
	}
}

func TestSnowNoRecycleAtBound(t *testing.T) {
	f := NewField(Snow, fixedSource{frac: 0.5})
	f.Init(1, 100, 100)
	p := &f.Particles()[0]
	p.X, p.Y, p.Speed, p.Sway = 50, 95, 5, 0

	f.Advance()

	if p.Y != 100 {
		t.Errorf("y exactly at the bound must not recycle, got %f", p.Y)
	}
}

func TestSnowSwayFlips(t *testing.T) {
	f := NewField(Snow, fixedSource{frac: 0.5})
	f.Init(1, 100, 100)
	p := &f.Particles()[0]
	p.X, p.Y, p.Speed, p.Sway = 99.8, 10, 1, 1

	f.Advance()
	if p.Sway != -1 {
		t.Fatalf("expected sway to flip to -1 after crossing right edge, got %f", p.Sway)
	}

	f.Advance()
	if p.X < 0 || p.X > 100 {
		t.Errorf("expected x back inside after one correction step, got %f", p.X)
	}
	if p.Sway != -1 {
		t.Errorf("sway should not flip again while inside, got %f", p.Sway)
	}
}

func TestSnowStaysInBounds(t *testing.T) {
	const w, h = 320.0, 240.0
	f := NewField(Snow, NewSource(11))
	f.Init(100, w, h)
	for step := 0; step < 2000; step++ {
		f.Advance()
		for i, p := range f.Particles() {
			if p.Y > h {
				t.Fatalf("step %d: flake %d below field: y=%f", step, i, p.Y)
			}
			if p.X < -snowSwayFactor || p.X > w+snowSwayFactor {
				t.Fatalf("step %d: flake %d drifted out: x=%f", step, i, p.X)
			}
		}
	}
}

func TestFireDecayAndReset(t *testing.T) {
	const w, h = 800.0, 600.0
	f := NewField(Fire, NewSource(7))
	f.Init(30, w, h)

	resets := 0
	for step := 0; step < 300; step++ {
		prev := append([]Particle(nil), f.Particles()...)
		f.Advance()
		for i, p := range f.Particles() {
			life := prev[i].Life - fireLifeDecay
			size := prev[i].Size * fireSizeDecay
			if life <= 0 || size < fireMinSize {
				resets++
				if p.Life < 0.8 || p.Life >= 1 {
					t.Fatalf("step %d: reset life out of range: %f", step, p.Life)
				}
				if p.Size < 10 || p.Size >= 25 || p.BaseSize != p.Size {
					t.Fatalf("step %d: reset size out of range: %+v", step, p)
				}
				if p.Y != h-fireBaseOffset || p.X < w/2-100 || p.X >= w/2+100 {
					t.Fatalf("step %d: reset origin wrong: (%f, %f)", step, p.X, p.Y)
				}
				continue
			}
			if p.Life != life || p.Size != size {
				t.Fatalf("step %d: particle %d should decay without reset: got life=%f size=%f want %f %f",
					step, i, p.Life, p.Size, life, size)
			}
		}
	}
	if resets == 0 {
		t.Error("expected at least one reset over 300 steps")
	}
}

func TestFireResetWithinFiftySteps(t *testing.T) {
	f := NewField(Fire, fixedSource{frac: 0.5})
	f.Init(1, 800, 600)
	p := &f.Particles()[0]
	p.Life, p.Size, p.BaseSize = 1, 25, 25

	resetAt := 0
	for call := 1; call <= 50; call++ {
		before := p.Life
		f.Advance()
		if p.Life > before {
			resetAt = call
			break
		}
	}
	if resetAt == 0 {
		t.Fatalf("expected reset by call 50, life=%f", p.Life)
	}
	if resetAt != 50 {
		t.Errorf("expected life to run out on call 50, reset on call %d", resetAt)
	}
}

func TestStarBrightnessBounds(t *testing.T) {
	for base := 150.0; base <= 255; base += 5 {
		for phase := -20.0; phase < 20; phase += 0.037 {
			b := StarBrightness(base, phase)
			if b < 100 || b > 255 {
				t.Fatalf("brightness(%f, %f) = %f out of [100, 255]", base, phase, b)
			}
		}
	}
	if got := StarBrightness(200, 0); got != 200 {
		t.Errorf("expected baseline at zero phase, got %f", got)
	}
	if got := StarBrightness(250, math.Pi/2); got != 255 {
		t.Errorf("expected clamp to 255, got %f", got)
	}
}

func TestStarsTwinkleInPlace(t *testing.T) {
	f := NewField(Stars, NewSource(5))
	f.Init(10, 200, 200)
	before := append([]Particle(nil), f.Particles()...)

	for i := 0; i < 3; i++ {
		f.Advance()
	}

	for i, p := range f.Particles() {
		if p.X != before[i].X || p.Y != before[i].Y {
			t.Errorf("star %d moved", i)
		}
		if math.Abs(p.Twinkle-(before[i].Twinkle+3*twinkleStep)) > 1e-9 {
			t.Errorf("star %d twinkle = %f, want %f", i, p.Twinkle, before[i].Twinkle+3*twinkleStep)
		}
	}
}

func TestRenderDoesNotMutate(t *testing.T) {
	for _, kind := range []Kind{Snow, Fire, Stars} {
		f := NewField(kind, NewSource(9))
		f.Init(20, 300, 300)
		f.Advance()
		before := append([]Particle(nil), f.Particles()...)

		var surf recordingSurface
		f.Render(&surf)

		for i, p := range f.Particles() {
			if p != before[i] {
				t.Fatalf("%v: render mutated particle %d", kind, i)
			}
		}

		want := 20
		if kind == Fire {
			want = 40
		}
		if len(surf.ellipses) != want {
			t.Errorf("%v: expected %d ellipses, got %d", kind, want, len(surf.ellipses))
		}
	}
}

func TestFireColors(t *testing.T) {
	outer, inner := FireColors(1)
	if inner != (color.NRGBA{R: 255, G: 150, B: 0, A: 255}) {
		t.Errorf("unexpected inner colour at full life: %+v", inner)
	}
	if outer.A >= inner.A || outer.R >= inner.R {
		t.Errorf("outer disc should be dimmer than inner: outer=%+v inner=%+v", outer, inner)
	}

	outer, inner = FireColors(0)
	if outer.A != 0 || inner.A != 0 {
		t.Errorf("expected transparent flame at zero life, got %+v %+v", outer, inner)
	}
}
