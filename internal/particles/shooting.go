package particles

import (
	"image/color"
	"math"
	"time"
)

const (
	shootingMaxLife   = 255.0
	shootingLifeDecay = 8.0
	trailFade         = 10.0
	trailWidth        = 2.0
	shootingTopBand   = 0.3
)

// TrailPoint is a past position of a shooting star with its fading opacity.
type TrailPoint struct {
	X, Y  float64
	Alpha float64
}

// ShootingStar is a single streak moving at a fixed angle and speed.
type ShootingStar struct {
	X, Y  float64
	Angle float64
	Speed float64
	Life  float64
	// Trail is ordered oldest first.
	Trail []TrailPoint
}

// Spawner owns at most one ShootingStar and decides when the next one appears.
type Spawner struct {
	width  float64
	height float64
	rng    Source

	star *ShootingStar
	next time.Duration
}

func NewSpawner(width, height float64, rng Source) *Spawner {
	return &Spawner{width: width, height: height, rng: rng}
}

// Resize changes the bounds used for spawning and retirement.
func (s *Spawner) Resize(width, height float64) {
	s.width = width
	s.height = height
}

// Star returns the live shooting star, or nil.
func (s *Spawner) Star() *ShootingStar { return s.star }

// NextSpawn is the earliest time MaybeSpawn will act.
func (s *Spawner) NextSpawn() time.Duration { return s.next }

// Schedule drops any live star and sets the first spawn 0.5 to 2.5 seconds
// after now.
func (s *Spawner) Schedule(now time.Duration) {
	s.star = nil
	s.next = now + s.randomDelay(500, 2500)
}

// MaybeSpawn creates a star if the schedule has elapsed and none is live.
// Once the schedule has elapsed the next time is pushed out whether or not a
// star was created. It reports whether a star was created.
func (s *Spawner) MaybeSpawn(now time.Duration) bool {
	if now < s.next {
		return false
	}
	spawned := false
	if s.star == nil {
		r := s.rng
		s.star = &ShootingStar{
			X:     r.Range(0, s.width),
			Y:     r.Range(0, s.height*shootingTopBand),
			Angle: r.Range(math.Pi/6, math.Pi/3),
			Speed: r.Range(5, 10),
			Life:  shootingMaxLife,
		}
		spawned = true
	}
	s.next = now + s.randomDelay(3000, 6000)
	return spawned
}

func (s *Spawner) randomDelay(loMs, hiMs float64) time.Duration {
	return time.Duration(s.rng.Range(loMs, hiMs) * float64(time.Millisecond))
}

// Advance moves the live star one step, ages its trail and retires it once
// it leaves the field or fades out.
func (s *Spawner) Advance() {
	st := s.star
	if st == nil {
		return
	}
	st.Trail = append(st.Trail, TrailPoint{X: st.X, Y: st.Y, Alpha: st.Life})
	st.X += math.Cos(st.Angle) * st.Speed
	st.Y += math.Sin(st.Angle) * st.Speed
	st.Life -= shootingLifeDecay

	for i := len(st.Trail) - 1; i >= 0; i-- {
		st.Trail[i].Alpha -= trailFade
		if st.Trail[i].Alpha <= 0 {
			st.Trail = append(st.Trail[:i], st.Trail[i+1:]...)
		}
	}

	if st.X > s.width || st.Y > s.height || st.Life <= 0 {
		s.star = nil
	}
}

// Render draws the trail as line segments, each with the opacity of its
// newer endpoint.
func (s *Spawner) Render(surf Surface) {
	st := s.star
	if st == nil {
		return
	}
	for i := len(st.Trail) - 1; i > 0; i-- {
		p, prev := st.Trail[i], st.Trail[i-1]
		a := uint8(clamp(p.Alpha, 0, 255))
		surf.StrokeLine(p.X, p.Y, prev.X, prev.Y, trailWidth, color.NRGBA{R: 255, G: 255, B: 255, A: a})
	}
}
