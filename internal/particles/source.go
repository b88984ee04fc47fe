package particles

import (
	"math/rand"
	"sync"
	"time"
)

// Source is a uniform random number source over a half-open range.
type Source interface {
	Range(lo, hi float64) float64
}

type randSource struct {
	r *rand.Rand
}

// NewSource returns a Source seeded with seed. A zero seed uses the current time.
func NewSource(seed int64) Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &randSource{r: rand.New(rand.NewSource(seed))}
}

func (s *randSource) Range(lo, hi float64) float64 {
	return lo + s.r.Float64()*(hi-lo)
}

// Clock reports time elapsed since some fixed origin.
type Clock interface {
	Elapsed() time.Duration
}

type monoClock struct {
	start time.Time
}

// NewClock returns a Clock whose origin is the moment of the call.
func NewClock() Clock {
	return monoClock{start: time.Now()}
}

func (c monoClock) Elapsed() time.Duration { return time.Since(c.start) }

// ManualClock is a Clock advanced explicitly, for headless stepping.
type ManualClock struct {
	mu  sync.Mutex
	now time.Duration
}

func (c *ManualClock) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Add moves the clock forward by d.
func (c *ManualClock) Add(d time.Duration) {
	c.mu.Lock()
	c.now += d
	c.mu.Unlock()
}
