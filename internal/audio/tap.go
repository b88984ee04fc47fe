package audio

import (
	"math"
	"sync"

	"github.com/faiface/beep"
	"gonum.org/v1/gonum/floats"
)

// Tap wraps a beep.Streamer and records the last N samples into a ring buffer
// so the renderer can measure what was just played.
type Tap struct {
	Source    beep.Streamer
	buffer    [][2]float64
	nextIndex int
	filled    int
	mu        sync.RWMutex
}

func NewTap(src beep.Streamer, ringSize int) *Tap {
	return &Tap{
		Source: src,
		buffer: make([][2]float64, ringSize),
	}
}

func (t *Tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.Source.Stream(samples)
	if n > 0 {
		t.mu.Lock()
		for i := 0; i < n; i++ {
			t.buffer[t.nextIndex] = samples[i]
			t.nextIndex++
			if t.nextIndex >= len(t.buffer) {
				t.nextIndex = 0
			}
		}
		t.filled = min(t.filled+n, len(t.buffer))
		t.mu.Unlock()
	}
	return n, ok
}

func (t *Tap) Err() error { return t.Source.Err() }

// Reset forgets everything recorded so far.
func (t *Tap) Reset() {
	t.mu.Lock()
	clear(t.buffer)
	t.nextIndex = 0
	t.filled = 0
	t.mu.Unlock()
}

// Snapshot returns up to the last n recorded samples, most recent last.
func (t *Tap) Snapshot(n int) [][2]float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n = min(n, t.filled)
	out := make([][2]float64, n)
	idx := t.nextIndex - n
	if idx < 0 {
		idx += len(t.buffer)
	}
	for i := range out {
		out[i] = t.buffer[idx]
		idx++
		if idx >= len(t.buffer) {
			idx = 0
		}
	}
	return out
}

// Level is the RMS amplitude of the last n samples mixed down to mono.
func (t *Tap) Level(n int) float64 {
	return RMS(mono(t.Snapshot(n)))
}

// Bands splits the last n samples into nBands equal segments and returns
// the compressed RMS of each, blended into prev with the given smoothing.
// prev is reused when it already has nBands entries.
func (t *Tap) Bands(prev []float64, n, nBands int, smoothing float64) []float64 {
	if len(prev) != nBands {
		prev = make([]float64, nBands)
	}
	m := mono(t.Snapshot(n))
	if len(m) == 0 {
		return prev
	}
	segment := max(1, len(m)/nBands)
	for i := 0; i < nBands; i++ {
		start := i * segment
		if start >= len(m) {
			break
		}
		end := min(start+segment, len(m))
		mag := math.Pow(RMS(m[start:end]), 0.3)
		prev[i] = smoothing*prev[i] + (1-smoothing)*mag
	}
	return prev
}

// RMS returns the root mean square of x, 0 for an empty slice.
func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return math.Sqrt(floats.Dot(x, x) / float64(len(x)))
}

func mono(samples [][2]float64) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = (s[0] + s[1]) * 0.5
	}
	return out
}
