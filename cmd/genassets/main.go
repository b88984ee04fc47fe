// genassets writes the default jukebox and deck assets: two synthesized WAV
// tunes and three gradient PNG backgrounds.
//
// Usage: go run ./cmd/genassets -dir assets
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	sampleRate = 44100
	bitDepth   = 16
	numChans   = 2
	wavPCM     = 1
	amplitude  = 0.3
)

// note is a pitch in Hz (0 = rest) held for beats.
type note struct {
	freq  float64
	beats float64
}

const (
	c4 = 261.63
	d4 = 293.66
	e4 = 329.63
	f4 = 349.23
	g4 = 392.00
	a4 = 440.00
	b3 = 246.94
)

var jingle = []note{
	{e4, 1}, {e4, 1}, {e4, 2},
	{e4, 1}, {e4, 1}, {e4, 2},
	{e4, 1}, {g4, 1}, {c4, 1.5}, {d4, 0.5}, {e4, 4},
	{f4, 1}, {f4, 1}, {f4, 1.5}, {f4, 0.5},
	{f4, 1}, {e4, 1}, {e4, 1}, {e4, 0.5}, {e4, 0.5},
	{e4, 1}, {d4, 1}, {d4, 1}, {e4, 1}, {d4, 2}, {g4, 2},
}

// chords are played as sustained triads, one per bar.
var chords = [][]float64{
	{c4, e4, g4},
	{a4 / 2, c4, e4},
	{f4 / 2, a4 / 2, c4},
	{g4 / 2, b3, d4},
}

func main() {
	dir := flag.String("dir", "assets", "Output directory")
	width := flag.Int("width", 800, "Background width")
	height := flag.Int("height", 600, "Background height")
	flag.Parse()

	if err := os.MkdirAll(*dir, 0o755); err != nil {
		slog.Error("creating output directory", "error", err)
		os.Exit(1)
	}

	tempo := 0.25 // seconds per beat
	jobs := []struct {
		name    string
		samples []float64
	}{
		{"sound1.wav", melody(jingle, tempo)},
		{"sound2.wav", progression(chords, 2.0, 2)},
	}
	for _, j := range jobs {
		path := filepath.Join(*dir, j.name)
		if err := writeWAV(path, j.samples); err != nil {
			slog.Error("writing sound", "path", path, "error", err)
			os.Exit(1)
		}
		slog.Info("wrote sound", "path", path, "seconds", float64(len(j.samples))/sampleRate)
	}

	skies := []struct {
		top, bottom color.NRGBA
		dots        int
	}{
		{color.NRGBA{R: 5, G: 10, B: 40, A: 255}, color.NRGBA{R: 30, G: 40, B: 90, A: 255}, 200},
		{color.NRGBA{R: 40, G: 10, B: 5, A: 255}, color.NRGBA{R: 120, G: 50, B: 10, A: 255}, 0},
		{color.NRGBA{R: 10, G: 40, B: 20, A: 255}, color.NRGBA{R: 200, G: 220, B: 230, A: 255}, 60},
	}
	rng := rand.New(rand.NewSource(2024))
	for i, s := range skies {
		path := filepath.Join(*dir, fmt.Sprintf("background%d.png", i+1))
		img := gradient(*width, *height, s.top, s.bottom)
		sprinkle(img, rng, s.dots)
		if err := writePNG(path, img); err != nil {
			slog.Error("writing background", "path", path, "error", err)
			os.Exit(1)
		}
		slog.Info("wrote background", "path", path)
	}
}

// envelope is a short attack and exponential release for a tone of n samples.
func envelope(i, n int) float64 {
	attack := sampleRate / 100
	if i < attack {
		return float64(i) / float64(attack)
	}
	return math.Exp(-3 * float64(i) / float64(n))
}

// bell is a sine with a quieter octave partial.
func bell(freq float64, i int) float64 {
	t := float64(i) / sampleRate
	return math.Sin(2*math.Pi*freq*t) + 0.3*math.Sin(4*math.Pi*freq*t)
}

func melody(notes []note, beat float64) []float64 {
	var out []float64
	for _, nt := range notes {
		n := int(nt.beats * beat * sampleRate)
		for i := 0; i < n; i++ {
			v := 0.0
			if nt.freq > 0 {
				v = bell(nt.freq, i) * envelope(i, n) / 1.3
			}
			out = append(out, v)
		}
	}
	return out
}

func progression(chords [][]float64, barSeconds float64, repeats int) []float64 {
	var out []float64
	n := int(barSeconds * sampleRate)
	for r := 0; r < repeats; r++ {
		for _, ch := range chords {
			for i := 0; i < n; i++ {
				v := 0.0
				for _, f := range ch {
					v += bell(f, i)
				}
				out = append(out, v*envelope(i, n)/(1.3*float64(len(ch))))
			}
		}
	}
	return out
}

func writeWAV(path string, mono []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	peak := float64(int(1)<<(bitDepth-1) - 1)
	data := make([]int, 0, len(mono)*numChans)
	for _, v := range mono {
		s := int(math.Max(-1, math.Min(1, v*amplitude)) * peak)
		data = append(data, s, s)
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: numChans, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}

	enc := wav.NewEncoder(f, sampleRate, bitDepth, numChans, wavPCM)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return enc.Close()
}

func gradient(w, h int, top, bottom color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	lerp := func(a, b uint8, t float64) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*t)
	}
	for y := 0; y < h; y++ {
		t := float64(y) / float64(max(1, h-1))
		c := color.NRGBA{
			R: lerp(top.R, bottom.R, t),
			G: lerp(top.G, bottom.G, t),
			B: lerp(top.B, bottom.B, t),
			A: 255,
		}
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// sprinkle scatters faint pale dots over the upper two thirds.
func sprinkle(img *image.NRGBA, rng *rand.Rand, n int) {
	b := img.Bounds()
	for i := 0; i < n; i++ {
		x := rng.Intn(b.Dx())
		y := rng.Intn(max(1, b.Dy()*2/3))
		v := uint8(150 + rng.Intn(100))
		img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
	}
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
