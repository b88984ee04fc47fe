// fxtrace steps a particle animation without a window and writes one CSV
// row per frame.
//
// Usage: go run ./cmd/fxtrace -kind stars -frames 600 -out stars.csv
package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/iburimskiy/holiday-deck/internal/config"
	"github.com/iburimskiy/holiday-deck/internal/particles"
	"github.com/iburimskiy/holiday-deck/internal/trace"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	kindName := flag.String("kind", "snow", "Animation: snow, fire or stars")
	count := flag.Int("count", 0, "Particle count (0 = from config)")
	frames := flag.Int("frames", 600, "Number of frames to step")
	seed := flag.Int64("seed", 1, "Particle RNG seed")
	out := flag.String("out", "", "Output CSV path (empty = stdout)")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	kind, err := particles.ParseKind(*kindName)
	if err != nil {
		slog.Error("bad -kind", "error", err)
		os.Exit(2)
	}
	if *count <= 0 {
		*count = cfg.ParticleCount(kind.String())
	}

	dst := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			slog.Error("creating output", "path", *out, "error", err)
			os.Exit(1)
		}
		defer f.Close()
		dst = f
	}

	w := trace.NewWriter(dst)
	opts := trace.Options{
		Kind:      kind,
		Count:     *count,
		Width:     float64(cfg.Window.Width),
		Height:    float64(cfg.Window.Height),
		Seed:      *seed,
		Frames:    *frames,
		FrameTime: time.Second / time.Duration(cfg.Window.TPS),
	}
	start := time.Now()
	if err := trace.Run(opts, w.Write); err != nil {
		slog.Error("trace failed", "error", err)
		os.Exit(1)
	}
	slog.Info("trace written", "kind", kind.String(), "particles", *count, "frames", *frames,
		"elapsed", time.Since(start).Round(time.Millisecond))
}
