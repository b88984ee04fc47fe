// Package config loads the jukebox and deck settings.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Audio     AudioConfig     `yaml:"audio"`
	Particles ParticlesConfig `yaml:"particles"`
	Jukebox   JukeboxConfig   `yaml:"jukebox"`
	Deck      DeckConfig      `yaml:"deck"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	TPS    int    `yaml:"tps"` // simulation steps per second
}

// AudioConfig holds mixer and level analysis settings.
type AudioConfig struct {
	SampleRate  int     `yaml:"sample_rate"` // all tracks are resampled to this rate
	BufferMs    int     `yaml:"buffer_ms"`
	TapRingSize int     `yaml:"tap_ring_size"`
	LevelWindow int     `yaml:"level_window"` // samples per RMS measurement
	Smoothing   float64 `yaml:"smoothing"`    // weight of the previous level, 0..1
}

// ParticlesConfig holds the particle count of each animation.
type ParticlesConfig struct {
	Seed  int64 `yaml:"seed"` // 0 = time based
	Snow  int   `yaml:"snow"`
	Fire  int   `yaml:"fire"`
	Stars int   `yaml:"stars"`
}

// Asset is a named file. User assets can be replaced at runtime from the
// file picker.
type Asset struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
	User bool   `yaml:"user"`
}

type JukeboxConfig struct {
	Greeting          string  `yaml:"greeting"`
	Sounds            []Asset `yaml:"sounds"`
	Backgrounds       []Asset `yaml:"backgrounds"`
	InitialSound      int     `yaml:"initial_sound"`
	InitialBackground int     `yaml:"initial_background"`
	InitialAnimation  string  `yaml:"initial_animation"` // snow, fire, stars or empty
	Autoplay          bool    `yaml:"autoplay"`
}

type TrackConfig struct {
	Label  string  `yaml:"label"`
	Path   string  `yaml:"path"`
	Volume float64 `yaml:"volume"`
}

type DeckConfig struct {
	Tracks         []TrackConfig `yaml:"tracks"`
	Crossfader     float64       `yaml:"crossfader"` // 0 = track 1 only, 1 = track 2 only
	CrossfaderStep float64       `yaml:"crossfader_step"`
	PulseBase      float64       `yaml:"pulse_base"`
	PulseGain      float64       `yaml:"pulse_gain"`
	PulseFrequency float64       `yaml:"pulse_frequency"`
	PulseDamping   float64       `yaml:"pulse_damping"`
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load reads configuration from a YAML file layered over the embedded
// defaults. An empty path yields the defaults alone.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values the rest of the program relies on.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if c.Window.TPS <= 0 {
		return fmt.Errorf("%w: tps %d", ErrInvalid, c.Window.TPS)
	}
	if c.Particles.Snow < 0 || c.Particles.Fire < 0 || c.Particles.Stars < 0 {
		return fmt.Errorf("%w: negative particle count", ErrInvalid)
	}
	if c.Audio.SampleRate <= 0 || c.Audio.BufferMs <= 0 {
		return fmt.Errorf("%w: audio sample rate %d, buffer %dms", ErrInvalid, c.Audio.SampleRate, c.Audio.BufferMs)
	}
	if c.Audio.TapRingSize <= 0 || c.Audio.LevelWindow <= 0 || c.Audio.LevelWindow > c.Audio.TapRingSize {
		return fmt.Errorf("%w: level window %d with ring size %d", ErrInvalid, c.Audio.LevelWindow, c.Audio.TapRingSize)
	}
	if c.Audio.Smoothing < 0 || c.Audio.Smoothing >= 1 {
		return fmt.Errorf("%w: smoothing %f not in [0,1)", ErrInvalid, c.Audio.Smoothing)
	}
	if n := len(c.Jukebox.Sounds); n > 0 && (c.Jukebox.InitialSound < 0 || c.Jukebox.InitialSound >= n) {
		return fmt.Errorf("%w: initial sound %d of %d", ErrInvalid, c.Jukebox.InitialSound, n)
	}
	if n := len(c.Jukebox.Backgrounds); n > 0 && (c.Jukebox.InitialBackground < -1 || c.Jukebox.InitialBackground >= n) {
		return fmt.Errorf("%w: initial background %d of %d", ErrInvalid, c.Jukebox.InitialBackground, n)
	}
	if len(c.Deck.Tracks) != 2 {
		return fmt.Errorf("%w: deck needs exactly 2 tracks, got %d", ErrInvalid, len(c.Deck.Tracks))
	}
	for i, t := range c.Deck.Tracks {
		if t.Volume < 0 || t.Volume > 1 {
			return fmt.Errorf("%w: track %d volume %f", ErrInvalid, i+1, t.Volume)
		}
	}
	if c.Deck.Crossfader < 0 || c.Deck.Crossfader > 1 {
		return fmt.Errorf("%w: crossfader %f", ErrInvalid, c.Deck.Crossfader)
	}
	return nil
}

// ParticleCount returns the configured count for an animation name.
func (c *Config) ParticleCount(name string) int {
	switch name {
	case "snow":
		return c.Particles.Snow
	case "fire":
		return c.Particles.Fire
	case "stars":
		return c.Particles.Stars
	}
	return 0
}
