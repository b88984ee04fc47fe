package audio

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

// Sink is where tracks send their audio. Lock and Unlock guard state the
// sink's playback goroutine reads.
type Sink interface {
	SampleRate() beep.SampleRate
	Play(s ...beep.Streamer)
	Lock()
	Unlock()
}

// Speaker is the Sink backed by the system audio device.
type Speaker struct {
	rate beep.SampleRate
}

var (
	speakerOnce sync.Once
	speakerErr  error
)

// NewSpeaker initializes the audio device once at the given rate. Later calls
// return a Speaker at the rate of the first successful call.
func NewSpeaker(rate beep.SampleRate, buffer time.Duration) (*Speaker, error) {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(rate, rate.N(buffer))
		if speakerErr == nil {
			slog.Info("speaker initialized", "sample_rate", int(rate), "buffer", buffer)
		}
	})
	if speakerErr != nil {
		return nil, fmt.Errorf("initializing speaker: %w", speakerErr)
	}
	return &Speaker{rate: rate}, nil
}

func (s *Speaker) SampleRate() beep.SampleRate { return s.rate }
func (s *Speaker) Play(st ...beep.Streamer)    { speaker.Play(st...) }
func (s *Speaker) Lock()                       { speaker.Lock() }
func (s *Speaker) Unlock()                     { speaker.Unlock() }

// Clear stops everything the speaker is playing. It takes the speaker lock
// itself and must not be called while holding it.
func (s *Speaker) Clear() { speaker.Clear() }
