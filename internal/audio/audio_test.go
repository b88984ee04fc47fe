package audio

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
)

const testRate = beep.SampleRate(8000)

var testFormat = beep.Format{SampleRate: testRate, NumChannels: 2, Precision: 2}

// constant yields n samples of value v on both channels.
func constant(v float64, n int) beep.Streamer {
	return beep.Take(n, beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{v, v}
		}
		return len(samples), true
	}))
}

type nopCloser struct {
	beep.StreamSeeker
}

func (nopCloser) Close() error { return nil }

func bufferedSource(v float64, n int) beep.StreamSeekCloser {
	buf := beep.NewBuffer(testFormat)
	buf.Append(constant(v, n))
	return nopCloser{buf.Streamer(0, buf.Len())}
}

type fakeSink struct {
	mu     sync.Mutex
	played []beep.Streamer
}

func (s *fakeSink) SampleRate() beep.SampleRate { return testRate }
func (s *fakeSink) Play(st ...beep.Streamer)    { s.played = append(s.played, st...) }
func (s *fakeSink) Lock()                       { s.mu.Lock() }
func (s *fakeSink) Unlock()                     { s.mu.Unlock() }

// drain streams s until it ends or max samples pass, returning whether it ended.
func drain(s beep.Streamer, max int) bool {
	buf := make([][2]float64, 256)
	for total := 0; total < max; total += len(buf) {
		if _, ok := s.Stream(buf); !ok {
			return true
		}
	}
	return false
}

func TestTapSnapshotOrder(t *testing.T) {
	i := 0.0
	src := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for k := range samples {
			i++
			samples[k] = [2]float64{i, i}
		}
		return len(samples), true
	})
	tap := NewTap(src, 8)

	buf := make([][2]float64, 5)
	tap.Stream(buf)
	if got := tap.Snapshot(10); len(got) != 5 {
		t.Fatalf("expected only 5 recorded samples, got %d", len(got))
	}

	tap.Stream(buf)
	got := tap.Snapshot(4)
	want := []float64{7, 8, 9, 10}
	for k := range want {
		if got[k][0] != want[k] {
			t.Fatalf("snapshot[%d] = %f, want %f (most recent last)", k, got[k][0], want[k])
		}
	}

	tap.Reset()
	if got := tap.Snapshot(4); len(got) != 0 {
		t.Errorf("expected empty snapshot after reset, got %d", len(got))
	}
}

func TestRMS(t *testing.T) {
	if RMS(nil) != 0 {
		t.Error("expected 0 for empty input")
	}
	if got := RMS([]float64{3, -3, 3, -3}); got != 3 {
		t.Errorf("RMS = %f, want 3", got)
	}
}

func TestTapLevelAndBands(t *testing.T) {
	tap := NewTap(constant(0.5, 4096), 1024)
	drain(tap, 4096)

	if got := tap.Level(512); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("level = %f, want 0.5", got)
	}

	bands := tap.Bands(nil, 1024, 8, 0)
	if len(bands) != 8 {
		t.Fatalf("expected 8 bands, got %d", len(bands))
	}
	want := math.Pow(0.5, 0.3)
	for i, b := range bands {
		if math.Abs(b-want) > 1e-12 {
			t.Errorf("band %d = %f, want %f", i, b, want)
		}
	}

	smoothed := tap.Bands(make([]float64, 8), 1024, 8, 0.5)
	if math.Abs(smoothed[0]-want/2) > 1e-12 {
		t.Errorf("expected smoothing against zero history, got %f", smoothed[0])
	}
}

func TestOpenUnsupported(t *testing.T) {
	_, _, err := Open("song.aiff")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if !Supported("a/b/SONG.MP3") || Supported("notes.txt") {
		t.Error("unexpected Supported result")
	}
}

func TestOpenWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := wav.Encode(f, constant(0.25, 800), testFormat); err != nil {
		t.Fatalf("encode: %v", err)
	}
	f.Close()

	s, format, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()
	if format.SampleRate != testRate || s.Len() != 800 {
		t.Errorf("unexpected decoded stream: rate=%d len=%d", format.SampleRate, s.Len())
	}
}

func TestTrackPlayPauseVolume(t *testing.T) {
	sink := &fakeSink{}
	tr := NewTrack("t", bufferedSource(0.5, 8000), testFormat, sink, TrackOptions{Volume: 1, TapSize: 1024})

	if tr.Playing() {
		t.Fatal("new track must start paused")
	}
	tr.Play()
	if !tr.Playing() || len(sink.played) != 1 {
		t.Fatalf("expected track attached to sink, playing=%v streams=%d", tr.Playing(), len(sink.played))
	}
	out := sink.played[0]
	drain(out, 1024)
	if got := tr.Level(512); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("level at full volume = %f, want 0.5", got)
	}

	tr.SetVolume(0.5)
	drain(out, 1024)
	if got := tr.Level(512); math.Abs(got-0.25) > 1e-9 {
		t.Errorf("level at half volume = %f, want 0.25", got)
	}

	tr.SetVolume(0)
	drain(out, 1024)
	if got := tr.Level(512); got != 0 {
		t.Errorf("expected silence at zero volume, got %f", got)
	}

	tr.Toggle()
	if tr.Playing() || tr.Level(512) != 0 {
		t.Error("expected paused track to report no level")
	}
	tr.Toggle()
	if len(sink.played) != 1 {
		t.Error("resume must not re-attach a track still in the sink")
	}
}

func TestTrackRestartsAfterEnd(t *testing.T) {
	sink := &fakeSink{}
	tr := NewTrack("t", bufferedSource(0.5, 1000), testFormat, sink, TrackOptions{Volume: 1})
	tr.Play()
	if !drain(sink.played[0], 100000) {
		t.Fatal("expected one-shot track to end")
	}
	if tr.Playing() {
		t.Fatal("track should be detached after it ends")
	}

	tr.Play()
	if len(sink.played) != 2 {
		t.Fatalf("expected a second attach, got %d", len(sink.played))
	}
	if tr.Position() != 0 {
		t.Errorf("expected restart from 0, got %v", tr.Position())
	}
}

func TestTrackLoopAndSeek(t *testing.T) {
	sink := &fakeSink{}
	tr := NewTrack("t", bufferedSource(0.5, 1000), testFormat, sink, TrackOptions{Loop: true, Volume: 1})
	tr.Play()
	if drain(sink.played[0], 10000) {
		t.Fatal("looping track must not end")
	}

	if err := tr.SeekFraction(0.5); err != nil {
		t.Fatal(err)
	}
	if got := tr.Progress(); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("progress after seek = %f, want 0.5", got)
	}
	if err := tr.SeekFraction(2); err != nil {
		t.Fatal(err)
	}
	if tr.Position() != testRate.D(999) {
		t.Errorf("seek past end should clamp to last sample, got %v", tr.Position())
	}

	tr.Stop()
	if tr.Playing() || tr.Position() != 0 {
		t.Error("stop should pause and rewind")
	}
}
