package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/bugsnake/core"
)

// drain streams s to completion and returns the sample count and peak amplitude
func drain(t *testing.T, s beep.Streamer, limit int) (total int, peak float64) {
	t.Helper()
	buf := make([][2]float64, 512)
	for total < limit {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			peak = math.Max(peak, math.Abs(buf[i][0]))
		}
		total += n
		if !ok || n == 0 {
			return total, peak
		}
	}
	t.Fatalf("Expected stream to end within %d samples", limit)
	return total, peak
}

// constant streams n samples of full amplitude
func constant(n int) beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if n <= 0 {
			return 0, false
		}
		k := min(n, len(samples))
		for i := 0; i < k; i++ {
			samples[i] = [2]float64{1, 1}
		}
		n -= k
		return k, true
	})
}

// TestNoteLength verifies a note ends at its duration and stays within [-1, 1]
func TestNoteLength(t *testing.T) {
	rate := beep.SampleRate(44100)
	duration := 20 * time.Millisecond

	total, peak := drain(t, note(440, duration, time.Millisecond, 5*time.Millisecond, rate), rate.N(time.Second))
	if total != rate.N(duration) {
		t.Errorf("Expected %d samples, got %d", rate.N(duration), total)
	}
	if peak > 1.0 || peak == 0 {
		t.Errorf("Expected peak in (0, 1], got %f", peak)
	}

	_, peak = drain(t, note(30000, duration, 0, 0, rate), rate.N(time.Second))
	if peak != 0 {
		t.Errorf("Expected silence above Nyquist, got peak %f", peak)
	}
}

// TestEnvelopeShape verifies the envelope starts silent and fades out
func TestEnvelopeShape(t *testing.T) {
	rate := beep.SampleRate(1000)
	env := NewEnvelope(constant(100), 100*time.Millisecond, 10*time.Millisecond, 20*time.Millisecond, rate)

	samples := make([][2]float64, 100)
	n, _ := env.Stream(samples)
	if n != 100 {
		t.Fatalf("Expected 100 samples, got %d", n)
	}

	if samples[0][0] != 0 {
		t.Errorf("Expected silent first sample, got %f", samples[0][0])
	}
	if samples[50][0] != 1 {
		t.Errorf("Expected full sustain, got %f", samples[50][0])
	}
	if samples[99][0] >= samples[80][0] {
		t.Errorf("Expected release to fade, got %f then %f", samples[80][0], samples[99][0])
	}
}

// TestEnvelopeClampsPhases verifies attack and release longer than the note do not overflow
func TestEnvelopeClampsPhases(t *testing.T) {
	rate := beep.SampleRate(1000)
	env := NewEnvelope(constant(10), 10*time.Millisecond, 50*time.Millisecond, 50*time.Millisecond, rate)

	_, peak := drain(t, env, 1000)
	if peak > 1 {
		t.Errorf("Expected peak <= 1, got %f", peak)
	}
}

// TestSoundEffectLengths verifies both effects last as long as their overlapping notes
func TestSoundEffectLengths(t *testing.T) {
	cfg := DefaultAudioConfig()
	rate := beep.SampleRate(cfg.SampleRate)

	for _, st := range []core.SoundType{core.SoundEat, core.SoundGameOver} {
		s := GetSoundEffect(st, cfg)
		if s == nil {
			t.Fatalf("Expected streamer for %s", st)
		}
		want := rate.N(SoundLength(st))
		total, peak := drain(t, s, rate.N(2*time.Second))

		if total < want || total >= want+512 {
			t.Errorf("%s: expected about %d samples, got %d", st, want, total)
		}
		if peak <= 0 || peak > 1 {
			t.Errorf("%s: expected audible peak within [0,1], got %f", st, peak)
		}
	}

	if GetSoundEffect(core.SoundTypeCount, cfg) != nil {
		t.Error("Expected nil streamer for unknown sound")
	}
}

// TestSoundEffectMutedVolume verifies zero master volume produces silence
func TestSoundEffectMutedVolume(t *testing.T) {
	cfg := DefaultAudioConfig()
	cfg.MasterVolume = 0

	_, peak := drain(t, CreateEatSound(cfg), 1<<20)
	if peak != 0 {
		t.Errorf("Expected silence, got peak %f", peak)
	}
}
