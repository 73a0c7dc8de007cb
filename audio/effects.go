package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/lixenwraith/bugsnake/constants"
	"github.com/lixenwraith/bugsnake/core"
)

// envelope applies linear attack/release shaping to a stream
type envelope struct {
	streamer     beep.Streamer
	position     int
	attack       int
	releaseStart int
	release      int
	total        int
}

// NewEnvelope shapes s over duration; attack and release are clamped to fit
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := min(rate.N(attack), total)
	rel := min(rate.N(release), total-att)

	return &envelope{
		streamer:     s,
		attack:       att,
		release:      rel,
		releaseStart: total - rel,
		total:        total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.total {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		}
		if e.position >= e.releaseStart && e.release > 0 {
			vol = float64(e.total-e.position) / float64(e.release)
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}

	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales a stream linearly; zero or negative volume is silent
// effects.Volume works in log space where log2(0) is -Inf
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// note is one shaped sine tone; frequencies above Nyquist play as silence
func note(freq float64, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	tone, err := generators.SineTone(rate, freq)
	if err != nil {
		tone = beep.Silence(-1)
	}
	return NewEnvelope(beep.Take(rate.N(duration), tone), duration, attack, release, rate)
}

// delayed prefixes s with silence
func delayed(s beep.Streamer, delay time.Duration, rate beep.SampleRate) beep.Streamer {
	return beep.Seq(beep.Silence(rate.N(delay)), s)
}

// CreateEatSound generates the upward two-note chirp played when a bug is eaten
func CreateEatSound(cfg *AudioConfig) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	n1 := note(constants.EatSoundNote1Freq, constants.EatSoundNoteDuration, constants.EatSoundAttack, constants.EatSoundRelease, rate)
	n2 := note(constants.EatSoundNote2Freq, constants.EatSoundNoteDuration, constants.EatSoundAttack, constants.EatSoundRelease, rate)

	mixed := beep.Mix(n1, delayed(n2, constants.EatSoundNote2Delay, rate))

	vol := cfg.EffectVolumes[core.SoundEat] * cfg.MasterVolume
	return newVolume(mixed, vol)
}

// CreateGameOverSound generates the downward two-tone played on a crash
func CreateGameOverSound(cfg *AudioConfig) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	n1 := note(constants.GameOverSoundNote1Freq, constants.GameOverSoundNote1Duration, constants.GameOverSoundAttack, constants.GameOverSoundRelease, rate)
	n2 := note(constants.GameOverSoundNote2Freq, constants.GameOverSoundNote2Duration, constants.GameOverSoundAttack, constants.GameOverSoundRelease, rate)

	mixed := beep.Mix(n1, delayed(n2, constants.GameOverSoundNote2Delay, rate))

	vol := cfg.EffectVolumes[core.SoundGameOver] * cfg.MasterVolume
	return newVolume(mixed, vol)
}

// SoundLength returns the playing time of a sound effect
func SoundLength(st core.SoundType) time.Duration {
	switch st {
	case core.SoundEat:
		return constants.EatSoundNote2Delay + constants.EatSoundNoteDuration
	case core.SoundGameOver:
		return max(constants.GameOverSoundNote1Duration, constants.GameOverSoundNote2Delay+constants.GameOverSoundNote2Duration)
	default:
		return 0
	}
}

// GetSoundEffect returns the appropriate sound effect streamer for the given type
func GetSoundEffect(soundType core.SoundType, cfg *AudioConfig) beep.Streamer {
	switch soundType {
	case core.SoundEat:
		return CreateEatSound(cfg)
	case core.SoundGameOver:
		return CreateGameOverSound(cfg)
	default:
		return nil
	}
}
