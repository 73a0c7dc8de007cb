package audio

import (
	"github.com/lixenwraith/bugsnake/config"
	"github.com/lixenwraith/bugsnake/constants"
	"github.com/lixenwraith/bugsnake/core"
)

// AudioConfig holds runtime audio parameters
type AudioConfig struct {
	Enabled       bool
	MasterVolume  float64
	EffectVolumes map[core.SoundType]float64
	SampleRate    int
}

// DefaultAudioConfig returns the stock volumes; audio starts enabled
func DefaultAudioConfig() *AudioConfig {
	return &AudioConfig{
		Enabled:      true,
		MasterVolume: 1.0,
		EffectVolumes: map[core.SoundType]float64{
			core.SoundEat:      constants.EatSoundVolume,
			core.SoundGameOver: constants.GameOverSoundVolume,
		},
		SampleRate: constants.DefaultSampleRate,
	}
}

// NewAudioConfig converts the [audio] configuration section
func NewAudioConfig(c config.AudioConfig) *AudioConfig {
	cfg := DefaultAudioConfig()
	cfg.Enabled = c.Enabled
	cfg.MasterVolume = clampVolume(c.MasterVolume)
	cfg.EffectVolumes[core.SoundEat] = clampVolume(c.EatVolume)
	cfg.EffectVolumes[core.SoundGameOver] = clampVolume(c.GameOverVolume)
	if c.SampleRate > 0 {
		cfg.SampleRate = c.SampleRate
	}
	return cfg
}

// clone returns a copy safe to read without the engine lock
func (c *AudioConfig) clone() *AudioConfig {
	cp := *c
	cp.EffectVolumes = make(map[core.SoundType]float64, len(c.EffectVolumes))
	for k, v := range c.EffectVolumes {
		cp.EffectVolumes[k] = v
	}
	return &cp
}

func clampVolume(v float64) float64 {
	return min(max(v, 0), 1)
}
