package audio

import (
	"errors"
	"sync/atomic"

	"github.com/golang/glog"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/bugsnake/constants"
	"github.com/lixenwraith/bugsnake/core"
)

var ErrAlreadyRunning = errors.New("audio engine already running")

// output is the device the mixer is played on
type output interface {
	Init(rate beep.SampleRate, bufferSize int) error
	Play(s beep.Streamer)
	Lock()
	Unlock()
	Close()
}

// speakerOutput plays through the process-wide beep speaker
type speakerOutput struct{}

func (speakerOutput) Init(rate beep.SampleRate, bufferSize int) error {
	return speaker.Init(rate, bufferSize)
}
func (speakerOutput) Play(s beep.Streamer) { speaker.Play(s) }
func (speakerOutput) Lock()                { speaker.Lock() }
func (speakerOutput) Unlock()              { speaker.Unlock() }
func (speakerOutput) Close()               { speaker.Close() }

// AudioEngine mixes sound effects onto the speaker
// Without a usable device it runs in silent mode: Play reports false and nothing else changes
type AudioEngine struct {
	config *AudioConfig
	out    output
	mixer  *beep.Mixer

	running    atomic.Bool
	muted      atomic.Bool
	silentMode atomic.Bool

	played  atomic.Uint64
	dropped atomic.Uint64
}

// NewAudioEngine creates an audio engine
func NewAudioEngine(cfg ...*AudioConfig) *AudioEngine {
	config := DefaultAudioConfig()
	if len(cfg) > 0 && cfg[0] != nil {
		config = cfg[0].clone()
	}
	return newAudioEngine(config, speakerOutput{})
}

func newAudioEngine(config *AudioConfig, out output) *AudioEngine {
	ae := &AudioEngine{
		config: config,
		out:    out,
		mixer:  &beep.Mixer{},
	}
	ae.muted.Store(!config.Enabled)
	return ae
}

// Start opens the device and starts the mixer; device failure selects silent mode
func (ae *AudioEngine) Start() error {
	if ae.running.Load() {
		return ErrAlreadyRunning
	}

	rate := beep.SampleRate(ae.config.SampleRate)

	if err := ae.out.Init(rate, rate.N(constants.AudioBufferDuration)); err != nil {
		glog.Warningf("audio device unavailable, running silent: %v", err)
		ae.silentMode.Store(true)
		ae.running.Store(true)
		return nil
	}

	ae.out.Play(ae.mixer)
	ae.running.Store(true)
	glog.Infof("audio started at %d Hz", int(rate))
	return nil
}

// Stop clears queued sounds and closes the device
func (ae *AudioEngine) Stop() {
	if !ae.running.CompareAndSwap(true, false) {
		return
	}
	played, dropped := ae.GetStats()
	glog.Infof("audio stopped: %d played, %d dropped, silent=%v", played, dropped, ae.IsSilent())
	if ae.IsSilent() {
		return
	}

	ae.out.Lock()
	ae.mixer.Clear()
	ae.out.Unlock()
	ae.out.Close()
}

// Play queues a sound for playback
// Returns false when muted, stopped or silent, or for an unknown sound
func (ae *AudioEngine) Play(st core.SoundType) bool {
	if !ae.running.Load() || ae.muted.Load() || ae.silentMode.Load() {
		ae.dropped.Add(1)
		return false
	}

	s := GetSoundEffect(st, ae.config)
	if s == nil {
		ae.dropped.Add(1)
		return false
	}

	ae.out.Lock()
	ae.mixer.Add(s)
	ae.out.Unlock()

	ae.played.Add(1)
	return true
}

// ToggleMute toggles mute state, returns true if now enabled
func (ae *AudioEngine) ToggleMute() bool {
	newMute := !ae.muted.Load()
	ae.muted.Store(newMute)
	return !newMute
}

// IsMuted returns current mute state
func (ae *AudioEngine) IsMuted() bool {
	return ae.muted.Load()
}

// IsRunning returns true if engine is running (even in silent mode)
func (ae *AudioEngine) IsRunning() bool {
	return ae.running.Load()
}

// IsSilent reports whether no device could be opened
func (ae *AudioEngine) IsSilent() bool {
	return ae.silentMode.Load()
}

// GetStats returns played and dropped counts
func (ae *AudioEngine) GetStats() (played, dropped uint64) {
	return ae.played.Load(), ae.dropped.Load()
}
