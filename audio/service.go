package audio

import (
	"fmt"

	"github.com/lixenwraith/bugsnake/config"
	"github.com/lixenwraith/bugsnake/core"
)

// AudioService wraps AudioEngine as a Service
// A missing audio device is not an error; the engine runs silent
type AudioService struct {
	audioEngine *AudioEngine
}

// NewService creates a new audio service
func NewService() *AudioService {
	return &AudioService{}
}

// Name implements Service
func (s *AudioService) Name() string {
	return "audio"
}

// Dependencies implements Service
func (s *AudioService) Dependencies() []string {
	return nil
}

// Init implements Service
// args[0]: config.AudioConfig (default: DefaultAudioConfig)
func (s *AudioService) Init(args ...any) error {
	cfg := DefaultAudioConfig()
	if len(args) > 0 {
		c, ok := args[0].(config.AudioConfig)
		if !ok {
			return fmt.Errorf("audio: expected config.AudioConfig, got %T", args[0])
		}
		cfg = NewAudioConfig(c)
	}
	s.audioEngine = NewAudioEngine(cfg)
	return nil
}

// Start implements Service
func (s *AudioService) Start() error {
	if s.audioEngine == nil {
		return fmt.Errorf("audio: Start before Init")
	}
	return s.audioEngine.Start()
}

// Stop implements Service
func (s *AudioService) Stop() error {
	if s.audioEngine != nil {
		s.audioEngine.Stop()
	}
	return nil
}

// Player returns the engine as an AudioPlayer, nil before Init
func (s *AudioService) Player() AudioPlayer {
	if s.audioEngine == nil {
		return nil
	}
	return s.audioEngine
}

// AudioPlayer is the audio surface used by game frontends
// Satisfies engine.SoundPlayer
type AudioPlayer interface {
	Play(core.SoundType) bool
	ToggleMute() bool
	IsMuted() bool
	IsRunning() bool
}
