package constants

import "time"

// Audio Engine Timing
const (
	// AudioBufferDuration is the speaker buffer length
	AudioBufferDuration = 100 * time.Millisecond

	// DefaultSampleRate is the speaker sample rate in Hz
	DefaultSampleRate = 44100
)

// Eat Sound Timing (upward chirp, second note overlaps the first)
const (
	EatSoundNoteDuration = 50 * time.Millisecond
	EatSoundNote2Delay   = 30 * time.Millisecond
	EatSoundAttack       = 3 * time.Millisecond
	EatSoundRelease      = 40 * time.Millisecond
	EatSoundNote1Freq    = 400.0
	EatSoundNote2Freq    = 600.0
	EatSoundVolume       = 0.3
)

// Game Over Sound Timing (downward sad tone)
const (
	GameOverSoundNote1Duration = 200 * time.Millisecond
	GameOverSoundNote2Duration = 300 * time.Millisecond
	GameOverSoundNote2Delay    = 100 * time.Millisecond
	GameOverSoundAttack        = 5 * time.Millisecond
	GameOverSoundRelease       = 180 * time.Millisecond
	GameOverSoundNote1Freq     = 300.0
	GameOverSoundNote2Freq     = 200.0
	GameOverSoundVolume        = 0.4
)
