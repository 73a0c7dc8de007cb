package core

// SoundType represents different sound effects
type SoundType int

const (
	SoundEat      SoundType = iota // Bug eaten, upward chirp
	SoundGameOver                  // Wall or self collision, downward tone
	SoundTypeCount
)

var soundNames = [SoundTypeCount]string{
	SoundEat:      "eat",
	SoundGameOver: "gameover",
}

// String returns the wire name of the sound, as sent to browser clients
func (s SoundType) String() string {
	if s < 0 || s >= SoundTypeCount {
		return "unknown"
	}
	return soundNames[s]
}
