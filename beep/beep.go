// Package beep plays a short cue when the navigator switches mode.
package beep

var disabled bool

func Disable() { disabled = true }

const (
	sampleRate = 44100

	// Navigation cue: high pitch, short
	navFreq   = 1200
	navVolume = 0.5
	navDecay  = 60

	// Typing cue: medium pitch, slightly longer
	typingFreq   = 900
	typingVolume = 0.5
	typingDecay  = 40
)

// Mode plays the cue for the mode just entered.
func Mode(typing bool) {
	if typing {
		PlayTyping()
	} else {
		PlayNavigation()
	}
}
