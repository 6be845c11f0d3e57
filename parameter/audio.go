package parameter

import "time"

// AudioSampleRate is the speaker rate, beep output is always stereo
const AudioSampleRate = 44100

// Audio Engine Timing
const (
	// AudioBufferDuration determines speaker latency
	AudioBufferDuration = 50 * time.Millisecond

	// MinSoundGap between consecutive impact cues
	MinSoundGap = 80 * time.Millisecond
)

// Impact Sound
const (
	ImpactSoundDuration = 90 * time.Millisecond
	ImpactSoundAttack   = 4 * time.Millisecond
	ImpactSoundRelease  = 40 * time.Millisecond
	ImpactBaseFreq      = 180.0
	ImpactFreqPerEnergy = 40.0
	ImpactMaxFreq       = 880.0
	ImpactVolume        = 0.25

	// ImpactContactThreshold is the contact count jump per tick that triggers a cue
	ImpactContactThreshold = 4
)
