package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/softsim/parameter"
)

const sampleRate = beep.SampleRate(parameter.AudioSampleRate)

// SoundManager plays short impact cues for the sandbox
// Every method is safe before Initialize and after Cleanup; playback is then a no-op
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      *effects.Volume
	initialized bool
	device      bool

	now          func() time.Time
	lastPlay     time.Time
	lastContacts int
}

// NewSoundManager creates a new sound manager
func NewSoundManager() *SoundManager {
	mixer := &beep.Mixer{}
	return &SoundManager{
		mixer:  mixer,
		volume: &effects.Volume{Streamer: mixer, Base: 2},
		now:    time.Now,
	}
}

// Initialize opens the speaker and starts the mixer
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(parameter.AudioBufferDuration)); err != nil {
		return err
	}

	speaker.Play(sm.volume)
	sm.initialized = true
	sm.device = true
	return nil
}

// Cleanup silences and drops all queued cues
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	sm.withSpeaker(func() {
		sm.mixer.Clear()
	})
	if sm.device {
		speaker.Clear()
	}
	sm.initialized = false
}

// ToggleMute flips mute, returns true if sound is now enabled
func (sm *SoundManager) ToggleMute() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.withSpeaker(func() {
		sm.volume.Silent = !sm.volume.Silent
	})
	return !sm.volume.Silent
}

// IsMuted returns current mute state
func (sm *SoundManager) IsMuted() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.volume.Silent
}

// ObserveContacts plays an impact when the contact count jumps by ImpactContactThreshold
// energy scales the cue pitch
func (sm *SoundManager) ObserveContacts(contacts int, energy float64) bool {
	sm.mu.Lock()
	prev := sm.lastContacts
	sm.lastContacts = contacts
	sm.mu.Unlock()

	if contacts-prev < parameter.ImpactContactThreshold {
		return false
	}
	return sm.PlayImpact(energy)
}

// PlayImpact queues one impact cue unless the previous one started less than MinSoundGap ago
func (sm *SoundManager) PlayImpact(energy float64) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return false
	}
	now := sm.now()
	if !sm.lastPlay.IsZero() && now.Sub(sm.lastPlay) < parameter.MinSoundGap {
		return false
	}
	sm.lastPlay = now

	cue := beep.Take(sampleRate.N(parameter.ImpactSoundDuration), NewImpactGenerator(sampleRate, ImpactFrequency(energy)))
	sm.withSpeaker(func() {
		sm.mixer.Add(cue)
	})
	return true
}

// withSpeaker guards mixer changes against the speaker goroutine when a device is open
func (sm *SoundManager) withSpeaker(fn func()) {
	if sm.device {
		speaker.Lock()
		defer speaker.Unlock()
	}
	fn()
}

// ImpactFrequency maps kinetic energy to cue pitch
func ImpactFrequency(energy float64) float64 {
	if energy <= 0 || math.IsNaN(energy) {
		return parameter.ImpactBaseFreq
	}
	f := parameter.ImpactBaseFreq + parameter.ImpactFreqPerEnergy*math.Log1p(energy)
	return math.Min(f, parameter.ImpactMaxFreq)
}

// ImpactGenerator is a damped sine thump with a short attack and linear release
type ImpactGenerator struct {
	sr      beep.SampleRate
	freq    float64
	pos     int
	attack  int
	release int
	total   int
}

// NewImpactGenerator creates an impact sound generator
func NewImpactGenerator(sr beep.SampleRate, freq float64) *ImpactGenerator {
	return &ImpactGenerator{
		sr:      sr,
		freq:    freq,
		attack:  max(sr.N(parameter.ImpactSoundAttack), 1),
		release: max(sr.N(parameter.ImpactSoundRelease), 1),
		total:   sr.N(parameter.ImpactSoundDuration),
	}
}

func (g *ImpactGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		env := 1.0
		if g.pos < g.attack {
			env = float64(g.pos) / float64(g.attack)
		}
		if left := g.total - g.pos; left < g.release {
			env *= math.Max(float64(left), 0) / float64(g.release)
		}
		env *= math.Exp(-t * 30)

		// Pitch drops as the body settles
		freq := g.freq * (1 - 0.3*math.Min(t/0.1, 1))
		sample := parameter.ImpactVolume * env * math.Sin(2*math.Pi*freq*t)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *ImpactGenerator) Err() error {
	return nil
}
