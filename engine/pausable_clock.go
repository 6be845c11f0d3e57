package engine

import (
	"sync"
	"sync/atomic"
	"time"
)

// PausableClock measures frame deltas for the scheduler, excluding time spent paused
// Pause and Resume may be called from an input goroutine while the frame loop calls Delta
type PausableClock struct {
	mu sync.Mutex

	now func() time.Time

	isPaused        atomic.Bool
	pauseStartTime  time.Time
	totalPausedTime time.Duration

	lastFrame  time.Time
	pausedSeen time.Duration // totalPausedTime already excluded from a returned delta
}

// NewPausableClock creates a running clock whose first Delta measures from now
func NewPausableClock() *PausableClock {
	return newPausableClock(time.Now)
}

func newPausableClock(now func() time.Time) *PausableClock {
	return &PausableClock{now: now, lastFrame: now()}
}

// Delta returns unpaused time since the previous call, zero while paused
func (pc *PausableClock) Delta() time.Duration {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	now := pc.now()
	if pc.isPaused.Load() {
		return 0
	}

	delta := now.Sub(pc.lastFrame) - (pc.totalPausedTime - pc.pausedSeen)
	pc.lastFrame = now
	pc.pausedSeen = pc.totalPausedTime
	if delta < 0 {
		return 0
	}
	return delta
}

// Pause stops time advancement
func (pc *PausableClock) Pause() {
	if pc.isPaused.CompareAndSwap(false, true) {
		pc.mu.Lock()
		defer pc.mu.Unlock()
		pc.pauseStartTime = pc.now()
	}
}

// Resume continues time advancement; the paused interval is never reported by Delta
func (pc *PausableClock) Resume() {
	if pc.isPaused.CompareAndSwap(true, false) {
		pc.mu.Lock()
		defer pc.mu.Unlock()

		if !pc.pauseStartTime.IsZero() {
			pc.totalPausedTime += pc.now().Sub(pc.pauseStartTime)
			pc.pauseStartTime = time.Time{}
		}
	}
}

// Toggle flips the pause state and returns true if now paused
func (pc *PausableClock) Toggle() bool {
	if pc.IsPaused() {
		pc.Resume()
		return false
	}
	pc.Pause()
	return true
}

// IsPaused returns current pause state
func (pc *PausableClock) IsPaused() bool {
	return pc.isPaused.Load()
}

// GetTotalPauseDuration returns cumulative pause time
func (pc *PausableClock) GetTotalPauseDuration() time.Duration {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	total := pc.totalPausedTime
	if pc.isPaused.Load() && !pc.pauseStartTime.IsZero() {
		total += pc.now().Sub(pc.pauseStartTime)
	}
	return total
}
