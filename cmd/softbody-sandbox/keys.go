package main

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/softsim/engine"
)

// keyHold is how long a key stays held without an auto-repeat event
// Terminals report presses only, so releases are inferred from silence
const keyHold = 150 * time.Millisecond

// keyLatch turns press-only terminal key events into press and release edges
type keyLatch struct {
	hold time.Duration
	last map[engine.Key]time.Time
}

func newKeyLatch(hold time.Duration) *keyLatch {
	return &keyLatch{hold: hold, last: make(map[engine.Key]time.Time)}
}

// press refreshes k and reports whether it was not already held
func (l *keyLatch) press(k engine.Key, now time.Time) bool {
	_, held := l.last[k]
	l.last[k] = now
	return !held
}

// expire forgets and returns every key not refreshed within hold
func (l *keyLatch) expire(now time.Time) []engine.Key {
	var out []engine.Key
	for k, t := range l.last {
		if now.Sub(t) >= l.hold {
			out = append(out, k)
			delete(l.last, k)
		}
	}
	return out
}

// releaseAll forgets every held key and returns them
func (l *keyLatch) releaseAll() []engine.Key {
	out := make([]engine.Key, 0, len(l.last))
	for k := range l.last {
		out = append(out, k)
	}
	clear(l.last)
	return out
}

// command is a sandbox action that is not simulation input
type command uint8

const (
	cmdNone command = iota
	cmdQuit
	cmdPause
	cmdReset
	cmdMute
	cmdZoomIn
	cmdZoomOut
)

// mapKey translates a terminal key event into a simulation key or a sandbox command
func mapKey(ev *tcell.EventKey) (engine.Key, command) {
	switch ev.Key() {
	case tcell.KeyLeft:
		return engine.KeyLeft, cmdNone
	case tcell.KeyRight:
		return engine.KeyRight, cmdNone
	case tcell.KeyUp:
		return engine.KeyUp, cmdNone
	case tcell.KeyDown:
		return engine.KeyDown, cmdNone
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return engine.KeyNone, cmdQuit
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w':
			return engine.KeyForward, cmdNone
		case 's':
			return engine.KeyBack, cmdNone
		case 'a':
			return engine.KeyTurnLeft, cmdNone
		case 'd':
			return engine.KeyTurnRight, cmdNone
		case 'r':
			return engine.KeyReset, cmdReset
		case ' ', 'p':
			return engine.KeyNone, cmdPause
		case 'm':
			return engine.KeyNone, cmdMute
		case '+', '=':
			return engine.KeyNone, cmdZoomIn
		case '-':
			return engine.KeyNone, cmdZoomOut
		case 'q':
			return engine.KeyNone, cmdQuit
		}
	}
	return engine.KeyNone, cmdNone
}
