package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lixenwraith/softsim/sim"
)

func TestHUDLine(t *testing.T) {
	st := sim.Stats{Tick: 12345, Entities: 7, Bodies: 3, Contacts: 1200, Energy: 0.5}
	line := hudLine(st, false, false)
	assert.Contains(t, line, "tick 12,345")
	assert.Contains(t, line, "contacts 1,200")
	assert.Contains(t, line, "bodies 3")
	assert.NotContains(t, line, "PAUSED")
	assert.NotContains(t, line, "BEHIND")
	assert.NotContains(t, line, "clamped")

	st.Backlog = 40 * time.Millisecond
	st.Clamped = 2
	line = hudLine(st, true, true)
	assert.Contains(t, line, "BEHIND 40ms")
	assert.Contains(t, line, "clamped 2")
	assert.Contains(t, line, "PAUSED")
	assert.Contains(t, line, "muted")
}
