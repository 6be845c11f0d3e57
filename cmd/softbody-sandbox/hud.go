package main

import (
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/lixenwraith/softsim/sim"
)

// hudLine formats the one-line status bar
func hudLine(st sim.Stats, paused, muted bool) string {
	var b strings.Builder
	b.WriteString("tick ")
	b.WriteString(humanize.Comma(st.Tick))
	b.WriteString(" | entities ")
	b.WriteString(humanize.Comma(int64(st.Entities)))
	b.WriteString(" | bodies ")
	b.WriteString(humanize.Comma(st.Bodies))
	b.WriteString(" | contacts ")
	b.WriteString(humanize.Comma(st.Contacts))
	b.WriteString(" | energy ")
	b.WriteString(humanize.SIWithDigits(st.Energy, 2, "J"))
	if st.Clamped > 0 {
		b.WriteString(" | clamped ")
		b.WriteString(humanize.Comma(st.Clamped))
	}
	if st.Backlog > 0 {
		b.WriteString(" | BEHIND ")
		b.WriteString(st.Backlog.String())
	}
	if paused {
		b.WriteString(" | PAUSED")
	}
	if muted {
		b.WriteString(" | muted")
	}
	return b.String()
}
