// Copyright (c) 2024 Neomantra Corp

package arbiter

import "github.com/NimbleMarkets/opra-fh/oprafh"

// line holds one FT line's arbitration state: its expected cursor, its
// sliding window, its missing-message counter, and the peer-reset-pending
// flags described in spec.md §4.3's reset-logic paragraph.
type line struct {
	index int

	state oprafh.LineState
	win   window

	lineSN  int64
	missing int64

	resetPending [2]bool // indexed by oprafh.Side

	sides sideState

	highWatermarkMicros int64

	initialized bool
}

func newLine(index int) *line {
	return &line{index: index, state: oprafh.LineState_OK}
}

// resetAround reinitializes the window so every fresh sn greater than base
// will be treated as a normal advance, and sets the cursor to base.
func (l *line) resetAround(base int64) {
	l.win.reset(base)
	l.lineSN = base
	l.initialized = true
}
