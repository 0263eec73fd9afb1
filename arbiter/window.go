// Copyright (c) 2024 Neomantra Corp
//
// Sliding-window duplicate/gap detector, adapted from the original line
// handler's sequence-number window (fh_opra_lh.c), grounded on spec.md
// §4.3.

package arbiter

import "github.com/NimbleMarkets/opra-fh/oprafh"

// windowSize is the fixed sliding-window depth shared by every FT line.
const windowSize = oprafh.SlidingWindowSize

// window is a circular array of the last windowSize sequence numbers seen
// on an FT line, indexed by sn mod windowSize.
type window struct {
	slots [windowSize]int64
}

// reset re-initializes the window so that slot i holds the largest value
// not above base that is congruent to i mod windowSize. Every sn in
// (base, base+windowSize] then finds sn-windowSize in its slot and is
// treated as fresh.
func (w *window) reset(base int64) {
	for i := range w.slots {
		off := (base - int64(i)) % windowSize
		if off < 0 {
			off += windowSize
		}
		w.slots[i] = base - off
	}
}

// at returns the sequence number currently stored at sn's slot.
func (w *window) at(sn int64) int64 {
	return w.slots[w.slotIndex(sn)]
}

// store records sn at its slot, returning the value it displaced.
func (w *window) store(sn int64) (displaced int64) {
	idx := w.slotIndex(sn)
	displaced = w.slots[idx]
	w.slots[idx] = sn
	return displaced
}

func (w *window) slotIndex(sn int64) int64 {
	m := sn % windowSize
	if m < 0 {
		m += windowSize
	}
	return m
}
