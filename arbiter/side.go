// Copyright (c) 2024 Neomantra Corp
//
// Per-physical-line counters, per spec.md §3's "Line-side state": each
// physical line (2 per FT line) tracks its own packet/duplicate/error/
// late/message/byte/loss/recovery counts independently of the other side.

package arbiter

import "github.com/NimbleMarkets/opra-fh/oprafh"

// SideStats accumulates the per-physical-line counters spec.md §3
// describes as living for the process lifetime. Nothing in this module
// increments Errors: decode errors are logged by the ingest loop but not
// counted here, so Errors stays zero.
type SideStats struct {
	Packets    uint64
	Duplicates uint64
	Errors     uint64
	Late       uint64
	Messages   uint64
	Bytes      uint64
	Losses     uint64
	Recoveries uint64

	LastSeq int64
}

// sideState holds SideStats for both physical sides of one FT line.
type sideState struct {
	stats [2]SideStats
}

// recordPacket tallies one arrived packet against s's stats according to
// the arbiter's decision for it.
func (ss *sideState) recordPacket(s oprafh.Side, decision oprafh.ArbiterDecision, messages int, bytes int, lastSeq int64) {
	st := &ss.stats[s]
	st.Packets++
	st.LastSeq = lastSeq
	switch decision {
	case oprafh.ArbiterDecision_Deliver:
		st.Messages += uint64(messages)
		st.Bytes += uint64(bytes)
	case oprafh.ArbiterDecision_DropDuplicate:
		st.Duplicates++
	case oprafh.ArbiterDecision_DropLate:
		st.Late++
	case oprafh.ArbiterDecision_DropWaitingReset:
		st.Losses++
	}
}

// Stats returns a copy of s's accumulated SideStats.
func (ss *sideState) Stats(s oprafh.Side) SideStats {
	return ss.stats[s]
}
