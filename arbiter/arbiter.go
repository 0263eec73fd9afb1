// Copyright (c) 2024 Neomantra Corp
//
// FT-line arbiter: dual-stream (A/B) duplicate, gap, and reset
// arbitration, grounded on spec.md §4.3 and the original's sequence-
// number window logic (feeds/opra/fast/common/fh_opra_lh.c).

package arbiter

import (
	"log/slog"

	"github.com/NimbleMarkets/opra-fh/oprafh"
)

// DefaultJumpThreshold is the sequence-number jump beyond which the
// arbiter treats an incoming message as an implicit reset rather than a
// catastrophic gap, per spec.md §4.3's "Large-jump recovery".
const DefaultJumpThreshold = 100_000

// Packet is one FT-line transport unit: a starting sequence number, a
// count of messages it carries (spec.md §4.3's "k"), and the control
// classification the caller has already extracted from its header, if
// any (zero value means "ordinary data message").
type Packet struct {
	Seq               int64
	Count             int
	Bytes             int
	Category          oprafh.Category
	Type              oprafh.Type
	ParticipantMicros int64
}

// Arbiter arbitrates one or more independent FT lines, each fed by two
// physical sides. It is not safe for concurrent use by multiple
// goroutines against the same FT line index.
type Arbiter struct {
	logger        *slog.Logger
	observer      Observer
	jumpThreshold int64

	lines []*line
}

// NewArbiter constructs an Arbiter for numLines FT lines. observer may be
// nil, in which case a NullObserver is used.
func NewArbiter(numLines int, jumpThreshold int64, logger *slog.Logger, observer Observer) *Arbiter {
	if jumpThreshold <= 0 {
		jumpThreshold = DefaultJumpThreshold
	}
	if observer == nil {
		observer = NullObserver{}
	}
	lines := make([]*line, numLines)
	for i := range lines {
		lines[i] = newLine(i)
	}
	return &Arbiter{
		logger:        logger,
		observer:      observer,
		jumpThreshold: jumpThreshold,
		lines:         lines,
	}
}

// LineState reports an FT line's current aggregate state.
func (a *Arbiter) LineState(ftLineIndex int) oprafh.LineState {
	return a.lines[ftLineIndex].state
}

// Missing reports an FT line's current missing-message counter.
func (a *Arbiter) Missing(ftLineIndex int) int64 {
	return a.lines[ftLineIndex].missing
}

// SideStats reports one physical side's accumulated counters.
func (a *Arbiter) SideStats(ftLineIndex int, s oprafh.Side) SideStats {
	return a.lines[ftLineIndex].sides.Stats(s)
}

// NumLines reports how many FT lines this Arbiter arbitrates.
func (a *Arbiter) NumLines() int {
	return len(a.lines)
}

// ReportLineStatus pushes one FT line's current state and both sides'
// accumulated counters to the registered Observer. The ingest loop calls
// this on the configured line-status period; the arbiter itself has no
// timer of its own, per spec.md §6's `line_status_period` being an ingest
// loop concern rather than an arbitration one.
func (a *Arbiter) ReportLineStatus(ftLineIndex int) {
	l := a.lines[ftLineIndex]
	a.observer.OnLineStatus(ftLineIndex, l.state, l.sides.Stats(oprafh.Side_A), l.sides.Stats(oprafh.Side_B))
}

// Arrive classifies and arbitrates one packet arriving on the given side
// of the given FT line, returning the decision to apply to the whole
// packet. Packets are atomic: if any covered sequence number is a
// duplicate, the whole packet is dropped, per spec.md §4.3.
func (a *Arbiter) Arrive(ftLineIndex int, s oprafh.Side, pkt Packet) oprafh.ArbiterDecision {
	l := a.lines[ftLineIndex]
	count := pkt.Count
	if count <= 0 {
		count = 1
	}
	decision := a.arrive(l, s, pkt, count)
	l.sides.recordPacket(s, decision, count, pkt.Bytes, pkt.Seq+int64(count)-1)
	return decision
}

func (a *Arbiter) arrive(l *line, s oprafh.Side, pkt Packet, count int) oprafh.ArbiterDecision {
	if pkt.ParticipantMicros > l.highWatermarkMicros {
		l.highWatermarkMicros = pkt.ParticipantMicros
	}

	if reset, kind := resetKindOf(pkt.Category, pkt.Type); reset {
		return a.applyReset(l, s, kind, pkt.Seq)
	}
	if passthroughOf(pkt.Category, pkt.Type) {
		return oprafh.ArbiterDecision_Deliver
	}

	if !l.initialized {
		l.resetAround(pkt.Seq - 1)
	}

	if pkt.Seq-l.lineSN >= a.jumpThreshold {
		a.applyLargeJumpReset(l, pkt.Seq)
	}

	for i := 0; i < count; i++ {
		sn := pkt.Seq + int64(i)
		decision := a.arriveOne(l, s, sn)
		if decision != oprafh.ArbiterDecision_Deliver {
			return decision
		}
	}
	return oprafh.ArbiterDecision_Deliver
}

// arriveOne applies the per-message decision rule of spec.md §4.3 to a
// single sequence number. A fresh sequence number (one that advances the
// line, whether by one or across a gap) clears s's reset-pending flag, as
// it demonstrates the side has resynced past the peer's reset point. A
// non-fresh sequence number arriving while s's reset-pending flag is set
// is classified as drop_waiting_reset rather than run through ordinary
// duplicate/late classification, per spec.md §4.3.
func (a *Arbiter) arriveOne(l *line, s oprafh.Side, sn int64) oprafh.ArbiterDecision {
	switch {
	case sn == l.lineSN+1:
		l.resetPending[s] = false
		l.lineSN = sn
		a.storeAndCheckStale(l, sn)
		return oprafh.ArbiterDecision_Deliver

	case sn <= l.lineSN:
		if l.resetPending[s] {
			return oprafh.ArbiterDecision_DropWaitingReset
		}
		winSN := l.win.at(sn)
		switch {
		case winSN == sn:
			return oprafh.ArbiterDecision_DropDuplicate
		case sn == winSN+oprafh.SlidingWindowSize:
			l.missing--
			l.win.store(sn)
			l.sides.stats[s].Recoveries++
			return oprafh.ArbiterDecision_Deliver
		default:
			return oprafh.ArbiterDecision_DropLate
		}

	default: // sn > l.lineSN + 1: gap
		l.resetPending[s] = false
		l.missing += sn - l.lineSN - 1
		l.lineSN = sn
		a.storeAndCheckStale(l, sn)
		return oprafh.ArbiterDecision_Deliver
	}
}

// storeAndCheckStale stores sn in the window and transitions the line to
// STALE if the displaced slot was not the message this slot was meant to
// recover, per spec.md §4.3.
func (a *Arbiter) storeAndCheckStale(l *line, sn int64) {
	displaced := l.win.store(sn)
	if displaced != sn-oprafh.SlidingWindowSize && l.state == oprafh.LineState_OK {
		l.state = oprafh.LineState_Stale
		a.observer.OnLineEvent(l.index, EventWentStale)
		if a.logger != nil {
			a.logger.Warn("ft line went stale", "ft_line", l.index, "seq", sn)
		}
	}
}

// resetKindOf classifies a control message's reset behavior per spec.md
// §4.3's reset-logic table. ok is false for ordinary data messages.
func resetKindOf(cat oprafh.Category, typ oprafh.Type) (ok bool, kind EventKind) {
	if cat != oprafh.Category_Control {
		return false, 0
	}
	switch typ {
	case oprafh.Type_ControlStartOfDay:
		return true, EventStartOfDayReset
	case oprafh.Type_ControlSeqReset:
		return true, EventSequenceReset
	case oprafh.Type_ControlStartOfTestCycle:
		return true, EventStartOfTestReset
	}
	return false, 0
}

// passthroughOf reports whether a control message carries no
// sliding-window update at all, per spec.md §4.3.
func passthroughOf(cat oprafh.Category, typ oprafh.Type) bool {
	if cat == oprafh.Category_Admin {
		return true
	}
	if cat == oprafh.Category_Control &&
		(typ == oprafh.Type_ControlEndOfTest || typ == oprafh.Type_ControlLineIntegrity) {
		return true
	}
	return false
}

// applyReset reinitializes the line's window around sn and, for
// start-of-day, also clears the STALE state tag and the missing counter.
// It also arms resetPending on the peer side, and clears it on s.
func (a *Arbiter) applyReset(l *line, s oprafh.Side, kind EventKind, sn int64) oprafh.ArbiterDecision {
	l.resetAround(sn)
	l.resetPending[s] = false
	l.resetPending[s.Peer()] = true

	if kind == EventStartOfDayReset {
		l.missing = 0
		if l.state != oprafh.LineState_OK {
			l.state = oprafh.LineState_OK
			a.observer.OnLineEvent(l.index, EventRecoveredToOK)
		}
	}
	a.observer.OnLineEvent(l.index, kind)
	return oprafh.ArbiterDecision_Deliver
}

// applyLargeJumpReset implements spec.md §4.3's large-jump recovery: the
// window is reinitialized around sn-1 and the observer is told a
// large-jump reset occurred. The caller then arbitrates sn itself as an
// ordinary next-in-sequence message.
func (a *Arbiter) applyLargeJumpReset(l *line, sn int64) oprafh.ArbiterDecision {
	l.resetAround(sn - 1)
	a.observer.OnLineEvent(l.index, EventLargeJumpReset)
	if a.logger != nil {
		a.logger.Warn("ft line large jump reset", "ft_line", l.index, "seq", sn)
	}
	return oprafh.ArbiterDecision_Deliver
}
