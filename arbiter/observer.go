// Copyright (c) 2024 Neomantra Corp

package arbiter

import "github.com/NimbleMarkets/opra-fh/oprafh"

// EventKind names an FT-line state transition or reset flavor reported to
// an Observer, per spec.md §4.3: "On every state transition ... the
// arbiter notifies a registered observer."
type EventKind uint8

const (
	EventWentStale EventKind = iota
	EventRecoveredToOK
	EventStartOfDayReset
	EventSequenceReset
	EventStartOfTestReset
	EventLargeJumpReset
)

func (e EventKind) String() string {
	switch e {
	case EventWentStale:
		return "went_stale"
	case EventRecoveredToOK:
		return "recovered_to_ok"
	case EventStartOfDayReset:
		return "start_of_day_reset"
	case EventSequenceReset:
		return "sequence_reset"
	case EventStartOfTestReset:
		return "start_of_test_reset"
	case EventLargeJumpReset:
		return "large_jump_reset"
	default:
		return "unknown"
	}
}

// Observer receives pure notifications of FT-line state transitions and
// periodic line-health heartbeats. The arbiter does not wait on, retry, or
// otherwise depend on the observer's handling of either call.
type Observer interface {
	OnLineEvent(ftLineIndex int, event EventKind)
	// OnLineStatus is called periodically (per the configured line-status
	// period) with each side's accumulated counters, the supplemented
	// line-status heartbeat named but left unspecified by spec.md §6's
	// `line_status_enable`/`line_status_period` configuration options.
	OnLineStatus(ftLineIndex int, state oprafh.LineState, sideA, sideB SideStats)
}

// NullObserver discards every event. It is the zero-value default for an
// Arbiter constructed without an explicit Observer.
type NullObserver struct{}

func (NullObserver) OnLineEvent(int, EventKind)                               {}
func (NullObserver) OnLineStatus(int, oprafh.LineState, SideStats, SideStats) {}
