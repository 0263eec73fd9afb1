// Copyright (c) 2024 Neomantra Corp
//
// Periodic stats export (spec.md §6's `periodic_stats`/
// `periodic_stats_interval`) and the line-status heartbeat Observer
// (SPEC_FULL.md §5), both rendered through go-humanize the way a status
// line in a CLI tool would.

package ingest

import (
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/NimbleMarkets/opra-fh/arbiter"
	"github.com/NimbleMarkets/opra-fh/oprafh"
)

// StatsObserver implements arbiter.Observer, logging line-status
// heartbeats and state transitions through a *slog.Logger with
// human-readable counters, per SPEC_FULL.md §5's line-status heartbeat.
type StatsObserver struct {
	Logger *slog.Logger
}

func (o *StatsObserver) OnLineEvent(ftLineIndex int, event arbiter.EventKind) {
	if o.Logger == nil {
		return
	}
	o.Logger.Info("ft line event", "ft_line", ftLineIndex, "event", event.String())
}

func (o *StatsObserver) OnLineStatus(ftLineIndex int, state oprafh.LineState, sideA, sideB arbiter.SideStats) {
	if o.Logger == nil {
		return
	}
	o.Logger.Info("ft line status",
		"ft_line", ftLineIndex,
		"state", state,
		"a_packets", humanize.Comma(int64(sideA.Packets)),
		"a_dups", humanize.Comma(int64(sideA.Duplicates)),
		"a_late", humanize.Comma(int64(sideA.Late)),
		"a_losses", humanize.Comma(int64(sideA.Losses)),
		"a_recoveries", humanize.Comma(int64(sideA.Recoveries)),
		"a_bytes", humanize.Bytes(uint64(sideA.Bytes)),
		"b_packets", humanize.Comma(int64(sideB.Packets)),
		"b_dups", humanize.Comma(int64(sideB.Duplicates)),
		"b_late", humanize.Comma(int64(sideB.Late)),
		"b_losses", humanize.Comma(int64(sideB.Losses)),
		"b_recoveries", humanize.Comma(int64(sideB.Recoveries)),
		"b_bytes", humanize.Bytes(uint64(sideB.Bytes)),
	)
}

// RuntimeStats accumulates the process-wide counters a periodic stats
// snapshot reports: total packets/bytes/messages seen across every line
// this process owns, plus the processor's option-level late-drop count.
type RuntimeStats struct {
	Packets   uint64
	Bytes     uint64
	Messages  uint64
	LateDrops uint64
}

// Log renders one periodic stats snapshot to logger, human-readable, per
// spec.md §6's `periodic_stats` option.
func (s RuntimeStats) Log(logger *slog.Logger) {
	if logger == nil {
		return
	}
	logger.Info("periodic stats",
		"packets", humanize.Comma(int64(s.Packets)),
		"messages", humanize.Comma(int64(s.Messages)),
		"bytes", humanize.Bytes(s.Bytes),
		"late_drops", humanize.Comma(int64(s.LateDrops)),
	)
}
