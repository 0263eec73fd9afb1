// Copyright (c) 2024 Neomantra Corp
//
// Per-line jitter histogram: log2-bucketed from ~1us to ~1s, dumped every
// 100,000 samples, per spec.md §4.5 ("added to a per-line histogram") and
// SPEC_FULL.md §5's supplemented bucket-scheme detail.

package ingest

import (
	"log/slog"
	"time"
)

// jitterDumpInterval is how many samples accumulate before a histogram is
// logged and reset, per spec.md §4.5.
const jitterDumpInterval = 100_000

// jitterBucketCount covers roughly 1us (2^0 us) to 1s (2^20 us), one bucket
// per power of two, plus an overflow bucket for anything larger.
const jitterBucketCount = 21

// JitterHistogram accumulates socket-receive-to-processing latency
// samples for one FT line, log2-bucketed by microsecond delta.
type JitterHistogram struct {
	ftLineIndex int
	logger      *slog.Logger

	buckets  [jitterBucketCount + 1]uint64
	count    uint64
	min, max time.Duration
}

// NewJitterHistogram constructs an empty histogram for the given FT line.
func NewJitterHistogram(ftLineIndex int, logger *slog.Logger) *JitterHistogram {
	return &JitterHistogram{ftLineIndex: ftLineIndex, logger: logger}
}

// Observe records one latency sample (the delta between a socket receive
// timestamp and the current time, per spec.md §4.5), dumping and
// resetting the histogram every jitterDumpInterval samples.
func (h *JitterHistogram) Observe(d time.Duration) {
	if d < 0 {
		d = 0
	}
	h.buckets[bucketOf(d)]++
	h.count++
	if h.count == 1 || d < h.min {
		h.min = d
	}
	if d > h.max {
		h.max = d
	}
	if h.count >= jitterDumpInterval {
		h.dump()
		h.reset()
	}
}

func bucketOf(d time.Duration) int {
	us := d.Microseconds()
	bucket := 0
	for us > 1 && bucket < jitterBucketCount {
		us >>= 1
		bucket++
	}
	return bucket
}

func (h *JitterHistogram) reset() {
	h.buckets = [jitterBucketCount + 1]uint64{}
	h.count = 0
	h.min, h.max = 0, 0
}

func (h *JitterHistogram) dump() {
	if h.logger == nil {
		return
	}
	h.logger.Info("ft line jitter histogram",
		"ft_line", h.ftLineIndex,
		"samples", h.count,
		"min", h.min,
		"max", h.max,
		"buckets", h.buckets[:],
	)
}
