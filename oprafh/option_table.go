// Copyright (c) 2024 Neomantra Corp

package oprafh

import (
	"log/slog"

	"github.com/NimbleMarkets/opra-fh/directory"
)

// TopicRegistrar is the narrow slice of the downstream Publisher contract
// (spec.md §1, §4.4: "register_topic(option)") that OptionTable.Insert
// needs. The full Publisher interface (send/flush/register_topic) lives in
// the process package, which imports OptionEntry; TopicRegistrar is kept
// here, in the option table's own package, to avoid an import cycle.
type TopicRegistrar interface {
	RegisterTopic(entry *OptionEntry)
}

// TableStats is the snapshot returned by OptionTable.Stats.
type TableStats struct {
	Count    int
	Capacity int
	Bytes    int64
}

// utilizationWarnInterval is how often (in successful inserts) a
// near-capacity warning may be logged, per spec.md §4.1: "If utilization
// exceeds 90% a warning is logged every 10,000 insertions."
const utilizationWarnInterval = 10000

// OptionTable is the keyed map from OptionKey to *OptionEntry described in
// spec.md §4.1 (C1). It is sized from configuration at startup and never
// grows: entries are drawn from a pre-allocated slab so that every pointer
// handed back by Insert or Lookup is valid for the process lifetime.
type OptionTable struct {
	logger  *slog.Logger
	arena   *slab
	buckets []handle // hash(key) % len(buckets) -> chain head, or invalidHandle

	ftlineHeads []handle // per-FT-line intrusive option list heads

	insertCount   int
	sinceLastWarn int
}

// NewOptionTable allocates an OptionTable with room for capacity entries
// spread across numFTLines FT lines.
func NewOptionTable(capacity int, numFTLines int, logger *slog.Logger) *OptionTable {
	if logger == nil {
		logger = slog.Default()
	}
	if capacity < 1 {
		capacity = 1
	}
	buckets := make([]handle, capacity)
	for i := range buckets {
		buckets[i] = invalidHandle
	}
	heads := make([]handle, numFTLines)
	for i := range heads {
		heads[i] = invalidHandle
	}
	return &OptionTable{
		logger:      logger,
		arena:       newSlab(capacity),
		buckets:     buckets,
		ftlineHeads: heads,
	}
}

func (t *OptionTable) bucketIndex(k OptionKey) uint32 {
	return k.hash32() % uint32(len(t.buckets))
}

// Lookup returns the entry for key, or (nil, false). It never mutates the
// table and is O(1) expected.
func (t *OptionTable) Lookup(k OptionKey) (*OptionEntry, bool) {
	idx := t.bucketIndex(k)
	for h := t.buckets[idx]; h != invalidHandle; {
		e := t.arena.get(h)
		if e.Key == k {
			return e, true
		}
		h = e.tableNext
	}
	return nil, false
}

// Insert creates a new entry for key, enrolls it on ftLineIndex's intrusive
// option list, and registers it with reg. It fails with ErrDuplicateKey if
// key is already present (insert is idempotent, never silently overwrites)
// and ErrTableFull if the backing slab is exhausted, per spec.md §4.1.
func (t *OptionTable) Insert(k OptionKey, ftLineIndex int, sec any, reg TopicRegistrar) (*OptionEntry, error) {
	if _, found := t.Lookup(k); found {
		return nil, ErrDuplicateKey
	}
	h, e, ok := t.arena.alloc()
	if !ok {
		return nil, ErrTableFull
	}
	e.Key = k
	e.FTLineIndex = ftLineIndex
	if s, ok := sec.(*directory.Security); ok {
		e.Sec = s
	}

	idx := t.bucketIndex(k)
	e.tableNext = t.buckets[idx]
	t.buckets[idx] = h

	e.next = t.ftlineHeads[ftLineIndex]
	t.ftlineHeads[ftLineIndex] = h

	if reg != nil {
		reg.RegisterTopic(e)
	}

	t.insertCount++
	t.sinceLastWarn++
	if t.utilization() > 0.9 && t.sinceLastWarn >= utilizationWarnInterval {
		t.sinceLastWarn = 0
		t.logger.Warn("option table utilization above 90%",
			"count", t.arena.len(), "capacity", t.arena.cap())
	}
	return e, nil
}

func (t *OptionTable) utilization() float64 {
	if t.arena.cap() == 0 {
		return 0
	}
	return float64(t.arena.len()) / float64(t.arena.cap())
}

// Stats returns the table's current size, capacity and estimated memory
// footprint.
func (t *OptionTable) Stats() TableStats {
	return TableStats{
		Count:    t.arena.len(),
		Capacity: t.arena.cap(),
		Bytes:    int64(t.arena.cap()) * int64(optionEntrySize),
	}
}

// ForEachOnLine iterates, in intrusive-list order, every entry assigned to
// ftLineIndex. fn must not insert into the table.
func (t *OptionTable) ForEachOnLine(ftLineIndex int, fn func(*OptionEntry)) {
	for h := t.ftlineHeads[ftLineIndex]; h != invalidHandle; {
		e := t.arena.get(h)
		fn(e)
		h = e.next
	}
}

// optionEntrySize is a rough estimate used only for Stats' byte count.
const optionEntrySize = 256
