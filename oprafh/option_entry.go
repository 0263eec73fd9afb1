// Copyright (c) 2024 Neomantra Corp

package oprafh

import "github.com/NimbleMarkets/opra-fh/directory"

// OptionEntry is the derived-state cache for a single listed option,
// per spec.md §3. Once created by OptionTable.Insert its memory location
// never moves: the rest of the core caches *OptionEntry pointers directly.
type OptionEntry struct {
	Key   OptionKey
	Topic string // topic string, <= TopicMaxLen; OptionTable.Insert leaves it empty and nothing in this module sets it
	Sec   *directory.Security

	Initialized bool
	UpdateFlags UpdateFlags

	ExpirationDate [2]byte // raw bytes as received
	Session        byte
	BestBidParticipant   byte
	BestOfferParticipant byte

	LastParticipantTime uint32
	LastSeqNum          uint32

	OpenBid    float64
	OpenOffer  float64
	OpenPrice  float64
	ClosePrice float64

	LastPrice float64
	EodHigh   float64
	EodLow    float64
	DailyHigh float64
	DailyLow  float64

	Bid float64
	Offer float64

	CumVolume uint64
	CumValue  uint64

	HaltTimeMicros   int64
	UnhaltTimeMicros int64

	// FTLineIndex is the FT line this entry belongs to, assigned at
	// creation and never reassigned, per spec.md §3.
	FTLineIndex int

	// PublisherRef is an opaque back-pointer reserved for the external
	// publisher (e.g. a pre-resolved topic handle).
	PublisherRef any

	// next is the intrusive per-FT-line list link: OptionTable threads
	// every entry assigned to the same FT line through this field, with
	// the line's head kept in OptionTable.ftlineHeads. Per spec.md §3's
	// ownership rule, nothing outside OptionTable mutates it.
	next handle

	// tableNext is the hash-bucket chain link used by OptionTable's
	// external-chaining hash index. Distinct from next (the FT-line list
	// link) because an entry is a member of both lists simultaneously.
	tableNext handle
}

// ResetBaseline clears UpdateFlags to the configured baseline at the start
// of a message handler, per spec.md §3's update_flags invariant.
func (e *OptionEntry) ResetBaseline(baseline UpdateFlags) {
	e.UpdateFlags = baseline
}

// MarkOpenIfZero sets *field to value and ORs in flag the first time field
// is observed nonzero, implementing the "first nonzero" update rule shared
// by several category handlers in spec.md §4.4 (opening_bid, opening_offer,
// opening_price).
func MarkOpenIfZero(field *float64, flags *UpdateFlags, flag UpdateFlags, value float64) {
	if *field == 0 && value != 0 {
		*field = value
		*flags |= flag
	}
}

// SetIfChanged assigns value to *field and ORs flag into *flags only if the
// value actually changed. The category f and k handlers use it; the
// category Y handler does not, and applies no change detection.
func SetIfChanged(field *float64, flags *UpdateFlags, flag UpdateFlags, value float64) {
	if *field != value {
		*field = value
		*flags |= flag
	}
}
