// Copyright (c) 2024 Neomantra Corp
//
// Normalized output records, one fixed struct per OPRA category, per
// spec.md §6: a performance header, an OPRA header copy, raw-field
// payload, derived cached state, and the update_flags bitmap.

package process

import "github.com/NimbleMarkets/opra-fh/oprafh"

// PerfHeader is prepended to every record this processor emits.
type PerfHeader struct {
	FeedType         byte
	Category         oprafh.Category
	Type             oprafh.Type
	ProcessID        int32
	GenerationMicros int64
	SequenceNumber   int64
}

// OpraHeader copies the fields carried in every OPRA message's own
// header. Retransmission is a supplemented field (SPEC_FULL.md §5): the
// original's msg_decode_hdr_v2 carries a retransmission-requester flag
// alongside participant/sequence/time that the distilled spec omitted
// from its "OPRA header copy".
type OpraHeader struct {
	Category       oprafh.Category
	Type           oprafh.Type
	Participant    byte
	SequenceNumber int64
	TimeMicros     int64
	Retransmission bool
}

// LastSaleRecord is emitted for category 'a' (spec.md §4.4).
type LastSaleRecord struct {
	Perf PerfHeader
	Opra OpraHeader

	Key   oprafh.OptionKey
	Topic string

	Price  float64
	Volume int64

	Session      byte
	OpeningPrice float64
	DailyLow     float64
	DailyHigh    float64
	CumVolume    int64
	CumValue     int64
	UnhaltMicros int64

	UpdateFlags oprafh.UpdateFlags
}

// OpenInterestRecord is emitted for category 'd'.
type OpenInterestRecord struct {
	Perf PerfHeader
	Opra OpraHeader

	Key   oprafh.OptionKey
	Topic string

	Year           uint8
	ExpirationDate [6]byte
	BestBidOffer   byte
	OpenInterest   int64

	UpdateFlags oprafh.UpdateFlags
}

// EodRecord is emitted for category 'f'.
type EodRecord struct {
	Perf PerfHeader
	Opra OpraHeader

	Key   oprafh.OptionKey
	Topic string

	Bid, Offer, Open, High, Low, Last, Close float64
	NetChange                                float64

	UpdateFlags oprafh.UpdateFlags
}

// QuoteRecord is emitted for category 'k'. The fields present depend on
// the BBO indicator sub-dispatch: BestOffer and BestBid are zero when the
// indicator does not carry them, per spec.md §4.4's four-way dispatch,
// while BestOfferParticipant and BestBidParticipant always carry the
// option entry's last-seen participants.
type QuoteRecord struct {
	Perf PerfHeader
	Opra OpraHeader

	Key   oprafh.OptionKey
	Topic string

	BBOIndicator oprafh.BBOIndicator

	Bid, Offer float64

	Session        byte
	OpeningBid     float64
	OpeningOffer   float64
	HaltTimeMicros int64

	BestBid              float64
	BestBidParticipant   byte
	BestOffer            float64
	BestOfferParticipant byte

	UpdateFlags oprafh.UpdateFlags
}

// UnderlyingRecord is emitted for category 'Y', one per index group entry
// embedded in the wire message (spec.md §4.4).
type UnderlyingRecord struct {
	Perf PerfHeader
	Opra OpraHeader

	Root string

	LastPrice  float64
	Bid, Offer float64

	UpdateFlags oprafh.UpdateFlags
}

// ControlRecord is emitted for category 'H' messages that are routed to
// the publisher in addition to the arbiter, carrying the control
// message's free-text body for operational visibility.
type ControlRecord struct {
	Perf PerfHeader
	Opra OpraHeader

	Body string
}

// AdminRecord is emitted for category 'C' administrative messages,
// routed straight to the publisher (spec.md §4.4).
type AdminRecord struct {
	Perf PerfHeader
	Opra OpraHeader

	Body string
}
