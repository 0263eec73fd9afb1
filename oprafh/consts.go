// Copyright (c) 2024 Neomantra Corp
//
// OPRA category, type and session byte codes.
// Adapted from the byte-backed enum style of DataBento's DBN:
//   https://github.com/databento/dbn/blob/main/rust/dbn/src/enums.rs

package oprafh

// Category is the single-ASCII-character OPRA message category.
type Category byte

const (
	// Category_LastSale is the last-sale (trade) category.
	Category_LastSale Category = 'a'
	// Category_OpenInterest is the open-interest category.
	Category_OpenInterest Category = 'd'
	// Category_Eod is the end-of-day summary category.
	Category_Eod Category = 'f'
	// Category_Quote is the equity/index quote-with-size category.
	Category_Quote Category = 'k'
	// Category_Underlying is the underlying-value category.
	Category_Underlying Category = 'Y'
	// Category_Control is the control-message category.
	Category_Control Category = 'H'
	// Category_Admin is the administrative-message category.
	Category_Admin Category = 'C'
)

// Type is the single-ASCII-character OPRA message type, meaningful
// only within its Category.
type Type byte

const (
	// Type_LastSaleRegular is a regular last-sale trade (category a).
	Type_LastSaleRegular Type = ' '
	// Type_LastSaleUnhalt is a last-sale that also carries an unhalt timestamp (category a).
	Type_LastSaleUnhalt Type = 'J'

	// Type_QuoteHalt marks the start of a trading halt (category k).
	Type_QuoteHalt Type = 'T'

	// Type_ControlStartOfDay is the start-of-day control message (category H).
	Type_ControlStartOfDay Type = 'C'
	// Type_ControlSeqReset is the sequence-reset control message (category H).
	Type_ControlSeqReset Type = 'K'
	// Type_ControlStartOfTestCycle is the start-of-test-cycle control message (category H).
	Type_ControlStartOfTestCycle Type = 'A'
	// Type_ControlEndOfTest is the end-of-test control message (category H).
	Type_ControlEndOfTest Type = 'B'
	// Type_ControlLineIntegrity is the line-integrity control message (category H).
	Type_ControlLineIntegrity Type = 'N'
)

// BBOIndicator is the single-ASCII-character indicator on a category-k
// message of which of {best-bid, best-offer} are embedded alongside it.
type BBOIndicator byte

const (
	// BBOIndicator_QuoteOnly carries no best-bid/best-offer appendage.
	BBOIndicator_QuoteOnly BBOIndicator = ' '
	// BBOIndicator_WithBestOffer carries a best-offer appendage.
	BBOIndicator_WithBestOffer BBOIndicator = 'A'
	// BBOIndicator_WithBestBid carries a best-bid appendage.
	BBOIndicator_WithBestBid BBOIndicator = 'B'
	// BBOIndicator_WithBoth carries both appendages.
	BBOIndicator_WithBoth BBOIndicator = 'C'
)

// PutCall is the single-character put/call indicator of an option key.
type PutCall byte

const (
	PutCall_Put  PutCall = 'P'
	PutCall_Call PutCall = 'C'
)

// Side mirrors the A/B physical-line designation of an FT line.
type Side uint8

const (
	Side_A Side = 0
	Side_B Side = 1
)

func (s Side) String() string {
	if s == Side_A {
		return "A"
	}
	return "B"
}

// Peer returns the other physical line of the same FT line.
func (s Side) Peer() Side {
	if s == Side_A {
		return Side_B
	}
	return Side_A
}

// LineState is the aggregate state tag of an FT line.
type LineState uint8

const (
	LineState_OK LineState = iota
	LineState_Stale
)

func (s LineState) String() string {
	switch s {
	case LineState_OK:
		return "OK"
	case LineState_Stale:
		return "STALE"
	default:
		return "UNKNOWN"
	}
}

// ArbiterDecision is the disposition the FT-line arbiter assigns to an
// incoming message.
type ArbiterDecision uint8

const (
	ArbiterDecision_Deliver ArbiterDecision = iota
	ArbiterDecision_DropDuplicate
	ArbiterDecision_DropLate
	ArbiterDecision_DropWaitingReset
)

func (d ArbiterDecision) String() string {
	switch d {
	case ArbiterDecision_Deliver:
		return "deliver"
	case ArbiterDecision_DropDuplicate:
		return "drop_dup"
	case ArbiterDecision_DropLate:
		return "drop_late"
	case ArbiterDecision_DropWaitingReset:
		return "drop_waiting_reset"
	default:
		return "unknown"
	}
}

// UpdateFlags is a 32-bit bitmap of which derived fields on an OptionEntry
// changed (or, in "all" partial-publish mode, the configured full-image
// baseline) as of the record currently being emitted.
type UpdateFlags uint32

const (
	UpdateFlag_Participant UpdateFlags = 1 << iota
	UpdateFlag_Year
	UpdateFlag_OpenBid
	UpdateFlag_OpenOffer
	UpdateFlag_OpenPrice
	UpdateFlag_ClosePrice
	UpdateFlag_LastPrice
	UpdateFlag_HighPrice
	UpdateFlag_LowPrice
	UpdateFlag_Bid
	UpdateFlag_Offer
	UpdateFlag_Session
	UpdateFlag_BestBidParticipant
	UpdateFlag_BestOfferParticipant
	UpdateFlag_CumVolume
	UpdateFlag_CumValue
	UpdateFlag_HaltTime
	UpdateFlag_UnhaltTime
	UpdateFlag_NetChange
	UpdateFlag_OpenInterest
)

// UpdateFlags_All is the "full image on every message" partial-publish
// baseline: every bit set.
const UpdateFlags_All UpdateFlags = 0xFFFFFFFF

// UpdateFlags_ValueAdded is the curated "value_added" partial-publish
// baseline named in spec.md's §4.4: participant, year, open, last, high,
// low, bid, offer, session, best-bid/best-offer participant.
const UpdateFlags_ValueAdded = UpdateFlag_Participant | UpdateFlag_Year |
	UpdateFlag_OpenPrice | UpdateFlag_LastPrice | UpdateFlag_HighPrice |
	UpdateFlag_LowPrice | UpdateFlag_Bid | UpdateFlag_Offer |
	UpdateFlag_Session | UpdateFlag_BestBidParticipant | UpdateFlag_BestOfferParticipant

// PartialPublishMode selects which UpdateFlags baseline a Config uses.
type PartialPublishMode uint8

const (
	PartialPublishMode_All PartialPublishMode = iota
	PartialPublishMode_ValueAdded
)

// Baseline returns the UpdateFlags baseline for the mode.
func (m PartialPublishMode) Baseline() UpdateFlags {
	if m == PartialPublishMode_ValueAdded {
		return UpdateFlags_ValueAdded
	}
	return UpdateFlags_All
}

// SlidingWindowSize is the size of each FT line's circular duplicate
// detection window, per spec.md §4.3.
const SlidingWindowSize = 512
