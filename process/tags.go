// Copyright (c) 2024 Neomantra Corp
//
// FAST tag layout for each OPRA category's message body. spec.md §6 notes
// that "the detailed per-category field order is encoded as the sequence
// of decoder tag constants enumerated in source" rather than prescribed
// here; this file is that enumeration for this implementation, one slot
// range per template id.

package process

import "github.com/NimbleMarkets/opra-fh/fast"

// TemplateID identifies an OPRA FAST message template. The non-FCO and
// FCO (foreign currency option) templates share field layout and are
// dispatched to the same handlers per SPEC_FULL.md §5.
type TemplateID uint8

const (
	TemplateLastSale     TemplateID = 1
	TemplateOpenInterest TemplateID = 2
	TemplateEod          TemplateID = 3
	TemplateQuote        TemplateID = 4
	TemplateUnderlying   TemplateID = 5
	TemplateControl      TemplateID = 6
	TemplateAdmin        TemplateID = 7

	TemplateFcoLastSale TemplateID = 8
	TemplateFcoQuote    TemplateID = 9
	TemplateFcoEod      TemplateID = 10
)

// Common header tags, shared by every template's opening fields.
var (
	tagParticipant    = fast.MakeTag(fast.ValueType_U32, fast.Operator_Copy, 0, 0)
	tagSequenceNumber = fast.MakeTag(fast.ValueType_U32, fast.Operator_Incr, 0, 1)
	tagTimeMicros     = fast.MakeTag(fast.ValueType_U32, fast.Operator_Delta, 0, 2)
	tagRetransmission = fast.MakeTag(fast.ValueType_U32, fast.Operator_None, 0, 3)

	tagRootSymbol   = fast.MakeTag(fast.ValueType_Str, fast.Operator_Copy, 0, 4)
	tagExpiryYear   = fast.MakeTag(fast.ValueType_U32, fast.Operator_Copy, 0, 5)
	tagExpiryDay    = fast.MakeTag(fast.ValueType_U32, fast.Operator_Copy, 0, 6)
	tagMonthLetter  = fast.MakeTag(fast.ValueType_U32, fast.Operator_Copy, 0, 7)
	tagExchange     = fast.MakeTag(fast.ValueType_U32, fast.Operator_Copy, 0, 8)
	tagDenomCode    = fast.MakeTag(fast.ValueType_U32, fast.Operator_Copy, 0, 9)
	tagRawStrike    = fast.MakeTag(fast.ValueType_I32, fast.Operator_Copy, 0, 10)
)

// Last-sale (category 'a') tags.
var (
	tagLastSaleType   = fast.MakeTag(fast.ValueType_U32, fast.Operator_None, uint8(TemplateLastSale), 0)
	tagLastSalePrice  = fast.MakeTag(fast.ValueType_I32, fast.Operator_Delta, uint8(TemplateLastSale), 1)
	tagLastSaleVolume = fast.MakeTag(fast.ValueType_U32, fast.Operator_None, uint8(TemplateLastSale), 2)
	tagLastSaleSession = fast.MakeTag(fast.ValueType_U32, fast.Operator_Copy, uint8(TemplateLastSale), 3)
)

// Open-interest (category 'd') tags.
var (
	tagOpenInterestValue = fast.MakeTag(fast.ValueType_U32, fast.Operator_None, uint8(TemplateOpenInterest), 0)
)

// End-of-day summary (category 'f') tags.
var (
	tagEodBid   = fast.MakeTag(fast.ValueType_I32, fast.Operator_Delta, uint8(TemplateEod), 0)
	tagEodOffer = fast.MakeTag(fast.ValueType_I32, fast.Operator_Delta, uint8(TemplateEod), 1)
	tagEodOpen  = fast.MakeTag(fast.ValueType_I32, fast.Operator_Delta, uint8(TemplateEod), 2)
	tagEodHigh  = fast.MakeTag(fast.ValueType_I32, fast.Operator_Delta, uint8(TemplateEod), 3)
	tagEodLow   = fast.MakeTag(fast.ValueType_I32, fast.Operator_Delta, uint8(TemplateEod), 4)
	tagEodLast  = fast.MakeTag(fast.ValueType_I32, fast.Operator_Delta, uint8(TemplateEod), 5)
	tagEodClose = fast.MakeTag(fast.ValueType_I32, fast.Operator_Delta, uint8(TemplateEod), 6)
)

// Quote-with-size (category 'k') tags.
var (
	tagQuoteType               = fast.MakeTag(fast.ValueType_U32, fast.Operator_None, uint8(TemplateQuote), 0)
	tagQuoteBBOIndicator       = fast.MakeTag(fast.ValueType_U32, fast.Operator_None, uint8(TemplateQuote), 1)
	tagQuoteBid                = fast.MakeTag(fast.ValueType_I32, fast.Operator_Delta, uint8(TemplateQuote), 2)
	tagQuoteOffer              = fast.MakeTag(fast.ValueType_I32, fast.Operator_Delta, uint8(TemplateQuote), 3)
	tagQuoteSession            = fast.MakeTag(fast.ValueType_U32, fast.Operator_Copy, uint8(TemplateQuote), 4)
	tagQuoteBestBid            = fast.MakeTag(fast.ValueType_I32, fast.Operator_Delta, uint8(TemplateQuote), 5)
	tagQuoteBestBidParticipant = fast.MakeTag(fast.ValueType_U32, fast.Operator_None, uint8(TemplateQuote), 6)
	tagQuoteBestOffer          = fast.MakeTag(fast.ValueType_I32, fast.Operator_Delta, uint8(TemplateQuote), 7)
	tagQuoteBestOfferParticipant = fast.MakeTag(fast.ValueType_U32, fast.Operator_None, uint8(TemplateQuote), 8)
)

// Underlying-value (category 'Y') tags. The message carries a repeating
// group of per-root entries; tagUnderlyingCount gives the group length and
// the remaining tags are re-decoded once per group entry, per FAST's
// standard repeating-group convention (each occurrence shares the same
// per-(template,slot) cache cell as the prior occurrence).
var (
	tagUnderlyingCount = fast.MakeTag(fast.ValueType_U32, fast.Operator_None, uint8(TemplateUnderlying), 0)
	tagUnderlyingRoot  = fast.MakeTag(fast.ValueType_Str, fast.Operator_Copy, uint8(TemplateUnderlying), 1)
	tagUnderlyingLast  = fast.MakeTag(fast.ValueType_I32, fast.Operator_Delta, uint8(TemplateUnderlying), 2)
	tagUnderlyingBid   = fast.MakeTag(fast.ValueType_I32, fast.Operator_Delta, uint8(TemplateUnderlying), 3)
	tagUnderlyingOffer = fast.MakeTag(fast.ValueType_I32, fast.Operator_Delta, uint8(TemplateUnderlying), 4)
	tagUnderlyingDenom = fast.MakeTag(fast.ValueType_U32, fast.Operator_Copy, uint8(TemplateUnderlying), 5)
)

// Control/admin body text tags.
var (
	tagControlBody = fast.MakeTag(fast.ValueType_Str, fast.Operator_None, uint8(TemplateControl), 0)
	tagAdminBody   = fast.MakeTag(fast.ValueType_Str, fast.Operator_None, uint8(TemplateAdmin), 0)
)
