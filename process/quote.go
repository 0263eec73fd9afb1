// Copyright (c) 2024 Neomantra Corp
//
// Category 'k' quote-with-size handling, including the four-way
// best-bid/best-offer indicator dispatch spec.md §4.4 describes: a quote
// carries zero, one, or both of a best-bid and a best-offer appendage
// depending on its BBOIndicator byte.

package process

import (
	"github.com/NimbleMarkets/opra-fh/fast"
	"github.com/NimbleMarkets/opra-fh/oprafh"
)

func (p *Processor) handleQuote(env Envelope, d *fast.Decoder) error {
	hdr, err := p.decodeHeader(d)
	if err != nil {
		return err
	}
	opt, err := p.decodeOptionFields(d)
	if err != nil {
		return err
	}
	qType, err := d.DecodeU32(tagQuoteType)
	if err != nil {
		return err
	}
	bboRaw, err := d.DecodeU32(tagQuoteBBOIndicator)
	if err != nil {
		return err
	}
	bid, err := decodePrice(d, tagQuoteBid, opt.denomCode)
	if err != nil {
		return err
	}
	offer, err := decodePrice(d, tagQuoteOffer, opt.denomCode)
	if err != nil {
		return err
	}
	session, err := d.DecodeU32(tagQuoteSession)
	if err != nil {
		return err
	}

	bbo := oprafh.BBOIndicator(bboRaw)
	var bestBid, bestOffer float64
	var bestBidParticipant, bestOfferParticipant byte

	switch bbo {
	case oprafh.BBOIndicator_QuoteOnly:
		// no appendage
	case oprafh.BBOIndicator_WithBestBid:
		bestBid, bestBidParticipant, err = p.decodeBestBid(d, opt.denomCode)
	case oprafh.BBOIndicator_WithBestOffer:
		bestOffer, bestOfferParticipant, err = p.decodeBestOffer(d, opt.denomCode)
	case oprafh.BBOIndicator_WithBoth:
		bestBid, bestBidParticipant, err = p.decodeBestBid(d, opt.denomCode)
		if err == nil {
			bestOffer, bestOfferParticipant, err = p.decodeBestOffer(d, opt.denomCode)
		}
	default:
		err = ErrUnknownBBOIndicator
	}
	if err != nil {
		return err
	}

	key, err := buildOptionKey(opt.root, opt.year, opt.day, opt.monthLetter, opt.exchange, opt.rawStrike, opt.denomCode)
	if err != nil {
		return err
	}
	entry, err := p.lookupOrInsert(key, env.FTLineIndex)
	if err != nil {
		return err
	}
	if p.checkSupersededAndAdvance(entry, hdr.sequenceNumber) {
		return nil
	}

	entry.ResetBaseline(p.Partial.Baseline())
	entry.LastParticipantTime = hdr.timeMicros
	if byte(session) != entry.Session {
		entry.Session = byte(session)
		entry.UpdateFlags |= oprafh.UpdateFlag_Session
	}
	oprafh.SetIfChanged(&entry.Bid, &entry.UpdateFlags, oprafh.UpdateFlag_Bid, bid)
	oprafh.SetIfChanged(&entry.Offer, &entry.UpdateFlags, oprafh.UpdateFlag_Offer, offer)
	oprafh.MarkOpenIfZero(&entry.OpenBid, &entry.UpdateFlags, oprafh.UpdateFlag_OpenBid, bid)
	oprafh.MarkOpenIfZero(&entry.OpenOffer, &entry.UpdateFlags, oprafh.UpdateFlag_OpenOffer, offer)

	if bbo == oprafh.BBOIndicator_WithBestBid || bbo == oprafh.BBOIndicator_WithBoth {
		if bestBidParticipant != entry.BestBidParticipant {
			entry.BestBidParticipant = bestBidParticipant
			entry.UpdateFlags |= oprafh.UpdateFlag_BestBidParticipant
		}
	}
	if bbo == oprafh.BBOIndicator_WithBestOffer || bbo == oprafh.BBOIndicator_WithBoth {
		if bestOfferParticipant != entry.BestOfferParticipant {
			entry.BestOfferParticipant = bestOfferParticipant
			entry.UpdateFlags |= oprafh.UpdateFlag_BestOfferParticipant
		}
	}

	if oprafh.Type(qType) == oprafh.Type_QuoteHalt {
		entry.HaltTimeMicros = int64(hdr.timeMicros)
		entry.UpdateFlags |= oprafh.UpdateFlag_HaltTime
	}

	rec := QuoteRecord{
		Perf: p.perfHeader(oprafh.Category_Quote, oprafh.Type(qType), int64(hdr.sequenceNumber)),
		Opra: OpraHeader{
			Category:       oprafh.Category_Quote,
			Type:           oprafh.Type(qType),
			Participant:    hdr.participant,
			SequenceNumber: int64(hdr.sequenceNumber),
			TimeMicros:     int64(hdr.timeMicros),
			Retransmission: hdr.retransmission,
		},
		Key:                  key,
		Topic:                entry.Topic,
		BBOIndicator:         bbo,
		Bid:                  entry.Bid,
		Offer:                entry.Offer,
		Session:              entry.Session,
		OpeningBid:           entry.OpenBid,
		OpeningOffer:         entry.OpenOffer,
		HaltTimeMicros:       entry.HaltTimeMicros,
		BestBid:              bestBid,
		BestBidParticipant:   entry.BestBidParticipant,
		BestOffer:            bestOffer,
		BestOfferParticipant: entry.BestOfferParticipant,
		UpdateFlags:          entry.UpdateFlags,
	}
	return p.publish(entry.Topic, &rec)
}

func (p *Processor) decodeBestBid(d *fast.Decoder, denomCode byte) (float64, byte, error) {
	price, err := decodePrice(d, tagQuoteBestBid, denomCode)
	if err != nil {
		return 0, 0, err
	}
	participant, err := d.DecodeU32(tagQuoteBestBidParticipant)
	if err != nil {
		return 0, 0, err
	}
	return price, byte(participant), nil
}

func (p *Processor) decodeBestOffer(d *fast.Decoder, denomCode byte) (float64, byte, error) {
	price, err := decodePrice(d, tagQuoteBestOffer, denomCode)
	if err != nil {
		return 0, 0, err
	}
	participant, err := d.DecodeU32(tagQuoteBestOfferParticipant)
	if err != nil {
		return 0, 0, err
	}
	return price, byte(participant), nil
}
