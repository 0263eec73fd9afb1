// Copyright (c) 2024 Neomantra Corp
//
// Category 'f' end-of-day summary handling: bid/offer/open/high/low/last/
// close, each applied with change-detection so UpdateFlags reflects what
// actually moved, per spec.md §4.4.

package process

import (
	"github.com/NimbleMarkets/opra-fh/fast"
	"github.com/NimbleMarkets/opra-fh/oprafh"
)

func (p *Processor) handleEod(env Envelope, d *fast.Decoder) error {
	hdr, err := p.decodeHeader(d)
	if err != nil {
		return err
	}
	opt, err := p.decodeOptionFields(d)
	if err != nil {
		return err
	}

	bid, err := decodePrice(d, tagEodBid, opt.denomCode)
	if err != nil {
		return err
	}
	offer, err := decodePrice(d, tagEodOffer, opt.denomCode)
	if err != nil {
		return err
	}
	open, err := decodePrice(d, tagEodOpen, opt.denomCode)
	if err != nil {
		return err
	}
	high, err := decodePrice(d, tagEodHigh, opt.denomCode)
	if err != nil {
		return err
	}
	low, err := decodePrice(d, tagEodLow, opt.denomCode)
	if err != nil {
		return err
	}
	last, err := decodePrice(d, tagEodLast, opt.denomCode)
	if err != nil {
		return err
	}
	close, err := decodePrice(d, tagEodClose, opt.denomCode)
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
	oprafh.SetIfChanged(&entry.Bid, &entry.UpdateFlags, oprafh.UpdateFlag_Bid, bid)
	oprafh.SetIfChanged(&entry.Offer, &entry.UpdateFlags, oprafh.UpdateFlag_Offer, offer)
	oprafh.SetIfChanged(&entry.OpenPrice, &entry.UpdateFlags, oprafh.UpdateFlag_OpenPrice, open)
	oprafh.SetIfChanged(&entry.EodHigh, &entry.UpdateFlags, oprafh.UpdateFlag_HighPrice, high)
	oprafh.SetIfChanged(&entry.EodLow, &entry.UpdateFlags, oprafh.UpdateFlag_LowPrice, low)
	oprafh.SetIfChanged(&entry.LastPrice, &entry.UpdateFlags, oprafh.UpdateFlag_LastPrice, last)
	oprafh.SetIfChanged(&entry.ClosePrice, &entry.UpdateFlags, oprafh.UpdateFlag_ClosePrice, close)

	rec := EodRecord{
		Perf: p.perfHeader(oprafh.Category_Eod, 0, int64(hdr.sequenceNumber)),
		Opra: OpraHeader{
			Category:       oprafh.Category_Eod,
			Participant:    hdr.participant,
			SequenceNumber: int64(hdr.sequenceNumber),
			TimeMicros:     int64(hdr.timeMicros),
			Retransmission: hdr.retransmission,
		},
		Key:        key,
		Topic:      entry.Topic,
		Bid:        entry.Bid,
		Offer:      entry.Offer,
		Open:       entry.OpenPrice,
		High:       entry.EodHigh,
		Low:        entry.EodLow,
		Last:       entry.LastPrice,
		Close:      entry.ClosePrice,
		NetChange:  entry.ClosePrice - entry.OpenPrice,
		UpdateFlags: entry.UpdateFlags,
	}
	if entry.UpdateFlags&oprafh.UpdateFlag_ClosePrice != 0 || entry.UpdateFlags&oprafh.UpdateFlag_OpenPrice != 0 {
		rec.UpdateFlags |= oprafh.UpdateFlag_NetChange
	}
	return p.publish(entry.Topic, &rec)
}
