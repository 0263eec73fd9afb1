// Copyright (c) 2024 Neomantra Corp
//
// Category 'd' open-interest handling. The expiration year/date is stored
// on the option entry only the first time it is seen (spec.md §4.4),
// which also sets the Year and Participant update flags; the participant
// itself is not stored. The open-interest value is not cached on the
// entry: each message's value is published as received.

package process

import (
	"github.com/NimbleMarkets/opra-fh/fast"
	"github.com/NimbleMarkets/opra-fh/oprafh"
)

func (p *Processor) handleOpenInterest(env Envelope, d *fast.Decoder) error {
	hdr, err := p.decodeHeader(d)
	if err != nil {
		return err
	}
	opt, err := p.decodeOptionFields(d)
	if err != nil {
		return err
	}
	value, err := d.DecodeU32(tagOpenInterestValue)
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
	if entry.ExpirationDate == [2]byte{} {
		entry.ExpirationDate = [2]byte{opt.year, opt.day}
		entry.UpdateFlags |= oprafh.UpdateFlag_Year | oprafh.UpdateFlag_Participant
	}

	rec := OpenInterestRecord{
		Perf: p.perfHeader(oprafh.Category_OpenInterest, 0, int64(hdr.sequenceNumber)),
		Opra: OpraHeader{
			Category:       oprafh.Category_OpenInterest,
			Participant:    hdr.participant,
			SequenceNumber: int64(hdr.sequenceNumber),
			TimeMicros:     int64(hdr.timeMicros),
			Retransmission: hdr.retransmission,
		},
		Key:            key,
		Topic:          entry.Topic,
		Year:           opt.year,
		ExpirationDate: [6]byte{entry.ExpirationDate[0], entry.ExpirationDate[1]},
		OpenInterest:   int64(value),
		UpdateFlags:    entry.UpdateFlags,
	}
	return p.publish(entry.Topic, &rec)
}
