// Copyright (c) 2024 Neomantra Corp
//
// Category 'Y' underlying-value handling. One wire message carries a
// repeating group of per-root entries; each is decoded and published
// independently, per spec.md §4.4.

package process

import (
	"github.com/NimbleMarkets/opra-fh/fast"
	"github.com/NimbleMarkets/opra-fh/oprafh"
)

func (p *Processor) handleUnderlying(env Envelope, d *fast.Decoder) error {
	hdr, err := p.decodeHeader(d)
	if err != nil {
		return err
	}
	count, err := d.DecodeU32(tagUnderlyingCount)
	if err != nil {
		return err
	}

	rootBuf := make([]byte, oprafh.RootSymbolLen)
	for i := uint32(0); i < count; i++ {
		n, err := d.DecodeStr(tagUnderlyingRoot, rootBuf)
		if err != nil {
			return err
		}
		root := string(rootBuf[:n])
		denom, err := d.DecodeU32(tagUnderlyingDenom)
		if err != nil {
			return err
		}
		last, err := decodePrice(d, tagUnderlyingLast, byte(denom))
		if err != nil {
			return err
		}
		bid, err := decodePrice(d, tagUnderlyingBid, byte(denom))
		if err != nil {
			return err
		}
		offer, err := decodePrice(d, tagUnderlyingOffer, byte(denom))
		if err != nil {
			return err
		}

		rec := UnderlyingRecord{
			Perf: p.perfHeader(oprafh.Category_Underlying, 0, int64(hdr.sequenceNumber)),
			Opra: OpraHeader{
				Category:       oprafh.Category_Underlying,
				Participant:    hdr.participant,
				SequenceNumber: int64(hdr.sequenceNumber),
				TimeMicros:     int64(hdr.timeMicros),
				Retransmission: hdr.retransmission,
			},
			Root:        root,
			LastPrice:   last,
			Bid:         bid,
			Offer:       offer,
			UpdateFlags: p.Partial.Baseline(),
		}
		if err := p.publish("underlying."+root, &rec); err != nil {
			return err
		}
	}
	return nil
}
