// Copyright (c) 2024 Neomantra Corp
//
// Category 'a' last-sale handling: trade price/volume plus the derived
// opening price, daily high/low, and cumulative volume/value a last-sale
// stream carries forward, per spec.md §4.4.

package process

import (
	"github.com/segmentio/encoding/json"

	"github.com/NimbleMarkets/opra-fh/fast"
	"github.com/NimbleMarkets/opra-fh/oprafh"
)

func (p *Processor) handleLastSale(env Envelope, d *fast.Decoder) error {
	hdr, err := p.decodeHeader(d)
	if err != nil {
		return err
	}
	opt, err := p.decodeOptionFields(d)
	if err != nil {
		return err
	}
	saleType, err := d.DecodeU32(tagLastSaleType)
	if err != nil {
		return err
	}
	price, err := decodePrice(d, tagLastSalePrice, opt.denomCode)
	if err != nil {
		return err
	}
	volume, err := d.DecodeU32(tagLastSaleVolume)
	if err != nil {
		return err
	}
	session, err := d.DecodeU32(tagLastSaleSession)
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
	oprafh.MarkOpenIfZero(&entry.OpenPrice, &entry.UpdateFlags, oprafh.UpdateFlag_OpenPrice, price)
	if price > entry.DailyHigh {
		entry.DailyHigh = price
		entry.UpdateFlags |= oprafh.UpdateFlag_HighPrice
	}
	if entry.DailyLow == 0 || price < entry.DailyLow {
		entry.DailyLow = price
		entry.UpdateFlags |= oprafh.UpdateFlag_LowPrice
	}
	entry.LastPrice = price
	entry.UpdateFlags |= oprafh.UpdateFlag_LastPrice
	entry.CumVolume += uint64(volume)
	entry.CumValue += uint64(price * float64(volume))
	entry.UpdateFlags |= oprafh.UpdateFlag_CumVolume | oprafh.UpdateFlag_CumValue

	rec := LastSaleRecord{
		Perf: p.perfHeader(oprafh.Category_LastSale, oprafh.Type(saleType), int64(hdr.sequenceNumber)),
		Opra: OpraHeader{
			Category:       oprafh.Category_LastSale,
			Type:           oprafh.Type(saleType),
			Participant:    hdr.participant,
			SequenceNumber: int64(hdr.sequenceNumber),
			TimeMicros:     int64(hdr.timeMicros),
			Retransmission: hdr.retransmission,
		},
		Key:          key,
		Topic:        entry.Topic,
		Price:        price,
		Volume:       int64(volume),
		Session:      entry.Session,
		OpeningPrice: entry.OpenPrice,
		DailyLow:     entry.DailyLow,
		DailyHigh:    entry.DailyHigh,
		CumVolume:    int64(entry.CumVolume),
		CumValue:     int64(entry.CumValue),
		UnhaltMicros: entry.UnhaltTimeMicros,
		UpdateFlags:  entry.UpdateFlags,
	}

	if oprafh.Type(saleType) == oprafh.Type_LastSaleUnhalt {
		entry.UnhaltTimeMicros = int64(hdr.timeMicros)
		entry.UpdateFlags |= oprafh.UpdateFlag_UnhaltTime
		rec.UnhaltMicros = entry.UnhaltTimeMicros
		rec.UpdateFlags = entry.UpdateFlags
	}

	return p.publish(entry.Topic, &rec)
}

// publish marshals v with segmentio/encoding/json, which avoids reflection
// on the hot path the way encoding/json cannot, and sends it to topic.
func (p *Processor) publish(topic string, v any) error {
	buf, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return p.Publisher.Send(topic, buf)
}
