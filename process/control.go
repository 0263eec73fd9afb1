// Copyright (c) 2024 Neomantra Corp
//
// Category 'H' control and category 'C' administrative messages. The
// FT-line arbiter applies the reset control messages (start-of-day,
// sequence-reset, start-of-test) to its window and then delivers them, as
// it does end-of-test and line-integrity messages, so handleControl runs
// for every control message the arbiter delivers, per spec.md §4.4's
// "control messages are also published to a control topic" note.

package process

import (
	"github.com/NimbleMarkets/opra-fh/fast"
	"github.com/NimbleMarkets/opra-fh/oprafh"
)

func (p *Processor) handleControl(env Envelope, d *fast.Decoder) error {
	hdr, err := p.decodeHeader(d)
	if err != nil {
		return err
	}
	buf := make([]byte, 256)
	n, err := d.DecodeStr(tagControlBody, buf)
	if err != nil {
		return err
	}
	rec := ControlRecord{
		Perf: p.perfHeader(oprafh.Category_Control, env.Type, int64(hdr.sequenceNumber)),
		Opra: OpraHeader{
			Category:       oprafh.Category_Control,
			Type:           env.Type,
			Participant:    hdr.participant,
			SequenceNumber: int64(hdr.sequenceNumber),
			TimeMicros:     int64(hdr.timeMicros),
			Retransmission: hdr.retransmission,
		},
		Body: string(buf[:n]),
	}
	return p.publish("control", &rec)
}

func (p *Processor) handleAdmin(env Envelope, d *fast.Decoder) error {
	hdr, err := p.decodeHeader(d)
	if err != nil {
		return err
	}
	buf := make([]byte, 256)
	n, err := d.DecodeStr(tagAdminBody, buf)
	if err != nil {
		return err
	}
	rec := AdminRecord{
		Perf: p.perfHeader(oprafh.Category_Admin, env.Type, int64(hdr.sequenceNumber)),
		Opra: OpraHeader{
			Category:       oprafh.Category_Admin,
			Type:           env.Type,
			Participant:    hdr.participant,
			SequenceNumber: int64(hdr.sequenceNumber),
			TimeMicros:     int64(hdr.timeMicros),
			Retransmission: hdr.retransmission,
		},
		Body: string(buf[:n]),
	}
	return p.publish("admin", &rec)
}
