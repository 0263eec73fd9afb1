// Copyright (c) 2024 Neomantra Corp

package process_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/NimbleMarkets/opra-fh/fast"
	"github.com/NimbleMarkets/opra-fh/oprafh"
	"github.com/NimbleMarkets/opra-fh/process"
)

// encodeVarUint encodes v as a stop-bit-terminated unsigned integer.
func encodeVarUint(v uint32) []byte {
	var groups []byte
	groups = append(groups, byte(v&0x7F))
	v >>= 7
	for v > 0 {
		groups = append(groups, byte(v&0x7F))
		v >>= 7
	}
	out := make([]byte, len(groups))
	for i, g := range groups {
		out[len(groups)-1-i] = g
	}
	out[len(out)-1] |= 0x80
	return out
}

// encodeVarInt encodes v as a stop-bit-terminated, sign-extending signed
// integer, the minimal-width inverse of readVarInt.
func encodeVarInt(v int32) []byte {
	value := int64(v)
	var groups []byte
	for {
		b := byte(value & 0x7F)
		groups = append(groups, b)
		value >>= 7
		signBit := b&0x40 != 0
		if (value == 0 && !signBit) || (value == -1 && signBit) {
			break
		}
	}
	out := make([]byte, len(groups))
	for i, g := range groups {
		out[len(groups)-1-i] = g
	}
	out[len(out)-1] |= 0x80
	return out
}

func encodeVarStr(s string) []byte {
	out := make([]byte, len(s))
	copy(out, s)
	out[len(out)-1] |= 0x80
	return out
}

// pmapBytes packs bits into as many presence-map bytes as needed, seven
// bits per byte, high bit of the final byte marking the stop.
func pmapBytes(bits ...bool) []byte {
	var out []byte
	for i := 0; i < len(bits); i += 7 {
		end := i + 7
		if end > len(bits) {
			end = len(bits)
		}
		chunk := bits[i:end]
		var b byte
		for j, set := range chunk {
			if set {
				b |= 1 << uint(6-j)
			}
		}
		out = append(out, b)
	}
	if len(out) == 0 {
		out = append(out, 0)
	}
	out[len(out)-1] |= 0x80
	return out
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// fakePublisher records every Send call for assertion.
type fakePublisher struct {
	sends []string
}

func (f *fakePublisher) Send(topic string, record []byte) error {
	f.sends = append(f.sends, topic)
	return nil
}
func (f *fakePublisher) Flush() error                          { return nil }
func (f *fakePublisher) RegisterTopic(entry *oprafh.OptionEntry) {}

var _ = Describe("Processor", func() {
	var (
		table *oprafh.OptionTable
		pub   *fakePublisher
		proc  *process.Processor
		d     *fast.Decoder
	)

	BeforeEach(func() {
		table = oprafh.NewOptionTable(16, 1, nil)
		pub = &fakePublisher{}
		proc = process.NewProcessor(table, nil, pub, oprafh.PartialPublishMode_All, nil)
		d = fast.NewDecoder()
	})

	Describe("quote handling", func() {
		env := process.Envelope{TemplateID: process.TemplateQuote, FTLineIndex: 0}

		It("sets opening bid/offer on first sighting and applies change-detected updates thereafter", func() {
			buf1 := concat(
				pmapBytes(true, true, true, true, true, true, true, true, true, true, true, true, true, true, true, true),
				encodeVarUint(5),        // participant
				encodeVarUint(100),      // sequence number
				encodeVarUint(100),      // time micros baseline
				encodeVarUint(0),        // retransmission
				encodeVarStr("AAPL"),    // root
				encodeVarUint(25),       // expiry year
				encodeVarUint(15),       // expiry day
				encodeVarUint('A'),      // month letter (call)
				encodeVarUint(1),        // exchange
				encodeVarUint('D'),      // denom code
				encodeVarInt(50),        // raw strike
				encodeVarUint(' '),      // quote type
				encodeVarUint(' '),      // bbo indicator: quote-only
				encodeVarInt(10),        // bid baseline
				encodeVarInt(20),        // offer baseline
				encodeVarUint('O'),      // session
			)
			_, err := d.BeginMessage(buf1)
			Expect(err).NotTo(HaveOccurred())
			Expect(proc.Process(env, d)).To(Succeed())
			Expect(d.EndMessage()).To(Succeed())
			Expect(pub.sends).To(HaveLen(1))

			// Offer's delta field is omitted entirely (no wire bytes, no
			// presence bit) to signal "unchanged", per FAST's delta
			// encoding: a zero delta is never put on the wire.
			buf2 := concat(
				pmapBytes(false, true, true, true, false, false, false, false, false, false, false, true, true, true, false, true),
				encodeVarUint(101), // sequence number
				encodeVarUint(5),   // time micros delta -> 105
				encodeVarUint(0),   // retransmission
				encodeVarUint(' '), // quote type
				encodeVarUint(' '), // bbo indicator
				encodeVarInt(5),    // bid delta -> 15
				encodeVarUint('C'), // session changes
			)
			_, err = d.BeginMessage(buf2)
			Expect(err).NotTo(HaveOccurred())
			Expect(proc.Process(env, d)).To(Succeed())
			Expect(d.EndMessage()).To(Succeed())
			Expect(pub.sends).To(HaveLen(2))

			var found *oprafh.OptionEntry
			table.ForEachOnLine(0, func(e *oprafh.OptionEntry) { found = e })
			Expect(found).NotTo(BeNil())
			Expect(found.Bid).To(Equal(15.0))
			Expect(found.Offer).To(Equal(20.0))
			Expect(found.OpenBid).To(Equal(10.0))
			Expect(found.OpenOffer).To(Equal(20.0))
			Expect(found.Session).To(Equal(byte('C')))
			Expect(found.UpdateFlags & oprafh.UpdateFlag_Bid).NotTo(BeZero())
			Expect(found.UpdateFlags & oprafh.UpdateFlag_Session).NotTo(BeZero())
		})
	})

	Describe("last-sale option-level duplicate check", func() {
		env := process.Envelope{TemplateID: process.TemplateLastSale, FTLineIndex: 0}

		It("drops a message whose sequence trails the entry's last-seen sequence without mutating state", func() {
			buf1 := concat(
				pmapBytes(true, true, true, true, true, true, true, true, true, true, true, true, true, true, true),
				encodeVarUint(5),     // participant
				encodeVarUint(200),   // sequence number
				encodeVarUint(1000),  // time micros baseline
				encodeVarUint(0),     // retransmission
				encodeVarStr("MSFT"), // root
				encodeVarUint(25),    // expiry year
				encodeVarUint(20),    // expiry day
				encodeVarUint('B'),   // month letter (call)
				encodeVarUint(2),     // exchange
				encodeVarUint('D'),   // denom code
				encodeVarInt(75),     // raw strike
				encodeVarUint(' '),   // sale type
				encodeVarInt(50),     // price baseline
				encodeVarUint(100),   // volume
				encodeVarUint('O'),   // session
			)
			_, err := d.BeginMessage(buf1)
			Expect(err).NotTo(HaveOccurred())
			Expect(proc.Process(env, d)).To(Succeed())
			Expect(d.EndMessage()).To(Succeed())
			Expect(pub.sends).To(HaveLen(1))

			buf2 := concat(
				pmapBytes(false, true, true, true, false, false, false, false, false, false, false, true, true, true, false),
				encodeVarUint(150), // sequence number -- trails 200
				encodeVarUint(10),  // time micros delta
				encodeVarUint(0),   // retransmission
				encodeVarUint(' '), // sale type
				encodeVarInt(999),  // price delta (must not apply)
				encodeVarUint(50),  // volume (must not apply)
			)
			_, err = d.BeginMessage(buf2)
			Expect(err).NotTo(HaveOccurred())
			Expect(proc.Process(env, d)).To(Succeed())
			Expect(d.EndMessage()).To(Succeed())

			Expect(pub.sends).To(HaveLen(1), "a superseded message must not be published")
			Expect(proc.LateCount()).To(Equal(uint64(1)))

			var found *oprafh.OptionEntry
			table.ForEachOnLine(0, func(e *oprafh.OptionEntry) { found = e })
			Expect(found).NotTo(BeNil())
			Expect(found.LastPrice).To(Equal(50.0))
			Expect(found.CumVolume).To(Equal(uint64(100)))
		})
	})
})
