// Copyright (c) 2024 Neomantra Corp

package ingest_test

import (
	"context"
	"net"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/NimbleMarkets/opra-fh/arbiter"
	"github.com/NimbleMarkets/opra-fh/ingest"
	"github.com/NimbleMarkets/opra-fh/oprafh"
	"github.com/NimbleMarkets/opra-fh/process"
)

// encodeVarUint encodes v as a stop-bit-terminated unsigned integer, the
// wire encoding Loop expects for every FAST field, including the raw
// template-id byte it reads ahead of the tag-cache system.
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

type recordingPublisher struct {
	sends []string
}

func (p *recordingPublisher) Send(topic string, record []byte) error {
	p.sends = append(p.sends, topic)
	return nil
}
func (p *recordingPublisher) Flush() error                          { return nil }
func (p *recordingPublisher) RegisterTopic(entry *oprafh.OptionEntry) {}

// quoteMessage builds one full packet (16-byte header + [category][type]
// prefix + FAST body) carrying a single fresh quote message.
func quoteMessage(seq int64) []byte {
	fastBody := concat(
		pmapBytes(true, true, true, true, true, true, true, true, true, true, true, true, true, true, true, true),
		encodeVarUint(uint32(process.TemplateQuote)),
		encodeVarUint(5),     // participant
		encodeVarUint(100),   // sequence number
		encodeVarUint(100),   // time micros
		encodeVarUint(0),     // retransmission
		encodeVarStr("AAPL"), // root
		encodeVarUint(25),    // expiry year
		encodeVarUint(15),    // expiry day
		encodeVarUint('A'),   // month letter
		encodeVarUint(1),     // exchange
		encodeVarUint('D'),   // denom code
		encodeVarInt(50),     // raw strike
		encodeVarUint(' '),   // quote type
		encodeVarUint(' '),   // bbo indicator
		encodeVarInt(10),     // bid baseline
		encodeVarInt(20),     // offer baseline
		encodeVarUint('O'),   // session
	)
	body := append([]byte{byte(oprafh.Category_Quote), byte(' ')}, fastBody...)

	header := make([]byte, 16)
	header[0] = 0x01
	header[1] = 0x02
	seqStr := []byte("0000000000")
	s := seq
	for i := len(seqStr) - 1; i >= 0 && s > 0; i-- {
		seqStr[i] = byte('0' + s%10)
		s /= 10
	}
	copy(header[2:12], seqStr)
	copy(header[12:15], []byte("001"))
	header[15] = byte(len(body))

	return append(header, body...)
}

var _ = Describe("Loop", func() {
	It("decodes a quote packet end to end off a real UDP socket", func() {
		pc, err := net.ListenPacket("udp4", "127.0.0.1:0")
		Expect(err).NotTo(HaveOccurred())
		defer pc.Close()
		udpConn := pc.(*net.UDPConn)

		sender, err := net.Dial("udp4", udpConn.LocalAddr().String())
		Expect(err).NotTo(HaveOccurred())
		defer sender.Close()

		sock := ingest.NewLineSocket(udpConn)

		table := oprafh.NewOptionTable(16, 1, nil)
		pub := &recordingPublisher{}
		proc := process.NewProcessor(table, nil, pub, oprafh.PartialPublishMode_All, nil)
		arb := arbiter.NewArbiter(1, 0, nil, arbiter.NullObserver{})

		endpoint := ingest.LineEndpoint{FTLineIndex: 0, Side: oprafh.Side_A, Socket: sock}
		loop := ingest.NewLoop(arb, proc, []ingest.LineEndpoint{endpoint}, nil)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		done := make(chan struct{})
		go func() {
			loop.Run(ctx)
			close(done)
		}()

		_, err = sender.Write(quoteMessage(500))
		Expect(err).NotTo(HaveOccurred())

		Eventually(func() int {
			return len(pub.sends)
		}, 2*time.Second, 10*time.Millisecond).Should(Equal(1))

		cancel()
		<-done
	})
})
