// Copyright (c) 2024 Neomantra Corp

package ingest_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/NimbleMarkets/opra-fh/ingest"
)

func buildHeader(seq int64, count int, firstMsgSize byte, body []byte, withETX bool) []byte {
	buf := make([]byte, 0, 16+len(body)+1)
	buf = append(buf, 0x01, 0x02) // SOH, version 2
	seqStr := []byte("0000000000")
	for i := len(seqStr) - 1; i >= 0 && seq > 0; i-- {
		seqStr[i] = byte('0' + seq%10)
		seq /= 10
	}
	buf = append(buf, seqStr...)
	countStr := []byte("000")
	for i := len(countStr) - 1; i >= 0 && count > 0; i-- {
		countStr[i] = byte('0' + count%10)
		count /= 10
	}
	buf = append(buf, countStr...)
	buf = append(buf, firstMsgSize)
	buf = append(buf, body...)
	if withETX {
		buf = append(buf, 0x03)
	}
	return buf
}

var _ = Describe("ParsePacketHeader", func() {
	It("parses a well-formed header and strips a trailing ETX", func() {
		body := []byte{0xAA, 0xBB, 0xCC}
		buf := buildHeader(42, 1, 3, body, true)

		hdr, rest, err := ingest.ParsePacketHeader(buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(hdr.SequenceNumber).To(Equal(int64(42)))
		Expect(hdr.MessageCount).To(Equal(1))
		Expect(hdr.FirstMsgSize).To(Equal(byte(3)))
		Expect(rest).To(Equal(body))
	})

	It("parses a header with no trailing ETX", func() {
		body := []byte{0x01, 0x02}
		buf := buildHeader(7, 2, 2, body, false)

		_, rest, err := ingest.ParsePacketHeader(buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(rest).To(Equal(body))
	})

	It("rejects a packet shorter than the fixed header", func() {
		_, _, err := ingest.ParsePacketHeader(make([]byte, 10))
		Expect(err).To(MatchError(ingest.ErrShortPacket))
	})

	It("rejects a missing start-of-header byte", func() {
		buf := buildHeader(1, 1, 1, []byte{0x00}, false)
		buf[0] = 0x00
		_, _, err := ingest.ParsePacketHeader(buf)
		Expect(err).To(MatchError(ingest.ErrBadSOH))
	})

	It("rejects an unsupported version byte", func() {
		buf := buildHeader(1, 1, 1, []byte{0x00}, false)
		buf[1] = 0x09
		_, _, err := ingest.ParsePacketHeader(buf)
		Expect(err).To(MatchError(ingest.ErrBadVersion))
	})

	It("rejects a non-numeric sequence number field", func() {
		buf := buildHeader(1, 1, 1, []byte{0x00}, false)
		buf[2] = 'X'
		_, _, err := ingest.ParsePacketHeader(buf)
		Expect(err).To(MatchError(ingest.ErrBadSequenceField))
	})

	It("rejects a non-numeric message count field", func() {
		buf := buildHeader(1, 1, 1, []byte{0x00}, false)
		buf[12] = 'X'
		_, _, err := ingest.ParsePacketHeader(buf)
		Expect(err).To(MatchError(ingest.ErrBadCountField))
	})
})
