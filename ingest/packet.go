// Copyright (c) 2024 Neomantra Corp
//
// Packet framing: the fixed 16-byte OPRA header (SOH, version, ASCII
// sequence number and message count) in front of the FAST-encoded message
// stream, per spec.md §6.

package ingest

const (
	soh              = 0x01
	etx              = 0x03
	supportedVersion = 2

	headerLen        = 16
	seqFieldOffset   = 2
	seqFieldLen      = 10
	countFieldOffset = 12
	countFieldLen    = 3
	sizeByteOffset   = 15

	// runsToEndOfPacket is the size-of-first-message sentinel meaning the
	// first message's length is not separately bounded and instead runs
	// to the end of the packet (only meaningful for a single-message
	// packet), per spec.md §6.
	runsToEndOfPacket = 0xFF
)

// PacketHeader is the parsed fixed header of one OPRA FAST datagram.
type PacketHeader struct {
	SequenceNumber int64
	MessageCount   int
	FirstMsgSize   byte
}

// ParsePacketHeader validates and extracts the fixed header fields from
// buf, returning the header and the message-stream body that follows it
// (with any trailing ETX trimmed).
func ParsePacketHeader(buf []byte) (PacketHeader, []byte, error) {
	var h PacketHeader
	if len(buf) < headerLen {
		return h, nil, ErrShortPacket
	}
	if buf[0] != soh {
		return h, nil, ErrBadSOH
	}
	if buf[1] != supportedVersion {
		return h, nil, ErrBadVersion
	}

	seq, ok := parseASCIIDigits(buf[seqFieldOffset : seqFieldOffset+seqFieldLen])
	if !ok {
		return h, nil, ErrBadSequenceField
	}
	count, ok := parseASCIIDigits(buf[countFieldOffset : countFieldOffset+countFieldLen])
	if !ok {
		return h, nil, ErrBadCountField
	}

	h.SequenceNumber = seq
	h.MessageCount = int(count)
	h.FirstMsgSize = buf[sizeByteOffset]

	body := buf[headerLen:]
	if n := len(body); n > 0 && body[n-1] == etx {
		body = body[:n-1]
	}
	return h, body, nil
}

func parseASCIIDigits(digits []byte) (int64, bool) {
	var v int64
	for _, b := range digits {
		if b < '0' || b > '9' {
			return 0, false
		}
		v = v*10 + int64(b-'0')
	}
	return v, true
}
